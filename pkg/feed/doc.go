// Package feed implements the incremental fetch controller behind the game
// grid, plus the loader for the featured (hero) carousel.
//
// The controller is a Bubble Tea component. Every state change happens in
// Update on the program's event loop; network work runs in tea.Cmd
// closures whose result messages carry the generation and request id that
// issued them. A result that does not match the controller's current
// stamps is dropped without touching state, so a slow response for an old
// search can never overwrite a newer one.
//
//	ctrl := feed.New(rawgClient, feed.Options{})
//	cmd := ctrl.Init()               // page 1, empty query
//	cmd = ctrl.SetSearchQuery("zel") // debounced 600ms
//	cmd = ctrl.LoadMore()            // next page, if allowed
//	cmd = ctrl.Retry()               // after StatusError
//
// Hosts forward every message to Controller.Update and render
// Controller.Snapshot.
package feed

package feed

import tea "github.com/charmbracelet/bubbletea"

// Drain runs cmd and every command it produces, feeding each message back
// into the controller, until nothing is left. It runs commands one at a
// time and blocks on network and timer work. Use it where no Bubble Tea
// program owns the controller.
func (c *Controller) Drain(cmd tea.Cmd) {
	queue := []tea.Cmd{cmd}
	for len(queue) > 0 {
		next := queue[0]
		queue = queue[1:]
		if next == nil {
			continue
		}

		switch msg := next().(type) {
		case nil:
		case tea.BatchMsg:
			queue = append(queue, msg...)
		default:
			queue = append(queue, c.Update(msg))
		}
	}
}

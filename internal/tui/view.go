package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/murilosilvadacosta6ano-creator/KIRA-AI-Store/pkg/assistant"
	"github.com/murilosilvadacosta6ano-creator/KIRA-AI-Store/pkg/catalog"
	"github.com/murilosilvadacosta6ano-creator/KIRA-AI-Store/pkg/feed"
)

const (
	signalLostTitle = "SIGNAL LOST"
	signalLostBody  = "Unable to retrieve data from the K-AI cloud node."
)

// View implements tea.Model.
func (m Model) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder
	b.WriteString(m.renderTitle())
	b.WriteString("\n")

	switch m.mode {
	case modeDetail:
		b.WriteString(m.renderDetail())
	case modeAssistant:
		b.WriteString(m.renderAssistant())
	default:
		b.WriteString(m.renderHero())
		b.WriteString("\n")
		b.WriteString(m.renderSearch())
		b.WriteString("\n")
		b.WriteString(m.renderGrid())
	}

	b.WriteString("\n")
	b.WriteString(m.renderFooter())
	return b.String()
}

func (m Model) renderTitle() string {
	title := titleBarStyle.Render("K-AI OS // GAMES")
	if m.opts.Version != "" {
		title += versionStyle.Render(" v" + m.opts.Version)
	}
	return title
}

func (m Model) renderHero() string {
	if len(m.heroCards) == 0 {
		return heroStyle.Render(mutedStyle.Render("No featured titles."))
	}

	card := m.heroCards[m.heroIndex]
	width := m.contentWidth()

	dots := make([]string, len(m.heroCards))
	for i := range m.heroCards {
		dots[i] = "○"
		if i == m.heroIndex {
			dots[i] = "●"
		}
	}

	lines := []string{
		heroLabelStyle.Render(card.Label) + "  " + mutedStyle.Render(card.Subtitle),
		heroTitleStyle.Render(truncate(card.Title, width)),
		mutedStyle.Render(truncate(card.Description, width)),
		heroButtonStyle.Render(card.ButtonText) + "  " + mutedStyle.Render(strings.Join(dots, " ")),
	}
	return heroStyle.Render(strings.Join(lines, "\n"))
}

func (m Model) renderSearch() string {
	if m.mode == modeSearch {
		return m.searchInput.View()
	}
	snap := m.feed.Snapshot()
	if snap.PendingQuery == "" {
		return mutedStyle.Render("/ search games")
	}
	return searchLabelStyle.Render("/ ") + snap.PendingQuery
}

func (m Model) renderGrid() string {
	snap := m.feed.Snapshot()

	if snap.Status == feed.StatusError {
		return bannerStyle.Render(
			bannerTitleStyle.Render(signalLostTitle) + "\n" +
				signalLostBody + "\n" +
				mutedStyle.Render(snap.Message+"  [r] reconnect"),
		)
	}

	if snap.NoResults() {
		if snap.Query != "" {
			return mutedStyle.Render(fmt.Sprintf("No results for %q.", snap.Query))
		}
		return mutedStyle.Render("No games available.")
	}

	var b strings.Builder
	end := min(m.offset+m.pageSize, len(snap.Items))
	for i := m.offset; i < end; i++ {
		line := formatRow(snap.Items[i], m.contentWidth())
		if i == m.cursor {
			b.WriteString(cursorRowStyle.Render("▸ " + line))
		} else {
			b.WriteString(rowStyle.Render("  " + line))
		}
		b.WriteString("\n")
	}

	switch snap.Status {
	case feed.StatusLoading:
		b.WriteString(m.spinner.View() + " " + mutedStyle.Render("Loading..."))
	case feed.StatusExhausted:
		b.WriteString(mutedStyle.Render(fmt.Sprintf("End of list (%d games).", len(snap.Items))))
	default:
		b.WriteString(mutedStyle.Render(fmt.Sprintf("%d games", len(snap.Items))))
	}
	return b.String()
}

// formatRow renders one grid line: name, year, genre, rating, metacritic.
func formatRow(g catalog.Game, width int) string {
	meta := fmt.Sprintf("%-4s  %-10s  ★ %.1f", g.Year(), truncate(g.PrimaryGenre(), 10), g.Rating)
	if g.Metacritic > 0 {
		meta += fmt.Sprintf("  MC %d", g.Metacritic)
	}
	nameWidth := max(width-lipgloss.Width(meta)-4, 10)
	return fmt.Sprintf("%-*s  %s", nameWidth, truncate(g.Name, nameWidth), meta)
}

func (m Model) renderDetail() string {
	if m.detail == nil {
		return ""
	}
	g := m.detail
	width := m.contentWidth() - 6

	var b strings.Builder
	b.WriteString(modalTitleStyle.Render(g.Name))
	b.WriteString("\n")

	genres := make([]string, 0, len(g.Genres))
	for _, genre := range g.Genres {
		genres = append(genres, genre.Name)
	}
	platforms := make([]string, 0, 3)
	for _, p := range g.ParentPlatforms {
		if len(platforms) == 3 {
			break
		}
		platforms = append(platforms, p.Platform.Name)
	}

	b.WriteString(mutedStyle.Render(strings.Join(genres, " · ")))
	b.WriteString("\n\n")
	fmt.Fprintf(&b, "Released  %s\n", g.Year())
	fmt.Fprintf(&b, "Rating    ★ %.1f\n", g.Rating)
	if g.Metacritic > 0 {
		fmt.Fprintf(&b, "Metacritic %d\n", g.Metacritic)
	}
	if len(platforms) > 0 {
		fmt.Fprintf(&b, "Platforms %s\n", strings.Join(platforms, ", "))
	}
	b.WriteString("\n")

	switch {
	case m.detailLoading:
		b.WriteString(m.spinner.View() + " " + mutedStyle.Render("Fetching system description..."))
	case g.DescriptionRaw != "":
		b.WriteString(lipgloss.NewStyle().Width(width).Render(truncate(g.DescriptionRaw, width*6)))
	default:
		b.WriteString(lipgloss.NewStyle().Width(width).Render(fmt.Sprintf(
			"Access granted to %s. This title is available for immediate secure installation via authorized K-AI distribution channels.",
			g.Name)))
	}
	b.WriteString("\n\n")

	b.WriteString(modalTitleStyle.Render("Installation sources"))
	b.WriteString("\n")
	for _, s := range g.AvailableStores() {
		fmt.Fprintf(&b, "%-18s %s\n", s.Store.Name, linkStyle.Render(catalog.StoreSearchURL(s.Store, g.Name)))
	}
	if g.Website != "" {
		fmt.Fprintf(&b, "%-18s %s\n", "Website", linkStyle.Render(g.Website))
	}

	return modalStyle.Render(strings.TrimRight(b.String(), "\n"))
}

func (m Model) renderTranscript() string {
	var lines []string
	for _, msg := range m.assistant.History() {
		lines = append(lines, renderChatLine(msg.Role, msg.Text))
	}
	if m.pendingPrompt != "" {
		lines = append(lines, renderChatLine(assistant.RoleUser, m.pendingPrompt))
		lines = append(lines, mutedStyle.Render("K-AI: Processing..."))
	}
	return strings.Join(lines, "\n")
}

func renderChatLine(role assistant.Role, text string) string {
	if role == assistant.RoleUser {
		return userLineStyle.Render("YOU: ") + text
	}
	return systemLineStyle.Render("K-AI: ") + text
}

func (m Model) renderAssistant() string {
	header := modalTitleStyle.Render("K-AI ASSISTANT") + "  " + mutedStyle.Render("ONLINE // V.26")
	return modalStyle.Render(header + "\n\n" + m.transcript.View() + "\n\n" + m.promptInput.View())
}

func (m Model) renderFooter() string {
	var help string
	switch m.mode {
	case modeSearch:
		help = "type to search  enter/esc: done"
	case modeDetail:
		help = "esc: close  q: quit"
	case modeAssistant:
		help = "enter: send  pgup/pgdown: scroll  esc: close"
	default:
		help = "↑/↓: move  enter: details  /: search  tab: next featured  a: assistant  q: quit"
		if m.feed.Status() == feed.StatusError {
			help = "r: reconnect  " + help
		}
	}
	return footerStyle.Render(help)
}

func (m Model) contentWidth() int {
	if m.width <= 0 {
		return 80
	}
	return max(m.width-4, 20)
}

// truncate shortens s to n runes, marking the cut with an ellipsis.
func truncate(s string, n int) string {
	r := []rune(s)
	if n <= 0 || len(r) <= n {
		return s
	}
	if n == 1 {
		return "…"
	}
	return string(r[:n-1]) + "…"
}

package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/lipgloss"

	"github.com/mpetrou/curio/internal/appstate"
	"github.com/mpetrou/curio/internal/store"
)

// styles
var (
	titleStyle  = lipgloss.NewStyle().Bold(true).Underline(true)
	dimStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	errorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("203"))
	kindStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("110"))
	crumbStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	loadingNote = dimStyle.Render("loading...")
)

func (a *App) View() string {
	snap := a.store.Snapshot()

	var body string
	switch appstate.PageNameOf(snap) {
	case appstate.PageExploreRoot:
		body = a.renderRoot(snap)
	case appstate.PageExploreChannel, appstate.PageExploreTopic:
		body = a.renderExplore(snap)
	case appstate.PageExploreContent:
		body = a.renderContent(snap)
	case appstate.PageSearch:
		body = a.renderSearch(snap)
	case appstate.PageContentUnavailable:
		body = a.renderUnavailable(snap)
	default:
		body = a.renderRoot(snap)
	}

	if a.importing {
		body += "\n\n" + a.renderImportPrompt()
	}
	if a.modal != modalNone {
		body += "\n\n" + a.renderModal()
	}
	if msg := appstate.ErrorOf(snap); msg != "" {
		body += "\n" + errorStyle.Render(msg)
	}
	if a.status != "" {
		body += "\n" + a.status
	}
	return body
}

func (a *App) header(snap store.State) string {
	title := appstate.TitleOf(snap)
	if title == "" {
		title = "Curio"
	}
	out := titleStyle.Render(title)
	if appstate.LoadingOf(snap) {
		out += "  " + loadingNote
	}
	return out
}

func (a *App) breadcrumbs() string {
	if a.activeChannel == nil {
		return ""
	}
	parts := []string{a.activeChannel.Name}
	for _, t := range a.topicStack {
		parts = append(parts, t.Title)
	}
	return crumbStyle.Render(strings.Join(parts, " > "))
}

func (a *App) renderRoot(snap store.State) string {
	out := a.header(snap) + "\n"
	if len(a.channels) == 0 {
		out += "No channels yet. Press [i] to import one.\n"
	}
	for i, ch := range a.channels {
		marker := " "
		if i == a.channelCursor {
			marker = "▶"
		}
		out += fmt.Sprintf("%s %-32s %s v%d\n", marker, ch.Name, dimStyle.Render(ch.Language), ch.Version)
	}
	out += "\n" + footer(a.keys.root())
	return out
}

func (a *App) renderExplore(snap store.State) string {
	ps := appstate.PageStateOf(snap)
	out := a.header(snap) + "\n"
	if crumbs := a.breadcrumbs(); crumbs != "" {
		out += crumbs + "\n"
	}
	out += listing(ps, a.cursor)
	out += "\n" + footer(a.keys.browse())
	return out
}

func listing(ps appstate.PageState, cursor int) string {
	if len(ps.Topics) == 0 && len(ps.Contents) == 0 {
		return "(empty)\n"
	}
	var out string
	for i, t := range ps.Topics {
		marker := " "
		if i == cursor {
			marker = "▶"
		}
		out += fmt.Sprintf("%s %s %s\n", marker, t.Title+"/", dimStyle.Render(t.Description))
	}
	for i, c := range ps.Contents {
		marker := " "
		if len(ps.Topics)+i == cursor {
			marker = "▶"
		}
		out += fmt.Sprintf("%s %-40s %s\n", marker, c.Title, kindStyle.Render(c.Kind))
	}
	return out
}

func (a *App) renderContent(snap store.State) string {
	out := a.header(snap) + "\n"
	if crumbs := a.breadcrumbs(); crumbs != "" {
		out += crumbs + "\n"
	}
	c := a.detail
	if c == nil {
		return out + "(no content selected)\n"
	}
	out += "\n" + titleStyle.Render(c.Title) + "  " + kindStyle.Render(c.Kind) + "\n"
	if c.Description != "" {
		out += c.Description + "\n"
	}
	if c.Author != "" {
		out += dimStyle.Render("by "+c.Author) + "\n"
	}
	if a.cfg.UI.ShowLicenses && c.License != "" {
		out += dimStyle.Render("license: "+c.License) + "\n"
	}
	if c.FileSize > 0 {
		out += dimStyle.Render(humanSize(c.FileSize)) + "\n"
	}
	out += "\n[esc] Back  [L] Licenses  [q] Quit"
	return out
}

func (a *App) renderSearch(snap store.State) string {
	ps := appstate.PageStateOf(snap)
	out := a.header(snap) + "\n"
	out += a.searchInput.View() + "\n\n"
	if ps.SearchTerm != "" {
		if len(ps.Topics) == 0 && len(ps.Contents) == 0 {
			out += fmt.Sprintf("No results for %q.\n", ps.SearchTerm)
		} else {
			out += fmt.Sprintf("Results for %q:\n", ps.SearchTerm)
			out += listing(ps, a.cursor)
		}
	}
	out += "\n[enter] Search/Open  [tab] Edit term  [esc] Back  [q] Quit"
	return out
}

func (a *App) renderUnavailable(snap store.State) string {
	out := a.header(snap) + "\n"
	out += "This content item is not available in the local library.\n"
	out += "\n[esc] Back  [q] Quit"
	return out
}

func (a *App) renderImportPrompt() string {
	out := titleStyle.Render("Import channel archive") + "\n"
	out += fmt.Sprintf("Path: %s\n", a.importPath)
	out += dimStyle.Render(fmt.Sprintf("relative paths resolve under %s", a.cfg.Library.ImportDir)) + "\n"
	out += "[enter] Import  [esc] Cancel"
	return out
}

func (a *App) renderModal() string {
	switch a.modal {
	case modalConfirmRemove:
		name := ""
		if a.channelCursor < len(a.channels) {
			name = a.channels[a.channelCursor].Name
		}
		return titleStyle.Render("Remove channel?") + fmt.Sprintf("\n%s and everything under it will be deleted.\n[y] Yes  [n] No", name)
	case modalConfirmReset:
		return titleStyle.Render("Reset library?") + "\nThis will delete every channel.\n[y] Yes  [n] No"
	default:
		return ""
	}
}

func footer(bindings []key.Binding) string {
	parts := make([]string, 0, len(bindings))
	for _, b := range bindings {
		h := b.Help()
		parts = append(parts, fmt.Sprintf("[%s] %s", h.Key, h.Desc))
	}
	return dimStyle.Render(strings.Join(parts, "  "))
}

func humanSize(n int64) string {
	switch {
	case n >= 1<<30:
		return fmt.Sprintf("%.1f GiB", float64(n)/(1<<30))
	case n >= 1<<20:
		return fmt.Sprintf("%.1f MiB", float64(n)/(1<<20))
	case n >= 1<<10:
		return fmt.Sprintf("%.1f KiB", float64(n)/(1<<10))
	default:
		return fmt.Sprintf("%d B", n)
	}
}

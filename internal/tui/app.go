// Package tui renders the channel explorer. All page routing state lives in
// the shared application store; the model here holds only UI chrome
// (cursors, inputs, window size) and writes to the store exclusively
// through committed mutations.
package tui

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/mpetrou/curio/internal/appstate"
	"github.com/mpetrou/curio/internal/config"
	"github.com/mpetrou/curio/internal/database/repository"
	"github.com/mpetrou/curio/internal/prefs"
	"github.com/mpetrou/curio/internal/service"
	"github.com/mpetrou/curio/internal/store"
)

// App ties together views.
type App struct {
	ctx      context.Context
	cfg      config.Config
	repos    Repos
	services Services
	store    *store.Store
	keys     keyMap

	channels      []repository.Channel
	channelCursor int
	activeChannel *repository.Channel
	topicStack    []repository.Topic
	cursor        int
	detail        *repository.Content
	results       []service.SearchResult

	searchInput textinput.Model
	importing   bool
	importPath  string

	modal   modalState
	status  string
	width   int
	height  int
	session prefs.Session
}

type Repos struct {
	Channels *repository.ChannelRepo
	Topics   *repository.TopicRepo
	Contents *repository.ContentRepo
}

type Services struct {
	Library     *service.LibraryService
	Search      *service.SearchService
	Maintenance *service.MaintenanceService
}

type modalState string

const (
	modalNone          modalState = ""
	modalConfirmRemove modalState = "confirmRemove"
	modalConfirmReset  modalState = "confirmReset"
)

func New(ctx context.Context, cfg config.Config, repos Repos, services Services, st *store.Store, session prefs.Session) *App {
	input := textinput.New()
	input.Placeholder = "search this channel"
	input.CharLimit = 120
	input.SetValue(session.SearchTerm)
	return &App{
		ctx:         ctx,
		cfg:         cfg,
		repos:       repos,
		services:    services,
		store:       st,
		keys:        newKeyMap(),
		searchInput: input,
		session:     session,
	}
}

// ActiveChannelID reports the channel being browsed, empty at the library
// root.
func (a *App) ActiveChannelID() string {
	if a.activeChannel == nil {
		return ""
	}
	return a.activeChannel.ID
}

// ActiveLocation reports the channel and topic being browsed, for the
// session watcher. Both are empty at the library root.
func (a *App) ActiveLocation() (channelID, topicID string) {
	if a.activeChannel == nil {
		return "", ""
	}
	if len(a.topicStack) > 0 {
		topicID = a.topicStack[len(a.topicStack)-1].ID
	}
	return a.activeChannel.ID, topicID
}

func (a *App) Init() tea.Cmd {
	cmds := []tea.Cmd{a.loadChannels()}
	if a.session.ChannelID != "" {
		cmds = append(cmds, a.reopenSessionChannel(a.session))
	} else {
		_ = appstate.SetTitle(a.store, "Library")
		_ = appstate.SetPageName(a.store, appstate.PageExploreRoot)
		_ = appstate.SetPageLoading(a.store, false)
	}
	return tea.Batch(cmds...)
}

// commands

func (a *App) loadChannels() tea.Cmd {
	return func() tea.Msg {
		list, err := a.repos.Channels.List(a.ctx)
		if err != nil {
			return errMsg{err}
		}
		return channelsMsg(list)
	}
}

// loadPage fetches the topic/content listing for a location and reports it
// together with the page that should become active.
func (a *App) loadPage(page, channelID string, topicID *string) tea.Cmd {
	return func() tea.Msg {
		topics, err := a.repos.Topics.Children(a.ctx, channelID, topicID)
		if err != nil {
			return errMsg{err}
		}
		contents, err := a.repos.Contents.ListByTopic(a.ctx, channelID, topicID)
		if err != nil {
			return errMsg{err}
		}
		if topics == nil {
			topics = []repository.Topic{}
		}
		if contents == nil {
			contents = []repository.Content{}
		}
		return pageLoadedMsg{page: page, state: appstate.PageState{Topics: topics, Contents: contents}}
	}
}

func (a *App) loadContent(id string) tea.Cmd {
	return func() tea.Msg {
		c, err := a.repos.Contents.Get(a.ctx, id)
		if err != nil {
			return errMsg{err}
		}
		return contentMsg{content: c}
	}
}

func (a *App) runSearch(channelID, term string) tea.Cmd {
	return func() tea.Msg {
		results, err := a.services.Search.Search(a.ctx, channelID, term, a.cfg.UI.PageSize)
		if err != nil {
			return errMsg{err}
		}
		return searchDoneMsg{term: term, results: results}
	}
}

func (a *App) runImport(path string) tea.Cmd {
	return func() tea.Msg {
		f, err := os.Open(path)
		if err != nil {
			return importDoneMsg{err: err}
		}
		defer f.Close()
		res, err := a.services.Library.ImportArchive(a.ctx, f)
		return importDoneMsg{result: res, err: err}
	}
}

func (a *App) removeChannel(id string) tea.Cmd {
	return func() tea.Msg {
		return channelRemovedMsg{err: a.services.Maintenance.RemoveChannel(a.ctx, id)}
	}
}

func (a *App) resetLibrary() tea.Cmd {
	return func() tea.Msg {
		return resetDoneMsg{err: a.services.Maintenance.Reset(a.ctx)}
	}
}

func (a *App) reopenSessionChannel(s prefs.Session) tea.Cmd {
	return func() tea.Msg {
		ch, err := a.repos.Channels.Get(a.ctx, s.ChannelID)
		if err != nil || ch == nil {
			// fall back to the library root
			return statusMsg("")
		}
		msg := channelReopenMsg{channel: *ch}
		if s.TopicID != "" {
			trail, err := a.repos.Topics.Ancestors(a.ctx, s.TopicID)
			if err == nil && len(trail) > 0 && trail[len(trail)-1].ChannelID == ch.ID {
				msg.trail = trail
			}
		}
		return msg
	}
}

type channelReopenMsg struct {
	channel repository.Channel
	trail   []repository.Topic // root to saved topic, empty when none
}

// update

func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch m := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = m.Width
		a.height = m.Height
		return a, nil

	case tea.KeyMsg:
		if a.modal != modalNone {
			return a.handleModalKey(m)
		}
		if a.importing {
			return a.handleImportKey(m)
		}
		if a.page() == appstate.PageSearch {
			return a.handleSearchKey(m)
		}
		return a.handleBrowseKey(m)

	case channelsMsg:
		a.channels = []repository.Channel(m)
		if a.channelCursor >= len(a.channels) {
			a.channelCursor = 0
		}
		return a, nil

	case channelReopenMsg:
		ch := m.channel
		a.activeChannel = &ch
		a.topicStack = m.trail
		if len(m.trail) > 0 {
			top := m.trail[len(m.trail)-1]
			_ = appstate.SetTitle(a.store, top.Title)
			return a, a.loadPage(appstate.PageExploreTopic, ch.ID, &top.ID)
		}
		if a.session.PageName == appstate.PageSearch && strings.TrimSpace(a.session.SearchTerm) != "" {
			_ = appstate.SetTitle(a.store, "Search "+ch.Name)
			_ = appstate.SetPageName(a.store, appstate.PageSearch)
			return a, a.runSearch(ch.ID, a.session.SearchTerm)
		}
		_ = appstate.SetTitle(a.store, ch.Name)
		return a, a.loadPage(appstate.PageExploreChannel, ch.ID, nil)

	case pageLoadedMsg:
		_ = appstate.SetPageState(a.store, m.state)
		_ = appstate.SetPageName(a.store, m.page)
		_ = appstate.SetPageLoading(a.store, false)
		a.cursor = 0
		return a, nil

	case contentMsg:
		_ = appstate.SetPageLoading(a.store, false)
		if m.content == nil {
			_ = appstate.SetPageName(a.store, appstate.PageContentUnavailable)
			return a, nil
		}
		a.detail = m.content
		_ = appstate.SetPageName(a.store, appstate.PageExploreContent)
		return a, nil

	case searchDoneMsg:
		a.results = m.results
		ps := appstate.PageState{Topics: []repository.Topic{}, Contents: []repository.Content{}, SearchTerm: m.term}
		for _, r := range m.results {
			if r.Topic != nil {
				ps.Topics = append(ps.Topics, *r.Topic)
			}
			if r.Content != nil {
				ps.Contents = append(ps.Contents, *r.Content)
			}
		}
		_ = appstate.SetPageState(a.store, ps)
		_ = appstate.SetPageLoading(a.store, false)
		a.cursor = 0
		return a, nil

	case importDoneMsg:
		a.importing = false
		if m.err != nil {
			a.setError("import failed: " + m.err.Error())
			return a, nil
		}
		a.status = importSummary(m.result)
		_ = appstate.SetError(a.store, "")
		return a, a.loadChannels()

	case channelRemovedMsg:
		if m.err != nil {
			a.setError("remove failed: " + m.err.Error())
			return a, nil
		}
		a.status = "channel removed"
		a.activeChannel = nil
		a.topicStack = nil
		_ = appstate.SetTitle(a.store, "Library")
		_ = appstate.SetPageName(a.store, appstate.PageExploreRoot)
		return a, a.loadChannels()

	case resetDoneMsg:
		if m.err != nil {
			a.setError("reset failed: " + m.err.Error())
			return a, nil
		}
		a.status = "library reset"
		a.activeChannel = nil
		a.topicStack = nil
		_ = appstate.SetTitle(a.store, "Library")
		_ = appstate.SetPageName(a.store, appstate.PageExploreRoot)
		return a, a.loadChannels()

	case statusMsg:
		a.status = string(m)
		return a, nil

	case errMsg:
		a.setError(m.err.Error())
		_ = appstate.SetPageLoading(a.store, false)
		return a, nil
	}
	return a, nil
}

func (a *App) page() string {
	return appstate.PageNameOf(a.store.Snapshot())
}

func (a *App) pageState() appstate.PageState {
	return appstate.PageStateOf(a.store.Snapshot())
}

func (a *App) setError(msg string) {
	_ = appstate.SetError(a.store, msg)
	a.status = ""
}

// handleBrowseKey covers the explore pages.
func (a *App) handleBrowseKey(m tea.KeyMsg) (tea.Model, tea.Cmd) {
	page := a.page()

	switch {
	case key.Matches(m, a.keys.Quit):
		return a, tea.Quit

	case key.Matches(m, a.keys.Import):
		a.importing = true
		a.importPath = ""
		a.status = ""
		return a, nil

	case key.Matches(m, a.keys.Search):
		return a.openSearch()

	case key.Matches(m, a.keys.Up):
		if page == appstate.PageExploreRoot {
			if a.channelCursor > 0 {
				a.channelCursor--
			}
		} else if a.cursor > 0 {
			a.cursor--
		}
		return a, nil

	case key.Matches(m, a.keys.Down):
		if page == appstate.PageExploreRoot {
			if a.channelCursor < len(a.channels)-1 {
				a.channelCursor++
			}
		} else {
			ps := a.pageState()
			if a.cursor < len(ps.Topics)+len(ps.Contents)-1 {
				a.cursor++
			}
		}
		return a, nil

	case key.Matches(m, a.keys.Enter):
		return a.openSelection()

	case key.Matches(m, a.keys.Back):
		return a.goBack()

	case key.Matches(m, a.keys.Remove):
		if page == appstate.PageExploreRoot && len(a.channels) > 0 {
			a.modal = modalConfirmRemove
		}
		return a, nil

	case key.Matches(m, a.keys.Reset):
		if page == appstate.PageExploreRoot {
			a.modal = modalConfirmReset
		}
		return a, nil

	case key.Matches(m, a.keys.Licenses):
		a.cfg.UI.ShowLicenses = !a.cfg.UI.ShowLicenses
		if err := config.Save(a.cfg); err != nil {
			a.setError("save settings: " + err.Error())
			return a, nil
		}
		if a.cfg.UI.ShowLicenses {
			a.status = "licenses shown"
		} else {
			a.status = "licenses hidden"
		}
		return a, nil
	}
	return a, nil
}

func (a *App) openSelection() (tea.Model, tea.Cmd) {
	switch a.page() {
	case appstate.PageExploreRoot:
		if len(a.channels) == 0 {
			return a, nil
		}
		ch := a.channels[a.channelCursor]
		a.activeChannel = &ch
		a.topicStack = nil
		_ = appstate.SetTitle(a.store, ch.Name)
		_ = appstate.SetPageLoading(a.store, true)
		return a, a.loadPage(appstate.PageExploreChannel, ch.ID, nil)

	case appstate.PageExploreChannel, appstate.PageExploreTopic, appstate.PageSearch:
		if a.activeChannel == nil {
			return a, nil
		}
		ps := a.pageState()
		if a.cursor < len(ps.Topics) {
			topic := ps.Topics[a.cursor]
			a.topicStack = append(a.topicStack, topic)
			_ = appstate.SetTitle(a.store, topic.Title)
			_ = appstate.SetPageLoading(a.store, true)
			return a, a.loadPage(appstate.PageExploreTopic, a.activeChannel.ID, &topic.ID)
		}
		idx := a.cursor - len(ps.Topics)
		if idx < len(ps.Contents) {
			_ = appstate.SetPageLoading(a.store, true)
			return a, a.loadContent(ps.Contents[idx].ID)
		}
	}
	return a, nil
}

func (a *App) goBack() (tea.Model, tea.Cmd) {
	switch a.page() {
	case appstate.PageExploreContent, appstate.PageContentUnavailable:
		a.detail = nil
		if len(a.topicStack) > 0 {
			_ = appstate.SetPageName(a.store, appstate.PageExploreTopic)
		} else {
			_ = appstate.SetPageName(a.store, appstate.PageExploreChannel)
		}
		return a, nil

	case appstate.PageExploreTopic:
		if a.activeChannel == nil {
			_ = appstate.SetTitle(a.store, "Library")
			_ = appstate.SetPageName(a.store, appstate.PageExploreRoot)
			return a, a.loadChannels()
		}
		// The stack may already be empty: the page name only changes when
		// the in-flight pageLoadedMsg lands, so a second esc can arrive
		// here after the last pop.
		if len(a.topicStack) > 0 {
			a.topicStack = a.topicStack[:len(a.topicStack)-1]
		}
		_ = appstate.SetPageLoading(a.store, true)
		if len(a.topicStack) > 0 {
			parent := a.topicStack[len(a.topicStack)-1]
			_ = appstate.SetTitle(a.store, parent.Title)
			return a, a.loadPage(appstate.PageExploreTopic, a.activeChannel.ID, &parent.ID)
		}
		_ = appstate.SetTitle(a.store, a.activeChannel.Name)
		return a, a.loadPage(appstate.PageExploreChannel, a.activeChannel.ID, nil)

	case appstate.PageExploreChannel:
		a.activeChannel = nil
		a.topicStack = nil
		_ = appstate.SetTitle(a.store, "Library")
		_ = appstate.SetPageName(a.store, appstate.PageExploreRoot)
		return a, a.loadChannels()
	}
	return a, nil
}

func (a *App) openSearch() (tea.Model, tea.Cmd) {
	// Search is scoped to a channel; at the root it targets the highlighted one.
	if a.activeChannel == nil {
		if len(a.channels) == 0 {
			return a, nil
		}
		ch := a.channels[a.channelCursor]
		a.activeChannel = &ch
	}
	a.searchInput.Focus()
	_ = appstate.SetTitle(a.store, "Search "+a.activeChannel.Name)
	_ = appstate.SetPageName(a.store, appstate.PageSearch)
	return a, textinput.Blink
}

func (a *App) handleSearchKey(m tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch m.Type {
	case tea.KeyCtrlC:
		return a, tea.Quit
	case tea.KeyEsc:
		a.searchInput.Blur()
		a.results = nil
		_ = appstate.SetPageLoading(a.store, true)
		if len(a.topicStack) > 0 {
			top := a.topicStack[len(a.topicStack)-1]
			_ = appstate.SetTitle(a.store, top.Title)
			return a, a.loadPage(appstate.PageExploreTopic, a.activeChannel.ID, &top.ID)
		}
		_ = appstate.SetTitle(a.store, a.activeChannel.Name)
		return a, a.loadPage(appstate.PageExploreChannel, a.activeChannel.ID, nil)
	case tea.KeyEnter:
		if a.searchInput.Focused() {
			term := strings.TrimSpace(a.searchInput.Value())
			if term == "" {
				return a, nil
			}
			a.searchInput.Blur()
			_ = appstate.SetPageLoading(a.store, true)
			return a, a.runSearch(a.activeChannel.ID, term)
		}
		return a.openSelection()
	}

	if a.searchInput.Focused() {
		var cmd tea.Cmd
		a.searchInput, cmd = a.searchInput.Update(m)
		return a, cmd
	}

	// results mode: cursor movement, or tab back into the input
	switch m.String() {
	case "up", "k":
		if a.cursor > 0 {
			a.cursor--
		}
	case "down", "j":
		ps := a.pageState()
		if a.cursor < len(ps.Topics)+len(ps.Contents)-1 {
			a.cursor++
		}
	case "/", "tab":
		a.searchInput.Focus()
		return a, textinput.Blink
	case "q":
		return a, tea.Quit
	}
	return a, nil
}

func (a *App) handleImportKey(m tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch m.Type {
	case tea.KeyCtrlC:
		return a, tea.Quit
	case tea.KeyEsc:
		a.importing = false
		return a, nil
	case tea.KeyEnter:
		path := strings.TrimSpace(a.importPath)
		if path == "" {
			a.status = "enter a path"
			return a, nil
		}
		if !strings.HasPrefix(path, "/") && a.cfg.Library.ImportDir != "" {
			path = a.cfg.Library.ImportDir + "/" + path
		}
		a.status = "importing..."
		return a, a.runImport(path)
	case tea.KeyBackspace, tea.KeyCtrlH, tea.KeyDelete:
		if len(a.importPath) > 0 {
			a.importPath = a.importPath[:len(a.importPath)-1]
		}
	case tea.KeySpace:
		a.importPath += " "
	case tea.KeyRunes:
		a.importPath += string(m.Runes)
	}
	return a, nil
}

func (a *App) handleModalKey(m tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch m.String() {
	case "y", "Y":
		modal := a.modal
		a.modal = modalNone
		switch modal {
		case modalConfirmRemove:
			if len(a.channels) == 0 {
				return a, nil
			}
			return a, a.removeChannel(a.channels[a.channelCursor].ID)
		case modalConfirmReset:
			return a, a.resetLibrary()
		}
	case "n", "N", "esc":
		a.modal = modalNone
	}
	return a, nil
}

func importSummary(res service.ImportResult) string {
	summary := fmt.Sprintf("imported %d topics, %d items", res.Topics, res.Contents)
	if len(res.Errors) > 0 {
		summary += fmt.Sprintf(", %d errors (first: %v)", len(res.Errors), res.Errors[0])
	}
	return summary
}

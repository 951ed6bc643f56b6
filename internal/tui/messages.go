package tui

import (
	"github.com/mpetrou/curio/internal/appstate"
	"github.com/mpetrou/curio/internal/database/repository"
	"github.com/mpetrou/curio/internal/service"
)

type channelsMsg []repository.Channel

// pageLoadedMsg carries a freshly loaded page state and the page it belongs
// to. The commit into the store happens in Update, on the program goroutine.
type pageLoadedMsg struct {
	page  string
	state appstate.PageState
}

// contentMsg carries a content detail lookup. A nil content routes to the
// unavailable page.
type contentMsg struct {
	content *repository.Content
}

type searchDoneMsg struct {
	term    string
	results []service.SearchResult
}

type importDoneMsg struct {
	result service.ImportResult
	err    error
}

type channelRemovedMsg struct{ err error }

type resetDoneMsg struct{ err error }

type statusMsg string

type errMsg struct{ err error }

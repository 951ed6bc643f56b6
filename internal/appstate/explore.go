package appstate

import (
	"github.com/mpetrou/curio/internal/database/repository"
	"github.com/mpetrou/curio/internal/store"
)

// State keys owned by the page itself.
const (
	KeyPageName  = "pageName"
	KeyPageState = "pageState"
)

// Page mutation names.
const (
	MutSetPageName  = "SET_PAGE_NAME"
	MutSetPageState = "SET_PAGE_STATE"
)

// PageState is the active page's local state. It is always replaced
// wholesale by SET_PAGE_STATE, never merged field by field: a caller that
// omits a field leaves readers observing its zero value.
type PageState struct {
	Topics     []repository.Topic
	Contents   []repository.Content
	SearchTerm string
}

// EmptyPageState returns the initial page state: empty lists, no term.
func EmptyPageState() PageState {
	return PageState{
		Topics:   []repository.Topic{},
		Contents: []repository.Content{},
	}
}

func initialState() store.State {
	return store.State{
		KeyPageName:  PageExploreChannel,
		KeyPageState: EmptyPageState(),
	}
}

func mutations() map[string]store.Mutation {
	return map[string]store.Mutation{
		// Replaces pageName. No validation: callers supply a known page.
		MutSetPageName: func(s store.State, payload any) {
			s[KeyPageName] = payload
		},
		// Replaces pageState wholesale.
		MutSetPageState: func(s store.State, payload any) {
			s[KeyPageState] = payload
		},
	}
}

// New builds the application store: the page's initial state overlaid with
// the core defaults, and the page mutations overlaid with the core
// mutations. Overlays are applied in that order, so the core module wins
// on any key it shares with the page.
func New() *store.Store {
	return store.New(
		store.Merge(initialState(), CoreState()),
		store.MergeMutations(mutations(), CoreMutations()),
	)
}

// SetPageName commits a page change.
func SetPageName(s *store.Store, name string) error {
	return s.Commit(MutSetPageName, name)
}

// SetPageState commits a wholesale page-state replacement.
func SetPageState(s *store.Store, ps PageState) error {
	return s.Commit(MutSetPageState, ps)
}

// PageNameOf reads the active page from a snapshot.
func PageNameOf(s store.State) string {
	v, _ := s[KeyPageName].(string)
	return v
}

// PageStateOf reads the page state from a snapshot.
func PageStateOf(s store.State) PageState {
	v, _ := s[KeyPageState].(PageState)
	return v
}

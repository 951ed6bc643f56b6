package appstate

import "github.com/mpetrou/curio/internal/store"

// State keys contributed by the core module.
const (
	KeyTitle   = "title"
	KeyLoading = "loading"
	KeyError   = "error"
)

// Core mutation names.
const (
	MutCoreSetTitle       = "CORE_SET_TITLE"
	MutCoreSetPageLoading = "CORE_SET_PAGE_LOADING"
	MutCoreSetError       = "CORE_SET_ERROR"
)

// CoreState returns the default state fields every page store carries.
// Merged after the page's own initial state, so a core value wins when a
// page defines the same key.
func CoreState() store.State {
	return store.State{
		KeyTitle:   "",
		KeyLoading: true,
		KeyError:   "",
	}
}

// CoreMutations returns the mutations shared by every page store.
func CoreMutations() map[string]store.Mutation {
	return map[string]store.Mutation{
		MutCoreSetTitle: func(s store.State, payload any) {
			s[KeyTitle], _ = payload.(string)
		},
		MutCoreSetPageLoading: func(s store.State, payload any) {
			s[KeyLoading], _ = payload.(bool)
		},
		MutCoreSetError: func(s store.State, payload any) {
			s[KeyError], _ = payload.(string)
		},
	}
}

// Typed core setters, the write funnel used by application code.

func SetTitle(s *store.Store, title string) error {
	return s.Commit(MutCoreSetTitle, title)
}

func SetPageLoading(s *store.Store, loading bool) error {
	return s.Commit(MutCoreSetPageLoading, loading)
}

func SetError(s *store.Store, msg string) error {
	return s.Commit(MutCoreSetError, msg)
}

// TitleOf reads the window title from a store or snapshot state.
func TitleOf(s store.State) string {
	v, _ := s[KeyTitle].(string)
	return v
}

// LoadingOf reads the page-loading flag.
func LoadingOf(s store.State) bool {
	v, _ := s[KeyLoading].(bool)
	return v
}

// ErrorOf reads the current error message, empty when none.
func ErrorOf(s store.State) string {
	v, _ := s[KeyError].(string)
	return v
}

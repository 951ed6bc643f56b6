// Package appstate defines the application store: the page-name
// enumeration, the explore page's local state, the core defaults shared by
// every page, and the constructor that merges them into one store.
package appstate

// Page identifiers. The set is closed: navigation code must only ever
// commit one of these, though the mutation itself does not check.
const (
	PageExploreRoot        = "EXPLORE_ROOT"
	PageExploreChannel     = "EXPLORE_CHANNEL"
	PageExploreTopic       = "EXPLORE_TOPIC"
	PageExploreContent     = "EXPLORE_CONTENT"
	PageSearch             = "SEARCH"
	PageContentUnavailable = "CONTENT_UNAVAILABLE"
)

var knownPages = map[string]struct{}{
	PageExploreRoot:        {},
	PageExploreChannel:     {},
	PageExploreTopic:       {},
	PageExploreContent:     {},
	PageSearch:             {},
	PageContentUnavailable: {},
}

// KnownPage reports whether name belongs to the page enumeration.
func KnownPage(name string) bool {
	_, ok := knownPages[name]
	return ok
}

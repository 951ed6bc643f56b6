package appstate

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/mpetrou/curio/internal/database/repository"
	"github.com/mpetrou/curio/internal/store"
)

func TestInitialState(t *testing.T) {
	t.Parallel()

	s := New()
	snap := s.Snapshot()

	require.Equal(t, PageExploreChannel, PageNameOf(snap))
	require.Equal(t, PageState{Topics: []repository.Topic{}, Contents: []repository.Content{}}, PageStateOf(snap))

	// core defaults are present after the overlay
	require.Equal(t, "", TitleOf(snap))
	require.True(t, LoadingOf(snap))
	require.Equal(t, "", ErrorOf(snap))
}

func TestSetPageNameLeavesPageStateAlone(t *testing.T) {
	t.Parallel()

	s := New()
	before := PageStateOf(s.Snapshot())

	require.NoError(t, SetPageName(s, PageSearch))
	snap := s.Snapshot()
	require.Equal(t, PageSearch, PageNameOf(snap))
	require.Equal(t, before, PageStateOf(snap))
}

func TestSetPageStateReplacesWholesale(t *testing.T) {
	t.Parallel()

	s := New()
	ps := PageState{
		Topics:     []repository.Topic{{ID: "t1", ChannelID: "ch", Title: "Physics"}},
		Contents:   []repository.Content{{ID: "c1", ChannelID: "ch", Title: "The pendulum"}},
		SearchTerm: "pend",
	}
	require.NoError(t, SetPageState(s, ps))

	snap := s.Snapshot()
	require.Equal(t, ps, PageStateOf(snap))
	require.Equal(t, PageExploreChannel, PageNameOf(snap))

	// wholesale: a partial replacement zeroes the omitted fields
	require.NoError(t, SetPageState(s, PageState{SearchTerm: "x"}))
	got := PageStateOf(s.Snapshot())
	require.Nil(t, got.Topics)
	require.Nil(t, got.Contents)
	require.Equal(t, "x", got.SearchTerm)
}

func TestSetPageStateIdempotent(t *testing.T) {
	t.Parallel()

	s := New()
	ps := PageState{Topics: []repository.Topic{{ID: "t1"}}, Contents: []repository.Content{}}
	require.NoError(t, SetPageState(s, ps))
	first := s.Snapshot()
	require.NoError(t, SetPageState(s, ps))
	require.Equal(t, first, s.Snapshot())
}

func TestCoreWinsOnSharedKeys(t *testing.T) {
	t.Parallel()

	// the documented overlay order: page state first, core second
	merged := store.Merge(
		store.State{KeyPageName: PageExploreChannel, KeyTitle: "page-owned"},
		CoreState(),
	)
	require.Equal(t, "", merged[KeyTitle])
	require.Equal(t, PageExploreChannel, merged[KeyPageName])
}

func TestCoreMutationsOverlayPageMutations(t *testing.T) {
	t.Parallel()

	shadowed := map[string]store.Mutation{
		MutCoreSetTitle: func(s store.State, _ any) { s[KeyTitle] = "from page" },
	}
	muts := store.MergeMutations(shadowed, CoreMutations())
	s := store.State{}
	muts[MutCoreSetTitle](s, "from core")
	require.Equal(t, "from core", s[KeyTitle])
}

func TestCoreSetters(t *testing.T) {
	t.Parallel()

	s := New()
	require.NoError(t, SetTitle(s, "Physics"))
	require.NoError(t, SetPageLoading(s, false))
	require.NoError(t, SetError(s, "boom"))

	snap := s.Snapshot()
	require.Equal(t, "Physics", TitleOf(snap))
	require.False(t, LoadingOf(snap))
	require.Equal(t, "boom", ErrorOf(snap))
}

func TestPageNavigationScenario(t *testing.T) {
	t.Parallel()

	s := New()
	initial := PageStateOf(s.Snapshot())

	require.NoError(t, SetPageName(s, PageExploreTopic))
	snap := s.Snapshot()
	require.Equal(t, PageExploreTopic, PageNameOf(snap))
	require.Equal(t, initial, PageStateOf(snap))
}

func TestKnownPage(t *testing.T) {
	t.Parallel()

	for _, name := range []string{
		PageExploreRoot, PageExploreChannel, PageExploreTopic,
		PageExploreContent, PageSearch, PageContentUnavailable,
	} {
		require.True(t, KnownPage(name), name)
	}
	require.False(t, KnownPage("SOME_OTHER_PAGE"))

	// the mutation itself does not validate
	s := New()
	require.NoError(t, SetPageName(s, "SOME_OTHER_PAGE"))
	require.Equal(t, "SOME_OTHER_PAGE", PageNameOf(s.Snapshot()))
}

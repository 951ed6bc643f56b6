package tui

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/require"

	"github.com/mpetrou/curio/internal/appstate"
	"github.com/mpetrou/curio/internal/config"
	"github.com/mpetrou/curio/internal/database"
	"github.com/mpetrou/curio/internal/database/repository"
	"github.com/mpetrou/curio/internal/prefs"
	"github.com/mpetrou/curio/internal/service"
	"github.com/mpetrou/curio/internal/testdata"
)

func testApp(t *testing.T) (*App, string) {
	t.Helper()

	db, err := database.Open(filepath.Join(t.TempDir(), "curio.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	require.NoError(t, database.RunMigrations(db))

	repos := Repos{
		Channels: repository.NewChannelRepo(db),
		Topics:   repository.NewTopicRepo(db),
		Contents: repository.NewContentRepo(db),
	}
	chID, err := testdata.Seed(context.Background(), testdata.Repos{
		Channels: repos.Channels, Topics: repos.Topics, Contents: repos.Contents,
	})
	require.NoError(t, err)

	services := Services{
		Library:     &service.LibraryService{Channels: repos.Channels, Topics: repos.Topics, Contents: repos.Contents},
		Search:      &service.SearchService{Topics: repos.Topics, Contents: repos.Contents},
		Maintenance: &service.MaintenanceService{DB: db},
	}
	cfg := config.Config{UI: config.UIConfig{PageSize: 20}}
	app := New(context.Background(), cfg, repos, services, appstate.New(), prefs.Session{})
	return app, chID
}

// drain runs a command tree synchronously, feeding every produced message
// back into Update, the way the bubbletea runtime would.
func drain(t *testing.T, app *App, cmd tea.Cmd) {
	t.Helper()
	if cmd == nil {
		return
	}
	msg := cmd()
	if msg == nil {
		return
	}
	if batch, ok := msg.(tea.BatchMsg); ok {
		for _, c := range batch {
			drain(t, app, c)
		}
		return
	}
	_, next := app.Update(msg)
	drain(t, app, next)
}

func press(t *testing.T, app *App, k tea.KeyMsg) {
	t.Helper()
	_, cmd := app.Update(k)
	drain(t, app, cmd)
}

func runeKey(r rune) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}}
}

func TestInitLandsOnLibraryRoot(t *testing.T) {
	app, _ := testApp(t)

	drain(t, app, app.Init())

	snap := app.store.Snapshot()
	require.Equal(t, appstate.PageExploreRoot, appstate.PageNameOf(snap))
	require.False(t, appstate.LoadingOf(snap))
	require.Equal(t, "Library", appstate.TitleOf(snap))
	require.Len(t, app.channels, 1)
}

func TestEnterOpensChannel(t *testing.T) {
	app, chID := testApp(t)
	drain(t, app, app.Init())

	press(t, app, tea.KeyMsg{Type: tea.KeyEnter})

	snap := app.store.Snapshot()
	require.Equal(t, appstate.PageExploreChannel, appstate.PageNameOf(snap))
	require.Equal(t, chID, app.ActiveChannelID())
	require.Equal(t, "Open Science", appstate.TitleOf(snap))

	ps := appstate.PageStateOf(snap)
	require.Len(t, ps.Topics, 2) // Physics and Biology are the channel roots
	require.Empty(t, ps.Contents)
}

func TestTopicNavigationAndBack(t *testing.T) {
	app, _ := testApp(t)
	drain(t, app, app.Init())
	press(t, app, tea.KeyMsg{Type: tea.KeyEnter}) // into channel

	// open the first root topic (Physics)
	press(t, app, tea.KeyMsg{Type: tea.KeyEnter})
	snap := app.store.Snapshot()
	require.Equal(t, appstate.PageExploreTopic, appstate.PageNameOf(snap))
	require.Equal(t, "Physics", appstate.TitleOf(snap))
	ps := appstate.PageStateOf(snap)
	require.Len(t, ps.Topics, 1) // Waves
	require.Len(t, ps.Contents, 1)

	// deeper: Waves has only contents
	press(t, app, tea.KeyMsg{Type: tea.KeyEnter})
	snap = app.store.Snapshot()
	require.Equal(t, "Waves", appstate.TitleOf(snap))
	ps = appstate.PageStateOf(snap)
	require.Empty(t, ps.Topics)
	require.Len(t, ps.Contents, 2)

	// esc walks back up to the channel, then the library root
	press(t, app, tea.KeyMsg{Type: tea.KeyEsc})
	require.Equal(t, "Physics", appstate.TitleOf(app.store.Snapshot()))
	press(t, app, tea.KeyMsg{Type: tea.KeyEsc})
	require.Equal(t, appstate.PageExploreChannel, app.page())
	press(t, app, tea.KeyMsg{Type: tea.KeyEsc})
	require.Equal(t, appstate.PageExploreRoot, app.page())
	require.Empty(t, app.ActiveChannelID())
}

func TestOpenContentDetail(t *testing.T) {
	app, _ := testApp(t)
	drain(t, app, app.Init())
	press(t, app, tea.KeyMsg{Type: tea.KeyEnter}) // channel
	press(t, app, tea.KeyMsg{Type: tea.KeyEnter}) // Physics

	// cursor past the single topic row lands on "The pendulum"
	press(t, app, runeKey('j'))
	press(t, app, tea.KeyMsg{Type: tea.KeyEnter})

	require.Equal(t, appstate.PageExploreContent, app.page())
	require.NotNil(t, app.detail)
	require.Equal(t, "The pendulum", app.detail.Title)

	// back returns to the topic listing
	press(t, app, tea.KeyMsg{Type: tea.KeyEsc})
	require.Equal(t, appstate.PageExploreTopic, app.page())
	require.Nil(t, app.detail)
}

func TestSearchFlow(t *testing.T) {
	app, _ := testApp(t)
	drain(t, app, app.Init())
	press(t, app, tea.KeyMsg{Type: tea.KeyEnter}) // into channel

	press(t, app, runeKey('/'))
	require.Equal(t, appstate.PageSearch, app.page())
	require.True(t, app.searchInput.Focused())

	for _, r := range "waves" {
		press(t, app, runeKey(r))
	}
	press(t, app, tea.KeyMsg{Type: tea.KeyEnter})

	snap := app.store.Snapshot()
	require.Equal(t, appstate.PageSearch, appstate.PageNameOf(snap))
	ps := appstate.PageStateOf(snap)
	require.Equal(t, "waves", ps.SearchTerm)
	require.Len(t, ps.Topics, 1)
	require.Len(t, ps.Contents, 1)

	// esc leaves search and restores the channel listing
	press(t, app, tea.KeyMsg{Type: tea.KeyEsc})
	snap = app.store.Snapshot()
	require.Equal(t, appstate.PageExploreChannel, appstate.PageNameOf(snap))
	require.Empty(t, appstate.PageStateOf(snap).SearchTerm)
}

func TestMissingContentShowsUnavailablePage(t *testing.T) {
	app, _ := testApp(t)
	drain(t, app, app.Init())

	_, cmd := app.Update(contentMsg{content: nil})
	drain(t, app, cmd)

	require.Equal(t, appstate.PageContentUnavailable, app.page())
}

func TestRemoveChannelFlow(t *testing.T) {
	app, chID := testApp(t)
	drain(t, app, app.Init())

	press(t, app, runeKey('x'))
	require.Equal(t, modalConfirmRemove, app.modal)

	press(t, app, runeKey('y'))
	require.Equal(t, modalNone, app.modal)
	require.Equal(t, appstate.PageExploreRoot, app.page())
	require.Empty(t, app.channels)
	require.Equal(t, "channel removed", app.status)

	ch, err := app.repos.Channels.Get(context.Background(), chID)
	require.NoError(t, err)
	require.Nil(t, ch)
}

func TestResetDeclined(t *testing.T) {
	app, _ := testApp(t)
	drain(t, app, app.Init())

	press(t, app, runeKey('X'))
	require.Equal(t, modalConfirmReset, app.modal)
	press(t, app, runeKey('n'))
	require.Equal(t, modalNone, app.modal)
	require.Len(t, app.channels, 1)
}

func TestImportFlow(t *testing.T) {
	app, _ := testApp(t)
	drain(t, app, app.Init())

	path := filepath.Join(t.TempDir(), "maths.json")
	archive := `{"channel": {"id": "ch-m", "name": "Maths"}, "topics": [{"id": "t", "title": "Algebra"}]}`
	require.NoError(t, os.WriteFile(path, []byte(archive), 0o600))

	press(t, app, runeKey('i'))
	require.True(t, app.importing)
	for _, r := range path {
		press(t, app, runeKey(r))
	}
	press(t, app, tea.KeyMsg{Type: tea.KeyEnter})

	require.False(t, app.importing)
	require.Equal(t, "imported 1 topics, 0 items", app.status)
	require.Len(t, app.channels, 2)
}

func TestImportBadPathReportsError(t *testing.T) {
	app, _ := testApp(t)
	drain(t, app, app.Init())

	press(t, app, runeKey('i'))
	for _, r := range "/no/such/file.json" {
		press(t, app, runeKey(r))
	}
	press(t, app, tea.KeyMsg{Type: tea.KeyEnter})

	require.False(t, app.importing)
	require.Contains(t, appstate.ErrorOf(app.store.Snapshot()), "import failed")
}

func TestBackTwiceDuringTopicLoad(t *testing.T) {
	app, _ := testApp(t)
	drain(t, app, app.Init())
	press(t, app, tea.KeyMsg{Type: tea.KeyEnter}) // into channel
	press(t, app, tea.KeyMsg{Type: tea.KeyEnter}) // into Physics

	// two quick escs; the page name still reads the topic page because the
	// first load command has not delivered its message yet
	_, cmd1 := app.Update(tea.KeyMsg{Type: tea.KeyEsc})
	_, cmd2 := app.Update(tea.KeyMsg{Type: tea.KeyEsc})
	drain(t, app, cmd1)
	drain(t, app, cmd2)

	require.Equal(t, appstate.PageExploreChannel, app.page())
	require.Empty(t, app.topicStack)
}

func TestToggleLicensesPersists(t *testing.T) {
	cfgPath := filepath.Join(t.TempDir(), "config.toml")
	t.Setenv("CURIO_CONFIG", cfgPath)

	app, _ := testApp(t)
	drain(t, app, app.Init())
	press(t, app, tea.KeyMsg{Type: tea.KeyEnter}) // channel
	press(t, app, tea.KeyMsg{Type: tea.KeyEnter}) // Physics
	press(t, app, runeKey('j'))
	press(t, app, tea.KeyMsg{Type: tea.KeyEnter}) // The pendulum

	require.False(t, app.cfg.UI.ShowLicenses)
	press(t, app, runeKey('L'))
	require.True(t, app.cfg.UI.ShowLicenses)
	require.Equal(t, "licenses shown", app.status)

	saved, err := config.Load()
	require.NoError(t, err)
	require.True(t, saved.UI.ShowLicenses)

	press(t, app, runeKey('L'))
	require.False(t, app.cfg.UI.ShowLicenses)
	saved, err = config.Load()
	require.NoError(t, err)
	require.False(t, saved.UI.ShowLicenses)
}

func TestSessionRestoreReopensTopic(t *testing.T) {
	app, chID := testApp(t)

	waves, err := app.repos.Topics.Match(context.Background(), chID, "%Waves%", 1)
	require.NoError(t, err)
	require.Len(t, waves, 1)
	app.session = prefs.Session{PageName: appstate.PageExploreTopic, ChannelID: chID, TopicID: waves[0].ID}

	drain(t, app, app.Init())

	require.Equal(t, appstate.PageExploreTopic, app.page())
	require.Equal(t, "Waves", appstate.TitleOf(app.store.Snapshot()))
	require.Len(t, app.topicStack, 2) // Physics > Waves
	_, topicID := app.ActiveLocation()
	require.Equal(t, waves[0].ID, topicID)
	require.Len(t, appstate.PageStateOf(app.store.Snapshot()).Contents, 2)
}

func TestSessionRestoreReopensSearch(t *testing.T) {
	app, chID := testApp(t)
	app.session = prefs.Session{PageName: appstate.PageSearch, ChannelID: chID, SearchTerm: "waves"}

	drain(t, app, app.Init())

	snap := app.store.Snapshot()
	require.Equal(t, appstate.PageSearch, appstate.PageNameOf(snap))
	require.Equal(t, "waves", appstate.PageStateOf(snap).SearchTerm)
	require.NotEmpty(t, appstate.PageStateOf(snap).Topics)
}

func TestSessionRestoreIgnoresForeignTopic(t *testing.T) {
	app, chID := testApp(t)
	app.session = prefs.Session{PageName: appstate.PageExploreTopic, ChannelID: chID, TopicID: "not-a-topic"}

	drain(t, app, app.Init())

	require.Equal(t, appstate.PageExploreChannel, app.page())
	require.Empty(t, app.topicStack)
}

func TestSessionRestoreReopensChannel(t *testing.T) {
	app, chID := testApp(t)
	app.session = prefs.Session{ChannelID: chID}

	drain(t, app, app.Init())

	require.Equal(t, appstate.PageExploreChannel, app.page())
	require.Equal(t, chID, app.ActiveChannelID())
}

func TestWindowSize(t *testing.T) {
	app, _ := testApp(t)

	_, cmd := app.Update(tea.WindowSizeMsg{Width: 120, Height: 40})
	require.Nil(t, cmd)
	require.Equal(t, 120, app.width)
	require.Equal(t, 40, app.height)
}


package database

import (
	"context"
	"database/sql"

	"github.com/google/uuid"

	"github.com/mpetrou/curio/internal/database/repository"
)

// SeedDefaults installs a small starter channel so a fresh database is
// browsable. It is idempotent and safe to run on every startup.
func SeedDefaults(ctx context.Context, db *sql.DB) error {
	chRepo := repository.NewChannelRepo(db)
	existing, err := chRepo.List(ctx)
	if err == nil && len(existing) > 0 {
		return nil
	}

	id := func(name string) string {
		return uuid.NewSHA1(uuid.NameSpaceOID, []byte("seed:"+name)).String()
	}

	chID := id("channel:getting-started")
	ch := repository.Channel{
		ID:          chID,
		Name:        "Getting Started",
		Description: "A tour of curio: channels, topics, and content items.",
		Language:    "en",
		Version:     1,
	}
	if err := chRepo.Upsert(ctx, ch); err != nil {
		return err
	}

	topicRepo := repository.NewTopicRepo(db)
	contentRepo := repository.NewContentRepo(db)

	basicsID := id("topic:basics")
	importingID := id("topic:importing")
	topics := []repository.Topic{
		{ID: basicsID, ChannelID: chID, Title: "Basics", Description: "Navigating channels and topics.", SortOrder: 0},
		{ID: importingID, ChannelID: chID, Title: "Importing channels", Description: "Bringing your own archives in.", SortOrder: 1},
	}
	for _, t := range topics {
		if err := topicRepo.Upsert(ctx, t); err != nil {
			return err
		}
	}

	contents := []repository.Content{
		{ID: id("content:navigation"), ChannelID: chID, TopicID: &basicsID, Title: "Moving around", Kind: repository.KindDocument,
			Description: "Arrow keys move, enter opens, esc goes back, / searches.", SortOrder: 0},
		{ID: id("content:pages"), ChannelID: chID, TopicID: &basicsID, Title: "Pages", Kind: repository.KindDocument,
			Description: "Every screen is a page; the active page lives in the shared store.", SortOrder: 1},
		{ID: id("content:archives"), ChannelID: chID, TopicID: &importingID, Title: "Channel archives", Kind: repository.KindDocument,
			Description: "Press i and give the path of a .json channel archive to import it.", SortOrder: 0},
	}
	for _, c := range contents {
		if err := contentRepo.Upsert(ctx, c); err != nil {
			return err
		}
	}
	return nil
}

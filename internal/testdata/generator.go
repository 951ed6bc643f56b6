package testdata

import (
	"context"

	"github.com/google/uuid"

	"github.com/mpetrou/curio/internal/database/repository"
)

// Repos bundles repos used by Seed.
type Repos struct {
	Channels *repository.ChannelRepo
	Topics   *repository.TopicRepo
	Contents *repository.ContentRepo
}

// Seed creates a small deterministic sample channel for tests: a science
// channel with two topics and a handful of content items.
func Seed(ctx context.Context, repos Repos) (string, error) {
	id := func(name string) string {
		return uuid.NewSHA1(uuid.NameSpaceOID, []byte("testdata:"+name)).String()
	}

	chID := id("channel:science")
	ch := repository.Channel{
		ID:          chID,
		Name:        "Open Science",
		Description: "Sample science channel for tests.",
		Language:    "en",
		Version:     3,
	}
	if err := repos.Channels.Upsert(ctx, ch); err != nil {
		return "", err
	}

	physicsID := id("topic:physics")
	wavesID := id("topic:waves")
	biologyID := id("topic:biology")
	topics := []repository.Topic{
		{ID: physicsID, ChannelID: chID, Title: "Physics", SortOrder: 0},
		{ID: wavesID, ChannelID: chID, ParentID: &physicsID, Title: "Waves", SortOrder: 0},
		{ID: biologyID, ChannelID: chID, Title: "Biology", SortOrder: 1},
	}
	for _, t := range topics {
		if err := repos.Topics.Upsert(ctx, t); err != nil {
			return "", err
		}
	}

	contents := []repository.Content{
		{ID: id("content:pendulum"), ChannelID: chID, TopicID: &physicsID, Title: "The pendulum", Kind: repository.KindVideo,
			Description: "Period, amplitude, and gravity.", Author: "A. Noether", FileSize: 52_428_800, SortOrder: 0},
		{ID: id("content:interference"), ChannelID: chID, TopicID: &wavesID, Title: "Wave interference", Kind: repository.KindVideo,
			Description: "Constructive and destructive interference.", FileSize: 31_457_280, SortOrder: 0},
		{ID: id("content:doppler"), ChannelID: chID, TopicID: &wavesID, Title: "Doppler effect", Kind: repository.KindExercise,
			Description: "Practice problems on frequency shift.", SortOrder: 1},
		{ID: id("content:cells"), ChannelID: chID, TopicID: &biologyID, Title: "Cells and organelles", Kind: repository.KindDocument,
			Description: "An illustrated overview of the cell.", Author: "R. Franklin", SortOrder: 0},
	}
	for _, c := range contents {
		if err := repos.Contents.Upsert(ctx, c); err != nil {
			return "", err
		}
	}
	return chID, nil
}

package service

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/google/uuid"

	"github.com/mpetrou/curio/internal/database/repository"
)

// LibraryService imports channel archives into the local library.
type LibraryService struct {
	Channels *repository.ChannelRepo
	Topics   *repository.TopicRepo
	Contents *repository.ContentRepo
}

// ImportResult summarizes one archive import.
type ImportResult struct {
	ChannelID string
	Topics    int
	Contents  int
	Errors    []error
}

// archive is the on-disk JSON channel export format.
type archive struct {
	Channel struct {
		ID          string `json:"id"`
		Name        string `json:"name"`
		Description string `json:"description"`
		Language    string `json:"language"`
		Version     int    `json:"version"`
	} `json:"channel"`
	Topics []struct {
		ID          string `json:"id"`
		ParentID    string `json:"parent_id"`
		Title       string `json:"title"`
		Description string `json:"description"`
		SortOrder   int    `json:"sort_order"`
	} `json:"topics"`
	Contents []struct {
		ID          string `json:"id"`
		TopicID     string `json:"topic_id"`
		Title       string `json:"title"`
		Kind        string `json:"kind"`
		Description string `json:"description"`
		Author      string `json:"author"`
		License     string `json:"license"`
		FileSize    int64  `json:"file_size"`
		SortOrder   int    `json:"sort_order"`
	} `json:"contents"`
}

// ImportArchive reads a JSON channel archive and upserts its channel,
// topics, and contents. Bad nodes are collected as errors; the rest of the
// archive still imports. Missing ids are generated.
func (s *LibraryService) ImportArchive(ctx context.Context, r io.Reader) (ImportResult, error) {
	res := ImportResult{}

	var ar archive
	if err := json.NewDecoder(bufio.NewReader(r)).Decode(&ar); err != nil {
		return res, fmt.Errorf("decode archive: %w", err)
	}
	if strings.TrimSpace(ar.Channel.Name) == "" {
		return res, fmt.Errorf("archive: channel name is required")
	}

	chID := strings.TrimSpace(ar.Channel.ID)
	if chID == "" {
		chID = uuid.NewString()
	}
	version := ar.Channel.Version
	if version <= 0 {
		version = 1
	}
	language := strings.TrimSpace(ar.Channel.Language)
	if language == "" {
		language = "en"
	}
	ch := repository.Channel{
		ID:          chID,
		Name:        strings.TrimSpace(ar.Channel.Name),
		Description: ar.Channel.Description,
		Language:    language,
		Version:     version,
	}
	if err := s.Channels.Upsert(ctx, ch); err != nil {
		return res, fmt.Errorf("channel %s: %w", ch.Name, err)
	}
	res.ChannelID = chID

	// Topics first so content rows can reference them. Archive topic order
	// must list parents before children; a forward reference is reported as
	// a node error, matching how unknown topic refs are handled below.
	seen := map[string]bool{}
	for i, t := range ar.Topics {
		title := strings.TrimSpace(t.Title)
		if title == "" {
			res.Errors = append(res.Errors, fmt.Errorf("topic %d: title is required", i))
			continue
		}
		id := strings.TrimSpace(t.ID)
		if id == "" {
			id = uuid.NewString()
		}
		var parent *string
		if p := strings.TrimSpace(t.ParentID); p != "" {
			if !seen[p] {
				res.Errors = append(res.Errors, fmt.Errorf("topic %d (%s): unknown parent %s", i, title, p))
				continue
			}
			parent = &p
		}
		topic := repository.Topic{
			ID:          id,
			ChannelID:   chID,
			ParentID:    parent,
			Title:       title,
			Description: t.Description,
			SortOrder:   t.SortOrder,
		}
		if err := s.Topics.Upsert(ctx, topic); err != nil {
			res.Errors = append(res.Errors, fmt.Errorf("topic %d (%s): %w", i, title, err))
			continue
		}
		seen[id] = true
		res.Topics++
	}

	for i, c := range ar.Contents {
		title := strings.TrimSpace(c.Title)
		if title == "" {
			res.Errors = append(res.Errors, fmt.Errorf("content %d: title is required", i))
			continue
		}
		id := strings.TrimSpace(c.ID)
		if id == "" {
			id = uuid.NewString()
		}
		var topicID *string
		if tid := strings.TrimSpace(c.TopicID); tid != "" {
			if !seen[tid] {
				res.Errors = append(res.Errors, fmt.Errorf("content %d (%s): unknown topic %s", i, title, tid))
				continue
			}
			topicID = &tid
		}
		kind := strings.TrimSpace(c.Kind)
		if kind == "" {
			kind = repository.KindDocument
		}
		content := repository.Content{
			ID:          id,
			ChannelID:   chID,
			TopicID:     topicID,
			Title:       title,
			Kind:        kind,
			Description: c.Description,
			Author:      c.Author,
			License:     c.License,
			FileSize:    c.FileSize,
			SortOrder:   c.SortOrder,
		}
		if err := s.Contents.Upsert(ctx, content); err != nil {
			res.Errors = append(res.Errors, fmt.Errorf("content %d (%s): %w", i, title, err))
			continue
		}
		res.Contents++
	}

	return res, nil
}

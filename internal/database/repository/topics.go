package repository

import (
	"context"
	"database/sql"
)

// TopicRepo handles the topic tree.
type TopicRepo struct {
	db *sql.DB
}

func NewTopicRepo(db *sql.DB) *TopicRepo {
	return &TopicRepo{db: db}
}

func (r *TopicRepo) Upsert(ctx context.Context, t Topic) error {
	_, err := r.db.ExecContext(ctx, `
	INSERT INTO topics(id, channel_id, parent_id, title, description, sort_order)
	VALUES (?, ?, ?, ?, ?, ?)
	ON CONFLICT(id) DO UPDATE SET
	 channel_id=excluded.channel_id,
	 parent_id=excluded.parent_id,
	 title=excluded.title,
	 description=excluded.description,
	 sort_order=excluded.sort_order;
	`, t.ID, t.ChannelID, t.ParentID, t.Title, t.Description, t.SortOrder)
	return err
}

func (r *TopicRepo) Get(ctx context.Context, id string) (*Topic, error) {
	row := r.db.QueryRowContext(ctx, `
	SELECT id, channel_id, parent_id, title, description, sort_order
	FROM topics WHERE id = ?`, id)
	var t Topic
	if err := row.Scan(&t.ID, &t.ChannelID, &t.ParentID, &t.Title, &t.Description, &t.SortOrder); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return &t, nil
}

// Children lists the topics directly under parentID within a channel.
// A nil parentID selects the channel's root topics.
func (r *TopicRepo) Children(ctx context.Context, channelID string, parentID *string) ([]Topic, error) {
	var (
		rows *sql.Rows
		err  error
	)
	if parentID == nil {
		rows, err = r.db.QueryContext(ctx, `
		SELECT id, channel_id, parent_id, title, description, sort_order
		FROM topics WHERE channel_id = ? AND parent_id IS NULL
		ORDER BY sort_order, title`, channelID)
	} else {
		rows, err = r.db.QueryContext(ctx, `
		SELECT id, channel_id, parent_id, title, description, sort_order
		FROM topics WHERE channel_id = ? AND parent_id = ?
		ORDER BY sort_order, title`, channelID, *parentID)
	}
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanTopics(rows)
}

// Ancestors returns the chain from the root topic down to id, inclusive.
// A single recursive query instead of walking parent pointers row by row.
func (r *TopicRepo) Ancestors(ctx context.Context, id string) ([]Topic, error) {
	rows, err := r.db.QueryContext(ctx, `
	WITH RECURSIVE chain(id, channel_id, parent_id, title, description, sort_order, depth) AS (
	  SELECT id, channel_id, parent_id, title, description, sort_order, 0
	  FROM topics WHERE id = ?
	  UNION ALL
	  SELECT t.id, t.channel_id, t.parent_id, t.title, t.description, t.sort_order, chain.depth + 1
	  FROM topics t JOIN chain ON t.id = chain.parent_id
	)
	SELECT id, channel_id, parent_id, title, description, sort_order
	FROM chain ORDER BY depth DESC`, id)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanTopics(rows)
}

func (r *TopicRepo) CountByChannel(ctx context.Context, channelID string) (int, error) {
	var n int
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM topics WHERE channel_id = ?`, channelID).Scan(&n)
	return n, err
}

// Match lists topics in a channel whose title matches the LIKE pattern.
// Backslash escapes the LIKE metacharacters in the pattern.
func (r *TopicRepo) Match(ctx context.Context, channelID, pattern string, limit int) ([]Topic, error) {
	rows, err := r.db.QueryContext(ctx, `
	SELECT id, channel_id, parent_id, title, description, sort_order
	FROM topics WHERE channel_id = ? AND title LIKE ? ESCAPE '\'
	ORDER BY title LIMIT ?`, channelID, pattern, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanTopics(rows)
}

func scanTopics(rows *sql.Rows) ([]Topic, error) {
	var out []Topic
	for rows.Next() {
		var t Topic
		if err := rows.Scan(&t.ID, &t.ChannelID, &t.ParentID, &t.Title, &t.Description, &t.SortOrder); err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

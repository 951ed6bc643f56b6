package repository

import (
	"context"
	"database/sql"
)

// ContentRepo handles content items.
type ContentRepo struct {
	db *sql.DB
}

func NewContentRepo(db *sql.DB) *ContentRepo {
	return &ContentRepo{db: db}
}

func (r *ContentRepo) Upsert(ctx context.Context, c Content) error {
	_, err := r.db.ExecContext(ctx, `
	INSERT INTO contents(id, channel_id, topic_id, title, kind, description, author, license, file_size, sort_order)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	ON CONFLICT(id) DO UPDATE SET
	 channel_id=excluded.channel_id,
	 topic_id=excluded.topic_id,
	 title=excluded.title,
	 kind=excluded.kind,
	 description=excluded.description,
	 author=excluded.author,
	 license=excluded.license,
	 file_size=excluded.file_size,
	 sort_order=excluded.sort_order;
	`, c.ID, c.ChannelID, c.TopicID, c.Title, c.Kind, c.Description, c.Author, c.License, c.FileSize, c.SortOrder)
	return err
}

func (r *ContentRepo) Get(ctx context.Context, id string) (*Content, error) {
	row := r.db.QueryRowContext(ctx, `
	SELECT id, channel_id, topic_id, title, kind, description, author, license, file_size, sort_order
	FROM contents WHERE id = ?`, id)
	var c Content
	if err := row.Scan(&c.ID, &c.ChannelID, &c.TopicID, &c.Title, &c.Kind, &c.Description, &c.Author, &c.License, &c.FileSize, &c.SortOrder); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return &c, nil
}

// ListByTopic lists items under a topic. A nil topicID selects items at the
// channel root.
func (r *ContentRepo) ListByTopic(ctx context.Context, channelID string, topicID *string) ([]Content, error) {
	var (
		rows *sql.Rows
		err  error
	)
	if topicID == nil {
		rows, err = r.db.QueryContext(ctx, `
		SELECT id, channel_id, topic_id, title, kind, description, author, license, file_size, sort_order
		FROM contents WHERE channel_id = ? AND topic_id IS NULL
		ORDER BY sort_order, title`, channelID)
	} else {
		rows, err = r.db.QueryContext(ctx, `
		SELECT id, channel_id, topic_id, title, kind, description, author, license, file_size, sort_order
		FROM contents WHERE channel_id = ? AND topic_id = ?
		ORDER BY sort_order, title`, channelID, *topicID)
	}
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanContents(rows)
}

func (r *ContentRepo) CountByChannel(ctx context.Context, channelID string) (int, error) {
	var n int
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM contents WHERE channel_id = ?`, channelID).Scan(&n)
	return n, err
}

// Match lists content items in a channel whose title or description matches
// the LIKE pattern.
func (r *ContentRepo) Match(ctx context.Context, channelID, pattern string, limit int) ([]Content, error) {
	rows, err := r.db.QueryContext(ctx, `
	SELECT id, channel_id, topic_id, title, kind, description, author, license, file_size, sort_order
	FROM contents WHERE channel_id = ? AND (title LIKE ? ESCAPE '\' OR description LIKE ? ESCAPE '\')
	ORDER BY title LIMIT ?`, channelID, pattern, pattern, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanContents(rows)
}

func scanContents(rows *sql.Rows) ([]Content, error) {
	var out []Content
	for rows.Next() {
		var c Content
		if err := rows.Scan(&c.ID, &c.ChannelID, &c.TopicID, &c.Title, &c.Kind, &c.Description, &c.Author, &c.License, &c.FileSize, &c.SortOrder); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

package repository

import (
	"context"
	"database/sql"
)

// ChannelRepo handles channels.
type ChannelRepo struct {
	db *sql.DB
}

func NewChannelRepo(db *sql.DB) *ChannelRepo {
	return &ChannelRepo{db: db}
}

func (r *ChannelRepo) Upsert(ctx context.Context, c Channel) error {
	_, err := r.db.ExecContext(ctx, `
	INSERT INTO channels(id, name, description, language, version, created_at, updated_at)
	VALUES (?, ?, ?, ?, ?, CURRENT_TIMESTAMP, CURRENT_TIMESTAMP)
	ON CONFLICT(id) DO UPDATE SET
	 name=excluded.name,
	 description=excluded.description,
	 language=excluded.language,
	 version=excluded.version,
	 updated_at=CURRENT_TIMESTAMP;
	`, c.ID, c.Name, c.Description, c.Language, c.Version)
	return err
}

func (r *ChannelRepo) Get(ctx context.Context, id string) (*Channel, error) {
	row := r.db.QueryRowContext(ctx, `
	SELECT id, name, description, language, version, created_at, updated_at
	FROM channels WHERE id = ?`, id)
	var c Channel
	if err := row.Scan(&c.ID, &c.Name, &c.Description, &c.Language, &c.Version, &c.CreatedAt, &c.UpdatedAt); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return &c, nil
}

func (r *ChannelRepo) List(ctx context.Context) ([]Channel, error) {
	rows, err := r.db.QueryContext(ctx, `
	SELECT id, name, description, language, version, created_at, updated_at
	FROM channels ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []Channel
	for rows.Next() {
		var c Channel
		if err := rows.Scan(&c.ID, &c.Name, &c.Description, &c.Language, &c.Version, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func (r *ChannelRepo) Delete(ctx context.Context, id string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM channels WHERE id = ?`, id)
	return err
}

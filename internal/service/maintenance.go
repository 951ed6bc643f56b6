package service

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/mpetrou/curio/internal/database"
)

// MaintenanceService houses destructive/ops actions surfaced through the TUI.
type MaintenanceService struct {
	DB *sql.DB
}

// RemoveChannel deletes a channel and everything under it.
func (s *MaintenanceService) RemoveChannel(ctx context.Context, channelID string) error {
	if s.DB == nil {
		return fmt.Errorf("maintenance: db not configured")
	}
	return database.WithTx(s.DB, func(tx *sql.Tx) error {
		// contents and topics cascade from the channel row, but delete
		// explicitly so the operation works with foreign keys off too.
		for _, stmt := range []string{
			"DELETE FROM contents WHERE channel_id = ?",
			"DELETE FROM topics WHERE channel_id = ?",
			"DELETE FROM channels WHERE id = ?",
		} {
			if _, err := tx.ExecContext(ctx, stmt, channelID); err != nil {
				return fmt.Errorf("remove channel: %w", err)
			}
		}
		return nil
	})
}

// Reset wipes the whole library. It keeps the schema intact so the app can
// continue running.
func (s *MaintenanceService) Reset(ctx context.Context) error {
	if s.DB == nil {
		return fmt.Errorf("maintenance: db not configured")
	}
	if err := database.WithTx(s.DB, func(tx *sql.Tx) error {
		tables := []string{
			"contents",
			"topics",
			"channels",
		}
		for _, t := range tables {
			if _, err := tx.ExecContext(ctx, "DELETE FROM "+t); err != nil {
				return fmt.Errorf("reset table %s: %w", t, err)
			}
		}
		return nil
	}); err != nil {
		return err
	}
	_, _ = s.DB.ExecContext(ctx, "VACUUM")
	return nil
}

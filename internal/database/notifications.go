package database

import (
	"fmt"

	"app-update-bot/internal/types"

	log "github.com/sirupsen/logrus"
)

// Journal stores delivered notifications. It is an audit trail only; the
// monitored state is never restored from it.
type Journal struct{}

// SaveNotification records a delivered notification
func (Journal) SaveNotification(source, identity, text string) error {
	query := `
	INSERT INTO notifications (source, identity, text)
	VALUES (?, ?, ?);`

	_, err := DB.Exec(query, source, identity, text)
	if err != nil {
		return fmt.Errorf("failed to insert notification: %w", err)
	}

	log.Debugf("Notification saved: Source: %s, Identity: %s", source, identity)
	return nil
}

// RecentNotifications returns the latest notifications, newest first
func (Journal) RecentNotifications(limit int) ([]types.SentNotification, error) {
	query := `SELECT id, source, identity, text, sent_at FROM notifications ORDER BY id DESC LIMIT ?;`

	rows, err := DB.Query(query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query notifications: %w", err)
	}
	defer rows.Close()

	var notifications []types.SentNotification
	for rows.Next() {
		var n types.SentNotification
		if err := rows.Scan(&n.ID, &n.Source, &n.Identity, &n.Text, &n.SentAt); err != nil {
			return nil, fmt.Errorf("failed to scan row: %w", err)
		}
		notifications = append(notifications, n)
	}

	return notifications, rows.Err()
}

// Package store persists monitored channels and generated digests in
// Postgres. Expected tables (schema management is handled out of band):
//
//	monitored_channels(id serial primary key, channel_username text unique,
//	    channel_title text, is_active boolean, added_at timestamptz,
//	    last_checked timestamptz)
//	news_digests(id uuid primary key, digest_type text, is_scheduled boolean,
//	    content text, message_count integer, created_at timestamptz)
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "github.com/lib/pq"
)

type Store struct {
	DB *sql.DB
}

// Channel is a monitored feed channel. Removal is a soft delete via
// is_active so history and titles survive re-adding.
type Channel struct {
	ID          int64
	Username    string
	Title       string
	IsActive    bool
	AddedAt     time.Time
	LastChecked *time.Time
}

// DigestKind selects one of the two prompt templates.
type DigestKind string

const (
	DigestBrief DigestKind = "brief"
	DigestFull  DigestKind = "full"
)

// Digest is a generated summary, never mutated after creation.
type Digest struct {
	ID           string
	Kind         DigestKind
	Scheduled    bool
	Content      string
	MessageCount int
	CreatedAt    time.Time
}

func New(connString string) (*Store, error) {
	db, err := sql.Open("postgres", connString)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("ping postgres: %w", err)
	}
	return &Store{DB: db}, nil
}

// ListActiveChannels returns active channels in insertion order.
func (s *Store) ListActiveChannels(ctx context.Context) ([]Channel, error) {
	rows, err := s.DB.QueryContext(ctx,
		`SELECT id, channel_username, COALESCE(channel_title,''), is_active, added_at, last_checked
		 FROM monitored_channels WHERE is_active = TRUE ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Channel
	for rows.Next() {
		var c Channel
		var lastChecked sql.NullTime
		if err := rows.Scan(&c.ID, &c.Username, &c.Title, &c.IsActive, &c.AddedAt, &lastChecked); err != nil {
			return nil, err
		}
		if lastChecked.Valid {
			t := lastChecked.Time
			c.LastChecked = &t
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

// AddChannel inserts a channel or reactivates an existing row, keeping the
// freshest title.
func (s *Store) AddChannel(ctx context.Context, username, title string) (Channel, error) {
	var c Channel
	err := s.DB.QueryRowContext(ctx,
		`INSERT INTO monitored_channels (channel_username, channel_title, is_active, added_at)
		 VALUES ($1, $2, TRUE, NOW())
		 ON CONFLICT (channel_username)
		 DO UPDATE SET is_active = TRUE, channel_title = EXCLUDED.channel_title
		 RETURNING id, channel_username, COALESCE(channel_title,''), is_active, added_at`,
		username, title).Scan(&c.ID, &c.Username, &c.Title, &c.IsActive, &c.AddedAt)
	if err != nil {
		return Channel{}, fmt.Errorf("add channel %s: %w", username, err)
	}
	return c, nil
}

// RemoveChannel soft-deletes a channel. Returns false when the channel was
// not present or already inactive.
func (s *Store) RemoveChannel(ctx context.Context, username string) (bool, error) {
	res, err := s.DB.ExecContext(ctx,
		`UPDATE monitored_channels SET is_active = FALSE
		 WHERE channel_username = $1 AND is_active = TRUE`, username)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// DeactivateAllChannels clears the monitoring list, returning how many
// channels were active.
func (s *Store) DeactivateAllChannels(ctx context.Context) (int64, error) {
	res, err := s.DB.ExecContext(ctx,
		`UPDATE monitored_channels SET is_active = FALSE WHERE is_active = TRUE`)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

// TouchChannel records when a channel was last fetched.
func (s *Store) TouchChannel(ctx context.Context, username string, at time.Time) error {
	_, err := s.DB.ExecContext(ctx,
		`UPDATE monitored_channels SET last_checked = $2 WHERE channel_username = $1`,
		username, at)
	return err
}

// SaveDigest persists a generated digest.
func (s *Store) SaveDigest(ctx context.Context, d Digest) error {
	_, err := s.DB.ExecContext(ctx,
		`INSERT INTO news_digests (id, digest_type, is_scheduled, content, message_count, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6)`,
		d.ID, string(d.Kind), d.Scheduled, d.Content, d.MessageCount, d.CreatedAt)
	if err != nil {
		return fmt.Errorf("save digest: %w", err)
	}
	return nil
}

// ListDigests returns the most recent digests, newest first.
func (s *Store) ListDigests(ctx context.Context, limit int) ([]Digest, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := s.DB.QueryContext(ctx,
		`SELECT id, digest_type, is_scheduled, content, message_count, created_at
		 FROM news_digests ORDER BY created_at DESC LIMIT $1`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Digest
	for rows.Next() {
		var d Digest
		var kind string
		if err := rows.Scan(&d.ID, &kind, &d.Scheduled, &d.Content, &d.MessageCount, &d.CreatedAt); err != nil {
			return nil, err
		}
		d.Kind = DigestKind(kind)
		out = append(out, d)
	}
	return out, rows.Err()
}

// LatestDigestTime returns the creation time of the newest digest, or
// sql.ErrNoRows mapped to a zero time.
func (s *Store) LatestDigestTime(ctx context.Context) (time.Time, error) {
	var t time.Time
	err := s.DB.QueryRowContext(ctx,
		`SELECT created_at FROM news_digests ORDER BY created_at DESC LIMIT 1`).Scan(&t)
	if errors.Is(err, sql.ErrNoRows) {
		return time.Time{}, nil
	}
	return t, err
}

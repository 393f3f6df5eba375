package repository

import (
	"context"
	"fmt"
	"time"

	"hotelsearch/internal/model"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

// Schema creates the audit tables when they do not exist
const Schema = `
CREATE TABLE IF NOT EXISTS search_logs (
	id               UUID PRIMARY KEY,
	source           TEXT NOT NULL,
	location         TEXT NOT NULL DEFAULT '',
	latitude         DOUBLE PRECISION NOT NULL,
	longitude        DOUBLE PRECISION NOT NULL,
	arrival_date     DATE NOT NULL,
	departure_date   DATE NOT NULL,
	adults           INTEGER NOT NULL,
	rooms            INTEGER NOT NULL,
	currency         CHAR(3) NOT NULL,
	max_distance_km  DOUBLE PRECISION NOT NULL,
	outcome          TEXT NOT NULL,
	result_count     INTEGER NOT NULL,
	hotel_ids        BIGINT[] NOT NULL DEFAULT '{}',
	response_time_ms INTEGER NOT NULL,
	created_at       TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE TABLE IF NOT EXISTS conversation_history (
	id         BIGSERIAL PRIMARY KEY,
	session_id TEXT NOT NULL,
	role       TEXT NOT NULL,
	content    TEXT NOT NULL,
	created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE INDEX IF NOT EXISTS idx_conversation_history_session ON conversation_history (session_id, id);
`

// PostgresRepository stores search and conversation audit records
type PostgresRepository struct {
	db *sqlx.DB
}

// NewPostgresRepository connects to PostgreSQL and configures the pool
func NewPostgresRepository(dsn string, maxConn, maxIdleConn int) (*PostgresRepository, error) {
	db, err := sqlx.Connect("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	db.SetMaxOpenConns(maxConn)
	db.SetMaxIdleConns(maxIdleConn)
	db.SetConnMaxLifetime(5 * time.Minute)
	db.SetConnMaxIdleTime(2 * time.Minute)

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &PostgresRepository{db: db}, nil
}

// NewPostgresRepositoryWithDB wraps an existing handle
func NewPostgresRepositoryWithDB(db *sqlx.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// Close closes the database connection
func (r *PostgresRepository) Close() error {
	return r.db.Close()
}

// Migrate applies Schema
func (r *PostgresRepository) Migrate(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, Schema); err != nil {
		return fmt.Errorf("failed to apply schema: %w", err)
	}
	return nil
}

// LogSearch records one search and its outcome
func (r *PostgresRepository) LogSearch(ctx context.Context, entry *model.SearchLog) error {
	query := `
		INSERT INTO search_logs (
			id, source, location, latitude, longitude, arrival_date, departure_date,
			adults, rooms, currency, max_distance_km, outcome, result_count, hotel_ids, response_time_ms
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
	`
	_, err := r.db.ExecContext(ctx, query,
		entry.ID, entry.Source, entry.Location, entry.Latitude, entry.Longitude,
		entry.ArrivalDate, entry.DepartureDate, entry.Adults, entry.Rooms, entry.Currency,
		entry.MaxDistanceKm, entry.Outcome, entry.ResultCount, pq.Array(entry.HotelIDs), entry.ResponseTimeMs,
	)
	if err != nil {
		return fmt.Errorf("failed to insert search log: %w", err)
	}
	return nil
}

// LogTurn appends one message to a session's conversation history
func (r *PostgresRepository) LogTurn(ctx context.Context, entry *model.ConversationEntry) error {
	query := `INSERT INTO conversation_history (session_id, role, content, created_at) VALUES ($1, $2, $3, $4)`
	if _, err := r.db.ExecContext(ctx, query, entry.SessionID, entry.Role, entry.Content, entry.CreatedAt); err != nil {
		return fmt.Errorf("failed to insert conversation entry: %w", err)
	}
	return nil
}

// ConversationHistory returns the last limit messages of a session, oldest first
func (r *PostgresRepository) ConversationHistory(ctx context.Context, sessionID string, limit int) ([]model.ConversationEntry, error) {
	query := `
		SELECT session_id, role, content, created_at FROM (
			SELECT id, session_id, role, content, created_at
			FROM conversation_history
			WHERE session_id = $1
			ORDER BY id DESC
			LIMIT $2
		) recent
		ORDER BY id ASC
	`
	var entries []model.ConversationEntry
	if err := r.db.SelectContext(ctx, &entries, query, sessionID, limit); err != nil {
		return nil, fmt.Errorf("failed to load conversation history: %w", err)
	}
	return entries, nil
}

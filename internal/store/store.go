package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "github.com/lib/pq"
)

// Sentinel errors surfaced to handlers.
var (
	ErrSessionNotFound = errors.New("session not found or expired")
	ErrUserNotFound    = errors.New("user not found")
)

// Store reads user accounts, Google OAuth credentials and dashboard
// sessions from Postgres. The schema is owned by the dashboard (NextAuth
// style users/accounts/sessions tables); this service is a read-mostly
// consumer with a single write path for phone number updates.
type Store struct {
	db *sql.DB
}

// New wraps an existing database handle.
func New(db *sql.DB) *Store {
	return &Store{db: db}
}

// Open connects to Postgres and verifies the connection.
func Open(ctx context.Context, databaseURL string) (*Store, error) {
	db, err := sql.Open("postgres", databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	db.SetMaxOpenConns(10)
	db.SetConnMaxIdleTime(5 * time.Minute)

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &Store{db: db}, nil
}

// Close releases the underlying connection pool.
func (s *Store) Close() error {
	return s.db.Close()
}

// Ping reports whether the database is reachable.
func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// ListEligibleUsers returns every user with a stored phone number and at
// least one Google account carrying an access or refresh token. One
// credential row per user (the first account by insertion order), matching
// the dashboard's single-Google-account model. Scope and expiry are NOT
// checked here; the dispatcher validates them per user.
func (s *Store) ListEligibleUsers(ctx context.Context) ([]EligibleUser, error) {
	const query = `
		SELECT DISTINCT ON (u.id)
			u.id, u.email, u."phoneNumber",
			COALESCE(a.access_token, ''),
			COALESCE(a.refresh_token, ''),
			COALESCE(a.expires_at, 0),
			COALESCE(a.scope, '')
		FROM users u
		JOIN accounts a ON a."userId" = u.id
		WHERE u."phoneNumber" IS NOT NULL
		  AND a.provider = 'google'
		  AND (a.access_token IS NOT NULL OR a.refresh_token IS NOT NULL)
		ORDER BY u.id, a.id
	`

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query eligible users: %w", err)
	}
	defer rows.Close()

	var users []EligibleUser
	for rows.Next() {
		var u EligibleUser
		if err := rows.Scan(
			&u.ID,
			&u.Email,
			&u.PhoneNumber,
			&u.Credential.AccessToken,
			&u.Credential.RefreshToken,
			&u.Credential.ExpiresAt,
			&u.Credential.Scope,
		); err != nil {
			return nil, fmt.Errorf("failed to scan eligible user: %w", err)
		}
		users = append(users, u)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate eligible users: %w", err)
	}

	return users, nil
}

// CredentialByEmail returns the Google credential for a single user, used
// by the read-only preview path.
func (s *Store) CredentialByEmail(ctx context.Context, email string) (Credential, error) {
	const query = `
		SELECT
			COALESCE(a.access_token, ''),
			COALESCE(a.refresh_token, ''),
			COALESCE(a.expires_at, 0),
			COALESCE(a.scope, '')
		FROM users u
		JOIN accounts a ON a."userId" = u.id
		WHERE u.email = $1 AND a.provider = 'google'
		ORDER BY a.id
		LIMIT 1
	`

	var c Credential
	err := s.db.QueryRowContext(ctx, query, email).Scan(
		&c.AccessToken,
		&c.RefreshToken,
		&c.ExpiresAt,
		&c.Scope,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return Credential{}, ErrUserNotFound
	}
	if err != nil {
		return Credential{}, fmt.Errorf("failed to query credential: %w", err)
	}

	return c, nil
}

// UserBySessionToken resolves a dashboard session token to its user.
// Expired sessions are treated as not found; session issuance and renewal
// stay with the dashboard.
func (s *Store) UserBySessionToken(ctx context.Context, token string) (*User, error) {
	const query = `
		SELECT u.id, u.email, COALESCE(u."phoneNumber", '')
		FROM sessions s
		JOIN users u ON u.id = s."userId"
		WHERE s."sessionToken" = $1 AND s.expires > NOW()
	`

	var u User
	err := s.db.QueryRowContext(ctx, query, token).Scan(&u.ID, &u.Email, &u.PhoneNumber)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrSessionNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query session: %w", err)
	}

	return &u, nil
}

// UpdatePhoneNumber stores a new phone number for the user identified by
// email and returns the updated row. The number must already be validated
// as E.164 by the caller.
func (s *Store) UpdatePhoneNumber(ctx context.Context, email, phoneNumber string) (*User, error) {
	const query = `
		UPDATE users
		SET "phoneNumber" = $2
		WHERE email = $1
		RETURNING id, email, "phoneNumber"
	`

	var u User
	err := s.db.QueryRowContext(ctx, query, email, phoneNumber).Scan(&u.ID, &u.Email, &u.PhoneNumber)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to update phone number: %w", err)
	}

	return &u, nil
}

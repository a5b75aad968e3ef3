package limiter

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// PG keeps login attempts in the login_attempts table so every server replica sees the
// same counters. Timestamps come from the limiter clock, not the database.
type PG struct {
	pool   pgxQuerier
	policy Policy
	now    func() time.Time
}

type pgxQuerier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// NewPG constructs a PostgreSQL-backed limiter over a pool or a test double.
func NewPG(q pgxQuerier, p Policy) *PG {
	return &PG{pool: q, policy: p, now: time.Now}
}

const (
	sqlAttemptBlockedUntil = `SELECT blocked_until FROM login_attempts WHERE username = $1 AND ip_hash = $2`

	sqlAttemptReset = `
INSERT INTO login_attempts (username, ip_hash, fail_count, blocked_until, updated_at)
VALUES ($1, $2, 0, 'epoch', $3)
ON CONFLICT (username, ip_hash)
DO UPDATE SET fail_count = 0, blocked_until = 'epoch', updated_at = $3`

	// a failure older than the window restarts the count at one
	sqlAttemptFail = `
INSERT INTO login_attempts (username, ip_hash, fail_count, blocked_until, updated_at)
VALUES ($1, $2, 1, 'epoch', $3)
ON CONFLICT (username, ip_hash) DO UPDATE SET
  fail_count = CASE
    WHEN $3::timestamptz - login_attempts.updated_at > $4::interval THEN 1
    ELSE login_attempts.fail_count + 1
  END,
  updated_at = $3
RETURNING fail_count`

	sqlAttemptBlock = `UPDATE login_attempts SET blocked_until = $3 WHERE username = $1 AND ip_hash = $2`
)

// Allow reports whether login is currently allowed and a retry-after duration.
func (l *PG) Allow(ctx context.Context, username string, ipHash []byte) (bool, time.Duration, error) {
	var blockedUntil time.Time
	err := l.pool.QueryRow(ctx, sqlAttemptBlockedUntil, username, ipHash).Scan(&blockedUntil)
	if errors.Is(err, pgx.ErrNoRows) {
		return true, 0, nil
	}
	if err != nil {
		return false, 0, err
	}
	if now := l.now(); blockedUntil.After(now) {
		return false, blockedUntil.Sub(now), nil
	}
	return true, 0, nil
}

// Success resets counters for (username, ip).
func (l *PG) Success(ctx context.Context, username string, ipHash []byte) error {
	_, err := l.pool.Exec(ctx, sqlAttemptReset, username, ipHash, l.now().UTC())
	return err
}

// Failure records a failed attempt and blocks once the window holds MaxFails failures.
func (l *PG) Failure(ctx context.Context, username string, ipHash []byte) (bool, time.Duration, error) {
	now := l.now().UTC()
	var fails int
	if err := l.pool.QueryRow(ctx, sqlAttemptFail, username, ipHash, now, l.policy.Window).Scan(&fails); err != nil {
		return false, 0, err
	}
	if fails < l.policy.MaxFails {
		return false, 0, nil
	}
	if _, err := l.pool.Exec(ctx, sqlAttemptBlock, username, ipHash, now.Add(l.policy.BlockFor)); err != nil {
		return false, 0, err
	}
	return true, l.policy.BlockFor, nil
}

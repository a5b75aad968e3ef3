package limiter

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/pashagolub/pgxmock/v3"
	"github.com/stretchr/testify/require"
)

var pgNow = time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)

func newMockPG(t *testing.T, p Policy) (*PG, pgxmock.PgxPoolIface) {
	t.Helper()
	mock, err := pgxmock.NewPool(pgxmock.QueryMatcherOption(pgxmock.QueryMatcherEqual))
	require.NoError(t, err)
	t.Cleanup(func() {
		require.NoError(t, mock.ExpectationsWereMet())
		mock.Close()
	})
	l := NewPG(mock, p)
	l.now = func() time.Time { return pgNow }
	return l, mock
}

func TestPG_Allow(t *testing.T) {
	ip := HashIP("10.1.1.1")

	t.Run("no row", func(t *testing.T) {
		l, mock := newMockPG(t, DefaultPolicy)
		mock.ExpectQuery(sqlAttemptBlockedUntil).WithArgs("Mariano", ip).WillReturnError(pgx.ErrNoRows)

		ok, dur, err := l.Allow(context.Background(), "Mariano", ip)
		require.NoError(t, err)
		require.True(t, ok)
		require.Zero(t, dur)
	})

	t.Run("blocked", func(t *testing.T) {
		l, mock := newMockPG(t, DefaultPolicy)
		mock.ExpectQuery(sqlAttemptBlockedUntil).WithArgs("Mariano", ip).
			WillReturnRows(pgxmock.NewRows([]string{"blocked_until"}).AddRow(pgNow.Add(10 * time.Minute)))

		ok, dur, err := l.Allow(context.Background(), "Mariano", ip)
		require.NoError(t, err)
		require.False(t, ok)
		require.Equal(t, 10*time.Minute, dur)
	})

	t.Run("block expired", func(t *testing.T) {
		l, mock := newMockPG(t, DefaultPolicy)
		mock.ExpectQuery(sqlAttemptBlockedUntil).WithArgs("Mariano", ip).
			WillReturnRows(pgxmock.NewRows([]string{"blocked_until"}).AddRow(pgNow.Add(-time.Second)))

		ok, _, err := l.Allow(context.Background(), "Mariano", ip)
		require.NoError(t, err)
		require.True(t, ok)
	})

	t.Run("db error", func(t *testing.T) {
		l, mock := newMockPG(t, DefaultPolicy)
		mock.ExpectQuery(sqlAttemptBlockedUntil).WithArgs("Mariano", ip).WillReturnError(errors.New("db boom"))

		ok, _, err := l.Allow(context.Background(), "Mariano", ip)
		require.Error(t, err)
		require.False(t, ok)
	})
}

func TestPG_Success(t *testing.T) {
	ip := HashIP("10.1.1.1")
	l, mock := newMockPG(t, DefaultPolicy)
	mock.ExpectExec(sqlAttemptReset).WithArgs("Diego", ip, pgNow).WillReturnResult(pgxmock.NewResult("INSERT", 1))
	require.NoError(t, l.Success(context.Background(), "Diego", ip))

	mock.ExpectExec(sqlAttemptReset).WithArgs("Diego", ip, pgNow).WillReturnError(errors.New("exec fail"))
	require.Error(t, l.Success(context.Background(), "Diego", ip))
}

func TestPG_Failure(t *testing.T) {
	ip := HashIP("10.1.1.1")
	p := Policy{Window: 5 * time.Minute, MaxFails: 3, BlockFor: 10 * time.Minute}

	t.Run("below threshold", func(t *testing.T) {
		l, mock := newMockPG(t, p)
		mock.ExpectQuery(sqlAttemptFail).WithArgs("Jesus", ip, pgNow, p.Window).
			WillReturnRows(pgxmock.NewRows([]string{"fail_count"}).AddRow(2))

		blocked, dur, err := l.Failure(context.Background(), "Jesus", ip)
		require.NoError(t, err)
		require.False(t, blocked)
		require.Zero(t, dur)
	})

	t.Run("blocks at threshold", func(t *testing.T) {
		l, mock := newMockPG(t, p)
		mock.ExpectQuery(sqlAttemptFail).WithArgs("Jesus", ip, pgNow, p.Window).
			WillReturnRows(pgxmock.NewRows([]string{"fail_count"}).AddRow(3))
		mock.ExpectExec(sqlAttemptBlock).WithArgs("Jesus", ip, pgNow.Add(p.BlockFor)).
			WillReturnResult(pgxmock.NewResult("UPDATE", 1))

		blocked, dur, err := l.Failure(context.Background(), "Jesus", ip)
		require.NoError(t, err)
		require.True(t, blocked)
		require.Equal(t, p.BlockFor, dur)
	})

	t.Run("count error", func(t *testing.T) {
		l, mock := newMockPG(t, p)
		mock.ExpectQuery(sqlAttemptFail).WithArgs("Jesus", ip, pgNow, p.Window).WillReturnError(errors.New("query error"))

		_, _, err := l.Failure(context.Background(), "Jesus", ip)
		require.Error(t, err)
	})

	t.Run("block error", func(t *testing.T) {
		l, mock := newMockPG(t, p)
		mock.ExpectQuery(sqlAttemptFail).WithArgs("Jesus", ip, pgNow, p.Window).
			WillReturnRows(pgxmock.NewRows([]string{"fail_count"}).AddRow(4))
		mock.ExpectExec(sqlAttemptBlock).WithArgs("Jesus", ip, pgNow.Add(p.BlockFor)).WillReturnError(errors.New("exec fail"))

		blocked, _, err := l.Failure(context.Background(), "Jesus", ip)
		require.Error(t, err)
		require.False(t, blocked)
	})
}

func TestHashIP_Determinism(t *testing.T) {
	a := HashIP("1.2.3.4")
	b := HashIP("1.2.3.4")
	c := HashIP("5.6.7.8")
	require.Equal(t, a, b)
	require.NotEqual(t, a, c)
	require.Len(t, a, 32)
}

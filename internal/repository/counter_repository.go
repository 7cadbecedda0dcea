package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/go-sql-driver/mysql"
)

// Counter names, one per entity collection with sequential IDs.
const (
	CounterUsers        = "users"
	CounterJobs         = "jobs"
	CounterApplications = "applications"
	CounterActivityLogs = "activitylogs"
)

// maxCounterAttempts bounds the retry loop in Next/NextTx.  Transient
// lock conflicts are retried after a short delay; anything past the
// bound fails with ErrCounterExhausted.
const maxCounterAttempts = 5

// CounterRepo hands out monotonically increasing integer IDs, one
// sequence per entity type, backed by a dedicated row in the `counters`
// table.  The increment-and-fetch is a single atomic statement: the
// insert path seeds the sequence at 1 and the duplicate-key path bumps
// it, with LAST_INSERT_ID carrying the resulting value back in both
// cases.
type CounterRepo struct{ DB *sql.DB }

func NewCounterRepo(db *sql.DB) *CounterRepo { return &CounterRepo{DB: db} }

const counterNextQuery = `INSERT INTO counters (name, seq) VALUES (?, LAST_INSERT_ID(1))
                          ON DUPLICATE KEY UPDATE seq = LAST_INSERT_ID(seq + 1)`

// NextTx advances the named sequence inside an existing transaction and
// returns the new value.  Lock conflicts are retried up to the attempt
// bound; a deadlock that aborts the enclosing transaction is returned to
// the caller instead of being retried here.
func (r *CounterRepo) NextTx(ctx context.Context, tx *sql.Tx, name string) (uint64, error) {
	return nextWith(ctx, name, func() (sql.Result, error) {
		return tx.ExecContext(ctx, counterNextQuery, name)
	})
}

// Next advances the named sequence outside any caller transaction.
func (r *CounterRepo) Next(ctx context.Context, name string) (uint64, error) {
	return nextWith(ctx, name, func() (sql.Result, error) {
		return r.DB.ExecContext(ctx, counterNextQuery, name)
	})
}

func nextWith(ctx context.Context, name string, exec func() (sql.Result, error)) (uint64, error) {
	var lastErr error
	for attempt := 1; attempt <= maxCounterAttempts; attempt++ {
		res, err := exec()
		if err != nil {
			lastErr = err
			if isLockConflict(err) {
				select {
				case <-time.After(100 * time.Millisecond):
					continue
				case <-ctx.Done():
					return 0, ctx.Err()
				}
			}
			return 0, err
		}
		id, err := res.LastInsertId()
		if err != nil {
			return 0, err
		}
		if id <= 0 {
			return 0, fmt.Errorf("counter %s: unexpected sequence value %d", name, id)
		}
		return uint64(id), nil
	}
	return 0, fmt.Errorf("counter %s: %w (last error: %v)", name, ErrCounterExhausted, lastErr)
}

// isLockConflict matches MySQL lock wait timeout (1205).  Duplicate-key
// races cannot surface here: the seed insert resolves them through its
// ON DUPLICATE KEY UPDATE clause.
func isLockConflict(err error) bool {
	var me *mysql.MySQLError
	return errors.As(err, &me) && me.Number == 1205
}

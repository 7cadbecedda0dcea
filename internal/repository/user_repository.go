package repository

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/iliyamo/job-application-tracker/internal/model"
	"github.com/iliyamo/job-application-tracker/internal/utils"
)

// UserRepo provides access to the `users` table.
type UserRepo struct {
	DB       *sql.DB
	Counters *CounterRepo
}

func NewUserRepo(db *sql.DB, counters *CounterRepo) *UserRepo {
	return &UserRepo{DB: db, Counters: counters}
}

// Create hashes the password, allocates an ID from the users counter and
// inserts the user inside one transaction.  Emails are normalized to
// lower case; a duplicate returns ErrEmailExists.
func (r *UserRepo) Create(ctx context.Context, email, password, name, role string, cost int) (model.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	hash, err := utils.HashPassword(password, cost)
	if err != nil {
		return model.User{}, err
	}

	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return model.User{}, err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	id, err := r.Counters.NextTx(ctx, tx, CounterUsers)
	if err != nil {
		return model.User{}, err
	}
	now := time.Now().UTC()
	_, err = tx.ExecContext(ctx,
		"INSERT INTO users (id, email, password_hash, name, role, created_at) VALUES (?,?,?,?,?,?)",
		id, email, hash, name, role, now)
	if err != nil {
		if strings.Contains(strings.ToLower(err.Error()), "1062") {
			return model.User{}, ErrEmailExists
		}
		return model.User{}, err
	}
	if err := tx.Commit(); err != nil {
		return model.User{}, err
	}
	committed = true

	return model.User{ID: id, Email: email, PasswordHash: hash, Name: name, Role: role, CreatedAt: now}, nil
}

// GetByEmail fetches a user by normalized email.
func (r *UserRepo) GetByEmail(ctx context.Context, email string) (model.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	var u model.User
	err := r.DB.QueryRowContext(ctx,
		"SELECT id, email, password_hash, name, role, created_at FROM users WHERE email=? LIMIT 1",
		email).Scan(&u.ID, &u.Email, &u.PasswordHash, &u.Name, &u.Role, &u.CreatedAt)
	return u, err
}

// GetByID fetches a user by id.
func (r *UserRepo) GetByID(ctx context.Context, id uint64) (model.User, error) {
	var u model.User
	err := r.DB.QueryRowContext(ctx,
		"SELECT id, email, password_hash, name, role, created_at FROM users WHERE id=? LIMIT 1",
		id).Scan(&u.ID, &u.Email, &u.PasswordHash, &u.Name, &u.Role, &u.CreatedAt)
	return u, err
}

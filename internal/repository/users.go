package repository

import (
	"context"
	"database/sql"
	"errors"

	appdb "github.com/yourorg/exercisetracker/internal/db"
	"github.com/yourorg/exercisetracker/internal/models"
)

const (
	insertUserSQL     = "INSERT INTO users (username, password_hash) VALUES (?, ?)"
	selectUserColumns = "SELECT id, username, password_hash, created_at FROM users"
)

// UserRepository creates and looks up user records.
type UserRepository struct {
	db      *sql.DB
	dialect appdb.Dialect
}

func NewUserRepository(conn *sql.DB, dialect appdb.Dialect) *UserRepository {
	return &UserRepository{db: conn, dialect: dialect}
}

// Create inserts a user. passwordHash is nil for deployments that register
// users by name only.
func (r *UserRepository) Create(ctx context.Context, username string, passwordHash *string) (models.User, error) {
	hash := sql.NullString{}
	if passwordHash != nil {
		hash = sql.NullString{String: *passwordHash, Valid: true}
	}

	var id int64
	if r.dialect.UsesReturning() {
		err := r.db.QueryRowContext(ctx, r.dialect.Rebind(insertUserSQL+" RETURNING id"), username, hash).Scan(&id)
		if err != nil {
			return models.User{}, r.insertErr(err)
		}
	} else {
		res, err := r.db.ExecContext(ctx, insertUserSQL, username, hash)
		if err != nil {
			return models.User{}, r.insertErr(err)
		}
		if id, err = res.LastInsertId(); err != nil {
			return models.User{}, storeErr("create user", err)
		}
	}

	return models.User{ID: id, Username: username, PasswordHash: passwordHash}, nil
}

func (r *UserRepository) insertErr(err error) error {
	if isUniqueViolation(err) {
		return ErrDuplicateUsername
	}
	return storeErr("create user", err)
}

// FindByUsername returns ErrNotFound when no user has that name.
func (r *UserRepository) FindByUsername(ctx context.Context, username string) (models.User, error) {
	row := r.db.QueryRowContext(ctx, r.dialect.Rebind(selectUserColumns+" WHERE username = ?"), username)
	return scanUser(row, "find user by username")
}

func scanUser(row *sql.Row, op string) (models.User, error) {
	var (
		u    models.User
		hash sql.NullString
	)
	if err := row.Scan(&u.ID, &u.Username, &hash, &u.CreatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.User{}, ErrNotFound
		}
		return models.User{}, storeErr(op, err)
	}
	if hash.Valid {
		u.PasswordHash = &hash.String
	}
	return u, nil
}

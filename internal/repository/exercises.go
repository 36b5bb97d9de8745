package repository

import (
	"context"
	"database/sql"
	"strings"
	"time"

	appdb "github.com/yourorg/exercisetracker/internal/db"
	"github.com/yourorg/exercisetracker/internal/models"
)

const dateLayout = "2006-01-02"

// ExerciseFilter narrows a query. Nil fields are not applied.
type ExerciseFilter struct {
	UserID int64
	From   *time.Time
	To     *time.Time
	Limit  *int
}

type ExerciseRepository struct {
	db      *sql.DB
	dialect appdb.Dialect
}

func NewExerciseRepository(conn *sql.DB, dialect appdb.Dialect) *ExerciseRepository {
	return &ExerciseRepository{db: conn, dialect: dialect}
}

// Create stores a new exercise. When date is nil the column is left out and
// the store's CURRENT_DATE default applies. A user id that no longer exists
// surfaces as ErrStore.
func (r *ExerciseRepository) Create(ctx context.Context, userID int64, description string, duration int, date *time.Time) (models.Exercise, error) {
	cols := "user_id, description, duration"
	marks := "?, ?, ?"
	args := []any{userID, description, duration}
	if date != nil {
		cols += ", date"
		marks += ", ?"
		args = append(args, date.Format(dateLayout))
	}
	q := "INSERT INTO exercises (" + cols + ") VALUES (" + marks + ")"

	var id int64
	if r.dialect.UsesReturning() {
		if err := r.db.QueryRowContext(ctx, r.dialect.Rebind(q+" RETURNING id"), args...).Scan(&id); err != nil {
			return models.Exercise{}, r.insertErr(err)
		}
	} else {
		res, err := r.db.ExecContext(ctx, q, args...)
		if err != nil {
			return models.Exercise{}, r.insertErr(err)
		}
		if id, err = res.LastInsertId(); err != nil {
			return models.Exercise{}, storeErr("create exercise", err)
		}
	}

	return models.Exercise{
		ID:          id,
		UserID:      userID,
		Description: description,
		Duration:    duration,
		Date:        date,
	}, nil
}

func (r *ExerciseRepository) insertErr(err error) error {
	if isForeignKeyViolation(err) {
		return storeErr("create exercise: unknown user", err)
	}
	return storeErr("create exercise", err)
}

// Query returns the user's exercises joined with their username, ordered by
// date then insertion order. From and To are inclusive.
func (r *ExerciseRepository) Query(ctx context.Context, f ExerciseFilter) ([]models.ExerciseView, error) {
	var b strings.Builder
	b.WriteString("SELECT users.username, exercises.description, exercises.duration, exercises.date" +
		" FROM exercises JOIN users ON users.id = exercises.user_id" +
		" WHERE exercises.user_id = ?")
	args := []any{f.UserID}
	if f.From != nil {
		b.WriteString(" AND exercises.date >= ?")
		args = append(args, f.From.Format(dateLayout))
	}
	if f.To != nil {
		b.WriteString(" AND exercises.date <= ?")
		args = append(args, f.To.Format(dateLayout))
	}
	b.WriteString(" ORDER BY exercises.date ASC, exercises.id ASC")
	if f.Limit != nil {
		b.WriteString(" LIMIT ?")
		args = append(args, *f.Limit)
	}

	rows, err := r.db.QueryContext(ctx, r.dialect.Rebind(b.String()), args...)
	if err != nil {
		return nil, storeErr("query exercises", err)
	}
	defer rows.Close()

	exercises := []models.ExerciseView{}
	for rows.Next() {
		var (
			v    models.ExerciseView
			date time.Time
		)
		if err := rows.Scan(&v.Username, &v.Description, &v.Duration, &date); err != nil {
			return nil, storeErr("scan exercise", err)
		}
		v.Date = date.Format(dateLayout)
		exercises = append(exercises, v)
	}
	if err := rows.Err(); err != nil {
		return nil, storeErr("query exercises", err)
	}
	return exercises, nil
}

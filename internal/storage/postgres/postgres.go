// Package postgres is the pgx-backed storage implementation.
package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/nvarma/eldercare-hub/internal/storage"
)

type PostgresStorage struct {
	pool *pgxpool.Pool
}

func New(ctx context.Context, databaseURL string) (*PostgresStorage, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, err
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, err
	}

	return &PostgresStorage{pool: pool}, nil
}

func (p *PostgresStorage) Close() error {
	p.pool.Close()
	return nil
}

const userColumns = `
	uid, phone_no, email, name, age, weight_kg, height_cm, gender,
	health_issues, allergies, cuisines, goal, doctor_no, extra_info,
	birth_date, activity_level, dietary_restrictions, meal_preferences,
	medications, meal_plan, nutritional_needs, last_plan_update,
	created_at, updated_at`

func (p *PostgresStorage) CreateUser(ctx context.Context, user *storage.User) error {
	now := time.Now().UTC()
	query := `
		INSERT INTO users (` + userColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14,
		        $15, $16, $17, $18, $19, $20, $21, $22, $23, $24)
	`

	_, err := p.pool.Exec(ctx, query,
		user.UID, user.PhoneNo, user.Email, user.Name, user.Age,
		user.WeightKg, user.HeightCm, user.Gender,
		user.HealthIssues, user.Allergies, user.Cuisines, user.Goal,
		user.DoctorNo, user.ExtraInfo, user.BirthDate, user.ActivityLevel,
		user.DietaryRestrictions, user.MealPreferences,
		jsonOrEmptyArray(user.Medications), jsonOrNull(user.MealPlan),
		jsonOrNull(user.NutritionalNeeds), user.LastPlanUpdate,
		now, now,
	)
	if isUniqueViolation(err) {
		return storage.ErrDuplicate
	}
	return err
}

func (p *PostgresStorage) GetUser(ctx context.Context, uid string) (*storage.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE uid = $1`

	var user storage.User
	err := p.pool.QueryRow(ctx, query, uid).Scan(
		&user.UID, &user.PhoneNo, &user.Email, &user.Name, &user.Age,
		&user.WeightKg, &user.HeightCm, &user.Gender,
		&user.HealthIssues, &user.Allergies, &user.Cuisines, &user.Goal,
		&user.DoctorNo, &user.ExtraInfo, &user.BirthDate, &user.ActivityLevel,
		&user.DietaryRestrictions, &user.MealPreferences,
		&user.Medications, &user.MealPlan, &user.NutritionalNeeds,
		&user.LastPlanUpdate, &user.CreatedAt, &user.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, storage.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (p *PostgresStorage) UpdateUser(ctx context.Context, user *storage.User) error {
	query := `
		UPDATE users SET
			phone_no = $2, email = $3, name = $4, age = $5,
			weight_kg = $6, height_cm = $7, gender = $8,
			health_issues = $9, allergies = $10, cuisines = $11, goal = $12,
			doctor_no = $13, extra_info = $14, birth_date = $15,
			activity_level = $16, dietary_restrictions = $17,
			meal_preferences = $18, medications = $19, meal_plan = $20,
			nutritional_needs = $21, last_plan_update = $22,
			updated_at = $23
		WHERE uid = $1
	`

	tag, err := p.pool.Exec(ctx, query,
		user.UID, user.PhoneNo, user.Email, user.Name, user.Age,
		user.WeightKg, user.HeightCm, user.Gender,
		user.HealthIssues, user.Allergies, user.Cuisines, user.Goal,
		user.DoctorNo, user.ExtraInfo, user.BirthDate, user.ActivityLevel,
		user.DietaryRestrictions, user.MealPreferences,
		jsonOrEmptyArray(user.Medications), jsonOrNull(user.MealPlan),
		jsonOrNull(user.NutritionalNeeds), user.LastPlanUpdate,
		time.Now().UTC(),
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return storage.ErrNotFound
	}
	return nil
}

func (p *PostgresStorage) SavePlan(ctx context.Context, uid string, mealPlan, needs []byte, at time.Time) error {
	query := `
		UPDATE users SET
			meal_plan = $2, nutritional_needs = $3,
			last_plan_update = $4, updated_at = $5
		WHERE uid = $1
	`

	tag, err := p.pool.Exec(ctx, query, uid, jsonOrNull(mealPlan), jsonOrNull(needs), at, time.Now().UTC())
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return storage.ErrNotFound
	}
	return nil
}

func jsonOrNull(data []byte) any {
	if len(data) == 0 {
		return nil
	}
	return data
}

func jsonOrEmptyArray(data []byte) []byte {
	if len(data) == 0 {
		return []byte("[]")
	}
	return data
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

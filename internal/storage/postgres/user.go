package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/pribylovaa/go-job-board/internal/models"
	"github.com/pribylovaa/go-job-board/internal/storage"

	"github.com/google/uuid"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// CreateUser создаёт пользователя и его ролевой профиль в одной транзакции.
// SUPER_ADMIN регистрируется без профиля (profile == nil).
func (s *Storage) CreateUser(ctx context.Context, user *models.User, profile models.ProfileInput) error {
	const op = "storage.postgres.CreateUser"

	tx, err := s.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	query := `
		INSERT INTO users(id, email, password_hash, role, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	_, err = tx.Exec(ctx, query,
		user.ID,
		user.Email,
		user.PasswordHash,
		user.Role,
		user.Status,
		user.CreatedAt,
		user.UpdatedAt,
	)

	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
			return fmt.Errorf("%s: %w", op, storage.ErrAlreadyExists)
		}

		return fmt.Errorf("%s: %w", op, err)
	}

	if err := insertProfile(ctx, tx, user.ID, profile); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

// insertProfile сохраняет вариант профиля, соответствующий роли.
// type switch исчерпывающий: незнакомый вариант — ошибка программирования.
func insertProfile(ctx context.Context, tx pgx.Tx, userID uuid.UUID, profile models.ProfileInput) error {
	switch p := profile.(type) {
	case nil:
		return nil
	case models.StudentProfile:
		query := `
			INSERT INTO student_profiles(
				user_id, first_name, last_name, phone_number, city, country,
				resume_url, linkedin_url, github_url, bio, skills)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		`
		_, err := tx.Exec(ctx, query,
			userID, p.FirstName, p.LastName, p.PhoneNumber, p.City, p.Country,
			p.ResumeURL, p.LinkedinURL, p.GithubURL, p.Bio, p.Skills,
		)
		return err
	case models.CompanyProfile:
		query := `
			INSERT INTO company_profiles(
				user_id, company_name, industry, website, description,
				logo_url, city, country, founded_year)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		`
		_, err := tx.Exec(ctx, query,
			userID, p.CompanyName, p.Industry, p.Website, p.Description,
			p.LogoURL, p.City, p.Country, p.FoundedYear,
		)
		return err
	case models.UniversityProfile:
		query := `
			INSERT INTO university_profiles(
				user_id, university_name, city, country, website, description, logo_url)
			VALUES ($1, $2, $3, $4, $5, $6, $7)
		`
		_, err := tx.Exec(ctx, query,
			userID, p.UniversityName, p.City, p.Country, p.Website, p.Description, p.LogoURL,
		)
		return err
	default:
		return fmt.Errorf("unknown profile variant %T", profile)
	}
}

// UserByEmail находит пользователя по email.
func (s *Storage) UserByEmail(ctx context.Context, email string) (*models.User, error) {
	const op = "storage.postgres.UserByEmail"

	query := `
		SELECT id, email, password_hash, role, status, created_at, updated_at
		FROM users
		WHERE email = $1
	`

	var user models.User
	err := s.db.QueryRow(ctx, query, email).Scan(
		&user.ID,
		&user.Email,
		&user.PasswordHash,
		&user.Role,
		&user.Status,
		&user.CreatedAt,
		&user.UpdatedAt,
	)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, storage.ErrNotFound)
		}

		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &user, nil
}

// UserByID находит пользователя по ID.
func (s *Storage) UserByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	const op = "storage.postgres.UserByID"

	query := `
		SELECT id, email, password_hash, role, status, created_at, updated_at
		FROM users
		WHERE id = $1
	`

	var user models.User
	err := s.db.QueryRow(ctx, query, id).Scan(
		&user.ID,
		&user.Email,
		&user.PasswordHash,
		&user.Role,
		&user.Status,
		&user.CreatedAt,
		&user.UpdatedAt,
	)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, storage.ErrNotFound)
		}

		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &user, nil
}

package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/pribylovaa/go-job-board/internal/models"
	"github.com/pribylovaa/go-job-board/internal/storage"

	"github.com/google/uuid"
)

// SaveRefreshToken сохраняет новую запись refresh-токена.
func (s *Storage) SaveRefreshToken(ctx context.Context, token *models.RefreshToken) error {
	const op = "storage.postgres.SaveRefreshToken"

	query := `
        INSERT INTO refresh_tokens(id, user_id, token_hash, created_at, expires_at)
        VALUES ($1, $2, $3, $4, $5)
    `

	_, err := s.db.Exec(ctx, query,
		token.ID,
		token.UserID,
		token.TokenHash,
		token.CreatedAt,
		token.ExpiresAt,
	)

	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

// RefreshTokensByUser возвращает все записи пользователя, новые первыми.
func (s *Storage) RefreshTokensByUser(ctx context.Context, userID uuid.UUID) ([]models.RefreshToken, error) {
	const op = "storage.postgres.RefreshTokensByUser"

	query := `
        SELECT id, user_id, token_hash, created_at, expires_at
        FROM refresh_tokens
        WHERE user_id = $1
        ORDER BY created_at DESC
    `

	rows, err := s.db.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	var tokens []models.RefreshToken
	for rows.Next() {
		var token models.RefreshToken
		if err := rows.Scan(
			&token.ID,
			&token.UserID,
			&token.TokenHash,
			&token.CreatedAt,
			&token.ExpiresAt,
		); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		tokens = append(tokens, token)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return tokens, nil
}

// DeleteRefreshToken удаляет запись по ID.
// Удаление атомарно на уровне строки: из двух конкурентных попыток
// удалить один и тот же токен ровно одна увидит затронутую строку,
// вторая получит ErrNotFound.
func (s *Storage) DeleteRefreshToken(ctx context.Context, id uuid.UUID) error {
	const op = "storage.postgres.DeleteRefreshToken"

	query := `
        DELETE FROM refresh_tokens
        WHERE id = $1
    `

	cmdTag, err := s.db.Exec(ctx, query, id)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	if cmdTag.RowsAffected() == 0 {
		return fmt.Errorf("%s: %w", op, storage.ErrNotFound)
	}

	return nil
}

// RotateRefreshToken атомарно заменяет старую запись на новую.
// Если старой записи уже нет (повторное использование токена или
// проигранная гонка) — ErrNotFound, новая запись не сохраняется.
func (s *Storage) RotateRefreshToken(ctx context.Context, oldID uuid.UUID, next *models.RefreshToken) error {
	const op = "storage.postgres.RotateRefreshToken"

	tx, err := s.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	const del = `
        DELETE FROM refresh_tokens
        WHERE id = $1
    `

	cmdTag, err := tx.Exec(ctx, del, oldID)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	if cmdTag.RowsAffected() == 0 {
		return fmt.Errorf("%s: %w", op, storage.ErrNotFound)
	}

	const ins = `
        INSERT INTO refresh_tokens(id, user_id, token_hash, created_at, expires_at)
        VALUES ($1, $2, $3, $4, $5)
    `

	_, err = tx.Exec(ctx, ins,
		next.ID,
		next.UserID,
		next.TokenHash,
		next.CreatedAt,
		next.ExpiresAt,
	)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

// DeleteAllRefreshTokensByUser удаляет все записи пользователя («выйти везде»).
func (s *Storage) DeleteAllRefreshTokensByUser(ctx context.Context, userID uuid.UUID) error {
	const op = "storage.postgres.DeleteAllRefreshTokensByUser"

	query := `
        DELETE FROM refresh_tokens
        WHERE user_id = $1
    `

	_, err := s.db.Exec(ctx, query, userID)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

// DeleteExpiredTokens удаляет все просроченные записи
// и возвращает количество удалённых.
func (s *Storage) DeleteExpiredTokens(ctx context.Context, now time.Time) (int64, error) {
	const op = "storage.postgres.DeleteExpiredTokens"

	query := `
        DELETE FROM refresh_tokens
        WHERE expires_at <= $1
    `

	tag, err := s.db.Exec(ctx, query, now)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}

	return tag.RowsAffected(), nil
}

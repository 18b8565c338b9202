package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/pribylovaa/go-job-board/internal/models"
	"github.com/pribylovaa/go-job-board/internal/pkg/log"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// tokenClaims — полезная нагрузка access- и refresh-токенов.
// Поля времени живут только в RegisteredClaims и заполняются на подписи;
// при переподписи проверенного токена сюда попадают лишь uid/email/role,
// так что протащить старый exp/iat в новый токен невозможно.
type tokenClaims struct {
	UserID string `json:"uid"`
	Email  string `json:"email"`
	Role   string `json:"role"`
	jwt.RegisteredClaims
}

// signAccessToken подписывает access-токен (секрет и TTL — access).
func (s *Service) signAccessToken(ctx context.Context, claims models.AuthClaims, now time.Time) (string, error) {
	const op = "service.token.signAccessToken"

	signed, err := s.signToken(claims, now, s.cfg.AccessTokenTTL, []byte(s.cfg.AccessSecret))
	if err != nil {
		log.From(ctx).Error("access_token_sign_failed",
			slog.String("op", op),
			slog.String("err", err.Error()),
		)
		return "", fmt.Errorf("%s: %w", op, err)
	}

	return signed, nil
}

// signRefreshToken подписывает refresh-токен (секрет и TTL — refresh).
func (s *Service) signRefreshToken(ctx context.Context, claims models.AuthClaims, now time.Time) (string, error) {
	const op = "service.token.signRefreshToken"

	signed, err := s.signToken(claims, now, s.cfg.RefreshTokenTTL, []byte(s.cfg.RefreshSecret))
	if err != nil {
		log.From(ctx).Error("refresh_token_sign_failed",
			slog.String("op", op),
			slog.String("err", err.Error()),
		)
		return "", fmt.Errorf("%s: %w", op, err)
	}

	return signed, nil
}

func (s *Service) signToken(claims models.AuthClaims, now time.Time, ttl time.Duration, secret []byte) (string, error) {
	full := tokenClaims{
		UserID: claims.UserID.String(),
		Email:  claims.Email,
		Role:   string(claims.Role),
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
			Issuer:    s.cfg.Issuer,
			Subject:   claims.UserID.String(),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, full)

	return token.SignedString(secret)
}

// ValidateAccessToken валидирует access-токен и возвращает утверждение
// личности. Ошибки: ErrTokenExpired для просроченного токена,
// ErrInvalidToken для всего остального.
func (s *Service) ValidateAccessToken(tokenStr string) (models.AuthClaims, error) {
	const op = "service.token.ValidateAccessToken"

	claims, err := s.parseToken(tokenStr, []byte(s.cfg.AccessSecret))
	if err != nil {
		return models.AuthClaims{}, fmt.Errorf("%s: %w", op, err)
	}

	return claims, nil
}

// verifyRefreshToken валидирует подпись/формат refresh-токена.
// Любая причина отказа схлопывается в ErrInvalidRefreshToken: судьбу
// конкретной сессии решает только состояние хранимых записей.
func (s *Service) verifyRefreshToken(tokenStr string) (models.AuthClaims, error) {
	const op = "service.token.verifyRefreshToken"

	claims, err := s.parseToken(tokenStr, []byte(s.cfg.RefreshSecret))
	if err != nil {
		return models.AuthClaims{}, fmt.Errorf("%s: %w", op, ErrInvalidRefreshToken)
	}

	return claims, nil
}

// parseToken — общая проверка HS256-токена с выделением причины отказа.
func (s *Service) parseToken(tokenStr string, secret []byte) (models.AuthClaims, error) {
	token, err := jwt.ParseWithClaims(tokenStr, &tokenClaims{},
		func(t *jwt.Token) (interface{}, error) {
			if t.Method != jwt.SigningMethodHS256 {
				return nil, ErrInvalidToken
			}

			return secret, nil
		},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithLeeway(5*time.Second),
		jwt.WithIssuer(s.cfg.Issuer),
	)

	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return models.AuthClaims{}, ErrTokenExpired
		}

		return models.AuthClaims{}, ErrInvalidToken
	}

	claims, ok := token.Claims.(*tokenClaims)
	if !ok || !token.Valid {
		return models.AuthClaims{}, ErrInvalidToken
	}

	uid, err := uuid.Parse(claims.UserID)
	if err != nil {
		return models.AuthClaims{}, ErrInvalidToken
	}

	role := models.Role(claims.Role)
	if !role.Valid() {
		return models.AuthClaims{}, ErrInvalidToken
	}

	return models.AuthClaims{
		UserID: uid,
		Email:  claims.Email,
		Role:   role,
	}, nil
}

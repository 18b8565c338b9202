package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/mail"
	"strings"
	"time"

	"github.com/pribylovaa/go-job-board/internal/models"
	"github.com/pribylovaa/go-job-board/internal/pkg/log"
	"github.com/pribylovaa/go-job-board/internal/storage"

	"github.com/google/uuid"
)

// Register регистрирует нового пользователя вместе с ролевым профилем
// и сразу выпускает пару токенов (auto-login).
func (s *Service) Register(ctx context.Context, email, password string, role models.Role, profile models.ProfileInput) (*models.User, *models.TokenPair, error) {
	const op = "service.auth.Register"

	normEmail, err := validateEmail(email)
	if err != nil {
		return nil, nil, fmt.Errorf("%s: %w", op, ErrInvalidEmail)
	}

	if err := validatePassword(password); err != nil {
		return nil, nil, fmt.Errorf("%s: %w", op, err)
	}

	if err := validateRegistration(role, profile); err != nil {
		return nil, nil, fmt.Errorf("%s: %w", op, err)
	}

	_, err = s.storage.UserByEmail(ctx, normEmail)
	if err == nil {
		return nil, nil, fmt.Errorf("%s: %w", op, ErrEmailTaken)
	}
	if !errors.Is(err, storage.ErrNotFound) {
		return nil, nil, fmt.Errorf("%s: %w", op, err)
	}

	hashedPassword, err := s.hashPassword(password)
	if err != nil {
		return nil, nil, fmt.Errorf("%s: %w", op, err)
	}

	now := time.Now().UTC()
	user := &models.User{
		ID:           uuid.New(),
		Email:        normEmail,
		PasswordHash: hashedPassword,
		Role:         role,
		Status:       models.StatusActive,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.storage.CreateUser(ctx, user, profile); err != nil {
		if errors.Is(err, storage.ErrAlreadyExists) {
			// Гонка двух регистраций: проигравший получает тот же ответ,
			// что и при предварительной проверке.
			return nil, nil, fmt.Errorf("%s: %w", op, ErrEmailTaken)
		}

		return nil, nil, fmt.Errorf("%s: %w", op, err)
	}

	pair, err := s.issueTokenPair(ctx, user)
	if err != nil {
		return nil, nil, fmt.Errorf("%s: %w", op, err)
	}

	return user, pair, nil
}

// Login выполняет вход по email+пароль.
func (s *Service) Login(ctx context.Context, email, password string) (*models.User, *models.TokenPair, error) {
	const op = "service.auth.Login"

	normEmail, err := validateEmail(email)
	if err != nil {
		return nil, nil, fmt.Errorf("%s: %w", op, ErrInvalidCredentials)
	}

	if len(password) == 0 {
		return nil, nil, fmt.Errorf("%s: %w", op, ErrInvalidCredentials)
	}

	user, err := s.storage.UserByEmail(ctx, normEmail)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, nil, fmt.Errorf("%s: %w", op, ErrInvalidCredentials)
		}

		return nil, nil, fmt.Errorf("%s: %w", op, err)
	}

	if !checkPassword(user.PasswordHash, password) {
		return nil, nil, fmt.Errorf("%s: %w", op, ErrInvalidCredentials)
	}

	if user.Status != models.StatusActive {
		return nil, nil, fmt.Errorf("%s: %w", op, ErrAccountSuspended)
	}

	pair, err := s.issueTokenPair(ctx, user)
	if err != nil {
		return nil, nil, fmt.Errorf("%s: %w", op, err)
	}

	return user, pair, nil
}

// Refresh обменивает валидный refresh-токен на новую пару токенов.
//
// Ключевой инвариант — одноразовость: совпавшая запись удаляется в той же
// транзакции, в которой сохраняется новая, поэтому повторное предъявление
// того же токена (replay, проигранная гонка) даёт ErrRefreshTokenNotFound.
func (s *Service) Refresh(ctx context.Context, rawToken string) (*models.TokenPair, error) {
	const op = "service.auth.Refresh"

	lg := log.From(ctx)

	claims, err := s.verifyRefreshToken(rawToken)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	tokens, err := s.tokensForUser(ctx, claims.UserID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	// Хэши посолены, поэтому совпадение ищется линейным перебором записей
	// пользователя (новые первыми), а не выборкой по хэшу.
	matched := probeTokens(tokens, rawToken)
	if matched == nil {
		lg.Warn("refresh_no_matching_record",
			slog.String("op", op),
			slog.String("user_id", claims.UserID.String()),
		)
		return nil, fmt.Errorf("%s: %w", op, ErrRefreshTokenNotFound)
	}

	now := time.Now().UTC()
	if matched.Expired(now) {
		// Ленивая очистка: просроченную запись убираем сразу, чтобы
		// повторное предъявление дало уже NotFound, а не Expired.
		if err := s.storage.DeleteRefreshToken(ctx, matched.ID); err != nil && !errors.Is(err, storage.ErrNotFound) {
			lg.Error("refresh_expired_cleanup_failed",
				slog.String("op", op),
				slog.String("err", err.Error()),
			)
		}
		s.invalidateTokenCache(ctx, claims.UserID)

		return nil, fmt.Errorf("%s: %w", op, ErrRefreshTokenExpired)
	}

	// Переподпись: от проверенного токена берётся только {uid,email,role},
	// сроки действия назначает заново шаг подписи.
	next := models.AuthClaims{
		UserID: claims.UserID,
		Email:  claims.Email,
		Role:   claims.Role,
	}

	accessToken, err := s.signAccessToken(ctx, next, now)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	refreshToken, err := s.signRefreshToken(ctx, next, now)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	tokenHash, err := s.hashToken(refreshToken)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	record := &models.RefreshToken{
		ID:        uuid.New(),
		UserID:    claims.UserID,
		TokenHash: tokenHash,
		CreatedAt: now,
		ExpiresAt: now.Add(s.cfg.RefreshTokenTTL),
	}

	if err := s.storage.RotateRefreshToken(ctx, matched.ID, record); err != nil {
		s.invalidateTokenCache(ctx, claims.UserID)

		if errors.Is(err, storage.ErrNotFound) {
			// Конкурентный refresh успел первым: запись уже удалена.
			return nil, fmt.Errorf("%s: %w", op, ErrRefreshTokenNotFound)
		}

		return nil, fmt.Errorf("%s: %w", op, err)
	}

	s.invalidateTokenCache(ctx, claims.UserID)

	return &models.TokenPair{
		AccessToken:     accessToken,
		RefreshToken:    refreshToken,
		AccessExpiresAt: now.Add(s.cfg.AccessTokenTTL),
	}, nil
}

// Logout завершает сессию предъявленного refresh-токена.
//
// Контракт намеренно безошибочный: битый/чужой/просроченный токен или отказ
// хранилища не отличимы для клиента от успешного выхода — в худшем случае
// операция no-op. Поэтому у функции нет возвращаемого значения.
func (s *Service) Logout(ctx context.Context, rawToken string) {
	const op = "service.auth.Logout"

	lg := log.From(ctx)

	claims, err := s.verifyRefreshToken(rawToken)
	if err != nil {
		return
	}

	tokens, err := s.tokensForUser(ctx, claims.UserID)
	if err != nil {
		lg.Debug("logout_lookup_failed",
			slog.String("op", op),
			slog.String("err", err.Error()),
		)
		return
	}

	matched := probeTokens(tokens, rawToken)
	if matched == nil {
		return
	}

	if err := s.storage.DeleteRefreshToken(ctx, matched.ID); err != nil && !errors.Is(err, storage.ErrNotFound) {
		lg.Debug("logout_delete_failed",
			slog.String("op", op),
			slog.String("err", err.Error()),
		)
	}

	s.invalidateTokenCache(ctx, claims.UserID)
}

// LogoutAll удаляет все записи refresh-токенов пользователя
// («выйти на всех устройствах»). Обычные login/refresh её не вызывают.
func (s *Service) LogoutAll(ctx context.Context, userID uuid.UUID) error {
	const op = "service.auth.LogoutAll"

	if err := s.storage.DeleteAllRefreshTokensByUser(ctx, userID); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	s.invalidateTokenCache(ctx, userID)

	return nil
}

// CurrentUser возвращает пользователя по ID без учётных данных в составе
// модели ответа; ErrUserNotFound, если запись исчезла.
func (s *Service) CurrentUser(ctx context.Context, userID uuid.UUID) (*models.User, error) {
	const op = "service.auth.CurrentUser"

	user, err := s.storage.UserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, fmt.Errorf("%s: %w", op, ErrUserNotFound)
		}

		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return user, nil
}

// issueTokenPair выпускает пару токенов и сохраняет хэш refresh-токена.
// «Сырой» refresh-токен виден вызывающему ровно один раз — здесь.
func (s *Service) issueTokenPair(ctx context.Context, user *models.User) (*models.TokenPair, error) {
	const op = "service.auth.issueTokenPair"

	now := time.Now().UTC()
	claims := models.AuthClaims{
		UserID: user.ID,
		Email:  user.Email,
		Role:   user.Role,
	}

	accessToken, err := s.signAccessToken(ctx, claims, now)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	refreshToken, err := s.signRefreshToken(ctx, claims, now)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	tokenHash, err := s.hashToken(refreshToken)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	record := &models.RefreshToken{
		ID:        uuid.New(),
		UserID:    user.ID,
		TokenHash: tokenHash,
		CreatedAt: now,
		ExpiresAt: now.Add(s.cfg.RefreshTokenTTL),
	}

	if err := s.storage.SaveRefreshToken(ctx, record); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	s.invalidateTokenCache(ctx, user.ID)

	return &models.TokenPair{
		AccessToken:     accessToken,
		RefreshToken:    refreshToken,
		AccessExpiresAt: now.Add(s.cfg.AccessTokenTTL),
	}, nil
}

// tokensForUser — чтение записей пользователя сквозь опциональный кэш.
func (s *Service) tokensForUser(ctx context.Context, userID uuid.UUID) ([]models.RefreshToken, error) {
	if s.rcache != nil {
		if tokens, ok, err := s.rcache.Tokens(ctx, userID); err == nil && ok {
			return tokens, nil
		}
	}

	tokens, err := s.storage.RefreshTokensByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	if s.rcache != nil {
		_ = s.rcache.Store(ctx, userID, tokens, s.cfg.RefreshTokenTTL)
	}

	return tokens, nil
}

// invalidateTokenCache сбрасывает кэш записей пользователя после мутации.
func (s *Service) invalidateTokenCache(ctx context.Context, userID uuid.UUID) {
	if s.rcache == nil {
		return
	}

	if err := s.rcache.Invalidate(ctx, userID); err != nil {
		log.From(ctx).Debug("refresh_cache_invalidate_failed",
			slog.String("err", err.Error()),
		)
	}
}

// probeTokens ищет запись, хэш которой соответствует «сырому» токену.
func probeTokens(tokens []models.RefreshToken, rawToken string) *models.RefreshToken {
	for i := range tokens {
		if checkToken(tokens[i].TokenHash, rawToken) {
			return &tokens[i]
		}
	}

	return nil
}

// validateEmail проверяет базовый формат email и обрезает пробелы снаружи.
func validateEmail(raw string) (string, error) {
	email := strings.TrimSpace(raw)
	if email == "" {
		return "", ErrInvalidEmail
	}

	if _, err := mail.ParseAddress(email); err != nil {
		return "", ErrInvalidEmail
	}

	return strings.ToLower(email), nil
}

// validatePassword проверяет минимальные требования к паролю (длина >= 6).
func validatePassword(pw string) error {
	if len(pw) == 0 {
		return ErrEmptyPassword
	}

	if len([]rune(pw)) < 6 {
		return ErrWeakPassword
	}

	return nil
}

// validateRegistration сверяет роль с вариантом профиля.
// Через API регистрируются только роли с профилем; SUPER_ADMIN — сид.
func validateRegistration(role models.Role, profile models.ProfileInput) error {
	switch role {
	case models.RoleStudent, models.RoleCompany, models.RoleUniversity:
		if profile == nil || profile.Role() != role {
			return ErrProfileMismatch
		}
		return nil
	default:
		return ErrInvalidRole
	}
}

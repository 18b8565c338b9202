package httperr

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/pribylovaa/go-job-board/internal/service"

	"github.com/stretchr/testify/require"
)

func TestToHTTP_Mapping(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name     string
		err      error
		wantHTTP int
		wantCode string
	}{
		{"email_taken", service.ErrEmailTaken, http.StatusConflict, "EMAIL_IN_USE"},
		{"invalid_credentials", service.ErrInvalidCredentials, http.StatusUnauthorized, "INVALID_CREDENTIALS"},
		{"suspended", service.ErrAccountSuspended, http.StatusForbidden, "ACCOUNT_SUSPENDED"},
		{"invalid_email", service.ErrInvalidEmail, http.StatusBadRequest, "INVALID_ARGUMENT"},
		{"weak_password", service.ErrWeakPassword, http.StatusBadRequest, "INVALID_ARGUMENT"},
		{"invalid_refresh", service.ErrInvalidRefreshToken, http.StatusUnauthorized, "INVALID_REFRESH_TOKEN"},
		{"refresh_not_found", service.ErrRefreshTokenNotFound, http.StatusUnauthorized, "REFRESH_TOKEN_NOT_FOUND"},
		{"refresh_expired", service.ErrRefreshTokenExpired, http.StatusUnauthorized, "REFRESH_TOKEN_EXPIRED"},
		{"token_expired", service.ErrTokenExpired, http.StatusUnauthorized, "TOKEN_EXPIRED"},
		{"token_invalid", service.ErrInvalidToken, http.StatusUnauthorized, "TOKEN_INVALID"},
		{"user_not_found", service.ErrUserNotFound, http.StatusNotFound, "NOT_FOUND"},
		{"no_token", ErrNoToken, http.StatusUnauthorized, "NO_TOKEN"},
		{"forbidden", ErrForbidden, http.StatusForbidden, "FORBIDDEN"},
		{"bad_request", ErrBadRequest, http.StatusBadRequest, "INVALID_ARGUMENT"},
		{"unknown", errors.New("db exploded"), http.StatusInternalServerError, "AUTH_FAILED"},
		{"nil", nil, http.StatusInternalServerError, "AUTH_FAILED"},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			status, resp := ToHTTP(tc.err)
			require.Equal(t, tc.wantHTTP, status)
			require.Equal(t, tc.wantCode, resp.Error.Code)
			require.NotEmpty(t, resp.Error.Message)
		})
	}
}

// Обёрнутые ошибки сервисного слоя распознаются через errors.Is.
func TestToHTTP_UnwrapsWrappedErrors(t *testing.T) {
	t.Parallel()

	wrapped := fmt.Errorf("service.auth.Login: %w", service.ErrInvalidCredentials)
	status, resp := ToHTTP(wrapped)
	require.Equal(t, http.StatusUnauthorized, status)
	require.Equal(t, "INVALID_CREDENTIALS", resp.Error.Code)
}

// WithMessage меняет только сообщение: статус и код остаются табличными.
func TestToHTTP_WithMessageOverridesMessageOnly(t *testing.T) {
	t.Parallel()

	err := WithMessage(ErrForbidden, "this resource requires one of the following roles: COMPANY")
	status, resp := ToHTTP(err)
	require.Equal(t, http.StatusForbidden, status)
	require.Equal(t, "FORBIDDEN", resp.Error.Code)
	require.Equal(t, "this resource requires one of the following roles: COMPANY", resp.Error.Message)

	// Обёртка прозрачна для errors.Is.
	require.ErrorIs(t, err, ErrForbidden)
}

func TestWriteError_IncludesRequestID(t *testing.T) {
	t.Parallel()

	req := httptest.NewRequest(http.MethodGet, "/x", nil)
	req.Header.Set("X-Request-Id", "rid-123")
	rr := httptest.NewRecorder()

	WriteError(rr, req, service.ErrEmailTaken)

	require.Equal(t, http.StatusConflict, rr.Code)
	require.Equal(t, "application/json", rr.Header().Get("Content-Type"))

	var resp ErrorResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	require.Equal(t, "EMAIL_IN_USE", resp.Error.Code)
	require.Equal(t, "rid-123", resp.Error.RequestID)
}

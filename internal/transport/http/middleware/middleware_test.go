package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/pribylovaa/go-job-board/internal/models"
	"github.com/pribylovaa/go-job-board/internal/service"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

// capHandler — тестовый slog.Handler, который:
//   - аккумулирует базовые attrs, приходящие через Logger.With(...);
//   - собирает attrs из каждой записи в map[string]any;
//   - не создаёт реальных I/O, чтобы не паниковать в тестах.
type capHandler struct {
	base    []slog.Attr
	lastMsg string
	lastLvl slog.Level
	attrs   map[string]any
	count   int
}

func (h *capHandler) Enabled(context.Context, slog.Level) bool { return true }

func (h *capHandler) Handle(_ context.Context, r slog.Record) error {
	out := make(map[string]any, len(h.base)+8)

	for _, a := range h.base {
		out[a.Key] = a.Value.Any()
	}

	r.Attrs(func(a slog.Attr) bool {
		out[a.Key] = a.Value.Any()
		return true
	})

	h.count++
	h.lastMsg = r.Message
	h.lastLvl = r.Level
	h.attrs = out

	return nil
}

func (h *capHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	if len(attrs) > 0 {
		h.base = append(h.base, attrs...)
	}

	return h
}

func (h *capHandler) WithGroup(string) slog.Handler { return h }

func makeReq(target string) *http.Request {
	req := httptest.NewRequest(http.MethodGet, target, nil)
	req.RemoteAddr = (&net.TCPAddr{IP: net.ParseIP("127.0.0.1"), Port: 12345}).String()
	return req
}

type apiError struct {
	Code      string `json:"code"`
	Message   string `json:"message"`
	RequestID string `json:"request_id,omitempty"`
}

type errEnvelope struct {
	Error apiError `json:"error"`
}

// fakeValidator — подменный TokenValidator с фиксированным ответом.
type fakeValidator struct {
	claims models.AuthClaims
	err    error
	seen   string
}

func (f *fakeValidator) ValidateAccessToken(token string) (models.AuthClaims, error) {
	f.seen = token
	return f.claims, f.err
}

func TestChain_Order(t *testing.T) {
	order := []string{}

	m1 := func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			order = append(order, "m1-begin")
			next.ServeHTTP(w, r)
			order = append(order, "m1-end")
		})
	}

	m2 := func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			order = append(order, "m2-begin")
			next.ServeHTTP(w, r)
			order = append(order, "m2-end")
		})
	}

	final := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		order = append(order, "handler")
		w.WriteHeader(http.StatusTeapot)
	})

	chain := Chain(final, m1, m2)
	rr := httptest.NewRecorder()
	chain.ServeHTTP(rr, makeReq("/chain"))

	require.Equal(t, []string{"m1-begin", "m2-begin", "handler", "m2-end", "m1-end"}, order)
	require.Equal(t, http.StatusTeapot, rr.Code)
}

func TestRequestID_GenerateAndPropagate(t *testing.T) {
	var seenID string

	h := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seenID = r.Header.Get("X-Request-Id")
		w.WriteHeader(http.StatusOK)
	})

	chain := Chain(h, RequestID())
	rr := httptest.NewRecorder()
	chain.ServeHTTP(rr, makeReq("/rid"))

	respID := rr.Header().Get("X-Request-Id")
	require.NotEmpty(t, respID)
	require.Len(t, respID, 32) // 16 байт → 32 hex-символа

	require.Equal(t, respID, seenID)
}

func TestRequestID_UseExisting(t *testing.T) {
	const given = "abc123-existing-id"
	var seenID string

	h := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seenID = r.Header.Get("X-Request-Id")
		w.WriteHeader(http.StatusOK)
	})

	chain := Chain(h, RequestID())
	rr := httptest.NewRecorder()
	req := makeReq("/rid2")
	req.Header.Set("X-Request-Id", given)
	chain.ServeHTTP(rr, req)

	require.Equal(t, given, rr.Header().Get("X-Request-Id"))
	require.Equal(t, given, seenID)
}

func TestLogging_WritesRecordWithRequestID(t *testing.T) {
	cap := &capHandler{}
	logger := slog.New(cap)

	h := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte("created"))
	})

	chain := Chain(h, RequestID(), Logging(logger))
	rr := httptest.NewRecorder()
	chain.ServeHTTP(rr, makeReq("/log"))

	require.Equal(t, 1, cap.count)
	require.Equal(t, "http", cap.lastMsg)

	status, _ := cap.attrs["status"].(int64) // slog хранит числа как int64
	bytes, _ := cap.attrs["bytes"].(int64)
	path, _ := cap.attrs["path"].(string)
	rid, _ := cap.attrs["request_id"].(string)

	require.Equal(t, int64(http.StatusCreated), status)
	require.Equal(t, int64(len("created")), bytes)
	require.Equal(t, "/log", path)
	require.NotEmpty(t, rid)
}

func TestRecover_ConvertsPanicTo500(t *testing.T) {
	cap := &capHandler{}
	logger := slog.New(cap)

	h := http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic("boom")
	})

	chain := Chain(h, Recover(), RequestID(), Logging(logger))
	rr := httptest.NewRecorder()
	chain.ServeHTTP(rr, makeReq("/panic"))

	require.Equal(t, http.StatusInternalServerError, rr.Code)

	var resp errEnvelope
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	require.Equal(t, "AUTH_FAILED", resp.Error.Code)
	require.NotEmpty(t, resp.Error.RequestID)
}

func TestTimeout_SetsDeadline(t *testing.T) {
	var hadDeadline bool

	h := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, hadDeadline = r.Context().Deadline()
		w.WriteHeader(http.StatusOK)
	})

	chain := Chain(h, Timeout(250*time.Millisecond))
	rr := httptest.NewRecorder()
	chain.ServeHTTP(rr, makeReq("/deadline"))

	require.True(t, hadDeadline)
}

func TestTimeout_ZeroIsNoop(t *testing.T) {
	var hadDeadline bool

	h := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, hadDeadline = r.Context().Deadline()
		w.WriteHeader(http.StatusOK)
	})

	chain := Chain(h, Timeout(0))
	rr := httptest.NewRecorder()
	chain.ServeHTTP(rr, makeReq("/nodeadline"))

	require.False(t, hadDeadline)
}

func TestAuthenticate_NoToken(t *testing.T) {
	v := &fakeValidator{}

	h := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	chain := Chain(h, Authenticate(v))
	rr := httptest.NewRecorder()
	chain.ServeHTTP(rr, makeReq("/me"))

	require.Equal(t, http.StatusUnauthorized, rr.Code)

	var resp errEnvelope
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	require.Equal(t, "NO_TOKEN", resp.Error.Code)
	require.Empty(t, v.seen)
}

func TestAuthenticate_BearerToken(t *testing.T) {
	want := models.AuthClaims{UserID: uuid.New(), Email: "u@e.com", Role: models.RoleStudent}
	v := &fakeValidator{claims: want}

	var got models.AuthClaims
	var ok bool

	h := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got, ok = ClaimsFrom(r.Context())
		w.WriteHeader(http.StatusOK)
	})

	chain := Chain(h, Authenticate(v))
	rr := httptest.NewRecorder()
	req := makeReq("/me")
	req.Header.Set("Authorization", "Bearer the-token")
	chain.ServeHTTP(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)
	require.Equal(t, "the-token", v.seen)
	require.True(t, ok)
	require.Equal(t, want, got)
}

func TestAuthenticate_CookieFallback(t *testing.T) {
	want := models.AuthClaims{UserID: uuid.New(), Email: "u@e.com", Role: models.RoleCompany}
	v := &fakeValidator{claims: want}

	h := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	chain := Chain(h, Authenticate(v))
	rr := httptest.NewRecorder()
	req := makeReq("/me")
	req.AddCookie(&http.Cookie{Name: AccessTokenCookie, Value: "cookie-token"})
	chain.ServeHTTP(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)
	require.Equal(t, "cookie-token", v.seen)
}

func TestAuthenticate_HeaderWinsOverCookie(t *testing.T) {
	v := &fakeValidator{claims: models.AuthClaims{UserID: uuid.New(), Role: models.RoleStudent}}

	h := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	chain := Chain(h, Authenticate(v))
	rr := httptest.NewRecorder()
	req := makeReq("/me")
	req.Header.Set("Authorization", "Bearer header-token")
	req.AddCookie(&http.Cookie{Name: AccessTokenCookie, Value: "cookie-token"})
	chain.ServeHTTP(rr, req)

	require.Equal(t, "header-token", v.seen)
}

func TestAuthenticate_ExpiredAndInvalid(t *testing.T) {
	cases := []struct {
		name     string
		err      error
		wantCode string
		wantHTTP int
	}{
		{"expired", service.ErrTokenExpired, "TOKEN_EXPIRED", http.StatusUnauthorized},
		{"invalid", service.ErrInvalidToken, "TOKEN_INVALID", http.StatusUnauthorized},
		{"internal", errors.New("key service down"), "AUTH_FAILED", http.StatusInternalServerError},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			v := &fakeValidator{err: tc.err}

			h := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(http.StatusOK)
			})

			chain := Chain(h, Authenticate(v))
			rr := httptest.NewRecorder()
			req := makeReq("/me")
			req.Header.Set("Authorization", "Bearer t")
			chain.ServeHTTP(rr, req)

			require.Equal(t, tc.wantHTTP, rr.Code)

			var resp errEnvelope
			require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
			require.Equal(t, tc.wantCode, resp.Error.Code)
		})
	}
}

func TestOptionalAuthenticate_PassesThroughWithoutToken(t *testing.T) {
	v := &fakeValidator{err: service.ErrInvalidToken}

	var ok bool
	h := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, ok = ClaimsFrom(r.Context())
		w.WriteHeader(http.StatusOK)
	})

	chain := Chain(h, OptionalAuthenticate(v))

	// Без токена.
	rr := httptest.NewRecorder()
	chain.ServeHTTP(rr, makeReq("/feed"))
	require.Equal(t, http.StatusOK, rr.Code)
	require.False(t, ok)

	// С токеном, который не прошёл проверку: тоже пропускаем как анонима.
	rr = httptest.NewRecorder()
	req := makeReq("/feed")
	req.Header.Set("Authorization", "Bearer broken")
	chain.ServeHTTP(rr, req)
	require.Equal(t, http.StatusOK, rr.Code)
	require.False(t, ok)
}

func TestRequireRoles(t *testing.T) {
	t.Parallel()

	student := models.AuthClaims{UserID: uuid.New(), Role: models.RoleStudent}
	company := models.AuthClaims{UserID: uuid.New(), Role: models.RoleCompany}

	h := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	gate := Chain(h, RequireRoles(models.RoleCompany, models.RoleSuperAdmin))

	// Разрешённая роль.
	v := &fakeValidator{claims: company}
	chain := Chain(gate, Authenticate(v))
	rr := httptest.NewRecorder()
	req := makeReq("/jobs")
	req.Header.Set("Authorization", "Bearer t")
	chain.ServeHTTP(rr, req)
	require.Equal(t, http.StatusOK, rr.Code)

	// Запрещённая роль -> 403/FORBIDDEN.
	v = &fakeValidator{claims: student}
	chain = Chain(gate, Authenticate(v))
	rr = httptest.NewRecorder()
	req = makeReq("/jobs")
	req.Header.Set("Authorization", "Bearer t")
	chain.ServeHTTP(rr, req)
	require.Equal(t, http.StatusForbidden, rr.Code)

	var resp errEnvelope
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	require.Equal(t, "FORBIDDEN", resp.Error.Code)
	// Сообщение перечисляет разрешённые роли в порядке объявления.
	require.Equal(t,
		"this resource requires one of the following roles: COMPANY, SUPER_ADMIN",
		resp.Error.Message)

	// Без Authenticate -> 401/NO_TOKEN.
	rr = httptest.NewRecorder()
	gate.ServeHTTP(rr, makeReq("/jobs"))
	require.Equal(t, http.StatusUnauthorized, rr.Code)
}

package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/pribylovaa/go-job-board/internal/models"
	"github.com/pribylovaa/go-job-board/internal/transport/http/httperr"
	"github.com/pribylovaa/go-job-board/internal/transport/http/middleware"
)

// registerRequest — тело POST /auth/register.
// Profile остаётся сырым JSON: его форма зависит от role и декодируется
// вторым шагом уже известным вариантом.
type registerRequest struct {
	Email    string          `json:"email"`
	Password string          `json:"password"`
	Role     string          `json:"role"`
	Profile  json.RawMessage `json:"profile"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// refreshRequest — необязательное тело POST /auth/refresh и /auth/logout
// для клиентов без кук.
type refreshRequest struct {
	RefreshToken string `json:"refreshToken"`
}

// authResponse — ответ register/login/refresh.
// Access-токен дублируется в теле для программных клиентов;
// браузерные работают через httpOnly-куки и тело могут игнорировать.
type authResponse struct {
	User        *models.PublicUser `json:"user,omitempty"`
	AccessToken string             `json:"accessToken"`
}

type userResponse struct {
	User *models.PublicUser `json:"user"`
}

// Register — POST /auth/register: регистрация + автологин, 201 при успехе.
func (h *Handlers) Register(w http.ResponseWriter, r *http.Request) {
	var in registerRequest
	if err := decodeStrict(r, &in); err != nil {
		httperr.WriteError(w, r, errBadRequest())
		return
	}

	role := models.Role(in.Role)
	profile, err := decodeProfile(role, in.Profile)
	if err != nil {
		httperr.WriteError(w, r, errBadRequest())
		return
	}

	user, pair, err := h.svc.Register(r.Context(), in.Email, in.Password, role, profile)
	if err != nil {
		httperr.WriteError(w, r, err)
		return
	}

	pub := user.Public()

	h.setAuthCookies(w, pair)
	writeJSON(w, http.StatusCreated, authResponse{
		User:        &pub,
		AccessToken: pair.AccessToken,
	})
}

// Login — POST /auth/login.
func (h *Handlers) Login(w http.ResponseWriter, r *http.Request) {
	var in loginRequest
	if err := decodeStrict(r, &in); err != nil {
		httperr.WriteError(w, r, errBadRequest())
		return
	}

	user, pair, err := h.svc.Login(r.Context(), in.Email, in.Password)
	if err != nil {
		httperr.WriteError(w, r, err)
		return
	}

	pub := user.Public()

	h.setAuthCookies(w, pair)
	writeJSON(w, http.StatusOK, authResponse{
		User:        &pub,
		AccessToken: pair.AccessToken,
	})
}

// Refresh — POST /auth/refresh: ротация пары токенов.
// Токен берётся из куки refreshToken, иначе из тела запроса.
func (h *Handlers) Refresh(w http.ResponseWriter, r *http.Request) {
	raw := h.refreshTokenFrom(r)
	if raw == "" {
		httperr.WriteError(w, r, httperr.ErrNoToken)
		return
	}

	pair, err := h.svc.Refresh(r.Context(), raw)
	if err != nil {
		// Невалидный/отозванный токен: гасим куки, чтобы браузер
		// не предъявлял мёртвую сессию по кругу.
		h.clearAuthCookies(w)
		httperr.WriteError(w, r, err)
		return
	}

	h.setAuthCookies(w, pair)
	writeJSON(w, http.StatusOK, authResponse{AccessToken: pair.AccessToken})
}

// Logout — POST /auth/logout: всегда 200, независимо от судьбы токена.
func (h *Handlers) Logout(w http.ResponseWriter, r *http.Request) {
	if raw := h.refreshTokenFrom(r); raw != "" {
		h.svc.Logout(r.Context(), raw)
	}

	h.clearAuthCookies(w)
	writeJSON(w, http.StatusOK, map[string]string{"message": "logged out"})
}

// LogoutAll — POST /auth/logout-all: завершает все сессии пользователя.
// Маршрут защищён Authenticate, личность берётся из claims.
func (h *Handlers) LogoutAll(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.ClaimsFrom(r.Context())
	if !ok {
		httperr.WriteError(w, r, httperr.ErrNoToken)
		return
	}

	if err := h.svc.LogoutAll(r.Context(), claims.UserID); err != nil {
		httperr.WriteError(w, r, err)
		return
	}

	h.clearAuthCookies(w)
	writeJSON(w, http.StatusOK, map[string]string{"message": "logged out"})
}

// Me — GET /auth/me: профиль текущего пользователя по access-токену.
func (h *Handlers) Me(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.ClaimsFrom(r.Context())
	if !ok {
		httperr.WriteError(w, r, httperr.ErrNoToken)
		return
	}

	user, err := h.svc.CurrentUser(r.Context(), claims.UserID)
	if err != nil {
		httperr.WriteError(w, r, err)
		return
	}

	pub := user.Public()
	writeJSON(w, http.StatusOK, userResponse{User: &pub})
}

// refreshTokenFrom — кука refreshToken, затем поле refreshToken тела.
func (h *Handlers) refreshTokenFrom(r *http.Request) string {
	if c, err := r.Cookie(refreshTokenCookie); err == nil && c.Value != "" {
		return c.Value
	}

	var in refreshRequest
	if err := decodeStrict(r, &in); err != nil {
		return ""
	}

	return in.RefreshToken
}

// decodeProfile декодирует вариант профиля, соответствующий роли.
// Отсутствующий или незнакомой роли профиль отдаём сервису как nil:
// он вернёт осмысленную доменную ошибку вместо общей 400.
func decodeProfile(role models.Role, raw json.RawMessage) (models.ProfileInput, error) {
	if len(raw) == 0 {
		return nil, nil
	}

	switch role {
	case models.RoleStudent:
		var p models.StudentProfile
		if err := json.Unmarshal(raw, &p); err != nil {
			return nil, err
		}
		return p, nil
	case models.RoleCompany:
		var p models.CompanyProfile
		if err := json.Unmarshal(raw, &p); err != nil {
			return nil, err
		}
		return p, nil
	case models.RoleUniversity:
		var p models.UniversityProfile
		if err := json.Unmarshal(raw, &p); err != nil {
			return nil, err
		}
		return p, nil
	default:
		return nil, nil
	}
}

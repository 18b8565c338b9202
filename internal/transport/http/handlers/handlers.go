package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/pribylovaa/go-job-board/internal/config"
	"github.com/pribylovaa/go-job-board/internal/service"
	"github.com/pribylovaa/go-job-board/internal/transport/http/httperr"
)

// Handlers агрегирует зависимости HTTP-слоя: сервис аутентификации
// и конфигурацию (атрибуты кук зависят от env и TTL токенов).
type Handlers struct {
	svc *service.Service
	cfg *config.Config
}

func New(svc *service.Service, cfg *config.Config) *Handlers {
	return &Handlers{svc: svc, cfg: cfg}
}

// writeJSON — единый ответ JSON с нужным Content-Type.
// Ошибки выводим через httperr.WriteError.
func writeJSON(w http.ResponseWriter, status int, value any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(value)
}

// decodeStrict — строгий JSON-декодер: запрещаем неизвестные поля.
func decodeStrict(r *http.Request, value any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	return dec.Decode(value)
}

// errBadRequest — вспомогалка: локальная ошибка парсинга -> 400/INVALID_ARGUMENT.
func errBadRequest() error {
	return fmt.Errorf("decode: %w", httperr.ErrBadRequest)
}

package middleware

import (
	"net/http"
)

// Middleware оборачивает http.Handler; цепочка собирается снаружи внутрь.
type Middleware func(http.Handler) http.Handler

// Chain навешивает мидлвары на h так, что первый в списке становится внешним.
func Chain(h http.Handler, mws ...Middleware) http.Handler {
	wrapped := h
	for i := len(mws) - 1; i >= 0; i-- {
		wrapped = mws[i](wrapped)
	}

	return wrapped
}

// statusWriter запоминает статус и объём ответа для лога запроса.
type statusWriter struct {
	http.ResponseWriter
	status int
	bytes  int
}

func newStatusWriter(w http.ResponseWriter) *statusWriter {
	return &statusWriter{ResponseWriter: w}
}

func (w *statusWriter) WriteHeader(code int) {
	w.status = code
	w.ResponseWriter.WriteHeader(code)
}

// Write фиксирует неявный 200: net/http отправляет его при первой записи
// тела без предшествующего WriteHeader.
func (w *statusWriter) Write(p []byte) (int, error) {
	if w.status == 0 {
		w.status = http.StatusOK
	}

	n, err := w.ResponseWriter.Write(p)
	w.bytes += n

	return n, err
}

package handler

import (
	"context"
	"net/http"
	"sync/atomic"
	"time"
)

// Pinger - зависимость, без которой сервис не готов принимать запросы.
type Pinger interface {
	Ping(ctx context.Context) error
}

type HealthHandler struct {
	ready      atomic.Bool
	components map[string]Pinger
}

func NewHealthHandler(components map[string]Pinger) *HealthHandler {
	return &HealthHandler{components: components}
}

func (handler *HealthHandler) SetReady(ready bool) {
	handler.ready.Store(ready)
}

// Livez отвечает 200, пока процесс жив.
func (handler *HealthHandler) Livez(writer http.ResponseWriter, request *http.Request) {
	writeJSON(writer, request, http.StatusOK, map[string]string{"status": "ok"})
}

// Healthz отвечает 200, если сервис готов и все зависимости отвечают.
func (handler *HealthHandler) Healthz(writer http.ResponseWriter, request *http.Request) {
	if !handler.ready.Load() {
		writeJSON(writer, request, http.StatusServiceUnavailable, map[string]string{"status": "not ready"})
		return
	}

	ctx, cancel := context.WithTimeout(request.Context(), 2*time.Second)
	defer cancel()

	status := map[string]string{"status": "ok"}
	code := http.StatusOK
	for name, component := range handler.components {
		if err := component.Ping(ctx); err != nil {
			status[name] = "unavailable"
			status["status"] = "degraded"
			code = http.StatusServiceUnavailable
			continue
		}
		status[name] = "ok"
	}

	writeJSON(writer, request, code, status)
}

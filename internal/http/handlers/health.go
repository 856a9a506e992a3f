package handlers

import (
	"context"
	"net/http"
	"sort"
	"time"
)

// HealthCheck probes one dependency.
type HealthCheck func(ctx context.Context) error

// HealthHandler reports liveness plus the configured models and dependency status.
type HealthHandler struct {
	englishModel   string
	arabicModel    string
	embeddingModel string
	checks         map[string]HealthCheck
	timeout        time.Duration
}

type HealthOption func(*HealthHandler)

// WithHealthCheck registers a named dependency probe.
func WithHealthCheck(name string, check HealthCheck) HealthOption {
	return func(h *HealthHandler) {
		if check != nil {
			h.checks[name] = check
		}
	}
}

func NewHealthHandler(englishModel, arabicModel, embeddingModel string, opts ...HealthOption) *HealthHandler {
	h := &HealthHandler{
		englishModel:   englishModel,
		arabicModel:    arabicModel,
		embeddingModel: embeddingModel,
		checks:         make(map[string]HealthCheck),
		timeout:        2 * time.Second,
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

type healthResponse struct {
	Status         string            `json:"status"`
	ModelEnglish   string            `json:"model_en,omitempty"`
	ModelArabic    string            `json:"model_ar,omitempty"`
	EmbeddingModel string            `json:"embedding_model,omitempty"`
	Dependencies   map[string]string `json:"dependencies,omitempty"`
}

// Health returns 200 "healthy" or 503 "degraded" when any dependency probe fails.
func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	resp := healthResponse{
		Status:         "healthy",
		ModelEnglish:   h.englishModel,
		ModelArabic:    h.arabicModel,
		EmbeddingModel: h.embeddingModel,
	}
	status := http.StatusOK

	names := make([]string, 0, len(h.checks))
	for name := range h.checks {
		names = append(names, name)
	}
	sort.Strings(names)
	if len(names) > 0 {
		resp.Dependencies = make(map[string]string, len(names))
	}

	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()
	for _, name := range names {
		if err := h.checks[name](ctx); err != nil {
			resp.Dependencies[name] = err.Error()
			resp.Status = "degraded"
			status = http.StatusServiceUnavailable
			continue
		}
		resp.Dependencies[name] = "ok"
	}
	writeJSON(w, status, resp)
}

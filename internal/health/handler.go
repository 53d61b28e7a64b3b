package health

import (
	"context"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"
)

// Checker defines the interface for checking a dependency's health.
type Checker interface {
	Ping(ctx context.Context) error
}

// Handler handles health check operations.
type Handler struct {
	store     Checker
	storeName string
	now       func() time.Time
}

// NewHandler creates a new health handler for the store called storeName.
func NewHandler(store Checker, storeName string) *Handler {
	return &Handler{
		store:     store,
		storeName: storeName,
		now:       time.Now,
	}
}

// Response is the response for health check endpoint.
type Response struct {
	Body struct {
		OK        bool      `json:"ok"        doc:"False when a dependency is unreachable"`
		Status    string    `json:"status"    doc:"healthy or degraded"   example:"healthy"`
		Store     string    `json:"store"     doc:"Configured link store" example:"postgres"`
		Timestamp time.Time `json:"timestamp" doc:"Server time of the check"`
	}
}

// Check reports whether the link store is reachable. It always answers 200.
func (h *Handler) Check(ctx context.Context, _ *struct{}) (*Response, error) {
	resp := &Response{}
	resp.Body.OK = true
	resp.Body.Status = "healthy"
	resp.Body.Store = h.storeName
	resp.Body.Timestamp = h.now().UTC()

	pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	if err := h.store.Ping(pingCtx); err != nil {
		resp.Body.OK = false
		resp.Body.Status = "degraded"
	}

	return resp, nil
}

// RegisterRoutes registers health check routes.
func RegisterRoutes(api huma.API, h *Handler) {
	huma.Register(api, huma.Operation{
		OperationID: "healthz",
		Method:      http.MethodGet,
		Path:        "/healthz",
		Summary:     "Health check",
		Tags:        []string{"Health"},
	}, h.Check)
}

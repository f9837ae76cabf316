package handler

import (
	"context"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel/trace"
)

// SnapshotStore serves the latest published snapshot document.
type SnapshotStore interface {
	Latest(ctx context.Context) ([]byte, error)
}

type Handler struct {
	tracer trace.Tracer
	store  SnapshotStore
}

func New(tracer trace.Tracer, store SnapshotStore) *Handler {
	return &Handler{
		tracer: tracer,
		store:  store,
	}
}

func (h *Handler) RegisterRoutes(r *gin.Engine) {
	r.GET("/health", h.Health)
	r.GET("/api/snapshot", h.GetSnapshot)
}

package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/julienschmidt/httprouter"
	"go.mongodb.org/mongo-driver/mongo"

	httpx "roombook/pkg/http"
	"roombook/pkg/logger"
)

type HealthHandler struct {
	mongo *mongo.Client
	log   *logger.Logger
}

func NewHealthHandler(mongoClient *mongo.Client, log *logger.Logger) *HealthHandler {
	return &HealthHandler{
		mongo: mongoClient,
		log:   log,
	}
}

func (h *HealthHandler) RegisterRoutes(router *httprouter.Router) {
	router.HandlerFunc(http.MethodGet, "/health", h.Health)
	router.HandlerFunc(http.MethodGet, "/ready", h.Ready)
}

// Health reports liveness only; it never touches dependencies.
func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	if err := httpx.WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"}); err != nil {
		h.log.Error("Failed to write health response", "error", err)
	}
}

// Ready checks the MongoDB connection. Directory services are deliberately
// excluded: their outage degrades bookings but the engine can still serve.
func (h *HealthHandler) Ready(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	if err := h.mongo.Ping(ctx, nil); err != nil {
		h.log.Warn("Readiness check failed", "error", err)
		if err := httpx.WriteJSON(w, http.StatusServiceUnavailable, map[string]string{
			"status": "unavailable",
			"mongo":  "unreachable",
		}); err != nil {
			h.log.Error("Failed to write readiness response", "error", err)
		}
		return
	}

	if err := httpx.WriteJSON(w, http.StatusOK, map[string]string{
		"status": "ready",
		"mongo":  "connected",
	}); err != nil {
		h.log.Error("Failed to write readiness response", "error", err)
	}
}

package handler

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/julienschmidt/httprouter"

	"roombook/internal/bookings/auth"
	"roombook/internal/bookings/service"
	"roombook/pkg/config"
	apperrors "roombook/pkg/errors"
	httpx "roombook/pkg/http"
	"roombook/pkg/logger"
	"roombook/pkg/middleware"
	"roombook/pkg/model"
)

// BookingHandler exposes the booking engine over HTTP. Every route expects an
// authenticated caller; the authorization gate decides per operation.
type BookingHandler struct {
	service service.BookingService
	gate    *auth.Gate
	log     *logger.Logger
}

func NewBookingHandler(svc service.BookingService, gate *auth.Gate, log *logger.Logger) *BookingHandler {
	return &BookingHandler{
		service: svc,
		gate:    gate,
		log:     log,
	}
}

func (h *BookingHandler) RegisterRoutes(router *httprouter.Router) {
	router.HandlerFunc(http.MethodPost, "/api/v1/bookings", h.Create)
	router.HandlerFunc(http.MethodGet, "/api/v1/bookings", h.List)
	router.HandlerFunc(http.MethodGet, "/api/v1/bookings/availability", h.CheckAvailability)
	router.HandlerFunc(http.MethodGet, "/api/v1/bookings/statistics", h.Statistics)

	router.Handle(http.MethodGet, "/api/v1/bookings/id/:id", h.GetByID)
	router.Handle(http.MethodPatch, "/api/v1/bookings/id/:id", h.Update)
	router.Handle(http.MethodDelete, "/api/v1/bookings/id/:id", h.Delete)
	router.Handle(http.MethodPost, "/api/v1/bookings/id/:id/cancel", h.Cancel)
	router.Handle(http.MethodPost, "/api/v1/bookings/id/:id/override", h.Override)

	router.Handle(http.MethodGet, "/api/v1/bookings/user/:user_id", h.UserHistory)
	router.Handle(http.MethodGet, "/api/v1/bookings/internal/room/:room_id", h.RoomBookings)
}

func (h *BookingHandler) Create(w http.ResponseWriter, r *http.Request) {
	claims := middleware.ClaimsFromContext(r.Context())

	caller, err := h.gate.Authorize(r.Context(), claims, auth.OpCreate, "")
	if err != nil {
		h.writeError(w, err)
		return
	}

	var booking model.Booking
	if err := json.NewDecoder(r.Body).Decode(&booking); err != nil {
		h.writeError(w, apperrors.InvalidInput("Invalid JSON in request body"))
		return
	}

	// Regular users book for themselves. Only admins and managers may create
	// bookings on behalf of another user.
	if booking.UserID == "" {
		booking.UserID = caller.ID
	}
	if booking.UserID != caller.ID {
		role := auth.ParseRole(claims.Role)
		if role != auth.RoleAdmin && role != auth.RoleManager {
			h.writeError(w, apperrors.Forbidden("You cannot create bookings for another user"))
			return
		}
	}

	created, err := h.service.Create(r.Context(), &booking)
	if err != nil {
		h.writeError(w, err)
		return
	}

	h.writeJSON(w, httpx.WriteCreated(w, created))
}

func (h *BookingHandler) List(w http.ResponseWriter, r *http.Request) {
	claims := middleware.ClaimsFromContext(r.Context())

	if _, err := h.gate.Authorize(r.Context(), claims, auth.OpList, ""); err != nil {
		h.writeError(w, err)
		return
	}

	status := model.Status(r.URL.Query().Get("status"))
	limit := config.NormalizePaginationLimit(queryInt(r, "limit"))
	offset := config.NormalizeOffset(int64(queryInt(r, "offset")))

	bookings, total, err := h.service.GetAll(r.Context(), status, limit, offset)
	if err != nil {
		h.writeError(w, err)
		return
	}

	h.writeJSON(w, httpx.WritePaginated(w, bookings, total, limit, int(offset)))
}

func (h *BookingHandler) GetByID(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	claims := middleware.ClaimsFromContext(r.Context())

	booking, err := h.service.GetByID(r.Context(), ps.ByName("id"))
	if err != nil {
		h.writeError(w, err)
		return
	}

	if _, err := h.gate.Authorize(r.Context(), claims, auth.OpRead, booking.UserID); err != nil {
		h.writeError(w, err)
		return
	}

	h.writeJSON(w, httpx.WriteSuccess(w, booking))
}

func (h *BookingHandler) Update(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	claims := middleware.ClaimsFromContext(r.Context())
	id := ps.ByName("id")

	booking, err := h.service.GetByID(r.Context(), id)
	if err != nil {
		h.writeError(w, err)
		return
	}

	if _, err := h.gate.Authorize(r.Context(), claims, auth.OpUpdate, booking.UserID); err != nil {
		h.writeError(w, err)
		return
	}

	var updates model.BookingUpdate
	if err := json.NewDecoder(r.Body).Decode(&updates); err != nil {
		h.writeError(w, apperrors.InvalidInput("Invalid JSON in request body"))
		return
	}

	updated, err := h.service.Update(r.Context(), id, &updates)
	if err != nil {
		h.writeError(w, err)
		return
	}

	h.writeJSON(w, httpx.WriteSuccess(w, updated))
}

func (h *BookingHandler) Cancel(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	claims := middleware.ClaimsFromContext(r.Context())
	id := ps.ByName("id")

	booking, err := h.service.GetByID(r.Context(), id)
	if err != nil {
		h.writeError(w, err)
		return
	}

	if _, err := h.gate.Authorize(r.Context(), claims, auth.OpCancel, booking.UserID); err != nil {
		h.writeError(w, err)
		return
	}

	var req model.CancelRequest
	if r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			h.writeError(w, apperrors.InvalidInput("Invalid JSON in request body"))
			return
		}
	}

	cancelled, err := h.service.Cancel(r.Context(), id, req.Reason)
	if err != nil {
		h.writeError(w, err)
		return
	}

	h.writeJSON(w, httpx.WriteSuccess(w, cancelled))
}

func (h *BookingHandler) Override(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	claims := middleware.ClaimsFromContext(r.Context())
	id := ps.ByName("id")

	if _, err := h.gate.Authorize(r.Context(), claims, auth.OpOverride, ""); err != nil {
		h.writeError(w, err)
		return
	}

	var req model.OverrideRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, apperrors.InvalidInput("Invalid JSON in request body"))
		return
	}

	overridden, err := h.service.Override(r.Context(), id, req.Reason)
	if err != nil {
		h.writeError(w, err)
		return
	}

	h.writeJSON(w, httpx.WriteSuccess(w, overridden))
}

func (h *BookingHandler) Delete(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	claims := middleware.ClaimsFromContext(r.Context())

	if _, err := h.gate.Authorize(r.Context(), claims, auth.OpDelete, ""); err != nil {
		h.writeError(w, err)
		return
	}

	if err := h.service.Delete(r.Context(), ps.ByName("id")); err != nil {
		h.writeError(w, err)
		return
	}

	httpx.WriteNoContent(w)
}

func (h *BookingHandler) UserHistory(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	claims := middleware.ClaimsFromContext(r.Context())
	userID := ps.ByName("user_id")

	if _, err := h.gate.Authorize(r.Context(), claims, auth.OpRead, userID); err != nil {
		h.writeError(w, err)
		return
	}

	includeCancelled, _ := strconv.ParseBool(r.URL.Query().Get("include_cancelled"))

	bookings, err := h.service.History(r.Context(), userID, includeCancelled)
	if err != nil {
		h.writeError(w, err)
		return
	}

	h.writeJSON(w, httpx.WriteSuccess(w, bookings))
}

// RoomBookings serves the rooms service; it is not part of the public API.
func (h *BookingHandler) RoomBookings(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	claims := middleware.ClaimsFromContext(r.Context())

	if _, err := h.gate.Authorize(r.Context(), claims, auth.OpRoomListing, ""); err != nil {
		h.writeError(w, err)
		return
	}

	status := model.Status(r.URL.Query().Get("status"))

	bookings, err := h.service.ForRoom(r.Context(), ps.ByName("room_id"), status)
	if err != nil {
		h.writeError(w, err)
		return
	}

	h.writeJSON(w, httpx.WriteSuccess(w, bookings))
}

func (h *BookingHandler) CheckAvailability(w http.ResponseWriter, r *http.Request) {
	claims := middleware.ClaimsFromContext(r.Context())

	if _, err := h.gate.Authorize(r.Context(), claims, auth.OpCheckAvail, ""); err != nil {
		h.writeError(w, err)
		return
	}

	q := r.URL.Query()
	roomID := q.Get("room_id")

	start, err := time.Parse(time.RFC3339, q.Get("start_time"))
	if err != nil {
		h.writeError(w, apperrors.InvalidInput("start_time must be a valid RFC3339 timestamp"))
		return
	}
	end, err := time.Parse(time.RFC3339, q.Get("end_time"))
	if err != nil {
		h.writeError(w, apperrors.InvalidInput("end_time must be a valid RFC3339 timestamp"))
		return
	}

	check, err := h.service.CheckAvailability(r.Context(), roomID, start, end)
	if err != nil {
		h.writeError(w, err)
		return
	}

	h.writeJSON(w, httpx.WriteSuccess(w, check))
}

func (h *BookingHandler) Statistics(w http.ResponseWriter, r *http.Request) {
	claims := middleware.ClaimsFromContext(r.Context())

	if _, err := h.gate.Authorize(r.Context(), claims, auth.OpReadStats, ""); err != nil {
		h.writeError(w, err)
		return
	}

	stats, err := h.service.Statistics(r.Context())
	if err != nil {
		h.writeError(w, err)
		return
	}

	h.writeJSON(w, httpx.WriteSuccess(w, stats))
}

func (h *BookingHandler) writeError(w http.ResponseWriter, err error) {
	if writeErr := httpx.WriteError(w, err); writeErr != nil {
		h.log.Error("Failed to write error response", "error", writeErr)
	}
}

func (h *BookingHandler) writeJSON(w http.ResponseWriter, err error) {
	if err != nil {
		h.log.Error("Failed to write response", "error", err)
	}
}

func queryInt(r *http.Request, key string) int {
	n, err := strconv.Atoi(r.URL.Query().Get(key))
	if err != nil {
		return 0
	}
	return n
}

package handler

import (
	"encoding/json"
	"net/http"

	"github.com/julienschmidt/httprouter"

	"salonhub/internal/bookings/service"
	httputil "salonhub/pkg/http"
	"salonhub/pkg/logger"
	"salonhub/pkg/model"
)

// PlatformFeeHandler exposes the operator-wide fee configuration.
type PlatformFeeHandler struct {
	service service.BookingService
	log     *logger.Logger
}

func NewPlatformFeeHandler(service service.BookingService, log *logger.Logger) *PlatformFeeHandler {
	return &PlatformFeeHandler{
		service: service,
		log:     log,
	}
}

func (h *PlatformFeeHandler) Get(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	fee, err := h.service.PlatformFee(r.Context())
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "Get", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	if err := httputil.WriteSuccess(w, fee); err != nil {
		h.log.Error("failed to write success response", "handler", "Get", "operation", "WriteSuccess", "error", err)
	}
}

func (h *PlatformFeeHandler) Put(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var fee model.PlatformFeeConfig
	if err := json.NewDecoder(r.Body).Decode(&fee); err != nil {
		if writeErr := httputil.WriteJSON(w, http.StatusBadRequest, httputil.ErrorResponse{
			Error: "Invalid request body",
		}); writeErr != nil {
			h.log.Error("failed to write JSON response", "handler", "Put", "operation", "WriteJSON", "error", writeErr)
		}
		return
	}

	if err := h.service.SetPlatformFee(r.Context(), &fee); err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "Put", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	if err := httputil.WriteSuccess(w, fee); err != nil {
		h.log.Error("failed to write success response", "handler", "Put", "operation", "WriteSuccess", "error", err)
	}
}

func (h *PlatformFeeHandler) RegisterRoutes(router *httprouter.Router) {
	router.GET("/api/v1/platform-fee", h.Get)
	router.PUT("/api/v1/platform-fee", h.Put)
}

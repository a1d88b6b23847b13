package handler

import (
	"net/http"

	"github.com/julienschmidt/httprouter"

	"salonhub/internal/loyalty/service"
	httputil "salonhub/pkg/http"
	"salonhub/pkg/logger"
)

type LoyaltyHandler struct {
	service service.LoyaltyService
	log     *logger.Logger
}

func NewLoyaltyHandler(service service.LoyaltyService, log *logger.Logger) *LoyaltyHandler {
	return &LoyaltyHandler{
		service: service,
		log:     log,
	}
}

func (h *LoyaltyHandler) Get(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	customerID := ps.ByName("id")

	loyalty, err := h.service.Get(r.Context(), customerID)
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "Get", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	if err := httputil.WriteSuccess(w, loyalty); err != nil {
		h.log.Error("failed to write success response", "handler", "Get", "operation", "WriteSuccess", "error", err)
	}
}

func (h *LoyaltyHandler) RegisterRoutes(router *httprouter.Router) {
	router.GET("/api/v1/customers/:id/loyalty", h.Get)
}

package http

import (
	"net/http"

	"github.com/fintrack/ledger-sync/internal/logger"
	"github.com/fintrack/ledger-sync/internal/utils"
)

type healthResponse struct {
	Status string `json:"status"`
}

// health reports liveness of the service and its storage backend.
func (h *Handler) health(w http.ResponseWriter, r *http.Request) {
	if err := h.db.PingContext(r.Context()); err != nil {
		logger.FromRequest(r).Err(err).Str("func", "*Handler.health").Msg("database ping failed")
		utils.WriteJSON(w, healthResponse{Status: "unavailable"}, http.StatusServiceUnavailable)
		return
	}

	utils.WriteJSON(w, healthResponse{Status: "ok"}, http.StatusOK)
}

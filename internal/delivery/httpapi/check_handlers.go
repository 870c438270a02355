package httpapi

import (
	"net/http"
	"strconv"

	"github.com/mwhitfield/jobwatch/internal/usecase"
	"go.uber.org/zap"
)

// handleCheck triggers one synchronous check cycle. Notifications default to
// on; ?notify=false runs a dry pass that persists alerts without dispatching.
func (h *Handler) handleCheck(w http.ResponseWriter, r *http.Request) {
	opts := usecase.CheckOptions{
		Notify:     true,
		MaxRuntime: h.maxRuntime,
	}
	if raw := r.URL.Query().Get("notify"); raw != "" {
		if notify, err := strconv.ParseBool(raw); err == nil {
			opts.Notify = notify
		}
	}
	if raw := r.URL.Query().Get("maxWatches"); raw != "" {
		if maxWatches, err := strconv.Atoi(raw); err == nil && maxWatches > 0 {
			opts.MaxWatches = maxWatches
		}
	}

	summary, err := h.check.Run(r.Context(), opts)
	if err != nil {
		h.logger.Error("check run failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "check run failed")
		return
	}
	writeJSON(w, http.StatusOK, summary)
}

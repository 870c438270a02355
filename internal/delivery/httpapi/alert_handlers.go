package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	"github.com/mwhitfield/jobwatch/internal/usecase"
	"go.uber.org/zap"
)

func (h *Handler) handleListAlerts(w http.ResponseWriter, r *http.Request) {
	query := usecase.AlertQuery{
		View:   r.URL.Query().Get("view"),
		Search: r.URL.Query().Get("q"),
	}
	if raw := r.URL.Query().Get("limit"); raw != "" {
		if limit, err := strconv.Atoi(raw); err == nil {
			query.Limit = limit
		}
	}
	if raw := r.URL.Query().Get("includeHidden"); raw != "" {
		query.IncludeHidden, _ = strconv.ParseBool(raw)
	}

	views, counts, err := h.alerts.List(r.Context(), query)
	if err != nil {
		h.logger.Error("list alerts failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "failed to list alerts")
		return
	}

	out := make([]alertResponse, 0, len(views))
	for _, view := range views {
		out = append(out, toAlertResponse(view))
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"alerts": out,
		"counts": counts,
	})
}

type decideAlertRequest struct {
	Decision string `json:"decision"`
	Note     string `json:"note"`
}

func (h *Handler) handleDecideAlert(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	var req decideAlertRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	alert, err := h.alerts.Decide(r.Context(), id, req.Decision, req.Note)
	if err != nil {
		switch {
		case errors.Is(err, usecase.ErrAlertNotFound):
			writeError(w, http.StatusNotFound, err.Error())
		case errors.Is(err, usecase.ErrInvalidDecision):
			writeError(w, http.StatusBadRequest, err.Error())
		default:
			h.logger.Error("decide alert failed", zap.String("id", id), zap.Error(err))
			writeError(w, http.StatusInternalServerError, "failed to update alert")
		}
		return
	}
	writeJSON(w, http.StatusOK, toAlertResponse(usecase.AlertView{Alert: *alert}))
}

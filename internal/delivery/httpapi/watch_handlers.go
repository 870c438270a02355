package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/mwhitfield/jobwatch/internal/usecase"
	"go.uber.org/zap"
)

type createWatchRequest struct {
	Company          string   `json:"company"`
	SourceType       string   `json:"sourceType"`
	SourceID         string   `json:"sourceId"`
	TitleKeywords    []string `json:"titleKeywords"`
	LocationKeywords []string `json:"locationKeywords"`
	Active           *bool    `json:"active"`
}

func (h *Handler) handleCreateWatch(w http.ResponseWriter, r *http.Request) {
	var req createWatchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	watch, err := h.watches.Create(r.Context(), usecase.CreateWatchInput{
		Company:          req.Company,
		SourceType:       req.SourceType,
		SourceID:         req.SourceID,
		TitleKeywords:    req.TitleKeywords,
		LocationKeywords: req.LocationKeywords,
		Active:           req.Active,
	})
	if err != nil {
		if errors.Is(err, usecase.ErrMissingFields) {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		h.logger.Error("create watch failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "failed to create watch")
		return
	}
	writeJSON(w, http.StatusCreated, toWatchResponse(watch))
}

func (h *Handler) handleListWatches(w http.ResponseWriter, r *http.Request) {
	watches, err := h.watches.List(r.Context())
	if err != nil {
		h.logger.Error("list watches failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "failed to list watches")
		return
	}
	out := make([]watchResponse, 0, len(watches))
	for i := range watches {
		out = append(out, toWatchResponse(&watches[i]))
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"watches": out})
}

type updateWatchRequest struct {
	Company          *string   `json:"company"`
	SourceType       *string   `json:"sourceType"`
	SourceID         *string   `json:"sourceId"`
	TitleKeywords    *[]string `json:"titleKeywords"`
	LocationKeywords *[]string `json:"locationKeywords"`
	Active           *bool     `json:"active"`
}

func (h *Handler) handleUpdateWatch(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	var req updateWatchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	input := usecase.UpdateWatchInput{
		Company:    req.Company,
		SourceType: req.SourceType,
		SourceID:   req.SourceID,
		Active:     req.Active,
	}
	if req.TitleKeywords != nil {
		input.TitleKeywords = *req.TitleKeywords
		input.SetTitleKeywords = true
	}
	if req.LocationKeywords != nil {
		input.LocationKeywords = *req.LocationKeywords
		input.SetLocationKeywords = true
	}

	watch, err := h.watches.Update(r.Context(), id, input)
	if err != nil {
		switch {
		case errors.Is(err, usecase.ErrWatchNotFound):
			writeError(w, http.StatusNotFound, err.Error())
		case errors.Is(err, usecase.ErrEmptyUpdate), errors.Is(err, usecase.ErrInvalidSourceType):
			writeError(w, http.StatusBadRequest, err.Error())
		default:
			h.logger.Error("update watch failed", zap.String("id", id), zap.Error(err))
			writeError(w, http.StatusInternalServerError, "failed to update watch")
		}
		return
	}
	writeJSON(w, http.StatusOK, toWatchResponse(watch))
}

func (h *Handler) handleDeleteWatch(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	if err := h.watches.Delete(r.Context(), id); err != nil {
		if errors.Is(err, usecase.ErrWatchNotFound) {
			writeError(w, http.StatusNotFound, err.Error())
			return
		}
		h.logger.Error("delete watch failed", zap.String("id", id), zap.Error(err))
		writeError(w, http.StatusInternalServerError, "failed to delete watch")
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"deleted": true})
}

type validateBoardRequest struct {
	SourceType string `json:"sourceType"`
	SourceID   string `json:"sourceId"`
}

func (h *Handler) handleValidateBoard(w http.ResponseWriter, r *http.Request) {
	var req validateBoardRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	validation, err := h.watches.ValidateBoard(r.Context(), req.SourceType, req.SourceID)
	if err != nil {
		if errors.Is(err, usecase.ErrMissingFields) {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		writeJSON(w, http.StatusOK, map[string]interface{}{
			"valid": false,
			"error": err.Error(),
		})
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"valid":        true,
		"count":        validation.Count,
		"sampleTitles": emptyIfNil(validation.SampleTitles),
	})
}

type detectSourceRequest struct {
	URL string `json:"url"`
}

func (h *Handler) handleDetectSource(w http.ResponseWriter, r *http.Request) {
	var req detectSourceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	detections, err := h.watches.DetectSource(r.Context(), req.URL)
	if err != nil {
		if errors.Is(err, usecase.ErrMissingDetectURL) {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		h.logger.Warn("source detection failed", zap.String("url", req.URL), zap.Error(err))
		writeError(w, http.StatusBadGateway, "failed to fetch page")
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"detections": toDetectionResponses(detections)})
}

type previewRequest struct {
	WatchID string `json:"watchId"`
}

func (h *Handler) handlePreview(w http.ResponseWriter, r *http.Request) {
	var req previewRequest
	if r.Body != nil {
		// an empty body previews the most recently updated active watch
		_ = json.NewDecoder(r.Body).Decode(&req)
	}

	result, err := h.watches.Preview(r.Context(), req.WatchID, 0)
	payload := map[string]interface{}{
		"jobsFetched":     result.JobsFetched,
		"matchesFound":    result.MatchesFound,
		"hiddenByKeyword": result.HiddenByKeyword,
		"samples":         result.Samples,
	}
	if result.Samples == nil {
		payload["samples"] = []usecase.PreviewSample{}
	}
	if result.Watch != nil {
		payload["watch"] = toWatchResponse(result.Watch)
	}
	if err != nil {
		payload["error"] = err.Error()
	}
	writeJSON(w, http.StatusOK, payload)
}

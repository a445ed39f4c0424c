package http

import (
	"encoding/json"
	"errors"
	"io"
	stdhttp "net/http"
	"strconv"

	"go.uber.org/zap"

	"github.com/MyNameIsWhaaat/commentpanel/internal/comment/model"
	"github.com/MyNameIsWhaaat/commentpanel/internal/comment/service"
)

type Handler struct {
	svc    service.PanelService
	logger *zap.Logger
	layout string
}

type Option func(*Handler)

func WithLogger(logger *zap.Logger) Option {
	return func(h *Handler) {
		if logger != nil {
			h.logger = logger
		}
	}
}

// WithTimestampLayout sets the Go time layout used on the HTML page.
func WithTimestampLayout(layout string) Option {
	return func(h *Handler) {
		if layout != "" {
			h.layout = layout
		}
	}
}

func New(svc service.PanelService, opts ...Option) *Handler {
	h := &Handler{
		svc:    svc,
		logger: zap.NewNop(),
		layout: "2006-01-02 15:04:05",
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

type textRequest struct {
	Text *string `json:"text"`
}

type sortRequest struct {
	Order model.SortOrder `json:"order"`
}

func (h *Handler) GetPanel(w stdhttp.ResponseWriter, r *stdhttp.Request) {
	v, err := h.svc.View(r.Context())
	if err != nil {
		h.writeServiceError(w, err)
		return
	}
	writeJSON(w, stdhttp.StatusOK, v)
}

func (h *Handler) SetPending(w stdhttp.ResponseWriter, r *stdhttp.Request) {
	var req textRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Text == nil {
		writeJSON(w, stdhttp.StatusBadRequest, map[string]any{"error": "bad json"})
		return
	}
	if err := h.svc.SetPending(r.Context(), *req.Text); err != nil {
		h.writeServiceError(w, err)
		return
	}
	writeJSON(w, stdhttp.StatusOK, map[string]any{"pending": *req.Text})
}

func (h *Handler) CreateComment(w stdhttp.ResponseWriter, r *stdhttp.Request) {
	// an empty body posts the pending text as it is
	var req textRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		writeJSON(w, stdhttp.StatusBadRequest, map[string]any{"error": "bad json"})
		return
	}

	if req.Text != nil {
		if err := h.svc.SetPending(r.Context(), *req.Text); err != nil {
			h.writeServiceError(w, err)
			return
		}
	}

	c, err := h.svc.Post(r.Context())
	if err != nil {
		h.writeServiceError(w, err)
		return
	}

	writeJSON(w, stdhttp.StatusCreated, c)
}

func (h *Handler) DeleteComment(w stdhttp.ResponseWriter, r *stdhttp.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	if err := h.svc.DeleteComment(r.Context(), id); err != nil {
		h.writeServiceError(w, err)
		return
	}

	writeJSON(w, stdhttp.StatusOK, map[string]any{"deleted": 1})
}

func (h *Handler) DeleteReply(w stdhttp.ResponseWriter, r *stdhttp.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	replyID, ok := pathID(w, r, "replyID")
	if !ok {
		return
	}

	if err := h.svc.DeleteReply(r.Context(), id, replyID); err != nil {
		h.writeServiceError(w, err)
		return
	}

	writeJSON(w, stdhttp.StatusOK, map[string]any{"deleted": 1})
}

func (h *Handler) DeleteByID(w stdhttp.ResponseWriter, r *stdhttp.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	deleted, err := h.svc.DeleteByID(r.Context(), id)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}

	writeJSON(w, stdhttp.StatusOK, map[string]any{"deleted": deleted})
}

func (h *Handler) CreateReply(w stdhttp.ResponseWriter, r *stdhttp.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	var req textRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Text == nil {
		writeJSON(w, stdhttp.StatusBadRequest, map[string]any{"error": "bad json"})
		return
	}

	reply, err := h.svc.Reply(r.Context(), id, *req.Text)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}

	writeJSON(w, stdhttp.StatusCreated, reply)
}

func (h *Handler) SetReplyDraft(w stdhttp.ResponseWriter, r *stdhttp.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	var req textRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Text == nil {
		writeJSON(w, stdhttp.StatusBadRequest, map[string]any{"error": "bad json"})
		return
	}

	if err := h.svc.SetReplyDraft(r.Context(), id, *req.Text); err != nil {
		h.writeServiceError(w, err)
		return
	}

	writeJSON(w, stdhttp.StatusOK, map[string]any{"reply_draft": *req.Text})
}

func (h *Handler) SubmitReply(w stdhttp.ResponseWriter, r *stdhttp.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	reply, err := h.svc.SubmitReply(r.Context(), id)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}

	writeJSON(w, stdhttp.StatusCreated, reply)
}

func (h *Handler) SetSort(w stdhttp.ResponseWriter, r *stdhttp.Request) {
	var req sortRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, stdhttp.StatusBadRequest, map[string]any{"error": "bad json"})
		return
	}

	if err := h.svc.SetSortOrder(r.Context(), req.Order); err != nil {
		h.writeServiceError(w, err)
		return
	}

	writeJSON(w, stdhttp.StatusOK, map[string]any{"sort": req.Order})
}

func (h *Handler) ToggleTimestamps(w stdhttp.ResponseWriter, r *stdhttp.Request) {
	show, err := h.svc.ToggleTimestamps(r.Context())
	if err != nil {
		h.writeServiceError(w, err)
		return
	}
	writeJSON(w, stdhttp.StatusOK, map[string]any{"show_timestamps": show})
}

func (h *Handler) ToggleStar(w stdhttp.ResponseWriter, r *stdhttp.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	starred, err := h.svc.ToggleStar(r.Context(), id)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}
	writeJSON(w, stdhttp.StatusOK, map[string]any{"starred": starred})
}

func (h *Handler) writeServiceError(w stdhttp.ResponseWriter, err error) {
	switch {
	case errors.Is(err, service.ErrInvalidInput):
		writeJSON(w, stdhttp.StatusBadRequest, map[string]any{"error": "invalid input"})
	case errors.Is(err, service.ErrNotFound):
		writeJSON(w, stdhttp.StatusNotFound, map[string]any{"error": "not found"})
	default:
		h.logger.Error("panel operation failed", zap.Error(err))
		writeJSON(w, stdhttp.StatusInternalServerError, map[string]any{"error": "internal error"})
	}
}

func writeJSON(w stdhttp.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// pathID parses a positive id path value and writes a 400 when it is not one.
func pathID(w stdhttp.ResponseWriter, r *stdhttp.Request, name string) (int64, bool) {
	id, err := parseInt64(r.PathValue(name))
	if err != nil || id <= 0 {
		writeJSON(w, stdhttp.StatusBadRequest, map[string]any{"error": "invalid " + name})
		return 0, false
	}
	return id, true
}

func parseInt64(s string) (int64, error) {
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, err
	}
	return n, nil
}

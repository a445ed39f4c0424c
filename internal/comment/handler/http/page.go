package http

import (
	"bytes"
	"embed"
	"html/template"
	stdhttp "net/http"
	"time"

	"go.uber.org/zap"

	"github.com/MyNameIsWhaaat/commentpanel/internal/comment/model"
)

//go:embed templates/*.tmpl
var templateFS embed.FS

var pageTemplate = template.Must(template.ParseFS(templateFS, "templates/panel.html.tmpl"))

type sortOption struct {
	Value    model.SortOrder
	Label    string
	Selected bool
}

type pageData struct {
	View        model.PanelView
	SortOptions []sortOption
	layout      string
}

func (d pageData) FormatTime(ms int64) string {
	return time.UnixMilli(ms).Local().Format(d.layout)
}

// Page renders the panel as HTML.
func (h *Handler) Page(w stdhttp.ResponseWriter, r *stdhttp.Request) {
	v, err := h.svc.View(r.Context())
	if err != nil {
		h.logger.Error("render panel", zap.Error(err))
		stdhttp.Error(w, "internal error", stdhttp.StatusInternalServerError)
		return
	}

	data := pageData{View: v, layout: h.layout}
	for _, o := range model.SortOrders {
		data.SortOptions = append(data.SortOptions, sortOption{
			Value:    o,
			Label:    o.Label(),
			Selected: o == v.Sort,
		})
	}

	var buf bytes.Buffer
	if err := pageTemplate.Execute(&buf, data); err != nil {
		h.logger.Error("execute page template", zap.Error(err))
		stdhttp.Error(w, "internal error", stdhttp.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(stdhttp.StatusOK)
	_, _ = buf.WriteTo(w)
}

// The form actions below redirect back to the page whatever the outcome;
// rejected input is dropped silently like in the terminal surface.

func (h *Handler) FormPost(w stdhttp.ResponseWriter, r *stdhttp.Request) {
	ctx := r.Context()
	h.silently("set pending", h.svc.SetPending(ctx, r.FormValue("text")))
	_, err := h.svc.Post(ctx)
	h.silently("post", err)
	backToPage(w, r)
}

func (h *Handler) FormDeleteComment(w stdhttp.ResponseWriter, r *stdhttp.Request) {
	if id, err := parseInt64(r.PathValue("id")); err == nil {
		h.silently("delete comment", h.svc.DeleteComment(r.Context(), id))
	}
	backToPage(w, r)
}

func (h *Handler) FormDeleteReply(w stdhttp.ResponseWriter, r *stdhttp.Request) {
	id, err1 := parseInt64(r.PathValue("id"))
	replyID, err2 := parseInt64(r.PathValue("replyID"))
	if err1 == nil && err2 == nil {
		h.silently("delete reply", h.svc.DeleteReply(r.Context(), id, replyID))
	}
	backToPage(w, r)
}

func (h *Handler) FormReply(w stdhttp.ResponseWriter, r *stdhttp.Request) {
	if id, err := parseInt64(r.PathValue("id")); err == nil {
		ctx := r.Context()
		if err := h.svc.SetReplyDraft(ctx, id, r.FormValue("text")); err == nil {
			_, err = h.svc.SubmitReply(ctx, id)
			h.silently("submit reply", err)
		} else {
			h.silently("set reply draft", err)
		}
	}
	backToPage(w, r)
}

func (h *Handler) FormStar(w stdhttp.ResponseWriter, r *stdhttp.Request) {
	if id, err := parseInt64(r.PathValue("id")); err == nil {
		_, err = h.svc.ToggleStar(r.Context(), id)
		h.silently("toggle star", err)
	}
	backToPage(w, r)
}

func (h *Handler) FormSort(w stdhttp.ResponseWriter, r *stdhttp.Request) {
	h.silently("set sort", h.svc.SetSortOrder(r.Context(), model.SortOrder(r.FormValue("order"))))
	backToPage(w, r)
}

func (h *Handler) FormTimestamps(w stdhttp.ResponseWriter, r *stdhttp.Request) {
	_, err := h.svc.ToggleTimestamps(r.Context())
	h.silently("toggle timestamps", err)
	backToPage(w, r)
}

func (h *Handler) silently(op string, err error) {
	if err != nil {
		h.logger.Debug("form action ignored", zap.String("op", op), zap.Error(err))
	}
}

func backToPage(w stdhttp.ResponseWriter, r *stdhttp.Request) {
	stdhttp.Redirect(w, r, "/", stdhttp.StatusSeeOther)
}

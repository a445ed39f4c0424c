package http

import (
	stdhttp "net/http"
)

func (h *Handler) Routes() stdhttp.Handler {
	mux := stdhttp.NewServeMux()

	mux.HandleFunc("GET /healthz", func(w stdhttp.ResponseWriter, r *stdhttp.Request) {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		w.WriteHeader(stdhttp.StatusOK)
		_, _ = w.Write([]byte(`{"result":"ok"}`))
	})

	mux.HandleFunc("GET /api/panel", h.GetPanel)
	mux.HandleFunc("PUT /api/pending", h.SetPending)
	mux.HandleFunc("POST /api/comments", h.CreateComment)
	mux.HandleFunc("DELETE /api/comments/{id}", h.DeleteComment)
	mux.HandleFunc("DELETE /api/comments/{id}/replies/{replyID}", h.DeleteReply)
	mux.HandleFunc("DELETE /api/items/{id}", h.DeleteByID)
	mux.HandleFunc("POST /api/comments/{id}/replies", h.CreateReply)
	mux.HandleFunc("PUT /api/comments/{id}/draft", h.SetReplyDraft)
	mux.HandleFunc("POST /api/comments/{id}/draft/submit", h.SubmitReply)
	mux.HandleFunc("POST /api/comments/{id}/star", h.ToggleStar)
	mux.HandleFunc("PUT /api/sort", h.SetSort)
	mux.HandleFunc("POST /api/timestamps/toggle", h.ToggleTimestamps)

	mux.HandleFunc("GET /{$}", h.Page)
	mux.HandleFunc("POST /ui/post", h.FormPost)
	mux.HandleFunc("POST /ui/sort", h.FormSort)
	mux.HandleFunc("POST /ui/timestamps", h.FormTimestamps)
	mux.HandleFunc("POST /ui/comments/{id}/delete", h.FormDeleteComment)
	mux.HandleFunc("POST /ui/comments/{id}/star", h.FormStar)
	mux.HandleFunc("POST /ui/comments/{id}/reply", h.FormReply)
	mux.HandleFunc("POST /ui/comments/{id}/replies/{replyID}/delete", h.FormDeleteReply)

	return h.logRequests(mux)
}

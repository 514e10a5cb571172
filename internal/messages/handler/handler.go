package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"cruddur/internal/messages/models"
	"cruddur/internal/platform/middleware"
	dErrors "cruddur/pkg/domain-errors"
	"cruddur/pkg/platform/httputil"
	authmw "cruddur/pkg/platform/middleware/auth"
	"cruddur/pkg/platform/sentinel"
)

// Service defines the messaging operations the HTTP layer needs.
type Service interface {
	MessageGroups(ctx context.Context, subject string) ([]*models.MessageGroup, error)
	Messages(ctx context.Context, subject, handle string) ([]*models.Message, error)
	CreateMessage(ctx context.Context, subject, receiverHandle, message string) (*models.Message, error)
}

// Handler serves /api/message_groups and /api/messages. Every route requires
// a verified access token.
type Handler struct {
	logger   *slog.Logger
	messages Service
	verifier authmw.TokenVerifier
}

func New(messages Service, verifier authmw.TokenVerifier, logger *slog.Logger) *Handler {
	return &Handler{
		logger:   logger,
		messages: messages,
		verifier: verifier,
	}
}

func (h *Handler) Register(r chi.Router) {
	r.Group(func(r chi.Router) {
		r.Use(authmw.RequireAuth(h.verifier, h.logger))
		r.Get("/message_groups", h.handleMessageGroups)
		r.Get("/messages/@{handle}", h.handleMessages)
		r.With(middleware.ContentTypeJSON).Post("/messages", h.handleCreate)
	})
}

func (h *Handler) handleMessageGroups(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	groups, err := h.messages.MessageGroups(ctx, authmw.GetSubject(ctx))
	if err != nil {
		h.writeError(ctx, w, "failed to list message groups", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, groups)
}

func (h *Handler) handleMessages(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	msgs, err := h.messages.Messages(ctx, authmw.GetSubject(ctx), chi.URLParam(r, "handle"))
	if err != nil {
		h.writeError(ctx, w, "failed to list messages", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, msgs)
}

func (h *Handler) handleCreate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	var req models.CreateMessageRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		h.writeError(ctx, w, "invalid create message request", err)
		return
	}

	msg, err := h.messages.CreateMessage(ctx, authmw.GetSubject(ctx), req.UserReceiverHandle, req.Message)
	if err != nil {
		h.writeError(ctx, w, "failed to create message", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, msg)
}

func (h *Handler) writeError(ctx context.Context, w http.ResponseWriter, msg string, err error) {
	var de *dErrors.Error
	clientFault := (errors.As(err, &de) && de.Code != dErrors.CodeInternal) || errors.Is(err, sentinel.ErrNotFound)
	if clientFault {
		h.logger.WarnContext(ctx, msg, "request_id", middleware.GetRequestID(ctx), "error", err.Error())
	} else {
		h.logger.ErrorContext(ctx, msg, "request_id", middleware.GetRequestID(ctx), "error", err.Error())
	}
	httputil.WriteError(w, err)
}

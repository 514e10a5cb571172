package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"cruddur/internal/activities/models"
	"cruddur/internal/platform/middleware"
	"cruddur/pkg/domain"
	dErrors "cruddur/pkg/domain-errors"
	"cruddur/pkg/platform/httputil"
	authmw "cruddur/pkg/platform/middleware/auth"
	"cruddur/pkg/platform/sentinel"
)

// Service defines the activity operations the HTTP layer needs.
type Service interface {
	HomeActivities(ctx context.Context, subject string) ([]*models.Activity, error)
	UserActivities(ctx context.Context, handle string) ([]*models.Activity, error)
	SearchActivities(ctx context.Context, term string) ([]*models.Activity, error)
	CreateActivity(ctx context.Context, subject, message, ttl string) (*models.Activity, error)
	ShowActivity(ctx context.Context, id domain.ActivityID) (*models.Activity, error)
	CreateReply(ctx context.Context, subject, activityUUID, message string) (*models.Activity, error)
	NotificationActivities(ctx context.Context, subject string) ([]*models.Activity, error)
}

// Handler serves /api/activities.
type Handler struct {
	logger     *slog.Logger
	activities Service
	verifier   authmw.TokenVerifier
}

func New(activities Service, verifier authmw.TokenVerifier, logger *slog.Logger) *Handler {
	return &Handler{
		logger:     logger,
		activities: activities,
		verifier:   verifier,
	}
}

// Register mounts the activity routes under /activities. The home feed
// authenticates optionally; composing, replying and notifications require a
// verified access token.
func (h *Handler) Register(r chi.Router) {
	r.Route("/activities", func(r chi.Router) {
		r.With(authmw.OptionalAuth(h.verifier, h.logger)).Get("/home", h.handleHome)
		r.Get("/search", h.handleSearch)
		r.Get("/@{handle}", h.handleUserActivities)
		r.Get("/{activity_uuid}", h.handleShow)

		r.Group(func(r chi.Router) {
			r.Use(authmw.RequireAuth(h.verifier, h.logger))
			r.Get("/notifications", h.handleNotifications)
			r.With(middleware.ContentTypeJSON).Post("/", h.handleCreate)
			r.With(middleware.ContentTypeJSON).Post("/{activity_uuid}/reply", h.handleReply)
		})
	})
}

// handleHome serves the home feed, scoped to the viewer when the token verified.
func (h *Handler) handleHome(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	feed, err := h.activities.HomeActivities(ctx, authmw.GetSubject(ctx))
	if err != nil {
		h.writeError(ctx, w, "failed to load home activities", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, feed)
}

func (h *Handler) handleNotifications(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	feed, err := h.activities.NotificationActivities(ctx, authmw.GetSubject(ctx))
	if err != nil {
		h.writeError(ctx, w, "failed to load notifications", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, feed)
}

func (h *Handler) handleUserActivities(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	feed, err := h.activities.UserActivities(ctx, chi.URLParam(r, "handle"))
	if err != nil {
		h.writeError(ctx, w, "failed to load user activities", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, feed)
}

func (h *Handler) handleSearch(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	feed, err := h.activities.SearchActivities(ctx, r.URL.Query().Get("term"))
	if err != nil {
		h.writeError(ctx, w, "failed to search activities", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, feed)
}

func (h *Handler) handleCreate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	var req models.CreateActivityRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		h.writeError(ctx, w, "invalid create activity request", err)
		return
	}

	activity, err := h.activities.CreateActivity(ctx, authmw.GetSubject(ctx), req.Message, req.TTL)
	if err != nil {
		h.writeError(ctx, w, "failed to create activity", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, activity)
}

func (h *Handler) handleShow(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id, err := domain.ParseActivityID(chi.URLParam(r, "activity_uuid"))
	if err != nil {
		h.writeError(ctx, w, "invalid activity uuid", err)
		return
	}
	activity, err := h.activities.ShowActivity(ctx, id)
	if err != nil {
		h.writeError(ctx, w, "failed to show activity", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, activity)
}

func (h *Handler) handleReply(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	var req models.CreateReplyRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		h.writeError(ctx, w, "invalid reply request", err)
		return
	}

	reply, err := h.activities.CreateReply(ctx, authmw.GetSubject(ctx), chi.URLParam(r, "activity_uuid"), req.Message)
	if err != nil {
		h.writeError(ctx, w, "failed to create reply", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, reply)
}

// writeError logs at a level matching the failure and writes the response.
// Client mistakes are warnings; everything else is an error.
func (h *Handler) writeError(ctx context.Context, w http.ResponseWriter, msg string, err error) {
	attrs := []any{
		"request_id", middleware.GetRequestID(ctx),
		"error", err.Error(),
	}
	var de *dErrors.Error
	if (errors.As(err, &de) && de.Code != dErrors.CodeInternal) || errors.Is(err, sentinel.ErrNotFound) {
		h.logger.WarnContext(ctx, msg, attrs...)
	} else {
		h.logger.ErrorContext(ctx, msg, attrs...)
	}
	httputil.WriteError(w, err)
}

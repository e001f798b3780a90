// Package handler exposes the admin surface: login/logout, the one-time
// setup, and the review dashboard with its decision endpoints. Mutating
// review routes sit behind the session gate.
package handler

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	adminmodels "memberdesk/internal/admin/models"
	"memberdesk/internal/membership/models"
	"memberdesk/internal/platform/middleware"
	dErrors "memberdesk/pkg/domain-errors"
	"memberdesk/pkg/platform/httputil"
)

// MembershipService defines the review operations the admin routes need.
type MembershipService interface {
	Get(ctx context.Context, id uuid.UUID) (*models.Member, error)
	Approve(ctx context.Context, id uuid.UUID, notes string) (*models.Member, error)
	Reject(ctx context.Context, id uuid.UUID, notes string) (*models.Member, error)
	ListPendingReview(ctx context.Context) ([]models.Member, error)
	ListByStatus(ctx context.Context, status models.Status) ([]models.Member, error)
	ListDirectory(ctx context.Context) ([]models.Member, error)
	ListSponsorIssues(ctx context.Context) ([]models.Member, error)
}

// AccountService defines the admin account operations.
type AccountService interface {
	Login(ctx context.Context, username, password, userAgent string) (string, error)
	Logout(ctx context.Context, token string) error
	SetupRequired(ctx context.Context) (bool, error)
	Setup(ctx context.Context, username, password, email string) (*adminmodels.Admin, error)
}

// Handler handles the admin endpoints.
type Handler struct {
	logger     *slog.Logger
	members    MembershipService
	accounts   AccountService
	gate       func(http.Handler) http.Handler
	sessionTTL time.Duration
}

func New(
	members MembershipService,
	accounts AccountService,
	gate func(http.Handler) http.Handler,
	sessionTTL time.Duration,
	logger *slog.Logger) *Handler {
	return &Handler{
		logger:     logger,
		members:    members,
		accounts:   accounts,
		gate:       gate,
		sessionTTL: sessionTTL,
	}
}

// Register registers admin routes with the chi router. Login, logout, and
// setup stay outside the gate; everything else requires a valid session.
func (h *Handler) Register(r chi.Router) {
	r.Get("/admin/login", h.handleLoginInfo)
	r.Post("/admin/login", h.handleLogin)
	r.Get("/admin/logout", h.handleLogout)
	r.Get("/setup", h.handleSetupInfo)
	r.Post("/setup", h.handleSetup)

	r.Group(func(g chi.Router) {
		g.Use(h.gate)
		g.Get("/admin/dashboard", h.handleDashboard)
		g.Get("/admin/member/{id}", h.handleMemberDetail)
		g.Post("/admin/approve/{id}", h.handleApprove)
		g.Post("/admin/reject/{id}", h.handleReject)
		g.Get("/admin/board-review", h.handleBoardReview)
		g.Get("/admin/directory", h.handleDirectory)
	})
}

func (h *Handler) handleLoginInfo(w http.ResponseWriter, r *http.Request) {
	httputil.WriteJSON(w, http.StatusOK, map[string]any{
		"login":  "POST /admin/login with username and password",
		"fields": []string{"username", "password"},
	})
}

func (h *Handler) handleLogin(w http.ResponseWriter, r *http.Request) {
	username, password, err := decodeCredentials(r)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	token, err := h.accounts.Login(r.Context(), username, password, r.UserAgent())
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     middleware.SessionCookie,
		Value:    token,
		Path:     "/",
		MaxAge:   int(h.sessionTTL.Seconds()),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})

	if wantsJSON(r) {
		httputil.WriteJSON(w, http.StatusOK, map[string]any{"dashboard": "/admin/dashboard"})
		return
	}
	http.Redirect(w, r, "/admin/dashboard", http.StatusSeeOther)
}

func (h *Handler) handleLogout(w http.ResponseWriter, r *http.Request) {
	if cookie, err := r.Cookie(middleware.SessionCookie); err == nil {
		if err := h.accounts.Logout(r.Context(), cookie.Value); err != nil {
			h.logger.WarnContext(r.Context(), "logout revocation failed", "error", err)
		}
	}

	http.SetCookie(w, &http.Cookie{
		Name:     middleware.SessionCookie,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (h *Handler) handleSetupInfo(w http.ResponseWriter, r *http.Request) {
	required, err := h.accounts.SetupRequired(r.Context())
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, map[string]any{"setup_required": required})
}

func (h *Handler) handleSetup(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Username string `json:"username"`
		Password string `json:"password"`
		Email    string `json:"email"`
	}
	if isJSON(r) {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			httputil.WriteError(w, dErrors.New(dErrors.CodeInvalidInput, "invalid request body"))
			return
		}
	} else {
		if err := r.ParseForm(); err != nil {
			httputil.WriteError(w, dErrors.New(dErrors.CodeInvalidInput, "invalid form data"))
			return
		}
		req.Username = r.PostFormValue("username")
		req.Password = r.PostFormValue("password")
		req.Email = r.PostFormValue("email")
	}

	admin, err := h.accounts.Setup(r.Context(), req.Username, req.Password, req.Email)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteJSON(w, http.StatusCreated, map[string]any{
		"id":       admin.ID,
		"username": admin.Username,
		"login":    "/admin/login",
	})
}

func (h *Handler) handleDashboard(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	pending, err := h.members.ListPendingReview(ctx)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	approved, err := h.members.ListByStatus(ctx, models.StatusApproved)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	rejected, err := h.members.ListByStatus(ctx, models.StatusRejected)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	sponsorIssues, err := h.members.ListSponsorIssues(ctx)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, map[string]any{
		"pending":        emptyIfNil(pending),
		"approved":       emptyIfNil(approved),
		"rejected":       emptyIfNil(rejected),
		"sponsor_issues": emptyIfNil(sponsorIssues),
	})
}

func (h *Handler) handleMemberDetail(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	member, err := h.members.Get(r.Context(), id)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, member)
}

func (h *Handler) handleApprove(w http.ResponseWriter, r *http.Request) {
	h.handleDecision(w, r, h.members.Approve)
}

func (h *Handler) handleReject(w http.ResponseWriter, r *http.Request) {
	h.handleDecision(w, r, h.members.Reject)
}

func (h *Handler) handleDecision(
	w http.ResponseWriter,
	r *http.Request,
	decide func(ctx context.Context, id uuid.UUID, notes string) (*models.Member, error)) {
	id, err := parseID(r)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	notes, err := decodeNotes(r)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	member, err := decide(r.Context(), id, notes)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, member)
}

// handleBoardReview returns the printable review list: paid, undecided
// applications in application order.
func (h *Handler) handleBoardReview(w http.ResponseWriter, r *http.Request) {
	pending, err := h.members.ListPendingReview(r.Context())
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, map[string]any{
		"generated_at": time.Now().UTC().Format(time.RFC3339),
		"members":      emptyIfNil(pending),
	})
}

func (h *Handler) handleDirectory(w http.ResponseWriter, r *http.Request) {
	members, err := h.members.ListDirectory(r.Context())
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, map[string]any{"members": emptyIfNil(members)})
}

func parseID(r *http.Request) (uuid.UUID, error) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		return uuid.Nil, dErrors.New(dErrors.CodeNotFound, "application not found")
	}
	return id, nil
}

func decodeCredentials(r *http.Request) (username, password string, err error) {
	if isJSON(r) {
		var req struct {
			Username string `json:"username"`
			Password string `json:"password"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			return "", "", dErrors.New(dErrors.CodeInvalidInput, "invalid request body")
		}
		return req.Username, req.Password, nil
	}

	if err := r.ParseForm(); err != nil {
		return "", "", dErrors.New(dErrors.CodeInvalidInput, "invalid form data")
	}
	return r.PostFormValue("username"), r.PostFormValue("password"), nil
}

func decodeNotes(r *http.Request) (string, error) {
	if isJSON(r) {
		var req struct {
			Notes string `json:"notes"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			return "", dErrors.New(dErrors.CodeInvalidInput, "invalid request body")
		}
		return req.Notes, nil
	}

	if err := r.ParseForm(); err != nil {
		return "", dErrors.New(dErrors.CodeInvalidInput, "invalid form data")
	}
	return r.PostFormValue("notes"), nil
}

func isJSON(r *http.Request) bool {
	return strings.HasPrefix(r.Header.Get("Content-Type"), "application/json")
}

func wantsJSON(r *http.Request) bool {
	return isJSON(r) || strings.Contains(r.Header.Get("Accept"), "application/json")
}

func emptyIfNil(members []models.Member) []models.Member {
	if members == nil {
		return []models.Member{}
	}
	return members
}

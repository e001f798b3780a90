// Package handler exposes the public intake routes: the landing page, the
// application form, and the payment flow. Page rendering is out of scope;
// responses are JSON for the frontend to present.
package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"memberdesk/internal/membership/models"
	dErrors "memberdesk/pkg/domain-errors"
	"memberdesk/pkg/platform/httputil"
)

// Service defines the workflow operations the public routes need.
type Service interface {
	Submit(ctx context.Context, sub models.Submission) (*models.Member, error)
	Get(ctx context.Context, id uuid.UUID) (*models.Member, error)
	CompletePayment(ctx context.Context, id uuid.UUID, paymentID string) (*models.Member, error)
}

// Handler handles the applicant-facing endpoints.
type Handler struct {
	logger  *slog.Logger
	members Service
}

func New(members Service, logger *slog.Logger) *Handler {
	return &Handler{
		logger:  logger,
		members: members,
	}
}

// Register registers the public routes with the chi router.
func (h *Handler) Register(r chi.Router) {
	r.Get("/", h.handleIndex)
	r.Get("/apply", h.handleApplyInfo)
	r.Post("/apply", h.handleApply)
	r.Get("/payment/{id}", h.handlePaymentInfo)
	r.Get("/payment/success/{id}", h.handlePaymentSuccess)
}

func (h *Handler) handleIndex(w http.ResponseWriter, r *http.Request) {
	httputil.WriteJSON(w, http.StatusOK, map[string]any{
		"service": "memberdesk",
		"apply":   "/apply",
	})
}

// handleApplyInfo describes the form so a frontend can render it: required
// fields and the age-based category table.
func (h *Handler) handleApplyInfo(w http.ResponseWriter, r *http.Request) {
	httputil.WriteJSON(w, http.StatusOK, map[string]any{
		"required_fields": []string{
			"name", "email", "birthdate", "address", "city",
			"province_state", "postal_code", "signature",
		},
		"categories": []map[string]any{
			{"category": "Probationary", "ages": "10-13", "fee": "30.00", "requires": "parent_guardian"},
			{"category": "Junior", "ages": "14-18", "fee": "30.00", "requires": "sponsor1, sponsor2"},
			{"category": "Regular", "ages": "19-64", "fee": "50.00"},
			{"category": "Senior", "ages": "65+", "fee": "40.00"},
		},
	})
}

func (h *Handler) handleApply(w http.ResponseWriter, r *http.Request) {
	sub, err := decodeSubmission(r)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	member, err := h.members.Submit(r.Context(), sub)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteJSON(w, http.StatusCreated, map[string]any{
		"id":                  member.ID,
		"membership_category": member.Category,
		"membership_fee":      member.Fee,
		"payment_url":         "/payment/" + member.ID.String(),
	})
}

// handlePaymentInfo shows what the applicant owes and where to confirm.
func (h *Handler) handlePaymentInfo(w http.ResponseWriter, r *http.Request) {
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

	httputil.WriteJSON(w, http.StatusOK, map[string]any{
		"id":                  member.ID,
		"name":                member.Name,
		"membership_category": member.Category,
		"amount_due":          member.Fee,
		"payment_status":      member.PaymentStatus,
		"success_url":         "/payment/success/" + member.ID.String(),
	})
}

func (h *Handler) handlePaymentSuccess(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	paymentID := r.URL.Query().Get("payment_id")
	member, err := h.members.CompletePayment(r.Context(), id, paymentID)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, map[string]any{
		"id":             member.ID,
		"payment_status": member.PaymentStatus,
		"payment_id":     member.PaymentID,
	})
}

func parseID(r *http.Request) (uuid.UUID, error) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		return uuid.Nil, dErrors.New(dErrors.CodeNotFound, "application not found")
	}
	return id, nil
}

package store

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"memberdesk/internal/membership/models"
	"memberdesk/pkg/platform/sentinel"
)

// InMemoryMemberStore serves tests and single-process development. Writes
// are serialized by one lock so they are atomic without a transaction.
type InMemoryMemberStore struct {
	mu      sync.RWMutex
	members map[uuid.UUID]*models.Member
	byEmail map[string]uuid.UUID
}

func NewInMemoryMemberStore() *InMemoryMemberStore {
	return &InMemoryMemberStore{
		members: make(map[uuid.UUID]*models.Member),
		byEmail: make(map[string]uuid.UUID),
	}
}

func (s *InMemoryMemberStore) Create(_ context.Context, member *models.Member) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.byEmail[member.Email]; exists {
		return sentinel.ErrConflict
	}

	stored := *member
	s.members[member.ID] = &stored
	s.byEmail[member.Email] = member.ID
	return nil
}

func (s *InMemoryMemberStore) FindByID(_ context.Context, id uuid.UUID) (*models.Member, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	member, ok := s.members[id]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	copied := *member
	return &copied, nil
}

func (s *InMemoryMemberStore) ExistsApprovedByName(_ context.Context, name string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, member := range s.members {
		if member.Name == name && member.Status == models.StatusApproved {
			return true, nil
		}
	}
	return false, nil
}

func (s *InMemoryMemberStore) UpdateSponsorStatuses(_ context.Context, id uuid.UUID, s1, s2 models.SponsorStatus) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	member, ok := s.members[id]
	if !ok {
		return sentinel.ErrNotFound
	}
	member.Sponsor1Status = s1
	member.Sponsor2Status = s2
	return nil
}

func (s *InMemoryMemberStore) CompletePayment(_ context.Context, id uuid.UUID, paymentID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	member, ok := s.members[id]
	if !ok {
		return sentinel.ErrNotFound
	}
	member.PaymentStatus = models.PaymentCompleted
	member.PaymentID = paymentID
	return nil
}

func (s *InMemoryMemberStore) RecordDecision(_ context.Context, id uuid.UUID, status models.Status, approvalDate *time.Time, notes string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	member, ok := s.members[id]
	if !ok {
		return sentinel.ErrNotFound
	}
	member.Status = status
	member.ApprovalDate = approvalDate
	if notes != "" {
		member.AdminNotes = notes
	}
	return nil
}

func (s *InMemoryMemberStore) ListPendingReview(_ context.Context) ([]models.Member, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []models.Member
	for _, member := range s.members {
		if member.Status == models.StatusPending && member.PaymentStatus == models.PaymentCompleted {
			out = append(out, *member)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].ApplicationDate.Before(out[j].ApplicationDate)
	})
	return out, nil
}

func (s *InMemoryMemberStore) ListByStatus(_ context.Context, status models.Status) ([]models.Member, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []models.Member
	for _, member := range s.members {
		if member.Status == status {
			out = append(out, *member)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].ApplicationDate.After(out[j].ApplicationDate)
	})
	return out, nil
}

func (s *InMemoryMemberStore) ListDirectory(_ context.Context) ([]models.Member, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []models.Member
	for _, member := range s.members {
		if member.Status == models.StatusApproved && member.DirectoryConsent {
			out = append(out, *member)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].Name < out[j].Name
	})
	return out, nil
}

func (s *InMemoryMemberStore) ListSponsorIssues(_ context.Context) ([]models.Member, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []models.Member
	for _, member := range s.members {
		if member.Sponsor1Status == models.SponsorNotFound || member.Sponsor2Status == models.SponsorNotFound {
			out = append(out, *member)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].ApplicationDate.Before(out[j].ApplicationDate)
	})
	return out, nil
}

package service

import (
	"context"

	"memberdesk/internal/membership/models"
	dErrors "memberdesk/pkg/domain-errors"
)

// verifySponsors resolves each named sponsor against approved members and
// persists the result. Matching is exact name-string comparison: an approved
// namesake verifies, and a sponsor who has applied but is not yet approved
// does not. Blank slots stay unset. Runs inside the submit transaction.
func (s *Service) verifySponsors(ctx context.Context, member *models.Member) error {
	s1, err := s.checkSponsor(ctx, member.Sponsor1Name)
	if err != nil {
		return err
	}
	s2, err := s.checkSponsor(ctx, member.Sponsor2Name)
	if err != nil {
		return err
	}

	if s1 == models.SponsorUnset && s2 == models.SponsorUnset {
		return nil
	}

	if err := s.members.UpdateSponsorStatuses(ctx, member.ID, s1, s2); err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "could not record sponsor verification")
	}
	member.Sponsor1Status = s1
	member.Sponsor2Status = s2
	return nil
}

func (s *Service) checkSponsor(ctx context.Context, name string) (models.SponsorStatus, error) {
	if name == "" {
		return models.SponsorUnset, nil
	}

	exists, err := s.members.ExistsApprovedByName(ctx, name)
	if err != nil {
		return models.SponsorUnset, dErrors.Wrap(err, dErrors.CodeInternal, "could not verify sponsor")
	}
	if !exists {
		if s.metrics != nil {
			s.metrics.SponsorsNotFound.Inc()
		}
		return models.SponsorNotFound, nil
	}
	return models.SponsorVerified, nil
}

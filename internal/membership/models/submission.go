package models

import (
	"strings"
	"time"

	dErrors "memberdesk/pkg/domain-errors"
)

// Submission is the validated intake form for a membership application.
// Category-specific requirements (sponsors, parent/guardian signature) are
// checked by the service once eligibility has computed the category.
type Submission struct {
	Name      string
	Email     string
	Birthdate *time.Time

	Address       string
	City          string
	ProvinceState string
	PostalCode    string

	PreferredContact string
	PhoneOther       string

	DirectoryConsent bool

	Interests      []string
	InterestsOther string

	Signature      string
	ParentGuardian string
	Sponsor1       string
	Sponsor2       string
}

// Normalize trims the fields that feed matching and uniqueness checks.
func (s *Submission) Normalize() {
	s.Name = strings.TrimSpace(s.Name)
	s.Email = strings.ToLower(strings.TrimSpace(s.Email))
	s.Sponsor1 = strings.TrimSpace(s.Sponsor1)
	s.Sponsor2 = strings.TrimSpace(s.Sponsor2)
	s.ParentGuardian = strings.TrimSpace(s.ParentGuardian)
}

// Validate checks presence of all unconditionally required fields and
// returns an invalid_input error enumerating what is missing.
func (s *Submission) Validate() error {
	var missing []string
	require := func(value, field string) {
		if strings.TrimSpace(value) == "" {
			missing = append(missing, field)
		}
	}

	require(s.Name, "name")
	require(s.Email, "email")
	require(s.Address, "address")
	require(s.City, "city")
	require(s.ProvinceState, "province_state")
	require(s.PostalCode, "postal_code")
	require(s.Signature, "signature")

	if len(missing) > 0 {
		return dErrors.Newf(dErrors.CodeInvalidInput, "missing required fields: %s", strings.Join(missing, ", "))
	}
	return nil
}

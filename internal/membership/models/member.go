// Package models holds the member record and its workflow enums.
package models

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Category is the age-derived membership tier.
type Category string

const (
	CategoryProbationary Category = "Probationary"
	CategoryJunior       Category = "Junior"
	CategoryRegular      Category = "Regular"
	CategorySenior       Category = "Senior"
)

// Status is the review state of an application. Transitions are
// pending→approved or pending→rejected, both terminal.
type Status string

const (
	StatusPending  Status = "pending"
	StatusApproved Status = "approved"
	StatusRejected Status = "rejected"
)

// Terminal reports whether the status permits no further transition.
func (s Status) Terminal() bool {
	return s == StatusApproved || s == StatusRejected
}

// PaymentStatus tracks the fee payment, independent of review status.
type PaymentStatus string

const (
	PaymentPending   PaymentStatus = "pending"
	PaymentCompleted PaymentStatus = "completed"
)

// SponsorStatus is the verification result for one named sponsor. The zero
// value means the sponsor slot was left blank or has not been checked.
type SponsorStatus string

const (
	SponsorUnset    SponsorStatus = ""
	SponsorVerified SponsorStatus = "verified"
	SponsorNotFound SponsorStatus = "not_found"
)

// FeeCents is a currency amount in cents. Fees are money; they are stored
// and compared as integers and only formatted for display.
type FeeCents int64

func (f FeeCents) String() string {
	return fmt.Sprintf("%d.%02d", f/100, f%100)
}

// MarshalJSON renders the fee as a decimal string, e.g. "30.00".
func (f FeeCents) MarshalJSON() ([]byte, error) {
	return []byte(`"` + f.String() + `"`), nil
}

// Member is one applicant's full profile and workflow state.
type Member struct {
	ID        uuid.UUID  `json:"id"`
	Name      string     `json:"name"`
	Email     string     `json:"email"`
	Birthdate *time.Time `json:"birthdate,omitempty"`

	Address       string `json:"address"`
	City          string `json:"city"`
	ProvinceState string `json:"province_state"`
	PostalCode    string `json:"postal_code"`

	PreferredContact string `json:"preferred_contact,omitempty"`
	PhoneOther       string `json:"phone_other,omitempty"`

	Category Category `json:"membership_category"`
	Fee      FeeCents `json:"membership_fee"`
	Status   Status   `json:"status"`

	DirectoryConsent bool `json:"directory_consent"`

	Interests      string `json:"interests,omitempty"`
	InterestsOther string `json:"interests_other,omitempty"`

	Signature       string     `json:"signature"`
	ApplicationDate time.Time  `json:"application_date"`
	ApprovalDate    *time.Time `json:"approval_date,omitempty"`

	PaymentStatus PaymentStatus `json:"payment_status"`
	PaymentID     string        `json:"payment_id,omitempty"`

	ParentGuardianSignature string        `json:"parent_guardian_signature,omitempty"`
	Sponsor1Name            string        `json:"sponsor1_name,omitempty"`
	Sponsor1Status          SponsorStatus `json:"sponsor1_status,omitempty"`
	Sponsor2Name            string        `json:"sponsor2_name,omitempty"`
	Sponsor2Status          SponsorStatus `json:"sponsor2_status,omitempty"`

	AdminNotes string `json:"admin_notes,omitempty"`
}

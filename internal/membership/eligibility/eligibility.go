// Package eligibility maps a birth date onto a membership category and fee.
// The mapping is pure: given the same birth date and reference time it
// always produces the same result, so callers pin "now" per request.
package eligibility

import (
	"time"

	"memberdesk/internal/membership/models"
)

// Result is the computed membership tier for an eligible applicant.
type Result struct {
	Category models.Category
	Fee      models.FeeCents
}

// Age returns whole years between birth and now, counting the birthday as
// not yet reached when (month, day) of now precedes (month, day) of birth.
func Age(birth, now time.Time) int {
	age := now.Year() - birth.Year()
	if now.Month() < birth.Month() ||
		(now.Month() == birth.Month() && now.Day() < birth.Day()) {
		age--
	}
	return age
}

// Calculate maps a birth date onto a category and fee. ok is false for
// applicants under 10 or with no birth date; such applications are rejected
// at validation.
func Calculate(birth *time.Time, now time.Time) (Result, bool) {
	if birth == nil {
		return Result{}, false
	}

	switch age := Age(*birth, now); {
	case age < 10:
		return Result{}, false
	case age <= 13:
		return Result{Category: models.CategoryProbationary, Fee: 3000}, true
	case age <= 18:
		return Result{Category: models.CategoryJunior, Fee: 3000}, true
	case age <= 64:
		return Result{Category: models.CategoryRegular, Fee: 5000}, true
	default:
		return Result{Category: models.CategorySenior, Fee: 4000}, true
	}
}

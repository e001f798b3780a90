package eligibility

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"memberdesk/internal/membership/models"
)

var now = time.Date(2026, time.June, 15, 12, 0, 0, 0, time.UTC)

func date(y int, m time.Month, d int) *time.Time {
	t := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	return &t
}

func TestAge(t *testing.T) {
	tests := []struct {
		name  string
		birth time.Time
		want  int
	}{
		{"birthday today", time.Date(2000, time.June, 15, 0, 0, 0, 0, time.UTC), 26},
		{"birthday tomorrow", time.Date(2000, time.June, 16, 0, 0, 0, 0, time.UTC), 25},
		{"birthday yesterday", time.Date(2000, time.June, 14, 0, 0, 0, 0, time.UTC), 26},
		{"birthday later this year", time.Date(2000, time.December, 1, 0, 0, 0, 0, time.UTC), 25},
		{"birthday earlier this year", time.Date(2000, time.January, 1, 0, 0, 0, 0, time.UTC), 26},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Age(tt.birth, now))
		})
	}
}

func TestCalculate(t *testing.T) {
	tests := []struct {
		name         string
		birth        *time.Time
		wantOK       bool
		wantCategory models.Category
		wantFee      models.FeeCents
	}{
		{"no birth date", nil, false, "", 0},
		{"age 9", date(2016, time.July, 1), false, "", 0},
		{"exactly 10 today", date(2016, time.June, 15), true, models.CategoryProbationary, 3000},
		{"exactly 13 today", date(2013, time.June, 15), true, models.CategoryProbationary, 3000},
		{"exactly 14 today", date(2012, time.June, 15), true, models.CategoryJunior, 3000},
		{"age 18", date(2008, time.January, 1), true, models.CategoryJunior, 3000},
		{"exactly 19 today", date(2007, time.June, 15), true, models.CategoryRegular, 5000},
		{"age 40", date(1986, time.March, 3), true, models.CategoryRegular, 5000},
		{"age 64, birthday tomorrow", date(1961, time.June, 16), true, models.CategoryRegular, 5000},
		{"exactly 65 today", date(1961, time.June, 15), true, models.CategorySenior, 4000},
		{"age 90", date(1936, time.January, 1), true, models.CategorySenior, 4000},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := Calculate(tt.birth, now)
			require.Equal(t, tt.wantOK, ok)
			if !ok {
				return
			}
			assert.Equal(t, tt.wantCategory, got.Category)
			assert.Equal(t, tt.wantFee, got.Fee)
		})
	}
}

func TestFeeFormatting(t *testing.T) {
	assert.Equal(t, "30.00", models.FeeCents(3000).String())
	assert.Equal(t, "40.00", models.FeeCents(4000).String())
	assert.Equal(t, "50.00", models.FeeCents(5000).String())
	assert.Equal(t, "12.05", models.FeeCents(1205).String())
}

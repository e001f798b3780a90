package handler

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"memberdesk/internal/membership/models"
	dErrors "memberdesk/pkg/domain-errors"
	strutil "memberdesk/pkg/platform/strings"
)

// submissionRequest is the wire shape of an application, accepted both as
// JSON and as a classic URL-encoded form post.
type submissionRequest struct {
	Name             string   `json:"name"`
	Email            string   `json:"email"`
	Birthdate        string   `json:"birthdate"`
	Address          string   `json:"address"`
	City             string   `json:"city"`
	ProvinceState    string   `json:"province_state"`
	PostalCode       string   `json:"postal_code"`
	PreferredContact string   `json:"preferred_contact"`
	PhoneOther       string   `json:"phone_other"`
	DirectoryConsent bool     `json:"directory_consent"`
	Interests        []string `json:"interests"`
	InterestsOther   string   `json:"interests_other"`
	Signature        string   `json:"signature"`
	ParentGuardian   string   `json:"parent_guardian"`
	Sponsor1         string   `json:"sponsor1"`
	Sponsor2         string   `json:"sponsor2"`
}

func decodeSubmission(r *http.Request) (models.Submission, error) {
	var req submissionRequest

	if isJSON(r) {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			return models.Submission{}, dErrors.New(dErrors.CodeInvalidInput, "invalid request body")
		}
	} else {
		if err := r.ParseForm(); err != nil {
			return models.Submission{}, dErrors.New(dErrors.CodeInvalidInput, "invalid form data")
		}
		req = submissionRequest{
			Name:             r.PostFormValue("name"),
			Email:            r.PostFormValue("email"),
			Birthdate:        r.PostFormValue("birthdate"),
			Address:          r.PostFormValue("address"),
			City:             r.PostFormValue("city"),
			ProvinceState:    r.PostFormValue("province_state"),
			PostalCode:       r.PostFormValue("postal_code"),
			PreferredContact: r.PostFormValue("preferred_contact"),
			PhoneOther:       r.PostFormValue("phone_other"),
			DirectoryConsent: r.PostFormValue("directory_consent") == "yes",
			Interests:        r.PostForm["interests"],
			InterestsOther:   r.PostFormValue("interests_other"),
			Signature:        r.PostFormValue("signature"),
			ParentGuardian:   r.PostFormValue("parent_guardian"),
			Sponsor1:         r.PostFormValue("sponsor1"),
			Sponsor2:         r.PostFormValue("sponsor2"),
		}
	}

	sub := models.Submission{
		Name:             req.Name,
		Email:            req.Email,
		Address:          req.Address,
		City:             req.City,
		ProvinceState:    req.ProvinceState,
		PostalCode:       req.PostalCode,
		PreferredContact: req.PreferredContact,
		PhoneOther:       req.PhoneOther,
		DirectoryConsent: req.DirectoryConsent,
		Interests:        strutil.DedupeAndTrim(req.Interests),
		InterestsOther:   req.InterestsOther,
		Signature:        req.Signature,
		ParentGuardian:   req.ParentGuardian,
		Sponsor1:         req.Sponsor1,
		Sponsor2:         req.Sponsor2,
	}

	if req.Birthdate != "" {
		birth, err := time.Parse("2006-01-02", req.Birthdate)
		if err != nil {
			return models.Submission{}, dErrors.New(dErrors.CodeInvalidInput, "birthdate must be YYYY-MM-DD")
		}
		sub.Birthdate = &birth
	}

	return sub, nil
}

func isJSON(r *http.Request) bool {
	return strings.HasPrefix(r.Header.Get("Content-Type"), "application/json")
}

package httpapi

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/dmitrijs2005/devconnector/internal/server/models"
	"github.com/dmitrijs2005/devconnector/internal/server/services"
	"github.com/dmitrijs2005/devconnector/internal/server/validation"
	"github.com/dmitrijs2005/devconnector/internal/timex"
)

const maxBodyBytes = 1 << 20

type registerRequest struct {
	Name     string `json:"name" validate:"required" msg:"Name is required"`
	Email    string `json:"email" validate:"required,email" msg:"Please include a valid email"`
	Password string `json:"password" validate:"min=6" msg:"Please enter a password with 6 or more characters"`
}

type loginRequest struct {
	Email    string `json:"email" validate:"required" msg:"Email is required"`
	Password string `json:"password" validate:"required" msg:"Password is required"`
}

type profileRequest struct {
	Company        string `json:"company"`
	Website        string `json:"website"`
	Location       string `json:"location"`
	Bio            string `json:"bio"`
	Status         string `json:"status" validate:"required" msg:"Status is required"`
	GitHubUsername string `json:"githubusername"`
	Skills         string `json:"skills" validate:"required" msg:"Skills is required"`
	YouTube        string `json:"youtube"`
	Twitter        string `json:"twitter"`
	Facebook       string `json:"facebook"`
	LinkedIn       string `json:"linkedin"`
	Instagram      string `json:"instagram"`
}

// checkSkills rejects a skills list that is only separators and blanks.
func (req profileRequest) checkSkills(fields models.ProfileFields) error {
	if len(fields.Skills) == 0 {
		return validation.Errors{{Msg: "Skills is required", Param: "skills"}}
	}
	return nil
}

// fields keeps only the non-empty values so an update leaves the rest alone.
func (req profileRequest) fields() models.ProfileFields {
	opt := func(v string) *string {
		if v == "" {
			return nil
		}
		return &v
	}
	return models.ProfileFields{
		Company:        opt(req.Company),
		Website:        opt(req.Website),
		Location:       opt(req.Location),
		Bio:            opt(req.Bio),
		Status:         opt(req.Status),
		GitHubUsername: opt(req.GitHubUsername),
		Skills:         services.ParseSkills(req.Skills),
		YouTube:        opt(req.YouTube),
		Twitter:        opt(req.Twitter),
		Facebook:       opt(req.Facebook),
		LinkedIn:       opt(req.LinkedIn),
		Instagram:      opt(req.Instagram),
	}
}

type experienceRequest struct {
	Title       string `json:"title" validate:"required" msg:"Title is required"`
	Company     string `json:"company" validate:"required" msg:"Company is required"`
	Location    string `json:"location" validate:"required" msg:"Location is required"`
	From        string `json:"from" validate:"required,isodate" msg:"From date is required"`
	To          string `json:"to" validate:"omitempty,isodate" msg:"To date is invalid"`
	Current     bool   `json:"current"`
	Description string `json:"description"`
}

func (req experienceRequest) entry() models.Experience {
	from, to := parsePeriod(req.From, req.To)
	return models.Experience{
		Title:       req.Title,
		Company:     req.Company,
		Location:    req.Location,
		From:        from,
		To:          to,
		Current:     req.Current,
		Description: req.Description,
	}
}

type educationRequest struct {
	School       string `json:"school" validate:"required" msg:"School is required"`
	Degree       string `json:"degree" validate:"required" msg:"Degree is required"`
	FieldOfStudy string `json:"fieldofstudy" validate:"required" msg:"Field of study is required"`
	From         string `json:"from" validate:"required,isodate" msg:"From date is required"`
	To           string `json:"to" validate:"omitempty,isodate" msg:"To date is invalid"`
	Current      bool   `json:"current"`
	Description  string `json:"description"`
}

func (req educationRequest) entry() models.Education {
	from, to := parsePeriod(req.From, req.To)
	return models.Education{
		School:       req.School,
		Degree:       req.Degree,
		FieldOfStudy: req.FieldOfStudy,
		From:         from,
		To:           to,
		Current:      req.Current,
		Description:  req.Description,
	}
}

type postRequest struct {
	Text string `json:"text" validate:"required" msg:"Text is required"`
}

// parsePeriod expects dates that already passed the isodate rule.
func parsePeriod(fromS, toS string) (from time.Time, to *time.Time) {
	from, _ = timex.ParseDate(fromS)
	if toS != "" {
		if t, err := timex.ParseDate(toS); err == nil {
			to = &t
		}
	}
	return from, to
}

// decode reads a JSON body into dst and validates it.
func (s *HTTPServer) decode(w http.ResponseWriter, r *http.Request, dst any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return validation.New(msgInvalidBody)
	}
	return s.validator.Struct(dst)
}

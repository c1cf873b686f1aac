package domain

import (
	"strings"
	"time"
)

// DefaultTravelPersona is used when the traveler does not pick one.
const DefaultTravelPersona = "flexible"

// TravelPersonas are the personas offered during onboarding.
var TravelPersonas = []string{
	"Adventure Seeker", "Cultural Explorer", "Luxury Traveler", "Budget Backpacker",
	"Business Traveler", "Family Vacationer", "Solo Traveler", "Romantic Getaway", DefaultTravelPersona,
}

// ProfileInput is what the onboarding form collects. Interests and
// PreferredLanguages are comma-separated free text.
type ProfileInput struct {
	Name               string
	Nationality        string
	CountryOfResidence string
	PassportNumber     string
	PassportExpiry     string
	HasVisa            bool
	VisaExpiry         string
	TravelPersona      string
	Interests          string
	PreferredLanguages string
}

// Profile is the record sent to the backend.
type Profile struct {
	UserID             string   `json:"user_id"`
	Name               string   `json:"name"`
	Email              string   `json:"email"`
	Nationality        string   `json:"nationality"`
	CountryOfResidence *string  `json:"country_of_residence"`
	PassportNumber     *string  `json:"passport_number"`
	PassportExpiry     *string  `json:"passport_expiry"`
	HasVisa            bool     `json:"has_visa"`
	VisaExpiry         *string  `json:"visa_expiry"`
	TravelPersona      string   `json:"travel_persona"`
	Interests          []string `json:"interests"`
	PreferredLanguages []string `json:"preferred_languages"`
}

// Validate checks required fields and date formats.
func (in ProfileInput) Validate() error {
	var fields []string
	if strings.TrimSpace(in.Name) == "" {
		fields = append(fields, "name")
	}
	if strings.TrimSpace(in.Nationality) == "" {
		fields = append(fields, "nationality")
	}
	if len(fields) > 0 {
		return &ProfileError{Kind: ProfileValidationFailed, Reason: "missing required fields: " + strings.Join(fields, ", "), Fields: fields}
	}
	dates := []struct{ name, value string }{
		{"passport_expiry", in.PassportExpiry},
		{"visa_expiry", in.VisaExpiry},
	}
	for _, d := range dates {
		if v := strings.TrimSpace(d.value); v != "" {
			if _, err := time.Parse(DateLayout, v); err != nil {
				return &ProfileError{Kind: ProfileValidationFailed, Reason: d.name + " is not a " + DateLayout + " date", Fields: []string{d.name}}
			}
		}
	}
	return nil
}

// Profile builds the backend record for the given identity.
func (in ProfileInput) Profile(id *Identity) Profile {
	persona := strings.TrimSpace(in.TravelPersona)
	if persona == "" {
		persona = DefaultTravelPersona
	}
	p := Profile{
		UserID:             id.ID,
		Name:               strings.TrimSpace(in.Name),
		Email:              id.Email,
		Nationality:        strings.TrimSpace(in.Nationality),
		CountryOfResidence: optional(in.CountryOfResidence),
		PassportNumber:     optional(in.PassportNumber),
		PassportExpiry:     optional(in.PassportExpiry),
		HasVisa:            in.HasVisa,
		TravelPersona:      persona,
		Interests:          SplitList(in.Interests),
		PreferredLanguages: SplitList(in.PreferredLanguages),
	}
	if in.HasVisa {
		p.VisaExpiry = optional(in.VisaExpiry)
	}
	return p
}

// SplitList splits comma-separated text, trimming items and dropping empty ones.
func SplitList(s string) []string {
	out := []string{}
	for _, item := range strings.Split(s, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}

func optional(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}

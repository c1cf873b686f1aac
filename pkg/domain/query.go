package domain

import (
	"fmt"
	"strings"
	"time"
)

// DateLayout is the calendar-date format used on the wire and in queries.
const DateLayout = "2006-01-02"

// PackageQuery describes desired travel packages. It is either a
// PromptQuery or a FilterQuery.
type PackageQuery interface {
	// Validate checks the query locally, before any network call.
	Validate() error
	isPackageQuery()
}

// PromptQuery is a free-text request.
type PromptQuery struct {
	Text string
}

func (PromptQuery) isPackageQuery() {}

// Validate rejects empty or whitespace-only prompts.
func (q PromptQuery) Validate() error {
	if strings.TrimSpace(q.Text) == "" {
		return NewValidationError("prompt is empty", "prompt")
	}
	return nil
}

// TravelType is the kind of trip a FilterQuery asks for.
type TravelType string

const (
	TravelFlexible TravelType = "flexible"
	TravelSolo     TravelType = "solo"
	TravelCouple   TravelType = "couple"
	TravelFamily   TravelType = "family"
	TravelGroup    TravelType = "group"
)

// TravelTypes lists the accepted travel types in display order.
var TravelTypes = []TravelType{TravelFlexible, TravelSolo, TravelCouple, TravelFamily, TravelGroup}

// ParseTravelType maps user input to a TravelType. Empty input is flexible.
func ParseTravelType(s string) (TravelType, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return TravelFlexible, nil
	}
	for _, t := range TravelTypes {
		if string(t) == s {
			return t, nil
		}
	}
	return "", fmt.Errorf("unknown travel type %q", s)
}

// FilterQuery is a structured request. Dates use DateLayout.
type FilterQuery struct {
	FromDate    string
	ToDate      string
	Destination string
	Budget      string
	TravelType  TravelType
}

func (FilterQuery) isPackageQuery() {}

// Normalized trims the free-text fields and canonicalises the travel type,
// empty meaning flexible. An unknown type is left for Validate to reject.
func (q FilterQuery) Normalized() FilterQuery {
	q.FromDate = strings.TrimSpace(q.FromDate)
	q.ToDate = strings.TrimSpace(q.ToDate)
	q.Destination = strings.TrimSpace(q.Destination)
	q.Budget = strings.TrimSpace(q.Budget)
	if t, err := ParseTravelType(string(q.TravelType)); err == nil {
		q.TravelType = t
	}
	return q
}

// MissingFields names the required fields that are empty, in form order.
func (q FilterQuery) MissingFields() []string {
	q = q.Normalized()
	var missing []string
	if q.FromDate == "" {
		missing = append(missing, "from_date")
	}
	if q.ToDate == "" {
		missing = append(missing, "to_date")
	}
	if q.Destination == "" {
		missing = append(missing, "destination")
	}
	if q.Budget == "" {
		missing = append(missing, "budget")
	}
	return missing
}

// Validate requires all four fields, a known travel type and FromDate <= ToDate.
func (q FilterQuery) Validate() error {
	if missing := q.MissingFields(); len(missing) > 0 {
		return NewValidationError("missing required fields: "+strings.Join(missing, ", "), missing...)
	}
	q = q.Normalized()
	if _, err := ParseTravelType(string(q.TravelType)); err != nil {
		return NewValidationError(err.Error(), "travel_type")
	}
	from, err := time.Parse(DateLayout, q.FromDate)
	if err != nil {
		return NewValidationError(fmt.Sprintf("from_date %q is not a %s date", q.FromDate, DateLayout), "from_date")
	}
	to, err := time.Parse(DateLayout, q.ToDate)
	if err != nil {
		return NewValidationError(fmt.Sprintf("to_date %q is not a %s date", q.ToDate, DateLayout), "to_date")
	}
	if to.Before(from) {
		return NewValidationError("to_date is before from_date", "from_date", "to_date")
	}
	return nil
}

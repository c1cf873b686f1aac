package domain

// Activity is one entry of a day plan.
type Activity struct {
	Time     string `json:"time"`
	Place    string `json:"place"`
	Activity string `json:"activity"`
	Cost     string `json:"cost,omitempty"`
}

// DayPlan is the itinerary of a single day. Day is 1-based.
type DayPlan struct {
	Day        int        `json:"day"`
	Date       string     `json:"date,omitempty"`
	Activities []Activity `json:"activities"`
}

// TravelPackage is a generated package as returned by the backend.
// Packages are never mutated after they are received.
type TravelPackage struct {
	PackageID         string         `json:"package_id"`
	Title             string         `json:"title"`
	TotalCostEstimate string         `json:"total_cost_estimate,omitempty"`
	VisaRequired      *bool          `json:"visa_required,omitempty"`
	Notes             string         `json:"notes,omitempty"`
	Days              []DayPlan      `json:"days"`
	Accommodation     map[string]any `json:"accommodation,omitempty"`
	LocalTransport    []string       `json:"local_transport,omitempty"`
}

// Clone returns a deep copy of p.
func (p TravelPackage) Clone() TravelPackage {
	if p.VisaRequired != nil {
		v := *p.VisaRequired
		p.VisaRequired = &v
	}
	if p.Days != nil {
		days := make([]DayPlan, len(p.Days))
		for i, d := range p.Days {
			if d.Activities != nil {
				d.Activities = append([]Activity(nil), d.Activities...)
			}
			days[i] = d
		}
		p.Days = days
	}
	if p.Accommodation != nil {
		p.Accommodation = cloneMap(p.Accommodation)
	}
	if p.LocalTransport != nil {
		p.LocalTransport = append([]string(nil), p.LocalTransport...)
	}
	return p
}

// cloneMap copies decoded JSON objects, nested objects and arrays included.
func cloneMap(m map[string]any) map[string]any {
	out := make(map[string]any, len(m))
	for k, v := range m {
		out[k] = cloneValue(v)
	}
	return out
}

func cloneValue(v any) any {
	switch v := v.(type) {
	case map[string]any:
		return cloneMap(v)
	case []any:
		out := make([]any, len(v))
		for i, e := range v {
			out[i] = cloneValue(e)
		}
		return out
	default:
		return v
	}
}

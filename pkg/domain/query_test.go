package domain

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validFilter() FilterQuery {
	return FilterQuery{
		FromDate:    "2025-01-01",
		ToDate:      "2025-01-07",
		Destination: "Lisbon",
		Budget:      "$2000",
		TravelType:  TravelCouple,
	}
}

func TestPromptQuery_Validate(t *testing.T) {
	assert.NoError(t, PromptQuery{Text: "a week in Kyoto"}.Validate())

	for _, text := range []string{"", "   ", "\n\t"} {
		err := PromptQuery{Text: text}.Validate()
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrValidationFailed)
	}
}

func TestFilterQuery_Validate(t *testing.T) {
	tests := []struct {
		name       string
		mutate     func(*FilterQuery)
		wantFields []string
	}{
		{name: "valid", mutate: func(*FilterQuery) {}},
		{name: "same day", mutate: func(q *FilterQuery) { q.ToDate = q.FromDate }},
		{name: "empty travel type defaults", mutate: func(q *FilterQuery) { q.TravelType = "" }},
		{name: "missing destination", mutate: func(q *FilterQuery) { q.Destination = " " }, wantFields: []string{"destination"}},
		{
			name:       "missing everything",
			mutate:     func(q *FilterQuery) { *q = FilterQuery{} },
			wantFields: []string{"from_date", "to_date", "destination", "budget"},
		},
		{name: "end before start", mutate: func(q *FilterQuery) { q.FromDate, q.ToDate = "2025-01-01", "2024-12-31" }, wantFields: []string{"from_date", "to_date"}},
		{name: "bad date", mutate: func(q *FilterQuery) { q.FromDate = "01/02/2025" }, wantFields: []string{"from_date"}},
		{name: "unknown travel type", mutate: func(q *FilterQuery) { q.TravelType = "cruise" }, wantFields: []string{"travel_type"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q := validFilter()
			tt.mutate(&q)
			err := q.Validate()
			if tt.wantFields == nil {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrValidationFailed)
			var reqErr *RequestError
			require.True(t, errors.As(err, &reqErr))
			assert.Equal(t, tt.wantFields, reqErr.Fields)
		})
	}
}

func TestParseTravelType(t *testing.T) {
	got, err := ParseTravelType(" Family ")
	require.NoError(t, err)
	assert.Equal(t, TravelFamily, got)

	got, err = ParseTravelType("")
	require.NoError(t, err)
	assert.Equal(t, TravelFlexible, got)

	_, err = ParseTravelType("business")
	assert.Error(t, err)
}

func TestFilterQuery_NormalizedTravelType(t *testing.T) {
	q := FilterQuery{TravelType: " Solo "}.Normalized()
	assert.Equal(t, TravelSolo, q.TravelType)

	q = FilterQuery{}.Normalized()
	assert.Equal(t, TravelFlexible, q.TravelType)

	q = FilterQuery{TravelType: "Spaceship"}.Normalized()
	assert.Equal(t, TravelType("Spaceship"), q.TravelType)
}

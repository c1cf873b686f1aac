package session

import (
	"encoding/json"
	"fmt"

	"github.com/aretw0/wanderbuddy/pkg/domain"
)

// DefaultStorageKey is the fixed key the identity is persisted under.
const DefaultStorageKey = "travel_agent_user"

// record is the persisted layout of an Identity.
// HasProfile is omitted while the profile status is unknown.
type record struct {
	ID          string `json:"id"`
	Email       string `json:"email"`
	Name        string `json:"name,omitempty"`
	AccessToken string `json:"access_token"`
	HasProfile  *bool  `json:"hasProfile,omitempty"`
}

func encodeIdentity(id *domain.Identity) (string, error) {
	rec := record{
		ID:          id.ID,
		Email:       id.Email,
		Name:        id.DisplayName,
		AccessToken: id.Token,
	}
	if id.HasProfile.Resolved() {
		has := id.HasProfile == domain.ProfilePresent
		rec.HasProfile = &has
	}
	data, err := json.Marshal(rec)
	if err != nil {
		return "", fmt.Errorf("failed to marshal identity: %w", err)
	}
	return string(data), nil
}

func decodeIdentity(raw string) (*domain.Identity, error) {
	var rec record
	if err := json.Unmarshal([]byte(raw), &rec); err != nil {
		return nil, fmt.Errorf("failed to unmarshal identity: %w", err)
	}
	id := &domain.Identity{
		ID:          rec.ID,
		Email:       rec.Email,
		DisplayName: rec.Name,
		Token:       rec.AccessToken,
	}
	if rec.HasProfile != nil {
		id.HasProfile = domain.ProfileStatusOf(*rec.HasProfile)
	}
	if !id.Valid() {
		return nil, fmt.Errorf("persisted identity is incomplete")
	}
	return id, nil
}

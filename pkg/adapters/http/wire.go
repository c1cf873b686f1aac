package http

import "github.com/aretw0/wanderbuddy/pkg/domain"

type credentialsRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type tokenResponse struct {
	UserID      string `json:"user_id"`
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

type promptRequest struct {
	UserID string `json:"user_id"`
	Prompt string `json:"prompt"`
}

type filterRequest struct {
	UserID      string `json:"user_id"`
	FromDate    string `json:"from_date"`
	ToDate      string `json:"to_date"`
	Destination string `json:"destination"`
	Budget      string `json:"budget"`
	TravelType  string `json:"travel_type"`
}

type packageResponse struct {
	Packages []domain.TravelPackage `json:"packages"`
}

type saveItineraryRequest struct {
	UserID          string               `json:"user_id"`
	SelectedPackage domain.TravelPackage `json:"selected_package"`
}

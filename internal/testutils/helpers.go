package testutils

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/aretw0/wanderbuddy/pkg/domain"
	"github.com/go-chi/chi/v5"
)

// Route names used by Backend to count calls and inject failures.
const (
	RouteLogin          = "login"
	RouteRegister       = "register"
	RouteProfileGet     = "profile_get"
	RouteProfileCreate  = "profile_create"
	RouteSuggestPrompt  = "suggest_prompt"
	RouteSuggestFilters = "suggest_filters"
	RouteItinerarySave  = "itinerary_save"
	RouteItineraryList  = "itinerary_list"
)

type account struct {
	password string
	userID   string
}

// Backend is an in-process fake of the travel backend served over HTTP.
// It speaks the same JSON as the real one and is safe for concurrent use.
type Backend struct {
	Server *httptest.Server

	mu          sync.Mutex
	accounts    map[string]account
	profiles    map[string]json.RawMessage
	itineraries map[string][]json.RawMessage
	calls       map[string]int
	failures    map[string]int
	packages    []domain.TravelPackage
	omitUserID  bool
	onSuggest   func(key string) []domain.TravelPackage
}

// NewBackend starts a fake backend that is closed when the test ends.
func NewBackend(t *testing.T) *Backend {
	t.Helper()

	b := &Backend{
		accounts:    make(map[string]account),
		profiles:    make(map[string]json.RawMessage),
		itineraries: make(map[string][]json.RawMessage),
		calls:       make(map[string]int),
		failures:    make(map[string]int),
		packages:    SamplePackages(),
	}
	b.Server = httptest.NewServer(b.router())
	t.Cleanup(b.Server.Close)
	return b
}

// URL is the base URL of the fake.
func (b *Backend) URL() string { return b.Server.URL }

// AddUser registers an account directly.
func (b *Backend) AddUser(email, password, userID string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.accounts[email] = account{password: password, userID: userID}
}

// AddProfile marks userID as onboarded.
func (b *Backend) AddProfile(userID string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.profiles[userID] = json.RawMessage(`{"user_id":"` + userID + `"}`)
}

// HasProfile reports whether a profile was stored for userID.
func (b *Backend) HasProfile(userID string) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	_, ok := b.profiles[userID]
	return ok
}

// Profile returns the raw profile stored for userID.
func (b *Backend) Profile(userID string) json.RawMessage {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.profiles[userID]
}

// OmitUserID makes login answer without user_id, like the original backend.
func (b *Backend) OmitUserID(omit bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.omitUserID = omit
}

// SetPackages replaces the packages returned by the suggest endpoints.
func (b *Backend) SetPackages(pkgs []domain.TravelPackage) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.packages = pkgs
}

// OnSuggest installs fn, called with the prompt (or the destination for
// filter requests) to produce the packages. It may block to reorder responses.
func (b *Backend) OnSuggest(fn func(key string) []domain.TravelPackage) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.onSuggest = fn
}

// FailWith makes every call to route answer status. Zero clears it.
func (b *Backend) FailWith(route string, status int) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if status == 0 {
		delete(b.failures, route)
		return
	}
	b.failures[route] = status
}

// Calls returns how many requests hit route.
func (b *Backend) Calls(route string) int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.calls[route]
}

// TotalCalls returns the number of requests across all routes.
func (b *Backend) TotalCalls() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	n := 0
	for _, c := range b.calls {
		n += c
	}
	return n
}

// Itineraries returns the raw packages saved for userID.
func (b *Backend) Itineraries(userID string) []json.RawMessage {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]json.RawMessage(nil), b.itineraries[userID]...)
}

// TokenFor is the token the fake issues to userID.
func TokenFor(userID string) string { return "token-" + userID }

func (b *Backend) router() http.Handler {
	r := chi.NewRouter()
	r.Post("/auth/login", b.track(RouteLogin, b.login))
	r.Post("/auth/register", b.track(RouteRegister, b.register))
	r.Get("/user/{userID}", b.track(RouteProfileGet, b.authed(b.getProfile)))
	r.Post("/user/profile", b.track(RouteProfileCreate, b.authed(b.createProfile)))
	r.Post("/suggest-packages/prompt", b.track(RouteSuggestPrompt, b.authed(b.suggestPrompt)))
	r.Post("/suggest-packages/filters", b.track(RouteSuggestFilters, b.authed(b.suggestFilters)))
	r.Post("/itinerary/save", b.track(RouteItinerarySave, b.authed(b.saveItinerary)))
	r.Get("/itinerary/{userID}", b.track(RouteItineraryList, b.authed(b.listItineraries)))
	return r
}

func (b *Backend) track(route string, next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		b.mu.Lock()
		b.calls[route]++
		status := b.failures[route]
		b.mu.Unlock()

		if status != 0 {
			writeDetail(w, status, fmt.Sprintf("injected %d", status))
			return
		}
		next(w, r)
	}
}

func (b *Backend) authed(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		token := strings.TrimPrefix(r.Header.Get("Authorization"), "Bearer ")
		if !strings.HasPrefix(token, "token-") {
			writeDetail(w, http.StatusUnauthorized, "Not authenticated")
			return
		}
		next(w, r)
	}
}

func (b *Backend) login(w http.ResponseWriter, r *http.Request) {
	var req struct{ Email, Password string }
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeDetail(w, http.StatusUnprocessableEntity, "invalid body")
		return
	}

	b.mu.Lock()
	acc, ok := b.accounts[req.Email]
	omit := b.omitUserID
	b.mu.Unlock()

	if !ok || acc.password != req.Password {
		writeDetail(w, http.StatusUnauthorized, "Invalid credentials")
		return
	}

	resp := map[string]string{"access_token": TokenFor(acc.userID), "token_type": "bearer"}
	if !omit {
		resp["user_id"] = acc.userID
	}
	writeJSON(w, http.StatusOK, resp)
}

func (b *Backend) register(w http.ResponseWriter, r *http.Request) {
	var req struct{ Email, Password string }
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Email == "" {
		writeDetail(w, http.StatusUnprocessableEntity, "invalid body")
		return
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	if _, exists := b.accounts[req.Email]; exists {
		writeDetail(w, http.StatusBadRequest, "Email already registered")
		return
	}
	// The real backend uses the email as user id.
	b.accounts[req.Email] = account{password: req.Password, userID: req.Email}
	writeJSON(w, http.StatusOK, map[string]string{"message": "User registered successfully"})
}

func (b *Backend) getProfile(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userID")

	b.mu.Lock()
	profile, ok := b.profiles[userID]
	b.mu.Unlock()

	if !ok {
		writeDetail(w, http.StatusNotFound, "User not found")
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_, _ = w.Write(profile)
}

func (b *Backend) createProfile(w http.ResponseWriter, r *http.Request) {
	var raw json.RawMessage
	if err := json.NewDecoder(r.Body).Decode(&raw); err != nil {
		writeDetail(w, http.StatusUnprocessableEntity, "invalid body")
		return
	}
	var p struct {
		UserID string `json:"user_id"`
	}
	if err := json.Unmarshal(raw, &p); err != nil || p.UserID == "" {
		writeDetail(w, http.StatusUnprocessableEntity, "user_id is required")
		return
	}

	b.mu.Lock()
	b.profiles[p.UserID] = raw
	b.mu.Unlock()

	w.Header().Set("Content-Type", "application/json")
	_, _ = w.Write(raw)
}

func (b *Backend) suggestPrompt(w http.ResponseWriter, r *http.Request) {
	var req struct {
		UserID string `json:"user_id"`
		Prompt string `json:"prompt"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeDetail(w, http.StatusUnprocessableEntity, "invalid body")
		return
	}
	b.suggest(w, req.Prompt)
}

func (b *Backend) suggestFilters(w http.ResponseWriter, r *http.Request) {
	var req struct {
		UserID      string `json:"user_id"`
		FromDate    string `json:"from_date"`
		ToDate      string `json:"to_date"`
		Destination string `json:"destination"`
		Budget      string `json:"budget"`
		TravelType  string `json:"travel_type"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Destination == "" {
		writeDetail(w, http.StatusUnprocessableEntity, "invalid body")
		return
	}
	b.suggest(w, req.Destination)
}

func (b *Backend) suggest(w http.ResponseWriter, key string) {
	b.mu.Lock()
	pkgs := b.packages
	hook := b.onSuggest
	b.mu.Unlock()

	if hook != nil {
		pkgs = hook(key)
	}
	writeJSON(w, http.StatusOK, map[string]any{"packages": pkgs})
}

func (b *Backend) saveItinerary(w http.ResponseWriter, r *http.Request) {
	var req struct {
		UserID          string          `json:"user_id"`
		SelectedPackage json.RawMessage `json:"selected_package"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || len(req.SelectedPackage) == 0 {
		writeDetail(w, http.StatusUnprocessableEntity, "invalid body")
		return
	}

	b.mu.Lock()
	b.itineraries[req.UserID] = append(b.itineraries[req.UserID], req.SelectedPackage)
	b.mu.Unlock()

	writeJSON(w, http.StatusOK, map[string]string{"message": "Itinerary saved successfully."})
}

func (b *Backend) listItineraries(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userID")

	b.mu.Lock()
	saved := append([]json.RawMessage(nil), b.itineraries[userID]...)
	b.mu.Unlock()

	if len(saved) == 0 {
		writeDetail(w, http.StatusNotFound, "No itineraries found for this user")
		return
	}
	writeJSON(w, http.StatusOK, saved)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeDetail(w http.ResponseWriter, status int, detail string) {
	writeJSON(w, status, map[string]string{"detail": detail})
}

// SamplePackages returns two small packages in backend order.
func SamplePackages() []domain.TravelPackage {
	visa := false
	return []domain.TravelPackage{
		{
			PackageID:         "pkg-1",
			Title:             "Lisbon Food Week",
			TotalCostEstimate: "$1800",
			VisaRequired:      &visa,
			Days: []domain.DayPlan{
				{Day: 1, Date: "2025-01-01", Activities: []domain.Activity{
					{Time: "09:00", Place: "Time Out Market", Activity: "Breakfast tour", Cost: "$30"},
				}},
			},
			Accommodation:  map[string]any{"name": "Alfama Guesthouse", "type": "guesthouse"},
			LocalTransport: []string{"tram", "metro"},
		},
		{
			PackageID:         "pkg-2",
			Title:             "Porto and the Douro",
			TotalCostEstimate: "$2100",
			Notes:             "Wine tasting included",
			Days: []domain.DayPlan{
				{Day: 1, Date: "2025-01-01", Activities: []domain.Activity{
					{Time: "10:00", Place: "Ribeira", Activity: "Walking tour"},
				}},
				{Day: 2, Date: "2025-01-02", Activities: []domain.Activity{
					{Time: "11:00", Place: "Douro Valley", Activity: "River cruise", Cost: "$90"},
				}},
			},
			LocalTransport: []string{"train"},
		},
	}
}

// PackagesTitled builds one package per title, ids derived from titles.
func PackagesTitled(titles ...string) []domain.TravelPackage {
	out := make([]domain.TravelPackage, 0, len(titles))
	for _, title := range titles {
		out = append(out, domain.TravelPackage{PackageID: "id-" + title, Title: title})
	}
	return out
}

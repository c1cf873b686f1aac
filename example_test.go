package wanderbuddy_test

import (
	"context"
	"fmt"
	"log"

	"github.com/aretw0/wanderbuddy"
	"github.com/aretw0/wanderbuddy/internal/testutils"
	"github.com/aretw0/wanderbuddy/pkg/adapters/memory"
	"github.com/aretw0/wanderbuddy/pkg/domain"
	"github.com/aretw0/wanderbuddy/pkg/ports"
)

// ExampleNew wires the client to a canned backend and an in-memory store.
// A real program passes the HTTP adapter instead.
func ExampleNew() {
	backend := &testutils.StubBackend{
		LoginFn: func(ctx context.Context, email, password string) (ports.LoginResult, error) {
			return ports.LoginResult{UserID: "u-1", AccessToken: "secret-token"}, nil
		},
		FetchProfileFn: func(ctx context.Context, auth ports.Auth) error { return nil },
		SuggestFromPromptFn: func(ctx context.Context, auth ports.Auth, prompt string) ([]domain.TravelPackage, error) {
			return []domain.TravelPackage{
				{PackageID: "p1", Title: "Kyoto Temples", TotalCostEstimate: "$2400"},
				{PackageID: "p2", Title: "Osaka Street Food", TotalCostEstimate: "$1900"},
			}, nil
		},
	}

	wb := wanderbuddy.New(backend, memory.NewStore())
	ctx := context.Background()

	if err := wb.Session().Login(ctx, "kai@example.com", "pw"); err != nil {
		log.Fatal(err)
	}
	fmt.Println(wb.Session().State().TargetView())

	res, err := wb.SubmitPrompt(ctx, "a week in Japan")
	if err != nil {
		log.Fatal(err)
	}
	out, _ := wanderbuddy.PlainText(res)
	fmt.Print(out)

	// Output:
	// home
	//   p1  Kyoto Temples  ($2400)
	//   p2  Osaka Street Food  ($1900)
}

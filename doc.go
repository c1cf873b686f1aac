/*
Package wanderbuddy is the client core of a travel-planning assistant.

It keeps track of who is logged in and whether they finished onboarding
(the profile gate), turns travel queries into a browsable set of packages,
and saves chosen packages as itineraries. The backend and the durable store
are injected as ports, so the same core runs behind a CLI, a TUI or a test.

# Usage

	client, err := httpadapter.New("http://127.0.0.1:10000")
	if err != nil {
		log.Fatal(err)
	}
	wb := wanderbuddy.New(client, memory.NewStore())

	ctx := context.Background()
	if err := wb.Session().Login(ctx, "ana@example.com", "secret"); err != nil {
		log.Fatal(err)
	}

	switch wb.Session().State().TargetView() {
	case domain.ViewOnboarding:
		// collect a domain.ProfileInput and call wb.Session().CreateProfile
	case domain.ViewHome:
		res, err := wb.SubmitPrompt(ctx, "a week of sun and seafood")
		if err != nil {
			log.Fatal(err)
		}
		for _, p := range res.Packages {
			fmt.Println(p.PackageID, p.Title)
		}
	}

# Ordering

Package requests follow last-submitted-wins: when two requests overlap,
the response of the older one is discarded even if it arrives last, and
its caller gets an error matching domain.ErrSuperseded.
*/
package wanderbuddy

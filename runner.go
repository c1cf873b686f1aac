package wanderbuddy

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/aretw0/wanderbuddy/pkg/domain"
)

// Runner drives an interactive browsing loop over a Client using the
// provided IO. Every line is either a command or a new prompt.
//
//	:open <id>   expand or collapse a package
//	:save [id]   save a package (the expanded one by default)
//	:saved       list saved itineraries
//	:help        list commands
//	quit         leave
type Runner struct {
	Input    io.Reader
	Output   io.Writer
	Headless bool
	Format   ResultFormatter
}

// ResultFormatter turns a result set into printable text.
// It allows TUI rendering without coupling the core package.
type ResultFormatter func(domain.RequestResult) (string, error)

// NewRunner creates a Runner. Input and Output must be set before Run.
func NewRunner() *Runner {
	return &Runner{}
}

// Run reads lines until EOF or quit. Failed operations are reported on
// Output and the loop goes on; only IO failures end it with an error.
func (r *Runner) Run(ctx context.Context, c *Client) error {
	if r.Input == nil {
		return fmt.Errorf("input reader must be set (use os.Stdin)")
	}
	if r.Output == nil {
		return fmt.Errorf("output writer must be set (use os.Stdout)")
	}
	if !c.Session().State().LoggedIn() {
		return domain.ErrNotLoggedIn
	}

	lineReader := bufio.NewReader(r.Input)
	w := r.Output

	if !r.Headless {
		fmt.Fprintln(w, "Describe your trip, or :help for commands.")
	}

	for {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if !r.Headless {
			fmt.Fprint(w, "> ")
		}

		text, err := lineReader.ReadString('\n')
		if err != nil && !errors.Is(err, io.EOF) {
			return fmt.Errorf("input error: %w", err)
		}
		eof := err != nil
		line := strings.TrimSpace(text)

		switch {
		case line == "":
		case line == "exit" || line == "quit":
			fmt.Fprintln(w, "Bye!")
			return nil
		case strings.HasPrefix(line, ":"):
			r.command(ctx, c, line)
		default:
			res, err := c.SubmitPrompt(ctx, line)
			if err != nil {
				fmt.Fprintf(w, "error: %v\n", err)
				break
			}
			r.print(res)
		}

		if eof {
			return nil
		}
	}
}

func (r *Runner) command(ctx context.Context, c *Client, line string) {
	w := r.Output
	name, arg, _ := strings.Cut(strings.TrimPrefix(line, ":"), " ")
	arg = strings.TrimSpace(arg)

	switch name {
	case "open", "o":
		if arg == "" {
			fmt.Fprintln(w, "usage: :open <package id>")
			return
		}
		r.print(c.ToggleExpanded(arg))
	case "save", "s":
		if arg == "" {
			pkg, ok := c.Packages().Expanded()
			if !ok {
				fmt.Fprintln(w, "nothing expanded; use :save <package id>")
				return
			}
			arg = pkg.PackageID
		}
		if err := c.SaveItinerary(ctx, arg); err != nil {
			fmt.Fprintf(w, "error: %v\n", err)
			return
		}
		fmt.Fprintf(w, "saved %s\n", arg)
	case "saved":
		pkgs, err := c.Itineraries(ctx)
		if err != nil {
			fmt.Fprintf(w, "error: %v\n", err)
			return
		}
		if len(pkgs) == 0 {
			fmt.Fprintln(w, "no saved itineraries")
			return
		}
		for _, p := range pkgs {
			fmt.Fprintf(w, "- %s  %s\n", p.PackageID, p.Title)
		}
	case "help", "h":
		fmt.Fprintln(w, ":open <id>  :save [id]  :saved  quit")
	default:
		fmt.Fprintf(w, "unknown command %q\n", name)
	}
}

func (r *Runner) print(res domain.RequestResult) {
	format := r.Format
	if format == nil {
		format = PlainText
	}
	out, err := format(res)
	if err != nil {
		out, _ = PlainText(res)
	}
	fmt.Fprintln(r.Output, strings.TrimRight(out, " \n"))
}

// PlainText lists packages one per line and details the expanded one.
func PlainText(res domain.RequestResult) (string, error) {
	if len(res.Packages) == 0 {
		return "no packages", nil
	}
	var b strings.Builder
	for _, p := range res.Packages {
		marker := " "
		if p.PackageID == res.ExpandedPackageID {
			marker = "*"
		}
		fmt.Fprintf(&b, "%s %s  %s  (%s)\n", marker, p.PackageID, p.Title, p.TotalCostEstimate)
		if marker != "*" {
			continue
		}
		for _, d := range p.Days {
			fmt.Fprintf(&b, "    Day %d  %s\n", d.Day, d.Date)
			for _, a := range d.Activities {
				fmt.Fprintf(&b, "      %s  %s @ %s\n", a.Time, a.Activity, a.Place)
			}
		}
	}
	return b.String(), nil
}

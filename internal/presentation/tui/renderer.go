package tui

import (
	"github.com/aretw0/wanderbuddy/pkg/domain"
	"github.com/charmbracelet/glamour"
)

// NewRenderer returns a function that renders markdown using glamour.
// Style follows the terminal background.
func NewRenderer() func(string) (string, error) {
	r, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(100),
	)
	if err != nil {
		return func(markdown string) (string, error) { return markdown, nil }
	}

	return func(markdown string) (string, error) {
		return r.Render(markdown)
	}
}

// NewResultRenderer renders a result set as markdown in the terminal.
func NewResultRenderer() func(domain.RequestResult) (string, error) {
	render := NewRenderer()
	return func(res domain.RequestResult) (string, error) {
		return render(ResultMarkdown(res))
	}
}

package cli

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"
)

// Prompter asks for values on a terminal. Secrets are read without echo
// when In is a terminal.
type Prompter struct {
	In  io.Reader
	Out io.Writer

	lines *bufio.Reader
}

// NewPrompter prompts on stdin/stderr so stdout stays usable for output.
func NewPrompter() *Prompter {
	return &Prompter{In: os.Stdin, Out: os.Stderr}
}

func (p *Prompter) reader() *bufio.Reader {
	if p.lines == nil {
		p.lines = bufio.NewReader(p.In)
	}
	return p.lines
}

// Line asks for one line of text. def is returned for an empty answer.
func (p *Prompter) Line(label, def string) (string, error) {
	if def != "" {
		fmt.Fprintf(p.Out, "%s [%s]: ", label, def)
	} else {
		fmt.Fprintf(p.Out, "%s: ", label)
	}
	text, err := p.reader().ReadString('\n')
	if err != nil && !(errors.Is(err, io.EOF) && text != "") {
		return "", fmt.Errorf("failed to read %s: %w", label, err)
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return def, nil
	}
	return text, nil
}

// Secret asks for a value without echoing it.
func (p *Prompter) Secret(label string) (string, error) {
	if f, ok := p.In.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		fmt.Fprintf(p.Out, "%s: ", label)
		b, err := term.ReadPassword(int(f.Fd()))
		fmt.Fprintln(p.Out)
		if err != nil {
			return "", fmt.Errorf("failed to read %s: %w", label, err)
		}
		return string(b), nil
	}
	return p.Line(label, "")
}

// Confirm asks a yes/no question.
func (p *Prompter) Confirm(label string) (bool, error) {
	answer, err := p.Line(label+" (y/N)", "")
	if err != nil {
		return false, err
	}
	switch strings.ToLower(answer) {
	case "y", "yes":
		return true, nil
	default:
		return false, nil
	}
}

package tui

import (
	"fmt"
	"sort"
	"strings"

	"github.com/aretw0/wanderbuddy/pkg/domain"
)

// ResultMarkdown lists every package as a heading line. The expanded one
// also gets its day plan, stay and transport.
func ResultMarkdown(res domain.RequestResult) string {
	if len(res.Packages) == 0 {
		return "_No packages yet._\n"
	}

	var b strings.Builder
	for i, p := range res.Packages {
		if i > 0 {
			b.WriteString("\n---\n\n")
		}
		writePackage(&b, p, p.PackageID == res.ExpandedPackageID)
	}
	return b.String()
}

// PackageMarkdown renders one package in full.
func PackageMarkdown(p domain.TravelPackage) string {
	var b strings.Builder
	writePackage(&b, p, true)
	return b.String()
}

func writePackage(b *strings.Builder, p domain.TravelPackage, detailed bool) {
	fmt.Fprintf(b, "## %s\n\n", p.Title)
	fmt.Fprintf(b, "`%s`", p.PackageID)
	if p.TotalCostEstimate != "" {
		fmt.Fprintf(b, " · **%s**", p.TotalCostEstimate)
	}
	if p.VisaRequired != nil {
		if *p.VisaRequired {
			b.WriteString(" · visa required")
		} else {
			b.WriteString(" · no visa needed")
		}
	}
	fmt.Fprintf(b, " · %d day(s)\n", len(p.Days))

	if !detailed {
		return
	}

	if p.Notes != "" {
		fmt.Fprintf(b, "\n> %s\n", p.Notes)
	}

	for _, d := range p.Days {
		fmt.Fprintf(b, "\n### Day %d", d.Day)
		if d.Date != "" {
			fmt.Fprintf(b, " (%s)", d.Date)
		}
		b.WriteString("\n\n")
		for _, a := range d.Activities {
			fmt.Fprintf(b, "- **%s** %s, %s", a.Time, a.Activity, a.Place)
			if a.Cost != "" {
				fmt.Fprintf(b, " (%s)", a.Cost)
			}
			b.WriteString("\n")
		}
	}

	if len(p.Accommodation) > 0 {
		b.WriteString("\n### Stay\n\n")
		keys := make([]string, 0, len(p.Accommodation))
		for k := range p.Accommodation {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			fmt.Fprintf(b, "- %s: %v\n", k, p.Accommodation[k])
		}
	}

	if len(p.LocalTransport) > 0 {
		fmt.Fprintf(b, "\n**Getting around:** %s\n", strings.Join(p.LocalTransport, ", "))
	}
}

package tui

import (
	"bytes"
	"errors"
	"testing"
	"time"

	"github.com/aretw0/wanderbuddy/internal/testutils"
	"github.com/aretw0/wanderbuddy/pkg/domain"
	"github.com/stretchr/testify/assert"
)

func TestResultMarkdown(t *testing.T) {
	res := domain.RequestResult{Packages: testutils.SamplePackages()}

	md := ResultMarkdown(res)
	assert.Contains(t, md, "## Lisbon Food Week")
	assert.Contains(t, md, "`pkg-1` · **$1800** · no visa needed · 1 day(s)")
	assert.Contains(t, md, "## Porto and the Douro")
	assert.NotContains(t, md, "### Day", "collapsed packages have no day plan")

	res.ExpandedPackageID = "pkg-1"
	md = ResultMarkdown(res)
	assert.Contains(t, md, "### Day 1 (2025-01-01)")
	assert.Contains(t, md, "- **09:00** Breakfast tour, Time Out Market ($30)")
	assert.Contains(t, md, "- name: Alfama Guesthouse\n- type: guesthouse")
	assert.Contains(t, md, "**Getting around:** tram, metro")
	assert.NotContains(t, md, "River cruise")
}

func TestResultMarkdown_Empty(t *testing.T) {
	assert.Equal(t, "_No packages yet._\n", ResultMarkdown(domain.RequestResult{}))
}

func TestPackageMarkdown(t *testing.T) {
	md := PackageMarkdown(testutils.SamplePackages()[1])
	assert.Contains(t, md, "> Wine tasting included")
	assert.Contains(t, md, "### Day 2 (2025-01-02)")
	assert.Contains(t, md, "**Getting around:** train")
}

func TestPrinter_Session(t *testing.T) {
	var buf bytes.Buffer
	p := NewPlainPrinter(&buf)

	p.Session(domain.SessionState{})
	assert.Equal(t, "● logged out\n", buf.String())

	buf.Reset()
	p.Session(domain.SessionState{Identity: &domain.Identity{
		ID: "u-1", Email: "ana@example.com", Token: "t", HasProfile: domain.ProfileMissing,
	}})
	assert.Contains(t, buf.String(), "● ana@example.com (u-1)")
	assert.Contains(t, buf.String(), "profile: missing, run `wanderbuddy profile create`")
}

func TestPrinter_Outcome(t *testing.T) {
	var buf bytes.Buffer
	p := NewPlainPrinter(&buf)

	p.Outcome(domain.Outcome{Timestamp: time.Now(), Success: true, Message: "Itinerary saved: Lisbon"})
	p.Outcome(domain.Outcome{Success: false, Message: "boom", Err: errors.New("boom")})

	assert.Equal(t, "✓ Itinerary saved: Lisbon\n✗ boom\n", buf.String())
}

func TestPrintBanner(t *testing.T) {
	var buf bytes.Buffer
	PrintBanner(&buf, "1.2.3")
	assert.Contains(t, buf.String(), "v1.2.3")
}

// File: cmd/waitlistctl/commands/render.go
package commands

import (
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"
	"time"

	"bridgex_waitlist/internal/waitlist"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
)

func serviceLabel(t waitlist.ServiceType) string {
	switch t {
	case waitlist.ServiceUser:
		return "Service User"
	case waitlist.ServiceProvider:
		return "Service Provider"
	}
	return string(t)
}

func (p *palette) table(headers ...string) *table.Table {
	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(p.muted).
		Headers(headers...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return p.header
			}
			return p.cell
		})
}

func renderEntries(w io.Writer, p *palette, entries []waitlist.Entry, pg *waitlist.Pagination) {
	if len(entries) == 0 {
		fmt.Fprintln(w, p.muted.Render("No contacts match."))
	} else {
		t := p.table("ID", "CONTACT", "EMAIL", "PHONE", "TYPE", "LOCATION", "JOINED")
		for _, e := range entries {
			t.Row(
				e.ID,
				e.DisplayContact(),
				e.DisplayEmail(),
				e.DisplayPhone(),
				serviceLabel(e.ServiceType),
				e.Location,
				e.CreatedAt.UTC().Format(time.DateTime),
			)
		}
		fmt.Fprintln(w, t.Render())
	}
	if pg != nil {
		fmt.Fprintln(w, p.muted.Render(fmt.Sprintf("Page %d of %d (%d total)", pg.Page, max(pg.TotalPages, 1), pg.Total)))
	}
}

func renderEntry(w io.Writer, p *palette, e *waitlist.Entry) {
	t := p.table("FIELD", "VALUE").
		Row("ID", e.ID).
		Row("Email", e.DisplayEmail()).
		Row("Phone", e.DisplayPhone()).
		Row("Type", serviceLabel(e.ServiceType)).
		Row("Location", e.Location).
		Row("Joined", e.CreatedAt.UTC().Format(time.DateTime))
	fmt.Fprintln(w, t.Render())
}

func renderStats(w io.Writer, p *palette, s *waitlist.Stats) {
	fmt.Fprintln(w, p.title.Render("Waitlist statistics"))

	summary := p.table("TOTAL", "SERVICE USERS", "SERVICE PROVIDERS").
		Row(strconv.Itoa(s.Total), strconv.Itoa(s.Users), strconv.Itoa(s.Providers))
	fmt.Fprintln(w, summary.Render())

	daily := p.table("DATE", "SIGNUPS")
	for _, d := range s.DailyStats {
		daily.Row(d.Date, strconv.Itoa(d.Count)+" "+bar(d.Count))
	}
	fmt.Fprintln(w, daily.Render())

	slugs := make([]string, 0, len(s.ByLocation))
	for slug := range s.ByLocation {
		slugs = append(slugs, slug)
	}
	sort.Slice(slugs, func(i, j int) bool {
		if s.ByLocation[slugs[i]] != s.ByLocation[slugs[j]] {
			return s.ByLocation[slugs[i]] > s.ByLocation[slugs[j]]
		}
		return slugs[i] < slugs[j]
	})
	locations := p.table("LOCATION", "SIGNUPS")
	for _, slug := range slugs {
		locations.Row(slug, strconv.Itoa(s.ByLocation[slug]))
	}
	fmt.Fprintln(w, locations.Render())
}

// bar is a small histogram, capped at 40 cells.
func bar(n int) string {
	if n > 40 {
		n = 40
	}
	return strings.Repeat("▇", n)
}

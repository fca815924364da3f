// Package credits renders per-credential billing snapshots for the terminal.
package credits

import (
	"fmt"
	"math"
	"strings"

	"github.com/bnema/suno-artist-bot/internal/domain"
	"github.com/charmbracelet/lipgloss"
)

// Snapshot is one credential's billing state, or the error that prevented
// fetching it.
type Snapshot struct {
	ClientID int
	Billing  domain.BillingInfo
	Err      error
}

func Render(snapshots []Snapshot) string {
	return renderView(snapshots, newStyles())
}

func renderView(snapshots []Snapshot, s styles) string {
	lines := []string{
		s.title.Render("Session Credits"),
		s.header.Render(fmt.Sprintf("clients: %d", len(snapshots))),
	}

	if len(snapshots) == 0 {
		lines = append(lines, s.empty.Render("No client credentials configured."))
		return lipgloss.JoinVertical(lipgloss.Left, lines...)
	}

	for _, snapshot := range snapshots {
		lines = append(lines, s.section.Render(renderSnapshot(snapshot, s)))
	}

	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

func renderSnapshot(snapshot Snapshot, s styles) string {
	parts := []string{
		s.client.Render(fmt.Sprintf("client %d", snapshot.ClientID)),
	}

	if snapshot.Err != nil {
		parts = append(parts, s.warning.Render(fmt.Sprintf("unreachable: %v", snapshot.Err)))
		return lipgloss.JoinVertical(lipgloss.Left, parts...)
	}

	billing := snapshot.Billing
	parts = append(parts, creditLine(billing, s))

	if billing.MonthlyLimit > 0 {
		usedPercent := billing.MonthlyUsage / billing.MonthlyLimit * 100
		parts = append(parts, lipgloss.JoinHorizontal(
			lipgloss.Top,
			s.detail.Render("monthly: "),
			renderProgressBar(usedPercent, 24, s),
			s.detail.Render(fmt.Sprintf(" %.0f/%.0f", billing.MonthlyUsage, billing.MonthlyLimit)),
		))
	}

	if billing.IsPastDue {
		parts = append(parts, s.warning.Render("[past due]"))
	}

	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

func creditLine(billing domain.BillingInfo, s styles) string {
	line := fmt.Sprintf("credits left: %.0f", billing.TotalCreditsLeft)
	if billing.TotalCreditsLeft <= 0 {
		return s.warning.Render(line + " (exhausted)")
	}
	return s.detail.Render(line)
}

func renderProgressBar(usedPercent float64, width int, s styles) string {
	if width <= 0 {
		return ""
	}

	used := clampPercent(usedPercent)
	filled := int(math.Round(float64(width) * used / 100.0))
	if filled < 0 {
		filled = 0
	}
	if filled > width {
		filled = width
	}

	empty := width - filled

	return lipgloss.JoinHorizontal(
		lipgloss.Top,
		s.barBracket.Render("["),
		s.barFill.Render(strings.Repeat("=", filled)),
		s.barEmpty.Render(strings.Repeat("-", empty)),
		s.barBracket.Render("]"),
	)
}

func clampPercent(p float64) float64 {
	if p < 0 {
		return 0
	}
	if p > 100 {
		return 100
	}
	return p
}

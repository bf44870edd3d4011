package account

import (
	"fmt"
	"strings"

	"github.com/LOLLOVANDEV/incognitobot/internal/domain"
	"github.com/charmbracelet/lipgloss"
)

type RenderOptions struct {
	FreeLimit  int64
	CostPerUse int64
	// ShowIdentity prints the platform identity next to the public code.
	ShowIdentity bool
}

func renderView(accounts []domain.AccountRecord, opts RenderOptions, s styles) string {
	lines := []string{
		s.title.Render("Incognito Bot Accounts"),
		s.header.Render(fmt.Sprintf("accounts: %d", len(accounts))),
	}

	if len(accounts) == 0 {
		lines = append(lines, s.empty.Render("No accounts recorded."))
		return lipgloss.JoinVertical(lipgloss.Left, lines...)
	}

	for _, account := range accounts {
		lines = append(lines, s.section.Render(renderAccount(account, opts, s)))
	}

	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

func renderAccount(account domain.AccountRecord, opts RenderOptions, s styles) string {
	parts := []string{
		s.code.Render(accountTitle(account, opts.ShowIdentity)),
		s.detail.Render(fmt.Sprintf("city: %s", cityLabel(account))),
		creditsLine(account, opts, s),
	}

	if opts.FreeLimit > 0 {
		parts = append(parts, freeUsesLine(account, opts, s))
	}

	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

func accountTitle(account domain.AccountRecord, showIdentity bool) string {
	if showIdentity {
		return fmt.Sprintf("%s (%d)", account.PublicCode, account.Identity)
	}
	return string(account.PublicCode)
}

func cityLabel(account domain.AccountRecord) string {
	if !account.HasCity() {
		return "not selected"
	}
	return account.City
}

func creditsLine(account domain.AccountRecord, opts RenderOptions, s styles) string {
	line := s.detail.Render(fmt.Sprintf("credits: %d", account.CreditBalance))
	if opts.CostPerUse <= 0 {
		return line
	}

	messages := account.CreditBalance / opts.CostPerUse
	line += " " + s.label.Render(fmt.Sprintf("(%d paid %s)", messages, plural(messages, "message", "messages")))
	if account.FreeUsesLeft(opts.FreeLimit) == 0 && account.CreditBalance < opts.CostPerUse {
		line += " " + s.warning.Render("[exhausted]")
	}

	return line
}

func freeUsesLine(account domain.AccountRecord, opts RenderOptions, s styles) string {
	left := account.FreeUsesLeft(opts.FreeLimit)
	bar := renderProgressBar(left, opts.FreeLimit, 12, s)
	label := s.label.Render("free messages:")
	leftStyle := lipgloss.NewStyle().Foreground(interpolateColor(float64(left), 0, float64(opts.FreeLimit)))

	return lipgloss.JoinHorizontal(
		lipgloss.Top,
		label,
		" ",
		bar,
		" ",
		leftStyle.Render(fmt.Sprintf("%d/%d left", left, opts.FreeLimit)),
	)
}

func renderProgressBar(left, total int64, width int, s styles) string {
	if width <= 0 || total <= 0 {
		return ""
	}

	filled := int(int64(width) * left / total)
	if filled < 0 {
		filled = 0
	}
	if filled > width {
		filled = width
	}

	return lipgloss.JoinHorizontal(
		lipgloss.Top,
		s.barBracket.Render("["),
		s.barFill.Render(strings.Repeat("=", filled)),
		s.barEmpty.Render(strings.Repeat("-", width-filled)),
		s.barBracket.Render("]"),
	)
}

func plural(n int64, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}

// interpolateColor maps value onto the 240..255 greyscale ramp.
func interpolateColor(value, min, max float64) lipgloss.Color {
	if max == min {
		return lipgloss.Color("255")
	}

	normalized := (value - min) / (max - min)
	if normalized < 0 {
		normalized = 0
	}
	if normalized > 1 {
		normalized = 1
	}

	return lipgloss.Color(fmt.Sprintf("%d", int(240.0+15.0*normalized)))
}

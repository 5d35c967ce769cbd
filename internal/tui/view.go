package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"serviceflow/internal/domain"
	"serviceflow/internal/wizard"
)

var styles = struct {
	Header     lipgloss.Style
	Step       lipgloss.Style
	Label      lipgloss.Style
	Focused    lipgloss.Style
	FieldError lipgloss.Style
	Advisory   lipgloss.Style
	Banner     lipgloss.Style
	Suggestion lipgloss.Style
	Muted      lipgloss.Style
	Success    lipgloss.Style
	Spinner    lipgloss.Style
}{
	Header: lipgloss.NewStyle().
		Background(lipgloss.Color("#2563eb")).
		Foreground(lipgloss.Color("#ffffff")).
		Padding(0, 2).
		Bold(true),
	Step:       lipgloss.NewStyle().Foreground(lipgloss.Color("#2563eb")).Bold(true).MarginTop(1),
	Label:      lipgloss.NewStyle().Foreground(lipgloss.Color("#6b7280")),
	Focused:    lipgloss.NewStyle().Foreground(lipgloss.Color("#111827")).Bold(true),
	FieldError: lipgloss.NewStyle().Foreground(lipgloss.Color("#dc2626")),
	Advisory: lipgloss.NewStyle().
		Foreground(lipgloss.Color("#92400e")).
		Background(lipgloss.Color("#fef3c7")).
		Padding(0, 1),
	Banner: lipgloss.NewStyle().
		Foreground(lipgloss.Color("#ffffff")).
		Background(lipgloss.Color("#dc2626")).
		Padding(0, 1),
	Suggestion: lipgloss.NewStyle().Foreground(lipgloss.Color("#1d4ed8")),
	Muted:      lipgloss.NewStyle().Foreground(lipgloss.Color("#9ca3af")).Italic(true),
	Success:    lipgloss.NewStyle().Foreground(lipgloss.Color("#059669")).Bold(true),
	Spinner:    lipgloss.NewStyle().Foreground(lipgloss.Color("#2563eb")),
}

// View implements tea.Model.
func (m Model) View() string {
	if m.account != nil {
		return m.successView()
	}

	st := m.ctrl.State()
	var b strings.Builder

	b.WriteString(styles.Header.Render("ServiceFlow · Register your company"))
	b.WriteString("\n")
	b.WriteString(styles.Step.Render(fmt.Sprintf("Step %d of 3 · %s", st.Stage, stageTitle(st.Stage))))
	b.WriteString("\n\n")

	fields := domain.StageFields(st.Stage)
	for i, f := range fields {
		label := styles.Label.Render(fieldLabel(f))
		if i == m.focus {
			label = styles.Focused.Render("› " + fieldLabel(f))
		}
		b.WriteString(label + "\n")
		b.WriteString("  " + m.inputs[fieldIndex(f)].View() + "\n")
		if msg, ok := st.Errors[f]; ok {
			b.WriteString("  " + styles.FieldError.Render(msg) + "\n")
		}
		b.WriteString("\n")
	}

	if st.Stage == domain.StageLocation {
		b.WriteString(m.locationView(st))
	}

	if st.SubmitError != "" {
		b.WriteString(styles.Banner.Render(st.SubmitError) + "\n\n")
	}
	if m.busy != "" {
		b.WriteString(m.spinner.View() + " " + m.busy + "\n\n")
	}

	b.WriteString(styles.Muted.Render(helpLine(st.Stage)))
	b.WriteString("\n")
	return b.String()
}

func (m Model) locationView(st wizard.State) string {
	var b strings.Builder
	switch {
	case st.Location != nil:
		b.WriteString(styles.Success.Render(fmt.Sprintf("Pinned at %.4f, %.4f", st.Location.Latitude, st.Location.Longitude)))
		b.WriteString("\n\n")
	case m.picker != nil:
		center := m.picker.DefaultCenter()
		b.WriteString(styles.Muted.Render("Map centered on " + center.FormattedAddress))
		b.WriteString("\n\n")
	}

	if st.Advisory != nil {
		b.WriteString(styles.Advisory.Render("⚠ "+st.Advisory.Message+"  (ctrl+d to dismiss)") + "\n\n")
	}

	for i, s := range m.suggestions {
		b.WriteString(styles.Suggestion.Render(fmt.Sprintf("  %d. %s", i+1, s.FormattedAddress)) + "\n")
	}
	if len(m.suggestions) > 0 {
		b.WriteString("\n")
	}
	return b.String()
}

func (m Model) successView() string {
	var b strings.Builder
	b.WriteString(styles.Header.Render("ServiceFlow"))
	b.WriteString("\n\n")
	b.WriteString(styles.Success.Render(fmt.Sprintf("Welcome aboard, %s!", m.account.CompanyName)))
	b.WriteString("\n")
	b.WriteString(fmt.Sprintf("Account %s is ready.\n", m.account.ID))
	if m.opts.DashboardURL != "" {
		b.WriteString("Continue at " + m.opts.DashboardURL + "\n")
	}
	return b.String()
}

func stageTitle(s domain.Stage) string {
	switch s {
	case domain.StageIdentity:
		return "Company details"
	case domain.StageLocation:
		return "Service location"
	case domain.StageCredentials:
		return "Secure your account"
	}
	return ""
}

func fieldLabel(f domain.Field) string {
	switch f {
	case domain.FieldCompanyName:
		return "Company name"
	case domain.FieldPhoneNumber:
		return "Phone number"
	case domain.FieldEmail:
		return "Email"
	case domain.FieldAddress:
		return "Address"
	case domain.FieldPassword:
		return "Password"
	case domain.FieldConfirmPassword:
		return "Confirm password"
	}
	return string(f)
}

func helpLine(s domain.Stage) string {
	switch s {
	case domain.StageIdentity:
		return "tab next field · enter continue · esc leave"
	case domain.StageLocation:
		return "ctrl+l my location · ctrl+f search · 1-5 pick · enter continue · esc back"
	default:
		return "tab next field · enter create account · esc back"
	}
}

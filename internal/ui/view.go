package ui

import (
	"fmt"
	"strings"

	"github.com/mattn/go-runewidth"
	reflowtruncate "github.com/muesli/reflow/truncate"

	"github.com/korunadevi/comfyui-nunchaku-sage-v1/internal/domain"
)

func (m *Model) View() string {
	width := m.width
	if width <= 0 {
		width = 80
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render("Provisioning progress"))
	b.WriteString("\n\n")

	for _, st := range m.snap.Stages {
		b.WriteString(m.stageLine(st, width))
		b.WriteString("\n")
	}

	if m.snap.Restore.Enabled {
		b.WriteString("\n")
		b.WriteString(m.restorePanel(m.snap.Restore, width))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(mutedStyle.Render(envLine(m.snap.Env)))
	b.WriteString("\n")
	b.WriteString(mutedStyle.Render("q Quit"))
	return b.String()
}

func (m *Model) stageLine(st domain.StageState, width int) string {
	var marker, label string
	switch {
	case st.Skipped:
		marker = mutedStyle.Render("–")
		label = mutedStyle.Render(st.Label + " (skipped)")
	case st.Status == domain.StageDone:
		marker = okStyle.Render("✔")
		label = st.Label
	case st.Status == domain.StageActive:
		marker = m.spin.View()
		label = activeStyle.Render(st.Label)
	default:
		marker = mutedStyle.Render("□")
		label = mutedStyle.Render(st.Label)
	}

	line := fmt.Sprintf("%s %s", marker, label)
	if st.Detail != "" && !st.Skipped {
		line += mutedStyle.Render("  " + st.Detail)
	}
	return fitText(line, width)
}

func (m *Model) restorePanel(rs domain.RestoreState, width int) string {
	var b strings.Builder
	b.WriteString("Backup restore")
	b.WriteString("\n")
	b.WriteString(mutedStyle.Render(rs.Message))
	for _, item := range rs.Items {
		b.WriteString("\n")
		b.WriteString(fitText(fmt.Sprintf("%s %s", itemBadge(item.Status), item.Name), width-4))
	}
	inner := width - 4
	if inner < 20 {
		inner = 20
	}
	return panelStyle.Width(inner).Render(b.String())
}

func itemBadge(status domain.ItemStatus) string {
	switch status {
	case domain.ItemInstalling:
		return activeStyle.Render("●")
	case domain.ItemDone:
		return okStyle.Render("✔")
	case domain.ItemFailed:
		return errStyle.Render("✖")
	default:
		return mutedStyle.Render("□")
	}
}

func envLine(facts domain.Facts) string {
	parts := make([]string, 0, 3)
	if facts.BackupRepo != "" {
		parts = append(parts, "Backup: "+facts.BackupRepo)
	} else {
		parts = append(parts, "Backup: not configured")
	}
	parts = append(parts, "HF_TOKEN: "+setLabel(facts.HFToken))
	parts = append(parts, "CIVITAI_TOKEN: "+setLabel(facts.CivitaiToken))
	return strings.Join(parts, "  ")
}

func setLabel(set bool) string {
	if set {
		return "set"
	}
	return "not set"
}

func fitText(s string, width int) string {
	if width <= 0 {
		return s
	}
	if runewidth.StringWidth(s) <= width {
		return s
	}
	// reflow truncation is ANSI-aware; plain runewidth would cut styled text
	// mid escape sequence.
	return reflowtruncate.StringWithTail(s, uint(width), "…")
}

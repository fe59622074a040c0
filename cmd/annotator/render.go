package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/danielpatrickdp/layered-annotator/internal/report"
)

// #region styles
var (
	accent = lipgloss.Color("#8BC34A")
	muted  = lipgloss.Color("#7a869a")
	warn   = lipgloss.Color("#FFC107")

	titleStyle   = lipgloss.NewStyle().Bold(true).Foreground(accent)
	sectionStyle = lipgloss.NewStyle().Bold(true).Underline(true)
	labelStyle   = lipgloss.NewStyle().Bold(true)
	dimStyle     = lipgloss.NewStyle().Foreground(muted)
	flagStyle    = lipgloss.NewStyle().Foreground(warn)
	boxStyle     = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(muted).
			Padding(0, 1)
)

// #endregion styles

// #region render
func renderReport(w io.Writer, reportID string, batch report.Batch, rep report.UnifiedReport) {
	meta := rep.Metaphysical

	header := []string{
		titleStyle.Render("Unified report"),
		fmt.Sprintf("%s %d   %s %s   %s %s",
			dimStyle.Render("elements"), len(batch),
			dimStyle.Render("state"), meta.State,
			dimStyle.Render("tier"), meta.Entropy.Tier),
	}
	if reportID != "" {
		header = append(header, dimStyle.Render("report "+reportID))
	}
	fmt.Fprintln(w, boxStyle.Render(strings.Join(header, "\n")))

	fmt.Fprintln(w, sectionStyle.Render("Insights"))
	for _, f := range meta.Insights {
		fmt.Fprintln(w, findingLine(f))
	}

	fmt.Fprintln(w, sectionStyle.Render("Coordination"))
	detected := dimStyle.Render("not detected")
	if rep.Coordination.Detected {
		detected = flagStyle.Render("detected")
	}
	fmt.Fprintf(w, "  %s\n", detected)
	for _, f := range rep.Coordination.Patterns {
		fmt.Fprintln(w, findingLine(f))
	}
	fmt.Fprintln(w, findingLine(rep.Coordination.Purpose))

	fmt.Fprintln(w, sectionStyle.Render("Synthesis"))
	fmt.Fprintln(w, findingLine(rep.Synthesis))
}

func renderGlimpse(w io.Writer, res report.GlimpseResult) {
	fmt.Fprintln(w, titleStyle.Render("Glimpse"))
	for _, f := range []report.Finding{res.Patterns, res.Silence, res.Presence} {
		fmt.Fprintln(w, findingLine(f))
	}
	fmt.Fprintln(w, boxStyle.Render(res.Recognition))
}

func findingLine(f report.Finding) string {
	return fmt.Sprintf("  %s %s %s\n    %s\n    %s",
		dimStyle.Render(fmt.Sprintf("[%s]", f.Source)),
		labelStyle.Render(f.Label),
		dimStyle.Render(fmt.Sprintf("%.2f", f.Score)),
		f.Mechanism,
		dimStyle.Render(f.Role),
	)
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// #endregion render

package output

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"

	"github.com/pankaj-dahiya-devops/posture/internal/models"
)

// TableOptions controls which rows and columns RenderTable renders and how
// status and severity are coloured.
type TableOptions struct {
	// Colored wraps status and severity labels with ANSI codes. Default false (CI-safe).
	Colored bool

	// FailedOnly hides PASS findings.
	FailedOnly bool

	// IncludeScope adds a SCOPE column (subscription, account, or cluster).
	IncludeScope bool
}

// palette returns a color that honours colored regardless of the global
// color.NoColor setting, so output is the same on and off a terminal.
func palette(colored bool, attrs ...color.Attribute) *color.Color {
	c := color.New(attrs...)
	if colored {
		c.EnableColor()
	} else {
		c.DisableColor()
	}
	return c
}

func severityColor(sev models.Severity, colored bool) *color.Color {
	switch sev {
	case models.SeverityCritical:
		return palette(colored, color.FgRed, color.Bold)
	case models.SeverityHigh:
		return palette(colored, color.FgRed)
	case models.SeverityMedium:
		return palette(colored, color.FgYellow)
	case models.SeverityLow:
		return palette(colored, color.FgBlue)
	default:
		return palette(colored)
	}
}

func statusColor(st models.Status, colored bool) *color.Color {
	switch st {
	case models.StatusPass:
		return palette(colored, color.FgGreen)
	case models.StatusFail:
		return palette(colored, color.FgRed, color.Bold)
	case models.StatusManual:
		return palette(colored, color.FgYellow)
	default:
		return palette(colored)
	}
}

// ColorSeverity wraps a severity string with ANSI codes when colored is true.
// When colored is false the string is returned unchanged (CI-safe default).
func ColorSeverity(sev models.Severity, colored bool) string {
	return severityColor(sev, colored).Sprint(string(sev))
}

// ShortenMessage truncates msg to at most max runes, appending "..." when truncated.
// max is treated as at least 4 to guarantee space for the ellipsis.
func ShortenMessage(msg string, max int) string {
	if max < 4 {
		max = 4
	}
	runes := []rune(msg)
	if len(runes) <= max {
		return msg
	}
	return string(runes[:max-3]) + "..."
}

// cell pads text to width and colours only the text, so trailing padding
// stays plain and later columns line up whether or not the terminal renders
// ANSI codes.
func cell(c *color.Color, text string, width int) string {
	spaces := width - len(text)
	if spaces < 0 {
		spaces = 0
	}
	return c.Sprint(text) + strings.Repeat(" ", spaces)
}

// truncateField shortens s to at most max runes for ID/label columns.
// A single-char ellipsis replaces the last rune when truncation occurs.
// A non-positive max yields "".
func truncateField(s string, max int) string {
	if max < 1 {
		return ""
	}
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max-1]) + "…"
}

// statusLabel appends the muted marker to a status.
func statusLabel(f models.Finding) string {
	if f.Muted {
		return string(f.Status) + " (muted)"
	}
	return string(f.Status)
}

// RenderTable writes a formatted findings table to w.
// Columns are dynamically selected based on opts; the separator line width is
// derived from the header row so all rows align correctly.
//
// Column order:
//
//	STATUS  SEVERITY  CHECK  RESOURCE  LOCATION  [SCOPE]  MESSAGE
func RenderTable(w io.Writer, findings []models.Finding, opts TableOptions) {
	rows := findings
	if opts.FailedOnly {
		rows = nil
		for _, f := range findings {
			if f.Status != models.StatusPass {
				rows = append(rows, f)
			}
		}
	}

	if len(rows) == 0 {
		fmt.Fprintln(w, "No findings.")
		return
	}

	// Fixed column display widths.
	const (
		wStatus   = 14
		wSeverity = 13
		wCheck    = 40
		wResource = 30
		wLocation = 15
		wScope    = 24
		wMessage  = 70
	)

	var hb strings.Builder
	hb.WriteString(fmt.Sprintf("%-*s", wStatus, "STATUS"))
	hb.WriteString(fmt.Sprintf("  %-*s", wSeverity, "SEVERITY"))
	hb.WriteString(fmt.Sprintf("  %-*s", wCheck, "CHECK"))
	hb.WriteString(fmt.Sprintf("  %-*s", wResource, "RESOURCE"))
	hb.WriteString(fmt.Sprintf("  %-*s", wLocation, "LOCATION"))
	if opts.IncludeScope {
		hb.WriteString(fmt.Sprintf("  %-*s", wScope, "SCOPE"))
	}
	hb.WriteString(fmt.Sprintf("  %-*s", wMessage, "MESSAGE"))
	header := strings.TrimRight(hb.String(), " ")

	fmt.Fprintln(w, header)
	fmt.Fprintln(w, strings.Repeat("-", len(header)))

	for _, f := range rows {
		var rb strings.Builder
		rb.WriteString(cell(statusColor(f.Status, opts.Colored), statusLabel(f), wStatus))
		rb.WriteString("  " + cell(severityColor(f.Severity, opts.Colored), string(f.Severity), wSeverity))
		rb.WriteString(fmt.Sprintf("  %-*s", wCheck, truncateField(f.CheckID, wCheck)))
		rb.WriteString(fmt.Sprintf("  %-*s", wResource, truncateField(f.ResourceName, wResource)))
		rb.WriteString(fmt.Sprintf("  %-*s", wLocation, truncateField(f.Location, wLocation)))
		if opts.IncludeScope {
			rb.WriteString(fmt.Sprintf("  %-*s", wScope, truncateField(f.Scope, wScope)))
		}
		rb.WriteString("  " + ShortenMessage(f.StatusExtended, wMessage))
		fmt.Fprintln(w, rb.String())
	}
}

package cli

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	deperrors "github.com/matzehuels/depaudit/pkg/errors"
	"github.com/matzehuels/depaudit/pkg/observability"
	"github.com/matzehuels/depaudit/pkg/pipeline"
)

// =============================================================================
// Color Palette
// =============================================================================

var (
	colorCyan   = lipgloss.Color("36")  // Teal - primary actions
	colorGreen  = lipgloss.Color("35")  // Green - success
	colorYellow = lipgloss.Color("220") // Amber - warnings
	colorRed    = lipgloss.Color("167") // Soft red - errors
	colorWhite  = lipgloss.Color("255") // Bright white - values
	colorGray   = lipgloss.Color("245") // Gray - secondary text
	colorDim    = lipgloss.Color("240") // Dim gray - muted text
)

// =============================================================================
// Public Styles
// =============================================================================

var (
	// StyleTitle for main headings.
	StyleTitle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)

	// StyleDim for secondary/muted text.
	StyleDim = lipgloss.NewStyle().Foreground(colorDim)

	// StyleValue for data values.
	StyleValue = lipgloss.NewStyle().Foreground(colorWhite)

	// StyleNumber for numeric values.
	StyleNumber = lipgloss.NewStyle().Foreground(colorCyan)

	// StyleWarning for warning messages.
	StyleWarning = lipgloss.NewStyle().Foreground(colorYellow)
)

// =============================================================================
// Internal Styles
// =============================================================================

var (
	styleIconSuccess = lipgloss.NewStyle().Foreground(colorGreen)
	styleIconError   = lipgloss.NewStyle().Foreground(colorRed)
	styleIconWarning = lipgloss.NewStyle().Foreground(colorYellow)
	styleIconInfo    = lipgloss.NewStyle().Foreground(colorGray)
	styleKey         = lipgloss.NewStyle().Foreground(colorGray).Width(12)
)

// =============================================================================
// Icons
// =============================================================================

const (
	iconSuccess = "✓"
	iconError   = "✗"
	iconWarning = "!"
	iconInfo    = "›"
	iconArrow   = "→"
)

// =============================================================================
// Status Output
// =============================================================================

// printSuccess prints a success message.
func printSuccess(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	fmt.Println(styleIconSuccess.Render(iconSuccess) + " " + msg)
}

// printError prints an error message.
func printError(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	fmt.Println(styleIconError.Render(iconError) + " " + msg)
}

// printWarning prints a warning message.
func printWarning(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	fmt.Println(styleIconWarning.Render(iconWarning) + " " + StyleWarning.Render(msg))
}

// printInfo prints an info/status message.
func printInfo(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	fmt.Println(styleIconInfo.Render(iconInfo) + " " + msg)
}

// printDetail prints a detail line (indented).
func printDetail(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	fmt.Println("  " + StyleDim.Render(msg))
}

// printFile prints a file output line.
func printFile(path string) {
	fmt.Println("  " + StyleDim.Render(iconArrow) + " " + StyleValue.Render(path))
}

// printKeyValue prints a labeled value.
func printKeyValue(key, value string) {
	fmt.Println(styleKey.Render(key) + " " + StyleValue.Render(value))
}

// =============================================================================
// Run Summary
// =============================================================================

// printRunSummary prints the end-of-run overview: totals, lookup outcomes,
// written files and the failed repositories.
func printRunSummary(res *pipeline.Result, files []string, stats observability.Summary) {
	total := len(res.Reports) + len(res.Failed)

	fmt.Println()
	fmt.Println(StyleTitle.Render("Summary"))
	printKeyValue("Analyzed", fmt.Sprintf("%d of %d repositories", len(res.Reports), total))
	printKeyValue("Duration", res.Duration.Round(time.Millisecond).String())
	if line := formatOutcomes(stats); line != "" {
		printKeyValue("Lookups", line)
	}
	if stats.CacheHits+stats.CacheMisses > 0 {
		printKeyValue("Cache", fmt.Sprintf("%d hits, %d misses", stats.CacheHits, stats.CacheMisses))
	}
	if stats.Requests > 0 {
		printKeyValue("Requests", fmt.Sprintf("%d (%d errors)", stats.Requests, stats.HTTPErrors))
	}

	fmt.Println()
	printSuccess("Wrote %d files", len(files))
	for _, f := range files {
		printFile(f)
	}

	if len(res.Failed) == 0 {
		return
	}
	fmt.Println()
	printWarning("%d of %d repositories failed", len(res.Failed), total)
	for _, f := range res.Failed {
		printError("%s", f.URL)
		printDetail("%s", deperrors.UserMessage(f.Err))
	}
}

// formatOutcomes renders lookup outcome counts as "memo 4 · resolved 10".
func formatOutcomes(stats observability.Summary) string {
	var parts []string
	for _, outcome := range stats.Outcomes() {
		parts = append(parts, outcome+" "+StyleNumber.Render(fmt.Sprint(stats.Lookups[outcome])))
	}
	return strings.Join(parts, StyleDim.Render(" · "))
}

package cli

import (
	"fmt"
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/dshills/mrscope/internal/pipeline"
)

var (
	successStyle = lipgloss.NewStyle().
			Border(lipgloss.NormalBorder()).
			BorderForeground(lipgloss.Color("10")).
			Padding(0, 2)
	failureStyle = lipgloss.NewStyle().
			Border(lipgloss.NormalBorder()).
			BorderForeground(lipgloss.Color("9")).
			Padding(0, 2)
	labelStyle = lipgloss.NewStyle().Bold(true)
)

func printSuccess(result pipeline.Result) {
	body := fmt.Sprintf("%s\n%s %s\n%s %d",
		labelStyle.Render("Review complete"),
		labelStyle.Render("Summary:"), result.SummaryPath,
		labelStyle.Render("Chunks reviewed:"), result.Chunks,
	)
	if flagNoBanner {
		fmt.Fprintf(os.Stdout, "Review complete. Summary: %s (%d chunks)\n", result.SummaryPath, result.Chunks)
		return
	}
	fmt.Fprintln(os.Stdout, successStyle.Render(body))
}

func printFailure(err error) {
	if flagNoBanner {
		return
	}
	body := fmt.Sprintf("%s\n%v", labelStyle.Render("Review failed"), err)
	fmt.Fprintln(os.Stderr, failureStyle.Render(body))
}

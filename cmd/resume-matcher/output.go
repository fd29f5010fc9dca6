package main

import (
	"fmt"
	"io"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"alfredoptarigan/resume-matcher/internal/ranking"
	"alfredoptarigan/resume-matcher/internal/services"
)

var (
	titleStyle   = lipgloss.NewStyle().Bold(true)
	failureStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	mutedStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
)

// renderMatches prints the ranking as a table followed by unreadable files.
func renderMatches(w io.Writer, result *services.MatchResult) {
	fmt.Fprintln(w, titleStyle.Render("Top Matching Resumes"))

	if len(result.Matches) == 0 {
		fmt.Fprintln(w, mutedStyle.Render("no matches"))
	} else {
		t := table.New().
			Border(lipgloss.NormalBorder()).
			Headers("RANK", "RESUME", "SCORE")
		for i, m := range result.Matches {
			t.Row(strconv.Itoa(i+1), m.Name, fmt.Sprintf("%.2f", ranking.Round2(m.Score)))
		}
		fmt.Fprintln(w, t.String())
	}

	for _, f := range result.Failures {
		fmt.Fprintln(w, failureStyle.Render(fmt.Sprintf("skipped %s: %v", f.DocumentID, f.Cause)))
	}
}

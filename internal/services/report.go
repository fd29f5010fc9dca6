package services

import (
	"fmt"
	"io"

	"github.com/go-pdf/fpdf"

	"alfredoptarigan/resume-matcher/internal/ranking"
)

// ReportFilename is the download name used for generated reports.
const ReportFilename = "resume_match_report.pdf"

type ReportService interface {
	Write(w io.Writer, jobDescription string, matches []Match) error
}

type reportService struct{}

func NewReportService() ReportService {
	return &reportService{}
}

// Write renders the job description and the ranked matches as a single PDF.
// Scores are shown with two decimals.
func (r *reportService) Write(w io.Writer, jobDescription string, matches []Match) error {
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetTitle("Top Resume Matches", true)
	pdf.AddPage()

	// Core fonts are cp1252; anything outside it renders as '?'
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	pdf.SetFont("Arial", "B", 16)
	pdf.CellFormat(0, 10, "Top Resume Matches", "", 1, "C", false, 0, "")

	pdf.SetFont("Arial", "", 12)
	pdf.CellFormat(0, 10, "Job Description:", "", 1, "L", false, 0, "")
	pdf.MultiCell(0, 10, tr(jobDescription), "", "L", false)

	pdf.SetFont("Arial", "B", 12)
	pdf.CellFormat(0, 10, "Top Matching Resumes:", "", 1, "L", false, 0, "")

	pdf.SetFont("Arial", "", 12)
	if len(matches) == 0 {
		pdf.CellFormat(0, 10, "No matches", "", 1, "L", false, 0, "")
	}
	for i, m := range matches {
		pdf.CellFormat(0, 10, tr(ReportLine(i+1, m)), "", 1, "L", false, 0, "")
	}

	if err := pdf.Output(w); err != nil {
		return fmt.Errorf("failed to render report: %w", err)
	}
	return nil
}

// ReportLine formats one ranked entry, e.g. "1. jane.pdf (Similarity Score: 0.83)".
func ReportLine(rank int, m Match) string {
	name := m.Name
	if name == "" {
		name = m.ID
	}
	return fmt.Sprintf("%d. %s (Similarity Score: %.2f)", rank, name, ranking.Round2(m.Score))
}

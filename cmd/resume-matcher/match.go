package main

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	apperrors "alfredoptarigan/resume-matcher/internal/errors"
	"alfredoptarigan/resume-matcher/internal/extraction"
	"alfredoptarigan/resume-matcher/internal/services"
)

var matchCmd = &cobra.Command{
	Use:   "match [flags] FILE...",
	Short: "Rank local resume files against a job description",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return match(cmd, args)
	},
}

func init() {
	rootCmd.AddCommand(matchCmd)

	matchCmd.Flags().String("job", "", "job description text")
	matchCmd.Flags().String("job-file", "", "read the job description from a file")
	matchCmd.Flags().IntP("top-k", "k", 0, "number of matches to show (default match.top_k)")
	matchCmd.Flags().String("on-error", "", "skip or abort when a resume cannot be read (default match.on_extraction_error)")
	matchCmd.Flags().StringP("report", "r", "", "also write a PDF report to this path")
	matchCmd.MarkFlagsMutuallyExclusive("job", "job-file")
}

func match(cmd *cobra.Command, files []string) error {
	cfg, log, err := setup(cmd)
	if err != nil {
		return err
	}
	defer log.Sync()

	jobDescription, err := readJobDescription(cmd)
	if err != nil {
		return err
	}

	topK := cfg.Match.TopK
	if cmd.Flags().Changed("top-k") {
		topK, _ = cmd.Flags().GetInt("top-k")
	}
	onError := cfg.Match.OnExtractionError
	if policy, _ := cmd.Flags().GetString("on-error"); policy != "" {
		onError = strings.ToLower(policy)
	}

	candidates := make([]services.Candidate, 0, len(files))
	for _, path := range files {
		content, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("reading %s: %w", path, err)
		}
		candidates = append(candidates, services.Candidate{Document: extraction.NewDocument(path, content)})
	}

	vectorizer, err := newVectorizer(cfg, log)
	if err != nil {
		return err
	}
	matcher := services.NewMatcherService(extraction.NewExtractor(), vectorizer, services.MatcherOptions{
		ExtractConcurrency: cfg.Match.ExtractConcurrency,
		ExtractTimeout:     cfg.Match.ExtractTimeout,
	}, log)

	result, err := matcher.Match(cmd.Context(), services.MatchRequest{
		JobDescription:    jobDescription,
		Candidates:        candidates,
		TopK:              topK,
		OnExtractionError: onError,
	})
	if err != nil && !(errors.Is(err, apperrors.ErrEmptyVocabulary) && result != nil) {
		log.Error("match failed", zap.Error(err))
		return err
	}

	renderMatches(cmd.OutOrStdout(), result)

	if path, _ := cmd.Flags().GetString("report"); path != "" {
		if err := writeReport(path, services.NewReportService(), jobDescription, result.Matches); err != nil {
			return err
		}
		log.Info("report written", zap.String("path", path))
	}

	return nil
}

func readJobDescription(cmd *cobra.Command) (string, error) {
	if path, _ := cmd.Flags().GetString("job-file"); path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return "", fmt.Errorf("reading job description: %w", err)
		}
		return string(data), nil
	}

	job, _ := cmd.Flags().GetString("job")
	return job, nil
}

func writeReport(path string, reportService services.ReportService, jobDescription string, matches []services.Match) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating report: %w", err)
	}

	if err := reportService.Write(f, jobDescription, matches); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

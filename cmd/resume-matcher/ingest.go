package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"alfredoptarigan/resume-matcher/internal/services"
)

var ingestCmd = &cobra.Command{
	Use:   "ingest DIR",
	Short: "Extract every file in a directory into the resume pool",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return ingest(cmd, args[0])
	},
}

func init() {
	rootCmd.AddCommand(ingestCmd)
}

func ingest(cmd *cobra.Command, dir string) error {
	cfg, log, err := setup(cmd)
	if err != nil {
		return err
	}
	defer log.Sync()

	if !cfg.Database.Enabled {
		return errors.New("ingest needs database.enabled: an in-memory pool does not outlive this command")
	}

	files, err := readDir(dir)
	if err != nil {
		return err
	}
	if len(files) == 0 {
		log.Warn("no files to ingest", zap.String("dir", dir))
		return nil
	}

	c, err := wire(cfg, log)
	if err != nil {
		return err
	}

	log.Info("starting document ingestion", zap.String("dir", dir), zap.Int("files", len(files)))

	successCount, failCount, err := ingestFiles(cmd.Context(), c.pool, files, cfg.Storage.MaxFiles, log)
	if err != nil {
		return err
	}

	log.Info("ingestion summary", zap.Int("successful", successCount), zap.Int("failed", failCount))
	fmt.Fprintf(cmd.OutOrStdout(), "Ingested %d documents, %d without text\n", successCount+failCount, failCount)

	if failCount > 0 {
		return fmt.Errorf("%d documents could not be extracted", failCount)
	}
	return nil
}

// ingestFiles adds files to the pool in batches of at most batchSize and
// counts the documents pooled with and without text.
func ingestFiles(
	ctx context.Context,
	pool services.PoolService,
	files []services.UploadedFile,
	batchSize int,
	log *zap.Logger,
) (successCount, failCount int, err error) {
	if batchSize <= 0 {
		batchSize = len(files)
	}

	for start := 0; start < len(files); start += batchSize {
		end := min(start+batchSize, len(files))

		docs, err := pool.Add(ctx, files[start:end])
		if err != nil {
			return successCount, failCount, fmt.Errorf("ingesting batch %d-%d: %w", start+1, end, err)
		}

		for _, doc := range docs {
			if doc.Extracted() {
				successCount++
				log.Info("ingested", zap.String("file", doc.OriginalFileName), zap.Int("characters", len(doc.Text)))
				continue
			}
			failCount++
			log.Warn("ingested without text",
				zap.String("file", doc.OriginalFileName), zap.String("error", *doc.ExtractionError))
		}
	}

	return successCount, failCount, nil
}

// readDir loads the regular, non-hidden files of dir in name order.
func readDir(dir string) ([]services.UploadedFile, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", dir, err)
	}

	var files []services.UploadedFile
	for _, entry := range entries {
		if !entry.Type().IsRegular() || strings.HasPrefix(entry.Name(), ".") {
			continue
		}

		content, err := os.ReadFile(filepath.Join(dir, entry.Name()))
		if err != nil {
			return nil, fmt.Errorf("reading %s: %w", entry.Name(), err)
		}
		files = append(files, services.UploadedFile{Name: entry.Name(), Content: content})
	}

	return files, nil
}

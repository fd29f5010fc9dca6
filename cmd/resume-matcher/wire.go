package main

import (
	"fmt"

	"go.uber.org/zap"

	"alfredoptarigan/resume-matcher/internal/config"
	"alfredoptarigan/resume-matcher/internal/extraction"
	"alfredoptarigan/resume-matcher/internal/repositories"
	"alfredoptarigan/resume-matcher/internal/services"
	"alfredoptarigan/resume-matcher/internal/tfidf"
	"alfredoptarigan/resume-matcher/internal/tokenizer"
)

type components struct {
	matcher services.MatcherService
	pool    services.PoolService
	report  services.ReportService
	// persistent is false when the pool lives in memory only.
	persistent bool
}

func newVectorizer(cfg *config.Config, log *zap.Logger) (*tfidf.Vectorizer, error) {
	stopWords, err := tokenizer.LoadStopWords(cfg.Tokenizer.StopWords)
	if err != nil {
		return nil, fmt.Errorf("loading stop words: %w", err)
	}

	tok := tokenizer.New(tokenizer.Options{
		StopWords:      stopWords,
		MinTokenLength: cfg.Tokenizer.MinTokenLength,
	})
	log.Debug("tokenizer ready",
		zap.String("stopwords", cfg.Tokenizer.StopWords),
		zap.Int("stop_word_count", tok.StopWordCount()),
		zap.Int("min_token_length", cfg.Tokenizer.MinTokenLength),
	)

	return tfidf.NewVectorizer(tok), nil
}

// wire builds every service from the configuration. The resume pool uses
// postgres when database.enabled is set and memory otherwise.
func wire(cfg *config.Config, log *zap.Logger) (*components, error) {
	vectorizer, err := newVectorizer(cfg, log)
	if err != nil {
		return nil, err
	}

	storageService := services.NewStorageService(cfg.Storage.UploadPath)
	if err := storageService.EnsureUploadDir(); err != nil {
		return nil, err
	}

	var (
		docRepo    repositories.DocumentRepository
		persistent bool
	)
	if cfg.Database.Enabled {
		db, err := config.InitDatabase(cfg, log)
		if err != nil {
			return nil, err
		}
		docRepo = repositories.NewDocumentRepository(db)
		persistent = true
	} else {
		docRepo = repositories.NewMemoryDocumentRepository()
		log.Info("database disabled, resume pool is kept in memory")
	}

	extractor := extraction.NewExtractor()
	opts := services.MatcherOptions{
		ExtractConcurrency: cfg.Match.ExtractConcurrency,
		ExtractTimeout:     cfg.Match.ExtractTimeout,
	}

	return &components{
		matcher:    services.NewMatcherService(extractor, vectorizer, opts, log),
		pool:       services.NewPoolService(docRepo, storageService, extractor, opts, log),
		report:     services.NewReportService(),
		persistent: persistent,
	}, nil
}

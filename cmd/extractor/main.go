// Command extractor runs the gazette extraction engine over document files.
//
// Each input file is a JSON document with the issue id, availability date
// and the pages retrieved by the search layer:
//
//	{
//	  "id": "dje-2024-03-05",
//	  "availability_date": "2024-03-05",
//	  "pages": [{"page_id": "p1", "ordinal": 1, "text": "..."}]
//	}
//
// Assembled records are written to stdout as JSON lines in the wire shape.
// When -pages points at a directory laid out as <dir>/<document-id>/<ordinal>.txt,
// boundary recovery fetches missing previous pages from it.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"syscall"
	"time"

	"github.com/djetools/extractor/config"
	"github.com/djetools/extractor/domain"
	"github.com/djetools/extractor/gazette"
	"github.com/djetools/extractor/logger"
	"github.com/djetools/extractor/telemetry"
)

type documentFile struct {
	ID               string `json:"id"`
	AvailabilityDate string `json:"availability_date"`
	Pages            []struct {
		PageID  string `json:"page_id"`
		Ordinal int    `json:"ordinal"`
		Text    string `json:"text"`
	} `json:"pages"`
}

// dirSource serves previous pages from a directory tree of plain text
// files, one file per page ordinal.
type dirSource struct {
	root string
}

func (s *dirSource) FetchPage(_ context.Context, documentID string, ordinal int) (domain.RawPage, error) {
	path := filepath.Join(s.root, documentID, strconv.Itoa(ordinal)+".txt")
	data, err := os.ReadFile(path)
	if err != nil {
		return domain.RawPage{}, fmt.Errorf("read page %s: %w", path, err)
	}
	return domain.RawPage{
		PageID:  fmt.Sprintf("%s-%d", documentID, ordinal),
		Ordinal: ordinal,
		Text:    string(data),
	}, nil
}

func loadDocument(path string) (gazette.Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return gazette.Document{}, fmt.Errorf("read document %s: %w", path, err)
	}

	var df documentFile
	if err := json.Unmarshal(data, &df); err != nil {
		return gazette.Document{}, fmt.Errorf("parse document %s: %w", path, err)
	}

	availability, err := time.Parse("2006-01-02", df.AvailabilityDate)
	if err != nil {
		return gazette.Document{}, fmt.Errorf("document %s: bad availability_date %q: %w",
			path, df.AvailabilityDate, err)
	}

	doc := gazette.Document{ID: df.ID, AvailabilityDate: availability}
	for _, p := range df.Pages {
		doc.Pages = append(doc.Pages, domain.RawPage{
			PageID:  p.PageID,
			Ordinal: p.Ordinal,
			Text:    p.Text,
		})
	}
	return doc, nil
}

func run() error {
	configPath := flag.String("config", "", "path to YAML config file")
	pagesDir := flag.String("pages", "", "directory with <document-id>/<ordinal>.txt pages for boundary recovery")
	metricsAddr := flag.String("metrics", "", "address to serve Prometheus metrics on, e.g. :9090")
	flag.Parse()

	if flag.NArg() == 0 {
		return fmt.Errorf("usage: extractor [flags] document.json [document.json ...]")
	}

	var cfg *config.Config
	var err error
	if *configPath != "" {
		cfg, err = config.Load(*configPath)
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
	} else {
		cfg = config.Default()
	}

	log, err := logger.New(cfg.Logging)
	if err != nil {
		return fmt.Errorf("create logger: %w", err)
	}
	defer func() { _ = log.Sync() }()

	var tel *telemetry.Provider
	if *metricsAddr != "" {
		tel = telemetry.NewProvider()
		go func() {
			log.Info("serving metrics", logger.String("addr", *metricsAddr))
			if serveErr := http.ListenAndServe(*metricsAddr, tel.Handler()); serveErr != nil {
				log.Error("metrics server failed", logger.Error(serveErr))
			}
		}()
	}

	var source gazette.PageSource
	if *pagesDir != "" {
		source = &dirSource{root: *pagesDir}
	}

	var docs []gazette.Document
	for _, path := range flag.Args() {
		doc, loadErr := loadDocument(path)
		if loadErr != nil {
			return loadErr
		}
		docs = append(docs, doc)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	processor := gazette.NewProcessor(source, cfg, log, tel)
	batch := gazette.NewBatchProcessor(processor, cfg.Processing.Concurrency, log)

	enc := json.NewEncoder(os.Stdout)
	assembled, failed := 0, 0
	for _, result := range batch.Process(ctx, docs) {
		for _, outcome := range result.Outcomes {
			if !outcome.Assembled() {
				failed++
				continue
			}
			assembled++
			if encErr := enc.Encode(outcome.Record.Wire()); encErr != nil {
				return fmt.Errorf("write record: %w", encErr)
			}
		}
	}

	log.Info("extraction complete",
		logger.Int("documents", len(docs)),
		logger.Int("records", assembled),
		logger.Int("failed_occurrences", failed))
	return nil
}

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

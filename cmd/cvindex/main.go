// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/urfave/cli/v2"

	cvindex "github.com/poiesic/cvindex"
	"github.com/poiesic/cvindex/ai"
	"github.com/poiesic/cvindex/core"
	"github.com/poiesic/cvindex/ingestion"
	"github.com/poiesic/cvindex/reembed"
	"github.com/poiesic/cvindex/search"
)

func main() {
	dataFlag := &cli.StringFlag{
		Name:     "data",
		Aliases:  []string{"d"},
		Usage:    "Path to the index data directory",
		Required: true,
	}
	aiFlags := []cli.Flag{
		&cli.StringFlag{
			Name:  "embedding-host",
			Usage: "Embedding service host URL",
			Value: "http://localhost:11434/v1",
		},
		&cli.StringFlag{
			Name:  "embedding-model",
			Usage: "Embedding model name",
			Value: "nomic-embed-text",
		},
		&cli.StringFlag{
			Name:  "extractor-host",
			Usage: "Extraction service host URL (defaults to embedding-host)",
		},
		&cli.StringFlag{
			Name:  "extractor-model",
			Usage: "Extraction model name",
			Value: "llama3",
		},
	}

	app := &cli.App{
		Name:  "cvindex",
		Usage: "Semantic index over resume documents",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "log-level",
				Aliases: []string{"l"},
				Usage:   "Set logging level (debug, info, warn, error)",
				Value:   "info",
			},
		},
		Before: setupLogger,
		Commands: []*cli.Command{
			{
				Name:      "ingest",
				Usage:     "Submit PDF resumes for asynchronous processing",
				ArgsUsage: "FILE...",
				Action:    ingestCommand,
				Flags: append([]cli.Flag{
					dataFlag,
					&cli.DurationFlag{
						Name:  "delay",
						Usage: "Queue delay before a document is processed",
						Value: ingestion.DefaultDelay,
					},
					&cli.IntFlag{
						Name:  "workers",
						Usage: "Number of concurrent processing workers",
						Value: 4,
					},
				}, aiFlags...),
			},
			{
				Name:      "search",
				Usage:     "Search indexed profiles by semantic query",
				ArgsUsage: "QUERY",
				Action:    searchCommand,
				Flags: append([]cli.Flag{
					dataFlag,
					&cli.Float64Flag{
						Name:  "min-score",
						Usage: "Similarity floor for results",
						Value: float64(search.DefaultMinScore),
					},
					&cli.IntFlag{
						Name:  "max-hits",
						Usage: "Maximum number of results",
						Value: search.DefaultMaxHits,
					},
				}, aiFlags...),
			},
			{
				Name:   "list",
				Usage:  "List indexed profiles",
				Action: listCommand,
				Flags: []cli.Flag{
					dataFlag,
					&cli.Uint64Flag{
						Name:  "after-id",
						Usage: "List profiles with IDs greater than this",
					},
					&cli.IntFlag{
						Name:  "limit",
						Usage: "Maximum number of profiles to list (0 for all)",
					},
				},
			},
			{
				Name:   "get",
				Usage:  "Print one profile as JSON",
				Action: getCommand,
				Flags: []cli.Flag{
					dataFlag,
					&cli.Uint64Flag{
						Name:  "id",
						Usage: "Profile ID",
					},
					&cli.StringFlag{
						Name:  "email",
						Usage: "Profile email address",
					},
				},
			},
			{
				Name:   "delete",
				Usage:  "Delete a profile by ID",
				Action: deleteCommand,
				Flags: []cli.Flag{
					dataFlag,
					&cli.Uint64Flag{
						Name:     "id",
						Usage:    "Profile ID",
						Required: true,
					},
				},
			},
			{
				Name:   "reembed",
				Usage:  "Regenerate embeddings for all indexed profiles",
				Action: reembedCommand,
				Flags: append([]cli.Flag{
					dataFlag,
					&cli.IntFlag{
						Name:  "batch-size",
						Usage: "Number of profiles to process in each batch",
						Value: 100,
					},
					&cli.IntFlag{
						Name:  "report-interval",
						Usage: "Report progress every N profiles",
						Value: 100,
					},
					&cli.IntFlag{
						Name:  "max-retries",
						Usage: "Maximum retry attempts for failed operations",
						Value: 3,
					},
					&cli.DurationFlag{
						Name:  "retry-delay",
						Usage: "Base delay for exponential backoff",
						Value: 1 * time.Second,
					},
				}, aiFlags...),
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

// aiConfigFromFlags builds and validates the AI configuration shared by the
// commands that call external services.
func aiConfigFromFlags(c *cli.Context) (*ai.Config, error) {
	extractorHost := c.String("extractor-host")
	if extractorHost == "" {
		extractorHost = c.String("embedding-host")
	}

	cfg := ai.NewConfig(
		ai.WithEmbeddingHost(c.String("embedding-host")),
		ai.WithEmbeddingModel(c.String("embedding-model")),
		ai.WithExtractorHost(extractorHost),
		ai.WithExtractorModel(c.String("extractor-model")),
	)
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid AI configuration: %w", err)
	}
	return cfg, nil
}

func ingestCommand(c *cli.Context) error {
	if c.NArg() == 0 {
		return fmt.Errorf("at least one PDF file is required")
	}

	cfg, err := aiConfigFromFlags(c)
	if err != nil {
		return err
	}

	db, err := cvindex.NewDatabase(c.String("data"),
		cvindex.WithAIConfig(cfg),
		cvindex.WithQueueWorkers(c.Int("workers")))
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer db.Close()

	pipeline, err := db.NewIngestionPipeline(ingestion.WithDelay(c.Duration("delay")))
	if err != nil {
		return fmt.Errorf("failed to create pipeline: %w", err)
	}

	ctx := context.Background()
	jobIDs := make(map[string]string, c.NArg())
	for _, path := range c.Args().Slice() {
		data, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("failed to read %s: %w", path, err)
		}

		jobID, err := pipeline.Submit(ctx, filepath.Base(path), data)
		if err != nil {
			return fmt.Errorf("failed to submit %s: %w", path, err)
		}
		jobIDs[path] = jobID
		fmt.Fprintf(os.Stderr, "queued %s (job %s)\n", path, jobID)
	}

	fmt.Fprintf(os.Stderr, "waiting for %d jobs...\n", len(jobIDs))
	pipeline.Wait()

	failures := 0
	for path, jobID := range jobIDs {
		job, err := db.Queue().Job(jobID)
		if err != nil {
			return err
		}
		if job.Status == core.JobStatusFailed {
			failures++
			fmt.Fprintf(os.Stderr, "FAILED %s: %s\n", path, job.Error)
		} else {
			fmt.Fprintf(os.Stderr, "done %s\n", path)
		}
	}

	if failures > 0 {
		return fmt.Errorf("%d of %d documents failed", failures, len(jobIDs))
	}
	return nil
}

func searchCommand(c *cli.Context) error {
	query := strings.TrimSpace(strings.Join(c.Args().Slice(), " "))
	if query == "" {
		return fmt.Errorf("a search query is required")
	}

	cfg, err := aiConfigFromFlags(c)
	if err != nil {
		return err
	}

	db, err := cvindex.NewDatabase(c.String("data"), cvindex.WithAIConfig(cfg))
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer db.Close()

	searcher, err := db.NewSearcher(
		search.WithMinScore(float32(c.Float64("min-score"))),
		search.WithMaxHits(c.Int("max-hits")))
	if err != nil {
		return fmt.Errorf("failed to create searcher: %w", err)
	}

	results, err := searcher.Search(context.Background(), query)
	if err != nil {
		return fmt.Errorf("search failed: %w", err)
	}

	if len(results) == 0 {
		fmt.Println("no matching profiles")
		return nil
	}

	for _, match := range results {
		p := match.Profile
		fmt.Printf("%.3f  %-8d %s %s  <%s>  %s\n",
			match.Score, p.Id, p.FirstName, p.LastName, p.Email, p.CvPath)
	}
	return nil
}

func listCommand(c *cli.Context) error {
	db, err := cvindex.NewDatabase(c.String("data"))
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer db.Close()

	profiles, err := db.ProfileRepository().ListProfiles(
		context.Background(), core.ID(c.Uint64("after-id")), c.Int("limit"))
	if err != nil {
		return fmt.Errorf("failed to list profiles: %w", err)
	}

	for _, p := range profiles {
		fmt.Printf("%-8d %s %s  <%s>  %s\n", p.Id, p.FirstName, p.LastName, p.Email, p.CvPath)
	}
	fmt.Fprintf(os.Stderr, "%d profiles\n", len(profiles))
	return nil
}

func getCommand(c *cli.Context) error {
	id := c.Uint64("id")
	email := c.String("email")
	if id == 0 && email == "" {
		return fmt.Errorf("either --id or --email is required")
	}

	db, err := cvindex.NewDatabase(c.String("data"))
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer db.Close()

	ctx := context.Background()
	var profile *core.Profile
	if id != 0 {
		profile, err = db.ProfileRepository().GetProfile(ctx, core.ID(id))
	} else {
		profile, err = db.ProfileRepository().FindProfileByEmail(ctx, email)
	}
	if err != nil {
		return err
	}

	out, err := json.MarshalIndent(profile, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(out))
	return nil
}

func deleteCommand(c *cli.Context) error {
	db, err := cvindex.NewDatabase(c.String("data"))
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer db.Close()

	id := core.ID(c.Uint64("id"))
	if err := db.ProfileRepository().DeleteProfile(context.Background(), id); err != nil {
		return err
	}
	fmt.Fprintf(os.Stderr, "deleted profile %d\n", id)
	return nil
}

func reembedCommand(c *cli.Context) error {
	cfg, err := aiConfigFromFlags(c)
	if err != nil {
		return err
	}

	reembedConfig := &reembed.Config{
		BatchSize:      c.Int("batch-size"),
		ReportInterval: c.Int("report-interval"),
		MaxRetries:     c.Int("max-retries"),
		RetryDelay:     c.Duration("retry-delay"),
	}
	if reembedConfig.BatchSize <= 0 {
		return fmt.Errorf("batch-size must be greater than 0")
	}
	if reembedConfig.ReportInterval <= 0 {
		return fmt.Errorf("report-interval must be greater than 0")
	}
	if reembedConfig.MaxRetries <= 0 {
		return fmt.Errorf("max-retries must be greater than 0")
	}

	db, err := cvindex.NewDatabase(c.String("data"), cvindex.WithAIConfig(cfg))
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer db.Close()

	fmt.Fprintf(os.Stderr, "Database: %s\n", c.String("data"))
	fmt.Fprintf(os.Stderr, "Embedding host: %s\n", c.String("embedding-host"))
	fmt.Fprintf(os.Stderr, "Embedding model: %s\n", c.String("embedding-model"))
	fmt.Fprintln(os.Stderr)

	reembedder := db.NewReembedder(reembedConfig, os.Stderr)
	if err := reembedder.Run(context.Background()); err != nil {
		return fmt.Errorf("reembedding failed: %w", err)
	}
	return nil
}

func setupLogger(c *cli.Context) error {
	levelStr := strings.ToLower(c.String("log-level"))

	var level slog.Level
	switch levelStr {
	case "debug":
		level = slog.LevelDebug
	case "info":
		level = slog.LevelInfo
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		return fmt.Errorf("invalid log level %q: must be one of debug, info, warn, error", levelStr)
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))
	slog.SetDefault(logger)

	return nil
}

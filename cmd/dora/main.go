// Copyright 2025 Codemet
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
	"fmt"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/codemet/dora"
	"github.com/codemet/dora/ai"
	"github.com/codemet/dora/ai/googleai"
	"github.com/codemet/dora/ingestion"
	"github.com/codemet/dora/source"
)

func main() {
	app := &cli.App{
		Name:  "dora",
		Usage: "Question answering over your Google Drive documents",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "log-level",
				Aliases: []string{"l"},
				Usage:   "Set logging level (debug, info, warn, error)",
				Value:   "info",
			},
			&cli.StringFlag{
				Name:    "data-dir",
				Aliases: []string{"d"},
				Usage:   "Directory for the vector store and document registry",
				Value:   "./dora-data",
			},
			&cli.StringFlag{
				Name:    "api-key",
				Usage:   "API key for the LLM provider",
				EnvVars: []string{"DORA_API_KEY"},
			},
			&cli.StringFlag{
				Name:  "provider",
				Usage: "LLM provider (groq, gemini)",
				Value: "groq",
			},
		},
		Before: setupLogger,
		Commands: []*cli.Command{
			{
				Name:   "ingest",
				Usage:  "Ingest a Google Drive folder into the knowledge base",
				Action: ingestCommand,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "folder",
						Aliases:  []string{"f"},
						Usage:    "Google Drive folder ID to ingest",
						Required: true,
					},
					&cli.StringFlag{
						Name:     "tenant",
						Aliases:  []string{"t"},
						Usage:    "Tenant whose knowledge base receives the documents",
						Required: true,
					},
					&cli.StringFlag{
						Name:     "token",
						Usage:    "Google OAuth access token with Drive read scope",
						Required: true,
						EnvVars:  []string{"DORA_DRIVE_TOKEN"},
					},
					&cli.IntFlag{
						Name:  "batch-size",
						Usage: "Number of documents fetched per batch",
						Value: 60,
					},
					&cli.IntFlag{
						Name:  "process-batch-size",
						Usage: "Number of documents processed per inner batch",
						Value: 15,
					},
					&cli.DurationFlag{
						Name:  "batch-timeout",
						Usage: "Deadline for processing one inner batch",
						Value: 2 * time.Minute,
					},
				},
			},
			{
				Name:      "query",
				Usage:     "Ask a question against the knowledge base",
				Action:    queryCommand,
				ArgsUsage: "QUESTION",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "tenant",
						Aliases:  []string{"t"},
						Usage:    "Tenant whose knowledge base is queried",
						Required: true,
					},
				},
			},
			{
				Name:   "clear",
				Usage:  "Delete a tenant's entire knowledge base",
				Action: clearCommand,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "tenant",
						Aliases:  []string{"t"},
						Usage:    "Tenant whose knowledge base is cleared",
						Required: true,
					},
				},
			},
			{
				Name:   "stats",
				Usage:  "Show document and chunk counts for a tenant",
				Action: statsCommand,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "tenant",
						Aliases:  []string{"t"},
						Usage:    "Tenant to report on",
						Required: true,
					},
				},
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func openEngine(c *cli.Context) (*dora.Engine, error) {
	opts := []dora.EngineOption{}
	key := c.String("api-key")

	switch c.String("provider") {
	case "groq":
		if key != "" {
			opts = append(opts, dora.WithAIConfig(ai.NewConfig(ai.WithAPIKey(key))))
		}
	case "gemini":
		config := googleai.DefaultConfig()
		config.APIKey = key
		provider, err := googleai.NewProvider(context.Background(), config)
		if err != nil {
			return nil, fmt.Errorf("failed to create gemini provider: %w", err)
		}
		opts = append(opts, dora.WithProvider(provider))
	default:
		return nil, fmt.Errorf("unknown provider %q: must be groq or gemini", c.String("provider"))
	}

	return dora.NewEngine(c.String("data-dir"), opts...)
}

func ingestCommand(c *cli.Context) error {
	// Ingestion can run for a long while; let Ctrl-C stop it between
	// batches instead of killing the process mid-write.
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	engine, err := openEngine(c)
	if err != nil {
		return fmt.Errorf("failed to open engine: %w", err)
	}
	defer engine.Close()

	drive, err := source.NewDriveSource(ctx, c.String("token"))
	if err != nil {
		return fmt.Errorf("failed to create drive source: %w", err)
	}

	cached, err := source.NewCachedSource(drive)
	if err != nil {
		return fmt.Errorf("failed to create listing cache: %w", err)
	}
	defer cached.Close()

	pipeline, err := engine.NewIngestionPipeline(cached,
		ingestion.WithOuterBatchSize(c.Int("batch-size")),
		ingestion.WithInnerBatchSize(c.Int("process-batch-size")),
		ingestion.WithBatchTimeout(c.Duration("batch-timeout")),
	)
	if err != nil {
		return fmt.Errorf("failed to create pipeline: %w", err)
	}
	defer pipeline.Release()

	report, err := pipeline.IngestFolder(ctx, c.String("tenant"), c.String("folder"), printProgress)
	if report == nil {
		return fmt.Errorf("ingestion failed: %w", err)
	}
	if err != nil {
		fmt.Printf("ingestion interrupted: %v\n", err)
	}

	fmt.Printf("\nProcessed %d, skipped %d, failed %d of %d documents found\n",
		report.Processed, report.Skipped, report.Failed, report.Found)
	for _, failure := range report.Failures {
		fmt.Printf("  failed: %s (%s): %s\n", failure.Name, failure.ID, failure.Reason)
	}
	return nil
}

// printProgress renders ingestion events on the terminal.
func printProgress(event ingestion.Event) {
	switch event.Type {
	case ingestion.EventScanning, ingestion.EventChecking:
		fmt.Printf("%s...\n", event.Message)
	case ingestion.EventDuplicatesFound, ingestion.EventFound:
		fmt.Println(event.Message)
	case ingestion.EventBatchStart:
		fmt.Printf("-- %s\n", event.Message)
	case ingestion.EventSaved:
		fmt.Printf("  saved %s (%s)\n", event.DocumentName, event.Message)
	case ingestion.EventFailed:
		fmt.Printf("  FAILED %s: %s\n", event.DocumentName, event.Message)
	case ingestion.EventBatchComplete:
		fmt.Printf("-- %s (%d%%)\n", event.Message, event.Percentage)
	case ingestion.EventComplete:
		fmt.Println(event.Message)
	case ingestion.EventError:
		fmt.Printf("error: %s\n", event.Message)
	}
}

func queryCommand(c *cli.Context) error {
	question := strings.TrimSpace(strings.Join(c.Args().Slice(), " "))
	if question == "" {
		return fmt.Errorf("a question is required")
	}

	engine, err := openEngine(c)
	if err != nil {
		return fmt.Errorf("failed to open engine: %w", err)
	}
	defer engine.Close()

	answer, err := engine.Query(context.Background(), c.String("tenant"), question)
	if err != nil {
		return fmt.Errorf("query failed: %w", err)
	}

	fmt.Println(answer.Text)
	if len(answer.Sources) > 0 {
		fmt.Println("\nSumber:")
		for _, src := range answer.Sources {
			fmt.Printf("  - %s: %s\n", src.Name, src.Link)
		}
	}
	return nil
}

func clearCommand(c *cli.Context) error {
	engine, err := openEngine(c)
	if err != nil {
		return fmt.Errorf("failed to open engine: %w", err)
	}
	defer engine.Close()

	tenant := c.String("tenant")
	if err := engine.ClearAll(context.Background(), tenant); err != nil {
		return fmt.Errorf("clear failed: %w", err)
	}

	fmt.Printf("Knowledge base for %s cleared\n", tenant)
	return nil
}

func statsCommand(c *cli.Context) error {
	engine, err := openEngine(c)
	if err != nil {
		return fmt.Errorf("failed to open engine: %w", err)
	}
	defer engine.Close()

	stats, err := engine.Stats(context.Background(), c.String("tenant"))
	if err != nil {
		return fmt.Errorf("stats failed: %w", err)
	}

	fmt.Printf("Documents: %d\nChunks:    %d\n", stats.Documents, stats.Chunks)
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

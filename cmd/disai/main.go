// Copyright 2026 Uzhavan Labs
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

	"github.com/urfave/cli/v2"

	"github.com/uzhavan/disai"
	"github.com/uzhavan/disai/predict"
	"github.com/uzhavan/disai/server"
)

func main() {
	app := &cli.App{
		Name:  "disai",
		Usage: "Tamil query to catalog page prediction engine",
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
				Name:   "serve",
				Usage:  "Serve the prediction API over HTTP",
				Action: serveCommand,
				Flags: append(engineFlags(),
					&cli.StringFlag{
						Name:  "listen",
						Usage: "Listen address",
						Value: ":5000",
					},
					&cli.BoolFlag{
						Name:  "watch",
						Usage: "Reload automatically when the catalog file changes",
					},
				),
			},
			{
				Name:      "predict",
				Usage:     "Run a single query and print the ranked predictions",
				Action:    predictCommand,
				ArgsUsage: "<query>",
				Flags:     engineFlags(),
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func engineFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "catalog",
			Aliases: []string{"c"},
			Usage:   "Path to the catalog JSON file",
			Value:   "TamilKnowledgeBase.json",
		},
		&cli.StringFlag{
			Name:  "strategy",
			Usage: "Matching strategy (embedding, lexical)",
			Value: "embedding",
		},
		&cli.StringFlag{
			Name:  "embedding-host",
			Usage: "Embedding service host URL",
			Value: "http://localhost:8000/v1",
		},
		&cli.StringFlag{
			Name:  "embedding-model",
			Usage: "Embedding model name",
			Value: "l3cube-pune/indic-sentence-similarity-sbert",
		},
		&cli.StringFlag{
			Name:  "cache-dir",
			Usage: "Directory for the persistent vector cache (empty disables caching)",
		},
		&cli.IntFlag{
			Name:  "top-k",
			Usage: "Number of predictions per query",
			Value: predict.DefaultTopK,
		},
	}
}

func engineConfig(c *cli.Context) disai.Config {
	return disai.Config{
		CatalogPath:    c.String("catalog"),
		Strategy:       predict.Strategy(c.String("strategy")),
		TopK:           c.Int("top-k"),
		EmbeddingHost:  c.String("embedding-host"),
		EmbeddingModel: c.String("embedding-model"),
		CachePath:      c.String("cache-dir"),
	}
}

func serveCommand(c *cli.Context) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Build the engine; with the embedding strategy this encodes the whole
	// catalog before the listener starts.
	engine, err := disai.New(ctx, engineConfig(c))
	if err != nil {
		return fmt.Errorf("failed to initialize engine: %w", err)
	}
	defer engine.Close()

	srv, err := server.NewServer(engine)
	if err != nil {
		return err
	}

	if c.Bool("watch") {
		watcher, err := server.NewWatcher(engine, c.String("catalog"))
		if err != nil {
			return fmt.Errorf("failed to create catalog watcher: %w", err)
		}
		if err := watcher.Start(ctx); err != nil {
			watcher.Stop()
			return fmt.Errorf("failed to start catalog watcher: %w", err)
		}
		defer watcher.Stop()
	}

	return srv.Run(ctx, c.String("listen"))
}

func predictCommand(c *cli.Context) error {
	ctx := context.Background()

	query := strings.TrimSpace(strings.Join(c.Args().Slice(), " "))
	if query == "" {
		return fmt.Errorf("query text is required")
	}

	engine, err := disai.New(ctx, engineConfig(c))
	if err != nil {
		return fmt.Errorf("failed to initialize engine: %w", err)
	}
	defer engine.Close()

	predictions, err := engine.Predict(ctx, query)
	if err != nil {
		return fmt.Errorf("prediction failed: %w", err)
	}

	fmt.Fprintf(os.Stderr, "Catalog: %s\n", c.String("catalog"))
	fmt.Fprintf(os.Stderr, "Strategy: %s\n", engine.Strategy())
	fmt.Fprintln(os.Stderr)

	if len(predictions) == 0 {
		fmt.Println("no predictions")
		return nil
	}

	for i, p := range predictions {
		fmt.Printf("%d. %s  score=%.4f  keyword=%s\n", i+1, p.PageName, p.Score, p.Keyword)
		if p.Description != "" {
			fmt.Printf("   %s\n", p.Description)
		}
	}

	return nil
}

func setupLogger(c *cli.Context) error {
	// Get log level from flag and normalize to lowercase
	levelStr := strings.ToLower(c.String("log-level"))

	// Map string to slog.Level
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

	// Configure slog with the specified level
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))
	slog.SetDefault(logger)

	return nil
}

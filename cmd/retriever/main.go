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
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/poiesic/retriever"
	"github.com/poiesic/retriever/config"
	"github.com/poiesic/retriever/loader"
	"github.com/urfave/cli/v2"
)

func main() {
	if err := newApp().Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func newApp() *cli.App {
	return &cli.App{
		Name:  "retriever",
		Usage: "Semantic retrieval and query understanding over a local knowledge base",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "log-level",
				Aliases: []string{"l"},
				Usage:   "Set logging level (debug, info, warn, error)",
				Value:   "info",
			},
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Path to YAML config file (defaults are used when missing)",
				Value:   "config.yaml",
			},
			&cli.StringFlag{
				Name:  "env-file",
				Usage: "Path to a .env file to load before reading the environment",
				Value: ".env",
			},
			&cli.StringFlag{
				Name:    "data-dir",
				Aliases: []string{"d"},
				Usage:   "Knowledge base directory (overrides config)",
			},
			&cli.StringFlag{
				Name:  "embedding-provider",
				Usage: "Embedding provider: compatible or openai (overrides config)",
			},
			&cli.StringFlag{
				Name:  "embedding-host",
				Usage: "Embedding service host URL (overrides config)",
			},
			&cli.StringFlag{
				Name:  "embedding-model",
				Usage: "Embedding model name (overrides config)",
			},
		},
		Before: setupLogger,
		Commands: []*cli.Command{
			{
				Name:   "build",
				Usage:  "Embed the knowledge base and persist the index",
				Action: buildCommand,
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "force",
						Usage: "Rebuild even when a snapshot exists",
					},
				},
			},
			{
				Name:      "search",
				Usage:     "Print the chunks most relevant to a query",
				ArgsUsage: "<query>",
				Action:    searchCommand,
				Flags: []cli.Flag{
					&cli.IntFlag{
						Name:    "top-k",
						Aliases: []string{"k"},
						Usage:   "Number of chunks to return (0 uses the configured default)",
					},
				},
			},
			{
				Name:      "classify",
				Usage:     "Predict the intent and entities of a query",
				ArgsUsage: "<query>",
				Action:    classifyCommand,
			},
			{
				Name:      "learn",
				Usage:     "Record a query as an example of an intent",
				ArgsUsage: "<query>",
				Action:    learnCommand,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "intent",
						Aliases:  []string{"i"},
						Usage:    "Intent the query belongs to",
						Required: true,
					},
				},
			},
			{
				Name:   "status",
				Usage:  "Load the index and report what is served",
				Action: statusCommand,
			},
			{
				Name:   "watch",
				Usage:  "Rebuild the index whenever the knowledge base changes",
				Action: watchCommand,
				Flags: []cli.Flag{
					&cli.DurationFlag{
						Name:  "debounce",
						Usage: "Quiet period before a change triggers a rebuild",
						Value: loader.DefaultDebounce,
					},
				},
			},
			{
				Name:   "init-config",
				Usage:  "Write the default configuration to the config path",
				Action: initConfigCommand,
			},
		},
	}
}

// loadConfig reads the config file and .env, then applies flag overrides.
func loadConfig(c *cli.Context) (*config.AppConfig, error) {
	if err := config.LoadDotEnv(c.String("env-file")); err != nil {
		return nil, fmt.Errorf("failed to load env file: %w", err)
	}
	cfg, err := config.Load(c.String("config"))
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	if c.IsSet("data-dir") {
		cfg.Index.DataDir = c.String("data-dir")
	}
	if c.IsSet("embedding-provider") {
		cfg.Embedder.Provider = c.String("embedding-provider")
	}
	if c.IsSet("embedding-host") {
		cfg.Embedder.Host = c.String("embedding-host")
	}
	if c.IsSet("embedding-model") {
		cfg.Embedder.Model = c.String("embedding-model")
	}
	return cfg, nil
}

func openEngine(c *cli.Context) (*retriever.Engine, error) {
	cfg, err := loadConfig(c)
	if err != nil {
		return nil, err
	}
	engine, err := retriever.NewEngine(cfg, retriever.WithProgress(c.App.ErrWriter))
	if err != nil {
		return nil, fmt.Errorf("failed to open engine: %w", err)
	}
	return engine, nil
}

func queryArg(c *cli.Context) (string, error) {
	query := strings.TrimSpace(strings.Join(c.Args().Slice(), " "))
	if query == "" {
		return "", errors.New("query is required")
	}
	return query, nil
}

func printJSON(c *cli.Context, v any) error {
	enc := json.NewEncoder(c.App.Writer)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	return enc.Encode(v)
}

func buildCommand(c *cli.Context) error {
	engine, err := openEngine(c)
	if err != nil {
		return err
	}
	defer engine.Close()

	report, err := engine.Build(c.Context, c.Bool("force"))
	if err != nil {
		return fmt.Errorf("build failed: %w", err)
	}

	source := "snapshot"
	if report.Rebuilt {
		source = "rebuilt"
	}
	fmt.Fprintf(c.App.Writer, "Index ready (%s): %d chunks, dimension %d, %s\n",
		source, report.Chunks, report.Dimension, report.Elapsed.Round(time.Millisecond))
	return nil
}

func searchCommand(c *cli.Context) error {
	query, err := queryArg(c)
	if err != nil {
		return err
	}
	engine, err := openEngine(c)
	if err != nil {
		return err
	}
	defer engine.Close()

	if _, err := engine.Build(c.Context, false); err != nil {
		return fmt.Errorf("failed to load index: %w", err)
	}
	results, err := engine.Search(c.Context, query, c.Int("top-k"))
	if err != nil {
		return fmt.Errorf("search failed: %w", err)
	}

	fmt.Fprintf(c.App.Writer, "Found %d hits\n", len(results))
	for i, hit := range results {
		fmt.Fprintf(c.App.Writer, "%d: [%0.4f] (%d) %s\n", i, hit.Distance, hit.Chunk.Id, hit.Chunk.Text)
	}
	return nil
}

func classifyCommand(c *cli.Context) error {
	query, err := queryArg(c)
	if err != nil {
		return err
	}
	engine, err := openEngine(c)
	if err != nil {
		return err
	}
	defer engine.Close()

	return printJSON(c, engine.Predict(query))
}

func learnCommand(c *cli.Context) error {
	query, err := queryArg(c)
	if err != nil {
		return err
	}
	engine, err := openEngine(c)
	if err != nil {
		return err
	}
	defer engine.Close()

	intentName := c.String("intent")
	if err := engine.Learn(c.Context, query, intentName); err != nil {
		return fmt.Errorf("learn failed: %w", err)
	}
	fmt.Fprintf(c.App.Writer, "Learned %q as %s\n", query, intentName)
	return nil
}

func statusCommand(c *cli.Context) error {
	engine, err := openEngine(c)
	if err != nil {
		return err
	}
	defer engine.Close()

	if _, err := engine.Build(c.Context, false); err != nil {
		slog.Warn("index not available", "err", err)
	}
	return printJSON(c, engine.Status())
}

func watchCommand(c *cli.Context) error {
	engine, err := openEngine(c)
	if err != nil {
		return err
	}
	defer engine.Close()

	ctx, stop := signal.NotifyContext(c.Context, os.Interrupt, syscall.SIGTERM)
	defer stop()

	if _, err := engine.Build(ctx, false); err != nil {
		slog.Warn("initial build failed, waiting for changes", "err", err)
	}
	slog.Info("watching for changes, press Ctrl-C to stop")
	return engine.Watch(ctx, c.Duration("debounce"))
}

func initConfigCommand(c *cli.Context) error {
	path := c.String("config")
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("config file %s already exists", path)
	}
	if err := config.Save(path, config.Default()); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	fmt.Fprintf(c.App.Writer, "Wrote default config to %s\n", path)
	return nil
}

func setupLogger(c *cli.Context) error {
	// Get log level from flag and normalize to lowercase
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

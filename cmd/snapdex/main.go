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
	"io"
	"log"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/poiesic/snapdex"
	"github.com/poiesic/snapdex/config"
	"github.com/poiesic/snapdex/core"
	"github.com/poiesic/snapdex/imgproc"
	"github.com/poiesic/snapdex/ingest"
)

func main() {
	if err := newApp().Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func newApp() *cli.App {
	return &cli.App{
		Name:  "snapdex",
		Usage: "Local full-text search over captured records",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Path to a YAML config file",
			},
			&cli.StringFlag{
				Name:  "data-dir",
				Usage: "Directory holding the catalog and the search index (overrides config)",
			},
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
				Name:   "add",
				Usage:  "Catalog and index one item, read as JSON from stdin or a file",
				Action: addCommand,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "file",
						Aliases: []string{"f"},
						Usage:   "Read the item from this JSON file instead of stdin",
					},
				},
			},
			{
				Name:   "update",
				Usage:  "Replace an indexed item, read as JSON from stdin or a file",
				Action: updateCommand,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "file",
						Aliases: []string{"f"},
						Usage:   "Read the item from this JSON file instead of stdin",
					},
				},
			},
			{
				Name:      "delete",
				Usage:     "Remove an item by id",
				ArgsUsage: "<id>",
				Action:    deleteCommand,
			},
			{
				Name:      "get",
				Usage:     "Print the cataloged source record for an id as JSON",
				ArgsUsage: "<id>",
				Action:    getCommand,
			},
			{
				Name:   "search",
				Usage:  "Run a ranked query and print the results as JSON",
				Action: searchCommand,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "query",
						Aliases: []string{"q"},
						Usage:   "Query text (empty matches everything)",
					},
					&cli.StringSliceFlag{
						Name:  "field",
						Usage: "Restrict matching to these fields (repeatable)",
					},
					&cli.StringSliceFlag{
						Name:  "tag",
						Usage: "Require this tag (repeatable, all must match)",
					},
					&cli.StringFlag{
						Name:  "from",
						Usage: "Only items created on or after this date (2006-01-02 or RFC3339)",
					},
					&cli.StringFlag{
						Name:  "to",
						Usage: "Only items created on or before this date (2006-01-02 or RFC3339)",
					},
					&cli.IntFlag{
						Name:  "limit",
						Usage: "Maximum number of results",
						Value: core.DefaultSearchLimit,
					},
				},
			},
			{
				Name:   "import",
				Usage:  "Bulk import a JSON array of items",
				Action: importCommand,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "file",
						Aliases:  []string{"f"},
						Usage:    "Path to a JSON file holding an array of items",
						Required: true,
					},
					&cli.IntFlag{
						Name:  "pool-size",
						Usage: "Number of preparation workers",
					},
					&cli.IntFlag{
						Name:  "batch-size",
						Usage: "Number of items per index commit",
						Value: 100,
					},
				},
			},
			{
				Name:   "clear",
				Usage:  "Remove every item from the catalog and the index",
				Action: clearCommand,
			},
			{
				Name:   "stats",
				Usage:  "Print index and catalog counters as JSON",
				Action: statsCommand,
			},
			{
				Name:   "rebuild",
				Usage:  "Drop the index contents and re-add every cataloged record",
				Action: rebuildCommand,
			},
			{
				Name:   "preprocess",
				Usage:  "Apply an image transform to a file",
				Action: preprocessCommand,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "in",
						Usage:    "Input image file",
						Required: true,
					},
					&cli.StringFlag{
						Name:     "out",
						Usage:    "Output image file",
						Required: true,
					},
					&cli.StringFlag{
						Name:  "op",
						Usage: "Transform: preprocess, grayscale, binarize, denoise, contrast, sharpen, resize, jpeg, png",
						Value: "preprocess",
					},
					&cli.IntFlag{
						Name:  "width",
						Usage: "Target width for resize",
						Value: 1600,
					},
					&cli.IntFlag{
						Name:  "height",
						Usage: "Target height for resize",
						Value: 1600,
					},
					&cli.IntFlag{
						Name:  "quality",
						Usage: "JPEG quality for resize and jpeg",
						Value: imgproc.DefaultJPEGQuality,
					},
					&cli.IntFlag{
						Name:  "threshold",
						Usage: "Binarization threshold (1-255)",
						Value: imgproc.DefaultBinarizeThreshold,
					},
					&cli.Float64Flag{
						Name:  "sigma",
						Usage: "Sharpen sigma",
						Value: 1.5,
					},
					&cli.Float64Flag{
						Name:  "percentage",
						Usage: "Contrast adjustment percentage (-100 to 100)",
						Value: 50,
					},
				},
			},
		},
	}
}

// openEngine resolves the data directory from flags and config, then
// opens the engine there. The caller owns the returned handle.
func openEngine(c *cli.Context) (*snapdex.Engine, error) {
	cfg, err := config.Load(c.String("config"))
	if err != nil {
		return nil, err
	}

	dataDir := c.String("data-dir")
	if dataDir == "" {
		dataDir = cfg.DataDir
	}

	engine, err := snapdex.Open(dataDir)
	if err != nil {
		return nil, fmt.Errorf("failed to open engine at %s: %w", dataDir, err)
	}
	return engine, nil
}

func readItem(c *cli.Context) (*core.SearchableItem, error) {
	var r io.Reader = os.Stdin
	if path := c.String("file"); path != "" {
		f, err := os.Open(path)
		if err != nil {
			return nil, err
		}
		defer f.Close()
		r = f
	}

	item := &core.SearchableItem{}
	if err := json.NewDecoder(r).Decode(item); err != nil {
		return nil, fmt.Errorf("failed to decode item: %w", err)
	}
	return item, nil
}

func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func addCommand(c *cli.Context) error {
	item, err := readItem(c)
	if err != nil {
		return err
	}

	engine, err := openEngine(c)
	if err != nil {
		return err
	}
	defer engine.Close()

	if err := engine.Add(context.Background(), item); err != nil {
		return fmt.Errorf("add failed: %w", err)
	}
	return printJSON(map[string]string{"id": item.Id})
}

func updateCommand(c *cli.Context) error {
	item, err := readItem(c)
	if err != nil {
		return err
	}

	engine, err := openEngine(c)
	if err != nil {
		return err
	}
	defer engine.Close()

	if err := engine.Update(context.Background(), item); err != nil {
		return fmt.Errorf("update failed: %w", err)
	}
	return printJSON(map[string]string{"id": item.Id})
}

func deleteCommand(c *cli.Context) error {
	id := c.Args().First()
	if id == "" {
		return fmt.Errorf("an item id is required")
	}

	engine, err := openEngine(c)
	if err != nil {
		return err
	}
	defer engine.Close()

	if err := engine.Delete(context.Background(), id); err != nil {
		return fmt.Errorf("delete failed: %w", err)
	}
	return nil
}

func getCommand(c *cli.Context) error {
	id := c.Args().First()
	if id == "" {
		return fmt.Errorf("an item id is required")
	}

	engine, err := openEngine(c)
	if err != nil {
		return err
	}
	defer engine.Close()

	item, err := engine.Get(context.Background(), id)
	if err != nil {
		return err
	}
	return printJSON(item)
}

func searchCommand(c *cli.Context) error {
	query := &core.SearchQuery{
		Query:  c.String("query"),
		Fields: c.StringSlice("field"),
		Tags:   c.StringSlice("tag"),
		Limit:  c.Int("limit"),
	}

	if from := c.String("from"); from != "" {
		ts, err := parseDate(from)
		if err != nil {
			return fmt.Errorf("invalid --from: %w", err)
		}
		query.DateFrom = &ts
	}
	if to := c.String("to"); to != "" {
		ts, err := parseDate(to)
		if err != nil {
			return fmt.Errorf("invalid --to: %w", err)
		}
		query.DateTo = &ts
	}

	engine, err := openEngine(c)
	if err != nil {
		return err
	}
	defer engine.Close()

	results, err := engine.Search(context.Background(), query)
	if err != nil {
		return fmt.Errorf("search failed: %w", err)
	}
	return printJSON(results)
}

func importCommand(c *cli.Context) error {
	data, err := os.ReadFile(c.String("file"))
	if err != nil {
		return err
	}

	var items []*core.SearchableItem
	if err := json.Unmarshal(data, &items); err != nil {
		return fmt.Errorf("failed to decode items: %w", err)
	}

	engine, err := openEngine(c)
	if err != nil {
		return err
	}
	defer engine.Close()

	opts := []ingest.Option{ingest.WithBatchSize(c.Int("batch-size"))}
	if size := c.Int("pool-size"); size > 0 {
		opts = append(opts, ingest.WithPoolSize(size))
	}

	importer, err := engine.NewImporter(opts...)
	if err != nil {
		return err
	}
	defer importer.Release()

	report, err := importer.Run(context.Background(), items)
	if err != nil {
		return fmt.Errorf("import failed: %w", err)
	}

	fmt.Fprintf(os.Stderr, "Imported: %d\n", report.Imported)
	fmt.Fprintf(os.Stderr, "Failed:   %d\n", report.Failed)
	fmt.Fprintf(os.Stderr, "Elapsed:  %s\n", report.Elapsed.Round(time.Millisecond))
	return nil
}

func clearCommand(c *cli.Context) error {
	engine, err := openEngine(c)
	if err != nil {
		return err
	}
	defer engine.Close()

	if err := engine.Clear(context.Background()); err != nil {
		return fmt.Errorf("clear failed: %w", err)
	}
	return nil
}

func statsCommand(c *cli.Context) error {
	engine, err := openEngine(c)
	if err != nil {
		return err
	}
	defer engine.Close()

	stats, err := engine.Stats(context.Background())
	if err != nil {
		return fmt.Errorf("stats failed: %w", err)
	}
	return printJSON(stats)
}

func rebuildCommand(c *cli.Context) error {
	engine, err := openEngine(c)
	if err != nil {
		return err
	}
	defer engine.Close()

	count, err := engine.Rebuild(context.Background())
	if err != nil {
		return fmt.Errorf("rebuild failed: %w", err)
	}

	fmt.Fprintf(os.Stderr, "Reindexed %d records\n", count)
	return nil
}

func preprocessCommand(c *cli.Context) error {
	data, err := os.ReadFile(c.String("in"))
	if err != nil {
		return err
	}

	var out []byte
	switch op := c.String("op"); op {
	case "preprocess":
		out, err = imgproc.Preprocess(data)
	case "grayscale":
		out, err = imgproc.Grayscale(data)
	case "binarize":
		out, err = imgproc.Binarize(data, uint8(c.Int("threshold")))
	case "denoise":
		out, err = imgproc.Denoise(data, uint8(c.Int("threshold")))
	case "contrast":
		out, err = imgproc.StretchContrast(data, c.Float64("percentage"))
	case "sharpen":
		out, err = imgproc.Sharpen(data, c.Float64("sigma"))
	case "resize":
		out, err = imgproc.ResizeToFit(data, c.Int("width"), c.Int("height"), c.Int("quality"))
	case "jpeg":
		out, err = imgproc.EncodeJPEG(data, c.Int("quality"))
	case "png":
		out, err = imgproc.EncodePNG(data)
	default:
		return fmt.Errorf("unknown op %q", op)
	}
	if err != nil {
		return fmt.Errorf("%s failed: %w", c.String("op"), err)
	}

	return os.WriteFile(c.String("out"), out, 0o644)
}

func parseDate(s string) (time.Time, error) {
	if ts, err := time.Parse(time.RFC3339, s); err == nil {
		return ts, nil
	}
	return time.Parse("2006-01-02", s)
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

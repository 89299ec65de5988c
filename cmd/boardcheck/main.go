// Command boardcheck validates board configuration files and prints what
// is on them: ladder and snake counts, the longest climb and slide, jumps
// that land on another trigger, and connector geometry for renderers.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/samber/lo"
	"github.com/urfave/cli/v3"

	"github.com/wricardo/snakes-and-ladders/game/board"
	"github.com/wricardo/snakes-and-ladders/game/engine"
)

// ValidationResult captures the outcome of validating a single file.
type ValidationResult struct {
	File  string             `json:"file"`
	Name  string             `json:"name,omitempty"`
	Valid bool               `json:"valid"`
	Error string             `json:"error,omitempty"`
	Stats *engine.TableStats `json:"stats,omitempty"`
}

func main() {
	log.Logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()

	if err := newApp().Run(context.Background(), os.Args); err != nil {
		log.Fatal().Err(err).Msg("boardcheck failed")
	}
}

func newApp() *cli.Command {
	return &cli.Command{
		Name:  "boardcheck",
		Usage: "validate and inspect snakes and ladders board configs",
		Commands: []*cli.Command{
			{
				Name:      "validate",
				Usage:     "validate config files (all *.json in --dir when none are given)",
				ArgsUsage: "[files...]",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "dir",
						Value:   "configs",
						Usage:   "directory scanned when no files are given",
						Sources: cli.EnvVars("CONFIG_DIR"),
					},
					&cli.BoolFlag{
						Name:  "json",
						Usage: "print results as JSON",
					},
				},
				Action: runValidate,
			},
			{
				Name:      "geometry",
				Usage:     "print connector coordinates of a config",
				ArgsUsage: "<file>",
				Flags: []cli.Flag{
					&cli.IntFlag{
						Name:  "cell-size",
						Value: board.DefaultCellSize,
						Usage: "pixel size of one square",
					},
				},
				Action: runGeometry,
			},
		},
	}
}

func runValidate(ctx context.Context, cmd *cli.Command) error {
	files := cmd.Args().Slice()
	if len(files) == 0 {
		matches, err := filepath.Glob(filepath.Join(cmd.String("dir"), "*.json"))
		if err != nil {
			return err
		}
		files = matches
	}
	if len(files) == 0 {
		return errors.New("no config files found")
	}
	sort.Strings(files)

	results := lo.Map(files, func(file string, _ int) ValidationResult {
		return validateFile(file)
	})

	out := cmd.Root().Writer
	if cmd.Bool("json") {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		if err := enc.Encode(results); err != nil {
			return err
		}
	} else {
		for _, r := range results {
			printResult(out, r)
		}
	}

	invalid := lo.CountBy(results, func(r ValidationResult) bool { return !r.Valid })
	if invalid > 0 {
		return fmt.Errorf("%d of %d configs invalid", invalid, len(results))
	}
	return nil
}

// validateFile loads one config and analyses its transition table.
func validateFile(path string) ValidationResult {
	result := ValidationResult{File: filepath.Base(path)}

	cfg, err := engine.LoadBoardConfig(path)
	if err != nil {
		result.Error = err.Error()
		return result
	}
	table, err := engine.NewTransitionTable(cfg.Ladders, cfg.Snakes)
	if err != nil {
		result.Error = err.Error()
		return result
	}

	stats := engine.AnalyzeTable(table)
	result.Name = cfg.Name
	result.Valid = true
	result.Stats = &stats
	return result
}

func printResult(w io.Writer, r ValidationResult) {
	if !r.Valid {
		fmt.Fprintf(w, "✗ %s: %s\n", r.File, r.Error)
		return
	}

	s := r.Stats
	fmt.Fprintf(w, "✓ %s (%s)\n", r.File, r.Name)
	fmt.Fprintf(w, "  Ladders: %d, climb %d in total, longest %d→%d\n",
		s.Ladders, s.TotalClimb, s.LongestClimb.From, s.LongestClimb.To)
	fmt.Fprintf(w, "  Snakes: %d, slide %d in total, longest %d→%d\n",
		s.Snakes, s.TotalSlide, s.LongestSlide.From, s.LongestSlide.To)
	for _, tr := range s.Chained {
		fmt.Fprintf(w, "  ⚠️  %s %d→%d lands on another trigger, which is not taken\n", tr.Kind, tr.From, tr.To)
	}
	for _, tr := range s.FinalApproach {
		fmt.Fprintf(w, "  Snake in the last row: %d→%d\n", tr.From, tr.To)
	}
}

func runGeometry(ctx context.Context, cmd *cli.Command) error {
	if cmd.Args().Len() != 1 {
		return errors.New("geometry takes exactly one config file")
	}

	cfg, err := engine.LoadBoardConfig(cmd.Args().First())
	if err != nil {
		return err
	}

	connectors, err := connectorsFor(cfg, float64(cmd.Int("cell-size")))
	if err != nil {
		return err
	}

	out := cmd.Root().Writer
	for _, c := range connectors {
		fmt.Fprintf(out, "%-6s %3d→%-3d start=(%.1f,%.1f) end=(%.1f,%.1f) control=(%.1f,%.1f)\n",
			c.Kind, c.From, c.To, c.Start.X, c.Start.Y, c.End.X, c.End.Y, c.Control.X, c.Control.Y)
	}
	return nil
}

// connectorsFor lays out every ladder and snake of cfg, ordered by square.
func connectorsFor(cfg *engine.BoardConfig, cellSize float64) ([]board.Connector, error) {
	var out []board.Connector
	for _, from := range lo.Keys(cfg.Ladders) {
		c, err := board.Line(from, cfg.Ladders[from], cellSize)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	for _, from := range lo.Keys(cfg.Snakes) {
		c, err := board.Curve(from, cfg.Snakes[from], cellSize)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}

	sort.Slice(out, func(i, j int) bool { return out[i].From < out[j].From })
	return out, nil
}

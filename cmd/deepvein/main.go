// Package main is the entry point for Deepvein.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/dustin/go-humanize"
	"github.com/joho/godotenv"
	"github.com/urfave/cli/v3"

	"github.com/samdwyer/deepvein/internal/game"
	"github.com/samdwyer/deepvein/internal/gamedata"
	"github.com/samdwyer/deepvein/internal/persistence"
	"github.com/samdwyer/deepvein/internal/telemetry"
	"github.com/samdwyer/deepvein/internal/ui"
)

var version = "dev"

func main() {
	// Load .env file for local development
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Printf("Note: .env file not loaded: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM)
	defer stop()

	if err := newCommand().Run(ctx, os.Args); err != nil {
		log.Fatalf("deepvein: %v", err)
	}
}

func newCommand() *cli.Command {
	return &cli.Command{
		Name:    "deepvein",
		Usage:   "dig for ore, sell it in town, retire rich",
		Version: version,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "maps",
				Usage:   "directory holding level maps, instead of the built-in ones",
				Sources: cli.EnvVars("DEEPVEIN_MAPS"),
			},
			&cli.StringFlag{
				Name:    "saves",
				Usage:   "directory for saved games",
				Sources: cli.EnvVars("DEEPVEIN_SAVES"),
			},
			&cli.StringFlag{
				Name:    "db",
				Usage:   "SQLite database for saved games, instead of the saves directory",
				Sources: cli.EnvVars("DEEPVEIN_DB"),
			},
			&cli.Int64Flag{
				Name:    "seed",
				Usage:   "random seed; 0 picks one",
				Sources: cli.EnvVars("DEEPVEIN_SEED"),
			},
			&cli.BoolFlag{
				Name:    "plain",
				Usage:   "line-by-line console instead of the full-screen terminal",
				Sources: cli.EnvVars("DEEPVEIN_PLAIN"),
			},
			&cli.BoolFlag{
				Name:    "telemetry",
				Usage:   "export traces over OTLP HTTP",
				Sources: cli.EnvVars("DEEPVEIN_TELEMETRY"),
			},
			&cli.StringFlag{
				Name:    "log-file",
				Usage:   "write structured logs to this file",
				Sources: cli.EnvVars("DEEPVEIN_LOG_FILE"),
			},
			&cli.BoolFlag{
				Name:    "debug",
				Usage:   "log at debug level",
				Sources: cli.EnvVars("DEEPVEIN_DEBUG"),
			},
		},
		Action: play,
		Commands: []*cli.Command{
			{
				Name:   "saves",
				Usage:  "list saved games",
				Action: listSaves,
				Commands: []*cli.Command{
					{
						Name:      "delete",
						Usage:     "delete a saved game",
						ArgsUsage: "SLOT",
						Action:    deleteSave,
					},
				},
			},
		},
	}
}

// play runs the game.
func play(ctx context.Context, cmd *cli.Command) error {
	logger, closeLog, err := openLogger(cmd.String("log-file"), cmd.Bool("debug"))
	if err != nil {
		return err
	}
	defer closeLog()

	if cmd.Bool("telemetry") {
		setupOTelEnv()
		shutdown, err := telemetry.Setup(ctx, version)
		if err != nil {
			logger.Warn("telemetry setup failed, running without traces", "error", err)
		} else {
			defer func() {
				if err := shutdown(context.Background()); err != nil {
					logger.Warn("telemetry shutdown", "error", err)
				}
			}()
		}
	}

	rules, err := gamedata.LoadRules()
	if err != nil {
		return fmt.Errorf("load rules: %w", err)
	}

	store, err := openStore(cmd)
	if err != nil {
		return err
	}
	defer store.Close()

	cfg := game.Config{
		Seed:   cmd.Int64("seed"),
		Rules:  rules,
		Logger: logger,
	}
	if dir := cmd.String("maps"); dir != "" {
		cfg.Maps = os.DirFS(dir)
	}

	console, closeConsole, err := openConsole(cmd.Bool("plain"), rules)
	if err != nil {
		return err
	}
	defer closeConsole()

	g, err := game.New(ctx, cfg, console, store)
	if err != nil {
		return err
	}
	logger.Info("deepvein starting", "version", version)
	return g.Run(ctx)
}

// listSaves prints the stored save slots.
func listSaves(ctx context.Context, cmd *cli.Command) error {
	store, err := openStore(cmd)
	if err != nil {
		return err
	}
	defer store.Close()

	saves, err := store.List(ctx)
	if err != nil {
		return err
	}
	if len(saves) == 0 {
		fmt.Println("No saved games.")
		return nil
	}
	for _, s := range saves {
		fmt.Printf("%-20s %-16s %s\n", s.Slot, humanize.Time(s.SavedAt), humanize.Bytes(uint64(s.Size)))
	}
	return nil
}

// deleteSave removes one save slot.
func deleteSave(ctx context.Context, cmd *cli.Command) error {
	slot := cmd.Args().First()
	if slot == "" {
		return errors.New("saves delete: missing slot name")
	}

	store, err := openStore(cmd)
	if err != nil {
		return err
	}
	defer store.Close()

	if err := store.Delete(ctx, slot); err != nil {
		return fmt.Errorf("delete %s: %w", slot, err)
	}
	fmt.Printf("Deleted %s.\n", slot)
	return nil
}

// openConsole picks the console. The plain console turns Ctrl+C into an
// interrupt; the terminal console reads it as a key.
func openConsole(plain bool, rules *gamedata.Rules) (ui.Console, func(), error) {
	if plain {
		console := ui.NewStreamConsole(os.Stdin, os.Stdout)
		sigs := make(chan os.Signal, 1)
		signal.Notify(sigs, os.Interrupt)
		go func() {
			for range sigs {
				console.Interrupt()
			}
		}()
		return console, func() { signal.Stop(sigs) }, nil
	}

	screen, err := ui.NewScreen()
	if err != nil {
		return nil, nil, fmt.Errorf("open terminal: %w", err)
	}
	return ui.NewTerminalConsole(screen, rules.Registry().Palette()), screen.Close, nil
}

// openStore opens the SQLite store when --db is set, else the saves directory.
func openStore(cmd *cli.Command) (persistence.Store, error) {
	if path := cmd.String("db"); path != "" {
		store, err := persistence.OpenSQLite(path)
		if err != nil {
			return nil, fmt.Errorf("open save database: %w", err)
		}
		return store, nil
	}

	dir := cmd.String("saves")
	if dir == "" {
		base, err := os.UserConfigDir()
		if err != nil {
			base = "."
		}
		dir = filepath.Join(base, "deepvein", "saves")
	}
	store, err := persistence.NewFileStore(dir)
	if err != nil {
		return nil, fmt.Errorf("open saves directory: %w", err)
	}
	return store, nil
}

// openLogger returns a text logger writing to path, or discarding
// everything when path is empty. The terminal belongs to the game.
func openLogger(path string, debug bool) (*slog.Logger, func(), error) {
	level := slog.LevelInfo
	if debug {
		level = slog.LevelDebug
	}
	if path == "" {
		return slog.New(slog.NewTextHandler(io.Discard, nil)), func() {}, nil
	}

	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, nil, fmt.Errorf("open log file: %w", err)
	}
	logger := slog.New(slog.NewTextHandler(f, &slog.HandlerOptions{Level: level}))
	return logger, func() { f.Close() }, nil
}

// setupOTelEnv maps the Honeycomb settings from .env onto the standard
// OTEL variables, unless those are already set.
func setupOTelEnv() {
	apiKey := os.Getenv("HONEYCOMB_DEEPVEIN_API_KEY")
	if apiKey == "" {
		return
	}
	if os.Getenv("OTEL_EXPORTER_OTLP_ENDPOINT") == "" {
		os.Setenv("OTEL_EXPORTER_OTLP_ENDPOINT", "https://api.honeycomb.io")
	}
	dataset := os.Getenv("HONEYCOMB_DEEPVEIN_DATASET")
	if dataset == "" {
		dataset = "deepvein"
	}
	if os.Getenv("OTEL_EXPORTER_OTLP_HEADERS") == "" {
		os.Setenv("OTEL_EXPORTER_OTLP_HEADERS",
			fmt.Sprintf("x-honeycomb-team=%s,x-honeycomb-dataset=%s", apiKey, dataset))
	}
}

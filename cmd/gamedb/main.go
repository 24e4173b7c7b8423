// Command gamedb builds game-data databases from HCL layouts and moves their
// snapshots through the configured storage driver.
//
//	gamedb inspect  -layout ./layouts
//	gamedb save     -layout ./layouts -database settings -driver sqlite
//	gamedb load     -layout git::https://example.com/layouts.git -codec msgpack
//	gamedb populate -layout ./layouts -database settings
package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gameframework/internal/authoring"
	"gameframework/internal/config"
	"gameframework/internal/core"
)

const (
	cmdInspect  = "inspect"
	cmdSave     = "save"
	cmdLoad     = "load"
	cmdPopulate = "populate"
)

var exitFunc = os.Exit

type options struct {
	command  string
	layout   string
	database string
}

func main() {
	code := cli(os.Args[1:], os.Stdout, os.Stderr)
	exitFunc(code)
}

func usage(w io.Writer) {
	_, _ = fmt.Fprintln(w, "usage: gamedb <inspect|save|load|populate> -layout <path|url> [-database name] [-driver d] [-codec c]")
}

func cli(args []string, stdout, stderr io.Writer) int {
	if len(args) == 0 {
		usage(stderr)
		return 2
	}
	opts := options{command: args[0]}
	switch opts.command {
	case cmdInspect, cmdSave, cmdLoad, cmdPopulate:
	default:
		_, _ = fmt.Fprintf(stderr, "unknown command %q\n", opts.command)
		usage(stderr)
		return 2
	}

	fs := flag.NewFlagSet("gamedb "+opts.command, flag.ContinueOnError)
	fs.SetOutput(stderr)
	var driver, codecName string
	fs.StringVar(&opts.layout, "layout", "", "layout file, directory or go-getter URL")
	fs.StringVar(&opts.database, "database", "", "database to build when the layout declares several")
	fs.StringVar(&driver, "driver", "", "storage driver (overrides GAMEFRAMEWORK_STORAGE_DRIVER)")
	fs.StringVar(&codecName, "codec", "", "snapshot codec (overrides GAMEFRAMEWORK_CODEC)")
	if err := fs.Parse(args[1:]); err != nil {
		return 2
	}
	if opts.layout == "" {
		_, _ = fmt.Fprintln(stderr, "-layout is required")
		usage(stderr)
		return 2
	}

	cfg, err := config.Load()
	if err != nil {
		_, _ = fmt.Fprintf(stderr, "config: %v\n", err)
		return 1
	}
	if driver != "" {
		cfg.StorageDriver = strings.ToLower(strings.TrimSpace(driver))
	}
	if codecName != "" {
		cfg.Codec = strings.ToLower(strings.TrimSpace(codecName))
	}
	if err := cfg.Validate(); err != nil {
		_, _ = fmt.Fprintf(stderr, "%v\n", err)
		return 2
	}

	level, _ := config.ParseLevel(cfg.LogLevel)
	logger := slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: level}))
	ctx := authoring.ContextWithLogger(context.Background(), logger)

	if err := run(ctx, opts, cfg, logger, stdout); err != nil {
		_, _ = fmt.Fprintf(stderr, "gamedb %s: %v\n", opts.command, err)
		return 1
	}
	return 0
}

func run(ctx context.Context, opts options, cfg config.Config, logger *slog.Logger, stdout io.Writer) (err error) {
	layout, err := resolveLayout(ctx, opts)
	if err != nil {
		return err
	}

	dbOpts := []core.Option{core.WithLogger(logger)}
	if opts.command != cmdInspect {
		adapter, err := core.OpenDataAdapter(ctx, cfg, layout.Database)
		if err != nil {
			return fmt.Errorf("open %s adapter: %w", cfg.StorageDriver, err)
		}
		if closer, ok := adapter.(io.Closer); ok {
			defer func() {
				if cerr := closer.Close(); cerr != nil && err == nil {
					err = fmt.Errorf("close adapter: %w", cerr)
				}
			}()
		}
		dbOpts = append(dbOpts, core.WithDataAdapter(adapter))
	}

	db, err := authoring.Build(layout, nil, dbOpts...)
	if err != nil {
		return fmt.Errorf("build %s: %w", layout.Database, err)
	}

	switch opts.command {
	case cmdInspect:
		return writeJSON(stdout, db.SerializableData())
	case cmdSave:
		saved, err := db.Save(ctx)
		if err != nil {
			return err
		}
		return writeJSON(stdout, saved)
	case cmdLoad:
		if err := db.Load(ctx); err != nil {
			return err
		}
		return writeJSON(stdout, db.SerializableData())
	default:
		if err := db.Load(ctx); err != nil {
			return err
		}
		report := db.PopulateDefaults(ctx)
		if _, err := db.Save(ctx); err != nil {
			return err
		}
		return writeJSON(stdout, report)
	}
}

// resolveLayout fetches opts.layout when it is not a local path and picks the
// requested database from it.
func resolveLayout(ctx context.Context, opts options) (authoring.Layout, error) {
	src := opts.layout
	if _, err := os.Stat(src); err != nil {
		tmp, err := os.MkdirTemp("", "gamedb-layout-")
		if err != nil {
			return authoring.Layout{}, fmt.Errorf("temp dir: %w", err)
		}
		defer func() { _ = os.RemoveAll(tmp) }()
		if src, err = authoring.Fetch(ctx, opts.layout, filepath.Join(tmp, "layout")); err != nil {
			return authoring.Layout{}, err
		}
	}
	layouts, err := authoring.LoadLayouts(ctx, src)
	if err != nil {
		return authoring.Layout{}, err
	}
	if opts.database != "" {
		layout, ok := authoring.Find(layouts, opts.database)
		if !ok {
			return authoring.Layout{}, fmt.Errorf("database %q not found in %s", opts.database, opts.layout)
		}
		return layout, nil
	}
	if len(layouts) == 1 {
		return layouts[0], nil
	}
	names := make([]string, len(layouts))
	for i, l := range layouts {
		names[i] = l.Database
	}
	sort.Strings(names)
	return authoring.Layout{}, errors.New("layout declares several databases, pick one with -database: " + strings.Join(names, ", "))
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

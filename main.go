package main

import (
	"context"
	"fmt"
	"html/template"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v3"

	_ "github.com/joho/godotenv/autoload"
)

func main() {
	cfg := &Config{}
	var logCloser func()

	app := &cli.Command{
		Name:  "folio",
		Usage: "Serve a personal portfolio built from JSON and Markdown content",
		Flags: cfg.Flags(),
		Before: func(ctx context.Context, c *cli.Command) (context.Context, error) {
			logger, closer, err := NewLogger(cfg.LogLevel, cfg.LogFile)
			if err != nil {
				return ctx, errors.Wrap(err, "setup logger")
			}
			log.Logger = logger
			logCloser = closer
			return ctx, nil
		},
		After: func(ctx context.Context, c *cli.Command) error {
			if logCloser != nil {
				logCloser()
			}
			return nil
		},
		Action: func(ctx context.Context, c *cli.Command) error {
			return serve(ctx, cfg)
		},
		Commands: []*cli.Command{
			{
				Name:  "serve",
				Usage: "start the web server",
				Action: func(ctx context.Context, c *cli.Command) error {
					return serve(ctx, cfg)
				},
			},
			{
				Name:  "build",
				Usage: "render the page once into an output directory",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:        "output",
						Aliases:     []string{"o"},
						Usage:       "directory to write index.html to",
						Sources:     cli.EnvVars("OUTPUT_DIR"),
						Value:       "public",
						Destination: &cfg.OutputDir,
					},
				},
				Action: func(ctx context.Context, c *cli.Command) error {
					return build(ctx, cfg)
				},
			},
		},
	}

	if err := app.Run(context.Background(), os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// contentSource picks HTTP when a content URL is configured, else the content directory.
func contentSource(cfg *Config) (Source, error) {
	if cfg.ContentURL != "" {
		return NewHTTPSource(cfg.ContentURL, &http.Client{Timeout: 10 * time.Second})
	}
	return DirSource{FS: os.DirFS(cfg.ContentDir)}, nil
}

func serve(ctx context.Context, cfg *Config) error {
	source, err := contentSource(cfg)
	if err != nil {
		return err
	}

	store, err := OpenStore(ctx, cfg.DatabasePath)
	if err != nil {
		return err
	}
	defer store.Close()

	var sink Sink
	if gh := NewGitHubSink(cfg.GitHub, nil); gh != nil {
		sink = gh
	} else {
		log.Warn().Msg("GITHUB_TOKEN not set; submissions are recorded locally only")
	}

	if cfg.usesDefaultAdmin() {
		log.Warn().Msg("using default admin credentials; set ADMIN_USERNAME and ADMIN_PASSWORD")
	}

	app, err := NewApp(cfg, log.Logger, source, store, sink)
	if err != nil {
		return err
	}
	// Clean up old visitor data for privacy compliance (run in background)
	go app.admin.CleanupOldVisitors(context.Background())

	addr := ":" + cfg.Port
	log.Info().Str("addr", addr).Msg("serving portfolio")
	return app.Router().Run(addr)
}

// build renders the page the same way GET / does and writes it to the output directory.
func build(ctx context.Context, cfg *Config) error {
	source, err := contentSource(cfg)
	if err != nil {
		return err
	}

	tmpl, err := template.ParseGlob(filepath.Join(cfg.TemplatesDir, "*.html"))
	if err != nil {
		return errors.Wrap(err, "parse templates")
	}

	page := Bootstrap(ctx, NewLoader(source, log.Logger), NewPageController(log.Logger))

	if err := os.MkdirAll(cfg.OutputDir, 0o755); err != nil {
		return errors.Wrapf(err, "create output directory %s", cfg.OutputDir)
	}
	out := filepath.Join(cfg.OutputDir, "index.html")
	f, err := os.Create(out)
	if err != nil {
		return errors.Wrapf(err, "create %s", out)
	}

	if err := tmpl.ExecuteTemplate(f, "index.html", indexData(page)); err != nil {
		_ = f.Close()
		return errors.Wrap(err, "render index.html")
	}
	if err := f.Close(); err != nil {
		return errors.Wrapf(err, "close %s", out)
	}

	if _, err := os.Stat(cfg.StaticDir); err == nil {
		if err := os.CopyFS(filepath.Join(cfg.OutputDir, "static"), os.DirFS(cfg.StaticDir)); err != nil {
			return errors.Wrap(err, "copy static assets")
		}
	}

	log.Info().Str("file", out).Msg("page built")
	return nil
}

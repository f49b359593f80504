package main

import (
	"github.com/urfave/cli/v3"
)

// Config is every runtime setting. Each field is a flag that can also come from the
// environment (and so from .env, which godotenv loads at startup).
type Config struct {
	Port         string
	ContentDir   string
	ContentURL   string
	TemplatesDir string
	StaticDir    string
	OutputDir    string
	DatabasePath string
	LogLevel     string
	LogFile      string

	AdminUsername string
	AdminPassword string

	GitHub GitHubConfig
}

func (cfg *Config) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "port",
			Usage:       "port to listen on",
			Sources:     cli.EnvVars("PORT"),
			Value:       "8080",
			Destination: &cfg.Port,
		},
		&cli.StringFlag{
			Name:        "content-dir",
			Usage:       "directory holding site.json, projects.json and about.json",
			Sources:     cli.EnvVars("CONTENT_DIR"),
			Value:       "./content",
			Destination: &cfg.ContentDir,
		},
		&cli.StringFlag{
			Name:        "content-url",
			Usage:       "fetch content over HTTP from this base URL instead of content-dir",
			Sources:     cli.EnvVars("CONTENT_URL"),
			Destination: &cfg.ContentURL,
		},
		&cli.StringFlag{
			Name:        "templates-dir",
			Usage:       "directory of HTML templates",
			Sources:     cli.EnvVars("TEMPLATES_DIR"),
			Value:       "./templates",
			Destination: &cfg.TemplatesDir,
		},
		&cli.StringFlag{
			Name:        "static-dir",
			Usage:       "directory of static assets served under /static",
			Sources:     cli.EnvVars("STATIC_DIR"),
			Value:       "./static",
			Destination: &cfg.StaticDir,
		},
		&cli.StringFlag{
			Name:        "database",
			Usage:       "path to the SQLite database",
			Sources:     cli.EnvVars("DATABASE_PATH"),
			Value:       "./folio.db",
			Destination: &cfg.DatabasePath,
		},
		&cli.StringFlag{
			Name:        "log-level",
			Usage:       "log level (debug, info, warn, error, fatal, panic)",
			Sources:     cli.EnvVars("LOG_LEVEL"),
			Value:       "info",
			Destination: &cfg.LogLevel,
		},
		&cli.StringFlag{
			Name:        "log-file",
			Usage:       "write logs to this file instead of stdout",
			Sources:     cli.EnvVars("LOG_FILE"),
			Destination: &cfg.LogFile,
		},
		&cli.StringFlag{
			Name:        "admin-username",
			Sources:     cli.EnvVars("ADMIN_USERNAME"),
			Value:       "admin",
			Destination: &cfg.AdminUsername,
		},
		&cli.StringFlag{
			Name:        "admin-password",
			Sources:     cli.EnvVars("ADMIN_PASSWORD"),
			Value:       "admin123",
			Destination: &cfg.AdminPassword,
		},
		&cli.StringFlag{
			Name:        "github-token",
			Usage:       "token used to commit submissions; saving is skipped when empty",
			Sources:     cli.EnvVars("GITHUB_TOKEN"),
			Destination: &cfg.GitHub.Token,
		},
		&cli.StringFlag{
			Name:        "github-owner",
			Sources:     cli.EnvVars("GITHUB_REPO_OWNER"),
			Value:       "Zachkp",
			Destination: &cfg.GitHub.Owner,
		},
		&cli.StringFlag{
			Name:        "github-repo",
			Sources:     cli.EnvVars("GITHUB_REPO_NAME"),
			Value:       "folio-content",
			Destination: &cfg.GitHub.Repo,
		},
		&cli.StringFlag{
			Name:        "github-branch",
			Sources:     cli.EnvVars("GITHUB_REPO_BRANCH"),
			Value:       "main",
			Destination: &cfg.GitHub.Branch,
		},
	}
}

// usesDefaultAdmin reports whether the admin credentials were left at their dev defaults.
func (cfg *Config) usesDefaultAdmin() bool {
	return cfg.AdminUsername == "admin" || cfg.AdminPassword == "admin123"
}

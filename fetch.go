package main

import (
	"context"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/rs/zerolog"
)

const (
	SettingsFile = "site.json"
	ProjectsFile = "projects.json"
	AboutFile    = "about.json"
	LegacyAbout  = "about.md"
)

var LegacyProjectFiles = []string{
	"projects/project1.md",
	"projects/project2.md",
	"projects/project3.md",
}

// Loader fetches the three content resources. Every method keeps its own failures:
// they are logged and replaced by defaults, never returned.
type Loader struct {
	source Source
	log    zerolog.Logger
}

func NewLoader(source Source, logger zerolog.Logger) *Loader {
	return &Loader{
		source: source,
		log:    logger.With().Str("component", "loader").Logger(),
	}
}

// LoadProjects returns the project categories, the legacy Markdown projects when
// projects.json is unavailable, or DefaultCategories when neither yields a project.
func (l *Loader) LoadProjects(ctx context.Context) []ProjectCategory {
	var categories []ProjectCategory

	raw, err := l.source.Fetch(ctx, ProjectsFile)
	switch {
	case err == nil:
		categories = NormalizeProjects(raw)
		if categories == nil {
			l.log.Warn().Str("file", ProjectsFile).Msg("unrecognized projects layout, using defaults")
		}
	case errors.Is(err, ErrNotFound):
		categories = l.loadLegacyProjects(ctx)
	default:
		l.log.Warn().Err(err).Str("file", ProjectsFile).Msg("failed to load projects")
	}

	if !hasProjects(categories) {
		return DefaultCategories()
	}
	return categories
}

func (l *Loader) loadLegacyProjects(ctx context.Context) []ProjectCategory {
	var projects []Project
	for _, file := range LegacyProjectFiles {
		raw, err := l.source.Fetch(ctx, file)
		if err != nil {
			l.log.Debug().Err(err).Str("file", file).Msg("skipping project file")
			continue
		}
		projects = append(projects, projectFromDocument(ParseDocument(string(raw))))
	}

	if len(projects) == 0 {
		return nil
	}
	return []ProjectCategory{{Title: DefaultCategoryTitle, Projects: projects}}
}

func projectFromDocument(doc Document) Project {
	fm := doc.Frontmatter

	description := strings.TrimSpace(doc.Body)
	if description == "" {
		description = fm["description"]
	}

	return Project{
		Title:       fm["title"],
		Description: description,
		Image:       fm["image"],
		Link:        fm["link"],
		Featured:    flexBool(fm["featured"] == "true"),
	}
}

// LoadAbout returns the about section; ok is false when nothing could be loaded.
func (l *Loader) LoadAbout(ctx context.Context) (AboutInfo, bool) {
	raw, err := l.source.Fetch(ctx, AboutFile)
	if errors.Is(err, ErrNotFound) {
		return l.loadLegacyAbout(ctx)
	}
	if err != nil {
		l.log.Warn().Err(err).Str("file", AboutFile).Msg("failed to load about")
		return AboutInfo{}, false
	}

	var about AboutInfo
	skipped, err := decodeObject(raw, about.fields())
	if err != nil {
		l.log.Warn().Err(err).Str("file", AboutFile).Msg("malformed about content")
		return AboutInfo{}, false
	}
	if len(skipped) > 0 {
		l.log.Warn().Strs("fields", skipped).Str("file", AboutFile).Msg("skipping fields of the wrong type")
	}
	return about, true
}

func (l *Loader) loadLegacyAbout(ctx context.Context) (AboutInfo, bool) {
	raw, err := l.source.Fetch(ctx, LegacyAbout)
	if err != nil {
		l.log.Warn().Err(err).Str("file", LegacyAbout).Msg("no about content")
		return AboutInfo{}, false
	}

	doc := ParseDocument(string(raw))
	about := AboutInfo{
		Heading: doc.Frontmatter["heading"],
		Body:    doc.Body,
		Image:   doc.Frontmatter["image"],
	}
	if skills := doc.Frontmatter["skills"]; skills != "" {
		about.WebSkills = strings.Split(skills, ",")
	}
	return about, true
}

// LoadSettings returns site.json; ok is false when it is missing or not an object.
// Fields of the wrong type are left empty.
func (l *Loader) LoadSettings(ctx context.Context) (SiteSettings, bool) {
	raw, err := l.source.Fetch(ctx, SettingsFile)
	if err != nil {
		l.log.Warn().Err(err).Str("file", SettingsFile).Msg("failed to load site settings")
		return SiteSettings{}, false
	}

	var settings SiteSettings
	skipped, err := decodeObject(raw, settings.fields())
	if err != nil {
		l.log.Warn().Err(err).Str("file", SettingsFile).Msg("malformed site settings")
		return SiteSettings{}, false
	}
	if len(skipped) > 0 {
		l.log.Warn().Strs("fields", skipped).Str("file", SettingsFile).Msg("skipping fields of the wrong type")
	}
	return settings, true
}

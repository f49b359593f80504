package main

import (
	"bytes"
	"html/template"
	"strings"

	"github.com/rs/zerolog"
)

// Page holds every region of the portfolio page. Each Render method writes only its
// own fields, so the three renders can run at the same time.
type Page struct {
	// settings
	LogoText        string
	HeroName        string
	HeroSubtitle    string
	HeroDescription string
	HeroCTAText     string
	HeroCTALink     string
	HeroBackground  string
	SocialGitHub    string
	SocialLinkedIn  string
	SocialTwitter   string
	SocialEmail     *SocialLink
	FooterName      string
	FooterYear      string

	// projects
	Projects template.HTML

	// about
	AboutHeading   string
	AboutBody      string
	AboutImage     string
	WebSkills      template.HTML
	BusinessSkills template.HTML
	ToolsSkills    template.HTML

	Submitted bool
}

// SocialLink is the rendered "email" social entry: a mailto link or a download.
type SocialLink struct {
	Href     string
	Label    string
	Download bool
}

const fragmentTemplates = `
{{- define "projects" -}}
{{- if not .Categories -}}
<p class="projects-empty">{{.Empty}}</p>
{{- else -}}
{{- range .Categories}}
<section class="project-category">
  {{- if .Title}}
  <h3 class="category-title">{{.Title}}</h3>
  {{- end}}
  <div class="projects-grid">
  {{- range .Cards}}
    <div class="project-card fade-in{{if .Featured}} featured{{end}}">
      <img src="{{.Image}}" alt="{{.Title}}" class="project-image">
      <div class="project-content">
        <h4 class="project-title">{{.Title}}</h4>
        {{- if .Description}}
        <p class="project-description">{{.Description}}</p>
        {{- end}}
        {{- if .Disabled}}
        <a class="project-link disabled" aria-disabled="true" tabindex="-1">View Project &rarr;</a>
        {{- else}}
        <a href="{{.Link}}" target="_blank" rel="noopener" class="project-link">View Project &rarr;</a>
        {{- end}}
      </div>
    </div>
  {{- end}}
  </div>
</section>
{{- end}}
{{- end -}}
{{- end -}}

{{- define "skills" -}}
{{- range .}}<li>{{.}}</li>{{end -}}
{{- end -}}
`

type projectsView struct {
	Empty      string
	Categories []categoryView
}

type categoryView struct {
	Title string
	Cards []cardView
}

type cardView struct {
	Title       string
	Description string
	Image       string
	Link        string
	Disabled    bool
	Featured    bool
}

// PageController renders loaded content into a Page. Build one at startup and share it.
type PageController struct {
	fragments *template.Template
	log       zerolog.Logger
}

func NewPageController(logger zerolog.Logger) *PageController {
	return &PageController{
		fragments: template.Must(template.New("fragments").Parse(fragmentTemplates)),
		log:       logger.With().Str("component", "renderer").Logger(),
	}
}

// RenderProjects writes one section per non-empty category, or the empty-state
// placeholder when there is no project at all.
func (c *PageController) RenderProjects(page *Page, categories []ProjectCategory) {
	view := projectsView{Empty: EmptyProjectsMessage}

	for _, cat := range categories {
		if len(cat.Projects) == 0 {
			continue
		}
		cv := categoryView{Title: strings.TrimSpace(cat.Title)}
		for _, p := range cat.Projects {
			cv.Cards = append(cv.Cards, newCardView(p))
		}
		view.Categories = append(view.Categories, cv)
	}

	if html, ok := c.execute("projects", view); ok {
		page.Projects = html
	}
}

func newCardView(p Project) cardView {
	card := cardView{
		Title:       strings.TrimSpace(p.Title),
		Description: strings.TrimSpace(p.Description),
		Image:       strings.TrimSpace(p.Image),
		Link:        strings.TrimSpace(p.Link),
		Featured:    bool(p.Featured),
	}
	if card.Title == "" {
		card.Title = UntitledProject
	}
	if card.Image == "" {
		card.Image = FallbackProjectImage
	}
	if card.Link == "" {
		card.Link = PlaceholderLink
	}
	card.Disabled = card.Link == PlaceholderLink
	return card
}

// RenderAbout fills the about region. Empty fields keep whatever the page already shows.
func (c *PageController) RenderAbout(page *Page, about AboutInfo) {
	if h := strings.TrimSpace(about.Heading); h != "" {
		page.AboutHeading = h
	}
	if body := strings.TrimSpace(about.Body); body != "" {
		page.AboutBody = body
	}
	if img := strings.TrimSpace(about.Image); img != "" {
		page.AboutImage = img
	}

	if html, ok := c.renderSkills(about.WebSkills); ok {
		page.WebSkills = html
	}
	if html, ok := c.renderSkills(about.BusinessSkills); ok {
		page.BusinessSkills = html
	}
	if html, ok := c.renderSkills(about.ToolsSkills); ok {
		page.ToolsSkills = html
	}
}

func (c *PageController) renderSkills(skills []string) (template.HTML, bool) {
	cleaned := cleanSkills(skills)
	if len(cleaned) == 0 {
		return "", false
	}
	return c.execute("skills", cleaned)
}

func cleanSkills(skills []string) []string {
	var out []string
	for _, s := range skills {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}

// RenderSettings fills the logo, hero, social, and footer regions.
func (c *PageController) RenderSettings(page *Page, s SiteSettings) {
	setText(&page.LogoText, s.LogoText)
	setText(&page.HeroName, s.HeroName)
	setText(&page.HeroSubtitle, s.HeroSubtitle)
	setText(&page.HeroDescription, s.HeroDescription)
	setText(&page.HeroCTAText, s.HeroCTAText)
	setText(&page.HeroCTALink, s.HeroCTALink)
	setText(&page.HeroBackground, s.HeroBackgroundImage)
	setText(&page.FooterName, s.FooterName)
	setText(&page.FooterYear, string(s.FooterYear))

	setText(&page.SocialGitHub, s.Social["github"])
	setText(&page.SocialLinkedIn, s.Social["linkedin"])
	setText(&page.SocialTwitter, s.Social["twitter"])
	if link, ok := EmailLink(s.Social["email"], s.CVLabel); ok {
		page.SocialEmail = &link
	}
}

func setText(dst *string, value string) {
	if v := strings.TrimSpace(value); v != "" {
		*dst = v
	}
}

// EmailLink interprets the "email" social field. An address (bare or mailto:) becomes a
// mailto link labeled "Email"; anything else is treated as a downloadable resource.
func EmailLink(value, cvLabel string) (SocialLink, bool) {
	v := strings.TrimSpace(value)
	if v == "" {
		return SocialLink{}, false
	}

	lower := strings.ToLower(v)
	switch {
	case strings.HasPrefix(lower, "mailto:"):
		addr := strings.TrimSpace(v[len("mailto:"):])
		if addr == "" {
			return SocialLink{}, false
		}
		return SocialLink{Href: "mailto:" + addr, Label: "Email"}, true
	case strings.HasPrefix(lower, "http://"), strings.HasPrefix(lower, "https://"):
	case strings.Contains(v, "@") && !strings.Contains(v, "/"):
		return SocialLink{Href: "mailto:" + v, Label: "Email"}, true
	}

	label := strings.TrimSpace(cvLabel)
	if label == "" {
		label = DefaultCVLabel
	}
	return SocialLink{Href: v, Label: label, Download: true}, true
}

func (c *PageController) execute(name string, data any) (template.HTML, bool) {
	var buf bytes.Buffer
	if err := c.fragments.ExecuteTemplate(&buf, name, data); err != nil {
		c.log.Error().Err(err).Str("fragment", name).Msg("failed to render fragment")
		return "", false
	}
	return template.HTML(buf.String()), true
}

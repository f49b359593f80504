package main

import (
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func renderProjects(t *testing.T, categories []ProjectCategory) string {
	t.Helper()
	page := &Page{}
	NewPageController(zerolog.Nop()).RenderProjects(page, categories)
	require.NotEmpty(t, page.Projects)
	return string(page.Projects)
}

func TestRenderProjects_EmptyState(t *testing.T) {
	tests := []struct {
		name       string
		categories []ProjectCategory
	}{
		{name: "nil", categories: nil},
		{name: "no categories", categories: []ProjectCategory{}},
		{name: "all categories empty", categories: []ProjectCategory{
			{Title: "Go"},
			{Title: "Web", Projects: []Project{}},
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			html := renderProjects(t, tt.categories)
			assert.Contains(t, html, EmptyProjectsMessage)
			assert.NotContains(t, html, "project-card")
			assert.NotContains(t, html, "project-category")
		})
	}
}

func TestRenderProjects_CardsInOrder(t *testing.T) {
	html := renderProjects(t, []ProjectCategory{
		{Title: "Skipped", Projects: nil},
		{Title: "Go", Projects: []Project{{Title: "First"}, {Title: "Second"}}},
		{Title: "Web", Projects: []Project{{Title: "Third"}}},
	})

	assert.NotContains(t, html, EmptyProjectsMessage)
	assert.NotContains(t, html, "Skipped")
	assert.Equal(t, 2, strings.Count(html, `class="project-category"`))
	assert.Equal(t, 3, strings.Count(html, "project-card fade-in"))

	first := strings.Index(html, "First")
	second := strings.Index(html, "Second")
	third := strings.Index(html, "Third")
	assert.True(t, first < second && second < third, "cards out of order")
}

func TestRenderProjects_Fallbacks(t *testing.T) {
	html := renderProjects(t, []ProjectCategory{{Projects: []Project{{}}}})

	assert.Contains(t, html, UntitledProject)
	assert.Contains(t, html, "images.unsplash.com/photo-1517694712202-14dd9538aa97")
	assert.Contains(t, html, `aria-disabled="true"`)
	assert.NotContains(t, html, "project-description")
}

func TestRenderProjects_Description(t *testing.T) {
	t.Run("blank description omitted", func(t *testing.T) {
		html := renderProjects(t, []ProjectCategory{{Projects: []Project{{Title: "A", Description: "  \n\t "}}}})
		assert.NotContains(t, html, "project-description")
	})

	t.Run("description trimmed", func(t *testing.T) {
		html := renderProjects(t, []ProjectCategory{{Projects: []Project{{Title: "A", Description: "  Does things.  "}}}})
		assert.Contains(t, html, `<p class="project-description">Does things.</p>`)
	})
}

func TestRenderProjects_Link(t *testing.T) {
	tests := []struct {
		name         string
		link         string
		wantDisabled bool
	}{
		{name: "placeholder", link: "#", wantDisabled: true},
		{name: "blank", link: "", wantDisabled: true},
		{name: "real link", link: "https://example.com/app", wantDisabled: false},
		{name: "relative link", link: "/demo", wantDisabled: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			html := renderProjects(t, []ProjectCategory{{Projects: []Project{{Title: "A", Link: tt.link}}}})
			if tt.wantDisabled {
				assert.Contains(t, html, `class="project-link disabled" aria-disabled="true"`)
				assert.NotContains(t, html, "href=")
				return
			}
			assert.NotContains(t, html, "aria-disabled")
			assert.Contains(t, html, `href="`+tt.link+`"`)
		})
	}
}

func TestRenderProjects_EscapesContent(t *testing.T) {
	html := renderProjects(t, []ProjectCategory{{Projects: []Project{{Title: "<script>alert(1)</script>"}}}})
	assert.NotContains(t, html, "<script>")
	assert.Contains(t, html, "&lt;script&gt;")
}

func TestRenderProjects_Featured(t *testing.T) {
	html := renderProjects(t, []ProjectCategory{{Projects: []Project{{Title: "A", Featured: true}, {Title: "B"}}}})
	assert.Equal(t, 1, strings.Count(html, "project-card fade-in featured"))
}

func TestRenderAbout(t *testing.T) {
	c := NewPageController(zerolog.Nop())

	t.Run("populates fields and filters blank skills", func(t *testing.T) {
		page := DefaultPage()
		c.RenderAbout(page, AboutInfo{
			Heading:        "Hello",
			Body:           "  About text  ",
			WebSkills:      []string{" Go ", "", "   ", "HTMX"},
			BusinessSkills: []string{"Planning"},
			Image:          "/me.jpg",
		})

		assert.Equal(t, "Hello", page.AboutHeading)
		assert.Equal(t, "About text", page.AboutBody)
		assert.Equal(t, "/me.jpg", page.AboutImage)
		assert.Equal(t, "<li>Go</li><li>HTMX</li>", string(page.WebSkills))
		assert.Equal(t, "<li>Planning</li>", string(page.BusinessSkills))
		assert.Empty(t, page.ToolsSkills)
	})

	t.Run("empty fields keep defaults", func(t *testing.T) {
		page := DefaultPage()
		c.RenderAbout(page, AboutInfo{ToolsSkills: []string{"", " "}})

		assert.Equal(t, DefaultPage().AboutHeading, page.AboutHeading)
		assert.Equal(t, DefaultPage().AboutBody, page.AboutBody)
		assert.Empty(t, page.ToolsSkills)
	})
}

func TestRenderSettings(t *testing.T) {
	c := NewPageController(zerolog.Nop())
	page := DefaultPage()

	c.RenderSettings(page, SiteSettings{
		LogoText:   "ZK",
		HeroName:   "Zach",
		FooterYear: "2025",
		Social: map[string]string{
			"github": "https://github.com/z",
			"email":  "jane@example.com",
		},
	})

	assert.Equal(t, "ZK", page.LogoText)
	assert.Equal(t, "Zach", page.HeroName)
	assert.Equal(t, "2025", page.FooterYear)
	assert.Equal(t, DefaultPage().HeroSubtitle, page.HeroSubtitle)
	assert.Equal(t, "https://github.com/z", page.SocialGitHub)
	assert.Empty(t, page.SocialTwitter)
	require.NotNil(t, page.SocialEmail)
	assert.Equal(t, SocialLink{Href: "mailto:jane@example.com", Label: "Email"}, *page.SocialEmail)
}

func TestEmailLink(t *testing.T) {
	tests := []struct {
		name    string
		value   string
		cvLabel string
		want    SocialLink
		wantOK  bool
	}{
		{
			name:   "bare address",
			value:  "jane@example.com",
			want:   SocialLink{Href: "mailto:jane@example.com", Label: "Email"},
			wantOK: true,
		},
		{
			name:   "mailto address",
			value:  "mailto:jane@example.com",
			want:   SocialLink{Href: "mailto:jane@example.com", Label: "Email"},
			wantOK: true,
		},
		{
			name:   "download url",
			value:  "https://files.example.com/cv.pdf",
			want:   SocialLink{Href: "https://files.example.com/cv.pdf", Label: "Download CV", Download: true},
			wantOK: true,
		},
		{
			name:    "download url with label override",
			value:   "https://files.example.com/cv.pdf",
			cvLabel: "Résumé",
			want:    SocialLink{Href: "https://files.example.com/cv.pdf", Label: "Résumé", Download: true},
			wantOK:  true,
		},
		{
			name:   "relative file",
			value:  "/static/cv.pdf",
			want:   SocialLink{Href: "/static/cv.pdf", Label: DefaultCVLabel, Download: true},
			wantOK: true,
		},
		{
			name:   "url containing an at sign",
			value:  "https://example.com/@jane/cv.pdf",
			want:   SocialLink{Href: "https://example.com/@jane/cv.pdf", Label: DefaultCVLabel, Download: true},
			wantOK: true,
		},
		{name: "blank", value: "   ", wantOK: false},
		{name: "mailto without an address", value: "mailto:", wantOK: false},
		{name: "mailto with only spaces", value: " MAILTO:  ", wantOK: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := EmailLink(tt.value, tt.cvLabel)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

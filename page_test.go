package main

import (
	"context"
	"strings"
	"sync"
	"testing"
	"testing/fstest"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
)

// barrierSource holds each primary fetch until all three have started, so it only
// completes when the fetchers run concurrently.
type barrierSource struct {
	inner   Source
	arrived sync.WaitGroup
	release chan struct{}
	once    sync.Once

	mu       sync.Mutex
	timedOut bool
}

func newBarrierSource(inner Source) *barrierSource {
	b := &barrierSource{inner: inner, release: make(chan struct{})}
	b.arrived.Add(3)
	go func() {
		b.arrived.Wait()
		close(b.release)
	}()
	return b
}

func (b *barrierSource) Fetch(ctx context.Context, name string) ([]byte, error) {
	switch name {
	case SettingsFile, ProjectsFile, AboutFile:
		b.arrived.Done()
		select {
		case <-b.release:
		case <-time.After(2 * time.Second):
			b.mu.Lock()
			b.timedOut = true
			b.mu.Unlock()
		}
	}
	return b.inner.Fetch(ctx, name)
}

func testContent() fstest.MapFS {
	return fstest.MapFS{
		SettingsFile: &fstest.MapFile{Data: []byte(`{"hero_name":"Zach","social":{"email":"https://files.example.com/cv.pdf"},"cv_label":"My CV"}`)},
		ProjectsFile: &fstest.MapFile{Data: []byte(`[{"title":"Go","projects":[{"title":"Terminal Mail","link":"https://mail.dev"}]}]`)},
		AboutFile:    &fstest.MapFile{Data: []byte(`{"heading":"About Zach","web_skills":["Go"]}`)},
	}
}

func TestBootstrap_RendersAllRegions(t *testing.T) {
	page := Bootstrap(context.Background(), NewLoader(DirSource{FS: testContent()}, zerolog.Nop()), NewPageController(zerolog.Nop()))

	assert.Equal(t, "Zach", page.HeroName)
	assert.Equal(t, "About Zach", page.AboutHeading)
	assert.Equal(t, "<li>Go</li>", string(page.WebSkills))
	assert.Contains(t, string(page.Projects), "Terminal Mail")
	if assert.NotNil(t, page.SocialEmail) {
		assert.Equal(t, "My CV", page.SocialEmail.Label)
		assert.True(t, page.SocialEmail.Download)
	}
	assert.False(t, page.Submitted)
}

func TestBootstrap_FetchesConcurrently(t *testing.T) {
	source := newBarrierSource(DirSource{FS: testContent()})

	page := Bootstrap(context.Background(), NewLoader(source, zerolog.Nop()), NewPageController(zerolog.Nop()))

	source.mu.Lock()
	defer source.mu.Unlock()
	assert.False(t, source.timedOut, "fetchers did not run concurrently")
	assert.Equal(t, "Zach", page.HeroName)
}

func TestBootstrap_FailuresAreIndependent(t *testing.T) {
	content := testContent()
	content[SettingsFile] = &fstest.MapFile{Data: []byte(`not json`)}
	delete(content, AboutFile)

	page := Bootstrap(context.Background(), NewLoader(DirSource{FS: content}, zerolog.Nop()), NewPageController(zerolog.Nop()))

	defaults := DefaultPage()
	assert.Equal(t, defaults.HeroName, page.HeroName)
	assert.Equal(t, defaults.AboutHeading, page.AboutHeading)
	assert.Nil(t, page.SocialEmail)
	assert.Contains(t, string(page.Projects), "Terminal Mail")
}

func TestBootstrap_NoContentUsesDefaults(t *testing.T) {
	page := Bootstrap(context.Background(), NewLoader(DirSource{FS: fstest.MapFS{}}, zerolog.Nop()), NewPageController(zerolog.Nop()))

	html := string(page.Projects)
	for _, cat := range DefaultCategories() {
		for _, p := range cat.Projects {
			assert.True(t, strings.Contains(html, p.Title), "missing default project %q", p.Title)
		}
	}
	assert.Equal(t, DefaultPage().HeroName, page.HeroName)
}

func TestBootstrap_KeepsValidFieldsNextToBadOnes(t *testing.T) {
	content := fstest.MapFS{
		SettingsFile: &fstest.MapFile{Data: []byte(`{"hero_name":"Jane","footer_year":true,"social":{"github":"https://g"}}`)},
		AboutFile:    &fstest.MapFile{Data: []byte(`{"heading":"About Jane","web_skills":"Go, SQL","tools_skills":["Git"]}`)},
	}

	page := Bootstrap(context.Background(), NewLoader(DirSource{FS: content}, zerolog.Nop()), NewPageController(zerolog.Nop()))

	defaults := DefaultPage()
	assert.Equal(t, "Jane", page.HeroName)
	assert.Equal(t, "https://g", page.SocialGitHub)
	assert.Equal(t, defaults.FooterYear, page.FooterYear)
	assert.Equal(t, "About Jane", page.AboutHeading)
	assert.Equal(t, "<li>Git</li>", string(page.ToolsSkills))
}

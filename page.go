package main

import (
	"context"

	"golang.org/x/sync/errgroup"
)

// Bootstrap loads the three content resources concurrently and renders each into its
// own region of a fresh page as soon as it resolves. It always returns a page: a
// resource that fails to load leaves its region at the layout defaults.
func Bootstrap(ctx context.Context, loader *Loader, pages *PageController) *Page {
	page := DefaultPage()

	var g errgroup.Group
	g.Go(func() error {
		pages.RenderProjects(page, loader.LoadProjects(ctx))
		return nil
	})
	g.Go(func() error {
		if about, ok := loader.LoadAbout(ctx); ok {
			pages.RenderAbout(page, about)
		}
		return nil
	})
	g.Go(func() error {
		if settings, ok := loader.LoadSettings(ctx); ok {
			pages.RenderSettings(page, settings)
		}
		return nil
	})
	_ = g.Wait()

	return page
}

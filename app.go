package main

import (
	"context"
	"net/http"
	"path/filepath"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// App wires the content pipeline, the submission sinks, and the admin area together.
type App struct {
	cfg    *Config
	log    zerolog.Logger
	loader *Loader
	pages  *PageController
	store  *Store
	github Sink // nil when no token is configured
	admin  *Admin
	now    func() time.Time
}

func NewApp(cfg *Config, logger zerolog.Logger, source Source, store *Store, github Sink) (*App, error) {
	app := &App{
		cfg:    cfg,
		log:    logger,
		loader: NewLoader(source, logger),
		pages:  NewPageController(logger),
		store:  store,
		github: github,
		now:    time.Now,
	}

	if store != nil {
		admin, err := NewAdmin(cfg.AdminUsername, cfg.AdminPassword, store, logger)
		if err != nil {
			return nil, err
		}
		app.admin = admin
	}
	return app, nil
}

func (a *App) Router() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), requestLogger(a.log))
	r.HandleMethodNotAllowed = true
	r.NoMethod(func(c *gin.Context) {
		c.JSON(http.StatusMethodNotAllowed, gin.H{"message": "Method not allowed"})
	})

	r.LoadHTMLGlob(filepath.Join(a.cfg.TemplatesDir, "*.html"))
	r.Static("/static", a.cfg.StaticDir)

	if a.admin != nil {
		r.Use(a.admin.visitorTrackingMiddleware())
	}

	// Home page route
	r.GET("/", func(c *gin.Context) {
		page := Bootstrap(c.Request.Context(), a.loader, a.pages)
		page.Submitted = c.Query("submitted") == "true"
		c.HTML(http.StatusOK, "index.html", indexData(page))
	})

	// Contact form posted from the page (plain form or HTMX)
	r.POST("/contact", a.handleContactForm)

	r.POST("/api/save-submission", a.handleSaveSubmission)
	r.POST("/api/submission-created", a.handleSubmissionCreated)

	if a.admin != nil {
		a.admin.setupRoutes(r)
	}

	return r
}

func indexData(page *Page) gin.H {
	return gin.H{
		"page":             page,
		"submittedMessage": SubmittedMessage,
	}
}

// persist records sub locally and commits it to the content repository when a
// GitHub sink is configured. saved reports whether the commit happened.
func (a *App) persist(ctx context.Context, sub Submission) (saved bool, err error) {
	var id int64
	if a.store != nil {
		if id, err = a.store.SaveSubmission(ctx, sub); err != nil {
			a.log.Error().Err(err).Msg("failed to record submission locally")
		}
	}

	if a.github == nil {
		a.log.Info().Str("file", sub.Filename()).Msg("GITHUB_TOKEN not configured, submission not committed")
		return false, nil
	}

	if err := a.github.Save(ctx, sub); err != nil {
		return false, err
	}

	if a.store != nil && id != 0 {
		if err := a.store.MarkCommitted(ctx, id); err != nil {
			a.log.Warn().Err(err).Int64("id", id).Msg("failed to mark submission committed")
		}
	}
	a.log.Info().Str("file", sub.Filename()).Msg("submission committed")
	return true, nil
}

func (a *App) handleSaveSubmission(c *gin.Context) {
	var req struct {
		Name    string `json:"name"`
		Email   string `json:"email"`
		Message string `json:"message"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid submission", "error": err.Error()})
		return
	}

	sub := Submission{
		Name:       req.Name,
		Email:      req.Email,
		Message:    req.Message,
		Form:       "contact",
		ReceivedAt: a.now(),
	}

	saved, err := a.persist(c.Request.Context(), sub)
	if err != nil {
		a.log.Error().Err(err).Msg("error saving submission")
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Error saving submission", "error": err.Error()})
		return
	}
	if !saved {
		c.JSON(http.StatusOK, gin.H{"message": "Form received. Configure GITHUB_TOKEN to auto-save to CMS.", "saved": false})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Submission saved to CMS successfully", "saved": true})
}

func (a *App) handleSubmissionCreated(c *gin.Context) {
	body, err := c.GetRawData()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Failed to read submission"})
		return
	}

	sub, err := FromWebhook(body, a.now())
	if err != nil {
		a.log.Warn().Err(err).Msg("invalid submission webhook")
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid submission payload"})
		return
	}

	saved, err := a.persist(c.Request.Context(), sub)
	if err != nil {
		a.log.Error().Err(err).Msg("submission-created error")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save submission"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"saved": saved})
}

func (a *App) handleContactForm(c *gin.Context) {
	if err := c.Request.ParseForm(); err != nil {
		c.HTML(http.StatusBadRequest, "contact-error.html", gin.H{
			"error": "Sorry, we could not read your message.",
		})
		return
	}
	values := make(map[string]string, len(c.Request.PostForm))
	for k := range c.Request.PostForm {
		values[k] = c.Request.PostForm.Get(k)
	}

	sub := FromForm(values, a.now())
	_, err := a.persist(c.Request.Context(), sub)

	htmx := c.GetHeader("HX-Request") == "true"
	switch {
	case err != nil:
		a.log.Error().Err(err).Msg("error saving contact form")
		c.HTML(http.StatusInternalServerError, "contact-error.html", gin.H{
			"error": "Sorry, there was an error sending your message. Please try again later.",
		})
	case htmx:
		c.HTML(http.StatusOK, "contact-success.html", gin.H{"success": SubmittedMessage})
	default:
		c.Redirect(http.StatusSeeOther, "/?submitted=true#contact")
	}
}

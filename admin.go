// admin.go - privacy-conscious admin area for visitors and contact submissions
package main

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"html/template"
	"net/http"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// visitor rows older than this are removed
const visitorRetention = 12 * 30 * 24 * time.Hour

type Admin struct {
	token       string
	hashingSalt string
	username    string
	password    string
	store       *Store
	log         zerolog.Logger
	now         func() time.Time
}

// NewAdmin creates the admin area with a fresh session token and IP hashing salt.
func NewAdmin(username, password string, store *Store, logger zerolog.Logger) (*Admin, error) {
	token, err := generateAdminToken()
	if err != nil {
		return nil, err
	}
	salt, err := generateAdminToken() // Use for IP hashing
	if err != nil {
		return nil, err
	}

	a := &Admin{
		token:       token,
		hashingSalt: salt,
		username:    username,
		password:    password,
		store:       store,
		log:         logger.With().Str("component", "admin").Logger(),
		now:         time.Now,
	}

	a.log.Info().Msg("admin access available at /admin/login")
	if gin.Mode() == gin.DebugMode {
		a.log.Debug().Str("token", token).Msg("admin token (dev only)")
	}
	return a, nil
}

func generateAdminToken() (string, error) {
	bytes := make([]byte, 32)
	if _, err := rand.Read(bytes); err != nil {
		return "", errors.Wrap(err, "generate admin token")
	}
	return hex.EncodeToString(bytes), nil
}

// Hash IP address for privacy compliance (consistent per IP)
func (a *Admin) hashIP(ip string) string {
	hash := sha256.New()
	hash.Write([]byte(ip + a.hashingSalt))
	return hex.EncodeToString(hash.Sum(nil))[:16]
}

func (a *Admin) authMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		token, err := c.Cookie("admin_token")
		if err != nil || subtle.ConstantTimeCompare([]byte(token), []byte(a.token)) != 1 {
			c.Redirect(http.StatusFound, "/admin/login")
			c.Abort()
			return
		}
		c.Next()
	}
}

// shouldTrack skips static assets, admin pages, and visitors sending Do Not Track.
func shouldTrack(path, dnt string) bool {
	for _, prefix := range []string{"/static/", "/images/", "/admin/", "/api/", "/favicon", "/privacy"} {
		if strings.HasPrefix(path, prefix) {
			return false
		}
	}
	return dnt != "1"
}

func (a *Admin) visitorTrackingMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		path := c.Request.URL.Path
		if c.Request.Method != http.MethodGet || !shouldTrack(path, c.GetHeader("DNT")) {
			c.Next()
			return
		}

		hashed := a.hashIP(c.ClientIP())
		userAgent := c.GetHeader("User-Agent")
		at := a.now()
		go func() {
			if err := a.store.RecordVisit(context.Background(), hashed, userAgent, path, at); err != nil {
				a.log.Error().Err(err).Msg("error recording visitor")
			}
		}()
		c.Next()
	}
}

// CleanupOldVisitors removes visitor data past the retention window.
func (a *Admin) CleanupOldVisitors(ctx context.Context) {
	removed, err := a.store.CleanupVisitors(ctx, a.now().Add(-visitorRetention))
	if err != nil {
		a.log.Error().Err(err).Msg("error cleaning up old visitor data")
		return
	}
	if removed > 0 {
		a.log.Info().Int64("removed", removed).Msg("privacy cleanup removed old visitor records")
	}
}

// submissionView is one submission prepared for the detail page.
type submissionView struct {
	StoredSubmission
	Header  []Field
	Message template.HTML
}

func (a *Admin) submissionView(sub StoredSubmission) (submissionView, error) {
	// Show the header exactly as it reads back from the committed file.
	doc := ParseDocument(sub.Submission().Markdown())

	keys := make([]string, 0, len(doc.Frontmatter))
	for k := range doc.Frontmatter {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	view := submissionView{StoredSubmission: sub}
	for _, k := range keys {
		view.Header = append(view.Header, Field{Key: k, Value: doc.Frontmatter[k]})
	}

	msg, err := renderMarkdown(sub.Message)
	if err != nil {
		return submissionView{}, err
	}
	view.Message = msg
	return view, nil
}

func (a *Admin) setupRoutes(r *gin.Engine) {
	r.GET("/privacy", func(c *gin.Context) {
		c.HTML(http.StatusOK, "privacy.html", gin.H{
			"title": "Privacy Policy",
		})
	})

	r.GET("/admin/login", func(c *gin.Context) {
		c.HTML(http.StatusOK, "admin-login.html", gin.H{
			"title": "Admin Login",
		})
	})

	r.POST("/admin/login", func(c *gin.Context) {
		username := c.PostForm("username")
		password := c.PostForm("password")

		userOK := subtle.ConstantTimeCompare([]byte(username), []byte(a.username)) == 1
		passOK := subtle.ConstantTimeCompare([]byte(password), []byte(a.password)) == 1
		if userOK && passOK {
			c.SetCookie("admin_token", a.token, 3600*24, "/admin", "", false, true)
			a.log.Info().Str("client", a.hashIP(c.ClientIP())).Msg("admin login successful")
			c.Redirect(http.StatusFound, "/admin/dashboard")
			return
		}

		a.log.Warn().Str("client", a.hashIP(c.ClientIP())).Msg("failed admin login attempt")
		c.HTML(http.StatusUnauthorized, "admin-login.html", gin.H{
			"error": "Invalid credentials",
		})
	})

	r.GET("/admin/logout", func(c *gin.Context) {
		c.SetCookie("admin_token", "", -1, "/admin", "", false, true)
		c.Redirect(http.StatusFound, "/admin/login")
	})

	adminGroup := r.Group("/admin")
	adminGroup.Use(a.authMiddleware())

	adminGroup.GET("/dashboard", func(c *gin.Context) {
		stats, err := a.store.Stats(c.Request.Context(), a.now())
		if err != nil {
			a.log.Error().Err(err).Msg("error loading admin stats")
			c.HTML(http.StatusInternalServerError, "admin-error.html", gin.H{
				"error": "Failed to load statistics",
			})
			return
		}
		c.HTML(http.StatusOK, "admin-dashboard.html", gin.H{
			"stats": stats,
		})
	})

	adminGroup.GET("/api/stats", func(c *gin.Context) {
		stats, err := a.store.Stats(c.Request.Context(), a.now())
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, stats)
	})

	adminGroup.GET("/submissions", func(c *gin.Context) {
		subs, err := a.store.ListSubmissions(c.Request.Context(), 200)
		if err != nil {
			a.log.Error().Err(err).Msg("error loading submissions")
			c.HTML(http.StatusInternalServerError, "admin-error.html", gin.H{
				"error": "Failed to load submissions",
			})
			return
		}
		c.HTML(http.StatusOK, "admin-submissions.html", gin.H{
			"submissions": subs,
		})
	})

	adminGroup.GET("/submissions/:id", func(c *gin.Context) {
		id, err := strconv.ParseInt(c.Param("id"), 10, 64)
		if err != nil {
			c.HTML(http.StatusBadRequest, "admin-error.html", gin.H{"error": "Invalid submission id"})
			return
		}

		sub, err := a.store.GetSubmission(c.Request.Context(), id)
		if errors.Is(err, ErrNotFound) {
			c.HTML(http.StatusNotFound, "admin-error.html", gin.H{"error": "Submission not found"})
			return
		}
		if err != nil {
			a.log.Error().Err(err).Int64("id", id).Msg("error loading submission")
			c.HTML(http.StatusInternalServerError, "admin-error.html", gin.H{"error": "Failed to load submission"})
			return
		}

		view, err := a.submissionView(sub)
		if err != nil {
			a.log.Error().Err(err).Int64("id", id).Msg("error rendering submission")
			c.HTML(http.StatusInternalServerError, "admin-error.html", gin.H{"error": "Failed to render submission"})
			return
		}
		c.HTML(http.StatusOK, "admin-submission.html", gin.H{
			"submission": view,
		})
	})

	adminGroup.DELETE("/submissions/:id", func(c *gin.Context) {
		id, err := strconv.ParseInt(c.Param("id"), 10, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid submission id"})
			return
		}

		deleted, err := a.store.DeleteSubmission(c.Request.Context(), id)
		if err != nil {
			a.log.Error().Err(err).Int64("id", id).Msg("error deleting submission")
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete submission"})
			return
		}
		if !deleted {
			c.JSON(http.StatusNotFound, gin.H{"error": "Submission not found"})
			return
		}

		a.log.Info().Int64("id", id).Str("client", a.hashIP(c.ClientIP())).Msg("submission deleted by admin")
		c.JSON(http.StatusOK, gin.H{"message": "Submission deleted successfully"})
	})

	adminGroup.GET("/visitors", func(c *gin.Context) {
		visitors, err := a.store.RecentVisitors(c.Request.Context(), 200)
		if err != nil {
			c.HTML(http.StatusInternalServerError, "admin-error.html", gin.H{
				"error": "Failed to load visitors",
			})
			return
		}
		c.HTML(http.StatusOK, "admin-visitors.html", gin.H{
			"visitors": visitors,
		})
	})

	// Privacy compliance endpoint
	adminGroup.POST("/privacy/cleanup", func(c *gin.Context) {
		a.CleanupOldVisitors(c.Request.Context())
		c.JSON(http.StatusOK, gin.H{"message": "Privacy cleanup complete"})
	})

	adminGroup.GET("/export/stats", func(c *gin.Context) {
		stats, err := a.store.Stats(c.Request.Context(), a.now())
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}

		c.Header("Content-Disposition", "attachment; filename=admin-stats.json")
		a.log.Info().Str("client", a.hashIP(c.ClientIP())).Msg("admin stats exported")
		c.JSON(http.StatusOK, stats)
	})
}

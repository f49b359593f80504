package main

import (
	"context"
	"net/http"

	"github.com/cockroachdb/errors"
	"github.com/google/go-github/v66/github"
)

// GitHubConfig points the submission sink at a content repository.
type GitHubConfig struct {
	Token  string
	Owner  string
	Repo   string
	Branch string
}

// GitHubSink commits each submission as a new Markdown file through the contents API.
// There is no retry and no conflict handling: two submissions with the same
// timestamp and name make the second create fail.
type GitHubSink struct {
	client *github.Client
	owner  string
	repo   string
	branch string
}

var _ Sink = (*GitHubSink)(nil)

// NewGitHubSink returns nil when no token is configured.
func NewGitHubSink(cfg GitHubConfig, httpClient *http.Client) *GitHubSink {
	if cfg.Token == "" {
		return nil
	}
	return &GitHubSink{
		client: github.NewClient(httpClient).WithAuthToken(cfg.Token),
		owner:  cfg.Owner,
		repo:   cfg.Repo,
		branch: cfg.Branch,
	}
}

func (s *GitHubSink) Save(ctx context.Context, sub Submission) error {
	opts := &github.RepositoryContentFileOptions{
		Message: github.String(sub.CommitMessage()),
		Content: []byte(sub.Markdown()),
		Branch:  github.String(s.branch),
	}

	_, _, err := s.client.Repositories.CreateFile(ctx, s.owner, s.repo, sub.Filename(), opts)
	if err != nil {
		return errors.Wrapf(err, "creating %s in %s/%s", sub.Filename(), s.owner, s.repo)
	}
	return nil
}

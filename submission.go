package main

import (
	"context"
	"encoding/json"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/cockroachdb/errors"
)

const SubmissionsDir = "content/submissions"

// Submission is one contact-form message on its way to the content repository.
type Submission struct {
	Name       string
	Email      string
	Message    string
	Form       string
	ReceivedAt time.Time

	// Raw is the decoded webhook body, appended to the file for debugging.
	Raw map[string]any
}

// Sink persists a submission somewhere outside the process.
type Sink interface {
	Save(ctx context.Context, sub Submission) error
}

var (
	nameAliases    = []string{"name", "full_name", "fullname", "yourname"}
	emailAliases   = []string{"email", "your_email"}
	messageAliases = []string{"message", "messages", "body", "content"}
)

// FromWebhook reads a form-submission webhook. Fields are looked up case-insensitively
// under payload.data first, then under the payload itself.
func FromWebhook(body []byte, now time.Time) (Submission, error) {
	root := map[string]any{}
	if len(strings.TrimSpace(string(body))) > 0 {
		if err := json.Unmarshal(body, &root); err != nil {
			return Submission{}, errors.Wrap(err, "decoding webhook body")
		}
	}

	payload, ok := root["payload"].(map[string]any)
	if !ok {
		payload = root
	}
	data, _ := payload["data"].(map[string]any)

	sub := Submission{
		Name:       firstNonEmpty(field(data, nameAliases...), field(payload, "name")),
		Email:      firstNonEmpty(field(data, emailAliases...), field(payload, "email")),
		Message:    firstNonEmpty(field(data, messageAliases...), field(payload, "message", "body")),
		Form:       "contact",
		ReceivedAt: now,
		Raw:        map[string]any{"data": data, "payload": payload},
	}
	if form, ok := payload["form_name"]; ok && form != nil {
		if s := fmt.Sprint(form); s != "" {
			sub.Form = s
		}
	}
	return sub, nil
}

// FromForm builds a submission from already-decoded form values.
func FromForm(values map[string]string, now time.Time) Submission {
	obj := make(map[string]any, len(values))
	for k, v := range values {
		obj[k] = v
	}
	return Submission{
		Name:       field(obj, nameAliases...),
		Email:      field(obj, emailAliases...),
		Message:    field(obj, messageAliases...),
		Form:       "contact",
		ReceivedAt: now,
	}
}

func field(obj map[string]any, variants ...string) string {
	if obj == nil {
		return ""
	}
	lower := make(map[string]any, len(obj))
	for k, v := range obj {
		lower[strings.ToLower(k)] = v
	}
	for _, key := range variants {
		v, ok := lower[strings.ToLower(key)]
		if !ok || v == nil {
			continue
		}
		if s := fmt.Sprint(v); strings.TrimSpace(s) != "" {
			return s
		}
	}
	return ""
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

var (
	unsafeNameChars = regexp.MustCompile(`[^a-zA-Z0-9\-_ ]`)
	whitespaceRun   = regexp.MustCompile(`\s+`)
)

func (s Submission) timestamp() string {
	return s.ReceivedAt.UTC().Format("2006-01-02T15:04:05.000Z07:00")
}

// Filename is the repository path the submission is written to.
func (s Submission) Filename() string {
	ts := strings.NewReplacer(":", "-", ".", "-").Replace(s.timestamp())
	return fmt.Sprintf("%s/%s-%s.md", SubmissionsDir, ts, s.SafeName())
}

// SafeName is the sender name reduced to a lowercase slug, or "anonymous".
func (s Submission) SafeName() string {
	name := strings.TrimSpace(unsafeNameChars.ReplaceAllString(s.Name, ""))
	name = strings.ToLower(whitespaceRun.ReplaceAllString(name, "-"))
	if name == "" {
		return "anonymous"
	}
	return name
}

// CommitMessage is the message used for the commit that adds the file.
func (s Submission) CommitMessage() string {
	name := s.Name
	if name == "" {
		name = "anonymous"
	}
	return "Add contact form submission from " + name
}

// Markdown is the file content: a quoted front-matter header and the message body.
func (s Submission) Markdown() string {
	fields := []Field{
		{Key: "name", Value: s.Name},
		{Key: "email", Value: s.Email},
		{Key: "date", Value: s.timestamp()},
	}
	if s.Form != "" {
		fields = append(fields, Field{Key: "form", Value: s.Form})
	}

	md := FormatSubmission(fields, s.Message)
	if s.Raw == nil {
		return md
	}

	raw, err := json.MarshalIndent(s.Raw, "", "  ")
	if err != nil {
		return md
	}
	return md + "\n<!-- raw payload for debugging -->\n\n" + string(raw) + "\n"
}

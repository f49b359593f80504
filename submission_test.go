package main

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var received = time.Date(2024, 3, 5, 10, 20, 30, 123_000_000, time.UTC)

func TestSubmission_Filename(t *testing.T) {
	tests := []struct {
		name string
		want string
	}{
		{name: "Jane Doe", want: "content/submissions/2024-03-05T10-20-30-123Z-jane-doe.md"},
		{name: "  Jane   O'Neil!  ", want: "content/submissions/2024-03-05T10-20-30-123Z-jane-oneil.md"},
		{name: "Zoë Smith", want: "content/submissions/2024-03-05T10-20-30-123Z-zo-smith.md"},
		{name: "", want: "content/submissions/2024-03-05T10-20-30-123Z-anonymous.md"},
		{name: "!!!", want: "content/submissions/2024-03-05T10-20-30-123Z-anonymous.md"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sub := Submission{Name: tt.name, ReceivedAt: received}
			assert.Equal(t, tt.want, sub.Filename())
		})
	}
}

func TestSubmission_FilenameUsesUTC(t *testing.T) {
	loc := time.FixedZone("X", 2*60*60)
	sub := Submission{Name: "a", ReceivedAt: received.In(loc)}
	assert.Equal(t, "content/submissions/2024-03-05T10-20-30-123Z-a.md", sub.Filename())
}

func TestSubmission_CommitMessage(t *testing.T) {
	assert.Equal(t, "Add contact form submission from Jane", Submission{Name: "Jane"}.CommitMessage())
	assert.Equal(t, "Add contact form submission from anonymous", Submission{}.CommitMessage())
}

func TestSubmission_Markdown(t *testing.T) {
	sub := Submission{
		Name:       `Jane "JJ"`,
		Email:      "jane@example.com",
		Message:    "Hi!\n---\nBye",
		Form:       "contact",
		ReceivedAt: received,
	}

	want := "---\n" +
		"name: \"Jane \\\"JJ\\\"\"\n" +
		"email: \"jane@example.com\"\n" +
		"date: \"2024-03-05T10:20:30.123Z\"\n" +
		"form: \"contact\"\n" +
		"---\n\n" +
		"Hi!\n\\---\nBye\n"
	assert.Equal(t, want, sub.Markdown())

	doc := ParseDocument(sub.Markdown())
	assert.Equal(t, "jane@example.com", doc.Frontmatter["email"])
	assert.Equal(t, "2024-03-05T10:20:30.123Z", doc.Frontmatter["date"])
}

func TestSubmission_MarkdownWithRawPayload(t *testing.T) {
	sub := Submission{
		Name:       "Jane",
		ReceivedAt: received,
		Raw:        map[string]any{"data": map[string]any{"name": "Jane"}},
	}

	md := sub.Markdown()
	assert.Contains(t, md, "<!-- raw payload for debugging -->")
	assert.Contains(t, md, `"name": "Jane"`)
}

func TestFromWebhook(t *testing.T) {
	t.Run("payload data with aliases", func(t *testing.T) {
		body := `{"payload":{"form_name":"hire-me","data":{"Full_Name":"Jane","YOUR_EMAIL":"jane@example.com","Messages":"Hello"}}}`

		sub, err := FromWebhook([]byte(body), received)
		require.NoError(t, err)
		assert.Equal(t, "Jane", sub.Name)
		assert.Equal(t, "jane@example.com", sub.Email)
		assert.Equal(t, "Hello", sub.Message)
		assert.Equal(t, "hire-me", sub.Form)
		assert.Equal(t, received, sub.ReceivedAt)
		assert.NotNil(t, sub.Raw)
	})

	t.Run("blank data fields fall back to the payload", func(t *testing.T) {
		body := `{"data":{"name":"  ","email":""},"name":"Bob","email":"bob@example.com","body":"Yo"}`

		sub, err := FromWebhook([]byte(body), received)
		require.NoError(t, err)
		assert.Equal(t, "Bob", sub.Name)
		assert.Equal(t, "bob@example.com", sub.Email)
		assert.Equal(t, "Yo", sub.Message)
		assert.Equal(t, "contact", sub.Form)
	})

	t.Run("empty body", func(t *testing.T) {
		sub, err := FromWebhook(nil, received)
		require.NoError(t, err)
		assert.Empty(t, sub.Name)
		assert.True(t, strings.HasSuffix(sub.Filename(), "-anonymous.md"))
	})

	t.Run("invalid json", func(t *testing.T) {
		_, err := FromWebhook([]byte(`{"payload":`), received)
		assert.Error(t, err)
	})
}

func TestFromForm(t *testing.T) {
	sub := FromForm(map[string]string{
		"fullName": "Jane",
		"email":    "jane@example.com",
		"message":  "Hello there",
	}, received)

	assert.Equal(t, "Jane", sub.Name)
	assert.Equal(t, "jane@example.com", sub.Email)
	assert.Equal(t, "Hello there", sub.Message)
	assert.Equal(t, "contact", sub.Form)
	assert.Nil(t, sub.Raw)
}

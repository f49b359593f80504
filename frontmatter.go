package main

import (
	"regexp"
	"strings"
)

// Document is one parsed content file: a flat string header and the text after it.
type Document struct {
	Frontmatter map[string]string
	Body        string
}

// The header must open the text; the shortest block closed by a "---" line wins.
var frontmatterPattern = regexp.MustCompile(`(?s)\A---\n(.*?)\n---\n(.*)\z`)

// ParseDocument splits text into its front-matter header and body. Text that does not
// start with a delimited header is returned whole as the body with an empty header.
func ParseDocument(text string) Document {
	doc := Document{Frontmatter: map[string]string{}}

	match := frontmatterPattern.FindStringSubmatch(text)
	if match == nil {
		doc.Body = text
		return doc
	}

	for _, line := range strings.Split(match[1], "\n") {
		key, value, ok := strings.Cut(line, ":")
		if !ok {
			continue
		}
		key = strings.TrimSpace(key)
		if key == "" {
			continue
		}
		doc.Frontmatter[key] = unquote(strings.TrimSpace(value))
	}
	doc.Body = match[2]

	return doc
}

// unquote drops one leading and one trailing quote character, each on its own.
func unquote(value string) string {
	if value != "" && (value[0] == '"' || value[0] == '\'') {
		value = value[1:]
	}
	if n := len(value); n > 0 && (value[n-1] == '"' || value[n-1] == '\'') {
		value = value[:n-1]
	}
	return value
}

// Field is one ordered header entry written by FormatSubmission.
type Field struct {
	Key   string
	Value string
}

// FormatSubmission writes fields as a quoted front-matter header followed by body.
// Only double quotes in values and "---" runs in the body are escaped.
func FormatSubmission(fields []Field, body string) string {
	var b strings.Builder
	b.WriteString("---\n")
	for _, f := range fields {
		b.WriteString(f.Key)
		b.WriteString(": \"")
		b.WriteString(strings.ReplaceAll(f.Value, `"`, `\"`))
		b.WriteString("\"\n")
	}
	b.WriteString("---\n\n")
	b.WriteString(strings.ReplaceAll(body, "---", `\---`))
	b.WriteString("\n")
	return b.String()
}

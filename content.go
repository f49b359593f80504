package main

import (
	"bytes"
	"encoding/json"
	"sort"
	"strconv"
	"strings"

	"github.com/cockroachdb/errors"
)

type Project struct {
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Image       string   `json:"image"`
	Link        string   `json:"link"`
	Featured    flexBool `json:"featured"`
}

type ProjectCategory struct {
	Title    string    `json:"title"`
	Projects []Project `json:"projects"`
}

type AboutInfo struct {
	Heading        string   `json:"heading"`
	Body           string   `json:"body"`
	WebSkills      []string `json:"web_skills"`
	BusinessSkills []string `json:"business_skills"`
	ToolsSkills    []string `json:"tools_skills"`
	Image          string   `json:"image"`
}

type SiteSettings struct {
	LogoText            string            `json:"logo_text"`
	HeroName            string            `json:"hero_name"`
	HeroSubtitle        string            `json:"hero_subtitle"`
	HeroDescription     string            `json:"hero_description"`
	HeroCTAText         string            `json:"hero_cta_text"`
	HeroCTALink         string            `json:"hero_cta_link"`
	HeroBackgroundImage string            `json:"hero_background_image"`
	FooterName          string            `json:"footer_name"`
	FooterYear          flexString        `json:"footer_year"`
	Social              socialLinks       `json:"social"`
	CVLabel             string            `json:"cv_label"`
}

func (a *AboutInfo) fields() map[string]any {
	return map[string]any{
		"heading":         &a.Heading,
		"body":            &a.Body,
		"web_skills":      &a.WebSkills,
		"business_skills": &a.BusinessSkills,
		"tools_skills":    &a.ToolsSkills,
		"image":           &a.Image,
	}
}

func (s *SiteSettings) fields() map[string]any {
	return map[string]any{
		"logo_text":             &s.LogoText,
		"hero_name":             &s.HeroName,
		"hero_subtitle":         &s.HeroSubtitle,
		"hero_description":      &s.HeroDescription,
		"hero_cta_text":         &s.HeroCTAText,
		"hero_cta_link":         &s.HeroCTALink,
		"hero_background_image": &s.HeroBackgroundImage,
		"footer_name":           &s.FooterName,
		"footer_year":           &s.FooterYear,
		"social":                &s.Social,
		"cv_label":              &s.CVLabel,
	}
}

// decodeObject decodes each key of the JSON object raw into its target on its own, so a
// field of the wrong type is left unset without losing the others. It returns the keys
// that were skipped. err is set only when raw is not a JSON object.
func decodeObject(raw []byte, targets map[string]any) (skipped []string, err error) {
	var obj map[string]json.RawMessage
	if err := json.Unmarshal(raw, &obj); err != nil {
		return nil, errors.Wrap(err, "decoding object")
	}
	if obj == nil {
		return nil, errors.New("decoding object: null")
	}

	for key, value := range obj {
		target, ok := targets[key]
		if !ok {
			continue
		}
		if err := json.Unmarshal(value, target); err != nil {
			skipped = append(skipped, key)
		}
	}
	sort.Strings(skipped)
	return skipped, nil
}

// socialLinks keeps the string entries of the "social" object and drops the rest.
type socialLinks map[string]string

func (l *socialLinks) UnmarshalJSON(data []byte) error {
	var obj map[string]json.RawMessage
	if err := json.Unmarshal(data, &obj); err != nil {
		return err
	}
	links := make(socialLinks, len(obj))
	for k, v := range obj {
		var s string
		if json.Unmarshal(v, &s) == nil {
			links[k] = s
		}
	}
	*l = links
	return nil
}

// flexBool accepts true/false or the strings "true"/"false"; anything else is false.
type flexBool bool

func (b *flexBool) UnmarshalJSON(data []byte) error {
	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	switch t := v.(type) {
	case bool:
		*b = flexBool(t)
	case string:
		*b = flexBool(strings.TrimSpace(t) == "true")
	default:
		*b = false
	}
	return nil
}

// flexString accepts a JSON string or number, so "footer_year": 2025 works.
type flexString string

func (s *flexString) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*s = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var str string
		if err := json.Unmarshal(data, &str); err != nil {
			return err
		}
		*s = flexString(str)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	if i, err := strconv.ParseInt(n.String(), 10, 64); err == nil {
		*s = flexString(strconv.FormatInt(i, 10))
		return nil
	}
	*s = flexString(n.String())
	return nil
}

// projectsShape is every accepted layout of projects.json, resolved in NormalizeProjects.
type projectsShape int

const (
	shapeUnknown projectsShape = iota
	shapeCategories
	shapeFlat
	shapeCategoriesObject
	shapeProjectsObject
)

// NormalizeProjects turns any accepted projects.json layout into categories. Unrecognized
// or malformed input yields nil, which the loader replaces with the defaults.
func NormalizeProjects(raw []byte) []ProjectCategory {
	shape, payload := classifyProjects(raw)

	switch shape {
	case shapeCategories:
		var entries []map[string]json.RawMessage
		if err := json.Unmarshal(payload, &entries); err != nil {
			return nil
		}
		var categories []ProjectCategory
		for _, e := range entries {
			list, ok := e["projects"]
			if !ok || bytes.Equal(bytes.TrimSpace(list), []byte("null")) {
				continue
			}
			projects, err := decodeProjects(list)
			if err != nil {
				continue
			}
			categories = append(categories, ProjectCategory{Title: optionalString(e["title"]), Projects: projects})
		}
		return categories
	case shapeFlat:
		projects, err := decodeProjects(payload)
		if err != nil {
			return nil
		}
		return []ProjectCategory{{Title: DefaultCategoryTitle, Projects: projects}}
	case shapeCategoriesObject:
		return NormalizeProjects(payload)
	case shapeProjectsObject:
		var obj map[string]json.RawMessage
		if err := json.Unmarshal(raw, &obj); err != nil {
			return nil
		}
		projects, err := decodeProjects(obj["projects"])
		if err != nil {
			return nil
		}
		title := optionalString(obj["title"])
		if title == "" {
			title = DefaultCategoryTitle
		}
		return []ProjectCategory{{Title: title, Projects: projects}}
	}

	return nil
}

func classifyProjects(raw []byte) (projectsShape, []byte) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 {
		return shapeUnknown, nil
	}

	switch raw[0] {
	case '[':
		var elems []map[string]json.RawMessage
		if err := json.Unmarshal(raw, &elems); err != nil {
			return shapeUnknown, nil
		}
		for _, e := range elems {
			if _, ok := e["projects"]; ok {
				return shapeCategories, raw
			}
		}
		return shapeFlat, raw
	case '{':
		var obj map[string]json.RawMessage
		if err := json.Unmarshal(raw, &obj); err != nil {
			return shapeUnknown, nil
		}
		if cats, ok := obj["categories"]; ok {
			if c := bytes.TrimSpace(cats); len(c) > 0 && c[0] == '[' {
				return shapeCategoriesObject, c
			}
			return shapeUnknown, nil
		}
		if projects, ok := obj["projects"]; ok {
			if p := bytes.TrimSpace(projects); len(p) > 0 && p[0] == '[' {
				return shapeProjectsObject, raw
			}
		}
	}

	return shapeUnknown, nil
}

// decodeProjects decodes a JSON array of projects one element at a time, skipping
// elements that are not a valid project.
func decodeProjects(raw json.RawMessage) ([]Project, error) {
	var elems []json.RawMessage
	if err := json.Unmarshal(raw, &elems); err != nil {
		return nil, err
	}
	projects := make([]Project, 0, len(elems))
	for _, e := range elems {
		var p Project
		if err := json.Unmarshal(e, &p); err != nil {
			continue
		}
		projects = append(projects, p)
	}
	return projects, nil
}

// optionalString returns raw as a string, or "" when it is absent or not a string.
func optionalString(raw json.RawMessage) string {
	var s string
	if len(raw) == 0 || json.Unmarshal(raw, &s) != nil {
		return ""
	}
	return s
}

// hasProjects reports whether any category carries at least one project.
func hasProjects(categories []ProjectCategory) bool {
	for _, c := range categories {
		if len(c.Projects) > 0 {
			return true
		}
	}
	return false
}

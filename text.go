package main

const (
	UntitledProject      = "Untitled Project"
	PlaceholderLink      = "#"
	FallbackProjectImage = "https://images.unsplash.com/photo-1517694712202-14dd9538aa97?w=600&h=400&fit=crop"
	DefaultCategoryTitle = "Projects"
	EmptyProjectsMessage = "Projects coming soon."
	DefaultCVLabel       = "Download CV"
	SubmittedMessage     = "Thank you for your message! I'll get back to you soon."
)

var (
	AboutMe = "I love building software that's both useful and fun, and I'm always curious about how things work behind the scenes. " +
		"Most of my projects start with a simple idea and turn into a chance to learn something new, whether it's exploring a " +
		"different language, experimenting with tools, or solving tricky problems."

	ProjectOne = "A terminal-based email client built in Go with fuzzyfinder capabilities " +
		"using the Charmbracelet TUI framework and go-imap."

	ProjectTwo = "A terminal-based music streaming application built in Go with an elegant TUI " +
		"interface, leveraging yt-dlp and mpv for playback directly from the command line."

	ProjectThree = "A portfolio website built with Go and Gin that loads its projects, about section and " +
		"site settings from plain JSON and Markdown files."
)

// DefaultCategories is the built-in dataset shown when projects.json is missing or unusable.
func DefaultCategories() []ProjectCategory {
	return []ProjectCategory{
		{
			Title: "Featured Work",
			Projects: []Project{
				{Title: "Terminal Mail", Description: ProjectOne, Image: FallbackProjectImage, Link: PlaceholderLink, Featured: true},
				{Title: "Terminal Music", Description: ProjectTwo, Image: FallbackProjectImage, Link: PlaceholderLink},
			},
		},
		{
			Title: "Web",
			Projects: []Project{
				{Title: "Portfolio", Description: ProjectThree, Image: FallbackProjectImage, Link: PlaceholderLink},
			},
		},
	}
}

// DefaultPage is the layout copy every region shows until content replaces it.
func DefaultPage() *Page {
	return &Page{
		LogoText:        "Portfolio",
		HeroName:        "Your Name",
		HeroSubtitle:    "Developer",
		HeroDescription: "I build things for the web.",
		HeroCTAText:     "View My Work",
		HeroCTALink:     "#projects",
		AboutHeading:    "About Me",
		AboutBody:       AboutMe,
		FooterName:      "Your Name",
	}
}

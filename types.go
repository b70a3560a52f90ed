package sewpress

import "time"

// Status is the publication state of a Post. Any status may move to any
// other status; the lifecycle is driven by explicit editor actions, not a
// forward-only state machine.
type Status string

const (
	StatusDraft     Status = "draft"
	StatusPublished Status = "published"
	StatusArchived  Status = "archived"
)

// Valid reports whether s is one of the three known statuses.
func (s Status) Valid() bool {
	switch s {
	case StatusDraft, StatusPublished, StatusArchived:
		return true
	}
	return false
}

// Post is a blog article. Optional text fields use the empty string for
// "absent"; the store persists them as NULL. PublishedAt is set the first
// time a post enters published and only changes again when the post leaves
// published and re-enters it.
type Post struct {
	ID              string
	Title           string
	Slug            string
	Excerpt         string
	Content         string
	Category        string
	Tags            []string
	Status          Status
	FeaturedImage   string
	MetaTitle       string
	MetaDescription string
	AuthorID        string
	CreatedAt       time.Time
	UpdatedAt       time.Time
	PublishedAt     *time.Time
}

// Link returns the public path of the post.
func (p Post) Link() string {
	return "/blogs/" + p.Slug
}

// DisplayDate is the date shown to visitors: the publication time when the
// post has one, the creation time otherwise.
func (p Post) DisplayDate() time.Time {
	if p.PublishedAt != nil {
		return *p.PublishedAt
	}
	return p.CreatedAt
}

// MetaTitleOrTitle returns the SEO title override, falling back to the title.
func (p Post) MetaTitleOrTitle() string {
	if p.MetaTitle != "" {
		return p.MetaTitle
	}
	return p.Title
}

// MetaDescriptionOrExcerpt returns the SEO description override, falling
// back to the excerpt.
func (p Post) MetaDescriptionOrExcerpt() string {
	if p.MetaDescription != "" {
		return p.MetaDescription
	}
	return p.Excerpt
}

// Category is a display label for grouping posts. Categories are managed
// outside the post lifecycle; posts reference them by name only, with no
// referential integrity.
type Category struct {
	ID          string
	Name        string
	Description string
	Color       string
	CreatedAt   time.Time
}

// Role is the authorization level of an admin profile.
type Role string

const (
	RoleAdmin  Role = "admin"
	RoleEditor Role = "editor"
)

// Authorized reports whether the role may enter the admin panel.
func (r Role) Authorized() bool {
	return r == RoleAdmin || r == RoleEditor
}

// Profile is a staff identity allowed to log in to the admin panel.
type Profile struct {
	ID           string
	Email        string
	Name         string
	Role         Role
	PasswordHash []byte
	AvatarURL    string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Image is metadata for an uploaded blog image, kept for the admin media
// library. Path is the blob-store key, URL the public address.
type Image struct {
	Path         string
	URL          string
	ThumbURL     string
	OriginalName string
	Width        int
	Height       int
	Size         int
	UploadedAt   time.Time
}

// PageMeta carries per-page OpenGraph and SEO metadata into the <head> template.
type PageMeta struct {
	Title       string
	Description string
	URL         string // canonical + og:url
	OGType      string // "website" or "article"
}

package sewpress

import (
	"strings"
	"time"
	"unicode/utf8"
)

// Field length caps, counted in runes. Content is the only field with a
// large cap; excerpt and meta description are uncapped free text.
const (
	MaxTitleLen   = 1000
	MaxSlugLen    = 500
	MaxMetaLen    = 500
	MaxContentLen = 50000
)

// ValidatePost checks the submitted post field by field and returns the
// first violation as a *FieldError. Errors are not aggregated; the editor
// fixes one at a time, same as the admin form behaves.
func ValidatePost(p Post) error {
	if strings.TrimSpace(p.Title) == "" {
		return &FieldError{Field: "title"}
	}
	if utf8.RuneCountInString(p.Title) > MaxTitleLen {
		return &FieldError{Field: "title", Limit: MaxTitleLen}
	}
	if strings.TrimSpace(p.Slug) == "" {
		return &FieldError{Field: "slug"}
	}
	if utf8.RuneCountInString(p.Slug) > MaxSlugLen {
		return &FieldError{Field: "slug", Limit: MaxSlugLen}
	}
	if utf8.RuneCountInString(p.MetaTitle) > MaxMetaLen {
		return &FieldError{Field: "meta_title", Limit: MaxMetaLen}
	}
	if strings.TrimSpace(p.Content) == "" {
		return &FieldError{Field: "content"}
	}
	if utf8.RuneCountInString(p.Content) > MaxContentLen {
		return &FieldError{Field: "content", Limit: MaxContentLen}
	}
	return nil
}

// DeriveSlug converts a title to a URL-safe slug: lowercase, everything
// outside [a-z0-9 space hyphen] dropped, whitespace runs collapsed to a
// single hyphen, repeated hyphens collapsed, edge hyphens trimmed. Only
// called when the editor has not typed a slug themselves; an existing slug
// is never regenerated.
func DeriveSlug(title string) string {
	s := strings.ToLower(strings.TrimSpace(title))
	var b strings.Builder
	space := false
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == '-':
			if space && b.Len() > 0 {
				b.WriteByte('-')
			}
			space = false
			b.WriteRune(r)
		case r == ' ', r == '\t', r == '\n', r == '\r':
			space = true
		}
	}
	out := b.String()
	for strings.Contains(out, "--") {
		out = strings.ReplaceAll(out, "--", "-")
	}
	return strings.Trim(out, "-")
}

// NormalizeForPersist trims every string field and strips featured-image
// values that are inline data URIs: only a resolved storage URL may be
// persisted, never the browser-side preview. Empty optional fields stay
// empty strings here and become NULL in the store.
func NormalizeForPersist(p Post) Post {
	p.Title = strings.TrimSpace(p.Title)
	p.Slug = strings.TrimSpace(p.Slug)
	p.Excerpt = strings.TrimSpace(p.Excerpt)
	p.Content = strings.TrimSpace(p.Content)
	p.Category = strings.TrimSpace(p.Category)
	p.MetaTitle = strings.TrimSpace(p.MetaTitle)
	p.MetaDescription = strings.TrimSpace(p.MetaDescription)
	p.FeaturedImage = strings.TrimSpace(p.FeaturedImage)
	if strings.HasPrefix(p.FeaturedImage, "data:") {
		p.FeaturedImage = ""
	}
	p.Tags = FilterEmpty(p.Tags)
	return p
}

// Transition moves the post to target. Every target is reachable from every
// status; the admin form offers all three freely. Entering published from
// any other status stamps PublishedAt; staying in published, or leaving it,
// never touches the stamp. UpdatedAt is always refreshed.
func Transition(p Post, target Status, now time.Time) Post {
	if target == StatusPublished && p.Status != StatusPublished {
		t := now
		p.PublishedAt = &t
	}
	p.Status = target
	p.UpdatedAt = now
	return p
}

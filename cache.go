package sewpress

import (
	"sync"
	"time"

	gocache "github.com/patrickmn/go-cache"
)

// PostCache is an in-memory cache of published posts with TTL. Admin writes
// invalidate it; public reads repopulate it lazily.
type PostCache struct {
	mu      sync.RWMutex
	posts   []Post
	fetched time.Time
	ttl     time.Duration
	store   *Store

	// Category rows change rarely and are read on every admin form load;
	// they get their own small TTL cache.
	categories *gocache.Cache
}

const categoriesKey = "categories"

// NewPostCache creates a PostCache backed by the given Store.
func NewPostCache(s *Store, ttl time.Duration) *PostCache {
	return &PostCache{
		store:      s,
		ttl:        ttl,
		categories: gocache.New(ttl, 2*ttl),
	}
}

func (c *PostCache) valid() bool {
	return c.posts != nil && time.Since(c.fetched) < c.ttl
}

// Invalidate clears the cache so the next read triggers a fresh load.
func (c *PostCache) Invalidate() {
	c.mu.Lock()
	c.posts = nil
	c.mu.Unlock()
	c.categories.Delete(categoriesKey)
}

// ensureLoaded returns cached published posts after ensuring freshness.
// Read lock first; write lock only when a reload is needed.
func (c *PostCache) ensureLoaded() ([]Post, error) {
	c.mu.RLock()
	if c.valid() {
		posts := c.posts
		c.mu.RUnlock()
		return posts, nil
	}
	c.mu.RUnlock()

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.valid() {
		return c.posts, nil
	}
	posts, err := c.store.ListPosts(PostFilter{
		Status:  StatusPublished,
		OrderBy: OrderByPublished,
	})
	if err != nil {
		return nil, err
	}
	c.posts = posts
	c.fetched = time.Now()
	return posts, nil
}

// Published returns published posts, newest first, optionally filtered by
// category name.
func (c *PostCache) Published(category string) ([]Post, error) {
	posts, err := c.ensureLoaded()
	if err != nil {
		return nil, err
	}
	if category == "" {
		return posts, nil
	}
	var filtered []Post
	for _, p := range posts {
		if p.Category == category {
			filtered = append(filtered, p)
		}
	}
	return filtered, nil
}

// GetBySlug returns a single published post by slug from the cache.
func (c *PostCache) GetBySlug(slug string) (Post, error) {
	posts, err := c.ensureLoaded()
	if err != nil {
		return Post{}, err
	}
	for _, p := range posts {
		if p.Slug == slug {
			return p, nil
		}
	}
	return Post{}, ErrNotFound
}

// Related returns up to limit published posts sharing the post's category,
// excluding the post itself. Posts without a category have no related set.
func (c *PostCache) Related(post Post, limit int) ([]Post, error) {
	if post.Category == "" {
		return nil, nil
	}
	posts, err := c.ensureLoaded()
	if err != nil {
		return nil, err
	}
	var related []Post
	for _, p := range posts {
		if p.ID == post.ID || p.Category != post.Category {
			continue
		}
		related = append(related, p)
		if len(related) == limit {
			break
		}
	}
	return related, nil
}

// Categories returns the category list, cached with the same TTL as posts.
func (c *PostCache) Categories() ([]Category, error) {
	if cached, ok := c.categories.Get(categoriesKey); ok {
		return cached.([]Category), nil
	}
	cats, err := c.store.ListCategories()
	if err != nil {
		return nil, err
	}
	c.categories.Set(categoriesKey, cats, gocache.DefaultExpiration)
	return cats, nil
}

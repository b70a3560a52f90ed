package sewpress

import (
	"errors"
	"path/filepath"
	"testing"
	"time"
)

func setupTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := NewStore(filepath.Join(t.TempDir(), "test_sewpress.db"))
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func testPost(id, slug string, status Status) Post {
	now := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)
	p := Post{
		ID:        id,
		Title:     "Post " + id,
		Slug:      slug,
		Excerpt:   "excerpt " + id,
		Content:   "content " + id,
		Category:  "縫製技術",
		Tags:      []string{"sewing", "factory"},
		Status:    status,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if status == StatusPublished {
		t := now
		p.PublishedAt = &t
	}
	return p
}

func TestInsertAndGetPost(t *testing.T) {
	s := setupTestStore(t)

	post := testPost("p1", "first-post", StatusPublished)
	post.FeaturedImage = "https://example.com/public/blog-images/1-a.png"
	post.MetaTitle = "SEO title"

	if err := s.InsertPost(post); err != nil {
		t.Fatalf("InsertPost failed: %v", err)
	}

	got, err := s.GetPost("p1")
	if err != nil {
		t.Fatalf("GetPost failed: %v", err)
	}

	if got.Title != post.Title {
		t.Errorf("Title = %q, want %q", got.Title, post.Title)
	}
	if got.Slug != "first-post" {
		t.Errorf("Slug = %q, want first-post", got.Slug)
	}
	if got.Status != StatusPublished {
		t.Errorf("Status = %q, want published", got.Status)
	}
	if got.FeaturedImage != post.FeaturedImage {
		t.Errorf("FeaturedImage = %q, want %q", got.FeaturedImage, post.FeaturedImage)
	}
	if got.MetaTitle != "SEO title" {
		t.Errorf("MetaTitle = %q, want SEO title", got.MetaTitle)
	}
	if got.PublishedAt == nil || !got.PublishedAt.Equal(*post.PublishedAt) {
		t.Errorf("PublishedAt = %v, want %v", got.PublishedAt, post.PublishedAt)
	}
	if len(got.Tags) != 2 || got.Tags[0] != "sewing" || got.Tags[1] != "factory" {
		t.Errorf("Tags = %v, want [sewing factory]", got.Tags)
	}
	if got.Link() != "/blogs/first-post" {
		t.Errorf("Link = %q, want /blogs/first-post", got.Link())
	}
}

func TestGetPostNotFound(t *testing.T) {
	s := setupTestStore(t)

	_, err := s.GetPost("nonexistent")
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestGetPublishedBySlug(t *testing.T) {
	s := setupTestStore(t)

	if err := s.InsertPost(testPost("p1", "live", StatusPublished)); err != nil {
		t.Fatalf("InsertPost failed: %v", err)
	}
	if err := s.InsertPost(testPost("p2", "hidden", StatusDraft)); err != nil {
		t.Fatalf("InsertPost failed: %v", err)
	}

	if _, err := s.GetPublishedBySlug("live"); err != nil {
		t.Fatalf("GetPublishedBySlug failed for published post: %v", err)
	}

	// Drafts have no public route.
	if _, err := s.GetPublishedBySlug("hidden"); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound for draft, got %v", err)
	}
}

func TestInsertPostDuplicateSlug(t *testing.T) {
	s := setupTestStore(t)

	if err := s.InsertPost(testPost("p1", "same-slug", StatusDraft)); err != nil {
		t.Fatalf("InsertPost failed: %v", err)
	}
	if err := s.InsertPost(testPost("p2", "same-slug", StatusDraft)); err == nil {
		t.Error("expected UNIQUE violation for duplicate slug")
	}
}

func TestUpdatePost(t *testing.T) {
	s := setupTestStore(t)

	post := testPost("p1", "editable", StatusDraft)
	if err := s.InsertPost(post); err != nil {
		t.Fatalf("InsertPost failed: %v", err)
	}

	post.Title = "Updated Title"
	post.Status = StatusPublished
	pub := time.Date(2026, 3, 11, 12, 0, 0, 0, time.UTC)
	post.PublishedAt = &pub
	post.UpdatedAt = pub
	if err := s.UpdatePost(post); err != nil {
		t.Fatalf("UpdatePost failed: %v", err)
	}

	got, err := s.GetPost("p1")
	if err != nil {
		t.Fatalf("GetPost failed: %v", err)
	}
	if got.Title != "Updated Title" {
		t.Errorf("Title = %q, want Updated Title", got.Title)
	}
	if got.Status != StatusPublished {
		t.Errorf("Status = %q, want published", got.Status)
	}
	if got.PublishedAt == nil || !got.PublishedAt.Equal(pub) {
		t.Errorf("PublishedAt = %v, want %v", got.PublishedAt, pub)
	}
}

func TestUpdatePostNotFound(t *testing.T) {
	s := setupTestStore(t)

	err := s.UpdatePost(testPost("ghost", "ghost", StatusDraft))
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestListPostsFilters(t *testing.T) {
	s := setupTestStore(t)

	p1 := testPost("p1", "s1", StatusPublished)
	p1.Category = "縫製技術"
	p2 := testPost("p2", "s2", StatusPublished)
	p2.Category = "工場"
	later := p1.UpdatedAt.Add(time.Hour)
	p2.UpdatedAt = later
	p2.PublishedAt = &later
	p3 := testPost("p3", "s3", StatusDraft)

	for _, p := range []Post{p1, p2, p3} {
		if err := s.InsertPost(p); err != nil {
			t.Fatalf("InsertPost failed: %v", err)
		}
	}

	got, err := s.ListPosts(PostFilter{Status: StatusPublished, OrderBy: OrderByPublished})
	if err != nil {
		t.Fatalf("ListPosts failed: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("published count = %d, want 2", len(got))
	}
	if got[0].ID != "p2" {
		t.Errorf("first published should be p2 (newest), got %s", got[0].ID)
	}

	got, err = s.ListPosts(PostFilter{Category: "工場"})
	if err != nil {
		t.Fatalf("ListPosts failed: %v", err)
	}
	if len(got) != 1 || got[0].ID != "p2" {
		t.Errorf("category filter = %v, want just p2", got)
	}

	got, err = s.ListPosts(PostFilter{Status: StatusPublished, ExcludeID: "p2", Limit: 5})
	if err != nil {
		t.Fatalf("ListPosts failed: %v", err)
	}
	if len(got) != 1 || got[0].ID != "p1" {
		t.Errorf("exclude filter = %v, want just p1", got)
	}

	// Admin listing: every status, newest update first.
	got, err = s.ListPosts(PostFilter{OrderBy: OrderByUpdated})
	if err != nil {
		t.Fatalf("ListPosts failed: %v", err)
	}
	if len(got) != 3 {
		t.Errorf("all count = %d, want 3", len(got))
	}
}

func TestDeletePost(t *testing.T) {
	s := setupTestStore(t)

	if err := s.InsertPost(testPost("p1", "doomed", StatusDraft)); err != nil {
		t.Fatalf("InsertPost failed: %v", err)
	}
	if err := s.DeletePost("p1"); err != nil {
		t.Fatalf("DeletePost failed: %v", err)
	}
	if _, err := s.GetPost("p1"); !errors.Is(err, ErrNotFound) {
		t.Errorf("post should be gone, got err: %v", err)
	}

	// Deleting a missing post is not an error.
	if err := s.DeletePost("nonexistent"); err != nil {
		t.Errorf("DeletePost on nonexistent should not error, got: %v", err)
	}
}

func TestCategories(t *testing.T) {
	s := setupTestStore(t)

	now := time.Now()
	cats := []Category{
		{ID: "c1", Name: "縫製技術", Color: "#3B82F6", CreatedAt: now},
		{ID: "c2", Name: "お知らせ", Description: "company news", Color: "#10B981", CreatedAt: now},
	}
	for _, c := range cats {
		if err := s.SaveCategory(c); err != nil {
			t.Fatalf("SaveCategory failed: %v", err)
		}
	}

	// Upsert by name keeps the row count stable.
	if err := s.SaveCategory(Category{ID: "c3", Name: "お知らせ", Color: "#EF4444", CreatedAt: now}); err != nil {
		t.Fatalf("SaveCategory upsert failed: %v", err)
	}

	got, err := s.ListCategories()
	if err != nil {
		t.Fatalf("ListCategories failed: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("category count = %d, want 2", len(got))
	}
	for _, c := range got {
		if c.Name == "お知らせ" && c.Color != "#EF4444" {
			t.Errorf("upsert should update color, got %q", c.Color)
		}
	}
}

func TestProfiles(t *testing.T) {
	s := setupTestStore(t)

	hash, err := HashPassword("correct horse battery staple")
	if err != nil {
		t.Fatalf("HashPassword failed: %v", err)
	}

	now := time.Now()
	profile := Profile{
		ID:           "u1",
		Email:        "editor@kuriyama-sewing.example",
		Name:         "Editor",
		Role:         RoleEditor,
		PasswordHash: hash,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.SaveProfile(profile); err != nil {
		t.Fatalf("SaveProfile failed: %v", err)
	}

	got, err := s.GetProfileByEmail("editor@kuriyama-sewing.example")
	if err != nil {
		t.Fatalf("GetProfileByEmail failed: %v", err)
	}
	if got.Role != RoleEditor {
		t.Errorf("Role = %q, want editor", got.Role)
	}
	if len(got.PasswordHash) == 0 {
		t.Error("PasswordHash should round-trip")
	}

	role, err := s.GetProfileRole("u1")
	if err != nil {
		t.Fatalf("GetProfileRole failed: %v", err)
	}
	if !role.Authorized() {
		t.Errorf("editor role should be authorized, got %q", role)
	}

	if _, err := s.GetProfileRole("nobody"); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound for unknown profile, got %v", err)
	}
}

func TestImages(t *testing.T) {
	s := setupTestStore(t)

	img := Image{
		Path:         "blog-images/1-abc.png",
		OriginalName: "photo.png",
		Width:        800,
		Height:       600,
		Size:         12345,
		UploadedAt:   time.Now(),
	}
	if err := s.SaveImage(img); err != nil {
		t.Fatalf("SaveImage failed: %v", err)
	}

	got, err := s.ListImages()
	if err != nil {
		t.Fatalf("ListImages failed: %v", err)
	}
	if len(got) != 1 || got[0].Width != 800 {
		t.Errorf("ListImages = %v, want one 800px image", got)
	}

	if err := s.DeleteImage("blog-images/1-abc.png"); err != nil {
		t.Fatalf("DeleteImage failed: %v", err)
	}
	got, _ = s.ListImages()
	if len(got) != 0 {
		t.Errorf("images should be empty after delete, got %v", got)
	}
}

func TestParseTags(t *testing.T) {
	tests := []struct {
		input string
		want  []string
	}{
		{"", nil},
		{",", nil},
		{",go,", []string{"go"}},
		{",sewing,factory,", []string{"sewing", "factory"}},
		{",sewing, factory ,denim,", []string{"sewing", "factory", "denim"}},
	}

	for _, tt := range tests {
		got := ParseTags(tt.input)
		if len(got) != len(tt.want) {
			t.Errorf("ParseTags(%q) = %v, want %v", tt.input, got, tt.want)
			continue
		}
		for i := range got {
			if got[i] != tt.want[i] {
				t.Errorf("ParseTags(%q)[%d] = %q, want %q", tt.input, i, got[i], tt.want[i])
			}
		}
	}
}

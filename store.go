package sewpress

import (
	"database/sql"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite"
)

// Store wraps a SQLite database and provides the record-store surface the
// engine needs: filter-by-equality, order-by-column, limit-N, and
// single-row CRUD by unique key. No joins, no cross-entity transactions.
type Store struct {
	db *sql.DB
}

// NewStore opens (or creates) the SQLite database at path, ensures the data
// directory exists, and runs schema migrations.
func NewStore(path string) (*Store, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	// WAL for concurrent read/write access, busy_timeout so writers wait
	// instead of failing with SQLITE_BUSY; synchronous=NORMAL is safe with
	// WAL and avoids an fsync per transaction.
	if _, err := db.Exec(`
		PRAGMA journal_mode=WAL;
		PRAGMA busy_timeout=5000;
		PRAGMA synchronous=NORMAL;
	`); err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(4)
	db.SetMaxIdleConns(4)
	s := &Store{db: db}
	if err := s.ensureSchema(); err != nil {
		return nil, err
	}
	return s, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) ensureSchema() error {
	_, err := s.db.Exec(`
CREATE TABLE IF NOT EXISTS posts (
    id TEXT PRIMARY KEY,
    title TEXT NOT NULL,
    slug TEXT NOT NULL UNIQUE,
    excerpt TEXT,
    content TEXT NOT NULL,
    category TEXT,
    tags TEXT NOT NULL DEFAULT '',
    status TEXT NOT NULL DEFAULT 'draft',
    featured_image TEXT,
    meta_title TEXT,
    meta_description TEXT,
    author_id TEXT,
    created_at TEXT NOT NULL,
    updated_at TEXT NOT NULL,
    published_at TEXT
);
CREATE TABLE IF NOT EXISTS categories (
    id TEXT PRIMARY KEY,
    name TEXT NOT NULL UNIQUE,
    description TEXT,
    color TEXT NOT NULL DEFAULT '#6B7280',
    created_at TEXT NOT NULL
);
CREATE TABLE IF NOT EXISTS profiles (
    id TEXT PRIMARY KEY,
    email TEXT NOT NULL UNIQUE,
    name TEXT,
    role TEXT NOT NULL DEFAULT 'editor',
    password_hash BLOB NOT NULL,
    avatar_url TEXT,
    created_at TEXT NOT NULL,
    updated_at TEXT NOT NULL
);
CREATE TABLE IF NOT EXISTS images (
    path TEXT PRIMARY KEY,
    original_name TEXT NOT NULL,
    width INTEGER NOT NULL DEFAULT 0,
    height INTEGER NOT NULL DEFAULT 0,
    size INTEGER NOT NULL DEFAULT 0,
    uploaded_at TEXT NOT NULL
);
`)
	return err
}

const postColumns = `id, title, slug, excerpt, content, category, tags, status,
	featured_image, meta_title, meta_description, author_id,
	created_at, updated_at, published_at`

// PostFilter narrows and orders a post listing. Zero values mean "no
// filter". OrderBy must be one of the orderBy* constants; anything else
// falls back to updated_at descending.
type PostFilter struct {
	Status    Status
	Category  string
	ExcludeID string
	Limit     int
	OrderBy   string
}

const (
	OrderByUpdated   = "updated_at"
	OrderByPublished = "published_at"
)

// ListPosts returns posts matching the filter, newest first by the chosen
// column.
func (s *Store) ListPosts(f PostFilter) ([]Post, error) {
	query := `SELECT ` + postColumns + ` FROM posts`
	var conds []string
	var args []any
	if f.Status != "" {
		conds = append(conds, "status = ?")
		args = append(args, string(f.Status))
	}
	if f.Category != "" {
		conds = append(conds, "category = ?")
		args = append(args, f.Category)
	}
	if f.ExcludeID != "" {
		conds = append(conds, "id != ?")
		args = append(args, f.ExcludeID)
	}
	if len(conds) > 0 {
		query += " WHERE " + strings.Join(conds, " AND ")
	}
	order := f.OrderBy
	if order != OrderByPublished {
		order = OrderByUpdated
	}
	query += " ORDER BY " + order + " DESC"
	if f.Limit > 0 {
		query += " LIMIT ?"
		args = append(args, f.Limit)
	}

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var posts []Post
	for rows.Next() {
		p, err := scanPost(rows)
		if err != nil {
			return nil, err
		}
		posts = append(posts, p)
	}
	return posts, rows.Err()
}

// GetPost returns a post by id regardless of status (admin view).
func (s *Store) GetPost(id string) (Post, error) {
	row := s.db.QueryRow(`SELECT `+postColumns+` FROM posts WHERE id = ?`, id)
	return scanPost(row)
}

// GetPublishedBySlug returns a published post by slug. Drafts and archived
// posts have no public route and come back as ErrNotFound.
func (s *Store) GetPublishedBySlug(slug string) (Post, error) {
	row := s.db.QueryRow(`SELECT `+postColumns+` FROM posts WHERE slug = ? AND status = ?`,
		slug, string(StatusPublished))
	return scanPost(row)
}

// InsertPost writes a new post. The slug UNIQUE constraint is the only
// cross-post invariant; violations surface verbatim to the caller.
func (s *Store) InsertPost(p Post) error {
	_, err := s.db.Exec(`INSERT INTO posts (`+postColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		p.ID, p.Title, p.Slug, nullable(p.Excerpt), p.Content, nullable(p.Category),
		joinTags(p.Tags), string(p.Status), nullable(p.FeaturedImage),
		nullable(p.MetaTitle), nullable(p.MetaDescription), nullable(p.AuthorID),
		formatTime(p.CreatedAt), formatTime(p.UpdatedAt), nullableTime(p.PublishedAt))
	return err
}

// UpdatePost overwrites every mutable column of the post row. Two
// concurrent edits both succeed; last write wins.
func (s *Store) UpdatePost(p Post) error {
	res, err := s.db.Exec(`UPDATE posts SET title = ?, slug = ?, excerpt = ?, content = ?,
		category = ?, tags = ?, status = ?, featured_image = ?, meta_title = ?,
		meta_description = ?, updated_at = ?, published_at = ? WHERE id = ?`,
		p.Title, p.Slug, nullable(p.Excerpt), p.Content, nullable(p.Category),
		joinTags(p.Tags), string(p.Status), nullable(p.FeaturedImage),
		nullable(p.MetaTitle), nullable(p.MetaDescription),
		formatTime(p.UpdatedAt), nullableTime(p.PublishedAt), p.ID)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err == nil && n == 0 {
		return ErrNotFound
	}
	return err
}

// DeletePost removes a post by id. Hard delete, no tombstone.
func (s *Store) DeletePost(id string) error {
	_, err := s.db.Exec(`DELETE FROM posts WHERE id = ?`, id)
	return err
}

// ListCategories returns all categories ordered by name. The engine only
// reads categories; they are managed elsewhere.
func (s *Store) ListCategories() ([]Category, error) {
	rows, err := s.db.Query(`SELECT id, name, description, color, created_at FROM categories ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var cats []Category
	for rows.Next() {
		var c Category
		var desc sql.NullString
		var created string
		if err := rows.Scan(&c.ID, &c.Name, &desc, &c.Color, &created); err != nil {
			return nil, err
		}
		c.Description = desc.String
		c.CreatedAt = parseTime(created)
		cats = append(cats, c)
	}
	return cats, rows.Err()
}

// SaveCategory upserts a category by name.
func (s *Store) SaveCategory(c Category) error {
	_, err := s.db.Exec(`INSERT INTO categories (id, name, description, color, created_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(name) DO UPDATE SET description = excluded.description, color = excluded.color`,
		c.ID, c.Name, nullable(c.Description), c.Color, formatTime(c.CreatedAt))
	return err
}

// GetProfileByEmail returns the profile with the given login email.
func (s *Store) GetProfileByEmail(email string) (Profile, error) {
	row := s.db.QueryRow(`SELECT id, email, name, role, password_hash, avatar_url, created_at, updated_at
		FROM profiles WHERE email = ?`, email)
	return scanProfile(row)
}

// GetProfileRole looks up the role for an identity. The access guard calls
// this on every admin request; there is no cached authorization state.
func (s *Store) GetProfileRole(id string) (Role, error) {
	var role string
	err := s.db.QueryRow(`SELECT role FROM profiles WHERE id = ?`, id).Scan(&role)
	if err != nil {
		return "", err
	}
	return Role(role), nil
}

// SaveProfile upserts a staff profile by email.
func (s *Store) SaveProfile(p Profile) error {
	_, err := s.db.Exec(`INSERT INTO profiles (id, email, name, role, password_hash, avatar_url, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(email) DO UPDATE SET name = excluded.name, role = excluded.role,
			password_hash = excluded.password_hash, updated_at = excluded.updated_at`,
		p.ID, p.Email, nullable(p.Name), string(p.Role), p.PasswordHash,
		nullable(p.AvatarURL), formatTime(p.CreatedAt), formatTime(p.UpdatedAt))
	return err
}

// SaveImage records upload metadata for the media library.
func (s *Store) SaveImage(img Image) error {
	_, err := s.db.Exec(`INSERT OR REPLACE INTO images (path, original_name, width, height, size, uploaded_at)
		VALUES (?, ?, ?, ?, ?, ?)`,
		img.Path, img.OriginalName, img.Width, img.Height, img.Size, formatTime(img.UploadedAt))
	return err
}

// ListImages returns upload metadata, newest first.
func (s *Store) ListImages() ([]Image, error) {
	rows, err := s.db.Query(`SELECT path, original_name, width, height, size, uploaded_at
		FROM images ORDER BY uploaded_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var images []Image
	for rows.Next() {
		var img Image
		var uploaded string
		if err := rows.Scan(&img.Path, &img.OriginalName, &img.Width, &img.Height, &img.Size, &uploaded); err != nil {
			return nil, err
		}
		img.UploadedAt = parseTime(uploaded)
		images = append(images, img)
	}
	return images, rows.Err()
}

// DeleteImage removes upload metadata by path.
func (s *Store) DeleteImage(path string) error {
	_, err := s.db.Exec(`DELETE FROM images WHERE path = ?`, path)
	return err
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanPost(row rowScanner) (Post, error) {
	var p Post
	var excerpt, category, featured, metaTitle, metaDesc, authorID, publishedAt sql.NullString
	var tags, created, updated string
	var status string
	err := row.Scan(&p.ID, &p.Title, &p.Slug, &excerpt, &p.Content, &category,
		&tags, &status, &featured, &metaTitle, &metaDesc, &authorID,
		&created, &updated, &publishedAt)
	if err != nil {
		return Post{}, err
	}
	p.Excerpt = excerpt.String
	p.Category = category.String
	p.Tags = ParseTags(tags)
	p.Status = Status(status)
	p.FeaturedImage = featured.String
	p.MetaTitle = metaTitle.String
	p.MetaDescription = metaDesc.String
	p.AuthorID = authorID.String
	p.CreatedAt = parseTime(created)
	p.UpdatedAt = parseTime(updated)
	if publishedAt.Valid {
		t := parseTime(publishedAt.String)
		p.PublishedAt = &t
	}
	return p, nil
}

func scanProfile(row rowScanner) (Profile, error) {
	var p Profile
	var name, avatar sql.NullString
	var role, created, updated string
	err := row.Scan(&p.ID, &p.Email, &name, &role, &p.PasswordHash, &avatar, &created, &updated)
	if err != nil {
		return Profile{}, err
	}
	p.Name = name.String
	p.Role = Role(role)
	p.AvatarURL = avatar.String
	p.CreatedAt = parseTime(created)
	p.UpdatedAt = parseTime(updated)
	return p, nil
}

// nullable maps the empty string to NULL so optional fields are absent, not
// blank, in the database.
func nullable(s string) any {
	if s == "" {
		return nil
	}
	return s
}

func nullableTime(t *time.Time) any {
	if t == nil {
		return nil
	}
	return formatTime(*t)
}

func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}

func parseTime(s string) time.Time {
	t, _ := time.Parse(time.RFC3339Nano, s)
	return t
}

// joinTags stores tags comma-wrapped (",a,b,") so equality and containment
// checks stay trivial; ParseTags reverses it.
func joinTags(tags []string) string {
	if len(tags) == 0 {
		return ""
	}
	normalized := make([]string, len(tags))
	for i, t := range tags {
		normalized[i] = strings.TrimSpace(t)
	}
	return "," + strings.Join(normalized, ",") + ","
}

// ParseTags splits a comma-delimited tag string (e.g. ",go,web,") into a slice.
func ParseTags(tagString string) []string {
	tagString = strings.Trim(tagString, ",")
	if tagString == "" {
		return nil
	}
	parts := strings.Split(tagString, ",")
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}
	return parts
}

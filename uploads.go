package sewpress

import (
	"bytes"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	"image/jpeg"
	_ "image/png"
	"io"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"golang.org/x/image/draw"
	_ "golang.org/x/image/webp"
)

// maxUploadSize caps a single image upload at 5 MiB.
const maxUploadSize = 5 << 20

const (
	uploadPrefix = "blog-images/"
	thumbPrefix  = "blog-images/thumbs/"
	thumbWidth   = 320
)

// BlobStore persists uploaded image bytes under opaque keys and serves them
// at public URLs. The default implementation writes to the static dir; sites
// swap in object storage via WithBlobStore.
type BlobStore interface {
	PutObject(key string, data []byte) error
	DeleteObject(key string) error
	PublicURL(key string) string
}

// DiskBlobStore stores blobs as files under the static directory, where the
// /public route already serves them.
type DiskBlobStore struct {
	root    string
	baseURL string
}

// NewDiskBlobStore creates a blob store rooted at dir. Keys become file
// paths under dir and URLs under baseURL/public/.
func NewDiskBlobStore(dir, baseURL string) *DiskBlobStore {
	return &DiskBlobStore{root: dir, baseURL: strings.TrimSuffix(baseURL, "/")}
}

func (d *DiskBlobStore) PutObject(key string, data []byte) error {
	full := filepath.Join(d.root, filepath.FromSlash(key))
	if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
		return err
	}
	return os.WriteFile(full, data, 0o644)
}

func (d *DiskBlobStore) DeleteObject(key string) error {
	err := os.Remove(filepath.Join(d.root, filepath.FromSlash(key)))
	if err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

func (d *DiskBlobStore) PublicURL(key string) string {
	return d.baseURL + "/public/" + key
}

// handleUpload receives a multipart image from the admin editor, stores it
// in the blob store under a timestamped key, and returns the public URL as
// JSON. The editor inserts that URL straight into the post markup.
func (a *App) handleUpload(c echo.Context) error {
	if !a.isEditor(c) {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "Unauthorized"})
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		return uploadErrorResponse(c, &UploadError{Kind: UploadBadRequest, Err: errors.New("No file uploaded")})
	}
	if fileHeader.Size > maxUploadSize {
		return uploadErrorResponse(c, &UploadError{Kind: UploadBadRequest, Err: errors.New("File too large")})
	}
	if ct := fileHeader.Header.Get("Content-Type"); !strings.HasPrefix(ct, "image/") {
		return uploadErrorResponse(c, &UploadError{Kind: UploadBadRequest, Err: errors.New("Only image uploads are accepted")})
	}

	f, err := fileHeader.Open()
	if err != nil {
		return uploadErrorResponse(c, &UploadError{Kind: UploadInternal, Err: err})
	}
	defer f.Close()

	data, err := io.ReadAll(io.LimitReader(f, maxUploadSize+1))
	if err != nil {
		return uploadErrorResponse(c, &UploadError{Kind: UploadInternal, Err: err})
	}
	if len(data) > maxUploadSize {
		return uploadErrorResponse(c, &UploadError{Kind: UploadBadRequest, Err: errors.New("File too large")})
	}

	// Decoding the header proves the bytes really are an image and gives us
	// the dimensions for the media library.
	cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return uploadErrorResponse(c, &UploadError{Kind: UploadBadRequest, Err: errors.New("Unrecognized image format")})
	}

	key := uploadKey(fileHeader.Filename)
	if err := a.blobs.PutObject(key, data); err != nil {
		return uploadErrorResponse(c, &UploadError{Kind: UploadFailed, Err: err})
	}

	img := Image{
		Path:         key,
		URL:          a.blobs.PublicURL(key),
		OriginalName: fileHeader.Filename,
		Width:        cfg.Width,
		Height:       cfg.Height,
		Size:         len(data),
		UploadedAt:   time.Now(),
	}

	// Thumbnail generation is best effort. A post can reference the
	// full-size image even when the thumb failed.
	if thumbKey, err := a.putThumbnail(key, data); err == nil {
		img.ThumbURL = a.blobs.PublicURL(thumbKey)
	} else {
		c.Logger().Warnf("thumbnail for %s: %v", key, err)
	}

	if err := a.Store.SaveImage(img); err != nil {
		c.Logger().Warnf("save image metadata for %s: %v", key, err)
	}

	return c.JSON(http.StatusOK, echo.Map{
		"success": true,
		"url":     img.URL,
		"path":    img.Path,
	})
}

func uploadErrorResponse(c echo.Context, err *UploadError) error {
	code := http.StatusInternalServerError
	if err.Kind == UploadBadRequest {
		code = http.StatusBadRequest
	}
	return c.JSON(code, echo.Map{"error": err.Err.Error()})
}

// uploadKey builds a collision-free blob key from the upload time and a
// random token, keeping only the original file's extension.
func uploadKey(originalName string) string {
	tok := make([]byte, 6)
	rand.Read(tok)
	ext := strings.ToLower(path.Ext(originalName))
	if ext == "" {
		ext = ".bin"
	}
	return fmt.Sprintf("%s%d-%s%s", uploadPrefix, time.Now().UnixMilli(), hex.EncodeToString(tok), ext)
}

// putThumbnail scales the image down to thumbWidth and stores it as JPEG
// next to the original. Animated GIFs lose their animation; the media
// library only needs a still.
func (a *App) putThumbnail(key string, data []byte) (string, error) {
	src, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return "", err
	}
	bounds := src.Bounds()
	if bounds.Dx() <= thumbWidth {
		return "", errors.New("image narrower than thumbnail size")
	}
	h := bounds.Dy() * thumbWidth / bounds.Dx()
	dst := image.NewRGBA(image.Rect(0, 0, thumbWidth, h))
	draw.CatmullRom.Scale(dst, dst.Bounds(), src, bounds, draw.Over, nil)

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, dst, &jpeg.Options{Quality: 80}); err != nil {
		return "", err
	}
	thumbKey := thumbPrefix + strings.TrimPrefix(key, uploadPrefix)
	thumbKey = strings.TrimSuffix(thumbKey, path.Ext(thumbKey)) + ".jpg"
	if err := a.blobs.PutObject(thumbKey, buf.Bytes()); err != nil {
		return "", err
	}
	return thumbKey, nil
}

func (a *App) handleImageList(c echo.Context) error {
	images, err := a.Store.ListImages()
	if err != nil {
		return err
	}
	for i := range images {
		images[i].URL = a.blobs.PublicURL(images[i].Path)
	}
	return Render(c, a.Views.AdminImages(images, CsrfToken(c)))
}

func (a *App) handleImageDelete(c echo.Context) error {
	key := c.Param("*")
	if key == "" || strings.Contains(key, "..") {
		return c.String(http.StatusBadRequest, "bad image path")
	}
	if err := a.blobs.DeleteObject(key); err != nil {
		return err
	}
	thumbKey := thumbPrefix + strings.TrimPrefix(key, uploadPrefix)
	thumbKey = strings.TrimSuffix(thumbKey, path.Ext(thumbKey)) + ".jpg"
	_ = a.blobs.DeleteObject(thumbKey)
	if err := a.Store.DeleteImage(key); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

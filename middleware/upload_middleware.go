package middleware

import (
	"fmt"
	"mime/multipart"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"rentals-api/dto"
	"rentals-api/utils"

	"github.com/gin-gonic/gin"
)

// MediaContextKey is where the stored upload results are attached to the
// request context.
const MediaContextKey = "uploadedMedia"

// maxUploadSize caps every uploaded file at 50MB.
const maxUploadSize = 50 << 20

// uploadField describes one accepted multipart file field: how many files
// it takes, which MIME class they must have and which bucket they land in.
type uploadField struct {
	name       string
	maxCount   int
	mimePrefix string
	bucket     string
}

// propertyMediaFields routes files by field name. The "[]" variants exist
// because some form clients suffix repeated fields.
var propertyMediaFields = []uploadField{
	{name: "featured_image", maxCount: 1, mimePrefix: "image", bucket: "featured"},
	{name: "gallery_images", maxCount: 10, mimePrefix: "image", bucket: "gallery"},
	{name: "gallery_images[]", maxCount: 10, mimePrefix: "image", bucket: "gallery"},
	{name: "videos", maxCount: 3, mimePrefix: "video", bucket: "videos"},
	{name: "videos[]", maxCount: 3, mimePrefix: "video", bucket: "videos"},
}

// UploadPropertyMedia accepts the property media fields of a multipart
// request and stores them under uploadDir. Every file is validated before
// any file is written, so a rejected request leaves no files behind.
func UploadPropertyMedia(uploadDir string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !strings.HasPrefix(c.ContentType(), "multipart/") {
			c.Set(MediaContextKey, dto.UploadedMedia{})
			c.Next()
			return
		}

		form, err := c.MultipartForm()
		if err != nil {
			abortWithError(c, utils.NewValidationError("Invalid multipart form"))
			return
		}

		if err := validateMediaForm(form); err != nil {
			abortWithError(c, err)
			return
		}

		media, err := storeMediaForm(c, form, uploadDir)
		if err != nil {
			abortWithError(c, err)
			return
		}

		c.Set(MediaContextKey, media)
		c.Next()
	}
}

// MediaFromContext returns the stored upload results, if any.
func MediaFromContext(c *gin.Context) dto.UploadedMedia {
	value, exists := c.Get(MediaContextKey)
	if !exists {
		return dto.UploadedMedia{}
	}
	media, ok := value.(dto.UploadedMedia)
	if !ok {
		return dto.UploadedMedia{}
	}
	return media
}

func validateMediaForm(form *multipart.Form) error {
	known := make(map[string]uploadField, len(propertyMediaFields))
	for _, field := range propertyMediaFields {
		known[field.name] = field
	}

	// Counts are per bucket, so the "[]" alias shares the limit of its
	// bare field instead of doubling it.
	counts := make(map[string]int)

	for name, files := range form.File {
		field, ok := known[name]
		if !ok {
			return utils.NewValidationError(fmt.Sprintf("Unexpected file field %s", name))
		}
		counts[field.bucket] += len(files)
		for _, file := range files {
			if file.Size > maxUploadSize {
				return utils.NewValidationError(fmt.Sprintf("File %s exceeds the 50MB limit", file.Filename))
			}
			contentType := file.Header.Get("Content-Type")
			if !strings.HasPrefix(contentType, field.mimePrefix) {
				return utils.NewUnsupportedMediaError(fmt.Sprintf("Invalid file type for %s", name))
			}
		}
	}

	for _, field := range propertyMediaFields {
		if counts[field.bucket] > field.maxCount {
			return utils.NewValidationError(fmt.Sprintf("Too many files for %s", strings.TrimSuffix(field.name, "[]")))
		}
	}
	return nil
}

func storeMediaForm(c *gin.Context, form *multipart.Form, uploadDir string) (dto.UploadedMedia, error) {
	var media dto.UploadedMedia

	for _, field := range propertyMediaFields {
		for _, file := range form.File[field.name] {
			stored, err := storeFile(c, file, field, uploadDir)
			if err != nil {
				return media, err
			}

			switch field.bucket {
			case "featured":
				media.FeaturedImage = &stored
			case "gallery":
				media.GalleryImages = append(media.GalleryImages, stored)
			case "videos":
				media.Videos = append(media.Videos, stored)
			}
		}
	}

	return media, nil
}

func storeFile(c *gin.Context, file *multipart.FileHeader, field uploadField, uploadDir string) (dto.UploadedFile, error) {
	dir := filepath.Join(uploadDir, "properties", field.bucket)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return dto.UploadedFile{}, err
	}

	ext := filepath.Ext(file.Filename)
	name := fmt.Sprintf("%s-%d%s", strings.TrimSuffix(field.name, "[]"), time.Now().UnixNano(), ext)
	diskPath := filepath.Join(dir, name)

	if err := c.SaveUploadedFile(file, diskPath); err != nil {
		return dto.UploadedFile{}, err
	}

	rel := path.Join("properties", field.bucket, name)
	return dto.UploadedFile{Path: diskPath, URL: publicURL(c, rel)}, nil
}

// publicURL builds the address a stored file is served from through the
// /uploads static route, independent of where UPLOAD_DIR points on disk.
func publicURL(c *gin.Context, rel string) string {
	scheme := "http"
	if c.Request.TLS != nil {
		scheme = "https"
	}
	return fmt.Sprintf("%s://%s/uploads/%s", scheme, c.Request.Host, rel)
}

package dto

// UploadedFile is a stored media file: its path on disk and the public
// URL built from the request's scheme and host.
type UploadedFile struct {
	Path string
	URL  string
}

// UploadedMedia groups the files accepted from one multipart request,
// routed by form field.
type UploadedMedia struct {
	FeaturedImage *UploadedFile
	GalleryImages []UploadedFile
	Videos        []UploadedFile
}

// Paths returns the on-disk paths of every uploaded file, for
// compensating cleanup when the database write fails.
func (m *UploadedMedia) Paths() []string {
	var paths []string
	if m.FeaturedImage != nil {
		paths = append(paths, m.FeaturedImage.Path)
	}
	for _, f := range m.GalleryImages {
		paths = append(paths, f.Path)
	}
	for _, f := range m.Videos {
		paths = append(paths, f.Path)
	}
	return paths
}

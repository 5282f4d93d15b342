// Package staging maintains the client-side list of files queued for upload:
// validation, preview resources, and the multipart batch submission.
package staging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/cardscan-dev/cardboard/pkg/api"
)

// allowedTypes matches the backend's accepted image formats.
var allowedTypes = map[string]bool{
	"image/png":  true,
	"image/jpeg": true,
	"image/jpg":  true,
	"image/webp": true,
}

// extensionTypes resolves a content type from the filename when sniffing the
// bytes is inconclusive.
var extensionTypes = map[string]string{
	".png":  "image/png",
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".webp": "image/webp",
}

// ValidationError is a rejection with a user-facing reason; no network call
// is made for a file that fails validation.
type ValidationError struct {
	Filename string
	Reason   string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Filename, e.Reason)
}

// File is one staged upload entry.
type File struct {
	ID          string
	Name        string
	Size        int64
	ContentType string
	Path        string

	// previewPath is the staged preview resource; its lifetime is scoped
	// exactly to staging membership.
	previewPath string
}

// PreviewPath returns the file's preview resource path, or "" once the file
// has been removed from staging.
func (f *File) PreviewPath() string {
	return f.previewPath
}

// Intake is the staged-file list. It is confined to the UI event loop, so it
// carries no locking; the in-progress flag is the only guard against
// overlapping submissions.
type Intake struct {
	previewDir string
	files      []*File
	inProgress bool
}

// NewIntake creates an Intake that stores preview resources under previewDir.
func NewIntake(previewDir string) *Intake {
	return &Intake{previewDir: previewDir}
}

// Add validates and stages the file at path. Unsupported types and exact
// duplicate (name, size) pairs are rejected with distinct reasons.
func (i *Intake) Add(path string) (*File, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("error reading %s: %w", path, err)
	}

	name := filepath.Base(path)

	contentType, ok := extensionTypes[strings.ToLower(filepath.Ext(name))]
	if !ok || !allowedTypes[contentType] {
		return nil, &ValidationError{
			Filename: name,
			Reason:   "Unsupported file format. Please upload PNG, JPG, JPEG, or WEBP only.",
		}
	}

	for _, staged := range i.files {
		if staged.Name == name && staged.Size == info.Size() {
			return nil, &ValidationError{Filename: name, Reason: "File already selected"}
		}
	}

	file := &File{
		ID:          uuid.NewString(),
		Name:        name,
		Size:        info.Size(),
		ContentType: contentType,
		Path:        path,
	}

	previewPath, err := i.createPreview(file)
	if err != nil {
		return nil, err
	}

	file.previewPath = previewPath
	i.files = append(i.files, file)

	return file, nil
}

// createPreview copies the image into the preview dir, the terminal analog of
// an object URL: a resource owned by the staging entry.
func (i *Intake) createPreview(file *File) (string, error) {
	if err := os.MkdirAll(i.previewDir, 0o755); err != nil {
		return "", fmt.Errorf("error creating preview dir: %w", err)
	}

	src, err := os.Open(file.Path)
	if err != nil {
		return "", fmt.Errorf("error opening %s: %w", file.Path, err)
	}
	defer src.Close()

	previewPath := filepath.Join(i.previewDir, file.ID+filepath.Ext(file.Name))

	dst, err := os.Create(previewPath)
	if err != nil {
		return "", fmt.Errorf("error creating preview for %s: %w", file.Name, err)
	}
	defer dst.Close()

	if _, err := io.Copy(dst, src); err != nil {
		return "", fmt.Errorf("error copying preview for %s: %w", file.Name, err)
	}

	return previewPath, nil
}

// Remove drops exactly one staged entry and deletes its preview resource.
func (i *Intake) Remove(id string) bool {
	for idx, file := range i.files {
		if file.ID != id {
			continue
		}

		i.releasePreview(file)
		i.files = append(i.files[:idx], i.files[idx+1:]...)

		return true
	}

	return false
}

// Clear removes all staged entries and their preview resources.
func (i *Intake) Clear() {
	for _, file := range i.files {
		i.releasePreview(file)
	}

	i.files = nil
}

func (i *Intake) releasePreview(file *File) {
	if file.previewPath == "" {
		return
	}

	if err := os.Remove(file.previewPath); err != nil && !os.IsNotExist(err) {
		log.Warn().Err(err).Str("file", file.Name).Msg("couldn't remove preview resource")
	}

	file.previewPath = ""
}

// Files returns the staged entries in order.
func (i *Intake) Files() []*File {
	return i.files
}

// Count returns the number of staged entries.
func (i *Intake) Count() int {
	return len(i.files)
}

// CountLabel renders the file counter the way the upload header shows it.
func (i *Intake) CountLabel() string {
	if len(i.files) == 1 {
		return "1 file"
	}

	return fmt.Sprintf("%d files", len(i.files))
}

// Begin marks a submission in progress; a second submission before Finish is
// refused.
func (i *Intake) Begin() error {
	if i.inProgress {
		return fmt.Errorf("upload already in progress")
	}

	if len(i.files) == 0 {
		return fmt.Errorf("please select at least one file")
	}

	i.inProgress = true

	return nil
}

// Finish clears the in-progress flag.
func (i *Intake) Finish() {
	i.inProgress = false
}

// InProgress reports whether a submission is outstanding.
func (i *Intake) InProgress() bool {
	return i.inProgress
}

// Batch opens every staged file for upload. The caller owns the readers and
// must close them via the returned closer.
func (i *Intake) Batch() ([]api.UploadFile, func(), error) {
	files := make([]api.UploadFile, 0, len(i.files))

	var opened []*os.File

	closeAll := func() {
		for _, f := range opened {
			f.Close()
		}
	}

	for _, staged := range i.files {
		f, err := os.Open(staged.Path)
		if err != nil {
			closeAll()

			return nil, nil, fmt.Errorf("error opening %s: %w", staged.Name, err)
		}

		opened = append(opened, f)
		files = append(files, api.UploadFile{
			Name:        staged.Name,
			ContentType: staged.ContentType,
			Reader:      f,
		})
	}

	return files, closeAll, nil
}

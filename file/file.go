package file

import (
	"errors"
	"io"
	"io/fs"
	"mime"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/andrejsstepanovs/collab/apperrors"
	"github.com/andrejsstepanovs/collab/models"
)

// ProbeSize is how many bytes are read to prove a file is readable.
const ProbeSize = 100

// Info is what Inspect learned about a local file.
type Info struct {
	Path     string
	Name     string
	MimeType string
	Size     int64
}

// Document returns the upload record for the file in the given status.
func (i Info) Document(status models.DocumentStatus) models.UploadedDocument {
	return models.UploadedDocument{
		URI:      i.Path,
		Name:     i.Name,
		MimeType: i.MimeType,
		Size:     i.Size,
		Status:   status,
	}
}

// Inspect checks, in order, that the file exists, is not empty and that its
// first bytes can be read. Each failure is a *apperrors.FileAccessError.
// Name and MIME type declared on ref win over derived ones.
func Inspect(ref models.FileRef) (Info, error) {
	stat, err := os.Stat(ref.Path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return Info{}, &apperrors.FileAccessError{Kind: apperrors.ErrFileNotFound, Path: ref.Path}
		}
		return Info{}, &apperrors.FileAccessError{Kind: apperrors.ErrFileUnreadable, Path: ref.Path, Cause: err}
	}
	if stat.IsDir() {
		return Info{}, &apperrors.FileAccessError{Kind: apperrors.ErrFileUnreadable, Path: ref.Path, Cause: errors.New("is a directory")}
	}
	if stat.Size() == 0 {
		return Info{}, &apperrors.FileAccessError{Kind: apperrors.ErrFileEmpty, Path: ref.Path}
	}

	head, err := probe(ref.Path)
	if err != nil {
		return Info{}, &apperrors.FileAccessError{Kind: apperrors.ErrFileUnreadable, Path: ref.Path, Cause: err}
	}

	info := Info{
		Path:     ref.Path,
		Name:     ref.Name,
		MimeType: ref.MimeType,
		Size:     stat.Size(),
	}
	if info.Name == "" {
		info.Name = filepath.Base(ref.Path)
	}
	if info.MimeType == "" {
		info.MimeType = DetectMimeType(info.Name, head)
	}
	return info, nil
}

func probe(path string) ([]byte, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	head := make([]byte, ProbeSize)
	n, err := io.ReadFull(f, head)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) {
		return nil, err
	}
	return head[:n], nil
}

// DetectMimeType prefers the extension and falls back to content sniffing.
func DetectMimeType(name string, head []byte) string {
	if ext := strings.ToLower(filepath.Ext(name)); ext != "" {
		if byExt := mime.TypeByExtension(ext); byExt != "" {
			return byExt
		}
	}
	return http.DetectContentType(head)
}

// Extension returns the upper-cased extension without the dot, e.g. "PDF".
func Extension(name string) string {
	return strings.ToUpper(strings.TrimPrefix(filepath.Ext(name), "."))
}

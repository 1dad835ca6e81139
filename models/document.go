package models

// DocumentStatus tracks a single selected document through the upload.
type DocumentStatus string

const (
	DocumentSelected  DocumentStatus = "selected"
	DocumentUploading DocumentStatus = "uploading"
	DocumentUploaded  DocumentStatus = "uploaded"
	DocumentFailed    DocumentStatus = "failed"
)

// FileRef is a reference to a local file picked by the user.
// Name and MimeType are optional and derived from the file when empty.
type FileRef struct {
	Path     string
	Name     string
	MimeType string
}

// UploadedDocument describes one in-flight or completed upload.
type UploadedDocument struct {
	URI      string         `json:"uri"`
	Name     string         `json:"name"`
	MimeType string         `json:"mimeType"`
	Size     int64          `json:"size"`
	Status   DocumentStatus `json:"status"`
}

// RemoteDocument is a server confirmed upload.
type RemoteDocument struct {
	Document UploadedDocument `json:"document"`
	// URL is the url exactly as returned by the server.
	URL string `json:"url"`
	// ResolvedURL is URL joined with the API base url.
	ResolvedURL string `json:"resolvedUrl"`
}

// UploadResponse is the body returned by POST /files/upload.
type UploadResponse struct {
	Filename     string `json:"filename"`
	OriginalName string `json:"originalName"`
	URL          string `json:"url"`
	Size         string `json:"size"`
	Type         string `json:"type"`
}

// PlagiarismResult is the body returned by POST /plagiarism/check.
type PlagiarismResult struct {
	Score           float64 `json:"score"`
	OriginalContent float64 `json:"originalContent"`
}

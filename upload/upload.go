package upload

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/andrejsstepanovs/collab/apperrors"
	"github.com/andrejsstepanovs/collab/file"
	"github.com/andrejsstepanovs/collab/models"
	"github.com/rs/zerolog"
)

const DefaultTimeout = 30 * time.Second

// Sender performs the multipart request.
type Sender interface {
	UploadFile(ctx context.Context, doc models.UploadedDocument, content io.Reader) (models.UploadResponse, error)
}

// URLResolver turns a server relative url into an absolute one.
type URLResolver interface {
	ResolveURL(path string) string
}

// Workflow uploads one document at a time on behalf of a single screen.
// Starting a new upload supersedes the previous one: its result is dropped
// but its request is left to finish. The last uploaded document is only
// replaced by a later successful upload.
type Workflow struct {
	sender    Sender
	resolver  URLResolver
	timeout   time.Duration
	estimator Estimator
	log       zerolog.Logger

	mu         sync.Mutex
	generation uint64
	current    *models.RemoteDocument
}

type Option func(*Workflow)

func WithTimeout(timeout time.Duration) Option {
	return func(w *Workflow) {
		w.timeout = timeout
	}
}

func WithEstimator(estimator Estimator) Option {
	return func(w *Workflow) {
		w.estimator = estimator
	}
}

// WithResolver fills RemoteDocument.ResolvedURL.
func WithResolver(resolver URLResolver) Option {
	return func(w *Workflow) {
		w.resolver = resolver
	}
}

func New(sender Sender, log zerolog.Logger, opts ...Option) *Workflow {
	w := &Workflow{
		sender:    sender,
		timeout:   DefaultTimeout,
		estimator: DefaultEstimator(),
		log:       log.With().Str("component", "upload").Logger(),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Upload checks the file, sends it and returns the server confirmed document.
// progress may be nil. It reports a simulated ramp while the request is
// outstanding and Complete exactly once, after a successful response.
func (w *Workflow) Upload(ctx context.Context, ref models.FileRef, progress ProgressFunc) (models.RemoteDocument, error) {
	gen := w.begin()

	info, err := file.Inspect(ref)
	if err != nil {
		w.log.Debug().Err(err).Str("path", ref.Path).Msg("file precondition failed")
		return models.RemoteDocument{}, err
	}

	doc := info.Document(models.DocumentUploading)

	f, err := os.Open(info.Path)
	if err != nil {
		return models.RemoteDocument{}, &apperrors.FileAccessError{Kind: apperrors.ErrFileUnreadable, Path: info.Path, Cause: err}
	}
	defer f.Close()

	report := func(percent int) {
		if progress != nil && w.isCurrent(gen) {
			progress(percent)
		}
	}

	uploadCtx, cancel := context.WithTimeout(ctx, w.timeout)
	defer cancel()

	done := make(chan struct{})
	stopped := make(chan struct{})
	go func() {
		defer close(stopped)
		w.estimator.run(done, report)
	}()

	w.log.Debug().Str("name", doc.Name).Str("mime", doc.MimeType).Int64("size", doc.Size).Msg("uploading document")
	res, err := w.sender.UploadFile(uploadCtx, doc, f)

	close(done)
	<-stopped

	if err != nil {
		err = w.classify(ctx, uploadCtx, err)
		w.log.Debug().Err(err).Str("name", doc.Name).Msg("upload failed")
		if !w.isCurrent(gen) {
			return models.RemoteDocument{}, apperrors.ErrSuperseded
		}
		return models.RemoteDocument{}, err
	}

	doc.Status = models.DocumentUploaded
	remote := models.RemoteDocument{
		Document:    doc,
		URL:         res.URL,
		ResolvedURL: res.URL,
	}
	if w.resolver != nil {
		remote.ResolvedURL = w.resolver.ResolveURL(res.URL)
	}

	if !w.complete(gen, remote) {
		w.log.Debug().Str("name", doc.Name).Msg("upload result dropped, superseded by newer selection")
		return models.RemoteDocument{}, apperrors.ErrSuperseded
	}

	report(Complete)
	return remote, nil
}

// classify maps a sender error to the upload error taxonomy.
func (w *Workflow) classify(parent, uploadCtx context.Context, err error) error {
	if errors.Is(uploadCtx.Err(), context.DeadlineExceeded) && parent.Err() == nil {
		return fmt.Errorf("%w after %s", apperrors.ErrUploadTimeout, w.timeout)
	}

	var statusErr *apperrors.StatusError
	if errors.As(err, &statusErr) {
		return &apperrors.UploadRejectedError{StatusError: statusErr}
	}
	return err
}

// Current returns the last successfully uploaded document. A failed or
// superseded upload leaves it untouched.
func (w *Workflow) Current() (models.RemoteDocument, bool) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.current == nil {
		return models.RemoteDocument{}, false
	}
	return *w.current, true
}

// begin supersedes any upload in flight.
func (w *Workflow) begin() uint64 {
	w.mu.Lock()
	defer w.mu.Unlock()

	w.generation++
	return w.generation
}

func (w *Workflow) isCurrent(gen uint64) bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.generation == gen
}

func (w *Workflow) complete(gen uint64, remote models.RemoteDocument) bool {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.generation != gen {
		return false
	}
	w.current = &remote
	return true
}

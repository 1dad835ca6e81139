package plagiarism

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/andrejsstepanovs/collab/apperrors"
	"github.com/andrejsstepanovs/collab/file"
	"github.com/andrejsstepanovs/collab/models"
	"github.com/rs/zerolog"
)

// Scorer submits a document for scoring.
type Scorer interface {
	CheckPlagiarism(ctx context.Context, doc models.UploadedDocument, content io.Reader) (models.PlagiarismResult, error)
}

type Checker struct {
	scorer  Scorer
	timeout time.Duration
	log     zerolog.Logger
}

func New(scorer Scorer, timeout time.Duration, log zerolog.Logger) *Checker {
	return &Checker{
		scorer:  scorer,
		timeout: timeout,
		log:     log.With().Str("component", "plagiarism").Logger(),
	}
}

// Check validates the local file the same way an upload does and asks the
// server to score it.
func (c *Checker) Check(ctx context.Context, ref models.FileRef) (models.PlagiarismResult, error) {
	info, err := file.Inspect(ref)
	if err != nil {
		return models.PlagiarismResult{}, err
	}

	f, err := os.Open(info.Path)
	if err != nil {
		return models.PlagiarismResult{}, &apperrors.FileAccessError{Kind: apperrors.ErrFileUnreadable, Path: info.Path, Cause: err}
	}
	defer f.Close()

	checkCtx := ctx
	if c.timeout > 0 {
		var cancel context.CancelFunc
		checkCtx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	c.log.Debug().Str("name", info.Name).Int64("size", info.Size).Msg("checking document")
	res, err := c.scorer.CheckPlagiarism(checkCtx, info.Document(models.DocumentUploading), f)
	if err != nil {
		if errors.Is(checkCtx.Err(), context.DeadlineExceeded) && ctx.Err() == nil {
			return models.PlagiarismResult{}, fmt.Errorf("%w after %s", apperrors.ErrUploadTimeout, c.timeout)
		}
		return models.PlagiarismResult{}, fmt.Errorf("plagiarism check failed: %w", err)
	}

	c.log.Debug().Float64("score", res.Score).Float64("original", res.OriginalContent).Msg("document checked")
	return res, nil
}

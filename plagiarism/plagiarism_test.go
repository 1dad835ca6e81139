package plagiarism

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/andrejsstepanovs/collab/apperrors"
	"github.com/andrejsstepanovs/collab/client"
	"github.com/andrejsstepanovs/collab/models"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type noToken struct{}

func (noToken) Token(context.Context) (string, error) { return "", nil }

type scorerFunc func(ctx context.Context, doc models.UploadedDocument, content io.Reader) (models.PlagiarismResult, error)

func (f scorerFunc) CheckPlagiarism(ctx context.Context, doc models.UploadedDocument, content io.Reader) (models.PlagiarismResult, error) {
	return f(ctx, doc, content)
}

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestCheck(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/plagiarism/check", r.URL.Path)
		f, header, err := r.FormFile("file")
		if !assert.NoError(t, err) {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		defer f.Close()
		content, _ := io.ReadAll(f)
		assert.Equal(t, "essay.txt", header.Filename)
		assert.Equal(t, "my own words", string(content))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"score":12.5,"originalContent":87.5}`))
	}))
	defer server.Close()

	api := client.New(server.URL+"/api", noToken{}, zerolog.Nop())
	checker := New(api, time.Second, zerolog.Nop())

	res, err := checker.Check(context.Background(), models.FileRef{Path: writeFile(t, "essay.txt", "my own words")})
	require.NoError(t, err)
	assert.Equal(t, models.PlagiarismResult{Score: 12.5, OriginalContent: 87.5}, res)
}

func TestCheckPreconditions(t *testing.T) {
	called := false
	checker := New(scorerFunc(func(context.Context, models.UploadedDocument, io.Reader) (models.PlagiarismResult, error) {
		called = true
		return models.PlagiarismResult{}, nil
	}), time.Second, zerolog.Nop())

	testCases := []struct {
		name     string
		path     string
		expected error
	}{
		{name: "missing", path: filepath.Join(t.TempDir(), "nope.txt"), expected: apperrors.ErrFileNotFound},
		{name: "empty", path: writeFile(t, "empty.txt", ""), expected: apperrors.ErrFileEmpty},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := checker.Check(context.Background(), models.FileRef{Path: tc.path})
			assert.ErrorIs(t, err, tc.expected)
		})
	}
	assert.False(t, called)
}

func TestCheckTimeout(t *testing.T) {
	checker := New(scorerFunc(func(ctx context.Context, _ models.UploadedDocument, _ io.Reader) (models.PlagiarismResult, error) {
		<-ctx.Done()
		return models.PlagiarismResult{}, ctx.Err()
	}), 50*time.Millisecond, zerolog.Nop())

	_, err := checker.Check(context.Background(), models.FileRef{Path: writeFile(t, "a.txt", "abc")})
	assert.ErrorIs(t, err, apperrors.ErrUploadTimeout)
}

func TestCheckRejected(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"error":"scoring unavailable"}`))
	}))
	defer server.Close()

	checker := New(client.New(server.URL+"/api", noToken{}, zerolog.Nop()), time.Second, zerolog.Nop())

	_, err := checker.Check(context.Background(), models.FileRef{Path: writeFile(t, "a.txt", "abc")})
	var statusErr *apperrors.StatusError
	require.ErrorAs(t, err, &statusErr)
	assert.Equal(t, http.StatusInternalServerError, statusErr.StatusCode)
	assert.Equal(t, "scoring unavailable", apperrors.ServerMessage(err))
}

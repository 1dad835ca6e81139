package client

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/andrejsstepanovs/collab/apperrors"
	"github.com/andrejsstepanovs/collab/models"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type staticToken string

func (s staticToken) Token(context.Context) (string, error) {
	return string(s), nil
}

func newTestClient(t *testing.T, handler http.HandlerFunc, token string) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return New(server.URL+"/api", staticToken(token), zerolog.Nop())
}

func TestSignIn(t *testing.T) {
	var got models.Credentials
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/auth/signin", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		assert.Empty(t, r.Header.Get("Authorization"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"token":"jwt-abc","username":"alice","roles":["ROLE_USER"]}`))
	}, "")

	res, err := c.SignIn(context.Background(), models.Credentials{Username: "alice", Password: "secret"})
	require.NoError(t, err)

	assert.Equal(t, models.Credentials{Username: "alice", Password: "secret"}, got)
	assert.Equal(t, "jwt-abc", res.Token)
	assert.Equal(t, "alice", res.Username)
}

func TestSignInRejected(t *testing.T) {
	var unauthorized atomic.Int32
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"message":"Error: Invalid username or password"}`))
	}, "")
	c.OnUnauthorized(func() { unauthorized.Add(1) })

	_, err := c.SignIn(context.Background(), models.Credentials{Username: "alice", Password: "wrong"})
	require.Error(t, err)

	var statusErr *apperrors.StatusError
	require.ErrorAs(t, err, &statusErr)
	assert.Equal(t, http.StatusUnauthorized, statusErr.StatusCode)
	assert.Equal(t, "Error: Invalid username or password", statusErr.ServerMessage())
	assert.Equal(t, int32(1), unauthorized.Load())
}

func TestSignUpSendsDefaultRole(t *testing.T) {
	var got models.Registration
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/auth/signup", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		_, _ = w.Write([]byte(`{"message":"User registered successfully!"}`))
	}, "")

	err := c.SignUp(context.Background(), models.Registration{Username: "alice", Email: "alice@x.com", Password: "secret"})
	require.NoError(t, err)
	assert.Equal(t, []string{"user"}, got.Role)
	assert.Equal(t, "alice@x.com", got.Email)
}

func TestSignUpConflict(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"message":"Error: Username is already taken!"}`))
	}, "")

	err := c.SignUp(context.Background(), models.Registration{Username: "alice", Email: "alice@x.com", Password: "secret"})
	require.Error(t, err)
	assert.Equal(t, "Error: Username is already taken!", apperrors.ServerMessage(err))
}

func TestBearerTokenOnRequests(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer jwt-abc", r.Header.Get("Authorization"))
		assert.Equal(t, "/api/users", r.URL.Path)
		_, _ = w.Write([]byte(`[{"id":"1","username":"alice","email":"alice@x.com"},{"id":"2","username":"bob","email":"bob@x.com"}]`))
	}, "jwt-abc")

	users, err := c.Users(context.Background())
	require.NoError(t, err)
	require.Len(t, users, 2)
	assert.Equal(t, "bob", users[1].Username)
}

func TestRequestHeaders(t *testing.T) {
	testCases := []struct {
		name        string
		token       string
		call        func(c *Client) error
		contentType string
	}{
		{
			name:  "get without session",
			call:  func(c *Client) error { _, err := c.Users(context.Background()); return err },
			token: "",
		},
		{
			name:  "get with session",
			token: "jwt-abc",
			call:  func(c *Client) error { _, err := c.CurrentUser(context.Background()); return err },
		},
		{
			name:        "json body",
			token:       "jwt-abc",
			call:        func(c *Client) error { _, err := c.UpdateProfile(context.Background(), models.ProfileUpdate{Name: "A"}); return err },
			contentType: "application/json",
		},
		{
			name:  "multipart body",
			token: "jwt-abc",
			call: func(c *Client) error {
				doc := models.UploadedDocument{Name: "a.txt", MimeType: "text/plain"}
				_, err := c.UploadFile(context.Background(), doc, strings.NewReader("abc"))
				return err
			},
			contentType: "multipart/form-data",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			var header http.Header
			c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				header = r.Header.Clone()
				_, _ = io.Copy(io.Discard, r.Body)
				if r.Method == http.MethodGet && r.URL.Path == "/api/users" {
					_, _ = w.Write([]byte(`[]`))
					return
				}
				_, _ = w.Write([]byte(`{}`))
			}, tc.token)

			require.NoError(t, tc.call(c))

			if tc.token == "" {
				assert.Empty(t, header.Values("Authorization"))
			} else {
				assert.Equal(t, []string{"Bearer " + tc.token}, header.Values("Authorization"))
			}

			if tc.contentType == "" {
				assert.Empty(t, header.Values("Content-Type"))
				return
			}
			require.Len(t, header.Values("Content-Type"), 1)
			assert.True(t, strings.HasPrefix(header.Get("Content-Type"), tc.contentType))
		})
	}
}

func TestUserByIDNotFound(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/users/missing", r.URL.Path)
		w.WriteHeader(http.StatusNotFound)
	}, "jwt-abc")

	_, err := c.User(context.Background(), "missing")
	var statusErr *apperrors.StatusError
	require.ErrorAs(t, err, &statusErr)
	assert.Equal(t, http.StatusNotFound, statusErr.StatusCode)
	assert.Nil(t, statusErr.Body)
}

func TestUnauthorizedHookFiresOnAnyEndpoint(t *testing.T) {
	var unauthorized atomic.Int32
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"message":"expired"}`))
	}, "stale")
	c.OnUnauthorized(func() { unauthorized.Add(1) })

	_, err := c.CurrentUser(context.Background())
	assert.True(t, apperrors.IsUnauthorized(err))

	_, err = c.UpdateProfile(context.Background(), models.ProfileUpdate{Name: "Alice"})
	assert.True(t, apperrors.IsUnauthorized(err))

	assert.Equal(t, int32(2), unauthorized.Load())
}

func TestUpdateProfile(t *testing.T) {
	var got models.ProfileUpdate
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPut, r.Method)
		assert.Equal(t, "/api/users/me", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		_, _ = w.Write([]byte(`{"message":"Profile updated successfully"}`))
	}, "jwt-abc")

	res, err := c.UpdateProfile(context.Background(), models.ProfileUpdate{Name: "Alice", Skills: []string{"go"}})
	require.NoError(t, err)
	assert.Equal(t, "Profile updated successfully", res.Message)
	assert.Equal(t, "Alice", got.Name)
	assert.Equal(t, []string{"go"}, got.Skills)
}

func TestUploadFileMultipart(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/files/upload", r.URL.Path)
		assert.Equal(t, "Bearer jwt-abc", r.Header.Get("Authorization"))
		assert.True(t, strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data"))

		file, header, err := r.FormFile("file")
		require.NoError(t, err)
		defer file.Close()
		content, err := io.ReadAll(file)
		require.NoError(t, err)

		assert.Equal(t, "report.pdf", header.Filename)
		assert.Equal(t, "application/pdf", header.Header.Get("Content-Type"))
		assert.Equal(t, "%PDF-1.4 body", string(content))

		_, _ = w.Write([]byte(`{"filename":"f1.pdf","originalName":"report.pdf","url":"/files/doc1.pdf","size":"13","type":"application/pdf"}`))
	}, "jwt-abc")

	doc := models.UploadedDocument{Name: "report.pdf", MimeType: "application/pdf", Size: 13}
	res, err := c.UploadFile(context.Background(), doc, strings.NewReader("%PDF-1.4 body"))
	require.NoError(t, err)
	assert.Equal(t, "/files/doc1.pdf", res.URL)
	assert.Equal(t, "report.pdf", res.OriginalName)
}

func TestUploadFileRejected(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"error":"Failed to upload file: disk full"}`))
	}, "")

	_, err := c.UploadFile(context.Background(), models.UploadedDocument{Name: "a.txt"}, strings.NewReader("x"))
	var statusErr *apperrors.StatusError
	require.ErrorAs(t, err, &statusErr)
	assert.Equal(t, http.StatusBadRequest, statusErr.StatusCode)
	assert.Equal(t, "Failed to upload file: disk full", statusErr.ServerMessage())
}

func TestCheckPlagiarism(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/plagiarism/check", r.URL.Path)
		_, header, err := r.FormFile("file")
		require.NoError(t, err)
		assert.Equal(t, "essay.txt", header.Filename)
		_, _ = w.Write([]byte(`{"score":12.5,"originalContent":87.5}`))
	}, "")

	res, err := c.CheckPlagiarism(context.Background(), models.UploadedDocument{Name: "essay.txt", MimeType: "text/plain"}, strings.NewReader("hello"))
	require.NoError(t, err)
	assert.Equal(t, models.PlagiarismResult{Score: 12.5, OriginalContent: 87.5}, res)
}

func TestNetworkError(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	url := server.URL
	server.Close()

	c := New(url, nil, zerolog.Nop())
	_, err := c.Users(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrNetwork)
}

func TestRequestTimeoutIsNetworkTimeout(t *testing.T) {
	release := make(chan struct{})
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer server.Close()
	defer close(release)

	c := New(server.URL, nil, zerolog.Nop())
	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	_, err := c.Users(ctx)
	var netErr *apperrors.NetworkError
	require.ErrorAs(t, err, &netErr)
	assert.True(t, netErr.Timeout)
}

func TestResolveURL(t *testing.T) {
	c := New("http://localhost:8082/api/", nil, zerolog.Nop())

	assert.Equal(t, "http://localhost:8082/api", c.BaseURL())
	assert.Equal(t, "http://localhost:8082/api/files/doc1.pdf", c.ResolveURL("/files/doc1.pdf"))
	assert.Equal(t, "http://localhost:8082/api/files/doc1.pdf", c.ResolveURL("files/doc1.pdf"))
	assert.Equal(t, "https://cdn.example.com/x.pdf", c.ResolveURL("https://cdn.example.com/x.pdf"))
	assert.Equal(t, "", c.ResolveURL(""))
}

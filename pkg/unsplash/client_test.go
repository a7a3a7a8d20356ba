package unsplash

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"picfetch/pkg/apierrors"
	"picfetch/pkg/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewClient(t *testing.T) {
	log := logger.NewTestLogger()
	client := NewClient(30*time.Second, log)

	assert.NotNil(t, client)
	assert.NotNil(t, client.httpClient)
	assert.Equal(t, BaseURL, client.baseURL)
	assert.Equal(t, DefaultAcceptVersion, client.headers["Accept-Version"])
}

func TestSetAccessKey(t *testing.T) {
	client := NewClient(30*time.Second, logger.NewTestLogger())
	client.SetAccessKey("my-key")

	assert.Equal(t, "Client-ID my-key", client.headers["Authorization"])
}

func TestSetBaseURL(t *testing.T) {
	client := NewClient(30*time.Second, logger.NewTestLogger())

	client.SetBaseURL("http://127.0.0.1:9999")
	assert.Equal(t, "http://127.0.0.1:9999", client.baseURL)

	// Empty string keeps the current base URL
	client.SetBaseURL("")
	assert.Equal(t, "http://127.0.0.1:9999", client.baseURL)
}

func TestFetchRandomPhotos(t *testing.T) {
	photos := []Photo{
		{ID: "aaa", URLs: map[string]string{"regular": "http://x/aaa"}},
		{ID: "bbb", URLs: map[string]string{"regular": "http://x/bbb"}},
	}

	var gotAuth, gotVersion, gotCount string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotVersion = r.Header.Get("Accept-Version")
		gotCount = r.URL.Query().Get("count")
		json.NewEncoder(w).Encode(photos)
	}))
	defer server.Close()

	client := NewClient(30*time.Second, logger.NewTestLogger())
	client.SetBaseURL(server.URL)
	client.SetAccessKey("test-key")

	got, err := client.FetchRandomPhotos(context.Background(), 2)
	require.NoError(t, err)
	require.Len(t, got, 2)

	assert.Equal(t, "aaa", got[0].ID)
	assert.Equal(t, "Client-ID test-key", gotAuth)
	assert.Equal(t, "v1", gotVersion)
	assert.Equal(t, "2", gotCount)
}

func TestFetchRandomPhotosStatusClassification(t *testing.T) {
	tests := []struct {
		name       string
		statusCode int
		wantType   apierrors.ErrorType
	}{
		{"quota exceeded", http.StatusForbidden, apierrors.ErrorTypeRateLimit},
		{"unauthorized", http.StatusUnauthorized, apierrors.ErrorTypeAuth},
		{"not found", http.StatusNotFound, apierrors.ErrorTypeNotFound},
		{"server error", http.StatusInternalServerError, apierrors.ErrorTypeServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.statusCode)
			}))
			defer server.Close()

			client := NewClient(30*time.Second, logger.NewTestLogger())
			client.SetBaseURL(server.URL)

			_, err := client.FetchRandomPhotos(context.Background(), 10)
			require.Error(t, err)
			assert.Equal(t, tt.wantType, apierrors.TypeOf(err))
		})
	}
}

func TestFetchRandomPhotosParsingError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, "<html>not json</html>")
	}))
	defer server.Close()

	client := NewClient(30*time.Second, logger.NewTestLogger())
	client.SetBaseURL(server.URL)

	_, err := client.FetchRandomPhotos(context.Background(), 10)
	require.Error(t, err)
	assert.Equal(t, apierrors.ErrorTypeParsing, apierrors.TypeOf(err))
}

func TestDownloadPhoto(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, "image bytes")
	}))
	defer server.Close()

	client := NewClient(30*time.Second, logger.NewTestLogger())

	body, err := client.DownloadPhoto(context.Background(), server.URL+"/photo.jpg")
	require.NoError(t, err)
	defer body.Close()

	data, err := io.ReadAll(body)
	require.NoError(t, err)
	assert.Equal(t, "image bytes", string(data))
}

func TestDownloadPhotoNonOK(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	client := NewClient(30*time.Second, logger.NewTestLogger())

	_, err := client.DownloadPhoto(context.Background(), server.URL+"/missing.jpg")
	require.Error(t, err)
	assert.Equal(t, apierrors.ErrorTypeNotFound, apierrors.TypeOf(err))
}

func TestFetchRandomPhotosCancellation(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	}))
	defer server.Close()

	client := NewClient(30*time.Second, logger.NewTestLogger())
	client.SetBaseURL(server.URL)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := client.FetchRandomPhotos(ctx, 10)
	require.Error(t, err)
	assert.Equal(t, apierrors.ErrorTypeNetwork, apierrors.TypeOf(err))
}

package httpclient_test

import (
	"bytes"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/infinita-io/notebookd/pkg/utils/httpclient"
)

func TestDoJSONDecodesBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"answer":"42"}`))
	}))
	defer srv.Close()

	client := httpclient.NewClient(5*time.Second, 0)
	req, err := http.NewRequest(http.MethodGet, srv.URL, nil)
	require.NoError(t, err)

	var out struct {
		Answer string `json:"answer"`
	}
	require.NoError(t, client.DoJSON(req, &out))
	assert.Equal(t, "42", out.Answer)
}

func TestDoRequestRetriesServerErrors(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		// The body must be replayed intact on every attempt.
		assert.Equal(t, `{"input":"x"}`, string(body))
		if calls.Add(1) < 3 {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	client := httpclient.NewClient(5*time.Second, 3)
	req, err := http.NewRequest(http.MethodPost, srv.URL, strings.NewReader(`{"input":"x"}`))
	require.NoError(t, err)

	resp, err := client.DoRequest(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, int32(3), calls.Load())
}

func TestDoJSONSurfacesClientErrors(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"error":"bad api key"}`))
	}))
	defer srv.Close()

	client := httpclient.NewClient(5*time.Second, 3)
	req, err := http.NewRequest(http.MethodGet, srv.URL, nil)
	require.NoError(t, err)

	err = client.DoJSON(req, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "401")
	// 4xx responses are not retried.
	assert.Equal(t, int32(1), calls.Load())
}

func TestBuildMultipartBody(t *testing.T) {
	body, contentType, err := httpclient.BuildMultipartBody(
		map[string]string{"model": "whisper-1"},
		[]httpclient.MultipartFile{{FieldName: "file", FileName: "audio.mp3", Reader: bytes.NewReader([]byte("mp3data"))}},
	)
	require.NoError(t, err)
	require.Contains(t, contentType, "multipart/form-data")

	_, params, err := mimeParse(contentType)
	require.NoError(t, err)
	reader := multipart.NewReader(body, params["boundary"])

	part, err := reader.NextPart()
	require.NoError(t, err)
	assert.Equal(t, "model", part.FormName())
	fieldValue, _ := io.ReadAll(part)
	assert.Equal(t, "whisper-1", string(fieldValue))

	part, err = reader.NextPart()
	require.NoError(t, err)
	assert.Equal(t, "file", part.FormName())
	assert.Equal(t, "audio.mp3", part.FileName())
	fileValue, _ := io.ReadAll(part)
	assert.Equal(t, "mp3data", string(fileValue))
}

func mimeParse(contentType string) (string, map[string]string, error) {
	idx := strings.Index(contentType, ";")
	mediaType := contentType[:idx]
	params := map[string]string{}
	for _, kv := range strings.Split(contentType[idx+1:], ";") {
		kv = strings.TrimSpace(kv)
		if eq := strings.Index(kv, "="); eq > 0 {
			params[kv[:eq]] = strings.Trim(kv[eq+1:], `"`)
		}
	}
	return mediaType, params, nil
}

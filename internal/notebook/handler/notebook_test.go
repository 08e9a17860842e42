package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/infinita-io/notebookd/internal/model"
	"github.com/infinita-io/notebookd/internal/notebook/biz"
	"github.com/infinita-io/notebookd/pkg/errors"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// fakeService records calls and returns canned results.
type fakeService struct {
	ingestInput *biz.IngestInput
	ingestN     int
	ingestErr   error

	queryQ    string
	queryMode string
	queryK    int
	queryRes  *model.QueryResult
	queryErr  error

	statsRes map[string]any
	clearErr error
}

func (f *fakeService) Ingest(_ context.Context, input *biz.IngestInput) (int, error) {
	f.ingestInput = input
	return f.ingestN, f.ingestErr
}

func (f *fakeService) Query(_ context.Context, q, mode string, k int) (*model.QueryResult, error) {
	f.queryQ, f.queryMode, f.queryK = q, mode, k
	return f.queryRes, f.queryErr
}

func (f *fakeService) Stats(context.Context) (map[string]any, error) {
	return f.statsRes, nil
}

func (f *fakeService) Clear(context.Context) error { return f.clearErr }

func newTestRouter(svc biz.Service) *gin.Engine {
	h := NewNotebookHandler(svc)
	r := gin.New()
	r.GET("/healthz", h.Healthz)
	r.POST("/notebooks", h.Ingest)
	r.GET("/notebooks", h.Stats)
	r.DELETE("/notebooks", h.Clear)
	r.GET("/notebooks/query", h.Query)
	return r
}

func TestQuery_MissingQ(t *testing.T) {
	r := newTestRouter(&fakeService{})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/notebooks/query", nil))

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), `"error"`)
}

func TestQuery_InvalidK(t *testing.T) {
	r := newTestRouter(&fakeService{})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/notebooks/query?q=hi&k=abc", nil))

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "k must be an integer")
}

func TestQuery_ClampsK(t *testing.T) {
	svc := &fakeService{queryRes: &model.QueryResult{Mode: "answer", Answer: "hi"}}
	r := newTestRouter(svc)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/notebooks/query?q=hi&k=9999", nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 100, svc.queryK)

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/notebooks/query?q=hi&k=-3", nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 1, svc.queryK)
}

func TestQuery_Success(t *testing.T) {
	svc := &fakeService{queryRes: &model.QueryResult{
		Mode:         "summary",
		Answer:       "a summary",
		Sources:      []model.SourceRef{{Source: "doc.pdf", Kind: "pdf", RelevanceScore: 0.9}},
		Query:        "summarize",
		ChunksUsed:   1,
		TotalMatches: 1,
	}}
	r := newTestRouter(svc)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/notebooks/query?q=summarize&mode=summary", nil))

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "summarize", svc.queryQ)
	assert.Equal(t, "summary", svc.queryMode)
	assert.Equal(t, 0, svc.queryK)

	var got model.QueryResult
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	assert.Equal(t, "a summary", got.Answer)
	require.Len(t, got.Sources, 1)
	assert.Equal(t, "doc.pdf", got.Sources[0].Source)
}

func TestQuery_ServiceError(t *testing.T) {
	svc := &fakeService{queryErr: errors.ErrGeneration}
	r := newTestRouter(svc)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/notebooks/query?q=hi", nil))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, w.Body.String(), `"error"`)
}

func multipartBody(t *testing.T, build func(w *multipart.Writer)) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	build(w)
	require.NoError(t, w.Close())
	return &buf, w.FormDataContentType()
}

func TestIngest_RawTextAndURLs(t *testing.T) {
	svc := &fakeService{ingestN: 7}
	r := newTestRouter(svc)

	body, contentType := multipartBody(t, func(w *multipart.Writer) {
		require.NoError(t, w.WriteField("text", "some pasted notes"))
		require.NoError(t, w.WriteField("raw_texts[]", "more notes"))
		require.NoError(t, w.WriteField("youtube_url", "https://youtu.be/abc"))
		require.NoError(t, w.WriteField("youtube_urls[]", "https://youtu.be/def"))
	})

	req := httptest.NewRequest(http.MethodPost, "/notebooks", body)
	req.Header.Set("Content-Type", contentType)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var res model.IngestResult
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &res))
	assert.True(t, res.OK)
	assert.Equal(t, 7, res.Upserted)

	require.NotNil(t, svc.ingestInput)
	assert.Equal(t, []string{"https://youtu.be/abc", "https://youtu.be/def"}, svc.ingestInput.YouTubeURLs)
	assert.Equal(t, []string{"some pasted notes", "more notes"}, svc.ingestInput.RawTexts)
}

func TestIngest_PDFUpload(t *testing.T) {
	svc := &fakeService{ingestN: 3}
	r := newTestRouter(svc)

	body, contentType := multipartBody(t, func(w *multipart.Writer) {
		fw, err := w.CreateFormFile("file", "paper.pdf")
		require.NoError(t, err)
		_, err = fw.Write([]byte("%PDF-1.4 fake"))
		require.NoError(t, err)
	})

	req := httptest.NewRequest(http.MethodPost, "/notebooks", body)
	req.Header.Set("Content-Type", contentType)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	require.NotNil(t, svc.ingestInput)
	require.Len(t, svc.ingestInput.PDFs, 1)
	assert.Equal(t, "paper.pdf", svc.ingestInput.PDFs[0].Name)
	assert.Equal(t, []byte("%PDF-1.4 fake"), svc.ingestInput.PDFs[0].Data)
}

func TestIngest_SkipsNonPDFWithWarning(t *testing.T) {
	svc := &fakeService{ingestN: 0, ingestErr: nil}
	r := newTestRouter(svc)

	body, contentType := multipartBody(t, func(w *multipart.Writer) {
		fw, err := w.CreateFormFile("file", "notes.docx")
		require.NoError(t, err)
		_, err = fw.Write([]byte("not a pdf"))
		require.NoError(t, err)
		require.NoError(t, w.WriteField("text", "but this text counts"))
	})

	req := httptest.NewRequest(http.MethodPost, "/notebooks", body)
	req.Header.Set("Content-Type", contentType)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var res model.IngestResult
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &res))
	require.Len(t, res.Warnings, 1)
	assert.Contains(t, res.Warnings[0], "notes.docx")

	assert.Empty(t, svc.ingestInput.PDFs)
	assert.Equal(t, []string{"but this text counts"}, svc.ingestInput.RawTexts)
}

func TestIngest_NoSources(t *testing.T) {
	svc := &fakeService{ingestErr: errors.ErrNoSources}
	r := newTestRouter(svc)

	body, contentType := multipartBody(t, func(w *multipart.Writer) {})

	req := httptest.NewRequest(http.MethodPost, "/notebooks", body)
	req.Header.Set("Content-Type", contentType)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "No sources provided")
}

func TestClear(t *testing.T) {
	r := newTestRouter(&fakeService{})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodDelete, "/notebooks", nil))

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"ok":true`)
}

func TestStats(t *testing.T) {
	svc := &fakeService{statsRes: map[string]any{"collection": "notebook_chunks", "vector_count": 42}}
	r := newTestRouter(svc)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/notebooks", nil))

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "notebook_chunks")
}

func TestHealthz(t *testing.T) {
	r := newTestRouter(&fakeService{})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	assert.Equal(t, http.StatusOK, w.Code)
}

package web

import (
	"bytes"
	"context"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/spacesedan/sentilex/internal/analysis"
	"github.com/spacesedan/sentilex/internal/lexicon"
	"github.com/spacesedan/sentilex/internal/models"
	"github.com/stretchr/testify/require"
)

type fixedClassifier string

func (c fixedClassifier) Classify(string) string { return string(c) }

type memoryLog struct {
	mu      sync.Mutex
	err     error
	records []models.LogRecord
}

func (m *memoryLog) Write(_ context.Context, records []models.LogRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.records = append(m.records, records...)
	return m.err
}

func (m *memoryLog) count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.records)
}

type fakeStats struct {
	counts map[string]int64
	err    error
}

func (f fakeStats) LabelCounts(context.Context) (map[string]int64, error) {
	return f.counts, f.err
}

type fakeHealth map[string]bool

func (f fakeHealth) Snapshot() map[string]bool { return f }

func (f fakeHealth) Healthy() bool {
	for _, ok := range f {
		if !ok {
			return false
		}
	}
	return true
}

func newTestServer(t *testing.T, language string, log *memoryLog, mutate ...func(*Config)) *Server {
	t.Helper()
	lex, err := lexicon.Default()
	require.NoError(t, err)

	cfg := Config{
		Analyzer: analysis.New(lex, fixedClassifier(language), log),
		Charts:   true,
	}
	for _, m := range mutate {
		m(&cfg)
	}
	s, err := NewServer(cfg)
	require.NoError(t, err)
	return s
}

func multipartCSV(t *testing.T, fileName, content string, fields map[string]string) (*bytes.Buffer, string) {
	t.Helper()
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	if fileName != "" {
		fw, err := mw.CreateFormFile("file", fileName)
		require.NoError(t, err)
		_, err = fw.Write([]byte(content))
		require.NoError(t, err)
	}
	for k, v := range fields {
		require.NoError(t, mw.WriteField(k, v))
	}
	require.NoError(t, mw.Close())
	return &body, mw.FormDataContentType()
}

func serve(s *Server, req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	s.Handler().ServeHTTP(w, req)
	return w
}

package web

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/spacesedan/sentilex/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const reviewsCSV = "id,review\n1,Pelayanan sangat baik dan memuaskan\n2,Driver lambat dan sombong\n3,biasa saja\n4,bagus\n"

func TestServer_IndexHandler(t *testing.T) {
	s := newTestServer(t, "id", &memoryLog{})

	tests := []struct {
		name           string
		method         string
		path           string
		expectedStatus int
	}{
		{name: "GET page", method: http.MethodGet, path: "/", expectedStatus: http.StatusOK},
		{name: "POST not allowed", method: http.MethodPost, path: "/", expectedStatus: http.StatusMethodNotAllowed},
		{name: "unknown path", method: http.MethodGet, path: "/nope", expectedStatus: http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := serve(s, httptest.NewRequest(tt.method, tt.path, nil))
			assert.Equal(t, tt.expectedStatus, w.Code)
		})
	}

	w := serve(s, httptest.NewRequest(http.MethodGet, "/", nil))
	body := w.Body.String()
	assert.Equal(t, "text/html; charset=utf-8", w.Header().Get("Content-Type"))
	assert.Contains(t, body, "<strong>Supports Indonesian!</strong>")
	assert.Contains(t, body, `action="/analyze"`)
	assert.Contains(t, body, `action="/upload"`)
	assert.NotEmpty(t, w.Header().Get(requestIDHeader))
}

func postForm(path string, values url.Values) *http.Request {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(values.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return req
}

func TestServer_AnalyzeHandler_Indonesian(t *testing.T) {
	log := &memoryLog{}
	s := newTestServer(t, "id", log)

	w := serve(s, postForm("/analyze", url.Values{"text": {"Pelayanan sangat baik dan memuaskan"}}))

	require.Equal(t, http.StatusOK, w.Code)
	body := w.Body.String()
	assert.Contains(t, body, `id="result"`)
	assert.Contains(t, body, "Positive")
	assert.Contains(t, body, "<strong>2</strong>")
	assert.Contains(t, body, "<svg")
	assert.Equal(t, 1, log.count())
}

func TestServer_AnalyzeHandler_NonIndonesianHasNoChart(t *testing.T) {
	log := &memoryLog{}
	s := newTestServer(t, "fr", log)

	w := serve(s, postForm("/analyze", url.Values{"text": {"Le service est très bon"}}))

	require.Equal(t, http.StatusOK, w.Code)
	body := w.Body.String()
	assert.Contains(t, body, "Unknown")
	assert.Contains(t, body, "<strong>N/A</strong>")
	assert.Contains(t, body, "<strong>fr</strong>")
	assert.NotContains(t, body, "<svg")
	assert.Equal(t, 1, log.count())
}

func TestServer_AnalyzeHandler_BlankTextIsNotLogged(t *testing.T) {
	log := &memoryLog{}
	s := newTestServer(t, "id", log)

	w := serve(s, postForm("/analyze", url.Values{"text": {"   "}}))

	require.Equal(t, http.StatusOK, w.Code)
	assert.NotContains(t, w.Body.String(), `id="result"`)
	assert.Zero(t, log.count())
}

func TestServer_AnalyzeHandler_LogFailureIsAWarning(t *testing.T) {
	log := &memoryLog{err: errors.New("disk full")}
	s := newTestServer(t, "id", log)

	w := serve(s, postForm("/analyze", url.Values{"text": {"jelek"}}))

	require.Equal(t, http.StatusOK, w.Code)
	body := w.Body.String()
	assert.Contains(t, body, "Failed to save log: disk full")
	assert.Contains(t, body, "Negative")
}

func TestServer_UploadHandler(t *testing.T) {
	s := newTestServer(t, "id", &memoryLog{})

	t.Run("preview", func(t *testing.T) {
		body, contentType := multipartCSV(t, "reviews.csv", reviewsCSV, nil)
		req := httptest.NewRequest(http.MethodPost, "/upload", body)
		req.Header.Set("Content-Type", contentType)

		w := serve(s, req)

		require.Equal(t, http.StatusOK, w.Code)
		page := w.Body.String()
		assert.Contains(t, page, `id="preview"`)
		assert.Contains(t, page, "<th>review</th>")
		assert.Contains(t, page, "Driver lambat dan sombong")
		assert.Contains(t, page, `<option value="review">review</option>`)
		assert.Contains(t, page, `name="csv"`)
	})

	t.Run("not a csv", func(t *testing.T) {
		body, contentType := multipartCSV(t, "reviews.xlsx", reviewsCSV, nil)
		req := httptest.NewRequest(http.MethodPost, "/upload", body)
		req.Header.Set("Content-Type", contentType)

		w := serve(s, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, w.Body.String(), ErrNotCSV.Error())
	})

	t.Run("no file", func(t *testing.T) {
		body, contentType := multipartCSV(t, "", "", map[string]string{"x": "y"})
		req := httptest.NewRequest(http.MethodPost, "/upload", body)
		req.Header.Set("Content-Type", contentType)

		w := serve(s, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, w.Body.String(), ErrNoFile.Error())
	})
}

func TestServer_BatchHandler(t *testing.T) {
	log := &memoryLog{}
	s := newTestServer(t, "fr", log)

	w := serve(s, postForm("/batch", url.Values{
		"filename": {"reviews.csv"},
		"csv":      {reviewsCSV},
		"column":   {"review"},
	}))

	require.Equal(t, http.StatusOK, w.Code)
	page := w.Body.String()
	assert.Contains(t, page, `id="batch"`)
	assert.Contains(t, page, "<th>sentiment_score</th>")
	assert.Contains(t, page, "<svg")
	// Batch rows skip language detection, so a "fr" classifier changes nothing.
	require.Equal(t, 4, log.count())
	for _, rec := range log.records {
		assert.Equal(t, "id", rec.Language)
	}
	assert.Equal(t, models.LabelPositive, log.records[0].Sentiment)
	assert.Equal(t, models.LabelNegative, log.records[1].Sentiment)
}

func TestServer_BatchHandler_ColumnWarnings(t *testing.T) {
	tests := []struct {
		name    string
		column  string
		warning string
	}{
		{name: "no column", column: "", warning: noColumnWarning},
		{name: "unknown column", column: "comment", warning: "does not exist"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			log := &memoryLog{}
			s := newTestServer(t, "id", log)

			w := serve(s, postForm("/batch", url.Values{
				"filename": {"reviews.csv"},
				"csv":      {reviewsCSV},
				"column":   {tt.column},
			}))

			require.Equal(t, http.StatusOK, w.Code)
			page := w.Body.String()
			assert.Contains(t, page, `class="warning"`)
			assert.Contains(t, page, tt.warning)
			assert.NotContains(t, page, `id="batch"`)
			assert.Zero(t, log.count())
		})
	}
}

func TestServer_ChartsDisabled(t *testing.T) {
	s := newTestServer(t, "id", &memoryLog{}, func(c *Config) { c.Charts = false })

	w := serve(s, postForm("/analyze", url.Values{"text": {"bagus"}}))

	require.Equal(t, http.StatusOK, w.Code)
	assert.NotContains(t, w.Body.String(), "<svg")
}

func TestNewServer_RequiresAnalyzer(t *testing.T) {
	_, err := NewServer(Config{})
	assert.Error(t, err)
}

func TestServer_BatchHandler_AcceptsUploadNearLimit(t *testing.T) {
	log := &memoryLog{}
	s := newTestServer(t, "id", log, func(c *Config) { c.MaxUploadMB = 1 })

	var sb strings.Builder
	sb.WriteString("id,review\n")
	rows := 0
	for sb.Len() < 800*1024 {
		rows++
		sb.WriteString(`1,"bagus sekali, driver cepat! ramah? harga & layanan = oke; terima kasih"` + "\n")
	}
	raw := sb.String()

	body, contentType := multipartCSV(t, "big.csv", raw, nil)
	req := httptest.NewRequest(http.MethodPost, "/upload", body)
	req.Header.Set("Content-Type", contentType)
	w := serve(s, req)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `action="/batch" enctype="multipart/form-data"`)

	fields := map[string]string{"filename": "big.csv", "csv": raw, "column": "review"}

	t.Run("multipart", func(t *testing.T) {
		before := log.count()
		body, contentType := multipartCSV(t, "", "", fields)
		req := httptest.NewRequest(http.MethodPost, "/batch", body)
		req.Header.Set("Content-Type", contentType)

		w := serve(s, req)

		require.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), `id="batch"`)
		assert.Equal(t, rows, log.count()-before)
	})

	t.Run("url encoded", func(t *testing.T) {
		before := log.count()
		values := url.Values{}
		for k, v := range fields {
			values.Set(k, v)
		}
		require.Greater(t, len(values.Encode()), 1024*1024)

		w := serve(s, postForm("/batch", values))

		require.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), `id="batch"`)
		assert.Equal(t, rows, log.count()-before)
	})
}

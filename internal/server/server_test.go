package server_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"mime/multipart"
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Moushv26/Data-analysis-tool-page/internal/config"
	"github.com/Moushv26/Data-analysis-tool-page/internal/server"
)

const peopleCSV = "id,name,score\n1,  Al ,5\n2,Bo,\n1,  Al ,5\n3,Cy,8\n"

func testConfig() *config.Config {
	return &config.Config{
		Server: config.ServerConfig{
			Addr:            "127.0.0.1:0",
			ReadTimeout:     5 * time.Second,
			WriteTimeout:    5 * time.Second,
			IdleTimeout:     5 * time.Second,
			ShutdownTimeout: 5 * time.Second,
			MaxUploadBytes:  1 << 20,
			AllowedOrigins:  []string{"*"},
		},
		Log:         config.LogConfig{Level: "info", Format: "json"},
		Ingest:      config.IngestConfig{Delimiter: ",", Concurrency: 2, Buffer: 4},
		PreviewRows: 10,
	}
}

func newServer(t *testing.T, mutate func(cfg *config.Config)) *server.Server {
	t.Helper()

	cfg := testConfig()
	if mutate != nil {
		mutate(cfg)
	}

	return server.New(cfg, slog.New(slog.NewTextHandler(io.Discard, nil)), nil)
}

type part struct {
	name, value string
}

// upload builds a multipart request with the file field first.
func upload(t *testing.T, target, fileName, content string, fields ...part) *http.Request {
	t.Helper()

	body := &bytes.Buffer{}
	mw := multipart.NewWriter(body)
	if fileName != "" {
		fw, err := mw.CreateFormFile("file", fileName)
		require.NoError(t, err)
		_, err = io.WriteString(fw, content)
		require.NoError(t, err)
	}
	for _, f := range fields {
		require.NoError(t, mw.WriteField(f.name, f.value))
	}
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, target, body)
	req.Header.Set("Content-Type", mw.FormDataContentType())

	return req
}

func serve(srv *server.Server, req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)

	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()

	var out map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out), rec.Body.String())

	return out
}

func TestHealth(t *testing.T) {
	t.Parallel()

	rec := serve(newServer(t, nil), httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
	assert.NotEmpty(t, rec.Header().Get("X-Request-Id"))
}

func TestIndex(t *testing.T) {
	t.Parallel()

	rec := serve(newServer(t, nil), httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Type"), "text/html")
	assert.Contains(t, rec.Body.String(), `enctype="multipart/form-data"`)
	assert.NotContains(t, rec.Body.String(), "Cleaned data")
}

func TestDescribe(t *testing.T) {
	t.Parallel()

	rec := serve(newServer(t, nil), upload(t, "/api/v1/describe", "people.csv", peopleCSV))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.NotEmpty(t, rec.Header().Get("X-Run-Id"))

	out := decode(t, rec)
	assert.Equal(t, "people.csv", out["file_name"])

	summary := out["summary"].(map[string]any)
	assert.InDelta(t, 4.0, summary["rows"], 0)
	assert.InDelta(t, 3.0, summary["columns"], 0)

	preview := out["preview"].(map[string]any)
	assert.Len(t, preview["rows"], 4)
}

func TestClean(t *testing.T) {
	t.Parallel()

	rec := serve(newServer(t, nil), upload(t, "/api/v1/clean", "people.csv", peopleCSV,
		part{"dedupe", "true"},
		part{"policy", "mean"},
	))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	out := decode(t, rec)
	assert.InDelta(t, 4.0, out["before"].(map[string]any)["rows"], 0)
	assert.InDelta(t, 3.0, out["after"].(map[string]any)["rows"], 0)

	options := out["options"].(map[string]any)
	assert.Equal(t, "mean", options["policy"])
	assert.Equal(t, []any{"id", "name", "score"}, options["columns"])

	rows := out["preview"].(map[string]any)["rows"].([]any)
	require.Len(t, rows, 3)
	assert.Equal(t, []any{2.0, "Bo", 6.5}, rows[1])
	assert.Equal(t, []any{1.0, "Al", 5.0}, rows[0])

	notices := out["notices"].([]any)
	require.Len(t, notices, 2)
	assert.Equal(t, "success", notices[0].(map[string]any)["level"])
	assert.Len(t, out["steps"], 3)
}

func TestCleanEmptySelection(t *testing.T) {
	t.Parallel()

	rec := serve(newServer(t, nil), upload(t, "/api/v1/clean", "people.csv", peopleCSV,
		part{"dedupe", "1"},
		part{"columns", ""},
	))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	out := decode(t, rec)
	assert.InDelta(t, 4.0, out["after"].(map[string]any)["rows"], 0)
	notices := out["notices"].([]any)
	require.Len(t, notices, 1)
	assert.Equal(t, "warning", notices[0].(map[string]any)["level"])
	assert.Equal(t, "Please select at least one column.", notices[0].(map[string]any)["message"])
}

func TestCleanErrors(t *testing.T) {
	t.Parallel()

	tcs := map[string]struct {
		req        func(t *testing.T) *http.Request
		mutate     func(cfg *config.Config)
		wantStatus int
		wantCode   string
	}{
		"unknown column": {
			req: func(t *testing.T) *http.Request {
				return upload(t, "/api/v1/clean", "p.csv", peopleCSV, part{"dedupe", "true"}, part{"columns", "age"})
			},
			wantStatus: http.StatusBadRequest,
			wantCode:   server.CodeInvalidSelection,
		},
		"too many fields": {
			req: func(t *testing.T) *http.Request {
				return upload(t, "/api/v1/clean", "p.csv", "a,b\n1,2\n3,4,5\n")
			},
			wantStatus: http.StatusBadRequest,
			wantCode:   server.CodeIngestionFailed,
		},
		"empty file": {
			req: func(t *testing.T) *http.Request {
				return upload(t, "/api/v1/describe", "p.csv", "")
			},
			wantStatus: http.StatusBadRequest,
			wantCode:   server.CodeIngestionFailed,
		},
		"unknown policy": {
			req: func(t *testing.T) *http.Request {
				return upload(t, "/api/v1/clean", "p.csv", peopleCSV, part{"policy", "median"})
			},
			wantStatus: http.StatusBadRequest,
			wantCode:   server.CodeValidationFailed,
		},
		"unknown format": {
			req: func(t *testing.T) *http.Request {
				return upload(t, "/api/v1/clean?format=pdf", "p.csv", peopleCSV)
			},
			wantStatus: http.StatusBadRequest,
			wantCode:   server.CodeValidationFailed,
		},
		"bad dedupe": {
			req: func(t *testing.T) *http.Request {
				return upload(t, "/api/v1/clean", "p.csv", peopleCSV, part{"dedupe", "maybe"})
			},
			wantStatus: http.StatusBadRequest,
			wantCode:   server.CodeValidationFailed,
		},
		"missing file": {
			req: func(t *testing.T) *http.Request {
				return upload(t, "/api/v1/clean", "", "", part{"policy", "drop"})
			},
			wantStatus: http.StatusBadRequest,
			wantCode:   server.CodeValidationFailed,
		},
		"not multipart": {
			req: func(*testing.T) *http.Request {
				return httptest.NewRequest(http.MethodPost, "/api/v1/clean", strings.NewReader("id\n1\n"))
			},
			wantStatus: http.StatusBadRequest,
			wantCode:   server.CodeValidationFailed,
		},
		"truncated multipart": {
			req: func(*testing.T) *http.Request {
				body := "--xyz\r\nContent-Disposition: form-data; name=\"file\"; filename=\"p.csv\"\r\n\r\nid\n1\n"
				req := httptest.NewRequest(http.MethodPost, "/api/v1/clean", strings.NewReader(body))
				req.Header.Set("Content-Type", "multipart/form-data; boundary=xyz")

				return req
			},
			wantStatus: http.StatusBadRequest,
			wantCode:   server.CodeValidationFailed,
		},
		"multipart without boundary": {
			req: func(*testing.T) *http.Request {
				req := httptest.NewRequest(http.MethodPost, "/api/v1/clean", strings.NewReader("id\n1\n"))
				req.Header.Set("Content-Type", "multipart/form-data")

				return req
			},
			wantStatus: http.StatusBadRequest,
			wantCode:   server.CodeValidationFailed,
		},
		"too large": {
			req: func(t *testing.T) *http.Request {
				return upload(t, "/api/v1/clean", "p.csv", "v\n"+strings.Repeat("123456789\n", 200))
			},
			mutate:     func(cfg *config.Config) { cfg.Server.MaxUploadBytes = 256 },
			wantStatus: http.StatusRequestEntityTooLarge,
			wantCode:   server.CodePayloadTooLarge,
		},
		"not found": {
			req: func(*testing.T) *http.Request {
				return httptest.NewRequest(http.MethodGet, "/nowhere", nil)
			},
			wantStatus: http.StatusNotFound,
			wantCode:   server.CodeNotFound,
		},
	}

	for name, tc := range tcs {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			rec := serve(newServer(t, tc.mutate), tc.req(t))
			require.Equal(t, tc.wantStatus, rec.Code, rec.Body.String())

			out := decode(t, rec)
			assert.Equal(t, tc.wantCode, out["error_code"])
			assert.NotEmpty(t, out["request_id"])
		})
	}
}

func TestCleanIngestionDetails(t *testing.T) {
	t.Parallel()

	rec := serve(newServer(t, nil), upload(t, "/api/v1/clean", "p.csv", "a,b\n1,2\n3,4,5\n"))
	require.Equal(t, http.StatusBadRequest, rec.Code)

	details := decode(t, rec)["details"].(map[string]any)
	assert.InDelta(t, 3.0, details["line"], 0)
	assert.Contains(t, details["error"], "too many fields")
}

func TestCleanDownload(t *testing.T) {
	t.Parallel()

	tcs := map[string]struct {
		target      string
		fields      []part
		wantType    string
		wantName    string
		wantPrefix  string
		wantContent string
	}{
		"csv query": {
			target:      "/api/v1/clean?format=csv",
			fields:      []part{{"policy", "zero"}},
			wantType:    "text/csv; charset=utf-8",
			wantName:    `attachment; filename=people_cleaned.csv`,
			wantContent: "id,name,score\n1,Al,5.0\n2,Bo,0.0\n1,Al,5.0\n3,Cy,8.0\n",
		},
		"xlsx field": {
			target:     "/api/v1/clean",
			fields:     []part{{"format", "xlsx"}},
			wantType:   "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
			wantName:   `attachment; filename=people_cleaned.xlsx`,
			wantPrefix: "PK",
		},
	}

	for name, tc := range tcs {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			rec := serve(newServer(t, nil), upload(t, tc.target, "people.csv", peopleCSV, tc.fields...))
			require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
			assert.Equal(t, tc.wantType, rec.Header().Get("Content-Type"))
			assert.Equal(t, tc.wantName, rec.Header().Get("Content-Disposition"))
			assert.NotEmpty(t, rec.Header().Get("X-Run-Id"))
			if tc.wantContent != "" {
				assert.Equal(t, tc.wantContent, rec.Body.String())
			}
			assert.True(t, strings.HasPrefix(rec.Body.String(), tc.wantPrefix))
		})
	}
}

func TestPage(t *testing.T) {
	t.Parallel()

	srv := newServer(t, nil)

	rec := serve(srv, upload(t, "/", "people.csv", peopleCSV,
		part{"dedupe", "true"},
		part{"columns", ""},
		part{"columns", "id"},
		part{"policy", "drop"},
	))
	require.Equal(t, http.StatusOK, rec.Code)

	body := rec.Body.String()
	assert.Contains(t, body, "Original data (people.csv)")
	assert.Contains(t, body, "Cleaned data")
	assert.Contains(t, body, "Duplicates removed based on selected columns")
	assert.Contains(t, body, "Rows with missing values dropped")
	assert.Contains(t, body, `value="id" checked`)
	assert.Contains(t, body, `<option value="drop" selected>`)

	rec = serve(srv, upload(t, "/", "bad.csv", "a\n1,2\n"))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "The file could not be read as a table")
	assert.NotContains(t, rec.Body.String(), "Cleaned data")
}

func TestRateLimit(t *testing.T) {
	t.Parallel()

	srv := newServer(t, func(cfg *config.Config) {
		cfg.Server.RateLimit = config.RateLimitConfig{Enabled: true, RPS: 0.001, Burst: 1}
	})

	assert.Equal(t, http.StatusOK, serve(srv, httptest.NewRequest(http.MethodGet, "/", nil)).Code)

	rec := serve(srv, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.Equal(t, server.CodeRateLimited, decode(t, rec)["error_code"])

	// health checks are not limited
	assert.Equal(t, http.StatusOK, serve(srv, httptest.NewRequest(http.MethodGet, "/healthz", nil)).Code)
}

func TestMetricsEndpoint(t *testing.T) {
	t.Parallel()

	srv := newServer(t, nil)
	require.Equal(t, http.StatusOK, serve(srv, upload(t, "/api/v1/clean", "people.csv", peopleCSV)).Code)

	rec := serve(srv, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `cleaner_runs_total{kind="clean",outcome="success"} 1`)
	assert.Contains(t, rec.Body.String(), `cleaner_runs_total{kind="ingest",outcome="success"} 1`)
	assert.Contains(t, rec.Body.String(), `cleaner_step_outputs_total{step="parse cells"} 4`)
}

func TestServeShutdown(t *testing.T) {
	t.Parallel()

	srv := newServer(t, nil)
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- srv.Serve(ctx, ln)
	}()

	require.Eventually(t, func() bool {
		resp, err := http.Get("http://" + ln.Addr().String() + "/healthz")
		if err != nil {
			return false
		}
		_ = resp.Body.Close()

		return resp.StatusCode == http.StatusOK
	}, 2*time.Second, 20*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not stop")
	}
}

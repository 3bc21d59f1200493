package server

import (
	"bytes"
	"context"
	"log/slog"
	"mime"
	"net/http"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"
	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/Moushv26/Data-analysis-tool-page/internal/metrics"
	"github.com/Moushv26/Data-analysis-tool-page/pkg/cleaner"
	"github.com/Moushv26/Data-analysis-tool-page/pkg/ingest"
	pkgrender "github.com/Moushv26/Data-analysis-tool-page/pkg/render"
	"github.com/Moushv26/Data-analysis-tool-page/pkg/stats"
	"github.com/Moushv26/Data-analysis-tool-page/pkg/table"
)

type describeResponse struct {
	RunID    string                 `json:"run_id"`
	FileName string                 `json:"file_name"`
	Summary  stats.Summary          `json:"summary"`
	Preview  pkgrender.TablePayload `json:"preview"`
}

type optionsPayload struct {
	RemoveDuplicates bool           `json:"dedupe"`
	Columns          []string       `json:"columns"`
	Policy           cleaner.Policy `json:"policy"`
}

type cleanResponse struct {
	RunID    string                 `json:"run_id"`
	FileName string                 `json:"file_name"`
	Options  optionsPayload         `json:"options"`
	Before   stats.Summary          `json:"before"`
	After    stats.Summary          `json:"after"`
	Notices  []cleaner.Notice       `json:"notices"`
	Steps    []cleaner.StepReport   `json:"steps"`
	Preview  pkgrender.TablePayload `json:"preview"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	render.JSON(w, r, map[string]string{"status": "ok"})
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	s.writePage(w, r, http.StatusOK, pkgrender.NewPage(pageTitle, cleaner.PolicyNone))
}

// handlePage cleans an upload and shows the table before and after.
func (s *Server) handlePage(w http.ResponseWriter, r *http.Request) {
	req, tbl, err := s.readUpload(w, r)
	if err != nil {
		page := pkgrender.NewPage(pageTitle, cleaner.PolicyNone)
		status := s.pageError(r, page, err)
		s.writePage(w, r, status, page)

		return
	}

	opts, err := req.cleanOptions(tbl)
	page := pkgrender.NewPage(pageTitle, opts.Policy)
	page.FileName = req.FileName
	page.Dedupe = req.RemoveDuplicates
	page.SelectColumns(tbl, req.Columns)
	if err != nil {
		page.Original = pkgrender.NewSection(tbl, stats.Describe(tbl), s.cfg.PreviewRows)
		s.writePage(w, r, s.pageError(r, page, err), page)

		return
	}

	res, _, err := s.clean(r.Context(), tbl, opts)
	if err != nil {
		page.Original = pkgrender.NewSection(tbl, stats.Describe(tbl), s.cfg.PreviewRows)
		s.writePage(w, r, s.pageError(r, page, err), page)

		return
	}

	page.Original = pkgrender.NewSection(tbl, res.Before, s.cfg.PreviewRows)
	page.Cleaned = pkgrender.NewSection(res.Table, res.After, s.cfg.PreviewRows)
	page.Notices = res.Notices
	s.writePage(w, r, http.StatusOK, page)
}

func (s *Server) handleDescribe(w http.ResponseWriter, r *http.Request) {
	req, tbl, err := s.readUpload(w, r)
	if err != nil {
		s.renderError(w, r, err)

		return
	}

	runID := uuid.NewString()
	w.Header().Set("X-Run-Id", runID)
	render.JSON(w, r, describeResponse{
		RunID:    runID,
		FileName: req.FileName,
		Summary:  stats.Describe(tbl),
		Preview:  pkgrender.NewTablePayload(tbl, s.cfg.PreviewRows),
	})
}

// handleClean returns the cleaning result as JSON, or the cleaned file when a format is asked.
func (s *Server) handleClean(w http.ResponseWriter, r *http.Request) {
	req, tbl, err := s.readUpload(w, r)
	if err != nil {
		s.renderError(w, r, err)

		return
	}
	opts, err := req.cleanOptions(tbl)
	if err != nil {
		s.renderError(w, r, err)

		return
	}

	res, runID, err := s.clean(r.Context(), tbl, opts)
	if err != nil {
		s.renderError(w, r, err)

		return
	}
	w.Header().Set("X-Run-Id", runID)

	if req.Format != "" {
		format, err := pkgrender.ParseFormat(req.Format)
		if err != nil {
			s.renderError(w, r, err)

			return
		}
		buf := &bytes.Buffer{}
		if err := pkgrender.Export(buf, format, res.Table, res.After); err != nil {
			s.renderError(w, r, err)

			return
		}
		w.Header().Set("Content-Type", format.ContentType())
		w.Header().Set("Content-Disposition",
			mime.FormatMediaType("attachment", map[string]string{"filename": format.FileName(req.FileName)}))
		_, _ = w.Write(buf.Bytes())

		return
	}

	notices := res.Notices
	if notices == nil {
		notices = []cleaner.Notice{}
	}
	render.JSON(w, r, cleanResponse{
		RunID:    runID,
		FileName: req.FileName,
		Options:  optionsPayload{RemoveDuplicates: opts.RemoveDuplicates, Columns: opts.Subset, Policy: opts.Policy},
		Before:   res.Before,
		After:    res.After,
		Notices:  notices,
		Steps:    res.Steps,
		Preview:  pkgrender.NewTablePayload(res.Table, s.cfg.PreviewRows),
	})
}

// clean runs the cleaner under a fresh run id.
func (s *Server) clean(ctx context.Context, tbl *table.Table, opts cleaner.Options) (*cleaner.Result, string, error) {
	runID := uuid.NewString()
	c := cleaner.New(
		cleaner.WithLogger(s.logger.With(
			slog.String("run_id", runID),
			slog.String("request_id", middleware.GetReqID(ctx)),
		)),
		cleaner.WithPipelineOptions(s.metrics.PipelineOption()),
	)

	res, err := c.Clean(ctx, tbl, opts)
	s.metrics.ObserveRun(metrics.KindClean, err)
	if err != nil {
		return nil, runID, err
	}
	s.metrics.ObserveClean(res)

	return res, runID, nil
}

func (s *Server) renderError(w http.ResponseWriter, r *http.Request, err error) {
	apiErr := s.logError(r, err)
	_ = render.Render(w, r, apiErr)
}

// pageError puts the message of err on the page and returns the status to answer with.
func (s *Server) pageError(r *http.Request, page *pkgrender.Page, err error) int {
	apiErr := s.logError(r, err)
	page.Error = apiErr.Message

	var ingestErr *ingest.Error
	if errors.As(err, &ingestErr) {
		page.Error += ": " + ingestErr.Error()
	}

	return apiErr.StatusCode
}

func (s *Server) logError(r *http.Request, err error) *APIError {
	apiErr := toAPIError(err)
	apiErr.RequestID = middleware.GetReqID(r.Context())

	level := slog.LevelWarn
	if apiErr.StatusCode >= http.StatusInternalServerError {
		level = slog.LevelError
	}
	s.logger.Log(r.Context(), level, "request failed",
		slog.String("request_id", apiErr.RequestID),
		slog.String("error_code", apiErr.ErrorCode),
		slog.String("error", err.Error()),
	)

	return apiErr
}

func (s *Server) writePage(w http.ResponseWriter, r *http.Request, status int, page *pkgrender.Page) {
	buf := &bytes.Buffer{}
	if err := pkgrender.RenderPage(buf, page); err != nil {
		s.renderError(w, r, err)

		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = w.Write(buf.Bytes())
}

package server

import (
	"net/http"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"
	"github.com/spf13/cast"

	"github.com/Moushv26/Data-analysis-tool-page/internal/metrics"
	"github.com/Moushv26/Data-analysis-tool-page/pkg/cleaner"
	"github.com/Moushv26/Data-analysis-tool-page/pkg/ingest"
	"github.com/Moushv26/Data-analysis-tool-page/pkg/table"
)

// multipartMemory is the part of an upload kept in memory, the rest spills to disk.
const multipartMemory = 8 << 20

// uploadRequest holds the form fields of an upload.
type uploadRequest struct {
	FileName         string `json:"file" validate:"required"`
	RemoveDuplicates bool   `json:"dedupe"`
	// Columns is nil when the field is absent, which selects every column.
	Columns []string `json:"columns"`
	Policy  string   `json:"policy"`
	Format  string   `json:"format" validate:"omitempty,oneof=csv xlsx json"`
}

func (u *uploadRequest) cleanOptions(t *table.Table) (cleaner.Options, error) {
	policy, err := cleaner.ParsePolicy(u.Policy)
	if err != nil {
		return cleaner.Options{}, err
	}

	subset := u.Columns
	if subset == nil {
		subset = t.ColumnNames()
	}

	return cleaner.Options{RemoveDuplicates: u.RemoveDuplicates, Subset: subset, Policy: policy}, nil
}

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}

		return name
	})

	return v
}

// readUpload parses a multipart upload and ingests its file field.
func (s *Server) readUpload(w http.ResponseWriter, r *http.Request) (*uploadRequest, *table.Table, error) {
	r.Body = http.MaxBytesReader(w, r.Body, s.cfg.Server.MaxUploadBytes)
	if err := r.ParseMultipartForm(multipartMemory); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) || errors.Is(err, http.ErrNotMultipart) {
			return nil, nil, errors.Wrap(err, "unable to parse upload")
		}

		return nil, nil, newAPIError(http.StatusBadRequest, CodeValidationFailed, "The multipart upload is malformed",
			map[string]string{"error": err.Error()})
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		return nil, nil, errors.Wrap(err, "unable to open uploaded file")
	}
	defer file.Close()

	req := &uploadRequest{
		FileName: header.Filename,
		Policy:   r.FormValue("policy"),
		Format:   r.URL.Query().Get("format"),
	}
	if req.Format == "" {
		req.Format = r.FormValue("format")
	}
	if raw := r.FormValue("dedupe"); raw != "" {
		if req.RemoveDuplicates, err = cast.ToBoolE(raw); err != nil {
			return nil, nil, newAPIError(http.StatusBadRequest, CodeValidationFailed, "Request validation failed",
				[]fieldError{{Field: "dedupe", Message: "must be a boolean"}})
		}
	}
	if values, ok := r.MultipartForm.Value["columns"]; ok {
		req.Columns = []string{}
		for _, v := range values {
			if v != "" {
				req.Columns = append(req.Columns, v)
			}
		}
	}
	if err := s.validate.Struct(req); err != nil {
		return nil, nil, err
	}

	opts := []ingest.Option{
		ingest.WithDelimiter(s.cfg.Ingest.DelimiterRune()),
		ingest.WithBuffer(s.cfg.Ingest.Buffer),
		ingest.WithPipelineOptions(s.metrics.PipelineOption()),
		ingest.WithLogger(s.logger),
	}
	if s.cfg.Ingest.Concurrency > 0 {
		opts = append(opts, ingest.WithConcurrency(s.cfg.Ingest.Concurrency))
	}
	tbl, err := ingest.Read(r.Context(), file, opts...)
	s.metrics.ObserveRun(metrics.KindIngest, err)
	if err != nil {
		return nil, nil, err
	}

	return req, tbl, nil
}

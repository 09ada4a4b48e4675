package server

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"io"
	"mime"
	"net/http"
	"slices"
	"strconv"
	"strings"

	"github.com/matzehuels/barh/pkg/buildinfo"
	"github.com/matzehuels/barh/pkg/config"
	"github.com/matzehuels/barh/pkg/errors"
	"github.com/matzehuels/barh/pkg/pipeline"
)

type errorResponse struct {
	Error     string `json:"error"`
	Code      string `json:"code,omitempty"`
	RequestID string `json:"request_id,omitempty"`
}

type healthResponse struct {
	Status string         `json:"status"`
	Build  buildinfo.Info `json:"build"`
}

type formatsResponse struct {
	Input  []string `json:"input"`
	Output []string `json:"output"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, healthResponse{Status: "ok", Build: buildinfo.Get()})
}

func (s *Server) handleFormats(w http.ResponseWriter, r *http.Request) {
	resp := formatsResponse{}
	for _, f := range config.Formats {
		resp.Input = append(resp.Input, string(f))
	}
	for f := range pipeline.ValidFormats {
		resp.Output = append(resp.Output, f)
	}
	slices.Sort(resp.Output)
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleRender(w http.ResponseWriter, r *http.Request) {
	opts, err := renderOptions(r)
	if err != nil {
		s.fail(w, r, err)
		return
	}

	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, s.cfg.MaxBodyBytes))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if stderrors.As(err, &tooLarge) {
			writeError(w, r, http.StatusRequestEntityTooLarge, "", "chart description exceeds "+strconv.FormatInt(tooLarge.Limit, 10)+" bytes")
			return
		}
		s.fail(w, r, errors.Wrap(errors.ErrCodeInvalidInput, err, "read request body"))
		return
	}
	if len(body) == 0 {
		s.fail(w, r, errors.New(errors.ErrCodeInvalidInput, "request body is empty"))
		return
	}
	opts.Source = body

	ctx, cancel := context.WithTimeout(r.Context(), s.cfg.Timeout)
	defer cancel()

	result, err := s.runner.Execute(ctx, opts)
	if err != nil {
		s.fail(w, r, err)
		return
	}

	format := opts.Formats[0]
	w.Header().Set("Content-Type", pipeline.ContentTypes[format])
	w.Header().Set("X-Chart-Width", strconv.Itoa(result.Stats.Width))
	w.Header().Set("X-Chart-Height", strconv.Itoa(result.Stats.Height))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(result.Artifacts[format])
}

// renderOptions reads pipeline options from the query string and headers.
func renderOptions(r *http.Request) (pipeline.Options, error) {
	q := r.URL.Query()
	opts := pipeline.Options{
		Formats:    []string{pipeline.FormatSVG},
		FontFamily: q.Get("font_family"),
	}

	if f := q.Get("format"); f != "" {
		if err := pipeline.ValidateFormat(f); err != nil {
			return opts, err
		}
		opts.Formats = []string{f}
	}

	input, err := inputFormat(r)
	if err != nil {
		return opts, err
	}
	opts.SourceFormat = input

	if v := q.Get("debug"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return opts, errors.New(errors.ErrCodeInvalidInput, "debug: %q is not a boolean", v)
		}
		opts.Debug = b
	}
	if opts.Scale, err = floatParam(q.Get("scale"), "scale"); err != nil {
		return opts, err
	}
	if opts.FontSize, err = floatParam(q.Get("font_size"), "font_size"); err != nil {
		return opts, err
	}
	return opts, nil
}

// inputFormat picks the description format from the "input" query parameter
// or the Content-Type. JSON is the default.
func inputFormat(r *http.Request) (config.Format, error) {
	if v := r.URL.Query().Get("input"); v != "" {
		return config.ParseFormat(v)
	}
	ct := r.Header.Get("Content-Type")
	if ct == "" {
		return config.FormatJSON, nil
	}
	mt, _, err := mime.ParseMediaType(ct)
	if err != nil {
		return "", errors.Wrap(errors.ErrCodeInvalidFormat, err, "content type %q", ct)
	}
	switch {
	case strings.HasSuffix(mt, "toml"):
		return config.FormatTOML, nil
	case strings.HasSuffix(mt, "yaml"), strings.HasSuffix(mt, "yml"):
		return config.FormatYAML, nil
	default:
		return config.FormatJSON, nil
	}
}

func floatParam(v, name string) (float64, error) {
	if v == "" {
		return 0, nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0, errors.New(errors.ErrCodeInvalidInput, "%s: %q is not a number", name, v)
	}
	return f, nil
}

func (s *Server) fail(w http.ResponseWriter, r *http.Request, err error) {
	status := errors.HTTPStatus(err)
	if stderrors.Is(err, context.DeadlineExceeded) {
		status = http.StatusGatewayTimeout
	}
	if status >= http.StatusInternalServerError {
		s.logger.Error("render failed", "err", err, "request_id", RequestIDFrom(r.Context()))
	} else {
		s.logger.Debug("rejected request", "err", err, "request_id", RequestIDFrom(r.Context()))
	}
	writeError(w, r, status, string(errors.GetCode(err)), errors.UserMessage(err))
}

func writeError(w http.ResponseWriter, r *http.Request, status int, code, msg string) {
	writeJSON(w, status, errorResponse{
		Error:     msg,
		Code:      code,
		RequestID: RequestIDFrom(r.Context()),
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

package server

import (
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/matzehuels/dlvis/pkg/errors"
	"github.com/matzehuels/dlvis/pkg/layout"
	"github.com/matzehuels/dlvis/pkg/pipeline"
)

// LayoutResponse is the body of POST /v1/layout.
type LayoutResponse struct {
	ID        string         `json:"id"`
	GraphHash string         `json:"graph_hash"`
	Cached    bool           `json:"cached"`
	Layout    *layout.Result `json:"layout"`
}

var contentTypes = map[string]string{
	pipeline.FormatSVG:  "image/svg+xml",
	pipeline.FormatTikZ: "application/x-tex",
	pipeline.FormatPNG:  "image/png",
	pipeline.FormatPDF:  "application/pdf",
	pipeline.FormatDOT:  "text/vnd.graphviz",
	pipeline.FormatJSON: "application/json",
}

func handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleLayout(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	opts, err := queryOptions(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	body, err := readBody(w, r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	g, err := s.runner.Parse(ctx, body)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	hash, err := pipeline.GraphHash(g)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	res, hit, err := s.runner.Layout(ctx, g, opts)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, LayoutResponse{
		ID:        requestID(ctx),
		GraphHash: hash,
		Cached:    hit,
		Layout:    res,
	})
}

func (s *Server) handleRender(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	format := chi.URLParam(r, "format")
	if err := pipeline.ValidateFormat(format); err != nil {
		s.writeError(w, r, err)
		return
	}
	opts, err := queryOptions(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	opts.Formats = []string{format}
	q := r.URL.Query()
	if v := q.Get("scale"); v != "" {
		if opts.Scale, err = strconv.ParseFloat(v, 64); err != nil {
			s.writeError(w, r, errors.Wrap(errors.ErrCodeInvalidInput, err, "invalid scale %q", v))
			return
		}
	}
	opts.Labels = q.Has("labels")
	opts.Alignments = q.Has("alignments")

	body, err := readBody(w, r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	res, err := s.runner.Execute(ctx, body, opts)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", contentTypes[format])
	w.Header().Set("X-Layout-Cached", strconv.FormatBool(res.CacheInfo.LayoutHit))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(res.Artifacts[format])
}

// queryOptions reads width, height, pin and refresh.
func queryOptions(r *http.Request) (pipeline.Options, error) {
	q := r.URL.Query()
	var opts pipeline.Options
	for name, dst := range map[string]*float64{"width": &opts.Width, "height": &opts.Height} {
		v := q.Get(name)
		if v == "" {
			continue
		}
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return opts, errors.Wrap(errors.ErrCodeInvalidInput, err, "invalid %s %q", name, v)
		}
		*dst = f
	}
	if q.Has("pin") {
		opts.Pins = strings.Split(q.Get("pin"), ",")
	}
	opts.Refresh = q.Has("refresh")
	if err := opts.ValidateForLayout(); err != nil {
		return opts, err
	}
	// Validation installs a discard logger; the runner's logger applies instead.
	opts.Logger = nil
	return opts, nil
}

func readBody(w http.ResponseWriter, r *http.Request) ([]byte, error) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, MaxBodyBytes))
	if err != nil {
		return nil, err
	}
	if len(body) == 0 {
		return nil, errors.New(errors.ErrCodeInvalidInput, "empty request body")
	}
	return body, nil
}

package server

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	gojson "github.com/goccy/go-json"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/matzehuels/brushlink/pkg/buildinfo"
	"github.com/matzehuels/brushlink/pkg/dashboard"
	"github.com/matzehuels/brushlink/pkg/dataset"
	brerrors "github.com/matzehuels/brushlink/pkg/errors"
	"github.com/matzehuels/brushlink/pkg/pipeline"
	"github.com/matzehuels/brushlink/pkg/selection"
	"github.com/matzehuels/brushlink/pkg/session"
	"github.com/matzehuels/brushlink/pkg/view"
)

var contentTypes = map[string]string{
	pipeline.FormatSVG:  "image/svg+xml",
	pipeline.FormatJSON: "application/json",
	pipeline.FormatPNG:  "image/png",
	pipeline.FormatPDF:  "application/pdf",
}

func (s *Server) routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(s.observe)

	r.Get("/healthz", s.handleHealth)
	if s.gatherer != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(s.gatherer, promhttp.HandlerOpts{}))
	}

	r.Route("/v1/sessions", func(r chi.Router) {
		r.Post("/", s.handleCreate)
		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", s.handleInfo)
			r.Delete("/", s.handleDelete)
			r.Post("/events", s.handleEvents)
			r.Get("/selection", s.handleSelection)
			r.Delete("/selection", s.handleClearSelection)
			r.Put("/views/{view}/config", s.handleConfig)
			r.Get("/views/{view}.{format}", s.handleRender)
			r.Get("/hover/{view}", s.handleHover)
		})
	})
	return r
}

type healthResponse struct {
	Status   string         `json:"status"`
	Sessions int            `json:"sessions"`
	Build    buildinfo.Info `json:"build"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, healthResponse{
		Status:   "ok",
		Sessions: s.sessions.Len(),
		Build:    buildinfo.Get(),
	})
}

// handleCreate loads the default dataset, or the request body when it is
// sent as text/csv or text/tab-separated-values.
func (s *Server) handleCreate(w http.ResponseWriter, r *http.Request) {
	src := s.source
	mt, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	switch mt {
	case "text/csv", "text/tab-separated-values":
		comma := ','
		if mt == "text/tab-separated-values" {
			comma = '\t'
		}
		body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, MaxUploadBytes))
		if err != nil {
			writeError(w, brerrors.Wrap(brerrors.ErrCodeInvalidInput, err, "read upload"))
			return
		}
		src = uploadSource{data: body, comma: comma, required: s.cfg.Data.Required}
	}
	if src == nil {
		writeError(w, brerrors.New(brerrors.ErrCodeInvalidInput, "no default dataset: upload text/csv"))
		return
	}

	sess, err := s.sessions.Create(r.Context(), src)
	if err != nil {
		writeError(w, err)
		return
	}
	info, err := sess.Info()
	if err != nil {
		writeError(w, err)
		return
	}
	w.Header().Set("Location", "/v1/sessions/"+sess.ID)
	writeJSON(w, http.StatusCreated, info)
}

func (s *Server) handleInfo(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.session(w, r)
	if !ok {
		return
	}
	info, err := sess.Info()
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, info)
}

func (s *Server) handleDelete(w http.ResponseWriter, r *http.Request) {
	if err := s.sessions.Delete(chi.URLParam(r, "id")); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type eventsRequest struct {
	Events []string `json:"events"`
}

// handleEvents applies interaction-script lines. The body is either a
// plain-text script or {"events": [...]}.
func (s *Server) handleEvents(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.session(w, r)
	if !ok {
		return
	}
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, MaxScriptBytes))
	if err != nil {
		writeError(w, brerrors.Wrap(brerrors.ErrCodeInvalidInput, err, "read events"))
		return
	}

	var events []dashboard.Event
	if mt, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type")); mt == "application/json" {
		var req eventsRequest
		if err := gojson.Unmarshal(body, &req); err != nil {
			writeError(w, brerrors.Wrap(brerrors.ErrCodeInvalidInput, err, "decode events"))
			return
		}
		for i, line := range req.Events {
			ev, err := dashboard.ParseCommand(line)
			if err != nil {
				writeError(w, fmt.Errorf("event %d: %w", i+1, err))
				return
			}
			events = append(events, ev)
		}
	} else {
		events, err = dashboard.ParseScript(bytes.NewReader(body))
		if err != nil {
			writeError(w, err)
			return
		}
	}

	var info session.Info
	err = sess.Do(func(d *dashboard.Dashboard) error {
		err := d.ApplyAll(r.Context(), events)
		info = session.Describe(d)
		return err
	})
	if err != nil {
		writeError(w, err)
		return
	}
	info.ID = sess.ID
	info.CreatedAt = sess.CreatedAt
	info.ExpiresAt = sess.ExpiresAt()
	writeJSON(w, http.StatusOK, info)
}

type selectionResponse struct {
	IDs      selection.Selection `json:"ids"`
	Count    int                 `json:"count"`
	Origin   string              `json:"origin,omitempty"`
	Revision uint64              `json:"revision"`
}

func (s *Server) handleSelection(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.session(w, r)
	if !ok {
		return
	}
	resp, err := sessionSelection(sess)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleClearSelection(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.session(w, r)
	if !ok {
		return
	}
	var resp selectionResponse
	err := sess.Do(func(d *dashboard.Dashboard) error {
		// The host commit resets every view's brush.
		err := d.Apply(dashboard.ClearEvent{})
		resp = selectionOf(d)
		return err
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

// sessionSelection reads the selection of sess. It fails with
// session.ErrClosed when the session was deleted in the meantime.
func sessionSelection(sess *session.Session) (selectionResponse, error) {
	var resp selectionResponse
	err := sess.Do(func(d *dashboard.Dashboard) error {
		resp = selectionOf(d)
		return nil
	})
	return resp, err
}

func selectionOf(d *dashboard.Dashboard) selectionResponse {
	sel := d.Selection()
	return selectionResponse{
		IDs:      sel,
		Count:    sel.Matching(d.Dataset()),
		Origin:   d.Store().Origin(),
		Revision: d.Store().Revision(),
	}
}

func (s *Server) handleConfig(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.session(w, r)
	if !ok {
		return
	}
	var cfg view.AxisConfig
	dec := gojson.NewDecoder(http.MaxBytesReader(w, r.Body, MaxScriptBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&cfg); err != nil {
		writeError(w, brerrors.Wrap(brerrors.ErrCodeInvalidConfig, err, "decode view config"))
		return
	}
	name := chi.URLParam(r, "view")
	var applied view.AxisConfig
	err := sess.Do(func(d *dashboard.Dashboard) error {
		if err := d.Apply(dashboard.ConfigEvent{View: name, Config: &cfg}); err != nil {
			return err
		}
		v, _ := d.View(name)
		applied = v.Config()
		return nil
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, applied)
}

// handleRender renders a view. Identical concurrent requests for the same
// view revision share one rendering.
func (s *Server) handleRender(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.session(w, r)
	if !ok {
		return
	}
	name, format := chi.URLParam(r, "view"), chi.URLParam(r, "format")
	if err := pipeline.ValidateFormat(format); err != nil {
		writeError(w, err)
		return
	}

	var frame view.Frame
	err := sess.Do(func(d *dashboard.Dashboard) error {
		v, err := d.View(name)
		if err != nil {
			return err
		}
		frame = v.Frame()
		return nil
	})
	if err != nil {
		writeError(w, err)
		return
	}

	key := fmt.Sprintf("%s/%s/%d/%t/%s", sess.ID, name, frame.Revision, frame.Preview, format)
	data, err, shared := s.renders.Do(key, func() (any, error) {
		return pipeline.RenderFrame(frame, format, &s.opts)
	})
	if err != nil {
		writeError(w, err)
		return
	}
	if shared {
		s.logger.Debug("shared render", "session", sess.ID, "view", name, "format", format)
	}
	w.Header().Set("Content-Type", contentTypes[format])
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data.([]byte))
}

type hoverResponse struct {
	ID     dataset.Identity `json:"id"`
	Fields map[string]any   `json:"fields"`
}

func (s *Server) handleHover(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.session(w, r)
	if !ok {
		return
	}
	x, errX := strconv.ParseFloat(r.URL.Query().Get("x"), 64)
	y, errY := strconv.ParseFloat(r.URL.Query().Get("y"), 64)
	if errX != nil || errY != nil {
		writeError(w, brerrors.New(brerrors.ErrCodeInvalidInput, "x and y must be numbers"))
		return
	}

	name := chi.URLParam(r, "view")
	var (
		resp  hoverResponse
		found bool
	)
	err := sess.Do(func(d *dashboard.Dashboard) error {
		v, err := d.View(name)
		if err != nil {
			return err
		}
		rec, ok := v.Hover(view.Point{X: x, Y: y})
		if !ok {
			return nil
		}
		found = true
		resp = hoverResponse{ID: rec.ID, Fields: make(map[string]any, len(d.Dataset().Fields))}
		for _, f := range d.Dataset().Fields {
			resp.Fields[f] = jsonValue(rec.Get(f))
		}
		return nil
	})
	if err != nil {
		writeError(w, err)
		return
	}
	if !found {
		writeError(w, brerrors.New(brerrors.ErrCodeNotFound, "no record at %g,%g", x, y))
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) session(w http.ResponseWriter, r *http.Request) (*session.Session, bool) {
	sess, err := s.sessions.Get(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return nil, false
	}
	return sess, true
}

func jsonValue(v dataset.Value) any {
	switch v.Kind() {
	case dataset.KindNumber:
		f, _ := v.Float()
		return f
	case dataset.KindText:
		return v.String()
	default:
		return nil
	}
}

// uploadSource reads a dataset sent in a request body.
type uploadSource struct {
	data     []byte
	comma    rune
	required []string
}

func (u uploadSource) Load(ctx context.Context) (*dataset.Dataset, error) {
	return dataset.ReadCSV(ctx, bytes.NewReader(u.data), u.comma, u.required...)
}

func (u uploadSource) String() string { return fmt.Sprintf("upload:%dB", len(u.data)) }

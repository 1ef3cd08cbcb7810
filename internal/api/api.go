// Package api serves availability queries and reservations over HTTP.
package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"

	"github.com/27Shambhavi/shunting/internal/availability"
	"github.com/27Shambhavi/shunting/internal/booking"
	"github.com/27Shambhavi/shunting/internal/model"
	"github.com/27Shambhavi/shunting/internal/schedule"
	"github.com/27Shambhavi/shunting/internal/telemetry"
	"github.com/27Shambhavi/shunting/internal/timeline"
)

// API wires the HTTP handlers to the availability and booking services.
type API struct {
	avail    *availability.Service
	reserver *booking.Reserver
	metrics  *telemetry.Metrics
	loc      *time.Location
	minSlot  time.Duration
	logger   zerolog.Logger
}

// Options configures an API.
type Options struct {
	// Location interprets query timestamps that carry no zone.
	Location *time.Location
	// MinSlot is used when a query omits min.
	MinSlot time.Duration
	Metrics *telemetry.Metrics
	Logger  zerolog.Logger
}

// New creates an API.
func New(avail *availability.Service, reserver *booking.Reserver, opts Options) *API {
	loc := opts.Location
	if loc == nil {
		loc = time.UTC
	}
	return &API{
		avail:    avail,
		reserver: reserver,
		metrics:  opts.Metrics,
		loc:      loc,
		minSlot:  opts.MinSlot,
		logger:   opts.Logger.With().Str("component", "api").Logger(),
	}
}

// Routes returns the router.
func (a *API) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(a.metrics.Middleware)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	if a.metrics != nil {
		r.Handle("/metrics", a.metrics.Handler())
	}

	r.Get("/tracks", a.handleTracks)
	r.Get("/availability", a.handleAllAvailability)
	r.Route("/tracks/{track}", func(r chi.Router) {
		r.Get("/availability", a.handleTrackAvailability)
		r.Post("/reservations", a.handleReserve)
	})
	return r
}

func (a *API) handleTracks(w http.ResponseWriter, r *http.Request) {
	tracks, err := a.avail.Tracks(r.Context())
	if err != nil {
		a.writeErr(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string][]string{"tracks": tracks})
}

func (a *API) handleAllAvailability(w http.ResponseWriter, r *http.Request) {
	win, minSlot, err := a.parseQuery(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	reports, err := a.avail.All(r.Context(), win, minSlot)
	if err != nil {
		a.writeErr(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, reports)
}

func (a *API) handleTrackAvailability(w http.ResponseWriter, r *http.Request) {
	win, minSlot, err := a.parseQuery(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	rep, err := a.avail.Track(r.Context(), chi.URLParam(r, "track"), win, minSlot)
	if err != nil {
		a.writeErr(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, rep)
}

// reserveRequest either names a slot with At, or asks for the first fit
// inside Start..End.
type reserveRequest struct {
	ID       string `json:"id"`
	Start    string `json:"start"`
	End      string `json:"end"`
	At       string `json:"at"`
	Duration string `json:"duration"`
}

func (a *API) handleReserve(w http.ResponseWriter, r *http.Request) {
	track := chi.URLParam(r, "track")

	var req reserveRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	d := a.minSlot
	if req.Duration != "" {
		var err error
		if d, err = schedule.ParseDuration(req.Duration); err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
	}

	var (
		rec *model.OccupancyRecord
		err error
	)
	if req.At != "" {
		at, perr := schedule.ParseTime(req.At, a.loc)
		if perr != nil {
			writeError(w, http.StatusBadRequest, "at: "+perr.Error())
			return
		}
		rec, err = a.reserver.ReserveAt(r.Context(), track, req.ID, at, d)
	} else {
		win, werr := a.parseWindow(req.Start, req.End)
		if werr != nil {
			writeError(w, http.StatusBadRequest, werr.Error())
			return
		}
		rec, err = a.reserver.Reserve(r.Context(), booking.Request{Track: track, ID: req.ID, Window: win, Duration: d})
	}
	if err != nil {
		a.writeErr(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, rec)
}

func (a *API) parseQuery(r *http.Request) (timeline.Window, time.Duration, error) {
	q := r.URL.Query()
	win, err := a.parseWindow(q.Get("start"), q.Get("end"))
	if err != nil {
		return timeline.Window{}, 0, err
	}
	minSlot := a.minSlot
	if v := q.Get("min"); v != "" {
		if minSlot, err = schedule.ParseDuration(v); err != nil {
			return timeline.Window{}, 0, err
		}
	}
	return win, minSlot, nil
}

func (a *API) parseWindow(start, end string) (timeline.Window, error) {
	s, err := schedule.ParseTime(start, a.loc)
	if err != nil {
		return timeline.Window{}, errors.New("start: " + err.Error())
	}
	e, err := schedule.ParseTime(end, a.loc)
	if err != nil {
		return timeline.Window{}, errors.New("end: " + err.Error())
	}
	return timeline.Window{Start: s, End: e}, nil
}

// statusFor maps domain errors onto HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, timeline.ErrInvalidWindow),
		errors.Is(err, timeline.ErrInvalidDuration),
		errors.Is(err, timeline.ErrInvalidInterval),
		errors.Is(err, model.ErrInvalidRecord):
		return http.StatusBadRequest
	case errors.Is(err, availability.ErrUnknownTrack):
		return http.StatusNotFound
	case errors.Is(err, booking.ErrNoSlot), errors.Is(err, booking.ErrSlotTaken):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

func (a *API) writeErr(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		a.logger.Error().Err(err).Str("path", r.URL.Path).Str("request_id", middleware.GetReqID(r.Context())).Msg("request failed")
		writeError(w, status, "internal error")
		return
	}
	writeError(w, status, err.Error())
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

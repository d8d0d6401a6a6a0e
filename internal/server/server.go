// Package server exposes optimization jobs over HTTP. It consumes only the
// public contract of the optimization packages: fit, run, the iteration
// callback and the resulting best point and value.
package server

import (
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/optimatic/AMOEBA/internal/config"
	"github.com/optimatic/AMOEBA/internal/optimization"
	"github.com/optimatic/AMOEBA/internal/optimization/neldermead"
)

// Job statuses. Cancellation is best-effort: the core loop is synchronous
// and stops only through its own iteration caps, so a cancelled job keeps
// computing in the background but its result is discarded.
const (
	StatusPending   = "pending"
	StatusRunning   = "running"
	StatusCompleted = "completed"
	StatusFailed    = "failed"
	StatusCancelled = "cancelled"
)

// Job tracks one optimization run. Guarded by the server mutex.
type Job struct {
	ID          string
	Status      string
	StartTime   time.Time
	EndTime     *time.Time
	LastUpdated time.Time

	// MaxSteps is the inner iteration cap, used for progress reporting.
	MaxSteps int
	// Recorder collects per-iteration snapshots during the run.
	Recorder *neldermead.Recorder

	BestPoint []float64
	BestValue float64
	Err       string
}

// Server manages optimization jobs and the HTTP endpoints to start,
// monitor and cancel them.
type Server struct {
	cfg    *config.Config
	logger *zap.Logger

	mu   sync.RWMutex
	jobs map[string]*Job
}

// NewServer creates a server instance with the given config and logger.
func NewServer(cfg *config.Config, logger *zap.Logger) *Server {
	return &Server{
		cfg:    cfg,
		logger: logger,
		jobs:   make(map[string]*Job),
	}
}

// RegisterRoutes mounts the API endpoints on the given router.
func (s *Server) RegisterRoutes(r chi.Router) {
	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/optimize", s.handleOptimize)
		r.Get("/status/{id}", s.handleStatus)
		r.Delete("/optimization/{id}", s.handleCancel)
	})
}

// optimizeRequest is the job submission payload. The objective is either a
// named benchmark or a polynomial given by coefficient rows; constraints
// are affine (coefficients·x + offset) so no formula parser is needed.
type optimizeRequest struct {
	Objective    string      `json:"objective"`
	Dimension    int         `json:"dimension,omitempty"`
	Coefficients [][]float64 `json:"coefficients,omitempty"`

	// Points seeds the initial simplex; with constraints the first point
	// is the penalty method's start point.
	Points [][]float64 `json:"points"`

	Params      *methodParams    `json:"params,omitempty"`
	Constraints []constraintSpec `json:"constraints,omitempty"`
	Penalty     *penaltyParams   `json:"penalty,omitempty"`
}

// methodParams overrides the server's default Nelder-Mead configuration.
// Pointers distinguish "absent" from legitimate zero values.
type methodParams struct {
	Alpha    *float64 `json:"alpha,omitempty"`
	Betta    *float64 `json:"betta,omitempty"`
	Gamma    *float64 `json:"gamma,omitempty"`
	MaxSteps *int     `json:"max_steps,omitempty"`
	Eps0     *float64 `json:"eps0,omitempty"`
	MaxBlank *int     `json:"max_blank,omitempty"`
	Eps1     *float64 `json:"eps1,omitempty"`
}

type constraintSpec struct {
	// Type is "equality" (f(x) = 0) or "inequality" (f(x) <= 0).
	Type         string    `json:"type"`
	Coefficients []float64 `json:"coefficients"`
	Offset       float64   `json:"offset"`
}

type penaltyParams struct {
	Eps         *float64 `json:"eps,omitempty"`
	Betta       *float64 `json:"betta,omitempty"`
	StartWeight *float64 `json:"start_weight,omitempty"`
	MaxSteps    *int     `json:"max_steps,omitempty"`
}

// jobSpec is a fully validated request, ready to run.
type jobSpec struct {
	fn          optimization.Function
	points      []optimization.Point
	method      *neldermead.NelderMead
	wrapper     *neldermead.ConstrainedNelderMead
	constraints []optimization.Constraint
}

// handleOptimize validates the request synchronously, so contract
// violations come back as 400 before a job is created, and then runs the
// optimization in a goroutine.
func (s *Server) handleOptimize(w http.ResponseWriter, r *http.Request) {
	var req optimizeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.respondError(w, http.StatusBadRequest, fmt.Sprintf("invalid request body: %v", err))
		return
	}

	spec, err := s.buildSpec(&req)
	if err != nil {
		s.respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	s.mu.Lock()
	if s.activeJobCount() >= s.cfg.Optimization.MaxJobs {
		s.mu.Unlock()
		s.respondError(w, http.StatusTooManyRequests, "job limit reached")
		return
	}
	job := &Job{
		ID:          fmt.Sprintf("opt_%d", time.Now().UnixNano()),
		Status:      StatusPending,
		StartTime:   time.Now(),
		LastUpdated: time.Now(),
		MaxSteps:    spec.method.Params().MaxSteps,
		Recorder:    &neldermead.Recorder{},
	}
	s.jobs[job.ID] = job
	s.mu.Unlock()

	runsStarted.Inc()
	go s.runJob(job, spec)

	s.logger.Info("optimization accepted",
		zap.String("job_id", job.ID),
		zap.String("objective", optimization.FuncName(spec.fn, "custom")),
		zap.Int("constraints", len(spec.constraints)),
	)

	// The job may already be running; report the state it was created in
	// rather than racing the worker goroutine for the current one.
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusAccepted)
	json.NewEncoder(w).Encode(map[string]string{
		"optimization_id": job.ID,
		"status":          StatusPending,
	})
}

// buildSpec turns a request into validated optimizer instances.
func (s *Server) buildSpec(req *optimizeRequest) (*jobSpec, error) {
	var fn optimization.Function
	var err error
	if len(req.Coefficients) > 0 {
		fn, err = optimization.Polynomial(req.Coefficients)
	} else {
		fn, err = optimization.Lookup(req.Objective, req.Dimension)
	}
	if err != nil {
		return nil, err
	}

	points := make([]optimization.Point, 0, len(req.Points))
	for _, coords := range req.Points {
		if len(coords) != fn.Dimension() {
			return nil, optimization.NewErrorf("point %v dimension must be %d", coords, fn.Dimension())
		}
		points = append(points, optimization.NewPoint(coords...))
	}

	method, err := neldermead.New(s.methodConfig(req.Params))
	if err != nil {
		return nil, err
	}

	spec := &jobSpec{fn: countEvaluations(fn), points: points, method: method}

	if len(req.Constraints) > 0 {
		if len(points) == 0 {
			return nil, optimization.NewError("constrained runs require a start point")
		}
		for _, cs := range req.Constraints {
			constraint, err := buildConstraint(cs, fn.Dimension())
			if err != nil {
				return nil, err
			}
			spec.constraints = append(spec.constraints, constraint)
		}
		wrapper, err := neldermead.NewConstrained(penaltyConfig(req.Penalty))
		if err != nil {
			return nil, err
		}
		if err := wrapper.Fit(method, spec.fn, spec.constraints...); err != nil {
			return nil, err
		}
		spec.wrapper = wrapper
	} else {
		if err := method.Fit(spec.fn, points...); err != nil {
			return nil, err
		}
	}
	return spec, nil
}

func buildConstraint(cs constraintSpec, dimension int) (optimization.Constraint, error) {
	if len(cs.Coefficients) != dimension {
		return optimization.Constraint{}, optimization.NewErrorf(
			"constraint coefficients must have dimension %d, got %d", dimension, len(cs.Coefficients))
	}
	fn, err := optimization.Linear(cs.Coefficients, cs.Offset)
	if err != nil {
		return optimization.Constraint{}, err
	}
	switch cs.Type {
	case "equality":
		return optimization.Equality(fn), nil
	case "inequality":
		return optimization.Inequality(fn), nil
	default:
		return optimization.Constraint{}, optimization.NewErrorf("unknown constraint type %q", cs.Type)
	}
}

func (s *Server) methodConfig(p *methodParams) neldermead.Config {
	opt := s.cfg.Optimization
	cfg := neldermead.Config{
		Alpha:    opt.Alpha,
		Betta:    opt.Betta,
		Gamma:    opt.Gamma,
		MaxSteps: opt.MaxSteps,
		Eps0:     opt.Eps0,
		MaxBlank: opt.MaxBlank,
		Eps1:     opt.Eps1,
	}
	if p == nil {
		return cfg
	}
	if p.Alpha != nil {
		cfg.Alpha = *p.Alpha
	}
	if p.Betta != nil {
		cfg.Betta = *p.Betta
	}
	if p.Gamma != nil {
		cfg.Gamma = *p.Gamma
	}
	if p.MaxSteps != nil {
		cfg.MaxSteps = *p.MaxSteps
	}
	if p.Eps0 != nil {
		cfg.Eps0 = *p.Eps0
	}
	if p.MaxBlank != nil {
		cfg.MaxBlank = *p.MaxBlank
	}
	if p.Eps1 != nil {
		cfg.Eps1 = *p.Eps1
	}
	return cfg
}

func penaltyConfig(p *penaltyParams) neldermead.ConstrainedConfig {
	cfg := neldermead.DefaultConstrainedConfig()
	if p == nil {
		return cfg
	}
	if p.Eps != nil {
		cfg.Eps = *p.Eps
	}
	if p.Betta != nil {
		cfg.Betta = *p.Betta
	}
	if p.StartWeight != nil {
		cfg.StartWeight = *p.StartWeight
	}
	if p.MaxSteps != nil {
		cfg.MaxSteps = *p.MaxSteps
	}
	return cfg
}

// runJob executes the optimization in a goroutine and records the outcome.
func (s *Server) runJob(job *Job, spec *jobSpec) {
	s.setStatus(job, StatusRunning)
	activeJobs.Inc()
	defer activeJobs.Dec()
	timer := prometheus.NewTimer(runDuration)
	defer timer.ObserveDuration()

	action := func(nm *neldermead.NelderMead) {
		iterationsTotal.Inc()
		job.Recorder.Record(nm)
	}

	var bestPoint optimization.Point
	var bestValue float64
	var err error
	if spec.wrapper != nil {
		bestPoint, bestValue, err = spec.wrapper.Run(spec.points[0], action, nil)
	} else {
		bestValue, err = spec.method.Run(action)
		if err == nil {
			bestPoint = spec.method.Simplex().Best().Point
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if job.Status == StatusCancelled {
		runsFinished.WithLabelValues(StatusCancelled).Inc()
		return
	}
	now := time.Now()
	job.EndTime = &now
	job.LastUpdated = now
	if err != nil {
		job.Status = StatusFailed
		job.Err = err.Error()
		s.logger.Error("optimization failed",
			zap.String("job_id", job.ID), zap.Error(err))
	} else {
		job.Status = StatusCompleted
		job.BestPoint = bestPoint.Values()
		job.BestValue = bestValue
		s.logger.Info("optimization completed",
			zap.String("job_id", job.ID),
			zap.Float64("best_value", bestValue),
			zap.Int("iterations", job.Recorder.Len()),
		)
	}
	runsFinished.WithLabelValues(job.Status).Inc()
}

// activeJobCount counts jobs that have not reached a terminal state.
// Terminal jobs stay in the map for status queries but do not occupy a
// slot against the job cap. Callers must hold the mutex.
func (s *Server) activeJobCount() int {
	count := 0
	for _, job := range s.jobs {
		switch job.Status {
		case StatusPending, StatusRunning:
			count++
		}
	}
	return count
}

func (s *Server) setStatus(job *Job, status string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if job.Status == StatusCancelled {
		return
	}
	job.Status = status
	job.LastUpdated = time.Now()
}

// handleStatus reports job progress, the best solution so far and the
// recorded best-value trajectory.
func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	s.mu.RLock()
	job, ok := s.jobs[id]
	if !ok {
		s.mu.RUnlock()
		s.respondError(w, http.StatusNotFound, "optimization not found")
		return
	}

	response := map[string]interface{}{
		"status":      job.Status,
		"start_time":  job.StartTime.Format(time.RFC3339),
		"last_update": job.LastUpdated.Format(time.RFC3339),
	}
	if job.EndTime != nil {
		response["end_time"] = job.EndTime.Format(time.RFC3339)
	}
	if job.Err != "" {
		response["error"] = job.Err
	}
	if job.Status == StatusCompleted {
		response["best_solution"] = map[string]interface{}{
			"point": job.BestPoint,
			"value": job.BestValue,
		}
	}
	recorder := job.Recorder
	maxSteps := job.MaxSteps
	s.mu.RUnlock()

	steps := recorder.Len()
	response["iterations"] = steps
	// Constrained jobs record iterations across every penalty round, so
	// the ratio against the inner cap is clamped to keep progress in [0, 1].
	progress := float64(steps) / float64(maxSteps+1)
	if progress > 1 {
		progress = 1
	}
	response["progress"] = progress
	if last, ok := recorder.Last(); ok {
		response["current_best"] = map[string]interface{}{
			"point": last.Best.Point.Values(),
			"value": last.Best.Value,
		}
	}
	trajectory := make([]float64, 0, steps)
	for _, snapshot := range recorder.Snapshots() {
		trajectory = append(trajectory, snapshot.Best.Value)
	}
	response["trajectory"] = trajectory

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(response)
}

// handleCancel marks a job cancelled. The computation itself cannot be
// interrupted mid-run; its eventual result is discarded.
func (s *Server) handleCancel(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	s.mu.Lock()
	job, ok := s.jobs[id]
	if !ok {
		s.mu.Unlock()
		s.respondError(w, http.StatusNotFound, "optimization not found")
		return
	}
	switch job.Status {
	case StatusCompleted, StatusFailed, StatusCancelled:
		status := job.Status
		s.mu.Unlock()
		s.respondError(w, http.StatusBadRequest,
			fmt.Sprintf("cannot cancel optimization with status %s", status))
		return
	}
	job.Status = StatusCancelled
	now := time.Now()
	job.EndTime = &now
	job.LastUpdated = now
	s.mu.Unlock()

	s.logger.Info("optimization cancelled", zap.String("job_id", id))

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"status": StatusCancelled})
}

func (s *Server) respondError(w http.ResponseWriter, code int, message string) {
	s.logger.Warn("request rejected", zap.Int("status", code), zap.String("message", message))
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(map[string]string{"error": message})
}

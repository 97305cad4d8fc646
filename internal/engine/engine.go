package engine

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/gyaneshwarpardhi/lodgeroll/internal/config"
	"github.com/gyaneshwarpardhi/lodgeroll/internal/eligibility"
	"github.com/gyaneshwarpardhi/lodgeroll/internal/lodge"
	"github.com/gyaneshwarpardhi/lodgeroll/internal/metrics"
	"github.com/gyaneshwarpardhi/lodgeroll/internal/report"
	"github.com/gyaneshwarpardhi/lodgeroll/internal/status"
	"github.com/gyaneshwarpardhi/lodgeroll/internal/store"
)

var (
	ErrQueueFull      = errors.New("engine: report queue full")
	ErrUnknownProfile = errors.New("engine: unknown profile")
)

// Query asks for one report. Without an inline snapshot the engine loads the
// From..To range from its store. A zero AsOf means today.
type Query struct {
	Profile     string          `json:"profile,omitempty"`
	From        lodge.Date      `json:"from"`
	To          lodge.Date      `json:"to"`
	AsOf        lodge.Date      `json:"as_of"`
	IncludeGrid bool            `json:"include_grid,omitempty"`
	Snapshot    *lodge.Snapshot `json:"snapshot,omitempty"`
}

func (q Query) rng() store.Range { return store.Range{From: q.From, To: q.To} }

// Engine builds attendance reports on a bounded worker pool.
type Engine struct {
	profiles atomic.Pointer[ProfileSet]
	registry *report.Registry
	source   store.Source
	pool     *workerPool[*reportWork]
	jobs     *jobStore
	conf     config.EngineConf
	now      func() time.Time
}

type reportWork struct {
	// ctx is the caller's context for sync work; async work runs on the pool's.
	ctx     context.Context
	jobID   string
	profile report.Profile
	query   Query
	resultC chan outcome
}

type outcome struct {
	rep *report.Report
	err error
}

// New creates an Engine and starts its worker pool. A nil source means
// every query must carry its own snapshot.
func New(ctx context.Context, ps *ProfileSet, reg *report.Registry, src store.Source, conf config.EngineConf) *Engine {
	if src == nil {
		src = store.None{}
	}
	e := &Engine{
		registry: reg,
		source:   src,
		jobs:     newJobStore(conf.JobRetention),
		conf:     conf,
		now:      time.Now,
	}
	e.profiles.Store(ps)
	e.pool = newWorkerPool(ctx, conf.ReportWorkers, conf.QueueDepth, e.process)
	return e
}

// SwapProfiles atomically replaces the profile set (used on hot-reload).
// Reports already running keep the profile they started with.
func (e *Engine) SwapProfiles(ps *ProfileSet) {
	e.profiles.Store(ps)
}

// Reconfigure validates cfg, compiles its profiles and swaps them in.
// On error the current profiles stay in place.
func (e *Engine) Reconfigure(cfg *config.Config) (*ProfileSet, error) {
	if err := config.Validate(cfg); err != nil {
		return nil, err
	}
	ps, err := CompileProfiles(cfg, e.registry)
	if err != nil {
		return nil, err
	}
	e.SwapProfiles(ps)
	return ps, nil
}

// Profiles returns the current profile set.
func (e *Engine) Profiles() *ProfileSet {
	return e.profiles.Load()
}

// RunSync builds a report and waits for it. It fails fast with ErrQueueFull
// when the queue has no room.
func (e *Engine) RunSync(ctx context.Context, q Query) (*report.Report, error) {
	p, err := e.profiles.Load().Get(q.Profile)
	if err != nil {
		return nil, err
	}
	timeout := time.Duration(e.conf.ReportTimeoutMs) * time.Millisecond
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	w := &reportWork{ctx: ctx, profile: p, query: q, resultC: make(chan outcome, 1)}
	submitted := e.pool.Submit(w)
	e.observeQueue()
	if !submitted {
		metrics.ReportsDropped.Inc()
		return nil, fmt.Errorf("%w (capacity %d)", ErrQueueFull, e.pool.QueueCap())
	}
	metrics.ReportsEnqueued.Inc()

	select {
	case out := <-w.resultC:
		return out.rep, out.err
	case <-ctx.Done():
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return nil, fmt.Errorf("engine: report timeout after %v: %w", timeout, ctx.Err())
		}
		return nil, ctx.Err()
	}
}

// RunAsync enqueues a report and returns its job id.
func (e *Engine) RunAsync(q Query) (string, error) {
	p, err := e.profiles.Load().Get(q.Profile)
	if err != nil {
		return "", err
	}
	id := uuid.New().String()
	e.jobs.add(&Job{ID: id, Profile: p.ID, State: JobQueued, SubmittedAt: e.now()})

	submitted := e.pool.Submit(&reportWork{jobID: id, profile: p, query: q})
	e.observeQueue()
	if !submitted {
		e.jobs.remove(id)
		metrics.ReportsDropped.Inc()
		return "", fmt.Errorf("%w (capacity %d)", ErrQueueFull, e.pool.QueueCap())
	}
	metrics.ReportsEnqueued.Inc()
	return id, nil
}

// Job returns a snapshot of an async job.
func (e *Engine) Job(id string) (Job, bool) {
	return e.jobs.get(id)
}

// QueueUtilization returns queue used / capacity (0–1).
func (e *Engine) QueueUtilization() float64 {
	if e.pool.QueueCap() == 0 {
		return 0
	}
	return float64(e.pool.QueueLen()) / float64(e.pool.QueueCap())
}

func (e *Engine) observeQueue() {
	metrics.QueueUtilization.Set(e.QueueUtilization())
}

// Shutdown drains the pool gracefully.
func (e *Engine) Shutdown() {
	e.pool.Drain()
}

func (e *Engine) process(poolCtx context.Context, w *reportWork) {
	e.observeQueue()
	if w.ctx == nil {
		ctx, cancel := context.WithTimeout(poolCtx, time.Duration(e.conf.ReportTimeoutMs)*time.Millisecond)
		defer cancel()
		e.runJob(ctx, w)
		return
	}
	if err := w.ctx.Err(); err != nil {
		// The caller gave up while the work sat in the queue.
		w.resultC <- outcome{err: err}
		return
	}
	rep, err := e.build(w.ctx, w.profile, w.query)
	w.resultC <- outcome{rep: rep, err: err}
}

func (e *Engine) runJob(ctx context.Context, w *reportWork) {
	e.jobs.update(w.jobID, func(j *Job) { j.State = JobRunning })
	start := time.Now()
	rep, err := e.build(ctx, w.profile, w.query)
	e.jobs.update(w.jobID, func(j *Job) {
		j.DurationMs = time.Since(start).Milliseconds()
		if err != nil {
			j.State, j.Error = JobFailed, err.Error()
			return
		}
		j.State, j.Report = JobDone, rep
	})
	if err != nil {
		slog.Warn("async report failed", "job_id", w.jobID, "profile", w.profile.ID, "err", err)
	}
}

func (e *Engine) build(ctx context.Context, p report.Profile, q Query) (*report.Report, error) {
	start := time.Now()
	rep, err := e.buildReport(ctx, p, q)
	metrics.ReportBuildDuration.Observe(float64(time.Since(start).Milliseconds()))
	if err != nil {
		metrics.ReportsBuilt.WithLabelValues(p.ID, "error").Inc()
		return nil, err
	}
	metrics.ReportsBuilt.WithLabelValues(p.ID, "success").Inc()
	for _, tag := range eligibility.Tags {
		if n := rep.TagTotals[tag]; n > 0 {
			metrics.Decisions.WithLabelValues(string(tag)).Add(float64(n))
		}
	}
	logIssues(p.ID, rep.Issues)
	return rep, nil
}

func (e *Engine) buildReport(ctx context.Context, p report.Profile, q Query) (*report.Report, error) {
	snap := q.Snapshot
	if snap == nil {
		loaded, err := e.source.Load(ctx, q.rng())
		if err != nil {
			return nil, fmt.Errorf("engine: load snapshot: %w", err)
		}
		snap = loaded
	} else if q.rng() != (store.Range{}) {
		snap = store.Trim(snap, q.rng())
	}
	asOf := q.AsOf
	if asOf.IsZero() {
		asOf = lodge.DateOf(e.now())
	}
	return report.Build(ctx, e.registry, report.Request{
		Snapshot:    snap,
		Profile:     p,
		AsOf:        asOf,
		IncludeGrid: q.IncludeGrid,
		Workers:     e.conf.ShardWorkers,
	})
}

// logIssues writes one warn line per issue kind and counts every issue.
func logIssues(profile string, issues []lodge.Issue) {
	if len(issues) == 0 {
		return
	}
	counts := make(map[lodge.IssueKind]int)
	var order []lodge.IssueKind
	for _, is := range issues {
		if counts[is.Kind] == 0 {
			order = append(order, is.Kind)
		}
		counts[is.Kind]++
		metrics.DataIssues.WithLabelValues(string(is.Kind)).Inc()
	}
	for _, kind := range order {
		slog.Warn("data-quality issues in snapshot", "profile", profile, "kind", kind, "count", counts[kind])
	}
}

// ClassifyQuery classifies one member against a list of sessions.
type ClassifyQuery struct {
	Profile    string                   `json:"profile,omitempty"`
	Member     lodge.Member             `json:"member"`
	Sessions   []lodge.Session          `json:"sessions"`
	Statuses   []lodge.StatusInterval   `json:"statuses,omitempty"`
	Attendance []lodge.AttendanceRecord `json:"attendance,omitempty"`
}

// Classification is the per-session outcome of a ClassifyQuery.
type Classification struct {
	Profile   string                 `json:"profile"`
	Decisions []eligibility.Decision `json:"decisions"`
	Issues    []lodge.Issue          `json:"issues"`
}

// Classify runs the profile's primary policy inline; it does not use the queue.
func (e *Engine) Classify(q ClassifyQuery) (*Classification, error) {
	p, err := e.profiles.Load().Get(q.Profile)
	if err != nil {
		return nil, err
	}
	snap := &lodge.Snapshot{
		Members:    []lodge.Member{q.Member},
		Sessions:   q.Sessions,
		Attendance: q.Attendance,
		Statuses:   q.Statuses,
	}
	ix := status.NewIndex(q.Statuses)
	book := lodge.NewBook(q.Attendance)
	ev := eligibility.New(p.Policy())

	out := &Classification{Profile: p.ID, Decisions: make([]eligibility.Decision, 0, len(q.Sessions))}
	for i := range snap.Sessions {
		d := ev.Evaluate(&snap.Members[0], &snap.Sessions[i], ix, book)
		metrics.Decisions.WithLabelValues(string(d.Tag)).Inc()
		out.Decisions = append(out.Decisions, d)
	}
	out.Issues = append(snap.Check(), ix.Issues()...)
	out.Issues = append(out.Issues, book.Issues()...)
	if out.Issues == nil {
		out.Issues = []lodge.Issue{}
	}
	return out, nil
}

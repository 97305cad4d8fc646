package engine

import (
	"sync"
	"time"

	"github.com/gyaneshwarpardhi/lodgeroll/internal/report"
)

// JobState is the lifecycle state of an async report.
type JobState string

const (
	JobQueued  JobState = "queued"
	JobRunning JobState = "running"
	JobDone    JobState = "done"
	JobFailed  JobState = "failed"
)

// Job is an async report and, once finished, its outcome.
type Job struct {
	ID          string         `json:"id"`
	Profile     string         `json:"profile"`
	State       JobState       `json:"state"`
	SubmittedAt time.Time      `json:"submitted_at"`
	DurationMs  int64          `json:"duration_ms,omitempty"`
	Report      *report.Report `json:"report,omitempty"`
	Error       string         `json:"error,omitempty"`
}

func (j *Job) finished() bool { return j.State == JobDone || j.State == JobFailed }

// jobStore keeps async jobs in submission order. Once more than limit jobs are
// held, the oldest finished ones are evicted; queued and running jobs never are.
type jobStore struct {
	mu    sync.Mutex
	byID  map[string]*Job
	order []string
	limit int
}

func newJobStore(limit int) *jobStore {
	return &jobStore{byID: make(map[string]*Job), limit: limit}
}

func (s *jobStore) add(j *Job) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.byID[j.ID] = j
	s.order = append(s.order, j.ID)
	s.evict()
}

func (s *jobStore) evict() {
	excess := len(s.order) - s.limit
	if excess <= 0 {
		return
	}
	kept := s.order[:0]
	for _, id := range s.order {
		if excess > 0 && s.byID[id].finished() {
			delete(s.byID, id)
			excess--
			continue
		}
		kept = append(kept, id)
	}
	s.order = kept
}

func (s *jobStore) remove(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.byID, id)
	for i, v := range s.order {
		if v == id {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
}

func (s *jobStore) update(id string, fn func(*Job)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if j, ok := s.byID[id]; ok {
		fn(j)
	}
	s.evict()
}

// get returns a copy so callers never race with the worker.
func (s *jobStore) get(id string) (Job, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	j, ok := s.byID[id]
	if !ok {
		return Job{}, false
	}
	return *j, true
}

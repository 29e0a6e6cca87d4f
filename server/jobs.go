package server

import (
	"os"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/mr-spaghetti-code/three-music-rollercoaster/energy"
	"github.com/mr-spaghetti-code/three-music-rollercoaster/logging"
)

// JobState tracks where an analysis job is in its lifecycle. Valid
// transitions are pending to running, running to done or failed, and
// done or failed to expired once the retention window passes. Any other
// transition is rejected.
type JobState int

const (
	JobPending JobState = iota
	JobRunning
	JobDone
	JobFailed
	JobExpired
)

func (s JobState) String() string {
	switch s {
	case JobPending:
		return "pending"
	case JobRunning:
		return "running"
	case JobDone:
		return "done"
	case JobFailed:
		return "failed"
	case JobExpired:
		return "expired"
	default:
		return "unknown"
	}
}

// Job is one submitted track analysis
type Job struct {
	ID        string                  `json:"id"`
	State     JobState                `json:"-"`
	Filename  string                  `json:"filename"`
	FilePath  string                  `json:"-"`
	Submitted time.Time               `json:"submitted"`
	Completed time.Time               `json:"completed,omitempty"`
	Err       string                  `json:"error,omitempty"`
	Result    *energy.StructureBundle `json:"-"`
}

// Store holds jobs in memory, keyed by ID. All state transitions go
// through the store so they are atomic with respect to concurrent
// handlers and workers.
type Store struct {
	mu     sync.RWMutex
	jobs   map[string]*Job
	ttl    time.Duration
	logger logging.Logger
}

// NewStore creates a store that retains finished results for ttl before
// expiring them
func NewStore(ttl time.Duration) *Store {
	return &Store{
		jobs:   make(map[string]*Job),
		ttl:    ttl,
		logger: logging.GetGlobalLogger(),
	}
}

// Create registers a new pending job for an uploaded file and returns it
func (s *Store) Create(filename, filePath string) *Job {
	job := &Job{
		ID:        uuid.NewString(),
		State:     JobPending,
		Filename:  filename,
		FilePath:  filePath,
		Submitted: time.Now(),
	}

	s.mu.Lock()
	s.jobs[job.ID] = job
	s.mu.Unlock()

	return job
}

// Get returns a snapshot of the job. The snapshot shares the result
// pointer but mutating its fields does not affect the store.
func (s *Store) Get(id string) (Job, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	job, ok := s.jobs[id]
	if !ok {
		return Job{}, false
	}
	return *job, true
}

// MarkRunning transitions a job from pending to running. Returns false
// if the job is missing or not pending, which tells a worker to skip it.
func (s *Store) MarkRunning(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	job, ok := s.jobs[id]
	if !ok || job.State != JobPending {
		return false
	}
	job.State = JobRunning
	return true
}

// Complete transitions a running job to done and attaches its result
func (s *Store) Complete(id string, bundle *energy.StructureBundle) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	job, ok := s.jobs[id]
	if !ok || job.State != JobRunning {
		return false
	}
	job.State = JobDone
	job.Result = bundle
	job.Completed = time.Now()
	return true
}

// Fail transitions a running job to failed with an error message
func (s *Store) Fail(id string, errMsg string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	job, ok := s.jobs[id]
	if !ok || job.State != JobRunning {
		return false
	}
	job.State = JobFailed
	job.Err = errMsg
	job.Completed = time.Now()
	return true
}

// Sweep expires finished jobs older than the retention window and removes
// expired jobs once a second window has passed. Uploaded temp files are
// deleted on expiry. Returns the number of jobs touched.
func (s *Store) Sweep(now time.Time) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	touched := 0
	for id, job := range s.jobs {
		switch job.State {
		case JobDone, JobFailed:
			if now.Sub(job.Completed) > s.ttl {
				job.State = JobExpired
				job.Result = nil
				removeQuietly(job.FilePath)
				touched++
			}
		case JobExpired:
			if now.Sub(job.Completed) > 2*s.ttl {
				delete(s.jobs, id)
				touched++
			}
		}
	}

	if touched > 0 {
		s.logger.Debug("job sweep complete", logging.Fields{"touched": touched})
	}
	return touched
}

// Len returns the number of tracked jobs
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.jobs)
}

func removeQuietly(path string) {
	if path != "" {
		_ = os.Remove(path)
	}
}

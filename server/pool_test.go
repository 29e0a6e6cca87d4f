package server

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/mr-spaghetti-code/three-music-rollercoaster/energy"
)

func waitForState(t *testing.T, store *Store, id string, want JobState) Job {
	t.Helper()
	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		job, ok := store.Get(id)
		if ok && job.State == want {
			return job
		}
		time.Sleep(5 * time.Millisecond)
	}
	job, _ := store.Get(id)
	t.Fatalf("job %s stuck in %s, want %s", id, job.State, want)
	return Job{}
}

func TestPoolRunsJobToDone(t *testing.T) {
	store := NewStore(time.Minute)
	pool := NewPool(2, 4, store, func(ctx context.Context, job Job) (*energy.StructureBundle, error) {
		return &energy.StructureBundle{Duration: 7}, nil
	})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	pool.Start(ctx)

	job := store.Create("track.mp3", "")
	if !pool.Submit(job.ID) {
		t.Fatal("submit refused with empty queue")
	}

	done := waitForState(t, store, job.ID, JobDone)
	if done.Result == nil || done.Result.Duration != 7 {
		t.Error("result not stored")
	}

	cancel()
	pool.Wait()
}

func TestPoolRecordsFailure(t *testing.T) {
	store := NewStore(time.Minute)
	pool := NewPool(1, 2, store, func(ctx context.Context, job Job) (*energy.StructureBundle, error) {
		return nil, errors.New("unsupported format")
	})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	pool.Start(ctx)

	job := store.Create("track.ogg", "")
	pool.Submit(job.ID)

	failed := waitForState(t, store, job.ID, JobFailed)
	if failed.Err != "unsupported format" {
		t.Errorf("error message %q", failed.Err)
	}

	cancel()
	pool.Wait()
}

func TestPoolRejectsWhenQueueFull(t *testing.T) {
	store := NewStore(time.Minute)

	block := make(chan struct{})
	pool := NewPool(1, 1, store, func(ctx context.Context, job Job) (*energy.StructureBundle, error) {
		<-block
		return &energy.StructureBundle{}, nil
	})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	pool.Start(ctx)

	// Fill the single worker and the single queue slot
	accepted := 0
	for i := 0; i < 5; i++ {
		job := store.Create("track.mp3", "")
		if pool.Submit(job.ID) {
			accepted++
		}
	}
	if accepted >= 5 {
		t.Error("queue never filled")
	}

	close(block)
	cancel()
	pool.Wait()
}

func TestPoolStopsOnCancel(t *testing.T) {
	store := NewStore(time.Minute)
	pool := NewPool(2, 4, store, func(ctx context.Context, job Job) (*energy.StructureBundle, error) {
		return &energy.StructureBundle{}, nil
	})

	ctx, cancel := context.WithCancel(context.Background())
	pool.Start(ctx)
	cancel()

	finished := make(chan struct{})
	go func() {
		pool.Wait()
		close(finished)
	}()

	select {
	case <-finished:
	case <-time.After(5 * time.Second):
		t.Fatal("workers did not exit after cancel")
	}
}

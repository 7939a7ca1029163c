package store

import (
	"context"
	"database/sql"
	"fmt"
	"sync"

	"golang.org/x/sync/errgroup"
)

// UnitOfWork runs with exclusive use of one pooled connection.
type UnitOfWork[R any] func(ctx context.Context, conn *sql.Conn) (R, error)

// Bridge funnels store access through a fixed set of worker goroutines.
// Callers hand a unit of work to a worker and wait for its result; only the
// workers ever block on pool acquisition or on SQLite's file lock.
type Bridge struct {
	db     *sql.DB
	jobs   chan func()
	stopCh chan struct{}
	once   sync.Once
	group  errgroup.Group
}

func newBridge(db *sql.DB, workers int) *Bridge {
	b := &Bridge{
		db:     db,
		jobs:   make(chan func()),
		stopCh: make(chan struct{}),
	}
	for i := 0; i < workers; i++ {
		b.group.Go(b.work)
	}
	return b
}

// work runs jobs until the bridge is closed. The jobs channel is unbuffered,
// so a job is only ever handed off to a worker that will run it.
func (b *Bridge) work() error {
	for {
		select {
		case job := <-b.jobs:
			job()
		case <-b.stopCh:
			return nil
		}
	}
}

func (b *Bridge) close() {
	b.once.Do(func() {
		close(b.stopCh)
	})
	_ = b.group.Wait()
}

// Execute runs fn on a bridge worker with a dedicated connection and returns
// its result. Plumbing failures come back as *InfraError; whatever fn
// returns is passed through untouched. There is a single attempt per call.
func Execute[R any](ctx context.Context, b *Bridge, fn UnitOfWork[R]) (R, error) {
	var zero R
	if b == nil {
		return zero, &InfraError{Op: "submit", Err: ErrClosed}
	}

	var (
		result R
		done   = make(chan error, 1)
	)
	job := func() {
		done <- b.run(ctx, func(ctx context.Context, conn *sql.Conn) error {
			r, err := fn(ctx, conn)
			result = r
			return err
		})
	}

	select {
	case <-b.stopCh:
		return zero, &InfraError{Op: "submit", Err: ErrClosed}
	default:
	}

	select {
	case b.jobs <- job:
	case <-b.stopCh:
		return zero, &InfraError{Op: "submit", Err: ErrClosed}
	case <-ctx.Done():
		return zero, &InfraError{Op: "submit", Err: ctx.Err()}
	}

	if err := <-done; err != nil {
		return zero, err
	}
	return result, nil
}

func (b *Bridge) run(ctx context.Context, fn func(context.Context, *sql.Conn) error) (err error) {
	conn, err := b.db.Conn(ctx)
	if err != nil {
		return &InfraError{Op: "acquire", Err: err}
	}
	defer conn.Close()

	defer func() {
		if r := recover(); r != nil {
			err = &InfraError{Op: "worker", Err: fmt.Errorf("unit of work panicked: %v", r)}
		}
	}()

	return fn(ctx, conn)
}

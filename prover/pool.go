// Copyright 2026 The Allowtree Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package prover

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/sync/semaphore"

	"github.com/allowtree/allowtree/logger"
)

// ErrPoolSaturated is returned when a proof request arrives while the pool's
// admission queue is full. Backpressure, not failure: the caller may retry.
var ErrPoolSaturated = errors.New("prover: pool saturated")

// Pool bounds concurrent proof generation. Proving is pure and CPU-bound, so
// the worker count tracks available compute; the admission queue caps how
// many requests may wait for a worker. A proof is not abortable once started:
// the context only governs the wait for a worker slot.
type Pool struct {
	workers *semaphore.Weighted
	queue   chan struct{}
	log     zerolog.Logger
}

// NewPool builds a pool running at most workers proofs at once and admitting
// at most capacity requests in total (running plus queued).
func NewPool(workers, capacity int) *Pool {
	if workers < 1 {
		workers = 1
	}
	if capacity < workers {
		capacity = workers
	}
	return &Pool{
		workers: semaphore.NewWeighted(int64(workers)),
		queue:   make(chan struct{}, capacity),
		log:     logger.Component("prover.pool"),
	}
}

// Do runs fn on the pool, blocking until a worker is free or ctx is done.
func (p *Pool) Do(ctx context.Context, fn func() error) error {
	select {
	case p.queue <- struct{}{}:
	default:
		return ErrPoolSaturated
	}
	defer func() { <-p.queue }()

	if err := p.workers.Acquire(ctx, 1); err != nil {
		return err
	}
	defer p.workers.Release(1)

	id := uuid.New()
	start := time.Now()
	p.log.Debug().Str("job", id.String()).Msg("job started")

	err := fn()

	p.log.Debug().
		Str("job", id.String()).
		Dur("took", time.Since(start)).
		Err(err).
		Msg("job finished")
	return err
}

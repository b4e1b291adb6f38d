// Package sync keeps the search index consistent with the system of record.
// Incremental updates ride a background worker queue; a scheduled full
// resync self-heals anything the incremental path missed. Indexing failures
// are logged, never surfaced to the write that triggered them: the contract
// between record and index is eventual consistency.
package sync

import (
	"context"
	"errors"
	stdsync "sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/openbrik/propsearch/internal/domain"
	"github.com/openbrik/propsearch/internal/domain/batch"
	"github.com/openbrik/propsearch/internal/domain/document"
	"github.com/openbrik/propsearch/internal/metrics"
)

// Op names an incremental sync operation.
type Op string

// Incremental sync operations.
const (
	OpUpsert Op = "upsert"
	OpDelete Op = "delete"
)

type job struct {
	jobID string
	op    Op
	id    string
}

// Config holds orchestrator settings.
type Config struct {
	QueueSize int
	OpTimeout time.Duration
}

// Service coordinates full and incremental synchronization between the
// system of record and the index.
type Service struct {
	records RecordReader
	index   IndexStore
	cache   CacheInvalidator
	log     *zap.Logger
	cfg     Config

	jobs chan job
	wg   stdsync.WaitGroup

	// resyncGate serializes a full resync (write side) against incremental
	// jobs (read side): a delete landing mid-resync cannot be resurrected by
	// an upsert of a snapshot taken before it. Incremental jobs stay
	// concurrent with each other; per-property ordering is last-write-wins.
	resyncGate stdsync.RWMutex
}

// New creates a sync orchestrator. Call Start before submitting events.
func New(records RecordReader, index IndexStore, cache CacheInvalidator, log *zap.Logger, cfg Config) *Service {
	if cfg.QueueSize <= 0 {
		cfg.QueueSize = 256
	}
	if cfg.OpTimeout <= 0 {
		cfg.OpTimeout = 15 * time.Second
	}
	return &Service{
		records: records,
		index:   index,
		cache:   cache,
		log:     log,
		cfg:     cfg,
		jobs:    make(chan job, cfg.QueueSize),
	}
}

// Start launches the background worker.
func (s *Service) Start() {
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		for j := range s.jobs {
			s.process(j)
		}
	}()
}

// Stop drains the queue and waits for the worker to finish.
func (s *Service) Stop() {
	close(s.jobs)
	s.wg.Wait()
}

// OnCreate schedules indexing of a newly created property.
func (s *Service) OnCreate(id string) { s.enqueue(OpUpsert, id) }

// OnUpdate schedules re-indexing of an updated property.
func (s *Service) OnUpdate(id string) { s.enqueue(OpUpsert, id) }

// OnDelete schedules removal of a deleted property from the index.
func (s *Service) OnDelete(id string) { s.enqueue(OpDelete, id) }

// enqueue submits a job without blocking the caller. A full queue drops the
// job with a log line; the scheduled resync repairs the gap.
func (s *Service) enqueue(op Op, id string) {
	j := job{jobID: uuid.NewString(), op: op, id: id}
	select {
	case s.jobs <- j:
	default:
		metrics.SyncJobsTotal.WithLabelValues(string(op), metrics.OutcomeError).Inc()
		s.log.Warn("sync queue full, dropping job",
			zap.String("job_id", j.jobID),
			zap.String("op", string(op)),
			zap.String("property_id", id),
		)
	}
}

// process executes one incremental job. Errors are logged, not propagated;
// the op timeout keeps an unreachable index from hanging the worker.
func (s *Service) process(j job) {
	ctx, cancel := context.WithTimeout(context.Background(), s.cfg.OpTimeout)
	defer cancel()

	s.resyncGate.RLock()
	defer s.resyncGate.RUnlock()

	start := time.Now()
	log := s.log.With(
		zap.String("job_id", j.jobID),
		zap.String("op", string(j.op)),
		zap.String("property_id", j.id),
	)

	var err error
	switch j.op {
	case OpUpsert:
		err = s.upsert(ctx, j.id)
	case OpDelete:
		err = s.remove(ctx, j.id)
	}

	outcome := metrics.OutcomeOK
	if err != nil {
		outcome = metrics.OutcomeError
		log.Error("sync job failed", zap.Error(err), zap.Duration("took", time.Since(start)))
	} else {
		log.Debug("sync job done", zap.Duration("took", time.Since(start)))
	}
	metrics.SyncJobsTotal.WithLabelValues(string(j.op), outcome).Inc()
}

// upsert fetches the canonical record at call time, projects it, and writes
// the document. A record that has vanished is treated as a delete.
func (s *Service) upsert(ctx context.Context, id string) error {
	p, err := s.records.Get(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrPropertyNotFound) {
			return s.remove(ctx, id)
		}
		return err
	}

	doc, err := document.FromProperty(p)
	if err != nil {
		return err
	}

	if err := s.index.Upsert(ctx, doc); err != nil {
		return err
	}
	return s.invalidate(ctx)
}

func (s *Service) remove(ctx context.Context, id string) error {
	if err := s.index.Remove(ctx, id); err != nil {
		return err
	}
	return s.invalidate(ctx)
}

// FullResync reads every eligible record, rebuilds the whole index, and
// flushes the cache once at the end. Projection failures skip the one
// document; upsert failures are reported per document by the index store.
func (s *Service) FullResync(ctx context.Context) error {
	s.resyncGate.Lock()
	defer s.resyncGate.Unlock()

	start := time.Now()
	log := s.log.With(zap.String("job_id", uuid.NewString()))
	log.Info("starting full resync")

	props, err := s.records.ListAll(ctx)
	if err != nil {
		return err
	}

	docs := make([]document.Document, 0, len(props))
	for _, p := range props {
		doc, err := document.FromProperty(p)
		if err != nil {
			log.Warn("skipping unprojectable property", zap.String("property_id", p.ID), zap.Error(err))
			continue
		}
		docs = append(docs, doc)
	}

	results, err := s.index.RebuildAll(ctx, docs)
	if err != nil {
		return err
	}

	failed := 0
	for _, r := range results {
		if r.Status() == batch.StatusError {
			failed++
			log.Warn("resync upsert failed", zap.String("property_id", r.ID()), zap.Error(r.Err()))
		}
	}

	if err := s.invalidate(ctx); err != nil {
		return err
	}

	metrics.ResyncDuration.Observe(time.Since(start).Seconds())
	log.Info("full resync finished",
		zap.Int("records", len(props)),
		zap.Int("indexed", len(docs)-failed),
		zap.Int("failed", failed),
		zap.Duration("took", time.Since(start)),
	)
	return nil
}

// RunScheduler triggers FullResync at the given interval until ctx is done.
// Failures are logged; the next tick retries.
func (s *Service) RunScheduler(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := s.FullResync(ctx); err != nil {
				s.log.Error("scheduled resync failed", zap.Error(err))
			}
		}
	}
}

func (s *Service) invalidate(ctx context.Context) error {
	if err := s.cache.InvalidateAll(ctx); err != nil {
		return err
	}
	metrics.CacheInvalidationsTotal.Inc()
	return nil
}

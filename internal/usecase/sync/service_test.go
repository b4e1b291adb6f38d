package sync

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/openbrik/propsearch/internal/domain"
	"github.com/openbrik/propsearch/internal/domain/batch"
	"github.com/openbrik/propsearch/internal/domain/document"
	"github.com/openbrik/propsearch/internal/domain/property"
)

func TestOnUpdate_IndexesRecord(t *testing.T) {
	svc, mr, mi, mc := newTestService(t, 8)

	mr.getFn = func(_ context.Context, id string) (property.Property, error) {
		return property.Property{ID: id, Name: "Marina Vista"}, nil
	}

	svc.Start()
	svc.OnUpdate("p1")
	svc.Stop()

	if len(mi.upserted) != 1 || mi.upserted[0].ID != "p1" {
		t.Fatalf("expected one upsert for p1, got %+v", mi.upserted)
	}
	if mi.upserted[0].Name != "Marina Vista" {
		t.Errorf("document must carry the record state at processing time")
	}
	if mc.invalidateCalls != 1 {
		t.Errorf("expected one cache flush, got %d", mc.invalidateCalls)
	}
}

func TestOnCreate_IndexesRecord(t *testing.T) {
	svc, _, mi, _ := newTestService(t, 8)

	svc.Start()
	svc.OnCreate("p1")
	svc.Stop()

	if len(mi.upserted) != 1 {
		t.Fatalf("expected one upsert, got %d", len(mi.upserted))
	}
}

func TestOnDelete_RemovesDocument(t *testing.T) {
	svc, _, mi, mc := newTestService(t, 8)

	svc.Start()
	svc.OnDelete("p1")
	svc.Stop()

	if len(mi.removed) != 1 || mi.removed[0] != "p1" {
		t.Fatalf("expected removal of p1, got %v", mi.removed)
	}
	if len(mi.upserted) != 0 {
		t.Errorf("delete must not upsert")
	}
	if mc.invalidateCalls != 1 {
		t.Errorf("expected one cache flush, got %d", mc.invalidateCalls)
	}
}

func TestUpsert_VanishedRecordBecomesDelete(t *testing.T) {
	svc, mr, mi, _ := newTestService(t, 8)

	mr.getFn = func(_ context.Context, _ string) (property.Property, error) {
		return property.Property{}, domain.ErrPropertyNotFound
	}

	svc.Start()
	svc.OnUpdate("gone")
	svc.Stop()

	if len(mi.upserted) != 0 {
		t.Error("vanished record must not be upserted")
	}
	if len(mi.removed) != 1 || mi.removed[0] != "gone" {
		t.Errorf("expected removal of the vanished record, got %v", mi.removed)
	}
}

func TestProcess_IndexFailureDoesNotPanic(t *testing.T) {
	svc, _, mi, mc := newTestService(t, 8)

	mi.upsertFn = func(_ context.Context, _ document.Document) error {
		return domain.ErrIndexUnavailable
	}

	svc.Start()
	svc.OnUpdate("p1")
	svc.Stop()

	// Failed writes must not flush the cache.
	if mc.invalidateCalls != 0 {
		t.Errorf("expected no cache flush after failed upsert, got %d", mc.invalidateCalls)
	}
}

func TestEnqueue_FullQueueDropsJob(t *testing.T) {
	svc, _, _, _ := newTestService(t, 1)

	// No worker running: the first job fills the queue, the rest must be
	// dropped without blocking.
	done := make(chan struct{})
	go func() {
		for i := 0; i < 10; i++ {
			svc.OnUpdate(fmt.Sprintf("p%d", i))
		}
		close(done)
	}()

	<-done

	if len(svc.jobs) != 1 {
		t.Errorf("expected exactly one queued job, got %d", len(svc.jobs))
	}
}

func TestFullResync(t *testing.T) {
	svc, mr, mi, mc := newTestService(t, 8)

	mr.listAllFn = func(_ context.Context) ([]property.Property, error) {
		return []property.Property{
			{ID: "p1", Name: "A"},
			{ID: "p2", Name: "B"},
			{ID: "", Name: "unprojectable"},
		}, nil
	}

	var rebuilt []document.Document
	mi.rebuildAllFn = func(_ context.Context, docs []document.Document) ([]batch.Result, error) {
		rebuilt = docs
		results := make([]batch.Result, 0, len(docs))
		for _, d := range docs {
			results = append(results, batch.NewOK(d.ID))
		}
		return results, nil
	}

	if err := svc.FullResync(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(rebuilt) != 2 {
		t.Fatalf("expected 2 projectable documents, got %d", len(rebuilt))
	}
	if mc.invalidateCalls != 1 {
		t.Errorf("resync must flush the cache exactly once, got %d", mc.invalidateCalls)
	}
}

func TestFullResync_ListFailure(t *testing.T) {
	svc, mr, _, mc := newTestService(t, 8)

	wantErr := errors.New("record store down")
	mr.listAllFn = func(_ context.Context) ([]property.Property, error) {
		return nil, wantErr
	}

	if err := svc.FullResync(context.Background()); !errors.Is(err, wantErr) {
		t.Fatalf("expected record store error, got %v", err)
	}
	if mc.invalidateCalls != 0 {
		t.Error("failed resync must not flush the cache")
	}
}

func TestFullResync_PartialUpsertFailures(t *testing.T) {
	svc, mr, mi, mc := newTestService(t, 8)

	mr.listAllFn = func(_ context.Context) ([]property.Property, error) {
		return []property.Property{{ID: "p1"}, {ID: "p2"}}, nil
	}
	mi.rebuildAllFn = func(_ context.Context, docs []document.Document) ([]batch.Result, error) {
		return []batch.Result{
			batch.NewOK("p1"),
			batch.NewError("p2", errors.New("write failed")),
		}, nil
	}

	if err := svc.FullResync(context.Background()); err != nil {
		t.Fatalf("per-document failures must not fail the resync: %v", err)
	}
	if mc.invalidateCalls != 1 {
		t.Errorf("expected one cache flush, got %d", mc.invalidateCalls)
	}
}

func TestFullResync_SerializesWithIncremental(t *testing.T) {
	svc, mr, mi, _ := newTestService(t, 8)

	resyncRunning := make(chan struct{})
	releaseResync := make(chan struct{})

	mr.listAllFn = func(_ context.Context) ([]property.Property, error) {
		close(resyncRunning)
		<-releaseResync
		return nil, nil
	}

	svc.Start()
	go func() {
		_ = svc.FullResync(context.Background())
	}()

	<-resyncRunning
	// Submitted mid-resync; must not execute until the resync releases the
	// gate.
	svc.OnUpdate("p1")
	if len(mi.upserted) != 0 {
		t.Error("incremental job ran while resync held the gate")
	}

	close(releaseResync)
	svc.Stop()

	if len(mi.upserted) != 1 {
		t.Errorf("queued job must run after the resync, got %d upserts", len(mi.upserted))
	}
}

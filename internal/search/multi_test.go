package search

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
)

func TestSearchAllPartialFailure(t *testing.T) {
	// Web branch fails; the unconfigured YouTube/Drive branches still run
	// and the join returns empty slots instead of an error.
	m := NewMultiSearcher(&fakeBackend{err: errors.New("down")}, "", "")
	res := m.SearchAll(context.Background(), "anything")
	if res == nil {
		t.Fatal("nil result")
	}
	if len(res.Web) != 0 || len(res.YouTube) != 0 || len(res.Drive) != 0 {
		t.Errorf("expected all-empty slots, got %+v", res)
	}
}

func TestSearchAllWebBranch(t *testing.T) {
	m := NewMultiSearcher(&fakeBackend{results: liveResults(4)}, "", "")
	res := m.SearchAll(context.Background(), "query")
	if len(res.Web) != 4 {
		t.Errorf("web slot: got %d results, want 4", len(res.Web))
	}
}

func TestJoinRunsAllBranches(t *testing.T) {
	var ran atomic.Int32
	join(
		func() { ran.Add(1) },
		func() { ran.Add(1) },
		func() { ran.Add(1) },
	)
	if ran.Load() != 3 {
		t.Errorf("branches run: got %d, want 3", ran.Load())
	}
}

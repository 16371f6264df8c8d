package hubutils

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"
)

// testGenomes builds genome handles for the given labels
func testGenomes(t *testing.T, labels ...string) []*GenomeDB {

	t.Helper()

	var dbs []*GenomeDB
	for _, label := range labels {
		db, err := NewGenomeDB(&GenomeConfig{Label: label, Source: "local", Species: label + " species", Annotation: label + ".gff3"}, t.TempDir())
		if err != nil {
			t.Fatal(err)
		}
		dbs = append(dbs, db)
	}

	return dbs
}

func TestRunGenomesIsolation(t *testing.T) {

	broken := errors.New("broken annotation")

	results := RunGenomes(context.Background(), testGenomes(t, "Aaaa", "Bbbb", "Cccc", "Dddd"), 2,
		func(ctx context.Context, db *GenomeDB) error {
			switch db.Label() {
			case "Bbbb":
				return broken
			case "Cccc":
				panic("unexpected record")
			}
			return nil
		})

	if len(results) != 4 {
		t.Fatalf("%d results, expected 4", len(results))
	}
	for i, label := range []string{"Aaaa", "Bbbb", "Cccc", "Dddd"} {
		if results[i].Label != label {
			t.Errorf("result %d is %s, expected %s", i, results[i].Label, label)
		}
	}

	if results[0].Err != nil || results[3].Err != nil {
		t.Errorf("healthy genomes failed: %v, %v", results[0].Err, results[3].Err)
	}
	if !errors.Is(results[1].Err, broken) {
		t.Errorf("Bbbb error %v", results[1].Err)
	}
	if results[2].Err == nil {
		t.Errorf("panic in Cccc was not reported")
	}

	failed := Failed(results)
	if len(failed) != 2 || failed[0].Label != "Bbbb" || failed[1].Label != "Cccc" {
		t.Errorf("unexpected failures %v", failed)
	}
}

func TestRunGenomesLimit(t *testing.T) {

	var mu sync.Mutex
	running, peak := 0, 0

	RunGenomes(context.Background(), testGenomes(t, "G1", "G2", "G3", "G4", "G5", "G6"), 2,
		func(ctx context.Context, db *GenomeDB) error {
			mu.Lock()
			running++
			peak = max(peak, running)
			mu.Unlock()

			time.Sleep(10 * time.Millisecond)

			mu.Lock()
			running--
			mu.Unlock()
			return nil
		})

	if peak > 2 {
		t.Errorf("%d genomes ran at once, limit was 2", peak)
	}
}

func TestRunGenomesCanceled(t *testing.T) {

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	results := RunGenomes(ctx, testGenomes(t, "G1", "G2"), 1, func(ctx context.Context, db *GenomeDB) error {
		t.Errorf("task ran after cancellation")
		return nil
	})

	for _, res := range results {
		if !errors.Is(res.Err, context.Canceled) {
			t.Errorf("%s error %v, expected context.Canceled", res.Label, res.Err)
		}
	}
}

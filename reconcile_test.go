package simview

import "testing"

func TestReconcilerAcceptsFirstBatch(t *testing.T) {
	var r Reconciler
	batch := []SimObject{{ID: 0, X: 1, Y: 2}, {ID: 1, X: 3, Y: 4}}

	changed, state := r.Accept(batch)
	if !changed {
		t.Error("first batch: changed = false, want true")
	}
	if len(state) != 2 {
		t.Fatalf("len(state) = %d, want 2", len(state))
	}
}

func TestReconcilerIdenticalBatchIsNoChange(t *testing.T) {
	var r Reconciler
	r.Accept([]SimObject{{X: 1, Y: 2}, {X: 3, Y: 4}})

	_, first := r.Accept([]SimObject{{X: 1, Y: 2}, {X: 3, Y: 4}})
	changed, second := r.Accept([]SimObject{{X: 1, Y: 2}, {X: 3, Y: 4}})
	if changed {
		t.Error("identical batch: changed = true, want false")
	}
	// Reference-stable: the held slice is retained, not the new batch.
	if &first[0] != &second[0] {
		t.Error("unchanged accept returned a different backing slice")
	}
}

func TestReconcilerDetectsSingleCoordinateChange(t *testing.T) {
	var r Reconciler
	r.Accept([]SimObject{{X: 1, Y: 2}, {X: 3, Y: 4}})

	changed, state := r.Accept([]SimObject{{X: 1, Y: 2}, {X: 3, Y: 4.000001}})
	if !changed {
		t.Error("single-coordinate change: changed = false, want true")
	}
	if state[1].Y != 4.000001 {
		t.Errorf("state[1].Y = %f, want 4.000001", state[1].Y)
	}
}

func TestReconcilerDetectsLengthChange(t *testing.T) {
	var r Reconciler
	r.Accept([]SimObject{{X: 1, Y: 2}, {X: 3, Y: 4}})

	changed, state := r.Accept([]SimObject{{X: 1, Y: 2}})
	if !changed {
		t.Error("shorter batch: changed = false, want true")
	}
	if len(state) != 1 {
		t.Errorf("len(state) = %d, want 1", len(state))
	}

	changed, _ = r.Accept([]SimObject{{X: 1, Y: 2}, {X: 3, Y: 4}, {X: 5, Y: 6}})
	if !changed {
		t.Error("longer batch: changed = false, want true")
	}
}

func TestReconcilerEmptyBatches(t *testing.T) {
	var r Reconciler

	changed, _ := r.Accept(nil)
	if changed {
		t.Error("empty batch into empty state: changed = true, want false")
	}

	r.Accept([]SimObject{{X: 1, Y: 1}})
	changed, state := r.Accept([]SimObject{})
	if !changed {
		t.Error("empty batch after non-empty state: changed = false, want true")
	}
	if len(state) != 0 {
		t.Errorf("len(state) = %d, want 0", len(state))
	}
}

func TestReconcilerComparesPositionNotRadius(t *testing.T) {
	var r Reconciler
	r.Accept([]SimObject{{X: 1, Y: 2, Radius: 5}})

	// Radius is carried through but change detection keys on x/y only.
	changed, state := r.Accept([]SimObject{{X: 1, Y: 2, Radius: 99}})
	if changed {
		t.Error("radius-only change: changed = true, want false")
	}
	if state[0].Radius != 5 {
		t.Errorf("state kept radius %f, want previous 5", state[0].Radius)
	}
}

package simview

// Reconciler merges the inbound stream of position batches into stable render
// state. A batch replaces the held state only when it actually differs;
// otherwise the previous slice is returned unchanged, so downstream render
// work can key off slice identity and skip duplicate frames entirely.
//
// Comparison is positional: object i in the new batch against object i in the
// old one. The feed emits full snapshots with a stable per-frame ordering and
// carries no persistent object identity, so reordering between batches is
// indistinguishable from movement. That limitation belongs to the feed; the
// reconciler does not try to infer identity.
type Reconciler struct {
	state []SimObject
}

// State returns the last accepted batch. The returned slice must not be
// mutated; it is shared with every caller until the next accepted change.
func (r *Reconciler) State() []SimObject {
	return r.state
}

// Accept offers a batch to the reconciler. changed reports whether the held
// state was replaced; state is the batch now held, which is the previous
// slice (same backing array) whenever changed is false.
func (r *Reconciler) Accept(batch []SimObject) (changed bool, state []SimObject) {
	if !r.differs(batch) {
		return false, r.state
	}
	r.state = batch
	return true, r.state
}

// differs reports whether the batch should replace the held state: a length
// change, or any positional pair whose x or y differs under exact comparison.
func (r *Reconciler) differs(batch []SimObject) bool {
	if len(batch) != len(r.state) {
		return true
	}
	for i := range batch {
		if batch[i].X != r.state[i].X || batch[i].Y != r.state[i].Y {
			return true
		}
	}
	return false
}

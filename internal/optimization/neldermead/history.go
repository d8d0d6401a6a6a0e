package neldermead

import "sync"

// Snapshot captures the optimizer state at the end of one iteration.
type Snapshot struct {
	// Step is the zero-based iteration number.
	Step int
	// Best is the best vertex after the iteration.
	Best Vertex
	// Vertices is the full sorted simplex after the iteration.
	Vertices []Vertex
}

// Recorder collects per-iteration snapshots through the Action hook. The
// optimizer itself is single-threaded; the mutex only guards concurrent
// reads by status observers while a run is in flight.
type Recorder struct {
	mu        sync.Mutex
	snapshots []Snapshot
}

// Record appends a snapshot of the optimizer's current simplex.
// It has the Action signature and is passed to Run directly.
func (r *Recorder) Record(nm *NelderMead) {
	sim := nm.Simplex()
	r.mu.Lock()
	defer r.mu.Unlock()
	r.snapshots = append(r.snapshots, Snapshot{
		Step:     len(r.snapshots),
		Best:     sim.Best(),
		Vertices: sim.Vertices(),
	})
}

// Len returns the number of recorded snapshots.
func (r *Recorder) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.snapshots)
}

// Snapshots returns a copy of all recorded snapshots in order.
func (r *Recorder) Snapshots() []Snapshot {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Snapshot, len(r.snapshots))
	copy(out, r.snapshots)
	return out
}

// Last returns the most recent snapshot, if any.
func (r *Recorder) Last() (Snapshot, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.snapshots) == 0 {
		return Snapshot{}, false
	}
	return r.snapshots[len(r.snapshots)-1], true
}

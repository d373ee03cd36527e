package crawler

import "sync"

// entry is a single frontier item: a canonical URL paired with its BFS
// depth, where the seed is depth 0.
type entry struct {
	url   string
	depth int
}

// frontier is the BFS queue and visited-set of spec.md §4.6. TryAdmit is
// the single atomic operation guarding the visited set, the queue and the
// admission counter together — the three are never locked independently
// (spec.md §9).
type frontier struct {
	mu         sync.Mutex
	cond       *sync.Cond
	visited    map[string]bool
	queue      []entry
	closed     bool
	outstanding int // admitted-but-not-yet-marked-done; drives auto-close
	admitted   int
	maxDepth   int
	maxPages   int
}

func newFrontier(maxDepth, maxPages int) *frontier {
	f := &frontier{
		visited:  make(map[string]bool),
		maxDepth: maxDepth,
		maxPages: maxPages,
	}
	f.cond = sync.NewCond(&f.mu)
	return f
}

// TryAdmit inserts url into the visited set and enqueues it at depth if,
// and only if, it is unseen, within depth budget and under the page cap,
// and the frontier is not closed.
// The check-and-insert is one critical section, satisfying invariant 2 of
// spec.md §3 (a URL is admitted at most once).
func (f *frontier) TryAdmit(url string, depth int) bool {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.closed || f.visited[url] || depth > f.maxDepth || f.admitted >= f.maxPages {
		return false
	}
	f.visited[url] = true
	f.admitted++
	f.outstanding++
	f.queue = append(f.queue, entry{url: url, depth: depth})
	f.cond.Signal()
	return true
}

// Next blocks until an entry is available or the frontier is drained and
// closed, in which case it returns (entry{}, false).
func (f *frontier) Next() (entry, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()

	for len(f.queue) == 0 && !f.closed {
		f.cond.Wait()
	}
	if len(f.queue) == 0 {
		return entry{}, false
	}
	e := f.queue[0]
	f.queue = f.queue[1:]
	return e, true
}

// MarkDone must be called exactly once for every entry returned by Next,
// regardless of the fetch outcome. It decrements the outstanding counter
// and auto-closes the frontier once nothing remains in flight or queued.
func (f *frontier) MarkDone() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.outstanding--
	if f.outstanding <= 0 && len(f.queue) == 0 {
		f.closeLocked()
	}
}

// Close stops accepting new admissions and wakes every blocked Next call.
func (f *frontier) Close() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.closeLocked()
}

func (f *frontier) closeLocked() {
	if f.closed {
		return
	}
	f.closed = true
	f.cond.Broadcast()
}

// admittedCount reports the number of URLs admitted so far, used for the
// Admitted field of the final Stats.
func (f *frontier) admittedCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.admitted
}

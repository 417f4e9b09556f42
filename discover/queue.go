package discover

// worklist holds the paths discovery still has to visit, oldest first.
// A path is accepted once; later pushes of an equivalent spelling are
// ignored so a directory reached twice is listed once.
type worklist struct {
	paths []string
	seen  map[string]struct{}
	next  int
}

func newWorklist() *worklist {
	return &worklist{seen: make(map[string]struct{})}
}

// Push appends path and reports whether it was new.
func (w *worklist) Push(path string) bool {
	key := NormalizePath(path)
	if _, ok := w.seen[key]; ok {
		return false
	}
	w.seen[key] = struct{}{}
	w.paths = append(w.paths, key)
	return true
}

// Pop returns the oldest pending path. ok is false once everything pushed
// has been popped.
func (w *worklist) Pop() (path string, ok bool) {
	if w.next >= len(w.paths) {
		return "", false
	}
	path = w.paths[w.next]
	w.next++
	return path, true
}

// Pending is the number of pushed paths not yet popped.
func (w *worklist) Pending() int {
	return len(w.paths) - w.next
}

// Paths returns every accepted path in push order.
func (w *worklist) Paths() []string {
	return w.paths
}

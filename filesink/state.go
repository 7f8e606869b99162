package filesink

import (
	"sync"
	"sync/atomic"
)

// State holds the sink's lifecycle flags and counters
type State struct {
	Closing atomic.Bool // Write rejects once set
	Closed  atomic.Bool // Close has completed

	RecordsWritten    atomic.Uint64
	BytesWritten      atomic.Uint64
	FormatFailures    atomic.Uint64 // Records dropped because they could not be rendered
	WriteFailures     atomic.Uint64 // Batches dropped because of I/O errors
	ArchivesCompleted atomic.Uint64
	ArchivesFailed    atomic.Uint64
}

// Stats is a point-in-time snapshot of a sink
type Stats struct {
	RecordsWritten    uint64
	BytesWritten      uint64
	FormatFailures    uint64
	WriteFailures     uint64
	ArchivesCompleted uint64
	ArchivesFailed    uint64
	ArchivesInFlight  int
	Pending           int
}

// archiveTask is a handle to one in-flight archival
type archiveTask struct {
	id   uint64
	path string
	done chan struct{}
}

// taskSet tracks in-flight archive tasks so Close can wait for them
type taskSet struct {
	mu     sync.Mutex
	nextID uint64
	tasks  map[uint64]*archiveTask
}

func (ts *taskSet) add(path string) (*archiveTask, int) {
	ts.mu.Lock()
	defer ts.mu.Unlock()
	if ts.tasks == nil {
		ts.tasks = make(map[uint64]*archiveTask)
	}
	ts.nextID++
	task := &archiveTask{id: ts.nextID, path: path, done: make(chan struct{})}
	ts.tasks[task.id] = task
	return task, len(ts.tasks)
}

// finish removes a completed task and releases its waiters
func (ts *taskSet) finish(task *archiveTask) {
	ts.mu.Lock()
	delete(ts.tasks, task.id)
	ts.mu.Unlock()
	close(task.done)
}

func (ts *taskSet) snapshot() []*archiveTask {
	ts.mu.Lock()
	defer ts.mu.Unlock()
	tasks := make([]*archiveTask, 0, len(ts.tasks))
	for _, t := range ts.tasks {
		tasks = append(tasks, t)
	}
	return tasks
}

func (ts *taskSet) len() int {
	ts.mu.Lock()
	defer ts.mu.Unlock()
	return len(ts.tasks)
}

// wait blocks until no task is in flight
func (ts *taskSet) wait() {
	for {
		tasks := ts.snapshot()
		if len(tasks) == 0 {
			return
		}
		for _, t := range tasks {
			<-t.done
		}
	}
}

// archiveHistory is the ordered list of archive paths, oldest first
type archiveHistory struct {
	mu    sync.Mutex
	paths []string
}

// add appends path; a path already present moves to the newest position
func (h *archiveHistory) add(path string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for i, p := range h.paths {
		if p == path {
			h.paths = append(h.paths[:i], h.paths[i+1:]...)
			break
		}
	}
	h.paths = append(h.paths, path)
}

func (h *archiveHistory) set(paths []string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.paths = append([]string(nil), paths...)
}

func (h *archiveHistory) snapshot() []string {
	h.mu.Lock()
	defer h.mu.Unlock()
	return append([]string(nil), h.paths...)
}

package filesink

import "github.com/lixenwraith/flog"

// pendingRecord is owned by the queue until the flush loop dequeues it
type pendingRecord struct {
	entry     flog.LogEntry
	template  string
	args      []any
	line      string
	formatted bool
}

type formatFunc func(entry flog.LogEntry, template string, args ...any) (string, error)

// render returns the preformatted line, or formats now
func (r *pendingRecord) render(format formatFunc) (string, error) {
	if r.formatted {
		return r.line, nil
	}
	return format(r.entry, r.template, r.args...)
}

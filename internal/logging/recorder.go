package logging

import (
	"fmt"
	"strings"
	"sync"
)

// Entry is a single captured log call.
type Entry struct {
	Level   string
	Message string
	Params  []interface{}
}

// String renders the message followed by its params, space separated.
func (e Entry) String() string {
	return strings.TrimSuffix(fmt.Sprintln(append([]interface{}{e.Message}, e.Params...)...), "\n")
}

// Recorder captures entries in memory so tests can assert on what was logged.
type Recorder struct {
	mu      sync.Mutex
	entries []Entry
}

func (r *Recorder) record(level string, message interface{}, params []interface{}) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries = append(r.entries, Entry{Level: level, Message: fmt.Sprint(message), Params: params})
}

func (r *Recorder) Error(message interface{}, params ...interface{}) {
	r.record("ERROR", message, params)
}

func (r *Recorder) Info(message interface{}, params ...interface{}) {
	r.record("INFO", message, params)
}

func (r *Recorder) Debug(message interface{}, params ...interface{}) {
	r.record("DEBUG", message, params)
}

func (r *Recorder) Trace(message interface{}, params ...interface{}) {
	r.record("TRACE", message, params)
}

// Entries returns the captured entries at the given level, or all of them when level is empty.
func (r *Recorder) Entries(level string) []Entry {
	r.mu.Lock()
	defer r.mu.Unlock()

	var out []Entry
	for _, e := range r.entries {
		if level == "" || e.Level == level {
			out = append(out, e)
		}
	}
	return out
}

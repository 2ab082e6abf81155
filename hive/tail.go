package hive

import (
	"bytes"
	"strings"
	"sync"
)

// Tail is an io.Writer that keeps only the last n lines written to it.
type Tail struct {
	mu      sync.Mutex
	limit   int
	lines   []string
	partial bytes.Buffer
}

// NewTail returns a Tail retaining at most limit lines.
func NewTail(limit int) *Tail {
	if limit <= 0 {
		limit = 1
	}
	return &Tail{limit: limit}
}

func (t *Tail) Write(p []byte) (int, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.partial.Write(p)
	for {
		data := t.partial.Bytes()
		idx := bytes.IndexByte(data, '\n')
		if idx < 0 {
			break
		}
		t.push(strings.TrimRight(string(data[:idx]), "\r"))
		t.partial.Next(idx + 1)
	}
	return len(p), nil
}

func (t *Tail) push(line string) {
	t.lines = append(t.lines, line)
	if over := len(t.lines) - t.limit; over > 0 {
		t.lines = append(t.lines[:0], t.lines[over:]...)
	}
}

// Lines returns the retained lines, including an unterminated last line.
func (t *Tail) Lines() []string {
	t.mu.Lock()
	defer t.mu.Unlock()

	out := append([]string(nil), t.lines...)
	if t.partial.Len() > 0 {
		out = append(out, t.partial.String())
		if over := len(out) - t.limit; over > 0 {
			out = out[over:]
		}
	}
	return out
}

// String joins the retained lines.
func (t *Tail) String() string {
	lines := t.Lines()
	if len(lines) == 0 {
		return ""
	}
	return strings.Join(lines, "\n") + "\n"
}

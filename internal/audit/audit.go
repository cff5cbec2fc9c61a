package audit

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sync"

	"github.com/yuzeguitarist/qrdrop/internal/app"
)

type Entry struct {
	Time   string `json:"time"`
	IP     string `json:"ip,omitempty"`
	Action string `json:"action"`
	Object string `json:"object,omitempty"`
	Detail string `json:"detail,omitempty"`
}

// Log appends one JSON line per entry. A nil *Log discards writes.
type Log struct {
	mu   sync.Mutex
	path string
}

func New(path string) *Log {
	return &Log{path: path}
}

// Write is best-effort; failures are dropped.
func (l *Log) Write(e Entry) {
	if l == nil {
		return
	}
	if e.Time == "" {
		e.Time = app.NowRFC3339()
	}
	b, _ := json.Marshal(e)

	l.mu.Lock()
	defer l.mu.Unlock()
	_ = os.MkdirAll(filepath.Dir(l.path), 0750)
	f, err := os.OpenFile(l.path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0640)
	if err != nil {
		return
	}
	defer f.Close()
	_, _ = f.Write(append(b, '\n'))
}

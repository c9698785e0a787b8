package store

import (
	"bufio"
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/LISSConsulting/LISSTech.Showcase/internal/playback"
)

// record is one JSONL line: a playback event tagged with its session.
type record struct {
	Session string `json:"session"`
	playback.Event
}

// JSONL is a Store backed by an append-only JSONL file. Each line is a
// JSON-serialized playback.Event. The file is synced after every Append so
// an interrupted session still leaves a readable log.
//
// File name: "<unix-timestamp>-<pid>.jsonl", which sorts chronologically.
// The session ID recorded on every line is a random UUID.
type JSONL struct {
	file      *os.File
	mu        sync.Mutex
	idx       *fileIndex
	sessionID string
	path      string
	startedAt time.Time
	pos       int64 // current write position in the file
}

// NewJSONL creates the session JSONL log in dir. dir is created with
// os.MkdirAll if it does not exist.
func NewJSONL(dir string) (*JSONL, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("store: mkdir %q: %w", dir, err)
	}
	now := time.Now()
	path := filepath.Join(dir, fmt.Sprintf("%d-%d.jsonl", now.Unix(), os.Getpid()))
	f, err := os.OpenFile(path, os.O_CREATE|os.O_RDWR, 0644)
	if err != nil {
		return nil, fmt.Errorf("store: open %q: %w", path, err)
	}
	pos, err := f.Seek(0, io.SeekEnd)
	if err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("store: seek: %w", err)
	}
	return &JSONL{
		file:      f,
		idx:       newFileIndex(),
		sessionID: uuid.New().String(),
		path:      path,
		startedAt: now,
		pos:       pos,
	}, nil
}

// Path returns the session log file path.
func (j *JSONL) Path() string { return j.path }

// Append serializes ev as a JSON line, writes it to the file, and syncs.
// It is safe to call from multiple goroutines.
func (j *JSONL) Append(ev playback.Event) error {
	data, err := json.Marshal(record{Session: j.sessionID, Event: ev})
	if err != nil {
		return fmt.Errorf("store: marshal: %w", err)
	}
	data = append(data, '\n')

	j.mu.Lock()
	defer j.mu.Unlock()

	lineOffset := j.pos
	if _, err := j.file.Write(data); err != nil {
		return fmt.Errorf("store: write: %w", err)
	}
	if err := j.file.Sync(); err != nil {
		return fmt.Errorf("store: sync: %w", err)
	}
	lineLen := int64(len(data))
	j.pos += lineLen
	j.idx.onAppend(ev, lineOffset, lineLen)
	return nil
}

// Close closes the underlying file.
func (j *JSONL) Close() error {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.file.Close()
}

// Passes returns summaries for all completed passes in this session.
// The returned slice is a copy and safe to mutate.
func (j *JSONL) Passes() ([]PassSummary, error) {
	j.mu.Lock()
	result := make([]PassSummary, len(j.idx.summaries))
	copy(result, j.idx.summaries)
	j.mu.Unlock()
	return result, nil
}

// PassLog returns the events of completed pass n of demo, read back from
// the file using the in-memory byte-offset index.
func (j *JSONL) PassLog(demo string, n int) ([]playback.Event, error) {
	j.mu.Lock()
	r, ok := j.idx.ranges[passKey{demo, n}]
	j.mu.Unlock()
	if !ok {
		return nil, fmt.Errorf("store: pass %d of %q not found", n, demo)
	}
	size := r.end - r.start
	if size <= 0 {
		return nil, nil
	}
	buf := make([]byte, size)
	if _, err := j.file.ReadAt(buf, r.start); err != nil {
		return nil, fmt.Errorf("store: read pass %d: %w", n, err)
	}
	var events []playback.Event
	for _, line := range bytes.Split(buf, []byte("\n")) {
		if len(line) == 0 {
			continue
		}
		var rec record
		if err := json.Unmarshal(line, &rec); err != nil {
			log.Printf("store: skipping malformed line in pass %d: %v", n, err)
			continue
		}
		if rec.Demo == demo {
			events = append(events, rec.Event)
		}
	}
	return events, nil
}

// SessionSummary returns metadata about the current session derived from
// the in-memory pass index.
func (j *JSONL) SessionSummary() (SessionSummary, error) {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.idx.summary(j.sessionID, j.path, j.startedAt), nil
}

func (idx *fileIndex) summary(sessionID, path string, startedAt time.Time) SessionSummary {
	demos := make([]string, len(idx.demos))
	copy(demos, idx.demos)
	return SessionSummary{
		SessionID: sessionID,
		Path:      path,
		StartedAt: startedAt,
		Demos:     demos,
		Passes:    len(idx.summaries),
		Lines:     idx.lines,
	}
}

// ReadSession replays a session log written by a previous process and
// returns its summary and completed passes. Malformed lines are skipped.
func ReadSession(path string) (SessionSummary, []PassSummary, error) {
	f, err := os.Open(path)
	if err != nil {
		return SessionSummary{}, nil, fmt.Errorf("store: open %q: %w", path, err)
	}
	defer f.Close()

	idx := newFileIndex()
	var (
		sessionID string
		startedAt time.Time
		pos       int64
		lineNo    int
	)
	sc := bufio.NewScanner(f)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for sc.Scan() {
		lineNo++
		line := sc.Bytes()
		n := int64(len(line)) + 1
		if len(bytes.TrimSpace(line)) == 0 {
			pos += n
			continue
		}
		var rec record
		if err := json.Unmarshal(line, &rec); err != nil {
			log.Printf("store: skipping malformed line %d in %s: %v", lineNo, filepath.Base(path), err)
			pos += n
			continue
		}
		if sessionID == "" {
			sessionID = rec.Session
			startedAt = rec.Timestamp
		}
		idx.onAppend(rec.Event, pos, n)
		pos += n
	}
	if err := sc.Err(); err != nil {
		return SessionSummary{}, nil, fmt.Errorf("store: scan %q: %w", path, err)
	}

	passes := make([]PassSummary, len(idx.summaries))
	copy(passes, idx.summaries)
	return idx.summary(sessionID, path, startedAt), passes, nil
}

// sessionFiles returns the session log file names in dir, oldest first.
func sessionFiles(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("store: read dir %q: %w", dir, err)
	}
	var files []string
	for _, e := range entries {
		if !e.IsDir() && strings.HasSuffix(e.Name(), ".jsonl") {
			files = append(files, e.Name())
		}
	}
	sort.Strings(files) // timestamp-prefixed names sort chronologically
	return files, nil
}

// LatestSession returns the path of the newest session log in dir, or ""
// if there is none.
func LatestSession(dir string) (string, error) {
	files, err := sessionFiles(dir)
	if err != nil || len(files) == 0 {
		return "", err
	}
	return filepath.Join(dir, files[len(files)-1]), nil
}

// EnforceRetention removes the oldest session log files in dir, keeping at most
// maxKeep files. If maxKeep is 0, no files are removed. Returns nil if dir does
// not exist or is empty.
func EnforceRetention(dir string, maxKeep int) error {
	if maxKeep <= 0 {
		return nil
	}
	files, err := sessionFiles(dir)
	if err != nil {
		return err
	}
	toDelete := len(files) - maxKeep
	for i := 0; i < toDelete; i++ {
		path := filepath.Join(dir, files[i])
		if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("store: remove %q: %w", path, err)
		}
	}
	return nil
}

package history

import (
	"bufio"
	"context"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"gopkg.in/natefinch/lumberjack.v2"
)

// JSONLStore stores records in a JSONL file, one run per line.
type JSONLStore struct {
	path string
	mu   sync.Mutex
}

// NewJSONLStore creates the file at path if it does not exist.
func NewJSONLStore(path string) (*JSONLStore, error) {
	if err := ensureDir(path); err != nil {
		return nil, err
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_RDWR, 0644)
	if err != nil {
		return nil, err
	}
	if cerr := f.Close(); cerr != nil {
		return nil, cerr
	}
	return &JSONLStore{path: path}, nil
}

func (s *JSONLStore) Append(ctx context.Context, rec Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	f, err := os.OpenFile(s.path, os.O_APPEND|os.O_WRONLY, 0644)
	if err != nil {
		return err
	}
	defer func() { _ = f.Close() }()
	return json.NewEncoder(f).Encode(rec)
}

func (s *JSONLStore) Query(ctx context.Context, q Query) ([]Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	f, err := os.Open(s.path)
	if err != nil {
		return nil, err
	}
	defer func() { _ = f.Close() }()
	res, err := scan(f, q, nil)
	if err != nil {
		return nil, err
	}
	return q.limit(res), nil
}

func (s *JSONLStore) Close() error { return nil }

// RotatingJSONLStore stores records in a JSONL file rotated by size.
type RotatingJSONLStore struct {
	logger *lumberjack.Logger
	path   string
	mu     sync.Mutex
}

// NewRotatingJSONLStore creates a store with rotation options in megabytes and days.
func NewRotatingJSONLStore(path string, maxSizeMB, maxBackups, maxAgeDays int) (*RotatingJSONLStore, error) {
	if err := ensureDir(path); err != nil {
		return nil, err
	}
	lj := &lumberjack.Logger{
		Filename:   path,
		MaxSize:    maxSizeMB,
		MaxBackups: maxBackups,
		MaxAge:     maxAgeDays,
	}
	return &RotatingJSONLStore{logger: lj, path: path}, nil
}

// Append writes the record and triggers rotation if needed.
func (s *RotatingJSONLStore) Append(ctx context.Context, rec Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return json.NewEncoder(s.logger).Encode(rec)
}

// Query reads the active file and its rotated backups, oldest first.
func (s *RotatingJSONLStore) Query(ctx context.Context, q Query) ([]Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	ext := filepath.Ext(s.path)
	prefix := s.path[:len(s.path)-len(ext)]
	backups, err := filepath.Glob(prefix + "-*" + ext)
	if err != nil {
		return nil, err
	}
	// lumberjack timestamps sort lexically.
	sort.Strings(backups)
	var res []Record
	for _, name := range append(backups, s.path) {
		f, err := os.Open(name)
		if err != nil {
			if os.IsNotExist(err) {
				continue
			}
			return nil, err
		}
		res, err = scan(f, q, res)
		_ = f.Close()
		if err != nil {
			return nil, err
		}
	}
	return q.limit(res), nil
}

// Close closes the underlying writer.
func (s *RotatingJSONLStore) Close() error {
	return s.logger.Close()
}

// scan appends the matching records of r to res. Malformed lines are skipped.
func scan(r io.Reader, q Query, res []Record) ([]Record, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 64*1024), 16*1024*1024)
	for scanner.Scan() {
		var rec Record
		if err := json.Unmarshal(scanner.Bytes(), &rec); err != nil {
			continue
		}
		if q.match(rec) {
			res = append(res, rec)
		}
	}
	return res, scanner.Err()
}

func ensureDir(path string) error {
	if dir := filepath.Dir(path); dir != "." {
		return os.MkdirAll(dir, 0o755)
	}
	return nil
}

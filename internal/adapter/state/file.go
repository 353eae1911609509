package state

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/google/renameio/v2"
)

// FileStore keeps the value as a single line of text. Writes go to a
// temporary file that is fsynced and renamed over the target, so a crash
// leaves either the old or the new content. The trailing newline is
// required on read: a truncated file is rejected instead of parsed.
type FileStore struct {
	path string
}

// NewFileStore returns a store backed by path. The file is created on the
// first Save.
func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

func (s *FileStore) Load(_ context.Context) (float64, bool, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return 0, false, nil
		}
		return 0, false, fmt.Errorf("read prior temperature: %w", err)
	}

	v, err := parseRecord(string(data))
	if err != nil {
		return 0, false, fmt.Errorf("parse prior temperature %s: %w", s.path, err)
	}
	return v, true, nil
}

func (s *FileStore) Save(_ context.Context, celsius float64) error {
	if math.IsNaN(celsius) || math.IsInf(celsius, 0) {
		return fmt.Errorf("refusing to store non-finite temperature %v", celsius)
	}
	record := strconv.FormatFloat(celsius, 'f', -1, 64) + "\n"
	if err := renameio.WriteFile(s.path, []byte(record), 0o644); err != nil {
		return fmt.Errorf("write prior temperature: %w", err)
	}
	return nil
}

func (s *FileStore) Snapshot(ctx context.Context) (Snapshot, bool, error) {
	v, ok, err := s.Load(ctx)
	if err != nil || !ok {
		return Snapshot{}, ok, err
	}
	info, err := os.Stat(s.path)
	if err != nil {
		return Snapshot{}, false, fmt.Errorf("stat prior temperature: %w", err)
	}
	return Snapshot{Celsius: v, ObservedAt: info.ModTime()}, true, nil
}

func (s *FileStore) Close() error { return nil }

func parseRecord(data string) (float64, error) {
	line, ok := strings.CutSuffix(data, "\n")
	if !ok {
		return 0, errors.New("incomplete record")
	}
	v, err := strconv.ParseFloat(strings.TrimSpace(line), 64)
	if err != nil {
		return 0, err
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, fmt.Errorf("non-finite value %q", line)
	}
	return v, nil
}

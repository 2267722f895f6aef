package memory

import (
	"encoding/json"
	"log/slog"
	"os"
	"sync"
	"time"

	"github.com/schooldesk/schooldesk/core"
)

// diskStudent is the on-disk shape of a student record. Timestamps are
// stored as ISO-8601 strings so the file stays readable and portable.
type diskStudent struct {
	ID        int64   `json:"id"`
	Code      string  `json:"code"`
	Name      string  `json:"name"`
	Grade     int     `json:"grade"`
	Phone     string  `json:"phone"`
	Notes     *string `json:"notes"`
	CreatedAt string  `json:"createdAt"`
}

// Bridge persists the full student collection to a single JSON file and
// keeps an in-memory cache mirroring the last successful Save. Only
// students are bridged; users and messages in the memory backend do not
// survive a restart.
type Bridge struct {
	mu     sync.Mutex
	path   string
	cache  []diskStudent
	logger *slog.Logger
}

// NewBridge creates a Bridge writing to the given file path.
func NewBridge(path string, logger *slog.Logger) *Bridge {
	if logger == nil {
		logger = slog.Default()
	}
	return &Bridge{path: path, logger: logger}
}

// Save replaces the cache with the given collection and rewrites the whole
// file. I/O failures are logged and swallowed: the live process keeps the
// new data either way, it just may not survive a crash until the next
// successful Save.
func (b *Bridge) Save(students []*core.Student) {
	b.mu.Lock()
	defer b.mu.Unlock()

	disk := make([]diskStudent, 0, len(students))
	for _, s := range students {
		disk = append(disk, toDisk(s))
	}
	b.cache = disk

	data, err := json.MarshalIndent(disk, "", "  ")
	if err != nil {
		b.logger.Error("failed to encode student file", "path", b.path, "err", err)
		return
	}
	if err := os.WriteFile(b.path, data, 0o644); err != nil {
		b.logger.Error("failed to write student file", "path", b.path, "err", err)
	}
}

// LoadState reports how a Load call produced its result, so callers that
// care can tell a genuinely empty dataset from an unreadable file.
type LoadState int

const (
	// LoadedData means records were found in the cache or the file.
	LoadedData LoadState = iota
	// LoadedEmpty means both the cache and the file were cleanly empty.
	LoadedEmpty
	// LoadFailed means the file was unreadable or corrupt; the result is
	// empty but the dataset on disk may not be.
	LoadFailed
)

// Load returns the cached collection when one exists, otherwise reads and
// parses the file. The returned collection is empty for LoadedEmpty and
// LoadFailed alike; callers that treat the two the same get the classic
// "missing file means no students" behavior.
func (b *Bridge) Load() ([]*core.Student, LoadState) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if len(b.cache) == 0 {
		data, err := os.ReadFile(b.path)
		if err != nil {
			if os.IsNotExist(err) {
				return nil, LoadedEmpty
			}
			b.logger.Warn("failed to read student file", "path", b.path, "err", err)
			return nil, LoadFailed
		}
		var disk []diskStudent
		if err := json.Unmarshal(data, &disk); err != nil {
			b.logger.Warn("student file is corrupt, starting empty", "path", b.path, "err", err)
			return nil, LoadFailed
		}
		b.cache = disk
	}

	students := make([]*core.Student, 0, len(b.cache))
	for _, d := range b.cache {
		s, err := fromDisk(d)
		if err != nil {
			b.logger.Warn("student file is corrupt, starting empty", "path", b.path, "err", err)
			b.cache = nil
			return nil, LoadFailed
		}
		students = append(students, s)
	}
	if len(students) == 0 {
		return nil, LoadedEmpty
	}
	return students, LoadedData
}

func toDisk(s *core.Student) diskStudent {
	d := diskStudent{
		ID:        s.ID,
		Code:      s.Code,
		Name:      s.Name,
		Grade:     s.Grade,
		Phone:     s.Phone,
		CreatedAt: s.CreatedAt.Format(time.RFC3339Nano),
	}
	if s.Notes != nil {
		notes := *s.Notes
		d.Notes = &notes
	}
	return d
}

func fromDisk(d diskStudent) (*core.Student, error) {
	createdAt, err := time.Parse(time.RFC3339Nano, d.CreatedAt)
	if err != nil {
		return nil, err
	}
	s := &core.Student{
		ID:        d.ID,
		Code:      d.Code,
		Name:      d.Name,
		Grade:     d.Grade,
		Phone:     d.Phone,
		CreatedAt: createdAt,
	}
	if d.Notes != nil {
		notes := *d.Notes
		s.Notes = &notes
	}
	return s, nil
}

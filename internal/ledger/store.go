package ledger

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/log"
	"github.com/lox/blackjack/internal/fileutil"
)

// Store loads and saves the complete set of records. Save replaces whatever
// the store held before.
type Store interface {
	Load() ([]Record, error)
	Save(records []Record) error
	Close() error
	String() string
}

// Store drivers accepted by OpenStore.
const (
	DriverFile   = "file"
	DriverSQLite = "sqlite"
)

// OpenStore opens the store for driver at path. An empty driver means file.
func OpenStore(driver, path string, logger *log.Logger) (Store, error) {
	switch driver {
	case "", DriverFile:
		return NewFileStore(path, logger), nil
	case DriverSQLite:
		return OpenSQLiteStore(path, logger)
	default:
		return nil, fmt.Errorf("unknown store driver %q", driver)
	}
}

// FileStore keeps records in a flat comma separated text file.
type FileStore struct {
	path   string
	logger *log.Logger
}

// NewFileStore creates a store backed by the file at path. The file need
// not exist yet.
func NewFileStore(path string, logger *log.Logger) *FileStore {
	if logger == nil {
		logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	return &FileStore{path: path, logger: logger.WithPrefix("store")}
}

// Load reads every well-formed record. A missing file is an empty ledger.
func (s *FileStore) Load() ([]Record, error) {
	f, err := os.Open(s.path)
	if errors.Is(err, os.ErrNotExist) {
		s.logger.Debug("No ledger file yet", "path", s.path)
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("open ledger: %w", err)
	}
	defer f.Close()

	records, skipped, err := Decode(f)
	for _, e := range skipped {
		s.logger.Warn("Skipping malformed record", "path", s.path, "error", e)
	}
	if err != nil {
		return nil, err
	}

	s.logger.Debug("Loaded ledger", "path", s.path, "records", len(records), "skipped", len(skipped))
	return records, nil
}

// Save overwrites the file with records.
func (s *FileStore) Save(records []Record) error {
	return fileutil.ReplaceFile(s.path, 0o644, func(w io.Writer) error {
		return Encode(w, records)
	})
}

// Close is a no-op for file stores.
func (s *FileStore) Close() error { return nil }

func (s *FileStore) String() string { return s.path }

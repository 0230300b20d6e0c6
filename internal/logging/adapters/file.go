package adapters

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"jobportal-web/internal/logging/types"
)

// FileAdapter appends entries to a file and rotates it by size
type FileAdapter struct {
	name        string
	config      FileConfig
	currentFile *os.File
	currentSize int64
	mu          sync.Mutex
}

// FileConfig represents configuration for the file adapter
type FileConfig struct {
	FilePath    string      `yaml:"file_path"`     // path to log file
	Format      string      `yaml:"format"`        // json or text
	MaxSize     int64       `yaml:"max_size"`      // rotate after this many bytes (0 = never)
	MaxBackups  int         `yaml:"max_backups"`   // rotated files to keep
	CreateDirs  bool        `yaml:"create_dirs"`   // create parent directories
	FileMode    os.FileMode `yaml:"file_mode"`     // file permissions
	SyncOnWrite bool        `yaml:"sync_on_write"` // fsync after each write
}

// NewFileAdapter creates a new file adapter and opens its file
func NewFileAdapter(name string, config FileConfig) (*FileAdapter, error) {
	if config.FilePath == "" {
		return nil, fmt.Errorf("file_path is required for file adapter")
	}
	if config.FileMode == 0 {
		config.FileMode = 0644
	}
	if config.MaxBackups <= 0 {
		config.MaxBackups = 5
	}
	if config.Format == "" {
		config.Format = "json"
	}

	if config.CreateDirs {
		if err := os.MkdirAll(filepath.Dir(config.FilePath), 0755); err != nil {
			return nil, fmt.Errorf("failed to create directories: %w", err)
		}
	}

	adapter := &FileAdapter{name: name, config: config}
	if err := adapter.openFile(); err != nil {
		return nil, fmt.Errorf("failed to open log file: %w", err)
	}

	return adapter, nil
}

// Write appends a log entry, rotating first when the size limit is reached
func (a *FileAdapter) Write(entry *types.LogEntry) error {
	output, err := formatEntry(entry, a.config.Format, false)
	if err != nil {
		return err
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	if a.currentFile == nil {
		return fmt.Errorf("log file %s is closed", a.config.FilePath)
	}

	if a.config.MaxSize > 0 && a.currentSize >= a.config.MaxSize {
		if err := a.rotate(); err != nil {
			return fmt.Errorf("failed to rotate log file: %w", err)
		}
	}

	n, err := a.currentFile.WriteString(output + "\n")
	if err != nil {
		return fmt.Errorf("failed to write to log file: %w", err)
	}
	a.currentSize += int64(n)

	if a.config.SyncOnWrite {
		return a.currentFile.Sync()
	}
	return nil
}

// Close closes the underlying file
func (a *FileAdapter) Close() error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.currentFile == nil {
		return nil
	}
	err := a.currentFile.Close()
	a.currentFile = nil
	return err
}

// Health reports whether the file is still open
func (a *FileAdapter) Health() error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.currentFile == nil {
		return fmt.Errorf("log file %s is closed", a.config.FilePath)
	}
	return nil
}

func (a *FileAdapter) Name() string { return a.name }

func (a *FileAdapter) openFile() error {
	file, err := os.OpenFile(a.config.FilePath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, a.config.FileMode)
	if err != nil {
		return err
	}

	info, err := file.Stat()
	if err != nil {
		file.Close()
		return err
	}

	a.currentFile = file
	a.currentSize = info.Size()
	return nil
}

// rotate renames the current file with a timestamp suffix and opens a fresh one.
// Caller holds a.mu.
func (a *FileAdapter) rotate() error {
	if err := a.currentFile.Close(); err != nil {
		return err
	}

	backup := fmt.Sprintf("%s.%s", a.config.FilePath, time.Now().Format("20060102-150405.000"))
	if err := os.Rename(a.config.FilePath, backup); err != nil {
		return err
	}

	if err := a.openFile(); err != nil {
		return err
	}

	a.pruneBackups()
	return nil
}

func (a *FileAdapter) pruneBackups() {
	matches, err := filepath.Glob(a.config.FilePath + ".*")
	if err != nil || len(matches) <= a.config.MaxBackups {
		return
	}

	sort.Strings(matches)
	for _, old := range matches[:len(matches)-a.config.MaxBackups] {
		if strings.HasPrefix(old, a.config.FilePath+".") {
			_ = os.Remove(old)
		}
	}
}

// Package datasource discovers and opens task snapshots. A project
// directory may hold flat files and a SQLite export side by side; the
// freshest valid one wins.
package datasource

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/vanderheijden86/gantry/pkg/loader"
)

// SourceType identifies the kind of snapshot.
type SourceType string

const (
	SourceTypeSQLite SourceType = "sqlite"
	SourceTypeFile   SourceType = "file"
)

// Priority breaks modification-time ties (higher wins).
const (
	PrioritySQLite = 100
	PriorityFile   = 50
)

// DataSource is one candidate snapshot.
type DataSource struct {
	Type            SourceType    `json:"type"`
	Format          loader.Format `json:"format"`
	Path            string        `json:"path"`
	Priority        int           `json:"priority"`
	ModTime         time.Time     `json:"mod_time"`
	Size            int64         `json:"size"`
	Valid           bool          `json:"valid"`
	ValidationError string        `json:"validation_error,omitempty"`
	TaskCount       int           `json:"task_count"`
}

func (s DataSource) String() string {
	status := "valid"
	if !s.Valid {
		status = "invalid: " + s.ValidationError
	}
	return fmt.Sprintf("%s (%s, priority=%d, mod=%s, tasks=%d, %s)",
		s.Path, s.Format, s.Priority, s.ModTime.Format(time.RFC3339), s.TaskCount, status)
}

// DetectSource describes the snapshot at path without reading it.
func DetectSource(path string) (DataSource, error) {
	format, err := loader.FormatFor(path)
	if err != nil {
		return DataSource{}, err
	}
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return DataSource{}, fmt.Errorf("%w at %s", loader.ErrNoTasksFile, path)
		}
		return DataSource{}, fmt.Errorf("stat %s: %w", path, err)
	}
	if info.IsDir() {
		return DataSource{}, fmt.Errorf("%s is a directory", path)
	}

	src := DataSource{
		Type:     SourceTypeFile,
		Format:   format,
		Path:     path,
		Priority: PriorityFile,
		ModTime:  info.ModTime(),
		Size:     info.Size(),
	}
	if format == loader.FormatSQLite {
		src.Type = SourceTypeSQLite
		src.Priority = PrioritySQLite
	}
	return src, nil
}

// DiscoveryOptions configures DiscoverSources.
type DiscoveryOptions struct {
	Dir                    string // searched directory; GANTRY_DIR or cwd when empty
	Project                string // project_id filter for SQLite validation
	ValidateAfterDiscovery bool
	IncludeInvalid         bool
	Logger                 func(msg string)
}

// DiscoverSources finds every known snapshot name in the directory, newest
// first.
func DiscoverSources(opts DiscoveryOptions) ([]DataSource, error) {
	logf := opts.Logger
	if logf == nil {
		logf = func(string) {}
	}
	dir, err := loader.GetTasksDir(opts.Dir)
	if err != nil {
		return nil, err
	}

	var sources []DataSource
	for _, name := range loader.PreferredNames {
		src, err := DetectSource(filepath.Join(dir, name))
		if err != nil {
			continue
		}
		logf(fmt.Sprintf("found %s (mod=%s)", src.Path, src.ModTime.Format(time.RFC3339)))
		sources = append(sources, src)
	}

	if opts.ValidateAfterDiscovery {
		for i := range sources {
			if err := ValidateSource(&sources[i], opts.Project); err != nil {
				logf(fmt.Sprintf("validation failed for %s: %v", sources[i].Path, err))
			}
		}
		if !opts.IncludeInvalid {
			valid := sources[:0]
			for _, s := range sources {
				if s.Valid {
					valid = append(valid, s)
				}
			}
			sources = valid
		}
	}

	sort.SliceStable(sources, func(i, j int) bool {
		if sources[i].ModTime.Equal(sources[j].ModTime) {
			return sources[i].Priority > sources[j].Priority
		}
		return sources[i].ModTime.After(sources[j].ModTime)
	})
	return sources, nil
}

// ValidateSource loads src and records whether it is usable.
func ValidateSource(src *DataSource, project string) error {
	tasks, err := LoadFromSource(*src, project)
	if err != nil {
		src.Valid = false
		src.ValidationError = err.Error()
		return err
	}
	src.Valid = true
	src.ValidationError = ""
	src.TaskCount = len(tasks)
	return nil
}

// ErrNoValidSource is returned when discovery finds nothing loadable.
var ErrNoValidSource = errors.New("no valid task source")

// SelectBestSource returns the first valid source of an ordered list.
func SelectBestSource(sources []DataSource) (DataSource, error) {
	for _, s := range sources {
		if s.Valid {
			return s, nil
		}
	}
	return DataSource{}, ErrNoValidSource
}

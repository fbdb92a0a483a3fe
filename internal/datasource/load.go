package datasource

import (
	"fmt"
	"os"

	"github.com/vanderheijden86/gantry/pkg/debug"
	"github.com/vanderheijden86/gantry/pkg/loader"
	"github.com/vanderheijden86/gantry/pkg/metrics"
	"github.com/vanderheijden86/gantry/pkg/model"
)

// LoadTasks loads the snapshot at path, which may be a file or a
// directory. Directories go through discovery and the freshest valid
// source is used. project filters SQLite sources and is ignored for flat
// files.
func LoadTasks(path, project string) ([]model.Task, error) {
	if path == "" || isDir(path) {
		return LoadTasksFromDir(path, project)
	}
	src, err := DetectSource(path)
	if err != nil {
		return nil, err
	}
	return LoadFromSource(src, project)
}

// LoadTasksFromDir discovers sources in dir (GANTRY_DIR or the working
// directory when empty) and loads the best one.
func LoadTasksFromDir(dir, project string) ([]model.Task, error) {
	sources, err := DiscoverSources(DiscoveryOptions{
		Dir:                    dir,
		Project:                project,
		ValidateAfterDiscovery: true,
		Logger:                 func(msg string) { debug.Log("datasource: %s", msg) },
	})
	if err != nil {
		return nil, err
	}
	if len(sources) == 0 {
		resolved, _ := loader.GetTasksDir(dir)
		return nil, fmt.Errorf("%w in %s", loader.ErrNoTasksFile, resolved)
	}
	best, err := SelectBestSource(sources)
	if err != nil {
		return nil, err
	}
	debug.Log("datasource: using %s", best)
	return LoadFromSource(best, project)
}

// LoadFromSource reads one source.
func LoadFromSource(source DataSource, project string) ([]model.Task, error) {
	switch source.Type {
	case SourceTypeSQLite:
		defer metrics.Timer(metrics.SnapshotLoad)()
		reader, err := NewSQLiteReader(source)
		if err != nil {
			return nil, fmt.Errorf("failed to open SQLite source %s: %w", source.Path, err)
		}
		defer reader.Close()
		return reader.LoadTasks(project)

	case SourceTypeFile:
		return loader.LoadTasksFromFile(source.Path)

	default:
		return nil, fmt.Errorf("unknown source type: %s", source.Type)
	}
}

func isDir(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}

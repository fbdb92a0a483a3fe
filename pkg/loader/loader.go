// Package loader reads task snapshots from local files.
//
// Three formats are accepted, chosen by extension: a JSON array (or an
// object with a "tasks" array), JSON Lines with one task per line, and YAML
// in either shape. Malformed JSONL lines are skipped with a warning; the
// other formats fail as a whole.
package loader

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"

	json "github.com/goccy/go-json"
	"golang.org/x/sync/errgroup"
	"gopkg.in/yaml.v3"

	"github.com/vanderheijden86/gantry/pkg/debug"
	"github.com/vanderheijden86/gantry/pkg/metrics"
	"github.com/vanderheijden86/gantry/pkg/model"
)

// DirEnvVar overrides the directory searched for a snapshot.
const DirEnvVar = "GANTRY_DIR"

// PreferredNames is the lookup order of FindTasksPath.
var PreferredNames = []string{"tasks.json", "tasks.jsonl", "tasks.yaml", "tasks.yml", "gantry.db"}

var (
	// ErrNoTasksFile is returned when a directory holds no snapshot.
	ErrNoTasksFile = errors.New("no tasks file found")
	// ErrUnsupportedFormat is returned for unknown file extensions.
	ErrUnsupportedFormat = errors.New("unsupported snapshot format")
)

// Format is a snapshot encoding.
type Format string

const (
	FormatJSON   Format = "json"
	FormatJSONL  Format = "jsonl"
	FormatYAML   Format = "yaml"
	FormatSQLite Format = "sqlite"
)

// FormatFor returns the format selected by path's extension.
func FormatFor(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return FormatJSON, nil
	case ".jsonl", ".ndjson":
		return FormatJSONL, nil
	case ".yaml", ".yml":
		return FormatYAML, nil
	case ".db", ".sqlite", ".sqlite3":
		return FormatSQLite, nil
	default:
		return "", fmt.Errorf("%w: %s", ErrUnsupportedFormat, filepath.Base(path))
	}
}

// GetTasksDir returns the directory to search, respecting GANTRY_DIR.
// Falls back to dir, or the working directory when dir is empty.
func GetTasksDir(dir string) (string, error) {
	if envDir := os.Getenv(DirEnvVar); envDir != "" {
		return envDir, nil
	}
	if dir != "" {
		return dir, nil
	}
	wd, err := os.Getwd()
	if err != nil {
		return "", fmt.Errorf("failed to get current working directory: %w", err)
	}
	return wd, nil
}

// FindTasksPath returns the first non-empty snapshot in dir, following
// PreferredNames.
func FindTasksPath(dir string) (string, error) {
	var empty string
	for _, name := range PreferredNames {
		path := filepath.Join(dir, name)
		info, err := os.Stat(path)
		if err != nil || info.IsDir() {
			continue
		}
		if info.Size() > 0 {
			return path, nil
		}
		if empty == "" {
			empty = path
		}
	}
	if empty != "" {
		return empty, nil
	}
	return "", fmt.Errorf("%w in %s", ErrNoTasksFile, dir)
}

// DefaultMaxBufferSize is the longest JSONL line read (10MB).
const DefaultMaxBufferSize = 1024 * 1024 * 10

// ParseOptions configures parsing.
type ParseOptions struct {
	// WarningHandler receives skipped-line messages. Nil logs them.
	WarningHandler func(string)

	// BufferSize caps the JSONL line length; longer lines are skipped.
	// 0 uses DefaultMaxBufferSize.
	BufferSize int

	// TaskFilter keeps only tasks for which it returns true.
	TaskFilter func(*model.Task) bool
}

func (o ParseOptions) warn() func(string) {
	if o.WarningHandler != nil {
		return o.WarningHandler
	}
	return func(msg string) { log.Printf("warning: %s", msg) }
}

// LoadTasksFromFile reads a JSON, JSONL or YAML snapshot.
func LoadTasksFromFile(path string) ([]model.Task, error) {
	return LoadTasksFromFileWithOptions(path, ParseOptions{})
}

// LoadTasksFromFileWithOptions reads a snapshot with custom options.
func LoadTasksFromFileWithOptions(path string, opts ParseOptions) ([]model.Task, error) {
	defer metrics.Timer(metrics.SnapshotLoad)()

	format, err := FormatFor(path)
	if err != nil {
		return nil, err
	}
	if format == FormatSQLite {
		return nil, fmt.Errorf("%w: %s is a database, open it through the datasource package", ErrUnsupportedFormat, filepath.Base(path))
	}

	file, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w at %s", ErrNoTasksFile, path)
		}
		return nil, fmt.Errorf("failed to open tasks file: %w", err)
	}
	defer file.Close()

	var tasks []model.Task
	switch format {
	case FormatJSONL:
		tasks, err = ParseTasksWithOptions(file, opts)
	case FormatJSON:
		tasks, err = decodeWhole(file, ParseJSON, opts)
	case FormatYAML:
		tasks, err = decodeWhole(file, ParseYAML, opts)
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", filepath.Base(path), err)
	}
	debug.Log("loaded %d tasks from %s", len(tasks), path)
	return tasks, nil
}

func decodeWhole(r io.Reader, parse func([]byte) ([]model.Task, error), opts ParseOptions) ([]model.Task, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("reading tasks: %w", err)
	}
	tasks, err := parse(stripBOM(data))
	if err != nil {
		return nil, err
	}
	return keep(tasks, opts), nil
}

// keep drops id-less tasks with a warning and applies the filter.
func keep(tasks []model.Task, opts ParseOptions) []model.Task {
	warn := opts.warn()
	out := tasks[:0]
	for i := range tasks {
		if strings.TrimSpace(tasks[i].ID) == "" {
			warn(fmt.Sprintf("skipping task %d: missing id", i+1))
			continue
		}
		if opts.TaskFilter != nil && !opts.TaskFilter(&tasks[i]) {
			continue
		}
		out = append(out, tasks[i])
	}
	return out
}

type envelope struct {
	Tasks []model.Task `json:"tasks" yaml:"tasks"`
}

// ParseJSON decodes a JSON array of tasks or an object with a "tasks"
// array.
func ParseJSON(data []byte) ([]model.Task, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return nil, nil
	}
	if trimmed[0] == '{' {
		var env envelope
		if err := json.Unmarshal(trimmed, &env); err != nil {
			return nil, fmt.Errorf("parsing JSON: %w", err)
		}
		return env.Tasks, nil
	}
	var tasks []model.Task
	if err := json.Unmarshal(trimmed, &tasks); err != nil {
		return nil, fmt.Errorf("parsing JSON: %w", err)
	}
	return tasks, nil
}

// ParseYAML decodes a YAML sequence of tasks or a mapping with a "tasks"
// sequence.
func ParseYAML(data []byte) ([]model.Task, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parsing YAML: %w", err)
	}
	if len(doc.Content) == 0 {
		return nil, nil
	}
	root := doc.Content[0]
	var tasks []model.Task
	switch root.Kind {
	case yaml.SequenceNode:
		if err := root.Decode(&tasks); err != nil {
			return nil, fmt.Errorf("parsing YAML: %w", err)
		}
	case yaml.MappingNode:
		var env envelope
		if err := root.Decode(&env); err != nil {
			return nil, fmt.Errorf("parsing YAML: %w", err)
		}
		tasks = env.Tasks
	default:
		return nil, fmt.Errorf("parsing YAML: expected a list of tasks, got %s", nodeKind(root.Kind))
	}
	return tasks, nil
}

func nodeKind(k yaml.Kind) string {
	switch k {
	case yaml.ScalarNode:
		return "a scalar"
	case yaml.AliasNode:
		return "an alias"
	default:
		return "a document"
	}
}

// ParseTasks parses JSON Lines from r.
func ParseTasks(r io.Reader) ([]model.Task, error) {
	return ParseTasksWithOptions(r, ParseOptions{})
}

// ParseTasksWithOptions parses JSON Lines with custom options. Blank lines
// are ignored; malformed, id-less and over-long lines are skipped with a
// warning.
func ParseTasksWithOptions(r io.Reader, opts ParseOptions) ([]model.Task, error) {
	maxCapacity := opts.BufferSize
	if maxCapacity <= 0 {
		maxCapacity = DefaultMaxBufferSize
	}
	reader := bufio.NewReaderSize(r, maxCapacity)
	warn := opts.warn()

	var tasks []model.Task
	lineNum := 0
	for {
		lineNum++
		line, isPrefix, err := reader.ReadLine()
		if err != nil {
			if err == io.EOF {
				break
			}
			return nil, fmt.Errorf("error reading tasks stream at line %d: %w", lineNum, err)
		}

		if isPrefix {
			warn(fmt.Sprintf("skipping line %d: line too long (exceeds %d bytes)", lineNum, maxCapacity))
			for isPrefix {
				_, isPrefix, err = reader.ReadLine()
				if err == io.EOF {
					break
				}
				if err != nil {
					return nil, fmt.Errorf("error skipping long line at line %d: %w", lineNum, err)
				}
			}
			continue
		}

		if lineNum == 1 {
			line = stripBOM(line)
		}
		if len(bytes.TrimSpace(line)) == 0 {
			continue
		}

		var task model.Task
		if err := json.Unmarshal(line, &task); err != nil {
			warn(fmt.Sprintf("skipping malformed JSON on line %d: %v", lineNum, err))
			continue
		}
		if strings.TrimSpace(task.ID) == "" {
			warn(fmt.Sprintf("skipping task on line %d: missing id", lineNum))
			continue
		}
		if opts.TaskFilter != nil && !opts.TaskFilter(&task) {
			continue
		}
		tasks = append(tasks, task)
	}
	return tasks, nil
}

// LoadFiles reads several snapshots concurrently and concatenates them in
// argument order. The first failure cancels the rest.
func LoadFiles(ctx context.Context, paths []string, opts ParseOptions) ([]model.Task, error) {
	results := make([][]model.Task, len(paths))
	g, ctx := errgroup.WithContext(ctx)
	for i, path := range paths {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			tasks, err := LoadTasksFromFileWithOptions(path, opts)
			if err != nil {
				return err
			}
			results[i] = tasks
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	total := 0
	for _, r := range results {
		total += len(r)
	}
	out := make([]model.Task, 0, total)
	for _, r := range results {
		out = append(out, r...)
	}
	return out, nil
}

// stripBOM removes a leading UTF-8 byte order mark.
func stripBOM(b []byte) []byte {
	if bytes.HasPrefix(b, []byte{0xEF, 0xBB, 0xBF}) {
		return b[3:]
	}
	return b
}

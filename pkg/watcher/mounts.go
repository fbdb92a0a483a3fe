package watcher

import (
	"path/filepath"
	"strings"
)

// mountTypeFor returns the filesystem type of the longest mount point in a
// /proc/self/mounts listing that contains path.
func mountTypeFor(mounts, path string) string {
	path = filepath.Clean(path)
	best, bestType := "", ""
	for _, line := range strings.Split(mounts, "\n") {
		fields := strings.Fields(line)
		if len(fields) < 3 {
			continue
		}
		mp := fields[1]
		if path != mp && !strings.HasPrefix(path, strings.TrimSuffix(mp, "/")+"/") {
			continue
		}
		if len(mp) > len(best) {
			best, bestType = mp, fields[2]
		}
	}
	return bestType
}

package services

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/aa-dank/file-code-tagger/internal/core/domain"
)

// locateForTag finds the first of the file's locations whose directory
// string contains the tag's canonical label, case-insensitively, and
// whose resolved path exists under the mount. Returns "" when no
// location resolves.
func locateForTag(file domain.File, mount string, tag domain.Tag) string {
	needle := strings.ToLower(tag.FullLabel())
	for _, loc := range file.Locations {
		if !strings.Contains(strings.ToLower(loc.ServerDirectories), needle) {
			continue
		}
		if path := loc.LocalPath(mount); pathExists(path) {
			return path
		}
	}
	return ""
}

// locateForLocation finds the first of the file's locations equal to or
// under targetDirs (POSIX path-prefix match) whose resolved path exists
// under the mount.
func locateForLocation(file domain.File, mount, targetDirs string) string {
	for _, loc := range file.Locations {
		if !underServerDirs(loc.ServerDirectories, targetDirs) {
			continue
		}
		if path := loc.LocalPath(mount); pathExists(path) {
			return path
		}
	}
	return ""
}

// underServerDirs reports whether dirs equals target or is a proper
// descendant of it.
func underServerDirs(dirs, target string) bool {
	target = strings.TrimRight(target, "/")
	if target == "" {
		return true
	}
	return dirs == target || strings.HasPrefix(dirs, target+"/")
}

// serverDirsFromPath converts a local path under the mount into the
// server-relative POSIX directory string used by the catalogue. A path
// not under the mount is assumed to already be server-relative.
func serverDirsFromPath(mount, p string) string {
	full := filepath.ToSlash(p)
	base := strings.TrimRight(filepath.ToSlash(mount), "/")
	if base != "" && strings.HasPrefix(full, base+"/") {
		full = strings.TrimPrefix(full, base+"/")
	} else if full == base {
		full = ""
	}
	return strings.Trim(full, "/")
}

// pathExists reports whether the path exists and is not a directory.
func pathExists(path string) bool {
	if path == "" {
		return false
	}
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}

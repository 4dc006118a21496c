package source

import (
	"os"
	"path/filepath"
	"strings"
)

// ExportsDir is the data-dir subdirectory the extraction stage writes to.
const ExportsDir = "exports"

// sessionsSuffix marks a sidecar file carrying refreshed prompt sessions
// for the export with the same stem.
const sessionsSuffix = ".sessions.json"

// DiscoveredFile is a snapshot export found during directory scanning.
type DiscoveredFile struct {
	Path         string
	Stem         string // file name without extension, an encoded repo path
	Project      string // decoded display name (e.g., "gitlore")
	SessionsPath string // sidecar path; may not exist
	MtimeNs      int64
	SizeBytes    int64
}

// ScanDir walks the exports directory and discovers all snapshot exports.
// A missing directory yields no files and no error.
func ScanDir(dataDir string) ([]DiscoveredFile, error) {
	exportsDir := filepath.Join(dataDir, ExportsDir)

	info, err := os.Stat(exportsDir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}
	if !info.IsDir() {
		return nil, nil
	}

	var files []DiscoveredFile

	err = filepath.WalkDir(exportsDir, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return nil //nolint:nilerr // intentionally skip unreadable entries
		}
		if d.IsDir() {
			return nil
		}
		name := d.Name()
		if filepath.Ext(name) != ".json" || strings.HasSuffix(name, sessionsSuffix) {
			return nil
		}

		fi, err := d.Info()
		if err != nil {
			return nil //nolint:nilerr // file vanished between readdir and stat
		}

		stem := strings.TrimSuffix(name, ".json")
		files = append(files, DiscoveredFile{
			Path:         path,
			Stem:         stem,
			Project:      decodeProjectName(stem),
			SessionsPath: filepath.Join(filepath.Dir(path), stem+sessionsSuffix),
			MtimeNs:      fi.ModTime().UnixNano(),
			SizeBytes:    fi.Size(),
		})
		return nil
	})

	return files, err
}

// decodeProjectName extracts a human-readable project name from an encoded
// repository path. Exports are named after the absolute repo path with "/"
// replaced by "-", so:
//
//	"-Users-alex-projects-gitlore" -> "gitlore"
//	"-Users-alex-projects-my-cool-project" -> "my-cool-project"
//
// We find the last known path component ("projects", "repos", "src", "code")
// and take everything after it. Falls back to the last non-empty segment.
func decodeProjectName(stem string) string {
	parts := strings.Split(stem, "-")

	knownParents := map[string]bool{
		"projects": true, "repos": true, "src": true,
		"code": true, "workspace": true, "dev": true,
	}

	for i := len(parts) - 2; i >= 0; i-- {
		if knownParents[strings.ToLower(parts[i])] {
			name := strings.Join(parts[i+1:], "-")
			if name != "" {
				return name
			}
		}
	}

	for i := len(parts) - 1; i >= 0; i-- {
		if parts[i] != "" {
			return parts[i]
		}
	}

	return stem
}

// EncodeRepoPath returns the export stem for an absolute repository path.
func EncodeRepoPath(repoPath string) string {
	return strings.ReplaceAll(filepath.ToSlash(filepath.Clean(repoPath)), "/", "-")
}

// CountProjects returns the number of unique projects in a set of discovered files.
func CountProjects(files []DiscoveredFile) int {
	seen := make(map[string]struct{})
	for _, f := range files {
		seen[f.Project] = struct{}{}
	}
	return len(seen)
}

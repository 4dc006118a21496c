package pipeline

import (
	"sort"

	"github.com/theirongolddev/gitlore/internal/model"
)

// MinCouplingCount is the co-change count a pair needs to be reported.
const MinCouplingCount = 3

// FileCoupling is a pair of files changed together in Count commits.
// FileA always sorts before FileB.
type FileCoupling struct {
	FileA string `json:"fileA" yaml:"fileA"`
	FileB string `json:"fileB" yaml:"fileB"`
	Count int    `json:"count" yaml:"count"`
}

type filePair struct{ a, b string }

// FileCouplings mines file pairs that changed together in at least
// MinCouplingCount commits, most frequent first.
func FileCouplings(commits []model.Commit) []FileCoupling {
	pairCounts := make(map[filePair]int)

	for _, c := range commits {
		files := distinctPaths(c.FilesChanged)
		if len(files) < 2 {
			continue
		}
		sort.Strings(files)
		for i := 0; i < len(files); i++ {
			for j := i + 1; j < len(files); j++ {
				pairCounts[filePair{files[i], files[j]}]++
			}
		}
	}

	results := make([]FileCoupling, 0)
	for p, n := range pairCounts {
		if n < MinCouplingCount {
			continue
		}
		results = append(results, FileCoupling{FileA: p.a, FileB: p.b, Count: n})
	}

	sort.Slice(results, func(i, j int) bool {
		if results[i].Count != results[j].Count {
			return results[i].Count > results[j].Count
		}
		if results[i].FileA != results[j].FileA {
			return results[i].FileA < results[j].FileA
		}
		return results[i].FileB < results[j].FileB
	})

	return results
}

func distinctPaths(changes []model.FileChange) []string {
	seen := make(map[string]struct{}, len(changes))
	paths := make([]string, 0, len(changes))
	for _, fc := range changes {
		if _, ok := seen[fc.Path]; ok {
			continue
		}
		seen[fc.Path] = struct{}{}
		paths = append(paths, fc.Path)
	}
	return paths
}

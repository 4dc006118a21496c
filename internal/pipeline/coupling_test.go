package pipeline

import (
	"fmt"
	"testing"

	"github.com/theirongolddev/gitlore/internal/model"
)

func TestFileCouplings_EndToEnd(t *testing.T) {
	commits := []model.Commit{
		commitAt("1", "x.ts", "y.ts"),
		commitAt("2", "x.ts", "y.ts"),
		commitAt("3", "x.ts", "y.ts", "z.ts"),
	}

	got := FileCouplings(commits)
	want := []FileCoupling{{FileA: "x.ts", FileB: "y.ts", Count: 3}}
	if len(got) != len(want) || got[0] != want[0] {
		t.Fatalf("FileCouplings = %+v, want %+v", got, want)
	}
}

func TestFileCouplings_Invariants(t *testing.T) {
	var commits []model.Commit
	for i := 0; i < 4; i++ {
		commits = append(commits, commitAt(fmt.Sprint(i), "b.go", "a.go", "a.go"))
	}
	for i := 0; i < 3; i++ {
		commits = append(commits, commitAt(fmt.Sprint(i), "d.go", "c.go"))
		commits = append(commits, commitAt(fmt.Sprint(i), "f.go", "e.go"))
	}
	commits = append(commits, commitAt("solo", "a.go"))

	got := FileCouplings(commits)
	want := []FileCoupling{
		{FileA: "a.go", FileB: "b.go", Count: 4},
		{FileA: "c.go", FileB: "d.go", Count: 3},
		{FileA: "e.go", FileB: "f.go", Count: 3},
	}
	if len(got) != len(want) {
		t.Fatalf("FileCouplings = %+v, want %+v", got, want)
	}

	seen := make(map[[2]string]bool)
	for i, c := range got {
		if c != want[i] {
			t.Errorf("coupling[%d] = %+v, want %+v", i, c, want[i])
		}
		if c.FileA >= c.FileB {
			t.Errorf("coupling %+v not ordered (self pair or reversed)", c)
		}
		if c.Count < MinCouplingCount {
			t.Errorf("coupling %+v below minimum count", c)
		}
		if seen[[2]string{c.FileB, c.FileA}] {
			t.Errorf("both (%s,%s) and its reverse present", c.FileA, c.FileB)
		}
		seen[[2]string{c.FileA, c.FileB}] = true
	}
}

func TestFileCouplings_Empty(t *testing.T) {
	got := FileCouplings(nil)
	if got == nil || len(got) != 0 {
		t.Errorf("FileCouplings(nil) = %#v, want empty non-nil slice", got)
	}

	below := []model.Commit{commitAt("1", "a", "b"), commitAt("2", "a", "b")}
	if got := FileCouplings(below); len(got) != 0 {
		t.Errorf("pairs seen twice should be dropped, got %+v", got)
	}
}

func BenchmarkFileCouplings(b *testing.B) {
	commits := make([]model.Commit, 0, 2000)
	for i := 0; i < 2000; i++ {
		paths := make([]string, 0, 8)
		for j := 0; j < 8; j++ {
			paths = append(paths, fmt.Sprintf("pkg%d/file%d.go", (i+j)%13, j))
		}
		commits = append(commits, commitAt(fmt.Sprint(i), paths...))
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		FileCouplings(commits)
	}
}

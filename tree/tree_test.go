package tree

import (
	"errors"
	"testing"

	sent "github.com/revelaction/udcheck/sentence"
)

func words(heads ...int) sent.Sentence {
	s := sent.Sentence{Id: "fr-ud-dev_1", Line: 1}
	for i, h := range heads {
		s.Words = append(s.Words, sent.Word{Index: i + 1, Lemma: string(rune('a' + i)), Head: h, Line: i + 2})
	}
	return s
}

func TestBuild(t *testing.T) {
	// a <- c -> b, d <- c, e <- d
	root, err := Build(words(3, 3, 0, 3, 4))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if root.Word.Index != 3 {
		t.Fatalf("expected root 3, got %d", root.Word.Index)
	}

	if root.Size() != 5 {
		t.Fatalf("expected 5 nodes, got %d", root.Size())
	}

	var got []int
	for _, c := range root.Children {
		got = append(got, c.Word.Index)
	}
	if len(got) != 3 || got[0] != 1 || got[1] != 2 || got[2] != 4 {
		t.Fatalf("children not in sentence order: %v", got)
	}

	n, ok := root.Find(4)
	if !ok || len(n.Children) != 1 || n.Children[0].Word.Index != 5 {
		t.Fatalf("unexpected subtree of 4: %+v", n)
	}

	if root.Contains(6) {
		t.Fatalf("tree contains a word that does not exist")
	}
}

func TestWalkDepth(t *testing.T) {
	root, err := Build(words(0, 1, 2))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	depths := map[int]int{}
	root.Walk(func(n *Node, depth int) bool {
		depths[n.Word.Index] = depth
		return true
	})

	for index, want := range map[int]int{1: 0, 2: 1, 3: 2} {
		if depths[index] != want {
			t.Errorf("depth of %d = %d, want %d", index, depths[index], want)
		}
	}
}

func TestBuildNoRoot(t *testing.T) {
	tests := []struct {
		name  string
		heads []int
		roots int
	}{
		{"no root", []int{2, 1}, 0},
		{"two roots", []int{0, 0, 1}, 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Build(words(tt.heads...))

			var nre *NoRootFoundError
			if !errors.As(err, &nre) {
				t.Fatalf("expected NoRootFoundError, got %v", err)
			}
			if nre.Roots != tt.roots {
				t.Fatalf("expected %d roots, got %d", tt.roots, nre.Roots)
			}
			if nre.SentenceId != "fr-ud-dev_1" {
				t.Fatalf("unexpected sentence id %q", nre.SentenceId)
			}
		})
	}
}

func TestBuildDetached(t *testing.T) {
	// 2 and 3 point at each other
	_, err := Build(words(0, 3, 2))

	var de *DetachedError
	if !errors.As(err, &de) {
		t.Fatalf("expected DetachedError, got %v", err)
	}
	if len(de.Detached) != 2 || de.Detached[0] != 2 || de.Detached[1] != 3 {
		t.Fatalf("unexpected detached words %v", de.Detached)
	}
}

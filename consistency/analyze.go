// Package consistency detects annotation inconsistencies in a dependency
// treebank.
//
// Every pair of words of every sentence is an occurrence. Occurrences are
// grouped by lemma pair and relation across the whole treebank. The same
// lemma pair found unrelated in one sentence and related in another with the
// same words in between (nil errors), or found under two different relations
// with the same surrounding words (context errors), is flagged for review.
package consistency

import (
	"context"
	"fmt"
	"iter"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"github.com/revelaction/udcheck/conll"
	sent "github.com/revelaction/udcheck/sentence"
)

// Analyze indexes all sentences of seq and detects the inconsistencies.
// Any error of the sequence fails the whole analysis.
func Analyze(seq iter.Seq2[sent.Sentence, error], opts Options) (Report, error) {
	idx := NewIndex(opts)
	for s, err := range seq {
		if err != nil {
			return Report{}, err
		}
		if err := idx.Add(s); err != nil {
			return Report{}, err
		}
	}

	return idx.Detect(opts), nil
}

// AnalyzeTreebank analyzes an in-memory treebank.
func AnalyzeTreebank(tb sent.Treebank, opts Options) (Report, error) {
	return Analyze(func(yield func(sent.Sentence, error) bool) {
		for _, s := range tb {
			if !yield(s, nil) {
				return
			}
		}
	}, opts)
}

// IndexFile streams the treebank file at path into a new index.
func IndexFile(path string, opts Options, copts ...conll.Option) (*Index, error) {
	idx := NewIndex(opts)
	if err := conll.EachFile(path, idx.Add, copts...); err != nil {
		return nil, err
	}
	return idx, nil
}

// AnalyzeFiles analyzes several treebank files as one treebank. Files are
// indexed in parallel, at most jobs at a time, each into its own index; the
// indexes are merged in the order of paths once all of them are done. With
// more than one file the occurrence ids carry the source name of the file,
// see SourceNames.
//
// done, if not nil, is called after each indexed file, possibly from several
// goroutines at once.
func AnalyzeFiles(ctx context.Context, paths []string, opts Options, jobs int, done func(path string), copts ...conll.Option) (Report, error) {
	if len(paths) == 0 {
		return Report{}, fmt.Errorf("no treebank files to analyze")
	}

	indexes := make([]*Index, len(paths))
	sources := SourceNames(paths)

	g, ctx := errgroup.WithContext(ctx)
	if jobs > 0 {
		g.SetLimit(jobs)
	}

	for i, path := range paths {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}

			idx := NewIndex(opts)
			if len(paths) > 1 {
				idx.WithSource(sources[i])
			}

			if err := conll.EachFile(path, idx.Add, copts...); err != nil {
				return err
			}

			log.Debug().
				Str("file", path).
				Int("sentences", idx.Sentences()).
				Int("variations", idx.Variations()).
				Msg("treebank indexed")

			indexes[i] = idx
			if done != nil {
				done(path)
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return Report{}, err
	}

	merged := indexes[0]
	for _, idx := range indexes[1:] {
		merged.Merge(idx)
	}

	return merged.Detect(opts), nil
}

// SourceNames returns the names identifying each of paths in occurrence
// ids: the base names, or the paths relative to their common directory when
// two base names are equal. A path given twice gets an ordinal suffix.
func SourceNames(paths []string) []string {
	names := make([]string, len(paths))
	for i, p := range paths {
		names[i] = filepath.Base(p)
	}
	if !hasDuplicates(names) {
		return names
	}

	abs := make([]string, len(paths))
	for i, p := range paths {
		a, err := filepath.Abs(p)
		if err != nil {
			a = filepath.Clean(p)
		}
		abs[i] = a
	}

	dir := commonDir(abs)
	for i, a := range abs {
		rel, err := filepath.Rel(dir, a)
		if err != nil {
			rel = a
		}
		names[i] = filepath.ToSlash(rel)
	}

	seen := map[string]int{}
	for i, name := range names {
		seen[name]++
		if n := seen[name]; n > 1 {
			names[i] = name + "~" + strconv.Itoa(n)
		}
	}

	return names
}

func hasDuplicates(names []string) bool {
	seen := make(map[string]bool, len(names))
	for _, name := range names {
		if seen[name] {
			return true
		}
		seen[name] = true
	}
	return false
}

// commonDir returns the longest directory containing all paths.
func commonDir(paths []string) string {
	sep := string(filepath.Separator)

	var common []string
	for i, p := range paths {
		parts := strings.Split(filepath.Dir(p), sep)
		if i == 0 {
			common = parts
			continue
		}

		n := 0
		for n < len(common) && n < len(parts) && common[n] == parts[n] {
			n++
		}
		common = common[:n]
	}

	dir := strings.Join(common, sep)
	if dir == "" && len(paths) > 0 && filepath.IsAbs(paths[0]) {
		return sep
	}
	return dir
}

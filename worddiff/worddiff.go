// Package worddiff computes word-level edit scripts between two texts.
package worddiff

import (
	"strings"

	"github.com/Youngleechen/writeedit"
)

// Compile-time interface verification.
var _ writeedit.WordDiffer = (*Differ)(nil)

// maxCells bounds the LCS table size. Token pairs whose product exceeds it
// are not aligned; the script degrades to one Delete plus one Insert, which
// is still a valid script.
const maxCells = 4_000_000

// similarityThreshold is the minimum ratio of shared words for token-level
// alignment. Below it the texts are treated as a complete replacement, so
// incidental whitespace matches cannot shred an unrelated rewrite into
// word-sized fragments.
const similarityThreshold = 0.4

// Differ tokenizes prose and computes word-level diffs.
type Differ struct {
	attachSpaces bool
}

// DifferOption configures a Differ.
type DifferOption func(*Differ)

// WithAttachedWhitespace makes the tokenizer attach each whitespace run to
// the word that follows it instead of emitting it as its own token. Fewer,
// coarser tokens; adjacent single-word edits merge into one run.
func WithAttachedWhitespace() DifferOption {
	return func(d *Differ) {
		d.attachSpaces = true
	}
}

// NewDiffer creates a new Differ. By default whitespace runs are tokens of
// their own, so spacing survives diffing exactly and edits to neighbouring
// words stay separately reviewable.
func NewDiffer(opts ...DifferOption) *Differ {
	d := &Differ{}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Tokenize splits a string on whitespace boundaries. Concatenating the
// tokens reproduces the input byte-for-byte.
func (d *Differ) Tokenize(s string) []string {
	if len(s) == 0 {
		return nil
	}

	tokens := make([]string, 0, len(s)/4+1)
	i := 0

	for i < len(s) {
		start := i
		if isSpace(s[i]) {
			for i < len(s) && isSpace(s[i]) {
				i++
			}
			if d.attachSpaces {
				// Attach the run to the following word when there is one.
				for i < len(s) && !isSpace(s[i]) {
					i++
				}
			}
			tokens = append(tokens, s[start:i])
			continue
		}
		for i < len(s) && !isSpace(s[i]) {
			i++
		}
		tokens = append(tokens, s[start:i])
	}

	return tokens
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r'
}

// Diff returns a minimal edit script between original and edited. The script
// always holds: equal+delete text concatenates to original, equal+insert to
// edited, and no two adjacent operations share a type. Texts sharing too few
// words (or exceeding the alignment size bound) are not minimally aligned;
// they come back as one Delete and one Insert covering the whole text.
func (d *Differ) Diff(original, edited string) []writeedit.Operation {
	if original == "" && edited == "" {
		return nil
	}
	if original == edited {
		return []writeedit.Operation{{Type: writeedit.OpEqual, Text: original}}
	}
	if original == "" {
		return []writeedit.Operation{{Type: writeedit.OpInsert, Text: edited}}
	}
	if edited == "" {
		return []writeedit.Operation{{Type: writeedit.OpDelete, Text: original}}
	}

	oldTokens := d.Tokenize(original)
	newTokens := d.Tokenize(edited)

	if len(oldTokens)*len(newTokens) > maxCells ||
		!hasSufficientSimilarity(oldTokens, newTokens) {
		return []writeedit.Operation{
			{Type: writeedit.OpDelete, Text: original},
			{Type: writeedit.OpInsert, Text: edited},
		}
	}

	return lcsScript(oldTokens, newTokens)
}

// hasSufficientSimilarity checks if the texts share enough words to warrant
// token-level alignment. Whitespace tokens are excluded from the count; two
// texts with no words in common always match on their spaces, which would
// anchor an alignment between unrelated texts.
func hasSufficientSimilarity(oldTokens, newTokens []string) bool {
	counts := make(map[string]int, len(oldTokens))
	oldWords := 0
	for _, t := range oldTokens {
		if w := strings.TrimSpace(t); w != "" {
			counts[w]++
			oldWords++
		}
	}

	common, newWords := 0, 0
	for _, t := range newTokens {
		w := strings.TrimSpace(t)
		if w == "" {
			continue
		}
		newWords++
		if counts[w] > 0 {
			counts[w]--
			common++
		}
	}

	total := oldWords + newWords
	if total == 0 {
		return true
	}
	return float64(2*common)/float64(total) >= similarityThreshold
}

// lcsScript aligns two token sequences with O(n·m) dynamic programming over a
// flat table and emits merged Equal/Delete/Insert runs.
func lcsScript(oldTokens, newTokens []string) []writeedit.Operation {
	m, n := len(oldTokens), len(newTokens)

	// table[i*(n+1)+j] corresponds to table[i][j]
	table := make([]int, (m+1)*(n+1))
	stride := n + 1

	for i := 1; i <= m; i++ {
		for j := 1; j <= n; j++ {
			if oldTokens[i-1] == newTokens[j-1] {
				table[i*stride+j] = table[(i-1)*stride+j-1] + 1
			} else if table[(i-1)*stride+j] > table[i*stride+j-1] {
				table[i*stride+j] = table[(i-1)*stride+j]
			} else {
				table[i*stride+j] = table[i*stride+j-1]
			}
		}
	}

	if table[m*stride+n] == 0 {
		return []writeedit.Operation{
			{Type: writeedit.OpDelete, Text: joinTokens(oldTokens)},
			{Type: writeedit.OpInsert, Text: joinTokens(newTokens)},
		}
	}

	// Backtrack to find matching token positions.
	type match struct{ oldIdx, newIdx int }
	matches := make([]match, 0, table[m*stride+n])

	i, j := m, n
	for i > 0 && j > 0 {
		if oldTokens[i-1] == newTokens[j-1] {
			matches = append(matches, match{i - 1, j - 1})
			i--
			j--
		} else if table[(i-1)*stride+j] > table[i*stride+j-1] {
			i--
		} else {
			j--
		}
	}

	// Backtracking yields matches in reverse order.
	for left, right := 0, len(matches)-1; left < right; left, right = left+1, right-1 {
		matches[left], matches[right] = matches[right], matches[left]
	}

	// Emit runs, merging consecutive operations of the same type so Equal
	// runs are maximal.
	var ops []writeedit.Operation
	var buf strings.Builder
	cur := writeedit.OpEqual
	have := false

	flush := func() {
		if have {
			ops = append(ops, writeedit.Operation{Type: cur, Text: buf.String()})
			buf.Reset()
			have = false
		}
	}
	add := func(t writeedit.OpType, text string) {
		if have && cur != t {
			flush()
		}
		cur = t
		buf.WriteString(text)
		have = true
	}

	oldIdx, newIdx := 0, 0
	for _, mt := range matches {
		for oldIdx < mt.oldIdx {
			add(writeedit.OpDelete, oldTokens[oldIdx])
			oldIdx++
		}
		for newIdx < mt.newIdx {
			add(writeedit.OpInsert, newTokens[newIdx])
			newIdx++
		}
		add(writeedit.OpEqual, oldTokens[mt.oldIdx])
		oldIdx = mt.oldIdx + 1
		newIdx = mt.newIdx + 1
	}
	for oldIdx < m {
		add(writeedit.OpDelete, oldTokens[oldIdx])
		oldIdx++
	}
	for newIdx < n {
		add(writeedit.OpInsert, newTokens[newIdx])
		newIdx++
	}
	flush()

	return ops
}

func joinTokens(tokens []string) string {
	if len(tokens) == 1 {
		return tokens[0]
	}
	var b strings.Builder
	for _, t := range tokens {
		b.WriteString(t)
	}
	return b.String()
}

package chunker

import (
	"strings"
)

const (
	DefaultChunkSize    = 500
	DefaultChunkOverlap = 50
)

// DefaultSeparators lists split boundaries in priority order: paragraph
// break, line break, sentence end, plain space.
var DefaultSeparators = []string{"\n\n", "\n", ".", " "}

// Splitter cuts a corpus into chunks of at most chunkSize characters,
// preferring to cut at the highest-priority separator found in each window.
// Consecutive chunks share a chunkOverlap-sized tail/head region.
type Splitter struct {
	chunkSize    int
	chunkOverlap int
	separators   []string
}

func New(chunkSize, chunkOverlap int, separators ...string) *Splitter {
	if chunkSize <= 0 {
		chunkSize = DefaultChunkSize
	}
	if chunkOverlap < 0 {
		chunkOverlap = 0
	}
	if chunkOverlap >= chunkSize {
		chunkOverlap = chunkSize / 2
	}
	if len(separators) == 0 {
		separators = DefaultSeparators
	}
	return &Splitter{
		chunkSize:    chunkSize,
		chunkOverlap: chunkOverlap,
		separators:   separators,
	}
}

// Split returns the chunk sequence in corpus order. Chunks are exact
// substrings of the corpus: no trimming, so concatenating them with the
// overlap removed reconstructs the input.
func (s *Splitter) Split(text string) []string {
	if len(text) == 0 {
		return nil
	}
	if len(text) <= s.chunkSize {
		return []string{text}
	}

	var chunks []string
	start := 0
	for start < len(text) {
		end := start + s.chunkSize
		if end >= len(text) {
			chunks = append(chunks, text[start:])
			break
		}
		if cut := s.breakPoint(text[start:end]); cut > 0 {
			end = start + cut
		}
		chunks = append(chunks, text[start:end])

		next := end - s.chunkOverlap
		if next <= start {
			// chunk no longer than the overlap, advance without one
			next = end
		}
		start = next
	}
	return chunks
}

// breakPoint returns the offset just past the last occurrence of the
// highest-priority separator present in the window, or 0 when no separator
// is usable and the chunk must be hard cut at the window boundary.
func (s *Splitter) breakPoint(window string) int {
	for _, sep := range s.separators {
		if i := strings.LastIndex(window, sep); i > 0 {
			return i + len(sep)
		}
	}
	return 0
}

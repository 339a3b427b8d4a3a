package ingest

import (
	"strings"
	"unicode/utf8"

	"github.com/akolanti/FinalGuardian/internal/config"
	"github.com/akolanti/FinalGuardian/internal/domain/appErrors"
	"github.com/akolanti/FinalGuardian/internal/domain/commonModels"
	"github.com/akolanti/FinalGuardian/internal/rag/dedup"
)

// Separators ordered from "best" to "worst" for semantic meaning
var defaultSeparators = []string{"\n\n", "\n", ". ", " ", ""}

// Splitter produces overlapping windows of at most chunkSize characters.
// Lengths are counted in runes.
type Splitter struct {
	chunkSize  int
	overlap    int
	separators []string
}

func NewSplitter(chunkSize int, overlap int) *Splitter {
	if chunkSize <= 0 {
		chunkSize = config.DefaultChunkSize
	}
	if overlap < 0 || overlap >= chunkSize {
		overlap = 0
	}
	return &Splitter{chunkSize: chunkSize, overlap: overlap, separators: defaultSeparators}
}

// Split turns a document into trimmed, fingerprinted chunks.
func (s *Splitter) Split(doc commonModels.Document) ([]commonModels.Chunk, error) {
	var chunks []commonModels.Chunk
	for _, text := range s.SplitText(doc.Content) {
		if text == "" {
			continue
		}
		chunks = append(chunks, commonModels.Chunk{
			Content:        text,
			SourceHash:     dedup.Fingerprint(text),
			OriginDocument: doc.Id,
			DocName:        doc.Name,
			Order:          len(chunks),
		})
	}
	if len(chunks) == 0 {
		return nil, appErrors.ErrEmptyDocument
	}
	return chunks, nil
}

func (s *Splitter) SplitText(text string) []string {
	if strings.TrimSpace(text) == "" {
		return nil
	}
	return s.split(text, s.separators)
}

func (s *Splitter) split(text string, separators []string) []string {
	separator := ""
	var next []string
	for i, sep := range separators {
		if sep == "" || strings.Contains(text, sep) {
			separator = sep
			next = separators[i+1:]
			break
		}
	}

	// SplitAfter keeps the separator on the piece so joins are lossless
	pieces := strings.SplitAfter(text, separator)

	var out []string
	var fitting []string
	for _, piece := range pieces {
		if piece == "" {
			continue
		}
		if runeLen(piece) <= s.chunkSize {
			fitting = append(fitting, piece)
			continue
		}
		if len(fitting) > 0 {
			out = append(out, s.merge(fitting)...)
			fitting = nil
		}
		// the ladder ends in "", which splits into single runes, so this terminates
		out = append(out, s.split(piece, next)...)
	}
	if len(fitting) > 0 {
		out = append(out, s.merge(fitting)...)
	}
	return out
}

// merge packs pieces into windows. When a window is emitted, the smallest tail
// of at least s.overlap characters is carried into the next one, as long as the
// next piece still fits.
func (s *Splitter) merge(pieces []string) []string {
	var chunks []string
	var window []string
	total := 0

	for _, piece := range pieces {
		l := runeLen(piece)
		if total+l > s.chunkSize && len(window) > 0 {
			if c := strings.TrimSpace(strings.Join(window, "")); c != "" {
				chunks = append(chunks, c)
			}
			for len(window) > 0 && (total-runeLen(window[0]) >= s.overlap || total+l > s.chunkSize) {
				total -= runeLen(window[0])
				window = window[1:]
			}
		}
		window = append(window, piece)
		total += l
	}

	if c := strings.TrimSpace(strings.Join(window, "")); c != "" {
		chunks = append(chunks, c)
	}
	return chunks
}

func runeLen(s string) int {
	return utf8.RuneCountInString(s)
}

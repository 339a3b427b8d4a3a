package ingest

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/akolanti/FinalGuardian/internal/domain/appErrors"
	"github.com/akolanti/FinalGuardian/internal/domain/commonModels"
	"github.com/akolanti/FinalGuardian/internal/rag/dedup"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// 200 distinct five letter words, 1200 characters in total
func wordText() string {
	var b strings.Builder
	for i := 0; i < 200; i++ {
		fmt.Fprintf(&b, "w%03d ", i)
	}
	return b.String()
}

func TestGetDocType(t *testing.T) {
	tests := []struct {
		name string
		path string
		want commonModels.DocType
	}{
		{"pdf", "notes.PDF", commonModels.PDF},
		{"plain text", "notes.txt", commonModels.TXT},
		{"markdown", "notes.md", commonModels.TXT},
		{"word", "notes.docx", commonModels.DOCX},
		{"rich text", "notes.rtf", commonModels.DOCX},
		{"unknown", "notes.exe", commonModels.ERR},
		{"no extension", "notes", commonModels.ERR},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, getDocType(tt.path))
		})
	}
}

func TestSplitter_Windows(t *testing.T) {
	s := NewSplitter(500, 100)
	text := wordText()

	chunks := s.SplitText(text)
	require.GreaterOrEqual(t, len(chunks), 3)

	for i, c := range chunks {
		assert.LessOrEqual(t, runeLen(c), 500, "chunk %d too long", i)
		assert.Equal(t, strings.TrimSpace(c), c)
	}

	for i := 1; i < len(chunks); i++ {
		head := string([]rune(chunks[i])[:90])
		assert.Contains(t, chunks[i-1], head, "chunk %d does not overlap its predecessor", i)
	}

	// every word survives
	joined := strings.Join(chunks, " ")
	for _, w := range strings.Fields(text) {
		assert.Contains(t, joined, w)
	}
}

func TestSplitter_PrefersParagraphs(t *testing.T) {
	s := NewSplitter(500, 100)
	p1 := strings.Repeat("a", 300)
	p2 := strings.Repeat("b", 300)

	chunks := s.SplitText(p1 + "\n\n" + p2)
	require.Len(t, chunks, 2)
	assert.Equal(t, p1, chunks[0])
	assert.Equal(t, p2, chunks[1])
}

func TestSplitter_NoSeparatorInText(t *testing.T) {
	s := NewSplitter(500, 100)
	text := strings.Repeat("x", 1300)
	chunks := s.SplitText(text)
	require.GreaterOrEqual(t, len(chunks), 3)
	for _, c := range chunks {
		assert.LessOrEqual(t, runeLen(c), 500)
	}
	// windows overlap, so together they cover at least the whole text
	total := 0
	for _, c := range chunks {
		total += runeLen(c)
	}
	assert.GreaterOrEqual(t, total, 1300)
}

func TestSplitter_ShortDocument(t *testing.T) {
	s := NewSplitter(500, 100)
	doc := FromText("short.txt", "  Photosynthesis converts light into chemical energy.\n")

	chunks, err := s.Split(doc)
	require.NoError(t, err)
	require.Len(t, chunks, 1)

	c := chunks[0]
	assert.Equal(t, "Photosynthesis converts light into chemical energy.", c.Content)
	assert.Equal(t, dedup.Fingerprint(c.Content), c.SourceHash)
	assert.Equal(t, doc.Id, c.OriginDocument)
	assert.Equal(t, "short.txt", c.DocName)
}

func TestSplitter_Order(t *testing.T) {
	chunks, err := NewSplitter(500, 100).Split(FromText("words.txt", wordText()))
	require.NoError(t, err)
	for i, c := range chunks {
		assert.Equal(t, i, c.Order)
	}
}

func TestSplitter_EmptyDocument(t *testing.T) {
	_, err := NewSplitter(500, 100).Split(FromText("blank.txt", " \n\t\n "))
	assert.ErrorIs(t, err, appErrors.ErrEmptyDocument)
}

func TestNewSplitter_Defaults(t *testing.T) {
	s := NewSplitter(0, -1)
	assert.Greater(t, s.chunkSize, 0)
	assert.Equal(t, 0, s.overlap)

	s = NewSplitter(100, 100)
	assert.Equal(t, 0, s.overlap, "overlap must be smaller than the chunk size")
}

func TestLoad_PlainText(t *testing.T) {
	path := filepath.Join(t.TempDir(), "upload.txt")
	require.NoError(t, os.WriteFile(path, []byte("Mitochondria are the powerhouse of the cell."), 0o600))

	doc, err := Load(path, "biology.txt")
	require.NoError(t, err)
	assert.Equal(t, "biology.txt", doc.Name)
	assert.Equal(t, commonModels.TXT, doc.ContentType)
	assert.Contains(t, doc.Content, "powerhouse")
	assert.NotEmpty(t, doc.Id)
}

func TestLoad_Unsupported(t *testing.T) {
	_, err := Load("/does/not/matter", "virus.exe")
	assert.ErrorIs(t, err, appErrors.ErrUnsupportedDocument)
	assert.Equal(t, 400, appErrors.HTTPStatus(err))
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "gone.txt"), "gone.txt")
	require.Error(t, err)
	assert.Equal(t, appErrors.KindEmptyDocument, appErrors.KindOf(err))
}

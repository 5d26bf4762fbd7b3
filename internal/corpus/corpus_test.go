package corpus

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, dir, name, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
}

func TestLoadAll_ConcatenatesTextSources(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "a_website.txt", "Website content here.")
	writeFile(t, dir, "b_documents.txt", "Document excerpts here.")

	text, err := New(dir).LoadAll()
	require.NoError(t, err)
	assert.Contains(t, text, "Website content here.")
	assert.Contains(t, text, "Document excerpts here.")
	// sources are separated so chunk boundaries can land between them
	assert.Contains(t, text, "Website content here.\n\nDocument excerpts here.")
}

func TestLoadAll_MissingDirectory(t *testing.T) {
	text, err := New(filepath.Join(t.TempDir(), "nope")).LoadAll()
	require.NoError(t, err)
	assert.Empty(t, text)
}

func TestLoadAll_EmptyDirectory(t *testing.T) {
	text, err := New(t.TempDir()).LoadAll()
	require.NoError(t, err)
	assert.Empty(t, text)
}

func TestLoadAll_SkipsUnsupportedFiles(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "notes.txt", "Keep this.")
	writeFile(t, dir, "image.png", "\x89PNG")
	writeFile(t, dir, "broken.pdf", "not a real pdf")

	text, err := New(dir).LoadAll()
	require.NoError(t, err)
	assert.Equal(t, "Keep this.", text)
}

func TestLoadAll_SkipsBlankSources(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "blank.txt", "   \n\t")
	writeFile(t, dir, "real.txt", "Real content.")

	text, err := New(dir).LoadAll()
	require.NoError(t, err)
	assert.Equal(t, "Real content.", text)
}

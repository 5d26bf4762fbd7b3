package corpus

import (
	"errors"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/ledongthuc/pdf"
	"github.com/nguyenthenguyen/docx"
	"github.com/rs/zerolog/log"
)

// Store reads previously collected plain-text sources from a content
// directory and concatenates them into a single corpus string.
type Store struct {
	dir string
}

func New(dir string) *Store {
	return &Store{dir: dir}
}

// LoadAll reads every supported file under the content directory. A missing
// directory or an unreadable file is not an error: absent sources simply
// contribute nothing to the corpus.
func (s *Store) LoadAll() (string, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			log.Warn().Str("dir", s.dir).Msg("Content directory not found")
			return "", nil
		}
		return "", err
	}

	var corpus strings.Builder
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		path := filepath.Join(s.dir, entry.Name())
		text, err := readFile(path)
		if err != nil {
			log.Warn().Err(err).Str("file", path).Msg("Skipping unreadable source")
			continue
		}
		if strings.TrimSpace(text) == "" {
			continue
		}
		if corpus.Len() > 0 {
			corpus.WriteString("\n\n")
		}
		corpus.WriteString(text)
		log.Info().Str("file", path).Int("chars", len(text)).Msg("Loaded source")
	}
	return corpus.String(), nil
}

var errUnsupported = errors.New("unsupported file format")

func readFile(path string) (string, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".txt":
		data, err := os.ReadFile(path)
		if err != nil {
			return "", err
		}
		return string(data), nil
	case ".pdf":
		return readPDF(path)
	case ".docx":
		return readDOCX(path)
	default:
		return "", errUnsupported
	}
}

func readPDF(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	stat, err := f.Stat()
	if err != nil {
		return "", err
	}
	reader, err := pdf.NewReader(f, stat.Size())
	if err != nil {
		return "", err
	}

	var text strings.Builder
	for i := 1; i <= reader.NumPage(); i++ {
		pageText, err := reader.Page(i).GetPlainText(nil)
		if err != nil {
			return "", err
		}
		text.WriteString(pageText)
		text.WriteString("\n")
	}
	return text.String(), nil
}

var xmlTags = regexp.MustCompile(`<[^>]+>`)

func readDOCX(path string) (string, error) {
	r, err := docx.ReadDocxFile(path)
	if err != nil {
		return "", err
	}
	defer r.Close()

	content := xmlTags.ReplaceAllString(r.Editable().GetContent(), "\n")
	var text strings.Builder
	for _, line := range strings.Split(content, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		text.WriteString(line)
		text.WriteString("\n")
	}
	return text.String(), nil
}

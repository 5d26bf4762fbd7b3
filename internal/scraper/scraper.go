package scraper

import (
	"context"
	"fmt"
	"html"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"campus-rag/internal/config"
	"campus-rag/internal/helper"
)

const userAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"

// Scraper fetches the configured institutional pages and collects their
// visible text into a single plain-text file for the content store.
type Scraper struct {
	client     *http.Client
	pages      []string
	minTextLen int
	delay      time.Duration
}

func New(cfg *config.ScraperConfig) *Scraper {
	return &Scraper{
		client:     &http.Client{Timeout: 10 * time.Second},
		pages:      cfg.Pages,
		minTextLen: cfg.MinTextLen,
		delay:      time.Duration(cfg.DelayMs) * time.Millisecond,
	}
}

// Run scrapes every configured page and writes the combined text to outPath,
// creating parent directories as needed. Per-page failures are logged and
// skipped; only a fully empty run is an error. Requests are spaced by the
// configured delay to stay polite to the college server.
func (s *Scraper) Run(ctx context.Context, outPath string) error {
	if len(s.pages) == 0 {
		return fmt.Errorf("no pages configured")
	}

	var all strings.Builder
	scraped := 0
	for i, page := range s.pages {
		if i > 0 && s.delay > 0 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(s.delay):
			}
		}
		text, err := s.scrapePage(ctx, page)
		if err != nil {
			log.Warn().Err(err).Str("url", page).Msg("Skipping page")
			continue
		}
		if text == "" {
			log.Warn().Str("url", page).Msg("No text extracted")
			continue
		}
		fmt.Fprintf(&all, "\n\nSOURCE: %s\n\n%s", page, text)
		scraped++
		log.Info().Str("url", page).Int("chars", len(text)).Msg("Scraped page")
	}

	if scraped == 0 {
		return fmt.Errorf("no content scraped from %d pages", len(s.pages))
	}
	if err := helper.CreateFolder(filepath.Dir(outPath)); err != nil {
		return err
	}
	if err := os.WriteFile(outPath, []byte(all.String()), 0o644); err != nil {
		return err
	}
	log.Info().Int("pages", scraped).Str("file", outPath).Msg("Saved scraped content")
	return nil
}

func (s *Scraper) scrapePage(ctx context.Context, url string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", err
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")
	req.Header.Set("Accept-Language", "en-US,en;q=0.5")

	resp, err := s.client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("unexpected status %d", resp.StatusCode)
	}
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", err
	}
	return s.ExtractText(string(body)), nil
}

// Chrome, navigation, and scripting elements carry no answerable content and
// are removed wholesale before tag stripping.
var (
	scriptTag     = regexp.MustCompile(`(?is)<script[^>]*>.*?</script>`)
	styleTag      = regexp.MustCompile(`(?is)<style[^>]*>.*?</style>`)
	noscriptTag   = regexp.MustCompile(`(?is)<noscript[^>]*>.*?</noscript>`)
	navTag        = regexp.MustCompile(`(?is)<nav[^>]*>.*?</nav>`)
	headerTag     = regexp.MustCompile(`(?is)<header[^>]*>.*?</header>`)
	footerTag     = regexp.MustCompile(`(?is)<footer[^>]*>.*?</footer>`)
	iframeTag     = regexp.MustCompile(`(?is)<iframe[^>]*>.*?</iframe>`)
	headTag       = regexp.MustCompile(`(?is)<head[^>]*>.*?</head>`)
	htmlComments  = regexp.MustCompile(`(?s)<!--.*?-->`)
	blockElements = regexp.MustCompile(`(?i)</(p|div|h[1-6]|li|tr|td|th|blockquote|pre|table|section|article)>`)
	brTags        = regexp.MustCompile(`(?i)<br\s*/?>`)
	allTags       = regexp.MustCompile(`<[^>]+>`)
	multiSpaces   = regexp.MustCompile(`[ \t]+`)
)

// ExtractText strips an HTML page down to its visible text, one line per
// block element, keeping only lines long enough to be meaningful.
func (s *Scraper) ExtractText(raw string) string {
	text := htmlComments.ReplaceAllString(raw, "")
	text = headTag.ReplaceAllString(text, "")
	text = scriptTag.ReplaceAllString(text, "")
	text = styleTag.ReplaceAllString(text, "")
	text = noscriptTag.ReplaceAllString(text, "")
	text = navTag.ReplaceAllString(text, "")
	text = headerTag.ReplaceAllString(text, "")
	text = footerTag.ReplaceAllString(text, "")
	text = iframeTag.ReplaceAllString(text, "")
	text = blockElements.ReplaceAllString(text, "\n")
	text = brTags.ReplaceAllString(text, "\n")
	text = allTags.ReplaceAllString(text, " ")
	text = html.UnescapeString(text)

	var lines []string
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(multiSpaces.ReplaceAllString(line, " "))
		if len(line) >= s.minTextLen {
			lines = append(lines, line)
		}
	}
	return strings.Join(lines, "\n")
}

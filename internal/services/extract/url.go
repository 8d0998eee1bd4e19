package extract

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	md "github.com/JohannesKaufmann/html-to-markdown"
	"github.com/PuerkitoBio/goquery"

	"github.com/studyforge/studyforge/internal/models"
)

const (
	fetchTimeout   = 30 * time.Second
	fetchUserAgent = "StudyForge/1.0 (+https://github.com/studyforge/studyforge)"
)

// FetchURL downloads a web page and returns its title and main content as
// plain text suitable for section extraction.
func (s *Service) FetchURL(ctx context.Context, targetURL string) (title, text string, err error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, targetURL, nil)
	if err != nil {
		return "", "", &models.ExtractionError{Reason: fmt.Sprintf("invalid URL %s", targetURL), Err: err}
	}
	req.Header.Set("User-Agent", fetchUserAgent)
	req.Header.Set("Accept-Language", "en-US,en;q=0.9")

	client := &http.Client{Timeout: fetchTimeout}
	resp, err := client.Do(req)
	if err != nil {
		return "", "", &models.ExtractionError{Reason: fmt.Sprintf("failed to fetch %s", targetURL), Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", "", &models.ExtractionError{Reason: fmt.Sprintf("fetch %s returned status %d", targetURL, resp.StatusCode)}
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return "", "", &models.ExtractionError{Reason: "failed to parse HTML", Err: err}
	}

	title = strings.TrimSpace(doc.Find("title").First().Text())

	html, err := mainContentHTML(doc)
	if err != nil {
		return "", "", &models.ExtractionError{Reason: "failed to isolate page content", Err: err}
	}

	converter := md.NewConverter(targetURL, true, nil)
	markdown, err := converter.ConvertString(html)
	if err != nil {
		return "", "", &models.ExtractionError{Reason: "failed to convert HTML to text", Err: err}
	}

	s.logger.Debug().
		Str("url", targetURL).
		Str("title", title).
		Int("text_len", len(markdown)).
		Msg("Fetched URL content")

	return title, markdown, nil
}

// htmlToText converts an already-downloaded HTML document to text
func (s *Service) htmlToText(html string) (string, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return "", &models.ExtractionError{Reason: "failed to parse HTML", Err: err}
	}

	content, err := mainContentHTML(doc)
	if err != nil {
		return "", &models.ExtractionError{Reason: "failed to isolate page content", Err: err}
	}

	converter := md.NewConverter("", true, nil)
	markdown, err := converter.ConvertString(content)
	if err != nil {
		return "", &models.ExtractionError{Reason: "failed to convert HTML to text", Err: err}
	}
	return markdown, nil
}

// mainContentHTML strips boilerplate elements and returns the HTML of the
// most content-bearing container (article, main, then body).
func mainContentHTML(doc *goquery.Document) (string, error) {
	doc.Find("script, style, nav, header, footer, aside, iframe, noscript").Remove()

	for _, selector := range []string{"article", "main", "[role=main]", "#content", ".content", "body"} {
		sel := doc.Find(selector).First()
		if sel.Length() == 0 {
			continue
		}
		html, err := sel.Html()
		if err != nil {
			return "", err
		}
		if len(strings.TrimSpace(html)) > 0 {
			return html, nil
		}
	}

	return doc.Html()
}

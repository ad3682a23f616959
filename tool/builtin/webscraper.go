package builtin

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/net/html"

	"github.com/hupe1980/agentloop/tool"
)

// WebScraperOptions configures the WebScraper tool.
type WebScraperOptions struct {
	Client    *http.Client
	UserAgent string
	// MaxBytes caps the response body read. Zero means 2 MiB.
	MaxBytes int64
}

// NewWebScraper creates the WebScraper tool. Args are a bare http(s) URL; the
// result is the page's visible text, one block per line.
func NewWebScraper(optFns ...func(o *WebScraperOptions)) tool.Tool {
	opts := WebScraperOptions{
		Client:    &http.Client{Timeout: 30 * time.Second},
		UserAgent: "agentloop/1.0",
		MaxBytes:  2 << 20,
	}
	for _, fn := range optFns {
		fn(&opts)
	}

	return tool.NewFunctionTool(
		"WebScraper",
		`fetches a web page and returns its visible text. args: "<url>"`,
		func(ctx context.Context, args string) (string, error) {
			u, err := url.Parse(strings.TrimSpace(args))
			if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
				return "", tool.NewToolError("WebScraper", fmt.Sprintf("invalid url %q", args), tool.CodeValidation)
			}

			req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
			if err != nil {
				return "", err
			}
			req.Header.Set("User-Agent", opts.UserAgent)

			resp, err := opts.Client.Do(req)
			if err != nil {
				return "", err
			}
			defer resp.Body.Close()

			if resp.StatusCode < 200 || resp.StatusCode > 299 {
				return "", fmt.Errorf("fetch %s: unexpected status %s", u, resp.Status)
			}

			return extractText(io.LimitReader(resp.Body, opts.MaxBytes))
		},
	)
}

var skippedElements = map[string]bool{
	"script":   true,
	"style":    true,
	"noscript": true,
	"head":     true,
	"template": true,
}

// extractText returns the visible text of an HTML document.
func extractText(r io.Reader) (string, error) {
	doc, err := html.Parse(r)
	if err != nil {
		return "", err
	}

	var lines []string
	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && skippedElements[n.Data] {
			return
		}
		if n.Type == html.TextNode {
			if text := strings.Join(strings.Fields(n.Data), " "); text != "" {
				lines = append(lines, text)
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)

	return strings.Join(lines, "\n"), nil
}

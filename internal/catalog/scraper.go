package catalog

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
)

const defaultUserAgent = "shopassist/1.0 (+https://www.converse.co.th)"

// Page selectors of the catalog's product grid.
const (
	selProduct = "li.item.product.product-item"
	selName    = "strong.product.name.product-item-name"
	selPrice   = "span.price"
	selImage   = "img.product-image-photo"
	selLink    = "a.product-item-link"
)

// HTMLScraper fetches a catalog page and parses its product grid.
type HTMLScraper struct {
	client      *http.Client
	userAgent   string
	maxProducts int
}

// ScraperOptions configures an HTMLScraper.
type ScraperOptions struct {
	Timeout     time.Duration
	UserAgent   string
	MaxProducts int // 0 means unlimited
}

// NewHTMLScraper creates a scraper with a bounded HTTP client.
func NewHTMLScraper(opts ScraperOptions) *HTMLScraper {
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	ua := opts.UserAgent
	if ua == "" {
		ua = defaultUserAgent
	}
	return &HTMLScraper{
		client:      &http.Client{Timeout: timeout},
		userAgent:   ua,
		maxProducts: opts.MaxProducts,
	}
}

// FetchProducts downloads pageURL and returns its products in page order.
func (s *HTMLScraper) FetchProducts(ctx context.Context, pageURL string) ([]Product, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return nil, fmt.Errorf("create catalog request: %w", err)
	}
	req.Header.Set("User-Agent", s.userAgent)
	req.Header.Set("Accept", "text/html")

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("catalog request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("catalog returned status %d for %s", resp.StatusCode, pageURL)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("parse catalog page: %w", err)
	}

	base, _ := url.Parse(pageURL)
	return ParseProducts(doc, base, s.maxProducts), nil
}

// ParseProducts extracts products from a parsed catalog page. Relative
// links are resolved against base when it is non-nil.
func ParseProducts(doc *goquery.Document, base *url.URL, limit int) []Product {
	products := []Product{}
	doc.Find(selProduct).EachWithBreak(func(_ int, item *goquery.Selection) bool {
		if limit > 0 && len(products) >= limit {
			return false
		}
		products = append(products, Product{
			Name:       textOr(item.Find(selName).First(), NoTitle),
			Price:      textOr(item.Find(selPrice).First(), NoPrice),
			ImageURL:   attrOr(item.Find(selImage).First(), "src", NoImage, base),
			ProductURL: attrOr(item.Find(selLink).First(), "href", NoLink, base),
		})
		return true
	})
	return products
}

func textOr(sel *goquery.Selection, fallback string) string {
	if sel.Length() == 0 {
		return fallback
	}
	return strings.TrimSpace(sel.Text())
}

func attrOr(sel *goquery.Selection, attr, fallback string, base *url.URL) string {
	if sel.Length() == 0 {
		return fallback
	}
	v, ok := sel.Attr(attr)
	v = strings.TrimSpace(v)
	if !ok || v == "" {
		return fallback
	}
	if base != nil {
		if ref, err := url.Parse(v); err == nil {
			return base.ResolveReference(ref).String()
		}
	}
	return v
}

package catalog

import "context"

// Placeholders used when a product field is missing from the page.
const (
	NoTitle = "No title found"
	NoPrice = "No price found"
	NoImage = "No image found"
	NoLink  = "No link found"
)

// Product is one normalized catalog entry.
type Product struct {
	Name       string `json:"name"`
	Price      string `json:"price"`
	ImageURL   string `json:"image_url"`
	ProductURL string `json:"product_url"`
}

// HasImage reports whether the scraper found an image URL.
func (p Product) HasImage() bool { return p.ImageURL != "" && p.ImageURL != NoImage }

// HasLink reports whether the scraper found a product link.
func (p Product) HasLink() bool { return p.ProductURL != "" && p.ProductURL != NoLink }

// Scraper turns a catalog page URL into product records. An empty slice
// is a valid, non-error result.
type Scraper interface {
	FetchProducts(ctx context.Context, url string) ([]Product, error)
}

package domain

import "fmt"

// Category is one of the fixed shop departments
type Category string

const (
	CategoryBookstore           Category = "Bookstore"
	CategoryStationery          Category = "Stationery"
	CategoryComputerAccessories Category = "Computer Accessories"
	CategoryServices            Category = "Services"

	// CategoryAll is the catalog filter wildcard; it is never stored on a product.
	CategoryAll Category = "All"
)

// Categories lists the storable categories in display order
var Categories = []Category{
	CategoryBookstore,
	CategoryStationery,
	CategoryComputerAccessories,
	CategoryServices,
}

// Valid reports whether c is a storable category
func (c Category) Valid() bool {
	for _, known := range Categories {
		if c == known {
			return true
		}
	}
	return false
}

// ParseCategory converts a filter value into a Category. Empty input and
// "All" both yield the wildcard.
func ParseCategory(s string) (Category, error) {
	if s == "" || Category(s) == CategoryAll {
		return CategoryAll, nil
	}
	c := Category(s)
	if !c.Valid() {
		return "", fmt.Errorf("unknown category %q", s)
	}
	return c, nil
}

// Product represents a product in the catalog
type Product struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Price       int64    `json:"price"`
	Category    Category `json:"category"`
	Description string   `json:"description"`
	Image       string   `json:"image"`
	Author      string   `json:"author,omitempty"`
	Specs       string   `json:"specs,omitempty"`
}

// DefaultProducts is the catalog a fresh shop starts with
func DefaultProducts() []Product {
	return []Product{
		{
			ID:          "b1",
			Name:        "Introduction to Algorithms",
			Price:       1200,
			Category:    CategoryBookstore,
			Description: "A comprehensive guide to algorithm design and analysis.",
			Image:       "https://picsum.photos/seed/book1/400/500",
			Author:      "Thomas H. Cormen",
		},
		{
			ID:          "b2",
			Name:        "The Alchemist",
			Price:       350,
			Category:    CategoryBookstore,
			Description: "A magical story about following your dreams.",
			Image:       "https://picsum.photos/seed/book2/400/500",
			Author:      "Paulo Coelho",
		},
		{
			ID:          "s1",
			Name:        "Parker Vector Fountain Pen",
			Price:       850,
			Category:    CategoryStationery,
			Description: "Elegant writing instrument for professionals.",
			Image:       "https://picsum.photos/seed/pen1/400/500",
		},
		{
			ID:          "s2",
			Name:        "A4 Paper Bundle (500 Sheets)",
			Price:       450,
			Category:    CategoryStationery,
			Description: "High-quality 80GSM printing paper.",
			Image:       "https://picsum.photos/seed/paper/400/500",
		},
		{
			ID:          "c1",
			Name:        "Logitech MX Master 3S",
			Price:       9500,
			Category:    CategoryComputerAccessories,
			Description: "Advanced wireless mouse with ergonomic design.",
			Image:       "https://picsum.photos/seed/mouse/400/500",
			Specs:       "8000 DPI, MagSpeed Scroll",
		},
		{
			ID:          "c2",
			Name:        "Samsung 980 Pro 1TB SSD",
			Price:       12500,
			Category:    CategoryComputerAccessories,
			Description: "NVMe M.2 internal gaming SSD.",
			Image:       "https://picsum.photos/seed/ssd/400/500",
			Specs:       "PCIe 4.0, 7000MB/s Read",
		},
	}
}

package product

import (
	"strings"

	"github.com/go-faster/errors"
)

// AllCategories is the pseudo-category that matches every product.
const AllCategories = "All"

// Catalog is the ordered set of products known to a terminal. Insertion
// order is display order. Catalog is not safe for concurrent use; the
// terminal controller serialises access.
type Catalog struct {
	products []Product
}

// NewCatalog creates a Catalog holding copies of the given products.
func NewCatalog(products []Product) *Catalog {
	c := &Catalog{products: make([]Product, 0, len(products))}
	for _, p := range products {
		c.products = append(c.products, p.clone())
	}
	return c
}

// Len returns the number of products.
func (c *Catalog) Len() int {
	return len(c.products)
}

// List returns a copy of all products in display order.
func (c *Catalog) List() []Product {
	out := make([]Product, len(c.products))
	for i, p := range c.products {
		out[i] = p.clone()
	}
	return out
}

// Get returns the product with the given id.
func (c *Catalog) Get(id int64) (Product, bool) {
	i := c.index(id)
	if i < 0 {
		return Product{}, false
	}
	return c.products[i].clone(), true
}

// Add validates the draft and appends a new product. Identifiers are
// assigned as one more than the largest identifier in the catalog.
func (c *Catalog) Add(d Draft) (Product, error) {
	if err := d.Validate(); err != nil {
		return Product{}, err
	}
	var next int64 = 1
	for _, p := range c.products {
		if p.ID >= next {
			next = p.ID + 1
		}
	}
	p := d.apply(Product{ID: next})
	c.products = append(c.products, p)
	return p.clone(), nil
}

// Update replaces the editable fields of an existing product.
func (c *Catalog) Update(id int64, d Draft) (Product, error) {
	if err := d.Validate(); err != nil {
		return Product{}, err
	}
	i := c.index(id)
	if i < 0 {
		return Product{}, ErrNotFound
	}
	c.products[i] = d.apply(c.products[i])
	return c.products[i].clone(), nil
}

// Delete removes a product. Deleting an unknown product returns ErrNotFound.
func (c *Catalog) Delete(id int64) error {
	i := c.index(id)
	if i < 0 {
		return ErrNotFound
	}
	c.products = append(c.products[:i], c.products[i+1:]...)
	return nil
}

// DecrementStock takes qty units from a tracked product. Untracked products
// are left untouched.
func (c *Catalog) DecrementStock(id int64, qty int) error {
	i := c.index(id)
	if i < 0 {
		return ErrNotFound
	}
	p := &c.products[i]
	if p.Stock == nil {
		return nil
	}
	if qty > *p.Stock {
		return errors.Errorf("product %d: stock %d below requested %d", id, *p.Stock, qty)
	}
	left := *p.Stock - qty
	p.Stock = &left
	return nil
}

// Categories returns AllCategories followed by each distinct non-empty
// category in first-seen order.
func (c *Catalog) Categories() []string {
	seen := make(map[string]struct{}, len(c.products))
	out := []string{AllCategories}
	for _, p := range c.products {
		if p.Category == "" {
			continue
		}
		if _, ok := seen[p.Category]; ok {
			continue
		}
		seen[p.Category] = struct{}{}
		out = append(out, p.Category)
	}
	return out
}

// Search returns products whose name contains query (case-insensitive) and
// whose category matches. An empty category or AllCategories matches all.
func (c *Catalog) Search(query, category string) []Product {
	q := strings.ToLower(strings.TrimSpace(query))
	var out []Product
	for _, p := range c.products {
		if category != "" && category != AllCategories && p.Category != category {
			continue
		}
		if q != "" && !strings.Contains(strings.ToLower(p.Name), q) {
			continue
		}
		out = append(out, p.clone())
	}
	return out
}

func (c *Catalog) index(id int64) int {
	for i := range c.products {
		if c.products[i].ID == id {
			return i
		}
	}
	return -1
}

// Validate checks that the draft has a name, a positive price and a
// non-negative stock.
func (d Draft) Validate() error {
	if strings.TrimSpace(d.Name) == "" {
		return &ValidationError{Field: "name", Reason: "is required"}
	}
	if !d.Price.IsPositive() {
		return &ValidationError{Field: "price", Reason: "must be greater than 0"}
	}
	if d.Stock != nil && *d.Stock < 0 {
		return &ValidationError{Field: "stock", Reason: "must not be negative"}
	}
	return nil
}

func (d Draft) apply(p Product) Product {
	p.Name = strings.TrimSpace(d.Name)
	p.Category = strings.TrimSpace(d.Category)
	p.Price = d.Price
	p.Stock = nil
	if d.Stock != nil {
		s := *d.Stock
		p.Stock = &s
	}
	return p
}

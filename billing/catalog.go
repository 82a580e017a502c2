package billing

import "github.com/shopspring/decimal"

// Product is one catalog entry. The catalog is fixed at process start and
// read-only everywhere else; billed prices may still be overridden per line.
type Product struct {
	ID    uint            `json:"id"`
	Name  string          `json:"name"`
	Price decimal.Decimal `json:"price"`
}

// Catalog is an ordered product list with id lookup.
type Catalog struct {
	products []Product
	byID     map[uint]Product
}

func NewCatalog(products []Product) *Catalog {
	c := &Catalog{
		products: make([]Product, len(products)),
		byID:     make(map[uint]Product, len(products)),
	}
	copy(c.products, products)
	for _, p := range products {
		c.byID[p.ID] = p
	}
	return c
}

// Products returns the catalog in its defined order.
func (c *Catalog) Products() []Product {
	out := make([]Product, len(c.products))
	copy(out, c.products)
	return out
}

func (c *Catalog) Find(id uint) (Product, bool) {
	p, ok := c.byID[id]
	return p, ok
}

// DefaultCatalog returns the retailer's product list.
func DefaultCatalog() *Catalog {
	return NewCatalog([]Product{
		{ID: 1, Name: "Groundnut Oil - 1L Tin", Price: decimal.NewFromInt(250)},
		{ID: 2, Name: "Groundnut Oil - 5L Tin", Price: decimal.NewFromInt(1200)},
		{ID: 3, Name: "Groundnut Oil - 15L Tin", Price: decimal.NewFromInt(3500)},
		{ID: 4, Name: "Groundnut Oil - 1L Pouch", Price: decimal.NewFromInt(240)},
		{ID: 5, Name: "Groundnut Oil - 500ml Bottle", Price: decimal.NewFromInt(130)},
	})
}

// DefaultTaxRate is the flat GST fraction applied to every line.
var DefaultTaxRate = decimal.NewFromFloat(0.05)

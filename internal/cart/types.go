package cart

import (
	"context"

	"github.com/shopspring/decimal"
)

// Product is a catalog product as held in the cart.
// Amount is the quantity in the cart and is always >= 1 for cart entries.
type Product struct {
	ID       int             `json:"id" yaml:"id"`
	Name     string          `json:"name" yaml:"name"`
	Price    decimal.Decimal `json:"price" yaml:"price"`
	ImageURL string          `json:"imageUrl" yaml:"image_url"`
	Amount   int             `json:"amount" yaml:"amount"`
}

// Subtotal returns Price × Amount.
func (p Product) Subtotal() decimal.Decimal {
	return p.Price.Mul(decimal.NewFromInt(int64(p.Amount)))
}

// Stock is the remote-authoritative purchasable quantity for a product.
type Stock struct {
	ID     int `json:"id"`
	Amount int `json:"amount"`
}

// UpdateProductAmount is the request for Store.UpdateProductAmount.
type UpdateProductAmount struct {
	ProductID int
	Amount    int
}

// Cart is an ordered list of products, unique by ID.
type Cart []Product

// index returns the position of productID in c, or -1.
func (c Cart) index(productID int) int {
	for i := range c {
		if c[i].ID == productID {
			return i
		}
	}
	return -1
}

// Find returns the entry for productID.
func (c Cart) Find(productID int) (Product, bool) {
	if i := c.index(productID); i >= 0 {
		return c[i], true
	}
	return Product{}, false
}

// Clone returns a copy of c that shares no backing array with it.
// The result is never nil.
func (c Cart) Clone() Cart {
	out := make(Cart, len(c))
	copy(out, c)
	return out
}

// Size returns the number of distinct products in the cart.
func (c Cart) Size() int { return len(c) }

// Total returns the sum of all entry subtotals.
func (c Cart) Total() decimal.Decimal {
	total := decimal.Zero
	for _, p := range c {
		total = total.Add(p.Subtotal())
	}
	return total
}

// Storage is a string-valued key-value persistence provider.
// Get reports ok=false when the key is absent.
type Storage interface {
	Get(key string) (value string, ok bool, err error)
	Set(key, value string) error
}

// Catalog is the read-only remote data provider for products and stock.
type Catalog interface {
	Product(ctx context.Context, id int) (Product, error)
	Stock(ctx context.Context, id int) (Stock, error)
}

// Notifier receives one fire-and-forget message per operation outcome.
type Notifier interface {
	Success(msg string)
	Error(msg string)
}

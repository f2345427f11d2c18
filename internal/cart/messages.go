package cart

// Messages holds the fixed user-facing text for each operation outcome.
type Messages struct {
	AddSuccess    string
	AddError      string
	RemoveSuccess string
	RemoveError   string
	UpdateSuccess string
	UpdateError   string
	StockExceeded string
}

// DefaultMessages returns the English message set.
func DefaultMessages() Messages {
	return Messages{
		AddSuccess:    "Product added to cart",
		AddError:      "Error adding product to cart",
		RemoveSuccess: "Product removed from cart",
		RemoveError:   "Error removing product from cart",
		UpdateSuccess: "Product amount updated",
		UpdateError:   "Error updating product amount",
		StockExceeded: "Requested amount is out of stock",
	}
}

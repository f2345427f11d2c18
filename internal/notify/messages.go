package notify

import (
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/message/catalog"

	"github.com/rocketshoes-labs/cartctl/internal/cart"
)

// Message keys, also the English text.
const (
	keyAddSuccess    = "Product added to cart"
	keyAddError      = "Error adding product to cart"
	keyRemoveSuccess = "Product removed from cart"
	keyRemoveError   = "Error removing product from cart"
	keyUpdateSuccess = "Product amount updated"
	keyUpdateError   = "Error updating product amount"
	keyStockExceeded = "Requested amount is out of stock"
)

var supported = []language.Tag{
	language.English,
	language.BrazilianPortuguese,
}

var (
	matcher  = language.NewMatcher(supported)
	messages = newCatalog()
)

func newCatalog() *catalog.Builder {
	b := catalog.NewBuilder(catalog.Fallback(language.English))

	pt := language.BrazilianPortuguese
	b.SetString(pt, keyAddSuccess, "Produto adicionado ao carrinho")
	b.SetString(pt, keyAddError, "Erro ao adicionar o produto ao carrinho")
	b.SetString(pt, keyRemoveSuccess, "Produto removido do carrinho")
	b.SetString(pt, keyRemoveError, "Erro ao remover o produto do carrinho")
	b.SetString(pt, keyUpdateSuccess, "Produto atualizado no carrinho")
	b.SetString(pt, keyUpdateError, "Erro ao atualizar o produto do carrinho")
	b.SetString(pt, keyStockExceeded, "Não temos tantos produtos no estoque")
	return b
}

// Match returns the supported language closest to locale. Unknown or empty
// locales fall back to English.
func Match(locale string) language.Tag {
	if locale == "" {
		return language.English
	}
	tag, err := language.Parse(locale)
	if err != nil {
		return language.English
	}
	_, i, _ := matcher.Match(tag)
	return supported[i]
}

// Messages returns the cart outcome messages for locale.
func Messages(locale string) cart.Messages {
	p := message.NewPrinter(Match(locale), message.Catalog(messages))
	return cart.Messages{
		AddSuccess:    p.Sprintf(keyAddSuccess),
		AddError:      p.Sprintf(keyAddError),
		RemoveSuccess: p.Sprintf(keyRemoveSuccess),
		RemoveError:   p.Sprintf(keyRemoveError),
		UpdateSuccess: p.Sprintf(keyUpdateSuccess),
		UpdateError:   p.Sprintf(keyUpdateError),
		StockExceeded: p.Sprintf(keyStockExceeded),
	}
}

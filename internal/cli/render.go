package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/shopspring/decimal"
	"go.yaml.in/yaml/v3"

	"github.com/rocketshoes-labs/cartctl/internal/cart"
)

// cartView is the --json and --yaml shape of the cart.
type cartView struct {
	Items []cartItemView `json:"items" yaml:"items"`
	Size  int            `json:"size" yaml:"size"`
	Total string         `json:"total" yaml:"total"`
}

type cartItemView struct {
	cart.Product `yaml:",inline"`
	Subtotal     string `json:"subtotal" yaml:"subtotal"`
}

func newCartView(c cart.Cart) cartView {
	v := cartView{Items: make([]cartItemView, 0, len(c)), Size: c.Size(), Total: money(c.Total())}
	for _, p := range c {
		v.Items = append(v.Items, cartItemView{Product: p, Subtotal: money(p.Subtotal())})
	}
	return v
}

func money(d decimal.Decimal) string {
	return d.StringFixed(2)
}

func printCartTable(w io.Writer, c cart.Cart) error {
	if c.Size() == 0 {
		_, err := fmt.Fprintln(w, "Your cart is empty.")
		return err
	}

	tw := tabwriter.NewWriter(w, 0, 0, 3, ' ', 0)
	fmt.Fprintln(tw, "ID\tNAME\tPRICE\tAMOUNT\tSUBTOTAL")
	for _, p := range c {
		name := p.Name
		if name == "" {
			name = "-"
		}
		fmt.Fprintf(tw, "%d\t%s\t%s\t%d\t%s\n", p.ID, name, money(p.Price), p.Amount, money(p.Subtotal()))
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	noun := "items"
	if c.Size() == 1 {
		noun = "item"
	}
	_, err := fmt.Fprintf(w, "\n%d %s, total %s\n", c.Size(), noun, money(c.Total()))
	return err
}

func printCartJSON(w io.Writer, c cart.Cart) error {
	data, err := json.MarshalIndent(newCartView(c), "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling cart: %w", err)
	}
	_, err = fmt.Fprintln(w, string(data))
	return err
}

func printCartYAML(w io.Writer, c cart.Cart) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(newCartView(c)); err != nil {
		return fmt.Errorf("marshaling cart: %w", err)
	}
	return enc.Close()
}

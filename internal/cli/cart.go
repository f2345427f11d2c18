package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/rocketshoes-labs/cartctl/internal/cart"
)

var (
	listJSON bool
	listYAML bool
)

func init() {
	listCmd.Flags().BoolVar(&listJSON, "json", false, "Output in JSON format")
	listCmd.Flags().BoolVar(&listYAML, "yaml", false, "Output in YAML format")
	listCmd.MarkFlagsMutuallyExclusive("json", "yaml")

	rootCmd.AddCommand(listCmd, addCmd, removeCmd, updateCmd, incCmd, decCmd)
}

var listCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "Show the cart",
	Args:    cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		store, done, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer done()

		c := store.Cart()
		switch {
		case listJSON:
			return printCartJSON(cmd.OutOrStdout(), c)
		case listYAML:
			return printCartYAML(cmd.OutOrStdout(), c)
		default:
			return printCartTable(cmd.OutOrStdout(), c)
		}
	},
}

var addCmd = &cobra.Command{
	Use:   "add <product-id>",
	Short: "Add one unit of a product to the cart",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseID(args[0])
		if err != nil {
			return err
		}
		store, done, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer done()
		return store.AddProduct(cmd.Context(), id)
	},
}

var removeCmd = &cobra.Command{
	Use:     "remove <product-id>",
	Aliases: []string{"rm"},
	Short:   "Remove a product from the cart",
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseID(args[0])
		if err != nil {
			return err
		}
		store, done, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer done()
		return store.RemoveProduct(id)
	},
}

var updateCmd = &cobra.Command{
	Use:   "update <product-id> <amount>",
	Short: "Set the amount of a product in the cart",
	Long: `Set the amount of a product already in the cart. The amount is checked
against the product's stock. Amounts below 1 are ignored; use remove instead.`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseID(args[0])
		if err != nil {
			return err
		}
		amount, err := strconv.Atoi(args[1])
		if err != nil {
			return fmt.Errorf("invalid amount %q: must be an integer", args[1])
		}
		store, done, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer done()
		return store.UpdateProductAmount(cmd.Context(), cart.UpdateProductAmount{ProductID: id, Amount: amount})
	},
}

var incCmd = &cobra.Command{
	Use:   "inc <product-id>",
	Short: "Increase the amount of a product by one",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return step(cmd, args[0], +1)
	},
}

var decCmd = &cobra.Command{
	Use:   "dec <product-id>",
	Short: "Decrease the amount of a product by one",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return step(cmd, args[0], -1)
	},
}

// step applies the storefront's +/- buttons: an update to the current
// amount plus delta. Decrementing an amount of 1 does nothing.
func step(cmd *cobra.Command, arg string, delta int) error {
	id, err := parseID(arg)
	if err != nil {
		return err
	}
	store, done, err := openStore(cmd)
	if err != nil {
		return err
	}
	defer done()

	current := 0
	if p, ok := store.Cart().Find(id); ok {
		current = p.Amount
	}
	return store.UpdateProductAmount(cmd.Context(), cart.UpdateProductAmount{ProductID: id, Amount: current + delta})
}

func parseID(s string) (int, error) {
	id, err := strconv.Atoi(s)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid product id %q: must be a positive integer", s)
	}
	return id, nil
}

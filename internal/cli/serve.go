package cli

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/rocketshoes-labs/cartctl/internal/fixtureapi"
)

var (
	serveFixtures string
	serveAddr     string
	serveDelay    time.Duration
)

func init() {
	serveCmd.Flags().StringVar(&serveFixtures, "fixtures", "", "Products and stock file (.json, .yaml)")
	serveCmd.Flags().StringVar(&serveAddr, "addr", ":3333", "Listen address")
	serveCmd.Flags().DurationVar(&serveDelay, "delay", 0, "Delay every response, e.g. 500ms")
	_ = serveCmd.MarkFlagRequired("fixtures")
	rootCmd.AddCommand(serveCmd)
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run a local storefront API from a fixtures file",
	Long: `Serve GET /products, GET /products/{id} and GET /stock/{id} from a fixtures
file, for use as --api-url when no storefront backend is running.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		fixtures, err := fixtureapi.LoadFixtures(serveFixtures)
		if err != nil {
			return err
		}

		if log.GetLevel() < logrus.InfoLevel {
			log.SetLevel(logrus.InfoLevel)
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		h := fixtureapi.NewRouter(fixtures, fixtureapi.WithLogger(log), fixtureapi.WithDelay(serveDelay))
		fmt.Fprintf(cmd.OutOrStdout(), "Serving %d products on %s\n", len(fixtures.Products), serveAddr)
		return fixtureapi.Serve(ctx, serveAddr, h)
	},
}

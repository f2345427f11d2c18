package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/rocketshoes-labs/cartctl/internal/branding"
	"github.com/rocketshoes-labs/cartctl/internal/cart"
	"github.com/rocketshoes-labs/cartctl/internal/config"
	"github.com/rocketshoes-labs/cartctl/internal/tracing"
)

var (
	buildVersion string
	buildCommit  string
	buildDate    string
)

var (
	flagVerbose bool
	flagTrace   bool

	log             = logrus.New()
	shutdownTracing tracing.ShutdownFunc
)

var rootCmd = &cobra.Command{
	Use:   branding.CLIName(),
	Short: branding.Description(),
	Long: branding.DisplayName() + ` keeps a shopping cart in your terminal. Products and stock come
from the storefront API; the cart is saved locally between runs.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		config.Load()
		setupLogging(cmd.ErrOrStderr())

		if flagTrace {
			shutdown, err := tracing.Setup(cmd.Context(), cmd.ErrOrStderr(), branding.CLIName(), buildVersion)
			if err != nil {
				return fmt.Errorf("setting up tracing: %w", err)
			}
			shutdownTracing = shutdown
		}
		return nil
	},
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.String("api-url", "", "Storefront API base URL (env "+branding.EnvVar(config.KeyAPIURL)+")")
	pf.String("locale", "", "Message language, e.g. en or pt-BR (env "+branding.EnvVar(config.KeyLocale)+")")
	pf.BoolVarP(&flagVerbose, "verbose", "v", false, "Enable debug logging")
	pf.BoolVar(&flagTrace, "trace", false, "Print OpenTelemetry spans to stderr")

	_ = viper.BindPFlag(config.KeyAPIURL, pf.Lookup("api-url"))
	_ = viper.BindPFlag(config.KeyLocale, pf.Lookup("locale"))
}

func setupLogging(w io.Writer) {
	log.SetOutput(w)
	log.SetFormatter(&logrus.TextFormatter{DisableTimestamp: true})

	level, err := logrus.ParseLevel(config.Get(config.KeyLogLevel))
	if err != nil {
		level = logrus.WarnLevel
	}
	if flagVerbose {
		level = logrus.DebugLevel
	}
	log.SetLevel(level)
}

// Execute runs the root command with build info injected via ldflags.
func Execute(version, commit, date string) error {
	buildVersion = version
	buildCommit = commit
	buildDate = date

	ctx := context.Background()
	err := rootCmd.ExecuteContext(ctx)

	if shutdownTracing != nil {
		if serr := shutdownTracing(ctx); serr != nil {
			log.WithError(serr).Warn("flushing traces")
		}
		shutdownTracing = nil
	}

	if err != nil && !notified(err) {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	}
	return err
}

// notified reports whether err is a cart outcome the notifier has already
// shown to the user.
func notified(err error) bool {
	return errors.Is(err, cart.ErrStockExceeded) ||
		errors.Is(err, cart.ErrNotFound) ||
		errors.Is(err, cart.ErrPersistence) ||
		cart.IsTransport(err)
}

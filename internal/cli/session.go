package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rocketshoes-labs/cartctl/internal/branding"
	"github.com/rocketshoes-labs/cartctl/internal/cart"
	"github.com/rocketshoes-labs/cartctl/internal/catalogapi"
	"github.com/rocketshoes-labs/cartctl/internal/config"
	"github.com/rocketshoes-labs/cartctl/internal/notify"
	"github.com/rocketshoes-labs/cartctl/internal/storage"
)

// openStorage returns the configured persistence provider and a function
// releasing it.
func openStorage(ctx context.Context) (cart.Storage, func(), error) {
	switch driver := config.Get(config.KeyStorageDriver); driver {
	case config.DriverFile, "":
		f, err := storage.OpenFile(config.StoragePath())
		if err != nil {
			return nil, nil, fmt.Errorf("opening cart storage: %w", err)
		}
		log.WithField("path", f.Path()).Debug("using file storage")
		return f, func() {}, nil

	case config.DriverRedis:
		r, err := storage.NewRedis(ctx, config.Get(config.KeyRedisAddr))
		if err != nil {
			return nil, nil, fmt.Errorf("opening cart storage: %w", err)
		}
		if err := r.Initialize(ctx); err != nil {
			r.Close()
			return nil, nil, fmt.Errorf("opening cart storage: %w", err)
		}
		return r, func() { r.Close() }, nil

	default:
		return nil, nil, fmt.Errorf("unknown storage driver %q", driver)
	}
}

func newCatalog() *catalogapi.Client {
	c := catalogapi.New(config.Get(config.KeyAPIURL),
		catalogapi.WithUserAgent(branding.CLIName()+"/"+buildVersion))
	log.WithField("api_url", c.BaseURL()).Debug("using catalog API")
	return c
}

// openStore builds the cart store for one command invocation.
func openStore(cmd *cobra.Command) (*cart.Store, func(), error) {
	st, closeStorage, err := openStorage(cmd.Context())
	if err != nil {
		return nil, nil, err
	}

	notifier := notify.Multi{
		notify.NewTerminal(cmd.OutOrStdout(), cmd.ErrOrStderr()),
		notify.NewLog(log),
	}
	store, err := cart.New(st, newCatalog(), notifier,
		cart.WithStorageKey(branding.StorageKey()),
		cart.WithMessages(notify.Messages(config.Get(config.KeyLocale))),
		cart.WithLogger(log),
	)
	if err != nil {
		closeStorage()
		return nil, nil, fmt.Errorf("loading cart: %w", err)
	}
	return store, closeStorage, nil
}

//go:build integration

package integration_test

import (
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"

	"github.com/rocketshoes-labs/cartctl/internal/cart"
	"github.com/rocketshoes-labs/cartctl/internal/catalogapi"
	"github.com/rocketshoes-labs/cartctl/internal/fixtureapi"
	"github.com/rocketshoes-labs/cartctl/internal/notify"
	"github.com/rocketshoes-labs/cartctl/internal/storage"
)

// testEnv holds a fixture API and a storage file, isolated per test.
type testEnv struct {
	StoragePath string
	Catalog     *catalogapi.Client
	Logger      logrus.FieldLogger
}

func setupTestEnv(t *testing.T, f *fixtureapi.Fixtures, opts ...fixtureapi.Option) *testEnv {
	t.Helper()

	logger, _ := test.NewNullLogger()
	srv := httptest.NewServer(fixtureapi.NewRouter(f, append([]fixtureapi.Option{fixtureapi.WithLogger(logger)}, opts...)...))
	t.Cleanup(srv.Close)

	return &testEnv{
		StoragePath: filepath.Join(t.TempDir(), storage.DefaultFileName),
		Catalog:     catalogapi.New(srv.URL, catalogapi.WithHTTPClient(srv.Client())),
		Logger:      logger,
	}
}

// openStore opens the storage file and builds a fresh store over it, the way
// each cartctl invocation does.
func (e *testEnv) openStore(t *testing.T) (*cart.Store, *notify.Recorder) {
	t.Helper()
	st, err := storage.OpenFile(e.StoragePath)
	if err != nil {
		t.Fatalf("OpenFile: %v", err)
	}
	rec := &notify.Recorder{}
	s, err := cart.New(st, e.Catalog, rec, cart.WithLogger(e.Logger))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return s, rec
}

func shoeFixtures() *fixtureapi.Fixtures {
	return &fixtureapi.Fixtures{
		Products: []cart.Product{
			{ID: 1, Name: "Tênis de Caminhada Leve Confortável", Price: decimal.RequireFromString("179.9"), ImageURL: "https://example.com/1.jpg"},
			{ID: 2, Name: "Tênis VR Caminhada Confortável", Price: decimal.RequireFromString("139.9"), ImageURL: "https://example.com/2.jpg"},
			{ID: 3, Name: "Tênis Adidas Duramo Lite 2.0", Price: decimal.RequireFromString("219.9"), ImageURL: "https://example.com/3.jpg"},
		},
		Stock: []cart.Stock{{ID: 1, Amount: 3}, {ID: 2, Amount: 5}, {ID: 3, Amount: 2}},
	}
}

func assertLast(t *testing.T, rec *notify.Recorder, kind notify.Kind, msg string) {
	t.Helper()
	n, ok := rec.Last()
	if !ok {
		t.Fatalf("no notification, want %s %q", kind, msg)
	}
	if n.Kind != kind || n.Message != msg {
		t.Errorf("last notification = %s %q, want %s %q", n.Kind, n.Message, kind, msg)
	}
}

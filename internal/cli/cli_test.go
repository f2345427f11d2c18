package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"go.yaml.in/yaml/v3"

	"github.com/rocketshoes-labs/cartctl/internal/cart"
	"github.com/rocketshoes-labs/cartctl/internal/fixtureapi"
)

func testFixtures() *fixtureapi.Fixtures {
	return &fixtureapi.Fixtures{
		Products: []cart.Product{
			{ID: 1, Name: "Tênis de Caminhada Leve Confortável", Price: decimal.RequireFromString("179.9")},
			{ID: 2, Name: "Tênis VR Caminhada Confortável", Price: decimal.RequireFromString("139.9")},
		},
		Stock: []cart.Stock{{ID: 1, Amount: 2}, {ID: 2, Amount: 5}},
	}
}

type harness struct {
	t      *testing.T
	home   string
	apiURL string
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Chdir(t.TempDir())

	quiet := logrus.New()
	quiet.SetOutput(io.Discard)
	api := httptest.NewServer(fixtureapi.NewRouter(testFixtures(), fixtureapi.WithLogger(quiet)))
	t.Cleanup(api.Close)

	return &harness{t: t, home: home, apiURL: api.URL}
}

// run executes the command tree against the fixture API and returns stdout,
// stderr and the command error.
func (h *harness) run(args ...string) (string, string, error) {
	h.t.Helper()
	listJSON, listYAML = false, false
	versionShort, versionJSON, versionYAML = false, false, false
	flagVerbose = false

	var out, errOut bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&errOut)
	// Flag values persist on the shared command tree. Defaults go first so
	// a test's own flags override them.
	rootCmd.SetArgs(append([]string{"--api-url", h.apiURL, "--locale", "en"}, args...))
	err := rootCmd.ExecuteContext(context.Background())
	return out.String(), errOut.String(), err
}

func TestAddAndList(t *testing.T) {
	h := newHarness(t)

	out, _, err := h.run("add", "1")
	if err != nil {
		t.Fatalf("add: %v", err)
	}
	if !strings.Contains(out, "✓ Product added to cart") {
		t.Errorf("add output = %q", out)
	}

	if _, _, err := h.run("add", "1"); err != nil {
		t.Fatalf("second add: %v", err)
	}
	if _, _, err := h.run("add", "2"); err != nil {
		t.Fatalf("add 2: %v", err)
	}

	out, _, err = h.run("list")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	for _, want := range []string{"ID", "SUBTOTAL", "359.80", "139.90", "2 items, total 499.70"} {
		if !strings.Contains(out, want) {
			t.Errorf("list output missing %q:\n%s", want, out)
		}
	}

	if _, err := os.Stat(filepath.Join(h.home, ".cartctl", "storage.json")); err != nil {
		t.Errorf("storage file not written: %v", err)
	}
}

func TestAddStockExceeded(t *testing.T) {
	h := newHarness(t)

	for i := 0; i < 2; i++ {
		if _, _, err := h.run("add", "1"); err != nil {
			t.Fatalf("add %d: %v", i, err)
		}
	}

	_, errOut, err := h.run("add", "1")
	if !errors.Is(err, cart.ErrStockExceeded) {
		t.Fatalf("err = %v, want ErrStockExceeded", err)
	}
	if !notified(err) {
		t.Error("stock exceeded should count as already notified")
	}
	if !strings.Contains(errOut, "✗ Requested amount is out of stock") {
		t.Errorf("stderr = %q", errOut)
	}
}

func TestUpdateIncDecRemove(t *testing.T) {
	h := newHarness(t)
	if _, _, err := h.run("add", "2"); err != nil {
		t.Fatalf("add: %v", err)
	}

	if _, _, err := h.run("update", "2", "4"); err != nil {
		t.Fatalf("update: %v", err)
	}
	if _, _, err := h.run("inc", "2"); err != nil {
		t.Fatalf("inc: %v", err)
	}
	if _, _, err := h.run("inc", "2"); !errors.Is(err, cart.ErrStockExceeded) {
		t.Fatalf("inc past stock: err = %v", err)
	}
	if _, _, err := h.run("dec", "2"); err != nil {
		t.Fatalf("dec: %v", err)
	}

	out, _, err := h.run("list", "--json")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	var view struct {
		Items []struct {
			ID     int `json:"id"`
			Amount int `json:"amount"`
		} `json:"items"`
		Total string `json:"total"`
	}
	if err := json.Unmarshal([]byte(out), &view); err != nil {
		t.Fatalf("parsing list --json: %v\n%s", err, out)
	}
	if len(view.Items) != 1 || view.Items[0].Amount != 4 {
		t.Fatalf("items = %+v, want one entry with amount 4", view.Items)
	}
	if view.Total != "559.60" {
		t.Errorf("total = %s, want 559.60", view.Total)
	}

	if _, _, err := h.run("remove", "2"); err != nil {
		t.Fatalf("remove: %v", err)
	}
	if _, _, err := h.run("remove", "2"); !errors.Is(err, cart.ErrNotFound) {
		t.Fatalf("second remove: err = %v, want ErrNotFound", err)
	}

	out, _, _ = h.run("list")
	if !strings.Contains(out, "Your cart is empty.") {
		t.Errorf("list after remove = %q", out)
	}
}

func TestUnknownProductIsTransportFailure(t *testing.T) {
	h := newHarness(t)

	_, errOut, err := h.run("add", "99")
	if !cart.IsTransport(err) {
		t.Fatalf("err = %v, want transport error", err)
	}
	if !strings.Contains(errOut, "✗ Error adding product to cart") {
		t.Errorf("stderr = %q", errOut)
	}
}

func TestLocaleFlag(t *testing.T) {
	h := newHarness(t)

	out, _, err := h.run("--locale", "pt-BR", "add", "1")
	if err != nil {
		t.Fatalf("add: %v", err)
	}
	if !strings.Contains(out, "Produto adicionado ao carrinho") {
		t.Errorf("output = %q", out)
	}
}

func TestInvalidArguments(t *testing.T) {
	h := newHarness(t)

	tests := [][]string{
		{"add", "abc"},
		{"add", "0"},
		{"update", "1", "many"},
	}
	for _, args := range tests {
		t.Run(strings.Join(args, " "), func(t *testing.T) {
			_, _, err := h.run(args...)
			if err == nil {
				t.Fatal("expected error")
			}
			if notified(err) {
				t.Errorf("argument error %v treated as notified", err)
			}
		})
	}
}

func TestVersion(t *testing.T) {
	h := newHarness(t)
	buildVersion, buildCommit, buildDate = "1.2.3", "abc123", "2026-01-01"

	out, _, err := h.run("version", "--short")
	if err != nil {
		t.Fatalf("version: %v", err)
	}
	if strings.TrimSpace(out) != "1.2.3" {
		t.Errorf("version --short = %q", out)
	}

	out, _, err = h.run("version")
	if err != nil {
		t.Fatalf("version: %v", err)
	}
	if !strings.Contains(out, "cartctl version 1.2.3 (commit: abc123") {
		t.Errorf("version = %q", out)
	}
}

func TestConfigSetGet(t *testing.T) {
	h := newHarness(t)

	if _, _, err := h.run("config", "set", "log_level", "debug"); err != nil {
		t.Fatalf("config set: %v", err)
	}
	out, _, err := h.run("config", "get", "log_level")
	if err != nil {
		t.Fatalf("config get: %v", err)
	}
	if strings.TrimSpace(out) != "debug" {
		t.Errorf("config get = %q", out)
	}

	if _, _, err := h.run("config", "set", "storage.driver", "sqlite"); err == nil {
		t.Error("expected error for unknown driver")
	}

	// Restore for later tests sharing the process-wide config.
	h.run("config", "set", "log_level", "warn")
}

func TestVerboseLogsCatalogAndOutcome(t *testing.T) {
	h := newHarness(t)

	_, errOut, err := h.run("--verbose", "add", "1")
	if err != nil {
		t.Fatalf("add: %v", err)
	}
	for _, want := range []string{"using catalog API", h.apiURL, "outcome=success"} {
		if !strings.Contains(errOut, want) {
			t.Errorf("stderr missing %q:\n%s", want, errOut)
		}
	}
}

func TestVersionYAML(t *testing.T) {
	h := newHarness(t)
	buildVersion, buildCommit, buildDate = "1.2.3", "abc123", "2026-01-01"

	out, _, err := h.run("version", "--yaml")
	if err != nil {
		t.Fatalf("version --yaml: %v", err)
	}
	var info buildInfo
	if err := yaml.Unmarshal([]byte(out), &info); err != nil {
		t.Fatalf("parsing YAML: %v\n%s", err, out)
	}
	if info.Version != "1.2.3" || info.Commit != "abc123" || info.Name != "cartctl" {
		t.Errorf("info = %+v", info)
	}
	if info.StorageKey != "@RocketShoes:cart" {
		t.Errorf("storage key = %q", info.StorageKey)
	}
}

package fixtureapi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gorilla/mux/otelmux"

	"github.com/rocketshoes-labs/cartctl/internal/cart"
)

type router struct {
	fixtures *Fixtures
	log      logrus.FieldLogger
	delay    time.Duration
}

// Option configures the router returned by NewRouter.
type Option func(*router)

// WithLogger sets the request logger.
func WithLogger(l logrus.FieldLogger) Option {
	return func(r *router) {
		r.log = l
	}
}

// WithDelay holds every response for d, to simulate a slow backend.
func WithDelay(d time.Duration) Option {
	return func(r *router) {
		r.delay = d
	}
}

// NewRouter returns a handler serving GET /products, GET /products/{id}
// and GET /stock/{id} from f.
func NewRouter(f *Fixtures, opts ...Option) http.Handler {
	rt := &router{fixtures: f, log: logrus.StandardLogger()}
	for _, opt := range opts {
		opt(rt)
	}

	r := mux.NewRouter()
	r.Use(otelmux.Middleware("cartctl-fixtures"))
	r.Use(rt.logRequests)

	r.HandleFunc("/products", rt.listProducts).Methods(http.MethodGet)
	r.HandleFunc("/products/{id:[0-9]+}", rt.getProduct).Methods(http.MethodGet)
	r.HandleFunc("/stock/{id:[0-9]+}", rt.getStock).Methods(http.MethodGet)
	r.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		writeErr(w, http.StatusNotFound, "not found")
	})
	return r
}

// Serve runs h on addr until ctx is done, then shuts down gracefully.
func Serve(ctx context.Context, addr string, h http.Handler) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           h,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return err
		}
		if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	}
}

func (rt *router) listProducts(w http.ResponseWriter, r *http.Request) {
	rt.wait(r.Context())
	products := rt.fixtures.Products
	if products == nil {
		products = []cart.Product{}
	}
	writeJSON(w, http.StatusOK, products)
}

func (rt *router) getProduct(w http.ResponseWriter, r *http.Request) {
	rt.wait(r.Context())
	id, _ := strconv.Atoi(mux.Vars(r)["id"])
	p, ok := rt.fixtures.product(id)
	if !ok {
		writeErr(w, http.StatusNotFound, "product not found")
		return
	}
	writeJSON(w, http.StatusOK, p)
}

func (rt *router) getStock(w http.ResponseWriter, r *http.Request) {
	rt.wait(r.Context())
	id, _ := strconv.Atoi(mux.Vars(r)["id"])
	s, ok := rt.fixtures.stock(id)
	if !ok {
		writeErr(w, http.StatusNotFound, "stock not found")
		return
	}
	writeJSON(w, http.StatusOK, s)
}

func (rt *router) wait(ctx context.Context) {
	if rt.delay <= 0 {
		return
	}
	select {
	case <-time.After(rt.delay):
	case <-ctx.Done():
	}
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (s *statusRecorder) WriteHeader(code int) {
	s.status = code
	s.ResponseWriter.WriteHeader(code)
}

func (rt *router) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		rt.log.WithFields(logrus.Fields{
			"method":     r.Method,
			"path":       r.URL.Path,
			"status":     rec.status,
			"request_id": r.Header.Get("X-Request-ID"),
			"duration":   time.Since(start),
		}).Info("request")
	})
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func writeErr(w http.ResponseWriter, code int, msg string) {
	writeJSON(w, code, map[string]string{"error": msg})
}

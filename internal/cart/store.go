package cart

import (
	"context"
	"fmt"
	"sync"

	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const tracerName = "github.com/rocketshoes-labs/cartctl/internal/cart"

// Store owns the cart snapshot of one session.
//
// The mutex is never held across Catalog calls. After every remote call an
// operation re-reads the latest snapshot, so two operations issued back to
// back cannot undo each other's committed change.
//
// Subscribers receive snapshots one at a time in commit order. A subscriber
// may call Cart but must not call the mutating methods.
type Store struct {
	mu      sync.Mutex
	cart    Cart
	subs    map[int]func(Cart)
	nextID  int
	pending []delivery

	// pubMu is held by the goroutine draining pending.
	pubMu sync.Mutex

	key      string
	storage  Storage
	catalog  Catalog
	notifier Notifier
	messages Messages
	log      logrus.FieldLogger
	tracer   trace.Tracer
}

// Option configures a Store.
type Option func(*Store)

// WithStorageKey sets the key the cart is persisted under.
func WithStorageKey(key string) Option {
	return func(s *Store) {
		s.key = key
	}
}

// WithMessages sets the outcome messages passed to the Notifier.
func WithMessages(m Messages) Option {
	return func(s *Store) {
		s.messages = m
	}
}

// WithLogger sets the logger used for diagnostics.
func WithLogger(l logrus.FieldLogger) Option {
	return func(s *Store) {
		s.log = l
	}
}

// WithTracer sets the tracer used for operation spans.
func WithTracer(t trace.Tracer) Option {
	return func(s *Store) {
		s.tracer = t
	}
}

// DefaultStorageKey is the key used when WithStorageKey is not given.
const DefaultStorageKey = "@RocketShoes:cart"

type delivery struct {
	subs     []func(Cart)
	snapshot Cart
}

// New creates a Store and loads the persisted cart from storage.
// A missing or malformed value starts the session with an empty cart. A
// storage read error is returned, so a value that could not be read is
// never overwritten.
func New(storage Storage, catalog Catalog, notifier Notifier, opts ...Option) (*Store, error) {
	s := &Store{
		subs:     make(map[int]func(Cart)),
		key:      DefaultStorageKey,
		storage:  storage,
		catalog:  catalog,
		notifier: notifier,
		messages: DefaultMessages(),
		log:      logrus.StandardLogger(),
		tracer:   otel.Tracer(tracerName),
	}
	for _, opt := range opts {
		opt(s)
	}
	c, err := s.load()
	if err != nil {
		return nil, err
	}
	s.cart = c
	return s, nil
}

func (s *Store) load() (Cart, error) {
	raw, ok, err := s.storage.Get(s.key)
	if err != nil {
		return nil, fmt.Errorf("reading persisted cart: %w", err)
	}
	if !ok {
		return Cart{}, nil
	}
	c, err := Decode(raw)
	if err != nil {
		s.log.WithError(err).Warn("discarding malformed persisted cart")
		return Cart{}, nil
	}
	return c, nil
}

// Cart returns a copy of the current snapshot.
func (s *Store) Cart() Cart {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cart.Clone()
}

// Subscribe registers fn to receive every newly committed snapshot.
// The returned function removes the subscription.
func (s *Store) Subscribe(fn func(Cart)) (unsubscribe func()) {
	s.mu.Lock()
	id := s.nextID
	s.nextID++
	s.subs[id] = fn
	s.mu.Unlock()

	return func() {
		s.mu.Lock()
		delete(s.subs, id)
		s.mu.Unlock()
	}
}

// AddProduct adds one unit of productID. An existing entry keeps its position;
// a new product is fetched from the catalog and appended with amount 1.
func (s *Store) AddProduct(ctx context.Context, productID int) error {
	ctx, span := s.tracer.Start(ctx, "cart.AddProduct",
		trace.WithAttributes(attribute.Int("app.product_id", productID)))
	defer span.End()

	stock, err := s.catalog.Stock(ctx, productID)
	if err != nil {
		return s.transportFailure(span, "add product", productID, s.messages.AddError, err)
	}

	var fetched *Product
	for {
		s.mu.Lock()
		next := s.cart.Clone()
		i := next.index(productID)

		target := 1
		if i >= 0 {
			target = next[i].Amount + 1
		}
		if target > stock.Amount {
			s.mu.Unlock()
			return s.stockExceeded(span, productID, target, stock.Amount)
		}

		switch {
		case i >= 0:
			next[i].Amount = target
		case fetched != nil:
			p := *fetched
			p.ID = productID
			p.Amount = 1
			next = append(next, p)
		default:
			// Product data is needed; release the snapshot while fetching
			// and recompute from whatever is current afterwards.
			s.mu.Unlock()
			p, err := s.catalog.Product(ctx, productID)
			if err != nil {
				return s.transportFailure(span, "add product", productID, s.messages.AddError, err)
			}
			fetched = &p
			continue
		}

		err = s.commitLocked(next)
		s.mu.Unlock()
		if err != nil {
			return s.persistFailure(span, s.messages.AddError, err)
		}
		s.publish()
		s.notifier.Success(s.messages.AddSuccess)
		return nil
	}
}

// RemoveProduct removes productID from the cart. Removing a product that is
// not in the cart is reported as a failure and returns ErrNotFound.
func (s *Store) RemoveProduct(productID int) error {
	_, span := s.tracer.Start(context.Background(), "cart.RemoveProduct",
		trace.WithAttributes(attribute.Int("app.product_id", productID)))
	defer span.End()

	s.mu.Lock()
	i := s.cart.index(productID)
	if i < 0 {
		s.mu.Unlock()
		span.SetStatus(codes.Error, ErrNotFound.Error())
		s.notifier.Error(s.messages.RemoveError)
		return ErrNotFound
	}

	next := make(Cart, 0, len(s.cart)-1)
	next = append(next, s.cart[:i]...)
	next = append(next, s.cart[i+1:]...)

	err := s.commitLocked(next)
	s.mu.Unlock()
	if err != nil {
		return s.persistFailure(span, s.messages.RemoveError, err)
	}
	s.publish()
	s.notifier.Success(s.messages.RemoveSuccess)
	return nil
}

// UpdateProductAmount sets the amount of an entry, keeping its position.
//
// An amount <= 0 is ignored without any notification; decrementing to zero
// goes through RemoveProduct. Updating a product that is not in the cart
// succeeds without changing anything.
func (s *Store) UpdateProductAmount(ctx context.Context, req UpdateProductAmount) error {
	if req.Amount <= 0 {
		return nil
	}

	ctx, span := s.tracer.Start(ctx, "cart.UpdateProductAmount",
		trace.WithAttributes(
			attribute.Int("app.product_id", req.ProductID),
			attribute.Int("app.amount", req.Amount),
		))
	defer span.End()

	stock, err := s.catalog.Stock(ctx, req.ProductID)
	if err != nil {
		return s.transportFailure(span, "update product amount", req.ProductID, s.messages.UpdateError, err)
	}
	if req.Amount > stock.Amount {
		return s.stockExceeded(span, req.ProductID, req.Amount, stock.Amount)
	}

	s.mu.Lock()
	i := s.cart.index(req.ProductID)
	if i < 0 || s.cart[i].Amount == req.Amount {
		s.mu.Unlock()
		s.notifier.Success(s.messages.UpdateSuccess)
		return nil
	}

	next := s.cart.Clone()
	next[i].Amount = req.Amount

	err = s.commitLocked(next)
	s.mu.Unlock()
	if err != nil {
		return s.persistFailure(span, s.messages.UpdateError, err)
	}
	s.publish()
	s.notifier.Success(s.messages.UpdateSuccess)
	return nil
}

// commitLocked persists next, makes it the current snapshot and queues it
// for subscribers. s.mu must be held.
func (s *Store) commitLocked(next Cart) error {
	data, err := Encode(next)
	if err != nil {
		return err
	}
	if err := s.storage.Set(s.key, data); err != nil {
		return err
	}
	s.cart = next

	if len(s.subs) == 0 {
		return nil
	}
	subs := make([]func(Cart), 0, len(s.subs))
	for _, fn := range s.subs {
		subs = append(subs, fn)
	}
	s.pending = append(s.pending, delivery{subs: subs, snapshot: next})
	return nil
}

// publish delivers queued snapshots in commit order. It returns once every
// snapshot queued before the call has been delivered. s.mu must not be held.
func (s *Store) publish() {
	s.pubMu.Lock()
	defer s.pubMu.Unlock()

	for {
		s.mu.Lock()
		if len(s.pending) == 0 {
			s.mu.Unlock()
			return
		}
		d := s.pending[0]
		s.pending = s.pending[1:]
		s.mu.Unlock()

		for _, fn := range d.subs {
			fn(d.snapshot.Clone())
		}
	}
}

func (s *Store) stockExceeded(span trace.Span, productID, requested, available int) error {
	span.SetAttributes(attribute.Int("app.stock", available))
	span.SetStatus(codes.Error, ErrStockExceeded.Error())
	s.log.WithFields(logrus.Fields{
		"product_id": productID,
		"requested":  requested,
		"stock":      available,
	}).Debug("stock exceeded")
	s.notifier.Error(s.messages.StockExceeded)
	return ErrStockExceeded
}

func (s *Store) transportFailure(span trace.Span, op string, productID int, msg string, cause error) error {
	span.RecordError(cause)
	span.SetStatus(codes.Error, op+" failed")
	s.log.WithError(cause).WithField("product_id", productID).Debug(op + " failed")
	s.notifier.Error(msg)
	return &TransportError{Op: op, Err: cause}
}

func (s *Store) persistFailure(span trace.Span, msg string, cause error) error {
	span.RecordError(cause)
	span.SetStatus(codes.Error, ErrPersistence.Error())
	s.log.WithError(cause).Warn("persisting cart failed")
	s.notifier.Error(msg)
	return fmt.Errorf("%w: %w", ErrPersistence, cause)
}

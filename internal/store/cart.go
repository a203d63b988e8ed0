package store

import (
	"context"
	"log/slog"
	"sync"

	"github.com/bichitomultihogar/elcausa/internal/domain"
	"github.com/bichitomultihogar/elcausa/internal/repository"
	apperrors "github.com/bichitomultihogar/elcausa/pkg/errors"
)

// CartStore holds one session's cart, hydrated from and written through to
// a StateRepository. Mutations are rejected until Load has run.
type CartStore struct {
	mu      sync.Mutex
	cart    domain.Cart
	state   domain.LoadState
	pricing domain.DeliveryPricing
	persist persister
}

// NewCartStore creates an uninitialized cart store persisting under key.
func NewCartStore(repo repository.StateRepository, key string, pricing domain.DeliveryPricing, logger *slog.Logger, metrics *Metrics) *CartStore {
	return &CartStore{
		cart:    domain.Cart{Items: []domain.CartItem{}},
		pricing: pricing,
		persist: persister{name: "cart", key: key, repo: repo, logger: logger, metrics: metrics},
	}
}

// Load replaces the in-memory cart with the persisted one. Unreadable data
// or a storage failure leaves the cart empty in StateError.
func (s *CartStore) Load(ctx context.Context) domain.LoadState {
	s.mu.Lock()
	defer s.mu.Unlock()

	var items []domain.CartItem
	s.state = s.persist.load(ctx, &items)

	s.cart = domain.Cart{Items: []domain.CartItem{}}
	if s.state == domain.StateLoaded && items != nil {
		s.cart.Items = items
		s.cart.Normalize()
	}
	return s.state
}

// State returns the load lifecycle state.
func (s *CartStore) State() domain.LoadState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// AddToCart adds one unit of p.
func (s *CartStore) AddToCart(ctx context.Context, p domain.Product) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.ready(); err != nil {
		return err
	}
	s.cart.Add(p)
	s.save(ctx)
	return nil
}

// UpdateQuantity sets the quantity of an item already in the cart; zero
// removes it. Unknown ids are ignored and negative quantities rejected.
func (s *CartStore) UpdateQuantity(ctx context.Context, productID string, quantity int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.ready(); err != nil {
		return err
	}
	if quantity < 0 {
		return apperrors.InvalidInput("quantity must not be negative")
	}
	if s.cart.SetQuantity(productID, quantity) {
		s.save(ctx)
	}
	return nil
}

// ClearCart empties the cart.
func (s *CartStore) ClearCart(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.ready(); err != nil {
		return err
	}
	s.cart.Clear()
	s.save(ctx)
	return nil
}

// Items returns a copy of the cart lines in insertion order.
func (s *CartStore) Items() []domain.CartItem {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cart.Snapshot()
}

func (s *CartStore) TotalPrice() int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cart.TotalPrice()
}

func (s *CartStore) TotalItems() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cart.TotalItems()
}

func (s *CartStore) DeliveryFee() int64 {
	return s.pricing.DeliveryFee(s.TotalPrice())
}

func (s *CartStore) FinalTotal() int64 {
	return s.pricing.Total(s.TotalPrice())
}

func (s *CartStore) RemainingForFreeDelivery() int64 {
	return s.pricing.RemainingForFree(s.TotalPrice())
}

// Totals returns every derived amount computed from one consistent read.
func (s *CartStore) Totals() domain.Totals {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.pricing.TotalsFor(&s.cart)
}

func (s *CartStore) ready() error {
	if !s.state.Hydrated() {
		return apperrors.NotLoaded("cart")
	}
	return nil
}

func (s *CartStore) save(ctx context.Context) {
	s.persist.save(ctx, s.cart.Items)
}

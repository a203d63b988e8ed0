package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/bichitomultihogar/elcausa/internal/catalog"
	"github.com/bichitomultihogar/elcausa/internal/checkout"
	"github.com/bichitomultihogar/elcausa/internal/domain"
	"github.com/bichitomultihogar/elcausa/internal/repository"
	"github.com/bichitomultihogar/elcausa/internal/store"
	apperrors "github.com/bichitomultihogar/elcausa/pkg/errors"
	"github.com/bichitomultihogar/elcausa/pkg/pagination"
	"github.com/bichitomultihogar/elcausa/pkg/tracing"
)

const tracerName = "github.com/bichitomultihogar/elcausa/internal/service"

// EventPublisher is the event sink of the storefront. Publish failures are
// logged and never fail the shopper's request.
type EventPublisher interface {
	PublishCartUpdated(ctx context.Context, sessionID string, items []domain.CartItem, totals domain.Totals) error
	PublishCartCleared(ctx context.Context, sessionID string) error
	PublishFavoritesUpdated(ctx context.Context, sessionID string, ids []string) error
	PublishOrderDispatched(ctx context.Context, sessionID string, res *checkout.Result) error
}

// Config holds the storefront settings.
type Config struct {
	Pricing         domain.DeliveryPricing
	Formatter       checkout.Formatter
	ProcessingDelay time.Duration
	Sleep           checkout.SleepFunc
	TransferContact string
}

// CartView is the cart as returned to the shopper.
type CartView struct {
	Items  []domain.CartItem `json:"items"`
	Totals domain.Totals     `json:"totals"`
	State  domain.LoadState  `json:"state"`
}

// FavoritesView is the favorites set with the matching catalog products.
type FavoritesView struct {
	IDs      []string         `json:"ids"`
	Products []domain.Product `json:"products"`
	Count    int              `json:"count"`
	State    domain.LoadState `json:"state"`
}

// FavoriteStatus reports membership of one product.
type FavoriteStatus struct {
	ProductID  string           `json:"productId"`
	IsFavorite bool             `json:"isFavorite"`
	State      domain.LoadState `json:"state"`
}

// Storefront implements the shopper operations. Each call hydrates the
// session's stores, applies the operation and writes through.
type Storefront struct {
	catalog    *catalog.Catalog
	repo       repository.StateRepository
	dispatcher *checkout.Dispatcher
	events     EventPublisher
	logger     *slog.Logger
	storeStats *store.Metrics
	metrics    *Metrics
	cfg        Config
	locks      sessionLocks
}

// NewStorefront creates the storefront service.
func NewStorefront(
	cat *catalog.Catalog,
	repo repository.StateRepository,
	dispatcher *checkout.Dispatcher,
	events EventPublisher,
	logger *slog.Logger,
	storeStats *store.Metrics,
	metrics *Metrics,
	cfg Config,
) *Storefront {
	return &Storefront{
		catalog:    cat,
		repo:       repo,
		dispatcher: dispatcher,
		events:     events,
		logger:     logger,
		storeStats: storeStats,
		metrics:    metrics,
		cfg:        cfg,
	}
}

// --- Catalog ---

// Categories lists the catalog categories.
func (s *Storefront) Categories() []domain.Category {
	return s.catalog.Categories()
}

// ListProducts filters the catalog and returns one page of the result.
func (s *Storefront) ListProducts(category, query string, params pagination.Params) pagination.Result[domain.Product] {
	return pagination.Paginate(s.catalog.Filter(category, query), params)
}

// GetProduct resolves a product by slug or id.
func (s *Storefront) GetProduct(slugOrID string) (domain.Product, error) {
	p, ok := s.catalog.BySlug(slugOrID)
	if !ok {
		return domain.Product{}, apperrors.NotFound("product", slugOrID)
	}
	return p, nil
}

// --- Cart ---

func (s *Storefront) openCart(ctx context.Context, sessionID string) *store.CartStore {
	cs := store.NewCartStore(s.repo, repository.SessionKey(repository.CartKey, sessionID), s.cfg.Pricing, s.logger, s.storeStats)
	cs.Load(ctx)
	return cs
}

func cartView(cs *store.CartStore) *CartView {
	return &CartView{Items: cs.Items(), Totals: cs.Totals(), State: cs.State()}
}

// GetCart returns the session's cart.
func (s *Storefront) GetCart(ctx context.Context, sessionID string) (*CartView, error) {
	if sessionID == "" {
		return nil, apperrors.InvalidInput("session id is required")
	}
	unlock := s.locks.lock(sessionID)
	defer unlock()

	return cartView(s.openCart(ctx, sessionID)), nil
}

// AddToCart adds quantity units of a catalog product, one add at a time.
func (s *Storefront) AddToCart(ctx context.Context, sessionID, productID string, quantity int) (*CartView, error) {
	if sessionID == "" {
		return nil, apperrors.InvalidInput("session id is required")
	}
	if quantity < 1 {
		return nil, apperrors.InvalidInput("quantity must be at least 1")
	}
	p, ok := s.catalog.ByID(productID)
	if !ok {
		return nil, apperrors.NotFound("product", productID)
	}
	if !p.Available {
		return nil, apperrors.Conflict(fmt.Sprintf("product %s is out of stock", p.ID))
	}

	unlock := s.locks.lock(sessionID)
	cs := s.openCart(ctx, sessionID)
	for range quantity {
		if err := cs.AddToCart(ctx, p); err != nil {
			unlock()
			return nil, err
		}
	}
	view := cartView(cs)
	unlock()

	s.logger.InfoContext(ctx, "product added to cart",
		slog.String("product_id", p.ID),
		slog.Int("quantity", quantity),
		slog.Int("total_items", view.Totals.TotalItems),
	)
	s.publishCartUpdated(ctx, sessionID, view)
	return view, nil
}

// UpdateQuantity sets the quantity of a line; zero removes it.
func (s *Storefront) UpdateQuantity(ctx context.Context, sessionID, productID string, quantity int) (*CartView, error) {
	if sessionID == "" {
		return nil, apperrors.InvalidInput("session id is required")
	}

	unlock := s.locks.lock(sessionID)
	cs := s.openCart(ctx, sessionID)
	if err := cs.UpdateQuantity(ctx, productID, quantity); err != nil {
		unlock()
		return nil, err
	}
	view := cartView(cs)
	unlock()

	s.logger.InfoContext(ctx, "cart quantity updated",
		slog.String("product_id", productID),
		slog.Int("quantity", quantity),
	)
	s.publishCartUpdated(ctx, sessionID, view)
	return view, nil
}

// RemoveFromCart is UpdateQuantity with zero.
func (s *Storefront) RemoveFromCart(ctx context.Context, sessionID, productID string) (*CartView, error) {
	return s.UpdateQuantity(ctx, sessionID, productID, 0)
}

// ClearCart empties the session's cart.
func (s *Storefront) ClearCart(ctx context.Context, sessionID string) (*CartView, error) {
	if sessionID == "" {
		return nil, apperrors.InvalidInput("session id is required")
	}

	unlock := s.locks.lock(sessionID)
	cs := s.openCart(ctx, sessionID)
	if err := cs.ClearCart(ctx); err != nil {
		unlock()
		return nil, err
	}
	view := cartView(cs)
	unlock()

	s.logger.InfoContext(ctx, "cart cleared")
	s.publishCartCleared(ctx, sessionID)
	return view, nil
}

// --- Favorites ---

func (s *Storefront) openFavorites(ctx context.Context, sessionID string) *store.FavoritesStore {
	fs := store.NewFavoritesStore(s.repo, repository.SessionKey(repository.FavoritesKey, sessionID), s.logger, s.storeStats)
	fs.Load(ctx)
	return fs
}

func (s *Storefront) favoritesView(fs *store.FavoritesStore) *FavoritesView {
	ids := fs.IDs()
	return &FavoritesView{
		IDs:      ids,
		Products: s.catalog.Favorites(ids),
		Count:    len(ids),
		State:    fs.State(),
	}
}

// GetFavorites returns the session's favorites.
func (s *Storefront) GetFavorites(ctx context.Context, sessionID string) (*FavoritesView, error) {
	if sessionID == "" {
		return nil, apperrors.InvalidInput("session id is required")
	}
	unlock := s.locks.lock(sessionID)
	defer unlock()

	return s.favoritesView(s.openFavorites(ctx, sessionID)), nil
}

// IsFavorite reports whether productID is a favorite of the session.
func (s *Storefront) IsFavorite(ctx context.Context, sessionID, productID string) (*FavoriteStatus, error) {
	if sessionID == "" {
		return nil, apperrors.InvalidInput("session id is required")
	}
	unlock := s.locks.lock(sessionID)
	defer unlock()

	fs := s.openFavorites(ctx, sessionID)
	return &FavoriteStatus{ProductID: productID, IsFavorite: fs.IsFavorite(productID), State: fs.State()}, nil
}

// ToggleFavorite flips membership. Ids outside the catalog are accepted,
// as the original storefront stored whatever id the page handed it.
func (s *Storefront) ToggleFavorite(ctx context.Context, sessionID, productID string) (*FavoriteStatus, error) {
	return s.mutateFavorites(ctx, sessionID, productID, func(fs *store.FavoritesStore) error {
		_, err := fs.ToggleFavorite(ctx, productID)
		return err
	})
}

// AddToFavorites is idempotent.
func (s *Storefront) AddToFavorites(ctx context.Context, sessionID, productID string) (*FavoriteStatus, error) {
	return s.mutateFavorites(ctx, sessionID, productID, func(fs *store.FavoritesStore) error {
		return fs.AddToFavorites(ctx, productID)
	})
}

// RemoveFromFavorites is idempotent.
func (s *Storefront) RemoveFromFavorites(ctx context.Context, sessionID, productID string) (*FavoriteStatus, error) {
	return s.mutateFavorites(ctx, sessionID, productID, func(fs *store.FavoritesStore) error {
		return fs.RemoveFromFavorites(ctx, productID)
	})
}

// ClearFavorites empties the set.
func (s *Storefront) ClearFavorites(ctx context.Context, sessionID string) (*FavoritesView, error) {
	if sessionID == "" {
		return nil, apperrors.InvalidInput("session id is required")
	}

	unlock := s.locks.lock(sessionID)
	fs := s.openFavorites(ctx, sessionID)
	if err := fs.ClearFavorites(ctx); err != nil {
		unlock()
		return nil, err
	}
	view := s.favoritesView(fs)
	unlock()

	s.publishFavoritesUpdated(ctx, sessionID, view.IDs)
	return view, nil
}

func (s *Storefront) mutateFavorites(ctx context.Context, sessionID, productID string, op func(*store.FavoritesStore) error) (*FavoriteStatus, error) {
	if sessionID == "" {
		return nil, apperrors.InvalidInput("session id is required")
	}

	unlock := s.locks.lock(sessionID)
	fs := s.openFavorites(ctx, sessionID)
	if err := op(fs); err != nil {
		unlock()
		return nil, err
	}
	status := &FavoriteStatus{ProductID: productID, IsFavorite: fs.IsFavorite(productID), State: fs.State()}
	ids := fs.IDs()
	unlock()

	s.logger.InfoContext(ctx, "favorites updated",
		slog.String("product_id", productID),
		slog.Bool("is_favorite", status.IsFavorite),
		slog.Int("count", len(ids)),
	)
	s.publishFavoritesUpdated(ctx, sessionID, ids)
	return status, nil
}

// --- Checkout ---

// Checkout runs the checkout dialog for the session's cart: open, fill with
// customer, submit. On success the cart is cleared.
func (s *Storefront) Checkout(ctx context.Context, sessionID string, customer domain.CustomerData) (*checkout.Result, error) {
	if sessionID == "" {
		return nil, apperrors.InvalidInput("session id is required")
	}

	ctx, span := tracing.Tracer(tracerName).Start(ctx, "Storefront.Checkout")
	defer span.End()
	span.SetAttributes(attribute.String("checkout.payment_method", string(customer.PaymentMethod)))

	unlock := s.locks.lock(sessionID)
	cs := s.openCart(ctx, sessionID)
	flow := checkout.NewFlow(cs, checkout.FlowConfig{
		Dispatcher:      s.dispatcher,
		Formatter:       s.cfg.Formatter,
		ProcessingDelay: s.cfg.ProcessingDelay,
		Sleep:           s.cfg.Sleep,
		TransferContact: s.cfg.TransferContact,
	})

	res, err := s.runFlow(ctx, flow, customer)
	unlock()

	method := string(flow.Customer().PaymentMethod)
	if res != nil {
		method = string(res.PaymentMethod)
	}

	if res == nil {
		s.metrics.observeCheckout(method, outcome(err))
		span.SetStatus(codes.Error, err.Error())
		s.logger.WarnContext(ctx, "checkout rejected",
			slog.String("payment_method", method),
			slog.String("error", err.Error()),
		)
		return nil, err
	}

	// The order already left through the dispatcher; a clear failure is
	// reported in logs only.
	if err != nil {
		s.logger.ErrorContext(ctx, "checkout dispatched but cart not cleared",
			slog.String("reference", res.Reference),
			slog.String("error", err.Error()),
		)
	}

	s.metrics.observeCheckout(method, "dispatched")
	s.metrics.observeOrderTotal(res.Totals.Total)
	span.SetAttributes(attribute.String("checkout.reference", res.Reference))

	s.logger.InfoContext(ctx, "order dispatched",
		slog.String("reference", res.Reference),
		slog.String("payment_method", method),
		slog.Int64("total", res.Totals.Total),
		slog.Int("total_items", res.Totals.TotalItems),
	)

	if err := s.events.PublishOrderDispatched(ctx, sessionID, res); err != nil {
		s.logger.ErrorContext(ctx, "failed to publish order.dispatched event", slog.String("error", err.Error()))
	}
	s.publishCartCleared(ctx, sessionID)
	return res, nil
}

// runFlow drives one dialog pass. A rejected or cancelled pass closes the
// dialog so the flow is Idle again with the form kept.
func (s *Storefront) runFlow(ctx context.Context, flow *checkout.Flow, customer domain.CustomerData) (*checkout.Result, error) {
	if err := flow.Open(); err != nil {
		return nil, err
	}
	if err := flow.Fill(customer); err != nil {
		flow.Close()
		return nil, err
	}
	res, err := flow.Submit(ctx)
	if res == nil {
		flow.Close()
	}
	return res, err
}

func outcome(err error) string {
	switch {
	case errors.Is(err, apperrors.ErrInvalidInput):
		return "rejected"
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return "cancelled"
	default:
		return "failed"
	}
}

// --- Events ---

func (s *Storefront) publishCartUpdated(ctx context.Context, sessionID string, view *CartView) {
	if err := s.events.PublishCartUpdated(ctx, sessionID, view.Items, view.Totals); err != nil {
		s.logger.ErrorContext(ctx, "failed to publish cart.updated event", slog.String("error", err.Error()))
	}
}

func (s *Storefront) publishCartCleared(ctx context.Context, sessionID string) {
	if err := s.events.PublishCartCleared(ctx, sessionID); err != nil {
		s.logger.ErrorContext(ctx, "failed to publish cart.cleared event", slog.String("error", err.Error()))
	}
}

func (s *Storefront) publishFavoritesUpdated(ctx context.Context, sessionID string, ids []string) {
	if err := s.events.PublishFavoritesUpdated(ctx, sessionID, ids); err != nil {
		s.logger.ErrorContext(ctx, "failed to publish favorites.updated event", slog.String("error", err.Error()))
	}
}

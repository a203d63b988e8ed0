package checkout

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bichitomultihogar/elcausa/internal/domain"
	apperrors "github.com/bichitomultihogar/elcausa/pkg/errors"
	"github.com/bichitomultihogar/elcausa/pkg/logger"
)

type fakeCart struct {
	cart     domain.Cart
	pricing  domain.DeliveryPricing
	clearErr error
	clears   int
}

func newFakeCart(items ...domain.CartItem) *fakeCart {
	return &fakeCart{cart: domain.Cart{Items: items}, pricing: domain.DefaultDeliveryPricing()}
}

func (c *fakeCart) Items() []domain.CartItem { return c.cart.Snapshot() }
func (c *fakeCart) Totals() domain.Totals    { return c.pricing.TotalsFor(&c.cart) }
func (c *fakeCart) ClearCart(context.Context) error {
	c.clears++
	if c.clearErr != nil {
		return c.clearErr
	}
	c.cart.Clear()
	return nil
}

type sleepRecorder struct {
	slept []time.Duration
	err   error
	// during runs while the flow is processing.
	during func()
}

func (s *sleepRecorder) Sleep(ctx context.Context, d time.Duration) error {
	s.slept = append(s.slept, d)
	if s.during != nil {
		s.during()
	}
	return s.err
}

func newTestFlow(cart Cart, opener LinkOpener, sleep *sleepRecorder) *Flow {
	return NewFlow(cart, FlowConfig{
		Dispatcher:      NewDispatcher("wa.me", "543521539991", opener, logger.Discard()),
		ProcessingDelay: 2 * time.Second,
		Sleep:           sleep.Sleep,
		TransferContact: "+54 9 11 2345-6789",
		NewReference:    func() string { return "order-1" },
		Now:             func() time.Time { return time.Date(2026, 3, 14, 21, 0, 0, 0, time.UTC) },
	})
}

func TestFlow_HappyPath(t *testing.T) {
	cart := newFakeCart(sampleItems()...)
	opener := &recordingOpener{}
	sleep := &sleepRecorder{}
	f := newTestFlow(cart, opener, sleep)

	assert.Equal(t, PhaseIdle, f.Phase())
	require.NoError(t, f.Open())
	assert.Equal(t, PhaseFilling, f.Phase())
	require.NoError(t, f.Fill(sampleCustomer(domain.PaymentCash)))

	sleep.during = func() { assert.Equal(t, PhaseProcessing, f.Phase()) }
	res, err := f.Submit(context.Background())
	require.NoError(t, err)

	assert.Equal(t, []time.Duration{2 * time.Second}, sleep.slept)
	assert.Equal(t, "order-1", res.Reference)
	assert.Equal(t, []string{res.Link}, opener.links)
	assert.True(t, strings.HasPrefix(res.Link, "https://wa.me/543521539991?text="))
	assert.Equal(t, FormatMessage(sampleItems(), sampleCustomer(domain.PaymentCash), 13000, 0, 13000), res.Message)
	assert.Equal(t, int64(13000), res.Totals.Total)
	assert.Len(t, res.Items, 2)
	assert.Empty(t, res.TransferContact)
	assert.Equal(t, "30 min - 45 min", res.ETA)

	assert.Equal(t, PhaseIdle, f.Phase())
	assert.Equal(t, 1, cart.clears)
	assert.Empty(t, cart.Items())
	assert.Equal(t, domain.NewCustomerData(), f.Customer())
}

func TestFlow_TransferCarriesContact(t *testing.T) {
	f := newTestFlow(newFakeCart(sampleItems()...), &recordingOpener{}, &sleepRecorder{})
	require.NoError(t, f.Open())
	require.NoError(t, f.Fill(sampleCustomer(domain.PaymentTransfer)))

	res, err := f.Submit(context.Background())
	require.NoError(t, err)

	assert.Equal(t, "+54 9 11 2345-6789", res.TransferContact)
	assert.Equal(t, domain.PaymentTransfer, res.PaymentMethod)
	assert.Contains(t, res.Message, "Esperando comprobante de transferencia")
}

func TestFlow_MissingFields(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*domain.CustomerData)
		missing string
	}{
		{"name", func(c *domain.CustomerData) { c.Name = "" }, "name"},
		{"phone", func(c *domain.CustomerData) { c.Phone = "   " }, "phone"},
		{"address", func(c *domain.CustomerData) { c.Address = "" }, "address"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			opener := &recordingOpener{}
			sleep := &sleepRecorder{}
			cart := newFakeCart(sampleItems()...)
			f := newTestFlow(cart, opener, sleep)
			require.NoError(t, f.Open())

			customer := sampleCustomer(domain.PaymentCash)
			tc.mutate(&customer)
			require.NoError(t, f.Fill(customer))

			_, err := f.Submit(context.Background())
			require.Error(t, err)
			assert.ErrorIs(t, err, apperrors.ErrInvalidInput)
			assert.Contains(t, err.Error(), tc.missing)

			assert.Equal(t, PhaseFilling, f.Phase())
			assert.Empty(t, sleep.slept)
			assert.Empty(t, opener.links)
			assert.Zero(t, cart.clears)
		})
	}
}

func TestFlow_DetailsOptional(t *testing.T) {
	f := newTestFlow(newFakeCart(sampleItems()...), &recordingOpener{}, &sleepRecorder{})
	require.NoError(t, f.Open())
	customer := sampleCustomer(domain.PaymentMercadoPago)
	customer.Details = ""
	require.NoError(t, f.Fill(customer))

	res, err := f.Submit(context.Background())
	require.NoError(t, err)
	assert.Contains(t, res.Message, "Sin detalles adicionales")
}

func TestFlow_EmptyCart(t *testing.T) {
	opener := &recordingOpener{}
	f := newTestFlow(newFakeCart(), opener, &sleepRecorder{})
	require.NoError(t, f.Open())
	require.NoError(t, f.Fill(sampleCustomer(domain.PaymentCash)))

	_, err := f.Submit(context.Background())

	assert.ErrorIs(t, err, apperrors.ErrInvalidInput)
	assert.Empty(t, opener.links)
}

func TestFlow_SubmitWhenNotOpen(t *testing.T) {
	f := newTestFlow(newFakeCart(sampleItems()...), &recordingOpener{}, &sleepRecorder{})

	_, err := f.Submit(context.Background())
	assert.ErrorIs(t, err, apperrors.ErrInvalidInput)

	assert.ErrorIs(t, f.Fill(sampleCustomer(domain.PaymentCash)), apperrors.ErrInvalidInput)
}

func TestFlow_CancelledDuringProcessing(t *testing.T) {
	opener := &recordingOpener{}
	cart := newFakeCart(sampleItems()...)
	f := newTestFlow(cart, opener, &sleepRecorder{err: context.Canceled})
	require.NoError(t, f.Open())
	require.NoError(t, f.Fill(sampleCustomer(domain.PaymentCash)))

	_, err := f.Submit(context.Background())

	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, PhaseFilling, f.Phase())
	assert.Empty(t, opener.links)
	assert.Zero(t, cart.clears)
	assert.Equal(t, "Ana Pérez", f.Customer().Name)
}

func TestFlow_OpenWhileProcessing(t *testing.T) {
	sleep := &sleepRecorder{}
	f := newTestFlow(newFakeCart(sampleItems()...), &recordingOpener{}, sleep)
	require.NoError(t, f.Open())
	require.NoError(t, f.Fill(sampleCustomer(domain.PaymentCash)))

	sleep.during = func() {
		assert.ErrorIs(t, f.Open(), apperrors.ErrConflict)
		_, err := f.Submit(context.Background())
		assert.ErrorIs(t, err, apperrors.ErrInvalidInput)
	}

	_, err := f.Submit(context.Background())
	require.NoError(t, err)
}

func TestFlow_ClearFailureStillReturnsResult(t *testing.T) {
	cart := newFakeCart(sampleItems()...)
	cart.clearErr = errors.New("not loaded")
	f := newTestFlow(cart, &recordingOpener{}, &sleepRecorder{})
	require.NoError(t, f.Open())
	require.NoError(t, f.Fill(sampleCustomer(domain.PaymentCash)))

	res, err := f.Submit(context.Background())

	require.Error(t, err)
	require.NotNil(t, res)
	assert.NotEmpty(t, res.Link)
	assert.Equal(t, PhaseIdle, f.Phase())
}

func TestFlow_FillRules(t *testing.T) {
	f := newTestFlow(newFakeCart(sampleItems()...), &recordingOpener{}, &sleepRecorder{})
	require.NoError(t, f.Open())
	require.NoError(t, f.Open())

	customer := sampleCustomer("")
	require.NoError(t, f.Fill(customer))
	assert.Equal(t, domain.PaymentCash, f.Customer().PaymentMethod)

	customer.PaymentMethod = "bitcoin"
	assert.ErrorIs(t, f.Fill(customer), apperrors.ErrInvalidInput)

	f.Close()
	assert.Equal(t, PhaseIdle, f.Phase())
	assert.Equal(t, "Ana Pérez", f.Customer().Name)
}

func TestSleep(t *testing.T) {
	assert.NoError(t, Sleep(context.Background(), 0))
	assert.NoError(t, Sleep(context.Background(), time.Millisecond))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, Sleep(ctx, time.Hour), context.Canceled)
}

func TestPhase_String(t *testing.T) {
	assert.Equal(t, "idle", PhaseIdle.String())
	assert.Equal(t, "filling", PhaseFilling.String())
	assert.Equal(t, "processing", PhaseProcessing.String())
	assert.Equal(t, "dispatched", PhaseDispatched.String())
}

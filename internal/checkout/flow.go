package checkout

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/bichitomultihogar/elcausa/internal/domain"
	apperrors "github.com/bichitomultihogar/elcausa/pkg/errors"
)

// DefaultProcessingDelay is the simulated pause before the message is sent.
const DefaultProcessingDelay = 2 * time.Second

// Phase is a state of the checkout dialog.
type Phase int

const (
	PhaseIdle Phase = iota
	PhaseFilling
	PhaseProcessing
	PhaseDispatched
)

func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "idle"
	case PhaseFilling:
		return "filling"
	case PhaseProcessing:
		return "processing"
	case PhaseDispatched:
		return "dispatched"
	default:
		return fmt.Sprintf("Phase(%d)", int(p))
	}
}

// Cart is what the flow needs from the cart store.
type Cart interface {
	Items() []domain.CartItem
	Totals() domain.Totals
	ClearCart(ctx context.Context) error
}

// SleepFunc pauses for d or until ctx is done.
type SleepFunc func(ctx context.Context, d time.Duration) error

// Sleep is the production SleepFunc.
func Sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

// FlowConfig holds the collaborators and settings of a Flow.
type FlowConfig struct {
	Dispatcher      *Dispatcher
	Formatter       Formatter
	ProcessingDelay time.Duration
	Sleep           SleepFunc
	TransferContact string
	NewReference    func() string
	Now             func() time.Time
}

// Result describes a dispatched order.
type Result struct {
	Reference       string               `json:"reference"`
	Message         string               `json:"message"`
	Link            string               `json:"link"`
	Items           []domain.CartItem    `json:"items"`
	Totals          domain.Totals        `json:"totals"`
	PaymentMethod   domain.PaymentMethod `json:"paymentMethod"`
	TransferContact string               `json:"transferContact,omitempty"`
	ETA             string               `json:"eta"`
	DispatchedAt    time.Time            `json:"dispatchedAt"`
}

// Flow is the checkout dialog: Idle, Filling after Open, Processing while
// the simulated pause runs, Dispatched once the link is handed off, then
// Idle again with the cart cleared and the form reset.
type Flow struct {
	mu       sync.Mutex
	phase    Phase
	customer domain.CustomerData
	cart     Cart
	cfg      FlowConfig
}

// NewFlow creates an idle flow for cart.
func NewFlow(cart Cart, cfg FlowConfig) *Flow {
	if cfg.Sleep == nil {
		cfg.Sleep = Sleep
	}
	if cfg.NewReference == nil {
		cfg.NewReference = uuid.NewString
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	return &Flow{
		phase:    PhaseIdle,
		customer: domain.NewCustomerData(),
		cart:     cart,
		cfg:      cfg,
	}
}

func (f *Flow) Phase() Phase {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.phase
}

func (f *Flow) Customer() domain.CustomerData {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.customer
}

// Open moves Idle to Filling. Opening an already open dialog is a no-op.
func (f *Flow) Open() error {
	f.mu.Lock()
	defer f.mu.Unlock()

	switch f.phase {
	case PhaseIdle:
		f.phase = PhaseFilling
		return nil
	case PhaseFilling:
		return nil
	default:
		return apperrors.Conflict("checkout is " + f.phase.String())
	}
}

// Close abandons the form and returns to Idle. The form contents survive,
// as they do when the dialog is closed and reopened.
func (f *Flow) Close() {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.phase == PhaseFilling {
		f.phase = PhaseIdle
	}
}

// Fill replaces the form. An empty payment method keeps the current one.
func (f *Flow) Fill(c domain.CustomerData) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.phase != PhaseFilling {
		return apperrors.InvalidInput("checkout form is not open")
	}
	if c.PaymentMethod == "" {
		c.PaymentMethod = f.customer.PaymentMethod
	}
	if !c.PaymentMethod.Valid() {
		return apperrors.InvalidInput(fmt.Sprintf("unknown payment method %q", c.PaymentMethod))
	}
	f.customer = c
	return nil
}

// TransferContact is shown when the shopper picks bank transfer.
func (f *Flow) TransferContact() string {
	return f.cfg.TransferContact
}

// Submit validates the form, waits out the processing delay, dispatches the
// message built from the cart at that moment, then clears the cart and
// resets the form. A cancelled ctx during the delay returns to Filling with
// nothing sent.
func (f *Flow) Submit(ctx context.Context) (*Result, error) {
	f.mu.Lock()
	if f.phase != PhaseFilling {
		phase := f.phase
		f.mu.Unlock()
		return nil, apperrors.InvalidInput("checkout cannot be submitted while " + phase.String())
	}
	customer := f.customer
	if missing := customer.MissingFields(); len(missing) > 0 {
		f.mu.Unlock()
		return nil, apperrors.InvalidInput("missing required fields: " + strings.Join(missing, ", "))
	}
	if len(f.cart.Items()) == 0 {
		f.mu.Unlock()
		return nil, apperrors.InvalidInput("cart is empty")
	}
	f.phase = PhaseProcessing
	f.mu.Unlock()

	if err := f.cfg.Sleep(ctx, f.cfg.ProcessingDelay); err != nil {
		f.setPhase(PhaseFilling)
		return nil, fmt.Errorf("checkout processing: %w", err)
	}

	items := f.cart.Items()
	totals := f.cart.Totals()
	message := f.cfg.Formatter.Format(items, customer, totals.Subtotal, totals.DeliveryFee, totals.Total)
	link := f.cfg.Dispatcher.Dispatch(ctx, message)
	f.setPhase(PhaseDispatched)

	result := &Result{
		Reference:     f.cfg.NewReference(),
		Message:       message,
		Link:          link,
		Items:         items,
		Totals:        totals,
		PaymentMethod: customer.PaymentMethod,
		ETA:           f.cfg.Formatter.ETA(),
		DispatchedAt:  f.cfg.Now().UTC(),
	}
	if customer.PaymentMethod == domain.PaymentTransfer {
		result.TransferContact = f.TransferContact()
	}

	// The message is already out; a failed clear must not undo the order.
	clearErr := f.cart.ClearCart(ctx)

	f.mu.Lock()
	f.customer = domain.NewCustomerData()
	f.phase = PhaseIdle
	f.mu.Unlock()

	if clearErr != nil {
		return result, fmt.Errorf("clear cart after dispatch: %w", clearErr)
	}
	return result, nil
}

func (f *Flow) setPhase(p Phase) {
	f.mu.Lock()
	f.phase = p
	f.mu.Unlock()
}

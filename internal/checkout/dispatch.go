package checkout

import (
	"context"
	"log/slog"
	"strings"
)

const (
	DefaultWhatsAppDomain = "wa.me"
	DefaultWhatsAppPhone  = "543521539991"
)

// LinkOpener hands a deep link to whatever opens external links. There is
// no delivery confirmation.
type LinkOpener interface {
	Open(ctx context.Context, link string) error
}

// OpenerFunc adapts a function to LinkOpener.
type OpenerFunc func(ctx context.Context, link string) error

func (f OpenerFunc) Open(ctx context.Context, link string) error {
	return f(ctx, link)
}

// LogOpener records the link in the log. The HTTP layer hands the link to
// the browser, which does the actual opening.
func LogOpener(logger *slog.Logger) LinkOpener {
	return OpenerFunc(func(ctx context.Context, link string) error {
		logger.DebugContext(ctx, "whatsapp link ready", slog.Int("length", len(link)))
		return nil
	})
}

// Dispatcher builds WhatsApp deep links and fires them at a LinkOpener.
type Dispatcher struct {
	domain string
	phone  string
	opener LinkOpener
	logger *slog.Logger
}

// NewDispatcher creates a dispatcher. Empty domain or phone fall back to the defaults.
func NewDispatcher(domain, phone string, opener LinkOpener, logger *slog.Logger) *Dispatcher {
	if domain == "" {
		domain = DefaultWhatsAppDomain
	}
	if phone == "" {
		phone = DefaultWhatsAppPhone
	}
	return &Dispatcher{domain: domain, phone: phone, opener: opener, logger: logger}
}

// Link returns https://<domain>/<phone>?text=<message>.
func (d *Dispatcher) Link(message string) string {
	return "https://" + d.domain + "/" + d.phone + "?text=" + EncodeURIComponent(message)
}

// Dispatch opens the link for message and returns it. Opener failures are
// logged and otherwise ignored.
func (d *Dispatcher) Dispatch(ctx context.Context, message string) string {
	link := d.Link(message)
	if d.opener != nil {
		if err := d.opener.Open(ctx, link); err != nil {
			d.logger.WarnContext(ctx, "failed to open whatsapp link", slog.String("error", err.Error()))
		}
	}
	return link
}

const upperhex = "0123456789ABCDEF"

// EncodeURIComponent percent-encodes every byte outside
// A-Z a-z 0-9 - _ . ! ~ * ' ( ), matching the browser function of the same name.
func EncodeURIComponent(s string) string {
	var b strings.Builder
	b.Grow(len(s) * 3)
	for i := 0; i < len(s); i++ {
		c := s[i]
		if unreserved(c) {
			b.WriteByte(c)
			continue
		}
		b.WriteByte('%')
		b.WriteByte(upperhex[c>>4])
		b.WriteByte(upperhex[c&15])
	}
	return b.String()
}

func unreserved(c byte) bool {
	switch {
	case 'a' <= c && c <= 'z', 'A' <= c && c <= 'Z', '0' <= c && c <= '9':
		return true
	}
	switch c {
	case '-', '_', '.', '!', '~', '*', '\'', '(', ')':
		return true
	}
	return false
}

package store

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"

	"github.com/bichitomultihogar/elcausa/internal/domain"
	"github.com/bichitomultihogar/elcausa/internal/repository"
	apperrors "github.com/bichitomultihogar/elcausa/pkg/errors"
)

// persister reads and writes one serialized collection. Failures are logged
// and counted, never returned.
type persister struct {
	name    string
	key     string
	repo    repository.StateRepository
	logger  *slog.Logger
	metrics *Metrics
}

// load decodes the stored value into dst. A missing key leaves dst alone
// and counts as loaded.
func (p *persister) load(ctx context.Context, dst any) domain.LoadState {
	data, err := p.repo.Get(ctx, p.key)
	switch {
	case errors.Is(err, apperrors.ErrNotFound):
		p.metrics.observeLoad(p.name, domain.StateLoaded.String())
		return domain.StateLoaded
	case err != nil:
		p.fail(ctx, "read", err)
		p.metrics.observeLoad(p.name, domain.StateError.String())
		return domain.StateError
	}

	if err := json.Unmarshal(data, dst); err != nil {
		p.fail(ctx, "decode", err)
		p.metrics.observeLoad(p.name, domain.StateError.String())
		return domain.StateError
	}

	p.metrics.observeLoad(p.name, domain.StateLoaded.String())
	return domain.StateLoaded
}

// save writes the whole collection.
func (p *persister) save(ctx context.Context, v any) {
	data, err := json.Marshal(v)
	if err != nil {
		p.fail(ctx, "encode", err)
		return
	}
	if err := p.repo.Set(ctx, p.key, data); err != nil {
		p.fail(ctx, "write", err)
	}
}

func (p *persister) fail(ctx context.Context, op string, err error) {
	p.metrics.observeFailure(p.name, op)
	p.logger.ErrorContext(ctx, "store storage operation failed",
		slog.String("store", p.name),
		slog.String("operation", op),
		slog.String("key", p.key),
		slog.String("error", err.Error()),
	)
}

package docid

import (
	"log/slog"

	"netdoc/internal/comments"
	"netdoc/internal/metadata"
)

// Resolver looks members up in a comment store by their canonical identifier.
// A missing entry is not an error: the member simply has no documentation.
type Resolver struct {
	store  *comments.Store
	logger *slog.Logger
}

func NewResolver(store *comments.Store, logger *slog.Logger) *Resolver {
	if logger == nil {
		logger = slog.Default()
	}
	return &Resolver{store: store, logger: logger}
}

func (r *Resolver) Type(t *metadata.Type) *comments.Node {
	return r.lookup(ForType(t))
}

func (r *Resolver) Method(method *metadata.Method) *comments.Node {
	return r.lookup(ForMethod(method))
}

func (r *Resolver) Property(property *metadata.Property) *comments.Node {
	return r.lookup(ForProperty(property))
}

func (r *Resolver) lookup(id string) *comments.Node {
	fragment := r.store.Lookup(id)
	if fragment == nil {
		r.logger.Debug("No documentation found", "id", id)
	}
	return fragment
}

package connectors

import (
	"context"
	"fmt"
	"strings"

	"github.com/open-dcat/open-dcat/internal/catalog"
)

// Definition describes one connector variant: its identity, how raw
// connection parameters decode into a typed config, and how to construct a
// live Connector from that config.
type Definition interface {
	Kind() catalog.ConnectorKind
	DisplayName() string

	DecodeConfig(raw []byte) (any, error)
	ValidateConfig(cfg any) error

	New(ctx context.Context, cfg any) (Connector, error)
}

// Registry maps connector kinds to their definitions. Registration order is
// preserved for deterministic listing.
type Registry struct {
	definitions map[catalog.ConnectorKind]Definition
	order       []catalog.ConnectorKind
}

// NewRegistry creates an empty connector registry.
func NewRegistry() *Registry {
	return &Registry{
		definitions: make(map[catalog.ConnectorKind]Definition),
	}
}

// Register adds a definition. Duplicate kinds are rejected.
func (r *Registry) Register(def Definition) error {
	kind := catalog.ConnectorKind(strings.ToLower(strings.TrimSpace(string(def.Kind()))))
	if kind == "" {
		return fmt.Errorf("connector kind cannot be empty")
	}
	if _, exists := r.definitions[kind]; exists {
		return fmt.Errorf("connector kind %q already registered", kind)
	}
	r.definitions[kind] = def
	r.order = append(r.order, kind)
	return nil
}

// Get retrieves a definition by kind.
func (r *Registry) Get(kind catalog.ConnectorKind) (Definition, bool) {
	def, ok := r.definitions[catalog.ConnectorKind(strings.ToLower(strings.TrimSpace(string(kind))))]
	return def, ok
}

// Kinds returns all registered kinds in registration order.
func (r *Registry) Kinds() []catalog.ConnectorKind {
	out := make([]catalog.ConnectorKind, len(r.order))
	copy(out, r.order)
	return out
}

// Open decodes, validates, and constructs a live Connector for the given
// kind. Configuration problems surface as validation errors.
func (r *Registry) Open(ctx context.Context, kind catalog.ConnectorKind, raw []byte) (Connector, error) {
	def, ok := r.Get(kind)
	if !ok {
		return nil, catalog.Errorf(catalog.ErrorValidation, "registry.open", "unknown connector kind %q", kind)
	}
	cfg, err := def.DecodeConfig(raw)
	if err != nil {
		return nil, catalog.NewError(catalog.ErrorValidation, "registry.open", err)
	}
	if err := def.ValidateConfig(cfg); err != nil {
		return nil, catalog.NewError(catalog.ErrorValidation, "registry.open", err)
	}
	conn, err := def.New(ctx, cfg)
	if err != nil {
		if catalog.KindOf(err) != "" {
			return nil, err
		}
		return nil, catalog.NewError(catalog.ErrorConnection, "registry.open", err)
	}
	return conn, nil
}

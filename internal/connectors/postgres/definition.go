package postgres

import (
	"context"

	"github.com/open-dcat/open-dcat/internal/catalog"
	"github.com/open-dcat/open-dcat/internal/connectors"
)

// Definition registers the relational variant.
type Definition struct {
	ProfileWorkers int
}

func (d *Definition) Kind() catalog.ConnectorKind {
	return catalog.KindPostgres
}

func (d *Definition) DisplayName() string {
	return "PostgreSQL"
}

func (d *Definition) DecodeConfig(raw []byte) (any, error) {
	return DecodeConfig(raw)
}

func (d *Definition) ValidateConfig(cfg any) error {
	return cfg.(Config).Validate()
}

func (d *Definition) New(ctx context.Context, cfg any) (connectors.Connector, error) {
	return New(ctx, cfg.(Config), d.ProfileWorkers)
}

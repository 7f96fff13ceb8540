package objectstore

import (
	"context"

	"github.com/open-dcat/open-dcat/internal/catalog"
	"github.com/open-dcat/open-dcat/internal/connectors"
)

// Definition registers the columnar object-store variant.
type Definition struct{}

func (d *Definition) Kind() catalog.ConnectorKind {
	return catalog.KindObjectStore
}

func (d *Definition) DisplayName() string {
	return "Object store (Parquet)"
}

func (d *Definition) DecodeConfig(raw []byte) (any, error) {
	return DecodeConfig(raw)
}

func (d *Definition) ValidateConfig(cfg any) error {
	return cfg.(Config).Validate()
}

func (d *Definition) New(_ context.Context, cfg any) (connectors.Connector, error) {
	return New(cfg.(Config))
}

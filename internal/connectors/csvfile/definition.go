package csvfile

import (
	"context"

	"github.com/open-dcat/open-dcat/internal/catalog"
	"github.com/open-dcat/open-dcat/internal/connectors"
)

// Definition registers the delimited-file variant.
type Definition struct {
	ProfileWorkers int
}

func (d *Definition) Kind() catalog.ConnectorKind {
	return catalog.KindCSVFile
}

func (d *Definition) DisplayName() string {
	return "Delimited file"
}

func (d *Definition) DecodeConfig(raw []byte) (any, error) {
	return DecodeConfig(raw)
}

func (d *Definition) ValidateConfig(cfg any) error {
	return cfg.(Config).Validate()
}

func (d *Definition) New(_ context.Context, cfg any) (connectors.Connector, error) {
	return New(cfg.(Config), d.ProfileWorkers), nil
}

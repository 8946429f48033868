package vectorutils

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/papershelf/papershelf/pkg/vector"
	"github.com/papershelf/papershelf/pkg/vector/flat"
	"github.com/papershelf/papershelf/pkg/vector/sqlitevec"
)

type NewIndexOpts struct {
	ProviderType string
	DBPath       string
	Dimensions   int
	Logger       *zap.Logger
}

func NewIndex(o *NewIndexOpts) (vector.Index, error) {
	switch o.ProviderType {
	case "flat":
		return flat.NewIndex(flat.Config{
			Dimensions: o.Dimensions,
		})
	case "sqlitevec":
		return sqlitevec.NewIndex(sqlitevec.Config{
			DBPath:     o.DBPath,
			Dimensions: o.Dimensions,
		}, o.Logger)
	default:
		return nil, fmt.Errorf("unsupported vector index provider: %s", o.ProviderType)
	}
}

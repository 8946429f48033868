// Package answerutils is the answer utility package
package answerutils

import (
	"fmt"

	"github.com/papershelf/papershelf/pkg/answer"
	"github.com/papershelf/papershelf/pkg/answer/ollama"
)

type NewGeneratorOpts struct {
	ProviderType string
	TargetURL    string
	Model        string
}

// NewGenerator builds a generator backend. An empty provider returns
// nil, which the answer service treats as unconfigured.
func NewGenerator(o *NewGeneratorOpts) (answer.Generator, error) {
	switch o.ProviderType {
	case "":
		return nil, nil
	case "ollama":
		return ollama.NewGenerator(ollama.GeneratorConfig{
			TargetURL: o.TargetURL,
			Model:     o.Model,
		})
	default:
		return nil, fmt.Errorf("unsupported answer provider: %s", o.ProviderType)
	}
}

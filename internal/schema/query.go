package schema

import (
	"encoding/json"
	"fmt"

	"github.com/ohler55/ojg/jp"

	"github.com/alfredjeanlab/qrscout/internal/model"
)

// Query evaluates a JSONPath expression against the JSON form of cfg and
// returns the matched values in document order.
func Query(cfg *model.Config, selector string) ([]any, error) {
	x, err := jp.ParseString(selector)
	if err != nil {
		return nil, fmt.Errorf("invalid jsonpath '%s': %w", selector, err)
	}

	data, err := json.Marshal(cfg)
	if err != nil {
		return nil, fmt.Errorf("encode schema: %w", err)
	}
	var root any
	if err := json.Unmarshal(data, &root); err != nil {
		return nil, fmt.Errorf("decode schema: %w", err)
	}
	return x.Get(root), nil
}

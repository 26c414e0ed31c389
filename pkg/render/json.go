package render

import (
	"encoding/json"
	"fmt"

	"github.com/kintree/kintree/pkg/layout"
)

// JSON serializes a layout result as pretty-printed JSON, the format
// consumed by web frontends that do their own drawing.
func JSON(res *layout.Result) ([]byte, error) {
	data, err := json.MarshalIndent(res, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encode layout: %w", err)
	}
	return append(data, '\n'), nil
}

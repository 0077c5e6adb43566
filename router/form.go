package router

import (
	"encoding/json"
	"errors"
	"io"
	"net/url"

	"github.com/danielgtaylor/huma/v2"
)

// formFormat decodes HTML form bodies as a flat JSON object of their first
// values, so operations declared for JSON also accept forms. It never
// encodes responses.
var formFormat = huma.Format{
	Marshal: func(io.Writer, any) error {
		return errors.New("form encoding of responses is not supported")
	},
	Unmarshal: func(data []byte, v any) error {
		values, err := url.ParseQuery(string(data))
		if err != nil {
			return err
		}
		flat := make(map[string]any, len(values))
		for key := range values {
			flat[key] = values.Get(key)
		}
		b, err := json.Marshal(flat)
		if err != nil {
			return err
		}
		return json.Unmarshal(b, v)
	},
}

package restclient

import (
	"encoding/json"
	"fmt"
	"net/http"
)

type Response struct {
	StatusCode int
	Header     http.Header
	Body       []byte
}

// Data decodes the JSON response body into generic values.
// An empty body yields nil.
func (r *Response) Data() (any, error) {
	if len(r.Body) == 0 {
		return nil, nil
	}
	var data any
	if err := json.Unmarshal(r.Body, &data); err != nil {
		return nil, fmt.Errorf("restclient: response body is not JSON (status %d): %w", r.StatusCode, err)
	}
	return data, nil
}

// DataMap decodes the response body as a JSON object.
func (r *Response) DataMap() (map[string]any, error) {
	var m map[string]any
	if err := r.Decode(&m); err != nil {
		return nil, err
	}
	return m, nil
}

// DataList decodes the response body as a JSON array.
// When field is not empty, the array is looked up under that key of a JSON object,
// which is how paginated list responses carry their results.
func (r *Response) DataList(field string) ([]any, error) {
	if field == "" {
		var list []any
		if err := r.Decode(&list); err != nil {
			return nil, err
		}
		return list, nil
	}
	m, err := r.DataMap()
	if err != nil {
		return nil, err
	}
	raw, ok := m[field]
	if !ok {
		return nil, fmt.Errorf("restclient: response has no %q field", field)
	}
	list, ok := raw.([]any)
	if !ok {
		return nil, fmt.Errorf("restclient: response field %q is %T, not a list", field, raw)
	}
	return list, nil
}

func (r *Response) Decode(ptr any) error {
	if err := json.Unmarshal(r.Body, ptr); err != nil {
		return fmt.Errorf("restclient: decoding %T from response (status %d): %w", ptr, r.StatusCode, err)
	}
	return nil
}

func (r *Response) String() string {
	return fmt.Sprintf("%d %s: %s", r.StatusCode, http.StatusText(r.StatusCode), r.Body)
}

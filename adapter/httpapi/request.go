package httpapi

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"mime"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"go.llib.dev/frameless/pkg/errorkit"
)

const (
	ErrInvalidRequestBody errorkit.Error = "invalid-request-body"
	ErrInvalidField       errorkit.Error = "invalid-field"
)

// DefaultBodyReadLimit is the max bytes read from a request body.
const DefaultBodyReadLimit = 1 << 20

// readData decodes a JSON or form encoded request body into generic field values.
// Form fields with more than one value become lists.
func readData(r *http.Request) (map[string]any, error) {
	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	body, err := io.ReadAll(io.LimitReader(r.Body, DefaultBodyReadLimit))
	if err != nil {
		return nil, err
	}
	data := map[string]any{}
	if len(strings.TrimSpace(string(body))) == 0 {
		return data, nil
	}
	switch mediaType {
	case "application/x-www-form-urlencoded":
		values, err := url.ParseQuery(string(body))
		if err != nil {
			return nil, ErrInvalidRequestBody.Wrap(err)
		}
		for k, vs := range values {
			if len(vs) == 1 {
				data[k] = vs[0]
				continue
			}
			list := make([]any, 0, len(vs))
			for _, v := range vs {
				list = append(list, v)
			}
			data[k] = list
		}
		return data, nil
	default:
		if err := json.Unmarshal(body, &data); err != nil {
			return nil, ErrInvalidRequestBody.Wrap(err)
		}
		return data, nil
	}
}

func invalidField(field, format string, a ...any) error {
	return ErrInvalidField.F("%s: %s", field, fmt.Sprintf(format, a...))
}

func stringField(field string, v any) (string, error) {
	switch v := v.(type) {
	case string:
		return v, nil
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64), nil
	default:
		return "", invalidField(field, "not a valid string")
	}
}

// optionalIntField accepts null and the empty string as "no value".
func optionalIntField(field string, v any) (*int, error) {
	if v == nil {
		return nil, nil
	}
	if s, ok := v.(string); ok && strings.TrimSpace(s) == "" {
		return nil, nil
	}
	n, err := intField(field, v)
	if err != nil {
		return nil, err
	}
	i := int(n)
	return &i, nil
}

func intField(field string, v any) (int64, error) {
	switch v := v.(type) {
	case float64:
		if v != math.Trunc(v) {
			return 0, invalidField(field, "a valid integer is required")
		}
		return int64(v), nil
	case string:
		n, err := strconv.ParseInt(strings.TrimSpace(v), 10, 64)
		if err != nil {
			return 0, invalidField(field, "a valid integer is required")
		}
		return n, nil
	default:
		return 0, invalidField(field, "a valid integer is required")
	}
}

// refField reads a reference to another resource.
// When linked is true, the reference may be the path or URL of the related resource.
func refField(field string, v any, linked bool) (int64, error) {
	if s, ok := v.(string); ok && linked && strings.Contains(s, "/") {
		return idFromLink(field, s)
	}
	if v == nil {
		return 0, invalidField(field, "this field may not be null")
	}
	return intField(field, v)
}

func refListField(field string, v any, linked bool) ([]int64, error) {
	var items []any
	switch v := v.(type) {
	case []any:
		items = v
	case nil:
		return nil, invalidField(field, "this field may not be null")
	default:
		items = []any{v}
	}
	ids := make([]int64, 0, len(items))
	for _, item := range items {
		id, err := refField(field, item, linked)
		if err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, nil
}

func idFromLink(field, link string) (int64, error) {
	u, err := url.Parse(link)
	if err != nil {
		return 0, invalidField(field, "invalid hyperlink")
	}
	segments := strings.FieldsFunc(u.Path, func(r rune) bool { return r == '/' })
	if len(segments) == 0 {
		return 0, invalidField(field, "invalid hyperlink")
	}
	id, err := strconv.ParseInt(segments[len(segments)-1], 10, 64)
	if err != nil {
		return 0, invalidField(field, "invalid hyperlink, no object id found")
	}
	return id, nil
}

func isInvalid(err error) bool {
	return errors.Is(err, ErrInvalidField) || errors.Is(err, ErrInvalidRequestBody)
}

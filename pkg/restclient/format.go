package restclient

import (
	"encoding/json"
	"fmt"
	"net/url"
	"reflect"
	"sort"
	"strconv"
)

const (
	mediaTypeJSON = "application/json"
	mediaTypeForm = "application/x-www-form-urlencoded"
)

// Format encodes a request body.
type Format interface {
	encode(body any) ([]byte, string, error)
}

var (
	JSON Format = jsonFormat{}
	// Form encodes the body as "application/x-www-form-urlencoded".
	// Sequence values become repeated keys, nil values are sent as empty strings.
	Form Format = formFormat{}
)

// ParseFormat maps a format name to a Format.
func ParseFormat(name string) (Format, error) {
	switch name {
	case "", "json":
		return JSON, nil
	case "form", "multipart":
		return Form, nil
	default:
		return nil, fmt.Errorf("restclient: unknown format: %s", name)
	}
}

type jsonFormat struct{}

func (jsonFormat) encode(body any) ([]byte, string, error) {
	data, err := json.Marshal(body)
	return data, mediaTypeJSON, err
}

type formFormat struct{}

func (formFormat) encode(body any) ([]byte, string, error) {
	values, err := formValues(body)
	if err != nil {
		return nil, "", err
	}
	return []byte(values.Encode()), mediaTypeForm, nil
}

func formValues(body any) (url.Values, error) {
	switch body := body.(type) {
	case url.Values:
		return body, nil
	case map[string]any:
		values := url.Values{}
		keys := make([]string, 0, len(body))
		for k := range body {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			vs, err := formStrings(body[k])
			if err != nil {
				return nil, fmt.Errorf("%s: %w", k, err)
			}
			values[k] = vs
		}
		return values, nil
	default:
		// round trip through JSON so struct tags are honoured
		data, err := json.Marshal(body)
		if err != nil {
			return nil, err
		}
		var m map[string]any
		if err := json.Unmarshal(data, &m); err != nil {
			return nil, fmt.Errorf("form body must be an object: %w", err)
		}
		return formValues(m)
	}
}

func formStrings(v any) ([]string, error) {
	if v == nil {
		return []string{""}, nil
	}
	rv := reflect.ValueOf(v)
	if (rv.Kind() == reflect.Slice || rv.Kind() == reflect.Array) && rv.Type().Elem().Kind() != reflect.Uint8 {
		out := make([]string, 0, rv.Len())
		for i := 0; i < rv.Len(); i++ {
			s, err := formString(rv.Index(i).Interface())
			if err != nil {
				return nil, err
			}
			out = append(out, s)
		}
		return out, nil
	}
	s, err := formString(v)
	if err != nil {
		return nil, err
	}
	return []string{s}, nil
}

func formString(v any) (string, error) {
	switch v := v.(type) {
	case nil:
		return "", nil
	case string:
		return v, nil
	case []byte:
		return string(v), nil
	case bool:
		return strconv.FormatBool(v), nil
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64), nil
	case float32:
		return strconv.FormatFloat(float64(v), 'f', -1, 32), nil
	case fmt.Stringer:
		return v.String(), nil
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return strconv.FormatInt(rv.Int(), 10), nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return strconv.FormatUint(rv.Uint(), 10), nil
	case reflect.String:
		return rv.String(), nil
	case reflect.Map, reflect.Struct:
		return "", fmt.Errorf("nested %T values can't be form encoded", v)
	default:
		return fmt.Sprint(v), nil
	}
}

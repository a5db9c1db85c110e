package servicelayer

import (
	"fmt"
	"reflect"
	"time"

	"github.com/golobby/cast"
)

// Properties holds a service's static configuration values. Values
// usually arrive as native types when packages are assembled in code, or
// as strings when they come from manifest files; the typed accessors
// coerce string values to the requested type so both sources behave the
// same.
type Properties map[string]any

// String returns the property as a string.
func (p Properties) String(key string) (string, error) {
	value, err := p.typed(key, reflect.TypeOf(""))
	if err != nil {
		return "", err
	}
	return value.(string), nil
}

// Int returns the property as an int, coercing strings and other numeric
// types.
func (p Properties) Int(key string) (int, error) {
	value, err := p.typed(key, reflect.TypeOf(0))
	if err != nil {
		return 0, err
	}
	return value.(int), nil
}

// Bool returns the property as a bool, coercing strings.
func (p Properties) Bool(key string) (bool, error) {
	value, err := p.typed(key, reflect.TypeOf(false))
	if err != nil {
		return false, err
	}
	return value.(bool), nil
}

// Float returns the property as a float64, coercing strings and other
// numeric types.
func (p Properties) Float(key string) (float64, error) {
	value, err := p.typed(key, reflect.TypeOf(float64(0)))
	if err != nil {
		return 0, err
	}
	return value.(float64), nil
}

// Duration returns the property as a time.Duration. String values are
// parsed with time.ParseDuration.
func (p Properties) Duration(key string) (time.Duration, error) {
	raw, ok := p[key]
	if !ok {
		return 0, fmt.Errorf("%w: %s", ErrPropertyNotFound, key)
	}
	switch v := raw.(type) {
	case time.Duration:
		return v, nil
	case string:
		d, err := time.ParseDuration(v)
		if err != nil {
			return 0, fmt.Errorf("%w: %s: %s", ErrPropertyInvalid, key, err)
		}
		return d, nil
	default:
		return 0, fmt.Errorf("%w: %s has type %T, want duration", ErrPropertyInvalid, key, raw)
	}
}

// typed fetches a property and coerces it to the wanted type. Values
// already of the wanted type pass through; other scalars are converted
// where Go allows it; strings go through cast, the same conversion the
// manifest and environment tooling relies on.
func (p Properties) typed(key string, want reflect.Type) (any, error) {
	raw, ok := p[key]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrPropertyNotFound, key)
	}

	value := reflect.ValueOf(raw)
	if !value.IsValid() {
		return nil, fmt.Errorf("%w: %s is nil", ErrPropertyInvalid, key)
	}
	if value.Type() == want {
		return raw, nil
	}
	if str, ok := raw.(string); ok && want.Kind() != reflect.String {
		converted, err := cast.FromType(str, want)
		if err != nil {
			return nil, fmt.Errorf("%w: %s: %s", ErrPropertyInvalid, key, err)
		}
		return converted, nil
	}
	if value.Type().ConvertibleTo(want) && value.Kind() != reflect.String && want.Kind() != reflect.String {
		return value.Convert(want).Interface(), nil
	}
	return nil, fmt.Errorf("%w: %s has type %T, want %s", ErrPropertyInvalid, key, raw, want)
}

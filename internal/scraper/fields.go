package scraper

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"
)

// fields is a decoded JSON object read with tolerant accessors: a missing
// key or a value of the wrong type reads as absent instead of failing the
// whole record. Methods are safe on a nil map.
type fields map[string]any

func asFields(v any) fields {
	m, _ := v.(map[string]any)
	return m
}

func (f fields) str(key string) string {
	s, _ := f[key].(string)
	return s
}

// optStr returns nil unless key holds a string. An empty string is kept.
func (f fields) optStr(key string) *string {
	s, ok := f[key].(string)
	if !ok {
		return nil
	}
	return &s
}

func (f fields) obj(key string) fields {
	return asFields(f[key])
}

func (f fields) list(key string) []any {
	l, _ := f[key].([]any)
	return l
}

// int64 reads a JSON number. Decoding must use json.Decoder.UseNumber so
// that large ids survive.
func (f fields) int64(key string) *int64 {
	switch v := f[key].(type) {
	case json.Number:
		n, err := v.Int64()
		if err != nil {
			return nil
		}
		return &n
	case float64:
		n := int64(v)
		return &n
	}
	return nil
}

// opaque renders a scalar as a string without interpreting it, used for
// upstream timestamps that may be strings or epoch numbers.
func (f fields) opaque(key string) *string {
	switch v := f[key].(type) {
	case string:
		return &v
	case json.Number:
		s := v.String()
		return &s
	case float64:
		s := strconv.FormatFloat(v, 'f', -1, 64)
		return &s
	}
	return nil
}

func decodeJSON(body []byte, v any) error {
	dec := json.NewDecoder(bytes.NewReader(body))
	dec.UseNumber()
	return dec.Decode(v)
}

func containsFold(s, sub string) bool {
	return strings.Contains(strings.ToLower(s), sub)
}

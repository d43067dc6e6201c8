package ecomapi

import (
	"encoding/json"
	"fmt"
	"io/fs"
	"strings"
	"sync"
)

type Param map[string]any

// ErrorDetail is one failure reported by the backend, optionally bound to a
// form field.
type ErrorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Field   string `json:"field,omitempty"`
}

// Response is the backend's fixed JSON envelope. Success responses carry the
// payload in Data; error responses carry a primary failure in Err and, for
// validation failures, the per-field list in Errors.
type Response struct {
	Success bool            `json:"success"`
	Message string          `json:"message,omitempty"`
	Data    json.RawMessage `json:"data,omitempty"`
	Err     *ErrorDetail    `json:"error,omitempty"`
	Errors  []ErrorDetail   `json:"errors,omitempty"`
	Details map[string]any  `json:"details,omitempty"`

	dataParsed any
	dataError  error
	dataParse  sync.Once
}

// Apply unmarshals the response payload into v.
func (r *Response) Apply(v any) error {
	return json.Unmarshal(r.Data, v)
}

func (r *Response) Value() (any, error) {
	r.dataParse.Do(func() {
		r.dataError = json.Unmarshal(r.Data, &r.dataParsed)
	})
	return r.dataParsed, r.dataError
}

// Get walks the response payload along a /-separated path and returns the
// value found there.
func (r *Response) Get(v string) (any, error) {
	va := strings.Split(v, "/")
	cur, err := r.Value()
	if err != nil {
		return nil, err
	}

	for _, sub := range va {
		if sub == "" {
			continue
		}
		// we assume each sub will be an index in cur as a map
		curV, ok := cur.(map[string]any)
		if !ok {
			return nil, fs.ErrNotExist
		}
		cur, ok = curV[sub]
		if !ok {
			return nil, fs.ErrNotExist
		}
	}
	return cur, nil
}

func (r *Response) GetString(v string) (string, error) {
	res, err := r.Get(v)
	if err != nil {
		return "", err
	}
	str, ok := res.(string)
	if !ok {
		return "", fmt.Errorf("unexpected type %T for string %s", res, v)
	}
	return str, nil
}

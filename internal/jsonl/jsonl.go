// Package jsonl writes line-delimited JSON.
package jsonl

import (
	"encoding/json"
	"io"
)

// Encoder writes one JSON document per line. Each Write performs a single
// write call on the underlying writer, so lines stay whole even when
// several goroutines share the destination through a serializing channel.
type Encoder struct {
	w io.Writer
}

// NewEncoder returns an encoder writing to w.
func NewEncoder(w io.Writer) *Encoder {
	return &Encoder{w: w}
}

// Write marshals v and writes it followed by a newline.
func (e *Encoder) Write(v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	_, err = e.w.Write(append(data, '\n'))
	return err
}

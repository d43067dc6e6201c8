package ecomapi

import (
	"bytes"
	"fmt"
	"io"
	"mime/multipart"
	"net/textproto"
	"strings"
	"sync"
)

// Form is a multipart/form-data request payload: text fields plus file parts.
// Passing a *Form as the request parameter switches the client from JSON to
// multipart encoding.
type Form struct {
	fields []formField
	files  []formFile

	enc            sync.Once
	encBody        []byte
	encContentType string
	encErr         error
}

type formField struct {
	name  string
	value string
}

type formFile struct {
	field    string
	filename string
	mimeType string
	r        io.Reader
}

func NewForm() *Form {
	return &Form{}
}

// Set appends a text field. Repeated names produce repeated parts.
func (f *Form) Set(name, value string) *Form {
	f.fields = append(f.fields, formField{name, value})
	return f
}

// AddFile appends a file part read from r. An empty mimeType falls back to
// application/octet-stream.
func (f *Form) AddFile(field, filename, mimeType string, r io.Reader) *Form {
	f.files = append(f.files, formFile{field, filename, mimeType, r})
	return f
}

// Encode assembles the multipart body and returns it together with the
// content type carrying the boundary. The body is assembled once and cached:
// file parts are read from plain io.Readers, so a second assembly would find
// them drained — and a request retried after a token refresh must resend the
// exact same bytes.
func (f *Form) Encode() ([]byte, string, error) {
	f.enc.Do(func() {
		f.encBody, f.encContentType, f.encErr = f.encode()
	})
	return f.encBody, f.encContentType, f.encErr
}

func (f *Form) encode() ([]byte, string, error) {
	buf := &bytes.Buffer{}
	w := multipart.NewWriter(buf)

	for _, fld := range f.fields {
		if err := w.WriteField(fld.name, fld.value); err != nil {
			return nil, "", err
		}
	}

	for _, file := range f.files {
		mimeType := file.mimeType
		if mimeType == "" {
			mimeType = "application/octet-stream"
		}
		h := make(textproto.MIMEHeader)
		h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="%s"; filename="%s"`,
			escapeQuotes(file.field), escapeQuotes(file.filename)))
		h.Set("Content-Type", mimeType)
		part, err := w.CreatePart(h)
		if err != nil {
			return nil, "", err
		}
		if _, err := io.Copy(part, file.r); err != nil {
			return nil, "", err
		}
	}

	if err := w.Close(); err != nil {
		return nil, "", err
	}
	return buf.Bytes(), w.FormDataContentType(), nil
}

var quoteEscaper = strings.NewReplacer("\\", "\\\\", `"`, "\\\"")

func escapeQuotes(s string) string {
	return quoteEscaper.Replace(s)
}

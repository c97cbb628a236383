package gateway

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/textproto"
	"sort"
	"strings"

	"github.com/google/uuid"
)

// FilePart is the binary payload of a multipart upload. Data is held in
// memory so the body can be rebuilt if the request is replayed after
// renewal.
type FilePart struct {
	Field       string // "image" or "file"
	Filename    string
	ContentType string
	Data        []byte
}

var quoteEscaper = strings.NewReplacer("\\", "\\\\", `"`, "\\\"")

// Upload sends a multipart/form-data request carrying part and the scalar
// fields, and decodes the JSON response into dst. Bounded by the transfer
// timeout.
func (g *Gateway) Upload(
	ctx context.Context,
	req Request,
	part FilePart,
	fields map[string]string,
	dst any,
) error {
	if part.Field == "" || part.Filename == "" {
		return invalidRequest("upload part needs a field name and filename", nil)
	}
	if len(part.Data) == 0 {
		return invalidRequest("upload part is empty", nil)
	}
	if part.ContentType == "" {
		part.ContentType = "application/octet-stream"
	}

	boundary := "Boundary-" + uuid.NewString()
	enc := func() (io.Reader, string, error) {
		body, err := encodeMultipart(boundary, part, fields)
		if err != nil {
			return nil, "", err
		}
		return body, "multipart/form-data; boundary=" + boundary, nil
	}

	body, err := g.send(ctx, req, g.transferTimeout, enc)
	if err != nil {
		return err
	}
	return decode(body, dst)
}

func encodeMultipart(boundary string, part FilePart, fields map[string]string) (*bytes.Buffer, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	if err := w.SetBoundary(boundary); err != nil {
		return nil, fmt.Errorf("setting boundary: %w", err)
	}

	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="%s"; filename="%s"`,
		quoteEscaper.Replace(part.Field), quoteEscaper.Replace(part.Filename)))
	h.Set("Content-Type", part.ContentType)

	pw, err := w.CreatePart(h)
	if err != nil {
		return nil, fmt.Errorf("creating file part: %w", err)
	}
	if _, err := pw.Write(part.Data); err != nil {
		return nil, fmt.Errorf("writing file part: %w", err)
	}

	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		if err := w.WriteField(k, fields[k]); err != nil {
			return nil, fmt.Errorf("writing field %s: %w", k, err)
		}
	}

	if err := w.Close(); err != nil {
		return nil, fmt.Errorf("closing multipart body: %w", err)
	}
	return &buf, nil
}

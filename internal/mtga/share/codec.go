package share

import (
	"bytes"
	"compress/flate"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
)

// ErrDecodeFailed covers any malformed token: bad base64, bad deflate
// stream, or truncated payload.
var ErrDecodeFailed = errors.New("share: token decode failed")

// encodeToken deflates the JSON payload and renders it URL-safe without
// padding, so tokens drop straight into a query string.
func encodeToken(payload []byte) (string, error) {
	var buf bytes.Buffer
	w, err := flate.NewWriter(&buf, flate.BestCompression)
	if err != nil {
		return "", fmt.Errorf("share: init compressor: %w", err)
	}
	if _, err := w.Write(payload); err != nil {
		return "", fmt.Errorf("share: compress payload: %w", err)
	}
	if err := w.Close(); err != nil {
		return "", fmt.Errorf("share: compress payload: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(buf.Bytes()), nil
}

func decodeToken(token string) ([]byte, error) {
	compressed, err := base64.RawURLEncoding.DecodeString(token)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDecodeFailed, err)
	}
	r := flate.NewReader(bytes.NewReader(compressed))
	defer r.Close()
	payload, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDecodeFailed, err)
	}
	return payload, nil
}

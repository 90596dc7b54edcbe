// Package dataurl encodes and decodes self-describing embedded-data strings
// (RFC 2397 data URLs): a media type tag followed by a base64 or
// percent-encoded payload, usable as an inline image source.
package dataurl

import (
	"encoding/base64"
	"net/url"
	"strings"

	"github.com/pkg/errors"
)

const (
	scheme      = "data:"
	base64Token = ";base64"
)

// EncodeBytes renders raw bytes as a base64 data URL tagged with the given
// media type, e.g. "data:image/png;base64,iVBOR...".
func EncodeBytes(mediaType string, data []byte) string {
	var b strings.Builder
	b.Grow(len(scheme) + len(mediaType) + len(base64Token) + 1 + base64.StdEncoding.EncodedLen(len(data)))
	b.WriteString(scheme)
	b.WriteString(mediaType)
	b.WriteString(base64Token)
	b.WriteByte(',')
	b.WriteString(base64.StdEncoding.EncodeToString(data))
	return b.String()
}

// DecodeString parses a data URL into its raw payload bytes and declared
// media type. Base64 payloads are decoded with the standard alphabet;
// non-base64 payloads are percent-decoded with each resulting character taken
// as one byte.
//
// Returns an error when the scheme or media type tag is missing, or when the
// payload cannot be decoded.
func DecodeString(s string) ([]byte, string, error) {
	if !strings.HasPrefix(s, scheme) {
		return nil, "", errors.New("missing data: scheme")
	}

	rest := s[len(scheme):]
	comma := strings.IndexByte(rest, ',')
	if comma < 0 {
		return nil, "", errors.New("missing payload separator")
	}

	meta := rest[:comma]
	payload := rest[comma+1:]

	isBase64 := strings.HasSuffix(meta, base64Token)
	mediaType := strings.TrimSuffix(meta, base64Token)
	if mediaType == "" {
		return nil, "", errors.New("missing media type tag")
	}

	if isBase64 {
		data, err := base64.StdEncoding.DecodeString(payload)
		if err != nil {
			return nil, "", errors.Wrap(err, "decode base64 payload")
		}
		return data, mediaType, nil
	}

	decoded, err := url.PathUnescape(payload)
	if err != nil {
		return nil, "", errors.Wrap(err, "decode percent-encoded payload")
	}
	return []byte(decoded), mediaType, nil
}

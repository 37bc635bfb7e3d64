// Package intake decodes a multipart upload body into a parameter map and a
// single binary payload, enforcing an allow-list of payload media types.
package intake

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"mime"
	"mime/multipart"
	"strconv"
	"strings"
)

// ErrUnsupportedMedia is returned for any part the parser cannot accept: an
// unknown media type, a truncated body, or an unparseable parameter blob.
var ErrUnsupportedMedia = errors.New("unsupported media type")

// chunkSize is the read size for binary parts.
const chunkSize = 64 << 10

// Params is the integer parameter map carried by the text/plain part of an
// upload, e.g. {quality=80,x=640,y=480}.
type Params map[string]int

// Resize extracts the conversion parameters. ok is true only when quality, x
// and y are all present and positive; a partial set or a zero value is
// treated the same as no parameters, so {quality=0,x=0,y=0} means
// convert-only rather than a resize to nothing.
func (p Params) Resize() (quality, x, y int, ok bool) {
	for _, k := range [...]string{"quality", "x", "y"} {
		if v, present := p[k]; !present || v <= 0 {
			return 0, 0, 0, false
		}
	}
	return p["quality"], p["x"], p["y"], true
}

// Parse iterates the parts of a multipart body until exhausted.
//
// A text/plain part is parsed as a parameter blob. A part whose media type is
// in allowed is read to completion in 64 KiB chunks; if several are sent the
// last one wins. Any other part aborts the parse immediately with
// ErrUnsupportedMedia. Absence of a binary part is not an error here — the
// caller decides what an empty payload means.
func Parse(r *multipart.Reader, allowed map[string]struct{}) (Params, []byte, error) {
	var (
		params  Params
		payload []byte
	)
	for {
		part, err := r.NextPart()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, nil, fmt.Errorf("%w: %v", ErrUnsupportedMedia, err)
		}

		mediaType, _, ctErr := mime.ParseMediaType(part.Header.Get("Content-Type"))
		if ctErr != nil {
			return nil, nil, fmt.Errorf("%w: %v", ErrUnsupportedMedia, ctErr)
		}

		switch {
		case mediaType == "text/plain":
			text, err := io.ReadAll(part)
			if err != nil {
				return nil, nil, fmt.Errorf("%w: %v", ErrUnsupportedMedia, err)
			}
			params, err = parseParams(string(text))
			if err != nil {
				// Fail closed: a malformed parameter blob is a caller bug and
				// must not be silently dropped.
				return nil, nil, fmt.Errorf("%w: %v", ErrUnsupportedMedia, err)
			}
		case inAllowList(mediaType, allowed):
			payload, err = readChunks(part)
			if err != nil {
				return nil, nil, fmt.Errorf("%w: %v", ErrUnsupportedMedia, err)
			}
		default:
			return nil, nil, ErrUnsupportedMedia
		}
	}
	return params, payload, nil
}

func inAllowList(mediaType string, allowed map[string]struct{}) bool {
	_, ok := allowed[mediaType]
	return ok
}

// parseParams decodes the {k=v,k=v,...} grammar: braces stripped, segments
// split on commas then on '=', every value an integer.
func parseParams(s string) (Params, error) {
	s = strings.TrimSpace(s)
	s = strings.ReplaceAll(s, "{", "")
	s = strings.ReplaceAll(s, "}", "")

	out := Params{}
	for _, seg := range strings.Split(s, ",") {
		k, v, found := strings.Cut(seg, "=")
		if !found {
			return nil, fmt.Errorf("malformed parameter segment %q", seg)
		}
		n, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil {
			return nil, fmt.Errorf("parameter %q is not an integer", strings.TrimSpace(k))
		}
		out[strings.TrimSpace(k)] = n
	}
	return out, nil
}

func readChunks(r io.Reader) ([]byte, error) {
	var buf bytes.Buffer
	chunk := make([]byte, chunkSize)
	for {
		n, err := r.Read(chunk)
		if n > 0 {
			buf.Write(chunk[:n])
		}
		if errors.Is(err, io.EOF) {
			return buf.Bytes(), nil
		}
		if err != nil {
			return nil, err
		}
	}
}

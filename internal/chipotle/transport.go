package chipotle

import (
	"compress/gzip"
	"io"
	"net/http"

	"github.com/andybalholm/brotli"
)

// decompressingTransport asks for gzip and brotli encoded responses and
// decodes them before handing the body to the caller. The order-web CDN
// serves the JS bundle brotli-encoded when the client offers it, which the
// standard transport does not.
type decompressingTransport struct {
	base http.RoundTripper
}

func newDecompressingTransport(base http.RoundTripper) *decompressingTransport {
	if base == nil {
		base = http.DefaultTransport
	}
	return &decompressingTransport{base: base}
}

func (t *decompressingTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	if req.Header.Get("Accept-Encoding") == "" {
		// Setting the header ourselves disables the standard transport's
		// transparent gzip handling, so both encodings are decoded below.
		req = req.Clone(req.Context())
		req.Header.Set("Accept-Encoding", "gzip, br")
	}

	resp, err := t.base.RoundTrip(req)
	if err != nil {
		return nil, err
	}

	switch resp.Header.Get("Content-Encoding") {
	case "br":
		resp.Body = &decodedBody{reader: brotli.NewReader(resp.Body), closer: resp.Body}
	case "gzip":
		gz, err := gzip.NewReader(resp.Body)
		if err != nil {
			resp.Body.Close()
			return nil, err
		}
		resp.Body = &decodedBody{reader: gz, closer: resp.Body}
	default:
		return resp, nil
	}

	resp.Header.Del("Content-Encoding")
	resp.Header.Del("Content-Length")
	resp.ContentLength = -1
	resp.Uncompressed = true
	return resp, nil
}

type decodedBody struct {
	reader io.Reader
	closer io.Closer
}

func (b *decodedBody) Read(p []byte) (int, error) { return b.reader.Read(p) }

func (b *decodedBody) Close() error { return b.closer.Close() }

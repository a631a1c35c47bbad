package testutil

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
)

// RedirectClient cliente HTTP que envía toda petición, sea cual sea el host,
// al servidor de prueba con handler h. Sirve para SDKs con URL base fija.
func RedirectClient(t *testing.T, h http.Handler) *http.Client {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	target, err := url.Parse(srv.URL)
	if err != nil {
		t.Fatalf("url del servidor de prueba: %v", err)
	}
	return &http.Client{Transport: redirectTransport{target: target, next: srv.Client().Transport}}
}

type redirectTransport struct {
	target *url.URL
	next   http.RoundTripper
}

func (rt redirectTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	r := req.Clone(req.Context())
	r.URL.Scheme = rt.target.Scheme
	r.URL.Host = rt.target.Host
	r.Host = rt.target.Host
	return rt.next.RoundTrip(r)
}

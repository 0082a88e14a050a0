package goingelectric

import (
	"net/http"
)

type geRoundTripper struct {
	apiKey string
}

func (g geRoundTripper) RoundTrip(request *http.Request) (*http.Response, error) {
	// RoundTrippers must not modify the caller's request.
	req := request.Clone(request.Context())
	q := req.URL.Query()
	q.Set("key", g.apiKey)
	req.URL.RawQuery = q.Encode()
	req.Header.Set("User-Agent", "chargeprice-map-go")
	req.Header.Set("Accept", "application/json")

	log.Debugf("goingelectric %s %s", req.Method, req.URL.Path)
	// http.DefaultTransport is looked up on every request so that gock can
	// swap it in tests.
	return http.DefaultTransport.RoundTrip(req)
}

var _ http.RoundTripper = &geRoundTripper{}

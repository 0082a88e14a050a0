package chargeprice

import (
	"net/http"
)

type cpRoundTripper struct {
	apiKey string
}

func (c cpRoundTripper) RoundTrip(request *http.Request) (*http.Response, error) {
	// RoundTrippers must not modify the caller's request.
	req := request.Clone(request.Context())
	req.Header.Set("API-Key", c.apiKey)
	req.Header.Set("User-Agent", "chargeprice-map-go")
	req.Header.Set("Accept", contentType)

	log.Debugf("chargeprice %s %s", req.Method, req.URL.Path)
	// http.DefaultTransport is looked up on every request so that gock can
	// swap it in tests.
	return http.DefaultTransport.RoundTrip(req)
}

var _ http.RoundTripper = &cpRoundTripper{}

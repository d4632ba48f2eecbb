package utils

import (
	"net/http"
	"time"
)

const UserAgent = "Kodiscreen/1.0 <github.com/avleth/kodiscreen>"

type UARoundtripper struct {
	RT http.RoundTripper
}

func (uart *UARoundtripper) RoundTrip(req *http.Request) (*http.Response, error) {
	if req.Header.Get("User-Agent") == "" {
		req.Header.Set("User-Agent", UserAgent)
	}
	rt := uart.RT
	if rt == nil {
		rt = http.DefaultTransport
	}
	return rt.RoundTrip(req)
}

func NewHTTPClient(timeout time.Duration) *http.Client {
	return &http.Client{
		Transport: &UARoundtripper{},
		Timeout:   timeout,
	}
}

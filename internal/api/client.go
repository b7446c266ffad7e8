// Package api is the HTTP client for the route server's address and route endpoints.
package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"routemap/internal/geom"
)

const (
	ENDPOINT_ADDRESSES = "/get_addresses"
	ENDPOINT_ROUTES    = "/get_routes"
)

var ErrMissingField = errors.New("response field missing")

// Client talks to one route server. Requests carry no timeout of their own;
// cancel the context to abandon them.
type Client struct {
	baseURL string
	http    *http.Client
}

// NewClient returns a client for baseURL. A nil hc uses a fresh http.Client.
func NewClient(baseURL string, hc *http.Client) *Client {
	if hc == nil {
		hc = &http.Client{}
	}
	return &Client{baseURL: strings.TrimRight(baseURL, "/"), http: hc}
}

func (c *Client) BaseURL() string { return c.baseURL }

// FetchAddresses returns the addresses field of /get_addresses, in server order.
func (c *Client) FetchAddresses(ctx context.Context) ([]geom.Address, error) {
	res, err := jsonGet[struct {
		Addresses *[]geom.Address `json:"addresses"`
	}](ctx, c, ENDPOINT_ADDRESSES)
	if err != nil {
		return nil, err
	}
	if res.Addresses == nil {
		return nil, fmt.Errorf("%s: %w: addresses", ENDPOINT_ADDRESSES, ErrMissingField)
	}
	return *res.Addresses, nil
}

// FetchRoutes returns the whole /get_routes body as the ordered route mapping.
func (c *Client) FetchRoutes(ctx context.Context) (geom.RouteSet, error) {
	return jsonGet[geom.RouteSet](ctx, c, ENDPOINT_ROUTES)
}

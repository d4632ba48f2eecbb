// Package kodi speaks the JSON-RPC remote-control API of one or more Kodi
// instances. Every call is bounded by a short timeout and surfaces transport,
// HTTP and RPC-level failures as a plain error: callers must treat an error
// as "unknown", never as "definitely not playing".
package kodi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"sort"
	"strings"
	"time"

	"github.com/avleth/kodiscreen/config"
	"github.com/avleth/kodiscreen/models"
	"github.com/avleth/kodiscreen/utils"
)

const (
	callTimeout  = 8 * time.Second
	probeTimeout = 3 * time.Second
)

// StatusError is returned for non-2xx answers so callers that care (the
// connection tester, the 401 artwork fallback) can branch on the code.
type StatusError struct {
	Code int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("unexpected status %d", e.Code)
}

func IsUnauthorized(err error) bool {
	var se *StatusError
	return errors.As(err, &se) && se.Code == http.StatusUnauthorized
}

type Client struct {
	servers map[int]config.KodiServer
	httpc   *http.Client
	probec  *http.Client
}

func New(servers map[int]config.KodiServer) *Client {
	return &Client{
		servers: servers,
		httpc:   utils.NewHTTPClient(callTimeout),
		probec:  utils.NewHTTPClient(probeTimeout),
	}
}

// Server resolves a configured server by id, falling back to the lowest id
// when the requested one is unknown.
func (c *Client) Server(id int) (config.KodiServer, bool) {
	if s, ok := c.servers[id]; ok {
		return s, true
	}
	ids := make([]int, 0, len(c.servers))
	for sid := range c.servers {
		ids = append(ids, sid)
	}
	if len(ids) == 0 {
		return config.KodiServer{}, false
	}
	sort.Ints(ids)
	return c.servers[ids[0]], true
}

func (c *Client) HasServer(id int) bool {
	_, ok := c.servers[id]
	return ok
}

// Servers lists all configured servers ordered by IP.
func (c *Client) Servers() []config.KodiServer {
	out := make([]config.KodiServer, 0, len(c.servers))
	for _, s := range c.servers {
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool {
		return config.LessByIP(out[i], out[j])
	})
	return out
}

type rpcRequest struct {
	JSONRPC string `json:"jsonrpc"`
	Method  string `json:"method"`
	Params  any    `json:"params"`
	ID      int    `json:"id"`
}

type rpcError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

type rpcResponse struct {
	Result json.RawMessage `json:"result"`
	Error  *rpcError       `json:"error"`
}

// Call issues one JSON-RPC request against the given server and unmarshals
// the result into out (which may be nil when the caller only cares about
// success). There are no retries at this layer.
func (c *Client) Call(ctx context.Context, serverID int, method string, params any, out any) error {
	server, ok := c.Server(serverID)
	if !ok {
		return fmt.Errorf("kodi: no server configured")
	}

	if params == nil {
		params = struct{}{}
	}
	payload, err := json.Marshal(rpcRequest{JSONRPC: "2.0", Method: method, Params: params, ID: 1})
	if err != nil {
		return fmt.Errorf("kodi: failed to encode %s request: %w", method, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, server.Host+"/jsonrpc", bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("kodi: failed to prepare %s request: %w", method, err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	if server.HasAuth() {
		req.SetBasicAuth(server.Username, server.Password)
	}

	res, err := c.httpc.Do(req)
	if err != nil {
		return fmt.Errorf("kodi: %s failed: %w", method, err)
	}
	defer res.Body.Close()

	if res.StatusCode < 200 || res.StatusCode > 299 {
		return fmt.Errorf("kodi: %s failed: %w", method, &StatusError{Code: res.StatusCode})
	}

	var envelope rpcResponse
	if err := json.NewDecoder(res.Body).Decode(&envelope); err != nil {
		return fmt.Errorf("kodi: failed to decode %s response: %w", method, err)
	}
	if envelope.Error != nil {
		return fmt.Errorf("kodi: %s returned error %d: %s", method, envelope.Error.Code, envelope.Error.Message)
	}
	if out == nil || envelope.Result == nil {
		return nil
	}
	if err := json.Unmarshal(envelope.Result, out); err != nil {
		return fmt.Errorf("kodi: failed to decode %s result: %w", method, err)
	}
	return nil
}

// ProbeURL checks whether a download URL actually serves something, using a
// HEAD request with a tight timeout. Used for fanart existence probing.
func (c *Client) ProbeURL(ctx context.Context, serverID int, rawURL string) bool {
	server, ok := c.Server(serverID)
	if !ok {
		return false
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodHead, rawURL, nil)
	if err != nil {
		return false
	}
	if server.HasAuth() && strings.HasPrefix(rawURL, server.Host) {
		req.SetBasicAuth(server.Username, server.Password)
	}
	res, err := c.probec.Do(req)
	if err != nil {
		return false
	}
	defer res.Body.Close()
	return res.StatusCode == http.StatusOK
}

// VFSURL builds a fetchable URL from a PrepareDownload answer. Token-style
// answers address the virtual filesystem; path-style answers are served
// directly under the host root.
func VFSURL(server config.KodiServer, details models.DownloadDetails, originalPath string) string {
	if details.Token != "" && originalPath != "" {
		basename := originalPath
		if idx := strings.LastIndexAny(basename, "/\\"); idx >= 0 {
			basename = basename[idx+1:]
		}
		return fmt.Sprintf("%s/vfs/%s/%s", server.Host, details.Token, EncodePath(basename))
	}
	if details.Path != "" {
		return fmt.Sprintf("%s/%s", server.Host, details.Path)
	}
	return ""
}

// EncodePath percent-encodes a path segment the way Kodi expects (everything
// escaped, spaces as %20).
func EncodePath(s string) string {
	return strings.ReplaceAll(url.QueryEscape(s), "+", "%20")
}

package appwrite

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"mime"
	"net"
	"net/http"
	"strings"
	"time"
)

const (
	defaultTimeout  = 30 * time.Second
	maxResponseBody = 1 << 20
	responseFormat  = "1.6.0"
)

// Client talks to a single Appwrite project.
type Client struct {
	endpoint  string
	projectID string
	http      *http.Client
}

// NewClient creates a client for endpoint (for example
// https://cloud.appwrite.io/v1) and project.
func NewClient(endpoint, projectID string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	transport := &http.Transport{
		Proxy: http.ProxyFromEnvironment,
		DialContext: (&net.Dialer{
			Timeout:   5 * time.Second,
			KeepAlive: 30 * time.Second,
		}).DialContext,
		MaxIdleConns:          10,
		IdleConnTimeout:       90 * time.Second,
		TLSHandshakeTimeout:   5 * time.Second,
		ExpectContinueTimeout: 1 * time.Second,
	}

	return &Client{
		endpoint:  strings.TrimRight(endpoint, "/"),
		projectID: projectID,
		http:      &http.Client{Transport: transport, Timeout: timeout},
	}
}

// Ping calls GET {endpoint}/ping. On success it returns the JSON body as a
// compacted json.RawMessage with key order untouched, or {"message": text}
// when the server did not answer with JSON. Statuses below 400 count as
// success. Every error is either a *VendorError or an *UnknownError.
func (c *Client) Ping(ctx context.Context) (any, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.endpoint+"/ping", nil)
	if err != nil {
		return nil, &UnknownError{Err: err}
	}
	req.Header.Set("X-Appwrite-Project", c.projectID)
	req.Header.Set("X-Appwrite-Response-Format", responseFormat)
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			err = errors.New("request timed out")
		}
		return nil, &UnknownError{Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBody))
	if err != nil {
		return nil, &UnknownError{Err: err}
	}

	if resp.StatusCode >= 400 {
		return nil, vendorError(resp, body)
	}

	if isJSON(resp.Header.Get("Content-Type")) && len(body) > 0 {
		var compacted bytes.Buffer
		if err := json.Compact(&compacted, body); err != nil {
			return nil, &UnknownError{Err: err}
		}
		return json.RawMessage(compacted.Bytes()), nil
	}
	return map[string]string{"message": string(body)}, nil
}

type errorBody struct {
	Message string `json:"message"`
	Code    int    `json:"code"`
	Type    string `json:"type"`
}

func vendorError(resp *http.Response, body []byte) *VendorError {
	verr := &VendorError{
		Code:     resp.StatusCode,
		Response: string(body),
	}

	var decoded errorBody
	if isJSON(resp.Header.Get("Content-Type")) && json.Unmarshal(body, &decoded) == nil {
		verr.Message = decoded.Message
		verr.Type = decoded.Type
	} else {
		verr.Message = strings.TrimSpace(string(body))
	}
	if verr.Message == "" {
		verr.Message = http.StatusText(resp.StatusCode)
	}
	return verr
}

func isJSON(contentType string) bool {
	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return false
	}
	return mediaType == "application/json" || strings.HasSuffix(mediaType, "+json")
}

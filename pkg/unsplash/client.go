package unsplash

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"picfetch/pkg/apierrors"
	"picfetch/pkg/logger"
)

// Client is an Unsplash API client
type Client struct {
	httpClient *http.Client
	headers    map[string]string
	baseURL    string
	logger     logger.Logger
}

// NewClient creates a new Unsplash API client
func NewClient(timeout time.Duration, log logger.Logger) *Client {
	if log == nil {
		log = logger.GetLogger()
	}

	return &Client{
		httpClient: &http.Client{
			Timeout: timeout,
		},
		headers: map[string]string{
			"Accept":         "application/json",
			"Accept-Version": DefaultAcceptVersion,
		},
		baseURL: BaseURL,
		logger:  log,
	}
}

// SetBaseURL overrides the API base URL
func (c *Client) SetBaseURL(baseURL string) {
	if baseURL != "" {
		c.baseURL = baseURL
	}
}

// SetHeader sets a custom header for the client
func (c *Client) SetHeader(key, value string) {
	c.headers[key] = value
}

// SetAccessKey configures the Client-ID authorization header
func (c *Client) SetAccessKey(accessKey string) {
	c.headers["Authorization"] = fmt.Sprintf("Client-ID %s", accessKey)
}

// doRequest performs an HTTP request with the configured headers
func (c *Client) doRequest(req *http.Request) (*http.Response, error) {
	for key, value := range c.headers {
		req.Header.Set(key, value)
	}

	start := time.Now()
	c.logger.DebugWithFields("sending HTTP request", map[string]interface{}{
		"method": req.Method,
		"url":    req.URL.String(),
	})

	resp, err := c.httpClient.Do(req)
	duration := time.Since(start)

	if err != nil {
		c.logger.ErrorWithFields("HTTP request failed", map[string]interface{}{
			"method":   req.Method,
			"url":      req.URL.String(),
			"error":    err.Error(),
			"duration": duration,
		})
		return nil, apierrors.New(apierrors.ErrorTypeNetwork, fmt.Sprintf("network error: %v", err), 0)
	}

	c.logger.DebugWithFields("HTTP request completed", map[string]interface{}{
		"method":   req.Method,
		"url":      req.URL.String(),
		"status":   resp.StatusCode,
		"duration": duration,
	})

	return resp, nil
}

// Get performs a GET request to the specified URL
func (c *Client) Get(ctx context.Context, url string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, apierrors.New(apierrors.ErrorTypeUnknown, fmt.Sprintf("failed to create request: %v", err), 0)
	}

	return c.doRequest(req)
}

// GetJSON performs a GET request and decodes the JSON response
func (c *Client) GetJSON(ctx context.Context, url string, target interface{}) error {
	resp, err := c.Get(ctx, url)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if err := c.checkResponseStatus(resp); err != nil {
		return err
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return apierrors.New(apierrors.ErrorTypeNetwork, fmt.Sprintf("failed to read response body: %v", err), resp.StatusCode)
	}

	if err := json.Unmarshal(body, target); err != nil {
		bodyPreview := string(body)
		if len(bodyPreview) > 200 {
			bodyPreview = bodyPreview[:200] + "..."
		}
		c.logger.ErrorWithFields("failed to parse JSON response", map[string]interface{}{
			"url":          url,
			"status":       resp.StatusCode,
			"error":        err.Error(),
			"body_preview": bodyPreview,
		})
		return apierrors.New(apierrors.ErrorTypeParsing, fmt.Sprintf("failed to parse JSON: %v", err), resp.StatusCode)
	}

	return nil
}

// checkResponseStatus checks the HTTP response status and returns appropriate errors
func (c *Client) checkResponseStatus(resp *http.Response) error {
	if resp.StatusCode == http.StatusOK {
		return nil
	}

	errType := apierrors.FromStatusCode(resp.StatusCode)
	switch errType {
	case apierrors.ErrorTypeRateLimit:
		c.logger.WarnWithFields("rate limit exceeded", map[string]interface{}{
			"status": resp.StatusCode,
			"url":    resp.Request.URL.String(),
		})
		return apierrors.New(errType, "rate limit exceeded", resp.StatusCode)
	case apierrors.ErrorTypeAuth:
		c.logger.WarnWithFields("authentication error", map[string]interface{}{
			"status": resp.StatusCode,
			"url":    resp.Request.URL.String(),
		})
		return apierrors.New(errType, "authentication required", resp.StatusCode)
	case apierrors.ErrorTypeNotFound:
		return apierrors.New(errType, "resource not found", resp.StatusCode)
	case apierrors.ErrorTypeServerError:
		c.logger.ErrorWithFields("server error", map[string]interface{}{
			"status": resp.StatusCode,
			"url":    resp.Request.URL.String(),
		})
		return apierrors.New(errType, "server error", resp.StatusCode)
	default:
		return apierrors.New(errType, fmt.Sprintf("unexpected status code: %d", resp.StatusCode), resp.StatusCode)
	}
}

// FetchRandomPhotos fetches one page of random photo records
func (c *Client) FetchRandomPhotos(ctx context.Context, count int) ([]Photo, error) {
	url := RandomPhotosURL(c.baseURL, count)

	c.logger.DebugWithFields("fetching random photos", map[string]interface{}{
		"count": count,
		"url":   url,
	})

	var photos []Photo
	if err := c.GetJSON(ctx, url, &photos); err != nil {
		return nil, err
	}

	c.logger.DebugWithFields("fetched random photos", map[string]interface{}{
		"count": len(photos),
	})

	return photos, nil
}

// DownloadPhoto issues a streaming GET for a photo binary. The caller
// owns the returned body and must close it. Any non-200 status is
// returned as a typed error with the body already closed.
func (c *Client) DownloadPhoto(ctx context.Context, photoURL string) (io.ReadCloser, error) {
	resp, err := c.Get(ctx, photoURL)
	if err != nil {
		return nil, err
	}

	if err := c.checkResponseStatus(resp); err != nil {
		resp.Body.Close()
		return nil, err
	}

	return resp.Body, nil
}

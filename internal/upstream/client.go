package upstream

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

var (
	ErrNotConfigured   = errors.New("upstream not configured")
	ErrRequestFailed   = errors.New("upstream request failed")
	ErrResponseInvalid = errors.New("upstream response invalid")
	ErrNotFound        = errors.New("upstream resource not found")
)

const defaultTimeout = 3 * time.Second

// Endpoint 远端服务端点
type Endpoint struct {
	BaseURL string
	Timeout time.Duration
}

func (e Endpoint) configured() bool {
	return strings.TrimSpace(e.BaseURL) != ""
}

func (e Endpoint) normalize() Endpoint {
	e.BaseURL = strings.TrimRight(strings.TrimSpace(e.BaseURL), "/")
	if e.Timeout <= 0 {
		e.Timeout = defaultTimeout
	}
	return e
}

// httpDoer 便于测试替换底层 HTTP 客户端
type httpDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

func newHTTPClient(timeout time.Duration) *http.Client {
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &http.Client{Timeout: timeout}
}

// doJSON 发送 JSON 请求并解析响应；2xx 之外的状态码视为失败，404 单独返回
func doJSON(ctx context.Context, client httpDoer, method, rawURL string, query url.Values, body interface{}, dest interface{}) error {
	endpoint := rawURL
	if len(query) > 0 {
		endpoint = rawURL + "?" + query.Encode()
	}

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("%w: marshal body: %v", ErrRequestFailed, err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, reader)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrRequestFailed, err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrRequestFailed, err)
	}
	defer resp.Body.Close()

	respBytes, err := io.ReadAll(io.LimitReader(resp.Body, 4<<20))
	if err != nil {
		return fmt.Errorf("%w: read body: %v", ErrResponseInvalid, err)
	}
	if resp.StatusCode == http.StatusNotFound {
		return ErrNotFound
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("%w: status %d", ErrRequestFailed, resp.StatusCode)
	}
	if dest == nil {
		return nil
	}
	if len(bytes.TrimSpace(respBytes)) == 0 {
		return nil
	}
	if err := json.Unmarshal(respBytes, dest); err != nil {
		return fmt.Errorf("%w: %v", ErrResponseInvalid, err)
	}
	return nil
}

package paypal

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/mediastore-next/internal/payment"
)

var (
	ErrConfigInvalid   = errors.New("paypal config invalid")
	ErrAuthFailed      = errors.New("paypal auth failed")
	ErrRequestFailed   = errors.New("paypal request failed")
	ErrResponseInvalid = errors.New("paypal response invalid")
)

const (
	defaultSandboxBaseURL = "https://api-m.sandbox.paypal.com"
	defaultTimeout        = 12 * time.Second
)

// Config PayPal 渠道配置
type Config struct {
	ClientID     string `json:"client_id"`
	ClientSecret string `json:"client_secret"`
	BaseURL      string `json:"base_url"`
	ReturnURL    string `json:"return_url"`
	CancelURL    string `json:"cancel_url"`
	BrandName    string `json:"brand_name"`
	UserAction   string `json:"user_action"`
}

// Provider 基于 PayPal Checkout Orders v2 的跳转支付渠道
type Provider struct {
	cfg    *Config
	client *http.Client
}

// New 按原始配置创建 PayPal 渠道
func New(raw map[string]interface{}) (*Provider, error) {
	cfg, err := ParseConfig(raw)
	if err != nil {
		return nil, err
	}
	if err := ValidateConfig(cfg); err != nil {
		return nil, err
	}
	return &Provider{
		cfg:    cfg,
		client: &http.Client{Timeout: defaultTimeout},
	}, nil
}

// ParseConfig 解析配置
func ParseConfig(raw map[string]interface{}) (*Config, error) {
	if raw == nil {
		return nil, fmt.Errorf("%w: empty config", ErrConfigInvalid)
	}
	data, err := json.Marshal(raw)
	if err != nil {
		return nil, fmt.Errorf("%w: marshal config failed", ErrConfigInvalid)
	}
	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("%w: unmarshal config failed", ErrConfigInvalid)
	}
	cfg.normalize()
	return &cfg, nil
}

// ValidateConfig 校验配置
func ValidateConfig(cfg *Config) error {
	if cfg == nil {
		return fmt.Errorf("%w: config is nil", ErrConfigInvalid)
	}
	if strings.TrimSpace(cfg.ClientID) == "" {
		return fmt.Errorf("%w: client_id is required", ErrConfigInvalid)
	}
	if strings.TrimSpace(cfg.ClientSecret) == "" {
		return fmt.Errorf("%w: client_secret is required", ErrConfigInvalid)
	}
	if strings.TrimSpace(cfg.ReturnURL) == "" {
		return fmt.Errorf("%w: return_url is required", ErrConfigInvalid)
	}
	if strings.TrimSpace(cfg.CancelURL) == "" {
		return fmt.Errorf("%w: cancel_url is required", ErrConfigInvalid)
	}
	if _, err := url.ParseRequestURI(strings.TrimSpace(cfg.BaseURL)); err != nil {
		return fmt.Errorf("%w: base_url is invalid", ErrConfigInvalid)
	}
	return nil
}

func (c *Config) normalize() {
	c.ClientID = strings.TrimSpace(c.ClientID)
	c.ClientSecret = strings.TrimSpace(c.ClientSecret)
	c.BaseURL = strings.TrimRight(strings.TrimSpace(c.BaseURL), "/")
	if c.BaseURL == "" {
		c.BaseURL = defaultSandboxBaseURL
	}
	c.ReturnURL = strings.TrimSpace(c.ReturnURL)
	c.CancelURL = strings.TrimSpace(c.CancelURL)
	c.BrandName = strings.TrimSpace(c.BrandName)
	c.UserAction = strings.TrimSpace(c.UserAction)
	if c.UserAction == "" {
		c.UserAction = "PAY_NOW"
	}
}

// Name 渠道名称
func (p *Provider) Name() string { return "paypal" }

// Kind 跳转渠道：用户授权后显式捕获
func (p *Provider) Kind() payment.Kind { return payment.KindRedirect }

// Initiate 创建 PayPal 订单并返回授权跳转地址
func (p *Provider) Initiate(ctx context.Context, input payment.CreateInput) (*payment.CreateResult, error) {
	if strings.TrimSpace(input.OrderID) == "" || strings.TrimSpace(input.Amount) == "" || strings.TrimSpace(input.Currency) == "" {
		return nil, fmt.Errorf("%w: order input is invalid", ErrConfigInvalid)
	}
	returnURL := strings.TrimSpace(input.ReturnURL)
	if returnURL == "" {
		returnURL = p.cfg.ReturnURL
	}
	cancelURL := strings.TrimSpace(input.CancelURL)
	if cancelURL == "" {
		cancelURL = p.cfg.CancelURL
	}

	token, err := p.getAccessToken(ctx)
	if err != nil {
		return nil, err
	}

	appContext := map[string]string{
		"return_url":          returnURL,
		"cancel_url":          cancelURL,
		"user_action":         p.cfg.UserAction,
		"shipping_preference": "NO_SHIPPING",
	}
	if p.cfg.BrandName != "" {
		appContext["brand_name"] = p.cfg.BrandName
	}

	payload := map[string]interface{}{
		"intent": "CAPTURE",
		"purchase_units": []map[string]interface{}{
			{
				"invoice_id": input.OrderID,
				"amount": map[string]string{
					"currency_code": strings.ToUpper(strings.TrimSpace(input.Currency)),
					"value":         strings.TrimSpace(input.Amount),
				},
				"description": strings.TrimSpace(input.Description),
			},
		},
		"application_context": appContext,
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("%w: marshal request failed", ErrRequestFailed)
	}

	respBody, statusCode, err := p.doJSONRequest(ctx, http.MethodPost, "/v2/checkout/orders", token, body)
	if err != nil {
		return nil, err
	}
	if statusCode < 200 || statusCode >= 300 {
		return nil, fmt.Errorf("%w: create order status %d", ErrResponseInvalid, statusCode)
	}

	var raw map[string]interface{}
	if err := json.Unmarshal(respBody, &raw); err != nil {
		return nil, fmt.Errorf("%w: decode response failed", ErrResponseInvalid)
	}

	orderID := strings.TrimSpace(readString(raw, "id"))
	approvalURL := extractLinkByRel(raw, "approve")
	if orderID == "" || approvalURL == "" {
		return nil, fmt.Errorf("%w: missing order id or approve url", ErrResponseInvalid)
	}
	return &payment.CreateResult{
		Provider:  p.Name(),
		Reference: orderID,
		PayURL:    approvalURL,
		Raw:       raw,
	}, nil
}

// Confirm 捕获已授权的 PayPal 订单
func (p *Provider) Confirm(ctx context.Context, reference string) (*payment.ConfirmResult, error) {
	reference = strings.TrimSpace(reference)
	if reference == "" {
		return nil, fmt.Errorf("%w: reference is empty", ErrConfigInvalid)
	}

	token, err := p.getAccessToken(ctx)
	if err != nil {
		return nil, err
	}

	endpoint := "/v2/checkout/orders/" + url.PathEscape(reference) + "/capture"
	respBody, statusCode, err := p.doJSONRequest(ctx, http.MethodPost, endpoint, token, []byte("{}"))
	if err != nil {
		return nil, err
	}
	if statusCode < 200 || statusCode >= 300 {
		return nil, fmt.Errorf("%w: capture status %d", ErrResponseInvalid, statusCode)
	}

	var raw map[string]interface{}
	if err := json.Unmarshal(respBody, &raw); err != nil {
		return nil, fmt.Errorf("%w: decode response failed", ErrResponseInvalid)
	}

	result := &payment.ConfirmResult{Reference: reference, Raw: raw}
	status := strings.TrimSpace(readString(raw, "status"))

	captures := readArray(raw, "purchase_units", "0", "payments", "captures")
	if len(captures) > 0 {
		if captureMap, ok := captures[0].(map[string]interface{}); ok {
			if captureStatus := strings.TrimSpace(readString(captureMap, "status")); captureStatus != "" {
				status = captureStatus
			}
			result.Amount = strings.TrimSpace(readString(captureMap, "amount", "value"))
			result.Currency = strings.TrimSpace(readString(captureMap, "amount", "currency_code"))
		}
	}

	if status == "" {
		return nil, fmt.Errorf("%w: missing capture status", ErrResponseInvalid)
	}
	result.Status = ToPaymentStatus(status)
	return result, nil
}

// CheckStatus 查询 PayPal 订单状态
func (p *Provider) CheckStatus(ctx context.Context, reference string) (*payment.StatusResult, error) {
	reference = strings.TrimSpace(reference)
	if reference == "" {
		return nil, fmt.Errorf("%w: reference is empty", ErrConfigInvalid)
	}

	token, err := p.getAccessToken(ctx)
	if err != nil {
		return nil, err
	}

	endpoint := "/v2/checkout/orders/" + url.PathEscape(reference)
	respBody, statusCode, err := p.doJSONRequest(ctx, http.MethodGet, endpoint, token, nil)
	if err != nil {
		return nil, err
	}
	if statusCode < 200 || statusCode >= 300 {
		return nil, fmt.Errorf("%w: query status %d", ErrResponseInvalid, statusCode)
	}

	var raw map[string]interface{}
	if err := json.Unmarshal(respBody, &raw); err != nil {
		return nil, fmt.Errorf("%w: decode response failed", ErrResponseInvalid)
	}

	status := strings.TrimSpace(readString(raw, "status"))
	if status == "" {
		return nil, fmt.Errorf("%w: missing order status", ErrResponseInvalid)
	}
	return &payment.StatusResult{
		Reference: reference,
		Status:    ToPaymentStatus(status),
		Raw:       raw,
	}, nil
}

// ToPaymentStatus 将 PayPal 订单状态映射为统一支付状态
func ToPaymentStatus(status string) string {
	switch strings.ToUpper(strings.TrimSpace(status)) {
	case "COMPLETED":
		return payment.StatusPaid
	case "DENIED", "DECLINED", "FAILED", "VOIDED":
		return payment.StatusFailed
	default:
		return payment.StatusPending
	}
}

func (p *Provider) getAccessToken(ctx context.Context) (string, error) {
	values := url.Values{}
	values.Set("grant_type", "client_credentials")
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.cfg.BaseURL+"/v1/oauth2/token", strings.NewReader(values.Encode()))
	if err != nil {
		return "", fmt.Errorf("%w: build token request failed", ErrAuthFailed)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.SetBasicAuth(p.cfg.ClientID, p.cfg.ClientSecret)

	resp, err := p.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: request token failed", ErrAuthFailed)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("%w: read token response failed", ErrAuthFailed)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", fmt.Errorf("%w: token status %d", ErrAuthFailed, resp.StatusCode)
	}

	var parsed map[string]interface{}
	if err := json.Unmarshal(body, &parsed); err != nil {
		return "", fmt.Errorf("%w: decode token response failed", ErrAuthFailed)
	}
	token := strings.TrimSpace(readString(parsed, "access_token"))
	if token == "" {
		return "", fmt.Errorf("%w: access_token is empty", ErrAuthFailed)
	}
	return token, nil
}

func (p *Provider) doJSONRequest(ctx context.Context, method, endpoint, token string, body []byte) ([]byte, int, error) {
	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, p.cfg.BaseURL+endpoint, reader)
	if err != nil {
		return nil, 0, fmt.Errorf("%w: build request failed", ErrRequestFailed)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	if strings.TrimSpace(token) != "" {
		req.Header.Set("Authorization", "Bearer "+strings.TrimSpace(token))
	}

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, 0, fmt.Errorf("%w: http request failed", ErrRequestFailed)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, resp.StatusCode, fmt.Errorf("%w: read response failed", ErrRequestFailed)
	}
	return respBody, resp.StatusCode, nil
}

func extractLinkByRel(raw map[string]interface{}, rel string) string {
	links, ok := raw["links"].([]interface{})
	if !ok {
		return ""
	}
	rel = strings.ToLower(strings.TrimSpace(rel))
	for _, item := range links {
		linkMap, ok := item.(map[string]interface{})
		if !ok {
			continue
		}
		if strings.ToLower(strings.TrimSpace(readString(linkMap, "rel"))) != rel {
			continue
		}
		if href := strings.TrimSpace(readString(linkMap, "href")); href != "" {
			return href
		}
	}
	return ""
}

func readString(raw map[string]interface{}, path ...string) string {
	if raw == nil {
		return ""
	}
	var current interface{} = raw
	for _, seg := range path {
		if idx, err := strconv.Atoi(seg); err == nil {
			arr, ok := current.([]interface{})
			if !ok || idx < 0 || idx >= len(arr) {
				return ""
			}
			current = arr[idx]
			continue
		}
		next, ok := current.(map[string]interface{})
		if !ok {
			return ""
		}
		current = next[seg]
	}
	if current == nil {
		return ""
	}
	if str, ok := current.(string); ok {
		return str
	}
	return fmt.Sprintf("%v", current)
}

func readArray(raw map[string]interface{}, path ...string) []interface{} {
	if raw == nil {
		return nil
	}
	var current interface{} = raw
	for _, seg := range path {
		if idx, err := strconv.Atoi(seg); err == nil {
			arr, ok := current.([]interface{})
			if !ok || idx < 0 || idx >= len(arr) {
				return nil
			}
			current = arr[idx]
			continue
		}
		next, ok := current.(map[string]interface{})
		if !ok {
			return nil
		}
		current = next[seg]
	}
	arr, ok := current.([]interface{})
	if !ok {
		return nil
	}
	return arr
}

package vietqr

import (
	"context"
	"crypto/md5"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sort"
	"strings"
	"time"

	"github.com/mediastore-next/internal/payment"
)

var (
	ErrConfigInvalid   = errors.New("vietqr config invalid")
	ErrRequestFailed   = errors.New("vietqr request failed")
	ErrResponseInvalid = errors.New("vietqr response invalid")
)

// 网关交易状态常量
const (
	StatusWaiting = 1 // 等待支付
	StatusSuccess = 2 // 支付成功
	StatusExpired = 3 // 支付超时
	StatusFailed  = 4 // 支付失败
)

const defaultTimeout = 15 * time.Second

// Config VietQR 网关配置
type Config struct {
	GatewayURL  string `json:"gateway_url"`  // 网关地址，如 https://qr.example.com
	AuthToken   string `json:"auth_token"`   // 签名密钥
	BankCode    string `json:"bank_code"`    // 收款银行代码
	AccountNo   string `json:"account_no"`   // 收款账号
	AccountName string `json:"account_name"` // 收款户名
	ReturnURL   string `json:"return_url"`   // 支付完成跳转地址
}

// Provider 基于 VietQR 网关的扫码支付渠道
type Provider struct {
	cfg    *Config
	client *http.Client
}

// New 按原始配置创建 VietQR 渠道
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
	if strings.TrimSpace(cfg.GatewayURL) == "" {
		return fmt.Errorf("%w: gateway_url is required", ErrConfigInvalid)
	}
	if strings.TrimSpace(cfg.AuthToken) == "" {
		return fmt.Errorf("%w: auth_token is required", ErrConfigInvalid)
	}
	if strings.TrimSpace(cfg.BankCode) == "" {
		return fmt.Errorf("%w: bank_code is required", ErrConfigInvalid)
	}
	if strings.TrimSpace(cfg.AccountNo) == "" {
		return fmt.Errorf("%w: account_no is required", ErrConfigInvalid)
	}
	return nil
}

func (c *Config) normalize() {
	c.GatewayURL = strings.TrimRight(strings.TrimSpace(c.GatewayURL), "/")
	c.AuthToken = strings.TrimSpace(c.AuthToken)
	c.BankCode = strings.TrimSpace(c.BankCode)
	c.AccountNo = strings.TrimSpace(c.AccountNo)
	c.AccountName = strings.TrimSpace(c.AccountName)
	c.ReturnURL = strings.TrimSpace(c.ReturnURL)
}

// Name 渠道名称
func (p *Provider) Name() string { return "vietqr" }

// Kind 扫码渠道：创建后轮询状态
func (p *Provider) Kind() payment.Kind { return payment.KindQR }

// Initiate 创建网关交易并返回二维码内容
func (p *Provider) Initiate(ctx context.Context, input payment.CreateInput) (*payment.CreateResult, error) {
	if strings.TrimSpace(input.OrderID) == "" || strings.TrimSpace(input.Amount) == "" {
		return nil, fmt.Errorf("%w: order input is invalid", ErrConfigInvalid)
	}
	returnURL := strings.TrimSpace(input.ReturnURL)
	if returnURL == "" {
		returnURL = p.cfg.ReturnURL
	}

	params := map[string]interface{}{
		"order_id":     input.OrderID,
		"amount":       strings.TrimSpace(input.Amount),
		"currency":     strings.ToUpper(strings.TrimSpace(input.Currency)),
		"bank_code":    p.cfg.BankCode,
		"account_no":   p.cfg.AccountNo,
		"redirect_url": returnURL,
	}
	if p.cfg.AccountName != "" {
		params["account_name"] = p.cfg.AccountName
	}
	if input.Description != "" {
		params["memo"] = input.Description
	}
	params["signature"] = Sign(params, p.cfg.AuthToken)

	respBytes, err := p.postJSON(ctx, p.cfg.GatewayURL+"/api/v1/transactions", params)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrRequestFailed, err)
	}

	var resp struct {
		StatusCode int    `json:"status_code"`
		Message    string `json:"message"`
		Data       struct {
			TradeID    string `json:"trade_id"`
			OrderID    string `json:"order_id"`
			Amount     string `json:"amount"`
			QRCode     string `json:"qr_code"`
			ExpireIn   int    `json:"expire_in"`
			PaymentURL string `json:"payment_url"`
		} `json:"data"`
	}
	if err := json.Unmarshal(respBytes, &resp); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrResponseInvalid, err)
	}
	if resp.StatusCode != 200 {
		return nil, fmt.Errorf("%w: %s", ErrResponseInvalid, resp.Message)
	}
	if resp.Data.TradeID == "" || resp.Data.QRCode == "" {
		return nil, fmt.Errorf("%w: missing trade id or qr code", ErrResponseInvalid)
	}

	var raw map[string]interface{}
	_ = json.Unmarshal(respBytes, &raw)

	return &payment.CreateResult{
		Provider:  p.Name(),
		Reference: resp.Data.TradeID,
		QRCode:    resp.Data.QRCode,
		PayURL:    resp.Data.PaymentURL,
		Raw:       raw,
	}, nil
}

// Confirm 扫码渠道无主动捕获，支付完成由状态轮询发现
func (p *Provider) Confirm(ctx context.Context, reference string) (*payment.ConfirmResult, error) {
	return nil, fmt.Errorf("%w: vietqr has no capture step", payment.ErrNotSupported)
}

// CheckStatus 查询网关交易状态
func (p *Provider) CheckStatus(ctx context.Context, reference string) (*payment.StatusResult, error) {
	reference = strings.TrimSpace(reference)
	if reference == "" {
		return nil, fmt.Errorf("%w: reference is empty", ErrConfigInvalid)
	}

	params := map[string]interface{}{"trade_id": reference}
	signature := Sign(params, p.cfg.AuthToken)
	endpoint := fmt.Sprintf("%s/api/v1/transactions/%s?signature=%s",
		p.cfg.GatewayURL, url.PathEscape(reference), url.QueryEscape(signature))

	respBytes, err := p.getJSON(ctx, endpoint)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrRequestFailed, err)
	}

	var resp struct {
		StatusCode int    `json:"status_code"`
		Message    string `json:"message"`
		Data       struct {
			TradeID string `json:"trade_id"`
			Status  int    `json:"status"`
		} `json:"data"`
	}
	if err := json.Unmarshal(respBytes, &resp); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrResponseInvalid, err)
	}
	if resp.StatusCode != 200 {
		return nil, fmt.Errorf("%w: %s", ErrResponseInvalid, resp.Message)
	}

	var raw map[string]interface{}
	_ = json.Unmarshal(respBytes, &raw)

	return &payment.StatusResult{
		Reference: reference,
		Status:    ToPaymentStatus(resp.Data.Status),
		Raw:       raw,
	}, nil
}

// ToPaymentStatus 将网关状态转换为统一支付状态
func ToPaymentStatus(status int) string {
	switch status {
	case StatusSuccess:
		return payment.StatusPaid
	case StatusExpired:
		return payment.StatusExpired
	case StatusFailed:
		return payment.StatusFailed
	default:
		return payment.StatusPending
	}
}

// Sign 生成签名
// 签名规则：
// 1. 筛选所有非空且非 signature 的参数
// 2. 按参数名 ASCII 码从小到大排序
// 3. 按 key=value 格式拼接，使用 & 连接
// 4. 在末尾追加 AuthToken（无 & 符号）
// 5. MD5 加密并转小写
func Sign(params map[string]interface{}, authToken string) string {
	var keys []string
	for k, v := range params {
		if k == "signature" {
			continue
		}
		if isEmptyValue(v) {
			continue
		}
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var pairs []string
	for _, k := range keys {
		pairs = append(pairs, fmt.Sprintf("%s=%v", k, params[k]))
	}

	content := strings.Join(pairs, "&") + authToken
	sum := md5.Sum([]byte(content))
	return strings.ToLower(hex.EncodeToString(sum[:]))
}

func isEmptyValue(v interface{}) bool {
	if v == nil {
		return true
	}
	if s, ok := v.(string); ok {
		return strings.TrimSpace(s) == ""
	}
	return false
}

func (p *Provider) postJSON(ctx context.Context, endpoint string, params map[string]interface{}) ([]byte, error) {
	body, err := json.Marshal(params)
	if err != nil {
		return nil, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(string(body)))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	return p.do(req)
}

func (p *Provider) getJSON(ctx context.Context, endpoint string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	return p.do(req)
}

func (p *Provider) do(req *http.Request) ([]byte, error) {
	resp, err := p.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("http status %d", resp.StatusCode)
	}
	return io.ReadAll(resp.Body)
}

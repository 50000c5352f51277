package payment

import (
	"context"
	"errors"
	"strings"
)

var (
	// ErrProviderUnknown 未注册的支付渠道
	ErrProviderUnknown = errors.New("payment provider unknown")
	// ErrNotSupported 渠道不支持该操作（如 QR 渠道的主动捕获）
	ErrNotSupported = errors.New("payment operation not supported")
)

// Kind 渠道交互形态
type Kind string

const (
	// KindQR 扫码支付：创建后由客户端轮询状态
	KindQR Kind = "qr"
	// KindRedirect 跳转支付：用户跳转授权后显式捕获
	KindRedirect Kind = "redirect"
)

// 统一支付状态
const (
	StatusPending = "pending"
	StatusPaid    = "paid"
	StatusFailed  = "failed"
	StatusExpired = "expired"
)

// CreateInput 发起支付输入
type CreateInput struct {
	OrderID     string
	Amount      string
	Currency    string
	Description string
	ReturnURL   string
	CancelURL   string
}

// CreateResult 发起支付返回
type CreateResult struct {
	Provider  string
	Reference string // 渠道侧引用，用于捕获与状态查询
	PayURL    string // 跳转渠道的授权地址
	QRCode    string // 扫码渠道的二维码内容
	Raw       map[string]interface{}
}

// ConfirmResult 捕获支付返回
type ConfirmResult struct {
	Reference string
	Status    string
	Amount    string
	Currency  string
	Raw       map[string]interface{}
}

// StatusResult 状态查询返回
type StatusResult struct {
	Reference string
	Status    string
	Raw       map[string]interface{}
}

// Provider 支付渠道能力。
// 渠道在运行时按名称选择，而非在结账流程中硬编码分支。
type Provider interface {
	Name() string
	Kind() Kind
	Initiate(ctx context.Context, input CreateInput) (*CreateResult, error)
	Confirm(ctx context.Context, reference string) (*ConfirmResult, error)
	CheckStatus(ctx context.Context, reference string) (*StatusResult, error)
}

// Registry 渠道注册表
type Registry struct {
	providers   map[string]Provider
	defaultName string
}

// NewRegistry 创建渠道注册表
func NewRegistry(defaultName string, providers ...Provider) *Registry {
	r := &Registry{
		providers:   make(map[string]Provider, len(providers)),
		defaultName: normalizeName(defaultName),
	}
	for _, p := range providers {
		if p == nil {
			continue
		}
		r.providers[normalizeName(p.Name())] = p
	}
	return r
}

// Get 按名称获取渠道；名称为空时返回默认渠道
func (r *Registry) Get(name string) (Provider, error) {
	if r == nil {
		return nil, ErrProviderUnknown
	}
	normalized := normalizeName(name)
	if normalized == "" {
		normalized = r.defaultName
	}
	provider, ok := r.providers[normalized]
	if !ok {
		return nil, ErrProviderUnknown
	}
	return provider, nil
}

// Names 返回已注册渠道名称
func (r *Registry) Names() []string {
	if r == nil {
		return nil
	}
	names := make([]string, 0, len(r.providers))
	for name := range r.providers {
		names = append(names, name)
	}
	return names
}

func normalizeName(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

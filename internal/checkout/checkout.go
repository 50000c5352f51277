package checkout

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/mediastore-next/internal/cart"
	"github.com/mediastore-next/internal/config"
	"github.com/mediastore-next/internal/logger"
	"github.com/mediastore-next/internal/models"
	"github.com/mediastore-next/internal/payment"
	"github.com/mediastore-next/internal/upstream"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

var (
	// ErrCartEmpty 购物车为空，无法下单
	ErrCartEmpty = errors.New("checkout cart is empty")
	// ErrOrderFailed 远端订单创建失败
	ErrOrderFailed = errors.New("checkout order create failed")
	// ErrPaymentFailed 支付发起失败
	ErrPaymentFailed = errors.New("checkout payment initiate failed")
)

// ValidationError 配送信息校验失败，按字段列出原因
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("delivery info invalid: %d field(s)", len(e.Fields))
}

// OrderService 结账所需的远端订单能力
type OrderService interface {
	CreateOrder(ctx context.Context, input upstream.CreateOrderInput) (*upstream.Order, error)
	GetOrder(ctx context.Context, orderID string) (*upstream.Order, error)
	CancelOrder(ctx context.Context, orderID string) (*upstream.Order, error)
}

// StatusPoller 支付状态轮询调度；扫码渠道下单后由后台轮询确认
type StatusPoller interface {
	SchedulePoll(ctx context.Context, providerName, reference, orderID, sessionKey string) error
}

// PlaceOrderInput 下单输入
type PlaceOrderInput struct {
	Delivery models.DeliveryInfo `json:"delivery"`
	Provider string              `json:"provider"`
}

// Quote 结账报价（小计、运费、总计）
type Quote struct {
	Subtotal    models.Money `json:"subtotal"`
	DeliveryFee models.Money `json:"deliveryFee"`
	Total       models.Money `json:"total"`
	TotalItems  int          `json:"totalItems"`
}

// PlaceOrderResult 下单结果：远端订单与支付引导
type PlaceOrderResult struct {
	Order   *upstream.Order       `json:"order"`
	Payment *payment.CreateResult `json:"payment"`
}

// Orchestrator 结账编排器。
// 校验配送信息、计算运费、创建远端订单、发起支付，按序执行，
// 任一步失败即返回错误，不回滚已完成的步骤。
type Orchestrator struct {
	carts     *cart.Manager
	orders    OrderService
	providers *payment.Registry
	poller    StatusPoller
	cfg       config.CheckoutConfig
	validate  *validator.Validate
}

// NewOrchestrator 创建结账编排器
func NewOrchestrator(carts *cart.Manager, orders OrderService, providers *payment.Registry, poller StatusPoller, cfg config.CheckoutConfig) *Orchestrator {
	return &Orchestrator{
		carts:     carts,
		orders:    orders,
		providers: providers,
		poller:    poller,
		cfg:       cfg,
		validate:  validator.New(),
	}
}

// QuoteCart 计算当前购物车的结账报价
func (o *Orchestrator) QuoteCart(ctx context.Context, sessionKey string) Quote {
	syncer := o.carts.Get(ctx, sessionKey)
	subtotal := syncer.Subtotal(ctx)
	fee := o.DeliveryFee(subtotal)
	return Quote{
		Subtotal:    subtotal,
		DeliveryFee: fee,
		Total:       models.NewMoneyFromDecimal(subtotal.Decimal.Add(fee.Decimal)),
		TotalItems:  syncer.TotalItems(ctx),
	}
}

// DeliveryFee 运费阶梯：小计严格大于免运费门槛时免运费，否则收取固定运费。
// 空购物车（小计为 0）同样收取固定运费，由下单前的空车检查兜底。
func (o *Orchestrator) DeliveryFee(subtotal models.Money) models.Money {
	threshold := decimal.NewFromFloat(o.cfg.FreeShippingThreshold)
	if subtotal.Decimal.GreaterThan(threshold) {
		return models.NewMoneyFromDecimal(decimal.Zero)
	}
	return models.NewMoneyFromFloat(o.cfg.DeliveryFee)
}

// ValidateDelivery 校验配送信息，失败时返回按字段的 *ValidationError
func (o *Orchestrator) ValidateDelivery(info models.DeliveryInfo) error {
	err := o.validate.Struct(info)
	if err == nil {
		return nil
	}
	var invalid validator.ValidationErrors
	if !errors.As(err, &invalid) {
		return err
	}
	fields := make(map[string]string, len(invalid))
	for _, fieldErr := range invalid {
		fields[lowerFirst(fieldErr.Field())] = validationMessage(fieldErr)
	}
	return &ValidationError{Fields: fields}
}

// PlaceOrder 下单：校验 -> 报价 -> 创建远端订单 -> 发起支付。
// 购物车在支付确认前保持不变；扫码渠道额外调度状态轮询。
func (o *Orchestrator) PlaceOrder(ctx context.Context, sessionKey string, input PlaceOrderInput) (*PlaceOrderResult, error) {
	if err := o.ValidateDelivery(input.Delivery); err != nil {
		return nil, err
	}

	syncer := o.carts.Get(ctx, sessionKey)
	lines := syncer.Lines(ctx)
	if len(lines) == 0 {
		return nil, ErrCartEmpty
	}

	subtotal := syncer.Subtotal(ctx)
	fee := o.DeliveryFee(subtotal)
	total := models.NewMoneyFromDecimal(subtotal.Decimal.Add(fee.Decimal))

	items := make([]upstream.OrderItemInput, 0, len(lines))
	for _, line := range lines {
		items = append(items, upstream.OrderItemInput{
			ProductID:    line.ProductID,
			ProductTitle: line.Product.Title,
			Quantity:     line.Qty,
			Price:        line.Product.Price,
		})
	}

	order, err := o.orders.CreateOrder(ctx, upstream.CreateOrderInput{
		CustomerEmail: input.Delivery.Email,
		CustomerName:  input.Delivery.FullName,
		Phone:         input.Delivery.Phone,
		AddressLine:   input.Delivery.AddressLine,
		City:          input.Delivery.City,
		Province:      input.Delivery.Province,
		PostalCode:    input.Delivery.PostalCode,
		Note:          input.Delivery.Note,
		ShippingFee:   fee,
		Items:         items,
	})
	if err != nil {
		logger.Errorw("checkout_order_create_failed", "session_key", sessionKey, "error", err)
		return nil, fmt.Errorf("%w: %v", ErrOrderFailed, err)
	}
	orderID := strconv.FormatInt(order.ID, 10)

	provider, err := o.providers.Get(input.Provider)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPaymentFailed, err)
	}
	created, err := provider.Initiate(ctx, payment.CreateInput{
		OrderID:     orderID,
		Amount:      total.String(),
		Currency:    o.cfg.Currency,
		Description: fmt.Sprintf("MediaStore order %s", orderID),
	})
	if err != nil {
		logger.Errorw("checkout_payment_initiate_failed",
			"session_key", sessionKey,
			"order_id", orderID,
			"provider", provider.Name(),
			"error", err,
		)
		return nil, fmt.Errorf("%w: %v", ErrPaymentFailed, err)
	}

	if provider.Kind() == payment.KindQR && o.poller != nil {
		if err := o.poller.SchedulePoll(ctx, provider.Name(), created.Reference, orderID, sessionKey); err != nil {
			logger.Warnw("checkout_status_poll_schedule_failed",
				"order_id", orderID,
				"provider", provider.Name(),
				"error", err,
			)
		}
	}

	logger.Infow("checkout_order_placed",
		"session_key", sessionKey,
		"order_id", orderID,
		"provider", provider.Name(),
		"total", total.String(),
	)
	return &PlaceOrderResult{Order: order, Payment: created}, nil
}

// ConfirmPayment 捕获支付（跳转渠道回跳后调用）。
// 支付成功后清空购物车并废弃会话键。
func (o *Orchestrator) ConfirmPayment(ctx context.Context, sessionKey, providerName, reference string) (*payment.ConfirmResult, error) {
	provider, err := o.providers.Get(providerName)
	if err != nil {
		return nil, err
	}
	result, err := provider.Confirm(ctx, reference)
	if err != nil {
		return nil, err
	}
	if result.Status == payment.StatusPaid && sessionKey != "" {
		o.carts.Clear(sessionKey)
	}
	return result, nil
}

// PaymentStatus 查询支付状态（扫码渠道客户端轮询）。
// 支付成功后清空购物车并废弃会话键。
func (o *Orchestrator) PaymentStatus(ctx context.Context, sessionKey, providerName, reference string) (*payment.StatusResult, error) {
	provider, err := o.providers.Get(providerName)
	if err != nil {
		return nil, err
	}
	result, err := provider.CheckStatus(ctx, reference)
	if err != nil {
		return nil, err
	}
	if result.Status == payment.StatusPaid && sessionKey != "" {
		o.carts.Clear(sessionKey)
	}
	return result, nil
}

// GetOrder 按 ID 查询远端订单
func (o *Orchestrator) GetOrder(ctx context.Context, orderID string) (*upstream.Order, error) {
	return o.orders.GetOrder(ctx, orderID)
}

// CancelOrder 取消远端订单
func (o *Orchestrator) CancelOrder(ctx context.Context, orderID string) (*upstream.Order, error) {
	return o.orders.CancelOrder(ctx, orderID)
}

func validationMessage(fieldErr validator.FieldError) string {
	switch fieldErr.Tag() {
	case "required":
		return "this field is required"
	case "email":
		return "must be a valid email address"
	case "min":
		return fmt.Sprintf("must be at least %s characters", fieldErr.Param())
	case "max":
		return fmt.Sprintf("must be at most %s characters", fieldErr.Param())
	default:
		return fmt.Sprintf("failed %s validation", fieldErr.Tag())
	}
}

func lowerFirst(s string) string {
	if s == "" {
		return s
	}
	return strings.ToLower(s[:1]) + s[1:]
}

package worker

import (
	"context"
	"encoding/json"

	"github.com/mediastore-next/internal/logger"
	"github.com/mediastore-next/internal/payment"
	"github.com/mediastore-next/internal/provider"
	"github.com/mediastore-next/internal/queue"

	"github.com/hibiken/asynq"
)

// Consumer 异步任务消费者
type Consumer struct {
	*provider.Container
}

// NewConsumer 创建消费者
func NewConsumer(c *provider.Container) *Consumer {
	return &Consumer{
		Container: c,
	}
}

// Register 注册消费者
func (c *Consumer) Register(mux *asynq.ServeMux) {
	if c == nil || mux == nil {
		logger.Debugw("worker_register_skip_nil", "consumer_nil", c == nil, "mux_nil", mux == nil)
		return
	}
	mux.HandleFunc(queue.TaskPaymentStatusCheck, c.handlePaymentStatusCheck)
}

// handlePaymentStatusCheck 轮询扫码渠道的支付状态。
// pending 时带延迟重新入队，直到达到最大轮询次数；
// 支付成功后清空对应会话的购物车。查询失败按 pending 处理继续轮询。
func (c *Consumer) handlePaymentStatusCheck(ctx context.Context, task *asynq.Task) error {
	if c == nil || task == nil {
		logger.Debugw("worker_payment_status_skip_nil", "consumer_nil", c == nil, "task_nil", task == nil)
		return nil
	}
	var payload queue.PaymentStatusCheckPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		logger.Warnw("worker_payment_status_unmarshal_failed", "error", err)
		return err
	}
	if payload.Reference == "" {
		logger.Debugw("worker_payment_status_skip_invalid_payload", "order_id", payload.OrderID)
		return nil
	}

	prov, err := c.Payments.Get(payload.Provider)
	if err != nil {
		logger.Warnw("worker_payment_status_skip_unknown_provider",
			"provider", payload.Provider,
			"order_id", payload.OrderID,
		)
		return nil
	}

	result, checkErr := prov.CheckStatus(ctx, payload.Reference)
	status := payment.StatusPending
	if checkErr != nil {
		logger.Warnw("worker_payment_status_check_failed",
			"provider", payload.Provider,
			"reference", payload.Reference,
			"order_id", payload.OrderID,
			"attempt", payload.Attempt,
			"error", checkErr,
		)
	} else {
		status = result.Status
	}

	switch status {
	case payment.StatusPaid:
		logger.Infow("worker_payment_status_paid",
			"provider", payload.Provider,
			"reference", payload.Reference,
			"order_id", payload.OrderID,
		)
		if c.Carts != nil && payload.SessionKey != "" {
			c.Carts.Clear(payload.SessionKey)
		}
		return nil
	case payment.StatusFailed, payment.StatusExpired:
		logger.Infow("worker_payment_status_final",
			"provider", payload.Provider,
			"reference", payload.Reference,
			"order_id", payload.OrderID,
			"status", status,
		)
		return nil
	}

	maxRetries := c.Config.Payment.StatusPollMaxRetries
	if maxRetries <= 0 {
		maxRetries = 60
	}
	if payload.Attempt >= maxRetries {
		logger.Warnw("worker_payment_status_give_up",
			"provider", payload.Provider,
			"reference", payload.Reference,
			"order_id", payload.OrderID,
			"attempts", payload.Attempt,
		)
		return nil
	}

	payload.Attempt++
	if err := c.Queue.EnqueuePaymentStatusCheck(ctx, payload, c.Queue.PollDelay()); err != nil {
		logger.Warnw("worker_payment_status_requeue_failed",
			"order_id", payload.OrderID,
			"attempt", payload.Attempt,
			"error", err,
		)
		return err
	}
	return nil
}

package queue

import (
	"encoding/json"

	"github.com/hibiken/asynq"
)

const (
	// TaskPaymentStatusCheck 支付状态轮询任务
	TaskPaymentStatusCheck = "payment:status_check"
)

// PaymentStatusCheckPayload 支付状态轮询任务载荷
type PaymentStatusCheckPayload struct {
	Provider   string `json:"provider"`
	Reference  string `json:"reference"`
	OrderID    string `json:"order_id"`
	SessionKey string `json:"session_key"`
	Attempt    int    `json:"attempt"`
}

// NewPaymentStatusCheckTask 创建支付状态轮询任务
func NewPaymentStatusCheckTask(payload PaymentStatusCheckPayload) (*asynq.Task, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskPaymentStatusCheck, body), nil
}

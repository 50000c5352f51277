package queue

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/mediastore-next/internal/config"

	"github.com/hibiken/asynq"
)

const (
	// DefaultQueue 默认队列名称
	DefaultQueue = "default"

	defaultPollDelay = 5 * time.Second
)

// Client 队列客户端封装。
// 队列未启用时所有推送为空操作，支付状态改由客户端轮询接口驱动。
type Client struct {
	client       *asynq.Client
	enabled      bool
	defaultQueue string
	pollDelay    time.Duration
}

// NewClient 创建队列客户端
func NewClient(cfg *config.QueueConfig, pollDelay time.Duration) (*Client, error) {
	if pollDelay <= 0 {
		pollDelay = defaultPollDelay
	}
	if cfg == nil || !cfg.Enabled {
		return &Client{enabled: false, defaultQueue: DefaultQueue, pollDelay: pollDelay}, nil
	}
	opt := buildRedisOpt(cfg)
	return &Client{
		client:       asynq.NewClient(opt),
		enabled:      true,
		defaultQueue: DefaultQueue,
		pollDelay:    pollDelay,
	}, nil
}

// Enabled 判断是否启用
func (c *Client) Enabled() bool {
	return c != nil && c.enabled && c.client != nil
}

// Close 关闭客户端
func (c *Client) Close() error {
	if c == nil || c.client == nil {
		return nil
	}
	return c.client.Close()
}

// SchedulePoll 调度首次支付状态轮询
func (c *Client) SchedulePoll(ctx context.Context, providerName, reference, orderID, sessionKey string) error {
	return c.EnqueuePaymentStatusCheck(ctx, PaymentStatusCheckPayload{
		Provider:   providerName,
		Reference:  reference,
		OrderID:    orderID,
		SessionKey: sessionKey,
		Attempt:    1,
	}, c.pollDelay)
}

// EnqueuePaymentStatusCheck 推送支付状态轮询任务
func (c *Client) EnqueuePaymentStatusCheck(ctx context.Context, payload PaymentStatusCheckPayload, delay time.Duration) error {
	if !c.Enabled() {
		return nil
	}
	if delay < 0 {
		delay = 0
	}
	task, err := NewPaymentStatusCheckTask(payload)
	if err != nil {
		return err
	}
	options := []asynq.Option{asynq.Queue(c.defaultQueue), asynq.ProcessIn(delay)}
	_, err = c.client.EnqueueContext(ctx, task, options...)
	return err
}

// PollDelay 两次状态轮询之间的间隔
func (c *Client) PollDelay() time.Duration {
	if c == nil || c.pollDelay <= 0 {
		return defaultPollDelay
	}
	return c.pollDelay
}

// BuildServerConfig 生成队列服务配置
func BuildServerConfig(cfg *config.QueueConfig) (asynq.RedisClientOpt, asynq.Config) {
	opt := buildRedisOpt(cfg)
	concurrency := 10
	if cfg != nil && cfg.Concurrency > 0 {
		concurrency = cfg.Concurrency
	}
	queues := map[string]int{DefaultQueue: 1}
	if cfg != nil && len(cfg.Queues) > 0 {
		queues = cfg.Queues
	}
	return opt, asynq.Config{
		Concurrency: concurrency,
		Queues:      queues,
	}
}

func buildRedisOpt(cfg *config.QueueConfig) asynq.RedisClientOpt {
	host := "127.0.0.1"
	port := 6379
	password := ""
	db := 0
	if cfg != nil {
		if strings.TrimSpace(cfg.Host) != "" {
			host = strings.TrimSpace(cfg.Host)
		}
		if cfg.Port > 0 {
			port = cfg.Port
		}
		password = cfg.Password
		db = cfg.DB
	}
	return asynq.RedisClientOpt{
		Addr:     fmt.Sprintf("%s:%d", host, port),
		Password: password,
		DB:       db,
	}
}

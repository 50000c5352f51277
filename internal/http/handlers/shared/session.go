package shared

import (
	"strings"

	"github.com/gin-gonic/gin"
)

// SessionKeyHeader 客户端回传会话键的请求头
const SessionKeyHeader = "X-Session-Key"

// SessionKeyFromRequest 读取客户端回传的会话键（可能为空）
func SessionKeyFromRequest(c *gin.Context) string {
	return strings.TrimSpace(c.GetHeader(SessionKeyHeader))
}

// EchoSessionKey 将生效的会话键写回响应头，客户端据此持久化
func EchoSessionKey(c *gin.Context, key string) {
	if key != "" {
		c.Writer.Header().Set(SessionKeyHeader, key)
	}
}

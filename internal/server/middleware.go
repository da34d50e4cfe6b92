package server

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	HeaderRequestId = "X-Request-ID"
	keyRequestId    = "requestId"
)

// requestIdMiddleware 沿用客户端传入的合法请求ID，否则生成新的ID，并写入响应头
func requestIdMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(HeaderRequestId)
		if _, err := uuid.Parse(id); err != nil {
			id = uuid.NewString()
		}
		c.Set(keyRequestId, id)
		c.Header(HeaderRequestId, id)
		c.Next()
	}
}

func requestId(c *gin.Context) string {
	return c.GetString(keyRequestId)
}

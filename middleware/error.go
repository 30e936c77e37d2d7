package middleware

import (
	"github.com/gin-gonic/gin"

	"github.com/BerniceZTT/vet_admin/utils"
)

// ErrorHandler 全局错误处理中间件
func ErrorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		// 已经写出响应时不重复处理
		if c.Writer.Written() {
			return
		}

		if len(c.Errors) > 0 {
			utils.HandleError(c, c.Errors.Last().Err)
		}
	}
}

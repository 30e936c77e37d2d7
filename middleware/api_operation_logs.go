package middleware

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/dgrijalva/jwt-go"
	"github.com/gin-gonic/gin"

	"github.com/BerniceZTT/vet_admin/models"
	"github.com/BerniceZTT/vet_admin/repository"
	"github.com/BerniceZTT/vet_admin/utils"
)

// 需要记录的HTTP方法
var loggedMethods = map[string]bool{
	http.MethodPost:   true,
	http.MethodPut:    true,
	http.MethodDelete: true,
	http.MethodPatch:  true,
}

// 不需要记录的路径
var excludedPaths = map[string]bool{
	"/api/health":    true,
	"/api/db-status": true,
}

// 保存日志的超时
const saveTimeout = 5 * time.Second

// OperationLoggerMiddleware 操作日志记录中间件，写操作经 store 持久化
func OperationLoggerMiddleware(store repository.OperationLogStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		// 检查是否需要记录此操作
		if !shouldLogOperation(c) {
			c.Next()
			return
		}

		startTime := time.Now()
		path := c.Request.URL.Path
		method := c.Request.Method

		// 创建自定义响应写入器以捕获响应体
		blw := &bodyLogWriter{
			body:           bytes.NewBufferString(""),
			ResponseWriter: c.Writer,
		}
		c.Writer = blw

		// 读取并重置请求体，文件上传只记录文件名
		var requestBody interface{}
		if isMultipart(c) {
			requestBody = "<multipart>"
		} else if c.Request.Body != nil {
			requestBodyBytes, err := io.ReadAll(c.Request.Body)
			if err != nil {
				utils.Logger.Error().Err(err).Msg("读取请求体失败")
			} else {
				// 重置请求体，以便后续处理
				c.Request.Body = io.NopCloser(bytes.NewBuffer(requestBodyBytes))
				requestBody = decodeBody(c.ContentType(), requestBodyBytes)
			}
		}

		// 处理请求
		c.Next()

		responseTime := time.Since(startTime).Milliseconds()
		responseData := decodeBody(c.Writer.Header().Get("Content-Type"), blw.body.Bytes())

		// 获取错误信息（如果有）
		var errorMessage string
		if len(c.Errors) > 0 {
			errorMessage = c.Errors.String()
		}

		// 提取用户信息
		operatorID, operatorName, operatorType := extractUserInfo(c)

		operationLog := models.OperationLog{
			Method:        method,
			Path:          path,
			Resource:      operationResource(c),
			OperatorID:    operatorID,
			OperatorName:  operatorName,
			OperatorType:  operatorType,
			RequestBody:   sanitizeData(requestBody),
			RequestHeader: sanitizeHeaders(c.Request.Header),
			ResponseData:  sanitizeData(responseData),
			StatusCode:    c.Writer.Status(),
			Success:       c.Writer.Status() < http.StatusBadRequest,
			ErrorMessage:  errorMessage,
			OperationTime: startTime,
			ResponseTime:  responseTime,
			IPAddress:     getClientIP(c),
			UserAgent:     c.Request.UserAgent(),
		}

		// 请求可能已结束，保存不跟随请求取消
		ctx, cancel := context.WithTimeout(context.WithoutCancel(c.Request.Context()), saveTimeout)
		defer cancel()

		if err := store.Save(ctx, &operationLog); err != nil {
			utils.Logger.Error().Err(err).Msg("保存操作日志失败")
			// 尝试保存最小日志
			minimalLog := operationLog
			minimalLog.RequestBody = nil
			minimalLog.RequestHeader = nil
			minimalLog.ResponseData = nil
			minimalLog.ErrorMessage = fmt.Sprintf("保存详细日志失败: %v", err)

			if saveErr := store.Save(ctx, &minimalLog); saveErr != nil {
				utils.Logger.Error().Err(saveErr).Msg("保存最小日志失败")
			}
		}

		utils.Logger.Info().
			Str("method", method).
			Str("path", path).
			Int("status", c.Writer.Status()).
			Str("operator", operatorName).
			Int64("responseTime", responseTime).
			Msg("操作日志记录完成")
	}
}

// shouldLogOperation 检查是否需要记录此操作
func shouldLogOperation(c *gin.Context) bool {
	if excludedPaths[c.Request.URL.Path] {
		return false
	}
	return loggedMethods[c.Request.Method]
}

// operationResource 从路由参数推断被操作的资源
func operationResource(c *gin.Context) string {
	if r := c.Param("resource"); r != "" {
		return r
	}
	if v := c.Param("view"); v != "" {
		return v
	}
	if strings.HasPrefix(c.FullPath(), "/api/uploads/") {
		return "uploads"
	}
	return ""
}

func decodeBody(contentType string, raw []byte) interface{} {
	if len(raw) == 0 {
		return nil
	}
	if strings.Contains(contentType, "application/json") {
		var v interface{}
		if err := json.Unmarshal(raw, &v); err == nil {
			return v
		}
		utils.Logger.Warn().Msg("解析JSON内容失败")
	}
	return truncate(string(raw))
}

// extractUserInfo 从上下文中提取用户信息
func extractUserInfo(c *gin.Context) (string, string, string) {
	// 默认匿名用户
	operatorID := "anonymous"
	operatorName := "匿名用户"
	operatorType := "UNKNOWN"

	var claims map[string]interface{}
	if userClaims, exists := c.Get("user"); exists {
		switch v := userClaims.(type) {
		case jwt.MapClaims:
			claims = v
		case map[string]interface{}:
			claims = v
		}
	}

	// 尝试从Authorization头解析JWT
	if claims == nil {
		authHeader := c.GetHeader("Authorization")
		if strings.HasPrefix(authHeader, "Bearer ") {
			if parsed, err := utils.ParseToken(strings.TrimPrefix(authHeader, "Bearer ")); err == nil {
				claims = parsed
			}
		}
	}

	if id, ok := claims["id"].(string); ok {
		operatorID = id
	}
	if username, ok := claims["username"].(string); ok {
		operatorName = username
	}
	if role, ok := claims["role"].(string); ok {
		operatorType = role
	}
	return operatorID, operatorName, operatorType
}

// sanitizeData 清理数据中的敏感信息
func sanitizeData(data interface{}) interface{} {
	switch v := data.(type) {
	case map[string]interface{}:
		sanitized := make(map[string]interface{}, len(v))
		for k, val := range v {
			switch strings.ToLower(k) {
			case "password", "token", "authorization", "secret", "key":
				sanitized[k] = "******"
			default:
				sanitized[k] = sanitizeData(val)
			}
		}
		return sanitized
	case []interface{}:
		sanitized := make([]interface{}, len(v))
		for i, val := range v {
			sanitized[i] = sanitizeData(val)
		}
		return sanitized
	}
	return data
}

// sanitizeHeaders 清理请求头中的敏感信息
func sanitizeHeaders(headers http.Header) map[string]interface{} {
	sanitized := make(map[string]interface{})
	for k, v := range headers {
		switch strings.ToLower(k) {
		case "authorization":
			if len(v) > 0 {
				sanitized[k] = utils.ShortAuthHeader(v[0])
			}
		case "cookie", "x-api-key":
			sanitized[k] = "******"
		default:
			sanitized[k] = v
		}
	}
	return sanitized
}

// getClientIP 获取客户端IP地址
func getClientIP(c *gin.Context) string {
	// 尝试从各种可能的头获取真实IP
	if ip := c.Request.Header.Get("X-Forwarded-For"); ip != "" {
		return strings.TrimSpace(strings.Split(ip, ",")[0])
	}
	if ip := c.Request.Header.Get("X-Real-IP"); ip != "" {
		return ip
	}
	return c.ClientIP()
}

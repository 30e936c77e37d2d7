package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/BerniceZTT/vet_admin/cache"
	"github.com/BerniceZTT/vet_admin/client"
	"github.com/BerniceZTT/vet_admin/models"
	"github.com/BerniceZTT/vet_admin/utils"
)

// AuthMiddleware 认证中间件。验证通过后把用户信息写入 gin 上下文，
// 并把用户 id（缓存作用域）和原始 token（转发给后端）写入请求 context。
func AuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		// 从请求头获取token
		authHeader := c.GetHeader("Authorization")

		utils.Logger.Debug().
			Str("path", c.Request.URL.Path).
			Str("method", c.Request.Method).
			Str("authorization", utils.ShortAuthHeader(authHeader)).
			Msg("验证请求")

		// 检查Authorization头
		token := strings.TrimPrefix(authHeader, "Bearer ")
		if authHeader == "" || !strings.HasPrefix(authHeader, "Bearer ") || token == "" {
			utils.Logger.Info().Msg("缺少Authorization头或格式错误")
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"success": false,
				"error":   "未授权访问",
				"code":    "MISSING_TOKEN",
			})
			return
		}

		// 解析token
		claims, err := utils.ParseToken(token)
		if err != nil {
			utils.Logger.Warn().Err(err).Msg("Token验证失败")
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"success": false,
				"error":   "无效的token: " + err.Error(),
				"code":    "INVALID_TOKEN",
			})
			return
		}

		// 检查必要字段
		id, _ := claims["id"].(string)
		role, _ := claims["role"].(string)
		username, _ := claims["username"].(string)
		if id == "" || role == "" || username == "" {
			utils.Logger.Warn().Interface("claims", claims).Msg("Token负载缺少必要字段")
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"success": false,
				"error":   "Token缺少必要字段",
				"code":    "INVALID_TOKEN",
			})
			return
		}

		// 将用户信息存储到上下文
		c.Set("user", claims)
		c.Set("token", token)

		ctx := cache.WithScope(c.Request.Context(), id)
		ctx = client.WithToken(ctx, token)
		c.Request = c.Request.WithContext(ctx)

		utils.Logger.Debug().
			Str("username", username).
			Str("role", role).
			Msg("验证成功")

		c.Next()
	}
}

// PermissionMiddleware 按角色检查资源操作权限
func PermissionMiddleware(resource string, action string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !Authorize(c, resource, action) {
			return
		}
		c.Next()
	}
}

// Authorize 检查当前用户对 resource 的 action 权限，不通过时写入错误响应并返回 false。
// 资源名来自路径参数的处理函数直接调用它。
func Authorize(c *gin.Context, resource string, action string) bool {
	user, err := utils.GetUser(c)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
			"success": false,
			"error":   "用户未认证",
			"code":    "UNAUTHENTICATED",
		})
		return false
	}

	if !models.IsValidUserRole(user.Role) {
		c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
			"success": false,
			"error":   "用户角色信息无效",
			"code":    "INVALID_ROLE",
		})
		return false
	}

	if !utils.HasPermission(models.UserRole(user.Role), resource, action) {
		utils.Logger.Info().
			Str("username", user.Username).
			Str("role", user.Role).
			Str("resource", resource).
			Str("action", action).
			Msg("权限不足")

		c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
			"success": false,
			"error":   "权限不足",
			"code":    "INSUFFICIENT_PERMISSION",
		})
		return false
	}
	return true
}

// RoleMiddleware 只允许指定角色访问
func RoleMiddleware(roles ...models.UserRole) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, err := utils.GetUser(c)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"success": false,
				"error":   "用户未认证",
				"code":    "UNAUTHENTICATED",
			})
			return
		}
		for _, role := range roles {
			if models.UserRole(user.Role) == role {
				c.Next()
				return
			}
		}
		c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
			"success": false,
			"error":   "权限不足",
			"code":    "INSUFFICIENT_PERMISSION",
		})
	}
}

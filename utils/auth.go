package utils

import (
	"fmt"
	"time"

	"github.com/dgrijalva/jwt-go"

	"github.com/BerniceZTT/vet_admin/models"
)

var jwtSecret = []byte("your-secret-key")

// InitJWT 设置JWT签名密钥
func InitJWT(secret string) {
	jwtSecret = []byte(secret)
}

// GenerateToken 生成JWT令牌
func GenerateToken(userID, username string, role models.UserRole, ttl time.Duration) (string, error) {
	claims := jwt.MapClaims{
		"id":       userID,
		"username": username,
		"role":     string(role),
		"exp":      time.Now().Add(ttl).Unix(),
		"iat":      time.Now().Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString(jwtSecret)
	if err != nil {
		Logger.Error().Err(err).Msg("生成token失败")
		return "", err
	}
	return tokenString, nil
}

// ParseToken 解析和验证JWT令牌
func ParseToken(tokenString string) (jwt.MapClaims, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		// 验证签名方法
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return jwtSecret, nil
	})

	if err != nil {
		return nil, err
	}

	// 验证token并提取claims
	if claims, ok := token.Claims.(jwt.MapClaims); ok && token.Valid {
		return claims, nil
	}

	return nil, fmt.Errorf("无效的token")
}

// HasPermission 检查用户是否有权限
func HasPermission(role models.UserRole, resource string, action string) bool {
	// 管理员拥有所有权限
	if role == models.UserRoleADMIN {
		return true
	}

	// 定义各角色权限
	permissions := map[models.UserRole]map[string][]string{
		models.UserRoleVETERINARIAN: {
			"patients":     {"read", "create", "update"},
			"owners":       {"read", "create", "update"},
			"appointments": {"read", "create", "update", "delete"},
			"lab-exams":    {"read", "create", "update", "delete"},
			"products":     {"read"},
			"studies":      {"read", "create"},
			"clinics":      {"read"},
		},
		models.UserRoleRECEPTIONIST: {
			"patients":        {"read", "create", "update"},
			"owners":          {"read", "create", "update", "delete"},
			"appointments":    {"read", "create", "update", "delete"},
			"sales":           {"read", "create", "update"},
			"products":        {"read"},
			"payment-methods": {"read"},
			"grooming":        {"read", "create", "update"},
			"clinics":         {"read"},
		},
		models.UserRoleGROOMER: {
			"grooming": {"read", "create", "update", "delete"},
			"patients": {"read"},
			"owners":   {"read"},
			"clinics":  {"read"},
		},
	}

	if resourceActions, exists := permissions[role]; exists {
		if actions, hasResource := resourceActions[resource]; hasResource {
			for _, a := range actions {
				if a == action {
					return true
				}
			}
		}
	}

	return false
}

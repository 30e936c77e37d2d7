package models

// UserRole 用户角色枚举
type UserRole string

const (
	UserRoleADMIN        UserRole = "ADMIN"        // 管理员
	UserRoleVETERINARIAN UserRole = "VETERINARIAN" // 兽医
	UserRoleRECEPTIONIST UserRole = "RECEPTIONIST" // 前台
	UserRoleGROOMER      UserRole = "GROOMER"      // 美容师
)

// IsValidUserRole 验证角色是否有效
func IsValidUserRole(role string) bool {
	switch UserRole(role) {
	case UserRoleADMIN, UserRoleVETERINARIAN, UserRoleRECEPTIONIST, UserRoleGROOMER:
		return true
	}
	return false
}

// ErrorEnvelope 后端错误响应 {msg}
type ErrorEnvelope struct {
	Msg     string `json:"msg"`
	Message string `json:"message,omitempty"`
}

package utils

import (
	"os"
	"time"

	"github.com/rs/zerolog"
)

// Logger 全局日志对象
var Logger = zerolog.Nop()

// InitLogger 初始化日志系统
func InitLogger(debug bool) {
	// 配置日志输出
	output := zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339}

	// 创建日志记录器
	Logger = zerolog.New(output).
		With().
		Timestamp().
		Caller().
		Logger().
		Level(zerolog.InfoLevel)

	// 设置日志级别
	if debug {
		Logger = Logger.Level(zerolog.DebugLevel)
	}

	Logger.Info().Msg("日志系统初始化完成")
}

// LogApiRequest 记录API请求
func LogApiRequest(method, url string, params, body interface{}, headers map[string]string) {
	// 过滤敏感信息
	if headers != nil && headers["Authorization"] != "" {
		headers["Authorization"] = ShortAuthHeader(headers["Authorization"])
	}

	Logger.Info().
		Str("method", method).
		Str("url", url).
		Interface("params", params).
		Interface("body", body).
		Interface("headers", headers).
		Msg("API请求")
}

// LogApiResponse 记录API响应
func LogApiResponse(method, url string, statusCode int, responseTime time.Duration, responseBody interface{}) {
	event := Logger.Info()
	if statusCode >= 400 {
		event = Logger.Error()
	}
	event.
		Str("method", method).
		Str("url", url).
		Int("statusCode", statusCode).
		Dur("responseTime", responseTime).
		Interface("body", responseBody).
		Msg("API响应")
}

// LogBackendCall 记录对诊所后端的调用
func LogBackendCall(method, url string, statusCode int, responseTime time.Duration, err error) {
	event := Logger.Debug()
	if err != nil || statusCode >= 400 {
		event = Logger.Warn().Err(err)
	}
	event.
		Str("method", method).
		Str("url", url).
		Int("statusCode", statusCode).
		Dur("responseTime", responseTime).
		Msg("后端调用")
}

// LogValidationMismatch 记录响应结构校验失败（不影响调用方）
func LogValidationMismatch(resource string, diagnostic error) {
	Logger.Warn().
		Err(diagnostic).
		Str("resource", resource).
		Msg("响应数据与预期结构不一致，使用未校验数据")
}

// LogInfo 记录
func LogInfo(context map[string]interface{}, message string) {
	Logger.Info().
		Interface("context", context).
		Msg(message)
}

// LogError 记录错误
func LogError(err error, context map[string]interface{}, message string) {
	Logger.Error().
		Err(err).
		Interface("context", context).
		Msg(message)
}

// ShortAuthHeader 截断授权头，保护敏感信息
func ShortAuthHeader(header string) string {
	if len(header) > 15 {
		return header[:15] + "..."
	}
	return header
}

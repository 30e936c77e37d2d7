package utils

import (
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// 用户可见提示的消息键
const (
	MsgNetworkError       = "error.network"
	MsgServerError        = "error.server"
	MsgUnexpectedResponse = "error.unexpected_response"
	MsgInvalidRequest     = "error.invalid_request"
	MsgDeleteSuccess      = "delete.success"
	MsgDeleteFailed       = "delete.failed"
	MsgDeletePending      = "delete.pending"
	MsgNoDeleteTarget     = "delete.no_target"
	MsgCreateSuccess      = "mutation.created"
	MsgUpdateSuccess      = "mutation.updated"
	MsgUploadSuccess      = "upload.success"
)

var supportedTags = []language.Tag{
	language.Spanish,
	language.English,
}

var tagMatcher = language.NewMatcher(supportedTags)

func init() {
	es := language.Spanish
	message.SetString(es, MsgNetworkError, "Error de red: no se pudo conectar con el servidor")
	message.SetString(es, MsgServerError, "Ocurrió un error en el servidor")
	message.SetString(es, MsgUnexpectedResponse, "Respuesta inesperada del servidor")
	message.SetString(es, MsgInvalidRequest, "No se pudo preparar la solicitud")
	message.SetString(es, MsgDeleteSuccess, "%s eliminado correctamente")
	message.SetString(es, MsgDeleteFailed, "No se pudo eliminar %s")
	message.SetString(es, MsgDeletePending, "Hay una eliminación en curso")
	message.SetString(es, MsgNoDeleteTarget, "No hay ningún elemento seleccionado para eliminar")
	message.SetString(es, MsgCreateSuccess, "%s creado correctamente")
	message.SetString(es, MsgUpdateSuccess, "%s actualizado correctamente")
	message.SetString(es, MsgUploadSuccess, "Archivo subido correctamente")

	en := language.English
	message.SetString(en, MsgNetworkError, "Network error: could not reach the server")
	message.SetString(en, MsgServerError, "The server reported an error")
	message.SetString(en, MsgUnexpectedResponse, "Unexpected server response")
	message.SetString(en, MsgInvalidRequest, "Could not prepare the request")
	message.SetString(en, MsgDeleteSuccess, "%s deleted")
	message.SetString(en, MsgDeleteFailed, "Could not delete %s")
	message.SetString(en, MsgDeletePending, "A deletion is already in progress")
	message.SetString(en, MsgNoDeleteTarget, "Nothing is selected for deletion")
	message.SetString(en, MsgCreateSuccess, "%s created")
	message.SetString(en, MsgUpdateSuccess, "%s updated")
	message.SetString(en, MsgUploadSuccess, "File uploaded")
}

// ResolveLocale 将配置或请求中的语言解析为支持的语言标签，默认西班牙语
func ResolveLocale(locale string) language.Tag {
	locale = strings.TrimSpace(locale)
	if locale == "" {
		return language.Spanish
	}
	tags, _, err := language.ParseAcceptLanguage(locale)
	if err != nil || len(tags) == 0 {
		return language.Spanish
	}
	_, index, confidence := tagMatcher.Match(tags...)
	if confidence == language.No {
		return language.Spanish
	}
	return supportedTags[index]
}

// Printer 返回指定语言的消息打印器
func Printer(locale string) *message.Printer {
	return message.NewPrinter(ResolveLocale(locale))
}

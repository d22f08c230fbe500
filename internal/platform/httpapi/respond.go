package httpapi

import (
	"errors"

	"github.com/gin-gonic/gin"

	"LMS-backend/internal/library"
)

// 全エンドポイント共通のエラーレスポンス形:
// {"error": {"code": "...", "message": "..."}}

type ErrorDTO struct {
	Error struct {
		Code    library.Code `json:"code"`
		Message string       `json:"message"`
	} `json:"error"`
}

func ErrorBody(code library.Code, msg string) ErrorDTO {
	var e ErrorDTO
	e.Error.Code = code
	e.Error.Message = msg
	return e
}

// Abort はAPIErrorの分類に従ってステータスとボディを書いて終了する。
func Abort(c *gin.Context, err error) {
	msg := err.Error()
	var api *library.APIError
	if errors.As(err, &api) {
		msg = api.Message
	}
	c.JSON(library.ToHTTPStatus(err), ErrorBody(library.CodeOf(err), msg))
}

// AbortInvalid はJSONバインド失敗など、分類前の400用ショートカット。
func AbortInvalid(c *gin.Context, msg string) {
	c.JSON(400, ErrorBody(library.CodeInvalidArgument, msg))
}

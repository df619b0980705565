package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Response is the envelope every endpoint returns.
type Response struct {
	Code int    `json:"code"`
	Data any    `json:"data"`
	Msg  string `json:"message"`
}

const (
	codeOK          = 0
	codeInvalid     = 40001
	codeForbidden   = 40300
	codeNotFound    = 40400
	codeUnsupported = 50100
	codeFailed      = 50000
)

func success(c *gin.Context, data any) {
	c.JSON(http.StatusOK, Response{Code: codeOK, Data: data, Msg: "ok"})
}

func fail(c *gin.Context, code int, msg string) {
	c.JSON(httpStatus(code), Response{Code: code, Msg: msg})
}

func httpStatus(code int) int {
	switch code {
	case codeInvalid:
		return http.StatusBadRequest
	case codeForbidden:
		return http.StatusForbidden
	case codeNotFound:
		return http.StatusNotFound
	case codeUnsupported:
		return http.StatusNotImplemented
	case codeOK:
		return http.StatusOK
	default:
		return http.StatusInternalServerError
	}
}

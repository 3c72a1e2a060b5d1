package response

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	apperrors "github.com/xiebiao/library-api/pkg/errors"
	"github.com/xiebiao/library-api/pkg/logger"
)

// Response 统一响应结构
// 设计说明：
// 1. Code是业务错误码（0表示成功），HTTP状态码单独设置
// 2. Detail是错误提示信息，成功时省略
// 3. Errors是字段级校验错误
type Response struct {
	Code   int                 `json:"code"`
	Detail string              `json:"detail,omitempty"`
	Data   interface{}         `json:"data,omitempty"`
	Errors map[string][]string `json:"errors,omitempty"`
}

// Success 成功响应（200）
func Success(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, Response{
		Code: 0,
		Data: data,
	})
}

// Created 创建成功响应（201）
func Created(c *gin.Context, data interface{}) {
	c.JSON(http.StatusCreated, Response{
		Code: 0,
		Data: data,
	})
}

// NoContent 无内容响应（204）
func NoContent(c *gin.Context) {
	c.Status(http.StatusNoContent)
}

// Error 错误响应（自动处理AppError）
// 用法：
//
//	book, err := uc.Execute(ctx, req)
//	if err != nil {
//	    response.Error(c, err)
//	    return
//	}
func Error(c *gin.Context, err error) {
	appErr := apperrors.GetAppError(err)
	status := appErr.HTTPStatus()

	// 服务端错误只返回通用提示，内部错误写日志
	if status >= http.StatusInternalServerError {
		logger.FromGin(c).Error("request failed",
			zap.Int("code", appErr.Code),
			zap.String("message", appErr.Message),
			zap.Error(appErr.Err),
		)
		c.JSON(status, Response{
			Code:   appErr.Code,
			Detail: apperrors.ErrInternal.Message,
		})
		return
	}

	c.JSON(status, Response{
		Code:   appErr.Code,
		Detail: appErr.Message,
		Errors: appErr.Fields,
	})
}

// Abort 错误响应并终止后续Handler（中间件使用）
func Abort(c *gin.Context, err error) {
	Error(c, err)
	c.Abort()
}

// =========================================
// 列表响应结构
// =========================================

// ListData 列表数据封装
type ListData struct {
	Count   int         `json:"count"`   // 记录数
	Results interface{} `json:"results"` // 数据列表
}

// SuccessWithList 列表成功响应
func SuccessWithList(c *gin.Context, list interface{}, count int) {
	Success(c, &ListData{
		Count:   count,
		Results: list,
	})
}

package utils

import "github.com/gin-gonic/gin"

// Response is the uniform JSON envelope returned by every endpoint.
type Response struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Count   *int        `json:"count,omitempty"`
	Message string      `json:"message,omitempty"`
}

// OK sends a success envelope with a data payload.
func OK(c *gin.Context, status int, data interface{}) {
	c.JSON(status, Response{Success: true, Data: data})
}

// OKCount sends a success envelope for list responses, including the count.
func OKCount(c *gin.Context, status int, count int, data interface{}) {
	c.JSON(status, Response{Success: true, Count: &count, Data: data})
}

// Fail sends a failure envelope with a client-facing message.
func Fail(c *gin.Context, status int, message string) {
	c.JSON(status, Response{Success: false, Message: message})
}

// AbortFail sends a failure envelope and aborts the handler chain. For use in
// middleware.
func AbortFail(c *gin.Context, status int, message string) {
	c.AbortWithStatusJSON(status, Response{Success: false, Message: message})
}

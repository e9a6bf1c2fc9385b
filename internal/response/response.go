package response

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Response is the standard API envelope.
type Response struct {
	Status  string      `json:"status"`
	Data    interface{} `json:"data,omitempty"`
	Message string      `json:"message,omitempty"`
}

// Success returns a success envelope
func Success(data interface{}) Response {
	return Response{
		Status: "success",
		Data:   data,
	}
}

// SuccessMessage returns a success envelope with a message and no data
func SuccessMessage(message string) Response {
	return Response{
		Status:  "success",
		Message: message,
	}
}

// Error returns an error envelope
func Error(message string) Response {
	return Response{
		Status:  "error",
		Message: message,
	}
}

// SuccessJSON sends a 200 success JSON response
func SuccessJSON(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, Success(data))
}

// CreatedJSON sends a 201 success JSON response
func CreatedJSON(c *gin.Context, data interface{}) {
	c.JSON(http.StatusCreated, Success(data))
}

// ErrorJSON sends an error JSON response
func ErrorJSON(c *gin.Context, statusCode int, message string) {
	c.JSON(statusCode, Error(message))
}

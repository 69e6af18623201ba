package response

import "github.com/gin-gonic/gin"

type Error struct {
	Success bool   `json:"success"`
	Code    int    `json:"code"`
	Extras  string `json:"extras"`
}

func (e Error) Error() string {
	return e.Extras
}

func NewError(code int, message string) Error {
	return Error{
		Success: false,
		Code:    code,
		Extras:  message,
	}
}

// AbortWithError stops the handler chain and writes e in the error envelope.
func AbortWithError(c *gin.Context, e Error) {
	c.AbortWithStatusJSON(
		e.Code,
		NewResponse(
			false,
			e.Code,
			map[string]any{
				"message": e.Extras,
			},
		))
}

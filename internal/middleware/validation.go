package middleware

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/yigit/edupath/internal/pkg/apperrors"
	"github.com/yigit/edupath/internal/pkg/validation"
)

// BindJSON decodes the request body into obj and validates its `validate` tags.
// On failure the error response is already written and false is returned.
func BindJSON(c *gin.Context, obj interface{}) bool {
	if err := c.ShouldBindJSON(obj); err != nil {
		HandleAPIError(c, apperrors.NewBadRequestError("Invalid request format: "+err.Error()))
		return false
	}
	return validate(c, obj)
}

// BindQuery binds query parameters into obj using `form` tags and validates it.
func BindQuery(c *gin.Context, obj interface{}) bool {
	if err := c.ShouldBindQuery(obj); err != nil {
		HandleAPIError(c, apperrors.NewBadRequestError("Invalid query parameters: "+err.Error()))
		return false
	}
	return validate(c, obj)
}

func validate(c *gin.Context, obj interface{}) bool {
	if err := validation.Default().Struct(obj); err != nil {
		HandleAPIError(c, err)
		return false
	}
	return true
}

// ParamID parses a positive integer path parameter
func ParamID(c *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		HandleAPIError(c, apperrors.NewBadRequestError("Invalid "+name))
		return 0, false
	}
	return id, true
}

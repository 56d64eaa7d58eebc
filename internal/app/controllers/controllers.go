package controllers

import (
	"io"
	"time"

	"github.com/gin-gonic/gin"

	authz "github.com/yigit/edupath/internal/app/auth"
	"github.com/yigit/edupath/internal/middleware"
	"github.com/yigit/edupath/internal/pkg/apperrors"
)

func nowUTC() time.Time {
	return time.Now().UTC()
}

// actorOrAbort reads the authenticated caller set by JWTAuth
func actorOrAbort(ctx *gin.Context) (authz.Actor, bool) {
	actor, err := middleware.ActorFrom(ctx)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return authz.Actor{}, false
	}
	return actor, true
}

// formFile opens the multipart file field. The caller closes the reader.
func formFile(ctx *gin.Context, field string) (string, io.ReadCloser, bool) {
	header, err := ctx.FormFile(field)
	if err != nil {
		middleware.HandleAPIError(ctx, apperrors.NewCustomError(apperrors.ErrUnsupportedFile, "file is required").
			WithDetails(map[string]interface{}{"field": field}))
		return "", nil, false
	}

	file, err := header.Open()
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return "", nil, false
	}
	return header.Filename, file, true
}

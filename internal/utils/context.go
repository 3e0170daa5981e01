package utils

import (
	"fmt"

	"github.com/SauravS-01/eNoteBook/internal/middleware"
	"github.com/SauravS-01/eNoteBook/internal/types"
	"github.com/gin-gonic/gin"
)

func GetCurrentUser(ctx *gin.Context) (middleware.AuthenticatedUser, error) {
	user, exists := ctx.Get(types.ContextUserKey)

	if !exists {
		return middleware.AuthenticatedUser{}, fmt.Errorf("user not authenticated")
	}

	authenticatedUser, ok := user.(middleware.AuthenticatedUser)

	if !ok {
		return middleware.AuthenticatedUser{}, fmt.Errorf("invalid user type in context")
	}

	return authenticatedUser, nil
}

func GetSessionToken(ctx *gin.Context) string {
	token, exists := ctx.Get(types.ContextSessionKey)

	if !exists {
		return ""
	}

	value, ok := token.(string)

	if !ok {
		return ""
	}

	return value
}

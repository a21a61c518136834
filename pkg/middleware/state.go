package middleware

import (
	"context"

	"github.com/gin-gonic/gin"

	"github.com/yeisme/taskvault/pkg/internal/state"
)

type stateKey struct{}

// StateMiddleware 将状态镜像注入到context中.
func StateMiddleware(st *state.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := context.WithValue(c.Request.Context(), stateKey{}, st)
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}

// GetState 从context中获取状态镜像.
func GetState(c *gin.Context) *state.Store {
	if st, ok := c.Request.Context().Value(stateKey{}).(*state.Store); ok {
		return st
	}

	return nil
}

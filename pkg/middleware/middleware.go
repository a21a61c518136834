// Package middleware 提供Gin中间件：监控、日志、追踪、认证、限流、熔断、缓存等.
package middleware

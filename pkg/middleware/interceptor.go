package middleware

import (
	"strings"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	grpc_zap "github.com/grpc-ecosystem/go-grpc-middleware/logging/zap"
	grpc_recovery "github.com/grpc-ecosystem/go-grpc-middleware/recovery"
)

// RecoveryInterceptorOpt - panic handler
func RecoveryInterceptorOpt() grpc_recovery.Option {
	return grpc_recovery.WithRecoveryHandler(func(p any) (err error) {
		return status.Errorf(codes.Unknown, "panic triggered: %v", p)
	})
}

// LoggingDecider skips successful health probes and logs every other call.
func LoggingDecider() grpc_zap.Option {
	return grpc_zap.WithDecider(func(fullMethodName string, err error) bool {
		if err == nil && strings.HasPrefix(fullMethodName, "/grpc.health.v1.Health/") {
			return false
		}
		return true
	})
}

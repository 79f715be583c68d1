package server

import (
	"context"
	"fmt"
	"log/slog"
	"runtime/debug"
	"strings"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
)

// The gRPC surface is the health service plus reflection. Health stays open
// for probes; everything else needs the admin token when one is set. Watch
// and reflection are streams, so every interceptor has a stream form.

const healthServicePrefix = "/grpc.health.v1.Health/"

func isHealthMethod(method string) bool {
	return strings.HasPrefix(method, healthServicePrefix)
}

// logRPC logs a finished call. Health probes arrive every few seconds and
// are only logged at debug.
func logRPC(method string, start time.Time, err error) {
	d := time.Since(start)
	switch {
	case err != nil:
		slog.Error("rpc failed", "method", method, "duration", d, "code", status.Code(err), "error", err)
	case isHealthMethod(method):
		slog.Debug("rpc completed", "method", method, "duration", d)
	default:
		slog.Info("rpc completed", "method", method, "duration", d)
	}
}

// recoverRPC must be deferred directly. It turns a panic into
// codes.Internal.
func recoverRPC(method string, err *error) {
	if r := recover(); r != nil {
		slog.Error("panic recovered in gRPC handler",
			"method", method,
			"panic", fmt.Sprintf("%v", r),
			"stack", string(debug.Stack()),
		)
		*err = status.Error(codes.Internal, "internal server error")
	}
}

// authorize applies the bearer check from the "authorization" metadata.
func authorize(ctx context.Context, method, token string) error {
	if token == "" || isHealthMethod(method) {
		return nil
	}
	md, ok := metadata.FromIncomingContext(ctx)
	if !ok {
		return status.Error(codes.Unauthenticated, "missing metadata")
	}
	var header string
	if vals := md.Get("authorization"); len(vals) > 0 {
		header = vals[0]
	}
	if err := checkBearer(header, token); err != nil {
		return status.Error(codes.Unauthenticated, err.Error())
	}
	return nil
}

func LoggingInterceptor(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
	start := time.Now()
	resp, err := handler(ctx, req)
	logRPC(info.FullMethod, start, err)
	return resp, err
}

func RecoveryInterceptor(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (resp any, err error) {
	defer recoverRPC(info.FullMethod, &err)
	return handler(ctx, req)
}

// AuthInterceptor checks the bearer token on unary calls. An empty token
// disables the check.
func AuthInterceptor(token string) grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
		if err := authorize(ctx, info.FullMethod, token); err != nil {
			return nil, err
		}
		return handler(ctx, req)
	}
}

func StreamLoggingInterceptor(srv any, ss grpc.ServerStream, info *grpc.StreamServerInfo, handler grpc.StreamHandler) error {
	start := time.Now()
	err := handler(srv, ss)
	logRPC(info.FullMethod, start, err)
	return err
}

func StreamRecoveryInterceptor(srv any, ss grpc.ServerStream, info *grpc.StreamServerInfo, handler grpc.StreamHandler) (err error) {
	defer recoverRPC(info.FullMethod, &err)
	return handler(srv, ss)
}

// StreamAuthInterceptor guards streams such as reflection. Health Watch
// stays open.
func StreamAuthInterceptor(token string) grpc.StreamServerInterceptor {
	return func(srv any, ss grpc.ServerStream, info *grpc.StreamServerInfo, handler grpc.StreamHandler) error {
		if err := authorize(ss.Context(), info.FullMethod, token); err != nil {
			return err
		}
		return handler(srv, ss)
	}
}

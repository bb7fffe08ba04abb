package grpc

import (
	"context"
	"log/slog"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"

	"github.com/aradsms/contactbook/internal/platform/auth"
)

var (
	grpcRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "contacts",
			Name:      "grpc_requests_total",
			Help:      "Total number of gRPC requests handled.",
		},
		[]string{"method", "code"},
	)

	grpcRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "contacts",
			Name:      "grpc_request_duration_seconds",
			Help:      "Duration of gRPC requests.",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"method"},
	)
)

type subjectKey struct{}

// SubjectFromContext returns the authenticated token subject, if any.
func SubjectFromContext(ctx context.Context) (string, bool) {
	s, ok := ctx.Value(subjectKey{}).(string)
	return s, ok
}

// AuthUnaryInterceptor requires an HS256 bearer token in the "authorization"
// metadata, mirroring the HTTP JWT middleware.
func AuthUnaryInterceptor(secret []byte, logger *slog.Logger) grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req interface{}, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (interface{}, error) {
		var header string
		if md, ok := metadata.FromIncomingContext(ctx); ok {
			if values := md.Get("authorization"); len(values) > 0 {
				header = values[0]
			}
		}

		tokenString, err := auth.BearerToken(header)
		if err != nil {
			logger.WarnContext(ctx, "Rejected authorization metadata", "method", info.FullMethod, "error", err)
			return nil, status.Error(codes.Unauthenticated, err.Error())
		}
		subject, err := auth.VerifyHS256(tokenString, secret)
		if err != nil {
			logger.WarnContext(ctx, "Token validation failed", "method", info.FullMethod, "error", err)
			return nil, status.Error(codes.Unauthenticated, "invalid or expired token")
		}
		return handler(context.WithValue(ctx, subjectKey{}, subject), req)
	}
}

// MetricsUnaryInterceptor records a request count and duration per method.
func MetricsUnaryInterceptor(logger *slog.Logger) grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req interface{}, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (interface{}, error) {
		start := time.Now()
		resp, err := handler(ctx, req)
		code := status.Code(err)

		grpcRequestDuration.WithLabelValues(info.FullMethod).Observe(time.Since(start).Seconds())
		grpcRequestsTotal.WithLabelValues(info.FullMethod, code.String()).Inc()
		logger.DebugContext(ctx, "gRPC request handled", "method", info.FullMethod, "code", code.String(), "duration", time.Since(start))
		return resp, err
	}
}

// NewServer returns a grpc.Server with the contact service registered.
// An empty jwtSecret disables authentication.
func NewServer(service ContactService, jwtSecret string, logger *slog.Logger) *grpc.Server {
	interceptors := []grpc.UnaryServerInterceptor{MetricsUnaryInterceptor(logger)}
	if jwtSecret != "" {
		interceptors = append(interceptors, AuthUnaryInterceptor([]byte(jwtSecret), logger))
	}
	server := grpc.NewServer(grpc.ChainUnaryInterceptor(interceptors...))
	RegisterContactServiceServer(server, NewGRPCServer(service, logger))
	return server
}

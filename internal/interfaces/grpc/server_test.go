package grpc

import (
	"context"
	"net"
	"strconv"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/status"

	"github.com/turtacn/SakuraScope/internal/config"
	"github.com/turtacn/SakuraScope/internal/testutil"
)

type call struct {
	service, method, code string
}

type recordingMetrics struct {
	mu    sync.Mutex
	calls []call
}

func (m *recordingMetrics) RecordGRPCRequest(service, method, code string, _ time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = append(m.calls, call{service, method, code})
}

func (m *recordingMetrics) snapshot() []call {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]call(nil), m.calls...)
}

func testConfig() config.ServerConfig {
	return config.ServerConfig{Host: "127.0.0.1", GRPCPort: 0}
}

// startServer runs s in the background and returns a connected health client.
func startServer(t *testing.T, s *Server) healthpb.HealthClient {
	t.Helper()
	errCh := make(chan error, 1)
	go func() { errCh <- s.Start() }()
	t.Cleanup(func() {
		_ = s.Stop(context.Background())
		assert.NoError(t, <-errCh)
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	conn, err := grpc.DialContext(ctx, s.Addr(),
		grpc.WithTransportCredentials(insecure.NewCredentials()),
		grpc.WithBlock())
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })
	return healthpb.NewHealthClient(conn)
}

func TestServer_HealthServing(t *testing.T) {
	metrics := &recordingMetrics{}
	log := testutil.NewMockLogger()
	s, err := NewServer(testConfig(), WithLogger(log), WithMetrics(metrics))
	require.NoError(t, err)
	client := startServer(t, s)

	resp, err := client.Check(context.Background(), &healthpb.HealthCheckRequest{})
	require.NoError(t, err)
	assert.Equal(t, healthpb.HealthCheckResponse_SERVING, resp.GetStatus())

	calls := metrics.snapshot()
	require.Len(t, calls, 1)
	assert.Equal(t, call{"grpc.health.v1.Health", "Check", "OK"}, calls[0])
	assert.Empty(t, log.Find("info", "grpc request"))
}

func TestServer_UnknownServiceIsNotFound(t *testing.T) {
	s, err := NewServer(testConfig())
	require.NoError(t, err)
	client := startServer(t, s)

	_, err = client.Check(context.Background(), &healthpb.HealthCheckRequest{Service: "sakura.Unknown"})
	assert.Equal(t, codes.NotFound, status.Code(err))
}

func TestServer_AddrHasPort(t *testing.T) {
	s, err := NewServer(testConfig())
	require.NoError(t, err)
	defer s.Stop(context.Background())
	assert.NotEqual(t, "127.0.0.1:0", s.Addr())
	assert.Contains(t, s.Addr(), "127.0.0.1:")
}

func TestServer_StopBeforeStart(t *testing.T) {
	s, err := NewServer(testConfig())
	require.NoError(t, err)
	assert.NoError(t, s.Stop(context.Background()))
}

func TestServer_DoubleStart(t *testing.T) {
	s, err := NewServer(testConfig())
	require.NoError(t, err)
	startServer(t, s)
	assert.Error(t, s.Start())
}

func TestServer_ListenError(t *testing.T) {
	first, err := NewServer(testConfig())
	require.NoError(t, err)
	defer first.Stop(context.Background())

	cfg := testConfig()
	_, port, err := net.SplitHostPort(first.Addr())
	require.NoError(t, err)
	cfg.GRPCPort, err = strconv.Atoi(port)
	require.NoError(t, err)
	_, err = NewServer(cfg)
	assert.Error(t, err)
}

func TestServer_Reflection(t *testing.T) {
	cfg := testConfig()
	cfg.GRPCReflection = true
	log := testutil.NewMockLogger()
	s, err := NewServer(cfg, WithLogger(log))
	require.NoError(t, err)
	defer s.Stop(context.Background())

	assert.True(t, log.HasMessage("info", "grpc reflection service registered"))
	_, ok := s.grpcServer.GetServiceInfo()["grpc.reflection.v1alpha.ServerReflection"]
	assert.True(t, ok)
}

func TestRecoveryUnaryInterceptor(t *testing.T) {
	log := testutil.NewMockLogger()
	interceptor := recoveryUnaryInterceptor(log)
	info := &grpc.UnaryServerInfo{FullMethod: "/sakura.Test/Panic"}

	_, err := interceptor(context.Background(), nil, info, func(context.Context, interface{}) (interface{}, error) {
		panic("boom")
	})
	assert.Equal(t, codes.Internal, status.Code(err))
	require.Len(t, log.Find("error", "grpc panic recovered"), 1)

	resp, err := interceptor(context.Background(), nil, info, func(context.Context, interface{}) (interface{}, error) {
		return "ok", nil
	})
	assert.NoError(t, err)
	assert.Equal(t, "ok", resp)
}

func TestLoggingUnaryInterceptor(t *testing.T) {
	log := testutil.NewMockLogger()
	interceptor := loggingUnaryInterceptor(log)
	failing := func(context.Context, interface{}) (interface{}, error) {
		return nil, status.Error(codes.InvalidArgument, "bad")
	}

	_, _ = interceptor(context.Background(), nil, &grpc.UnaryServerInfo{FullMethod: "/sakura.Test/Do"}, failing)
	entries := log.Find("info", "grpc request")
	require.Len(t, entries, 1)
	code, ok := entries[0].Field("code")
	require.True(t, ok)
	assert.Equal(t, "InvalidArgument", code)

	_, _ = interceptor(context.Background(), nil, &grpc.UnaryServerInfo{FullMethod: "/grpc.health.v1.Health/Check"}, failing)
	assert.Len(t, log.Find("info", "grpc request"), 1)
}

func TestMetricsInterceptors_NilMetrics(t *testing.T) {
	resp, err := metricsUnaryInterceptor(nil)(context.Background(), "req", &grpc.UnaryServerInfo{FullMethod: "/a.B/C"},
		func(_ context.Context, req interface{}) (interface{}, error) { return req, nil })
	assert.NoError(t, err)
	assert.Equal(t, "req", resp)

	err = metricsStreamInterceptor(nil)(nil, nil, &grpc.StreamServerInfo{FullMethod: "/a.B/C"},
		func(interface{}, grpc.ServerStream) error { return nil })
	assert.NoError(t, err)
}

func TestSplitMethodName(t *testing.T) {
	tests := []struct {
		in, service, method string
	}{
		{"/grpc.health.v1.Health/Check", "grpc.health.v1.Health", "Check"},
		{"pkg.Svc/Do", "pkg.Svc", "Do"},
		{"NoSlash", "unknown", "NoSlash"},
	}
	for _, tt := range tests {
		service, method := splitMethodName(tt.in)
		assert.Equal(t, tt.service, service, tt.in)
		assert.Equal(t, tt.method, method, tt.in)
	}
}

func TestIsHealthCheck(t *testing.T) {
	assert.True(t, isHealthCheck("/grpc.health.v1.Health/Watch"))
	assert.False(t, isHealthCheck("/sakura.Analysis/Analyze"))
}

//Personal.AI order the ending

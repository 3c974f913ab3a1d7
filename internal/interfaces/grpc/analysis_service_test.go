package grpc

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/status"

	"github.com/turtacn/SakuraScope/internal/domain/product"
	"github.com/turtacn/SakuraScope/internal/intelligence/sakura"
	"github.com/turtacn/SakuraScope/internal/testutil"
	"github.com/turtacn/SakuraScope/pkg/errors"
)

// analyzeReply mirrors AnalyzeResponse with the risk level as its wire label.
type analyzeReply struct {
	Report struct {
		ProductASIN string  `json:"product_asin"`
		SakuraScore float64 `json:"sakura_score"`
		RiskLevel   string  `json:"risk_level"`
	} `json:"report"`
	Suspicious bool    `json:"suspicious"`
	Threshold  float64 `json:"threshold"`
}

type failingAnalyzer struct{ err error }

func (f failingAnalyzer) AnalyzeProduct(product.Product, []product.Review, []product.RatingSnapshot) (*sakura.AnalysisResult, error) {
	return nil, f.err
}

func newDetector(t *testing.T) *sakura.Detector {
	t.Helper()
	fixed := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	d, err := sakura.NewDetector(sakura.DefaultConfig(), sakura.WithClock(func() time.Time { return fixed }))
	require.NoError(t, err)
	return d
}

// dialAnalysis starts a server with the analysis service and returns a
// client connection to it.
func dialAnalysis(t *testing.T, analyzer Analyzer, opts ...Option) *grpc.ClientConn {
	t.Helper()
	opts = append(opts, WithAnalysis(NewAnalysisServer(analyzer, sakura.DefaultSuspicionThreshold, testutil.NewMockLogger())))
	s, err := NewServer(testConfig(), opts...)
	require.NoError(t, err)
	startServer(t, s)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	conn, err := grpc.DialContext(ctx, s.Addr(),
		grpc.WithTransportCredentials(insecure.NewCredentials()),
		grpc.WithDefaultCallOptions(grpc.CallContentSubtype(CodecName)),
		grpc.WithBlock())
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })
	return conn
}

func invokeAnalyze(conn *grpc.ClientConn, body string) (*analyzeReply, error) {
	req := json.RawMessage(body)
	var out analyzeReply
	err := conn.Invoke(context.Background(), AnalyzeMethod, &req, &out)
	return &out, err
}

func TestAnalysisService_Analyze(t *testing.T) {
	metrics := &recordingMetrics{}
	log := testutil.NewMockLogger()
	conn := dialAnalysis(t, newDetector(t), WithLogger(log), WithMetrics(metrics))

	out, err := invokeAnalyze(conn,
		`{"product":{"asin":"B0GRPC0001","name":"Air Fryer","rating":4.6,"reviews_count":900,"sakura_score":0.6}}`)
	require.NoError(t, err)
	assert.Equal(t, "B0GRPC0001", out.Report.ProductASIN)
	assert.InDelta(t, 0.6, out.Report.SakuraScore, 1e-12)
	assert.Equal(t, "MEDIUM", out.Report.RiskLevel)
	assert.True(t, out.Suspicious)
	assert.InDelta(t, sakura.DefaultSuspicionThreshold, out.Threshold, 1e-12)

	assert.Contains(t, metrics.snapshot(), call{"sakura.v1.Analysis", "Analyze", "OK"})
	assert.Len(t, log.Find("info", "grpc request"), 1)
}

func TestAnalysisService_ThresholdOverride(t *testing.T) {
	conn := dialAnalysis(t, newDetector(t))

	out, err := invokeAnalyze(conn,
		`{"product":{"asin":"B0GRPC0001","name":"Air Fryer","reviews_count":900,"sakura_score":0.6},"threshold":0.7}`)
	require.NoError(t, err)
	assert.False(t, out.Suspicious)
	assert.InDelta(t, 0.7, out.Threshold, 1e-12)
}

func TestAnalysisService_InvalidArgument(t *testing.T) {
	conn := dialAnalysis(t, newDetector(t))

	tests := []struct {
		name, body, msg string
	}{
		{"missing product", `{}`, "product is required"},
		{"threshold out of range", `{"product":{"asin":"B0GRPC0001","sakura_score":0.6},"threshold":1.5}`, "threshold must be within [0, 1]"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := invokeAnalyze(conn, tt.body)
			st, ok := status.FromError(err)
			require.True(t, ok)
			assert.Equal(t, codes.InvalidArgument, st.Code())
			assert.Equal(t, tt.msg, st.Message())
		})
	}
}

func TestAnalysisService_AnalyzerErrors(t *testing.T) {
	tests := []struct {
		name string
		err  error
		code codes.Code
		msg  string
	}{
		{"insufficient data", errors.New(errors.ErrCodeInsufficientData, "need reviews"), codes.InvalidArgument, "need reviews"},
		{"unexpected failure", errors.New(errors.ErrCodeInternal, "nil pointer in scorer"), codes.Internal, errors.DefaultMessageForCode(errors.ErrCodeInternal)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			st, ok := status.FromError(toStatus(tt.err))
			require.True(t, ok)
			assert.Equal(t, tt.code, st.Code())
			assert.Equal(t, tt.msg, st.Message())
		})
	}

	log := testutil.NewMockLogger()
	srv := NewAnalysisServer(failingAnalyzer{errors.New(errors.ErrCodeInternal, "boom")}, 0.3, log)
	p := product.MustNew("B0GRPC0002", "Kettle")
	_, err := srv.Analyze(context.Background(), &AnalyzeRequest{Product: &p})
	assert.Equal(t, codes.Internal, status.Code(err))
	assert.Len(t, log.Find("warn", "analysis rejected"), 1)
}

func TestAnalysisService_CancelledContext(t *testing.T) {
	srv := NewAnalysisServer(newDetector(t), 0.3, nil)
	p := product.MustNew("B0GRPC0003", "Kettle", product.WithSakuraScore(0.2))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := srv.Analyze(ctx, &AnalyzeRequest{Product: &p})
	assert.Equal(t, codes.Canceled, status.Code(err))
}

func TestAnalysisService_HealthAndRegistration(t *testing.T) {
	conn := dialAnalysis(t, newDetector(t))
	client := healthpb.NewHealthClient(conn)

	resp, err := client.Check(context.Background(), &healthpb.HealthCheckRequest{Service: "sakura.v1.Analysis"},
		grpc.CallContentSubtype("proto"))
	require.NoError(t, err)
	assert.Equal(t, healthpb.HealthCheckResponse_SERVING, resp.GetStatus())

	s, err := NewServer(testConfig())
	require.NoError(t, err)
	defer s.Stop(context.Background())
	_, ok := s.grpcServer.GetServiceInfo()["sakura.v1.Analysis"]
	assert.False(t, ok)
}

//Personal.AI order the ending

package grpc

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"net/http"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/encoding"
	"google.golang.org/grpc/status"

	"github.com/turtacn/SakuraScope/internal/domain/product"
	"github.com/turtacn/SakuraScope/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/SakuraScope/internal/intelligence/sakura"
	"github.com/turtacn/SakuraScope/pkg/errors"
)

// CodecName is the content subtype clients select with
// grpc.CallContentSubtype to talk to the analysis service.
const CodecName = "json"

// AnalyzeMethod is the full method name of the unary Analyze call.
const AnalyzeMethod = "/sakura.v1.Analysis/Analyze"

func init() {
	encoding.RegisterCodec(jsonCodec{})
}

// jsonCodec carries the analysis messages as JSON, so they share their wire
// shape with the HTTP API.
type jsonCodec struct{}

func (jsonCodec) Marshal(v interface{}) ([]byte, error)      { return json.Marshal(v) }
func (jsonCodec) Unmarshal(data []byte, v interface{}) error { return json.Unmarshal(data, v) }
func (jsonCodec) Name() string                               { return CodecName }

// Analyzer is the detector surface the analysis service uses.
type Analyzer interface {
	AnalyzeProduct(p product.Product, reviews []product.Review, history []product.RatingSnapshot) (*sakura.AnalysisResult, error)
}

type AnalyzeRequest struct {
	Product   *product.Product         `json:"product"`
	Reviews   []product.Review         `json:"reviews,omitempty"`
	History   []product.RatingSnapshot `json:"history,omitempty"`
	Threshold *float64                 `json:"threshold,omitempty"`
}

type AnalyzeResponse struct {
	Report     sakura.Report `json:"report"`
	Suspicious bool          `json:"suspicious"`
	Threshold  float64       `json:"threshold"`
}

// AnalysisServer is the handler type of the sakura.v1.Analysis service.
type AnalysisServer interface {
	Analyze(ctx context.Context, req *AnalyzeRequest) (*AnalyzeResponse, error)
}

type analysisServer struct {
	analyzer  Analyzer
	threshold float64
	logger    logging.Logger
}

// NewAnalysisServer scores single products; threshold is the default
// suspicion cut-off when a request carries none.
func NewAnalysisServer(analyzer Analyzer, threshold float64, logger logging.Logger) AnalysisServer {
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	return &analysisServer{analyzer: analyzer, threshold: threshold, logger: logger.Named("grpc_analysis")}
}

func (s *analysisServer) Analyze(ctx context.Context, req *AnalyzeRequest) (*AnalyzeResponse, error) {
	if req == nil || req.Product == nil {
		return nil, toStatus(errors.New(errors.ErrCodeProductInvalid, "product is required"))
	}
	threshold := s.threshold
	if req.Threshold != nil {
		if *req.Threshold < 0 || *req.Threshold > 1 {
			return nil, toStatus(errors.InvalidParam("threshold must be within [0, 1]"))
		}
		threshold = *req.Threshold
	}
	if err := ctx.Err(); err != nil {
		return nil, status.FromContextError(err).Err()
	}

	res, err := s.analyzer.AnalyzeProduct(*req.Product, req.Reviews, req.History)
	if err != nil {
		s.logger.Warn("analysis rejected", logging.ASIN(req.Product.ASIN()), logging.Err(err))
		return nil, toStatus(err)
	}
	return &AnalyzeResponse{
		Report:     res.ToReport(),
		Suspicious: res.IsSuspicious(threshold),
		Threshold:  threshold,
	}, nil
}

// toStatus maps an application error onto the gRPC code matching its HTTP
// status. Internal errors keep only the generic message.
func toStatus(err error) error {
	code := errors.GetCode(err)
	msg := errors.DefaultMessageForCode(code)
	var ae *errors.AppError
	if stderrors.As(err, &ae) && ae.Message != "" {
		msg = ae.Message
	}
	switch errors.HTTPStatusForCode(code) {
	case http.StatusBadRequest, http.StatusUnprocessableEntity:
		return status.Error(codes.InvalidArgument, msg)
	case http.StatusNotFound:
		return status.Error(codes.NotFound, msg)
	case http.StatusConflict:
		return status.Error(codes.AlreadyExists, msg)
	case http.StatusServiceUnavailable, http.StatusBadGateway:
		return status.Error(codes.Unavailable, msg)
	case http.StatusGatewayTimeout:
		return status.Error(codes.DeadlineExceeded, msg)
	default:
		return status.Error(codes.Internal, errors.DefaultMessageForCode(errors.ErrCodeInternal))
	}
}

func analyzeHandler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	in := new(AnalyzeRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(AnalysisServer).Analyze(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: AnalyzeMethod}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(AnalysisServer).Analyze(ctx, req.(*AnalyzeRequest))
	}
	return interceptor(ctx, in, info, handler)
}

// AnalysisServiceDesc describes sakura.v1.Analysis for grpc.Server.RegisterService.
var AnalysisServiceDesc = grpc.ServiceDesc{
	ServiceName: "sakura.v1.Analysis",
	HandlerType: (*AnalysisServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "Analyze", Handler: analyzeHandler},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "sakura/v1/analysis",
}

//Personal.AI order the ending

package codec

import (
	"context"
	"errors"
	"fmt"
	"path"
	"time"

	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/danielpatrickdp/layered-annotator/internal/metrics"
	"github.com/danielpatrickdp/layered-annotator/internal/orchestrator"
	"github.com/danielpatrickdp/layered-annotator/internal/report"
	"github.com/danielpatrickdp/layered-annotator/internal/state"
)

// Request and response field names.
const (
	FieldBatch            = "batch"
	FieldIntegrationLevel = "integration_level"
	FieldReportID         = "report_id"
	FieldSessionID        = "session_id"
	FieldReport           = "report"
)

// #region server-struct
// Server implements AnnotatorServer. Every request runs on a fresh
// orchestrator; nothing is shared between calls except the optional store.
type Server struct {
	cfg    orchestrator.Config
	store  *state.Store
	logger *zap.Logger
}

// NewServer creates a server. store and logger may be nil. An injected
// cfg.Source is dropped: handlers run concurrently and each request builds
// its own source from cfg.Seed.
func NewServer(cfg orchestrator.Config, store *state.Store, logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.Source != nil {
		logger.Warn("ignoring injected random source; requests seed from config",
			zap.Uint64("seed", cfg.Seed),
		)
		cfg.Source = nil
	}
	return &Server{cfg: cfg, store: store, logger: logger}
}

// NewGRPCServer returns a grpc.Server with srv registered and the
// metrics/logging interceptor installed.
func NewGRPCServer(srv *Server, opts ...grpc.ServerOption) *grpc.Server {
	opts = append(opts, grpc.ChainUnaryInterceptor(srv.interceptor))
	gs := grpc.NewServer(opts...)
	RegisterAnnotatorServer(gs, srv)
	return gs
}

// #endregion server-struct

// #region handlers
// ProcessReality runs one batch. Request: {batch: [...], integration_level: n}.
// integration_level defaults to orchestrator.DefaultIntegration.
func (s *Server) ProcessReality(_ context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	fields := in.AsMap()
	batch, err := report.ParseBatch(fields[FieldBatch])
	if err != nil {
		return nil, toStatus(err)
	}
	level := orchestrator.DefaultIntegration
	if v, ok := fields[FieldIntegrationLevel]; ok {
		f, isNum := v.(float64)
		if !isNum {
			return nil, toStatus(fmt.Errorf("%w: got %T", report.ErrInvalidIntegrationLevel, v))
		}
		level = f
	}
	if err := report.ValidateIntegrationLevel(level); err != nil {
		return nil, toStatus(err)
	}

	o := s.newOrchestrator()
	rec, err := s.recorder(o)
	if err != nil {
		return nil, toStatus(err)
	}

	out := map[string]any{}
	if rec == nil {
		rep, err := o.ProcessReality(batch, level)
		if err != nil {
			return nil, toStatus(err)
		}
		metrics.RecordReport(rep)
		return wrapResult(out, rep)
	}

	rep, saved, err := rec.RecordProcess(o, batch, level)
	if err != nil {
		return nil, toStatus(err)
	}
	metrics.RecordReport(rep)
	out[FieldReportID] = saved.ReportID
	out[FieldSessionID] = rec.SessionID()
	return wrapResult(out, rep)
}

// Initialize opens pathways on a fresh session and returns the init result.
func (s *Server) Initialize(_ context.Context, _ *structpb.Struct) (*structpb.Struct, error) {
	o := s.newOrchestrator()
	rec, err := s.recorder(o)
	if err != nil {
		return nil, toStatus(err)
	}

	before := o.Session().Mode()
	res := o.Initialize()

	out := map[string]any{}
	if rec != nil {
		if err := rec.RecordInitialize(before, o.Session().Snapshot(), res); err != nil {
			return nil, toStatus(err)
		}
		out[FieldSessionID] = rec.SessionID()
	}
	return wrapResult(out, res)
}

// Glimpse returns the fixed glimpse result.
func (s *Server) Glimpse(_ context.Context, _ *structpb.Struct) (*structpb.Struct, error) {
	o := s.newOrchestrator()
	rec, err := s.recorder(o)
	if err != nil {
		return nil, toStatus(err)
	}

	before := o.Session().Mode()
	res := o.Glimpse()

	out := map[string]any{}
	if rec != nil {
		if err := rec.RecordGlimpse(before, o.Session().Snapshot()); err != nil {
			return nil, toStatus(err)
		}
		out[FieldSessionID] = rec.SessionID()
	}
	return wrapResult(out, res)
}

// #endregion handlers

// #region interceptor
func (s *Server) interceptor(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
	start := time.Now()
	resp, err := handler(ctx, req)
	method := path.Base(info.FullMethod)
	metrics.RecordRequest(method, start, err)

	if err != nil {
		s.logger.Warn("request failed",
			zap.String("method", method),
			zap.Duration("elapsed", time.Since(start)),
			zap.String("code", status.Code(err).String()),
			zap.Error(err),
		)
		return resp, err
	}
	s.logger.Debug("request handled",
		zap.String("method", method),
		zap.Duration("elapsed", time.Since(start)),
	)
	return resp, nil
}

// #endregion interceptor

// #region helpers
func (s *Server) newOrchestrator() *orchestrator.Orchestrator {
	return orchestrator.NewWithConfig(s.cfg, s.logger)
}

// recorder returns nil when the server has no store.
func (s *Server) recorder(o *orchestrator.Orchestrator) (*state.Recorder, error) {
	if s.store == nil {
		return nil, nil
	}
	return state.NewRecorder(s.store, o.Session().Snapshot())
}

// wrapResult nests result under "report" beside any metadata fields.
func wrapResult(meta map[string]any, result any) (*structpb.Struct, error) {
	body, err := toStruct(result)
	if err != nil {
		return nil, status.Error(codes.Internal, err.Error())
	}
	out, err := structpb.NewStruct(meta)
	if err != nil {
		return nil, status.Error(codes.Internal, err.Error())
	}
	out.Fields[FieldReport] = structpb.NewStructValue(body)
	return out, nil
}

func toStatus(err error) error {
	switch {
	case errors.Is(err, report.ErrInvalidInput), errors.Is(err, report.ErrInvalidIntegrationLevel):
		return status.Error(codes.InvalidArgument, err.Error())
	default:
		return status.Error(codes.Internal, err.Error())
	}
}

// #endregion helpers

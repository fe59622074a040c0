package codec

import (
	"context"
	"fmt"

	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/danielpatrickdp/layered-annotator/internal/report"
)

// #region types
// ProcessResult is the decoded ProcessReality response. ReportID and
// SessionID are empty when the server runs without a store.
type ProcessResult struct {
	ReportID  string
	SessionID string
	Report    report.UnifiedReport
}

// response is the envelope every method returns.
type response[T any] struct {
	ReportID  string `json:"report_id"`
	SessionID string `json:"session_id"`
	Report    T      `json:"report"`
}

// #endregion types

// #region client-struct
// Client wraps a connection to an annotator.v1.Annotator server.
type Client struct {
	conn *grpc.ClientConn
	cc   grpc.ClientConnInterface
}

// #endregion client-struct

// #region constructor
// NewClient connects to the annotator gRPC server at addr.
func NewClient(addr string) (*Client, error) {
	conn, err := grpc.NewClient(addr, grpc.WithTransportCredentials(insecure.NewCredentials()))
	if err != nil {
		return nil, fmt.Errorf("grpc dial %s: %w", addr, err)
	}
	return &Client{conn: conn, cc: conn}, nil
}

// NewClientWithConn creates a Client over an existing connection, which the
// caller keeps ownership of. Used by tests with bufconn.
func NewClientWithConn(cc grpc.ClientConnInterface) *Client {
	return &Client{cc: cc}
}

// #endregion constructor

// #region close
// Close shuts down a connection opened by NewClient.
func (c *Client) Close() error {
	if c.conn == nil {
		return nil
	}
	return c.conn.Close()
}

// #endregion close

// #region process-reality
// ProcessReality sends batch at the given integration level.
func (c *Client) ProcessReality(ctx context.Context, batch report.Batch, level float64) (ProcessResult, error) {
	items := make([]any, len(batch))
	for i, el := range batch {
		items[i] = el
	}
	req, err := structpb.NewStruct(map[string]any{
		FieldBatch:            items,
		FieldIntegrationLevel: level,
	})
	if err != nil {
		return ProcessResult{}, fmt.Errorf("build request: %w", err)
	}

	var resp response[report.UnifiedReport]
	if err := c.invoke(ctx, MethodProcessReality, req, &resp); err != nil {
		return ProcessResult{}, fmt.Errorf("process reality rpc: %w", err)
	}
	return ProcessResult{ReportID: resp.ReportID, SessionID: resp.SessionID, Report: resp.Report}, nil
}

// #endregion process-reality

// #region initialize
// Initialize asks the server to open pathways on a fresh session.
func (c *Client) Initialize(ctx context.Context) (report.InitResult, error) {
	var resp response[report.InitResult]
	if err := c.invoke(ctx, MethodInitialize, &structpb.Struct{}, &resp); err != nil {
		return report.InitResult{}, fmt.Errorf("initialize rpc: %w", err)
	}
	return resp.Report, nil
}

// #endregion initialize

// #region glimpse
// Glimpse fetches the fixed glimpse result.
func (c *Client) Glimpse(ctx context.Context) (report.GlimpseResult, error) {
	var resp response[report.GlimpseResult]
	if err := c.invoke(ctx, MethodGlimpse, &structpb.Struct{}, &resp); err != nil {
		return report.GlimpseResult{}, fmt.Errorf("glimpse rpc: %w", err)
	}
	return resp.Report, nil
}

// #endregion glimpse

// #region invoke
func (c *Client) invoke(ctx context.Context, method string, req *structpb.Struct, out any) error {
	resp := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, method, req, resp); err != nil {
		return err
	}
	return fromStruct(resp, out)
}

// #endregion invoke

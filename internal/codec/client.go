// Package codec talks to the external body-pose estimator over gRPC.
package codec

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"time"

	"github.com/sethvargo/go-retry"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/danielpatrickdp/gym-pose/go-classifier/internal/joints"
)

// DetectMethod is the full gRPC method name of the estimator's Detect call.
const DetectMethod = "/posecheck.v1.PoseEstimator/Detect"

// ErrNoPersonDetected is returned when the estimator finds nobody in the image.
var ErrNoPersonDetected = errors.New("no person detected")

// #region service
// EstimatorService is the Detect RPC. Requests and responses are structpb.Struct:
//
//	request:  {"image": <base64>, "filename": <string>}
//	response: {"people": <number>, "joints": {<wire name>: {"x": n, "y": n, "z": n}}}
type EstimatorService interface {
	Detect(ctx context.Context, req *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error)
}

type grpcEstimator struct {
	conn *grpc.ClientConn
}

func (g grpcEstimator) Detect(ctx context.Context, req *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	resp := new(structpb.Struct)
	if err := g.conn.Invoke(ctx, DetectMethod, req, resp, opts...); err != nil {
		return nil, err
	}
	return resp, nil
}

// #endregion service

// #region retry-config
// RetryConfig controls retries of transient RPC failures.
type RetryConfig struct {
	MaxRetries uint64
	BaseDelay  time.Duration // Fibonacci backoff base
}

// DefaultRetryConfig returns the default retry policy.
func DefaultRetryConfig() RetryConfig {
	return RetryConfig{
		MaxRetries: 3,
		BaseDelay:  200 * time.Millisecond,
	}
}

// #endregion retry-config

// #region client-struct
// EstimatorClient wraps the gRPC connection to the pose estimator.
type EstimatorClient struct {
	conn   *grpc.ClientConn
	client EstimatorService
	retry  RetryConfig
}

// #endregion client-struct

// #region constructor
// NewEstimatorClient connects to the estimator gRPC server.
func NewEstimatorClient(addr string) (*EstimatorClient, error) {
	conn, err := grpc.NewClient(addr, grpc.WithTransportCredentials(insecure.NewCredentials()))
	if err != nil {
		return nil, fmt.Errorf("grpc dial %s: %w", addr, err)
	}
	return &EstimatorClient{
		conn:   conn,
		client: grpcEstimator{conn: conn},
		retry:  DefaultRetryConfig(),
	}, nil
}

// NewEstimatorClientWithService creates an EstimatorClient with an injected service implementation.
// Used for testing without a real gRPC connection.
func NewEstimatorClientWithService(svc EstimatorService) *EstimatorClient {
	return &EstimatorClient{client: svc, retry: DefaultRetryConfig()}
}

// WithRetry replaces the retry policy and returns c.
func (c *EstimatorClient) WithRetry(cfg RetryConfig) *EstimatorClient {
	c.retry = cfg
	return c
}

// #endregion constructor

// #region close
// Close shuts down the gRPC connection.
func (c *EstimatorClient) Close() error {
	if c.conn == nil {
		return nil
	}
	return c.conn.Close()
}

// #endregion close

// #region detect
// Detect sends image to the estimator and returns the joints of the first person found.
// Unavailable and DeadlineExceeded errors are retried.
func (c *EstimatorClient) Detect(ctx context.Context, image []byte, filename string) (joints.Observation, error) {
	req, err := structpb.NewStruct(map[string]any{
		"image":    base64.StdEncoding.EncodeToString(image),
		"filename": filename,
	})
	if err != nil {
		return joints.Observation{}, fmt.Errorf("detect request: %w", err)
	}

	var resp *structpb.Struct
	b := retry.WithMaxRetries(c.retry.MaxRetries, retry.NewFibonacci(c.retry.BaseDelay))
	err = retry.Do(ctx, b, func(ctx context.Context) error {
		r, err := c.client.Detect(ctx, req)
		if err != nil {
			if transient(err) {
				return retry.RetryableError(err)
			}
			return err
		}
		resp = r
		return nil
	})
	if err != nil {
		return joints.Observation{}, fmt.Errorf("detect rpc: %w", err)
	}

	return decodeDetect(resp)
}

func transient(err error) bool {
	switch status.Code(err) {
	case codes.Unavailable, codes.DeadlineExceeded:
		return true
	}
	return false
}

// #endregion detect

// #region decode
// decodeDetect converts a Detect response into an observation. Joint names the
// enumeration does not know are ignored.
func decodeDetect(resp *structpb.Struct) (joints.Observation, error) {
	fields := resp.GetFields()
	if fields["people"].GetNumberValue() < 1 {
		return joints.Observation{}, ErrNoPersonDetected
	}

	var obs joints.Observation
	for name, v := range fields["joints"].GetStructValue().GetFields() {
		id, err := joints.ParseID(name)
		if err != nil {
			continue
		}
		p := v.GetStructValue()
		if p == nil {
			return joints.Observation{}, fmt.Errorf("decode joint %s: expected object, got %T", name, v.GetKind())
		}
		pf := p.GetFields()
		obs = obs.With(id, joints.Pos(
			pf["x"].GetNumberValue(),
			pf["y"].GetNumberValue(),
			pf["z"].GetNumberValue(),
		))
	}
	return obs, nil
}

// #endregion decode

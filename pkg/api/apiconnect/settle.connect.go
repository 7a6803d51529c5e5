package apiconnect

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"connectrpc.com/connect"

	"github.com/mmynk/potsettle/pkg/api"
)

const (
	// SettleServiceName is the fully-qualified name of the SettleService service.
	SettleServiceName = "potsettle.v1.SettleService"

	SettleServiceSettleProcedure   = "/potsettle.v1.SettleService/Settle"
	SettleServiceValidateProcedure = "/potsettle.v1.SettleService/Validate"
)

// SettleServiceClient is a client for the potsettle.v1.SettleService service.
type SettleServiceClient interface {
	Settle(context.Context, *connect.Request[api.SettleRequest]) (*connect.Response[api.SettleResponse], error)
	Validate(context.Context, *connect.Request[api.ValidateRequest]) (*connect.Response[api.ValidateResponse], error)
}

// NewSettleServiceClient constructs a client for the potsettle.v1.SettleService service.
func NewSettleServiceClient(httpClient connect.HTTPClient, baseURL string, opts ...connect.ClientOption) SettleServiceClient {
	baseURL = strings.TrimRight(baseURL, "/")
	opts = append([]connect.ClientOption{WithJSON()}, opts...)
	return &settleServiceClient{
		settle:   connect.NewClient[api.SettleRequest, api.SettleResponse](httpClient, baseURL+SettleServiceSettleProcedure, opts...),
		validate: connect.NewClient[api.ValidateRequest, api.ValidateResponse](httpClient, baseURL+SettleServiceValidateProcedure, opts...),
	}
}

type settleServiceClient struct {
	settle   *connect.Client[api.SettleRequest, api.SettleResponse]
	validate *connect.Client[api.ValidateRequest, api.ValidateResponse]
}

func (c *settleServiceClient) Settle(ctx context.Context, req *connect.Request[api.SettleRequest]) (*connect.Response[api.SettleResponse], error) {
	return c.settle.CallUnary(ctx, req)
}

func (c *settleServiceClient) Validate(ctx context.Context, req *connect.Request[api.ValidateRequest]) (*connect.Response[api.ValidateResponse], error) {
	return c.validate.CallUnary(ctx, req)
}

// SettleServiceHandler is an implementation of the potsettle.v1.SettleService service.
type SettleServiceHandler interface {
	Settle(context.Context, *connect.Request[api.SettleRequest]) (*connect.Response[api.SettleResponse], error)
	Validate(context.Context, *connect.Request[api.ValidateRequest]) (*connect.Response[api.ValidateResponse], error)
}

// NewSettleServiceHandler builds an HTTP handler from the service implementation.
// It returns the path on which to mount the handler and the handler itself.
func NewSettleServiceHandler(svc SettleServiceHandler, opts ...connect.HandlerOption) (string, http.Handler) {
	opts = append([]connect.HandlerOption{WithJSON()}, opts...)
	settle := connect.NewUnaryHandler(SettleServiceSettleProcedure, svc.Settle, opts...)
	validate := connect.NewUnaryHandler(SettleServiceValidateProcedure, svc.Validate, opts...)
	return "/" + SettleServiceName + "/", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case SettleServiceSettleProcedure:
			settle.ServeHTTP(w, r)
		case SettleServiceValidateProcedure:
			validate.ServeHTTP(w, r)
		default:
			http.NotFound(w, r)
		}
	})
}

// UnimplementedSettleServiceHandler returns CodeUnimplemented from all methods.
type UnimplementedSettleServiceHandler struct{}

func (UnimplementedSettleServiceHandler) Settle(context.Context, *connect.Request[api.SettleRequest]) (*connect.Response[api.SettleResponse], error) {
	return nil, connect.NewError(connect.CodeUnimplemented, errors.New("potsettle.v1.SettleService.Settle is not implemented"))
}

func (UnimplementedSettleServiceHandler) Validate(context.Context, *connect.Request[api.ValidateRequest]) (*connect.Response[api.ValidateResponse], error) {
	return nil, connect.NewError(connect.CodeUnimplemented, errors.New("potsettle.v1.SettleService.Validate is not implemented"))
}

// Package ml provides the gRPC contract for the probability model service.
package ml

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/structpb"
)

// PredictMethod is the full gRPC method name of the prediction call.
// Requests and responses are google.protobuf.Struct messages.
const PredictMethod = "/kellyboard.model.v1.ProbabilityModel/Predict"

// Request and response field names
const (
	fieldSelection    = "selection"
	fieldOpponent     = "opponent"
	fieldMarket       = "market"
	fieldOdds         = "odds"
	fieldPoint        = "point"
	fieldImpliedProb  = "implied_prob"
	fieldEventID      = "event_id"
	fieldModelVersion = "model_version"
	fieldProbability  = "probability"
	fieldConfidence   = "confidence"
)

// ModelServer is implemented by probability model services
type ModelServer interface {
	Predict(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error)
}

// ModelServiceDesc describes the ProbabilityModel service for grpc.Server registration
var ModelServiceDesc = grpc.ServiceDesc{
	ServiceName: "kellyboard.model.v1.ProbabilityModel",
	HandlerType: (*ModelServer)(nil),
	Methods: []grpc.MethodDesc{
		{
			MethodName: "Predict",
			Handler:    predictHandler,
		},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "kellyboard/model/v1/model.proto",
}

// RegisterModelServer registers srv on s
func RegisterModelServer(s *grpc.Server, srv ModelServer) {
	s.RegisterService(&ModelServiceDesc, srv)
}

func predictHandler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	in := new(structpb.Struct)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(ModelServer).Predict(ctx, in)
	}
	info := &grpc.UnaryServerInfo{
		Server:     srv,
		FullMethod: PredictMethod,
	}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(ModelServer).Predict(ctx, req.(*structpb.Struct))
	}
	return interceptor(ctx, in, info, handler)
}

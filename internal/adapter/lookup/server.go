package lookup

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/rl1809/shopcore/internal/adapter/lookup/pb"
	"github.com/rl1809/shopcore/internal/core/domain"
	"github.com/rl1809/shopcore/internal/port"
)

type ProductHandler struct {
	pb.UnimplementedProductLookupServer
	products port.ProductRepository
}

func NewProductHandler(products port.ProductRepository) *ProductHandler {
	return &ProductHandler{products: products}
}

func (h *ProductHandler) GetProduct(ctx context.Context, req *pb.GetProductRequest) (*pb.Product, error) {
	if req.GetProductId() == "" {
		return nil, status.Error(codes.InvalidArgument, "product_id is required")
	}
	p, err := h.products.GetProduct(ctx, req.GetProductId())
	if err != nil {
		return nil, toStatus(err)
	}
	return &pb.Product{ProductId: p.ProductID, Name: p.Name, Price: p.Price}, nil
}

type UserHandler struct {
	pb.UnimplementedUserLookupServer
	users port.UserLookup
}

func NewUserHandler(users port.UserLookup) *UserHandler {
	return &UserHandler{users: users}
}

func (h *UserHandler) GetUser(ctx context.Context, req *pb.GetUserRequest) (*pb.User, error) {
	if req.GetUserId() == "" {
		return nil, status.Error(codes.InvalidArgument, "user_id is required")
	}
	u, err := h.users.GetUser(ctx, req.GetUserId())
	if err != nil {
		return nil, toStatus(err)
	}
	return &pb.User{UserId: u.UserID, DisplayName: u.DisplayName, Email: u.Email}, nil
}

func toStatus(err error) error {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		return status.Error(codes.NotFound, "not found")
	case errors.Is(err, domain.ErrInvalidInput):
		return status.Error(codes.InvalidArgument, err.Error())
	case errors.Is(err, context.DeadlineExceeded):
		return status.Error(codes.DeadlineExceeded, "deadline exceeded")
	default:
		return status.Error(codes.Internal, "internal error")
	}
}

// NewServer returns a gRPC server that logs every call.
func NewServer(logger *zap.Logger) *grpc.Server {
	return grpc.NewServer(grpc.ChainUnaryInterceptor(loggingInterceptor(logger)))
}

func loggingInterceptor(logger *zap.Logger) grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
		start := time.Now()
		resp, err := handler(ctx, req)
		code := status.Code(err)

		fields := []zap.Field{
			zap.String("method", info.FullMethod),
			zap.String("code", code.String()),
			zap.Duration("duration", time.Since(start)),
		}
		if code == codes.Internal {
			logger.Error("lookup call failed", fields...)
		} else {
			logger.Debug("lookup call", fields...)
		}
		return resp, err
	}
}

package lookup

import (
	"context"
	"fmt"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/status"

	"github.com/rl1809/shopcore/internal/adapter/lookup/pb"
	"github.com/rl1809/shopcore/internal/core/domain"
)

const DefaultTimeout = 3 * time.Second

// Dial connects lazily; the first call establishes the connection.
func Dial(target string, opts ...grpc.DialOption) (*grpc.ClientConn, error) {
	opts = append([]grpc.DialOption{
		grpc.WithTransportCredentials(insecure.NewCredentials()),
	}, opts...)
	conn, err := grpc.NewClient(target, opts...)
	if err != nil {
		return nil, fmt.Errorf("dial %s: %w", target, err)
	}
	return conn, nil
}

// ProductClient implements port.ProductLookup over gRPC.
type ProductClient struct {
	client  pb.ProductLookupClient
	timeout time.Duration
}

func NewProductClient(conn grpc.ClientConnInterface, timeout time.Duration) *ProductClient {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &ProductClient{client: pb.NewProductLookupClient(conn), timeout: timeout}
}

func (c *ProductClient) GetProduct(ctx context.Context, productID string) (domain.Product, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	reply, err := c.client.GetProduct(ctx, &pb.GetProductRequest{ProductId: productID})
	if err != nil {
		return domain.Product{}, fromStatus("product lookup", err)
	}
	return domain.Product{ProductID: reply.GetProductId(), Name: reply.GetName(), Price: reply.GetPrice()}, nil
}

// UserClient implements port.UserLookup over gRPC.
type UserClient struct {
	client  pb.UserLookupClient
	timeout time.Duration
}

func NewUserClient(conn grpc.ClientConnInterface, timeout time.Duration) *UserClient {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &UserClient{client: pb.NewUserLookupClient(conn), timeout: timeout}
}

func (c *UserClient) GetUser(ctx context.Context, userID string) (domain.UserProfile, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	reply, err := c.client.GetUser(ctx, &pb.GetUserRequest{UserId: userID})
	if err != nil {
		return domain.UserProfile{}, fromStatus("user lookup", err)
	}
	return domain.UserProfile{UserID: reply.GetUserId(), DisplayName: reply.GetDisplayName(), Email: reply.GetEmail()}, nil
}

// fromStatus keeps transport errors out of the domain: only NotFound
// survives, everything else means the collaborator is unavailable.
func fromStatus(op string, err error) error {
	if status.Code(err) == codes.NotFound {
		return domain.ErrNotFound
	}
	return fmt.Errorf("%w: %s: %s", domain.ErrUpstreamUnavailable, op, status.Convert(err).Message())
}

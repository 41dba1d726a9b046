package service

import (
	"context"
	"errors"

	"github.com/fjod/go_storefront/pkg/logger"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

var (
	ErrEmptyCart       = status.Error(codes.InvalidArgument, "cart is empty")
	ErrInvalidQuantity = status.Error(codes.InvalidArgument, "quantity must be a finite number")
	ErrInvalidProduct  = status.Error(codes.InvalidArgument, "productId is required and must be a valid id")
	ErrProductNotFound = status.Error(codes.NotFound, "product not found")
	ErrItemNotFound    = status.Error(codes.NotFound, "cart item not found")
)

// internalError logs err and hides it behind a generic Internal status.
// Context errors keep their own code so callers can tell a timeout apart.
func internalError(ctx context.Context, op string, err error) error {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return status.FromContextError(err).Err()
	}
	logger.Error(ctx, op+" failed", "error", err)
	return status.Error(codes.Internal, "internal server error")
}

package service

import (
	"errors"
	"fmt"
)

var (
	ErrUnauthorized       = errors.New("unauthorized")
	ErrForbidden          = errors.New("forbidden")
	ErrNotFound           = errors.New("not found")
	ErrAlreadyExists      = errors.New("already exists")
	ErrBadRequest         = errors.New("bad request")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidToken       = errors.New("invalid token")
	ErrTokenExpired       = errors.New("token expired")
	ErrInactiveUser       = errors.New("user is inactive")
	ErrInsufficientStock  = errors.New("insufficient stock")
)

var (
	ErrUserNotFound     = fmt.Errorf("user %w", ErrNotFound)
	ErrCategoryNotFound = fmt.Errorf("category %w", ErrNotFound)
	ErrProductNotFound  = fmt.Errorf("product %w", ErrNotFound)
	ErrClientNotFound   = fmt.Errorf("client %w", ErrNotFound)
	ErrOrderNotFound    = fmt.Errorf("order %w", ErrNotFound)
	ErrSpentNotFound    = fmt.Errorf("expense %w", ErrNotFound)

	ErrUsernameTaken  = fmt.Errorf("username %w", ErrAlreadyExists)
	ErrCategoryExists = fmt.Errorf("category with this name %w", ErrAlreadyExists)

	ErrEmptyItems        = fmt.Errorf("%w: order must contain at least one item", ErrBadRequest)
	ErrStockNotTracked   = fmt.Errorf("%w: stock is not tracked for this product", ErrBadRequest)
	ErrAlreadyCancelled  = fmt.Errorf("%w: order already cancelled", ErrBadRequest)
	ErrCancelViaUpdate   = fmt.Errorf("%w: use orders.cancel to cancel an order", ErrBadRequest)
	ErrInvalidDateRange  = fmt.Errorf("%w: from must not be after to", ErrBadRequest)
	ErrProductInactive   = fmt.Errorf("%w: product is not active", ErrBadRequest)
	ErrCategoryInactive  = fmt.Errorf("%w: category is not active", ErrBadRequest)
	ErrCreatedCancelled  = fmt.Errorf("%w: new order cannot be created as cancelled", ErrBadRequest)
	ErrStatusUnsupported = fmt.Errorf("%w: unsupported order status", ErrBadRequest)
)

// InsufficientStockError называет товар, которого не хватило при создании заказа.
type InsufficientStockError struct {
	ProductID   uint
	ProductName string
	Requested   int
	Available   int
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("insufficient stock for product %q: requested %d, available %d",
		e.ProductName, e.Requested, e.Available)
}

func (e *InsufficientStockError) Is(target error) bool { return target == ErrInsufficientStock }

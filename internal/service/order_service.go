package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"steeltrade/internal/domain"
	"steeltrade/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var (
	ErrEmptyOrder        = errors.New("order must contain at least one item")
	ErrInvalidQuantity   = errors.New("item quantity must be positive")
	ErrInvalidStatus     = errors.New("unknown order status")
	ErrInvalidTransition = errors.New("status transition not allowed")
)

// InsufficientStockError reports which product could not cover the requested
// quantity. Placement fails as a whole when any item raises it.
type InsufficientStockError struct {
	ProductID uuid.UUID
	Requested int
	Available int
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("insufficient stock for product %s: requested %d, available %d",
		e.ProductID, e.Requested, e.Available)
}

// ItemRequest is one requested order line
type ItemRequest struct {
	ProductID uuid.UUID `json:"product_id" validate:"required"`
	Quantity  int       `json:"quantity" validate:"required,gt=0"`
}

// OrderService defines the order placement and lifecycle business logic
type OrderService interface {
	// PlaceOrder atomically creates an order with its items and decrements
	// product stock. On any failure no stock change or order write survives.
	PlaceOrder(ctx context.Context, clientID uuid.UUID, items []ItemRequest) (*domain.Order, error)

	// UpdateStatus moves an order through its lifecycle
	UpdateStatus(ctx context.Context, orderID uuid.UUID, status domain.OrderStatus) (*domain.Order, error)

	GetOrder(ctx context.Context, id uuid.UUID) (*domain.Order, error)
	ListOrders(ctx context.Context) ([]*domain.Order, error)

	// LowStock returns products whose stock is at or below the threshold
	LowStock(ctx context.Context, threshold int) ([]*domain.Product, error)
}

// DefaultLowStockThreshold is used when the caller does not supply one
const DefaultLowStockThreshold = 10

type orderService struct {
	tx       repository.TxManager
	orders   repository.OrderRepository
	products repository.ProductRepository
	clients  repository.ClientRepository
}

// NewOrderService creates a new instance of OrderService
func NewOrderService(
	tx repository.TxManager,
	orders repository.OrderRepository,
	products repository.ProductRepository,
	clients repository.ClientRepository,
) OrderService {
	return &orderService{
		tx:       tx,
		orders:   orders,
		products: products,
		clients:  clients,
	}
}

// PlaceOrder validates the request, then runs the whole placement unit inside
// one transaction. Each product row is locked before its stock check, so two
// concurrent placements against the same product serialize and can never
// jointly overdraw inventory.
func (s *orderService) PlaceOrder(ctx context.Context, clientID uuid.UUID, items []ItemRequest) (*domain.Order, error) {
	if len(items) == 0 {
		return nil, ErrEmptyOrder
	}
	for _, item := range items {
		if item.Quantity <= 0 {
			return nil, fmt.Errorf("%w: product %s requested %d", ErrInvalidQuantity, item.ProductID, item.Quantity)
		}
	}

	var placed *domain.Order

	err := s.tx.Do(ctx, func(ctx context.Context, q repository.Querier) error {
		clients := s.clients.WithQuerier(q)
		products := s.products.WithQuerier(q)
		orders := s.orders.WithQuerier(q)

		if _, err := clients.FindByID(ctx, clientID); err != nil {
			return err
		}

		now := time.Now()
		order := &domain.Order{
			ID:         uuid.New(),
			ClientID:   clientID,
			Status:     domain.OrderStatusPending,
			TotalPrice: decimal.Zero,
			Items:      []domain.OrderItem{},
			CreatedAt:  now,
			UpdatedAt:  now,
		}

		if err := orders.Create(ctx, order); err != nil {
			return err
		}

		total := decimal.Zero
		for lineNo, req := range items {
			product, err := products.FindByIDForUpdate(ctx, req.ProductID)
			if err != nil {
				return err
			}

			if product.QuantityInStock < req.Quantity {
				return &InsufficientStockError{
					ProductID: product.ID,
					Requested: req.Quantity,
					Available: product.QuantityInStock,
				}
			}

			if err := products.DecrementStock(ctx, product.ID, req.Quantity); err != nil {
				return err
			}

			item := domain.OrderItem{
				ID:        uuid.New(),
				OrderID:   order.ID,
				LineNo:    lineNo,
				ProductID: product.ID,
				Quantity:  req.Quantity,
				Price:     product.Price.Mul(decimal.NewFromInt(int64(req.Quantity))),
			}

			if err := orders.CreateItem(ctx, &item); err != nil {
				return err
			}

			order.Items = append(order.Items, item)
			total = total.Add(item.Price)
		}

		order.TotalPrice = total
		order.UpdatedAt = time.Now()
		if err := orders.UpdateTotal(ctx, order); err != nil {
			return err
		}

		placed = order
		return nil
	})

	if err != nil {
		return nil, err
	}

	return placed, nil
}

// UpdateStatus validates the target status against the transition table and
// persists it
func (s *orderService) UpdateStatus(ctx context.Context, orderID uuid.UUID, status domain.OrderStatus) (*domain.Order, error) {
	if !status.Valid() {
		return nil, fmt.Errorf("%w: %q", ErrInvalidStatus, status)
	}

	order, err := s.orders.FindByID(ctx, orderID)
	if err != nil {
		return nil, err
	}

	if !order.Status.CanTransitionTo(status) {
		return nil, fmt.Errorf("%w: %s to %s", ErrInvalidTransition, order.Status, status)
	}

	order.Status = status
	order.UpdatedAt = time.Now()

	if err := s.orders.UpdateStatus(ctx, order); err != nil {
		return nil, err
	}

	return order, nil
}

func (s *orderService) GetOrder(ctx context.Context, id uuid.UUID) (*domain.Order, error) {
	return s.orders.FindByID(ctx, id)
}

func (s *orderService) ListOrders(ctx context.Context) ([]*domain.Order, error) {
	return s.orders.List(ctx)
}

// LowStock passes the threshold through unchanged; nothing stocks a negative
// quantity, so a negative threshold yields an empty list
func (s *orderService) LowStock(ctx context.Context, threshold int) ([]*domain.Product, error) {
	return s.products.ListLowStock(ctx, threshold)
}

package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"sync"
	"time"

	"go.uber.org/zap"

	"abs-store/internal/domain"
	"abs-store/internal/repository"
)

var (
	ErrOrderNotFound     = errors.New("order not found")
	ErrOrderItemNotFound = errors.New("order item not found")
)

const orderIDPrefix = "ORD-"

// CheckoutDetails is what the customer fills in at checkout
type CheckoutDetails struct {
	CustomerName  string
	Phone         string
	Address       string
	TransactionID string
}

// CheckoutResult is the recorded order plus where the customer should pay
type CheckoutResult struct {
	Order   domain.Order          `json:"order"`
	Payment domain.PaymentNumbers `json:"payment"`
}

// ContactSource supplies the current shop contact record
type ContactSource interface {
	Contact() domain.ContactInfo
}

// OrderService defines the interface for the order ledger
type OrderService interface {
	PlaceOrder(ctx context.Context, details CheckoutDetails, items []domain.CartItem, subtotal int64) (domain.Order, error)
	Checkout(ctx context.Context, session string, details CheckoutDetails) (CheckoutResult, error)
	List() []domain.Order
	// RemoveItem returns the updated order, or nil when removing the last item deleted it
	RemoveItem(ctx context.Context, orderID, itemID string) (*domain.Order, error)
	DeleteOrder(ctx context.Context, orderID string) error
	ClearAll(ctx context.Context) error
}

// OrderOptions tunes how orders are stamped
type OrderOptions struct {
	Locale string
	Now    func() time.Time
}

type orderService struct {
	mu       sync.Mutex
	orders   []domain.Order
	repo     repository.OrderRepository
	carts    CartService
	contacts ContactSource
	locale   string
	now      func() time.Time
	logger   *zap.Logger
}

// NewOrderService loads the ledger from the repository
func NewOrderService(
	ctx context.Context,
	repo repository.OrderRepository,
	carts CartService,
	contacts ContactSource,
	opts OrderOptions,
	logger *zap.Logger,
) OrderService {
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.Locale == "" {
		opts.Locale = LocaleBangla
	}

	orders := repo.LoadAll(ctx)
	logger.Info("Order ledger loaded", zap.Int("orders", len(orders)))

	return &orderService{
		orders:   orders,
		repo:     repo,
		carts:    carts,
		contacts: contacts,
		locale:   opts.Locale,
		now:      opts.Now,
		logger:   logger,
	}
}

// PlaceOrder records a snapshot of items as a new pending order at the head of the ledger
func (s *orderService) PlaceOrder(ctx context.Context, details CheckoutDetails, items []domain.CartItem, subtotal int64) (domain.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	order := domain.Order{
		ID:            s.nextID(now),
		CustomerName:  details.CustomerName,
		Phone:         details.Phone,
		Address:       details.Address,
		TransactionID: details.TransactionID,
		Items:         domain.CloneItems(items),
		Total:         subtotal,
		Date:          FormatOrderDate(now, s.locale),
		Status:        domain.OrderStatusPending,
	}

	next := make([]domain.Order, 0, len(s.orders)+1)
	next = append(next, order)
	next = append(next, s.orders...)

	if err := s.commit(ctx, next); err != nil {
		return domain.Order{}, err
	}

	s.logger.Info("Order placed",
		zap.String("order_id", order.ID),
		zap.Int("items", len(order.Items)),
		zap.Int64("total", order.Total),
	)
	return order, nil
}

// Checkout turns the session cart into an order. The cart is emptied only
// when the order has been recorded.
func (s *orderService) Checkout(ctx context.Context, session string, details CheckoutDetails) (CheckoutResult, error) {
	var order domain.Order

	err := s.carts.Drain(session, func(items []domain.CartItem, subtotal int64) error {
		placed, err := s.PlaceOrder(ctx, details, items, subtotal)
		if err != nil {
			return err
		}
		order = placed
		return nil
	})
	if err != nil {
		return CheckoutResult{}, err
	}

	return CheckoutResult{
		Order:   order,
		Payment: s.contacts.Contact().PaymentNumbers(),
	}, nil
}

func (s *orderService) List() []domain.Order {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]domain.Order, len(s.orders))
	for i, o := range s.orders {
		o.Items = domain.CloneItems(o.Items)
		out[i] = o
	}
	return out
}

func (s *orderService) RemoveItem(ctx context.Context, orderID, itemID string) (*domain.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	oi := indexOfOrder(s.orders, orderID)
	if oi < 0 {
		return nil, ErrOrderNotFound
	}

	order := s.orders[oi]
	ii := indexOfItem(order.Items, itemID)
	if ii < 0 {
		return nil, ErrOrderItemNotFound
	}

	remaining := make([]domain.CartItem, 0, len(order.Items)-1)
	remaining = append(remaining, order.Items[:ii]...)
	remaining = append(remaining, order.Items[ii+1:]...)

	if len(remaining) == 0 {
		if err := s.commit(ctx, withoutOrder(s.orders, oi)); err != nil {
			return nil, err
		}
		s.logger.Info("Order emptied and deleted", zap.String("order_id", orderID))
		return nil, nil
	}

	order.Items = remaining
	order.Total = domain.Subtotal(remaining)

	next := make([]domain.Order, len(s.orders))
	copy(next, s.orders)
	next[oi] = order

	if err := s.commit(ctx, next); err != nil {
		return nil, err
	}

	s.logger.Info("Order item removed",
		zap.String("order_id", orderID),
		zap.String("item_id", itemID),
		zap.Int64("total", order.Total),
	)
	return &order, nil
}

func (s *orderService) DeleteOrder(ctx context.Context, orderID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	oi := indexOfOrder(s.orders, orderID)
	if oi < 0 {
		return ErrOrderNotFound
	}

	if err := s.commit(ctx, withoutOrder(s.orders, oi)); err != nil {
		return err
	}

	s.logger.Info("Order deleted", zap.String("order_id", orderID))
	return nil
}

func (s *orderService) ClearAll(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	cleared := len(s.orders)
	if err := s.commit(ctx, []domain.Order{}); err != nil {
		return err
	}

	s.logger.Info("Order ledger cleared", zap.Int("orders", cleared))
	return nil
}

// commit persists next and only then makes it the live ledger. Callers hold mu.
func (s *orderService) commit(ctx context.Context, next []domain.Order) error {
	if err := s.repo.SaveAll(ctx, next); err != nil {
		return fmt.Errorf("failed to persist orders: %w", err)
	}
	s.orders = next
	return nil
}

// nextID derives a time-based id, stepping forward past ids already in use. Callers hold mu.
func (s *orderService) nextID(now time.Time) string {
	millis := now.UnixMilli()
	for {
		id := orderIDPrefix + strconv.FormatInt(millis, 10)
		if indexOfOrder(s.orders, id) < 0 {
			return id
		}
		millis++
	}
}

func withoutOrder(orders []domain.Order, i int) []domain.Order {
	next := make([]domain.Order, 0, len(orders)-1)
	next = append(next, orders[:i]...)
	return append(next, orders[i+1:]...)
}

func indexOfOrder(orders []domain.Order, id string) int {
	for i := range orders {
		if orders[i].ID == id {
			return i
		}
	}
	return -1
}

package service

import (
	"errors"
	"sync"
	"time"

	"go.uber.org/zap"

	"abs-store/internal/domain"
)

var (
	ErrCartItemNotFound = errors.New("cart item not found")
	ErrEmptyCart        = errors.New("cart is empty")
	ErrCheckoutPending  = errors.New("checkout already in progress")
)

// CartView is the cart as shown to the shopper
type CartView struct {
	Items     []domain.CartItem `json:"items"`
	ItemCount int               `json:"itemCount"`
	Subtotal  int64             `json:"subtotal"`
	// Open asks the client to reveal the cart panel
	Open bool `json:"open"`
}

// CartService keeps one cart per shopper session. Carts live in memory only.
type CartService interface {
	View(session string) CartView
	AddToCart(session, productID string) (CartView, error)
	UpdateQuantity(session, productID string, delta int) (CartView, error)
	Remove(session, productID string) (CartView, error)
	Clear(session string)
	Subtotal(session string) int64

	// Drain hands a snapshot of the cart and its subtotal to place and empties
	// the cart only if place succeeds. An empty cart yields ErrEmptyCart.
	// While place runs the session's cart is frozen: its mutations and a
	// second Drain fail with ErrCheckoutPending. Other sessions are not blocked.
	Drain(session string, place func(items []domain.CartItem, subtotal int64) error) error

	// PruneIdle forgets carts untouched for longer than maxIdle
	PruneIdle(maxIdle time.Duration) int
}

type cart struct {
	items    []domain.CartItem
	lastSeen time.Time
	draining bool
}

type cartService struct {
	mu      sync.Mutex
	carts   map[string]*cart
	catalog CatalogService
	now     func() time.Time
	logger  *zap.Logger
}

// NewCartService creates a new instance of CartService
func NewCartService(catalog CatalogService, logger *zap.Logger) CartService {
	return &cartService{
		carts:   make(map[string]*cart),
		catalog: catalog,
		now:     time.Now,
		logger:  logger,
	}
}

func (s *cartService) View(session string) CartView {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.view(session, false)
}

// AddToCart increments the quantity of an existing line or appends a new one
func (s *cartService) AddToCart(session, productID string) (CartView, error) {
	product, err := s.catalog.Get(productID)
	if err != nil {
		return CartView{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	c := s.cart(session)
	if c.draining {
		return CartView{}, ErrCheckoutPending
	}
	if i := indexOfItem(c.items, productID); i >= 0 {
		c.items[i].Quantity = clampQuantity(c.items[i].Quantity, 1)
	} else {
		c.items = append(c.items, domain.CartItem{Product: product, Quantity: 1})
	}

	return s.view(session, true), nil
}

// UpdateQuantity applies delta within [1, MaxQuantity]; it never removes a line
func (s *cartService) UpdateQuantity(session, productID string, delta int) (CartView, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	c := s.cart(session)
	if c.draining {
		return CartView{}, ErrCheckoutPending
	}
	i := indexOfItem(c.items, productID)
	if i < 0 {
		return CartView{}, ErrCartItemNotFound
	}

	c.items[i].Quantity = clampQuantity(c.items[i].Quantity, delta)

	return s.view(session, false), nil
}

func (s *cartService) Remove(session, productID string) (CartView, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	c := s.cart(session)
	if c.draining {
		return CartView{}, ErrCheckoutPending
	}
	i := indexOfItem(c.items, productID)
	if i < 0 {
		return CartView{}, ErrCartItemNotFound
	}

	c.items = append(c.items[:i:i], c.items[i+1:]...)

	return s.view(session, false), nil
}

func (s *cartService) Clear(session string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if c, ok := s.carts[session]; ok && c.draining {
		return
	}
	delete(s.carts, session)
}

func (s *cartService) Subtotal(session string) int64 {
	s.mu.Lock()
	defer s.mu.Unlock()

	if c, ok := s.carts[session]; ok {
		return domain.Subtotal(c.items)
	}
	return 0
}

func (s *cartService) Drain(session string, place func(items []domain.CartItem, subtotal int64) error) error {
	s.mu.Lock()
	c, ok := s.carts[session]
	if !ok || len(c.items) == 0 {
		s.mu.Unlock()
		return ErrEmptyCart
	}
	if c.draining {
		s.mu.Unlock()
		return ErrCheckoutPending
	}
	c.draining = true
	items, subtotal := domain.CloneItems(c.items), domain.Subtotal(c.items)
	s.mu.Unlock()

	// place may write to a remote store; mu is not held meanwhile
	err := place(items, subtotal)

	s.mu.Lock()
	defer s.mu.Unlock()

	c.draining = false
	if err != nil {
		return err
	}
	if s.carts[session] == c {
		delete(s.carts, session)
	}
	return nil
}

func (s *cartService) PruneIdle(maxIdle time.Duration) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	cutoff := s.now().Add(-maxIdle)
	pruned := 0
	for session, c := range s.carts {
		if !c.draining && c.lastSeen.Before(cutoff) {
			delete(s.carts, session)
			pruned++
		}
	}

	if pruned > 0 {
		s.logger.Debug("Pruned idle carts", zap.Int("count", pruned))
	}
	return pruned
}

// cart returns the session's cart, creating it on first use. Callers hold mu.
func (s *cartService) cart(session string) *cart {
	c, ok := s.carts[session]
	if !ok {
		c = &cart{}
		s.carts[session] = c
	}
	c.lastSeen = s.now()
	return c
}

// view renders a copy of the session's cart. Callers hold mu.
func (s *cartService) view(session string, open bool) CartView {
	items := []domain.CartItem{}
	if c, ok := s.carts[session]; ok {
		items = domain.CloneItems(c.items)
	}

	count := 0
	for _, item := range items {
		count += item.Quantity
	}

	return CartView{
		Items:     items,
		ItemCount: count,
		Subtotal:  domain.Subtotal(items),
		Open:      open,
	}
}

// clampQuantity adds delta to quantity without overflowing and keeps the
// result within [1, MaxQuantity]
func clampQuantity(quantity, delta int) int {
	delta = min(max(delta, -domain.MaxQuantity), domain.MaxQuantity)
	return min(max(quantity+delta, 1), domain.MaxQuantity)
}

func indexOfItem(items []domain.CartItem, productID string) int {
	for i := range items {
		if items[i].ID == productID {
			return i
		}
	}
	return -1
}

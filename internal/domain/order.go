package domain

// MaxQuantity caps a single cart line
const MaxQuantity = 999

// CartItem is a product together with the quantity selected.
// Quantity is always between 1 and MaxQuantity.
type CartItem struct {
	Product
	Quantity int `json:"quantity"`
}

// LineTotal returns price * quantity
func (i CartItem) LineTotal() int64 {
	return i.Price * int64(i.Quantity)
}

// Subtotal sums the line totals of items
func Subtotal(items []CartItem) int64 {
	var sum int64
	for _, item := range items {
		sum += item.LineTotal()
	}
	return sum
}

// OrderStatus is recorded on an order; no transitions are enforced
type OrderStatus string

const (
	OrderStatusPending   OrderStatus = "Pending"
	OrderStatusCompleted OrderStatus = "Completed"
)

// Order is the frozen record of a checkout submission
type Order struct {
	ID            string      `json:"id"`
	CustomerName  string      `json:"customerName"`
	Phone         string      `json:"phone"`
	Address       string      `json:"address"`
	TransactionID string      `json:"transactionId,omitempty"`
	Items         []CartItem  `json:"items"`
	Total         int64       `json:"total"`
	Date          string      `json:"date"`
	Status        OrderStatus `json:"status"`
}

// CloneItems returns a copy of items so that later cart edits never reach an order
func CloneItems(items []CartItem) []CartItem {
	out := make([]CartItem, len(items))
	copy(out, items)
	return out
}

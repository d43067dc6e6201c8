package ecomapi

import "context"

type OrderItem struct {
	ProductID string  `json:"product_id"`
	Name      string  `json:"name,omitempty"`
	Quantity  int     `json:"quantity"`
	Price     float64 `json:"price"`
}

type Order struct {
	ID        string      `json:"id"`
	UserID    string      `json:"user_id,omitempty"`
	Status    string      `json:"status"`
	Total     float64     `json:"total"`
	Items     []OrderItem `json:"items,omitempty"`
	CreatedAt string      `json:"created_at,omitempty"`
}

// ListAllOrders returns every order, admin surface.
func ListAllOrders(ctx context.Context, c *Client) ([]Order, error) {
	return As[[]Order](ctx, c, "orders/admin/all", "GET", nil)
}

// ListMyOrders returns the calling user's own orders.
func ListMyOrders(ctx context.Context, c *Client) ([]Order, error) {
	return As[[]Order](ctx, c, "orders/my", "GET", nil)
}

// GetOrder fetches a single order by id.
func GetOrder(ctx context.Context, c *Client, id string) (*Order, error) {
	return As[*Order](ctx, c, "orders/"+id, "GET", nil)
}

// UpdateOrderStatus moves an order to a new status, admin surface. The client
// does not validate the transition; the backend owns the order lifecycle.
func UpdateOrderStatus(ctx context.Context, c *Client, id, status string) (*Order, error) {
	return As[*Order](ctx, c, "orders/admin/"+id+"/status", "PATCH", Param{"status": status})
}

package models

import "time"

// Order is an order header. TotalAmount is maintained server-side as the
// sum of its items' totals.
type Order struct {
	ID           string
	OrderNumber  string
	CustomerName string
	OrderDate    time.Time
	TotalAmount  float64
}

// OrderItem is a line of an order. TotalPrice is always recomputed as
// Quantity * UnitPrice before persisting.
type OrderItem struct {
	ID          string
	OrderID     string
	ProductName string
	Quantity    int
	UnitPrice   float64
	TotalPrice  float64
}

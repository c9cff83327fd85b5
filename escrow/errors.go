package escrow

import "fmt"

// UserNotFoundError is returned when an operation references an unknown
// user ID.
type UserNotFoundError struct {
	UserID UserID
}

// Error implements the error interface.
func (e *UserNotFoundError) Error() string {
	return fmt.Sprintf("escrow: user not found: %s", e.UserID)
}

var _ error = (*UserNotFoundError)(nil)

// ProductNotFoundError is returned when an operation references an
// unknown product ID.
type ProductNotFoundError struct {
	ProductID ProductID
}

// Error implements the error interface.
func (e *ProductNotFoundError) Error() string {
	return fmt.Sprintf("escrow: product not found: %s", e.ProductID)
}

var _ error = (*ProductNotFoundError)(nil)

// OrderNotFoundError is returned when an operation references an unknown
// order ID.
type OrderNotFoundError struct {
	OrderID OrderID
}

// Error implements the error interface.
func (e *OrderNotFoundError) Error() string {
	return fmt.Sprintf("escrow: order not found: %s", e.OrderID)
}

var _ error = (*OrderNotFoundError)(nil)

// WrongOrderStatusError is returned when an operation is attempted on an
// order that isn't in one of the statuses it requires.
type WrongOrderStatusError struct {
	OrderID OrderID
	Status  OrderStatus
	Wanted  string
}

// Error implements the error interface.
func (e *WrongOrderStatusError) Error() string {
	return fmt.Sprintf("escrow: order %s is %s, operation requires %s", e.OrderID, e.Status, e.Wanted)
}

var _ error = (*WrongOrderStatusError)(nil)

// ProductNotAvailableError is returned when CreateOrder targets a product
// that is already Sold.
type ProductNotAvailableError struct {
	ProductID ProductID
}

// Error implements the error interface.
func (e *ProductNotAvailableError) Error() string {
	return fmt.Sprintf("escrow: product %s is not available", e.ProductID)
}

var _ error = (*ProductNotAvailableError)(nil)

// SelfPurchaseError is returned when a seller attempts to buy their own
// product.
type SelfPurchaseError struct {
	UserID UserID
}

// Error implements the error interface.
func (e *SelfPurchaseError) Error() string {
	return fmt.Sprintf("escrow: user %s cannot purchase their own product", e.UserID)
}

var _ error = (*SelfPurchaseError)(nil)

// NoInvoiceSubmittedError is returned when PayOrder is attempted before an
// invoice string has been set on the order.
type NoInvoiceSubmittedError struct {
	OrderID OrderID
}

// Error implements the error interface.
func (e *NoInvoiceSubmittedError) Error() string {
	return fmt.Sprintf("escrow: order %s has no invoice submitted yet", e.OrderID)
}

var _ error = (*NoInvoiceSubmittedError)(nil)

// UnauthorizedCallerError is returned when a caller ID doesn't match the
// party permitted to perform an operation (e.g. ship called by the
// buyer).
type UnauthorizedCallerError struct {
	OrderID OrderID
	Caller  UserID
}

// Error implements the error interface.
func (e *UnauthorizedCallerError) Error() string {
	return fmt.Sprintf("escrow: caller %s is not authorized for order %s", e.Caller, e.OrderID)
}

var _ error = (*UnauthorizedCallerError)(nil)

// PaymentNotReceivedError is returned by PayOrder when the polling loop
// exhausts its attempts, or observes the invoice Cancelled, without ever
// seeing the invoice Held.
type PaymentNotReceivedError struct {
	OrderID OrderID
}

// Error implements the error interface.
func (e *PaymentNotReceivedError) Error() string {
	return fmt.Sprintf("escrow: payment not received for order %s", e.OrderID)
}

var _ error = (*PaymentNotReceivedError)(nil)

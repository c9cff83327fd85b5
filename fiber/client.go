// Package fiber abstracts the Fiber Network hold-invoice operations that
// the game and escrow cores settle against. Two implementations exist: an
// in-memory MockClient for tests and local demos, and an RPCClient that
// speaks Fiber's JSON-RPC interface.
package fiber

import (
	"fmt"

	"github.com/go-errors/errors"
	"github.com/lightningnetwork/fibergame/crypto"
)

// Sentinel errors returned by Client implementations. Callers should use
// errors.Is against these rather than matching error strings.
var (
	// ErrInsufficientFunds is returned when the local balance can't
	// cover a hold invoice payment.
	ErrInsufficientFunds = errors.New("fiber: insufficient funds")

	// ErrExpired is returned when an operation targets an invoice past
	// its expiry.
	ErrExpired = errors.New("fiber: invoice expired")

	// ErrInvalidPreimage is returned when a settle attempt's preimage
	// doesn't hash to the invoice's payment hash.
	ErrInvalidPreimage = errors.New("fiber: preimage does not match payment hash")

	// ErrAlreadySettled is returned when an invoice that has already
	// been settled is settled or cancelled again.
	ErrAlreadySettled = errors.New("fiber: invoice already settled")

	// ErrAlreadyCancelled is returned when an invoice that has already
	// been cancelled is settled or cancelled again.
	ErrAlreadyCancelled = errors.New("fiber: invoice already cancelled")
)

// InvoiceNotFoundError is returned when an operation references a payment
// hash the client has no record of.
type InvoiceNotFoundError struct {
	PaymentHash crypto.PaymentHash
}

// Error implements the error interface.
func (e *InvoiceNotFoundError) Error() string {
	return fmt.Sprintf("fiber: invoice not found: %v", e.PaymentHash)
}

var _ error = (*InvoiceNotFoundError)(nil)

// PaymentFailedError wraps a reason string reported by the Fiber node for a
// failed send_payment call.
type PaymentFailedError struct {
	Reason string
}

// Error implements the error interface.
func (e *PaymentFailedError) Error() string {
	return fmt.Sprintf("fiber: payment failed: %s", e.Reason)
}

var _ error = (*PaymentFailedError)(nil)

// NetworkError wraps a transport-level failure talking to a Fiber node
// (connection refused, malformed response, RPC-level error object).
type NetworkError struct {
	Reason string
}

// Error implements the error interface.
func (e *NetworkError) Error() string {
	return fmt.Sprintf("fiber: network error: %s", e.Reason)
}

var _ error = (*NetworkError)(nil)

// HoldInvoice describes a hold invoice: funds are locked against its
// PaymentHash until the holder settles it with the matching Preimage, or
// cancels it to release the hold.
type HoldInvoice struct {
	PaymentHash   crypto.PaymentHash
	AmountShannon uint64
	ExpirySecs    uint64
	InvoiceString string
}

// PaymentID identifies a single outgoing payment attempt.
type PaymentID string

// PaymentStatus is the lifecycle state of a hold invoice.
type PaymentStatus int

const (
	// StatusPending is a created-but-unpaid invoice.
	StatusPending PaymentStatus = iota
	// StatusHeld is an invoice whose funds have been locked but not
	// yet claimed.
	StatusHeld
	// StatusSettled is a claimed invoice; terminal.
	StatusSettled
	// StatusCancelled is a released, unclaimed invoice; terminal.
	StatusCancelled
)

// String renders the status for logging.
func (s PaymentStatus) String() string {
	switch s {
	case StatusPending:
		return "pending"
	case StatusHeld:
		return "held"
	case StatusSettled:
		return "settled"
	case StatusCancelled:
		return "cancelled"
	default:
		return "unknown"
	}
}

// Client is the narrow set of Fiber Network operations the game and escrow
// cores need: creating and paying hold invoices, and settling or
// cancelling the holds they establish.
type Client interface {
	// CreateHoldInvoice creates a hold invoice for amountShannon locked
	// against paymentHash, expiring after expirySecs.
	CreateHoldInvoice(paymentHash crypto.PaymentHash, amountShannon, expirySecs uint64) (HoldInvoice, error)

	// PayHoldInvoice pays a hold invoice created by a counterparty,
	// locking the funds on the payer's side until settled or
	// cancelled.
	PayHoldInvoice(invoice HoldInvoice) (PaymentID, error)

	// SettleInvoice claims a held invoice by revealing preimage.
	SettleInvoice(paymentHash crypto.PaymentHash, preimage crypto.Preimage) error

	// CancelInvoice releases a held invoice without revealing a
	// preimage, refunding the payer.
	CancelInvoice(paymentHash crypto.PaymentHash) error

	// GetPaymentStatus reports the current status of a previously
	// created or paid invoice.
	GetPaymentStatus(paymentHash crypto.PaymentHash) (PaymentStatus, error)

	// GetBalance reports the local balance, in shannons, across all
	// open channels.
	GetBalance() (uint64, error)
}

// Package escrow implements the third-party digital-goods escrow engine:
// a seller lists a product, a buyer funds a hold invoice bound to a
// preimage they generate themselves, and the order settles when the
// buyer confirms receipt, an arbiter resolves a dispute, or the shipped
// order's timeout elapses.
package escrow

import (
	"time"

	"github.com/google/uuid"
	"github.com/lightningnetwork/fibergame/crypto"
)

// UserID identifies a registered participant (buyer, seller, or both).
type UserID = uuid.UUID

// NewUserID mints a new random user identifier.
func NewUserID() UserID {
	return uuid.New()
}

// ProductID identifies a listed product.
type ProductID = uuid.UUID

// NewProductID mints a new random product identifier.
func NewProductID() ProductID {
	return uuid.New()
}

// OrderID identifies an order against a product.
type OrderID = uuid.UUID

// NewOrderID mints a new random order identifier.
func NewOrderID() OrderID {
	return uuid.New()
}

// User is a registered escrow participant.
type User struct {
	ID       UserID
	Username string
}

// ProductStatus is the lifecycle state of a listed product.
type ProductStatus int

const (
	// ProductAvailable is a product with no outstanding order against it.
	ProductAvailable ProductStatus = iota
	// ProductSold is a product with an order in progress or completed
	// against it.
	ProductSold
)

// String renders the status for logging.
func (s ProductStatus) String() string {
	switch s {
	case ProductAvailable:
		return "available"
	case ProductSold:
		return "sold"
	default:
		return "unknown"
	}
}

// Product is a single listing offered by a seller.
type Product struct {
	ID           ProductID
	SellerID     UserID
	Title        string
	Description  string
	PriceShannon uint64
	Status       ProductStatus
	CreatedAt    time.Time
}

// OrderStatus is the lifecycle state of an order, per the state machine in
// the escrow design.
type OrderStatus int

const (
	// OrderWaitingPayment is the state right after CreateOrder, before
	// the buyer's hold invoice is observed Held.
	OrderWaitingPayment OrderStatus = iota
	// OrderFunded is the state once the buyer's payment is Held.
	OrderFunded
	// OrderShipped is the state once the seller has shipped.
	OrderShipped
	// OrderCompleted is terminal: the seller has been paid.
	OrderCompleted
	// OrderDisputed is the state once the buyer has raised a dispute
	// against a Funded or Shipped order.
	OrderDisputed
	// OrderRefunded is terminal: the buyer's hold was cancelled and the
	// product relisted.
	OrderRefunded
)

// String renders the status for logging.
func (s OrderStatus) String() string {
	switch s {
	case OrderWaitingPayment:
		return "waiting_payment"
	case OrderFunded:
		return "funded"
	case OrderShipped:
		return "shipped"
	case OrderCompleted:
		return "completed"
	case OrderDisputed:
		return "disputed"
	case OrderRefunded:
		return "refunded"
	default:
		return "unknown"
	}
}

// DisputeResolution is an arbiter's verdict on a dispute.
type DisputeResolution int

const (
	// ResolveToSeller settles the order in the seller's favor.
	ResolveToSeller DisputeResolution = iota
	// ResolveToBuyer refunds the order to the buyer.
	ResolveToBuyer
)

// String renders the resolution for logging.
func (r DisputeResolution) String() string {
	if r == ResolveToSeller {
		return "to_seller"
	}
	return "to_buyer"
}

// Dispute records a buyer's complaint against a Funded or Shipped order,
// and the arbiter's eventual resolution.
type Dispute struct {
	Reason     string
	CreatedAt  time.Time
	Resolution *DisputeResolution
}

// Order is a single purchase of a Product. The buyer generates a preimage
// at CreateOrder time and hands it to escrow; escrow holds onto it for the
// life of the order so any settlement path (confirmation, dispute
// resolution, or shipped-order timeout) can execute without further
// buyer interaction. See the package doc and DESIGN.md for why this
// departs from a reveal-at-confirmation design.
type Order struct {
	ID            OrderID
	ProductID     ProductID
	ProductTitle  string
	SellerID      UserID
	BuyerID       UserID
	AmountShannon uint64

	PaymentHash   crypto.PaymentHash
	InvoiceString string
	preimage      crypto.Preimage

	Status    OrderStatus
	CreatedAt time.Time
	ExpiresAt time.Time

	Dispute *Dispute
}

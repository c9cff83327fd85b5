package escrow

import (
	"sync"
	"time"

	"github.com/go-errors/errors"
	"github.com/lightningnetwork/fibergame/crypto"
	"github.com/lightningnetwork/fibergame/fiber"
)

// defaultOrderTimeout is how long a WaitingPayment/Funded/Shipped order
// has before Tick auto-settles it once Shipped.
const defaultOrderTimeout = 24 * time.Hour

// defaultInvoiceExpirySecs bounds how long an order's hold invoice stays
// open on the Fiber side; it mirrors the order timeout itself.
const defaultInvoiceExpirySecs = uint64(defaultOrderTimeout / time.Second)

// defaultPollAttempts and defaultPollInterval bound PayOrder's wait for
// the invoice to be observed Held, per the N×Δ contract (default 15×2s).
const (
	defaultPollAttempts = 15
	defaultPollInterval = 2 * time.Second
)

// Service implements the escrow order engine: sellers list products,
// buyers fund a hold invoice bound to a preimage they generate and hand
// to escrow up front, and orders settle on confirmation, dispute
// resolution, or shipped-order timeout.
//
// There is a single Fiber client, not one per side: in the reference this
// is the seller's own node settling and cancelling invoices it created,
// plus (since no separate buyer node is modeled here) standing in for
// the buyer's node when PayOrder pays the invoice. One shared ledger is
// what keeps a paid invoice's Held state visible to the later settle or
// cancel call; see DESIGN.md.
type Service struct {
	mu sync.Mutex

	fiberC fiber.Client

	users    map[UserID]*User
	products map[ProductID]*Product
	orders   map[OrderID]*Order

	simulatedNow *time.Time

	manualInvoice bool
	pollAttempts  int
	pollInterval  time.Duration
}

// NewService returns a Service settling through fiberC.
func NewService(fiberC fiber.Client) *Service {
	return &Service{
		fiberC:       fiberC,
		users:        make(map[UserID]*User),
		products:     make(map[ProductID]*Product),
		orders:       make(map[OrderID]*Order),
		pollAttempts: defaultPollAttempts,
		pollInterval: defaultPollInterval,
	}
}

// SetManualInvoiceSubmission controls whether CreateOrder auto-creates the
// order's hold invoice (the default) or leaves it unset for a later
// SubmitInvoice call, matching a seller whose node isn't wired directly
// into this Service.
func (s *Service) SetManualInvoiceSubmission(manual bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.manualInvoice = manual
}

// SetPollParams overrides PayOrder's polling attempts and interval.
// Test-only hook: production callers should use the spec default (15x2s).
func (s *Service) SetPollParams(attempts int, interval time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pollAttempts = attempts
	s.pollInterval = interval
}

// now returns the simulated clock if Tick has been called, else real time.
func (s *Service) now() time.Time {
	if s.simulatedNow != nil {
		return *s.simulatedNow
	}
	return time.Now()
}

// RegisterUser adds a new participant and returns it.
func (s *Service) RegisterUser(username string) *User {
	s.mu.Lock()
	defer s.mu.Unlock()

	user := &User{ID: NewUserID(), Username: username}
	s.users[user.ID] = user
	return &User{ID: user.ID, Username: user.Username}
}

// GetUser looks up a registered user by ID.
func (s *Service) GetUser(id UserID) (*User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	user, ok := s.users[id]
	if !ok {
		return nil, &UserNotFoundError{UserID: id}
	}
	return &User{ID: user.ID, Username: user.Username}, nil
}

// CreateProduct lists a new product as Available.
func (s *Service) CreateProduct(sellerID UserID, title, description string, priceShannon uint64) (*Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	product := &Product{
		ID:           NewProductID(),
		SellerID:     sellerID,
		Title:        title,
		Description:  description,
		PriceShannon: priceShannon,
		Status:       ProductAvailable,
		CreatedAt:    s.now(),
	}
	s.products[product.ID] = product

	log.Infof("Escrow: listed product %s for %d shannon", product.ID, priceShannon)
	return copyProduct(product), nil
}

// GetProduct returns a snapshot of a single product.
func (s *Service) GetProduct(productID ProductID) (*Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	product, ok := s.products[productID]
	if !ok {
		return nil, &ProductNotFoundError{ProductID: productID}
	}
	return copyProduct(product), nil
}

// CreateOrder places an order for productID on behalf of buyerID. The
// buyer generates preimage themselves and hands it to escrow now; escrow
// holds it for the life of the order so it can settle unilaterally later.
// On invoice-creation failure the order record is deleted and the
// product restored to Available, per the resolved rollback question in
// DESIGN.md.
func (s *Service) CreateOrder(buyerID UserID, productID ProductID, preimage crypto.Preimage) (*Order, error) {
	s.mu.Lock()
	product, ok := s.products[productID]
	if !ok {
		s.mu.Unlock()
		return nil, &ProductNotFoundError{ProductID: productID}
	}
	if product.Status != ProductAvailable {
		s.mu.Unlock()
		return nil, &ProductNotAvailableError{ProductID: productID}
	}
	if product.SellerID == buyerID {
		s.mu.Unlock()
		return nil, &SelfPurchaseError{UserID: buyerID}
	}

	product.Status = ProductSold

	paymentHash := preimage.PaymentHash()
	now := s.now()
	order := &Order{
		ID:            NewOrderID(),
		ProductID:     product.ID,
		ProductTitle:  product.Title,
		SellerID:      product.SellerID,
		BuyerID:       buyerID,
		AmountShannon: product.PriceShannon,
		PaymentHash:   paymentHash,
		preimage:      preimage,
		Status:        OrderWaitingPayment,
		CreatedAt:     now,
		ExpiresAt:     now.Add(defaultOrderTimeout),
	}
	s.orders[order.ID] = order

	manualInvoice := s.manualInvoice
	amount := order.AmountShannon
	s.mu.Unlock()

	if manualInvoice {
		log.Infof("Escrow: created order %s awaiting manual invoice submission", order.ID)
		return copyOrder(order), nil
	}

	invoice, err := s.fiberC.CreateHoldInvoice(paymentHash, amount, defaultInvoiceExpirySecs)
	if err != nil {
		s.mu.Lock()
		delete(s.orders, order.ID)
		product.Status = ProductAvailable
		s.mu.Unlock()
		return nil, err
	}

	s.mu.Lock()
	order.InvoiceString = invoice.InvoiceString
	result := copyOrder(order)
	s.mu.Unlock()

	log.Infof("Escrow: created order %s amount=%d", order.ID, amount)
	return result, nil
}

// SubmitInvoice sets an order's invoice string directly; used when the
// seller's node isn't wired in and CreateOrder was told not to create the
// invoice automatically.
func (s *Service) SubmitInvoice(orderID OrderID, callerID UserID, invoiceString string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	order, ok := s.orders[orderID]
	if !ok {
		return &OrderNotFoundError{OrderID: orderID}
	}
	if order.Status != OrderWaitingPayment {
		return &WrongOrderStatusError{OrderID: orderID, Status: order.Status, Wanted: "waiting_payment"}
	}
	if order.SellerID != callerID {
		return &UnauthorizedCallerError{OrderID: orderID, Caller: callerID}
	}

	order.InvoiceString = invoiceString
	return nil
}

// PayOrder pays an order's hold invoice and polls until it is observed
// Held, up to the configured number of attempts. No separate buyer node
// is modeled, so the payment itself is issued through the same Service
// Fiber client; see the Service doc comment.
func (s *Service) PayOrder(orderID OrderID, callerID UserID) error {
	s.mu.Lock()
	order, ok := s.orders[orderID]
	if !ok {
		s.mu.Unlock()
		return &OrderNotFoundError{OrderID: orderID}
	}
	if order.Status != OrderWaitingPayment {
		s.mu.Unlock()
		return &WrongOrderStatusError{OrderID: orderID, Status: order.Status, Wanted: "waiting_payment"}
	}
	if order.BuyerID != callerID {
		s.mu.Unlock()
		return &UnauthorizedCallerError{OrderID: orderID, Caller: callerID}
	}
	if order.InvoiceString == "" {
		s.mu.Unlock()
		return &NoInvoiceSubmittedError{OrderID: orderID}
	}

	paymentHash := order.PaymentHash
	invoice := fiber.HoldInvoice{
		PaymentHash:   order.PaymentHash,
		AmountShannon: order.AmountShannon,
		InvoiceString: order.InvoiceString,
	}
	attempts := s.pollAttempts
	interval := s.pollInterval
	s.mu.Unlock()

	if _, err := s.fiberC.PayHoldInvoice(invoice); err != nil {
		return err
	}

	held := false
	for i := 0; i < attempts; i++ {
		status, err := s.fiberC.GetPaymentStatus(paymentHash)
		if err != nil {
			return err
		}
		if status == fiber.StatusHeld {
			held = true
			break
		}
		if status == fiber.StatusCancelled {
			return &PaymentNotReceivedError{OrderID: orderID}
		}
		if i < attempts-1 {
			time.Sleep(interval)
		}
	}
	if !held {
		return &PaymentNotReceivedError{OrderID: orderID}
	}

	s.mu.Lock()
	order.Status = OrderFunded
	s.mu.Unlock()

	log.Infof("Escrow: order %s funded", orderID)
	return nil
}

// ShipOrder transitions a Funded order to Shipped.
func (s *Service) ShipOrder(orderID OrderID, callerID UserID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	order, ok := s.orders[orderID]
	if !ok {
		return &OrderNotFoundError{OrderID: orderID}
	}
	if order.Status != OrderFunded {
		return &WrongOrderStatusError{OrderID: orderID, Status: order.Status, Wanted: "funded"}
	}
	if order.SellerID != callerID {
		return &UnauthorizedCallerError{OrderID: orderID, Caller: callerID}
	}

	order.Status = OrderShipped
	log.Infof("Escrow: order %s shipped", orderID)
	return nil
}

// ConfirmOrder settles a Shipped order using its escrowed preimage and
// returns the preimage that was revealed to do so.
func (s *Service) ConfirmOrder(orderID OrderID, callerID UserID) (crypto.Preimage, error) {
	s.mu.Lock()
	order, ok := s.orders[orderID]
	if !ok {
		s.mu.Unlock()
		return crypto.Preimage{}, &OrderNotFoundError{OrderID: orderID}
	}
	if order.Status != OrderShipped {
		s.mu.Unlock()
		return crypto.Preimage{}, &WrongOrderStatusError{OrderID: orderID, Status: order.Status, Wanted: "shipped"}
	}
	if order.BuyerID != callerID {
		s.mu.Unlock()
		return crypto.Preimage{}, &UnauthorizedCallerError{OrderID: orderID, Caller: callerID}
	}
	paymentHash := order.PaymentHash
	preimage := order.preimage
	s.mu.Unlock()

	if err := s.fiberC.SettleInvoice(paymentHash, preimage); err != nil {
		return crypto.Preimage{}, err
	}

	s.mu.Lock()
	order.Status = OrderCompleted
	s.mu.Unlock()

	log.Infof("Escrow: order %s completed", orderID)
	return preimage, nil
}

// DisputeOrder raises a dispute against a Funded or Shipped order.
func (s *Service) DisputeOrder(orderID OrderID, callerID UserID, reason string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	order, ok := s.orders[orderID]
	if !ok {
		return &OrderNotFoundError{OrderID: orderID}
	}
	if order.Status != OrderFunded && order.Status != OrderShipped {
		return &WrongOrderStatusError{OrderID: orderID, Status: order.Status, Wanted: "funded or shipped"}
	}
	if order.BuyerID != callerID {
		return &UnauthorizedCallerError{OrderID: orderID, Caller: callerID}
	}

	order.Dispute = &Dispute{Reason: reason, CreatedAt: s.now()}
	order.Status = OrderDisputed

	log.Infof("Escrow: order %s disputed: %s", orderID, reason)
	return nil
}

// ResolveDispute settles a Disputed order per an arbiter's verdict:
// ResolveToSeller settles the invoice and completes the order;
// ResolveToBuyer cancels the invoice, refunds the order, and relists the
// product.
func (s *Service) ResolveDispute(orderID OrderID, resolution DisputeResolution) error {
	s.mu.Lock()
	order, ok := s.orders[orderID]
	if !ok {
		s.mu.Unlock()
		return &OrderNotFoundError{OrderID: orderID}
	}
	if order.Status != OrderDisputed {
		s.mu.Unlock()
		return &WrongOrderStatusError{OrderID: orderID, Status: order.Status, Wanted: "disputed"}
	}
	paymentHash := order.PaymentHash
	preimage := order.preimage
	productID := order.ProductID
	s.mu.Unlock()

	switch resolution {
	case ResolveToSeller:
		if err := s.fiberC.SettleInvoice(paymentHash, preimage); err != nil {
			return err
		}
	case ResolveToBuyer:
		if err := s.fiberC.CancelInvoice(paymentHash); err != nil {
			return err
		}
	default:
		return errors.New("escrow: unknown dispute resolution")
	}

	s.mu.Lock()
	order.Dispute.Resolution = &resolution
	if resolution == ResolveToSeller {
		order.Status = OrderCompleted
	} else {
		order.Status = OrderRefunded
		if product, ok := s.products[productID]; ok {
			product.Status = ProductAvailable
		}
	}
	s.mu.Unlock()

	log.Infof("Escrow: order %s dispute resolved %s", orderID, resolution)
	return nil
}

// Tick advances the simulated clock by seconds and auto-settles every
// Shipped order whose expiry has passed, using its escrowed preimage. It
// returns the IDs of orders it completed.
func (s *Service) Tick(seconds int64) []OrderID {
	s.mu.Lock()
	base := s.now()
	advanced := base.Add(time.Duration(seconds) * time.Second)
	s.simulatedNow = &advanced

	type expiredOrder struct {
		id          OrderID
		paymentHash crypto.PaymentHash
		preimage    crypto.Preimage
	}
	var candidates []expiredOrder
	for _, order := range s.orders {
		if order.Status == OrderShipped && !order.ExpiresAt.After(advanced) {
			candidates = append(candidates, expiredOrder{
				id:          order.ID,
				paymentHash: order.PaymentHash,
				preimage:    order.preimage,
			})
		}
	}
	s.mu.Unlock()

	var expired []OrderID
	for _, c := range candidates {
		if err := s.fiberC.SettleInvoice(c.paymentHash, c.preimage); err != nil {
			log.Warnf("Escrow: tick auto-settle failed for order %s: %v", c.id, err)
			continue
		}

		s.mu.Lock()
		if order, ok := s.orders[c.id]; ok {
			order.Status = OrderCompleted
		}
		s.mu.Unlock()

		expired = append(expired, c.id)
	}

	log.Infof("Escrow: tick advanced %d orders to completed", len(expired))
	return expired
}

// GetOrder returns a snapshot of a single order.
func (s *Service) GetOrder(orderID OrderID) (*Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	order, ok := s.orders[orderID]
	if !ok {
		return nil, &OrderNotFoundError{OrderID: orderID}
	}
	return copyOrder(order), nil
}

// ListDisputedOrders returns a snapshot of every order currently Disputed.
func (s *Service) ListDisputedOrders() []*Order {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []*Order
	for _, order := range s.orders {
		if order.Status == OrderDisputed {
			out = append(out, copyOrder(order))
		}
	}
	return out
}

// ListOrdersForUser returns a snapshot of every order where userID is
// either the buyer or the seller.
func (s *Service) ListOrdersForUser(userID UserID) []*Order {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []*Order
	for _, order := range s.orders {
		if order.BuyerID == userID || order.SellerID == userID {
			out = append(out, copyOrder(order))
		}
	}
	return out
}

// copyProduct returns a shallow copy safe to hand to callers outside the
// lock.
func copyProduct(p *Product) *Product {
	cp := *p
	return &cp
}

// copyOrder returns a copy safe to hand to callers outside the lock,
// including a deep copy of the Dispute so a caller can't mutate
// in-progress dispute state through the returned pointer.
func copyOrder(o *Order) *Order {
	cp := *o
	if o.Dispute != nil {
		disputeCopy := *o.Dispute
		cp.Dispute = &disputeCopy
	}
	return &cp
}

package escrow_test

import (
	"testing"
	"time"

	"github.com/lightningnetwork/fibergame/crypto"
	"github.com/lightningnetwork/fibergame/escrow"
	"github.com/lightningnetwork/fibergame/fiber"
	"github.com/stretchr/testify/require"
)

func newTestService(t *testing.T) (*escrow.Service, *fiber.MockClient) {
	t.Helper()

	mock := fiber.NewMockClient(0)
	svc := escrow.NewService(mock)
	svc.SetPollParams(3, time.Millisecond)
	return svc, mock
}

func newProductAndOrder(t *testing.T, svc *escrow.Service, priceShannon uint64) (seller, buyer *escrow.User, product *escrow.Product, order *escrow.Order, preimage crypto.Preimage) {
	t.Helper()

	seller = svc.RegisterUser("seller")
	buyer = svc.RegisterUser("buyer")

	var err error
	product, err = svc.CreateProduct(seller.ID, "Test Widget", "A wonderful test widget", priceShannon)
	require.NoError(t, err)

	preimage, err = crypto.RandomPreimage()
	require.NoError(t, err)

	order, err = svc.CreateOrder(buyer.ID, product.ID, preimage)
	require.NoError(t, err)
	require.Equal(t, escrow.OrderWaitingPayment, order.Status)
	require.NotEmpty(t, order.InvoiceString)

	return seller, buyer, product, order, preimage
}

// TestEscrowHappyPath checks the buyer pays, the seller ships, the buyer
// confirms, and the order completes with the escrowed preimage.
func TestEscrowHappyPath(t *testing.T) {
	svc, mock := newTestService(t)
	mock.AdjustBalance(10_000)

	seller, buyer, product, order, preimage := newProductAndOrder(t, svc, 1_000)

	require.NoError(t, svc.PayOrder(order.ID, buyer.ID))

	funded, err := svc.GetOrder(order.ID)
	require.NoError(t, err)
	require.Equal(t, escrow.OrderFunded, funded.Status)

	require.NoError(t, svc.ShipOrder(order.ID, seller.ID))

	shipped, err := svc.GetOrder(order.ID)
	require.NoError(t, err)
	require.Equal(t, escrow.OrderShipped, shipped.Status)

	revealed, err := svc.ConfirmOrder(order.ID, buyer.ID)
	require.NoError(t, err)
	require.Equal(t, preimage, revealed)

	completed, err := svc.GetOrder(order.ID)
	require.NoError(t, err)
	require.Equal(t, escrow.OrderCompleted, completed.Status)

	// Hold invoice's payment hash matches the buyer's preimage.
	require.True(t, completed.PaymentHash.Verify(preimage))
	require.Equal(t, product.ID, completed.ProductID)
}

// TestEscrowDisputeRefundsBuyer checks that a dispute raised before
// shipment, resolved in the buyer's favor, refunds the order and
// relists the product.
func TestEscrowDisputeRefundsBuyer(t *testing.T) {
	svc, mock := newTestService(t)
	mock.AdjustBalance(10_000)

	seller, buyer, product, order, _ := newProductAndOrder(t, svc, 1_000)
	_ = seller

	require.NoError(t, svc.PayOrder(order.ID, buyer.ID))
	require.NoError(t, svc.DisputeOrder(order.ID, buyer.ID, "item never arrived"))

	disputed, err := svc.GetOrder(order.ID)
	require.NoError(t, err)
	require.Equal(t, escrow.OrderDisputed, disputed.Status)

	require.NoError(t, svc.ResolveDispute(order.ID, escrow.ResolveToBuyer))

	refunded, err := svc.GetOrder(order.ID)
	require.NoError(t, err)
	require.Equal(t, escrow.OrderRefunded, refunded.Status)
	require.NotNil(t, refunded.Dispute.Resolution)
	require.Equal(t, escrow.ResolveToBuyer, *refunded.Dispute.Resolution)

	sellerOrders := svc.ListOrdersForUser(product.SellerID)
	require.Len(t, sellerOrders, 1)

	disputedList := svc.ListDisputedOrders()
	require.Empty(t, disputedList)

	relisted, err := svc.GetProduct(product.ID)
	require.NoError(t, err)
	require.Equal(t, escrow.ProductAvailable, relisted.Status)
}

// TestEscrowTickAutoSettles checks that when the buyer never confirms, a
// Tick past the order's expiry settles it using the escrowed preimage.
func TestEscrowTickAutoSettles(t *testing.T) {
	svc, mock := newTestService(t)
	mock.AdjustBalance(10_000)

	seller, buyer, _, order, preimage := newProductAndOrder(t, svc, 1_000)

	require.NoError(t, svc.PayOrder(order.ID, buyer.ID))
	require.NoError(t, svc.ShipOrder(order.ID, seller.ID))

	// 90,000 seconds (25h) is past the 24h default order timeout.
	expired := svc.Tick(90_000)
	require.Contains(t, expired, order.ID)

	completed, err := svc.GetOrder(order.ID)
	require.NoError(t, err)
	require.Equal(t, escrow.OrderCompleted, completed.Status)

	status, err := mock.GetPaymentStatus(order.PaymentHash)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusSettled, status)

	_ = preimage
}

// TestEscrowTickDoesNotSettleBeforeExpiry ensures a short tick leaves a
// Shipped order alone.
func TestEscrowTickDoesNotSettleBeforeExpiry(t *testing.T) {
	svc, mock := newTestService(t)
	mock.AdjustBalance(10_000)

	seller, buyer, _, order, _ := newProductAndOrder(t, svc, 1_000)

	require.NoError(t, svc.PayOrder(order.ID, buyer.ID))
	require.NoError(t, svc.ShipOrder(order.ID, seller.ID))

	expired := svc.Tick(60)
	require.Empty(t, expired)

	shipped, err := svc.GetOrder(order.ID)
	require.NoError(t, err)
	require.Equal(t, escrow.OrderShipped, shipped.Status)
}

// TestSelfPurchaseRejected ensures a seller can't buy their own product.
func TestSelfPurchaseRejected(t *testing.T) {
	svc, _ := newTestService(t)

	seller := svc.RegisterUser("seller")
	product, err := svc.CreateProduct(seller.ID, "Widget", "desc", 1_000)
	require.NoError(t, err)

	preimage, err := crypto.RandomPreimage()
	require.NoError(t, err)

	_, err = svc.CreateOrder(seller.ID, product.ID, preimage)
	require.Error(t, err)
	require.IsType(t, &escrow.SelfPurchaseError{}, err)
}

// TestCreateOrderAgainstSoldProductFails ensures a product can't be
// double-ordered while an order is outstanding.
func TestCreateOrderAgainstSoldProductFails(t *testing.T) {
	svc, _ := newTestService(t)

	seller := svc.RegisterUser("seller")
	buyer1 := svc.RegisterUser("buyer1")
	buyer2 := svc.RegisterUser("buyer2")

	product, err := svc.CreateProduct(seller.ID, "Widget", "desc", 1_000)
	require.NoError(t, err)

	preimage1, err := crypto.RandomPreimage()
	require.NoError(t, err)
	_, err = svc.CreateOrder(buyer1.ID, product.ID, preimage1)
	require.NoError(t, err)

	preimage2, err := crypto.RandomPreimage()
	require.NoError(t, err)
	_, err = svc.CreateOrder(buyer2.ID, product.ID, preimage2)
	require.Error(t, err)
	require.IsType(t, &escrow.ProductNotAvailableError{}, err)
}

// TestPayOrderWithoutFundsFails ensures PayOrder surfaces the Fiber
// client's insufficient-funds error and leaves the order WaitingPayment.
func TestPayOrderWithoutFundsFails(t *testing.T) {
	svc, _ := newTestService(t)

	_, buyer, _, order, _ := newProductAndOrder(t, svc, 1_000)

	err := svc.PayOrder(order.ID, buyer.ID)
	require.Error(t, err)

	unpaid, err := svc.GetOrder(order.ID)
	require.NoError(t, err)
	require.Equal(t, escrow.OrderWaitingPayment, unpaid.Status)
}

// TestShipOrderWrongCallerFails ensures only the seller can ship.
func TestShipOrderWrongCallerFails(t *testing.T) {
	svc, mock := newTestService(t)
	mock.AdjustBalance(10_000)

	_, buyer, _, order, _ := newProductAndOrder(t, svc, 1_000)
	require.NoError(t, svc.PayOrder(order.ID, buyer.ID))

	err := svc.ShipOrder(order.ID, buyer.ID)
	require.Error(t, err)
	require.IsType(t, &escrow.UnauthorizedCallerError{}, err)
}

// TestManualInvoiceSubmission exercises the path where CreateOrder does
// not auto-create the hold invoice and the seller submits it separately.
func TestManualInvoiceSubmission(t *testing.T) {
	svc, mock := newTestService(t)
	mock.AdjustBalance(10_000)
	svc.SetManualInvoiceSubmission(true)

	seller := svc.RegisterUser("seller")
	buyer := svc.RegisterUser("buyer")
	product, err := svc.CreateProduct(seller.ID, "Widget", "desc", 1_000)
	require.NoError(t, err)

	preimage, err := crypto.RandomPreimage()
	require.NoError(t, err)
	order, err := svc.CreateOrder(buyer.ID, product.ID, preimage)
	require.NoError(t, err)
	require.Empty(t, order.InvoiceString)

	err = svc.PayOrder(order.ID, buyer.ID)
	require.Error(t, err)
	require.IsType(t, &escrow.NoInvoiceSubmittedError{}, err)

	invoice, err := mock.CreateHoldInvoice(order.PaymentHash, order.AmountShannon, 3600)
	require.NoError(t, err)
	require.NoError(t, svc.SubmitInvoice(order.ID, seller.ID, invoice.InvoiceString))

	require.NoError(t, svc.PayOrder(order.ID, buyer.ID))

	funded, err := svc.GetOrder(order.ID)
	require.NoError(t, err)
	require.Equal(t, escrow.OrderFunded, funded.Status)
}

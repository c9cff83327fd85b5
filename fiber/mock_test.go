package fiber_test

import (
	"testing"

	"github.com/lightningnetwork/fibergame/crypto"
	"github.com/lightningnetwork/fibergame/fiber"
	"github.com/stretchr/testify/require"
)

func TestHoldInvoiceLifecycle(t *testing.T) {
	client := fiber.NewMockClient(10000)

	preimage, err := crypto.RandomPreimage()
	require.NoError(t, err)
	paymentHash := preimage.PaymentHash()

	invoice, err := client.CreateHoldInvoice(paymentHash, 1000, 3600)
	require.NoError(t, err)
	require.Equal(t, uint64(1000), invoice.AmountShannon)

	status, err := client.GetPaymentStatus(paymentHash)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusPending, status)
}

func TestPayHoldInvoice(t *testing.T) {
	client := fiber.NewMockClient(10000)

	preimage, err := crypto.RandomPreimage()
	require.NoError(t, err)
	paymentHash := preimage.PaymentHash()

	invoice, err := client.CreateHoldInvoice(paymentHash, 1000, 3600)
	require.NoError(t, err)

	_, err = client.PayHoldInvoice(invoice)
	require.NoError(t, err)

	require.Equal(t, uint64(9000), client.Balance())

	status, err := client.GetPaymentStatus(paymentHash)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusHeld, status)
}

func TestSettleWithCorrectPreimage(t *testing.T) {
	client := fiber.NewMockClient(10000)

	preimage, err := crypto.RandomPreimage()
	require.NoError(t, err)
	paymentHash := preimage.PaymentHash()

	invoice, err := client.CreateHoldInvoice(paymentHash, 1000, 3600)
	require.NoError(t, err)

	_, err = client.PayHoldInvoice(invoice)
	require.NoError(t, err)
	require.Equal(t, uint64(9000), client.Balance())

	require.NoError(t, client.SettleInvoice(paymentHash, preimage))
	require.Equal(t, uint64(10000), client.Balance())

	status, err := client.GetPaymentStatus(paymentHash)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusSettled, status)
}

func TestSettleWithWrongPreimageFails(t *testing.T) {
	client := fiber.NewMockClient(10000)

	preimage, err := crypto.RandomPreimage()
	require.NoError(t, err)
	wrongPreimage, err := crypto.RandomPreimage()
	require.NoError(t, err)
	paymentHash := preimage.PaymentHash()

	invoice, err := client.CreateHoldInvoice(paymentHash, 1000, 3600)
	require.NoError(t, err)
	_, err = client.PayHoldInvoice(invoice)
	require.NoError(t, err)

	err = client.SettleInvoice(paymentHash, wrongPreimage)
	require.ErrorIs(t, err, fiber.ErrInvalidPreimage)
}

func TestCancelInvoice(t *testing.T) {
	client := fiber.NewMockClient(10000)

	preimage, err := crypto.RandomPreimage()
	require.NoError(t, err)
	paymentHash := preimage.PaymentHash()

	invoice, err := client.CreateHoldInvoice(paymentHash, 1000, 3600)
	require.NoError(t, err)
	_, err = client.PayHoldInvoice(invoice)
	require.NoError(t, err)
	require.Equal(t, uint64(9000), client.Balance())

	require.NoError(t, client.CancelInvoice(paymentHash))

	status, err := client.GetPaymentStatus(paymentHash)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusCancelled, status)
}

func TestInsufficientFunds(t *testing.T) {
	client := fiber.NewMockClient(500)

	preimage, err := crypto.RandomPreimage()
	require.NoError(t, err)
	paymentHash := preimage.PaymentHash()

	invoice, err := client.CreateHoldInvoice(paymentHash, 1000, 3600)
	require.NoError(t, err)

	_, err = client.PayHoldInvoice(invoice)
	require.ErrorIs(t, err, fiber.ErrInsufficientFunds)
}

func TestDoubleSettleFails(t *testing.T) {
	client := fiber.NewMockClient(10000)

	preimage, err := crypto.RandomPreimage()
	require.NoError(t, err)
	paymentHash := preimage.PaymentHash()

	invoice, err := client.CreateHoldInvoice(paymentHash, 1000, 3600)
	require.NoError(t, err)
	_, err = client.PayHoldInvoice(invoice)
	require.NoError(t, err)
	require.NoError(t, client.SettleInvoice(paymentHash, preimage))

	err = client.SettleInvoice(paymentHash, preimage)
	require.ErrorIs(t, err, fiber.ErrAlreadySettled)
}

func TestCancelAfterSettleFails(t *testing.T) {
	client := fiber.NewMockClient(10000)

	preimage, err := crypto.RandomPreimage()
	require.NoError(t, err)
	paymentHash := preimage.PaymentHash()

	invoice, err := client.CreateHoldInvoice(paymentHash, 1000, 3600)
	require.NoError(t, err)
	_, err = client.PayHoldInvoice(invoice)
	require.NoError(t, err)
	require.NoError(t, client.SettleInvoice(paymentHash, preimage))

	err = client.CancelInvoice(paymentHash)
	require.ErrorIs(t, err, fiber.ErrAlreadySettled)
}

func TestGetPaymentStatusUnknownInvoice(t *testing.T) {
	client := fiber.NewMockClient(10000)

	preimage, err := crypto.RandomPreimage()
	require.NoError(t, err)

	_, err = client.GetPaymentStatus(preimage.PaymentHash())
	require.Error(t, err)
}

func TestAdjustBalanceAndSnapshot(t *testing.T) {
	client := fiber.NewMockClient(1000)
	client.AdjustBalance(500)
	require.Equal(t, uint64(1500), client.Balance())

	client.AdjustBalance(-2000)
	require.Equal(t, uint64(0), client.Balance())

	preimage, err := crypto.RandomPreimage()
	require.NoError(t, err)
	_, err = client.CreateHoldInvoice(preimage.PaymentHash(), 100, 60)
	require.NoError(t, err)

	invoices := client.GetAllInvoices()
	require.Len(t, invoices, 1)
}

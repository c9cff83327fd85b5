package fiber

import (
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/lightningnetwork/fibergame/crypto"
)

type mockInvoiceState struct {
	paymentHash crypto.PaymentHash
	amount      uint64
	status      PaymentStatus
	createdAt   time.Time
	expirySecs  uint64
}

func (s *mockInvoiceState) isExpired() bool {
	return time.Since(s.createdAt) > time.Duration(s.expirySecs)*time.Second
}

// MockClient is an in-memory Client used for tests and local demos. It
// tracks invoices and a single balance behind one mutex; no two calls ever
// observe a half-applied mutation.
type MockClient struct {
	mu       sync.Mutex
	invoices map[crypto.PaymentHash]*mockInvoiceState
	balance  uint64
}

// NewMockClient returns a MockClient seeded with the given balance, in
// shannons.
func NewMockClient(initialBalance uint64) *MockClient {
	return &MockClient{
		invoices: make(map[crypto.PaymentHash]*mockInvoiceState),
		balance:  initialBalance,
	}
}

var _ Client = (*MockClient)(nil)

// Balance returns the current balance directly, without the Client
// interface's error return; convenient for test assertions.
func (m *MockClient) Balance() uint64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.balance
}

// AdjustBalance nudges the simulated balance by delta, which may be
// negative. It never underflows below zero. Test-only hook, mirroring the
// reference mock's settlement-simulation affordance.
func (m *MockClient) AdjustBalance(delta int64) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if delta >= 0 {
		m.balance += uint64(delta)
		return
	}
	dec := uint64(-delta)
	if dec > m.balance {
		m.balance = 0
		return
	}
	m.balance -= dec
}

// GetAllInvoices returns a snapshot of every tracked invoice's status.
// Test-only hook.
func (m *MockClient) GetAllInvoices() map[crypto.PaymentHash]PaymentStatus {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make(map[crypto.PaymentHash]PaymentStatus, len(m.invoices))
	for hash, state := range m.invoices {
		out[hash] = state.status
	}
	return out
}

// CreateHoldInvoice implements Client.
func (m *MockClient) CreateHoldInvoice(paymentHash crypto.PaymentHash, amountShannon, expirySecs uint64) (HoldInvoice, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.invoices[paymentHash] = &mockInvoiceState{
		paymentHash: paymentHash,
		amount:      amountShannon,
		status:      StatusPending,
		createdAt:   time.Now(),
		expirySecs:  expirySecs,
	}

	log.Debugf("MockClient: created hold invoice hash=%v amount=%v", paymentHash, amountShannon)

	return HoldInvoice{
		PaymentHash:   paymentHash,
		AmountShannon: amountShannon,
		ExpirySecs:    expirySecs,
		InvoiceString: fmt.Sprintf("mock_invoice_%s", paymentHash),
	}, nil
}

// PayHoldInvoice implements Client.
func (m *MockClient) PayHoldInvoice(invoice HoldInvoice) (PaymentID, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.balance < invoice.AmountShannon {
		return "", ErrInsufficientFunds
	}

	state, ok := m.invoices[invoice.PaymentHash]
	if !ok {
		state = &mockInvoiceState{
			paymentHash: invoice.PaymentHash,
			amount:      invoice.AmountShannon,
			status:      StatusPending,
			createdAt:   time.Now(),
			expirySecs:  invoice.ExpirySecs,
		}
		m.invoices[invoice.PaymentHash] = state
	}

	if state.isExpired() {
		return "", ErrExpired
	}

	m.balance -= invoice.AmountShannon
	state.status = StatusHeld

	log.Debugf("MockClient: paid hold invoice hash=%v amount=%v", invoice.PaymentHash, invoice.AmountShannon)

	return PaymentID(uuid.New().String()), nil
}

// SettleInvoice implements Client.
func (m *MockClient) SettleInvoice(paymentHash crypto.PaymentHash, preimage crypto.Preimage) error {
	if !paymentHash.Verify(preimage) {
		return ErrInvalidPreimage
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	state, ok := m.invoices[paymentHash]
	if !ok {
		return &InvoiceNotFoundError{PaymentHash: paymentHash}
	}

	switch state.status {
	case StatusPending:
		return &PaymentFailedError{Reason: "invoice not yet paid"}
	case StatusHeld:
		m.balance += state.amount
		state.status = StatusSettled
		log.Debugf("MockClient: settled invoice hash=%v", paymentHash)
		return nil
	case StatusSettled:
		return ErrAlreadySettled
	default:
		return ErrAlreadyCancelled
	}
}

// CancelInvoice implements Client. Unlike a real node, the mock does not
// credit a cancelled Held invoice's amount back to the balance: funds
// deducted by PayHoldInvoice stay deducted after the cancel.
func (m *MockClient) CancelInvoice(paymentHash crypto.PaymentHash) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	state, ok := m.invoices[paymentHash]
	if !ok {
		return &InvoiceNotFoundError{PaymentHash: paymentHash}
	}

	switch state.status {
	case StatusPending, StatusHeld:
		state.status = StatusCancelled
		log.Debugf("MockClient: cancelled invoice hash=%v", paymentHash)
		return nil
	case StatusSettled:
		return ErrAlreadySettled
	default:
		return ErrAlreadyCancelled
	}
}

// GetPaymentStatus implements Client.
func (m *MockClient) GetPaymentStatus(paymentHash crypto.PaymentHash) (PaymentStatus, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	state, ok := m.invoices[paymentHash]
	if !ok {
		return 0, &InvoiceNotFoundError{PaymentHash: paymentHash}
	}

	if state.status == StatusPending && state.isExpired() {
		return StatusCancelled, nil
	}
	return state.status, nil
}

// GetBalance implements Client.
func (m *MockClient) GetBalance() (uint64, error) {
	return m.Balance(), nil
}

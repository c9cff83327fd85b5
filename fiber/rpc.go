package fiber

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/lightningnetwork/fibergame/crypto"
)

// Currency selects the network a Fiber invoice is denominated against.
type Currency int

const (
	// CurrencyTestnet is the default, used unless overridden with
	// NewRPCClientWithCurrency.
	CurrencyTestnet Currency = iota
	// CurrencyMainnet is Fiber's production network.
	CurrencyMainnet
	// CurrencyDevnet is Fiber's local development network.
	CurrencyDevnet
)

// MarshalJSON renders the currency using Fiber's four-letter codes.
func (c Currency) MarshalJSON() ([]byte, error) {
	switch c {
	case CurrencyMainnet:
		return json.Marshal("Fibb")
	case CurrencyDevnet:
		return json.Marshal("Fibd")
	default:
		return json.Marshal("Fibt")
	}
}

// ckbInvoiceStatus is the invoice status vocabulary used by the Fiber RPC
// wire format, distinct from this package's PaymentStatus.
type ckbInvoiceStatus string

const (
	ckbStatusOpen      ckbInvoiceStatus = "Open"
	ckbStatusCancelled ckbInvoiceStatus = "Cancelled"
	ckbStatusExpired   ckbInvoiceStatus = "Expired"
	ckbStatusReceived  ckbInvoiceStatus = "Received"
	ckbStatusPaid      ckbInvoiceStatus = "Paid"
)

func (s ckbInvoiceStatus) toPaymentStatus() (PaymentStatus, bool) {
	switch s {
	case ckbStatusOpen:
		return StatusPending, true
	case ckbStatusReceived:
		return StatusHeld, true
	case ckbStatusPaid:
		return StatusSettled, true
	case ckbStatusCancelled, ckbStatusExpired:
		return StatusCancelled, true
	default:
		return 0, false
	}
}

// finalExpiryDeltaMillis is Fiber's minimum accepted final_expiry_delta, in
// milliseconds (160 minutes). RPCClient always uses the minimum so demo
// invoices don't block on an unnecessarily long HTLC hold window.
const finalExpiryDeltaMillis = 9_600_000

// shannonsPerUnit converts the amount this package's callers pass (in
// shannons already) through unchanged; kept as a named constant so a future
// unit change is a one-line edit rather than a buried literal.
const shannonsPerUnit = 1

// RPCClient talks to a real Fiber node over JSON-RPC.
type RPCClient struct {
	httpClient *http.Client
	rpcURL     string
	currency   Currency
}

// NewRPCClient returns an RPCClient targeting rpcURL on testnet.
func NewRPCClient(rpcURL string) *RPCClient {
	return NewRPCClientWithCurrency(rpcURL, CurrencyTestnet)
}

// NewRPCClientWithCurrency returns an RPCClient targeting rpcURL,
// denominating invoices in the given currency.
func NewRPCClientWithCurrency(rpcURL string, currency Currency) *RPCClient {
	return &RPCClient{
		httpClient: &http.Client{Timeout: 30 * time.Second},
		rpcURL:     rpcURL,
		currency:   currency,
	}
}

var _ Client = (*RPCClient)(nil)

type jsonrpcRequest struct {
	JSONRPC string        `json:"jsonrpc"`
	ID      int           `json:"id"`
	Method  string        `json:"method"`
	Params  []interface{} `json:"params"`
}

type jsonrpcError struct {
	Message string `json:"message"`
}

type jsonrpcResponse struct {
	Result json.RawMessage `json:"result"`
	Error  *jsonrpcError   `json:"error"`
}

// call issues a JSON-RPC request. Fiber expects params wrapped in a single-
// element array containing one object, not bare positional arguments.
func (c *RPCClient) call(method string, params interface{}) (json.RawMessage, error) {
	reqBody := jsonrpcRequest{
		JSONRPC: "2.0",
		ID:      1,
		Method:  method,
		Params:  []interface{}{params},
	}

	buf, err := json.Marshal(reqBody)
	if err != nil {
		return nil, &NetworkError{Reason: err.Error()}
	}

	log.Debugf("RPCClient: %s -> %s", method, buf)

	resp, err := c.httpClient.Post(c.rpcURL, "application/json", bytes.NewReader(buf))
	if err != nil {
		return nil, &NetworkError{Reason: err.Error()}
	}
	defer resp.Body.Close()

	var rpcResp jsonrpcResponse
	if err := json.NewDecoder(resp.Body).Decode(&rpcResp); err != nil {
		return nil, &NetworkError{Reason: err.Error()}
	}

	if rpcResp.Error != nil {
		return nil, &NetworkError{Reason: rpcResp.Error.Message}
	}
	if rpcResp.Result == nil {
		return nil, &NetworkError{Reason: "no result in response"}
	}

	return rpcResp.Result, nil
}

// CreateHoldInvoice implements Client.
func (c *RPCClient) CreateHoldInvoice(paymentHash crypto.PaymentHash, amountShannon, expirySecs uint64) (HoldInvoice, error) {
	params := map[string]interface{}{
		"amount":             fmt.Sprintf("0x%x", amountShannon*shannonsPerUnit),
		"currency":           c.currency,
		"payment_hash":       paymentHash.String(),
		"expiry":             fmt.Sprintf("0x%x", expirySecs),
		"final_expiry_delta": fmt.Sprintf("0x%x", finalExpiryDeltaMillis),
		"description":        "fibergame hold invoice",
	}

	result, err := c.call("new_invoice", params)
	if err != nil {
		return HoldInvoice{}, err
	}

	var parsed struct {
		InvoiceAddress string `json:"invoice_address"`
	}
	if err := json.Unmarshal(result, &parsed); err != nil || parsed.InvoiceAddress == "" {
		return HoldInvoice{}, &NetworkError{Reason: "no invoice_address in response"}
	}

	return HoldInvoice{
		PaymentHash:   paymentHash,
		AmountShannon: amountShannon,
		ExpirySecs:    expirySecs,
		InvoiceString: parsed.InvoiceAddress,
	}, nil
}

// PayHoldInvoice implements Client.
func (c *RPCClient) PayHoldInvoice(invoice HoldInvoice) (PaymentID, error) {
	params := map[string]interface{}{
		"invoice": invoice.InvoiceString,
	}

	result, err := c.call("send_payment", params)
	if err != nil {
		return "", err
	}

	var parsed struct {
		Status      string `json:"status"`
		FailedError string `json:"failed_error"`
	}
	if err := json.Unmarshal(result, &parsed); err != nil {
		return "", &NetworkError{Reason: err.Error()}
	}

	switch parsed.Status {
	case "success", "inflight", "created":
		return PaymentID(invoice.PaymentHash.String()), nil
	default:
		reason := parsed.FailedError
		if reason == "" {
			reason = "payment failed"
		}
		return "", &PaymentFailedError{Reason: reason}
	}
}

// SettleInvoice implements Client.
func (c *RPCClient) SettleInvoice(paymentHash crypto.PaymentHash, preimage crypto.Preimage) error {
	if !paymentHash.Verify(preimage) {
		return ErrInvalidPreimage
	}

	params := map[string]interface{}{
		"payment_hash":     paymentHash.String(),
		"payment_preimage": preimage.String(),
	}

	_, err := c.call("settle_invoice", params)
	return err
}

// CancelInvoice implements Client.
func (c *RPCClient) CancelInvoice(paymentHash crypto.PaymentHash) error {
	params := map[string]interface{}{
		"payment_hash": paymentHash.String(),
	}

	result, err := c.call("cancel_invoice", params)
	if err != nil {
		return err
	}

	var parsed struct {
		Status ckbInvoiceStatus `json:"status"`
	}
	if err := json.Unmarshal(result, &parsed); err != nil {
		// Treat an unparseable-but-error-free response as success, the
		// same leniency the reference client applies here.
		return nil
	}

	switch parsed.Status {
	case ckbStatusPaid:
		return ErrAlreadySettled
	default:
		return nil
	}
}

// GetPaymentStatus implements Client.
func (c *RPCClient) GetPaymentStatus(paymentHash crypto.PaymentHash) (PaymentStatus, error) {
	params := map[string]interface{}{
		"payment_hash": paymentHash.String(),
	}

	result, err := c.call("get_invoice", params)
	if err != nil {
		return 0, err
	}

	var parsed struct {
		Status ckbInvoiceStatus `json:"status"`
	}
	if err := json.Unmarshal(result, &parsed); err != nil {
		return 0, &NetworkError{Reason: "no status in response"}
	}

	status, ok := parsed.Status.toPaymentStatus()
	if !ok {
		return 0, &NetworkError{Reason: fmt.Sprintf("unrecognized invoice status %q", parsed.Status)}
	}
	return status, nil
}

// GetBalance implements Client.
//
// Fiber's RPC surface has no single "wallet balance" call in the subset
// this client targets; channel balances would need to be summed across
// list_channels. Demo and test code should use MockClient for balance
// assertions instead.
func (c *RPCClient) GetBalance() (uint64, error) {
	return 0, &NetworkError{Reason: "get_balance is not supported by RPCClient"}
}

package response_models

type CheckoutResponse struct {
	PaymentURL string `json:"paymentUrl"`
	TxnRef     string `json:"txnRef"`
	Amount     int64  `json:"amount"`
}

// GatewayOutcome is what the return endpoint reports after signature
// verification.
type GatewayOutcome struct {
	Success       bool   `json:"success"`
	TxnRef        string `json:"txnRef"`
	TestRequestID string `json:"testRequestId,omitempty"`
}

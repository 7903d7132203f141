package payment

type StartPaymentRequest struct {
	BookingID string `json:"booking_id" binding:"required"`
	Type      string `json:"type" binding:"required,oneof=first second full"`
}

// GatewayResultRequest is the callback body the payment provider posts back.
type GatewayResultRequest struct {
	PaymentID   string `json:"payment_id" binding:"required"`
	ProviderRef string `json:"provider_ref"`
	Succeeded   bool   `json:"succeeded"`
	Reason      string `json:"reason"`
	Code        string `json:"code"`
}

type RefundRequest struct {
	Amount float64 `json:"amount" binding:"required,gt=0"`
	Reason string  `json:"reason" binding:"required"`
}

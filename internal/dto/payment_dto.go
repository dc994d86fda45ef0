package dto

type CheckoutSessionRequest struct {
	UserID string `json:"userId"`
}

type CheckoutSessionResponse struct {
	URL string `json:"url"`
}

type WebhookResponse struct {
	Received bool   `json:"received"`
	Outcome  string `json:"outcome"`
}

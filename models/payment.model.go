package models

// PaymentIntentRequest carries the checkout total in major currency units
type PaymentIntentRequest struct {
	Total *float64 `json:"total"`
}

// PaymentIntentResponse is the client-usable half of a payment intent
type PaymentIntentResponse struct {
	ClientSecret string `json:"clientSecret"`
}

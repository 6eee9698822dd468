package response

type HoldResponse struct {
	Token     string   `json:"token"`
	SeatCodes []string `json:"seat_codes"`
	ExpiresAt string   `json:"expires_at"` // RFC 3339
}

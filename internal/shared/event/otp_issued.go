package event

const OTPIssuedDestination string = "otp_issued"

type OTPIssuedMessage struct {
	EventID   int64  `json:"event_id"`
	Phone     string `json:"phone"`
	TTLSecond int64  `json:"ttl_second"`
	ExpiresAt int64  `json:"expires_at"`
	Delivered bool   `json:"delivered"`
	IssuedAt  int64  `json:"issued_at"`
}

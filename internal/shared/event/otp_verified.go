package event

const OTPVerifiedDestination string = "otp_verified"

type OTPVerifiedMessage struct {
	EventID    int64  `json:"event_id"`
	Phone      string `json:"phone"`
	Outcome    string `json:"outcome"`
	VerifiedAt int64  `json:"verified_at"`
}

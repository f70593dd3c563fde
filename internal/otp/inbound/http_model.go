package inbound

type IssueRequest struct {
	Phone string `json:"phone"`
}

type IssueResponse struct {
	Issued    bool   `json:"issued"`
	ExpiresAt int64  `json:"expires_at"`
	Code      string `json:"code,omitempty"`
}

func (IssueResponse) Message() string {
	return "Passcode issued."
}

type VerifyRequest struct {
	Phone string `json:"phone"`
	Code  string `json:"code"`
}

type VerifyResponse struct {
	Verified bool `json:"verified"`
}

func (VerifyResponse) Message() string {
	return "Passcode verified."
}

package inbound

type CompletionRequest struct {
	Message string `json:"message"`
}

type CompletionResponse struct {
	Reply string `json:"reply"`
	Model string `json:"model,omitempty"`
}

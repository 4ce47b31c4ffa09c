package model

// MaxChatHistory is the number of prior turns kept from a chat request.
const MaxChatHistory = 6

// ChatTurn is one prior message in a chat conversation.
type ChatTurn struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// ChatRequest represents the request payload for POST /api/chat.
type ChatRequest struct {
	Message string     `json:"message"`
	History []ChatTurn `json:"history"`
}

// ChatResponse represents the response payload for POST /api/chat.
type ChatResponse struct {
	Reply    string    `json:"reply"`
	Products []Product `json:"products"`
}

// RecentHistory returns at most the last MaxChatHistory turns of the request.
func (r *ChatRequest) RecentHistory() []ChatTurn {
	if len(r.History) <= MaxChatHistory {
		return r.History
	}
	return r.History[len(r.History)-MaxChatHistory:]
}

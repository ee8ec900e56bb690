package dto

// MessagePayload — личное сообщение другому пользователю
type MessagePayload struct {
	Recipient string `json:"recipient" binding:"required"`
	Body      string `json:"body" binding:"required,max=140"`
}

// Package dto contains Data Transfer Objects for API request and response structures
package dto

// CallEventRequest represents a Mango Office call event payload.
// The vendor sends more fields than listed here; unknown fields are
// ignored and every field except the caller number is optional.
type CallEventRequest struct {
	CallID    string        `json:"call_id" example:"MToxMDA2NzAwOTow"`
	Timestamp int64         `json:"timestamp" example:"1704103200"`
	Seq       int           `json:"seq" example:"1"`
	CallState string        `json:"call_state" example:"Appeared"`
	Location  string        `json:"location" example:"abonent"`
	From      CallEventPeer `json:"from"`
	To        CallEventPeer `json:"to"`
}

// CallEventPeer represents one side of a call event. Extension is set
// only for internal PBX parties; an empty extension on the from side
// marks the call as inbound.
type CallEventPeer struct {
	Number     string `json:"number" example:"+79001112233"`
	Extension  string `json:"extension,omitempty" example:"101"`
	LineNumber string `json:"line_number,omitempty" example:"79000000000"`
}

// CallEventResponse represents the webhook acknowledgement
type CallEventResponse struct {
	Message     string `json:"message" example:"Request created"`
	Created     bool   `json:"created" example:"true"`
	RequestID   uint   `json:"request_id,omitempty" example:"42"`
	RequestUUID string `json:"request_uuid,omitempty" example:"550e8400-e29b-41d4-a716-446655440000"`
	RequestType string `json:"request_type,omitempty" example:"new_caller"`
}

package events

import "encoding/json"

// Message announces that a document reached a terminal extraction state.
type Message struct {
	DocumentID string `json:"documentId"`
	JobID      string `json:"jobId,omitempty"`
	Status     string `json:"status"`
	RequestID  string `json:"requestId,omitempty"`
	OccurredAt string `json:"occurredAt"`
	Version    int    `json:"version"`
}

// EncodeMessage returns the JSON representation of a message.
func EncodeMessage(msg Message) ([]byte, error) {
	return json.Marshal(msg)
}

// DecodeMessage parses a JSON payload into a Message.
func DecodeMessage(payload []byte) (Message, error) {
	var msg Message
	if err := json.Unmarshal(payload, &msg); err != nil {
		return Message{}, err
	}
	return msg, nil
}

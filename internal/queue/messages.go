package queue

import (
	"encoding/json"
	"errors"
	"time"
)

// ErrMissingUserID marks a forecast request without a user.
var ErrMissingUserID = errors.New("queue: forecast request without user_id")

// ForecastRequest asks the worker to recompute one user's goal forecasts.
// It carries only the user; the worker reads current data from the store.
type ForecastRequest struct {
	UserID      string    `json:"user_id"`
	RequestedAt time.Time `json:"requested_at"`
}

// NewForecastRequest stamps a request for userID.
func NewForecastRequest(userID string) *ForecastRequest {
	return &ForecastRequest{UserID: userID, RequestedAt: time.Now().UTC()}
}

// ToJSON converts the message to JSON bytes
func (m *ForecastRequest) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

// ForecastRequestFromJSON decodes and validates a request body.
func ForecastRequestFromJSON(data []byte) (*ForecastRequest, error) {
	var msg ForecastRequest
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	if msg.UserID == "" {
		return nil, ErrMissingUserID
	}
	return &msg, nil
}

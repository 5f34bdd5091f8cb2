package session

import "time"

// Session is one live login. Token is the opaque secret held by the client's
// cookie; ID is what issued bearer tokens embed. A session past ExpiresAt or
// deleted from the store is terminal and never resolves again.
type Session struct {
	ID        string    `json:"id"`
	UserID    string    `json:"userId"`
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expiresAt"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
	IPAddress string    `json:"ipAddress,omitempty"`
	UserAgent string    `json:"userAgent,omitempty"`
}

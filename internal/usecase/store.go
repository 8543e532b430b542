// Package usecase contains the application-specific business rules.
// It orchestrates the domain layer to perform tasks.
package usecase

import "time"

// Status is the passive view of an entity store's last remote interaction.
type Status struct {
	Loading     bool      `json:"loading"`
	Offline     bool      `json:"offline"`
	LastError   error     `json:"-"`
	LastErrorAt time.Time `json:"lastErrorAt"`
	LoadedAt    time.Time `json:"loadedAt"`
	Size        int       `json:"size"`
}

// ErrorMessage returns the last error text or an empty string.
func (s Status) ErrorMessage() string {
	if s.LastError == nil {
		return ""
	}

	return s.LastError.Error()
}

// Subscription is a live mirror of a remote query into a store. The caller
// owns it and must Cancel it when done; the owning store also cancels it on
// Close or when a replacement subscription starts.
type Subscription interface {
	// Cancel stops delivery. It is safe to call more than once.
	Cancel()

	// Done is closed once the subscription has ended.
	Done() <-chan struct{}

	// Err returns the delivery error that ended the subscription, if any.
	Err() error
}

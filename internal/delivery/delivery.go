// Package delivery holds the outer surfaces of the hub.
package delivery

import "context"

// Delivery is a server started once the application is wired.
type Delivery interface {
	Serve(ctx context.Context) error
}

package ports

import "context"

// EventPublisher publishes authentication events to notify other
// instances.
type EventPublisher interface {
	PublishLogin(ctx context.Context, address, accountID string, created bool) error
	PublishLogout(ctx context.Context, address, tokenID string) error
}

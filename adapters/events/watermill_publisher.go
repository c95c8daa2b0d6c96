// Package events publishes authentication events for cross-instance
// fan-out.
package events

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/google/uuid"

	"github.com/layer-3/stacksauth/ports"
)

// Event topics.
const (
	LoginTopic  = "auth.login"
	LogoutTopic = "auth.logout"
)

// LoginEvent is emitted after a successful wallet authentication.
type LoginEvent struct {
	Address   string `json:"address"`
	AccountID string `json:"account_id"`
	Created   bool   `json:"created"`
}

// LogoutEvent is emitted when a refresh token is invalidated.
type LogoutEvent struct {
	Address string `json:"address"`
	TokenID string `json:"token_id"`
}

// WatermillPublisher implements the EventPublisher interface on top of
// a Watermill publisher.
type WatermillPublisher struct {
	publisher message.Publisher
}

// NewWatermillPublisher creates a new Watermill-backed publisher.
func NewWatermillPublisher(publisher message.Publisher) ports.EventPublisher {
	return &WatermillPublisher{publisher: publisher}
}

// PublishLogin publishes a login event.
func (p *WatermillPublisher) PublishLogin(ctx context.Context, address, accountID string, created bool) error {
	return p.publish(LoginTopic, uuid.NewString(), LoginEvent{
		Address:   address,
		AccountID: accountID,
		Created:   created,
	})
}

// PublishLogout publishes a logout event.
func (p *WatermillPublisher) PublishLogout(ctx context.Context, address, tokenID string) error {
	return p.publish(LogoutTopic, tokenID, LogoutEvent{
		Address: address,
		TokenID: tokenID,
	})
}

func (p *WatermillPublisher) publish(topic, id string, event interface{}) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}
	if err := p.publisher.Publish(topic, message.NewMessage(id, payload)); err != nil {
		return fmt.Errorf("failed to publish event: %w", err)
	}
	return nil
}

package port

import (
	"context"

	"github.com/Wyydra/brocall/internal/core/domain"
)

// EventHandler consumes the connect, message and disconnect events of every
// transport session.
type EventHandler interface {
	Connect(ctx context.Context) domain.ConnID
	Handle(ctx context.Context, id domain.ConnID, data []byte) error
	Disconnect(ctx context.Context, id domain.ConnID)
}

package port

import (
	"context"

	"github.com/Wyydra/brocall/internal/core/domain"
)

// Gateway delivers messages to connected clients. Send must not block on a
// slow receiver.
type Gateway interface {
	Send(ctx context.Context, to domain.ConnID, msg domain.Outbound) error
}

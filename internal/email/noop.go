package email

import (
	"context"
	"log/slog"

	"github.com/google/uuid"
)

// Noop stands in when no email API key is configured. It logs instead of
// sending so local joins still show what would have gone out.
type Noop struct{}

func (Noop) SendWelcome(ctx context.Context, to, firstName string, userID uuid.UUID, referralLink string) error {
	slog.Default().Info("welcome email skipped, no api key configured",
		"to", to,
		"user_id", userID,
	)
	return nil
}

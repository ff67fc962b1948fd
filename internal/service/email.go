package service

import (
	"context"

	"github.com/google/uuid"
)

// EmailSender delivers the post-join welcome mail. Sends are best-effort:
// callers dispatch them off the request path and log failures instead of
// surfacing them.
type EmailSender interface {
	SendWelcome(ctx context.Context, to, firstName string, userID uuid.UUID, referralLink string) error
}

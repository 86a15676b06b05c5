package realtime

import (
	"strings"

	"github.com/google/uuid"

	"github.com/foundrr/foundrr-backend/internal/platform/logger"
)

type SSEEvent string

const (
	SSEEventPreviewSnapshot SSEEvent = "PreviewSnapshot"
	SSEEventPreviewDone     SSEEvent = "PreviewDone"
	SSEEventSiteSaved       SSEEvent = "SiteSaved"
	SSEEventPaymentUpdated  SSEEvent = "PaymentUpdated"
)

type SSEMessage struct {
	Channel string   `json:"channel"`
	Event   SSEEvent `json:"event"`
	Data    any      `json:"data,omitempty"`
}

type SSEClient struct {
	ID       uuid.UUID
	UserID   uuid.UUID
	Channels map[string]bool
	Outbound chan SSEMessage
	done     chan struct{}
	Logger   *logger.Logger
}

// UserChannel is the per-user channel every stream joins.
func UserChannel(userID uuid.UUID) string {
	return "user:" + userID.String()
}

// PreviewChannel carries snapshots for one in-flight generation.
func PreviewChannel(userID uuid.UUID, siteID string) string {
	return "preview:" + userID.String() + ":" + siteID
}

// OwnsChannel reports whether userID may subscribe to channel.
func OwnsChannel(userID uuid.UUID, channel string) bool {
	if userID == uuid.Nil {
		return false
	}
	if channel == UserChannel(userID) {
		return true
	}
	prefix := "preview:" + userID.String() + ":"
	return strings.HasPrefix(channel, prefix) && len(channel) > len(prefix)
}

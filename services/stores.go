package services

import (
	"context"

	"github.com/rando-pics/api-go/models"
)

// LocationStore owns user_locations. Nothing else writes that table;
// Delete exists for the moderation cascade and account removal only.
type LocationStore interface {
	Upsert(ctx context.Context, userID uint, lat, lon float64) error
	Get(ctx context.Context, userID uint) (*models.UserLocation, error)
	// All returns every stored location except excludeUserID's. A full
	// scan is fine at current scale; a spatial index can replace the
	// implementation without touching callers.
	All(ctx context.Context, excludeUserID uint) ([]models.UserLocation, error)
	Delete(ctx context.Context, userID uint) error
}

// DeliveryLedger owns broadcast_deliveries.
type DeliveryLedger interface {
	Record(ctx context.Context, senderID, receiverID uint, imageRef string) (uint, error)
	ListInbox(ctx context.Context, receiverID uint) ([]models.BroadcastDelivery, error)
	GetByID(ctx context.Context, id uint) (*models.BroadcastDelivery, error)
	// Remove discards a delivery on behalf of requesterID. Only the
	// receiver may discard their copy; everyone else gets ErrForbidden.
	Remove(ctx context.Context, id, requesterID uint) error
	// DeleteBySender removes everything the user produced (ban cascade);
	// copies they merely received stay put.
	DeleteBySender(ctx context.Context, userID uint) error
	// DeleteAllForUser removes both sides (voluntary account deletion).
	DeleteAllForUser(ctx context.Context, userID uint) error
}

type ReportStore interface {
	Create(ctx context.Context, report *models.Report) (uint, error)
	ListOpen(ctx context.Context) ([]models.Report, error)
	Dismiss(ctx context.Context, id uint) error
	// DeleteAllForUser removes reports where the user is reporter or
	// reported party.
	DeleteAllForUser(ctx context.Context, userID uint) error
}

type UserStore interface {
	GetByID(ctx context.Context, id uint) (*models.User, error)
	// Anonymize scrubs the display identity, invalidates credentials and
	// refresh tokens and marks the account banned. Safe to re-run.
	Anonymize(ctx context.Context, id uint) error
	Delete(ctx context.Context, id uint) error
}

// SocialGraphStore covers friendship edges and pending friend requests.
type SocialGraphStore interface {
	DeleteAllForUser(ctx context.Context, userID uint) error
}

// ConversationStore covers conversations, their participants and their
// messages. DeleteAllForUser drops every conversation the user owns or
// participates in, messages included.
type ConversationStore interface {
	DeleteAllForUser(ctx context.Context, userID uint) error
}

// Stores bundles every store bound to the same storage handle, so a
// transaction runner can hand callers a transaction-scoped set.
type Stores struct {
	Users         UserStore
	Locations     LocationStore
	Deliveries    DeliveryLedger
	Reports       ReportStore
	Social        SocialGraphStore
	Conversations ConversationStore
}

// TxRunner executes fn against a transaction-scoped Stores bundle.
// If fn returns an error every write inside it is rolled back.
type TxRunner interface {
	RunInTransaction(ctx context.Context, fn func(s Stores) error) error
}

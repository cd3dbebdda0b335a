package services

import (
	"context"
	"fmt"

	"github.com/rando-pics/api-go/models"
)

// ModerationService handles report intake and the ban cascade.
type ModerationService struct {
	Stores Stores
	Tx     TxRunner
}

func NewModerationService(stores Stores, tx TxRunner) *ModerationService {
	return &ModerationService{Stores: stores, Tx: tx}
}

// FileReport records a report against a delivery. Sender and image ref
// are captured at filing time so the report survives later deletion of
// the delivery itself.
func (m *ModerationService) FileReport(ctx context.Context, reporterID, deliveryID uint, reason string) (uint, error) {
	delivery, err := m.Stores.Deliveries.GetByID(ctx, deliveryID)
	if err != nil {
		return 0, err
	}
	if delivery.SenderID == reporterID {
		return 0, fmt.Errorf("cannot report own broadcast: %w", ErrInvalidArgument)
	}

	report := &models.Report{
		PictureID:  delivery.ID,
		PictureRef: delivery.ImageRef,
		SenderID:   delivery.SenderID,
		ReporterID: reporterID,
		Reason:     reason,
	}
	return m.Stores.Reports.Create(ctx, report)
}

func (m *ModerationService) ListReports(ctx context.Context) ([]models.Report, error) {
	return m.Stores.Reports.ListOpen(ctx)
}

func (m *ModerationService) DismissReport(ctx context.Context, reportID uint) error {
	return m.Stores.Reports.Dismiss(ctx, reportID)
}

// BanUser retracts the target's entire footprint in one transaction:
// credentials go first so no new submission can slip in behind the
// deletes, then location, social graph, conversations, reports and
// sender-side deliveries. Deliveries the user merely received stay —
// banning removes what the user produced, not what they were shown.
// Every step is a delete-if-exists or an idempotent update, so a failed
// cascade can simply be re-run.
func (m *ModerationService) BanUser(ctx context.Context, targetID uint) error {
	return m.Tx.RunInTransaction(ctx, func(s Stores) error {
		if _, err := s.Users.GetByID(ctx, targetID); err != nil {
			return err
		}
		if err := s.Users.Anonymize(ctx, targetID); err != nil {
			return fmt.Errorf("anonymize user: %w", err)
		}
		if err := s.Locations.Delete(ctx, targetID); err != nil {
			return fmt.Errorf("delete location: %w", err)
		}
		if err := s.Social.DeleteAllForUser(ctx, targetID); err != nil {
			return fmt.Errorf("delete social graph: %w", err)
		}
		if err := s.Conversations.DeleteAllForUser(ctx, targetID); err != nil {
			return fmt.Errorf("delete conversations: %w", err)
		}
		if err := s.Reports.DeleteAllForUser(ctx, targetID); err != nil {
			return fmt.Errorf("delete reports: %w", err)
		}
		if err := s.Deliveries.DeleteBySender(ctx, targetID); err != nil {
			return fmt.Errorf("delete sent deliveries: %w", err)
		}
		return nil
	})
}

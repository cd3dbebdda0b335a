package services

import (
	"context"
	"fmt"
)

// BroadcastResult summarizes a completed fan-out.
type BroadcastResult struct {
	RecipientCount int    `json:"recipientCount"`
	RecipientIDs   []uint `json:"recipientIds"`
}

// FanoutService orchestrates a photo broadcast: resolve the sender's
// location, find candidates in radius, bound the set, then write one
// ledger row per recipient. All writes for a single broadcast happen in
// one transaction, so a partial fan-out is rolled back rather than left
// behind.
type FanoutService struct {
	Tx            TxRunner
	RadiusMeters  float64
	MaxRecipients int
}

func NewFanoutService(tx TxRunner, radiusMeters float64, maxRecipients int) *FanoutService {
	return &FanoutService{
		Tx:            tx,
		RadiusMeters:  radiusMeters,
		MaxRecipients: maxRecipients,
	}
}

func (f *FanoutService) SubmitBroadcast(ctx context.Context, senderID uint, imageRef string) (*BroadcastResult, error) {
	if imageRef == "" {
		return nil, fmt.Errorf("imageRef is required: %w", ErrInvalidArgument)
	}

	var result BroadcastResult
	err := f.Tx.RunInTransaction(ctx, func(s Stores) error {
		sender, err := s.Users.GetByID(ctx, senderID)
		if err != nil {
			return err
		}
		if sender.IsBanned() {
			return fmt.Errorf("account is banned: %w", ErrForbidden)
		}

		origin, err := s.Locations.Get(ctx, senderID)
		if err != nil {
			return err
		}

		resolver := NewProximityResolver(s.Locations)
		candidates, err := resolver.FindWithinRadius(ctx, origin.Latitude, origin.Longitude, f.RadiusMeters, senderID)
		if err != nil {
			return err
		}

		recipients := SelectRecipients(candidates, f.MaxRecipients)
		if len(recipients) == 0 {
			return ErrNoRecipients
		}

		for _, recipient := range recipients {
			if _, err := s.Deliveries.Record(ctx, senderID, recipient.UserID, imageRef); err != nil {
				return fmt.Errorf("record delivery for user %d: %w", recipient.UserID, err)
			}
			result.RecipientIDs = append(result.RecipientIDs, recipient.UserID)
		}
		result.RecipientCount = len(result.RecipientIDs)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &result, nil
}

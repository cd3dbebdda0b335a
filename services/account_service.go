package services

import "context"

// AccountService handles voluntary account deletion. Unlike a ban it
// removes deliveries on both sides and drops the user row itself.
type AccountService struct {
	Tx TxRunner
}

func NewAccountService(tx TxRunner) *AccountService {
	return &AccountService{Tx: tx}
}

func (a *AccountService) DeleteAccount(ctx context.Context, userID uint) error {
	return a.Tx.RunInTransaction(ctx, func(s Stores) error {
		if _, err := s.Users.GetByID(ctx, userID); err != nil {
			return err
		}
		if err := s.Locations.Delete(ctx, userID); err != nil {
			return err
		}
		if err := s.Social.DeleteAllForUser(ctx, userID); err != nil {
			return err
		}
		if err := s.Conversations.DeleteAllForUser(ctx, userID); err != nil {
			return err
		}
		if err := s.Reports.DeleteAllForUser(ctx, userID); err != nil {
			return err
		}
		if err := s.Deliveries.DeleteAllForUser(ctx, userID); err != nil {
			return err
		}
		return s.Users.Delete(ctx, userID)
	})
}

package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/rando-pics/api-go/models"
)

// NewGormStores binds every store to the given handle. Pass a *gorm.DB
// opened by config.InitDB, or a transaction handle inside a TxRunner.
func NewGormStores(db *gorm.DB) Stores {
	return Stores{
		Users:         &GormUserStore{DB: db},
		Locations:     &GormLocationStore{DB: db},
		Deliveries:    &GormDeliveryLedger{DB: db},
		Reports:       &GormReportStore{DB: db},
		Social:        &GormSocialGraphStore{DB: db},
		Conversations: &GormConversationStore{DB: db},
	}
}

// GormTxRunner runs callbacks inside a single database transaction.
type GormTxRunner struct {
	DB *gorm.DB
}

func (r *GormTxRunner) RunInTransaction(ctx context.Context, fn func(s Stores) error) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(NewGormStores(tx))
	})
}

type GormLocationStore struct {
	DB *gorm.DB
}

func (s *GormLocationStore) Upsert(ctx context.Context, userID uint, lat, lon float64) error {
	if !validCoordinate(lat, lon) {
		return fmt.Errorf("coordinates out of range: %w", ErrInvalidArgument)
	}

	loc := models.UserLocation{
		UserID:      userID,
		Latitude:    lat,
		Longitude:   lon,
		LastUpdated: time.Now(),
	}

	// Last write wins: a concurrent upsert for the same user simply
	// supersedes this one.
	return s.DB.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"latitude", "longitude", "last_updated"}),
	}).Create(&loc).Error
}

func (s *GormLocationStore) Get(ctx context.Context, userID uint) (*models.UserLocation, error) {
	var loc models.UserLocation
	err := s.DB.WithContext(ctx).Where("user_id = ?", userID).First(&loc).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("location for user %d: %w", userID, ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	return &loc, nil
}

func (s *GormLocationStore) All(ctx context.Context, excludeUserID uint) ([]models.UserLocation, error) {
	var locs []models.UserLocation
	err := s.DB.WithContext(ctx).Where("user_id <> ?", excludeUserID).Find(&locs).Error
	return locs, err
}

func (s *GormLocationStore) Delete(ctx context.Context, userID uint) error {
	return s.DB.WithContext(ctx).Where("user_id = ?", userID).Delete(&models.UserLocation{}).Error
}

type GormDeliveryLedger struct {
	DB *gorm.DB
}

func (s *GormDeliveryLedger) Record(ctx context.Context, senderID, receiverID uint, imageRef string) (uint, error) {
	delivery := models.BroadcastDelivery{
		SenderID:   senderID,
		ReceiverID: receiverID,
		ImageRef:   imageRef,
		SentAt:     time.Now(),
	}
	if err := s.DB.WithContext(ctx).Create(&delivery).Error; err != nil {
		return 0, err
	}
	return delivery.ID, nil
}

func (s *GormDeliveryLedger) ListInbox(ctx context.Context, receiverID uint) ([]models.BroadcastDelivery, error) {
	var deliveries []models.BroadcastDelivery
	err := s.DB.WithContext(ctx).
		Where("receiver_id = ?", receiverID).
		Order("sent_at DESC, id DESC").
		Find(&deliveries).Error
	return deliveries, err
}

func (s *GormDeliveryLedger) GetByID(ctx context.Context, id uint) (*models.BroadcastDelivery, error) {
	var delivery models.BroadcastDelivery
	err := s.DB.WithContext(ctx).First(&delivery, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("delivery %d: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	return &delivery, nil
}

func (s *GormDeliveryLedger) Remove(ctx context.Context, id, requesterID uint) error {
	delivery, err := s.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if delivery.ReceiverID != requesterID {
		return fmt.Errorf("delivery %d belongs to another receiver: %w", id, ErrForbidden)
	}
	return s.DB.WithContext(ctx).Delete(&models.BroadcastDelivery{}, id).Error
}

func (s *GormDeliveryLedger) DeleteBySender(ctx context.Context, userID uint) error {
	return s.DB.WithContext(ctx).
		Where("sender_id = ?", userID).
		Delete(&models.BroadcastDelivery{}).Error
}

func (s *GormDeliveryLedger) DeleteAllForUser(ctx context.Context, userID uint) error {
	return s.DB.WithContext(ctx).
		Where("sender_id = ? OR receiver_id = ?", userID, userID).
		Delete(&models.BroadcastDelivery{}).Error
}

type GormReportStore struct {
	DB *gorm.DB
}

func (s *GormReportStore) Create(ctx context.Context, report *models.Report) (uint, error) {
	report.Status = models.ReportStatusOpen
	if err := s.DB.WithContext(ctx).Create(report).Error; err != nil {
		return 0, err
	}
	return report.ID, nil
}

func (s *GormReportStore) ListOpen(ctx context.Context) ([]models.Report, error) {
	var reports []models.Report
	err := s.DB.WithContext(ctx).
		Where("status = ?", models.ReportStatusOpen).
		Order("created_at DESC").
		Find(&reports).Error
	return reports, err
}

func (s *GormReportStore) Dismiss(ctx context.Context, id uint) error {
	result := s.DB.WithContext(ctx).
		Model(&models.Report{}).
		Where("id = ?", id).
		Update("status", models.ReportStatusDismissed)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("report %d: %w", id, ErrNotFound)
	}
	return nil
}

func (s *GormReportStore) DeleteAllForUser(ctx context.Context, userID uint) error {
	return s.DB.WithContext(ctx).Unscoped().
		Where("sender_id = ? OR reporter_id = ?", userID, userID).
		Delete(&models.Report{}).Error
}

type GormUserStore struct {
	DB *gorm.DB
}

func (s *GormUserStore) GetByID(ctx context.Context, id uint) (*models.User, error) {
	var user models.User
	err := s.DB.WithContext(ctx).First(&user, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("user %d: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (s *GormUserStore) Anonymize(ctx context.Context, id uint) error {
	updates := map[string]interface{}{
		"username":       fmt.Sprintf("deleted_user_%d", id),
		"email":          fmt.Sprintf("banned_%d@invalid.local", id),
		"phone":          "",
		"password":       "",
		"google_id":      nil,
		"bio":            "",
		"avatar":         "",
		"account_status": models.AccountStatusBanned,
	}
	result := s.DB.WithContext(ctx).Model(&models.User{}).Where("id = ?", id).Updates(updates)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("user %d: %w", id, ErrNotFound)
	}
	// Invalidate every outstanding session.
	return s.DB.WithContext(ctx).Unscoped().
		Where("user_id = ?", id).
		Delete(&models.RefreshToken{}).Error
}

func (s *GormUserStore) Delete(ctx context.Context, id uint) error {
	if err := s.DB.WithContext(ctx).Unscoped().
		Where("user_id = ?", id).
		Delete(&models.RefreshToken{}).Error; err != nil {
		return err
	}
	return s.DB.WithContext(ctx).Delete(&models.User{}, id).Error
}

type GormSocialGraphStore struct {
	DB *gorm.DB
}

func (s *GormSocialGraphStore) DeleteAllForUser(ctx context.Context, userID uint) error {
	return s.DB.WithContext(ctx).Unscoped().
		Where("requester_user_id = ? OR addressee_user_id = ?", userID, userID).
		Delete(&models.Friendship{}).Error
}

type GormConversationStore struct {
	DB *gorm.DB
}

func (s *GormConversationStore) DeleteAllForUser(ctx context.Context, userID uint) error {
	var ids []uint
	if err := s.DB.WithContext(ctx).
		Model(&models.ConversationParticipant{}).
		Where("user_id = ?", userID).
		Distinct().
		Pluck("conversation_id", &ids).Error; err != nil {
		return err
	}

	var owned []uint
	if err := s.DB.WithContext(ctx).
		Model(&models.Conversation{}).
		Where("owner_user_id = ?", userID).
		Pluck("id", &owned).Error; err != nil {
		return err
	}
	ids = append(ids, owned...)

	if len(ids) == 0 {
		return nil
	}

	if err := s.DB.WithContext(ctx).
		Where("conversation_id IN ?", ids).
		Delete(&models.Message{}).Error; err != nil {
		return err
	}
	if err := s.DB.WithContext(ctx).
		Where("conversation_id IN ?", ids).
		Delete(&models.ConversationParticipant{}).Error; err != nil {
		return err
	}
	return s.DB.WithContext(ctx).Unscoped().
		Where("id IN ?", ids).
		Delete(&models.Conversation{}).Error
}

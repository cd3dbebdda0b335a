package services

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/rando-pics/api-go/models"
)

// MemoryStores is a thread-safe in-memory implementation of the store
// set. Tests substitute it for the gorm stores; it also backs local
// development without a database.
type MemoryStores struct {
	mu sync.RWMutex

	users          map[uint]*models.User
	locations      map[uint]*models.UserLocation
	deliveries     map[uint]*models.BroadcastDelivery
	reports        map[uint]*models.Report
	friendships    []*models.Friendship
	conversations  map[uint]*models.Conversation
	participants   []*models.ConversationParticipant
	messages       []*models.Message
	nextLocationID uint
	nextDeliveryID uint
	nextReportID   uint
}

func NewMemoryStores() *MemoryStores {
	return &MemoryStores{
		users:         make(map[uint]*models.User),
		locations:     make(map[uint]*models.UserLocation),
		deliveries:    make(map[uint]*models.BroadcastDelivery),
		reports:       make(map[uint]*models.Report),
		conversations: make(map[uint]*models.Conversation),
	}
}

// Bundle exposes the memory set through the Stores interfaces.
func (m *MemoryStores) Bundle() Stores {
	return Stores{
		Users:         &memoryUserStore{m},
		Locations:     &memoryLocationStore{m},
		Deliveries:    &memoryDeliveryLedger{m},
		Reports:       &memoryReportStore{m},
		Social:        &memorySocialGraphStore{m},
		Conversations: &memoryConversationStore{m},
	}
}

// RunInTransaction satisfies TxRunner. The memory set has no rollback;
// callbacks see the live stores, which is enough for unit tests.
func (m *MemoryStores) RunInTransaction(ctx context.Context, fn func(s Stores) error) error {
	return fn(m.Bundle())
}

// AddUser seeds a user row.
func (m *MemoryStores) AddUser(user *models.User) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.users[user.ID] = user
}

// AddFriendship seeds a social-graph edge.
func (m *MemoryStores) AddFriendship(f *models.Friendship) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.friendships = append(m.friendships, f)
}

// AddConversation seeds a conversation with its participants.
func (m *MemoryStores) AddConversation(conv *models.Conversation, participantIDs ...uint) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.conversations[conv.ID] = conv
	for _, id := range participantIDs {
		m.participants = append(m.participants, &models.ConversationParticipant{
			ConversationID: conv.ID,
			UserID:         id,
		})
	}
}

// AddMessage seeds an append-only message row.
func (m *MemoryStores) AddMessage(msg *models.Message) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.messages = append(m.messages, msg)
}

// Friendships returns a snapshot of the remaining edges.
func (m *MemoryStores) Friendships() []*models.Friendship {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]*models.Friendship, len(m.friendships))
	copy(out, m.friendships)
	return out
}

// Conversations returns a snapshot of the remaining conversations.
func (m *MemoryStores) Conversations() []*models.Conversation {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []*models.Conversation
	for _, c := range m.conversations {
		out = append(out, c)
	}
	return out
}

// Messages returns a snapshot of the remaining messages.
func (m *MemoryStores) Messages() []*models.Message {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]*models.Message, len(m.messages))
	copy(out, m.messages)
	return out
}

// DeliveryCount reports how many ledger rows exist.
func (m *MemoryStores) DeliveryCount() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.deliveries)
}

type memoryLocationStore struct {
	m *MemoryStores
}

func (s *memoryLocationStore) Upsert(ctx context.Context, userID uint, lat, lon float64) error {
	if !validCoordinate(lat, lon) {
		return fmt.Errorf("coordinates out of range: %w", ErrInvalidArgument)
	}
	s.m.mu.Lock()
	defer s.m.mu.Unlock()

	if existing, ok := s.m.locations[userID]; ok {
		existing.Latitude = lat
		existing.Longitude = lon
		existing.LastUpdated = time.Now()
		return nil
	}
	s.m.nextLocationID++
	s.m.locations[userID] = &models.UserLocation{
		ID:          s.m.nextLocationID,
		UserID:      userID,
		Latitude:    lat,
		Longitude:   lon,
		LastUpdated: time.Now(),
	}
	return nil
}

func (s *memoryLocationStore) Get(ctx context.Context, userID uint) (*models.UserLocation, error) {
	s.m.mu.RLock()
	defer s.m.mu.RUnlock()
	loc, ok := s.m.locations[userID]
	if !ok {
		return nil, fmt.Errorf("location for user %d: %w", userID, ErrNotFound)
	}
	copied := *loc
	return &copied, nil
}

func (s *memoryLocationStore) All(ctx context.Context, excludeUserID uint) ([]models.UserLocation, error) {
	s.m.mu.RLock()
	defer s.m.mu.RUnlock()
	var locs []models.UserLocation
	for userID, loc := range s.m.locations {
		if userID == excludeUserID {
			continue
		}
		locs = append(locs, *loc)
	}
	return locs, nil
}

func (s *memoryLocationStore) Delete(ctx context.Context, userID uint) error {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()
	delete(s.m.locations, userID)
	return nil
}

type memoryDeliveryLedger struct {
	m *MemoryStores
}

func (s *memoryDeliveryLedger) Record(ctx context.Context, senderID, receiverID uint, imageRef string) (uint, error) {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()
	s.m.nextDeliveryID++
	s.m.deliveries[s.m.nextDeliveryID] = &models.BroadcastDelivery{
		ID:         s.m.nextDeliveryID,
		SenderID:   senderID,
		ReceiverID: receiverID,
		ImageRef:   imageRef,
		SentAt:     time.Now(),
	}
	return s.m.nextDeliveryID, nil
}

func (s *memoryDeliveryLedger) ListInbox(ctx context.Context, receiverID uint) ([]models.BroadcastDelivery, error) {
	s.m.mu.RLock()
	defer s.m.mu.RUnlock()
	var deliveries []models.BroadcastDelivery
	for _, d := range s.m.deliveries {
		if d.ReceiverID == receiverID {
			deliveries = append(deliveries, *d)
		}
	}
	// Newest first, matching the ledger contract.
	sort.Slice(deliveries, func(i, j int) bool {
		if deliveries[i].SentAt.Equal(deliveries[j].SentAt) {
			return deliveries[i].ID > deliveries[j].ID
		}
		return deliveries[i].SentAt.After(deliveries[j].SentAt)
	})
	return deliveries, nil
}

func (s *memoryDeliveryLedger) GetByID(ctx context.Context, id uint) (*models.BroadcastDelivery, error) {
	s.m.mu.RLock()
	defer s.m.mu.RUnlock()
	d, ok := s.m.deliveries[id]
	if !ok {
		return nil, fmt.Errorf("delivery %d: %w", id, ErrNotFound)
	}
	copied := *d
	return &copied, nil
}

func (s *memoryDeliveryLedger) Remove(ctx context.Context, id, requesterID uint) error {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()
	d, ok := s.m.deliveries[id]
	if !ok {
		return fmt.Errorf("delivery %d: %w", id, ErrNotFound)
	}
	if d.ReceiverID != requesterID {
		return fmt.Errorf("delivery %d belongs to another receiver: %w", id, ErrForbidden)
	}
	delete(s.m.deliveries, id)
	return nil
}

func (s *memoryDeliveryLedger) DeleteBySender(ctx context.Context, userID uint) error {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()
	for id, d := range s.m.deliveries {
		if d.SenderID == userID {
			delete(s.m.deliveries, id)
		}
	}
	return nil
}

func (s *memoryDeliveryLedger) DeleteAllForUser(ctx context.Context, userID uint) error {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()
	for id, d := range s.m.deliveries {
		if d.SenderID == userID || d.ReceiverID == userID {
			delete(s.m.deliveries, id)
		}
	}
	return nil
}

type memoryReportStore struct {
	m *MemoryStores
}

func (s *memoryReportStore) Create(ctx context.Context, report *models.Report) (uint, error) {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()
	s.m.nextReportID++
	report.ID = s.m.nextReportID
	report.Status = models.ReportStatusOpen
	report.CreatedAt = time.Now()
	copied := *report
	s.m.reports[report.ID] = &copied
	return report.ID, nil
}

func (s *memoryReportStore) ListOpen(ctx context.Context) ([]models.Report, error) {
	s.m.mu.RLock()
	defer s.m.mu.RUnlock()
	var reports []models.Report
	for _, r := range s.m.reports {
		if r.Status == models.ReportStatusOpen {
			reports = append(reports, *r)
		}
	}
	sort.Slice(reports, func(i, j int) bool { return reports[i].ID > reports[j].ID })
	return reports, nil
}

func (s *memoryReportStore) Dismiss(ctx context.Context, id uint) error {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()
	r, ok := s.m.reports[id]
	if !ok {
		return fmt.Errorf("report %d: %w", id, ErrNotFound)
	}
	r.Status = models.ReportStatusDismissed
	return nil
}

func (s *memoryReportStore) DeleteAllForUser(ctx context.Context, userID uint) error {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()
	for id, r := range s.m.reports {
		if r.SenderID == userID || r.ReporterID == userID {
			delete(s.m.reports, id)
		}
	}
	return nil
}

type memoryUserStore struct {
	m *MemoryStores
}

func (s *memoryUserStore) GetByID(ctx context.Context, id uint) (*models.User, error) {
	s.m.mu.RLock()
	defer s.m.mu.RUnlock()
	user, ok := s.m.users[id]
	if !ok {
		return nil, fmt.Errorf("user %d: %w", id, ErrNotFound)
	}
	copied := *user
	return &copied, nil
}

func (s *memoryUserStore) Anonymize(ctx context.Context, id uint) error {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()
	user, ok := s.m.users[id]
	if !ok {
		return fmt.Errorf("user %d: %w", id, ErrNotFound)
	}
	user.Username = fmt.Sprintf("deleted_user_%d", id)
	user.Email = fmt.Sprintf("banned_%d@invalid.local", id)
	user.Phone = ""
	user.Password = ""
	user.GoogleID = nil
	user.Bio = ""
	user.Avatar = ""
	user.AccountStatus = models.AccountStatusBanned
	user.RefreshTokens = nil
	return nil
}

func (s *memoryUserStore) Delete(ctx context.Context, id uint) error {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()
	delete(s.m.users, id)
	return nil
}

type memorySocialGraphStore struct {
	m *MemoryStores
}

func (s *memorySocialGraphStore) DeleteAllForUser(ctx context.Context, userID uint) error {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()
	kept := s.m.friendships[:0]
	for _, f := range s.m.friendships {
		if f.RequesterUserID != userID && f.AddresseeUserID != userID {
			kept = append(kept, f)
		}
	}
	s.m.friendships = kept
	return nil
}

type memoryConversationStore struct {
	m *MemoryStores
}

func (s *memoryConversationStore) DeleteAllForUser(ctx context.Context, userID uint) error {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()

	doomed := make(map[uint]bool)
	for _, p := range s.m.participants {
		if p.UserID == userID {
			doomed[p.ConversationID] = true
		}
	}
	for id, c := range s.m.conversations {
		if c.OwnerUserID == userID {
			doomed[id] = true
		}
	}
	if len(doomed) == 0 {
		return nil
	}

	for id := range doomed {
		delete(s.m.conversations, id)
	}
	keptParticipants := s.m.participants[:0]
	for _, p := range s.m.participants {
		if !doomed[p.ConversationID] {
			keptParticipants = append(keptParticipants, p)
		}
	}
	s.m.participants = keptParticipants

	keptMessages := s.m.messages[:0]
	for _, msg := range s.m.messages {
		if !doomed[msg.ConversationID] {
			keptMessages = append(keptMessages, msg)
		}
	}
	s.m.messages = keptMessages
	return nil
}

package journal

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/soulnest/soulnest/backend/internal/model/journal"
	"github.com/soulnest/soulnest/backend/internal/model/user"
	"github.com/soulnest/soulnest/backend/internal/store"
)

// ErrJournalNotFound is returned when no journal has the requested id.
var ErrJournalNotFound = errors.New("journal not found")

// Acknowledgements returned by the mutating operations.
const (
	UpdatedStatus = "Journal updated ✨"
	DeletedStatus = "Journal deleted 🗑️"
)

// Service manages journal entries.
type Service struct {
	journals store.Collection
	now      func() time.Time
}

// Option customises a Service.
type Option func(*Service)

// WithClock overrides the time source used to stamp new journals.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		s.now = now
	}
}

// NewService binds the service to the journals collection.
func NewService(db store.DocumentStore, opts ...Option) *Service {
	s := &Service{
		journals: db.Collection(store.JournalsCollection),
		now:      func() time.Time { return time.Now().UTC() },
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Create stores a new journal and returns its id.
func (s *Service) Create(ctx context.Context, userID, title, content string) (store.ID, error) {
	id, err := s.journals.InsertOne(ctx, journal.Journal{
		UserID:    user.ResolveID(userID),
		Title:     title,
		Content:   content,
		CreatedAt: s.now(),
	})
	if err != nil {
		return "", fmt.Errorf("create journal: %w", err)
	}
	return id, nil
}

// List returns the user's journals in store order.
func (s *Service) List(ctx context.Context, userID string) ([]journal.Journal, error) {
	journals := make([]journal.Journal, 0)
	if err := s.journals.Find(ctx, store.Filter{"user_id": user.ResolveID(userID)}, &journals); err != nil {
		return nil, fmt.Errorf("list journals: %w", err)
	}
	if journals == nil {
		journals = []journal.Journal{}
	}
	return journals, nil
}

// Get fetches a single journal.
func (s *Service) Get(ctx context.Context, id store.ID) (journal.Journal, error) {
	var j journal.Journal
	err := s.journals.FindOne(ctx, store.Filter{"_id": id}, &j)
	if errors.Is(err, store.ErrNotFound) {
		return journal.Journal{}, ErrJournalNotFound
	}
	if err != nil {
		return journal.Journal{}, fmt.Errorf("get journal: %w", err)
	}
	return j, nil
}

// Update replaces the title and content. Owner and creation time are kept.
func (s *Service) Update(ctx context.Context, id store.ID, title, content string) (string, error) {
	res, err := s.journals.UpdateByID(ctx, id, store.Fields{
		"title":   title,
		"content": content,
	})
	if err != nil {
		return "", fmt.Errorf("update journal: %w", err)
	}
	if res.MatchedCount == 0 {
		return "", ErrJournalNotFound
	}
	return UpdatedStatus, nil
}

// Delete removes a journal.
func (s *Service) Delete(ctx context.Context, id store.ID) (string, error) {
	res, err := s.journals.DeleteByID(ctx, id)
	if err != nil {
		return "", fmt.Errorf("delete journal: %w", err)
	}
	if res.DeletedCount == 0 {
		return "", ErrJournalNotFound
	}
	return DeletedStatus, nil
}

package mood

import (
	"context"
	"fmt"
	"time"

	"github.com/soulnest/soulnest/backend/internal/model/mood"
	"github.com/soulnest/soulnest/backend/internal/model/user"
	"github.com/soulnest/soulnest/backend/internal/store"
)

// SavedStatus is the acknowledgement returned after a mood is logged.
const SavedStatus = "Mood saved successfully 💫"

// Service records mood check-ins.
type Service struct {
	moods store.Collection
	now   func() time.Time
}

// Option customises a Service.
type Option func(*Service)

// WithClock overrides the time source used to stamp moods.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		s.now = now
	}
}

// NewService binds the service to the moods collection.
func NewService(db store.DocumentStore, opts ...Option) *Service {
	s := &Service{
		moods: db.Collection(store.MoodsCollection),
		now:   func() time.Time { return time.Now().UTC() },
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Log stores a mood as given; the mood text is not checked against any list.
func (s *Service) Log(ctx context.Context, userID, value string, note *string) (string, error) {
	_, err := s.moods.InsertOne(ctx, mood.Mood{
		UserID:    user.ResolveID(userID),
		Mood:      value,
		Note:      note,
		Timestamp: s.now(),
	})
	if err != nil {
		return "", fmt.Errorf("save mood: %w", err)
	}
	return SavedStatus, nil
}

// List returns the user's moods, newest first.
func (s *Service) List(ctx context.Context, userID string) ([]mood.Mood, error) {
	moods := make([]mood.Mood, 0)
	err := s.moods.Find(ctx, store.Filter{"user_id": user.ResolveID(userID)}, &moods, store.Sort("timestamp", true))
	if err != nil {
		return nil, fmt.Errorf("list moods: %w", err)
	}
	if moods == nil {
		moods = []mood.Mood{}
	}
	return moods, nil
}

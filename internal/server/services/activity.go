package services

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/dmitrijs2005/dailyroutine/internal/common"
	"github.com/dmitrijs2005/dailyroutine/internal/logging"
	"github.com/dmitrijs2005/dailyroutine/internal/server/metrics"
	"github.com/dmitrijs2005/dailyroutine/internal/server/models"
	"github.com/dmitrijs2005/dailyroutine/internal/server/repositories/repomanager"
)

const activityWriteTimeout = 5 * time.Second

// ActivityService appends to and reads the per-user activity feed.
//
// Record is the path used by other services: the write runs in the
// background and a failure is logged and counted, never returned, so the
// feed can lag behind the operation it describes.
type ActivityService struct {
	repomanager repomanager.RepositoryManager
	logger      logging.Logger
	timeout     time.Duration
	now         func() time.Time
	wg          sync.WaitGroup
}

// NewActivityService constructs an ActivityService whose writes run detached
// from the request context.
func NewActivityService(m repomanager.RepositoryManager, logger logging.Logger) *ActivityService {
	return &ActivityService{
		repomanager: m,
		logger:      logger,
		timeout:     activityWriteTimeout,
		now:         time.Now,
	}
}

// Append stores a, filling the id and timestamp when unset.
func (s *ActivityService) Append(ctx context.Context, a models.Activity) (*models.Activity, error) {
	if a.UserID == "" {
		return nil, invalid("activity user is required")
	}
	if a.Type == "" {
		return nil, invalid("activity type is required")
	}
	if a.ID == "" {
		a.ID = uuid.NewString()
	}
	if a.CreatedAt.IsZero() {
		a.CreatedAt = s.now().UTC()
	}
	if a.Segments == nil {
		a.Segments = []models.Segment{}
	}
	if err := s.repomanager.Activities().Create(ctx, &a); err != nil {
		return nil, internal(ctx, s.logger, "append activity", err)
	}
	return &a, nil
}

// Record appends a on a goroutine detached from ctx cancellation.
func (s *ActivityService) Record(ctx context.Context, a models.Activity) {
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()

		ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.timeout)
		defer cancel()

		if _, err := s.Append(ctx, a); err != nil {
			metrics.ActivityWriteFailures.Inc()
			s.logger.Warn(ctx, "activity not recorded", "user_id", a.UserID, "type", a.Type, "error", err)
		}
	}()
}

// Wait blocks until every recorded write has finished or ctx is done.
func (s *ActivityService) Wait(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// List returns a page of the user's feed, newest first.
func (s *ActivityService) List(ctx context.Context, userID string, page, perPage int) ([]models.Activity, error) {
	skip, limit := common.Skip(page, perPage)
	items, err := s.repomanager.Activities().ListByUser(ctx, userID, skip, limit)
	if err != nil {
		return nil, internal(ctx, s.logger, "list activities", err)
	}
	return items, nil
}

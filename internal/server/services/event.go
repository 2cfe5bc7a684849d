package services

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/dmitrijs2005/dailyroutine/internal/logging"
	"github.com/dmitrijs2005/dailyroutine/internal/server/models"
	"github.com/dmitrijs2005/dailyroutine/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/dailyroutine/internal/validatex"
)

// EventInput describes a new event. Date is YYYY-M-D, times are HH:MM;
// an empty EndTime means the event ends when it starts.
type EventInput struct {
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Date        string   `json:"date"`
	StartTime   string   `json:"starttime"`
	EndTime     string   `json:"endtime"`
	Attendees   []string `json:"sleipner"`
}

// EventUpdate merges into an existing event. Attendees are appended to
// the current list, so an id sent twice is stored twice.
type EventUpdate struct {
	Title       *string  `json:"title"`
	Description *string  `json:"description"`
	Date        *string  `json:"date"`
	StartTime   *string  `json:"starttime"`
	EndTime     *string  `json:"endtime"`
	Attendees   []string `json:"sleipner"`
}

// EventService manages calendar events and mirrors changes into the feed.
type EventService struct {
	repomanager repomanager.RepositoryManager
	feed        *ActivityService
	logger      logging.Logger
	now         func() time.Time
}

// NewEventService constructs an EventService that reports to feed.
func NewEventService(m repomanager.RepositoryManager, feed *ActivityService, logger logging.Logger) *EventService {
	return &EventService{repomanager: m, feed: feed, logger: logger, now: time.Now}
}

// Create validates in and stores a new event owned by userID.
func (s *EventService) Create(ctx context.Context, userID string, in EventInput) (*models.Event, error) {
	title := strings.TrimSpace(in.Title)
	if title == "" {
		return nil, invalid("title is required")
	}
	if in.Date == "" {
		return nil, invalid("date is required")
	}
	if !validatex.Date(in.Date) {
		return nil, invalid("invalid date %q", in.Date)
	}
	if in.StartTime == "" {
		return nil, invalid("start time is required")
	}
	start, err := clockTime(in.StartTime)
	if err != nil {
		return nil, err
	}
	end := start
	if in.EndTime != "" {
		if end, err = clockTime(in.EndTime); err != nil {
			return nil, err
		}
	}

	attendees := in.Attendees
	if attendees == nil {
		attendees = []string{}
	}

	now := s.now().UTC()
	event := &models.Event{
		ID:          uuid.NewString(),
		UserID:      userID,
		Title:       title,
		Description: in.Description,
		Date:        in.Date,
		StartTime:   start,
		EndTime:     end,
		AttendeeIDs: attendees,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.repomanager.Events().Create(ctx, event); err != nil {
		return nil, internal(ctx, s.logger, "create event", err)
	}

	s.feed.Record(ctx, eventActivity(userID, event, "New Event", "create a new event"))

	if err := s.populate(ctx, event); err != nil {
		return nil, err
	}
	return event, nil
}

// Get returns the event with its attendees resolved to user snapshots.
func (s *EventService) Get(ctx context.Context, id string) (*models.Event, error) {
	event, err := s.repomanager.Events().GetByID(ctx, id)
	if err != nil {
		return nil, internal(ctx, s.logger, "get event", err)
	}
	if err := s.populate(ctx, event); err != nil {
		return nil, err
	}
	return event, nil
}

// Update applies the non-nil fields of in and records the change in the
// feed of userID.
func (s *EventService) Update(ctx context.Context, id, userID string, in EventUpdate) (*models.Event, error) {
	repo := s.repomanager.Events()

	event, err := repo.GetByID(ctx, id)
	if err != nil {
		return nil, internal(ctx, s.logger, "update event", err)
	}

	if in.Title != nil {
		if title := strings.TrimSpace(*in.Title); title != "" {
			event.Title = title
		}
	}
	if in.Description != nil {
		event.Description = *in.Description
	}
	if in.Date != nil && *in.Date != "" {
		if !validatex.Date(*in.Date) {
			return nil, invalid("invalid date %q", *in.Date)
		}
		event.Date = *in.Date
	}
	if in.StartTime != nil && *in.StartTime != "" {
		if event.StartTime, err = clockTime(*in.StartTime); err != nil {
			return nil, err
		}
	}
	if in.EndTime != nil && *in.EndTime != "" {
		if event.EndTime, err = clockTime(*in.EndTime); err != nil {
			return nil, err
		}
	}
	event.AttendeeIDs = append(event.AttendeeIDs, in.Attendees...)
	event.UpdatedAt = s.now().UTC()

	if err := repo.Update(ctx, event); err != nil {
		return nil, internal(ctx, s.logger, "update event", err)
	}

	s.feed.Record(ctx, eventActivity(userID, event, "Update Event", "this event is update"))

	if err := s.populate(ctx, event); err != nil {
		return nil, err
	}
	return event, nil
}

// Delete removes an event; deleting it again reports "already deleted".
func (s *EventService) Delete(ctx context.Context, id string) (*DeleteResult, error) {
	removed, err := s.repomanager.Events().Delete(ctx, id)
	if err != nil {
		return nil, internal(ctx, s.logger, "delete event", err)
	}
	if !removed {
		return &DeleteResult{Deleted: false, Message: "Event already deleted"}, nil
	}
	return &DeleteResult{Deleted: true, Message: "Event deleted successfully"}, nil
}

// ListGroupedByDate returns userID's events keyed by their date string as
// stored, so "2024-1-5" and "2024-01-05" are different keys.
func (s *EventService) ListGroupedByDate(ctx context.Context, userID string) (map[string][]models.Event, error) {
	list, err := s.repomanager.Events().ListByUser(ctx, userID)
	if err != nil {
		return nil, internal(ctx, s.logger, "list events", err)
	}

	snapshots, err := s.snapshots(ctx, list...)
	if err != nil {
		return nil, err
	}

	grouped := make(map[string][]models.Event)
	for _, e := range list {
		e.Attendees = attendeesOf(e.AttendeeIDs, snapshots)
		grouped[e.Date] = append(grouped[e.Date], e)
	}
	return grouped, nil
}

func (s *EventService) populate(ctx context.Context, event *models.Event) error {
	snapshots, err := s.snapshots(ctx, *event)
	if err != nil {
		return err
	}
	event.Attendees = attendeesOf(event.AttendeeIDs, snapshots)
	return nil
}

// snapshots loads every attendee of events with one store call.
func (s *EventService) snapshots(ctx context.Context, events ...models.Event) (map[string]models.UserSnapshot, error) {
	seen := make(map[string]struct{})
	var ids []string
	for _, e := range events {
		for _, id := range e.AttendeeIDs {
			if _, ok := seen[id]; !ok {
				seen[id] = struct{}{}
				ids = append(ids, id)
			}
		}
	}
	out := make(map[string]models.UserSnapshot, len(ids))
	if len(ids) == 0 {
		return out, nil
	}

	found, err := s.repomanager.Users().GetMany(ctx, ids)
	if err != nil {
		return nil, internal(ctx, s.logger, "load attendees", err)
	}
	for _, u := range found {
		out[u.ID] = u.Snapshot()
	}
	return out, nil
}

// attendeesOf keeps the order and duplicates of ids and skips users that
// no longer exist.
func attendeesOf(ids []string, snapshots map[string]models.UserSnapshot) []models.UserSnapshot {
	out := make([]models.UserSnapshot, 0, len(ids))
	for _, id := range ids {
		if snap, ok := snapshots[id]; ok {
			out = append(out, snap)
		}
	}
	return out
}

func clockTime(s string) (models.ClockTime, error) {
	h, m, ok := validatex.Clock(s)
	if !ok {
		return models.ClockTime{}, invalid("invalid time %q, expected HH:MM", s)
	}
	return models.ClockTime{Hour: h, Minute: m}, nil
}

func eventActivity(userID string, event *models.Event, title, text string) models.Activity {
	return models.Activity{
		UserID: userID,
		Type:   models.ActivityTypeEvent,
		Title:  title,
		Segments: []models.Segment{
			{Bold: true, Text: event.Title},
			{Bold: false, Text: text},
		},
		RelatedID: event.ID,
	}
}

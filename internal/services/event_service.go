package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/isdelr/event-registry/internal/metrics"
	"github.com/isdelr/event-registry/internal/models"
	"github.com/isdelr/event-registry/internal/store"
	"github.com/rs/zerolog/log"
)

var (
	// ErrEventNotFound is returned by like/unlike for an unknown id.
	ErrEventNotFound = errors.New("event not found")
	// ErrMissingEventID is returned by like/unlike when no id was given.
	ErrMissingEventID = errors.New("event id is required")
)

// Source tells where the events of a Listing came from.
type Source string

const (
	SourceStore Source = "store" // documents read from the store
	SourceEmpty Source = "empty" // collection had no documents; fallback served
	SourceError Source = "error" // read failed; fallback served
)

// Listing is the result of listing events. Events always holds what should be
// shown: stored documents, or the fallback set when Source is not SourceStore.
type Listing struct {
	Events []models.Event
	Source Source
	Err    error
}

// Fallback reports whether the sample events were served instead of stored ones.
func (l Listing) Fallback() bool {
	return l.Source != SourceStore
}

// Body returns the JSON response shape for the listing.
func (l Listing) Body() models.EventList {
	events := l.Events
	if events == nil {
		events = []models.Event{}
	}
	return models.EventList{Events: events}
}

// ListingNotifier receives the current listing after every successful mutation.
type ListingNotifier interface {
	NotifyListing(list models.EventList)
}

// EventServiceProvider defines the interface for event services.
type EventServiceProvider interface {
	ListEvents(ctx context.Context) Listing
	CreateEvent(ctx context.Context, input models.NewEvent) (Listing, error)
	LikeEvent(ctx context.Context, id string) (Listing, error)
	UnlikeEvent(ctx context.Context, id string) (Listing, error)
}

// EventService provides business logic for the events collection.
type EventService struct {
	store    store.EventStore
	fallback []models.Event
	notifier ListingNotifier
	metrics  *metrics.Metrics
}

// NewEventService creates a new EventService. fallback is copied; notifier and
// m may be nil.
func NewEventService(st store.EventStore, fallback []models.Event, notifier ListingNotifier, m *metrics.Metrics) *EventService {
	fb := make([]models.Event, len(fallback))
	copy(fb, fallback)
	return &EventService{
		store:    st,
		fallback: fb,
		notifier: notifier,
		metrics:  m,
	}
}

// ListEvents never fails: read errors and an empty collection both yield the
// fallback set, with Source telling them apart.
func (s *EventService) ListEvents(ctx context.Context) Listing {
	events, err := s.store.List(ctx)
	var l Listing
	switch {
	case err != nil:
		log.Error().Err(err).Msg("Error getting events, serving sample events")
		l = Listing{Events: s.sampleEvents(), Source: SourceError, Err: err}
	case len(events) == 0:
		l = Listing{Events: s.sampleEvents(), Source: SourceEmpty}
	default:
		l = Listing{Events: events, Source: SourceStore}
	}
	s.metrics.ListingServed(string(l.Source))
	return l
}

// CreateEvent stores a new event with zero likes and returns the new listing.
func (s *EventService) CreateEvent(ctx context.Context, input models.NewEvent) (Listing, error) {
	id, err := s.store.Add(ctx, input.ToEvent())
	if err != nil {
		return Listing{}, fmt.Errorf("failed to create event: %w", err)
	}
	log.Info().Str("event_id", id).Str("title", input.Title).Msg("Event created")
	return s.afterMutation(ctx), nil
}

// LikeEvent adds one like to the event.
func (s *EventService) LikeEvent(ctx context.Context, id string) (Listing, error) {
	return s.changeLikes(ctx, id, 1)
}

// UnlikeEvent removes one like from the event. The counter stops at zero.
func (s *EventService) UnlikeEvent(ctx context.Context, id string) (Listing, error) {
	return s.changeLikes(ctx, id, -1)
}

func (s *EventService) changeLikes(ctx context.Context, id string, delta int64) (Listing, error) {
	if id == "" {
		return Listing{}, ErrMissingEventID
	}

	likes, err := s.store.AdjustLikes(ctx, id, delta)
	s.metrics.LikeChanged(delta, err)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return Listing{}, fmt.Errorf("%w: %s", ErrEventNotFound, id)
		}
		return Listing{}, fmt.Errorf("failed to change likes: %w", err)
	}
	log.Debug().Str("event_id", id).Int64("likes", likes).Msg("Likes updated")
	return s.afterMutation(ctx), nil
}

func (s *EventService) afterMutation(ctx context.Context) Listing {
	l := s.ListEvents(ctx)
	if s.notifier != nil {
		s.notifier.NotifyListing(l.Body())
	}
	return l
}

func (s *EventService) sampleEvents() []models.Event {
	out := make([]models.Event, len(s.fallback))
	copy(out, s.fallback)
	return out
}

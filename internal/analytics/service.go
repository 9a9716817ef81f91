package analytics

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"looks/internal/infra"
	"looks/internal/kv"
)

// DocumentKey is the kv key under which the whole event log lives.
const DocumentKey = "analytics/data"

// Meta carries request-derived context attached to every event.
type Meta struct {
	Country string
	Locale  string
}

// Service owns reads and writes of the event log. Writes are serialized by
// the callers being HTTP handlers on a single document; lost updates under
// heavy concurrency are an accepted property of the original design.
type Service struct {
	store  kv.Store
	logger infra.Logger

	now   func() time.Time
	newID func() string
}

// NewService constructs the analytics service over the given store.
func NewService(store kv.Store, logger infra.Logger) *Service {
	return &Service{
		store:  store,
		logger: logger,
		now:    time.Now,
		newID:  uuid.NewString,
	}
}

// Record appends one event to its stream and returns the updated counts.
// Unknown event types are accepted and dropped: the write path must never
// fail the UI over a client-side experiment.
func (s *Service) Record(ctx context.Context, eventType string, data Event, meta Meta) (Counts, error) {
	log, err := s.load(ctx)
	if err != nil {
		return Counts{}, err
	}

	event := Event{}
	for k, v := range data {
		event[k] = v
	}
	if _, ok := event["sessionId"]; !ok {
		event["sessionId"] = "session_" + s.newID()
	}
	event["timestamp"] = s.now().UTC().Format(time.RFC3339)
	if meta.Country != "" {
		event["country"] = meta.Country
	}
	if meta.Locale != "" {
		event["locale"] = meta.Locale
	}

	switch eventType {
	case EventSessionStart:
		log.Sessions = append(log.Sessions, event)
	case EventImageCapture:
		log.Captures = append(log.Captures, event)
	case EventGenerationComplete:
		log.Generations = append(log.Generations, event)
	case EventShareClick, EventSaveClick:
		event["type"] = eventType
		log.Shares = append(log.Shares, event)
	default:
		s.logger.Debug().Str("event_type", eventType).Msg("analytics: dropping unknown event type")
		return log.counts(), nil
	}

	if err := s.save(ctx, log); err != nil {
		return Counts{}, err
	}
	return log.counts(), nil
}

// Snapshot returns the raw streams plus the derived summary.
func (s *Service) Snapshot(ctx context.Context) (*Log, Summary, error) {
	log, err := s.load(ctx)
	if err != nil {
		return nil, Summary{}, err
	}
	return log, log.Summarize(), nil
}

func (s *Service) load(ctx context.Context) (*Log, error) {
	log := &Log{
		Sessions:    []Event{},
		Captures:    []Event{},
		Generations: []Event{},
		Shares:      []Event{},
	}

	raw, err := s.store.Get(ctx, DocumentKey)
	if errors.Is(err, kv.ErrNotFound) {
		return log, nil
	}
	if err != nil {
		return nil, fmt.Errorf("analytics: load: %w", err)
	}
	if err := json.Unmarshal(raw, log); err != nil {
		// A corrupt document must not brick the write path forever; start a
		// fresh log and let the next save replace it.
		s.logger.Warn().Err(err).Msg("analytics: corrupt document, starting fresh")
		return &Log{
			Sessions:    []Event{},
			Captures:    []Event{},
			Generations: []Event{},
			Shares:      []Event{},
		}, nil
	}
	return log, nil
}

func (s *Service) save(ctx context.Context, log *Log) error {
	raw, err := json.Marshal(log)
	if err != nil {
		return fmt.Errorf("analytics: marshal: %w", err)
	}
	if err := s.store.Set(ctx, DocumentKey, raw); err != nil {
		return fmt.Errorf("analytics: save: %w", err)
	}
	return nil
}

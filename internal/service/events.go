// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package service

import (
	"context"
	"database/sql"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/olegiv/himlearn/internal/model"
	"github.com/olegiv/himlearn/internal/store"
)

// DefaultActivityLimit is how many entries the admin Activity tab shows.
const DefaultActivityLimit = 50

// EventService reads and writes the local event log.
type EventService struct {
	queries *store.Queries
}

// NewEventService creates a new EventService.
func NewEventService(db *sql.DB) *EventService {
	return &EventService{
		queries: store.New(db),
	}
}

// LogEvent creates a new event log entry.
func (s *EventService) LogEvent(ctx context.Context, level, category, message, visitorID string, metadata map[string]any) error {
	metadataJSON := "{}"
	if metadata != nil {
		jsonBytes, err := json.Marshal(metadata)
		if err == nil {
			metadataJSON = string(jsonBytes)
		}
	}

	_, err := s.queries.CreateEvent(ctx, store.CreateEventParams{
		Level:     level,
		Category:  category,
		Message:   message,
		VisitorID: visitorID,
		Metadata:  metadataJSON,
		CreatedAt: time.Now(),
	})
	if err != nil {
		slog.Error("failed to log event", "error", err)
		return err
	}

	return nil
}

// LogAuthEvent logs an authentication-related event.
func (s *EventService) LogAuthEvent(ctx context.Context, level, message, visitorID string, metadata map[string]any) error {
	return s.LogEvent(ctx, level, model.EventCategoryAuth, message, visitorID, metadata)
}

// ListActivity returns the newest warnings, errors and moderation entries.
func (s *EventService) ListActivity(ctx context.Context, limit int) ([]model.Event, error) {
	if limit <= 0 {
		limit = DefaultActivityLimit
	}
	return s.listActivity(ctx, limit, 0)
}

// ActivityPage returns one page of the activity log and the total number of
// entries. Pages start at 1.
func (s *EventService) ActivityPage(ctx context.Context, page, perPage int) ([]model.Event, int, error) {
	if perPage <= 0 {
		perPage = DefaultActivityLimit
	}
	if page < 1 {
		page = 1
	}
	total, err := s.queries.CountActivity(ctx, model.EventCategoryModeration)
	if err != nil {
		return nil, 0, err
	}
	events, err := s.listActivity(ctx, perPage, (page-1)*perPage)
	if err != nil {
		return nil, 0, err
	}
	return events, int(total), nil
}

func (s *EventService) listActivity(ctx context.Context, limit, offset int) ([]model.Event, error) {
	rows, err := s.queries.ListActivity(ctx, store.ListActivityParams{
		AuditCategory: model.EventCategoryModeration,
		Limit:         int64(limit),
		Offset:        int64(offset),
	})
	if err != nil {
		return nil, err
	}
	out := make([]model.Event, 0, len(rows))
	for _, e := range rows {
		out = append(out, model.Event{
			ID:        e.ID,
			Level:     e.Level,
			Category:  e.Category,
			Message:   e.Message,
			VisitorID: e.VisitorID,
			Metadata:  e.Metadata,
			CreatedAt: e.CreatedAt,
		})
	}
	return out, nil
}

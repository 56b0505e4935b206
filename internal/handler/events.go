// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"encoding/json"
	"maps"
	"slices"
	"strings"

	"github.com/olegiv/himlearn/internal/model"
)

// ActivityRow is one entry of the admin activity tab.
type ActivityRow struct {
	ID          int64
	Level       string
	Category    string
	Message     string
	Details     string
	DetailsLong bool
	CreatedAt   string
}

// collapseDetailsAt is the details length above which the activity tab
// folds a row's attributes behind a toggle.
const collapseDetailsAt = 80

// eventDetails renders the slog attributes the event log stored for an
// entry, such as {"material_id":"m1","admin_id":"u1"}, as
// "admin_id: u1, material_id: m1". Text that is not a flat string map is
// shown unchanged.
func eventDetails(metadata string) string {
	var attrs map[string]string
	if err := json.Unmarshal([]byte(metadata), &attrs); err != nil {
		return strings.TrimSpace(metadata)
	}
	parts := make([]string, 0, len(attrs))
	for _, key := range slices.Sorted(maps.Keys(attrs)) {
		parts = append(parts, key+": "+attrs[key])
	}
	return strings.Join(parts, ", ")
}

// activityRows converts stored events for display.
func activityRows(events []model.Event) []ActivityRow {
	rows := make([]ActivityRow, 0, len(events))
	for _, e := range events {
		details := eventDetails(e.Metadata)
		rows = append(rows, ActivityRow{
			ID:          e.ID,
			Level:       e.Level,
			Category:    e.Category,
			Message:     e.Message,
			Details:     details,
			DetailsLong: len(details) > collapseDetailsAt,
			CreatedAt:   e.CreatedAt.Format("2006-01-02 15:04:05"),
		})
	}
	return rows
}

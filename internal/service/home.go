// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package service

import (
	"context"
	"log/slog"

	"github.com/olegiv/himlearn/internal/model"
	"github.com/olegiv/himlearn/internal/search"
)

// EmptyState says why the home list shows nothing.
type EmptyState int

const (
	EmptyNone EmptyState = iota
	EmptyNoData
	EmptyNoMatches
)

// HomeView is the home page model.
type HomeView struct {
	Query     string
	All       []model.Material
	Materials []model.Material // All filtered by Query
	Error     string
}

// Empty reports which empty message applies, if any.
func (v HomeView) Empty() EmptyState {
	switch {
	case v.Error != "" || len(v.Materials) > 0:
		return EmptyNone
	case len(v.All) == 0:
		return EmptyNoData
	default:
		return EmptyNoMatches
	}
}

// LoadHome fetches the list once and applies the search query.
func LoadHome(ctx context.Context, lister MaterialLister, query string) HomeView {
	v := HomeView{Query: query}
	list, err := lister.ListMaterials(ctx)
	if err != nil {
		slog.Warn("failed to fetch materials", "category", model.EventCategoryAPI, "error", err)
		v.Error = MsgFetchMaterialsFailed
		return v
	}
	v.All = list
	v.Materials = search.Materials(list, query)
	return v
}

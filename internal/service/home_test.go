// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package service

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/olegiv/himlearn/internal/model"
	"github.com/olegiv/himlearn/internal/testutil"
)

func TestLoadHome(t *testing.T) {
	b := testutil.NewFakeBackend(t)
	ann := b.AddUser("Ann", "ann@example.com", testPassword, model.RoleUser)
	b.AddMaterial(ann.ID, "Intro to Testing", "Basics")
	b.AddMaterial(ann.ID, "Go Concurrency", "Channels and goroutines")
	c := clientFor(t, b, "")
	ctx := context.Background()

	v := LoadHome(ctx, c, "")
	assert.Empty(t, v.Error)
	assert.Len(t, v.Materials, 2)
	assert.Equal(t, EmptyNone, v.Empty())

	v = LoadHome(ctx, c, "TESTING")
	assert.Len(t, v.Materials, 1)
	assert.Len(t, v.All, 2)
	assert.Equal(t, "Intro to Testing", v.Materials[0].Title)

	v = LoadHome(ctx, c, "ann")
	assert.Len(t, v.Materials, 2, "author name matches")

	v = LoadHome(ctx, c, "rust")
	assert.Empty(t, v.Materials)
	assert.Equal(t, EmptyNoMatches, v.Empty())

	assert.Equal(t, 4, b.CountRequests(http.MethodGet, "/api/blogs"), "one fetch per page view")
}

func TestLoadHome_Empty(t *testing.T) {
	b := testutil.NewFakeBackend(t)
	v := LoadHome(context.Background(), clientFor(t, b, ""), "")
	assert.Equal(t, EmptyNoData, v.Empty())
}

func TestLoadHome_Failure(t *testing.T) {
	b := testutil.NewFakeBackend(t)
	b.Fail(http.MethodGet, "/api/blogs", http.StatusInternalServerError, "boom")

	v := LoadHome(context.Background(), clientFor(t, b, ""), "")
	assert.Equal(t, MsgFetchMaterialsFailed, v.Error)
	assert.Equal(t, EmptyNone, v.Empty(), "error state hides the empty message")
}

// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"errors"
	"net/http"
	"slices"

	"github.com/go-chi/chi/v5"

	"github.com/olegiv/himlearn/internal/api"
	"github.com/olegiv/himlearn/internal/middleware"
	"github.com/olegiv/himlearn/internal/render"
	"github.com/olegiv/himlearn/internal/service"
)

// FrontendHandler serves the public pages: the material list and detail.
type FrontendHandler struct {
	renderer *render.Renderer
}

// NewFrontendHandler creates a new FrontendHandler.
func NewFrontendHandler(renderer *render.Renderer) *FrontendHandler {
	return &FrontendHandler{renderer: renderer}
}

// Home handles GET / with an optional ?q= search.
func (h *FrontendHandler) Home(w http.ResponseWriter, r *http.Request) {
	c, ok := visitorClient(w, r)
	if !ok {
		return
	}
	view := service.LoadHome(r.Context(), c, r.URL.Query().Get("q"))
	renderPage(w, r, h.renderer, "home", render.TemplateData{
		Title: "Learning Materials",
		Data:  view,
	})
}

// Detail handles GET /blog/{id}.
func (h *FrontendHandler) Detail(w http.ResponseWriter, r *http.Request) {
	c, ok := visitorClient(w, r)
	if !ok {
		return
	}
	id := chi.URLParam(r, "id")
	view := service.LoadDetail(r.Context(), c, middleware.CurrentUser(r), id)

	status := http.StatusOK
	title := service.MsgMaterialNotFound
	if view.Found() {
		title = view.Material.Title
	} else {
		status = http.StatusNotFound
	}
	renderPageStatus(w, r, h.renderer, status, "detail", render.TemplateData{
		Title: title,
		Data:  view,
	})
}

// Like handles POST /blog/{id}/like. Script callers that accept JSON get
// the server's like state; forms are redirected back to the detail page.
func (h *FrontendHandler) Like(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	user := middleware.CurrentUser(r)
	if user == nil {
		if wantsJSON(r) {
			writeJSONError(w, http.StatusUnauthorized, "Login required")
			return
		}
		http.Redirect(w, r, redirectLogin, http.StatusSeeOther)
		return
	}
	c, ok := visitorClient(w, r)
	if !ok {
		return
	}

	state, err := service.Like(r.Context(), c, id)
	if err != nil {
		message := service.Message(err, service.MsgLikeFailed)
		if wantsJSON(r) {
			status := api.StatusCode(err)
			if status == 0 {
				status = http.StatusBadGateway
			}
			writeJSONError(w, status, message)
			return
		}
		flashError(w, r, h.renderer, blogURL(id), message)
		return
	}

	if wantsJSON(r) {
		writeJSONSuccess(w, map[string]any{
			"likes":      state.Likes,
			"likesCount": state.LikesCount,
			"isLiked":    slices.Contains(state.Likes, user.ID),
		})
		return
	}
	http.Redirect(w, r, blogURL(id), http.StatusSeeOther)
}

// Comment handles POST /blog/{id}/comment.
func (h *FrontendHandler) Comment(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if _, ok := requireUser(w, r); !ok {
		return
	}
	if !parseFormOrRedirect(w, r, h.renderer, blogURL(id)) {
		return
	}
	c, ok := visitorClient(w, r)
	if !ok {
		return
	}

	_, err := service.AddComment(r.Context(), c, id, r.PostFormValue("content"))
	switch {
	case errors.Is(err, service.ErrEmptyComment):
		http.Redirect(w, r, blogURL(id), http.StatusSeeOther)
	case err != nil:
		flashError(w, r, h.renderer, blogURL(id), service.Message(err, service.MsgCommentFailed))
	default:
		http.Redirect(w, r, blogURL(id)+"#comments", http.StatusSeeOther)
	}
}

// DeleteComment handles POST /blog/{id}/comment/{commentID}/delete.
func (h *FrontendHandler) DeleteComment(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	user, ok := requireUser(w, r)
	if !ok {
		return
	}
	c, ok := visitorClient(w, r)
	if !ok {
		return
	}

	if err := service.DeleteComment(r.Context(), c, user, id, chi.URLParam(r, "commentID")); err != nil {
		flashError(w, r, h.renderer, blogURL(id), service.Message(err, service.MsgDeleteCommentFailed))
		return
	}
	flashSuccess(w, r, h.renderer, blogURL(id)+"#comments", service.MsgCommentDeleted)
}

// ConfirmDelete handles GET /blog/{id}/delete.
func (h *FrontendHandler) ConfirmDelete(w http.ResponseWriter, r *http.Request) {
	c, ok := visitorClient(w, r)
	if !ok {
		return
	}
	id := chi.URLParam(r, "id")
	view := service.LoadDetail(r.Context(), c, middleware.CurrentUser(r), id)
	if !view.Found() {
		flashError(w, r, h.renderer, RouteRoot, view.Error)
		return
	}
	if !view.Caps.CanDelete {
		http.Redirect(w, r, blogURL(id), http.StatusSeeOther)
		return
	}
	renderConfirm(w, r, h.renderer, ConfirmView{
		Heading: "Delete learning material",
		Message: "Are you sure you want to delete \"" + view.Material.Title + "\"? This cannot be undone.",
		Action:  blogURL(id) + RouteSuffixDelete,
		Cancel:  blogURL(id),
	})
}

// Delete handles POST /blog/{id}/delete.
func (h *FrontendHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	user, ok := requireUser(w, r)
	if !ok {
		return
	}
	if !parseFormOrRedirect(w, r, h.renderer, blogURL(id)) {
		return
	}
	c, ok := visitorClient(w, r)
	if !ok {
		return
	}

	err := service.DeleteMaterial(r.Context(), c, user, id, confirmed(r))
	switch {
	case errors.Is(err, service.ErrNotConfirmed):
		http.Redirect(w, r, blogURL(id), http.StatusSeeOther)
	case err != nil:
		flashError(w, r, h.renderer, blogURL(id), service.Message(err, service.MsgDeleteMaterialFailed))
	default:
		flashSuccess(w, r, h.renderer, RouteRoot, service.MsgMaterialDeleted)
	}
}

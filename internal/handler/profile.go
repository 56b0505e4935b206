// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"errors"
	"net/http"

	"github.com/olegiv/himlearn/internal/middleware"
	"github.com/olegiv/himlearn/internal/render"
	"github.com/olegiv/himlearn/internal/service"
	"github.com/olegiv/himlearn/internal/validation"
)

// ProfileHandler serves the profile and password forms.
type ProfileHandler struct {
	renderer *render.Renderer
	checker  service.AvatarChecker
}

// NewProfileHandler creates a new ProfileHandler.
func NewProfileHandler(renderer *render.Renderer, checker service.AvatarChecker) *ProfileHandler {
	return &ProfileHandler{renderer: renderer, checker: checker}
}

// ProfileView is the data of the profile page. The two forms keep their own
// errors.
type ProfileView struct {
	LoadError      string
	Profile        service.ProfileForm
	ProfileErrors  validation.Errors
	ProfileError   string
	PasswordErrors validation.Errors
	PasswordError  string
}

// Show handles GET /profile.
func (h *ProfileHandler) Show(w http.ResponseWriter, r *http.Request) {
	if _, ok := requireUser(w, r); !ok {
		return
	}
	c, ok := visitorClient(w, r)
	if !ok {
		return
	}

	var view ProfileView
	form, err := service.LoadProfile(r.Context(), c)
	if err != nil {
		view.LoadError = service.Message(err, service.MsgLoadProfileFailed)
	}
	view.Profile = form
	h.render(w, r, http.StatusOK, view)
}

// Update handles POST /profile.
func (h *ProfileHandler) Update(w http.ResponseWriter, r *http.Request) {
	if _, ok := requireUser(w, r); !ok {
		return
	}
	if !parseFormOrRedirect(w, r, h.renderer, redirectProfile) {
		return
	}
	v := middleware.GetVisitor(r)
	if v == nil {
		logAndInternalError(w, "request has no visitor", "path", r.URL.Path)
		return
	}

	form := service.ProfileForm{
		Name:   r.PostFormValue("name"),
		Email:  r.PostFormValue("email"),
		Bio:    r.PostFormValue("bio"),
		Avatar: r.PostFormValue("avatar"),
	}
	if err := service.UpdateProfile(r.Context(), v.Store, h.checker, form); err != nil {
		view := ProfileView{
			Profile:      form,
			ProfileError: service.Message(err, service.MsgUpdateProfileFailed),
		}
		var verrs validation.Errors
		if errors.As(err, &verrs) {
			view.ProfileErrors = verrs
		}
		h.render(w, r, failureStatus(err), view)
		return
	}
	flashSuccess(w, r, h.renderer, redirectProfile, service.MsgProfileUpdated)
}

// Password handles POST /profile/password.
func (h *ProfileHandler) Password(w http.ResponseWriter, r *http.Request) {
	if _, ok := requireUser(w, r); !ok {
		return
	}
	if !parseFormOrRedirect(w, r, h.renderer, redirectProfile) {
		return
	}
	c, ok := visitorClient(w, r)
	if !ok {
		return
	}

	form := service.PasswordForm{
		CurrentPassword: r.PostFormValue("current_password"),
		NewPassword:     r.PostFormValue("new_password"),
		ConfirmPassword: r.PostFormValue("confirm_password"),
	}
	if err := service.ChangePassword(r.Context(), c, form); err != nil {
		view := ProfileView{PasswordError: service.Message(err, service.MsgUpdatePasswordFailed)}
		var verrs validation.Errors
		if errors.As(err, &verrs) {
			view.PasswordErrors = verrs
		}
		if profile, err := service.LoadProfile(r.Context(), c); err == nil {
			view.Profile = profile
		}
		h.render(w, r, failureStatus(err), view)
		return
	}
	flashSuccess(w, r, h.renderer, redirectProfile, service.MsgPasswordUpdated)
}

func (h *ProfileHandler) render(w http.ResponseWriter, r *http.Request, status int, view ProfileView) {
	renderPageStatus(w, r, h.renderer, status, "profile", render.TemplateData{
		Title: "Profile",
		Data:  view,
	})
}

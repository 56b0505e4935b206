// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/olegiv/himlearn/internal/middleware"
	"github.com/olegiv/himlearn/internal/model"
	"github.com/olegiv/himlearn/internal/render"
	"github.com/olegiv/himlearn/internal/service"
	"github.com/olegiv/himlearn/internal/validation"
)

// multipartOverhead is allowed on top of the image limit for the text fields.
const multipartOverhead = 1 << 20

// MaterialsHandler serves the create and edit forms.
type MaterialsHandler struct {
	renderer       *render.Renderer
	editor         *service.Editor
	maxUploadBytes int64
}

// NewMaterialsHandler creates a new MaterialsHandler.
func NewMaterialsHandler(renderer *render.Renderer, editor *service.Editor, maxUploadBytes int64) *MaterialsHandler {
	return &MaterialsHandler{
		renderer:       renderer,
		editor:         editor,
		maxUploadBytes: maxUploadBytes,
	}
}

// MaterialFormView is the data of the create/edit page.
type MaterialFormView struct {
	Editing      bool
	ID           string
	Action       string
	Cancel       string
	Form         service.MaterialForm
	Preview      string // data URL of a staged upload
	CurrentImage string // existing image reference when editing
	LoadError    string
}

// New handles GET /create.
func (h *MaterialsHandler) New(w http.ResponseWriter, r *http.Request) {
	if _, ok := requireUser(w, r); !ok {
		return
	}
	renderPage(w, r, h.renderer, "material_form", render.TemplateData{
		Title: "Create Learning Material",
		Data:  MaterialFormView{Action: RouteCreate, Cancel: RouteRoot},
	})
}

// Create handles POST /create.
func (h *MaterialsHandler) Create(w http.ResponseWriter, r *http.Request) {
	if _, ok := requireUser(w, r); !ok {
		return
	}
	c, ok := visitorClient(w, r)
	if !ok {
		return
	}
	view := MaterialFormView{Action: RouteCreate, Cancel: RouteRoot}
	title := "Create Learning Material"

	form, preview, err := h.readForm(w, r)
	view.Form, view.Preview = form, preview
	if err != nil {
		h.renderFormError(w, r, title, view, err, service.MsgCreateMaterialFailed)
		return
	}
	if r.PostFormValue(formAction) == actionPreview {
		renderPage(w, r, h.renderer, "material_form", render.TemplateData{Title: title, Data: view})
		return
	}

	m, err := h.editor.Create(r.Context(), c, middleware.VisitorID(r), form)
	if err != nil {
		h.renderFormError(w, r, title, view, err, service.MsgCreateMaterialFailed)
		return
	}
	flashSuccess(w, r, h.renderer, blogURL(m.ID), service.MsgMaterialCreated)
}

// Edit handles GET /edit/{id}.
func (h *MaterialsHandler) Edit(w http.ResponseWriter, r *http.Request) {
	if _, ok := requireUser(w, r); !ok {
		return
	}
	c, ok := visitorClient(w, r)
	if !ok {
		return
	}
	id := chi.URLParam(r, "id")
	view := editView(id)

	form, m, err := service.LoadForEdit(r.Context(), c, id)
	if err != nil {
		slog.Info("material not loaded for edit", "category", model.EventCategoryAPI, "material_id", id, "error", err)
		view.LoadError = service.MsgLoadForEditFailed
		renderPage(w, r, h.renderer, "material_form", render.TemplateData{Title: "Edit Learning Material", Data: view})
		return
	}
	view.Form = form
	view.CurrentImage = m.Image
	renderPage(w, r, h.renderer, "material_form", render.TemplateData{Title: "Edit Learning Material", Data: view})
}

// Update handles POST /edit/{id}.
func (h *MaterialsHandler) Update(w http.ResponseWriter, r *http.Request) {
	if _, ok := requireUser(w, r); !ok {
		return
	}
	c, ok := visitorClient(w, r)
	if !ok {
		return
	}
	id := chi.URLParam(r, "id")
	view := editView(id)
	title := "Edit Learning Material"

	form, preview, err := h.readForm(w, r)
	view.Form, view.Preview = form, preview
	view.CurrentImage = r.PostFormValue("current_image")
	if err != nil {
		h.renderFormError(w, r, title, view, err, service.MsgUpdateMaterialFailed)
		return
	}
	if r.PostFormValue(formAction) == actionPreview {
		renderPage(w, r, h.renderer, "material_form", render.TemplateData{Title: title, Data: view})
		return
	}

	if _, err := h.editor.Update(r.Context(), c, middleware.VisitorID(r), id, form); err != nil {
		h.renderFormError(w, r, title, view, err, service.MsgUpdateMaterialFailed)
		return
	}
	flashSuccess(w, r, h.renderer, blogURL(id), service.MsgMaterialUpdated)
}

func editView(id string) MaterialFormView {
	return MaterialFormView{
		Editing: true,
		ID:      id,
		Action:  "/edit/" + id,
		Cancel:  blogURL(id),
	}
}

// readForm parses the multipart form and stages a newly chosen image. The
// returned form carries the pending token of the staged image, new or kept.
func (h *MaterialsHandler) readForm(w http.ResponseWriter, r *http.Request) (service.MaterialForm, string, error) {
	owner := middleware.VisitorID(r)
	limit := h.maxUploadBytes + multipartOverhead
	r.Body = http.MaxBytesReader(w, r.Body, limit)

	if err := r.ParseMultipartForm(limit); err != nil && !errors.Is(err, http.ErrNotMultipart) {
		var tooBig *http.MaxBytesError
		if errors.As(err, &tooBig) {
			return service.MaterialForm{}, "", service.UserError(service.MsgImageTooLarge)
		}
		return service.MaterialForm{}, "", err
	}

	form := service.MaterialForm{
		Title:        r.PostFormValue("title"),
		Description:  r.PostFormValue("description"),
		PendingToken: r.PostFormValue("pending_image"),
	}

	file, header, err := r.FormFile("image")
	switch {
	case errors.Is(err, http.ErrMissingFile), errors.Is(err, http.ErrNotMultipart):
		return form, h.editor.Preview(r.Context(), owner, form.PendingToken), nil
	case err != nil:
		return form, "", err
	}
	defer func() { _ = file.Close() }()

	token, preview, err := h.editor.StageUpload(r.Context(), owner, file, header.Filename)
	if err != nil {
		form.PendingToken = ""
		return form, "", err
	}
	form.PendingToken = token
	return form, preview, nil
}

// renderFormError re-renders the form with the error. The staged image stays
// selected so the visitor does not have to choose it again.
func (h *MaterialsHandler) renderFormError(w http.ResponseWriter, r *http.Request, title string, view MaterialFormView, err error, fallback string) {
	data := render.TemplateData{
		Title:     title,
		Data:      view,
		Flash:     service.Message(err, fallback),
		FlashType: render.FlashError,
	}
	status := failureStatus(err)
	var verrs validation.Errors
	if errors.As(err, &verrs) {
		data.Errors = verrs
	}
	if status >= http.StatusInternalServerError {
		slog.Warn("material form submission failed", "category", model.EventCategoryAPI, "error", err)
	}
	renderPageStatus(w, r, h.renderer, status, "material_form", data)
}

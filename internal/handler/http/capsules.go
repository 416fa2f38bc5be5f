// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package http

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/MKhiriev/golden-glimpses/internal/logger"
	"github.com/MKhiriev/golden-glimpses/internal/utils"
	"github.com/MKhiriev/golden-glimpses/internal/visibility"
	"github.com/MKhiriev/golden-glimpses/models"
	"github.com/go-chi/chi/v5"
)

func (h *Handler) createCapsule(w http.ResponseWriter, r *http.Request) {
	var req models.CreateCapsuleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, r, "*Handler.createCapsule", fmt.Errorf("%w: %w", ErrInvalidJSON, err))
		return
	}

	in, err := toCreateCapsuleInput(req, requesterID(r))
	if err != nil {
		writeError(w, r, "*Handler.createCapsule", err)
		return
	}

	capsule, err := h.services.CapsuleService.Create(r.Context(), in)
	if err != nil {
		writeError(w, r, "*Handler.createCapsule", err)
		return
	}

	logger.FromRequest(r).Info().
		Str("capsule_id", capsule.ID).
		Int("media", len(capsule.Media)).
		Msg("capsule created")

	h.writeCapsule(w, capsule, http.StatusCreated)
}

func (h *Handler) getCapsule(w http.ResponseWriter, r *http.Request) {
	view, err := h.services.CapsuleService.Get(r.Context(), chi.URLParam(r, "id"), requesterID(r))
	if err != nil {
		writeError(w, r, "*Handler.getCapsule", err)
		return
	}

	utils.WriteJSON(w, capsuleResponse(view), http.StatusOK)
}

func (h *Handler) listCapsules(w http.ResponseWriter, r *http.Request) {
	views, err := h.services.CapsuleService.ListByOwner(r.Context(), requesterID(r))
	if err != nil {
		writeError(w, r, "*Handler.listCapsules", err)
		return
	}

	utils.WriteJSON(w, models.CapsuleListResponse{
		Capsules: capsuleResponses(views),
		Count:    len(views),
	}, http.StatusOK)
}

func (h *Handler) exploreCapsules(w http.ResponseWriter, r *http.Request) {
	query, err := exploreQueryFromRequest(r)
	if err != nil {
		writeError(w, r, "*Handler.exploreCapsules", err)
		return
	}

	page, err := h.services.CapsuleService.ListPublic(r.Context(), query)
	if err != nil {
		writeError(w, r, "*Handler.exploreCapsules", err)
		return
	}

	utils.WriteJSON(w, models.ExploreResponse{
		Capsules:   capsuleResponses(page.Capsules),
		Pagination: page.Pagination,
	}, http.StatusOK)
}

func (h *Handler) addMedia(w http.ResponseWriter, r *http.Request) {
	var req models.AddMediaRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, r, "*Handler.addMedia", fmt.Errorf("%w: %w", ErrInvalidJSON, err))
		return
	}

	items := mediaItemsFromRequest(r.Context(), req)

	capsule, err := h.services.CapsuleService.AddMedia(r.Context(), chi.URLParam(r, "id"), requesterID(r), items...)
	if err != nil {
		writeError(w, r, "*Handler.addMedia", err)
		return
	}

	h.writeCapsule(w, capsule, http.StatusOK)
}

func (h *Handler) uploadCapsuleMedia(w http.ResponseWriter, r *http.Request) {
	upload, cleanup, err := h.readUpload(w, r)
	if err != nil {
		writeError(w, r, "*Handler.uploadCapsuleMedia", err)
		return
	}
	defer cleanup()

	capsule, err := h.services.CapsuleService.AttachUpload(r.Context(), chi.URLParam(r, "id"), requesterID(r), upload)
	if err != nil {
		writeError(w, r, "*Handler.uploadCapsuleMedia", err)
		return
	}

	h.writeCapsule(w, capsule, http.StatusOK)
}

func (h *Handler) sealCapsule(w http.ResponseWriter, r *http.Request) {
	capsule, err := h.services.CapsuleService.Seal(r.Context(), chi.URLParam(r, "id"), requesterID(r))
	if err != nil {
		writeError(w, r, "*Handler.sealCapsule", err)
		return
	}

	h.writeCapsule(w, capsule, http.StatusOK)
}

func (h *Handler) deleteCapsule(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	if err := h.services.CapsuleService.Delete(r.Context(), id, requesterID(r)); err != nil {
		writeError(w, r, "*Handler.deleteCapsule", err)
		return
	}

	logger.FromRequest(r).Info().Str("capsule_id", id).Msg("capsule deleted")
	utils.WriteJSON(w, map[string]string{"id": id, "status": "deleted"}, http.StatusOK)
}

// writeCapsule renders a capsule returned by a write, evaluated now.
func (h *Handler) writeCapsule(w http.ResponseWriter, capsule models.Capsule, status int) {
	view := models.CapsuleView{
		Capsule:    capsule,
		Evaluation: visibility.Evaluate(capsule, h.now()),
	}
	utils.WriteJSON(w, capsuleResponse(view), status)
}

package api

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"first-nation/registry/internal/models/dtos"
)

// CreateMemberHandler handles POST /api/v1/members
func (h *Handlers) CreateMemberHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req dtos.CreateMemberRequest
		decoder := json.NewDecoder(r.Body)
		decoder.DisallowUnknownFields()
		if err := decoder.Decode(&req); err != nil {
			respondWithError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
			return
		}

		member, err := h.deps.Services.Member.CreateMember(r.Context(), &req)
		if err != nil {
			respondWithServiceError(w, err)
			return
		}

		respondWithSuccess(w, http.StatusCreated, member)
	}
}

// GetMemberHandler handles GET /api/v1/members/{id}
func (h *Handlers) GetMemberHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")

		member, err := h.deps.Services.Member.GetMember(r.Context(), id)
		if err != nil {
			respondWithServiceError(w, err)
			return
		}

		respondWithSuccess(w, http.StatusOK, member)
	}
}

// DeleteMemberHandler handles DELETE /api/v1/members/{id}
func (h *Handlers) DeleteMemberHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")

		if err := h.deps.Services.Member.DeleteMember(r.Context(), id); err != nil {
			respondWithServiceError(w, err)
			return
		}

		resp := map[string]string{"deleted": id}
		respondWithSuccess(w, http.StatusOK, &resp)
	}
}

// PatchMemberHandler handles PATCH /api/v1/members/{id}
func (h *Handlers) PatchMemberHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")

		var patch dtos.MemberPatch
		decoder := json.NewDecoder(r.Body)
		decoder.DisallowUnknownFields()
		if err := decoder.Decode(&patch); err != nil {
			respondWithError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
			return
		}

		if err := h.deps.Services.Member.PatchMember(r.Context(), id, &patch); err != nil {
			respondWithServiceError(w, err)
			return
		}

		member, err := h.deps.Services.Member.GetMember(r.Context(), id)
		if err != nil {
			respondWithServiceError(w, err)
			return
		}
		respondWithSuccess(w, http.StatusOK, member)
	}
}

// PatchProfileHandler handles PATCH /api/v1/members/{id}/profile. Unknown
// keys are rejected so sync-engine-owned fields cannot be reached from here.
func (h *Handlers) PatchProfileHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")

		var patch dtos.ProfilePatch
		decoder := json.NewDecoder(r.Body)
		decoder.DisallowUnknownFields()
		if err := decoder.Decode(&patch); err != nil {
			respondWithError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
			return
		}

		if err := h.deps.Services.Member.PatchProfile(r.Context(), id, &patch); err != nil {
			respondWithServiceError(w, err)
			return
		}

		resp := map[string]string{"updated": id}
		respondWithSuccess(w, http.StatusOK, &resp)
	}
}

// AddBarcodesHandler handles POST /api/v1/barcodes
func (h *Handlers) AddBarcodesHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req dtos.AddBarcodesRequest
		decoder := json.NewDecoder(r.Body)
		decoder.DisallowUnknownFields()
		if err := decoder.Decode(&req); err != nil {
			respondWithError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
			return
		}
		if len(req.Codes) == 0 {
			respondWithError(w, http.StatusBadRequest, "codes is required")
			return
		}

		added, err := h.deps.Repo.Barcodes.AddInventory(r.Context(), req.Codes)
		if err != nil {
			respondWithServiceError(w, err)
			return
		}

		respondWithSuccess(w, http.StatusCreated, &added)
	}
}

package handlers

import (
	"net/http"

	"github.com/camden-git/campaidbackend/database"
)

type CampHandler struct {
	DB *database.DB
}

func (h *CampHandler) CreateCamp(w http.ResponseWriter, r *http.Request) {
	var req campNew
	if _, ok := bindPayload(w, r, &req); !ok {
		return
	}

	camp, err := database.CreateCamp(r.Context(), h.DB, req.fields())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{"camp": camp})
}

func (h *CampHandler) ListCamps(w http.ResponseWriter, r *http.Request) {
	camps, err := database.ListCamps(r.Context(), h.DB)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if camps == nil {
		camps = []database.Camp{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"camps": camps})
}

func (h *CampHandler) GetCamp(w http.ResponseWriter, r *http.Request) {
	ids, ok := pathIDs(w, r, "campID")
	if !ok {
		return
	}

	camp, err := database.GetCamp(r.Context(), h.DB, ids[0])
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"camp": camp})
}

func (h *CampHandler) UpdateCamp(w http.ResponseWriter, r *http.Request) {
	ids, ok := pathIDs(w, r, "campID")
	if !ok {
		return
	}
	var req campUpdate
	order, ok := bindPayload(w, r, &req)
	if !ok {
		return
	}
	patch, err := req.patch(order)
	if err != nil {
		WriteAPIError(w, http.StatusBadRequest, CodeBadRequest, err.Error())
		return
	}

	camp, err := database.UpdateCamp(r.Context(), h.DB, ids[0], patch)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"camp": camp})
}

func (h *CampHandler) DeleteCamp(w http.ResponseWriter, r *http.Request) {
	ids, ok := pathIDs(w, r, "campID")
	if !ok {
		return
	}

	if err := database.DeleteCamp(r.Context(), h.DB, ids[0]); err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"deleted": ids[0]})
}

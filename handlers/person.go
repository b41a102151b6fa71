package handlers

import (
	"net/http"

	"github.com/camden-git/campaidbackend/database"
)

type PersonHandler struct {
	DB *database.DB
}

func (ph *PersonHandler) CreatePerson(w http.ResponseWriter, r *http.Request) {
	var req personNew
	if _, ok := bindPayload(w, r, &req); !ok {
		return
	}
	fields, err := req.fields()
	if err != nil {
		WriteAPIError(w, http.StatusBadRequest, CodeBadRequest, err.Error())
		return
	}

	person, err := database.CreatePerson(r.Context(), ph.DB, fields)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{"person": person})
}

func (ph *PersonHandler) ListPeople(w http.ResponseWriter, r *http.Request) {
	people, err := database.ListPeople(r.Context(), ph.DB)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if people == nil {
		people = []database.Person{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"people": people})
}

func (ph *PersonHandler) GetPerson(w http.ResponseWriter, r *http.Request) {
	ids, ok := pathIDs(w, r, "personID")
	if !ok {
		return
	}

	person, err := database.GetPerson(r.Context(), ph.DB, ids[0])
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"person": person})
}

func (ph *PersonHandler) UpdatePerson(w http.ResponseWriter, r *http.Request) {
	ids, ok := pathIDs(w, r, "personID")
	if !ok {
		return
	}
	var req personUpdate
	order, ok := bindPayload(w, r, &req)
	if !ok {
		return
	}
	patch, err := req.patch(order)
	if err != nil {
		WriteAPIError(w, http.StatusBadRequest, CodeBadRequest, err.Error())
		return
	}

	person, err := database.UpdatePerson(r.Context(), ph.DB, ids[0], patch)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"person": person})
}

func (ph *PersonHandler) DeletePerson(w http.ResponseWriter, r *http.Request) {
	ids, ok := pathIDs(w, r, "personID")
	if !ok {
		return
	}

	if err := database.DeletePerson(r.Context(), ph.DB, ids[0]); err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"deleted": ids[0]})
}

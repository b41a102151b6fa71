package handlers

import (
	"net/http"

	"github.com/camden-git/campaidbackend/database"
)

type DonationHandler struct {
	DB *database.DB
}

func (h *DonationHandler) CreateDonation(w http.ResponseWriter, r *http.Request) {
	var req donationNew
	if _, ok := bindPayload(w, r, &req); !ok {
		return
	}
	fields, err := req.fields()
	if err != nil {
		WriteAPIError(w, http.StatusBadRequest, CodeBadRequest, err.Error())
		return
	}

	donation, err := database.CreateDonation(r.Context(), h.DB, fields)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{"donation": donation})
}

func (h *DonationHandler) ListDonations(w http.ResponseWriter, r *http.Request) {
	donations, err := database.ListDonations(r.Context(), h.DB)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if donations == nil {
		donations = []database.Donation{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"donations": donations})
}

func (h *DonationHandler) GetDonation(w http.ResponseWriter, r *http.Request) {
	ids, ok := pathIDs(w, r, "donationID")
	if !ok {
		return
	}

	donation, err := database.GetDonation(r.Context(), h.DB, ids[0])
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"donation": donation})
}

func (h *DonationHandler) UpdateDonation(w http.ResponseWriter, r *http.Request) {
	ids, ok := pathIDs(w, r, "donationID")
	if !ok {
		return
	}
	var req donationUpdate
	order, ok := bindPayload(w, r, &req)
	if !ok {
		return
	}
	patch, err := req.patch(order)
	if err != nil {
		WriteAPIError(w, http.StatusBadRequest, CodeBadRequest, err.Error())
		return
	}

	donation, err := database.UpdateDonation(r.Context(), h.DB, ids[0], patch)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"donation": donation})
}

func (h *DonationHandler) DeleteDonation(w http.ResponseWriter, r *http.Request) {
	ids, ok := pathIDs(w, r, "donationID")
	if !ok {
		return
	}

	if err := database.DeleteDonation(r.Context(), h.DB, ids[0]); err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"deleted": ids[0]})
}

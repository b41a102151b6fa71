package handlers

import (
	"net/http"

	"github.com/camden-git/campaidbackend/database"
)

type FamilyHandler struct {
	DB *database.DB
}

func (h *FamilyHandler) CreateFamily(w http.ResponseWriter, r *http.Request) {
	var req familyNew
	if _, ok := bindPayload(w, r, &req); !ok {
		return
	}

	family, err := database.CreateFamily(r.Context(), h.DB, req.fields())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{"family": family})
}

func (h *FamilyHandler) ListFamilies(w http.ResponseWriter, r *http.Request) {
	families, err := database.ListFamilies(r.Context(), h.DB)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if families == nil {
		families = []database.Family{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"families": families})
}

func (h *FamilyHandler) GetFamily(w http.ResponseWriter, r *http.Request) {
	ids, ok := pathIDs(w, r, "familyID")
	if !ok {
		return
	}

	family, err := database.GetFamilyDetail(r.Context(), h.DB, ids[0])
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"family": family})
}

func (h *FamilyHandler) UpdateFamily(w http.ResponseWriter, r *http.Request) {
	ids, ok := pathIDs(w, r, "familyID")
	if !ok {
		return
	}
	var req familyUpdate
	order, ok := bindPayload(w, r, &req)
	if !ok {
		return
	}
	patch, err := req.patch(order)
	if err != nil {
		WriteAPIError(w, http.StatusBadRequest, CodeBadRequest, err.Error())
		return
	}

	family, err := database.UpdateFamily(r.Context(), h.DB, ids[0], patch)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"family": family})
}

func (h *FamilyHandler) DeleteFamily(w http.ResponseWriter, r *http.Request) {
	ids, ok := pathIDs(w, r, "familyID")
	if !ok {
		return
	}

	if err := database.DeleteFamily(r.Context(), h.DB, ids[0]); err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"deleted": ids[0]})
}

// ListUnassignedPeople serves people who are not yet in any household.
func (h *FamilyHandler) ListUnassignedPeople(w http.ResponseWriter, r *http.Request) {
	people, err := database.ListUnassignedPeople(r.Context(), h.DB)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if people == nil {
		people = []database.Person{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"people": people})
}

func (h *FamilyHandler) AddHouseholdMember(w http.ResponseWriter, r *http.Request) {
	ids, ok := pathIDs(w, r, "familyID", "personID")
	if !ok {
		return
	}

	household, err := database.AddHouseholdMember(r.Context(), h.DB, ids[0], ids[1])
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{"household": household})
}

func (h *FamilyHandler) ListHousehold(w http.ResponseWriter, r *http.Request) {
	ids, ok := pathIDs(w, r, "familyID")
	if !ok {
		return
	}

	household, err := database.ListHousehold(r.Context(), h.DB, ids[0])
	if err != nil {
		writeError(w, r, err)
		return
	}
	if household == nil {
		household = []database.Household{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"household": household})
}

// ListNewDonations serves the campaigns the family is not enrolled in yet.
func (h *FamilyHandler) ListNewDonations(w http.ResponseWriter, r *http.Request) {
	ids, ok := pathIDs(w, r, "familyID")
	if !ok {
		return
	}

	donations, err := database.ListNewDonationsForFamily(r.Context(), h.DB, ids[0])
	if err != nil {
		writeError(w, r, err)
		return
	}
	if donations == nil {
		donations = []database.Donation{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"donations": donations})
}

func (h *FamilyHandler) CreateDistribution(w http.ResponseWriter, r *http.Request) {
	ids, ok := pathIDs(w, r, "familyID", "donationID")
	if !ok {
		return
	}

	dist, err := database.CreateDistribution(r.Context(), h.DB, ids[1], ids[0])
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{"distribution": dist})
}

// MarkDistributionReceived records that the family received the donation.
func (h *FamilyHandler) MarkDistributionReceived(w http.ResponseWriter, r *http.Request) {
	ids, ok := pathIDs(w, r, "familyID", "donationID")
	if !ok {
		return
	}

	dist, err := database.MarkDistributionReceived(r.Context(), h.DB, ids[1], ids[0])
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"distribution": dist})
}

func (h *FamilyHandler) DeleteDistribution(w http.ResponseWriter, r *http.Request) {
	ids, ok := pathIDs(w, r, "familyID", "donationID")
	if !ok {
		return
	}

	if err := database.DeleteDistribution(r.Context(), h.DB, ids[0], ids[1]); err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"deleted": map[string]int64{"family_id": ids[0], "donation_id": ids[1]}})
}

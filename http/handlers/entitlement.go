package handlers

import (
	"net/http"

	"course-payments/services"
	"course-payments/utils"
)

// GetEntitlement handles GET /entitlement?uid=...&courseId=... and returns the
// stored record, or 404 when the key was never paid.
func GetEntitlement(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		utils.SendError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	uid := r.URL.Query().Get("uid")
	courseID := r.URL.Query().Get("courseId")
	if uid == "" || courseID == "" {
		utils.SendError(w, http.StatusBadRequest, "uid and courseId are required")
		return
	}

	ent, err := entitlementStore.Get(r.Context(), uid, courseID)
	if err != nil {
		utils.SendAppError(w, err)
		return
	}
	if ent == nil {
		utils.SendError(w, http.StatusNotFound, "entitlement not found")
		return
	}

	utils.SendJSON(w, http.StatusOK, ent)
}

// ExportEntitlements handles GET /entitlements/export and streams an xlsx
// report of all entitlement records.
func ExportEntitlements(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		utils.SendError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	report, err := services.BuildEntitlementReport(r.Context(), entitlementStore)
	if err != nil {
		utils.SendAppError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", `attachment; filename="entitlements.xlsx"`)
	w.WriteHeader(http.StatusOK)
	w.Write(report)
}

package handlers

import (
	"net/http"

	"course-payments/utils"
)

// Health handles GET /health
func Health(w http.ResponseWriter, r *http.Request) {
	utils.SendJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

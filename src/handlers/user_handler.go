package handlers

import (
	"encoding/json"
	"log"
	"net/http"

	"etax-gateway/src/models"
	"etax-gateway/src/taxcore"
)

func GetUser(core *taxcore.Client) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := r.Context().Value("user_id").(int64)
		token := r.Context().Value("token").(string)

		user, err := core.GetUser(r.Context(), token)
		if err != nil {
			log.Printf("ERROR: Failed to get user profile - user_id: %d: %v", userID, err)
			writeUpstreamError(w, err, "user not found")
			return
		}

		writeRawJSON(w, http.StatusOK, user)
	}
}

func UpdateProfile(core *taxcore.Client) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := r.Context().Value("user_id").(int64)
		token := r.Context().Value("token").(string)

		var req models.ProfileUpdateRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			log.Printf("ERROR: Failed to decode update profile request body: %v", err)
			http.Error(w, "invalid request", http.StatusBadRequest)
			return
		}

		resp, err := core.UpdateProfile(r.Context(), token, req)
		if err != nil {
			log.Printf("ERROR: Failed to update profile - user_id: %d: %v", userID, err)
			writeUpstreamError(w, err, "profile update failed")
			return
		}

		log.Printf("INFO: Profile updated - User: %d", userID)
		writeRawJSON(w, http.StatusOK, resp)
	}
}

// IdentityVerification forwards the identity-document upload as-is. The
// verification decision is made upstream; this gateway never inspects the
// documents.
func IdentityVerification(core *taxcore.Client) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := r.Context().Value("user_id").(int64)
		token := r.Context().Value("token").(string)

		resp, err := core.ProxyIdentityVerification(r.Context(), token, r.Header.Get("Content-Type"), r.Body)
		if err != nil {
			log.Printf("ERROR: Identity verification upload failed - user_id: %d: %v", userID, err)
			writeUpstreamError(w, err, "identity verification failed")
			return
		}

		log.Printf("INFO: Identity documents submitted - User: %d", userID)
		writeRawJSON(w, http.StatusOK, resp)
	}
}

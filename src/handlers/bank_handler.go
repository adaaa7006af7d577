package handlers

import (
	"encoding/json"
	"log"
	"net/http"

	"etax-gateway/src/directory"
	"etax-gateway/src/linking"
	"etax-gateway/src/models"
	"etax-gateway/src/taxcore"
)

func GetBanks(provider *directory.Provider) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		token := r.Context().Value("token").(string)

		banks, err := provider.Banks(r.Context(), token)
		if err != nil {
			log.Printf("ERROR: Failed to fetch bank directory: %v", err)
			writeUpstreamError(w, err, "failed to load bank directory")
			return
		}

		writeJSON(w, http.StatusOK, banks)
	}
}

func GetLinkedAccounts(provider *directory.Provider) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := r.Context().Value("user_id").(int64)
		token := r.Context().Value("token").(string)

		accounts, err := provider.LinkedAccounts(r.Context(), token, userID)
		if err != nil {
			log.Printf("ERROR: Failed to fetch linked accounts for user %d: %v", userID, err)
			writeUpstreamError(w, err, "failed to load linked accounts")
			return
		}

		views := make([]models.LinkedAccountView, 0, len(accounts))
		for _, account := range accounts {
			views = append(views, models.NewLinkedAccountView(account))
		}

		writeJSON(w, http.StatusOK, views)
	}
}

// AddBank is the one-shot linking endpoint for clients that assemble the
// payload themselves instead of walking a link-flow session.
func AddBank(core *taxcore.Client, provider *directory.Provider) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := r.Context().Value("user_id").(int64)
		token := r.Context().Value("token").(string)

		var req models.LinkRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			log.Printf("ERROR: Failed to decode add bank request body: %v", err)
			http.Error(w, "invalid request", http.StatusBadRequest)
			return
		}

		errs := linking.ValidateRequest(req)
		if errs == nil {
			banks, err := provider.Banks(r.Context(), token)
			if err != nil {
				log.Printf("ERROR: Failed to fetch bank directory for add bank - user_id: %d: %v", userID, err)
				writeUpstreamError(w, err, "failed to load bank directory")
				return
			}
			if !directory.Contains(banks, req.BankID) {
				errs = linking.FieldErrors{"bank_id": "Ngân hàng không còn được hỗ trợ"}
			}
		}
		if errs != nil {
			writeJSON(w, http.StatusUnprocessableEntity, map[string]interface{}{
				"message": linking.FallbackErrorMessage,
				"errors":  errs,
			})
			return
		}

		result, err := core.AddBank(r.Context(), token, req)
		if err != nil {
			log.Printf("ERROR: Add bank failed - user_id: %d, bank: %s: %v", userID, req.BankID, err)
			writeUpstreamError(w, err, linking.FallbackErrorMessage)
			return
		}

		provider.InvalidateLinkedAccounts(userID)
		log.Printf("INFO: Bank link submitted - User: %d, Bank: %s", userID, req.BankID)
		writeJSON(w, http.StatusCreated, result)
	}
}

func GetQrBank(core *taxcore.Client) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := r.Context().Value("user_id").(int64)
		token := r.Context().Value("token").(string)

		resp, err := core.GetQrBank(r.Context(), token)
		if err != nil {
			log.Printf("ERROR: Failed to fetch QR bank data for user %d: %v", userID, err)
			writeUpstreamError(w, err, "failed to load QR data")
			return
		}

		writeRawJSON(w, http.StatusOK, resp)
	}
}

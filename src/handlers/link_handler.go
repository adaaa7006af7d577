package handlers

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"

	"etax-gateway/src/directory"
	"etax-gateway/src/linking"
	"etax-gateway/src/models"
)

// StartLinkSession opens a link-flow session and returns it together with
// the bank directory, grouped for display. A directory failure is surfaced
// explicitly instead of an empty grid.
func StartLinkSession(store *linking.Store, provider *directory.Provider) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := r.Context().Value("user_id").(int64)
		token := r.Context().Value("token").(string)

		banks, err := provider.Banks(r.Context(), token)
		if err != nil {
			log.Printf("ERROR: Failed to fetch bank directory for link session - user_id: %d: %v", userID, err)
			writeUpstreamError(w, err, "failed to load bank directory")
			return
		}

		sess := store.Create(userID)
		recommended, other := directory.Partition(banks)

		log.Printf("INFO: Link session started - User: %d, Session: %s", userID, sess.ID)
		writeJSON(w, http.StatusCreated, map[string]interface{}{
			"session": sess.View(),
			"banks": map[string][]models.Bank{
				"recommended": recommended,
				"other":       other,
			},
		})
	}
}

func GetLinkSession(store *linking.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess, ok := sessionFromRequest(store, r)
		if !ok {
			http.Error(w, "session not found", http.StatusNotFound)
			return
		}
		writeJSON(w, http.StatusOK, sess.View())
	}
}

func SelectLinkBank(store *linking.Store, provider *directory.Provider) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		token := r.Context().Value("token").(string)

		sess, ok := sessionFromRequest(store, r)
		if !ok {
			http.Error(w, "session not found", http.StatusNotFound)
			return
		}

		var req struct {
			BankID string `json:"bank_id"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			log.Printf("ERROR: Failed to decode select bank request body: %v", err)
			http.Error(w, "invalid request", http.StatusBadRequest)
			return
		}

		banks, err := provider.Banks(r.Context(), token)
		if err != nil {
			log.Printf("ERROR: Failed to fetch bank directory for bank selection: %v", err)
			writeUpstreamError(w, err, "failed to load bank directory")
			return
		}
		if !directory.Contains(banks, req.BankID) {
			writeFlowError(w, &linking.ValidationError{
				Fields: linking.FieldErrors{"bank_id": "Ngân hàng không còn được hỗ trợ"},
			})
			return
		}

		if err := sess.SelectBank(req.BankID); err != nil {
			writeFlowError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, sess.View())
	}
}

// ReselectLinkBank is the "choose a different bank" action; it drops the
// in-progress field values.
func ReselectLinkBank(store *linking.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess, ok := sessionFromRequest(store, r)
		if !ok {
			http.Error(w, "session not found", http.StatusNotFound)
			return
		}

		if err := sess.Reselect(); err != nil {
			writeFlowError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, sess.View())
	}
}

func UpdateLinkDraft(store *linking.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess, ok := sessionFromRequest(store, r)
		if !ok {
			http.Error(w, "session not found", http.StatusNotFound)
			return
		}

		var update linking.DraftUpdate
		if err := json.NewDecoder(r.Body).Decode(&update); err != nil {
			log.Printf("ERROR: Failed to decode draft update request body: %v", err)
			http.Error(w, "invalid request", http.StatusBadRequest)
			return
		}

		if err := sess.UpdateDraft(update); err != nil {
			writeFlowError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, sess.View())
	}
}

func SubmitLink(store *linking.Store, coordinator *linking.Coordinator) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := r.Context().Value("user_id").(int64)
		token := r.Context().Value("token").(string)

		sess, ok := sessionFromRequest(store, r)
		if !ok {
			http.Error(w, "session not found", http.StatusNotFound)
			return
		}

		result, err := coordinator.Submit(r.Context(), token, sess)
		if err != nil {
			log.Printf("ERROR: Link submission failed - user_id: %d, session: %s: %v", userID, sess.ID, err)
			writeFlowError(w, err)
			return
		}

		log.Printf("INFO: Link submission accepted - User: %d, Session: %s", userID, sess.ID)
		writeJSON(w, http.StatusCreated, map[string]interface{}{
			"message": result.Message,
			"session": sess.View(),
		})
	}
}

func sessionFromRequest(store *linking.Store, r *http.Request) (*linking.Session, bool) {
	userID := r.Context().Value("user_id").(int64)
	sessionID := chi.URLParam(r, "session_id")
	return store.Get(sessionID, userID)
}

func writeFlowError(w http.ResponseWriter, err error) {
	var validation *linking.ValidationError
	if errors.As(err, &validation) {
		writeJSON(w, http.StatusUnprocessableEntity, map[string]interface{}{
			"message": "validation failed",
			"errors":  validation.Fields,
		})
		return
	}
	if errors.Is(err, linking.ErrSubmitInFlight) {
		writeJSON(w, http.StatusConflict, map[string]string{"message": "a submission is already in flight"})
		return
	}
	if errors.Is(err, linking.ErrInvalidTransition) {
		writeJSON(w, http.StatusConflict, map[string]string{"message": "action not allowed in current state"})
		return
	}
	writeUpstreamError(w, err, linking.UserMessage(err))
}

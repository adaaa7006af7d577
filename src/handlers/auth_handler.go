package handlers

import (
	"encoding/json"
	"log"
	"net/http"
	"strings"

	"etax-gateway/src/cache"
	"etax-gateway/src/models"
	"etax-gateway/src/taxcore"
	"etax-gateway/src/util"
)

func Register(core *taxcore.Client) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req models.RegisterRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			log.Printf("ERROR: Failed to decode register request body: %v", err)
			http.Error(w, "invalid request", http.StatusBadRequest)
			return
		}

		req.Username = strings.TrimSpace(req.Username)
		req.Phone = strings.TrimSpace(req.Phone)

		if !util.ValidatePhone(req.Phone) {
			log.Printf("ERROR: Phone validation failed during registration - Phone: %s", req.Phone)
			http.Error(w, "invalid phone number", http.StatusBadRequest)
			return
		}

		if !util.ValidateUsername(req.Username) {
			log.Printf("ERROR: Username validation failed during registration - Username: %s", req.Username)
			http.Error(w, "username must be between 2 and 50 characters", http.StatusBadRequest)
			return
		}

		if !util.ValidatePassword(req.Password) {
			log.Printf("ERROR: Password validation failed during registration - Username: %s", req.Username)
			http.Error(w, "password must be at least 8 characters with uppercase, lowercase and digit", http.StatusBadRequest)
			return
		}

		if req.Password != req.PasswordConfirmation {
			log.Printf("ERROR: Password confirmation mismatch during registration - Username: %s", req.Username)
			http.Error(w, "password confirmation does not match", http.StatusBadRequest)
			return
		}

		resp, err := core.Register(r.Context(), req)
		if err != nil {
			log.Printf("ERROR: Upstream registration failed for user %s: %v", req.Username, err)
			writeUpstreamError(w, err, "registration failed")
			return
		}

		log.Printf("INFO: Successful registration - User: %s", req.Username)
		writeRawJSON(w, http.StatusCreated, resp)
	}
}

func Login(core *taxcore.Client) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var credentials models.LoginRequest
		if err := json.NewDecoder(r.Body).Decode(&credentials); err != nil {
			log.Printf("ERROR: Failed to decode login request body: %v", err)
			http.Error(w, "invalid request", http.StatusBadRequest)
			return
		}

		if credentials.Username == "" || credentials.Password == "" {
			http.Error(w, "username and password are required", http.StatusBadRequest)
			return
		}

		resp, err := core.Login(r.Context(), credentials)
		if err != nil {
			log.Printf("ERROR: Upstream login failed for user %s: %v", credentials.Username, err)
			writeUpstreamError(w, err, "invalid credentials")
			return
		}

		log.Printf("INFO: Successful login - User: %s", credentials.Username)
		writeRawJSON(w, http.StatusOK, resp)
	}
}

func Logout(core *taxcore.Client) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := r.Context().Value("user_id").(int64)
		token := r.Context().Value("token").(string)

		if err := core.Logout(r.Context(), token); err != nil {
			log.Printf("ERROR: Upstream logout failed for user %d: %v", userID, err)
			writeUpstreamError(w, err, "logout failed")
			return
		}

		// The cached account lists were fetched with a token that is now
		// invalid upstream.
		cache.ClearAllLinkedAccountCaches()

		log.Printf("INFO: Successful logout - User: %d", userID)
		writeJSON(w, http.StatusOK, map[string]string{"message": "logged out"})
	}
}

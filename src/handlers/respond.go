package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"etax-gateway/src/taxcore"
)

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(payload)
}

func writeRawJSON(w http.ResponseWriter, status int, raw json.RawMessage) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	w.Write(raw)
}

// writeUpstreamError translates a taxcore error for the client: remote
// rejections keep their status and message, everything else (no response,
// undecodable body) becomes a 502 with the fallback message.
func writeUpstreamError(w http.ResponseWriter, err error, fallback string) {
	var remote *taxcore.RemoteError
	if errors.As(err, &remote) {
		message := remote.Message
		if message == "" {
			message = fallback
		}
		writeJSON(w, remote.StatusCode, map[string]string{"message": message})
		return
	}
	writeJSON(w, http.StatusBadGateway, map[string]string{"message": fallback})
}

package httpapi

import (
	"encoding/json"
	"net/http"
)

// Every JSON endpoint answers with the {code, data} / {code, message}
// envelope the client's network layer decodes. Business rejections keep
// HTTP 200 so the client classifies them as final, not retryable.
type envelope struct {
	Code    int         `json:"code"`
	Data    interface{} `json:"data,omitempty"`
	Message string      `json:"message,omitempty"`
}

func respondData(w http.ResponseWriter, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(envelope{Code: 200, Data: data})
}

func respondBusinessError(w http.ResponseWriter, code int, message string) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(envelope{Code: code, Message: message})
}

func respondServerError(w http.ResponseWriter, err error) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusInternalServerError)
	json.NewEncoder(w).Encode(envelope{Code: 500, Message: err.Error()})
}

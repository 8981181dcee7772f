package render

import (
	"encoding/json"
	"io"
	"net/http"
)

type errResponse struct {
	Error string `json:"error"`
}

func ChiJSON(w http.ResponseWriter, r *http.Request, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	_ = enc.Encode(v)
}

func ChiErr(w http.ResponseWriter, r *http.Request, status int, err error) {
	msg := "unknown error"
	if err != nil {
		msg = err.Error()
	}
	ChiJSON(w, r, status, errResponse{Error: msg})
}

func ChiText(w http.ResponseWriter, r *http.Request, status int, body string) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(status)
	_, _ = io.WriteString(w, body)
}

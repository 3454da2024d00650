package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/dmitrijs2005/devconnector/internal/common"
	"github.com/dmitrijs2005/devconnector/internal/server/validation"
)

const (
	msgServerError  = "Server error"
	msgInvalidBody  = "Invalid request body"
	msgNoProfile    = "There is no profile for this user"
	msgNoToken      = "No token, authorization denied"
	msgInvalidToken = "Token is not valid"
)

type msgBody struct {
	Msg string `json:"msg"`
}

type errorsBody struct {
	Errors validation.Errors `json:"errors"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeMsg(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, msgBody{Msg: msg})
}

// errorMapping is how a sentinel renders. List bodies use {errors:[{msg}]},
// the rest {msg}.
type errorMapping struct {
	target error
	status int
	msg    string
	list   bool
}

var errorMappings = []errorMapping{
	{common.ErrMissingToken, http.StatusUnauthorized, msgNoToken, false},
	{common.ErrTokenExpired, http.StatusUnauthorized, msgInvalidToken, false},
	{common.ErrInvalidToken, http.StatusUnauthorized, msgInvalidToken, false},
	{common.ErrInvalidCredentials, http.StatusBadRequest, "Invalid credentials", true},
	{common.ErrDuplicateEmail, http.StatusBadRequest, "User already exists", true},
	{common.ErrForbidden, http.StatusUnauthorized, "User not authorized", false},
	{common.ErrUserNotFound, http.StatusNotFound, "User not found", false},
	{common.ErrProfileNotFound, http.StatusBadRequest, msgNoProfile, false},
	{common.ErrEntryNotFound, http.StatusNotFound, "Entry not found", false},
	{common.ErrPostNotFound, http.StatusNotFound, "Post not found", false},
	{common.ErrAlreadyLiked, http.StatusBadRequest, "Post already liked", false},
	{common.ErrNotLiked, http.StatusBadRequest, "Post has not yet been liked", false},
	{common.ErrUpstream, http.StatusNotFound, "No Github profile found", false},
}

// override replaces the message of a mapped sentinel for one route.
type override struct {
	target error
	msg    string
}

// writeError renders err per errorMappings. Anything unmapped is a 500 with
// the cause logged and hidden from the client.
func (s *HTTPServer) writeError(w http.ResponseWriter, r *http.Request, err error, overrides ...override) {
	var verrs validation.Errors
	if errors.As(err, &verrs) {
		writeJSON(w, http.StatusBadRequest, errorsBody{Errors: verrs})
		return
	}

	for _, m := range errorMappings {
		if !errors.Is(err, m.target) {
			continue
		}
		msg := m.msg
		for _, o := range overrides {
			if o.target == m.target {
				msg = o.msg
			}
		}
		if m.list {
			writeJSON(w, m.status, errorsBody{Errors: validation.New(msg)})
		} else {
			writeMsg(w, m.status, msg)
		}
		return
	}

	s.logger.Error(r.Context(), "request failed", "method", r.Method, "path", r.URL.Path, "error", err.Error())
	writeMsg(w, http.StatusInternalServerError, msgServerError)
}

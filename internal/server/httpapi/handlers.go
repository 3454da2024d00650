package httpapi

import (
	"net/http"

	"github.com/dmitrijs2005/devconnector/internal/common"
	"github.com/gorilla/mux"
)

type tokenResponse struct {
	Token string `json:"token"`
}

func (s *HTTPServer) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte("API running"))
}

func (s *HTTPServer) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := s.decode(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}

	token, err := s.users.Register(r.Context(), req.Name, req.Email, req.Password)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	s.logger.Info(r.Context(), "Registered", "email", req.Email)
	writeJSON(w, http.StatusOK, tokenResponse{Token: token})
}

func (s *HTTPServer) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := s.decode(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}

	token, err := s.users.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, tokenResponse{Token: token})
}

func (s *HTTPServer) handleAuthUser(w http.ResponseWriter, r *http.Request) {
	userID, _ := UserIDFromContext(r.Context())

	user, err := s.users.GetAuthUser(r.Context(), userID)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, user)
}

func (s *HTTPServer) handleDeleteAccount(w http.ResponseWriter, r *http.Request) {
	userID, _ := UserIDFromContext(r.Context())

	if err := s.users.DeleteAccount(r.Context(), userID); err != nil {
		s.writeError(w, r, err)
		return
	}

	s.logger.Info(r.Context(), "Account deleted", "user", userID)
	writeMsg(w, http.StatusOK, "User deleted")
}

func (s *HTTPServer) handleListProfiles(w http.ResponseWriter, r *http.Request) {
	list, err := s.profiles.List(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, list)
}

func (s *HTTPServer) handleMyProfile(w http.ResponseWriter, r *http.Request) {
	userID, _ := UserIDFromContext(r.Context())

	p, err := s.profiles.Me(r.Context(), userID)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

func (s *HTTPServer) handleProfileByUser(w http.ResponseWriter, r *http.Request) {
	p, err := s.profiles.ByUser(r.Context(), mux.Vars(r)["user_id"])
	if err != nil {
		s.writeError(w, r, err, override{common.ErrProfileNotFound, "Profile not found"})
		return
	}
	writeJSON(w, http.StatusOK, p)
}

func (s *HTTPServer) handleUpsertProfile(w http.ResponseWriter, r *http.Request) {
	userID, _ := UserIDFromContext(r.Context())

	var req profileRequest
	if err := s.decode(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}

	fields := req.fields()
	if err := req.checkSkills(fields); err != nil {
		s.writeError(w, r, err)
		return
	}

	p, err := s.profiles.Upsert(r.Context(), userID, fields)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

func (s *HTTPServer) handleAddExperience(w http.ResponseWriter, r *http.Request) {
	userID, _ := UserIDFromContext(r.Context())

	var req experienceRequest
	if err := s.decode(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}

	p, err := s.profiles.AddExperience(r.Context(), userID, req.entry())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

func (s *HTTPServer) handleRemoveExperience(w http.ResponseWriter, r *http.Request) {
	userID, _ := UserIDFromContext(r.Context())

	p, err := s.profiles.RemoveExperience(r.Context(), userID, mux.Vars(r)["exp_id"])
	if err != nil {
		s.writeError(w, r, err, override{common.ErrEntryNotFound, "Experience not found"})
		return
	}
	writeJSON(w, http.StatusOK, p)
}

func (s *HTTPServer) handleAddEducation(w http.ResponseWriter, r *http.Request) {
	userID, _ := UserIDFromContext(r.Context())

	var req educationRequest
	if err := s.decode(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}

	p, err := s.profiles.AddEducation(r.Context(), userID, req.entry())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

func (s *HTTPServer) handleRemoveEducation(w http.ResponseWriter, r *http.Request) {
	userID, _ := UserIDFromContext(r.Context())

	p, err := s.profiles.RemoveEducation(r.Context(), userID, mux.Vars(r)["edu_id"])
	if err != nil {
		s.writeError(w, r, err, override{common.ErrEntryNotFound, "Education not found"})
		return
	}
	writeJSON(w, http.StatusOK, p)
}

func (s *HTTPServer) handleGitHubRepos(w http.ResponseWriter, r *http.Request) {
	repos, err := s.profiles.GitHubRepos(r.Context(), mux.Vars(r)["username"])
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, repos)
}

func (s *HTTPServer) handleCreatePost(w http.ResponseWriter, r *http.Request) {
	userID, _ := UserIDFromContext(r.Context())

	var req postRequest
	if err := s.decode(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}

	post, err := s.posts.Create(r.Context(), userID, req.Text)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, post)
}

func (s *HTTPServer) handleListPosts(w http.ResponseWriter, r *http.Request) {
	list, err := s.posts.List(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, list)
}

func (s *HTTPServer) handleGetPost(w http.ResponseWriter, r *http.Request) {
	post, err := s.posts.Get(r.Context(), mux.Vars(r)["post_id"])
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, post)
}

func (s *HTTPServer) handleDeletePost(w http.ResponseWriter, r *http.Request) {
	userID, _ := UserIDFromContext(r.Context())

	if err := s.posts.Delete(r.Context(), userID, mux.Vars(r)["post_id"]); err != nil {
		s.writeError(w, r, err)
		return
	}
	writeMsg(w, http.StatusOK, "Post removed")
}

func (s *HTTPServer) handleLikePost(w http.ResponseWriter, r *http.Request) {
	userID, _ := UserIDFromContext(r.Context())

	likes, err := s.posts.Like(r.Context(), userID, mux.Vars(r)["post_id"])
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, likes)
}

func (s *HTTPServer) handleUnlikePost(w http.ResponseWriter, r *http.Request) {
	userID, _ := UserIDFromContext(r.Context())

	likes, err := s.posts.Unlike(r.Context(), userID, mux.Vars(r)["post_id"])
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, likes)
}

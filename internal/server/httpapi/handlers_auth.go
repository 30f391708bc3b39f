package httpapi

import (
	"net/http"

	"github.com/dkoval/companyportal/internal/server/services"
)

func (s *Server) handleSignup(w http.ResponseWriter, r *http.Request) {
	var in struct {
		Username             string `json:"username"`
		Name                 string `json:"name"`
		Email                string `json:"email"`
		Password             string `json:"password"`
		PasswordConfirmation string `json:"password_confirmation"`
	}
	if err := decodeJSON(r, &in); err != nil {
		writeErrors(w, http.StatusBadRequest, "invalid json")
		return
	}

	user, err := s.auth.Signup(r.Context(), services.SignupRequest{
		Username:             in.Username,
		Name:                 in.Name,
		Email:                in.Email,
		Password:             in.Password,
		PasswordConfirmation: in.PasswordConfirmation,
	})
	if err != nil {
		writeServiceError(w, err)
		return
	}

	// the login page greets the new account by email, once
	if mgr := SessionFromContext(r.Context()); mgr != nil {
		mgr.SetSignupEmail(user.Email)
	}

	writeJSON(w, http.StatusCreated, map[string]any{
		"user": map[string]any{
			"id":       user.ID,
			"username": user.Username,
			"name":     user.Name,
			"email":    user.Email,
		},
	})
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var in struct {
		Login    string `json:"login"`
		Password string `json:"password"`
		Remember bool   `json:"remember"`
	}
	if err := decodeJSON(r, &in); err != nil {
		writeErrors(w, http.StatusBadRequest, "invalid json")
		return
	}

	mgr := SessionFromContext(r.Context())

	res, err := s.auth.Login(r.Context(), mgr, in.Login, in.Password, in.Remember)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	if res.Remember != nil {
		setRememberCookie(w, res.Remember.CookieValue, res.Remember.ExpiresAt)
	} else {
		clearRememberCookie(w)
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"user": map[string]any{
			"id":    res.Identity.ID,
			"name":  res.Identity.Name,
			"email": res.Identity.Email,
		},
		"redirect_to": res.RedirectTo,
	})
}

func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	mgr := SessionFromContext(r.Context())

	err := s.auth.Logout(r.Context(), mgr)
	clearRememberCookie(w)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"ok": true})
}

func (s *Server) handleMe(w http.ResponseWriter, r *http.Request) {
	mgr := SessionFromContext(r.Context())
	if mgr == nil || mgr.Current() == nil {
		payload := map[string]any{"errors": []string{"authentication required"}}
		if mgr != nil {
			// lets the login page greet a freshly signed-up account, once
			if email := mgr.PopSignupEmail(); email != "" {
				payload["signup_email"] = email
			}
		}
		writeJSON(w, http.StatusUnauthorized, payload)
		return
	}

	identity := mgr.Current()
	writeJSON(w, http.StatusOK, map[string]any{
		"user": map[string]any{
			"id":    identity.ID,
			"name":  identity.Name,
			"email": identity.Email,
		},
		"flash": mgr.PopFlash(),
	})
}

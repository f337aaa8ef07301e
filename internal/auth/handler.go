package auth

import (
	"encoding/json"
	"net/http"

	"github.com/julienschmidt/httprouter"

	httputil "cafebook/pkg/http"
	"cafebook/pkg/logger"
)

type LoginHandler struct {
	client *AuthClient
	log    *logger.Logger
}

func NewLoginHandler(client *AuthClient, log *logger.Logger) *LoginHandler {
	return &LoginHandler{
		client: client,
		log:    log,
	}
}

// Login forwards credentials to the auth provider and relays its
// response verbatim, status code included.
func (h *LoginHandler) Login(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var creds Credentials
	if err := json.NewDecoder(r.Body).Decode(&creds); err != nil {
		if writeErr := httputil.WriteJSON(w, http.StatusBadRequest, httputil.ErrorResponse{
			Error: "Invalid request body",
		}); writeErr != nil {
			h.log.Error("failed to write JSON response", "handler", "Login", "operation", "WriteJSON", "error", writeErr)
		}
		return
	}

	if creds.Email == "" || creds.Password == "" {
		if writeErr := httputil.WriteJSON(w, http.StatusBadRequest, httputil.ErrorResponse{
			Error: "Email and password are required",
		}); writeErr != nil {
			h.log.Error("failed to write JSON response", "handler", "Login", "operation", "WriteJSON", "error", writeErr)
		}
		return
	}

	body, status, err := h.client.Login(creds)
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "Login", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if _, err := w.Write(body); err != nil {
		h.log.Error("failed to write login response", "handler", "Login", "error", err)
	}
}

func (h *LoginHandler) RegisterRoutes(router *httprouter.Router) {
	router.POST("/admin/login", h.Login)
}

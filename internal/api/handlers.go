package api

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"el-escriba-api/internal/auth"
	"el-escriba-api/internal/core"
	"el-escriba-api/internal/store"
)

type APIHandler struct {
	authService *auth.Service
	chatService *core.ChatService
}

func NewAPIHandler(as *auth.Service, cs *core.ChatService) *APIHandler {
	return &APIHandler{authService: as, chatService: cs}
}

type credentialsRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		log.Printf("Failed to encode response body: %v", err)
	}
}

func (h *APIHandler) RegisterHandler(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "Cuerpo de la petición inválido."})
		return
	}

	user, err := h.authService.Register(req.Username, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, auth.ErrValidation):
			writeJSON(w, http.StatusBadRequest, errorResponse{Error: "Por favor ingresa usuario y contraseña."})
		case errors.Is(err, store.ErrDuplicateUsername):
			writeJSON(w, http.StatusBadRequest, errorResponse{Error: "El nombre de usuario ya existe. Elige otro."})
		default:
			log.Printf("Error registering user %q: %v", req.Username, err)
			writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "Error interno del servidor al registrar."})
		}
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{
		"message": "Usuario registrado con éxito",
		"userId":  user.ID,
	})
}

func (h *APIHandler) LoginHandler(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "Cuerpo de la petición inválido."})
		return
	}

	user, err := h.authService.Login(req.Username, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, auth.ErrUserNotFound):
			writeJSON(w, http.StatusBadRequest, errorResponse{Error: "Usuario no encontrado."})
		case errors.Is(err, auth.ErrBadCredentials):
			writeJSON(w, http.StatusBadRequest, errorResponse{Error: "Contraseña incorrecta."})
		default:
			log.Printf("Error logging in user %q: %v", req.Username, err)
			writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "Error interno del servidor al iniciar sesión."})
		}
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{
		"message":  "Login correcto",
		"username": user.Username,
	})
}

type chatRequest struct {
	Message string           `json:"message"`
	File    *core.Attachment `json:"file"`
}

type chatResponse struct {
	Reply string `json:"reply"`
}

// ChatHandler runs one stateless turn. There is no auth check here; access
// control lives in the client's login flow only, a known gap left for the
// integrator to close.
func (h *APIHandler) ChatHandler(w http.ResponseWriter, r *http.Request) {
	var req chatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, chatResponse{Reply: "Cuerpo de la petición inválido."})
		return
	}

	turn := core.TurnRequest{Message: req.Message, File: req.File}
	reply, err := h.chatService.GenerateTurn(r.Context(), turn)
	if err != nil {
		switch {
		case errors.Is(err, core.ErrEmptyTurn):
			writeJSON(w, http.StatusBadRequest, chatResponse{Reply: "Por favor envía un texto o adjunta un archivo."})
		case errors.Is(err, core.ErrUnsupportedFileType):
			writeJSON(w, http.StatusBadRequest, chatResponse{Reply: "Por el momento, El Escriba solo lee archivos PDF."})
		default:
			writeJSON(w, http.StatusInternalServerError, chatResponse{Reply: "Hubo un error al procesar tu solicitud. Si enviaste un archivo, asegúrate de que sea un PDF legible."})
		}
		return
	}

	writeJSON(w, http.StatusOK, chatResponse{Reply: reply})
}

package api

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog/log"

	"github.com/cubegames/tictactoe3d/game/service"
	"github.com/cubegames/tictactoe3d/transport/websocket"
)

// Server is the HTTP surface: health and room inspection endpoints,
// the WebSocket upgrade path, and the static client files.
type Server struct {
	service service.GameService
	hub     *websocket.Hub
	router  *mux.Router
}

// NewServer creates the API server. staticDir is the directory the
// browser client is served from.
func NewServer(gameService service.GameService, hub *websocket.Hub, staticDir string) *Server {
	s := &Server{
		service: gameService,
		hub:     hub,
		router:  mux.NewRouter(),
	}

	s.setupRoutes(staticDir)
	return s
}

// setupRoutes configures all API routes
func (s *Server) setupRoutes(staticDir string) {
	s.router.HandleFunc("/health", s.handleHealth).Methods("GET")

	api := s.router.PathPrefix("/api").Subrouter()
	api.HandleFunc("/rooms", s.handleListRooms).Methods("GET")
	api.HandleFunc("/rooms/{code}", s.handleRoomState).Methods("GET")

	s.router.HandleFunc("/ws", s.hub.ServeWS)

	s.router.PathPrefix("/").Handler(http.FileServer(http.Dir(staticDir)))
}

// ServeHTTP implements http.Handler
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// Response helpers

func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		log.Error().Err(err).Msg("failed to encode response")
	}
}

func respondError(w http.ResponseWriter, err error) {
	code := service.CodeForError(err)
	respondJSON(w, statusFor(code), map[string]string{
		"error": err.Error(),
		"code":  string(code),
	})
}

// statusFor maps a service error code to an HTTP status.
func statusFor(code service.ErrorCode) int {
	switch code {
	case service.CodeValidation:
		return http.StatusBadRequest
	case service.CodeNotFound:
		return http.StatusNotFound
	case service.CodeRoomFull, service.CodeNotTerminal:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// Handlers

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, s.service.Status(r.Context()))
}

func (s *Server) handleListRooms(w http.ResponseWriter, r *http.Request) {
	rooms := s.service.ListRooms(r.Context())
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"count": len(rooms),
		"rooms": rooms,
	})
}

func (s *Server) handleRoomState(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)

	state, err := s.service.RoomState(r.Context(), vars["code"])
	if err != nil {
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, state)
}

package server

import "net/http"

func (s *Server) routes() {
	s.router.HandleFunc("/ws", s.handleWS).Methods(http.MethodGet)
	s.router.HandleFunc("/healthz", s.handleHealth).Methods(http.MethodGet)
	s.router.HandleFunc("/stories", s.handleStories).Methods(http.MethodGet)
}

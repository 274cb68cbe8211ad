package server

import (
	"encoding/json"
	"fmt"
	"net/http"

	"evmfmt/pkg/models"
	"evmfmt/pkg/numfmt"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// Server exposes the formatters over HTTP and a websocket.
type Server struct {
	formatter *numfmt.Formatter
	parser    *numfmt.Parser
	logger    zerolog.Logger
	mux       *http.ServeMux
}

func NewServer(f *numfmt.Formatter, p *numfmt.Parser, logger zerolog.Logger) *Server {
	s := &Server{
		formatter: f,
		parser:    p,
		logger:    logger,
		mux:       http.NewServeMux(),
	}
	s.routes()
	return s
}

func (s *Server) routes() {
	s.mux.HandleFunc("/api/kinds", s.handleKinds)
	s.mux.HandleFunc("/api/format", s.handleFormat)
	s.mux.HandleFunc("/api/parse", s.handleParse)
	s.mux.HandleFunc("/ws", s.handleWS)
}

// Handler returns the server's routes.
func (s *Server) Handler() http.Handler {
	return s.mux
}

func (s *Server) Start(port int) error {
	s.logger.Info().Int("port", port).Msg("API server listening")
	return http.ListenAndServe(fmt.Sprintf(":%d", port), s.mux)
}

func (s *Server) render(req models.FormatRequest) models.FormatResult {
	res := models.FormatResult{Kind: req.Kind, Input: req.Value}
	out, err := numfmt.Render(s.formatter, s.parser, numfmt.Kind(req.Kind), req.Value)
	if err != nil {
		res.Error = err.Error()
		return res
	}
	res.Output = out
	return res
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v interface{}) {
	body, err := json.Marshal(v)
	if err != nil {
		s.logger.Error().Err(err).Msg("encoding response")
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if _, err := w.Write(append(body, '\n')); err != nil {
		s.logger.Debug().Err(err).Msg("writing response")
	}
}

func (s *Server) handleKinds(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]interface{}{"kinds": numfmt.Kinds})
}

func (s *Server) handleFormat(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	res := s.render(models.FormatRequest{Kind: q.Get("kind"), Value: q.Get("value")})
	if res.Error != "" {
		s.writeJSON(w, http.StatusBadRequest, res)
		return
	}
	s.writeJSON(w, http.StatusOK, res)
}

func (s *Server) handleParse(w http.ResponseWriter, r *http.Request) {
	input := r.URL.Query().Get("value")
	v, err := s.parser.ParseString(input)
	if err != nil {
		s.writeJSON(w, http.StatusBadRequest, models.ParseResult{Input: input, Error: err.Error()})
		return
	}
	s.writeJSON(w, http.StatusOK, models.ParseResult{Input: input, Value: v})
}

// handleWS answers each FormatRequest message with a FormatResult until the
// client goes away.
func (s *Server) handleWS(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}
	defer func() { _ = conn.Close() }()

	for {
		var req models.FormatRequest
		if err := conn.ReadJSON(&req); err != nil {
			if !websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				s.logger.Debug().Err(err).Msg("websocket read ended")
			}
			return
		}
		if err := conn.WriteJSON(s.render(req)); err != nil {
			s.logger.Debug().Err(err).Msg("websocket write failed")
			return
		}
	}
}

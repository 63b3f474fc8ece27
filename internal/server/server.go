// Package server exposes the calculator over HTTP and websocket.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"net"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"github.com/pengelbrecht/tally/internal/calculator"
)

const (
	writeWait    = 10 * time.Second
	pongWait     = 60 * time.Second
	pingInterval = 30 * time.Second
	maxMessage   = 4096
)

// Request is a single evaluation request.
type Request struct {
	ID string  `json:"id,omitempty"`
	Op string  `json:"op"`
	A  float64 `json:"a"`
	B  float64 `json:"b"`
}

// Response carries either Result or Error.
type Response struct {
	ID     string   `json:"id,omitempty"`
	Op     string   `json:"op"`
	Result *float64 `json:"result,omitempty"`
	Error  string   `json:"error,omitempty"`
}

// Server evaluates calculator requests.
type Server struct {
	log       zerolog.Logger
	precision atomic.Int64
	upgrader  websocket.Upgrader
	mux       *http.ServeMux

	// live websocket connections; closing is set once shutdown starts
	connsMu sync.Mutex
	conns   map[*websocket.Conn]struct{}
	closing bool
	connWG  sync.WaitGroup
}

// New creates a server that rounds results to precision decimal places
// (negative for no rounding).
func New(log zerolog.Logger, precision int) *Server {
	s := &Server{
		log: log.With().Str("component", "server").Logger(),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
		},
		mux:   http.NewServeMux(),
		conns: make(map[*websocket.Conn]struct{}),
	}
	s.precision.Store(int64(precision))

	s.mux.HandleFunc("GET /healthz", s.handleHealth)
	s.mux.HandleFunc("GET /v1/eval", s.handleEval)
	s.mux.HandleFunc("GET /ws", s.handleWebSocket)
	return s
}

// SetPrecision changes the rounding applied to subsequent results.
func (s *Server) SetPrecision(precision int) {
	s.precision.Store(int64(precision))
	s.log.Info().Int("precision", precision).Msg("precision updated")
}

// Precision returns the current rounding precision.
func (s *Server) Precision() int {
	return int(s.precision.Load())
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mux.ServeHTTP(w, r)
}

// ListenAndServe serves on addr until ctx is cancelled.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return err
	}
	return s.Serve(ctx, ln)
}

// Serve serves on ln until ctx is cancelled.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:           s,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Serve(ln)
	}()
	s.log.Info().Str("addr", ln.Addr().String()).Msg("listening")

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		s.log.Info().Msg("shutting down")
		err := srv.Shutdown(shutdownCtx)
		// Shutdown does not track hijacked websocket connections.
		s.closeConns()
		return err
	}
}

// Evaluate answers a single request.
func (s *Server) Evaluate(req Request) Response {
	resp := Response{ID: req.ID, Op: req.Op}
	op, err := calculator.ParseOp(req.Op)
	if err != nil {
		resp.Error = err.Error()
		return resp
	}
	resp.Op = string(op)

	result, err := calculator.Apply(op, req.A, req.B)
	if err != nil {
		resp.Error = err.Error()
		return resp
	}
	if err := calculator.CheckFinite(result); err != nil {
		resp.Error = err.Error()
		return resp
	}
	result = calculator.Round(result, s.Precision())
	resp.Result = &result
	return resp
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte("ok"))
}

func (s *Server) handleEval(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	req := Request{Op: q.Get("op")}

	a, err := calculator.ParseOperand(q.Get("a"))
	if err != nil {
		s.writeJSON(w, http.StatusBadRequest, Response{Op: req.Op, Error: err.Error()})
		return
	}
	b, err := calculator.ParseOperand(q.Get("b"))
	if err != nil {
		s.writeJSON(w, http.StatusBadRequest, Response{Op: req.Op, Error: err.Error()})
		return
	}
	req.A, req.B = a, b

	resp := s.Evaluate(req)
	status := http.StatusOK
	if resp.Error != "" {
		status = http.StatusBadRequest
	}
	s.log.Debug().Str("op", resp.Op).Float64("a", a).Float64("b", b).Msg("eval")
	s.writeJSON(w, status, resp)
}

func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.log.Warn().Err(err).Msg("websocket upgrade failed")
		return
	}
	if !s.trackConn(conn) {
		conn.Close()
		return
	}
	defer s.untrackConn(conn)

	s.log.Debug().Str("remote", r.RemoteAddr).Msg("websocket connected")
	s.serveConn(r.Context(), conn)
}

func (s *Server) trackConn(conn *websocket.Conn) bool {
	s.connsMu.Lock()
	defer s.connsMu.Unlock()
	if s.closing {
		return false
	}
	s.conns[conn] = struct{}{}
	s.connWG.Add(1)
	return true
}

func (s *Server) untrackConn(conn *websocket.Conn) {
	s.connsMu.Lock()
	delete(s.conns, conn)
	s.connsMu.Unlock()
	s.connWG.Done()
}

// closeConns sends a going-away close frame to every live websocket and
// waits for their handlers to return.
func (s *Server) closeConns() {
	s.connsMu.Lock()
	s.closing = true
	conns := make([]*websocket.Conn, 0, len(s.conns))
	for conn := range s.conns {
		conns = append(conns, conn)
	}
	s.connsMu.Unlock()

	msg := websocket.FormatCloseMessage(websocket.CloseGoingAway, "server shutting down")
	for _, conn := range conns {
		_ = conn.WriteControl(websocket.CloseMessage, msg, time.Now().Add(writeWait))
		conn.Close()
	}
	s.connWG.Wait()
}

// serveConn answers messages on conn in order. All writes happen on this
// goroutine except pings, which go through WriteControl.
func (s *Server) serveConn(ctx context.Context, conn *websocket.Conn) {
	defer conn.Close()

	conn.SetReadLimit(maxMessage)
	_ = conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	done := make(chan struct{})
	defer close(done)
	go func() {
		ticker := time.NewTicker(pingInterval)
		defer ticker.Stop()
		for {
			select {
			case <-done:
				return
			case <-ctx.Done():
				return
			case <-ticker.C:
				if err := conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeWait)); err != nil {
					return
				}
			}
		}
	}()

	for {
		msgType, data, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				s.log.Warn().Err(err).Msg("websocket read failed")
			}
			return
		}
		if msgType != websocket.TextMessage {
			continue
		}

		var resp Response
		var req Request
		if err := json.Unmarshal(data, &req); err != nil {
			resp = Response{Error: "malformed request: " + err.Error()}
		} else {
			resp = s.Evaluate(req)
		}

		_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
		if err := conn.WriteJSON(resp); err != nil {
			s.log.Warn().Err(err).Msg("websocket write failed")
			return
		}
	}
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	data, err := json.Marshal(v)
	if err != nil {
		s.log.Error().Err(err).Msg("encode response")
		http.Error(w, "failed to encode response", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(append(data, '\n'))
}

package bridge

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

// Server accepts extension connections on a localhost WebSocket endpoint and
// feeds their messages through the dispatcher.
type Server struct {
	addr       string
	dispatcher *Dispatcher
	upgrader   websocket.Upgrader
}

func NewServer(addr string, dispatcher *Dispatcher) *Server {
	return &Server{
		addr:       addr,
		dispatcher: dispatcher,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  4096,
			WriteBufferSize: 4096,
			// the listener is bound to loopback; extension origins vary by
			// browser so the origin header is not a useful check here
			CheckOrigin: func(r *http.Request) bool { return true },
		},
	}
}

// Run serves until the context is cancelled.
func (s *Server) Run(ctx context.Context) error {
	mux := http.NewServeMux()
	mux.HandleFunc("/ws", s.handleWS)
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})

	srv := &http.Server{Addr: s.addr, Handler: mux}

	errc := make(chan error, 1)
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errc <- err
		}
	}()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}

func (s *Server) handleWS(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Println("Failed to upgrade bridge connection:", err)
		return
	}
	defer conn.Close()

	clientID := uuid.NewString()
	log.Printf("Extension connected: %s (%s)", clientID, r.RemoteAddr)
	defer log.Printf("Extension disconnected: %s", clientID)

	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Printf("Bridge read error for %s: %v", clientID, err)
			}
			return
		}

		var msg Message
		if err := json.Unmarshal(data, &msg); err != nil {
			log.Printf("Bridge decode error for %s: %v", clientID, err)
			continue
		}

		reply := s.dispatcher.Dispatch(msg)
		if reply == nil {
			continue
		}
		if err := conn.WriteJSON(reply); err != nil {
			log.Printf("Bridge write error for %s: %v", clientID, err)
			return
		}
	}
}

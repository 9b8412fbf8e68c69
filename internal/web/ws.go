package web

import (
	"encoding/json"
	"log"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"github.com/sweeney/microwave/internal/status"
)

const (
	wsWriteWait  = 10 * time.Second
	wsPongWait   = 60 * time.Second
	wsPingPeriod = 30 * time.Second
	wsReadLimit  = 4096
)

// wsCommand is a frame received from live clients.
type wsCommand struct {
	Key string `json:"key"`
}

// wsReply acknowledges a rejected command.
type wsReply struct {
	Error string `json:"error"`
}

func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("web: websocket upgrade error: %v", err)
		return
	}

	replies := make(chan wsReply, 4)
	closed := make(chan struct{})
	go s.readPump(conn, replies, closed)
	s.writePump(conn, replies, closed)
}

// readPump drains client frames, forwarding key commands to the keypad.
// It closes closed when the connection goes away.
func (s *Server) readPump(conn *websocket.Conn, replies chan<- wsReply, closed chan<- struct{}) {
	defer close(closed)

	conn.SetReadLimit(wsReadLimit)
	conn.SetReadDeadline(time.Now().Add(wsPongWait))
	conn.SetPongHandler(func(string) error {
		conn.SetReadDeadline(time.Now().Add(wsPongWait))
		return nil
	})

	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure, websocket.CloseAbnormalClosure) {
				log.Printf("web: websocket read error: %v", err)
			}
			return
		}

		var cmd wsCommand
		if err := json.Unmarshal(data, &cmd); err != nil {
			s.reply(replies, wsReply{Error: "invalid JSON"})
			continue
		}
		if s.keys == nil {
			s.reply(replies, wsReply{Error: "remote keypad disabled"})
			continue
		}
		if code, msg := s.pushKey(cmd.Key); code != http.StatusAccepted {
			s.reply(replies, wsReply{Error: msg})
		}
	}
}

func (s *Server) reply(replies chan<- wsReply, r wsReply) {
	select {
	case replies <- r:
	default:
	}
}

// writePump sends the current status on connect and again after every
// tracker change, with periodic pings in between.
func (s *Server) writePump(conn *websocket.Conn, replies <-chan wsReply, closed <-chan struct{}) {
	ticker := time.NewTicker(wsPingPeriod)
	defer func() {
		ticker.Stop()
		conn.Close()
	}()

	for {
		// Take the change channel before the snapshot so no update is missed.
		_, changed := s.tracker.Changed()
		conn.SetWriteDeadline(time.Now().Add(wsWriteWait))
		if err := conn.WriteJSON(status.StatusJSON{Status: status.Build(s.tracker.Snapshot())}); err != nil {
			return
		}

	wait:
		for {
			select {
			case <-changed:
				break wait
			case r := <-replies:
				conn.SetWriteDeadline(time.Now().Add(wsWriteWait))
				if err := conn.WriteJSON(r); err != nil {
					return
				}
			case <-ticker.C:
				conn.SetWriteDeadline(time.Now().Add(wsWriteWait))
				if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
					return
				}
			case <-closed:
				return
			case <-s.done:
				conn.SetWriteDeadline(time.Now().Add(wsWriteWait))
				conn.WriteMessage(websocket.CloseMessage,
					websocket.FormatCloseMessage(websocket.CloseGoingAway, "shutting down"))
				return
			}
		}
	}
}

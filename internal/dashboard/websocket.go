package dashboard

import (
	"log"
	"net/http"

	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

func (d *Dashboard) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	s := d.session(w, r)
	if s == nil {
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("dashboard: websocket upgrade: %v", err)
		return
	}

	s.hub.Serve(conn, s.hello, s.handleMessage)
}

package handlers

import (
	"net/http"

	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"

	"github.com/padraicbc/scoreapi/hub"
)

// Origin checks are handled by the allow-all CORS policy; the socket carries
// no credentials.
var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// WSResults upgrades the connection and registers it for score broadcasts.
// The server never sends on this socket itself – all writes come from the
// hub. The read loop only exists to detect peer close or transport errors;
// any inbound text is discarded.
func (h *Handler) WSResults(c echo.Context) error {
	conn, err := upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		return err
	}

	sub := hub.NewSubscriber(conn)
	h.hub.Add(sub)
	defer func() {
		h.hub.Remove(sub)
		_ = conn.Close()
	}()

	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			return nil
		}
	}
}

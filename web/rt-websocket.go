//    CSVTopicServer
//    Copyright: E Gunderson 2024
//    License: GNU GENERAL PUBLIC LICENSE 3
//        (see LICENSE in the top level directory of the distribution)

package web

import (
	"github.com/e-gun/CSVTopicServer/internal/vlt"
	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"
)

var (
	Upgrader = websocket.Upgrader{}
)

//
// THE ROUTE
//

// RtWebsocket - progress info for an analysis (multiple clients at a time)
func RtWebsocket(c echo.Context) error {
	const (
		FAILCON = "RtWebsocket(): ws connection failed"
	)

	ws, err := Upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		Msg.NOTE(FAILCON)
		return nil
	}
	defer ws.Close()

	progresspoll := &vlt.WSClient{
		Conn: ws,
		Pool: vlt.WebsocketPool,
		Hub:  vlt.WSJobs,
	}

	// join the pool only once the id is known: the pool matches outgoing messages on it
	if progresspoll.ReceiveID() {
		vlt.WebsocketPool.Add <- progresspoll
		progresspoll.WSMessageLoop()
		vlt.WebsocketPool.Remove <- progresspoll
	}
	return nil
}

//    CSVTopicServer
//    Copyright: E Gunderson 2024
//    License: GNU GENERAL PUBLIC LICENSE 3
//        (see LICENSE in the top level directory of the distribution)

package vlt

import (
	"encoding/json"
	"fmt"
	"github.com/e-gun/CSVTopicServer/internal/vv"
	"github.com/gorilla/websocket"
	"html"
	"strings"
	"time"
)

//
// WEBSOCKET INFRASTRUCTURE: see https://tutorialedge.net/projects/chat-system-in-go-and-react/part-4-handling-multiple-clients/
//

type WSClient struct {
	ID   string
	Conn *websocket.Conn
	Pool *WSPool
	Hub  *WSJobHubInterface
}

type WSPool struct {
	Add       chan *WSClient
	Remove    chan *WSClient
	ClientMap map[*WSClient]bool
	JSO       chan *WSJSOut
	ReadID    chan string
}

type WSJSOut struct {
	V     string `json:"value"`
	ID    string `json:"ID"`
	Close string `json:"close"`
}

// ReceiveID - get the job id from the client; record it; then exit
func (c *WSClient) ReceiveID() bool {
	const (
		FAIL1 = `WSClient.ReceiveID() failed`
		FAIL2 = `WSClient.ReceiveID() never received the job id`
	)

	quit := time.Now().Add(time.Second * 1)

	for {
		_, m, err := c.Conn.ReadMessage()
		if err != nil {
			Msg.FYI(FAIL1)
			return false
		}

		if len(m) != 0 {
			id := string(m)
			id = strings.Replace(id, `"`, "", -1)
			c.ID = id
			c.Pool.ReadID <- id
			return true
		}

		if time.Now().After(quit) {
			Msg.FYI(FAIL2)
			return false
		}
	}
}

// WSMessageLoop - output the constantly updated job progress to the websocket; then exit
func (c *WSClient) WSMessageLoop() {
	const (
		FAIL    = `WSClient.WSMessageLoop() never found '%s' among the jobs`
		SUCCESS = `WSClient.WSMessageLoop() found '%s' among the jobs`
	)

	// the page opens the socket as it posts the analyze request: the job may not be registered yet
	quit := time.Now().Add(vv.WSJOBWAIT)

	for {
		if c.Hub.Fetch(c.ID).Exists {
			Msg.FYI(fmt.Sprintf(SUCCESS, c.ID))
			break
		}

		if time.Now().After(quit) {
			Msg.FYI(fmt.Sprintf(FAIL, c.ID))
			break
		}
		time.Sleep(vv.WSPOLLINGPAUSE)
	}

	// loop until the job finishes
	for {
		ji := c.Hub.Fetch(c.ID)
		if !ji.Exists {
			break
		}

		c.Pool.JSO <- &WSJSOut{
			V:     formatpoll(ji),
			ID:    c.ID,
			Close: "open",
		}
		time.Sleep(vv.WSPOLLINGPAUSE)
	}

	c.Pool.JSO <- &WSJSOut{ID: c.ID, Close: "close"}
}

// WSPoolStartListening - the WSPool will listen for activity on its various channels (only called once at app launch)
func (pool *WSPool) WSPoolStartListening() {
	const (
		MSG1 = "Starting polling loop for %s"
		MSG2 = "WSPool client failed on WriteMessage()"
	)

	writemsg := func(jso *WSJSOut) {
		for cl := range pool.ClientMap {
			if cl.ID == jso.ID {
				js, y := json.Marshal(jso)
				Msg.EC(y)
				e := cl.Conn.WriteMessage(websocket.TextMessage, js)
				if e != nil {
					Msg.WARN(MSG2)
					delete(pool.ClientMap, cl)
				}
			}
		}
	}

	for {
		select {
		case id := <-pool.Add:
			pool.ClientMap[id] = true
		case id := <-pool.Remove:
			delete(pool.ClientMap, id)
		case id := <-pool.ReadID:
			Msg.PEEK(fmt.Sprintf(MSG1, id))
		case wrt := <-pool.JSO:
			writemsg(wrt)
		}
	}
}

// WSFillNewPool - build a new WSPool (one and only one built at app startup)
func WSFillNewPool() *WSPool {
	return &WSPool{
		Add:       make(chan *WSClient),
		Remove:    make(chan *WSClient),
		ClientMap: make(map[*WSClient]bool),
		JSO:       make(chan *WSJSOut),
		ReadID:    make(chan string),
	}
}

// formatpoll - build HTML to send to the JS on the other side
func formatpoll(ji WSJobInfo) string {
	// example:
	// Cleaning the texts...<br><span class="progress">43%</span> completed&nbsp;(1.2s)

	const (
		PCT = `<br><span class="progress">%.0f%%</span>&nbsp;(%s)`
		EL  = `<br>(%s)`
	)

	htm := html.EscapeString(ji.Msg)
	elapsed := fmt.Sprintf("%.1fs", time.Since(ji.Launched).Seconds())

	if ji.Steps > 0 {
		pct := float64(ji.Step) / float64(ji.Steps) * 100
		htm += fmt.Sprintf(PCT, pct, elapsed)
	} else {
		htm += fmt.Sprintf(EL, elapsed)
	}
	return htm
}

// SPDX-FileCopyrightText: 2021 Softbear, Inc.
// SPDX-License-Identifier: AGPL-3.0-or-later

package server

import (
	"errors"
	"fmt"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

const (
	// Heightmaps at high detail take a while to write.
	writeWait = 10 * time.Second

	pongWait   = 60 * time.Second
	pingPeriod = pongWait * 8 / 10 // must be less than pongWait

	// Heightmaps are large, so only a few may queue per client.
	socketBufferSize = 4

	// Requests are small. Anything bigger is not a Generate.
	maxMessageSize = 512

	debugSocket = false
)

var errNotInbound = errors.New("message is not an inbound")

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
	HandshakeTimeout: time.Second,
	ReadBufferSize:   maxMessageSize,
	WriteBufferSize:  4096,
}

// SocketClient forwards requests from a websocket to the hub and replies back.
type SocketClient struct {
	hub  *Hub
	conn *websocket.Conn
	send chan outbound
	once sync.Once
}

func NewSocketClient(hub *Hub, conn *websocket.Conn) *SocketClient {
	return &SocketClient{
		hub:  hub,
		conn: conn,
		send: make(chan outbound, socketBufferSize),
	}
}

func (client *SocketClient) Init() {
	go client.writePump()
	go client.readPump()
}

// Close ends the write pump, which then closes the connection.
func (client *SocketClient) Close() {
	close(client.send)
}

func (client *SocketClient) Destroy() {
	client.once.Do(func() {
		// May be called on the hub goroutine, which can't block on its own channel
		select {
		case client.hub.unregister <- client:
		default:
			go func() {
				client.hub.unregister <- client
			}()
		}
		_ = client.conn.Close()
	})
}

// Send queues out for the write pump. A client that can't keep up is destroyed.
func (client *SocketClient) Send(out outbound) {
	select {
	case client.send <- out:
		return
	default:
	}

	if debugSocket {
		fmt.Println("dropping slow socket client")
	}
	out.Pool()
	client.Destroy()
}

func (client *SocketClient) readPump() {
	defer client.Destroy()

	client.conn.SetReadLimit(maxMessageSize)
	_ = client.conn.SetReadDeadline(time.Now().Add(pongWait))
	client.conn.SetPongHandler(func(string) error {
		return client.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		in, err := client.read()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Println("read error:", err)
			}
			return
		}
		if in != nil {
			client.hub.inbound <- SignedInbound{Client: client, inbound: in}
		}
	}
}

// read returns the next inbound, or nil for an unknown message type.
func (client *SocketClient) read() (inbound, error) {
	_, r, err := client.conn.NextReader()
	if err != nil {
		return nil, err
	}

	var message Message
	if err = json.NewDecoder(r).Decode(&message); err != nil {
		return nil, err
	}

	switch data := message.Data.(type) {
	case InvalidInbound:
		log.Println("invalid message type received:", data.messageType)
		return nil, nil
	case inbound:
		return data, nil
	default:
		return nil, errNotInbound
	}
}

func (client *SocketClient) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		client.Destroy()
	}()

	for {
		select {
		case out, ok := <-client.send:
			if !ok {
				// Unregistered by the hub
				_ = client.conn.SetWriteDeadline(time.Now().Add(writeWait))
				_ = client.conn.WriteMessage(websocket.CloseMessage, nil)
				return
			}

			err := client.write(out)
			out.Pool()
			if err != nil {
				if debugSocket {
					fmt.Println("write error:", err)
				}
				return
			}
		case <-ticker.C:
			_ = client.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := client.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

func (client *SocketClient) write(out outbound) error {
	_ = client.conn.SetWriteDeadline(time.Now().Add(writeWait))

	w, err := client.conn.NextWriter(websocket.TextMessage)
	if err != nil {
		return err
	}
	if err = json.NewEncoder(w).Encode(Message{Data: out}); err != nil {
		_ = w.Close()
		return err
	}
	return w.Close()
}

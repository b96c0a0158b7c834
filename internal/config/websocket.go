package config

import (
	"net/http"
	"time"

	"github.com/gorilla/websocket"
)

type WebSocket struct {
	Upgrader     websocket.Upgrader
	ReadLimit    int64
	PongWait     time.Duration
	PingInterval time.Duration
	WriteWait    time.Duration
}

func NewWebSocket() *WebSocket {
	pongWait := time.Minute
	return &WebSocket{
		Upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
		},
		ReadLimit:    4096,
		PongWait:     pongWait,
		PingInterval: pongWait * 9 / 10,
		WriteWait:    time.Second * 10,
	}
}

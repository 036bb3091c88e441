package socket

import (
	"log"

	"spookin_server/models"

	socketio "github.com/googollee/go-socket.io"
)

// Hub wraps the Socket.IO server and fans stored messages out to thread
// rooms. Clients join a room per thread; the global thread is a room
// like any other.
type Hub struct {
	Server *socketio.Server
}

// NewHub initializes the Socket.IO server and its event handlers.
func NewHub() *Hub {
	server := socketio.NewServer(nil)

	server.OnConnect("/", func(c socketio.Conn) error {
		log.Println("✅ Socket connected:", c.ID())
		return nil
	})

	server.OnEvent("/", "join", func(c socketio.Conn, threadID string) {
		if threadID == "" {
			log.Println("❌ Invalid threadId in join request")
			return
		}
		log.Printf("👥 Socket %s joined thread %s\n", c.ID(), threadID)
		c.Join(threadID)
	})

	server.OnEvent("/", "leave", func(c socketio.Conn, threadID string) {
		if threadID == "" {
			return
		}
		c.Leave(threadID)
	})

	server.OnError("/", func(c socketio.Conn, err error) {
		log.Println("❌ Socket error:", err)
	})

	server.OnDisconnect("/", func(c socketio.Conn, reason string) {
		log.Println("❌ Socket disconnected:", reason)
	})

	return &Hub{Server: server}
}

// BroadcastMessage pushes a persisted message to every subscriber of the
// thread's room. Called by the chat service after the write succeeds, so
// subscribers observe same-thread messages in stored order.
func (h *Hub) BroadcastMessage(threadID string, message models.Message) {
	h.Server.BroadcastToRoom("/", threadID, "newMessage", message)
}

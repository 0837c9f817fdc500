package services

import (
	"fmt"

	"github.com/godocompany/roomboard/models"
	"github.com/godocompany/roomboard/utils"
	socketio "github.com/googollee/go-socket.io"
	"go.uber.org/zap"
)

// recentMessagesPerRoom is how many messages are replayed to a client joining a room
const recentMessagesPerRoom = 25

// LiveMessage is the payload pushed to live room clients for a new message
type LiveMessage struct {
	ID       uint64 `json:"id"`
	RoomID   uint64 `json:"room_id"`
	Username string `json:"username"`
	Body     string `json:"body"`
}

// SocketsService pushes room activity to browsers connected over Socket.IO
type SocketsService struct {
	Server       *socketio.Server
	RoomsService *RoomsService
	Logger       *zap.Logger
	buffers      RoomBufferGroup
}

// Setup registers the socket event handlers. It must be called before the
// server starts serving.
func (s *SocketsService) Setup() {

	s.buffers = RoomBufferGroup{MaxLength: recentMessagesPerRoom}
	if s.Logger == nil {
		s.Logger = zap.NewNop()
	}

	// Add handlers to the socket server
	s.Server.OnConnect("/", func(conn socketio.Conn) error {
		s.Logger.Debug("client connected", zap.String("ip", socketIP(conn)))
		return nil
	})

	// When a socket disconnects
	s.Server.OnDisconnect("/", func(conn socketio.Conn, reason string) {
		s.Logger.Debug("client disconnected", zap.String("ip", socketIP(conn)), zap.String("reason", reason))
		conn.LeaveAll()
	})

	// Register all of the event handlers
	s.Server.OnEvent("/", "room.join", s.OnRoomJoin)
	s.Server.OnEvent("/", "room.leave", s.OnRoomLeave)

}

// socketIP gets the client IP address of a socket connection
func socketIP(conn socketio.Conn) string {
	return utils.GetIpAddress(conn.RemoteHeader(), conn.RemoteAddr().String())
}

// roomChannel is the socket.io room name for a discussion room
func roomChannel(roomID uint64) string {
	return fmt.Sprintf("room_%d", roomID)
}

// Broadcast broadcasts a message to every member of a room
func (s *SocketsService) Broadcast(room, event string, args ...interface{}) bool {
	if s.Server == nil {
		return false
	}
	return s.Server.BroadcastToRoom("/", room, event, args...)
}

// RoomMsg is sent by clients to join or leave a room's live feed
type RoomMsg struct {
	RoomID uint64 `json:"room_id"`
}

// OnRoomJoin subscribes the connection to a room and replays its recent messages
func (s *SocketsService) OnRoomJoin(conn socketio.Conn, data RoomMsg) error {

	// Make sure the room exists
	room, err := s.RoomsService.GetRoom(data.RoomID)
	if err != nil {
		return err
	}

	// Join the room for the event
	conn.Join(roomChannel(room.ID))

	// Emit the buffered messages so the new viewer does not open an empty feed
	for _, msg := range s.buffers.CopyMessages(room.ID) {
		conn.Emit("message.posted", msg)
	}

	s.Logger.Debug("joined room", zap.Uint64("room_id", room.ID), zap.String("ip", socketIP(conn)))
	return nil

}

// OnRoomLeave unsubscribes the connection from a room
func (s *SocketsService) OnRoomLeave(conn socketio.Conn, data RoomMsg) error {
	conn.Leave(roomChannel(data.RoomID))
	s.Logger.Debug("left room", zap.Uint64("room_id", data.RoomID), zap.String("ip", socketIP(conn)))
	return nil
}

// MessagePosted broadcasts a new message and keeps it for replay
func (s *SocketsService) MessagePosted(room *models.Room, message *models.Message) {
	msg := &LiveMessage{
		ID:     message.ID,
		RoomID: room.ID,
		Body:   message.Body,
	}
	if message.User != nil {
		msg.Username = message.User.Username
	}
	s.buffers.PushMessage(room.ID, msg)
	s.Broadcast(roomChannel(room.ID), "message.posted", msg)
}

// MessageDeleted tells room members a message is gone and drops it from replay
func (s *SocketsService) MessageDeleted(message *models.Message) {
	s.buffers.RemoveMessage(message.RoomID, message.ID)
	s.Broadcast(roomChannel(message.RoomID), "message.deleted", map[string]interface{}{
		"id":      message.ID,
		"room_id": message.RoomID,
	})
}

// RoomDeleted tells room members the room is gone and forgets its replay buffer
func (s *SocketsService) RoomDeleted(room *models.Room) {
	s.buffers.DropRoom(room.ID)
	s.Broadcast(roomChannel(room.ID), "room.deleted", map[string]interface{}{
		"room_id": room.ID,
	})
}

// RecentMessages returns the messages that would be replayed to a client joining the room
func (s *SocketsService) RecentMessages(roomID uint64) []*LiveMessage {
	return s.buffers.CopyMessages(roomID)
}

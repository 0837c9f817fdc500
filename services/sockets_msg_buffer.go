package services

import "sync"

// RecentMessageBuffer keeps the most recent live messages of a single room
type RecentMessageBuffer struct {
	MaxLength int
	items     []*LiveMessage
}

// Push adds a message, dropping the oldest one when the buffer is full
func (buf *RecentMessageBuffer) Push(msg *LiveMessage) {

	// A zero length buffer keeps nothing
	if buf.MaxLength <= 0 {
		return
	}

	// If there is still room under the max, add it
	if len(buf.items) < buf.MaxLength {
		buf.items = append(buf.items, msg)
		return
	}

	// Move everything over one space
	for i := 1; i < len(buf.items); i++ {
		buf.items[i-1] = buf.items[i]
	}

	// Insert the new message in the last slot
	buf.items[len(buf.items)-1] = msg

}

// Remove drops the message with the given id, if it is buffered
func (buf *RecentMessageBuffer) Remove(messageID uint64) {
	kept := buf.items[:0]
	for _, item := range buf.items {
		if item.ID != messageID {
			kept = append(kept, item)
		}
	}
	for i := len(kept); i < len(buf.items); i++ {
		buf.items[i] = nil
	}
	buf.items = kept
}

// GetCopy returns the buffered messages, oldest first
func (buf *RecentMessageBuffer) GetCopy() []*LiveMessage {
	items := make([]*LiveMessage, len(buf.items))
	copy(items, buf.items)
	return items
}

// RoomBufferGroup holds one RecentMessageBuffer per room
type RoomBufferGroup struct {
	MaxLength int
	buffers   map[uint64]*RecentMessageBuffer
	mut       sync.RWMutex
}

// PushMessage adds a message to the buffer of its room
func (g *RoomBufferGroup) PushMessage(roomID uint64, msg *LiveMessage) {

	// Lock on the buffers
	g.mut.Lock()
	defer g.mut.Unlock()

	// Get the buffer for this room, creating it if needed
	if g.buffers == nil {
		g.buffers = map[uint64]*RecentMessageBuffer{}
	}
	buf, ok := g.buffers[roomID]
	if !ok {
		buf = &RecentMessageBuffer{
			MaxLength: g.MaxLength,
		}
		g.buffers[roomID] = buf
	}

	// Push the message
	buf.Push(msg)

}

// RemoveMessage drops a message from the buffer of its room
func (g *RoomBufferGroup) RemoveMessage(roomID, messageID uint64) {
	g.mut.Lock()
	defer g.mut.Unlock()
	if buf, ok := g.buffers[roomID]; ok {
		buf.Remove(messageID)
	}
}

// DropRoom forgets every buffered message of a room
func (g *RoomBufferGroup) DropRoom(roomID uint64) {
	g.mut.Lock()
	defer g.mut.Unlock()
	delete(g.buffers, roomID)
}

// CopyMessages returns the buffered messages for a room
func (g *RoomBufferGroup) CopyMessages(roomID uint64) []*LiveMessage {

	// Lock on the buffers
	g.mut.RLock()
	defer g.mut.RUnlock()

	// Get the buffer for this room
	buf, ok := g.buffers[roomID]
	if !ok {
		return nil
	}

	// Copy the values from the buffer
	return buf.GetCopy()

}

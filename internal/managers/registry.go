package managers

import (
	"sync"
	"time"

	"signaling/internal/models"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// RoomRegistry owns the sessionId -> Room map. It is constructed explicitly
// and handed to the websocket handler; there is no package-level instance.
//
// Join and Leave serialize room-map mutations under the registry lock so a
// room can never be observed empty-but-registered: a room is created on first
// join and deleted in the same critical section as the last leave.
type RoomRegistry struct {
	mu         sync.RWMutex
	rooms      map[string]*models.Room
	instanceID string
	logger     *zap.Logger
}

func NewRoomRegistry(logger *zap.Logger) *RoomRegistry {
	return &RoomRegistry{
		rooms:      make(map[string]*models.Room),
		instanceID: uuid.New().String(),
		logger:     logger,
	}
}

// InstanceID identifies this serving process, for logs and health output.
func (reg *RoomRegistry) InstanceID() string { return reg.instanceID }

// Join adds p to the room for sessionID, creating the room if needed, and
// returns the room.
func (reg *RoomRegistry) Join(sessionID string, p *models.Participant) *models.Room {
	reg.mu.Lock()
	defer reg.mu.Unlock()
	room, ok := reg.rooms[sessionID]
	if !ok {
		room = models.NewRoom(sessionID)
		reg.rooms[sessionID] = room
		reg.logger.Info("room created", zap.String("sessionId", sessionID))
	}
	room.Add(p)
	return room
}

// Leave removes the participant from the room and deletes the room when it
// becomes empty. It reports false when the participant was already gone, so
// duplicate close events are no-ops.
func (reg *RoomRegistry) Leave(sessionID, participantID string) (*models.Participant, bool) {
	reg.mu.Lock()
	defer reg.mu.Unlock()
	room, ok := reg.rooms[sessionID]
	if !ok {
		return nil, false
	}
	p, remaining, removed := room.Remove(participantID)
	if !removed {
		return nil, false
	}
	if remaining == 0 {
		delete(reg.rooms, sessionID)
		reg.logger.Info("room deleted", zap.String("sessionId", sessionID))
	}
	return p, true
}

func (reg *RoomRegistry) Get(sessionID string) (*models.Room, bool) {
	reg.mu.RLock()
	defer reg.mu.RUnlock()
	room, ok := reg.rooms[sessionID]
	return room, ok
}

// Counts returns the number of active rooms and the total participants across
// all rooms, for the status endpoint and metrics.
func (reg *RoomRegistry) Counts() (rooms, participants int) {
	reg.mu.RLock()
	defer reg.mu.RUnlock()
	for _, room := range reg.rooms {
		participants += room.Size()
	}
	return len(reg.rooms), participants
}

// Shutdown notifies every connected participant and closes all rooms.
func (reg *RoomRegistry) Shutdown() {
	reg.mu.Lock()
	rooms := make([]*models.Room, 0, len(reg.rooms))
	for _, room := range reg.rooms {
		rooms = append(rooms, room)
	}
	reg.rooms = make(map[string]*models.Room)
	reg.mu.Unlock()

	for _, room := range rooms {
		room.Broadcast("", map[string]interface{}{
			"type":      "server-shutdown",
			"message":   "Server is shutting down. Please reconnect.",
			"timestamp": time.Now().UTC().Format(time.RFC3339),
		})
		for _, info := range room.Status().Participants {
			if p, ok := room.Get(info.ID); ok {
				p.Client.Close()
			}
		}
	}
	reg.logger.Info("registry shut down", zap.String("instance", reg.instanceID))
}

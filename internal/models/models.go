package models

import (
	"sync"
	"time"
)

// Participant is one connected peer inside a room. Identity fields come from
// the client (query params) and are not verified server-side.
type Participant struct {
	ID       string    `json:"participantId"`
	Name     string    `json:"displayName"`
	Role     string    `json:"role,omitempty"`
	JoinedAt time.Time `json:"joinedAt"`
	Client   *Client   `json:"-"`
}

// ParticipantInfo is the public subset sent in presence events.
type ParticipantInfo struct {
	ID   string `json:"participantId"`
	Name string `json:"displayName"`
}

// Room holds the participants signaling for one call session.
type Room struct {
	ID        string
	CreatedAt time.Time

	mu           sync.RWMutex
	participants map[string]*Participant
}

// RoomStatus is the read-only view exposed over HTTP.
type RoomStatus struct {
	ID           string            `json:"sessionId"`
	Count        int               `json:"participantCount"`
	Participants []ParticipantInfo `json:"participants"`
	CreatedAt    time.Time         `json:"createdAt"`
}

// Server-originated events.
type RoomJoinedEvent struct {
	Type         string            `json:"type"` // always "room-joined"
	RoomID       string            `json:"roomId"`
	UserID       string            `json:"userId"`
	Count        int               `json:"participantCount"`
	Participants []ParticipantInfo `json:"participants"`
}

type PresenceEvent struct {
	Type     string `json:"type"` // "user-joined" or "user-left"
	UserID   string `json:"userId"`
	Username string `json:"username"`
	Role     string `json:"role,omitempty"`
}

type ErrorEvent struct {
	Type    string `json:"type"` // always "error"
	Message string `json:"message"`
}

func NewRoom(id string) *Room {
	return &Room{
		ID:           id,
		CreatedAt:    time.Now(),
		participants: make(map[string]*Participant),
	}
}

// Add inserts a participant, replacing any previous entry with the same id.
func (r *Room) Add(p *Participant) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.participants[p.ID] = p
}

// Remove deletes the participant and reports the remaining count. The second
// return is false when the participant was not present, which lets callers
// treat duplicate leaves as no-ops.
func (r *Room) Remove(id string) (*Participant, int, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.participants[id]
	if !ok {
		return nil, len(r.participants), false
	}
	delete(r.participants, id)
	return p, len(r.participants), true
}

func (r *Room) Get(id string) (*Participant, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	p, ok := r.participants[id]
	return p, ok
}

func (r *Room) Size() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.participants)
}

// Others lists everyone except the given participant, for room-joined events.
func (r *Room) Others(excludeID string) []ParticipantInfo {
	r.mu.RLock()
	defer r.mu.RUnlock()
	infos := make([]ParticipantInfo, 0, len(r.participants))
	for id, p := range r.participants {
		if id == excludeID {
			continue
		}
		infos = append(infos, ParticipantInfo{ID: p.ID, Name: p.Name})
	}
	return infos
}

func (r *Room) Status() RoomStatus {
	r.mu.RLock()
	defer r.mu.RUnlock()
	infos := make([]ParticipantInfo, 0, len(r.participants))
	for _, p := range r.participants {
		infos = append(infos, ParticipantInfo{ID: p.ID, Name: p.Name})
	}
	return RoomStatus{
		ID:           r.ID,
		Count:        len(r.participants),
		Participants: infos,
		CreatedAt:    r.CreatedAt,
	}
}

// Broadcast sends v to every open participant, skipping excludeID when it is
// non-empty. The recipient list is copied under the lock and the writes happen
// outside it, so a slow peer never blocks room mutations.
func (r *Room) Broadcast(excludeID string, v interface{}) {
	r.mu.RLock()
	clients := make([]*Client, 0, len(r.participants))
	for id, p := range r.participants {
		if id == excludeID {
			continue
		}
		clients = append(clients, p.Client)
	}
	r.mu.RUnlock()

	for _, c := range clients {
		if !c.IsOpen() {
			continue
		}
		c.Send(v)
	}
}

// SendTo delivers v to a single participant. It reports false when the target
// is unknown or its connection is no longer open; the message is dropped.
func (r *Room) SendTo(id string, v interface{}) bool {
	r.mu.RLock()
	p, ok := r.participants[id]
	r.mu.RUnlock()
	if !ok || !p.Client.IsOpen() {
		return false
	}
	p.Client.Send(v)
	return true
}

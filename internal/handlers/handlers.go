package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"signaling/internal/config"
	"signaling/internal/managers"
	"signaling/internal/metrics"
	"signaling/internal/models"
	"signaling/internal/utils"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"
	"github.com/pion/webrtc/v3"
	"go.uber.org/zap"
)

type Handlers struct {
	logger       *zap.Logger
	cfg          *config.Config
	registry     *managers.RoomRegistry
	links        *managers.CallLinkStore
	upgrader     websocket.Upgrader
	webrtcConfig webrtc.Configuration
}

func NewHandlers(cfg *config.Config, registry *managers.RoomRegistry, links *managers.CallLinkStore, logger *zap.Logger) *Handlers {
	return &Handlers{
		logger:       logger,
		cfg:          cfg,
		registry:     registry,
		links:        links,
		upgrader:     websocket.Upgrader{CheckOrigin: func(r *http.Request) bool { return true }},
		webrtcConfig: utils.BuildWebRTCConfig(cfg.STUNServers, cfg.TURNURL, cfg.TURNUsername, cfg.TURNPassword),
	}
}

func (h *Handlers) Health(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

// SignalingStatus reports room and participant counts. Read-only.
func (h *Handlers) SignalingStatus(w http.ResponseWriter, _ *http.Request) {
	rooms, participants := h.registry.Counts()
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"instanceId":         h.registry.InstanceID(),
		"activeRooms":        rooms,
		"activeParticipants": participants,
	})
}

// GetWebRTCConfig returns the ICE server list for browser peer connections.
func (h *Handlers) GetWebRTCConfig(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"iceServers": h.webrtcConfig.ICEServers,
	})
}

type createCallLinkRequest struct {
	AppointmentID string `json:"appointmentId"`
	DoctorID      string `json:"doctorId"`
	PatientName   string `json:"patientName"`
}

type callLinkResponse struct {
	*managers.CallLink
	RoomToken string `json:"roomToken,omitempty"`
}

// CreateCallLink issues a video-call link for an appointment and mints a room
// token the frontend can carry to the call page.
func (h *Handlers) CreateCallLink(w http.ResponseWriter, r *http.Request) {
	var req createCallLinkRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if req.AppointmentID == "" || req.DoctorID == "" || req.PatientName == "" {
		http.Error(w, "appointmentId, doctorId and patientName are required", http.StatusBadRequest)
		return
	}

	link, err := h.links.Create(r.Context(), req.AppointmentID, req.DoctorID, req.PatientName)
	if err != nil {
		h.logger.Error("failed to create call link", zap.Error(err))
		http.Error(w, "failed to create call link", http.StatusInternalServerError)
		return
	}

	token, err := utils.MintRoomToken([]byte(h.cfg.JWTSecret), link.CallID, "doctor", h.cfg.RoomTokenTTL)
	if err != nil {
		h.logger.Error("failed to mint room token", zap.Error(err))
		http.Error(w, "failed to create call link", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusCreated, callLinkResponse{CallLink: link, RoomToken: token})
}

// GetCallLink returns a stored call link plus the live room status when the
// call is in progress.
func (h *Handlers) GetCallLink(w http.ResponseWriter, r *http.Request) {
	callID := chi.URLParam(r, "callId")
	link, err := h.links.Get(r.Context(), callID)
	if errors.Is(err, managers.ErrLinkNotFound) {
		http.Error(w, "call link not found", http.StatusNotFound)
		return
	}
	if err != nil {
		h.logger.Error("failed to fetch call link", zap.Error(err))
		http.Error(w, "failed to fetch call link", http.StatusInternalServerError)
		return
	}

	resp := map[string]interface{}{
		"link":   link,
		"active": false,
	}
	if room, ok := h.registry.Get(callID); ok {
		resp["active"] = true
		resp["room"] = room.Status()
	}
	writeJSON(w, http.StatusOK, resp)
}

// SignalingWS upgrades the connection and runs it through the join -> route
// -> leave lifecycle. Session and identity parameters arrive as query params;
// a missing room id refuses the connection with a policy-violation close.
func (h *Handlers) SignalingWS(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	roomID := q.Get("roomId")
	if roomID == "" {
		roomID = q.Get("sessionId")
	}
	userID := q.Get("userId")
	username := q.Get("username")
	role := q.Get("role")

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Warn("websocket upgrade failed", zap.Error(err))
		return
	}
	client := models.NewClient(conn)

	if roomID == "" {
		h.logger.Warn("connection refused: missing room id", zap.String("remote", r.RemoteAddr))
		client.Reject(websocket.ClosePolicyViolation, "roomId is required")
		return
	}
	if userID == "" {
		userID = utils.NewParticipantID()
	}
	if username == "" {
		username = "Guest"
	}
	if role == "" {
		role = "participant"
	}

	p := &models.Participant{
		ID:       userID,
		Name:     username,
		Role:     role,
		JoinedAt: time.Now(),
		Client:   client,
	}
	room := h.registry.Join(roomID, p)
	metrics.ObserveOccupancy(h.registry.Counts())
	h.logger.Info("participant joined",
		zap.String("sessionId", roomID),
		zap.String("userId", userID),
		zap.String("role", role))

	client.Send(models.RoomJoinedEvent{
		Type:         "room-joined",
		RoomID:       roomID,
		UserID:       userID,
		Count:        room.Size(),
		Participants: room.Others(userID),
	})
	room.Broadcast(userID, models.PresenceEvent{
		Type:     "user-joined",
		UserID:   userID,
		Username: username,
		Role:     role,
	})

	defer h.leave(room, p)

	for {
		_, raw, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				h.logger.Warn("websocket read error", zap.String("userId", userID), zap.Error(err))
			}
			return
		}
		h.route(room, p, raw)
	}
}

// leave removes the participant and notifies the rest of the room. Safe to
// call more than once per connection; only the first call has any effect.
func (h *Handlers) leave(room *models.Room, p *models.Participant) {
	p.Client.Close()
	left, ok := h.registry.Leave(room.ID, p.ID)
	if !ok {
		return
	}
	metrics.ObserveOccupancy(h.registry.Counts())
	room.Broadcast(p.ID, models.PresenceEvent{
		Type:     "user-left",
		UserID:   left.ID,
		Username: left.Name,
	})
	h.logger.Info("participant left",
		zap.String("sessionId", room.ID),
		zap.String("userId", p.ID))
}

// route dispatches one inbound message per the signaling protocol:
//   - offer/answer/ice-candidate: unicast to the named target, sender stamped;
//     dropped (and logged) when the target is unknown or closed
//   - chat: broadcast to the whole room including the sender, with server
//     timestamp, so the sender sees its own message echoed
//   - media-status: broadcast to everyone except the sender
//   - anything else: forwarded to everyone except the sender
func (h *Handlers) route(room *models.Room, sender *models.Participant, raw []byte) {
	var msg map[string]interface{}
	if err := json.Unmarshal(raw, &msg); err != nil {
		h.logger.Warn("malformed signaling payload",
			zap.String("sessionId", room.ID),
			zap.String("userId", sender.ID),
			zap.Error(err))
		metrics.MessageDropped("malformed")
		sender.Client.Send(models.ErrorEvent{Type: "error", Message: "Invalid message format"})
		return
	}

	msgType, _ := msg["type"].(string)
	metrics.MessageRouted(msgType)

	switch msgType {
	case "offer", "answer", "ice-candidate":
		target, _ := msg["target"].(string)
		msg["userId"] = sender.ID
		if target == "" || !room.SendTo(target, msg) {
			// No delivery failure is reported back to the sender.
			metrics.MessageDropped("no-target")
			h.logger.Warn("dropping handshake message",
				zap.String("type", msgType),
				zap.String("sessionId", room.ID),
				zap.String("target", target))
		}
	case "chat":
		msg["userId"] = sender.ID
		msg["username"] = sender.Name
		msg["timestamp"] = time.Now().UTC().Format(time.RFC3339)
		room.Broadcast("", msg)
	case "media-status":
		msg["userId"] = sender.ID
		room.Broadcast(sender.ID, msg)
	default:
		msg["userId"] = sender.ID
		room.Broadcast(sender.ID, msg)
	}
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

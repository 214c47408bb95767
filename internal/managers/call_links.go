package managers

import (
	"context"
	"errors"
	"fmt"
	"time"

	"signaling/internal/utils"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// ErrLinkNotFound is returned when a call link does not exist or has expired.
var ErrLinkNotFound = errors.New("call link not found")

// CallLink is an issued video-call invitation, keyed by its call id. The call
// id doubles as the signaling session id once participants connect.
type CallLink struct {
	CallID        string    `json:"videoCallId"`
	Link          string    `json:"videoCallLink"`
	AppointmentID string    `json:"appointmentId"`
	DoctorID      string    `json:"doctorId"`
	PatientName   string    `json:"patientName"`
	CreatedAt     time.Time `json:"generatedAt"`
}

// CallLinkStore persists issued call links in Redis with a TTL. Room state is
// never stored here; links are the only durable artifact of a call.
type CallLinkStore struct {
	rdb     *redis.Client
	baseURL string
	ttl     time.Duration
	logger  *zap.Logger
}

func NewCallLinkStore(redisAddr, baseURL string, ttl time.Duration, logger *zap.Logger) *CallLinkStore {
	return &CallLinkStore{
		rdb:     redis.NewClient(&redis.Options{Addr: redisAddr}),
		baseURL: baseURL,
		ttl:     ttl,
		logger:  logger,
	}
}

func linkKey(callID string) string { return "calllink:" + callID }

// Create issues a new call link for an appointment and stores it.
func (s *CallLinkStore) Create(ctx context.Context, appointmentID, doctorID, patientName string) (*CallLink, error) {
	callID := utils.NewCallID(appointmentID, doctorID, patientName)
	link := &CallLink{
		CallID:        callID,
		Link:          fmt.Sprintf("%s/video-call/%s", s.baseURL, callID),
		AppointmentID: appointmentID,
		DoctorID:      doctorID,
		PatientName:   patientName,
		CreatedAt:     time.Now().UTC(),
	}

	key := linkKey(callID)
	fields := map[string]interface{}{
		"appointmentId": link.AppointmentID,
		"doctorId":      link.DoctorID,
		"patientName":   link.PatientName,
		"link":          link.Link,
		"createdAt":     link.CreatedAt.Format(time.RFC3339),
	}
	if err := s.rdb.HSet(ctx, key, fields).Err(); err != nil {
		return nil, fmt.Errorf("failed to store call link: %w", err)
	}
	if s.ttl > 0 {
		if err := s.rdb.Expire(ctx, key, s.ttl).Err(); err != nil {
			return nil, fmt.Errorf("failed to set call link TTL: %w", err)
		}
	}

	s.logger.Info("call link issued",
		zap.String("callId", callID),
		zap.String("appointmentId", appointmentID),
		zap.String("doctorId", doctorID))
	return link, nil
}

// Get fetches a stored call link by id.
func (s *CallLinkStore) Get(ctx context.Context, callID string) (*CallLink, error) {
	if !utils.ValidCallID(callID) {
		return nil, ErrLinkNotFound
	}
	fields, err := s.rdb.HGetAll(ctx, linkKey(callID)).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to fetch call link: %w", err)
	}
	if len(fields) == 0 {
		return nil, ErrLinkNotFound
	}

	createdAt, _ := time.Parse(time.RFC3339, fields["createdAt"])
	return &CallLink{
		CallID:        callID,
		Link:          fields["link"],
		AppointmentID: fields["appointmentId"],
		DoctorID:      fields["doctorId"],
		PatientName:   fields["patientName"],
		CreatedAt:     createdAt,
	}, nil
}

func (s *CallLinkStore) Close() error { return s.rdb.Close() }

package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/noah-isme/kokurikuler-api/internal/models"
	"github.com/noah-isme/kokurikuler-api/pkg/jobs"
)

const (
	notifyMissionCompleted = "mission_completed"
	notifyJournalReminder  = "journal_reminder"
	sendTimeout            = 20 * time.Second
)

type messageSender interface {
	Enabled() bool
	Send(ctx context.Context, target, message string) error
}

type notificationPayload struct {
	Target  string
	Message string
}

// NotificationOptions tunes the delivery worker pool.
type NotificationOptions struct {
	Workers    int
	Retries    int
	RetryDelay time.Duration
	SchoolName string
}

// NotificationService delivers WhatsApp messages. Mission notices go through a background queue and
// never surface errors to callers.
type NotificationService struct {
	sender     messageSender
	queue      *jobs.Queue
	metrics    *MetricsService
	logger     *zap.Logger
	schoolName string
}

// NewNotificationService builds the service and its queue. Call Start before dispatching.
func NewNotificationService(sender messageSender, metrics *MetricsService, logger *zap.Logger, opts NotificationOptions) *NotificationService {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &NotificationService{
		sender:     sender,
		metrics:    metrics,
		logger:     logger,
		schoolName: opts.SchoolName,
	}
	s.queue = jobs.NewQueue("notifications", s.handle, jobs.QueueConfig{
		Workers:    opts.Workers,
		MaxRetries: opts.Retries,
		RetryDelay: opts.RetryDelay,
		Logger:     logger,
		OnResult: func(job jobs.Job, err error) {
			s.metrics.RecordNotification(job.Type, err)
		},
	})
	return s
}

// Start launches the delivery workers.
func (s *NotificationService) Start(ctx context.Context) {
	s.queue.Start(ctx)
}

// Stop drains workers.
func (s *NotificationService) Stop() {
	s.queue.Stop()
}

// MissionCompleted queues a congratulation to every linked parent with a phone number.
func (s *NotificationService) MissionCompleted(parents []models.Contact, studentName, missionTitle, reflection string) {
	if s.sender == nil || !s.sender.Enabled() {
		return
	}
	for _, parent := range parents {
		if parent.Phone == nil || strings.TrimSpace(*parent.Phone) == "" {
			continue
		}
		message := s.missionMessage(parent.FullName, studentName, missionTitle, reflection)
		s.enqueue(notifyMissionCompleted, *parent.Phone, message)
	}
}

// RemindJournal sends a journal reminder to a student synchronously.
func (s *NotificationService) RemindJournal(ctx context.Context, studentName, phone string) error {
	message := fmt.Sprintf("Halo %s, Ayah/Ibu melihat kamu belum mengisi Jurnal Kokurikuler hari ini. "+
		"Yuk diisi sekarang agar poin karaktermu meningkat! Semangat!", studentName)
	if s.sender == nil {
		return fmt.Errorf("notification sender not configured")
	}
	sendCtx, cancel := context.WithTimeout(ctx, sendTimeout)
	defer cancel()
	err := s.sender.Send(sendCtx, phone, message)
	s.metrics.RecordNotification(notifyJournalReminder, err)
	return err
}

func (s *NotificationService) enqueue(kind, target, message string) {
	job := jobs.Job{
		ID:      uuid.NewString(),
		Type:    kind,
		Payload: notificationPayload{Target: target, Message: message},
	}
	if err := s.queue.Enqueue(job); err != nil {
		s.metrics.RecordNotification(kind, err)
		s.logger.Warn("notification dropped", zap.String("type", kind), zap.Error(err))
	}
}

func (s *NotificationService) handle(ctx context.Context, job jobs.Job) error {
	payload, ok := job.Payload.(notificationPayload)
	if !ok {
		return fmt.Errorf("unexpected notification payload %T", job.Payload)
	}
	sendCtx, cancel := context.WithTimeout(ctx, sendTimeout)
	defer cancel()
	if err := s.sender.Send(sendCtx, payload.Target, payload.Message); err != nil {
		s.logger.Warn("notification delivery failed",
			zap.String("job_id", job.ID),
			zap.String("type", job.Type),
			zap.Int("attempt", job.Attempt+1),
			zap.Error(err))
		return err
	}
	return nil
}

func (s *NotificationService) missionMessage(parentName, studentName, missionTitle, reflection string) string {
	if missionTitle == "" {
		missionTitle = "Tantangan Karakter"
	}
	var b strings.Builder
	b.WriteString("🎉 *Laporan Prestasi Siswa*\n\n")
	fmt.Fprintf(&b, "Halo Bpk/Ibu %s,\n\n", parentName)
	fmt.Fprintf(&b, "Ananda %s baru saja menyelesaikan misi: *\"%s\"* di aplikasi Kokurikuler.\n\n", studentName, missionTitle)
	if strings.TrimSpace(reflection) != "" {
		fmt.Fprintf(&b, "Refleksi Ananda: _\"%s\"_\n\n", reflection)
	}
	b.WriteString("Mohon berikan apresiasi kepada Ananda saat bertemu nanti ya! Terima kasih.")
	if s.schoolName != "" {
		fmt.Fprintf(&b, "\n\n- %s", s.schoolName)
	}
	return b.String()
}

package services

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"time"

	"civicsaathi/internal/adapters/persistence/models"
	"civicsaathi/internal/core/domain"
)

// Notifier dispatches citizen-facing lifecycle notifications.
// Implementations must never block the caller and never surface
// delivery failures to lifecycle operations.
type Notifier interface {
	Notify(event domain.NotificationEvent, complaint *models.Complaint)
}

// NotificationService delivers notifications through an HTTP mail relay.
// Disabled (token empty) it degrades to a silent no-op, so local
// development needs no relay.
type NotificationService struct {
	relayURL string
	apiToken string
	enabled  bool
	client   *http.Client
}

// NewNotificationService creates a new notification service
func NewNotificationService(relayURL, apiToken string) *NotificationService {
	return &NotificationService{
		relayURL: relayURL,
		apiToken: apiToken,
		enabled:  relayURL != "" && apiToken != "",
		client:   &http.Client{Timeout: 10 * time.Second},
	}
}

// IsEnabled checks if notification is enabled
func (s *NotificationService) IsEnabled() bool {
	return s.enabled
}

type relayPayload struct {
	To      string `json:"to"`
	Subject string `json:"subject"`
	Body    string `json:"body"`
}

// Notify dispatches in a goroutine. Delivery failures are logged and
// swallowed; a complaint transition never fails because mail did not go out.
func (s *NotificationService) Notify(event domain.NotificationEvent, complaint *models.Complaint) {
	if !s.enabled || complaint == nil {
		return
	}

	recipient := s.recipientFor(complaint)
	if recipient == "" {
		return
	}
	subject, body := composeMessage(event, complaint)

	go func() {
		if err := s.send(recipient, subject, body); err != nil {
			log.Printf("❌ Notification failed for complaint %s (%s): %v",
				complaint.ReferenceNo, event, err)
		}
	}()
}

// SendMail delivers an arbitrary message through the relay in the
// background. Used for OTP codes and other non-lifecycle mail.
func (s *NotificationService) SendMail(to, subject, body string) {
	if !s.enabled || to == "" {
		return
	}
	go func() {
		if err := s.send(to, subject, body); err != nil {
			log.Printf("❌ Mail delivery to %s failed: %v", to, err)
		}
	}()
}

// recipientFor prefers the citizen's email; escalations additionally go
// to the department head when one is attached.
func (s *NotificationService) recipientFor(complaint *models.Complaint) string {
	if complaint.Citizen != nil && complaint.Citizen.Email != "" {
		return complaint.Citizen.Email
	}
	if complaint.Department != nil && complaint.Department.HeadEmail != "" {
		return complaint.Department.HeadEmail
	}
	return ""
}

func (s *NotificationService) send(to, subject, body string) error {
	payload, err := json.Marshal(relayPayload{To: to, Subject: subject, Body: body})
	if err != nil {
		return err
	}

	req, err := http.NewRequest("POST", s.relayURL, bytes.NewBuffer(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+s.apiToken)

	resp, err := s.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return fmt.Errorf("relay returned status %d", resp.StatusCode)
	}
	return nil
}

func composeMessage(event domain.NotificationEvent, c *models.Complaint) (subject, body string) {
	switch event {
	case domain.EventRegistered:
		subject = fmt.Sprintf("Complaint %s registered", c.ReferenceNo)
		body = fmt.Sprintf("Your complaint %q has been registered with tracking number %s. You will be notified as it progresses.",
			c.Title, c.ReferenceNo)
	case domain.EventWorkerAssigned:
		subject = fmt.Sprintf("Complaint %s: worker assigned", c.ReferenceNo)
		worker := "a field worker"
		if c.CurrentWorker != nil {
			worker = c.CurrentWorker.DisplayName()
		}
		body = fmt.Sprintf("%s has been assigned to your complaint %s.", worker, c.ReferenceNo)
	case domain.EventStatusChanged:
		subject = fmt.Sprintf("Complaint %s: status update", c.ReferenceNo)
		body = fmt.Sprintf("Your complaint %s is now %s.", c.ReferenceNo, c.Status)
	case domain.EventEscalated:
		subject = fmt.Sprintf("Complaint %s escalated", c.ReferenceNo)
		body = fmt.Sprintf("Your complaint %s has been escalated to senior staff for faster resolution.", c.ReferenceNo)
	default:
		subject = fmt.Sprintf("Complaint %s update", c.ReferenceNo)
		body = fmt.Sprintf("Your complaint %s was updated.", c.ReferenceNo)
	}
	return subject, body
}

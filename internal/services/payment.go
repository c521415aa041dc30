package services

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"os"
	"time"

	"github.com/google/uuid"

	"github.com/guzotech/guzobus-backend/internal/models"
	"github.com/guzotech/guzobus-backend/internal/storage"
)

// PaymentRequest is the input to the payment-initiation contract.
type PaymentRequest struct {
	Phone       string  `json:"phone"`
	Amount      float64 `json:"amount"`
	Reference   string  `json:"reference"` // booking ID
	Description string  `json:"description"`
}

// PaymentResult is the output of the payment-initiation contract.
type PaymentResult struct {
	TransactionID string `json:"transaction_id"`
}

// PaymentService initiates mobile-money payment requests.
type PaymentService interface {
	InitiatePayment(req *PaymentRequest) (*PaymentResult, error)
}

// GatewayPaymentService talks to the mobile-money gateway over HTTP. With no
// gateway configured (local development) it simulates instant acceptance.
type GatewayPaymentService struct {
	store     storage.Store
	smsSender SMSSender
	messages  *MessageResolver
	sessions  *SessionManager
	baseURL   string
	apiKey    string
	client    *http.Client
}

// NewGatewayPaymentService creates a payment service from environment config
func NewGatewayPaymentService(store storage.Store, smsSender SMSSender, messages *MessageResolver, sessions *SessionManager) *GatewayPaymentService {
	return &GatewayPaymentService{
		store:     store,
		smsSender: smsSender,
		messages:  messages,
		sessions:  sessions,
		baseURL:   os.Getenv("PAYMENT_GATEWAY_URL"),
		apiKey:    os.Getenv("PAYMENT_GATEWAY_KEY"),
		client:    &http.Client{Timeout: 15 * time.Second},
	}
}

// InitiatePayment asks the gateway to push a payment prompt to the phone.
func (p *GatewayPaymentService) InitiatePayment(req *PaymentRequest) (*PaymentResult, error) {
	if p.baseURL == "" {
		// No gateway configured - simulate acceptance for development
		txID := "SIM-" + uuid.NewString()
		log.Printf("⚠️  Payment gateway not configured - simulating request %s for %s (%.2f ETB)",
			txID, req.Reference, req.Amount)
		return &PaymentResult{TransactionID: txID}, nil
	}

	body, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("failed to encode payment request: %w", err)
	}

	httpReq, err := http.NewRequest(http.MethodPost, p.baseURL+"/v1/requests", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to build payment request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+p.apiKey)

	resp, err := p.client.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("payment gateway unreachable: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return nil, fmt.Errorf("payment gateway rejected request: status %d", resp.StatusCode)
	}

	var result PaymentResult
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("failed to decode gateway response: %w", err)
	}

	log.Printf("Payment request %s initiated for booking %s (%.2f ETB)",
		result.TransactionID, req.Reference, req.Amount)
	return &result, nil
}

// GatewayWebhookPayload is the settlement notification from the gateway.
type GatewayWebhookPayload struct {
	Event         string  `json:"event"` // "payment.completed", "payment.failed"
	TransactionID string  `json:"transaction_id"`
	Reference     string  `json:"reference"` // booking ID
	Amount        float64 `json:"amount"`
	FailureReason string  `json:"failure_reason"`
}

// ProcessPaymentWebhook settles bookings from gateway notifications: the
// booking flips to paid, the payment record completes, the waiting session
// advances to PAYMENT_SUCCESS and the tickets go out by SMS.
func (p *GatewayPaymentService) ProcessPaymentWebhook(payload []byte) error {
	var webhook GatewayWebhookPayload
	if err := json.Unmarshal(payload, &webhook); err != nil {
		return fmt.Errorf("failed to parse webhook: %w", err)
	}

	log.Printf("Processing payment webhook: %s for %s", webhook.Event, webhook.Reference)

	switch webhook.Event {
	case "payment.completed":
		return p.handlePaymentCompleted(&webhook)
	case "payment.failed":
		return p.handlePaymentFailed(&webhook)
	default:
		log.Printf("Unhandled webhook event: %s", webhook.Event)
		return nil
	}
}

func (p *GatewayPaymentService) handlePaymentCompleted(webhook *GatewayWebhookPayload) error {
	booking, err := p.store.GetBooking(webhook.Reference)
	if err != nil {
		return fmt.Errorf("booking not found: %w", err)
	}

	if booking.PaymentStatus == models.PaymentStatusCompleted {
		log.Printf("Booking %s already settled, ignoring duplicate webhook", booking.ID)
		return nil
	}

	now := time.Now()
	booking.Status = models.BookingStatusPaid
	booking.PaymentStatus = models.PaymentStatusCompleted
	booking.PaymentRef = webhook.TransactionID
	booking.PaidAt = &now

	if err := p.store.UpdateBooking(booking); err != nil {
		return fmt.Errorf("failed to update booking: %w", err)
	}

	if payment, err := p.store.GetPaymentByReference(booking.ID); err == nil {
		payment.Status = models.PaymentStatusCompleted
		if err := p.store.UpdatePayment(payment); err != nil {
			log.Printf("Failed to update payment record for %s: %v", booking.ID, err)
		}
	}

	// Advance the waiting conversation and deliver the tickets. The session
	// write shares the phone lock with the inbound turn loop: an in-flight
	// turn for this phone either sees PAYMENT_SUCCESS already, or finishes
	// its own write before this one lands.
	lang := models.LanguageEnglish
	unlock := p.sessions.LockPhone(booking.Phone)
	if session, err := p.store.GetSessionByID(booking.SessionID); err == nil {
		lang = session.Language
		session.State = models.StatePaymentSuccess
		session.BookingID = booking.ID
		if err := p.store.SaveSession(session); err != nil {
			log.Printf("Failed to advance session %s: %v", session.SessionID, err)
		}
	}
	unlock()

	reply := p.messages.Render(MsgPaymentConfirmed, lang, MessageParams{
		BookingID: booking.ID,
		Tickets:   booking.Passengers,
	})
	if p.smsSender != nil {
		if err := p.smsSender.SendSMS(booking.Phone, reply); err != nil {
			log.Printf("Failed to send ticket SMS to %s: %v", booking.Phone, err)
		}
	}

	log.Printf("Payment settled: %s for booking %s", webhook.TransactionID, booking.ID)
	return nil
}

func (p *GatewayPaymentService) handlePaymentFailed(webhook *GatewayWebhookPayload) error {
	log.Printf("Payment failed: %s for booking %s - %s",
		webhook.TransactionID, webhook.Reference, webhook.FailureReason)

	if payment, err := p.store.GetPaymentByReference(webhook.Reference); err == nil {
		payment.Status = models.PaymentStatusFailed
		if err := p.store.UpdatePayment(payment); err != nil {
			log.Printf("Failed to update payment record for %s: %v", webhook.Reference, err)
		}
	}
	return nil
}

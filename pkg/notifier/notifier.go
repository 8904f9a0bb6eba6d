package notifier

import (
	"context"
	"fmt"
	"net/smtp"
	"strings"
	"time"

	"salon-booking/internal/data/entity"
	"salon-booking/internal/data/repository"
	"salon-booking/pkg/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Transition event tags carried to the notification sink. The sink
// re-reads the booking when composing the message, so tags identify the
// transition, never the booking's state at send time.
const (
	EventBookingCreated   = "booking_created"
	EventPaymentSubmitted = "payment_submitted"
	EventPaymentVerified  = "payment_verified"
	EventPaymentRejected  = "payment_rejected"
	EventBookingCancelled = "booking_cancelled"
	EventBookingCompleted = "booking_completed"
	EventBookingExpired   = "booking_expired"
)

// Notifier is invoked only after the transition's transaction has
// committed. Delivery is fire-and-forget: at-least-once is acceptable,
// failures must never surface to the caller.
type Notifier interface {
	Notify(bookingID uuid.UUID, event string)
}

type emailNotifier struct {
	repo *repository.Repository
	cfg  utils.EmailConfig
	log  *zap.Logger
}

func NewEmailNotifier(repo *repository.Repository, cfg utils.EmailConfig, log *zap.Logger) Notifier {
	return &emailNotifier{
		repo: repo,
		cfg:  cfg,
		log:  log.With(zap.String("component", "notifier")),
	}
}

func (n *emailNotifier) Notify(bookingID uuid.UUID, event string) {
	if !n.cfg.Enabled {
		return
	}

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()

		if err := n.send(ctx, bookingID, event); err != nil {
			n.log.Error("Failed to send booking status email",
				zap.Error(err),
				zap.String("booking_id", bookingID.String()),
				zap.String("event", event),
			)
		}
	}()
}

func (n *emailNotifier) send(ctx context.Context, bookingID uuid.UUID, event string) error {
	// Always re-read: the booking may have moved on since the transition
	// that scheduled this notification.
	booking, err := n.repo.Booking.FindByID(ctx, bookingID)
	if err != nil {
		return err
	}
	if booking == nil || booking.CustomerEmail == "" {
		return nil
	}

	slot, err := n.repo.Availability.FindByID(ctx, booking.AvailabilityID)
	if err != nil {
		return err
	}
	staff, err := n.repo.Staff.FindByID(ctx, booking.StaffID)
	if err != nil {
		return err
	}
	service, err := n.repo.Service.FindByID(ctx, booking.ServiceID)
	if err != nil {
		return err
	}

	subject, body := composeStatusEmail(booking, slot, staff, service, event)

	msg := strings.Join([]string{
		"From: " + n.cfg.From,
		"To: " + booking.CustomerEmail,
		"Subject: " + subject,
		"",
		body,
	}, "\r\n")

	addr := fmt.Sprintf("%s:%d", n.cfg.Host, n.cfg.Port)
	var auth smtp.Auth
	if n.cfg.User != "" {
		auth = smtp.PlainAuth("", n.cfg.User, n.cfg.Password, n.cfg.Host)
	}

	if err := smtp.SendMail(addr, auth, n.cfg.From, []string{booking.CustomerEmail}, []byte(msg)); err != nil {
		return fmt.Errorf("send mail to %s: %w", booking.CustomerEmail, err)
	}

	n.log.Info("Booking status email sent",
		zap.String("booking_id", bookingID.String()),
		zap.String("public_id", booking.PublicID.String()),
		zap.String("event", event),
	)

	return nil
}

func composeStatusEmail(booking *entity.Booking, slot *entity.Availability, staff *entity.Staff, service *entity.Service, event string) (string, string) {
	label := statusLabel(booking)

	lines := []string{
		fmt.Sprintf("Hi %s,", booking.CustomerName),
		"",
		fmt.Sprintf("Your reservation status has been updated: %s", label),
		"",
		fmt.Sprintf("Booking Ref: %s", booking.PublicID),
	}

	if service != nil {
		lines = append(lines, fmt.Sprintf("Service: %s", service.Name))
	}
	if staff != nil {
		lines = append(lines, fmt.Sprintf("Staff: %s", staff.FullName))
	}
	if slot != nil {
		lines = append(lines, fmt.Sprintf("Schedule: %s - %s",
			slot.StartTime.Local().Format("January 02, 2006 03:04 PM"),
			slot.EndTime.Local().Format("03:04 PM"),
		))
	}
	if booking.PaymentExpiresAt != nil && booking.Status == entity.BookingStatusAwaitingPayment {
		lines = append(lines, fmt.Sprintf("Payment Expires At: %s",
			booking.PaymentExpiresAt.Local().Format("January 02, 2006 03:04 PM")))
	}

	if event == EventPaymentRejected && booking.PaymentRejectionReason != "" {
		lines = append(lines, "", "Payment Rejection Reason:", booking.PaymentRejectionReason)
	}
	if booking.CancelReason != "" {
		lines = append(lines, "", "Cancellation Reason:", booking.CancelReason)
	}

	lines = append(lines, "", "If you need help, please contact support.")

	subject := fmt.Sprintf("Booking %s - %s", booking.PublicID, label)
	return subject, strings.Join(lines, "\n")
}

func statusLabel(booking *entity.Booking) string {
	switch booking.Status {
	case entity.BookingStatusAwaitingPayment:
		if booking.PaymentRejectionReason != "" {
			return "Payment Rejected"
		}
		return "Awaiting Payment"
	case entity.BookingStatusPaymentSubmitted:
		return "Payment Submitted"
	case entity.BookingStatusConfirmed:
		return "Confirmed"
	case entity.BookingStatusCompleted:
		return "Completed"
	case entity.BookingStatusCancelled:
		return "Cancelled"
	default:
		return string(booking.Status)
	}
}

package notifier

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/multierr"

	"github.com/arielsonkoue/mboashop-backend/internal/users"
	"github.com/arielsonkoue/mboashop-backend/pkg/db/models"
	"github.com/arielsonkoue/mboashop-backend/pkg/logger"
	"github.com/arielsonkoue/mboashop-backend/pkg/mail"
	"github.com/arielsonkoue/mboashop-backend/pkg/metrics"
	"github.com/arielsonkoue/mboashop-backend/pkg/whatsapp"
)

const dispatchTimeout = 30 * time.Second

const (
	channelEmailCustomer    = "email_customer"
	channelEmailAdmin       = "email_admin"
	channelWhatsAppCustomer = "whatsapp_customer"
	channelWhatsAppAdmin    = "whatsapp_admin"
	channelAdminLog         = "admin_log"
)

// contactDirectory resolves account and admin contact details.
type contactDirectory interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.User, error)
	FindAdmins(ctx context.Context) ([]users.AdminContact, error)
}

// adminLog records an entry on the admin dashboard feed.
type adminLog interface {
	Create(ctx context.Context, notification *models.Notification) error
}

// Options configures the dispatcher's channels.
type Options struct {
	Mail           mail.Sender
	WhatsApp       whatsapp.Sender
	Directory      contactDirectory
	AdminLog       adminLog
	Logger         *logger.Logger
	Metrics        *metrics.NotifierMetrics
	WhatsAppAdmins bool
}

// Dispatcher fans lifecycle events out to email, WhatsApp and the admin feed.
// Every dispatch is best-effort: failures are logged and counted, never
// surfaced to the calling transaction.
type Dispatcher struct {
	mail           mail.Sender
	whatsapp       whatsapp.Sender
	directory      contactDirectory
	adminLog       adminLog
	log            *logger.Logger
	metrics        *metrics.NotifierMetrics
	whatsappAdmins bool

	// wg tracks in-flight dispatches so tests and shutdown can drain them.
	wg sync.WaitGroup
}

// NewDispatcher wires the dispatcher. Mail, WhatsApp and the admin log may be
// nil; the matching channels are then skipped.
func NewDispatcher(opts Options) (*Dispatcher, error) {
	if opts.Directory == nil {
		return nil, fmt.Errorf("contact directory required")
	}
	if opts.Logger == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &Dispatcher{
		mail:           opts.Mail,
		whatsapp:       opts.WhatsApp,
		directory:      opts.Directory,
		adminLog:       opts.AdminLog,
		log:            opts.Logger,
		metrics:        opts.Metrics,
		whatsappAdmins: opts.WhatsAppAdmins,
	}, nil
}

// Wait blocks until every in-flight dispatch has settled.
func (d *Dispatcher) Wait() {
	d.wg.Wait()
}

// recipient is the customer-facing contact block of an event.
type recipient struct {
	UserID *uuid.UUID
	Email  *string
	Phone  *string
}

func (d *Dispatcher) OrderCreated(ctx context.Context, order *models.Order) {
	d.dispatch(ctx, "order_created", order.OrderCode, orderRecipient(order), orderCreatedContent(order))
}

func (d *Dispatcher) OrderStatusChanged(ctx context.Context, order *models.Order) {
	d.dispatch(ctx, "order_status_changed", order.OrderCode, orderRecipient(order), orderStatusContent(order))
}

func (d *Dispatcher) OrderCanceled(ctx context.Context, order *models.Order) {
	d.dispatch(ctx, "order_canceled", order.OrderCode, orderRecipient(order), orderCanceledContent(order))
}

func (d *Dispatcher) BookingCreated(ctx context.Context, booking *models.TableBooking) {
	d.dispatch(ctx, "booking_created", booking.BookingCode, bookingRecipient(booking), bookingCreatedContent(booking))
}

func (d *Dispatcher) BookingStatusChanged(ctx context.Context, booking *models.TableBooking) {
	d.dispatch(ctx, "booking_confirmed", booking.BookingCode, bookingRecipient(booking), bookingStatusContent(booking))
}

func (d *Dispatcher) BookingCanceled(ctx context.Context, booking *models.TableBooking) {
	d.dispatch(ctx, "booking_canceled", booking.BookingCode, bookingRecipient(booking), bookingCanceledContent(booking))
}

func (d *Dispatcher) FoodOrderCreated(ctx context.Context, order *models.FoodOrder) {
	d.dispatch(ctx, "food_order_created", order.OrderCode, foodOrderRecipient(order), foodOrderCreatedContent(order))
}

func (d *Dispatcher) FoodOrderStatusChanged(ctx context.Context, order *models.FoodOrder) {
	d.dispatch(ctx, "food_order_status_changed", order.OrderCode, foodOrderRecipient(order), foodOrderStatusContent(order))
}

func (d *Dispatcher) FoodOrderCanceled(ctx context.Context, order *models.FoodOrder) {
	d.dispatch(ctx, "food_order_canceled", order.OrderCode, foodOrderRecipient(order), foodOrderCanceledContent(order))
}

// dispatch runs the channel fan-out on a detached context so the caller's
// request lifecycle never truncates delivery.
func (d *Dispatcher) dispatch(ctx context.Context, event, code string, to recipient, msg content) {
	base := context.WithoutCancel(ctx)
	d.wg.Add(1)
	go func() {
		defer d.wg.Done()
		defer func() {
			if r := recover(); r != nil {
				d.log.Error(base, "notification dispatch panicked", fmt.Errorf("panic: %v", r))
			}
		}()

		dctx, cancel := context.WithTimeout(base, dispatchTimeout)
		defer cancel()
		dctx = d.log.WithFields(dctx, map[string]any{
			"event":      event,
			"order_code": code,
		})

		d.resolveAccountContact(dctx, &to)
		admins, err := d.directory.FindAdmins(dctx)
		if err != nil {
			d.log.Warn(d.log.WithField(dctx, "channel", channelAdminLog), "admin contact lookup failed")
		}

		var (
			mu     sync.Mutex
			errs   error
			fanout sync.WaitGroup
		)
		run := func(channel string, fn func(context.Context) error) {
			fanout.Add(1)
			go func() {
				defer fanout.Done()
				start := time.Now()
				err := fn(dctx)
				d.metrics.ObserveDispatch(channel, time.Since(start))
				if err != nil {
					d.metrics.IncFailed(channel)
					mu.Lock()
					errs = multierr.Append(errs, fmt.Errorf("%s: %w", channel, err))
					mu.Unlock()
					return
				}
				d.metrics.IncSent(channel)
			}()
		}

		if d.mail != nil && to.Email != nil {
			email := *to.Email
			run(channelEmailCustomer, func(ctx context.Context) error {
				return d.mail.Send(ctx, mail.Message{
					To:      []string{email},
					Subject: msg.Subject,
					Body:    msg.Body,
				})
			})
		}
		if emails := adminEmails(admins); d.mail != nil && len(emails) > 0 {
			run(channelEmailAdmin, func(ctx context.Context) error {
				return d.mail.Send(ctx, mail.Message{
					To:      emails[:1],
					Bcc:     emails[1:],
					Subject: msg.AdminTitle,
					Body:    msg.AdminMessage,
				})
			})
		}
		if d.whatsapp != nil && to.Phone != nil {
			phone := *to.Phone
			run(channelWhatsAppCustomer, func(ctx context.Context) error {
				return d.whatsapp.SendText(ctx, phone, msg.WhatsApp)
			})
		}
		if d.whatsapp != nil && d.whatsappAdmins {
			for _, admin := range admins {
				if admin.Phone == nil {
					continue
				}
				phone := *admin.Phone
				run(channelWhatsAppAdmin, func(ctx context.Context) error {
					return d.whatsapp.SendText(ctx, phone, msg.AdminMessage)
				})
			}
		}
		if d.adminLog != nil {
			run(channelAdminLog, func(ctx context.Context) error {
				return d.adminLog.Create(ctx, &models.Notification{
					Type:    msg.AdminType,
					Title:   msg.AdminTitle,
					Message: msg.AdminMessage,
					Link:    msg.AdminLink,
				})
			})
		}

		fanout.Wait()
		if errs != nil {
			d.log.Error(dctx, "notification dispatch incomplete", errs)
			return
		}
		d.log.Info(dctx, "notification dispatched")
	}()
}

// resolveAccountContact fills in email/phone from the users table when the
// event belongs to an account rather than a guest.
func (d *Dispatcher) resolveAccountContact(ctx context.Context, to *recipient) {
	if to.UserID == nil || to.Email != nil {
		return
	}
	user, err := d.directory.FindByID(ctx, *to.UserID)
	if err != nil {
		d.log.Warn(d.log.WithUserID(ctx, to.UserID.String()), "account contact lookup failed")
		return
	}
	to.Email = &user.Email
	if to.Phone == nil {
		to.Phone = user.Phone
	}
}

func orderRecipient(order *models.Order) recipient {
	return recipient{UserID: order.UserID, Email: order.Guest.Email, Phone: order.Guest.Phone}
}

func bookingRecipient(booking *models.TableBooking) recipient {
	return recipient{UserID: booking.UserID, Email: booking.Guest.Email, Phone: booking.Guest.Phone}
}

func foodOrderRecipient(order *models.FoodOrder) recipient {
	return recipient{UserID: order.UserID, Email: order.Guest.Email, Phone: order.Guest.Phone}
}

func adminEmails(admins []users.AdminContact) []string {
	emails := make([]string, 0, len(admins))
	for _, admin := range admins {
		if admin.Email != "" {
			emails = append(emails, admin.Email)
		}
	}
	return emails
}

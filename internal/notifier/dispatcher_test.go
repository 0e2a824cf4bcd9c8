package notifier

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/google/uuid"

	"github.com/arielsonkoue/mboashop-backend/internal/users"
	"github.com/arielsonkoue/mboashop-backend/pkg/db/models"
	"github.com/arielsonkoue/mboashop-backend/pkg/enums"
	"github.com/arielsonkoue/mboashop-backend/pkg/logger"
	"github.com/arielsonkoue/mboashop-backend/pkg/mail"
)

type stubMail struct {
	mu   sync.Mutex
	sent []mail.Message
	err  error
}

func (m *stubMail) Send(_ context.Context, msg mail.Message) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	m.sent = append(m.sent, msg)
	return nil
}

func (m *stubMail) messages() []mail.Message {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]mail.Message{}, m.sent...)
}

type whatsAppText struct {
	To   string
	Body string
}

type stubWhatsApp struct {
	mu   sync.Mutex
	sent []whatsAppText
	err  error
}

func (w *stubWhatsApp) SendText(_ context.Context, to, body string) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.err != nil {
		return w.err
	}
	w.sent = append(w.sent, whatsAppText{To: to, Body: body})
	return nil
}

func (w *stubWhatsApp) texts() []whatsAppText {
	w.mu.Lock()
	defer w.mu.Unlock()
	return append([]whatsAppText{}, w.sent...)
}

type stubDirectory struct {
	user      *models.User
	userErr   error
	admins    []users.AdminContact
	adminsErr error
}

func (d *stubDirectory) FindByID(context.Context, uuid.UUID) (*models.User, error) {
	if d.userErr != nil {
		return nil, d.userErr
	}
	if d.user == nil {
		return nil, fmt.Errorf("no user configured")
	}
	return d.user, nil
}

func (d *stubDirectory) FindAdmins(context.Context) ([]users.AdminContact, error) {
	if d.adminsErr != nil {
		return nil, d.adminsErr
	}
	return d.admins, nil
}

type stubAdminLog struct {
	mu      sync.Mutex
	entries []*models.Notification
	err     error
}

func (l *stubAdminLog) Create(_ context.Context, notification *models.Notification) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.err != nil {
		return l.err
	}
	l.entries = append(l.entries, notification)
	return nil
}

func (l *stubAdminLog) logged() []*models.Notification {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]*models.Notification{}, l.entries...)
}

type dispatcherFixture struct {
	mail      *stubMail
	whatsapp  *stubWhatsApp
	directory *stubDirectory
	adminLog  *stubAdminLog
}

func newDispatcher(t *testing.T, f *dispatcherFixture, whatsappAdmins bool) *Dispatcher {
	t.Helper()
	opts := Options{
		Directory:      f.directory,
		Logger:         logger.New(logger.Options{ServiceName: "notifier-test"}),
		WhatsAppAdmins: whatsappAdmins,
	}
	if f.mail != nil {
		opts.Mail = f.mail
	}
	if f.whatsapp != nil {
		opts.WhatsApp = f.whatsapp
	}
	if f.adminLog != nil {
		opts.AdminLog = f.adminLog
	}
	d, err := NewDispatcher(opts)
	if err != nil {
		t.Fatalf("NewDispatcher error: %v", err)
	}
	return d
}

func guestOrder() *models.Order {
	name, email, phone := "Ariane", "ariane@example.cm", "+237670000001"
	return &models.Order{
		ID:        uuid.New(),
		OrderCode: "MB-20260314-ABC234",
		Status:    enums.OrderStatusToProcess,
		Guest:     models.GuestContact{Name: &name, Email: &email, Phone: &phone},
	}
}

func adminRoster() []users.AdminContact {
	phone := "+237699000001"
	return []users.AdminContact{
		{Email: "owner@mboashop.cm", Phone: &phone},
		{Email: "staff@mboashop.cm"},
	}
}

func TestDispatchGuestOrderFansOutToAllChannels(t *testing.T) {
	f := &dispatcherFixture{
		mail:      &stubMail{},
		whatsapp:  &stubWhatsApp{},
		directory: &stubDirectory{admins: adminRoster()},
		adminLog:  &stubAdminLog{},
	}
	d := newDispatcher(t, f, true)

	d.OrderCreated(context.Background(), guestOrder())
	d.Wait()

	var customer, admin *mail.Message
	msgs := f.mail.messages()
	for i := range msgs {
		switch msgs[i].To[0] {
		case "ariane@example.cm":
			customer = &msgs[i]
		case "owner@mboashop.cm":
			admin = &msgs[i]
		}
	}
	if customer == nil {
		t.Fatalf("expected customer email, got %+v", msgs)
	}
	if admin == nil {
		t.Fatalf("expected admin email, got %+v", msgs)
	}
	if len(admin.Bcc) != 1 || admin.Bcc[0] != "staff@mboashop.cm" {
		t.Fatalf("expected remaining admins on bcc, got %+v", admin.Bcc)
	}

	texts := f.whatsapp.texts()
	if len(texts) != 2 {
		t.Fatalf("expected customer and admin whatsapp messages, got %+v", texts)
	}
	recipients := map[string]bool{}
	for _, text := range texts {
		recipients[text.To] = true
	}
	if !recipients["+237670000001"] || !recipients["+237699000001"] {
		t.Fatalf("unexpected whatsapp recipients: %+v", texts)
	}

	logged := f.adminLog.logged()
	if len(logged) != 1 {
		t.Fatalf("expected one admin feed entry, got %d", len(logged))
	}
	if logged[0].Title == "" || logged[0].Message == "" {
		t.Fatalf("admin feed entry missing content: %+v", logged[0])
	}
	if logged[0].Type != enums.NotificationTypeOrderEvent {
		t.Fatalf("expected order_event feed entry, got %s", logged[0].Type)
	}
}

func TestDispatchResolvesAccountContact(t *testing.T) {
	userID := uuid.New()
	phone := "+237655000002"
	f := &dispatcherFixture{
		mail: &stubMail{},
		directory: &stubDirectory{
			user: &models.User{ID: userID, Email: "client@example.cm", Phone: &phone},
		},
	}
	d := newDispatcher(t, f, false)

	order := &models.Order{
		ID:        uuid.New(),
		OrderCode: "MB-20260314-XYZ789",
		Status:    enums.OrderStatusShipping,
		UserID:    &userID,
	}
	d.OrderStatusChanged(context.Background(), order)
	d.Wait()

	msgs := f.mail.messages()
	if len(msgs) != 1 {
		t.Fatalf("expected one email, got %d", len(msgs))
	}
	if msgs[0].To[0] != "client@example.cm" {
		t.Fatalf("expected resolved account email, got %+v", msgs[0].To)
	}
}

func TestDispatchChannelFailureIsIsolated(t *testing.T) {
	f := &dispatcherFixture{
		mail:      &stubMail{err: fmt.Errorf("smtp unreachable")},
		whatsapp:  &stubWhatsApp{},
		directory: &stubDirectory{},
		adminLog:  &stubAdminLog{},
	}
	d := newDispatcher(t, f, false)

	d.FoodOrderCreated(context.Background(), &models.FoodOrder{
		ID:        uuid.New(),
		OrderCode: "FD-20260314-ABC234",
		Status:    enums.FoodOrderStatusPending,
		Guest: models.GuestContact{
			Email: ptr("ariane@example.cm"),
			Phone: ptr("+237670000001"),
		},
	})
	d.Wait()

	if texts := f.whatsapp.texts(); len(texts) != 1 {
		t.Fatalf("whatsapp delivery should survive mail failure, got %+v", texts)
	}
	logged := f.adminLog.logged()
	if len(logged) != 1 {
		t.Fatalf("admin log should survive mail failure, got %d entries", len(logged))
	}
	if logged[0].Type != enums.NotificationTypeFoodOrderEvent {
		t.Fatalf("expected food_order_event feed entry, got %s", logged[0].Type)
	}
}

func TestDispatchSkipsMissingChannels(t *testing.T) {
	f := &dispatcherFixture{
		directory: &stubDirectory{admins: adminRoster()},
		adminLog:  &stubAdminLog{},
	}
	d := newDispatcher(t, f, true)

	booking := &models.TableBooking{
		ID:          uuid.New(),
		BookingCode: "BK-20260314-ABC234",
		Status:      enums.BookingStatusConfirmed,
		PartySize:   4,
		Guest:       models.GuestContact{Email: ptr("ariane@example.cm")},
	}
	d.BookingStatusChanged(context.Background(), booking)
	d.Wait()

	logged := f.adminLog.logged()
	if len(logged) != 1 {
		t.Fatalf("expected admin feed entry even without mail or whatsapp, got %d", len(logged))
	}
	if logged[0].Type != enums.NotificationTypeBookingEvent {
		t.Fatalf("expected booking_event feed entry, got %s", logged[0].Type)
	}
}

func TestDispatchAdminWhatsAppGate(t *testing.T) {
	f := &dispatcherFixture{
		whatsapp:  &stubWhatsApp{},
		directory: &stubDirectory{admins: adminRoster()},
	}
	d := newDispatcher(t, f, false)

	d.OrderCanceled(context.Background(), guestOrder())
	d.Wait()

	texts := f.whatsapp.texts()
	if len(texts) != 1 || texts[0].To != "+237670000001" {
		t.Fatalf("expected customer-only whatsapp when admin gate is off, got %+v", texts)
	}
}

func TestDispatchAdminLookupFailureStillNotifiesGuest(t *testing.T) {
	f := &dispatcherFixture{
		mail:      &stubMail{},
		directory: &stubDirectory{adminsErr: fmt.Errorf("db down")},
	}
	d := newDispatcher(t, f, false)

	d.BookingCreated(context.Background(), &models.TableBooking{
		ID:          uuid.New(),
		BookingCode: "BK-20260314-DEF567",
		Status:      enums.BookingStatusPending,
		PartySize:   2,
		Guest:       models.GuestContact{Email: ptr("ariane@example.cm")},
	})
	d.Wait()

	msgs := f.mail.messages()
	if len(msgs) != 1 || msgs[0].To[0] != "ariane@example.cm" {
		t.Fatalf("expected guest email despite admin lookup failure, got %+v", msgs)
	}
}

func ptr(value string) *string { return &value }

package notifier

import (
	"fmt"

	"github.com/arielsonkoue/mboashop-backend/pkg/db/models"
	"github.com/arielsonkoue/mboashop-backend/pkg/enums"
)

// content is everything a single event produces across channels: a customer
// email, a short WhatsApp text, and an admin dashboard entry.
type content struct {
	Subject      string
	Body         string
	WhatsApp     string
	AdminType    enums.NotificationType
	AdminTitle   string
	AdminMessage string
	AdminLink    *string
}

func orderCreatedContent(order *models.Order) content {
	link := "/admin/orders/" + order.ID.String()
	return content{
		Subject: fmt.Sprintf("Order %s received", order.OrderCode),
		Body: fmt.Sprintf(
			"Hello,\n\nWe received your order %s (%d items, %s).\nWe will notify you as soon as it ships.\n\nMboashop",
			order.OrderCode, order.TotalItems, fcfa(order.TotalPriceFCFA)),
		WhatsApp: fmt.Sprintf("Mboashop: order %s received (%s). We will keep you posted.",
			order.OrderCode, fcfa(order.TotalPriceFCFA)),
		AdminType:  enums.NotificationTypeOrderEvent,
		AdminTitle: fmt.Sprintf("New order %s", order.OrderCode),
		AdminMessage: fmt.Sprintf("Order %s placed: %d items, %s.",
			order.OrderCode, order.TotalItems, fcfa(order.TotalPriceFCFA)),
		AdminLink: &link,
	}
}

func orderStatusContent(order *models.Order) content {
	link := "/admin/orders/" + order.ID.String()
	var subject, body, wa string
	switch order.Status {
	case enums.OrderStatusShipping:
		subject = fmt.Sprintf("Order %s is on the way", order.OrderCode)
		body = fmt.Sprintf(
			"Hello,\n\nYour order %s has shipped and is on its way.\n\nMboashop",
			order.OrderCode)
		wa = fmt.Sprintf("Mboashop: order %s has shipped.", order.OrderCode)
	case enums.OrderStatusDelivered:
		subject = fmt.Sprintf("Order %s delivered", order.OrderCode)
		body = fmt.Sprintf(
			"Hello,\n\nYour order %s was delivered. Thank you for shopping with us.\n\nMboashop",
			order.OrderCode)
		wa = fmt.Sprintf("Mboashop: order %s was delivered. Thank you!", order.OrderCode)
	default:
		subject = fmt.Sprintf("Order %s updated", order.OrderCode)
		body = fmt.Sprintf(
			"Hello,\n\nYour order %s status is now %s.\n\nMboashop",
			order.OrderCode, order.Status)
		wa = fmt.Sprintf("Mboashop: order %s is now %s.", order.OrderCode, order.Status)
	}
	return content{
		Subject:      subject,
		Body:         body,
		WhatsApp:     wa,
		AdminType:    enums.NotificationTypeOrderEvent,
		AdminTitle:   fmt.Sprintf("Order %s is %s", order.OrderCode, order.Status),
		AdminMessage: fmt.Sprintf("Order %s moved to %s.", order.OrderCode, order.Status),
		AdminLink:    &link,
	}
}

func orderCanceledContent(order *models.Order) content {
	link := "/admin/orders/" + order.ID.String()
	reason := ""
	if order.CancelReason != nil {
		reason = *order.CancelReason
	}
	return content{
		Subject: fmt.Sprintf("Order %s canceled", order.OrderCode),
		Body: fmt.Sprintf(
			"Hello,\n\nYour order %s was canceled.\nReason: %s\n\nMboashop",
			order.OrderCode, reason),
		WhatsApp:     fmt.Sprintf("Mboashop: order %s was canceled. Reason: %s", order.OrderCode, reason),
		AdminType:    enums.NotificationTypeOrderEvent,
		AdminTitle:   fmt.Sprintf("Order %s canceled", order.OrderCode),
		AdminMessage: fmt.Sprintf("Order %s canceled (%s). Reason: %s.", order.OrderCode, canceledBy(order.CanceledBy), reason),
		AdminLink:    &link,
	}
}

func bookingCreatedContent(booking *models.TableBooking) content {
	link := "/admin/bookings/" + booking.ID.String()
	when := booking.BookingAt.Format("Mon 02 Jan 2006 15:04")
	return content{
		Subject: fmt.Sprintf("Booking %s received", booking.BookingCode),
		Body: fmt.Sprintf(
			"Hello,\n\nWe received your table booking %s for %d people on %s.\nWe will confirm it shortly.\n\nMboashop",
			booking.BookingCode, booking.PartySize, when),
		WhatsApp: fmt.Sprintf("Mboashop: booking %s received for %s (%d people). Awaiting confirmation.",
			booking.BookingCode, when, booking.PartySize),
		AdminType:  enums.NotificationTypeBookingEvent,
		AdminTitle: fmt.Sprintf("New booking %s", booking.BookingCode),
		AdminMessage: fmt.Sprintf("Table booking %s requested for %s, party of %d.",
			booking.BookingCode, when, booking.PartySize),
		AdminLink: &link,
	}
}

func bookingStatusContent(booking *models.TableBooking) content {
	link := "/admin/bookings/" + booking.ID.String()
	when := booking.BookingAt.Format("Mon 02 Jan 2006 15:04")
	return content{
		Subject: fmt.Sprintf("Booking %s confirmed", booking.BookingCode),
		Body: fmt.Sprintf(
			"Hello,\n\nYour table booking %s for %d people on %s is confirmed. See you soon!\n\nMboashop",
			booking.BookingCode, booking.PartySize, when),
		WhatsApp: fmt.Sprintf("Mboashop: booking %s confirmed for %s (%d people).",
			booking.BookingCode, when, booking.PartySize),
		AdminType:    enums.NotificationTypeBookingEvent,
		AdminTitle:   fmt.Sprintf("Booking %s confirmed", booking.BookingCode),
		AdminMessage: fmt.Sprintf("Table booking %s confirmed for %s.", booking.BookingCode, when),
		AdminLink:    &link,
	}
}

func bookingCanceledContent(booking *models.TableBooking) content {
	link := "/admin/bookings/" + booking.ID.String()
	reason := ""
	if booking.CancelReason != nil {
		reason = *booking.CancelReason
	}
	return content{
		Subject: fmt.Sprintf("Booking %s canceled", booking.BookingCode),
		Body: fmt.Sprintf(
			"Hello,\n\nYour table booking %s was canceled.\nReason: %s\n\nMboashop",
			booking.BookingCode, reason),
		WhatsApp:     fmt.Sprintf("Mboashop: booking %s was canceled. Reason: %s", booking.BookingCode, reason),
		AdminType:    enums.NotificationTypeBookingEvent,
		AdminTitle:   fmt.Sprintf("Booking %s canceled", booking.BookingCode),
		AdminMessage: fmt.Sprintf("Booking %s canceled (%s). Reason: %s.", booking.BookingCode, canceledBy(booking.CanceledBy), reason),
		AdminLink:    &link,
	}
}

func foodOrderCreatedContent(order *models.FoodOrder) content {
	link := "/admin/food-orders/" + order.ID.String()
	return content{
		Subject: fmt.Sprintf("Food order %s received", order.OrderCode),
		Body: fmt.Sprintf(
			"Hello,\n\nWe received your food order %s (%d items, %s).\nThe kitchen will start on it shortly.\n\nMboashop",
			order.OrderCode, order.TotalItems, fcfa(order.TotalPriceFCFA)),
		WhatsApp: fmt.Sprintf("Mboashop: food order %s received (%s).",
			order.OrderCode, fcfa(order.TotalPriceFCFA)),
		AdminType:  enums.NotificationTypeFoodOrderEvent,
		AdminTitle: fmt.Sprintf("New food order %s", order.OrderCode),
		AdminMessage: fmt.Sprintf("Food order %s placed: %d items, %s.",
			order.OrderCode, order.TotalItems, fcfa(order.TotalPriceFCFA)),
		AdminLink: &link,
	}
}

func foodOrderStatusContent(order *models.FoodOrder) content {
	link := "/admin/food-orders/" + order.ID.String()
	var subject, body, wa string
	switch order.Status {
	case enums.FoodOrderStatusPreparing:
		subject = fmt.Sprintf("Food order %s is being prepared", order.OrderCode)
		body = fmt.Sprintf(
			"Hello,\n\nThe kitchen has started preparing your order %s.\n\nMboashop",
			order.OrderCode)
		wa = fmt.Sprintf("Mboashop: food order %s is being prepared.", order.OrderCode)
	case enums.FoodOrderStatusDelivered:
		subject = fmt.Sprintf("Food order %s delivered", order.OrderCode)
		body = fmt.Sprintf(
			"Hello,\n\nYour food order %s was delivered. Bon appetit!\n\nMboashop",
			order.OrderCode)
		wa = fmt.Sprintf("Mboashop: food order %s was delivered. Bon appetit!", order.OrderCode)
	default:
		subject = fmt.Sprintf("Food order %s updated", order.OrderCode)
		body = fmt.Sprintf(
			"Hello,\n\nYour food order %s status is now %s.\n\nMboashop",
			order.OrderCode, order.Status)
		wa = fmt.Sprintf("Mboashop: food order %s is now %s.", order.OrderCode, order.Status)
	}
	return content{
		Subject:      subject,
		Body:         body,
		WhatsApp:     wa,
		AdminType:    enums.NotificationTypeFoodOrderEvent,
		AdminTitle:   fmt.Sprintf("Food order %s is %s", order.OrderCode, order.Status),
		AdminMessage: fmt.Sprintf("Food order %s moved to %s.", order.OrderCode, order.Status),
		AdminLink:    &link,
	}
}

func foodOrderCanceledContent(order *models.FoodOrder) content {
	link := "/admin/food-orders/" + order.ID.String()
	reason := ""
	if order.CancelReason != nil {
		reason = *order.CancelReason
	}
	return content{
		Subject: fmt.Sprintf("Food order %s canceled", order.OrderCode),
		Body: fmt.Sprintf(
			"Hello,\n\nYour food order %s was canceled.\nReason: %s\n\nMboashop",
			order.OrderCode, reason),
		WhatsApp:     fmt.Sprintf("Mboashop: food order %s was canceled. Reason: %s", order.OrderCode, reason),
		AdminType:    enums.NotificationTypeFoodOrderEvent,
		AdminTitle:   fmt.Sprintf("Food order %s canceled", order.OrderCode),
		AdminMessage: fmt.Sprintf("Food order %s canceled (%s). Reason: %s.", order.OrderCode, canceledBy(order.CanceledBy), reason),
		AdminLink:    &link,
	}
}

func fcfa(amount int) string {
	return fmt.Sprintf("%d FCFA", amount)
}

func canceledBy(actor *enums.ActorRole) string {
	if actor == nil {
		return "unknown"
	}
	return actor.String()
}

package enums

import "fmt"

// NotificationType maps to the notification_type enum in Postgres.
type NotificationType string

const (
	NotificationTypeOrderEvent     NotificationType = "order_event"
	NotificationTypeBookingEvent   NotificationType = "booking_event"
	NotificationTypeFoodOrderEvent NotificationType = "food_order_event"
	NotificationTypeSystemAlert    NotificationType = "system_alert"
)

var validNotificationTypes = []NotificationType{
	NotificationTypeOrderEvent,
	NotificationTypeBookingEvent,
	NotificationTypeFoodOrderEvent,
	NotificationTypeSystemAlert,
}

// IsValid checks whether the given type matches the canonical enum.
func (n NotificationType) IsValid() bool {
	for _, candidate := range validNotificationTypes {
		if candidate == n {
			return true
		}
	}
	return false
}

// ParseNotificationType converts raw strings into NotificationType.
func ParseNotificationType(value string) (NotificationType, error) {
	for _, candidate := range validNotificationTypes {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid notification type %q", value)
}

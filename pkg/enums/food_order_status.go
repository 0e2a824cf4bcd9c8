package enums

import "fmt"

// FoodOrderStatus tracks the lifecycle of a restaurant food order.
type FoodOrderStatus string

const (
	FoodOrderStatusPending   FoodOrderStatus = "PENDING"
	FoodOrderStatusPreparing FoodOrderStatus = "PREPARING"
	FoodOrderStatusDelivered FoodOrderStatus = "DELIVERED"
	FoodOrderStatusCanceled  FoodOrderStatus = "CANCELED"
)

var validFoodOrderStatuses = []FoodOrderStatus{
	FoodOrderStatusPending,
	FoodOrderStatusPreparing,
	FoodOrderStatusDelivered,
	FoodOrderStatusCanceled,
}

// String implements fmt.Stringer.
func (f FoodOrderStatus) String() string {
	return string(f)
}

// IsValid reports whether the value is a known FoodOrderStatus.
func (f FoodOrderStatus) IsValid() bool {
	for _, candidate := range validFoodOrderStatuses {
		if candidate == f {
			return true
		}
	}
	return false
}

// IsTerminal reports whether no further transition can leave the status.
func (f FoodOrderStatus) IsTerminal() bool {
	return f == FoodOrderStatusDelivered || f == FoodOrderStatusCanceled
}

// ParseFoodOrderStatus converts raw input into a FoodOrderStatus.
func ParseFoodOrderStatus(value string) (FoodOrderStatus, error) {
	for _, candidate := range validFoodOrderStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid food order status %q", value)
}

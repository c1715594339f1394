package views

import "strings"

// Color is a badge palette entry.
type Color struct {
	Background string `json:"bg"`
	Text       string `json:"text"`
}

var defaultColor = Color{Background: "#f3f4f6", Text: "#374151"}

var orderColors = map[string]Color{
	"pending":    {Background: "#fef3c7", Text: "#92400e"},
	"processing": {Background: "#dbeafe", Text: "#1e40af"},
	"shipped":    {Background: "#e0e7ff", Text: "#4338ca"},
	"delivered":  {Background: "#dcfce7", Text: "#166534"},
	"cancelled":  {Background: "#fee2e2", Text: "#991b1b"},
}

var paymentColors = map[string]Color{
	"paid":     {Background: "#dcfce7", Text: "#166534"},
	"unpaid":   {Background: "#fef3c7", Text: "#92400e"},
	"failed":   {Background: "#fee2e2", Text: "#991b1b"},
	"refunded": {Background: "#e0e7ff", Text: "#4338ca"},
}

var (
	OrderStatuses   = []string{"pending", "processing", "shipped", "delivered", "cancelled"}
	PaymentStatuses = []string{"unpaid", "paid", "failed", "refunded"}
	PaymentMethods  = []string{"cod", "esewa", "khalti", "bank_transfer"}
)

func OrderStatusColor(status string) Color {
	if c, ok := orderColors[strings.ToLower(status)]; ok {
		return c
	}
	return defaultColor
}

func PaymentStatusColor(status string) Color {
	if c, ok := paymentColors[strings.ToLower(status)]; ok {
		return c
	}
	return defaultColor
}

type Step struct {
	Status  string `json:"status"`
	Reached bool   `json:"reached"`
	Current bool   `json:"current"`
}

var timelineSteps = []string{"pending", "processing", "shipped", "delivered"}

// OrderTimeline lays out the fulfilment steps for an order. A cancelled or
// unknown status reaches no step.
func OrderTimeline(status string) []Step {
	status = strings.ToLower(status)
	at := -1
	for i, s := range timelineSteps {
		if s == status {
			at = i
		}
	}

	steps := make([]Step, len(timelineSteps))
	for i, s := range timelineSteps {
		steps[i] = Step{Status: s, Reached: i <= at, Current: i == at}
	}
	return steps
}

// Cancellable reports whether a customer may still cancel the order.
func Cancellable(status string) bool {
	return strings.EqualFold(status, "pending")
}

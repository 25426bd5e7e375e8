package models

import "fmt"

// Display code formats. Table codes are tied to the table identity and come
// back once the table's order completes; takeaway and delivery codes are
// fed from database sequences and never reused.
const (
	TableCodePrefix    = "MASA-"
	TakeawayCodePrefix = "PKT-"
	DeliveryCodePrefix = "ONLNPKT-"
)

func TableCode(tableNumber int) string {
	return fmt.Sprintf("%s%d", TableCodePrefix, tableNumber)
}

func TakeawayCode(seq int64) string {
	return fmt.Sprintf("%s%03d", TakeawayCodePrefix, seq)
}

func DeliveryCode(seq int64) string {
	return fmt.Sprintf("%s%03d", DeliveryCodePrefix, seq)
}

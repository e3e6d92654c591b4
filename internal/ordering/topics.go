package ordering

const (
	TopicOrderConfirmed = "order.confirmed"
	TopicOrderFailed    = "order.failed"
)

// Partition key = order id (cart id for failures), so the events of one
// order stay ordered.
func PartitionKey(id string) []byte { return []byte(id) }

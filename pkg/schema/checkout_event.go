package schema

const CheckoutEventSchemaTextV1 = `{
	"type": "record",
	"namespace": "storefront",
	"name": "checkout_event",
	"fields": [
		{"name": "session_id", "type": "string"},
		{"name": "event_type", "type": "string"},
		{"name": "product_id", "type": "long"},
		{"name": "amount_cents", "type": "long"},
		{"name": "unix_ms", "type": "long"}
	]
}`

type CheckoutEventV1 struct {
	SessionID   string `avro:"session_id"`
	EventType   string `avro:"event_type"`
	ProductID   int64  `avro:"product_id"`
	AmountCents int64  `avro:"amount_cents"`
	UnixMS      int64  `avro:"unix_ms"`
}

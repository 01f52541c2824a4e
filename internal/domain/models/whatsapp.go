package models

// WhatsAppMessage is an inbound Twilio WhatsApp message after the
// `whatsapp:` prefixes have been stripped from the phone numbers.
type WhatsAppMessage struct {
	FromNumber string
	ToNumber   string
	Body       string
	MessageSid string
}

// IntakeStatus describes the outcome of the WhatsApp ticket-creation pathway.
type IntakeStatus string

const (
	IntakeCreated          IntakeStatus = "success"
	IntakeValidationFailed IntakeStatus = "validation_failed"
	IntakeError            IntakeStatus = "error"
)

// IntakeResult carries what the WhatsApp handler needs to reply to the
// customer: either the created ticket coordinates or guidance text.
type IntakeResult struct {
	Status   IntakeStatus
	TicketID string
	Subject  string
	Message  string
}

package models

import "encoding/json"

// IncomingTicketEvent carries the fields extracted from a Zendesk webhook envelope.
// A missing `detail` object is tolerated; fields simply stay empty.
type IncomingTicketEvent struct {
	TicketID      string
	Subject       string
	Description   string
	EventType     string
	CurrentStatus string
}

// TicketEventEnvelope mirrors the JSON body Zendesk posts on ticket events.
type TicketEventEnvelope struct {
	Event  *TicketEventChange `json:"event,omitempty"`
	Detail *TicketDetail      `json:"detail,omitempty"`
}

// TicketEventChange describes a status transition on the ticket.
type TicketEventChange struct {
	Current  string `json:"current"`
	Previous string `json:"previous,omitempty"`
}

// TicketDetail is the nested ticket snapshot inside the webhook envelope.
type TicketDetail struct {
	ID          TicketID `json:"id"`
	Subject     string   `json:"subject"`
	Description string   `json:"description"`
	Status      string   `json:"status"`
}

// TicketID tolerates Zendesk sending ticket ids as JSON numbers or strings
// depending on the event source.
type TicketID string

func (t *TicketID) UnmarshalJSON(data []byte) error {
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*t = TicketID(s)
		return nil
	}

	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	*t = TicketID(n.String())
	return nil
}

// PublicComment is the projection of a Zendesk comment forwarded to the
// analyzer. Every other comment field is dropped to keep the model input small.
type PublicComment struct {
	PlainBody string `json:"plain_body"`
	CreatedAt string `json:"created_at"`
	AuthorID  any    `json:"author_id"`
}

// Requester identifies who a ticket is created on behalf of.
type Requester struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

// TicketDraft is the shape sent to Zendesk when creating a ticket from an
// inbound WhatsApp message.
type TicketDraft struct {
	Subject     string    `json:"subject"`
	Description string    `json:"description"`
	Requester   Requester `json:"requester"`
	Tags        []string  `json:"tags"`
	Priority    string    `json:"priority"`
	Type        string    `json:"type"`
}

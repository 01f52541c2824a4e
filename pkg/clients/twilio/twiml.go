package twilio

// The TwiML bodies returned to Twilio are a fixed part of the webhook
// contract: an empty acknowledgement (the actual WhatsApp reply goes out
// through the messaging API separately) and a generic apology on failure.

const emptyTwiML = `<?xml version="1.0" encoding="UTF-8"?>
<Response>
    <!-- WhatsApp response sent separately -->
</Response>`

const errorTwiML = `<?xml version="1.0" encoding="UTF-8"?>
<Response>
    <Message>Sorry, we encountered an error processing your request. Please try again later.</Message>
</Response>`

// EmptyTwiML acknowledges a webhook without instructing Twilio to reply.
func EmptyTwiML() string { return emptyTwiML }

// ErrorTwiML asks Twilio to deliver the generic apology message.
func ErrorTwiML() string { return errorTwiML }

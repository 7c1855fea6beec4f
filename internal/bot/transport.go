package bot

import "rvd/internal/models"

// Button is one inline keyboard button carrying a callback payload.
type Button struct {
	Text string
	Data string
}

// Chat is the transport-neutral view of the chat an update came from.
type Chat struct {
	ID       int64
	Kind     models.RequesterKind
	Title    string
	ThreadID int
}

// User is the transport-neutral view of the acting user.
type User struct {
	ID       int64
	Username string
}

// Transport is the outbound boundary towards the chat service. Send and Edit
// carry their own timeouts inside the adapter; a failed call is a
// per-destination condition the caller records and skips, never a process
// failure.
type Transport interface {
	// Send posts text with an optional inline keyboard and returns the
	// message ID usable to edit this rendering later.
	Send(destinationID int64, threadID int, text string, buttons [][]Button) (int, error)
	SendLocation(destinationID int64, threadID int, lat, lon float64) error
	Edit(destinationID int64, messageID int, text string, buttons [][]Button) error
	// SendPlain posts a plain notice without any keyboard.
	SendPlain(destinationID int64, text string) error
	// PromptLocation shows a one-time reply keyboard with a location-request
	// button.
	PromptLocation(destinationID int64, text, buttonText string) error
	// ReplyRemoveKeyboard posts text and removes the reply keyboard again.
	ReplyRemoveKeyboard(destinationID int64, text string) error
}

// UpdateHandler receives inbound transport events. Implemented by the bot
// controller; the adapter only translates between library and neutral types.
type UpdateHandler interface {
	HandleStart(chat Chat, from User)
	HandleSubscribe(chat Chat, from User)
	HandleLocation(chat Chat, from User, lat, lon float64)
	// HandleCallback processes a button click; the returned ack text is shown
	// to the actor (empty for a silent ack).
	HandleCallback(chat Chat, from User, messageID int, payload string) string
	// HandlePromotion fires when the bot itself was made administrator of a
	// chat, which auto-triggers the subscription path.
	HandlePromotion(chat Chat, from User)
}

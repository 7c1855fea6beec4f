package models

// RequesterKind tags the chat type a subscription request originates from.
// Prompt wording is a pure function of the kind (see bot package), so the
// per-kind behavior stays an explicit, testable branch.
type RequesterKind uint8

const (
	KindPrivate RequesterKind = iota
	KindGroup
	KindSupergroup
	KindChannel
)

func (k RequesterKind) String() string {
	switch k {
	case KindPrivate:
		return "private"
	case KindGroup:
		return "group"
	case KindSupergroup:
		return "supergroup"
	case KindChannel:
		return "channel"
	}
	return "unknown"
}

// SubscriptionRequest is ephemeral: it lives in memory between the requester's
// trigger and the owner's approve/reject click, and is lost on restart.
type SubscriptionRequest struct {
	ID              int64
	Destination     int64
	ThreadID        int
	Kind            RequesterKind
	Title           string
	Requester       string
	PromptMessageID int
}

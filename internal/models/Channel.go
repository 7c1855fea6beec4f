package models

import "strconv"

// ChannelEntry is one subscribed destination: a chat plus an optional
// sub-thread. The pair is unique within the directory.
type ChannelEntry struct {
	DestinationID int64 `json:"destination_id"`
	ThreadID      int   `json:"thread_id,omitempty"`
}

func (e ChannelEntry) Key() string {
	return strconv.FormatInt(e.DestinationID, 10) + ":" + strconv.Itoa(e.ThreadID)
}

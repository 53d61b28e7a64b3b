package clicks

import "time"

const (
	// TopicLinkVisited carries one event per successful resolution.
	TopicLinkVisited = "link.visited"
	// EventTypeLinkVisited is the message metadata event type of LinkVisitedEvent.
	EventTypeLinkVisited = "link_visited"
)

// LinkVisitedEvent is published when a code resolves to its target.
type LinkVisitedEvent struct {
	Code      string    `json:"code"`
	VisitedAt time.Time `json:"visitedAt"`
}

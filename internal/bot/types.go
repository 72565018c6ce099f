package bot

import "devbot/internal/attachments"

// IncomingMessage is one inbound chat turn from the transport layer.
type IncomingMessage struct {
	Text        string                   `json:"text"`
	Attachments []attachments.Attachment `json:"attachments,omitempty"`
	// Value carries the payload of a card action submit; its command
	// string re-enters the dispatcher in place of typed text.
	Value *SubmitValue `json:"value,omitempty"`
}

// SubmitValue is the data attached to a card action button.
type SubmitValue struct {
	Command string `json:"command"`
}

// Reply is the outbound result of one dispatch: plain text or a card.
type Reply struct {
	Text string `json:"text,omitempty"`
	Card *Card  `json:"card,omitempty"`
}

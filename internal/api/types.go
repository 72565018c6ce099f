package api

import (
	"devbot/internal/attachments"
	"devbot/internal/bot"
)

const adaptiveCardContentType = "application/vnd.microsoft.card.adaptive"

// activity is the transport-layer message envelope posted by the bot
// framework.
type activity struct {
	Type        string                   `json:"type"`
	Text        string                   `json:"text,omitempty"`
	Attachments []attachments.Attachment `json:"attachments,omitempty"`
	Value       *bot.SubmitValue         `json:"value,omitempty"`
}

// replyActivity is the outbound envelope: plain text, or one adaptive-card
// attachment.
type replyActivity struct {
	Type        string           `json:"type"`
	Text        string           `json:"text,omitempty"`
	Attachments []cardAttachment `json:"attachments,omitempty"`
}

type cardAttachment struct {
	ContentType string    `json:"contentType"`
	Content     *bot.Card `json:"content"`
}

func toReplyActivity(reply bot.Reply) replyActivity {
	out := replyActivity{Type: "message"}
	if reply.Card != nil {
		out.Attachments = []cardAttachment{{ContentType: adaptiveCardContentType, Content: reply.Card}}
		return out
	}
	out.Text = reply.Text
	return out
}

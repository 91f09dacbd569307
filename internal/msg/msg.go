// Package msg models normalized conversation messages and streams them out
// of a thread's export files.
package msg

import "time"

// Kind classifies a message's content.
type Kind string

const (
	KindText       Kind = "text"
	KindPhoto      Kind = "photo"
	KindVideo      Kind = "video"
	KindGIF        Kind = "gif"
	KindSticker    Kind = "sticker"
	KindShare      Kind = "share"
	KindUnsendable Kind = "unsendable"
	KindOther      Kind = "other"
)

// Reaction is one emoji reaction left on a message.
type Reaction struct {
	Actor string
	Emoji string
}

// Message is a normalized message record. Export order is not chronological;
// consumers must treat the stream as unordered.
type Message struct {
	Sender       string
	Timestamp    time.Time
	HasTimestamp bool
	Kind         Kind
	Text         string
	Reactions    []Reaction
}

// rawMessage mirrors the export's on-disk message shape.
type rawMessage struct {
	SenderName  string          `json:"sender_name"`
	TimestampMS *int64          `json:"timestamp_ms"`
	Content     string          `json:"content"`
	Photos      []rawAttachment `json:"photos"`
	Videos      []rawAttachment `json:"videos"`
	GIFs        []rawAttachment `json:"gifs"`
	Sticker     *rawAttachment  `json:"sticker"`
	Share       *rawShare       `json:"share"`
	Reactions   []rawReaction   `json:"reactions"`
	IsUnsent    bool            `json:"is_unsent"`
	Type        string          `json:"type"`
}

type rawAttachment struct {
	URI string `json:"uri"`
}

type rawShare struct {
	Link string `json:"link"`
}

type rawReaction struct {
	Reaction string `json:"reaction"`
	Actor    string `json:"actor"`
}

package msg

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/johns/chatstats/internal/export"
	"github.com/johns/chatstats/internal/roster"
)

// Stream lazily yields a thread's messages in a single forward pass. A
// Stream owns the file handle of the part it is currently reading and
// releases it when exhausted, closed, or abandoned via Close. Re-opening the
// same thread produces an independent pass.
type Stream struct {
	paths   []string // remaining message files
	cur     io.ReadCloser
	dec     *json.Decoder

	skipped int
	err     error
	done    bool
}

// Open starts a fresh pass over the thread's messages.
func Open(thread roster.Thread) (*Stream, error) {
	if len(thread.Paths) == 0 {
		return nil, fmt.Errorf("thread %s has no message files", thread.ID)
	}
	return &Stream{paths: thread.Paths}, nil
}

// Next returns the next message. It reports false once the stream is
// exhausted or an underlying read fails; check Err afterwards.
// Malformed records are skipped, counted, and never end the stream.
func (s *Stream) Next() (Message, bool) {
	for !s.done {
		if s.dec == nil {
			if !s.advance() {
				return Message{}, false
			}
		}

		if !s.dec.More() {
			// End of this part's messages array; move to the next file.
			s.closeCurrent()
			continue
		}

		var raw json.RawMessage
		if err := s.dec.Decode(&raw); err != nil {
			if isCorrupt(err) {
				// The rest of this part is unreadable. Count it and
				// carry on with the next file.
				s.skipped++
				s.closeCurrent()
				continue
			}
			s.fail(fmt.Errorf("decode message: %w", err))
			return Message{}, false
		}

		var rm rawMessage
		if err := json.Unmarshal(raw, &rm); err != nil {
			s.skipped++
			continue
		}
		if rm.SenderName == "" {
			s.skipped++
			continue
		}

		return normalize(rm), true
	}
	return Message{}, false
}

// Err returns the first underlying read error, if any.
func (s *Stream) Err() error { return s.err }

// Skipped returns how many malformed records were dropped so far.
func (s *Stream) Skipped() int { return s.skipped }

// Close abandons the pass and releases the current file handle.
func (s *Stream) Close() error {
	if s.cur != nil {
		err := s.cur.Close()
		s.cur = nil
		s.dec = nil
		s.done = true
		return err
	}
	s.done = true
	return nil
}

// advance opens the next message file and positions the decoder inside its
// messages array.
func (s *Stream) advance() bool {
	if len(s.paths) == 0 {
		s.done = true
		return false
	}
	path := s.paths[0]
	s.paths = s.paths[1:]

	r, err := export.Open(path)
	if err != nil {
		s.fail(err)
		return false
	}
	s.cur = r
	s.dec = json.NewDecoder(r)

	if err := s.seekMessages(); err != nil {
		s.fail(fmt.Errorf("seek messages in %s: %w", path, err))
		return false
	}
	return true
}

// seekMessages walks the top-level object until the decoder sits inside the
// "messages" array.
func (s *Stream) seekMessages() error {
	tok, err := s.dec.Token()
	if err != nil {
		return err
	}
	if tok != json.Delim('{') {
		return fmt.Errorf("not a JSON object")
	}

	for s.dec.More() {
		tok, err := s.dec.Token()
		if err != nil {
			return err
		}
		key, _ := tok.(string)
		if key != "messages" {
			if err := export.SkipValue(s.dec); err != nil {
				return err
			}
			continue
		}

		tok, err = s.dec.Token()
		if err != nil {
			return err
		}
		if tok != json.Delim('[') {
			return fmt.Errorf("messages is not an array")
		}
		return nil
	}

	return fmt.Errorf("no messages array")
}

func (s *Stream) closeCurrent() {
	if s.cur != nil {
		s.cur.Close()
	}
	s.cur = nil
	s.dec = nil
}

// isCorrupt reports whether err is bad JSON rather than a failing read.
// Corrupt data is a per-record problem; read failures end the stream.
func isCorrupt(err error) bool {
	var syn *json.SyntaxError
	return errors.As(err, &syn) || errors.Is(err, io.ErrUnexpectedEOF)
}

func (s *Stream) fail(err error) {
	s.err = err
	s.closeCurrent()
	s.done = true
}

// normalize converts a raw export record into a Message.
func normalize(rm rawMessage) Message {
	m := Message{
		Sender: export.FixEncoding(rm.SenderName),
		Kind:   classify(rm),
	}

	if rm.TimestampMS != nil && *rm.TimestampMS > 0 {
		m.Timestamp = time.UnixMilli(*rm.TimestampMS)
		m.HasTimestamp = true
	}
	if rm.Content != "" {
		m.Text = export.FixEncoding(rm.Content)
	}
	for _, r := range rm.Reactions {
		m.Reactions = append(m.Reactions, Reaction{
			Actor: export.FixEncoding(r.Actor),
			Emoji: export.FixEncoding(r.Reaction),
		})
	}

	return m
}

// classify picks the message's content kind. Attachments win over text so a
// captioned photo counts as a photo.
func classify(rm rawMessage) Kind {
	switch {
	case rm.IsUnsent || rm.Type == "Unsendable":
		return KindUnsendable
	case rm.Sticker != nil:
		return KindSticker
	case len(rm.GIFs) > 0:
		return KindGIF
	case len(rm.Videos) > 0:
		return KindVideo
	case len(rm.Photos) > 0:
		if allGIFs(rm.Photos) {
			return KindGIF
		}
		return KindPhoto
	case rm.Share != nil:
		return KindShare
	case rm.Content != "":
		return KindText
	default:
		return KindOther
	}
}

// Some exports file GIFs under photos with a .gif URI.
func allGIFs(photos []rawAttachment) bool {
	for _, p := range photos {
		if !strings.Contains(strings.ToLower(p.URI), ".gif") {
			return false
		}
	}
	return len(photos) > 0
}

package gemkit

import (
	"bufio"
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"strings"
)

type streamFraming int

const (
	framingUnknown streamFraming = iota
	framingSSE
	framingArray
)

// Stream delivers a generation response incrementally, one fragment per
// Next call. Fragments are complete GenerationResponse values carrying a
// slice of the output; text accumulates across fragments in arrival order.
//
// Next returns io.EOF after the final fragment of a cleanly terminated
// stream, and ErrTruncatedStream when the connection ended mid-unit. A
// Stream is single-use and not safe for concurrent use.
type Stream struct {
	body    io.ReadCloser
	reader  *bufio.Reader
	framing streamFraming
	arr     *json.Decoder

	err    error
	closed bool
	usage  *UsageMetadata

	onDone func(usage *UsageMetadata, err error)
}

func newStream(body io.ReadCloser) *Stream {
	return &Stream{body: body, reader: bufio.NewReader(body)}
}

// Next returns the next fragment. Every non-nil error is terminal: io.EOF
// for clean completion, ErrTruncatedStream for a mid-unit disconnect, an
// ErrDecode-wrapped error for malformed payloads. After a terminal error
// all further calls return the same error.
func (s *Stream) Next() (*GenerationResponse, error) {
	if s.err != nil {
		return nil, s.err
	}
	if s.closed {
		return nil, io.EOF
	}

	if s.framing == framingUnknown {
		if err := s.detectFraming(); err != nil {
			return nil, s.finish(err)
		}
	}

	var (
		resp *GenerationResponse
		err  error
	)
	switch s.framing {
	case framingSSE:
		resp, err = s.nextSSE()
	default:
		resp, err = s.nextArray()
	}
	if err != nil {
		return nil, s.finish(err)
	}
	if resp.UsageMetadata != nil {
		s.usage = resp.UsageMetadata
	}
	return resp, nil
}

// Close releases the underlying connection. Closing before the stream is
// drained is allowed and abandons the remaining fragments. Close is
// idempotent.
func (s *Stream) Close() error {
	if s.closed {
		return nil
	}
	s.closed = true
	err := s.body.Close()
	if s.err == nil {
		s.fireDone(nil)
	}
	return err
}

// finish records the terminal error, closes the connection, and notifies
// the completion hook exactly once.
func (s *Stream) finish(err error) error {
	s.err = err
	if !s.closed {
		s.closed = true
		s.body.Close()
	}
	if errors.Is(err, io.EOF) {
		s.fireDone(nil)
	} else {
		s.fireDone(err)
	}
	return err
}

func (s *Stream) fireDone(err error) {
	if s.onDone != nil {
		s.onDone(s.usage, err)
		s.onDone = nil
	}
}

// detectFraming peeks at the first non-whitespace byte: '[' means the
// response is one JSON array of fragments, anything else is treated as
// SSE "data:" lines.
func (s *Stream) detectFraming() error {
	for {
		b, err := s.reader.ReadByte()
		if err != nil {
			if errors.Is(err, io.EOF) {
				return io.EOF
			}
			return newTransportError(err)
		}
		switch b {
		case ' ', '\t', '\r', '\n':
			continue
		}
		if err := s.reader.UnreadByte(); err != nil {
			return newTransportError(err)
		}
		if b == '[' {
			s.framing = framingArray
			s.arr = json.NewDecoder(s.reader)
			// Consume the opening bracket.
			if _, err := s.arr.Token(); err != nil {
				return newDecodeError(err, nil)
			}
		} else {
			s.framing = framingSSE
		}
		return nil
	}
}

// nextSSE reads lines until one carries a data payload. An EOF that cuts a
// line short is a truncated stream, not a clean end.
func (s *Stream) nextSSE() (*GenerationResponse, error) {
	for {
		line, err := s.reader.ReadString('\n')
		if err != nil {
			if !errors.Is(err, io.EOF) {
				return nil, newTransportError(err)
			}
			if strings.TrimSpace(line) != "" {
				// The connection dropped mid-line.
				return nil, ErrTruncatedStream
			}
			return nil, io.EOF
		}

		line = strings.TrimRight(line, "\r\n")
		payload, ok := strings.CutPrefix(line, "data:")
		if !ok {
			// Blank separators, comments, and other SSE fields.
			continue
		}
		payload = strings.TrimSpace(payload)
		if payload == "" || payload == "[DONE]" {
			continue
		}

		var resp GenerationResponse
		if err := json.Unmarshal([]byte(payload), &resp); err != nil {
			return nil, newDecodeError(err, []byte(payload))
		}
		return &resp, nil
	}
}

// nextArray decodes the next element of a JSON-array response. An EOF
// before the closing bracket is a truncated stream.
func (s *Stream) nextArray() (*GenerationResponse, error) {
	if s.arr.More() {
		var resp GenerationResponse
		if err := s.arr.Decode(&resp); err != nil {
			if errors.Is(err, io.ErrUnexpectedEOF) || errors.Is(err, io.EOF) {
				return nil, ErrTruncatedStream
			}
			return nil, newDecodeError(err, nil)
		}
		return &resp, nil
	}
	if _, err := s.arr.Token(); err != nil {
		if errors.Is(err, io.ErrUnexpectedEOF) || errors.Is(err, io.EOF) {
			return nil, ErrTruncatedStream
		}
		return nil, newDecodeError(err, nil)
	}
	return nil, io.EOF
}

// Collect drains the stream, concatenating fragment text and keeping the
// last fragment's metadata, and returns the merged response. The stream is
// closed when Collect returns.
func (s *Stream) Collect() (*GenerationResponse, error) {
	defer s.Close()

	var (
		text  bytes.Buffer
		final *GenerationResponse
	)
	for {
		resp, err := s.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, err
		}
		text.WriteString(resp.Text())
		final = resp
	}
	if final == nil {
		return &GenerationResponse{}, nil
	}

	merged := *final
	merged.Candidates = append([]Candidate(nil), final.Candidates...)
	if len(merged.Candidates) > 0 {
		merged.Candidates[0].Content = &Content{
			Role:  RoleModel,
			Parts: []Part{TextPart(text.String())},
		}
	} else if text.Len() > 0 {
		merged.Candidates = []Candidate{{
			Content: &Content{Role: RoleModel, Parts: []Part{TextPart(text.String())}},
		}}
	}
	return &merged, nil
}

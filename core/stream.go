package core

import (
	"bufio"
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"iter"
	"sync"
)

// doneMarker terminates an event stream.
const doneMarker = "[DONE]"

// Stream is a pull-based iterator over the data frames of a server-sent
// event response. Each frame is decoded as one T.
//
// Iteration reads from the connection on the caller's goroutine:
//
//	for stream.Next() {
//		chunk := stream.Current()
//		...
//	}
//	if err := stream.Err(); err != nil {
//		...
//	}
//
// The connection is released when the stream ends, when Close is called,
// or when a range loop over All returns.
type Stream[T any] struct {
	body       io.ReadCloser
	reader     *bufio.Reader
	release    func()
	errorFrame func([]byte) error

	current T
	err     error
	done    bool

	closeOnce sync.Once
}

func newStream[T any](body io.ReadCloser, release func(), errorFrame func([]byte) error) *Stream[T] {
	return &Stream[T]{
		body:       body,
		reader:     bufio.NewReader(body),
		release:    release,
		errorFrame: errorFrame,
	}
}

// Next advances to the next frame. It returns false at the end of the
// stream or after a failure; check Err to tell the two apart.
func (s *Stream[T]) Next() bool {
	if s.done {
		return false
	}

	data, err := s.readEvent()
	if err != nil {
		if !errors.Is(err, io.EOF) {
			s.err = &TransportError{Op: "read stream", Err: err}
		}
		s.finish()
		return false
	}

	if string(data) == doneMarker {
		s.finish()
		return false
	}

	if s.errorFrame != nil && isErrorFrame(data) {
		s.err = s.errorFrame(data)
		s.finish()
		return false
	}

	var v T
	if err := json.Unmarshal(data, &v); err != nil {
		s.err = &DecodeError{Body: string(data), Err: err}
		s.finish()
		return false
	}
	s.current = v
	return true
}

// Current returns the frame decoded by the last successful call to Next.
func (s *Stream[T]) Current() T {
	return s.current
}

// Err returns the error that ended the stream, or nil if it ended at the
// done marker or at the end of the body.
func (s *Stream[T]) Err() error {
	return s.err
}

// Close releases the underlying connection. It is safe to call more than
// once and after the stream has ended.
func (s *Stream[T]) Close() error {
	var err error
	s.closeOnce.Do(func() {
		s.done = true
		err = s.body.Close()
		if s.release != nil {
			s.release()
		}
	})
	return err
}

// All returns an iterator over the remaining frames. The stream is closed
// when the loop ends, including on break. Check Err afterwards.
func (s *Stream[T]) All() iter.Seq[T] {
	return func(yield func(T) bool) {
		defer s.Close()
		for s.Next() {
			if !yield(s.current) {
				return
			}
		}
	}
}

func (s *Stream[T]) finish() {
	s.done = true
	_ = s.Close()
}

// readEvent returns the data payload of the next event that carries one.
// Comment lines and fields other than data are ignored; multiple data
// lines of one event are joined with a newline.
func (s *Stream[T]) readEvent() ([]byte, error) {
	var (
		data    []byte
		hasData bool
	)
	for {
		line, err := s.reader.ReadBytes('\n')
		line = bytes.TrimRight(line, "\r\n")

		switch {
		case len(line) == 0:
			if hasData && err == nil {
				return data, nil
			}
		case line[0] == ':':
			// keep-alive comment
		default:
			field, value, _ := bytes.Cut(line, []byte(":"))
			if string(field) == "data" {
				value = bytes.TrimPrefix(value, []byte(" "))
				if hasData {
					data = append(data, '\n')
				}
				data = append(data, value...)
				hasData = true
			}
		}

		if err != nil {
			if errors.Is(err, io.EOF) && hasData {
				return data, nil
			}
			return nil, err
		}
	}
}

func isErrorFrame(data []byte) bool {
	trimmed := bytes.TrimLeft(data, " \t\r\n")
	if !bytes.HasPrefix(trimmed, []byte("{")) {
		return false
	}
	trimmed = bytes.TrimLeft(trimmed[1:], " \t\r\n")
	return bytes.HasPrefix(trimmed, []byte(`"error"`))
}

package convert

import "fmt"

// DecodeError reports that the input bytes could not be decoded into a pixel
// source. It is fatal to the conversion call and never retried.
type DecodeError struct {
	Err error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("decode failed: %v", e.Err)
}

func (e *DecodeError) Unwrap() error { return e.Err }

// EncodeError reports that the native encoder failed and the embedded-data
// fallback also failed.
type EncodeError struct {
	Format TargetFormat
	Err    error
}

func (e *EncodeError) Error() string {
	return fmt.Sprintf("encode to %s failed: %v", e.Format, e.Err)
}

func (e *EncodeError) Unwrap() error { return e.Err }

// MalformedDataError reports an embedded-data string missing its type tag or
// carrying an undecodable payload.
type MalformedDataError struct {
	Err error
}

func (e *MalformedDataError) Error() string {
	return fmt.Sprintf("malformed data url: %v", e.Err)
}

func (e *MalformedDataError) Unwrap() error { return e.Err }

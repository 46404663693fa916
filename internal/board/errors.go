package board

import (
	"errors"
	"fmt"
)

// ErrRemoteUnavailable is reported for every failed store call. Transport
// failures, rejected requests and undecodable replies are not told apart.
var ErrRemoteUnavailable = errors.New("remote unavailable")

type RemoteError struct {
	Op  string
	Err error
}

func (e *RemoteError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *RemoteError) Unwrap() []error {
	return []error{ErrRemoteUnavailable, e.Err}
}

func remoteErr(op string, err error) error {
	if err == nil {
		return nil
	}
	var re *RemoteError
	if errors.As(err, &re) {
		return err
	}
	return &RemoteError{Op: op, Err: err}
}

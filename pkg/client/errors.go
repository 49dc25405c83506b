// Copyright (c) 2022. Alvin Baena.
// SPDX-License-Identifier: MIT

package client

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
)

// ErrInvalidInput marks a request the client refused to send because encoding it would change it.
var ErrInvalidInput = errors.New("invalid input")

// Kind tells where a failure came from. It is derived locally, the service never sends it.
type Kind int

const (
	// KindNetwork is a request that could not be built, sent or was aborted.
	KindNetwork Kind = iota
	// KindService is a non-2xx response.
	KindService
	// KindContract is a response that does not have the expected shape.
	KindContract
)

func (k Kind) String() string {
	switch k {
	case KindNetwork:
		return "NETWORK"
	case KindService:
		return "SERVICE"
	case KindContract:
		return "CONTRACT"
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// Error is the only error returned by Client operations. Its message is what callers show.
type Error struct {
	Kind Kind
	// StatusCode is the HTTP status when the service answered, 0 otherwise.
	StatusCode int
	Message    string
	Err        error
}

func (e *Error) Error() string {
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

func networkError(err error) *Error {
	return &Error{Kind: KindNetwork, Message: err.Error(), Err: err}
}

// inputError is a request that was never built. Nothing reaches the service.
func inputError(format string, args ...any) *Error {
	msg := fmt.Sprintf(format, args...)
	return &Error{Kind: KindNetwork, Message: msg, Err: fmt.Errorf("%w: %s", ErrInvalidInput, msg)}
}

func contractError(format string, args ...any) *Error {
	err := fmt.Errorf(format, args...)
	return &Error{Kind: KindContract, Message: err.Error(), Err: err}
}

func contractErrorWithStatus(status int, err error) *Error {
	return &Error{Kind: KindContract, StatusCode: status, Message: err.Error(), Err: err}
}

// serviceError reads the message of a failed response. The body is only trusted for a string
// "detail" field, anything else falls back to the status phrase.
func serviceError(status int, body []byte) *Error {
	msg := http.StatusText(status)

	var payload struct {
		Detail any `json:"detail"`
	}
	if err := json.Unmarshal(body, &payload); err == nil {
		if detail, ok := payload.Detail.(string); ok && detail != "" {
			msg = detail
		}
	}

	if msg == "" {
		msg = fmt.Sprintf("request failed with status %d", status)
	}

	return &Error{Kind: KindService, StatusCode: status, Message: msg}
}

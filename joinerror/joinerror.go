// Copyright (C) 2025 convos-org
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Lesser General Public License as
// published by the Free Software Foundation, either version 3 of the
// License, or (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE. See the
// GNU Lesser General Public License for more details.
//
// You should have received a copy of the GNU Lesser General Public License
// along with this program. If not, see <https://www.gnu.org/licenses/>.

// SPDX-License-Identifier: LGPL-3.0-or-later

// Package joinerror implements the structured rejection content sent back
// to a joiner, distinct from a generic DM: a typed error content addressed
// at authority "convos.app", type "inviteJoinError", version 1.0.
package joinerror

import (
	"encoding/json"
	"time"

	"github.com/convos-org/convos-invite/internal/logger"
)

// ErrorType enumerates the reasons a join attempt was rejected.
type ErrorType string

const (
	ConversationExpired ErrorType = "conversationExpired"
	GenericFailure      ErrorType = "genericFailure"
	Unknown             ErrorType = "unknown"

	// ContentTypeAuthority identifies the typed-content authority this
	// payload is delivered under on substrates that support it.
	ContentTypeAuthority = "convos.app"
	ContentTypeID        = "inviteJoinError"
	ContentTypeVersion   = "1.0"
)

// Content is the structured rejection addressed to the joiner.
type Content struct {
	ErrorType ErrorType
	InviteTag string
	Timestamp time.Time
}

type wireContent struct {
	ErrorType    string `json:"errorType"`
	InviteTag    string `json:"inviteTag"`
	Timestamp    string `json:"timestamp"`
	VersionMinor int    `json:"versionMinor"`
}

// New builds a Content for errType/inviteTag stamped with the given time.
func New(errType ErrorType, inviteTag string, at time.Time) Content {
	return Content{ErrorType: errType, InviteTag: inviteTag, Timestamp: at}
}

// Encode serializes c as the UTF-8 JSON object
// {"errorType","inviteTag","timestamp","versionMinor"} with an ISO-8601 Z
// timestamp. versionMinor is always 0: it exists so a future minor revision
// of this content type can add fields without breaking older decoders, but
// nothing in this module interprets it yet.
func Encode(c Content) ([]byte, error) {
	w := wireContent{
		ErrorType:    string(c.ErrorType),
		InviteTag:    c.InviteTag,
		Timestamp:    c.Timestamp.UTC().Format("2006-01-02T15:04:05Z"),
		VersionMinor: 0,
	}
	b, err := json.Marshal(w)
	if err != nil {
		return nil, logger.NewCodedError(logger.ErrCodeInternal, "join-error encode failed", err)
	}
	return b, nil
}

// Decode parses the JSON produced by Encode. An unrecognized errorType
// string collapses to Unknown for forward compatibility rather than
// failing to decode.
func Decode(b []byte) (Content, error) {
	var w wireContent
	if err := json.Unmarshal(b, &w); err != nil {
		return Content{}, logger.NewCodedError(logger.ErrCodeFormat, "join-error decode failed", err)
	}

	errType := ErrorType(w.ErrorType)
	switch errType {
	case ConversationExpired, GenericFailure, Unknown:
	default:
		errType = Unknown
	}

	at, err := time.Parse("2006-01-02T15:04:05Z", w.Timestamp)
	if err != nil {
		at = time.Time{}
	}

	return Content{ErrorType: errType, InviteTag: w.InviteTag, Timestamp: at}, nil
}

// UserMessage returns the fixed user-facing string for errType.
func UserMessage(errType ErrorType) string {
	if errType == ConversationExpired {
		return "This conversation is no longer available"
	}
	return "Failed to join conversation"
}

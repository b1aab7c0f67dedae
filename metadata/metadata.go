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

// Package metadata codecs a group's ConversationCustomMetadata in and out
// of the opaque app_data string, and implements the invite-tag and
// profile operations that mutate it.
package metadata

import (
	"bytes"
	"crypto/rand"

	"github.com/convos-org/convos-invite/framing"
	"github.com/convos-org/convos-invite/internal/logger"
	"github.com/convos-org/convos-invite/primitives"
	"github.com/convos-org/convos-invite/wire"
)

const tagAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789"
const tagLength = 10

// Encode serializes m: protobuf-encode, compress-if-smaller, base64url.
func Encode(m *wire.ConversationCustomMetadata) (string, error) {
	encoded := wire.EncodeConversationCustomMetadata(m)
	framed, err := framing.CompressIfSmaller(encoded)
	if err != nil {
		return "", err
	}
	return primitives.Base64URLEncode(framed), nil
}

// Decode reverses Encode.
func Decode(s string) (*wire.ConversationCustomMetadata, error) {
	raw, err := primitives.Base64URLDecode(s)
	if err != nil {
		return nil, logger.NewCodedError(logger.ErrCodeFormat, "InvalidBase64", err)
	}
	decompressed, err := framing.Decompress(raw)
	if err != nil {
		return nil, err
	}
	return wire.DecodeConversationCustomMetadata(decompressed)
}

// GetInviteTag decodes encoded and returns its tag. Returns an error if
// encoded does not decode.
func GetInviteTag(encoded string) (string, error) {
	m, err := Decode(encoded)
	if err != nil {
		return "", err
	}
	return m.Tag, nil
}

// NewTag generates a fresh 10-character alphanumeric invite tag.
func NewTag() (string, error) {
	buf := make([]byte, tagLength)
	if _, err := rand.Read(buf); err != nil {
		return "", logger.NewCodedError(logger.ErrCodeInternal, "tag generation failed", err)
	}
	out := make([]byte, tagLength)
	for i, b := range buf {
		out[i] = tagAlphabet[int(b)%len(tagAlphabet)]
	}
	return string(out), nil
}

// RotateInviteTag returns a copy of current with a freshly generated tag;
// everything else is unchanged. Rotating the tag invalidates every
// outstanding invite for the conversation, since invites carry the tag
// they were minted against.
func RotateInviteTag(current *wire.ConversationCustomMetadata) (*wire.ConversationCustomMetadata, error) {
	tag, err := NewTag()
	if err != nil {
		return nil, err
	}
	next := *current
	next.Tag = tag
	return &next, nil
}

// Fresh returns metadata for a conversation that has never had an invite
// or profile before: a new tag and no profiles.
func Fresh() (*wire.ConversationCustomMetadata, error) {
	tag, err := NewTag()
	if err != nil {
		return nil, err
	}
	return &wire.ConversationCustomMetadata{Tag: tag}, nil
}

// UpsertProfile replaces the entry in m whose InboxID byte-equals
// profile.InboxID, or appends profile if none matches.
func UpsertProfile(m *wire.ConversationCustomMetadata, profile wire.ConversationProfile) {
	for i := range m.Profiles {
		if bytes.Equal(m.Profiles[i].InboxID, profile.InboxID) {
			m.Profiles[i] = profile
			return
		}
	}
	m.Profiles = append(m.Profiles, profile)
}

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

// Package wire hand-encodes the protobuf schemas in the invite data model
// using protowire's field-level primitives directly, without a generated
// .pb.go file. Field numbers and types match the wire shapes below
// byte-for-byte; optional scalar fields are omitted entirely when unset.
package wire

// InvitePayload is the signed body of an invite.
type InvitePayload struct {
	ConversationToken []byte // tag 1

	CreatorInboxID []byte // tag 2

	Tag string // tag 3

	Name        *string // tag 4, optional
	Description *string // tag 5, optional
	ImageURL    *string // tag 6, optional

	ConversationExpiresAtUnix *int64 // tag 7, optional sfixed64
	ExpiresAtUnix             *int64 // tag 8, optional sfixed64

	ExpiresAfterUse bool // tag 9
}

// SignedInvite wraps an encoded InvitePayload with its signature.
type SignedInvite struct {
	Payload   []byte // tag 1, exact encoded InvitePayload bytes
	Signature []byte // tag 2, 65 bytes r‖s‖v
}

// ConversationProfile is one member's display profile.
type ConversationProfile struct {
	InboxID []byte  // tag 1
	Name    *string // tag 2, optional
	Image   *string // tag 3, optional
}

// ConversationCustomMetadata is the decoded form of a group's app_data.
type ConversationCustomMetadata struct {
	Tag                string                // tag 1
	Profiles           []ConversationProfile // tag 2, repeated
	ExpiresAtUnix      *int64                // tag 3, optional sfixed64
	ImageEncryptionKey []byte                // tag 4, optional bytes
}

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

package wire

import (
	"google.golang.org/protobuf/encoding/protowire"
)

// EncodeInvitePayload serializes an InvitePayload. Unset optional fields
// (Name, Description, ImageURL, ConversationExpiresAtUnix, ExpiresAtUnix)
// are omitted entirely rather than encoded as zero values.
func EncodeInvitePayload(p *InvitePayload) []byte {
	var b []byte
	b = protowire.AppendTag(b, 1, protowire.BytesType)
	b = protowire.AppendBytes(b, p.ConversationToken)

	b = protowire.AppendTag(b, 2, protowire.BytesType)
	b = protowire.AppendBytes(b, p.CreatorInboxID)

	b = protowire.AppendTag(b, 3, protowire.BytesType)
	b = protowire.AppendString(b, p.Tag)

	if p.Name != nil {
		b = protowire.AppendTag(b, 4, protowire.BytesType)
		b = protowire.AppendString(b, *p.Name)
	}
	if p.Description != nil {
		b = protowire.AppendTag(b, 5, protowire.BytesType)
		b = protowire.AppendString(b, *p.Description)
	}
	if p.ImageURL != nil {
		b = protowire.AppendTag(b, 6, protowire.BytesType)
		b = protowire.AppendString(b, *p.ImageURL)
	}
	if p.ConversationExpiresAtUnix != nil {
		b = protowire.AppendTag(b, 7, protowire.Fixed64Type)
		b = protowire.AppendFixed64(b, uint64(*p.ConversationExpiresAtUnix))
	}
	if p.ExpiresAtUnix != nil {
		b = protowire.AppendTag(b, 8, protowire.Fixed64Type)
		b = protowire.AppendFixed64(b, uint64(*p.ExpiresAtUnix))
	}
	if p.ExpiresAfterUse {
		b = protowire.AppendTag(b, 9, protowire.VarintType)
		b = protowire.AppendVarint(b, 1)
	}

	return b
}

// EncodeSignedInvite serializes a SignedInvite.
func EncodeSignedInvite(s *SignedInvite) []byte {
	var b []byte
	b = protowire.AppendTag(b, 1, protowire.BytesType)
	b = protowire.AppendBytes(b, s.Payload)

	b = protowire.AppendTag(b, 2, protowire.BytesType)
	b = protowire.AppendBytes(b, s.Signature)

	return b
}

// EncodeConversationProfile serializes a ConversationProfile.
func EncodeConversationProfile(p *ConversationProfile) []byte {
	var b []byte
	b = protowire.AppendTag(b, 1, protowire.BytesType)
	b = protowire.AppendBytes(b, p.InboxID)

	if p.Name != nil {
		b = protowire.AppendTag(b, 2, protowire.BytesType)
		b = protowire.AppendString(b, *p.Name)
	}
	if p.Image != nil {
		b = protowire.AppendTag(b, 3, protowire.BytesType)
		b = protowire.AppendString(b, *p.Image)
	}

	return b
}

// EncodeConversationCustomMetadata serializes a ConversationCustomMetadata.
func EncodeConversationCustomMetadata(m *ConversationCustomMetadata) []byte {
	var b []byte
	b = protowire.AppendTag(b, 1, protowire.BytesType)
	b = protowire.AppendString(b, m.Tag)

	for i := range m.Profiles {
		b = protowire.AppendTag(b, 2, protowire.BytesType)
		b = protowire.AppendBytes(b, EncodeConversationProfile(&m.Profiles[i]))
	}

	if m.ExpiresAtUnix != nil {
		b = protowire.AppendTag(b, 3, protowire.Fixed64Type)
		b = protowire.AppendFixed64(b, uint64(*m.ExpiresAtUnix))
	}
	if m.ImageEncryptionKey != nil {
		b = protowire.AppendTag(b, 4, protowire.BytesType)
		b = protowire.AppendBytes(b, m.ImageEncryptionKey)
	}

	return b
}

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
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strPtr(s string) *string { return &s }
func i64Ptr(i int64) *int64   { return &i }

func TestInvitePayloadRoundTrip(t *testing.T) {
	p := &InvitePayload{
		ConversationToken: []byte{0x01, 0x02, 0x03},
		CreatorInboxID:    []byte("creator-inbox"),
		Tag:               "abc123xy9z",
		Name:              strPtr("Book Club"),
		ExpiresAtUnix:     i64Ptr(1893456000),
		ExpiresAfterUse:   true,
	}

	encoded := EncodeInvitePayload(p)
	decoded, err := DecodeInvitePayload(encoded)
	require.NoError(t, err)

	assert.Equal(t, p.ConversationToken, decoded.ConversationToken)
	assert.Equal(t, p.CreatorInboxID, decoded.CreatorInboxID)
	assert.Equal(t, p.Tag, decoded.Tag)
	require.NotNil(t, decoded.Name)
	assert.Equal(t, *p.Name, *decoded.Name)
	assert.Nil(t, decoded.Description)
	assert.Nil(t, decoded.ImageURL)
	require.NotNil(t, decoded.ExpiresAtUnix)
	assert.Equal(t, *p.ExpiresAtUnix, *decoded.ExpiresAtUnix)
	assert.Nil(t, decoded.ConversationExpiresAtUnix)
	assert.True(t, decoded.ExpiresAfterUse)
}

func TestInvitePayloadOmitsUnsetOptionalFields(t *testing.T) {
	p := &InvitePayload{
		ConversationToken: []byte{0xAA},
		CreatorInboxID:    []byte("x"),
		Tag:               "tag",
	}
	encoded := EncodeInvitePayload(p)

	decoded, err := DecodeInvitePayload(encoded)
	require.NoError(t, err)
	assert.Nil(t, decoded.Name)
	assert.Nil(t, decoded.Description)
	assert.Nil(t, decoded.ImageURL)
	assert.Nil(t, decoded.ConversationExpiresAtUnix)
	assert.Nil(t, decoded.ExpiresAtUnix)
	assert.False(t, decoded.ExpiresAfterUse)
}

func TestInvitePayloadExpiresAfterUseDefaultsFalseWhenAbsent(t *testing.T) {
	encoded := EncodeInvitePayload(&InvitePayload{Tag: "t"})
	decoded, err := DecodeInvitePayload(encoded)
	require.NoError(t, err)
	assert.False(t, decoded.ExpiresAfterUse)
}

func TestSfixed64WireZeroDecodesAsUnset(t *testing.T) {
	p := &InvitePayload{Tag: "t", ExpiresAtUnix: i64Ptr(0)}
	encoded := EncodeInvitePayload(p)
	decoded, err := DecodeInvitePayload(encoded)
	require.NoError(t, err)
	assert.Nil(t, decoded.ExpiresAtUnix)
}

func TestSignedInviteRoundTrip(t *testing.T) {
	s := &SignedInvite{
		Payload:   []byte("encoded-payload-bytes"),
		Signature: make([]byte, 65),
	}
	decoded, err := DecodeSignedInvite(EncodeSignedInvite(s))
	require.NoError(t, err)
	assert.Equal(t, s.Payload, decoded.Payload)
	assert.Equal(t, s.Signature, decoded.Signature)
}

func TestConversationCustomMetadataRoundTrip(t *testing.T) {
	m := &ConversationCustomMetadata{
		Tag: "tag0000aa",
		Profiles: []ConversationProfile{
			{InboxID: []byte("inbox-a"), Name: strPtr("Alice")},
			{InboxID: []byte("inbox-b"), Image: strPtr("https://img/u.png")},
		},
		ImageEncryptionKey: []byte{0xDE, 0xAD},
	}

	decoded, err := DecodeConversationCustomMetadata(EncodeConversationCustomMetadata(m))
	require.NoError(t, err)
	assert.Equal(t, m.Tag, decoded.Tag)
	require.Len(t, decoded.Profiles, 2)
	assert.Equal(t, m.Profiles[0].InboxID, decoded.Profiles[0].InboxID)
	require.NotNil(t, decoded.Profiles[0].Name)
	assert.Equal(t, "Alice", *decoded.Profiles[0].Name)
	assert.Nil(t, decoded.Profiles[0].Image)
	assert.Equal(t, m.ImageEncryptionKey, decoded.ImageEncryptionKey)
}

func TestConversationCustomMetadataDecodesWithoutProfiles(t *testing.T) {
	m := &ConversationCustomMetadata{Tag: "onlytag123"}
	decoded, err := DecodeConversationCustomMetadata(EncodeConversationCustomMetadata(m))
	require.NoError(t, err)
	assert.Equal(t, "onlytag123", decoded.Tag)
	assert.Empty(t, decoded.Profiles)
}

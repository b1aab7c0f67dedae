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

package group

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/convos-org/convos-invite/internal/config"
	"github.com/convos-org/convos-invite/invite"
	"github.com/convos-org/convos-invite/metadata"
)

var creatorPrivateKey = []byte{
	0x01, 0x02, 0x03, 0x04, 0x05, 0x06, 0x07, 0x08,
	0x09, 0x0a, 0x0b, 0x0c, 0x0d, 0x0e, 0x0f, 0x10,
	0x11, 0x12, 0x13, 0x14, 0x15, 0x16, 0x17, 0x18,
	0x19, 0x1a, 0x1b, 0x1c, 0x1d, 0x1e, 0x1f, 0x20,
}

const creatorInboxID = "0000000000000000000000000000000000000000000000000000000000000ab"

type memoryHandle struct {
	id      string
	appData string
}

func (h *memoryHandle) ID() string { return h.id }
func (h *memoryHandle) AppData() string { return h.appData }
func (h *memoryHandle) UpdateAppData(_ context.Context, data string) error {
	h.appData = data
	return nil
}

func testConfig() config.Config {
	return config.Config{CreatorPrivateKey: creatorPrivateKey, Env: config.EnvDev}
}

func TestCreateInviteLazilyGeneratesMetadataOnFirstUse(t *testing.T) {
	handle := &memoryHandle{id: "conv-1"}
	g := New(handle, testConfig())

	slug, err := g.CreateInvite(context.Background(), CreateInviteOptions{CreatorInboxID: creatorInboxID})
	require.NoError(t, err)
	assert.NotEmpty(t, handle.appData)

	tag, err := metadata.GetInviteTag(handle.appData)
	require.NoError(t, err)
	assert.Len(t, tag, 10)

	parsed, err := invite.Parse(slug)
	require.NoError(t, err)
	assert.Equal(t, tag, parsed.Payload.Tag)
	assert.Equal(t, creatorInboxID, string(parsed.Payload.CreatorInboxID))
}

func TestCreateInviteReusesExistingTag(t *testing.T) {
	handle := &memoryHandle{id: "conv-2"}
	g := New(handle, testConfig())

	_, err := g.CreateInvite(context.Background(), CreateInviteOptions{CreatorInboxID: creatorInboxID})
	require.NoError(t, err)
	firstTag, err := metadata.GetInviteTag(handle.appData)
	require.NoError(t, err)

	slug2, err := g.CreateInvite(context.Background(), CreateInviteOptions{CreatorInboxID: creatorInboxID})
	require.NoError(t, err)
	secondTag, err := metadata.GetInviteTag(handle.appData)
	require.NoError(t, err)
	assert.Equal(t, firstTag, secondTag)

	parsed, err := invite.Parse(slug2)
	require.NoError(t, err)
	assert.Equal(t, firstTag, parsed.Payload.Tag)
}

func TestSetConversationProfileUpsertsBySelfInboxID(t *testing.T) {
	handle := &memoryHandle{id: "conv-3"}
	g := New(handle, testConfig())
	self := "self-inbox-id"

	err := g.SetConversationProfile(context.Background(), SetConversationProfileOptions{
		SelfInboxID: self,
		Name:        strPtr("A"),
	})
	require.NoError(t, err)

	err = g.SetConversationProfile(context.Background(), SetConversationProfileOptions{
		SelfInboxID: self,
		Name:        strPtr("B"),
		Image:       strPtr("u"),
	})
	require.NoError(t, err)

	m, err := metadata.Decode(handle.appData)
	require.NoError(t, err)
	require.Len(t, m.Profiles, 1)
	assert.Equal(t, "B", *m.Profiles[0].Name)
	assert.Equal(t, "u", *m.Profiles[0].Image)
}

func TestRotateInviteTagInvalidatesPreviousTag(t *testing.T) {
	handle := &memoryHandle{id: "conv-4"}
	g := New(handle, testConfig())

	_, err := g.CreateInvite(context.Background(), CreateInviteOptions{CreatorInboxID: creatorInboxID})
	require.NoError(t, err)
	oldTag, err := metadata.GetInviteTag(handle.appData)
	require.NoError(t, err)

	err = g.RotateInviteTag(context.Background())
	require.NoError(t, err)
	newTag, err := metadata.GetInviteTag(handle.appData)
	require.NoError(t, err)
	assert.NotEqual(t, oldTag, newTag)
}

func TestCreateInviteOnUndecodableAppDataGeneratesFresh(t *testing.T) {
	handle := &memoryHandle{id: "conv-5", appData: "not-valid-base64!!"}
	g := New(handle, testConfig())

	_, err := g.CreateInvite(context.Background(), CreateInviteOptions{CreatorInboxID: creatorInboxID})
	require.NoError(t, err)

	m, err := metadata.Decode(handle.appData)
	require.NoError(t, err)
	assert.Len(t, m.Tag, 10)
}

func strPtr(s string) *string { return &s }

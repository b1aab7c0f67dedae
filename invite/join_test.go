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

package invite

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/convos-org/convos-invite/substrate"
)

type joinTestConversation struct {
	id   string
	sent []string
}

func (c *joinTestConversation) ID() string { return c.id }
func (c *joinTestConversation) Send(_ context.Context, content []byte) error {
	c.sent = append(c.sent, string(content))
	return nil
}
func (c *joinTestConversation) SendText(_ context.Context, text string) error {
	c.sent = append(c.sent, text)
	return nil
}
func (c *joinTestConversation) AddMembers(context.Context, []string) error { return nil }
func (c *joinTestConversation) AppData() string                           { return "" }
func (c *joinTestConversation) UpdateAppData(context.Context, string) error {
	return nil
}

type joinTestConversations struct {
	dms map[string]*joinTestConversation
}

func (c *joinTestConversations) GetByID(context.Context, string) (substrate.Conversation, bool, error) {
	return nil, false, nil
}
func (c *joinTestConversations) CreateGroup(context.Context, []string, substrate.GroupOptions) (substrate.Conversation, error) {
	return nil, nil
}
func (c *joinTestConversations) CreateDM(_ context.Context, inboxID string) (substrate.Conversation, error) {
	conv := &joinTestConversation{id: "dm-" + inboxID}
	c.dms[inboxID] = conv
	return conv, nil
}
func (c *joinTestConversations) List(context.Context) ([]substrate.Conversation, error) {
	return nil, nil
}

type joinTestContacts struct{}

func (joinTestContacts) RefreshConsentList(context.Context) error { return nil }
func (joinTestContacts) Block(context.Context, []string) error    { return nil }

type joinTestAgent struct {
	inboxID       string
	conversations *joinTestConversations
}

func (a *joinTestAgent) InboxID() string                        { return a.inboxID }
func (a *joinTestAgent) Conversations() substrate.Conversations { return a.conversations }
func (a *joinTestAgent) Contacts() substrate.Contacts           { return joinTestContacts{} }

func newJoinTestAgent(inboxID string) *joinTestAgent {
	return &joinTestAgent{inboxID: inboxID, conversations: &joinTestConversations{dms: map[string]*joinTestConversation{}}}
}

func TestJoinRejectsExpiredInvite(t *testing.T) {
	past := time.Now().Add(-time.Hour).Unix()
	slug, err := Build(BuildOptions{
		ConversationID:    convID,
		Tag:               "abc1234xyz",
		CreatorInboxID:    creatorInboxID,
		CreatorPrivateKey: creatorPrivateKey,
		ExpiresAtUnix:     &past,
	})
	require.NoError(t, err)

	joiner := newJoinTestAgent("joiner-inbox-id")
	_, err = Join(context.Background(), joiner, slug)
	assert.Error(t, err)
}

func TestJoinRejectsSelfOwnedInvite(t *testing.T) {
	slug, err := Build(BuildOptions{
		ConversationID:    convID,
		Tag:               "abc1234xyz",
		CreatorInboxID:    creatorInboxID,
		CreatorPrivateKey: creatorPrivateKey,
	})
	require.NoError(t, err)

	self := newJoinTestAgent(creatorInboxID)
	_, err = Join(context.Background(), self, slug)
	assert.Error(t, err)
}

func TestJoinSendsSlugAndReturnsOpaqueResult(t *testing.T) {
	slug, err := Build(BuildOptions{
		ConversationID:    convID,
		Tag:               "abc1234xyz",
		CreatorInboxID:    creatorInboxID,
		CreatorPrivateKey: creatorPrivateKey,
		Name:              strPtr("Test Group Chat"),
	})
	require.NoError(t, err)

	joiner := newJoinTestAgent("joiner-inbox-id")
	result, err := Join(context.Background(), joiner, slug)
	require.NoError(t, err)

	assert.Equal(t, creatorInboxID, result.CreatorInboxID)
	assert.Equal(t, "abc1234xyz", result.InviteTag)
	require.NotNil(t, result.Name)
	assert.Equal(t, "Test Group Chat", *result.Name)
	assert.NotEmpty(t, result.OpaqueConversationToken)

	dm := joiner.conversations.dms[creatorInboxID]
	require.NotNil(t, dm)
	require.Len(t, dm.sent, 1)

	reparsed, err := Parse(dm.sent[0])
	require.NoError(t, err)
	assert.Equal(t, convID, func() string {
		id, err := DecryptConversationID(reparsed, creatorPrivateKey)
		require.NoError(t, err)
		return id
	}())
}

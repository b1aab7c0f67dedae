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

package middleware

import (
	"context"
	"sync"

	"github.com/convos-org/convos-invite/substrate"
)

// fakeConversation is a minimal in-memory substrate.Conversation.
type fakeConversation struct {
	mu      sync.Mutex
	id      string
	appData string
	sent    [][]byte
	members []string
}

func (c *fakeConversation) ID() string { return c.id }

func (c *fakeConversation) Send(_ context.Context, content []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.sent = append(c.sent, content)
	return nil
}

func (c *fakeConversation) SendText(ctx context.Context, text string) error {
	return c.Send(ctx, []byte(text))
}

func (c *fakeConversation) AddMembers(_ context.Context, inboxIDs []string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.members = append(c.members, inboxIDs...)
	return nil
}

func (c *fakeConversation) AppData() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.appData
}

func (c *fakeConversation) UpdateAppData(_ context.Context, data string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.appData = data
	return nil
}

// fakeContacts records RefreshConsentList/Block calls.
type fakeContacts struct {
	mu            sync.Mutex
	refreshCalled int
	blocked       []string
}

func (c *fakeContacts) RefreshConsentList(_ context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.refreshCalled++
	return nil
}

func (c *fakeContacts) Block(_ context.Context, inboxIDs []string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.blocked = append(c.blocked, inboxIDs...)
	return nil
}

// fakeConversations is an in-memory substrate.Conversations keyed by id.
type fakeConversations struct {
	mu   sync.Mutex
	byID map[string]*fakeConversation
}

func newFakeConversations() *fakeConversations {
	return &fakeConversations{byID: make(map[string]*fakeConversation)}
}

func (f *fakeConversations) put(c *fakeConversation) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.byID[c.id] = c
}

func (f *fakeConversations) GetByID(_ context.Context, id string) (substrate.Conversation, bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	c, ok := f.byID[id]
	if !ok {
		return nil, false, nil
	}
	return c, true, nil
}

func (f *fakeConversations) CreateGroup(_ context.Context, _ []string, opts substrate.GroupOptions) (substrate.Conversation, error) {
	appData := ""
	if opts.AppData != nil {
		appData = *opts.AppData
	}
	c := &fakeConversation{id: "group-new", appData: appData}
	f.put(c)
	return c, nil
}

func (f *fakeConversations) CreateDM(_ context.Context, inboxID string) (substrate.Conversation, error) {
	c := &fakeConversation{id: "dm-" + inboxID}
	f.put(c)
	return c, nil
}

func (f *fakeConversations) List(_ context.Context) ([]substrate.Conversation, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]substrate.Conversation, 0, len(f.byID))
	for _, c := range f.byID {
		out = append(out, c)
	}
	return out, nil
}

// fakeAgent is a minimal in-memory substrate.MessagingAgent.
type fakeAgent struct {
	inboxID       string
	conversations *fakeConversations
	contacts      *fakeContacts
}

func newFakeAgent(inboxID string) *fakeAgent {
	return &fakeAgent{
		inboxID:       inboxID,
		conversations: newFakeConversations(),
		contacts:      &fakeContacts{},
	}
}

func (a *fakeAgent) InboxID() string                        { return a.inboxID }
func (a *fakeAgent) Conversations() substrate.Conversations { return a.conversations }
func (a *fakeAgent) Contacts() substrate.Contacts           { return a.contacts }

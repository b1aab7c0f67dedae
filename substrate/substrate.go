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

// Package substrate declares the narrow capability this module consumes
// from the messaging layer it runs on top of (identity, transport, group
// membership, storage, consent list). Nothing in this module implements
// these interfaces; a host wires a concrete messaging SDK in.
package substrate

import "context"

// Conversation is a single group or DM the substrate knows about.
type Conversation interface {
	ID() string

	// Send delivers raw bytes on this conversation.
	Send(ctx context.Context, content []byte) error

	// SendText delivers string content. Substrates without a dedicated
	// text path may implement this by falling back to Send.
	SendText(ctx context.Context, text string) error

	// AddMembers adds the given inbox ids to a group conversation.
	AddMembers(ctx context.Context, inboxIDs []string) error

	// AppData reads the conversation's opaque persisted string.
	AppData() string

	// UpdateAppData overwrites the conversation's opaque persisted string.
	UpdateAppData(ctx context.Context, data string) error
}

// Conversations resolves and creates conversations.
type Conversations interface {
	GetByID(ctx context.Context, id string) (Conversation, bool, error)
	CreateGroup(ctx context.Context, members []string, opts GroupOptions) (Conversation, error)
	CreateDM(ctx context.Context, inboxID string) (Conversation, error)
	List(ctx context.Context) ([]Conversation, error)
}

// GroupOptions configures CreateGroup.
type GroupOptions struct {
	Name        *string
	Description *string
	AppData     *string
}

// Contacts exposes the consent operations the middleware's BlockSender
// action needs.
type Contacts interface {
	RefreshConsentList(ctx context.Context) error
	Block(ctx context.Context, inboxIDs []string) error
}

// MessagingAgent is the full capability this module consumes: the
// creator's own inbox id plus the conversations/contacts surfaces.
type MessagingAgent interface {
	InboxID() string
	Conversations() Conversations
	Contacts() Contacts
}

// MessageContent models the substrate's heterogeneous message payload as
// a narrow capability rather than exposing the substrate's concrete type
// to the middleware.
type MessageContent interface {
	// ExtractText returns the message's text content, or ok=false if the
	// message carries no text (binary content, or an unrecognized type).
	ExtractText() (text string, ok bool)
}

// TextContent is the common case: a message that is just a string.
type TextContent string

func (t TextContent) ExtractText() (string, bool) { return string(t), true }

// BytesContent is an opaque binary payload with no text representation.
type BytesContent []byte

func (BytesContent) ExtractText() (string, bool) { return "", false }

// UnknownContent is any substrate-native type this module does not
// recognize.
type UnknownContent struct{}

func (UnknownContent) ExtractText() (string, bool) { return "", false }

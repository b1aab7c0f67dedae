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

	"github.com/convos-org/convos-invite/framing"
	"github.com/convos-org/convos-invite/internal/logger"
	"github.com/convos-org/convos-invite/primitives"
	"github.com/convos-org/convos-invite/substrate"
	"github.com/convos-org/convos-invite/wire"
)

// JoinResult is what Join hands back to the caller once the DM has been
// sent. OpaqueConversationToken is deliberately NOT a conversation id: the
// joiner cannot decrypt the conversation token, so this field exposes the
// raw encrypted bytes as an opaque value only and never claims to be a
// usable id.
type JoinResult struct {
	OpaqueConversationToken []byte
	CreatorInboxID          string
	InviteTag               string
	Name                    *string
	Description             *string
}

// Join parses inviteURL, rejects it if expired or self-owned, opens a DM
// to the creator, and sends the canonical slug form of the invite as the
// DM body.
func Join(ctx context.Context, agent substrate.MessagingAgent, inviteURL string) (*JoinResult, error) {
	parsed, err := Parse(inviteURL)
	if err != nil {
		return nil, err
	}

	if parsed.IsExpired || parsed.IsConversationExpired {
		return nil, logger.NewCodedError(logger.ErrCodeExpired, "Expired", nil)
	}

	creatorInboxID := string(parsed.Payload.CreatorInboxID)
	if creatorInboxID == agent.InboxID() {
		return nil, logger.NewCodedError(logger.ErrCodeFormat, "cannot join a self-owned invite", nil)
	}

	dm, err := agent.Conversations().CreateDM(ctx, creatorInboxID)
	if err != nil {
		return nil, logger.NewCodedError(logger.ErrCodeSubstrateUnavailable, "creating DM to creator failed", err)
	}

	slug, err := canonicalSlug(parsed.Signed)
	if err != nil {
		return nil, err
	}

	if err := dm.SendText(ctx, slug); err != nil {
		return nil, logger.NewCodedError(logger.ErrCodeSubstrateUnavailable, "sending join request failed", err)
	}

	return &JoinResult{
		OpaqueConversationToken: parsed.Payload.ConversationToken,
		CreatorInboxID:          creatorInboxID,
		InviteTag:               parsed.Payload.Tag,
		Name:                    parsed.Payload.Name,
		Description:             parsed.Payload.Description,
	}, nil
}

// canonicalSlug re-derives the chunked, framed, base64url slug for an
// already-parsed SignedInvite, so the DM body matches what Build would
// have produced for the same bytes regardless of which URL shape the
// invite arrived in.
func canonicalSlug(signed *wire.SignedInvite) (string, error) {
	encoded := wire.EncodeSignedInvite(signed)
	framed, err := framing.CompressIfSmaller(encoded)
	if err != nil {
		return "", err
	}
	return framing.ChunkSeparate(primitives.Base64URLEncode(framed)), nil
}

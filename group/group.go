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

// Package group wraps a single substrate group conversation with the
// invite-side operations a creator performs on it: minting an invite
// against the group's current metadata, upserting the caller's profile
// into it, and rotating the invite tag. It holds only the narrow
// GroupHandle capability, not the middleware engine, to keep the
// wrapper/engine relationship acyclic.
package group

import (
	"context"

	"golang.org/x/sync/singleflight"

	"github.com/convos-org/convos-invite/internal/config"
	"github.com/convos-org/convos-invite/internal/logger"
	"github.com/convos-org/convos-invite/invite"
	"github.com/convos-org/convos-invite/metadata"
	"github.com/convos-org/convos-invite/wire"
)

// GroupHandle is the narrow capability group needs from a substrate
// conversation: reading and persisting its opaque app_data string, plus
// its id for minting invites against.
type GroupHandle interface {
	ID() string
	AppData() string
	UpdateAppData(ctx context.Context, data string) error
}

// Group wraps a GroupHandle with invite/profile operations.
type Group struct {
	handle GroupHandle
	cfg    config.Config

	// sf collapses concurrent lazy-metadata-init races on the same
	// conversation into a single generate-and-persist.
	sf singleflight.Group
}

// New wraps handle.
func New(handle GroupHandle, cfg config.Config) *Group {
	return &Group{handle: handle, cfg: cfg}
}

// CreateInviteOptions carries the caller-supplied display fields and
// timestamps for a minted invite.
type CreateInviteOptions struct {
	CreatorInboxID string

	Name        *string
	Description *string
	ImageURL    *string

	ConversationExpiresAtUnix *int64
	ExpiresAtUnix             *int64
	ExpiresAfterUse           bool
}

// CreateInvite reuses the group's current tag if its app_data decodes to
// one, otherwise lazily generates and persists fresh metadata, then mints
// a slug against the group's id.
func (g *Group) CreateInvite(ctx context.Context, opts CreateInviteOptions) (string, error) {
	m, err := g.currentOrFreshMetadata(ctx)
	if err != nil {
		return "", err
	}

	return invite.Build(invite.BuildOptions{
		ConversationID:            g.handle.ID(),
		Tag:                       m.Tag,
		CreatorInboxID:            opts.CreatorInboxID,
		CreatorPrivateKey:         g.cfg.CreatorPrivateKey,
		Name:                      opts.Name,
		Description:               opts.Description,
		ImageURL:                  opts.ImageURL,
		ConversationExpiresAtUnix: opts.ConversationExpiresAtUnix,
		ExpiresAtUnix:             opts.ExpiresAtUnix,
		ExpiresAfterUse:           opts.ExpiresAfterUse,
	})
}

// SetConversationProfileOptions carries the caller's own display profile.
type SetConversationProfileOptions struct {
	SelfInboxID string
	Name        *string
	Image       *string
}

// SetConversationProfile reads the group's current metadata (replacing it
// with fresh metadata if undecodable), upserts the caller's profile keyed
// by SelfInboxID, and persists the result.
func (g *Group) SetConversationProfile(ctx context.Context, opts SetConversationProfileOptions) error {
	m, err := g.currentOrFreshMetadata(ctx)
	if err != nil {
		return err
	}

	metadata.UpsertProfile(m, wire.ConversationProfile{
		InboxID: []byte(opts.SelfInboxID),
		Name:    opts.Name,
		Image:   opts.Image,
	})

	return g.persist(ctx, m)
}

// RotateInviteTag reads the group's current metadata (generating fresh
// metadata if undecodable), rotates its tag, and persists the result.
// Every invite minted against the old tag is invalidated once this
// returns, since invites carry the tag they were minted against.
func (g *Group) RotateInviteTag(ctx context.Context) error {
	m, err := g.currentOrFreshMetadata(ctx)
	if err != nil {
		return err
	}

	next, err := metadata.RotateInviteTag(m)
	if err != nil {
		return err
	}

	return g.persist(ctx, next)
}

// currentOrFreshMetadata decodes the group's app_data. An empty or
// undecodable app_data produces fresh metadata rather than an error; a
// genuinely corrupt-but-nonempty value is still logged so the operator
// can see it was discarded. The lazy-generate-and-persist path is
// collapsed through singleflight so two concurrent first-callers on the
// same conversation never mint and persist two different tags.
func (g *Group) currentOrFreshMetadata(ctx context.Context) (*wire.ConversationCustomMetadata, error) {
	if m, ok := g.decodeCurrent(); ok {
		return m, nil
	}

	v, err, _ := g.sf.Do(g.handle.ID(), func() (any, error) {
		if m, ok := g.decodeCurrent(); ok {
			return m, nil
		}
		fresh, err := metadata.Fresh()
		if err != nil {
			return nil, err
		}
		if err := g.persist(ctx, fresh); err != nil {
			return nil, err
		}
		return fresh, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*wire.ConversationCustomMetadata), nil
}

// decodeCurrent returns the group's decoded metadata if its app_data is
// non-empty, decodable, and carries a non-empty tag.
func (g *Group) decodeCurrent() (*wire.ConversationCustomMetadata, bool) {
	raw := g.handle.AppData()
	if raw == "" {
		return nil, false
	}
	m, err := metadata.Decode(raw)
	if err != nil {
		logger.Warn("group: app_data undecodable, generating fresh metadata",
			logger.String("conversation_id", g.handle.ID()), logger.Error(err))
		return nil, false
	}
	if m.Tag == "" {
		return nil, false
	}
	return m, true
}

func (g *Group) persist(ctx context.Context, m *wire.ConversationCustomMetadata) error {
	encoded, err := metadata.Encode(m)
	if err != nil {
		return err
	}
	return g.handle.UpdateAppData(ctx, encoded)
}

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

// Package token implements the conversation token: the AEAD-sealed,
// versioned blob that carries a conversation id inside an invite without
// exposing it to anyone but the creator.
package token

import (
	"github.com/convos-org/convos-invite/internal/logger"
	"github.com/convos-org/convos-invite/primitives"
)

const (
	// tokenVersion is the only version byte this package will decrypt.
	tokenVersion byte = 0x01

	// kdfSalt is fixed for every creator; the key is bound to identity
	// through kdfInfo, not through the salt.
	kdfSalt = "ConvosInviteV1"
)

// DeriveKey computes K = HKDF-SHA256(ikm=creatorPrivateKey, salt="ConvosInviteV1",
// info="inbox:"+creatorInboxID, L=32). It must be recomputed identically on
// mint and on consume.
func DeriveKey(creatorPrivateKey []byte, creatorInboxID string) ([]byte, error) {
	return primitives.DeriveKey(creatorPrivateKey, []byte(kdfSalt), []byte("inbox:"+creatorInboxID))
}

// Encrypt packs conversationID, seals it under K with AAD = utf8(creatorInboxID),
// and prepends the version byte.
func Encrypt(creatorPrivateKey []byte, creatorInboxID string, conversationID string) ([]byte, error) {
	key, err := DeriveKey(creatorPrivateKey, creatorInboxID)
	if err != nil {
		return nil, err
	}

	plaintext, err := Pack(conversationID)
	if err != nil {
		return nil, err
	}

	sealed, err := primitives.Seal(key, []byte(creatorInboxID), plaintext)
	if err != nil {
		return nil, err
	}

	out := make([]byte, 0, 1+len(sealed))
	out = append(out, tokenVersion)
	out = append(out, sealed...)
	return out, nil
}

// Decrypt rejects any version byte other than 0x01 with UnsupportedVersion,
// recomputes K and AAD from creatorInboxID, and unpacks the conversation id.
// Any AEAD failure surfaces as primitives.ErrBadAuthTag.
func Decrypt(creatorPrivateKey []byte, creatorInboxID string, tokenBytes []byte) (string, error) {
	if len(tokenBytes) < 1 {
		return "", logger.NewCodedError(logger.ErrCodeFormat, "empty token", nil)
	}
	if tokenBytes[0] != tokenVersion {
		return "", logger.NewCodedError(logger.ErrCodeFormat, "UnsupportedVersion", nil)
	}

	key, err := DeriveKey(creatorPrivateKey, creatorInboxID)
	if err != nil {
		return "", err
	}

	plaintext, err := primitives.Open(key, []byte(creatorInboxID), tokenBytes[1:])
	if err != nil {
		return "", err
	}

	return Unpack(plaintext)
}

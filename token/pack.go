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

package token

import (
	"encoding/binary"
	"strings"

	"github.com/google/uuid"

	"github.com/convos-org/convos-invite/internal/logger"
)

const (
	typeUUID   byte = 0x01
	typeString byte = 0x02

	shortStringMax = 255
)

// Pack encodes a conversation id as the typed plaintext described in the
// data model: a UUID (any case) packs as 16 raw bytes and round-trips as
// lowercase canonical form; any other string packs as UTF-8, short-form
// (len ≤ 255) or long-form (len > 255).
func Pack(conversationID string) ([]byte, error) {
	if conversationID == "" {
		return nil, logger.NewCodedError(logger.ErrCodeFormat, "empty conversation id", nil)
	}
	if id, err := uuid.Parse(conversationID); err == nil {
		raw := id[:]
		out := make([]byte, 0, 1+len(raw))
		out = append(out, typeUUID)
		out = append(out, raw...)
		return out, nil
	}

	data := []byte(conversationID)
	if len(data) <= shortStringMax {
		out := make([]byte, 0, 2+len(data))
		out = append(out, typeString)
		out = append(out, byte(len(data)))
		out = append(out, data...)
		return out, nil
	}

	out := make([]byte, 0, 4+len(data))
	out = append(out, typeString, 0x00)
	lenBuf := make([]byte, 2)
	binary.BigEndian.PutUint16(lenBuf, uint16(len(data)))
	out = append(out, lenBuf...)
	out = append(out, data...)
	return out, nil
}

// Unpack inverts Pack, enforcing exact length matches. UUIDs decode to
// their lowercase hyphenated canonical form regardless of how they were
// cased when packed.
func Unpack(data []byte) (string, error) {
	if len(data) < 1 {
		return "", logger.NewCodedError(logger.ErrCodeFormat, "empty conversation token plaintext", nil)
	}

	switch data[0] {
	case typeUUID:
		if len(data) != 17 {
			return "", logger.NewCodedError(logger.ErrCodeFormat, "UUID payload must be 16 bytes", nil)
		}
		id, err := uuid.FromBytes(data[1:17])
		if err != nil {
			return "", logger.NewCodedError(logger.ErrCodeFormat, "invalid UUID bytes", err)
		}
		return strings.ToLower(id.String()), nil

	case typeString:
		rest := data[1:]
		if len(rest) == 0 {
			return "", logger.NewCodedError(logger.ErrCodeFormat, "truncated string payload", nil)
		}
		if rest[0] != 0x00 {
			length := int(rest[0])
			if length == 0 || len(rest)-1 != length {
				return "", logger.NewCodedError(logger.ErrCodeFormat, "short string length mismatch", nil)
			}
			return string(rest[1 : 1+length]), nil
		}

		if len(rest) < 3 {
			return "", logger.NewCodedError(logger.ErrCodeFormat, "truncated long-form string header", nil)
		}
		length := int(binary.BigEndian.Uint16(rest[1:3]))
		if len(rest)-3 != length {
			return "", logger.NewCodedError(logger.ErrCodeFormat, "long string length mismatch", nil)
		}
		return string(rest[3 : 3+length]), nil

	default:
		return "", logger.NewCodedError(logger.ErrCodeFormat, "unknown conversation token type byte", nil)
	}
}

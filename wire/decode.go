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

	"github.com/convos-org/convos-invite/internal/logger"
)

// DecodeInvitePayload parses the protowire encoding produced by
// EncodeInvitePayload. ConversationExpiresAtUnix/ExpiresAtUnix decode to
// nil when the field is absent OR when its wire value is exactly zero,
// matching writers that serialize 0 instead of omitting the field.
func DecodeInvitePayload(b []byte) (*InvitePayload, error) {
	p := &InvitePayload{}

	for len(b) > 0 {
		num, typ, n := protowire.ConsumeTag(b)
		if n < 0 {
			return nil, decodeErr(protowire.ParseError(n))
		}
		b = b[n:]

		switch num {
		case 1:
			v, m := protowire.ConsumeBytes(b)
			if m < 0 {
				return nil, decodeErr(protowire.ParseError(m))
			}
			p.ConversationToken = append([]byte(nil), v...)
			b = b[m:]
		case 2:
			v, m := protowire.ConsumeBytes(b)
			if m < 0 {
				return nil, decodeErr(protowire.ParseError(m))
			}
			p.CreatorInboxID = append([]byte(nil), v...)
			b = b[m:]
		case 3:
			v, m := protowire.ConsumeBytes(b)
			if m < 0 {
				return nil, decodeErr(protowire.ParseError(m))
			}
			p.Tag = string(v)
			b = b[m:]
		case 4:
			v, m, err := consumeOptionalString(b)
			if err != nil {
				return nil, err
			}
			p.Name = v
			b = b[m:]
		case 5:
			v, m, err := consumeOptionalString(b)
			if err != nil {
				return nil, err
			}
			p.Description = v
			b = b[m:]
		case 6:
			v, m, err := consumeOptionalString(b)
			if err != nil {
				return nil, err
			}
			p.ImageURL = v
			b = b[m:]
		case 7:
			v, m, err := consumeOptionalSfixed64(b)
			if err != nil {
				return nil, err
			}
			p.ConversationExpiresAtUnix = v
			b = b[m:]
		case 8:
			v, m, err := consumeOptionalSfixed64(b)
			if err != nil {
				return nil, err
			}
			p.ExpiresAtUnix = v
			b = b[m:]
		case 9:
			v, m := protowire.ConsumeVarint(b)
			if m < 0 {
				return nil, decodeErr(protowire.ParseError(m))
			}
			p.ExpiresAfterUse = v != 0
			b = b[m:]
		default:
			m := protowire.ConsumeFieldValue(num, typ, b)
			if m < 0 {
				return nil, decodeErr(protowire.ParseError(m))
			}
			b = b[m:]
		}
	}

	return p, nil
}

// DecodeSignedInvite parses the protowire encoding produced by
// EncodeSignedInvite.
func DecodeSignedInvite(b []byte) (*SignedInvite, error) {
	s := &SignedInvite{}

	for len(b) > 0 {
		num, typ, n := protowire.ConsumeTag(b)
		if n < 0 {
			return nil, decodeErr(protowire.ParseError(n))
		}
		b = b[n:]

		switch num {
		case 1:
			v, m := protowire.ConsumeBytes(b)
			if m < 0 {
				return nil, decodeErr(protowire.ParseError(m))
			}
			s.Payload = append([]byte(nil), v...)
			b = b[m:]
		case 2:
			v, m := protowire.ConsumeBytes(b)
			if m < 0 {
				return nil, decodeErr(protowire.ParseError(m))
			}
			s.Signature = append([]byte(nil), v...)
			b = b[m:]
		default:
			m := protowire.ConsumeFieldValue(num, typ, b)
			if m < 0 {
				return nil, decodeErr(protowire.ParseError(m))
			}
			b = b[m:]
		}
	}

	return s, nil
}

// DecodeConversationProfile parses the protowire encoding produced by
// EncodeConversationProfile.
func DecodeConversationProfile(b []byte) (*ConversationProfile, error) {
	p := &ConversationProfile{}

	for len(b) > 0 {
		num, typ, n := protowire.ConsumeTag(b)
		if n < 0 {
			return nil, decodeErr(protowire.ParseError(n))
		}
		b = b[n:]

		switch num {
		case 1:
			v, m := protowire.ConsumeBytes(b)
			if m < 0 {
				return nil, decodeErr(protowire.ParseError(m))
			}
			p.InboxID = append([]byte(nil), v...)
			b = b[m:]
		case 2:
			v, m, err := consumeOptionalString(b)
			if err != nil {
				return nil, err
			}
			p.Name = v
			b = b[m:]
		case 3:
			v, m, err := consumeOptionalString(b)
			if err != nil {
				return nil, err
			}
			p.Image = v
			b = b[m:]
		default:
			m := protowire.ConsumeFieldValue(num, typ, b)
			if m < 0 {
				return nil, decodeErr(protowire.ParseError(m))
			}
			b = b[m:]
		}
	}

	return p, nil
}

// DecodeConversationCustomMetadata parses the protowire encoding produced
// by EncodeConversationCustomMetadata.
func DecodeConversationCustomMetadata(b []byte) (*ConversationCustomMetadata, error) {
	m := &ConversationCustomMetadata{}

	for len(b) > 0 {
		num, typ, n := protowire.ConsumeTag(b)
		if n < 0 {
			return nil, decodeErr(protowire.ParseError(n))
		}
		b = b[n:]

		switch num {
		case 1:
			v, k := protowire.ConsumeBytes(b)
			if k < 0 {
				return nil, decodeErr(protowire.ParseError(k))
			}
			m.Tag = string(v)
			b = b[k:]
		case 2:
			v, k := protowire.ConsumeBytes(b)
			if k < 0 {
				return nil, decodeErr(protowire.ParseError(k))
			}
			profile, err := DecodeConversationProfile(v)
			if err != nil {
				return nil, err
			}
			m.Profiles = append(m.Profiles, *profile)
			b = b[k:]
		case 3:
			v, k, err := consumeOptionalSfixed64(b)
			if err != nil {
				return nil, err
			}
			m.ExpiresAtUnix = v
			b = b[k:]
		case 4:
			v, k := protowire.ConsumeBytes(b)
			if k < 0 {
				return nil, decodeErr(protowire.ParseError(k))
			}
			m.ImageEncryptionKey = append([]byte(nil), v...)
			b = b[k:]
		default:
			k := protowire.ConsumeFieldValue(num, typ, b)
			if k < 0 {
				return nil, decodeErr(protowire.ParseError(k))
			}
			b = b[k:]
		}
	}

	return m, nil
}

func consumeOptionalString(b []byte) (*string, int, error) {
	v, n := protowire.ConsumeBytes(b)
	if n < 0 {
		return nil, 0, decodeErr(protowire.ParseError(n))
	}
	s := string(v)
	return &s, n, nil
}

// consumeOptionalSfixed64 decodes a Fixed64 field into *int64, collapsing
// an on-wire zero to "not set" so writers that encode the zero value
// instead of omitting the field stay compatible with this reader.
func consumeOptionalSfixed64(b []byte) (*int64, int, error) {
	v, n := protowire.ConsumeFixed64(b)
	if n < 0 {
		return nil, 0, decodeErr(protowire.ParseError(n))
	}
	if v == 0 {
		return nil, n, nil
	}
	i := int64(v)
	return &i, n, nil
}

func decodeErr(err error) error {
	return logger.NewCodedError(logger.ErrCodeFormat, "malformed protobuf wire data", err)
}

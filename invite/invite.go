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

// Package invite builds, parses, and verifies signed invite slugs: the
// URL-safe encoding of a SignedInvite that travels out-of-band from
// creator to joiner.
package invite

import (
	"crypto/sha256"
	"net/url"
	"regexp"
	"strings"
	"time"

	"github.com/convos-org/convos-invite/framing"
	"github.com/convos-org/convos-invite/internal/config"
	"github.com/convos-org/convos-invite/internal/logger"
	"github.com/convos-org/convos-invite/internal/metrics"
	"github.com/convos-org/convos-invite/primitives"
	"github.com/convos-org/convos-invite/token"
	"github.com/convos-org/convos-invite/wire"
)

// SlugRecognizer matches the shape a raw invite slug is expected to have
// once separators are accounted for: base64url characters and "*", at
// least 50 of them.
var SlugRecognizer = regexp.MustCompile(`^[A-Za-z0-9_\-*]{50,}$`)

// BuildOptions carries every input to Build.
type BuildOptions struct {
	ConversationID    string
	Tag               string
	CreatorInboxID    string
	CreatorPrivateKey []byte

	Name        *string
	Description *string
	ImageURL    *string

	ConversationExpiresAtUnix *int64
	ExpiresAtUnix             *int64
	ExpiresAfterUse           bool
}

// ParsedInvite is the result of Parse: the decoded payload plus the
// derived expiry flags computed against the wall clock at parse time.
type ParsedInvite struct {
	Signed  *wire.SignedInvite
	Payload *wire.InvitePayload

	IsExpired             bool
	IsConversationExpired bool
}

// Build produces a slug string: encode InvitePayload, hash with SHA-256,
// sign-with-recovery, wrap as SignedInvite, protobuf-encode, frame, and
// chunk-separate.
func Build(opts BuildOptions) (string, error) {
	start := time.Now()
	defer func() {
		metrics.CryptoOperationDuration.WithLabelValues("build", "invite").Observe(time.Since(start).Seconds())
	}()

	conversationToken, err := token.Encrypt(opts.CreatorPrivateKey, opts.CreatorInboxID, opts.ConversationID)
	if err != nil {
		metrics.InviteOperations.WithLabelValues("build", "fail").Inc()
		return "", err
	}

	payload := &wire.InvitePayload{
		ConversationToken:         conversationToken,
		CreatorInboxID:            []byte(opts.CreatorInboxID),
		Tag:                       opts.Tag,
		Name:                      opts.Name,
		Description:               opts.Description,
		ImageURL:                  opts.ImageURL,
		ConversationExpiresAtUnix: opts.ConversationExpiresAtUnix,
		ExpiresAtUnix:             opts.ExpiresAtUnix,
		ExpiresAfterUse:           opts.ExpiresAfterUse,
	}

	encodedPayload := wire.EncodeInvitePayload(payload)
	hash := sha256.Sum256(encodedPayload)

	signature, err := primitives.Sign(hash[:], opts.CreatorPrivateKey)
	if err != nil {
		metrics.InviteOperations.WithLabelValues("build", "fail").Inc()
		return "", err
	}

	signed := &wire.SignedInvite{Payload: encodedPayload, Signature: signature}
	encodedSigned := wire.EncodeSignedInvite(signed)

	framed, err := framing.CompressIfSmaller(encodedSigned)
	if err != nil {
		metrics.InviteOperations.WithLabelValues("build", "fail").Inc()
		return "", err
	}

	slug := framing.ChunkSeparate(primitives.Base64URLEncode(framed))
	metrics.InviteOperations.WithLabelValues("build", "ok").Inc()
	return slug, nil
}

// Parse accepts a slug or a URL carrying one (via ?i=, the legacy ?code=,
// an app-scheme path, or a trailing path segment) and decodes it back to
// a SignedInvite/InvitePayload pair with expiry flags computed against
// the current wall clock.
func Parse(input string) (*ParsedInvite, error) {
	slug := ExtractSlug(input)
	slug = strings.TrimSpace(slug)
	slug = framing.StripSeparators(slug)

	raw, err := primitives.Base64URLDecode(slug)
	if err != nil {
		metrics.InviteOperations.WithLabelValues("parse", "fail").Inc()
		return nil, logger.NewCodedError(logger.ErrCodeFormat, "InvalidBase64", err)
	}

	decompressed, err := framing.Decompress(raw)
	if err != nil {
		metrics.InviteOperations.WithLabelValues("parse", "fail").Inc()
		return nil, err
	}

	signed, err := wire.DecodeSignedInvite(decompressed)
	if err != nil {
		metrics.InviteOperations.WithLabelValues("parse", "fail").Inc()
		return nil, logger.NewCodedError(logger.ErrCodeFormat, "ProtobufDecode", err)
	}

	payload, err := wire.DecodeInvitePayload(signed.Payload)
	if err != nil {
		metrics.InviteOperations.WithLabelValues("parse", "fail").Inc()
		return nil, logger.NewCodedError(logger.ErrCodeFormat, "ProtobufDecode", err)
	}

	now := time.Now().Unix()
	parsed := &ParsedInvite{
		Signed:  signed,
		Payload: payload,
	}
	if payload.ExpiresAtUnix != nil {
		parsed.IsExpired = *payload.ExpiresAtUnix < now
	}
	if payload.ConversationExpiresAtUnix != nil {
		parsed.IsConversationExpired = *payload.ConversationExpiresAtUnix < now
	}

	metrics.InviteOperations.WithLabelValues("parse", "ok").Inc()
	return parsed, nil
}

// ExtractSlug recognizes, in order, the "?i=" query parameter, the legacy
// "?code=" query parameter, an app-scheme path such as
// "convos://join/<code>", a trailing path segment, or else treats input
// as a raw slug.
func ExtractSlug(input string) string {
	trimmed := strings.TrimSpace(input)

	if u, err := url.Parse(trimmed); err == nil {
		if v := u.Query().Get("i"); v != "" {
			return v
		}
		if v := u.Query().Get("code"); v != "" {
			return v
		}
		if u.Scheme != "" || strings.Contains(trimmed, "://") {
			segments := strings.Split(strings.Trim(u.Path, "/"), "/")
			if last := segments[len(segments)-1]; last != "" {
				return last
			}
		}
	}

	return trimmed
}

// Verify normalizes both the recovered key and expectedPub to 65-byte
// uncompressed form, then constant-time compares them. It never panics
// and never reveals the reason for failure.
func Verify(signed *wire.SignedInvite, expectedPub []byte) bool {
	ok, _ := verify(signed, expectedPub)
	return ok
}

// VerifyWithPrivateKey derives the public key from priv and delegates to
// Verify.
func VerifyWithPrivateKey(signed *wire.SignedInvite, priv []byte) bool {
	pub, err := primitives.GetPublicKey(priv)
	if err != nil {
		return false
	}
	return Verify(signed, pub)
}

func verify(signed *wire.SignedInvite, expectedPub []byte) (ok bool, err error) {
	defer func() {
		if r := recover(); r != nil {
			ok, err = false, nil
		}
	}()

	start := time.Now()
	defer func() {
		metrics.CryptoOperationDuration.WithLabelValues("verify", "secp256k1").Observe(time.Since(start).Seconds())
	}()

	hash := sha256.Sum256(signed.Payload)
	recovered, err := primitives.Recover(hash[:], signed.Signature)
	if err != nil {
		return false, err
	}

	recoveredNorm, err := primitives.NormalizeToUncompressed(recovered)
	if err != nil {
		return false, err
	}
	expectedNorm, err := primitives.NormalizeToUncompressed(expectedPub)
	if err != nil {
		return false, err
	}

	return primitives.ConstantTimeEqual(recoveredNorm, expectedNorm), nil
}

// DecryptConversationID decrypts the conversation id carried in parsed
// using the creator's private key and the creator_inbox_id found in the
// parsed payload itself.
func DecryptConversationID(parsed *ParsedInvite, creatorPrivateKey []byte) (string, error) {
	creatorInboxID := string(parsed.Payload.CreatorInboxID)
	return token.Decrypt(creatorPrivateKey, creatorInboxID, parsed.Payload.ConversationToken)
}

// URL renders slug as an invite URL: "<base>?i=<url_encoded_slug>", with
// base taken from cfg.InviteBaseURL().
func URL(cfg config.Config, slug string) string {
	return cfg.InviteBaseURL() + "?i=" + url.QueryEscape(slug)
}

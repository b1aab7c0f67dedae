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

package primitives

import (
	"crypto/rand"
	"time"

	"golang.org/x/crypto/chacha20poly1305"

	"github.com/convos-org/convos-invite/internal/logger"
	"github.com/convos-org/convos-invite/internal/metrics"
)

// NonceSize is the ChaCha20-Poly1305 nonce length in bytes.
const NonceSize = chacha20poly1305.NonceSize

// Seal encrypts plaintext under key with a freshly generated random nonce
// and aad, returning `nonce ∥ ciphertext ∥ tag`.
func Seal(key, aad, plaintext []byte) ([]byte, error) {
	start := time.Now()
	defer func() {
		metrics.CryptoOperationDuration.WithLabelValues("encrypt", "chacha20poly1305").Observe(time.Since(start).Seconds())
	}()

	aead, err := chacha20poly1305.New(key)
	if err != nil {
		metrics.CryptoErrors.WithLabelValues("encrypt").Inc()
		return nil, logger.NewCodedError(logger.ErrCodeCrypto, "invalid AEAD key", err)
	}

	nonce := make([]byte, chacha20poly1305.NonceSize)
	if _, err := rand.Read(nonce); err != nil {
		metrics.CryptoErrors.WithLabelValues("encrypt").Inc()
		return nil, logger.NewCodedError(logger.ErrCodeCrypto, "nonce generation failed", err)
	}

	out := aead.Seal(nonce, nonce, plaintext, aad)
	metrics.CryptoOperations.WithLabelValues("encrypt", "chacha20poly1305").Inc()
	return out, nil
}

// Open splits `nonce ∥ ciphertext ∥ tag`, decrypts under key and aad, and
// returns the plaintext. Any tampering of ciphertext, nonce, aad or key
// surfaces as a BadAuthTag-coded error.
func Open(key, aad, sealed []byte) ([]byte, error) {
	start := time.Now()
	defer func() {
		metrics.CryptoOperationDuration.WithLabelValues("decrypt", "chacha20poly1305").Observe(time.Since(start).Seconds())
	}()

	if len(sealed) < chacha20poly1305.NonceSize {
		metrics.CryptoErrors.WithLabelValues("decrypt").Inc()
		return nil, ErrBadAuthTag
	}

	aead, err := chacha20poly1305.New(key)
	if err != nil {
		metrics.CryptoErrors.WithLabelValues("decrypt").Inc()
		return nil, logger.NewCodedError(logger.ErrCodeCrypto, "invalid AEAD key", err)
	}

	nonce, ciphertext := sealed[:chacha20poly1305.NonceSize], sealed[chacha20poly1305.NonceSize:]
	plaintext, err := aead.Open(nil, nonce, ciphertext, aad)
	if err != nil {
		metrics.CryptoErrors.WithLabelValues("decrypt").Inc()
		return nil, ErrBadAuthTag
	}

	metrics.CryptoOperations.WithLabelValues("decrypt", "chacha20poly1305").Inc()
	return plaintext, nil
}

// ErrBadAuthTag is returned whenever AEAD authentication fails, without
// distinguishing which of ciphertext/nonce/aad/key was tampered with.
var ErrBadAuthTag = logger.NewCodedError(logger.ErrCodeCrypto, "BadAuthTag", nil)

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

// Package primitives wraps the low-level cryptographic operations invites
// are built from: secp256k1 sign/recover, HKDF-SHA256 key derivation,
// ChaCha20-Poly1305 AEAD, and the constant-time/encoding helpers they lean
// on. Every exported function here is side-effect free aside from the
// prometheus timing/counter hooks in internal/metrics, and deterministic
// except Seal, which draws a fresh random nonce on every call.
package primitives

import (
	"time"

	"github.com/decred/dcrd/dcrec/secp256k1/v4"
	ethcrypto "github.com/ethereum/go-ethereum/crypto"

	"github.com/convos-org/convos-invite/internal/logger"
	"github.com/convos-org/convos-invite/internal/metrics"
)

// Sign produces a 65-byte Ethereum-style recoverable signature (r ∥ s ∥ v)
// over a 32-byte message hash using a 32-byte private key. r,s are
// normalized to low-s form by ethcrypto.Sign; v is in {0,1}.
func Sign(hash, privateKeyBytes []byte) ([]byte, error) {
	start := time.Now()
	defer func() {
		metrics.CryptoOperationDuration.WithLabelValues("sign", "secp256k1").Observe(time.Since(start).Seconds())
	}()

	if len(hash) != 32 {
		metrics.CryptoErrors.WithLabelValues("sign").Inc()
		return nil, logger.NewCodedError(logger.ErrCodeCrypto, "message hash must be 32 bytes", nil)
	}
	if len(privateKeyBytes) != 32 {
		metrics.CryptoErrors.WithLabelValues("sign").Inc()
		return nil, logger.NewCodedError(logger.ErrCodeCrypto, "private key must be 32 bytes", nil)
	}

	priv, err := ethcrypto.ToECDSA(privateKeyBytes)
	if err != nil {
		metrics.CryptoErrors.WithLabelValues("sign").Inc()
		return nil, logger.NewCodedError(logger.ErrCodeCrypto, "invalid private key", err)
	}
	sig, err := ethcrypto.Sign(hash, priv)
	if err != nil {
		metrics.CryptoErrors.WithLabelValues("sign").Inc()
		return nil, logger.NewCodedError(logger.ErrCodeCrypto, "signing failed", err)
	}

	metrics.CryptoOperations.WithLabelValues("sign", "secp256k1").Inc()
	return sig, nil
}

// Recover recovers the 65-byte uncompressed public key from a 65-byte
// recoverable signature over a 32-byte message hash. It rejects any
// signature whose length is not 65 or whose recovery byte exceeds 3.
func Recover(hash, signature []byte) ([]byte, error) {
	start := time.Now()
	defer func() {
		metrics.CryptoOperationDuration.WithLabelValues("recover", "secp256k1").Observe(time.Since(start).Seconds())
	}()

	if len(hash) != 32 {
		metrics.CryptoErrors.WithLabelValues("recover").Inc()
		return nil, logger.NewCodedError(logger.ErrCodeCrypto, "message hash must be 32 bytes", nil)
	}
	if len(signature) != 65 {
		metrics.CryptoErrors.WithLabelValues("recover").Inc()
		return nil, logger.NewCodedError(logger.ErrCodeCrypto, "signature must be 65 bytes", nil)
	}
	if signature[64] > 3 {
		metrics.CryptoErrors.WithLabelValues("recover").Inc()
		return nil, logger.NewCodedError(logger.ErrCodeCrypto, "invalid recovery id", nil)
	}

	pub, err := ethcrypto.Ecrecover(hash, signature)
	if err != nil {
		metrics.CryptoErrors.WithLabelValues("recover").Inc()
		return nil, logger.NewCodedError(logger.ErrCodeCrypto, "recovery failed", err)
	}

	metrics.CryptoOperations.WithLabelValues("recover", "secp256k1").Inc()
	return pub, nil
}

// GetPublicKey returns the 65-byte uncompressed (0x04-prefixed) public key
// for a 32-byte private key.
func GetPublicKey(privateKeyBytes []byte) ([]byte, error) {
	if len(privateKeyBytes) != 32 {
		return nil, logger.NewCodedError(logger.ErrCodeCrypto, "private key must be 32 bytes", nil)
	}
	priv := secp256k1.PrivKeyFromBytes(privateKeyBytes)
	return priv.PubKey().SerializeUncompressed(), nil
}

// NormalizeToUncompressed accepts either a 65-byte uncompressed or a
// 33-byte compressed public key and returns the 65-byte uncompressed form.
// Any other length fails.
func NormalizeToUncompressed(pub []byte) ([]byte, error) {
	switch len(pub) {
	case 65:
		return pub, nil
	case 33:
		key, err := secp256k1.ParsePubKey(pub)
		if err != nil {
			return nil, logger.NewCodedError(logger.ErrCodeCrypto, "invalid compressed public key", err)
		}
		return key.SerializeUncompressed(), nil
	default:
		return nil, logger.NewCodedError(logger.ErrCodeCrypto, "public key must be 33 or 65 bytes", nil)
	}
}

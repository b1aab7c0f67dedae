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
	"crypto/sha256"
	"io"
	"time"

	"golang.org/x/crypto/hkdf"

	"github.com/convos-org/convos-invite/internal/logger"
	"github.com/convos-org/convos-invite/internal/metrics"
)

// DeriveKey runs HKDF-SHA256 Extract-then-Expand over ikm with the given
// salt and info, producing exactly 32 bytes (L = 32 per RFC 5869).
func DeriveKey(ikm, salt, info []byte) ([]byte, error) {
	start := time.Now()
	defer func() {
		metrics.CryptoOperationDuration.WithLabelValues("derive", "hkdf-sha256").Observe(time.Since(start).Seconds())
	}()

	prk := hkdf.Extract(sha256.New, ikm, salt)
	r := hkdf.Expand(sha256.New, prk, info)

	out := make([]byte, 32)
	if _, err := io.ReadFull(r, out); err != nil {
		metrics.CryptoErrors.WithLabelValues("derive").Inc()
		return nil, logger.NewCodedError(logger.ErrCodeCrypto, "hkdf expand failed", err)
	}

	metrics.CryptoOperations.WithLabelValues("derive", "hkdf-sha256").Inc()
	return out, nil
}

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

// Package framing implements the compress-if-smaller byte framing and
// separator-chunking used to keep invite slugs short and messenger-safe.
package framing

import (
	"bytes"
	"io"
	"strings"

	"github.com/klauspost/compress/flate"

	"github.com/convos-org/convos-invite/internal/logger"
)

const (
	// deflateMarker prefixes output that was DEFLATE-compressed.
	deflateMarker byte = 0x78

	// compressThreshold is the minimum input length before compression
	// is even attempted.
	compressThreshold = 100

	// decompressionBombLimit caps the inflated size before it is
	// returned to a caller.
	decompressionBombLimit = 1 << 20 // 1 MiB

	// chunkSize is the slug chunk width for separator chunking.
	chunkSize = 300

	// chunkSeparator joins/splits slug chunks.
	chunkSeparator = "*"
)

// CompressIfSmaller DEFLATE-compresses data when doing so (plus the
// one-byte marker) yields a strictly smaller result than the input;
// otherwise it returns data unchanged. Input shorter than 100 bytes is
// never compressed.
func CompressIfSmaller(data []byte) ([]byte, error) {
	if len(data) < compressThreshold {
		return data, nil
	}

	var buf bytes.Buffer
	w, err := flate.NewWriter(&buf, flate.BestCompression)
	if err != nil {
		return nil, logger.NewCodedError(logger.ErrCodeInternal, "flate writer init failed", err)
	}
	if _, err := w.Write(data); err != nil {
		return nil, logger.NewCodedError(logger.ErrCodeInternal, "flate write failed", err)
	}
	if err := w.Close(); err != nil {
		return nil, logger.NewCodedError(logger.ErrCodeInternal, "flate close failed", err)
	}

	if buf.Len()+1 < len(data) {
		out := make([]byte, 0, buf.Len()+1)
		out = append(out, deflateMarker)
		out = append(out, buf.Bytes()...)
		return out, nil
	}
	return data, nil
}

// Decompress inspects byte 0 of data: if it is the DEFLATE marker, it
// inflates the remainder (rejecting any inflated result over 1 MiB as a
// DecompressionBomb); otherwise it returns data unchanged.
func Decompress(data []byte) ([]byte, error) {
	if len(data) == 0 || data[0] != deflateMarker {
		return data, nil
	}

	r := flate.NewReader(bytes.NewReader(data[1:]))
	defer r.Close()

	limited := io.LimitReader(r, decompressionBombLimit+1)
	out, err := io.ReadAll(limited)
	if err != nil {
		return nil, logger.NewCodedError(logger.ErrCodeFormat, "inflate failed", err)
	}
	if len(out) > decompressionBombLimit {
		return nil, logger.NewCodedError(logger.ErrCodeDecompressionBomb, "DecompressionBomb", nil)
	}
	return out, nil
}

// ChunkSeparate splits slug into chunkSize-character chunks joined by "*".
func ChunkSeparate(slug string) string {
	if len(slug) <= chunkSize {
		return slug
	}

	var chunks []string
	for i := 0; i < len(slug); i += chunkSize {
		end := i + chunkSize
		if end > len(slug) {
			end = len(slug)
		}
		chunks = append(chunks, slug[i:end])
	}
	return strings.Join(chunks, chunkSeparator)
}

// StripSeparators removes every "*" separator, inverting ChunkSeparate.
func StripSeparators(slug string) string {
	return strings.ReplaceAll(slug, chunkSeparator, "")
}

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
	"testing"

	"github.com/decred/dcrd/dcrec/secp256k1/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestKey(t *testing.T) ([]byte, []byte) {
	t.Helper()
	priv, err := secp256k1.GeneratePrivateKey()
	require.NoError(t, err)
	pub, err := GetPublicKey(priv.Serialize())
	require.NoError(t, err)
	return priv.Serialize(), pub
}

func TestSignAndRecover(t *testing.T) {
	priv, pub := newTestKey(t)
	hash := sha256.Sum256([]byte("hello invite"))

	sig, err := Sign(hash[:], priv)
	require.NoError(t, err)
	assert.Len(t, sig, 65)
	assert.LessOrEqual(t, sig[64], byte(3))

	recovered, err := Recover(hash[:], sig)
	require.NoError(t, err)
	assert.Equal(t, pub, recovered)
}

func TestRecoverRejectsBadLength(t *testing.T) {
	hash := sha256.Sum256([]byte("x"))
	_, err := Recover(hash[:], make([]byte, 64))
	assert.Error(t, err)
}

func TestRecoverRejectsBadRecoveryByte(t *testing.T) {
	priv, _ := newTestKey(t)
	hash := sha256.Sum256([]byte("y"))
	sig, err := Sign(hash[:], priv)
	require.NoError(t, err)
	sig[64] = 4
	_, err = Recover(hash[:], sig)
	assert.Error(t, err)
}

func TestNormalizeToUncompressed(t *testing.T) {
	priv, err := secp256k1.GeneratePrivateKey()
	require.NoError(t, err)
	uncompressed, err := GetPublicKey(priv.Serialize())
	require.NoError(t, err)
	compressed := priv.PubKey().SerializeCompressed()

	got, err := NormalizeToUncompressed(compressed)
	require.NoError(t, err)
	assert.Equal(t, uncompressed, got)

	got, err = NormalizeToUncompressed(uncompressed)
	require.NoError(t, err)
	assert.Equal(t, uncompressed, got)

	_, err = NormalizeToUncompressed(make([]byte, 10))
	assert.Error(t, err)
}

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

// Command convos-invite exposes the invite codec as one-shot CLI
// operations: mint, parse, and metadata rotation. It is not the XMTP bot
// runtime -- no polling loop, no persistent state file.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/convos-org/convos-invite/internal/config"
)

var (
	flagKey     string
	flagEnv     string
	flagBaseURL string
)

var rootCmd = &cobra.Command{
	Use:   "convos-invite",
	Short: "convos-invite CLI - signed invite minting, parsing, and metadata tools",
	Long: `convos-invite provides tools for working with the signed-invite
credential protocol described by this module:

- mint: build a signed invite slug/URL for a conversation
- parse: decode a slug or invite URL and report its fields
- metadata: decode, rotate, or create a conversation's app_data`,
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.CompletionOptions.DisableDefaultCmd = true

	rootCmd.PersistentFlags().StringVar(&flagKey, "key", "", "creator private key, hex with optional 0x prefix (falls back to XMTP_WALLET_KEY/WALLET_KEY)")
	rootCmd.PersistentFlags().StringVar(&flagEnv, "env", string(config.EnvDev), "environment: production, dev, or local")
	rootCmd.PersistentFlags().StringVar(&flagBaseURL, "base-url", "", "override the default invite base URL for --env")
}

// loadConfig builds a config.Config from the persistent flags and
// environment variables.
func loadConfig() (config.Config, error) {
	return config.Load(flagKey, config.Env(flagEnv), flagBaseURL)
}

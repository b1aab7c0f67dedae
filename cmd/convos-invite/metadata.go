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

package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/convos-org/convos-invite/metadata"
	"github.com/convos-org/convos-invite/wire"
)

var metadataCmd = &cobra.Command{
	Use:   "metadata",
	Short: "Decode, rotate, or create conversation metadata (app_data)",
}

var metadataDecodeCmd = &cobra.Command{
	Use:   "decode <encoded>",
	Short: "Decode an app_data string and print its fields",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		m, err := metadata.Decode(args[0])
		if err != nil {
			return err
		}
		printMetadata(m)
		return nil
	},
}

var metadataRotateCmd = &cobra.Command{
	Use:   "rotate <encoded>",
	Short: "Rotate the invite tag in an app_data string and print the new encoding",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		current, err := metadata.Decode(args[0])
		if err != nil {
			return err
		}
		next, err := metadata.RotateInviteTag(current)
		if err != nil {
			return err
		}
		encoded, err := metadata.Encode(next)
		if err != nil {
			return err
		}
		fmt.Println(encoded)
		return nil
	},
}

var metadataNewCmd = &cobra.Command{
	Use:   "new",
	Short: "Create fresh metadata (new tag, no profiles) and print its encoding",
	RunE: func(cmd *cobra.Command, args []string) error {
		m, err := metadata.Fresh()
		if err != nil {
			return err
		}
		encoded, err := metadata.Encode(m)
		if err != nil {
			return err
		}
		fmt.Println(encoded)
		return nil
	},
}

func printMetadata(m *wire.ConversationCustomMetadata) {
	fmt.Printf("tag: %s\n", m.Tag)
	fmt.Printf("profiles: %d\n", len(m.Profiles))
	for _, p := range m.Profiles {
		name := ""
		if p.Name != nil {
			name = *p.Name
		}
		fmt.Printf("  - inbox_id=%s name=%q\n", string(p.InboxID), name)
	}
	if m.ExpiresAtUnix != nil {
		fmt.Printf("expires_at_unix: %d\n", *m.ExpiresAtUnix)
	}
}

func init() {
	rootCmd.AddCommand(metadataCmd)
	metadataCmd.AddCommand(metadataDecodeCmd, metadataRotateCmd, metadataNewCmd)
}

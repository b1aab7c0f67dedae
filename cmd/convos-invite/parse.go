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

	"github.com/convos-org/convos-invite/invite"
)

var parseDecrypt bool

var parseCmd = &cobra.Command{
	Use:   "parse <slug-or-url>",
	Short: "Decode a slug or invite URL and report its fields",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		parsed, err := invite.Parse(args[0])
		if err != nil {
			return err
		}

		p := parsed.Payload
		fmt.Printf("tag: %s\n", p.Tag)
		fmt.Printf("creator_inbox_id: %s\n", string(p.CreatorInboxID))
		fmt.Printf("is_expired: %t\n", parsed.IsExpired)
		fmt.Printf("is_conversation_expired: %t\n", parsed.IsConversationExpired)
		if p.Name != nil {
			fmt.Printf("name: %s\n", *p.Name)
		}
		if p.Description != nil {
			fmt.Printf("description: %s\n", *p.Description)
		}
		if p.ImageURL != nil {
			fmt.Printf("image_url: %s\n", *p.ImageURL)
		}
		fmt.Printf("expires_after_use: %t\n", p.ExpiresAfterUse)

		if !parseDecrypt {
			return nil
		}

		cfg, err := loadConfig()
		if err != nil {
			return fmt.Errorf("decrypt requested but no key available: %w", err)
		}
		conversationID, err := invite.DecryptConversationID(parsed, cfg.CreatorPrivateKey)
		if err != nil {
			return err
		}
		fmt.Printf("conversation_id: %s\n", conversationID)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(parseCmd)
	parseCmd.Flags().BoolVar(&parseDecrypt, "decrypt", false, "also decrypt the conversation id using --key")
}

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

var (
	mintConversationID string
	mintTag            string
	mintCreatorInboxID string
	mintName           string
	mintDescription    string
	mintImageURL       string
	mintExpiresAt      int64
	mintConvExpiresAt  int64
	mintExpiresAfter   bool
	mintURLForm        bool
)

var mintCmd = &cobra.Command{
	Use:   "mint",
	Short: "Mint a signed invite slug for a conversation",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		opts := invite.BuildOptions{
			ConversationID:    mintConversationID,
			Tag:               mintTag,
			CreatorInboxID:    mintCreatorInboxID,
			CreatorPrivateKey: cfg.CreatorPrivateKey,
			ExpiresAfterUse:   mintExpiresAfter,
		}
		if mintName != "" {
			opts.Name = &mintName
		}
		if mintDescription != "" {
			opts.Description = &mintDescription
		}
		if mintImageURL != "" {
			opts.ImageURL = &mintImageURL
		}
		if mintExpiresAt != 0 {
			opts.ExpiresAtUnix = &mintExpiresAt
		}
		if mintConvExpiresAt != 0 {
			opts.ConversationExpiresAtUnix = &mintConvExpiresAt
		}

		slug, err := invite.Build(opts)
		if err != nil {
			return err
		}

		if mintURLForm {
			fmt.Println(invite.URL(cfg, slug))
			return nil
		}
		fmt.Println(slug)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(mintCmd)

	mintCmd.Flags().StringVar(&mintConversationID, "conversation-id", "", "conversation id to conceal in the invite (required)")
	mintCmd.Flags().StringVar(&mintTag, "tag", "", "current invite tag for the conversation's metadata (required)")
	mintCmd.Flags().StringVar(&mintCreatorInboxID, "creator-inbox-id", "", "creator's hex inbox id (required)")
	mintCmd.Flags().StringVar(&mintName, "name", "", "display name")
	mintCmd.Flags().StringVar(&mintDescription, "description", "", "display description")
	mintCmd.Flags().StringVar(&mintImageURL, "image-url", "", "display image URL")
	mintCmd.Flags().Int64Var(&mintExpiresAt, "expires-at", 0, "invite expiry, unix seconds (0 = none)")
	mintCmd.Flags().Int64Var(&mintConvExpiresAt, "conversation-expires-at", 0, "conversation expiry, unix seconds (0 = none)")
	mintCmd.Flags().BoolVar(&mintExpiresAfter, "expires-after-use", false, "advisory hint only; single-use is not enforced")
	mintCmd.Flags().BoolVar(&mintURLForm, "url", false, "print the full invite URL instead of the bare slug")

	_ = mintCmd.MarkFlagRequired("conversation-id")
	_ = mintCmd.MarkFlagRequired("tag")
	_ = mintCmd.MarkFlagRequired("creator-inbox-id")
}

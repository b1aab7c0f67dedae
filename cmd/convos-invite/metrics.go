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
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/convos-org/convos-invite/internal/metrics"
)

var metricsAddr string

var metricsServeCmd = &cobra.Command{
	Use:   "metrics-serve",
	Short: "Serve the crypto/invite/middleware prometheus metrics over HTTP",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		fmt.Printf("serving metrics on %s/metrics\n", metricsAddr)
		return metrics.StartServer(ctx, metricsAddr)
	},
}

func init() {
	rootCmd.AddCommand(metricsServeCmd)
	metricsServeCmd.Flags().StringVar(&metricsAddr, "addr", ":9090", "address to listen on")
}

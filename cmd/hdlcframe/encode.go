// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"code.hybscloud.com/hdlc"
)

func newEncodeCmd(a *app) *cobra.Command {
	var asHex bool
	cmd := &cobra.Command{
		Use:   "encode [file]",
		Short: "Encode the whole input as one frame",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			payload, err := a.readInput(args)
			if err != nil {
				return err
			}
			frame, err := hdlc.Encode(payload, a.cfg.CharSet)
			if err != nil {
				return fmt.Errorf("encode: %w", err)
			}
			a.log.Debug().Int("payload", len(payload)).Int("frame", len(frame)).Msg("encoded")
			return a.writeOutput(frame, asHex)
		},
	}
	cmd.Flags().BoolVar(&asHex, "hex", false, "print the frame as hex")
	return cmd
}

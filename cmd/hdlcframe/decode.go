// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"code.hybscloud.com/hdlc"
)

func newDecodeCmd(a *app) *cobra.Command {
	var asHex, inPlace bool
	cmd := &cobra.Command{
		Use:   "decode [file]",
		Short: "Decode one complete frame",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			frame, err := a.readInput(args)
			if err != nil {
				return err
			}
			if asHex {
				if frame, err = decodeHex(frame); err != nil {
					return err
				}
			}

			var payload []byte
			if inPlace {
				payload, err = hdlc.DecodeInPlace(frame, a.cfg.CharSet)
			} else {
				payload, err = hdlc.Decode(frame, a.cfg.CharSet)
			}
			if err != nil {
				return fmt.Errorf("decode: %w", err)
			}
			a.log.Debug().Int("frame", len(frame)).Int("payload", len(payload)).Bool("in_place", inPlace).Msg("decoded")
			return a.writeOutput(payload, asHex)
		},
	}
	cmd.Flags().BoolVar(&asHex, "hex", false, "read the frame and print the payload as hex")
	cmd.Flags().BoolVar(&inPlace, "in-place", false, "decode inside the input buffer")
	return cmd
}

// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package main

import (
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"code.hybscloud.com/hdlc"
)

var frameErrors = []error{
	hdlc.ErrMissingFirstDelimiter,
	hdlc.ErrStrayDelimiter,
	hdlc.ErrMissingTradeChar,
	hdlc.ErrMissingFinalDelimiter,
}

func isFrameError(err error) bool {
	for _, target := range frameErrors {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}

func newTranslateCmd(a *app) *cobra.Command {
	var from, to string
	cmd := &cobra.Command{
		Use:   "translate [file]",
		Short: "Re-frame a stream from one link convention to another",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			rcs, wcs := a.cfg.CharSet, a.cfg.CharSet
			if err := applyPreset(&rcs, from); err != nil {
				return fmt.Errorf("--from: %w", err)
			}
			if err := applyPreset(&wcs, to); err != nil {
				return fmt.Errorf("--to: %w", err)
			}

			in, err := a.openInput(args)
			if err != nil {
				return err
			}
			defer in.Close()

			opts := append(a.frameOptions(), hdlc.WithReadCharSet(rcs), hdlc.WithWriteCharSet(wcs))
			f := hdlc.NewForwarder(a.outWriter, in, opts...)
			a.log.Debug().Stringer("from", rcs).Stringer("to", wcs).Msg("translating")

			var forwarded, dropped int
			for {
				_, err := f.ForwardOnce()
				if err == nil {
					forwarded++
					continue
				}
				if err == io.EOF {
					break
				}
				if errors.Is(err, io.ErrUnexpectedEOF) {
					a.log.Warn().Msg("stream ended inside a frame")
					break
				}
				if isFrameError(err) {
					dropped++
					a.log.Warn().Err(err).Msg("dropped frame")
					continue
				}
				return fmt.Errorf("translate: %w", err)
			}
			a.log.Info().Int("forwarded", forwarded).Int("dropped", dropped).Msg("translate done")
			return nil
		},
	}
	cmd.Flags().StringVar(&from, "from", "", "preset of the input stream (default: configured charset)")
	cmd.Flags().StringVar(&to, "to", "", "preset of the output stream (default: configured charset)")
	return cmd
}

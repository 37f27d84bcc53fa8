// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package main

import (
	"encoding/hex"
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"code.hybscloud.com/hdlc"
)

func newSplitCmd(a *app) *cobra.Command {
	var decode, strict bool
	cmd := &cobra.Command{
		Use:   "split [file]",
		Short: "Print every frame of a stream as one hex line",
		Long: "Split reads a byte stream, drops bytes outside frames and prints each frame\n" +
			"as a line of hex. With --decode the payload is printed instead; frames that\n" +
			"fail to decode are logged and skipped.",
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			in, err := a.openInput(args)
			if err != nil {
				return err
			}
			defer in.Close()

			fr := hdlc.NewFrameReader(in, a.frameOptions()...)
			var frames, failed int
			truncated := false
			for frame, err := range fr.Frames() {
				if err != nil {
					if errors.Is(err, io.ErrUnexpectedEOF) {
						truncated = true
						a.log.Warn().Msg("stream ended inside a frame")
						break
					}
					return fmt.Errorf("read frames: %w", err)
				}
				frames++
				out := frame
				if decode {
					p, err := hdlc.DecodeInPlace(frame, a.cfg.CharSet)
					if err != nil {
						failed++
						a.log.Warn().Int("frame", frames).Int("len", len(frame)).Err(err).Msg("decode failed")
						continue
					}
					out = p
				}
				if _, err := fmt.Fprintln(a.outWriter, hex.EncodeToString(out)); err != nil {
					return fmt.Errorf("write output: %w", err)
				}
			}

			a.log.Info().Int("frames", frames).Int("failed", failed).Bool("truncated", truncated).Msg("split done")
			if strict && (failed > 0 || truncated) {
				return fmt.Errorf("%d of %d frames failed to decode, truncated=%t", failed, frames, truncated)
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&decode, "decode", false, "print decoded payloads instead of escaped frames")
	cmd.Flags().BoolVar(&strict, "strict", false, "fail when a frame cannot be decoded or the stream is truncated")
	return cmd
}

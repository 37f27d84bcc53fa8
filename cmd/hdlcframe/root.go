// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package main

import (
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"code.hybscloud.com/hdlc"
)

// app carries the flag values and the resolved settings shared by all
// subcommands.
type app struct {
	configPath   string
	preset       string
	delimiter    string
	escape       string
	delimiterSub string
	escapeSub    string
	logLevel     string

	cfg config
	log zerolog.Logger

	outWriter io.Writer
	errWriter io.Writer
	inReader  io.Reader
}

func newRootCmd() *cobra.Command {
	a := &app{
		outWriter: os.Stdout,
		errWriter: os.Stderr,
		inReader:  os.Stdin,
		log:       zerolog.Nop(),
	}

	root := &cobra.Command{
		Use:           "hdlcframe",
		Short:         "Byte-stuffed (HDLC/SLIP) frame utility",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			a.outWriter = cmd.OutOrStdout()
			a.errWriter = cmd.ErrOrStderr()
			a.inReader = cmd.InOrStdin()
			return a.setup(cmd)
		},
	}

	pf := root.PersistentFlags()
	pf.StringVar(&a.configPath, "config", "", "config file (default is $HOME/"+defaultConfigName+")")
	pf.StringVarP(&a.preset, "preset", "p", "", "link convention: hdlc, ppp, slip or kiss")
	pf.StringVar(&a.delimiter, "delimiter", "", "frame delimiter byte, hex (e.g. 7e)")
	pf.StringVar(&a.escape, "escape", "", "escape byte, hex (e.g. 7d)")
	pf.StringVar(&a.delimiterSub, "delimiter-sub", "", "byte sent after escape in place of the delimiter, hex")
	pf.StringVar(&a.escapeSub, "escape-sub", "", "byte sent after escape in place of the escape, hex")
	pf.StringVar(&a.logLevel, "log-level", "", "log level: trace, debug, info, warn, error or off")

	root.AddCommand(
		newEncodeCmd(a),
		newDecodeCmd(a),
		newSplitCmd(a),
		newTranslateCmd(a),
	)
	return root
}

// setup resolves defaults, the config file, the environment and flags, in
// that order.
func (a *app) setup(cmd *cobra.Command) error {
	cfg, err := loadConfig(a.configPath)
	if err != nil {
		return err
	}

	if lvl, ok := parseLevel(os.Getenv(envLogLevel)); ok {
		cfg.LogLevel = lvl
	}
	if cmd.Flags().Changed("log-level") {
		lvl, ok := parseLevel(a.logLevel)
		if !ok {
			return fmt.Errorf("invalid log level %q", a.logLevel)
		}
		cfg.LogLevel = lvl
	}

	if err := applyPreset(&cfg.CharSet, a.preset); err != nil {
		return err
	}
	overrides := []struct {
		flag string
		raw  string
		dst  *byte
	}{
		{"delimiter", a.delimiter, &cfg.CharSet.Delimiter},
		{"escape", a.escape, &cfg.CharSet.Escape},
		{"delimiter-sub", a.delimiterSub, &cfg.CharSet.DelimiterSub},
		{"escape-sub", a.escapeSub, &cfg.CharSet.EscapeSub},
	}
	for _, o := range overrides {
		if o.raw == "" {
			continue
		}
		b, err := parseByte(o.raw)
		if err != nil {
			return fmt.Errorf("--%s: %w", o.flag, err)
		}
		*o.dst = b
	}
	if err := cfg.CharSet.Validate(); err != nil {
		return fmt.Errorf("charset %v: %w", cfg.CharSet, err)
	}

	a.cfg = cfg
	a.log = newLogger(a.errWriter, cfg.LogLevel)
	a.log.Debug().Stringer("charset", cfg.CharSet).Int("chunk_size", cfg.ChunkSize).Msg("configured")
	return nil
}

func (a *app) frameOptions() []hdlc.Option {
	return []hdlc.Option{
		hdlc.WithCharSet(a.cfg.CharSet),
		hdlc.WithChunkSize(a.cfg.ChunkSize),
	}
}

// openInput returns the named file, or standard input for no name or "-".
func (a *app) openInput(args []string) (io.ReadCloser, error) {
	if len(args) == 0 || args[0] == "-" {
		return io.NopCloser(a.inReader), nil
	}
	f, err := os.Open(args[0])
	if err != nil {
		return nil, fmt.Errorf("open input: %w", err)
	}
	return f, nil
}

func (a *app) readInput(args []string) ([]byte, error) {
	in, err := a.openInput(args)
	if err != nil {
		return nil, err
	}
	defer in.Close()
	b, err := io.ReadAll(in)
	if err != nil {
		return nil, fmt.Errorf("read input: %w", err)
	}
	return b, nil
}

func (a *app) writeOutput(b []byte, asHex bool) error {
	var err error
	if asHex {
		_, err = fmt.Fprintln(a.outWriter, hex.EncodeToString(b))
	} else {
		_, err = a.outWriter.Write(b)
	}
	if err != nil {
		return fmt.Errorf("write output: %w", err)
	}
	return nil
}

func applyPreset(cs *hdlc.CharSet, name string) error {
	if strings.TrimSpace(name) == "" {
		return nil
	}
	p, ok := hdlc.LookupPreset(name)
	if !ok {
		return fmt.Errorf("unknown preset %q", name)
	}
	*cs = p
	return nil
}

// parseByte accepts one byte in hex, with or without a 0x prefix.
func parseByte(raw string) (byte, error) {
	s := strings.ToLower(strings.TrimSpace(raw))
	s = strings.TrimPrefix(s, "0x")
	v, err := strconv.ParseUint(s, 16, 8)
	if err != nil {
		return 0, fmt.Errorf("invalid byte %q", raw)
	}
	return byte(v), nil
}

// decodeHex ignores whitespace between digits.
func decodeHex(raw []byte) ([]byte, error) {
	b, err := hex.DecodeString(strings.Join(strings.Fields(string(raw)), ""))
	if err != nil {
		return nil, fmt.Errorf("hex input: %w", err)
	}
	return b, nil
}

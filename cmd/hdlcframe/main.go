// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Command hdlcframe encodes, decodes, splits and translates byte-stuffed
// frames on files or standard input.
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "hdlcframe:", err)
		os.Exit(1)
	}
}

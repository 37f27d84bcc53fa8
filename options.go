// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package hdlc

import "time"

const defaultChunkSize = 1024

// Options configures stream framing behavior.
type Options struct {
	// ReadCharSet delimits and decodes inbound frames.
	ReadCharSet CharSet
	// WriteCharSet encodes outbound frames.
	WriteCharSet CharSet

	// ChunkSize is the number of bytes requested from the source per read.
	// Zero or negative selects the default of 1024.
	ChunkSize int

	// RetryDelay controls how the framer handles iox.ErrWouldBlock from the underlying transport:
	//   - negative: nonblock, return ErrWouldBlock immediately
	//   - zero: yield (runtime.Gosched) and retry
	//   - positive: sleep for the duration and retry
	RetryDelay time.Duration
}

var defaultOptions = Options{
	ReadCharSet:  DefaultCharSet,
	WriteCharSet: DefaultCharSet,
	ChunkSize:    defaultChunkSize,
	RetryDelay:   -1, // default: nonblock
}

type Option func(*Options)

// WithCharSet sets the character set for both directions.
func WithCharSet(cs CharSet) Option {
	return func(o *Options) {
		o.ReadCharSet = cs
		o.WriteCharSet = cs
	}
}

func WithReadCharSet(cs CharSet) Option {
	return func(o *Options) { o.ReadCharSet = cs }
}

func WithWriteCharSet(cs CharSet) Option {
	return func(o *Options) { o.WriteCharSet = cs }
}

func WithChunkSize(n int) Option {
	return func(o *Options) { o.ChunkSize = n }
}

// WithRetryDelay sets the retry/wait policy used when the underlying transport returns iox.ErrWouldBlock.
func WithRetryDelay(d time.Duration) Option {
	return func(o *Options) { o.RetryDelay = d }
}

// WithBlock enables cooperative blocking (yield-and-retry) on iox.ErrWouldBlock.
func WithBlock() Option {
	return func(o *Options) { o.RetryDelay = 0 }
}

// WithNonblock forces non-blocking behavior (return iox.ErrWouldBlock immediately).
func WithNonblock() Option {
	return func(o *Options) { o.RetryDelay = -1 }
}

// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package hdlc_test

import (
	"bytes"
	"errors"
	"io"
	"testing"
	"testing/iotest"

	"code.hybscloud.com/hdlc"
	"code.hybscloud.com/iox"
)

const (
	fend = 0x7E
	fesc = 0x7D
)

// readAll drains fr and returns the frames plus the terminating error.
func readAll(t *testing.T, fr *hdlc.FrameReader) ([][]byte, error) {
	t.Helper()
	var frames [][]byte
	for i := 0; i < 1000; i++ {
		f, err := fr.ReadFrame()
		if err != nil {
			return frames, err
		}
		frames = append(frames, f)
	}
	t.Fatalf("reader did not terminate")
	return nil, nil
}

func TestFrameReader_Scenarios(t *testing.T) {
	tests := []struct {
		name    string
		in      []byte
		want    [][]byte
		wantErr error
	}{
		{
			name: "single frame",
			in:   []byte{fend, 0x01, 0x00, 0x05, 0x80, fend},
			want: [][]byte{{fend, 0x01, 0x00, 0x05, 0x80, fend}},
		},
		{
			name:    "single frame and rest",
			in:      []byte{fend, 0x01, 0x00, 0x05, 0x80, fend, 0x30, 0x10, 0x22},
			want:    [][]byte{{fend, 0x01, 0x00, 0x05, 0x80, fend}},
			wantErr: io.ErrUnexpectedEOF,
		},
		{
			name: "invalid prefix",
			in:   []byte{0x01, 0x02, 0x03, fend, 0x01, 0x00, 0x05, 0x80, fend},
			want: [][]byte{{fend, 0x01, 0x00, 0x05, 0x80, fend}},
		},
		{
			name:    "delimiter run before frame",
			in:      []byte{fend, fend, 0x53, 0x30, 0x10, 0x22, fend, 0x51, 0x52},
			want:    [][]byte{{fend, 0x53, 0x30, 0x10, 0x22, fend}},
			wantErr: io.ErrUnexpectedEOF,
		},
		{
			name: "delimiter run after noise",
			in:   []byte{0x01, 0x50, fend, fend, 0x51, 0x53, 0x30, 0x10, 0x22, fend},
			want: [][]byte{{fend, 0x51, 0x53, 0x30, 0x10, 0x22, fend}},
		},
		{
			name: "back to back frames",
			in:   []byte{fend, 0x01, 0x00, 0x05, 0x80, fend, fend, 0x02, 0x00, 0x05, 0x80, fend},
			want: [][]byte{
				{fend, 0x01, 0x00, 0x05, 0x80, fend},
				{fend, 0x02, 0x00, 0x05, 0x80, fend},
			},
		},
		{
			name: "three frames",
			in: []byte{
				fend, 0x01, 0x00, 0x05, 0x80, fend, fend, 0x02, 0x00, 0x05, 0x80,
				fend, fend, 0x03, 0x00, 0x05, 0x80, fend,
			},
			want: [][]byte{
				{fend, 0x01, 0x00, 0x05, 0x80, fend},
				{fend, 0x02, 0x00, 0x05, 0x80, fend},
				{fend, 0x03, 0x00, 0x05, 0x80, fend},
			},
		},
		{
			name: "shared delimiter",
			in:   []byte{fend, 0x01, fend, 0x02, fend},
			want: [][]byte{{fend, 0x01, fend}, {fend, 0x02, fend}},
		},
		{
			name: "no data",
			in:   []byte{},
		},
		{
			name:    "only rest",
			in:      []byte{0x05, 0x80, fend, 0x01},
			wantErr: io.ErrUnexpectedEOF,
		},
		{
			name: "no special char",
			in:   []byte{0x05, 0x80, 0x01},
		},
		{
			name: "only frame start",
			in:   []byte{0x05, 0x80, 0x01, fend, fend},
		},
		{
			name: "malformed escape still a frame",
			in:   []byte{fend, 0x01, fesc, fend},
			want: [][]byte{{fend, 0x01, fesc, fend}},
		},
	}

	readers := map[string]func([]byte) io.Reader{
		"whole":   func(b []byte) io.Reader { return bytes.NewReader(b) },
		"onebyte": func(b []byte) io.Reader { return iotest.OneByteReader(bytes.NewReader(b)) },
		"half":    func(b []byte) io.Reader { return iotest.HalfReader(bytes.NewReader(b)) },
		"dataerr": func(b []byte) io.Reader { return iotest.DataErrReader(bytes.NewReader(b)) },
	}

	for _, tt := range tests {
		for rname, mk := range readers {
			t.Run(tt.name+"/"+rname, func(t *testing.T) {
				fr := hdlc.NewFrameReader(mk(tt.in))
				got, err := readAll(t, fr)
				want := io.EOF
				if tt.wantErr != nil {
					want = tt.wantErr
				}
				if !errors.Is(err, want) {
					t.Fatalf("err=%v want %v", err, want)
				}
				if len(got) != len(tt.want) {
					t.Fatalf("frames=%d want %d: %x", len(got), len(tt.want), got)
				}
				for i := range got {
					if !bytes.Equal(got[i], tt.want[i]) {
						t.Fatalf("frame[%d]=%x want %x", i, got[i], tt.want[i])
					}
				}
				// End of stream is permanent.
				if f, err := fr.ReadFrame(); f != nil || err != io.EOF {
					t.Fatalf("after end: f=%x err=%v want io.EOF", f, err)
				}
				if fr.Buffered() != 0 {
					t.Fatalf("Buffered=%d after end", fr.Buffered())
				}
			})
		}
	}
}

func TestFrameReader_FramesDecode(t *testing.T) {
	payloads := [][]byte{
		[]byte("hello"),
		{fend, fesc, 0x00},
		bytes.Repeat([]byte{fend}, 300),
	}
	var wire bytes.Buffer
	for _, p := range payloads {
		f, err := hdlc.Encode(p, hdlc.DefaultCharSet)
		if err != nil {
			t.Fatal(err)
		}
		wire.Write(f)
	}

	fr := hdlc.NewFrameReader(iotest.OneByteReader(&wire))
	i := 0
	for f, err := range fr.Frames() {
		if err != nil {
			t.Fatalf("frame[%d]: %v", i, err)
		}
		got, err := hdlc.DecodeInPlace(f, hdlc.DefaultCharSet)
		if err != nil {
			t.Fatalf("decode[%d]: %v", i, err)
		}
		if !bytes.Equal(got, payloads[i]) {
			t.Fatalf("payload[%d] mismatch", i)
		}
		i++
	}
	if i != len(payloads) {
		t.Fatalf("got %d frames want %d", i, len(payloads))
	}
}

func TestFrameReader_FramesYieldsErrorOnce(t *testing.T) {
	fr := hdlc.NewFrameReader(bytes.NewReader([]byte{fend, 0x01, fend, 0x02}))
	var frames, errs int
	for f, err := range fr.Frames() {
		if err != nil {
			if !errors.Is(err, io.ErrUnexpectedEOF) {
				t.Fatalf("err=%v", err)
			}
			if f != nil {
				t.Fatalf("frame with error")
			}
			errs++
			continue
		}
		frames++
	}
	if frames != 1 || errs != 1 {
		t.Fatalf("frames=%d errs=%d", frames, errs)
	}
	// Exhausted: a new sequence is empty.
	for range fr.Frames() {
		t.Fatalf("sequence restarted after exhaustion")
	}
}

func TestFrameReader_FramesEarlyBreak(t *testing.T) {
	wire := []byte{fend, 0x01, fend, 0x02, fend, 0x03, fend}
	fr := hdlc.NewFrameReader(bytes.NewReader(wire))
	for range fr.Frames() {
		break
	}
	f, err := fr.ReadFrame()
	if err != nil || !bytes.Equal(f, []byte{fend, 0x02, fend}) {
		t.Fatalf("after break: f=%x err=%v", f, err)
	}
}

type countingReader struct {
	r     io.Reader
	calls int
}

func (c *countingReader) Read(p []byte) (int, error) {
	c.calls++
	return c.r.Read(p)
}

func TestFrameReader_ScansPendingBeforeReading(t *testing.T) {
	wire := []byte{fend, 0x01, fend, fend, 0x02, fend}
	src := &countingReader{r: bytes.NewReader(wire)}
	fr := hdlc.NewFrameReader(src)

	if _, err := fr.ReadFrame(); err != nil {
		t.Fatal(err)
	}
	if _, err := fr.ReadFrame(); err != nil {
		t.Fatal(err)
	}
	if src.calls != 1 {
		t.Fatalf("source read %d times, want 1", src.calls)
	}
}

func TestFrameReader_FramesAreOwnedByCaller(t *testing.T) {
	wire := []byte{fend, 0x01, fend, 0x02, fend}
	fr := hdlc.NewFrameReader(bytes.NewReader(wire))
	first, err := fr.ReadFrame()
	if err != nil {
		t.Fatal(err)
	}
	for i := range first {
		first[i] = 0xAA
	}
	second, err := fr.ReadFrame()
	if err != nil || !bytes.Equal(second, []byte{fend, 0x02, fend}) {
		t.Fatalf("second=%x err=%v", second, err)
	}
}

func TestFrameReader_WouldBlockKeepsPending(t *testing.T) {
	src := &scriptedReader{steps: []readStep{
		{b: []byte{0x09, fend, 0x01, 0x02}},
		{err: iox.ErrWouldBlock},
		{b: []byte{0x03, fend}},
	}}
	fr := hdlc.NewFrameReader(src, hdlc.WithNonblock())

	f, err := fr.ReadFrame()
	if !errors.Is(err, iox.ErrWouldBlock) || f != nil {
		t.Fatalf("want (nil, ErrWouldBlock), got (%x, %v)", f, err)
	}
	if fr.Buffered() != 3 {
		t.Fatalf("Buffered=%d want 3", fr.Buffered())
	}
	f, err = fr.ReadFrame()
	if err != nil || !bytes.Equal(f, []byte{fend, 0x01, 0x02, 0x03, fend}) {
		t.Fatalf("retry: f=%x err=%v", f, err)
	}
}

func TestFrameReader_BlockRetriesWouldBlock(t *testing.T) {
	src := &scriptedReader{steps: []readStep{
		{b: []byte{fend, 0x01}},
		{err: iox.ErrWouldBlock},
		{err: iox.ErrWouldBlock},
		{b: []byte{0x02, fend}},
	}}
	fr := hdlc.NewFrameReader(src, hdlc.WithBlock())
	f, err := fr.ReadFrame()
	if err != nil || !bytes.Equal(f, []byte{fend, 0x01, 0x02, fend}) {
		t.Fatalf("f=%x err=%v", f, err)
	}
}

func TestFrameReader_DataWithSemanticErrorIsScanned(t *testing.T) {
	for _, semantic := range []error{iox.ErrWouldBlock, iox.ErrMore} {
		src := &scriptedReader{steps: []readStep{
			{b: []byte{fend, 0x01, fend}, err: semantic},
		}}
		fr := hdlc.NewFrameReader(src)
		f, err := fr.ReadFrame()
		if err != nil || !bytes.Equal(f, []byte{fend, 0x01, fend}) {
			t.Fatalf("%v: f=%x err=%v", semantic, f, err)
		}
	}
}

func TestFrameReader_SourceErrorKeepsBytes(t *testing.T) {
	boom := errors.New("boom")
	src := &scriptedReader{steps: []readStep{
		{b: []byte{fend, 0x01}},
		{b: []byte{0x02, fend}, err: boom},
	}}
	fr := hdlc.NewFrameReader(src)
	if _, err := fr.ReadFrame(); !errors.Is(err, boom) {
		t.Fatalf("err=%v want boom", err)
	}
	f, err := fr.ReadFrame()
	if err != nil || !bytes.Equal(f, []byte{fend, 0x01, 0x02, fend}) {
		t.Fatalf("f=%x err=%v", f, err)
	}
}

func TestFrameReader_InvalidArguments(t *testing.T) {
	if _, err := hdlc.NewFrameReader(nil).ReadFrame(); !errors.Is(err, hdlc.ErrInvalidArgument) {
		t.Fatalf("nil reader: err=%v", err)
	}
	bad := hdlc.CharSet{Delimiter: 1, Escape: 1, DelimiterSub: 2, EscapeSub: 3}
	fr := hdlc.NewFrameReader(bytes.NewReader([]byte{1, 5, 1}), hdlc.WithCharSet(bad))
	if _, err := fr.ReadFrame(); !errors.Is(err, hdlc.ErrDuplicateCharacter) {
		t.Fatalf("bad charset: err=%v", err)
	}
	if _, err := hdlc.NewFrameReader(&noProgressReader{}).ReadFrame(); !errors.Is(err, io.ErrNoProgress) {
		t.Fatalf("no progress: err=%v", err)
	}
}

func TestFrameReader_SLIP(t *testing.T) {
	payload := []byte{0xC0, 0x01, 0xDB, 0x7E}
	wire, err := hdlc.Encode(payload, mustPreset(t, "slip"))
	if err != nil {
		t.Fatal(err)
	}
	fr := hdlc.NewFrameReader(bytes.NewReader(concat([]byte{0x7E, 0x00}, wire)), hdlc.WithSLIP())
	f, err := fr.ReadFrame()
	if err != nil || !bytes.Equal(f, wire) {
		t.Fatalf("f=%x err=%v want %x", f, err, wire)
	}
}

func TestFrameReader_LargeFrameAcrossChunks(t *testing.T) {
	payload := bytes.Repeat([]byte{0x00, fend, 0x11, fesc}, 25_000)
	wire, err := hdlc.Encode(payload, hdlc.DefaultCharSet)
	if err != nil {
		t.Fatal(err)
	}
	fr := hdlc.NewFrameReader(&chunkReader{b: wire, chunk: 777}, hdlc.WithChunkSize(64))
	f, err := fr.ReadFrame()
	if err != nil || !bytes.Equal(f, wire) {
		t.Fatalf("large frame: len=%d err=%v", len(f), err)
	}
	if _, err := fr.ReadFrame(); err != io.EOF {
		t.Fatalf("want io.EOF, got %v", err)
	}
}

func mustPreset(t *testing.T, name string) hdlc.CharSet {
	t.Helper()
	cs, ok := hdlc.LookupPreset(name)
	if !ok {
		t.Fatalf("unknown preset %q", name)
	}
	return cs
}

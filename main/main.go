// Command segdump prints the segment table of a framed message and walks
// every pointer reachable from its root.
//
//	segdump [-config opts.yaml] [-words] [-v] file|-
package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/rawbytedev/segwire"
	"github.com/rawbytedev/segwire/pkg/framing"
	"github.com/rawbytedev/segwire/pkg/wire"
	"go.uber.org/zap"
)

func main() {
	if err := run(os.Args[1:], os.Stdin, os.Stdout); err != nil {
		fmt.Fprintln(os.Stderr, "segdump:", err)
		os.Exit(1)
	}
}

func run(args []string, stdin io.Reader, stdout io.Writer) error {
	fs := flag.NewFlagSet("segdump", flag.ContinueOnError)
	config := fs.String("config", "", "YAML reader options")
	rawWords := fs.Bool("words", false, "decode every word of every segment as a pointer")
	verbose := fs.Bool("v", false, "log decoding steps to stderr")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() != 1 {
		return fmt.Errorf("usage: segdump [flags] file|-")
	}

	opts := segwire.DefaultOptions()
	if *config != "" {
		var err error
		if opts, err = segwire.LoadOptionsFile(*config); err != nil {
			return err
		}
	}
	log := zap.NewNop()
	if *verbose {
		var err error
		if log, err = zap.NewDevelopment(); err != nil {
			return err
		}
		defer log.Sync()
	}

	in := stdin
	if name := fs.Arg(0); name != "-" {
		f, err := os.Open(name)
		if err != nil {
			return err
		}
		defer f.Close()
		in = f
	}
	dec := framing.NewDecoder(in)
	dec.Limits = opts.FrameLimits()
	segs, err := dec.Decode()
	if err != nil {
		return err
	}
	log.Debug("decoded frame", zap.Int("segments", len(segs)))

	r, err := segwire.NewReader(segs, opts)
	if err != nil {
		return err
	}
	return dump(stdout, r, *rawWords, log)
}

func dump(out io.Writer, r *segwire.MessageReader, rawWords bool, log *zap.Logger) error {
	w := tabwriter.NewWriter(out, 0, 8, 1, ' ', 0)
	fmt.Fprintln(w, "segment\twords")
	for id := 0; id < r.NumSegments(); id++ {
		seg, _ := r.Segment(uint32(id))
		fmt.Fprintf(w, "%d\t%d\n", id, len(seg)/8)
	}
	if err := w.Flush(); err != nil {
		return err
	}

	if rawWords {
		fmt.Fprintln(out)
		for id := 0; id < r.NumSegments(); id++ {
			seg, _ := r.Segment(uint32(id))
			for word := 0; word < len(seg)/8; word++ {
				p, _ := r.Pointer(uint32(id), uint32(word))
				fmt.Fprintf(out, "%d:%d\t%#016x\t%v\n", id, word, uint64(p), p)
			}
		}
	}

	fmt.Fprintln(out)
	var n, far int
	err := segwire.Walk(r.RootPointer(), func(p segwire.PointerReader) error {
		raw := p.Raw()
		if raw.Kind() == wire.FarKind {
			far++
		}
		n++
		fmt.Fprintf(out, "%v\n", raw)
		return nil
	})
	log.Debug("walked message", zap.Int("pointers", n), zap.Int("far", far), zap.Uint64("budget_left", r.Remaining()))
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "\n%d pointers, %d far\n", n, far)
	return nil
}

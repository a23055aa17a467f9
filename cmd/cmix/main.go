/*
Copyright 2011-2026 Frederic Langlet
Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
you may obtain a copy of the License at

                http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

package main

import (
	"bufio"
	"flag"
	"fmt"
	"os"
	"sync"
	"time"

	cmix "github.com/jhorourke2/cmix"
	"github.com/jhorourke2/cmix/bitstream"
	"github.com/jhorourke2/cmix/entropy"
	"github.com/jhorourke2/cmix/hash"
)

var (
	mutex sync.Mutex
	log   = Printer{os: bufio.NewWriter(os.Stdout)}
)

// Printer serializes writes from concurrent listeners to a shared writer.
type Printer struct {
	os *bufio.Writer
}

func (this *Printer) Println(msg string, print bool) {
	if !print {
		return
	}

	mutex.Lock()
	if w, _ := this.os.Write([]byte(msg + "\n")); w > 0 {
		_ = this.os.Flush()
	}
	mutex.Unlock()
}

// progressListener narrates entropy-stage events via the Event/Listener
// pub-sub, in place of a structured logging library.
type progressListener struct {
	verbose bool
}

func (this *progressListener) ProcessEvent(evt *cmix.Event) {
	log.Println(evt.String(), this.verbose)
}

func main() {
	input := flag.String("i", "", "input file")
	level := flag.Uint("l", 6, "TPAQ memory level, 0-9")
	verbose := flag.Bool("v", false, "verbose progress output")
	flag.Parse()

	if *input == "" {
		fmt.Fprintln(os.Stderr, "usage: cmix -i <file> [-l level] [-v]")
		os.Exit(1)
	}

	data, err := os.ReadFile(*input)

	if err != nil {
		fmt.Fprintf(os.Stderr, "cmix: %v\n", err)
		os.Exit(1)
	}

	listener := &progressListener{verbose: *verbose}

	checksum, err := hash.NewXXHash64(0)

	if err != nil {
		fmt.Fprintf(os.Stderr, "cmix: %v\n", err)
		os.Exit(1)
	}

	out, err := os.Create(*input + ".cm")

	if err != nil {
		fmt.Fprintf(os.Stderr, "cmix: %v\n", err)
		os.Exit(1)
	}

	defer out.Close()

	obs, err := bitstream.NewDefaultOutputBitStream(out, 65536)

	if err != nil {
		fmt.Fprintf(os.Stderr, "cmix: %v\n", err)
		os.Exit(1)
	}

	ctx := map[string]any{"level": *level}
	enc, err := entropy.NewTPAQPredictor(&ctx)

	if err != nil {
		fmt.Fprintf(os.Stderr, "cmix: %v\n", err)
		os.Exit(1)
	}

	coder, err := entropy.NewBinaryEntropyEncoder(obs, enc)

	if err != nil {
		fmt.Fprintf(os.Stderr, "cmix: %v\n", err)
		os.Exit(1)
	}

	listener.ProcessEvent(cmix.NewEventFromString(cmix.EVT_COMPRESSION_START, -1, "compression start", time.Time{}))

	if _, err := coder.Write(data); err != nil {
		fmt.Fprintf(os.Stderr, "cmix: %v\n", err)
		os.Exit(1)
	}

	coder.Dispose()

	if _, err := obs.Close(); err != nil {
		fmt.Fprintf(os.Stderr, "cmix: %v\n", err)
		os.Exit(1)
	}

	written := obs.Written()
	ratio := float64(written/8) / float64(len(data))
	sum := checksum.Hash(data)

	listener.ProcessEvent(cmix.NewEventFromString(cmix.EVT_COMPRESSION_END, -1,
		fmt.Sprintf("compression end: %d bytes -> %d bits (%.3f), block checksum %016x", len(data), written, ratio, sum), time.Time{}))
}

// Command c2eval measures the C2 decoder on synthetic EFM streams: random
// payloads are C2-encoded, interleaved, damaged by a channel model and
// decoded on several independent tracks.
package main

import (
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

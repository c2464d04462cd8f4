// Package statsview serves live runtime charts (heap, goroutines, GC) for
// profiling the emulator while it runs.
package statsview

import (
	"fmt"
	"io"

	"github.com/go-echarts/statsview"
	"github.com/go-echarts/statsview/viewer"
)

// Address the server listens on.
const Address = "localhost:12600"

const url = "/debug/statsview"

// URL is where the charts can be viewed once Launch has been called.
func URL() string { return "http://" + Address + url }

// Launch starts the server in the background and reports the address to
// output. A nil output is allowed.
func Launch(output io.Writer) {
	viewer.SetConfiguration(viewer.WithAddr(Address))
	go func() {
		mgr := statsview.New()
		mgr.Start()
	}()
	if output != nil {
		fmt.Fprintf(output, "stats server available at %s\n", URL())
	}
}

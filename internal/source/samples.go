// Package source produces the documents fed to ingest.
package source

import domdoc "github.com/kailas-cloud/vecrag/internal/domain/document"

// DefaultQuery is the demo query used when none is given.
const DefaultQuery = "off-road bike suspension problems"

var samples = []struct{ id, text string }{
	{"1", "Last night the bright moon hung low above the city, casting silver light across the rooftops."},
	{"2", "I spent the afternoon tuning my dirt-bike's suspension for a rocky trail ride next weekend."},
	{"3", "A simple tomato and basil salad is fresh and quick to prepare after a long day."},
	{"4", "Scientists warn that coastal cities are seeing more frequent flooding as sea levels rise."},
	{"5", "The local football team practiced set plays until the sun dipped behind the stadium."},
}

// Samples returns the five built-in demo documents, ids "1" to "5".
func Samples() []domdoc.Document {
	out := make([]domdoc.Document, 0, len(samples))
	for _, s := range samples {
		out = append(out, domdoc.Reconstruct(s.id, s.text, nil))
	}
	return out
}

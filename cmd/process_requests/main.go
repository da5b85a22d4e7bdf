// Command process_requests loads a previously built CBOR artifact, answers
// a batch of stat requests read from stdin, and writes the response array
// to stdout.
package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/transitcat/catalogue/internal/config"
	"github.com/transitcat/catalogue/internal/dispatch"
	"github.com/transitcat/catalogue/internal/logging"
	"github.com/transitcat/catalogue/internal/reqresp"
	"github.com/transitcat/catalogue/internal/schema"
)

func usage() {
	fmt.Fprintln(os.Stderr, "usage: process_requests")
}

func main() {
	if len(os.Args) != 1 {
		usage()
		os.Exit(1)
	}

	logger, err := logging.New(config.Load().Debug)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()
	sugar := logger.Sugar()

	var doc reqresp.Document
	if err := json.NewDecoder(os.Stdin).Decode(&doc); err != nil {
		sugar.Fatalw("malformed request document", "error", err)
	}

	file := ""
	if doc.SerializationSettings != nil {
		file = doc.SerializationSettings.File
	}

	db, err := schema.Load(file)
	if err != nil {
		fmt.Fprintf(os.Stderr, "could not load artifact %q: %v\n", file, err)
		os.Exit(1)
	}

	cat, rtr, renderSettings := db.ToRuntime()
	sugar.Infow("loaded artifact", "file", file, "stops", cat.NumStops(), "buses", cat.NumBuses())

	d := dispatch.New(cat, rtr, renderSettings)
	responses := d.Execute(doc.StatRequests)

	if err := json.NewEncoder(os.Stdout).Encode(responses); err != nil {
		sugar.Fatalw("failed to write responses", "error", err)
	}
}

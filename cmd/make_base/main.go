// Command make_base reads a base-request document from stdin, builds the
// catalogue/router/render-settings triple, and writes it to a CBOR
// artifact on disk.
package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/transitcat/catalogue/internal/catalogue"
	"github.com/transitcat/catalogue/internal/config"
	"github.com/transitcat/catalogue/internal/dispatch"
	"github.com/transitcat/catalogue/internal/logging"
	"github.com/transitcat/catalogue/internal/mapview"
	"github.com/transitcat/catalogue/internal/reqresp"
	"github.com/transitcat/catalogue/internal/router"
	"github.com/transitcat/catalogue/internal/schema"
)

func usage() {
	fmt.Fprintln(os.Stderr, "usage: make_base")
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

	cat := catalogue.New()
	dispatch.IngestBaseRequests(cat, doc.BaseRequests)
	sugar.Infow("ingested base requests", "stops", cat.NumStops(), "buses", cat.NumBuses())

	routingSettings := reqresp.DefaultRouterSettings
	if doc.RoutingSettings != nil {
		routingSettings = doc.RoutingSettings.ToRouterSettings()
	}
	rtr := router.Build(cat, routingSettings)
	sugar.Infow("built routing graph", "vertices", rtr.Graph().NumVertices(), "edges", rtr.Graph().NumEdges())

	renderSettings := mapview.Settings{}
	if doc.RenderSettings != nil {
		renderSettings, err = doc.RenderSettings.ToMapSettings()
		if err != nil {
			sugar.Fatalw("malformed render settings", "error", err)
		}
	}

	db := schema.BuildFromRuntime(cat, rtr, renderSettings)

	file := ""
	if doc.SerializationSettings != nil {
		file = doc.SerializationSettings.File
	}

	if err := schema.Save(file, db); err != nil {
		sugar.Errorw("failed to save artifact", "file", file, "error", err)
		os.Exit(1)
	}
	sugar.Infow("saved artifact", "file", file)
}

package main

import (
	"os"

	"github.com/starx-inc/airbyte/airbytecdk"
	"github.com/starx-inc/airbyte/base/appbase"
	"github.com/starx-inc/airbyte/base/logging"
)

func main() {
	settings := appbase.Init()
	dst := NewPGVectorDestination(settings)
	runner := airbyte.NewDestinationRunner(dst, os.Stdout, os.Stdin)
	if err := runner.Start(); err != nil {
		logging.Fatalf("destination-pgvector failed: %v", err)
	}
}

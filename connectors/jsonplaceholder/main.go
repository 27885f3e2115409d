package main

import (
	"os"

	"github.com/starx-inc/airbyte/airbytecdk"
	"github.com/starx-inc/airbyte/base/appbase"
	"github.com/starx-inc/airbyte/base/logging"
)

func main() {
	settings := appbase.Init()
	src := NewSourceJSONPlaceholder(settings)
	runner := airbyte.NewSourceRunner(src, os.Stdout)
	if err := runner.Start(); err != nil {
		logging.Fatalf("source-jsonplaceholder failed: %v", err)
	}
}

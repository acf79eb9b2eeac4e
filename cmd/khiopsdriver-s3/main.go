// Command khiopsdriver-s3 is a smoke-test harness exercising the driver facade against a real bucket, outside of
// the C ABI a Khiops host process would normally load it through.
package main

import (
	"os"

	"github.com/KhiopsML/khiopsdriver-s3/cmd/khiopsdriver-s3/commands"
	"github.com/KhiopsML/khiopsdriver-s3/log"
)

// maskedFlags lists the argv flags whose values get redacted before the startup invocation is logged; credentials
// should never reach a debug log line.
var maskedFlags = []string{"--access-key", "--secret-key"} //nolint:gochecknoglobals

func main() {
	log.Debugf("invocation: %s", log.MaskAndUserTagArguments(os.Args[1:], nil, maskedFlags))

	if err := commands.Execute(); err != nil {
		log.Errorf("%v", err)
		os.Exit(1)
	}
}

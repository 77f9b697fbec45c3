package utils

import (
	"fmt"
	"log"

	"github.com/ttacon/chalk"
)

func logRed(msg string) {
	fmt.Print(chalk.Red)
	log.Print(msg, chalk.Reset)
}

// Check aborts on unrecoverable errors at the application boundary
// (service startup, spec loading from the CLI).
func Check(err error, msg string) {
	if err != nil {
		logRed(msg)
		log.Panicln(err)
	}
}

// Assert guards simulation lifecycle invariants (joint-linking
// preconditions, one-shot state transitions). A failed assertion is a
// programming error in the caller, not a runtime condition.
func Assert(ok bool, msg string) {
	if !ok {
		logRed(msg)
		log.Panicln("assertion failed: " + msg)
	}
}

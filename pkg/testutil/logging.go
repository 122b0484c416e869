package testutil

import (
	"io"
	"os"
	"strings"

	"github.com/sirupsen/logrus"
)

// Importing testutil logs everything at trace level, but only to the
// terminal when tests run verbosely
func init() {
	logrus.SetLevel(logrus.TraceLevel)

	if !isVerbose() {
		logrus.StandardLogger().Out = io.Discard
	}
}

func isVerbose() bool {
	for _, arg := range os.Args {
		if arg == "-test.v" || strings.HasPrefix(arg, "-test.v=") && arg != "-test.v=false" {
			return true
		}
	}
	return false
}

package diag

import (
	"io"
	"os"

	"github.com/sirupsen/logrus"
)

// Log is the shared structured logger: parse warnings, the
// --decode-time summary, artifact-write failures and unused-local
// warnings are reported through it.
var Log = logrus.New()

func init() {
	Log.SetOutput(os.Stderr)
	Log.SetLevel(logrus.InfoLevel)
	Log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
}

// Configure points Log at w and sets its level. Evaluator.Run calls it
// to send output to ./error.log when --error-log-file is set, and again
// to restore the previous writer when it returns.
func Configure(w io.Writer, level logrus.Level) {
	Log.SetOutput(w)
	Log.SetLevel(level)
}

// Fields is a shorthand for logrus.Fields, used by callers that want
// to attach file/line/column/kind without importing logrus directly.
type Fields = logrus.Fields

// ForError returns the structured fields describing err, suitable
// for Log.WithFields(diag.ForError(err)).Error(...).
func ForError(err *Error) Fields {
	return Fields{
		"file":   err.File,
		"line":   err.Line,
		"column": err.Column,
		"kind":   err.Kind,
	}
}

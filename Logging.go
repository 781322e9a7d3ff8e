package go_ballisticengine

import (
	"os"

	"github.com/rs/zerolog"
)

//Logger is the package-wide diagnostic logger.
//
//Defaults to warnings-and-above on stderr; hosts embedding the engine can
//replace it with SetLogger to route diagnostics into their own sink.
var Logger = zerolog.New(os.Stderr).With().Timestamp().Str("component", "ballisticengine").Logger().Level(zerolog.WarnLevel)

//SetLogger replaces the package-wide logger
func SetLogger(l zerolog.Logger) {
	Logger = l
}

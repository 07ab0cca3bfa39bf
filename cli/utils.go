package cli

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/fatih/color"
	"github.com/golang/geo/r3"
	"github.com/pkg/errors"
	"github.com/urfave/cli/v2"

	"go.viam.com/regionplan/logging"
)

// printf prints a message with no decoration.
func printf(w io.Writer, format string, a ...interface{}) {
	//nolint:errcheck
	fmt.Fprintf(w, format+"\n", a...)
}

// successf prints a message in green.
func successf(w io.Writer, format string, a ...interface{}) {
	//nolint:errcheck
	color.New(color.FgGreen).Fprintf(w, format+"\n", a...)
}

// warningf prints a message prefixed with a bold yellow "Warning: ".
func warningf(w io.Writer, format string, a ...interface{}) {
	//nolint:errcheck
	color.New(color.Bold, color.FgYellow).Fprint(w, "Warning: ")
	printf(w, format, a...)
}

const logFileKey = "logFile"

func newLogger(c *cli.Context) logging.Logger {
	var logger logging.Logger
	if c.Bool(generalFlagDebug) {
		logger = logging.NewDebugLogger("regionplan")
	} else {
		logger = logging.NewLogger("regionplan")
		logger.SetLevel(logging.WARN)
	}
	if path := c.String(generalFlagLogFile); path != "" {
		appender := logging.NewFileAppender(path, 10)
		if c.App.Metadata == nil {
			c.App.Metadata = map[string]interface{}{}
		}
		c.App.Metadata[logFileKey] = appender
		logger.AddAppender(appender)
	}
	return logger
}

// closeLogFile closes the log file opened by newLogger, if any.
func closeLogFile(c *cli.Context) error {
	appender, ok := c.App.Metadata[logFileKey].(*logging.FileAppender)
	if !ok {
		return nil
	}
	delete(c.App.Metadata, logFileKey)
	return appender.Close()
}

// parseVector parses "x,y,z" into a vector.
func parseVector(raw string) (r3.Vector, error) {
	parts := strings.Split(raw, ",")
	if len(parts) != 3 {
		return r3.Vector{}, errors.Errorf("vector %q must have the form x,y,z", raw)
	}
	var vals [3]float64
	for i, p := range parts {
		v, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil {
			return r3.Vector{}, errors.Wrapf(err, "vector %q", raw)
		}
		vals[i] = v
	}
	return r3.Vector{X: vals[0], Y: vals[1], Z: vals[2]}, nil
}

func formatVector(v r3.Vector) string {
	return fmt.Sprintf("X:%.2f, Y:%.2f, Z:%.2f", v.X, v.Y, v.Z)
}

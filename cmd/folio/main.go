// Command folio validates, imports and exports portfolio CSV files against a
// portfolio stored as JSON.
package main

import (
	"context"
	"flag"
	"os"
	"path"

	"github.com/findosh/folio/internal/services/exporter"
	"github.com/findosh/folio/internal/services/importer"
	"github.com/findosh/folio/internal/services/marketdata"
	"github.com/google/subcommands"
	"github.com/sirupsen/logrus"
)

var verbose = flag.Bool("v", false, "log pipeline details to stderr")

func main() {
	commander := subcommands.NewCommander(flag.CommandLine, path.Base(os.Args[0]))
	commander.Register(commander.HelpCommand(), "")
	commander.Register(commander.FlagsCommand(), "")
	commander.Register(commander.CommandsCommand(), "")
	register(commander)

	flag.Parse()

	logger := logrus.New()
	logger.SetOutput(os.Stderr)
	logger.SetLevel(logrus.WarnLevel)
	if *verbose {
		logger.SetLevel(logrus.DebugLevel)
	}
	importer.SetLogger(logger)
	exporter.SetLogger(logger)
	marketdata.SetLogger(logger)

	os.Exit(int(commander.Execute(context.Background())))
}

func register(c *subcommands.Commander) {
	c.Register(&validateCmd{}, "csv")
	c.Register(&importCmd{}, "csv")
	c.Register(&duplicatesCmd{}, "csv")
	c.Register(&exportCmd{}, "csv")
	c.Register(&showCmd{}, "portfolio")
	c.Register(&templateCmd{}, "csv")
}

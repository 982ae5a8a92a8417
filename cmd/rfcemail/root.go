package main

import (
	"io"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

const rootDescLong = `Validates email addresses against the RFC 5322 grammar, including
RFC 5321 address literals and RFC 6531 internationalized addresses.

Every address is reported as valid or invalid together with the stable
diagnostic codes behind the verdict.

To check a few addresses:
  rfcemail check fabien@symfony.com "example(comment)@example.co.uk"

To check one address per line from standard input, with a DNS lookup:
  rfcemail check --dns < addresses.txt
`

func newRootCommand() *cobra.Command {
	var logLevel string

	cmd := &cobra.Command{
		Use:          "rfcemail",
		Short:        "RFC 5322 email address validator",
		Long:         rootDescLong,
		SilenceUsage: true,
	}
	cmd.PersistentFlags().StringVar(&logLevel, "log-level", "warn",
		"log level: debug, info, warn or error")
	cmd.AddCommand(newCheckCommand(&logLevel))
	return cmd
}

func newLogger(level string, w io.Writer) (*logrus.Logger, error) {
	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		return nil, err
	}
	l := logrus.New()
	l.SetOutput(w)
	l.SetLevel(lvl)
	return l, nil
}

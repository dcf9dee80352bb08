package cmd

import (
	"github.com/google/subcommands"
)

// Register the subcommands.
// A main package will call Register() to allow subcommands, and Execute() on the user-selected one.
func Register(c *subcommands.Commander) {
	c.Register(&buildCmd{}, "files")
	c.Register(&fmtCmd{}, "files")
	c.Register(&parseCmd{}, "files")

	c.Register(&validateCmd{}, "inspect")
	c.Register(&describeCmd{}, "inspect")
	c.Register(&queryCmd{}, "inspect")

	c.Register(&topicCmd{}, "help")
}

// Command arbor plays Planet Wars with behavior trees and inspects the games
// it recorded.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/roach88/arbor/internal/cli"
)

func main() {
	cmd := cli.NewRootCommand()
	if err := cmd.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(cli.GetExitCode(err))
	}
}

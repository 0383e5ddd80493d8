package main

import (
	"fmt"
	"os"

	"github.com/vikaspatil0021/formbricks/cli"
)

func main() {
	err := cli.Root().Execute()
	if err != nil {
		_, _ = fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

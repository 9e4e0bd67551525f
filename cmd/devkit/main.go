package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/jguida941/contact-suite-spring-react/pkg/lib"
)

func main() {
	root := NewRootCmd()

	if err := root.Execute(); err != nil {
		var exitErr *lib.ExitError
		if errors.As(err, &exitErr) {
			if exitErr.Err != nil {
				fmt.Fprintln(os.Stderr, exitErr.Err)
			}
			os.Exit(exitErr.Code)
		}
		fmt.Fprintln(os.Stderr, err)
		os.Exit(lib.ExitInfra)
	}
}

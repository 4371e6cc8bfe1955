// Command beautyparlour はサロン予約APIのエントリーポイント。
//
//	beautyparlour [serve|worker|migrate|healthcheck]
package main

import (
	"fmt"
	"os"

	"github.com/hitoshi/beautyparlour/internal/app"
)

func main() {
	if len(os.Args) > 1 && (os.Args[1] == "-h" || os.Args[1] == "--help" || os.Args[1] == "help") {
		fmt.Fprint(os.Stdout, app.Usage())
		return
	}

	if err := app.Run(os.Stdout, os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "beautyparlour: %v\n", err)
		os.Exit(1)
	}
}

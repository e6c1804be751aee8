// Command scrapegen generates extraction functions for annotated struct
// types and request functions for .http templates.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"astuart.co/scrape/cmd/scrapegen/internal"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := internal.Run(ctx, os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		stop()
		os.Exit(1)
	}
}

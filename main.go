package main

import (
	"context"
	"fmt"
	"os"

	"article-summarizer/bootstrap"
)

func main() {
	if err := bootstrap.Run(context.Background()); err != nil {
		fmt.Fprintf(os.Stderr, "article-summarizer: %v\n", err)
		os.Exit(1)
	}
}

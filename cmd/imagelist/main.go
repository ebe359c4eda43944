// Command imagelist writes the numbered image URL lists the image feed
// serves, e.g. dozzi1.jpeg through dozzi1092.jpeg, as JSON documents.
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := NewRootCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// Command mailfrag splits email messages into per-paragraph HTML fragments.
package main

import "github.com/gaurav-prasanna/mailfrag/cmd"

func main() {
	cmd.Execute()
}

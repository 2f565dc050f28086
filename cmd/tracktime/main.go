// The tracktime command inspects and serves recorded time slice logs.
package main

import "github.com/sarchlab/tracktime/cmd/tracktime/cmd"

func main() {
	cmd.Execute()
}

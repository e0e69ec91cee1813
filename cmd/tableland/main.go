// Command tableland submits statements to Tableland networks and reads
// their results.
package main

import "github.com/mesh-intelligence/tableland/internal/cli"

func main() {
	cli.Execute()
}

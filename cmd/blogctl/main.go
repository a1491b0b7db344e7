// Command blogctl is a terminal client for the blog service.
package main

import "github.com/mesh-intelligence/blogctl/internal/cli"

func main() {
	cli.Execute()
}

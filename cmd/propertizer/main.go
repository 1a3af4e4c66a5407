package main

import "github.com/brianslattery/kms-propertizer/internal/cli"

func main() {
	cli.Execute()
}

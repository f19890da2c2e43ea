package main

import "github.com/chative-ordering/orderbot/internal/cli"

func main() {
	cli.Execute()
}

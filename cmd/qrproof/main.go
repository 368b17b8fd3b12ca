package main

import "github.com/qrproof/qrproof/cmd/qrproof/cmd"

func main() {
	cmd.Execute()
}

// Command examcoach is the terminal client for the exam-coaching service.
package main

import "github.com/examcoach/examcoach/internal/cli"

func main() {
	cli.Execute()
}

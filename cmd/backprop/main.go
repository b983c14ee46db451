// Command backprop trains a three-layer classifier (ReLU hidden layer,
// softmax output) by full-batch gradient descent.
//
// To train on the five classic iris rows: `go run ./cmd/backprop train`
//
// To train longer on a random iris subset: `go run ./cmd/backprop train --iterations=1000 --sample-size=30`
//
// To verify the analytic gradients: `go run ./cmd/backprop gradcheck`
package main

import (
	"context"
	"flag"
	"os"

	"github.com/google/subcommands"
)

func main() {
	subcommands.Register(subcommands.HelpCommand(), "")
	subcommands.Register(subcommands.FlagsCommand(), "")
	subcommands.Register(subcommands.CommandsCommand(), "")

	subcommands.Register(&TrainCommand{}, "")
	subcommands.Register(&GradCheckCommand{}, "")
	subcommands.Register(&SampleCommand{}, "")
	subcommands.Register(&SimulateCommand{}, "")

	flag.Parse()
	ctx := context.Background()
	os.Exit(int(subcommands.Execute(ctx)))
}

// This package runs values through a three-stage handoff pipeline.
// A coordinator publishes one input, a transform stage computes the result and a
// consume stage hands it to a Sink and reports completion back to the coordinator.
// The stages share one mutex-guarded state and one condition signal;
// exactly one value is in flight at any time.

// To install handoff:
// 	go get -u github.com/andriiyaremenko/handoff

// How to use:
//
// Submit:
// import (
// 	"context"
// 	"fmt"
//
// 	"github.com/andriiyaremenko/handoff"
// )
// func main() {
// 	ctx := context.Background()
//
// 	sink := handoff.SinkFunc[int](func(z int) { fmt.Println("z =", z) })
// 	p := handoff.New(handoff.Square[int](), sink)
//
// 	// prints z = 36
// 	if err := p.Submit(ctx, 6); err != nil {
// 		// ...
// 	}
//
// 	// stops transform stage, then consume stage
// 	if err := p.Stop(ctx); err != nil {
// 		// ...
// 	}
// }
//
// Run:
// import (
// 	"context"
// 	"os"
//
// 	"github.com/andriiyaremenko/handoff"
// 	"github.com/andriiyaremenko/handoff/console"
// )
// func main() {
// 	c := console.New(os.Stdin, os.Stdout, console.Int)
// 	p := handoff.New(handoff.Double[int](), c)
//
// 	// asks for values until the answer to "Continue? (y/n)" is not "y"
// 	// and stops the pipeline before returning
// 	if err := p.Run(context.Background(), c); err != nil {
// 		// ...
// 	}
// }
package handoff

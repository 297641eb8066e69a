package main

//go-build: CGO_ENABLED=0

import (
	"flag"
	"log"

	"github.com/robotalks/companion.go/pkg/bridge"
	"github.com/robotalks/companion.go/pkg/env"
	"github.com/robotalks/companion.go/pkg/framework"
)

func init() {
	env.SetupFlags()
	bridge.SetupFlags()
}

func main() {
	flag.Parse()

	l := env.NewConfig().MustOpen()
	defer l.Stream.Close()

	runner := framework.NewRunner().HandleSignals()
	runner.Go(framework.NamedRun("link", l.Stream))

	ok, err := l.Device.VerifyVersion(runner.Context)
	if err != nil {
		log.Fatalf("companion not responding: %v", err)
	}
	if !ok {
		log.Fatalln("companion firmware version mismatch")
	}

	runner.Go(bridge.NewConfig().MustNewBridge(l.Device))
	if err := runner.Wait(); err != nil {
		log.Fatalln(err)
	}
}

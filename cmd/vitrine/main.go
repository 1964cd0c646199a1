package main

import (
	"log"
	"os"
	"os/signal"
	"runtime"
	"syscall"

	"github.com/michaelquigley/pfxlog"
	"github.com/sirupsen/logrus"

	_ "github.com/openpane/vitrine/cmd/vitrine/influx"
	_ "github.com/openpane/vitrine/cmd/vitrine/stress"
	"github.com/openpane/vitrine/cmd/vitrine/vitrine"
)

func init() {
	pfxlog.Global(logrus.InfoLevel)
	pfxlog.SetPrefix("github.com/openpane/")
}

func main() {
	defer logrus.Debugf("finished")

	go func() {
		sigs := make(chan os.Signal, 1)
		signal.Notify(sigs, syscall.SIGQUIT)
		buf := make([]byte, 1<<20)
		for {
			<-sigs
			stacklen := runtime.Stack(buf, true)
			log.Printf("=== received SIGQUIT ===\n*** goroutine dump...\n%s\n*** end\n", buf[:stacklen])
		}
	}()

	if err := vitrine.RootCmd.Execute(); err != nil {
		logrus.Fatalf("error (%v)", err)
	}
}

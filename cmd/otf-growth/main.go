package main

import (
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	otfgrowth "github.com/nsip/otf-growth"
	"github.com/peterbourgon/ff/v3"
)

func main() {

	fs := flag.NewFlagSet("otf-growth", flag.ExitOnError)
	var (
		_           = fs.String("config", "", "config file (optional), json format.")
		serviceName = fs.String("name", "", "name for this growth service instance")
		serviceID   = fs.String("id", "", "id for this growth service instance, leave blank to auto-generate a unique id")
		serviceHost = fs.String("host", "localhost", "name/address of host for this service")
		servicePort = fs.Int("port", 0, "port to run service on, if not specified will assign an available port automatically")
		tables      = fs.String("tables", "", "json reference snapshot to load, leave blank to use the built-in reference tables")
		csvDir      = fs.String("csvDir", "", "directory of WHO-style csv reference files, overrides -tables")
	)

	if err := ff.Parse(fs, os.Args[1:],
		ff.WithConfigFileFlag("config"),
		ff.WithConfigFileParser(ff.JSONParser),
		ff.WithEnvVarPrefix("OTF_GROWTH_SRVC"),
	); err != nil {
		fmt.Printf("\nCannot parse otf-growth configuration:\n%s\n\n", err)
		return
	}

	opts := []otfgrowth.Option{
		otfgrowth.Name(*serviceName),
		otfgrowth.ID(*serviceID),
		otfgrowth.Host(*serviceHost),
		otfgrowth.Port(*servicePort),
		otfgrowth.Tables(*tables),
		otfgrowth.CSVDir(*csvDir),
	}

	srvc, err := otfgrowth.New(opts...)
	if err != nil {
		fmt.Printf("\nCannot create otf-growth service:\n%s\n\n", err)
		return
	}

	srvc.PrintConfig()

	// reload reference tables on SIGHUP
	hup := make(chan os.Signal, 1)
	signal.Notify(hup, syscall.SIGHUP)
	go func() {
		for range hup {
			if err := srvc.ReloadTables(); err != nil {
				fmt.Println(err)
			}
		}
	}()

	// signal handler for shutdown
	closed := make(chan struct{})
	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-c
		fmt.Println("\notf-growth shutting down")
		srvc.Shutdown()
		fmt.Println("otf-growth closed")
		close(closed)
	}()

	srvc.Start()

	// block until shutdown by sig-handler
	<-closed

}

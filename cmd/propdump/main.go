package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"reflect"
	"text/tabwriter"

	"github.com/Konsultn-Engineering/ctrlprops/controllers"
	"github.com/Konsultn-Engineering/ctrlprops/schema"
	"github.com/Konsultn-Engineering/ctrlprops/tempdata"
	"github.com/sirupsen/logrus"
)

type HomeController struct {
	controllers.Controller
	Title string
}

type AccountController struct {
	*controllers.Controller
	UserID  uint64
	Scratch map[string]any `prop:"-"`
}

type HealthController struct {
	Status string
}

func main() {
	verbose := flag.Bool("verbose", false, "enable debug logging")
	cacheSize := flag.Int("cache-size", 64, "schema metadata cache size")
	flag.Parse()

	logger := logrus.New()
	logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	if *verbose {
		logger.SetLevel(logrus.DebugLevel)
	}

	if err := run(os.Stdout, logger, *cacheSize); err != nil {
		logger.WithError(err).Fatal("propdump failed")
	}
}

func run(out io.Writer, logger *logrus.Logger, cacheSize int) error {
	sc, err := schema.New(schema.WithCacheSize(cacheSize), schema.WithLogger(logger))
	if err != nil {
		return err
	}
	accessors := controllers.NewTempDataCache(
		controllers.WithIntrospector(sc),
		controllers.WithLogger(logger),
	)

	provider := tempdata.NewMemoryProvider()
	td := tempdata.New(provider, tempdata.NewSessionID())
	td.Set("flash", "welcome back")

	instances := []any{
		&HomeController{Controller: controllers.Controller{TempData: td}, Title: "home"},
		&AccountController{Controller: &controllers.Controller{TempData: td}, UserID: 7},
		&HealthController{Status: "ok"},
	}

	w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	for _, inst := range instances {
		t := reflect.TypeOf(inst)
		meta, err := sc.Introspect(t)
		if err != nil {
			return err
		}

		fmt.Fprintf(w, "%s\n", meta.Type)
		for _, p := range meta.Properties {
			offset := "-"
			if p.Direct {
				offset = fmt.Sprint(p.Offset)
			}
			fmt.Fprintf(w, "  %s\t%s\toffset=%s\n", p.Name, p.Type, offset)
		}

		get, err := accessors.GetAccessor(t)
		if err != nil {
			fmt.Fprintf(w, "  tempdata:\t%v\n", err)
			continue
		}
		flash, _ := get(inst).Peek("flash")
		fmt.Fprintf(w, "  tempdata:\tflash=%v\n", flash)
	}
	if err := w.Flush(); err != nil {
		return err
	}

	return td.Save(context.Background())
}

// Command isoline evaluates a scene script, extracts the zero contour of its
// signed distance field and writes the result as JSON.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"

	"github.com/chazu/isoline/pkg/config"
	"github.com/chazu/isoline/pkg/contour"
	"github.com/pkg/profile"
)

type options struct {
	configPath string
	scriptPath string
	width      int
	height     int
	parallel   bool
	workers    int
	outputPath string
	cpuProfile string
	verbose    bool
}

func (o *options) register(fs *flag.FlagSet) {
	fs.StringVar(&o.configPath, "config", "", "Path to HJSON config file")
	fs.StringVar(&o.scriptPath, "script", "", "Path to scene script (overrides config scene)")
	fs.IntVar(&o.width, "width", 0, "Grid width in cells")
	fs.IntVar(&o.height, "height", 0, "Grid height in cells")
	fs.BoolVar(&o.parallel, "parallel", false, "Use the parallel extractor")
	fs.IntVar(&o.workers, "workers", 0, "Parallel extractor workers (0 = GOMAXPROCS)")
	fs.StringVar(&o.outputPath, "o", "", "Output file (default stdout)")
	fs.StringVar(&o.cpuProfile, "cpuprofile", "", "Write a CPU profile to this directory")
	fs.BoolVar(&o.verbose, "v", false, "Log extraction details to stderr")
}

func main() {
	var opts options
	opts.register(flag.CommandLine)
	flag.Parse()

	os.Exit(run(&opts, flag.CommandLine))
}

func run(opts *options, fs *flag.FlagSet) int {
	if opts.cpuProfile != "" {
		defer profile.Start(profile.CPUProfile, profile.ProfilePath(opts.cpuProfile), profile.Quiet).Stop()
	}
	if opts.verbose {
		contour.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug})))
	}

	conf, err := opts.loadConfig(fs)
	if err != nil {
		log.Printf("config: %v", err)
		return 2
	}

	source, err := conf.Source()
	if err != nil {
		log.Printf("scene: %v", err)
		return 2
	}

	result := NewApp(conf).Evaluate(source)

	out, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		log.Printf("encode: %v", err)
		return 1
	}
	out = append(out, '\n')

	if conf.Output == "" {
		_, err = os.Stdout.Write(out)
	} else {
		err = os.WriteFile(conf.Output, out, 0o644)
	}
	if err != nil {
		log.Printf("write: %v", err)
		return 1
	}

	for _, e := range result.Errors {
		log.Printf("error (line %d): %s", e.Line, e.Message)
	}
	for _, w := range result.Warnings {
		log.Printf("warning: %s", w.Message)
	}
	if len(result.Errors) > 0 {
		return 1
	}
	return 0
}

// loadConfig reads the config file, if any, and applies flags that were set
// explicitly on the command line.
func (o *options) loadConfig(fs *flag.FlagSet) (config.Config, error) {
	conf := config.Default()
	if o.configPath != "" {
		var err error
		if conf, err = config.Load(o.configPath); err != nil {
			return conf, err
		}
	}

	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "script":
			conf.ScenePath = o.scriptPath
			conf.Scene = ""
		case "width":
			conf.Width = o.width
		case "height":
			conf.Height = o.height
		case "parallel":
			conf.Parallel = o.parallel
		case "workers":
			conf.Workers = o.workers
		case "o":
			conf.Output = o.outputPath
		}
	})

	if err := conf.Validate(); err != nil {
		return conf, fmt.Errorf("%w (use -script or a config file)", err)
	}
	return conf, nil
}

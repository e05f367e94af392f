/*
Simple example how to use PM1006 sensor (IKEA Vindriktning) on serial port

Prints averages, exposes prometheus metrics and optionally publishes to MQTT.
Settings can come from flags, environment or .env file
*/

package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/fatih/color"
	"github.com/hjkoskel/listserialports"
	dotenv "github.com/joho/godotenv"
	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/hjkoskel/pm1006"
	"github.com/hjkoskel/pm1006/envsensor"
	"github.com/hjkoskel/pm1006/mqttpub"
)

type runOptions struct {
	device      string
	env         string
	mqttURL     string
	listen      string
	envInterval time.Duration
	byteDelay   time.Duration
	interactive bool
}

func envOr(name string, fallback string) string {
	if v, ok := os.LookupEnv(name); ok {
		return v
	}
	return fallback
}

func listPorts() error {
	proped, errProbing := listserialports.Probe(false)
	if errProbing != nil {
		return errProbing
	}
	for _, ser := range proped {
		fmt.Print(ser.ToPrintoutFormat())
	}
	return nil
}

func printResults(results <-chan pm1006.Averages, forward chan<- pm1006.Averages) {
	for res := range results {
		color.Set(color.FgHiYellow)
		fmt.Printf("Sensor have result %v (compensated PM2.5 %.1f)\n", res, res.CompensatedPM25())
		color.Unset()
		if forward == nil {
			continue
		}
		select {
		case forward <- res:
		default:
			log.Warn("mqtt publisher is behind, dropping averages")
		}
	}
}

func serveMetrics(listen string, reg *prometheus.Registry) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{EnableOpenMetrics: true}))
	log.Infof("serving metrics on %v/metrics", listen)
	log.Panic(http.ListenAndServe(listen, mux))
}

func runMonitor(ctx context.Context, opts runOptions) error {
	if opts.device == "" {
		fmt.Printf("Please define serial device. (-h for help)\nList of serial ports\n")
		return listPorts()
	}

	serialLink, errSerial := pm1006.CreateLinuxSerial(opts.device)
	if errSerial != nil {
		return errors.Wrapf(errSerial, "initializing serial port %v failed", opts.device)
	}
	defer serialLink.Close()

	envSensor, errEnv := envsensor.Open(opts.env)
	if errEnv != nil {
		return errEnv
	}
	if envSensor != nil {
		defer envSensor.Close()
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewBuildInfoCollector())

	cfg := pm1006.DefaultConfig()
	cfg.EnvInterval = opts.envInterval
	cfg.ByteDelay = opts.byteDelay
	cfg.Log = log.StandardLogger()
	cfg.Metrics = pm1006.NewMetrics(reg)

	results := make(chan pm1006.Averages, 3)
	monitor, errMonitor := pm1006.NewMonitor(serialLink, envSensor, cfg, results)
	if errMonitor != nil {
		return errMonitor
	}

	var forward chan pm1006.Averages
	if opts.mqttURL != "" {
		publisher, errPub := mqttpub.NewPublisher(opts.mqttURL, log.StandardLogger())
		if errPub != nil {
			return errPub
		}
		if errConnect := publisher.Connect(); errConnect != nil {
			return errConnect
		}
		defer publisher.Close()
		forward = make(chan pm1006.Averages, 3)
		go publisher.Run(ctx, forward)
	}
	go printResults(results, forward)

	if opts.listen != "" {
		go serveMetrics(opts.listen, reg)
	}
	if opts.interactive {
		go interactiveMode(ctx, monitor)
	}

	log.Infof("polling PM1006 on %v", opts.device)
	return monitor.Run(ctx)
}

func newRootCommand(ctx context.Context) *cobra.Command {
	opts := runOptions{}
	verbose := false

	rootCmd := &cobra.Command{
		Use:   "simpleExample",
		Short: "Reads PM1006 particle sensor and reports rolling averages",
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if verbose {
				log.SetLevel(log.DebugLevel)
			}
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			errRun := runMonitor(ctx, opts)
			if errors.Cause(errRun) == context.Canceled {
				return nil
			}
			return errRun
		},
	}
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Verbose mode")

	flags := rootCmd.Flags()
	flags.StringVarP(&opts.device, "serial", "s", envOr("PM1006_SERIAL", ""), "serial device file")
	flags.StringVar(&opts.env, "env", envOr("PM1006_ENV", "none"), "temperature/humidity sensor: none, dht11:GPIO14, dht22:GPIO4, bme280[:0x77]")
	flags.StringVar(&opts.mqttURL, "mqtt", envOr("PM1006_MQTT", ""), "MQTT broker url, like mqtt://host:1883/prefix")
	flags.StringVar(&opts.listen, "listen", envOr("PM1006_LISTEN", ":8080"), "address for /metrics, empty disables")
	flags.DurationVar(&opts.envInterval, "env-interval", pm1006.ENVINTERVAL*time.Millisecond, "time between temperature/humidity reads")
	flags.DurationVar(&opts.byteDelay, "byte-delay", pm1006.BYTEDELAY*time.Millisecond, "delay between serial byte reads")
	flags.BoolVarP(&opts.interactive, "interactive", "i", false, "interactive mode")

	rootCmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List serial ports",
		RunE: func(cmd *cobra.Command, args []string) error {
			return listPorts()
		},
	})
	return rootCmd
}

func main() {
	if errEnv := dotenv.Load(); errEnv != nil && !os.IsNotExist(errEnv) {
		log.Fatalf("failed to load .env file: %v", errEnv)
	}
	log.SetFormatter(&log.TextFormatter{FullTimestamp: true})

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := newRootCommand(ctx).Execute(); err != nil {
		cancel()
		os.Exit(1)
	}
}

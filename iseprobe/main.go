package main

import (
	"flag"
	"fmt"
	"strconv"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/cgxeiji/iseprobe"
	"github.com/cgxeiji/iseprobe/internal/config"
	"github.com/cgxeiji/iseprobe/internal/monitor"
)

func main() {
	path := flag.String("config", "", "YAML configuration file")
	flag.Parse()

	log := logrus.New()

	cfg := config.Default()
	if *path != "" {
		var err error
		if cfg, err = config.Load(*path); err != nil {
			log.Fatal(err)
		}
	}
	if err := setupLog(log, cfg.Log); err != nil {
		log.Fatal(err)
	}

	probe, err := open(cfg.Probe, log)
	if err != nil {
		log.Fatal(err)
	}
	defer probe.Close()

	var m *monitor.Metrics
	if cfg.Monitor.Enabled {
		m = monitor.New(cfg.Probe.Kind, cfg.Probe.Addr)
		go m.Serve(cfg.Monitor.Listen, log)
	}

	t := time.NewTicker(cfg.Poll.Interval)
	defer t.Stop()

	var avg movingAverage
	for {
		fields, err := poll(probe, cfg.Probe.Temperature == nil, m, &avg)
		if err != nil {
			log.WithError(err).Error("could not read probe")
		} else {
			log.WithFields(fields).Info("reading")
		}
		<-t.C
	}
}

func setupLog(log *logrus.Logger, c config.LogConfig) error {
	level, err := logrus.ParseLevel(c.Level)
	if err != nil {
		return err
	}
	log.SetLevel(level)

	switch c.Format {
	case "json":
		log.SetFormatter(&logrus.JSONFormatter{})
	case "text", "":
		log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	default:
		return fmt.Errorf("unknown log format %q", c.Format)
	}
	return nil
}

func open(c config.ProbeConfig, log *logrus.Logger) (iseprobe.Probe, error) {
	kind, err := iseprobe.ParseKind(c.Kind)
	if err != nil {
		return nil, err
	}

	options := []iseprobe.Option{
		iseprobe.OnAddr(c.Addr),
		iseprobe.WithLogger(log),
	}
	if c.Transport == "embd" {
		n, err := strconv.ParseUint(c.Bus, 10, 8)
		if err != nil {
			return nil, fmt.Errorf("embd bus must be a number, got %q", c.Bus)
		}
		options = append(options, iseprobe.OnEmbdBus(byte(n)))
	} else {
		options = append(options, iseprobe.OnBus(c.Bus))
	}

	probe, err := iseprobe.New(kind, options...)
	if err != nil {
		return nil, err
	}

	if d, ok := probe.(configurable); ok {
		version, _ := d.Version()
		firmware, _ := d.Firmware()
		log.WithFields(logrus.Fields{
			"kind":     kind,
			"addr":     fmt.Sprintf("%#02x", d.Addr()),
			"version":  version,
			"firmware": firmware,
		}).Info("probe detected")

		if err := d.UseTemperatureCompensation(c.Compensate); err != nil {
			probe.Close()
			return nil, err
		}
	}

	if c.Temperature != nil {
		if err := probe.SetTemp(*c.Temperature); err != nil {
			probe.Close()
			return nil, err
		}
	}

	return probe, nil
}

// configurable is implemented by every probe through the embedded ise.Device.
type configurable interface {
	Version() (byte, error)
	Firmware() (byte, error)
	Addr() uint16
	UseTemperatureCompensation(on bool) error
}

// poll takes one reading. If avg is not nil, the smoothed primary reading is
// reported as "avg".
func poll(p iseprobe.Probe, measureTemp bool, m *monitor.Metrics, avg *movingAverage) (logrus.Fields, error) {
	f, v, err := read(p, measureTemp, m)
	if err != nil {
		if m != nil {
			m.ReadErrors.Inc()
		}
		return nil, err
	}

	if avg != nil {
		avg.add(v)
		f["avg"] = avg.mean
	}
	return f, nil
}

func read(p iseprobe.Probe, measureTemp bool, m *monitor.Metrics) (logrus.Fields, float64, error) {
	f := logrus.Fields{}

	if measureTemp {
		c, err := p.MeasureTemp()
		if err != nil {
			return nil, 0, err
		}
		f["temp_c"] = c
		if m != nil {
			m.Temperature.Set(c)
		}
	}

	var v float64
	var err error
	switch p := p.(type) {
	case *iseprobe.PH:
		v, err = p.MeasurePHCompensated()
		f["mv"], f["ph"], f["poh"] = p.MV, p.PH, p.POH
		if m != nil && err == nil {
			m.MV.Set(p.MV)
			m.PH.Set(p.PH)
		}
	case *iseprobe.ORP:
		v, err = p.MeasureORP()
		f["mv"], f["orp"], f["eh"] = p.MV, p.ORP, p.Eh
		if m != nil && err == nil {
			m.MV.Set(p.MV)
			m.ORP.Set(p.ORP)
			m.Eh.Set(p.Eh)
		}
	default:
		v, err = p.Measure()
		f["mv"] = v
		if m != nil && err == nil {
			m.MV.Set(v)
		}
	}

	if err != nil {
		return nil, 0, err
	}
	return f, v, nil
}

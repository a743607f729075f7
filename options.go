package iseprobe

import (
	"time"

	"github.com/sirupsen/logrus"

	"github.com/cgxeiji/iseprobe/ise"
)

type config struct {
	bus       string
	embd      bool
	embdBus   byte
	addr      uint16
	transport ise.Bus
	log       logrus.FieldLogger
	sleep     func(time.Duration)
}

// An Option configures how a probe is opened.
type Option func(c *config) Option

// OnBus can be used to specify the periph.io I²C bus name
// ("/dev/i2c-2", "I2C2", "2"). By default, the bus name is "", which selects
// the first available bus.
func OnBus(name string) Option {
	return func(c *config) Option {
		old := c.bus
		c.bus = name
		return OnBus(old)
	}
}

// OnEmbdBus opens I²C bus number n through embd instead of periph.io.
func OnEmbdBus(n byte) Option {
	return func(c *config) Option {
		oldOn, oldN := c.embd, c.embdBus
		c.embd, c.embdBus = true, n
		if !oldOn {
			return onPeriph()
		}
		return OnEmbdBus(oldN)
	}
}

func onPeriph() Option {
	return func(c *config) Option {
		old := c.embdBus
		c.embd = false
		return OnEmbdBus(old)
	}
}

// OnAddr can be used to specify an alternative I²C address.
// By default, the address is 0x3F.
func OnAddr(addr uint16) Option {
	return func(c *config) Option {
		old := c.addr
		c.addr = addr
		return OnAddr(old)
	}
}

// OnTransport uses bus as is, skipping host initialization. Useful for
// custom adapters and for tests.
func OnTransport(bus ise.Bus) Option {
	return func(c *config) Option {
		old := c.transport
		c.transport = bus
		return OnTransport(old)
	}
}

// WithLogger sets the logger of the device.
func WithLogger(l logrus.FieldLogger) Option {
	return func(c *config) Option {
		old := c.log
		c.log = l
		return WithLogger(old)
	}
}

// WithSleep replaces the function used to wait for bus and settle delays.
func WithSleep(fn func(time.Duration)) Option {
	return func(c *config) Option {
		old := c.sleep
		c.sleep = fn
		return WithSleep(old)
	}
}

func open(options []Option) (*ise.Device, error) {
	c := &config{
		log: logrus.StandardLogger(),
	}
	for _, opt := range options {
		opt(c)
	}

	devOpts := []ise.Option{ise.Logger(c.log)}
	if c.sleep != nil {
		devOpts = append(devOpts, ise.Sleep(c.sleep))
	}

	switch {
	case c.transport != nil:
		return ise.New(c.transport, c.addr, devOpts...), nil
	case c.embd:
		return ise.OpenEmbd(c.embdBus, c.addr, devOpts...)
	default:
		return ise.Open(c.bus, c.addr, devOpts...)
	}
}

// Command pinmap resolves the controller board pin table, and optionally
// claims it on a Linux bench GPIO chip, publishing it to MQTT and HTTP.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"text/tabwriter"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/sweeney/pinmap/internal/config"
	"github.com/sweeney/pinmap/internal/gpio"
	"github.com/sweeney/pinmap/internal/mqtt"
	"github.com/sweeney/pinmap/internal/pins"
	"github.com/sweeney/pinmap/internal/status"
	"github.com/sweeney/pinmap/internal/web"
)

func main() {
	cfg, err := config.Load(os.Args[0], os.Args[1:], os.Stderr)
	if errors.Is(err, flag.ErrHelp) {
		return
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(2)
	}

	log.Logger = zerolog.New(os.Stderr).With().Timestamp().Logger().Level(cfg.Level)

	if err := run(cfg); err != nil {
		log.Fatal().Err(err).Msg("fatal")
	}
}

func run(cfg config.Config) error {
	m := pins.For(cfg.Direction)

	// Print mode
	if cfg.Print {
		return printMap(os.Stdout, m, cfg.Format)
	}

	logShares(m)

	var lines gpio.Lines
	if cfg.Claim {
		rl, err := gpio.NewRealLines(cfg.Chip, m)
		if err != nil {
			return fmt.Errorf("init gpio: %w", err)
		}
		defer func() {
			if err := rl.Close(); err != nil {
				log.Error().Err(err).Msg("gpio close")
			}
		}()
		lines = rl
		log.Info().Str("chip", cfg.Chip).Msg("gpio lines claimed")
	}

	tracker := status.NewTracker(time.Now(), m, status.Config{
		PollMs:      cfg.Poll.Milliseconds(),
		HeartbeatMs: cfg.Heartbeat.Milliseconds(),
		Broker:      cfg.Broker,
		HTTPAddr:    cfg.HTTPAddr,
		Chip:        cfg.Chip,
		Claimed:     cfg.Claim,
	})

	var publisher mqtt.Publisher = nopPublisher{}
	var mqttStatus mqtt.ConnectionStatus
	if cfg.Broker != "" {
		p := mqtt.NewRealPublisher(cfg.Broker, "pinmap")
		defer func() {
			if err := p.Close(); err != nil {
				log.Error().Err(err).Msg("mqtt close")
			}
		}()
		publisher, mqttStatus = p, p
	}

	// Publish the retained map, then the startup event with a full snapshot
	if err := publisher.PublishPinMap(m, time.Now()); err != nil {
		log.Error().Err(err).Msg("failed to publish pin map")
	}
	snap := tracker.Snapshot()
	startupEvent := mqtt.SystemEvent{
		Timestamp:  snap.Now,
		Event:      "STARTUP",
		Retained:   true,
		RawPayload: status.FormatStatusEvent(snap, "STARTUP", ""),
	}
	if err := publisher.PublishSystem(startupEvent); err != nil {
		log.Error().Err(err).Msg("failed to publish startup event")
	}

	// Start HTTP status server
	if cfg.HTTPAddr != "" {
		srv := web.New(cfg.HTTPAddr, tracker)
		go func() {
			if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				log.Error().Err(err).Msg("http server error")
			}
		}()
		defer srv.Shutdown(context.Background())
		log.Info().Str("addr", cfg.HTTPAddr).Msg("http status server listening")
	}

	log.Info().
		Stringer("encoder_direction", m.Direction).
		Dur("poll", cfg.Poll).
		Str("broker", cfg.Broker).
		Dur("heartbeat", cfg.Heartbeat).
		Msg("started")

	ticker := time.NewTicker(cfg.Poll)
	defer ticker.Stop()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	return runLoop(lines, publisher, mqttStatus, tracker, cfg.Heartbeat, time.Now, ticker.C, sigCh)
}

func runLoop(lines gpio.Lines, publisher mqtt.Publisher, mqttStatus mqtt.ConnectionStatus, tracker *status.Tracker, heartbeat time.Duration, now func() time.Time, tick <-chan time.Time, sig <-chan os.Signal) error {
	lastHeartbeat := now()
	readFailing := false

	for {
		select {
		case s := <-sig:
			log.Info().Stringer("signal", s).Msg("shutting down")
			signalName := "UNKNOWN"
			if s == syscall.SIGINT {
				signalName = "SIGINT"
			} else if s == syscall.SIGTERM {
				signalName = "SIGTERM"
			}
			if mqttStatus != nil {
				tracker.SetMQTTConnected(mqttStatus.IsConnected())
			}
			snap := tracker.Snapshot()
			event := mqtt.SystemEvent{
				Timestamp:  now(),
				Event:      "SHUTDOWN",
				Reason:     signalName,
				Retained:   true,
				RawPayload: status.FormatStatusEvent(snap, "SHUTDOWN", signalName),
			}
			if err := publisher.PublishSystem(event); err != nil {
				log.Error().Err(err).Msg("failed to publish shutdown event")
			}
			return nil

		case t := <-tick:

			if lines != nil {
				levels, err := lines.ReadEncoder()
				if err != nil {
					if !readFailing {
						log.Error().Err(err).Msg("encoder read error")
						readFailing = true
					}
					tracker.InvalidateEncoder()
				} else {
					if readFailing {
						log.Info().Msg("encoder reads recovered")
						readFailing = false
					}
					tracker.UpdateEncoder(levels)
				}
			}
			if mqttStatus != nil {
				tracker.SetMQTTConnected(mqttStatus.IsConnected())
			}

			if heartbeat > 0 && t.Sub(lastHeartbeat) >= heartbeat {
				lastHeartbeat = t
				snap := tracker.Snapshot()
				log.Info().Dur("uptime", snap.Uptime()).Bool("mqtt", snap.MQTTConnected).Msg("heartbeat")
				hbEvent := mqtt.SystemEvent{
					Timestamp:  t,
					Event:      "HEARTBEAT",
					RawPayload: status.FormatStatusEvent(snap, "HEARTBEAT", ""),
				}
				if err := publisher.PublishSystem(hbEvent); err != nil {
					log.Error().Err(err).Msg("heartbeat publish error")
				}
			}
		}
	}
}

// logShares reports pins bound to more than one role. They are kept as
// declared; conflicts are left to the schematic.
func logShares(m pins.Map) {
	for _, s := range m.Shares() {
		symbols := make([]string, len(s.Roles))
		for i, r := range s.Roles {
			symbols[i] = r.Symbol()
		}
		ev := log.Info()
		if s.Kind == pins.ShareConflict {
			ev = log.Warn()
		}
		ev.Stringer("pin", s.Pin).Str("kind", string(s.Kind)).Strs("roles", symbols).Msg("pin bound to several roles")
	}
}

func printMap(w io.Writer, m pins.Map, format string) error {
	if format == config.FormatJSON {
		_, err := fmt.Fprintf(w, "%s\n", status.FormatPinMapIndent(m))
		return err
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "# ENCODER_DIRECTION=%d (%s)\n", m.Direction.Flag(), m.Direction)
	fmt.Fprintln(tw, "SYMBOL\tROLE\tPIN\tDIGITAL")
	for _, a := range m.Assignments() {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%d\n", a.Role.Symbol(), a.Role.Description(), a.Pin, a.Pin.Number())
	}
	for _, s := range m.Shares() {
		fmt.Fprintf(tw, "# pin %s %s:", s.Pin, s.Kind)
		for _, r := range s.Roles {
			fmt.Fprintf(tw, " %s", r.Symbol())
		}
		fmt.Fprintln(tw)
	}
	return tw.Flush()
}

// nopPublisher stands in when no broker is configured.
type nopPublisher struct{}

func (nopPublisher) PublishPinMap(pins.Map, time.Time) error { return nil }
func (nopPublisher) PublishSystem(mqtt.SystemEvent) error    { return nil }
func (nopPublisher) Close() error                            { return nil }

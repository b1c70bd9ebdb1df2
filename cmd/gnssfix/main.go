package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"gnssfix/internal/config"
	"gnssfix/internal/gps"
	"gnssfix/internal/pps"
	"gnssfix/internal/publish"
	"gnssfix/internal/udp"
	"gnssfix/internal/web"
)

func main() {
	var configPath string
	flag.StringVar(&configPath, "config", "./gnssfix.yaml", "Path to YAML config")
	flag.Parse()

	cfg, err := config.Load(configPath)
	if err != nil {
		log.Fatalf("config load failed: %v", err)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	log.Printf("gnssfix starting")

	gpsSvc := gps.New(gps.Config{
		Enable: cfg.GPS.Enable,
		Device: cfg.GPS.Device,
		Baud:   cfg.GPS.Baud,
	})
	if err := gpsSvc.Start(ctx); err != nil {
		// Best effort: keep serving status so the failure is visible.
		log.Printf("gps start failed: %v", err)
	}
	defer gpsSvc.Close()

	ppsSvc := pps.New(pps.Config{
		Enable: cfg.PPS.Enable,
		Chip:   cfg.PPS.Chip,
		Line:   cfg.PPS.Line,
	})
	if err := ppsSvc.Start(); err != nil {
		log.Printf("pps start failed: %v", err)
	}
	defer ppsSvc.Close()

	if cfg.Publish.UDP.Enable {
		broadcaster, err := udp.NewBroadcaster(cfg.Publish.UDP.Dest)
		if err != nil {
			log.Fatalf("udp broadcaster init failed: %v", err)
		}
		defer broadcaster.Close()
		log.Printf("udp publish dest=%s interval=%s", cfg.Publish.UDP.Dest, cfg.Publish.UDP.Interval)

		go func() {
			err := broadcaster.Run(ctx, cfg.Publish.UDP.Interval, func() []byte {
				b, err := json.Marshal(gpsSvc.Status().Fix)
				if err != nil {
					return nil
				}
				return b
			})
			if err != nil && ctx.Err() == nil {
				log.Printf("udp broadcaster stopped: %v", err)
				cancel()
			}
		}()
	}

	if cfg.Publish.MQTT.Enable {
		pub, err := publish.NewMQTT(publish.MQTTConfig{
			Broker:    cfg.Publish.MQTT.Broker,
			Topic:     cfg.Publish.MQTT.Topic,
			ClientID:  cfg.Publish.MQTT.ClientID,
			MaxRateHz: cfg.Publish.MQTT.MaxRateHz,
		})
		if err != nil {
			log.Fatalf("mqtt init failed: %v", err)
		}
		defer pub.Close()
		log.Printf("mqtt publish broker=%s topic=%s", cfg.Publish.MQTT.Broker, cfg.Publish.MQTT.Topic)

		go func() {
			// Poll faster than the publish cap; the publisher's limiter
			// decides what actually goes out.
			ticker := time.NewTicker(100 * time.Millisecond)
			defer ticker.Stop()
			for {
				select {
				case <-ctx.Done():
					return
				case <-ticker.C:
					if err := pub.Publish(gpsSvc.Status().Fix); err != nil {
						log.Printf("mqtt publish failed: %v", err)
					}
				}
			}
		}()
	}

	srv := &http.Server{Addr: cfg.Web.Listen, Handler: web.Handler(gpsSvc, ppsSvc)}
	go func() {
		log.Printf("web listening on %s", cfg.Web.Listen)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Printf("web server stopped: %v", err)
			cancel()
		}
	}()

	<-ctx.Done()
	log.Printf("gnssfix stopping")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer shutdownCancel()
	_ = srv.Shutdown(shutdownCtx)
}

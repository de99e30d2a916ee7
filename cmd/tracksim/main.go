// Command tracksim fetches a driving route and replays it the way the
// shipment tracker animates a booking.
//
//	tracksim -from 0.3476,32.5825 -to 0.4244,33.2041
package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"

	"go.uber.org/zap"

	"courier/internal/app"
	"courier/internal/config"
	"courier/internal/tracking"
)

func main() {
	from := flag.String("from", "", "origin as lat,lng")
	to := flag.String("to", "", "destination as lat,lng")
	stride := flag.Int("stride", 0, "points advanced per tick (default from TRACKING_STRIDE)")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	logger, err := app.NewLogger(cfg.Server)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to build logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	origin, err := parseCoordinate(*from)
	if err != nil {
		logger.Fatal("invalid -from", zap.Error(err))
	}
	destination, err := parseCoordinate(*to)
	if err != nil {
		logger.Fatal("invalid -to", zap.Error(err))
	}
	if *stride <= 0 {
		*stride = cfg.Tracking.Stride
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	routes := tracking.NewGeoapifyClient(cfg.Routing.GeoapifyKey,
		tracking.WithBaseURL(cfg.Routing.GeoapifyBaseURL),
		tracking.WithHTTPClient(&http.Client{Timeout: cfg.Routing.RequestTimeout}),
	)

	if err := run(ctx, routes, tracking.NewSimulator(*stride, cfg.Tracking.Interval), origin, destination, logger); err != nil {
		logger.Fatal("tracking failed", zap.Error(err))
	}
}

func run(ctx context.Context, routes tracking.RouteProvider, sim *tracking.Simulator, origin, destination tracking.Coordinate, logger *zap.Logger) error {
	route, err := routes.Route(ctx, origin, destination)
	if err != nil {
		return fmt.Errorf("fetch route: %w", err)
	}
	logger.Info("route fetched", zap.Int("points", len(route)))

	err = sim.Start(ctx, route, func(t tracking.Tick) {
		logger.Info("tick",
			zap.Int("n", t.N),
			zap.Int("index", t.Index),
			zap.Float64("lat", t.Position.Lat),
			zap.Float64("lng", t.Position.Lng),
			zap.Bool("done", t.Done),
		)
	})
	if err != nil {
		return err
	}

	<-sim.Done()
	if ctx.Err() != nil {
		logger.Info("tracking stopped")
	}
	return nil
}

func parseCoordinate(s string) (tracking.Coordinate, error) {
	lat, lng, ok := strings.Cut(s, ",")
	if !ok {
		return tracking.Coordinate{}, fmt.Errorf("want lat,lng, got %q", s)
	}
	var c tracking.Coordinate
	var err error
	if c.Lat, err = strconv.ParseFloat(strings.TrimSpace(lat), 64); err != nil {
		return tracking.Coordinate{}, fmt.Errorf("latitude: %w", err)
	}
	if c.Lng, err = strconv.ParseFloat(strings.TrimSpace(lng), 64); err != nil {
		return tracking.Coordinate{}, fmt.Errorf("longitude: %w", err)
	}
	return c, c.Validate()
}

// Command geocode performs a single lookup against the live Baidu API, for
// manual verification of credentials and connectivity.
//
// Usage:
//
//	BAIDU_AK=... go run ./cmd/geocode "上海市虹桥路3号"
//	BAIDU_AK=... go run ./cmd/geocode -reverse "39.983424,116.322987"
//	BAIDU_V1_KEY=... go run ./cmd/geocode -version v1 -city 上海 "虹桥路3号"
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/AdamsLee/baidu-geocode/internal/adapter/baidu"
	"github.com/AdamsLee/baidu-geocode/internal/domain"
)

func main() {
	version := flag.String("version", "v2", "API version to use: v1 or v2")
	reverse := flag.Bool("reverse", false, "treat the argument as a \"lat,lng\" pair and reverse geocode it")
	city := flag.String("city", "", "restrict forward geocoding to a city")
	coordType := flag.String("coordtype", "", "input coordinate system for v2 reverse lookups (default bd09ll)")
	scheme := flag.String("scheme", "http", "API URL scheme: http or https")
	timeout := flag.Duration("timeout", 5*time.Second, "request timeout")
	verbose := flag.Bool("v", false, "log the request URL")
	flag.Parse()

	if flag.NArg() != 1 {
		flag.Usage()
		os.Exit(1)
	}

	if err := run(*version, flag.Arg(0), *reverse, *city, *coordType, *scheme, *timeout, *verbose); err != nil {
		fmt.Fprintf(os.Stderr, "geocode: %v\n", err)
		os.Exit(1)
	}
}

func run(version, query string, reverse bool, city, coordType, scheme string, timeout time.Duration, verbose bool) error {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	opts := baidu.Options{Scheme: scheme, Timeout: timeout, Logger: logger}

	var g domain.Geocoder
	switch version {
	case "v1":
		key := os.Getenv("BAIDU_V1_KEY")
		if key == "" {
			return fmt.Errorf("BAIDU_V1_KEY must be set for -version v1")
		}
		v1, err := baidu.NewV1(key, opts)
		if err != nil {
			return err
		}
		g = v1
	case "v2":
		ak := os.Getenv("BAIDU_AK")
		if ak == "" {
			return fmt.Errorf("BAIDU_AK must be set for -version v2")
		}
		v2, err := baidu.NewV2(ak, opts)
		if err != nil {
			return err
		}
		g = v2
	default:
		return fmt.Errorf("unknown version %q, want v1 or v2", version)
	}

	ctx := context.Background()

	var loc *domain.Location
	var err error
	if reverse {
		loc, err = g.Reverse(ctx, query, &domain.ReverseOptions{CoordType: coordType})
	} else {
		loc, err = g.Geocode(ctx, query, &domain.GeocodeOptions{City: city})
	}
	if err != nil {
		return err
	}
	if loc == nil {
		fmt.Println("no results")
		return nil
	}

	fmt.Println(loc.Label)
	if loc.Point != nil {
		fmt.Printf("%.6f, %.6f\n", loc.Point.Lat, loc.Point.Lng)
	}
	return nil
}

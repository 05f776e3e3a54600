/*
 * MIT License
 *
 * Copyright (c) 2020 Nicolas JUHEL
 *
 * Permission is hereby granted, free of charge, to any person obtaining a copy
 * of this software and associated documentation files (the "Software"), to deal
 * in the Software without restriction, including without limitation the rights
 * to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
 * copies of the Software, and to permit persons to whom the Software is
 * furnished to do so, subject to the following conditions:
 *
 * The above copyright notice and this permission notice shall be included in all
 * copies or substantial portions of the Software.
 *
 * THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
 * IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
 * FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
 * AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
 * LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
 * OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
 * SOFTWARE.
 *
 *
 */

// Command connmuxd hosts the Manager behind the RemoteConnection gRPC
// service: every connection it knows about is reachable by any client
// holding the listening address, with profiles resolved from an optional
// on-disk store.
package main

import (
	"context"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/viper"
	"google.golang.org/grpc"

	liblog "github.com/sabouaram/connmux/logger"
	loglvl "github.com/sabouaram/connmux/logger/level"
	"github.com/sabouaram/connmux/manager"
	"github.com/sabouaram/connmux/profile"
	"github.com/sabouaram/connmux/rpc"
	_ "github.com/sabouaram/connmux/rpc/codec"
)

func main() {
	cfg := loadConfig()
	log := liblog.New(context.Background())

	var profiles *profile.Store
	if cfg.profilePath != "" {
		p, err := profile.Load(cfg.profilePath)
		if err != nil {
			log.Entry(loglvl.ErrorLevel, "profile store load failed").FieldAdd("path", cfg.profilePath).ErrorAdd(true, err).Log()
			os.Exit(1)
		}
		profiles = p
	}

	reg := prometheus.NewRegistry()
	mgr := manager.New(manager.WithLogger(log), manager.WithMetrics(manager.NewMetrics(reg)))
	defer mgr.Shutdown(context.Background())

	lis, lerr := net.Listen("tcp", cfg.listen)
	if lerr != nil {
		log.Entry(loglvl.ErrorLevel, "listen failed").FieldAdd("addr", cfg.listen).Log()
		os.Exit(1)
	}

	srv := grpc.NewServer()
	rpc.RegisterRemoteConnectionServer(srv, rpc.NewServer(mgr, resolverOrNil(profiles)))

	if cfg.metricsListen != "" {
		go serveMetrics(cfg.metricsListen, reg, log)
	}

	go waitForShutdown(srv, log)

	log.Entry(loglvl.InfoLevel, "serving").FieldAdd("addr", cfg.listen).Log()
	if err := srv.Serve(lis); err != nil {
		log.Entry(loglvl.ErrorLevel, "serve stopped").ErrorAdd(true, err).Log()
		os.Exit(1)
	}
}

// resolverOrNil adapts a possibly-nil *profile.Store to rpc.ProfileResolver,
// since a typed nil pointer assigned to a non-nil interface value would
// otherwise defeat rpc.Server's own nil check.
func resolverOrNil(p *profile.Store) rpc.ProfileResolver {
	if p == nil {
		return nil
	}
	return p
}

func serveMetrics(addr string, reg *prometheus.Registry, log liblog.Logger) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
	log.Entry(loglvl.InfoLevel, "serving metrics").FieldAdd("addr", addr).Log()
	if err := http.ListenAndServe(addr, mux); err != nil {
		log.Entry(loglvl.ErrorLevel, "metrics server stopped").Log()
	}
}

func waitForShutdown(srv *grpc.Server, log liblog.Logger) {
	sig := make(chan os.Signal, 1)
	signal.Notify(sig, os.Interrupt, syscall.SIGTERM)
	<-sig
	log.Entry(loglvl.InfoLevel, "shutting down").Log()
	srv.GracefulStop()
}

type config struct {
	listen        string
	metricsListen string
	profilePath   string
}

// loadConfig reads CONNMUXD_LISTEN, CONNMUXD_METRICS_LISTEN and
// CONNMUXD_PROFILES through viper's environment binding, the same
// convention the rest of this module uses for process configuration.
func loadConfig() config {
	v := viper.New()
	v.SetEnvPrefix("connmuxd")
	v.AutomaticEnv()
	v.SetDefault("listen", ":9443")
	v.SetDefault("metrics_listen", "")
	v.SetDefault("profiles", "")

	return config{
		listen:        v.GetString("listen"),
		metricsListen: v.GetString("metrics_listen"),
		profilePath:   v.GetString("profiles"),
	}
}

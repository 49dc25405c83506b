// Copyright (c) 2022. Alvin Baena.
// SPDX-License-Identifier: MIT

package cli

import (
	"context"
	"crypto/tls"
	"crypto/x509"
	"encoding/pem"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/alvinbaena/crack-time/internal/api"
	"github.com/alvinbaena/crack-time/internal/config"
	"github.com/alvinbaena/crack-time/internal/simulate"
	"github.com/gin-gonic/gin"
	"github.com/likexian/selfca"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"golang.org/x/net/netutil"
)

var (
	serveCmd = &cobra.Command{
		Use:   "serve",
		Short: "Serve a development estimation service",
		Long: "Serve a development estimation service under /api. It speaks the same contract as the real service " +
			"and relies on zxcvbn pattern matching, so its numbers are only indicative.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return serveCommand(cmd)
		},
	}
)

func init() {
	serveCmd.Flags().BoolVar(&selfTLS, "self-tls", false,
		"If the server should use a self-signed certificate when starting. The certificate is renewed on each server restart")
	serveCmd.Flags().StringVar(&tlsCert, "tls-cert", "", "Path to the PEM encoded TLS certificate to be used by the server")
	serveCmd.Flags().StringVar(&tlsKey, "tls-key", "", "Path to the PEM encoded TLS private key to be used by the server")
	serveCmd.Flags().Uint16VarP(&port, "port", "p", 8000, "Port to be used by the server (env CRACK_TIME_PORT)")
	serveCmd.Flags().StringVar(&catalogFile, "catalog", "", "YAML file with hash rates and hardware tiers replacing the built-in catalog")
	serveCmd.Flags().IntVarP(&workers, "workers", "w", 0, "Goroutines evaluating batches, 0 for one per CPU")
	serveCmd.Flags().IntVar(&maxConnections, "max-connections", 256, "Simultaneous client connections, 0 for no limit")

	rootCmd.AddCommand(serveCmd)
}

func serverSettings(cmd *cobra.Command) (config.ServerConfig, error) {
	cfg, err := config.LoadServer()
	if err != nil {
		return cfg, err
	}

	flags := cmd.Flags()
	if flags.Changed("self-tls") {
		cfg.SelfTLS = selfTLS
	}
	if flags.Changed("tls-cert") {
		cfg.TLSCert = tlsCert
	}
	if flags.Changed("tls-key") {
		cfg.TLSKey = tlsKey
	}
	if flags.Changed("port") {
		cfg.Port = port
	}
	if flags.Changed("catalog") {
		cfg.CatalogFile = catalogFile
	}
	if flags.Changed("workers") {
		cfg.Workers = workers
	}
	if flags.Changed("max-connections") {
		cfg.MaxConnections = maxConnections
	}

	return cfg, cfg.Validate()
}

func loadCatalog(file string) (*simulate.Catalog, error) {
	if file == "" {
		return simulate.DefaultCatalog()
	}

	f, err := os.Open(file)
	if err != nil {
		return nil, err
	}

	defer func(f *os.File) {
		if err := f.Close(); err != nil {
			log.Error().Err(err).Msg("error closing catalog file")
		}
	}(f)

	return simulate.LoadCatalog(f)
}

func serveCommand(cmd *cobra.Command) error {
	cfg, err := serverSettings(cmd)
	if err != nil {
		return err
	}

	if !verbose {
		gin.SetMode(gin.ReleaseMode)
	}

	catalog, err := loadCatalog(cfg.CatalogFile)
	if err != nil {
		return fmt.Errorf("error loading catalog: %w", err)
	}

	estimator, err := simulate.NewEstimator(catalog, simulate.WithWorkers(cfg.Workers))
	if err != nil {
		return fmt.Errorf("error initializing estimator: %w", err)
	}
	defer estimator.Close()

	srvAddr := fmt.Sprintf(":%d", cfg.Port)
	srv := &http.Server{
		Addr:              srvAddr,
		Handler:           api.NewRouter(estimator, cfg.Origins...),
		ReadHeaderTimeout: 10 * time.Second,
	}

	ln, err := listen(srvAddr, cfg.MaxConnections)
	if err != nil {
		return fmt.Errorf("error listening on %s: %w", srvAddr, err)
	}

	go func() {
		switch {
		case cfg.TLSCert != "" && cfg.TLSKey != "":
			log.Info().Msgf("starting TLS Server on address: %s", srvAddr)
			// service connections with tls certs
			if err := srv.ServeTLS(ln, cfg.TLSCert, cfg.TLSKey); err != nil && !errors.Is(err, http.ErrServerClosed) {
				log.Fatal().Err(err).Msg("error starting server")
			}
		case cfg.SelfTLS:
			log.Warn().Msgf("using auto self-signed certificate for TLS. This is not recommended for production. Please consider using your own certificates.")
			pair, err := selfSignedCertificate()
			if err != nil {
				log.Fatal().Err(err).Msg("error using auto self-signed certificate")
			}

			srv.TLSConfig = &tls.Config{
				Certificates: []tls.Certificate{pair},
			}

			log.Info().Msgf("starting TLS Server on address: %s", srvAddr)
			// service connections with tls config, no need to pass files
			if err = srv.ServeTLS(ln, "", ""); err != nil && !errors.Is(err, http.ErrServerClosed) {
				log.Fatal().Err(err).Msg("error starting server")
			}
		default:
			log.Warn().Msgf("starting plain HTTP Server on address: %s. Use --self-tls or --tls-cert and --tls-key outside of local development", srvAddr)
			if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
				log.Fatal().Err(err).Msg("error starting server")
			}
		}
	}()

	gracefulShutdown(srv)
	return nil
}

// listen opens the server socket. With maxConns above 0, connections past the limit wait in the
// accept queue until one closes.
func listen(addr string, maxConns int) (net.Listener, error) {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, err
	}

	if maxConns > 0 {
		log.Debug().Msgf("accepting at most %d connections", maxConns)
		return netutil.LimitListener(ln, maxConns), nil
	}
	return ln, nil
}

func selfSignedCertificate() (tls.Certificate, error) {
	caConfig := selfca.Certificate{
		IsCA:      true,
		KeySize:   2048,
		NotBefore: time.Now(),
		// 30 day self-signed cert.
		NotAfter: time.Now().Add(time.Duration(30*24) * time.Hour),
	}

	certificate, key, err := selfca.GenerateCertificate(caConfig)
	if err != nil {
		return tls.Certificate{}, fmt.Errorf("error generating auto self-signed certificate: %w", err)
	}

	return tls.X509KeyPair(
		pem.EncodeToMemory(&pem.Block{Type: "CERTIFICATE", Bytes: certificate}),
		pem.EncodeToMemory(&pem.Block{Type: "RSA PRIVATE KEY", Bytes: x509.MarshalPKCS1PrivateKey(key)}),
	)
}

func gracefulShutdown(srv *http.Server) {
	// Wait for interrupt signal to gracefully shut down the server with a timeout.
	quit := make(chan os.Signal, 1)
	// kill (no param) default send syscall.SIGTERM
	// kill -2 is syscall.SIGINT
	// kill -9 is syscall.SIGKILL but can't be caught, so don't need to add it
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Msg("shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Warn().Err(err).Msg("server Shutdown.")
	}
	log.Info().Msg("server exiting...")
}

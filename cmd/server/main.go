package main

import (
	"crypto/ed25519"
	"crypto/rand"
	"crypto/x509"
	"encoding/pem"
	"flag"
	"fmt"
	"net"
	"os"

	"go.uber.org/zap"

	"github.com/jrjonjonjimmyjimjim/landscape-scroll/internal/config"
	"github.com/jrjonjonjimmyjimjim/landscape-scroll/internal/logger"
	"github.com/jrjonjonjimmyjimjim/landscape-scroll/internal/server"
)

func main() {
	flags := config.RegisterFlags(flag.CommandLine)
	addr := flag.String("addr", "", "Listen address (overrides config and $PORT)")
	flag.Parse()

	cfg, err := config.Load(flags)
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}
	if port := os.Getenv("PORT"); port != "" {
		cfg.Server.Addr = ":" + port
	}
	if *addr != "" {
		cfg.Server.Addr = *addr
	}

	if err := logger.Init(cfg.Logging.Level, cfg.Logging.LogFile); err != nil {
		fmt.Fprintf(os.Stderr, "logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	// Generate host key if it doesn't exist
	if cfg.Server.HostKey != "" {
		if err := ensureHostKey(cfg.Server.HostKey); err != nil {
			logger.Fatal("host key error", zap.Error(err))
		}
	}

	catalog, err := cfg.Catalog(cfg.Terminal.TileSize)
	if err != nil {
		logger.Fatal("failed to load sprites", zap.String("dir", cfg.Sprites.Dir), zap.Error(err))
	}
	logger.Info("sprites loaded", zap.Int("count", len(catalog.IDs())), zap.Int("tile", cfg.Terminal.TileSize))

	sshServer, err := server.NewSSHServer(cfg, catalog)
	if err != nil {
		logger.Fatal("SSH server setup failed", zap.Error(err))
	}
	logger.Sugar.Infof("connect with: ssh -t -p %s localhost", portOf(cfg.Server.Addr))
	if err := sshServer.Start(); err != nil {
		logger.Fatal("SSH server error", zap.Error(err))
	}
}

func portOf(addr string) string {
	if _, port, err := net.SplitHostPort(addr); err == nil {
		return port
	}
	return addr
}

func ensureHostKey(path string) error {
	if _, err := os.Stat(path); err == nil {
		return nil // key already exists
	}

	logger.Info("generating new host key", zap.String("path", path))
	_, priv, err := ed25519.GenerateKey(rand.Reader)
	if err != nil {
		return err
	}

	keyBytes, err := x509.MarshalPKCS8PrivateKey(priv)
	if err != nil {
		return err
	}

	pemBlock := &pem.Block{
		Type:  "PRIVATE KEY",
		Bytes: keyBytes,
	}

	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0600)
	if err != nil {
		return err
	}
	defer f.Close()

	return pem.Encode(f, pemBlock)
}

// internal/connectivity/session.go
package connectivity

import (
	"context"
	"crypto/tls"
	"crypto/x509"
	"errors"
	"fmt"
	"os"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// SessionConfig is everything the paho session needs per connect.
type SessionConfig struct {
	Broker         string // ssl://host:port or tcp://host:port
	ClientPrefix   string
	Username       string
	Password       string
	TLS            *tls.Config
	QoS            byte
	KeepAlive      time.Duration
	ConnectTimeout time.Duration

	// Will returns the last will registered at connect time.
	Will func() (topic string, payload []byte)
}

// pahoSession adapts a paho client to Session.
// Auto-reconnect is off: the Manager decides when to reconnect
// so that births always follow a connect.
type pahoSession struct {
	cfg    SessionConfig
	client mqtt.Client
	log    *logrus.Entry
}

func newPahoSession(cfg SessionConfig, log *logrus.Entry) *pahoSession {
	return &pahoSession{cfg: cfg, log: log}
}

func (s *pahoSession) Connect(ctx context.Context) error {
	s.Disconnect()

	id := clientID(s.cfg.ClientPrefix)
	opts := mqtt.NewClientOptions().
		AddBroker(s.cfg.Broker).
		SetClientID(id).
		SetCleanSession(true).
		SetAutoReconnect(false).
		SetConnectRetry(false).
		SetOrderMatters(false).
		SetKeepAlive(s.cfg.KeepAlive).
		SetConnectTimeout(s.cfg.ConnectTimeout)

	if s.cfg.Username != "" {
		opts.SetUsername(s.cfg.Username)
		opts.SetPassword(s.cfg.Password)
	}
	if s.cfg.TLS != nil {
		opts.SetTLSConfig(s.cfg.TLS)
	}
	if s.cfg.Will != nil {
		topic, payload := s.cfg.Will()
		opts.SetBinaryWill(topic, payload, s.cfg.QoS, false)
	}
	opts.SetConnectionLostHandler(func(_ mqtt.Client, err error) {
		s.log.WithError(err).Warn("broker connection lost")
	})

	c := mqtt.NewClient(opts)
	if err := wait(ctx, c.Connect(), s.cfg.ConnectTimeout); err != nil {
		c.Disconnect(0)
		return fmt.Errorf("connectivity: connect %s as %s: %w", s.cfg.Broker, id, err)
	}

	s.client = c
	return nil
}

func (s *pahoSession) Connected() bool {
	return s.client != nil && s.client.IsConnectionOpen()
}

func (s *pahoSession) Publish(topic string, payload []byte) error {
	if s.client == nil {
		return ErrNotConnected
	}
	return wait(context.Background(), s.client.Publish(topic, s.cfg.QoS, false, payload), s.cfg.ConnectTimeout)
}

func (s *pahoSession) Subscribe(topic string, handler func(topic string, payload []byte)) error {
	if s.client == nil {
		return ErrNotConnected
	}
	tok := s.client.Subscribe(topic, s.cfg.QoS, func(_ mqtt.Client, msg mqtt.Message) {
		handler(msg.Topic(), msg.Payload())
	})
	return wait(context.Background(), tok, s.cfg.ConnectTimeout)
}

func (s *pahoSession) Disconnect() {
	if s.client == nil {
		return
	}
	if s.client.IsConnectionOpen() {
		s.client.Disconnect(250)
	}
	s.client = nil
}

func wait(ctx context.Context, tok mqtt.Token, timeout time.Duration) error {
	t := time.NewTimer(timeout)
	defer t.Stop()

	select {
	case <-tok.Done():
		return tok.Error()
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return errTimeout
	}
}

// clientID is unique per connect attempt so a half-open previous
// session cannot collide with the new one.
func clientID(prefix string) string {
	return prefix + "_" + uuid.NewString()[:8]
}

// ------------------------------------------------------------
// TLS
// ------------------------------------------------------------

// tlsConfig builds a client TLS config from a CA bundle and an optional
// client key pair. An empty caFile means plain TCP (nil config).
func tlsConfig(caFile, certFile, keyFile, serverName string) (*tls.Config, error) {
	if caFile == "" {
		return nil, nil
	}

	pem, err := os.ReadFile(caFile)
	if err != nil {
		return nil, fmt.Errorf("connectivity: read ca: %w", err)
	}
	pool := x509.NewCertPool()
	if !pool.AppendCertsFromPEM(pem) {
		return nil, errors.New("connectivity: ca file contains no certificates")
	}

	cfg := &tls.Config{
		RootCAs:    pool,
		ServerName: serverName,
		MinVersion: tls.VersionTLS12,
	}

	if certFile != "" {
		pair, err := tls.LoadX509KeyPair(certFile, keyFile)
		if err != nil {
			return nil, fmt.Errorf("connectivity: load client certificate: %w", err)
		}
		cfg.Certificates = []tls.Certificate{pair}
	}

	return cfg, nil
}

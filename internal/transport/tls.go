package transport

import (
	"crypto/rand"
	"crypto/rsa"
	"crypto/tls"
	"crypto/x509"
	"encoding/pem"
	"errors"
	"math/big"
	"net"
	"os"
	"strings"
	"time"
)

// TLSConfigFor strengthens a possibly-nil tls.Config to the module's secure
// baseline and derives a ServerName from addr when one isn't already set.
func TLSConfigFor(cfg *tls.Config, addr string, isClient bool) *tls.Config {
	if cfg == nil {
		cfg = &tls.Config{MinVersion: tls.VersionTLS13}
	} else if cfg.MinVersion == 0 || cfg.MinVersion < tls.VersionTLS13 {
		cfg = cfg.Clone()
		cfg.MinVersion = tls.VersionTLS13
	}
	if isClient && cfg.ServerName == "" && addr != "" {
		host := addr
		if idx := strings.LastIndexByte(addr, ':'); idx > 0 {
			host = addr[:idx]
		}
		host = strings.TrimPrefix(host, "[")
		host = strings.TrimSuffix(host, "]")
		if host != "" {
			cfg = cfg.Clone()
			cfg.ServerName = host
		}
	}
	return cfg
}

// GenerateSelfSignedTLS creates an in-memory self-signed TLS config for the
// given hostnames, for development and test use.
func GenerateSelfSignedTLS(hosts []string, validFor time.Duration) (*tls.Config, error) {
	if validFor <= 0 {
		validFor = 24 * time.Hour
	}
	key, err := rsa.GenerateKey(rand.Reader, 2048)
	if err != nil {
		return nil, err
	}
	tmpl := &x509.Certificate{
		SerialNumber: big.NewInt(time.Now().UnixNano()),
		NotBefore:    time.Now().Add(-time.Hour),
		NotAfter:     time.Now().Add(validFor),
		KeyUsage:     x509.KeyUsageDigitalSignature | x509.KeyUsageKeyEncipherment,
		ExtKeyUsage:  []x509.ExtKeyUsage{x509.ExtKeyUsageServerAuth, x509.ExtKeyUsageClientAuth},
	}
	for _, h := range hosts {
		if ip := net.ParseIP(h); ip != nil {
			tmpl.IPAddresses = append(tmpl.IPAddresses, ip)
		} else {
			tmpl.DNSNames = append(tmpl.DNSNames, h)
		}
	}
	der, err := x509.CreateCertificate(rand.Reader, tmpl, tmpl, &key.PublicKey, key)
	if err != nil {
		return nil, err
	}
	certPEM := pem.EncodeToMemory(&pem.Block{Type: "CERTIFICATE", Bytes: der})
	keyPEM := pem.EncodeToMemory(&pem.Block{Type: "RSA PRIVATE KEY", Bytes: x509.MarshalPKCS1PrivateKey(key)})
	pair, err := tls.X509KeyPair(certPEM, keyPEM)
	if err != nil {
		return nil, err
	}
	return &tls.Config{Certificates: []tls.Certificate{pair}, MinVersion: tls.VersionTLS13}, nil
}

// LoadTLSConfig loads a server-side TLS config from certificate and key file paths.
func LoadTLSConfig(certFile, keyFile string) (*tls.Config, error) {
	cert, err := tls.LoadX509KeyPair(certFile, keyFile)
	if err != nil {
		return nil, err
	}
	return &tls.Config{Certificates: []tls.Certificate{cert}, MinVersion: tls.VersionTLS13}, nil
}

// TLSTransport wraps a raw, already-non-blocking socket fd in a crypto/tls
// connection. Because crypto/tls expects a net.Conn rather than a raw fd,
// the fd is bridged through os.NewFile/net.FileConn; TryHandshake/Read/Write
// immediately arm a deadline of the current time before each underlying call so a
// would-block condition surfaces as os.ErrDeadlineExceeded instead of
// parking the calling goroutine, preserving the core's non-blocking
// contract.
type TLSTransport struct {
	raw    net.Conn
	conn   *tls.Conn
	server bool
}

// NewTLSTransport takes ownership of fd (via os.NewFile) and returns a
// Transport that performs the handshake in the given role.
func NewTLSTransport(fd int, cfg *tls.Config, isServer bool) (*TLSTransport, error) {
	f := os.NewFile(uintptr(fd), "tsnet-tls-conn")
	raw, err := net.FileConn(f)
	// FileConn dup()s fd; the original stays owned by the caller's
	// Connection and is closed through the normal teardown path.
	_ = f.Close()
	if err != nil {
		return nil, err
	}
	var tc *tls.Conn
	if isServer {
		tc = tls.Server(raw, cfg)
	} else {
		tc = tls.Client(raw, cfg)
	}
	return &TLSTransport{raw: raw, conn: tc, server: isServer}, nil
}

func (t *TLSTransport) armNonBlocking() {
	// A deadline already in the past makes the next Read/Write/Handshake
	// call return immediately with os.ErrDeadlineExceeded instead of
	// blocking, emulating EAGAIN over a net.Conn-shaped transport.
	_ = t.raw.SetDeadline(time.Now())
}

func (t *TLSTransport) TryHandshake() (bool, error) {
	t.armNonBlocking()
	err := t.conn.Handshake()
	if err == nil {
		return true, nil
	}
	if errors.Is(err, os.ErrDeadlineExceeded) {
		return false, nil
	}
	return false, err
}

func (t *TLSTransport) Read(p []byte) (int, error) {
	t.armNonBlocking()
	n, err := t.conn.Read(p)
	if err != nil && errors.Is(err, os.ErrDeadlineExceeded) {
		return 0, errWouldBlock
	}
	return n, err
}

func (t *TLSTransport) Write(p []byte) (int, error) {
	t.armNonBlocking()
	n, err := t.conn.Write(p)
	if err != nil && errors.Is(err, os.ErrDeadlineExceeded) {
		return n, errWouldBlock
	}
	return n, err
}

func (t *TLSTransport) Close() error {
	return t.conn.Close()
}

// errWouldBlock is the sentinel the poll loop's soft-error classifier
// recognizes as "retry on next readiness" for transport-wrapped I/O.
var errWouldBlock = errors.New("transport: would block")

// IsWouldBlock reports whether err is the transport-level soft-error sentinel.
func IsWouldBlock(err error) bool { return errors.Is(err, errWouldBlock) }

package execution

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/crypto/ssh"
	"golang.org/x/crypto/ssh/knownhosts"
)

// SSH runs commands on a fixed remote host over an authenticated channel.
// Every call dials its own connection and releases it before returning;
// there is no pooling and no shared channel state between requests.
type SSH struct {
	Host                        string
	Port                        string
	User                        string
	KeyPath                     string
	Passphrase                  []byte
	KnownHostsPath              string
	InsecureSkipHostKeyChecking bool
	ConnectTimeout              time.Duration
	MaxOutput                   int
}

func (SSH) Name() string {
	return "ssh"
}

func (r SSH) Execute(ctx context.Context, command string, timeout time.Duration) Outcome {
	client, err := r.dial()
	if err != nil {
		log.Error().Str("host", r.Host).Err(err).Msg("ssh channel establishment failed")
		return errorOutcome(StatusChannelError, fmt.Errorf("ssh connect: %w", err))
	}
	defer client.Close()

	session, err := client.NewSession()
	if err != nil {
		log.Error().Str("host", r.Host).Err(err).Msg("ssh session open failed")
		return errorOutcome(StatusChannelError, fmt.Errorf("ssh session: %w", err))
	}
	defer session.Close()

	var stdout bytes.Buffer
	var stderr bytes.Buffer
	session.Stdout = &stdout
	session.Stderr = &stderr

	runCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	done := make(chan error, 1)
	go func() {
		done <- session.Run(command)
	}()

	select {
	case <-runCtx.Done():
		// Abandon the in-flight call; partial output is discarded.
		session.Close()
		log.Error().Str("command", command).Str("host", r.Host).Dur("timeout", timeout).Msg("ssh command timed out")
		return timeoutOutcome(timeout)
	case err = <-done:
	}

	if err == nil {
		return outcomeForExit(0, stdout.String(), stderr.String(), r.MaxOutput)
	}

	var exitErr *ssh.ExitError
	if errors.As(err, &exitErr) {
		return outcomeForExit(exitErr.ExitStatus(), stdout.String(), stderr.String(), r.MaxOutput)
	}

	log.Error().Str("command", command).Str("host", r.Host).Err(err).Msg("ssh command failed without exit status")
	return errorOutcome(StatusExecutorError, err)
}

func (r SSH) dial() (*ssh.Client, error) {
	address, err := r.address()
	if err != nil {
		return nil, err
	}

	config, err := r.clientConfig()
	if err != nil {
		return nil, err
	}

	if r.ConnectTimeout <= 0 {
		return ssh.Dial("tcp", address, config)
	}

	conn, err := net.DialTimeout("tcp", address, r.ConnectTimeout)
	if err != nil {
		return nil, err
	}

	clientConn, chans, reqs, err := ssh.NewClientConn(conn, address, config)
	if err != nil {
		conn.Close()
		return nil, err
	}

	return ssh.NewClient(clientConn, chans, reqs), nil
}

func (r SSH) address() (string, error) {
	host := strings.TrimSpace(r.Host)
	if host == "" {
		return "", fmt.Errorf("ssh host is required")
	}

	if r.Port != "" {
		return net.JoinHostPort(host, r.Port), nil
	}

	if _, _, err := net.SplitHostPort(host); err == nil {
		return host, nil
	}

	return net.JoinHostPort(host, "22"), nil
}

func (r SSH) clientConfig() (*ssh.ClientConfig, error) {
	if r.User == "" {
		return nil, fmt.Errorf("ssh user is required")
	}

	signer, err := r.signer()
	if err != nil {
		return nil, err
	}

	var hostKeyCallback ssh.HostKeyCallback
	if r.InsecureSkipHostKeyChecking {
		hostKeyCallback = ssh.InsecureIgnoreHostKey()
	} else {
		callback, err := r.knownHostsCallback()
		if err != nil {
			return nil, err
		}
		hostKeyCallback = callback
	}

	return &ssh.ClientConfig{
		User:            r.User,
		Auth:            []ssh.AuthMethod{ssh.PublicKeys(signer)},
		HostKeyCallback: hostKeyCallback,
		Timeout:         r.ConnectTimeout,
	}, nil
}

func (r SSH) signer() (ssh.Signer, error) {
	if r.KeyPath == "" {
		return nil, fmt.Errorf("ssh key path is required")
	}

	privateKey, err := os.ReadFile(r.KeyPath)
	if err != nil {
		return nil, err
	}

	if len(r.Passphrase) > 0 {
		return ssh.ParsePrivateKeyWithPassphrase(privateKey, r.Passphrase)
	}

	return ssh.ParsePrivateKey(privateKey)
}

func (r SSH) knownHostsCallback() (ssh.HostKeyCallback, error) {
	path := strings.TrimSpace(r.KnownHostsPath)
	if path == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("known hosts path not set and home dir unavailable")
		}
		path = filepath.Join(home, ".ssh", "known_hosts")
	}

	return knownhosts.New(path)
}

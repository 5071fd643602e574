// Package remote walks directories on SSH hosts over the SFTP subsystem.
package remote

import (
	"context"
	"fmt"
	"io"
	"io/fs"
	"net"
	"os"
	pathpkg "path"
	"sort"
	"strings"
	"time"

	"github.com/pkg/sftp"
	"golang.org/x/crypto/ssh"
)

const defaultRemotePath = "."

// Config configures a remote SFTP connection.
type Config struct {
	Target    string
	Port      int
	BatchMode bool
	Timeout   time.Duration
}

// FS lists a remote host's directories. It satisfies search.FileSystem.
type FS struct {
	ctx    context.Context
	client sftpClient
	closer io.Closer
}

type sftpClient interface {
	ReadDir(string) ([]os.FileInfo, error)
	Stat(string) (os.FileInfo, error)
	RealPath(string) (string, error)
}

var dialContext = func(ctx context.Context, network, address string) (net.Conn, error) {
	var d net.Dialer
	return d.DialContext(ctx, network, address)
}

var sshNewClientConn = func(conn net.Conn, addr string, config *ssh.ClientConfig) (ssh.Conn, <-chan ssh.NewChannel, <-chan *ssh.Request, error) {
	return ssh.NewClientConn(conn, addr, config)
}

var dial = dialSFTP

// Connect opens an SFTP session to cfg.Target. Directory listings issued
// through the returned FS are bound to ctx. Close releases the session.
func Connect(ctx context.Context, cfg Config) (*FS, error) {
	client, closer, err := dial(ctx, cfg)
	if err != nil {
		return nil, err
	}
	return newFS(ctx, client, closer), nil
}

func newFS(ctx context.Context, client sftpClient, closer io.Closer) *FS {
	if ctx == nil {
		ctx = context.Background()
	}
	return &FS{ctx: ctx, client: client, closer: closer}
}

// ReadDir lists dir in lexical order without following symlinks.
func (f *FS) ReadDir(dir string) ([]fs.DirEntry, error) {
	if err := f.ctx.Err(); err != nil {
		return nil, err
	}
	infos, err := readRemoteDir(f.ctx, f.client, dir)
	if err != nil {
		return nil, err
	}

	entries := make([]fs.DirEntry, 0, len(infos))
	for _, info := range infos {
		name := info.Name()
		if name == "." || name == ".." {
			continue
		}
		entries = append(entries, fs.FileInfoToDirEntry(info))
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].Name() < entries[j].Name() })
	return entries, nil
}

// Stat follows symlinks.
func (f *FS) Stat(name string) (fs.FileInfo, error) {
	return f.client.Stat(name)
}

// Separator is always "/" on SFTP.
func (f *FS) Separator() string { return "/" }

// ResolveRoot turns a user-supplied remote path (empty means the login
// directory) into the absolute path the server reports for it.
func (f *FS) ResolveRoot(remotePath string) (string, error) {
	if strings.TrimSpace(remotePath) == "" {
		remotePath = defaultRemotePath
	}
	rootPath := cleanRemotePath(remotePath)
	resolved, err := f.client.RealPath(rootPath)
	if err != nil {
		return "", fmt.Errorf("cannot resolve remote path %q: %w", rootPath, err)
	}
	return cleanRemotePath(resolved), nil
}

// Close ends the SFTP session and its SSH connection.
func (f *FS) Close() error {
	if f == nil || f.closer == nil {
		return nil
	}
	return f.closer.Close()
}

func cleanRemotePath(p string) string {
	if p == "" {
		return defaultRemotePath
	}
	clean := pathpkg.Clean(strings.ReplaceAll(p, "\\", "/"))
	if clean == "" {
		return defaultRemotePath
	}
	return clean
}

func readRemoteDir(ctx context.Context, client sftpClient, dirPath string) ([]os.FileInfo, error) {
	if rc, ok := client.(interface {
		ReadDirContext(context.Context, string) ([]os.FileInfo, error)
	}); ok {
		return rc.ReadDirContext(ctx, dirPath)
	}
	return client.ReadDir(dirPath)
}

func dialSFTP(ctx context.Context, cfg Config) (sftpClient, io.Closer, error) {
	if cfg.Port < 1 || cfg.Port > 65535 {
		return nil, nil, fmt.Errorf("ssh port must be between 1 and 65535")
	}

	user, host, err := parseSSHTarget(cfg.Target)
	if err != nil {
		return nil, nil, err
	}

	hostCB, err := hostKeyCallback(host, cfg.Port, cfg.BatchMode)
	if err != nil {
		return nil, nil, err
	}

	auth, err := buildAuthMethods(user, host, cfg.BatchMode)
	if err != nil {
		return nil, nil, err
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	dialCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	sshConfig := &ssh.ClientConfig{
		User:            user,
		Auth:            auth,
		HostKeyCallback: hostCB,
		Timeout:         timeout,
	}

	addr := net.JoinHostPort(host, fmt.Sprintf("%d", cfg.Port))
	sshClient, err := connectSSH(dialCtx, addr, sshConfig)
	if err != nil {
		return nil, nil, fmt.Errorf("SSH connection failed: %w", err)
	}

	sftpClient, err := sftp.NewClient(sshClient)
	if err != nil {
		_ = sshClient.Close()
		return nil, nil, fmt.Errorf("cannot start SFTP subsystem: %w", err)
	}

	closer := &remoteCloser{ssh: sshClient, sftp: sftpClient}
	return sftpClient, closer, nil
}

func connectSSH(ctx context.Context, addr string, config *ssh.ClientConfig) (*ssh.Client, error) {
	conn, err := dialContext(ctx, "tcp", addr)
	if err != nil {
		return nil, err
	}

	// Cancellation must interrupt handshake and authentication.
	done := make(chan struct{})
	go func() {
		select {
		case <-ctx.Done():
			_ = conn.Close()
		case <-done:
		}
	}()

	c, chans, reqs, err := sshNewClientConn(conn, addr, config)
	close(done)
	if err != nil {
		_ = conn.Close()
		return nil, err
	}
	return ssh.NewClient(c, chans, reqs), nil
}

type remoteCloser struct {
	ssh  *ssh.Client
	sftp *sftp.Client
}

func (c *remoteCloser) Close() error {
	var retErr error
	if c.sftp != nil {
		if err := c.sftp.Close(); err != nil {
			retErr = err
		}
	}
	if c.ssh != nil {
		if err := c.ssh.Close(); err != nil && retErr == nil {
			retErr = err
		}
	}
	return retErr
}

package remote

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"net"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"golang.org/x/crypto/ssh"
	"golang.org/x/crypto/ssh/knownhosts"
	"golang.org/x/term"
)

// sshDir returns the directory holding known_hosts and default keys.
var sshDir = func() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("cannot determine home directory: %w", err)
	}
	return filepath.Join(home, ".ssh"), nil
}

// confirm asks the user a yes/no question on the terminal.
var confirm = promptYesNo

// knownHosts is the user's known_hosts file. Unknown hosts are trusted on
// first use and changed keys may be replaced, both only after the user
// agrees; batch mode refuses instead of asking.
type knownHosts struct {
	path  string
	batch bool
}

// openKnownHosts locates known_hosts, creating it empty when missing.
func openKnownHosts(batch bool) (*knownHosts, error) {
	dir, err := sshDir()
	if err != nil {
		return nil, fmt.Errorf("cannot locate known_hosts: %w", err)
	}
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, fmt.Errorf("cannot create ~/.ssh directory: %w", err)
	}

	path := filepath.Join(dir, "known_hosts")
	_, err = os.Stat(path)
	switch {
	case errors.Is(err, os.ErrNotExist):
		if err := os.WriteFile(path, nil, 0o600); err != nil {
			return nil, fmt.Errorf("cannot create known_hosts: %w", err)
		}
	case err != nil:
		return nil, fmt.Errorf("cannot access known_hosts: %w", err)
	}
	return &knownHosts{path: path, batch: batch}, nil
}

// callback returns a host key check for host:port against the current
// file contents.
func (k *knownHosts) callback(host string, port int) (ssh.HostKeyCallback, error) {
	verify, err := knownhosts.New(k.path)
	if err != nil {
		return nil, fmt.Errorf("cannot load known_hosts: %w", err)
	}

	return func(hostname string, remote net.Addr, key ssh.PublicKey) error {
		err := verify(hostname, remote, key)
		if err == nil {
			return nil
		}
		var keyErr *knownhosts.KeyError
		if !errors.As(err, &keyErr) {
			return fmt.Errorf("host key verification failed: %w", err)
		}
		if len(keyErr.Want) == 0 {
			return k.trustNew(host, port, key)
		}
		return k.replaceChanged(host, port, key, keyErr.Want)
	}, nil
}

func (k *knownHosts) trustNew(host string, port int, key ssh.PublicKey) error {
	address := knownHostAddress(host, port)
	fingerprint := ssh.FingerprintSHA256(key)
	if k.batch {
		return fmt.Errorf("unknown host key for %s (%s); run ssh once to trust it or drop -ssh-batch", address, fingerprint)
	}

	ok, err := confirm(fmt.Sprintf(
		"The authenticity of host '%s' can't be established.\n%s key fingerprint is %s.\nTrust this host and continue connecting (yes/no)? ",
		address, key.Type(), fingerprint))
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("host key for %s was not trusted", address)
	}
	return k.add(host, port, key)
}

func (k *knownHosts) replaceChanged(host string, port int, key ssh.PublicKey, want []knownhosts.KnownKey) error {
	address := knownHostAddress(host, port)
	stored := make([]string, len(want))
	for i, w := range want {
		stored[i] = ssh.FingerprintSHA256(w.Key)
	}
	expected := strings.Join(stored, ", ")
	presented := ssh.FingerprintSHA256(key)

	if k.batch {
		return fmt.Errorf("host key mismatch for %s: expected %s, presented %s", address, expected, presented)
	}

	ok, err := confirm(fmt.Sprintf(
		"WARNING: HOST KEY CHANGED for '%s'.\nExpected: %s\nPresented: %s\nReplace stored key and continue (yes/no)? ",
		address, expected, presented))
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("host key mismatch for %s", address)
	}
	return k.replace(host, port, key)
}

// add appends a key line for host:port.
func (k *knownHosts) add(host string, port int, key ssh.PublicKey) error {
	f, err := os.OpenFile(k.path, os.O_APPEND|os.O_WRONLY, 0o600)
	if err != nil {
		return fmt.Errorf("cannot update known_hosts: %w", err)
	}
	defer f.Close()

	if _, err := fmt.Fprintln(f, knownhosts.Line([]string{knownHostAddress(host, port)}, key)); err != nil {
		return fmt.Errorf("cannot write known_hosts entry: %w", err)
	}
	return nil
}

// replace drops every entry for host:port and appends key.
func (k *knownHosts) replace(host string, port int, key ssh.PublicKey) error {
	data, err := os.ReadFile(k.path)
	if err != nil {
		return fmt.Errorf("cannot read known_hosts: %w", err)
	}

	var b strings.Builder
	b.Write(removeKnownHostEntries(data, host, port))
	if b.Len() > 0 && !strings.HasSuffix(b.String(), "\n") {
		b.WriteByte('\n')
	}
	b.WriteString(knownhosts.Line([]string{knownHostAddress(host, port)}, key))
	b.WriteByte('\n')

	if err := os.WriteFile(k.path, []byte(b.String()), 0o600); err != nil {
		return fmt.Errorf("cannot write known_hosts: %w", err)
	}
	return nil
}

// knownHostAddress formats host:port the way known_hosts stores it.
func knownHostAddress(host string, port int) string {
	if port == 22 {
		return host
	}
	return "[" + host + "]:" + strconv.Itoa(port)
}

// removeKnownHostEntries drops the lines naming host:port. A bare host name
// only refers to port 22. Comments, blank lines and markers are kept.
func removeKnownHostEntries(data []byte, host string, port int) []byte {
	names := map[string]bool{"[" + host + "]:" + strconv.Itoa(port): true}
	if port == 22 {
		names[host] = true
	}

	lines := strings.Split(string(data), "\n")
	kept := lines[:0]
	for _, line := range lines {
		if !lineNamesHost(line, names) {
			kept = append(kept, line)
		}
	}
	return []byte(strings.Join(kept, "\n"))
}

func lineNamesHost(line string, names map[string]bool) bool {
	fields := strings.Fields(line)
	if len(fields) == 0 || strings.HasPrefix(fields[0], "#") {
		return false
	}
	hosts := fields[0]
	if strings.HasPrefix(hosts, "@") {
		if len(fields) < 2 {
			return false
		}
		hosts = fields[1]
	}
	for _, h := range strings.Split(hosts, ",") {
		if names[h] {
			return true
		}
	}
	return false
}

func promptYesNo(prompt string) (bool, error) {
	if !term.IsTerminal(int(os.Stdin.Fd())) {
		return false, fmt.Errorf("cannot prompt for host key trust: stdin is not a terminal")
	}

	fmt.Fprint(os.Stderr, prompt)
	answer, err := bufio.NewReader(os.Stdin).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return false, fmt.Errorf("host key prompt failed: %w", err)
	}

	switch strings.ToLower(strings.TrimSpace(answer)) {
	case "y", "yes":
		return true, nil
	}
	return false, nil
}

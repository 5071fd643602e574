package remote

import (
	"fmt"
	"net"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"golang.org/x/crypto/ssh"
	"golang.org/x/crypto/ssh/agent"
	"golang.org/x/term"
)

// defaultIdentities are tried in order from ~/.ssh.
var defaultIdentities = []string{"id_ed25519", "id_ecdsa", "id_rsa", "id_dsa"}

func parseSSHTarget(target string) (user, host string, err error) {
	if strings.TrimSpace(target) == "" {
		return "", "", fmt.Errorf("remote target is required")
	}
	user, host, ok := strings.Cut(target, "@")
	if !ok || user == "" || host == "" {
		return "", "", fmt.Errorf("invalid remote target %q: expected user@host", target)
	}
	return user, host, nil
}

// hostKeyCallback checks host keys against ~/.ssh/known_hosts.
func hostKeyCallback(host string, port int, batchMode bool) (ssh.HostKeyCallback, error) {
	kh, err := openKnownHosts(batchMode)
	if err != nil {
		return nil, err
	}
	return kh.callback(host, port)
}

// buildAuthMethods offers ssh-agent keys, then unencrypted default keys,
// then (outside batch mode) a password prompt.
func buildAuthMethods(user, host string, batchMode bool) ([]ssh.AuthMethod, error) {
	var methods []ssh.AuthMethod

	if m := agentAuthMethod(); m != nil {
		methods = append(methods, m)
	}
	if signers := identitySigners(); len(signers) > 0 {
		methods = append(methods, ssh.PublicKeys(signers...))
	}
	if !batchMode {
		p := &passwordPrompter{user: user, host: host}
		methods = append(methods,
			ssh.PasswordCallback(p.password),
			ssh.KeyboardInteractive(p.keyboardInteractive))
	}

	if len(methods) == 0 {
		return nil, fmt.Errorf("no SSH auth methods available (configure ssh-agent or private keys, or drop -ssh-batch)")
	}
	return methods, nil
}

func agentAuthMethod() ssh.AuthMethod {
	sock := strings.TrimSpace(os.Getenv("SSH_AUTH_SOCK"))
	if sock == "" {
		return nil
	}
	return ssh.PublicKeysCallback(func() ([]ssh.Signer, error) {
		conn, err := net.Dial("unix", sock)
		if err != nil {
			return nil, err
		}
		defer conn.Close()
		return agent.NewClient(conn).Signers()
	})
}

// identitySigners loads the default private keys that parse without a
// passphrase. Encrypted keys are left to ssh-agent.
func identitySigners() []ssh.Signer {
	dir, err := sshDir()
	if err != nil {
		return nil
	}

	var signers []ssh.Signer
	for _, name := range defaultIdentities {
		pem, err := os.ReadFile(filepath.Join(dir, name))
		if err != nil {
			continue
		}
		if signer, err := ssh.ParsePrivateKey(pem); err == nil {
			signers = append(signers, signer)
		}
	}
	return signers
}

// passwordPrompter asks for the password once per connection and answers
// both password and keyboard-interactive challenges with it.
type passwordPrompter struct {
	user string
	host string

	once sync.Once
	pass string
	err  error
}

func (p *passwordPrompter) password() (string, error) {
	p.once.Do(func() {
		fd := int(os.Stdin.Fd())
		if !term.IsTerminal(fd) {
			p.err = fmt.Errorf("cannot prompt for SSH password: stdin is not a terminal")
			return
		}
		fmt.Fprintf(os.Stderr, "%s@%s's password: ", p.user, p.host)
		b, err := term.ReadPassword(fd)
		fmt.Fprintln(os.Stderr)
		if err != nil {
			p.err = fmt.Errorf("password prompt failed: %w", err)
			return
		}
		p.pass = string(b)
	})
	return p.pass, p.err
}

func (p *passwordPrompter) keyboardInteractive(_, _ string, questions []string, echos []bool) ([]string, error) {
	pass, err := p.password()
	if err != nil {
		return nil, err
	}
	answers := make([]string, len(questions))
	for i := range questions {
		// Echoed questions are not secrets; leave them blank.
		if i < len(echos) && echos[i] {
			continue
		}
		answers[i] = pass
	}
	return answers, nil
}

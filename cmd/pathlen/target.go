package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/sadopc/pathlen/internal/config"
)

type searchTarget struct {
	Remote         bool
	LocalPath      string
	SSHDestination string
	RemotePath     string
}

// splitPositional separates key=value parameters from search targets. An
// existing path is always a target, even when its name contains "=".
func splitPositional(args []string) (targets, params []string) {
	for _, arg := range args {
		if config.IsKeyValue(arg) && !pathExists(arg) {
			params = append(params, arg)
			continue
		}
		targets = append(targets, arg)
	}
	return targets, params
}

// resolveSearchTarget interprets the positional targets. No targets means
// the root comes from the config file, a RootDirectory parameter, or ".".
func resolveSearchTarget(args []string) (searchTarget, error) {
	if len(args) == 0 {
		return searchTarget{}, nil
	}

	first := args[0]
	if pathExists(first) {
		if len(args) > 1 {
			return searchTarget{}, fmt.Errorf("too many positional arguments for local search")
		}
		return searchTarget{LocalPath: first}, nil
	}

	if isRemote, err := validateRemoteTarget(first); isRemote {
		if err != nil {
			return searchTarget{}, err
		}
		if len(args) > 2 {
			return searchTarget{}, fmt.Errorf("too many positional arguments for remote search")
		}

		remotePath := "."
		if len(args) == 2 && strings.TrimSpace(args[1]) != "" {
			remotePath = args[1]
		}

		return searchTarget{
			Remote:         true,
			SSHDestination: first,
			RemotePath:     remotePath,
		}, nil
	}

	if len(args) > 1 {
		return searchTarget{}, fmt.Errorf("too many positional arguments")
	}

	// A missing local root is reported by the search itself.
	return searchTarget{LocalPath: first}, nil
}

func validateRemoteTarget(raw string) (bool, error) {
	if strings.ContainsAny(raw, `/\\`) {
		return false, nil
	}
	if strings.Count(raw, "@") != 1 {
		return false, nil
	}

	user, host, _ := strings.Cut(raw, "@")
	if user == "" || host == "" {
		return true, fmt.Errorf("invalid remote target %q: expected user@host", raw)
	}
	if strings.HasPrefix(user, "-") || strings.HasPrefix(host, "-") {
		return true, fmt.Errorf("invalid remote target %q", raw)
	}
	if strings.ContainsAny(user, " \t\n\r") || strings.ContainsAny(host, " \t\n\r") {
		return true, fmt.Errorf("invalid remote target %q: spaces are not allowed", raw)
	}
	if strings.HasPrefix(host, "[") {
		end := strings.Index(host, "]")
		if end == -1 {
			return true, fmt.Errorf("invalid remote target %q: malformed bracketed host", raw)
		}
		if end == 1 {
			return true, fmt.Errorf("invalid remote target %q: empty host", raw)
		}
		if end != len(host)-1 {
			rest := host[end+1:]
			if strings.HasPrefix(rest, ":") && isAllDigits(rest[1:]) {
				return true, fmt.Errorf("remote target %q must not include :port; use -ssh-port", raw)
			}
			return true, fmt.Errorf("invalid remote target %q: malformed bracketed host", raw)
		}
	} else if strings.Contains(host, "]") {
		return true, fmt.Errorf("invalid remote target %q: malformed bracketed host", raw)
	}
	if looksLikeHostPort(host) {
		return true, fmt.Errorf("remote target %q must not include :port; use -ssh-port", raw)
	}

	return true, nil
}

func looksLikeHostPort(host string) bool {
	if strings.Count(host, ":") != 1 {
		return false
	}
	_, port, _ := strings.Cut(host, ":")
	return isAllDigits(port)
}

func isAllDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

func pathExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

package tunif

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"

	"inet.af/netaddr"
)

// LoadConfig reads a tunif configuration file:
//
//	[Interface]
//	Mode = remote-address
//	RemoteAddress = 192.0.2.10
//	MTU = 1400
//
// Comments (#) and blank lines are skipped, unknown keys are ignored.
// Configurator and Logger are left unset for the caller to fill in.
func LoadConfig(path string) (Config, error) {
	var cfg Config

	file, err := os.Open(path)
	if err != nil {
		return Config{}, err
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)

	var section string
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())

		// Ignore any comments or empty lines
		if len(line) == 0 || line[0] == '#' {
			continue
		}

		// Check if the line starts with a section header
		if line[0] == '[' && line[len(line)-1] == ']' {
			section = line[1 : len(line)-1]
			continue
		}
		if section != "Interface" {
			continue
		}

		// Split the line into key and value parts
		parts := strings.Split(line, " = ")
		if len(parts) != 2 {
			continue
		}
		key := parts[0]
		value := parts[1]

		switch key {
		case "Mode":
			mode, err := ParseMode(value)
			if err != nil {
				return Config{}, err
			}
			cfg.Mode = mode
		case "RemoteAddress":
			ip, err := netaddr.ParseIP(value)
			if err != nil {
				return Config{}, fmt.Errorf("invalid RemoteAddress: %w", err)
			}
			cfg.RemoteAddress = ip
		case "MTU":
			mtu, err := strconv.Atoi(value)
			if err != nil {
				return Config{}, fmt.Errorf("invalid MTU: %w", err)
			}
			cfg.MTU = mtu
		default:
		}
	}
	if err := scanner.Err(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

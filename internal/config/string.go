package config

import (
	"fmt"
	"maps"
	"slices"

	"github.com/atlanticdynamic/parklynx/internal/fancy"
)

// String returns a pretty-printed tree representation of the config
func (c *Config) String() string {
	return ConfigTree(c)
}

// ConfigTree converts a Config struct into a rendered tree string
func ConfigTree(cfg *Config) string {
	t := fancy.Tree()
	t.Root(fancy.RootStyle.Render(fmt.Sprintf("Parklynx Config (%s)", cfg.Version)))

	t.Child(cfg.Logging.ToTree())

	facility := fancy.BranchNode("Facility", "")
	facility.Child(fmt.Sprintf("Capacity: %d", cfg.Facility.Capacity))
	facility.Child(fmt.Sprintf("Hourly rate: %s", fancy.MoneyText(fmt.Sprintf("%.2f", cfg.Facility.HourlyRate))))
	t.Child(facility)

	tariffNode := fancy.BranchNode("Tariff", string(cfg.Tariff.Type))
	switch cfg.Tariff.Type {
	case TariffScript:
		if cfg.Tariff.URI != "" {
			tariffNode.Child(fmt.Sprintf("URI: %s", fancy.PathText(cfg.Tariff.URI)))
		} else {
			tariffNode.Child(fmt.Sprintf("Code: %s", fancy.TruncateString(cfg.Tariff.Code, 40)))
		}
		tariffNode.Child(fmt.Sprintf("Timeout: %s", cfg.Tariff.Timeout))
	default:
		tariffNode.Child(fmt.Sprintf("Base fee: %.2f", cfg.Tariff.BaseFee))
		tariffNode.Child(fmt.Sprintf("Rate: %.2f per %s", cfg.Tariff.Rate, cfg.Tariff.Unit))
	}
	t.Child(tariffNode)

	server := fancy.BranchNode("Server", cfg.Server.Listen)
	server.Child(fmt.Sprintf("Drain timeout: %s", cfg.Server.DrainTimeout))
	server.Child(fmt.Sprintf("Read timeout: %s", cfg.Server.ReadTimeout))
	server.Child(fmt.Sprintf("Pace delay: %s", cfg.Server.PaceDelay))
	if len(cfg.Server.Headers) > 0 {
		headers := fancy.BranchNode("Headers", fmt.Sprintf("(%d)", len(cfg.Server.Headers)))
		for _, name := range slices.Sorted(maps.Keys(cfg.Server.Headers)) {
			headers.Child(fmt.Sprintf("%s: %s", name, cfg.Server.Headers[name]))
		}
		server.Child(headers)
	}
	t.Child(server)

	return t.String()
}

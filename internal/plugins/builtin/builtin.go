// Package builtin wires the first-party plugin palette into a registry.
// Both cmd/quilt and test harnesses call RegisterDefaults to avoid
// duplicating registration logic.
package builtin

import (
	"github.com/quiltlabs/quilt/internal/plugins"
	"github.com/quiltlabs/quilt/internal/plugins/analytics"
	"github.com/quiltlabs/quilt/internal/plugins/bot"
	"github.com/quiltlabs/quilt/internal/plugins/defi"
	"github.com/quiltlabs/quilt/internal/plugins/scaffold"
	"github.com/quiltlabs/quilt/internal/plugins/stylus"
	"github.com/quiltlabs/quilt/internal/plugins/walletauth"
)

// AllowList is the vetted id set for the first-party palette. Generation
// never accepts a plugin outside this list.
func AllowList() []string {
	return []string{
		"nextjs-scaffold",
		"express-api",
		"wallet-auth",
		"erc20-stylus",
		"erc721-stylus",
		"aave-market",
		"dune-analytics",
		"telegram-bot",
	}
}

// NewRegistry builds the default allow-listed registry with every
// first-party plugin registered.
func NewRegistry() (*plugins.Registry, error) {
	reg := plugins.NewRegistry(AllowList())
	if err := RegisterDefaults(reg); err != nil {
		return nil, err
	}
	return reg, nil
}

// RegisterDefaults registers all first-party plugins into reg.
func RegisterDefaults(reg *plugins.Registry) error {
	all := []plugins.Plugin{
		scaffold.NewNextJS(),
		scaffold.NewExpress(),
		walletauth.New(),
		stylus.NewERC20(),
		stylus.NewERC721(),
		defi.NewAave(),
		analytics.NewDune(),
		bot.NewTelegram(),
	}
	for _, p := range all {
		if err := reg.Register(p); err != nil {
			return err
		}
	}
	return nil
}

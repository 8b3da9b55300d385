// Package stylus provides the Arbitrum Stylus smart-contract template
// plugins. Each ships its contract crate as a pre-built component package
// whose Rust source tree is routed through the resolver with its internal
// hierarchy intact.
package stylus

import (
	"fmt"
	"strings"

	"github.com/quiltlabs/quilt/internal/codegen"
	"github.com/quiltlabs/quilt/internal/plugins"
)

// contractRouting routes a contract crate's files into the contracts tree,
// preserving src/ layout. Anything unmatched keeps its emitted path.
func contractRouting() []plugins.RouteRule {
	return []plugins.RouteRule{
		{Pattern: "**/*.rs", Category: codegen.CategoryContractSource},
		{Pattern: "Cargo.toml", Category: codegen.CategoryContractSource},
		{Pattern: "rust-toolchain.toml", Category: codegen.CategoryContractSource},
	}
}

func cargoToml(crate string) string {
	return fmt.Sprintf(`[package]
name = "%s"
version = "0.1.0"
edition = "2021"

[dependencies]
stylus-sdk = "0.6"
alloy-primitives = "0.7"
alloy-sol-types = "0.7"

[features]
export-abi = ["stylus-sdk/export-abi"]

[lib]
crate-type = ["lib", "cdylib"]

[profile.release]
codegen-units = 1
strip = true
lto = true
panic = "abort"
opt-level = "s"
`, crate)
}

const rustToolchain = `[toolchain]
channel = "1.80"
targets = ["wasm32-unknown-unknown"]
`

func deployDoc(kind, crate string) codegen.Doc {
	return codegen.Doc{
		Title: fmt.Sprintf("%s contract", kind),
		Body: strings.TrimSpace(fmt.Sprintf(`The %s contract is an Arbitrum Stylus crate (%s).

Build and deploy:

    cargo install cargo-stylus
    cargo stylus check
    cargo stylus deploy --private-key <KEY> --endpoint https://sepolia-rollup.arbitrum.io/rpc
`, kind, crate)) + "\n",
	}
}

func deployEnvVars() []codegen.EnvVar {
	return []codegen.EnvVar{
		{Key: "DEPLOYER_PRIVATE_KEY", Description: "Key used by cargo stylus deploy", Secret: true},
		{Key: "ARBITRUM_RPC_URL", Description: "Arbitrum RPC endpoint", Example: "https://sepolia-rollup.arbitrum.io/rpc"},
	}
}

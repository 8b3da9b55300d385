package stylus

import (
	"context"
	"fmt"
	"strings"

	"github.com/quiltlabs/quilt/internal/blueprint"
	"github.com/quiltlabs/quilt/internal/codegen"
	"github.com/quiltlabs/quilt/internal/plugins"
)

// ERC20 generates a feature-gated ERC-20 Stylus token crate plus the
// frontend binding hook.
type ERC20 struct {
	schema plugins.ConfigSchema
}

func NewERC20() *ERC20 {
	return &ERC20{schema: plugins.ConfigSchema{Fields: []plugins.FieldSpec{
		{Name: "tokenName", Type: plugins.FieldString, Required: true},
		{Name: "tokenSymbol", Type: plugins.FieldString, Required: true},
		{Name: "decimals", Type: plugins.FieldNumber, Default: 18},
		{Name: "mintable", Type: plugins.FieldBoolean, Default: true},
		{Name: "burnable", Type: plugins.FieldBoolean, Default: false},
		{Name: "pausable", Type: plugins.FieldBoolean, Default: false},
	}}}
}

func (p *ERC20) Metadata() plugins.Metadata {
	return plugins.Metadata{
		ID:       "erc20-stylus",
		Name:     "ERC-20 Token (Stylus)",
		Version:  "1.3.0",
		Category: "contract",
	}
}

func (p *ERC20) Validate(node *blueprint.Node) plugins.ValidationResult {
	return p.schema.ValidateConfig(node)
}

func (p *ERC20) Generate(_ context.Context, node *blueprint.Node, _ codegen.PathContext) (*codegen.Output, error) {
	name := node.ConfigString("tokenName", "Token")
	symbol := node.ConfigString("tokenSymbol", "TKN")
	mintable := node.ConfigBool("mintable", true)
	burnable := node.ConfigBool("burnable", false)

	return &codegen.Output{
		Files: []codegen.File{
			{Path: "useToken.ts", Category: codegen.CategoryFrontendHooks, Content: useTokenHook(name, symbol, mintable, burnable)},
		},
		EnvVars: deployEnvVars(),
		Docs:    []codegen.Doc{deployDoc("ERC-20", "erc20-token")},
	}, nil
}

// ComponentPackage ships the contract crate verbatim.
func (p *ERC20) ComponentPackage() []plugins.PackageFile {
	return []plugins.PackageFile{
		{Path: "Cargo.toml", Content: cargoToml("erc20-token")},
		{Path: "rust-toolchain.toml", Content: rustToolchain},
		{Path: "src/lib.rs", Content: erc20Lib},
	}
}

func (p *ERC20) PackageRouting() []plugins.RouteRule { return contractRouting() }

func useTokenHook(name, symbol string, mintable, burnable bool) string {
	var b strings.Builder
	fmt.Fprintf(&b, `import { useReadContract, useWriteContract } from 'wagmi';
import { erc20Abi } from 'viem';

const TOKEN_ADDRESS = process.env.NEXT_PUBLIC_TOKEN_ADDRESS as `+"`0x${string}`"+`;

// %s (%s)
export function useTokenBalance(address?: `+"`0x${string}`"+`) {
  return useReadContract({
    address: TOKEN_ADDRESS,
    abi: erc20Abi,
    functionName: 'balanceOf',
    args: address ? [address] : undefined,
  });
}

export function useTokenTransfer() {
  const { writeContract, ...rest } = useWriteContract();
  const transfer = (to: `+"`0x${string}`"+`, amount: bigint) =>
    writeContract({
      address: TOKEN_ADDRESS,
      abi: erc20Abi,
      functionName: 'transfer',
      args: [to, amount],
    });
  return { transfer, ...rest };
}
`, name, symbol)

	if mintable {
		b.WriteString(`
export function useTokenMint() {
  const { writeContract, ...rest } = useWriteContract();
  const mint = (to: ` + "`0x${string}`" + `, amount: bigint) =>
    writeContract({
      address: TOKEN_ADDRESS,
      abi: erc20Abi,
      functionName: 'mint',
      args: [to, amount],
    });
  return { mint, ...rest };
}
`)
	}
	if burnable {
		b.WriteString(`
export function useTokenBurn() {
  const { writeContract, ...rest } = useWriteContract();
  const burn = (amount: bigint) =>
    writeContract({
      address: TOKEN_ADDRESS,
      abi: erc20Abi,
      functionName: 'burn',
      args: [amount],
    });
  return { burn, ...rest };
}
`)
	}
	return b.String()
}

// erc20Lib is the Stylus token crate source. Initialization happens through
// an explicit initialize call since Stylus contracts have no constructors.
var erc20Lib = strings.TrimLeft(`
//! ERC-20 token for Arbitrum Stylus.

#![cfg_attr(not(feature = "export-abi"), no_main)]
extern crate alloc;

use alloc::string::String;
use alloc::vec::Vec;
use stylus_sdk::{
    alloy_primitives::{Address, U256},
    alloy_sol_types::sol,
    evm, msg,
    prelude::*,
};

sol! {
    event Transfer(address indexed from, address indexed to, uint256 value);
    event Approval(address indexed owner, address indexed spender, uint256 value);
    event OwnershipTransferred(address indexed previousOwner, address indexed newOwner);

    error InsufficientBalance(address from, uint256 available, uint256 required);
    error InsufficientAllowance(address spender, uint256 available, uint256 required);
    error UnauthorizedAccount(address account);
}

sol_storage! {
    #[entrypoint]
    pub struct ERC20Token {
        string name;
        string symbol;
        uint8 decimals;
        uint256 total_supply;
        mapping(address => uint256) balances;
        mapping(address => mapping(address => uint256)) allowances;
        address owner;
        bool initialized;
    }
}

#[public]
impl ERC20Token {
    pub fn initialize(
        &mut self,
        name: String,
        symbol: String,
        decimals: u8,
        initial_supply: U256,
        owner: Address,
    ) -> Result<(), Vec<u8>> {
        if self.initialized.get() {
            return Err("Already initialized".into());
        }
        self.name.set_str(&name);
        self.symbol.set_str(&symbol);
        self.decimals.set(U256::from(decimals));
        self.owner.set(owner);
        self.initialized.set(true);
        if initial_supply > U256::ZERO {
            self.mint_internal(owner, initial_supply)?;
        }
        evm::log(OwnershipTransferred {
            previousOwner: Address::ZERO,
            newOwner: owner,
        });
        Ok(())
    }

    pub fn name(&self) -> String {
        self.name.get_string()
    }

    pub fn symbol(&self) -> String {
        self.symbol.get_string()
    }

    pub fn decimals(&self) -> u8 {
        self.decimals.get().try_into().unwrap_or(18)
    }

    pub fn total_supply(&self) -> U256 {
        self.total_supply.get()
    }

    pub fn balance_of(&self, account: Address) -> U256 {
        self.balances.get(account)
    }

    pub fn transfer(&mut self, to: Address, value: U256) -> Result<bool, Vec<u8>> {
        let from = msg::sender();
        self.transfer_internal(from, to, value)?;
        Ok(true)
    }

    pub fn approve(&mut self, spender: Address, value: U256) -> Result<bool, Vec<u8>> {
        let owner = msg::sender();
        self.allowances.setter(owner).insert(spender, value);
        evm::log(Approval { owner, spender, value });
        Ok(true)
    }

    pub fn transfer_from(&mut self, from: Address, to: Address, value: U256) -> Result<bool, Vec<u8>> {
        let spender = msg::sender();
        let allowance = self.allowances.get(from).get(spender);
        if allowance < value {
            return Err("Insufficient allowance".into());
        }
        self.allowances.setter(from).insert(spender, allowance - value);
        self.transfer_internal(from, to, value)?;
        Ok(true)
    }

    pub fn mint(&mut self, to: Address, value: U256) -> Result<(), Vec<u8>> {
        self.only_owner()?;
        self.mint_internal(to, value)
    }

    pub fn burn(&mut self, value: U256) -> Result<(), Vec<u8>> {
        let from = msg::sender();
        let balance = self.balances.get(from);
        if balance < value {
            return Err("Insufficient balance".into());
        }
        self.balances.insert(from, balance - value);
        self.total_supply.set(self.total_supply.get() - value);
        evm::log(Transfer { from, to: Address::ZERO, value });
        Ok(())
    }
}

impl ERC20Token {
    fn only_owner(&self) -> Result<(), Vec<u8>> {
        if msg::sender() != self.owner.get() {
            return Err("Unauthorized".into());
        }
        Ok(())
    }

    fn mint_internal(&mut self, to: Address, value: U256) -> Result<(), Vec<u8>> {
        let balance = self.balances.get(to);
        self.balances.insert(to, balance + value);
        self.total_supply.set(self.total_supply.get() + value);
        evm::log(Transfer { from: Address::ZERO, to, value });
        Ok(())
    }

    fn transfer_internal(&mut self, from: Address, to: Address, value: U256) -> Result<(), Vec<u8>> {
        let from_balance = self.balances.get(from);
        if from_balance < value {
            return Err("Insufficient balance".into());
        }
        self.balances.insert(from, from_balance - value);
        let to_balance = self.balances.get(to);
        self.balances.insert(to, to_balance + value);
        evm::log(Transfer { from, to, value });
        Ok(())
    }
}
`, "\n")

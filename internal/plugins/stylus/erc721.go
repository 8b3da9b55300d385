package stylus

import (
	"context"
	"fmt"
	"strings"

	"github.com/quiltlabs/quilt/internal/blueprint"
	"github.com/quiltlabs/quilt/internal/codegen"
	"github.com/quiltlabs/quilt/internal/plugins"
)

// ERC721 generates an ERC-721 Stylus NFT crate plus a minting hook.
type ERC721 struct {
	schema plugins.ConfigSchema
}

func NewERC721() *ERC721 {
	return &ERC721{schema: plugins.ConfigSchema{Fields: []plugins.FieldSpec{
		{Name: "collectionName", Type: plugins.FieldString, Required: true},
		{Name: "collectionSymbol", Type: plugins.FieldString, Required: true},
		{Name: "baseUri", Type: plugins.FieldString},
		{Name: "maxSupply", Type: plugins.FieldNumber},
	}}}
}

func (p *ERC721) Metadata() plugins.Metadata {
	return plugins.Metadata{
		ID:       "erc721-stylus",
		Name:     "ERC-721 NFT (Stylus)",
		Version:  "1.1.0",
		Category: "contract",
	}
}

func (p *ERC721) Validate(node *blueprint.Node) plugins.ValidationResult {
	return p.schema.ValidateConfig(node)
}

func (p *ERC721) Generate(_ context.Context, node *blueprint.Node, _ codegen.PathContext) (*codegen.Output, error) {
	name := node.ConfigString("collectionName", "Collection")
	symbol := node.ConfigString("collectionSymbol", "NFT")

	return &codegen.Output{
		Files: []codegen.File{
			{Path: "useNft.ts", Category: codegen.CategoryFrontendHooks, Content: useNftHook(name, symbol)},
		},
		EnvVars: deployEnvVars(),
		Docs:    []codegen.Doc{deployDoc("ERC-721", "erc721-nft")},
	}, nil
}

// ComponentPackage ships the contract crate verbatim.
func (p *ERC721) ComponentPackage() []plugins.PackageFile {
	return []plugins.PackageFile{
		{Path: "Cargo.toml", Content: cargoToml("erc721-nft")},
		{Path: "rust-toolchain.toml", Content: rustToolchain},
		{Path: "src/lib.rs", Content: erc721Lib},
	}
}

func (p *ERC721) PackageRouting() []plugins.RouteRule { return contractRouting() }

func useNftHook(name, symbol string) string {
	return fmt.Sprintf(`import { useReadContract, useWriteContract } from 'wagmi';
import { erc721Abi } from 'viem';

const NFT_ADDRESS = process.env.NEXT_PUBLIC_NFT_ADDRESS as `+"`0x${string}`"+`;

// %s (%s)
export function useNftBalance(address?: `+"`0x${string}`"+`) {
  return useReadContract({
    address: NFT_ADDRESS,
    abi: erc721Abi,
    functionName: 'balanceOf',
    args: address ? [address] : undefined,
  });
}

export function useNftOwner(tokenId: bigint) {
  return useReadContract({
    address: NFT_ADDRESS,
    abi: erc721Abi,
    functionName: 'ownerOf',
    args: [tokenId],
  });
}

export function useNftTransfer() {
  const { writeContract, ...rest } = useWriteContract();
  const transfer = (from: `+"`0x${string}`"+`, to: `+"`0x${string}`"+`, tokenId: bigint) =>
    writeContract({
      address: NFT_ADDRESS,
      abi: erc721Abi,
      functionName: 'transferFrom',
      args: [from, to, tokenId],
    });
  return { transfer, ...rest };
}
`, name, symbol)
}

var erc721Lib = strings.TrimLeft(`
//! ERC-721 NFT for Arbitrum Stylus.

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
    event Transfer(address indexed from, address indexed to, uint256 indexed tokenId);
    event Approval(address indexed owner, address indexed approved, uint256 indexed tokenId);

    error NonexistentToken(uint256 tokenId);
    error NotOwnerOrApproved(address caller, uint256 tokenId);
    error InvalidReceiver(address receiver);
}

sol_storage! {
    #[entrypoint]
    pub struct ERC721Token {
        string name;
        string symbol;
        string base_uri;
        uint256 next_token_id;
        uint256 max_supply;
        mapping(uint256 => address) owners;
        mapping(address => uint256) balances;
        mapping(uint256 => address) token_approvals;
        address owner;
        bool initialized;
    }
}

#[public]
impl ERC721Token {
    pub fn initialize(
        &mut self,
        name: String,
        symbol: String,
        base_uri: String,
        max_supply: U256,
        owner: Address,
    ) -> Result<(), Vec<u8>> {
        if self.initialized.get() {
            return Err("Already initialized".into());
        }
        self.name.set_str(&name);
        self.symbol.set_str(&symbol);
        self.base_uri.set_str(&base_uri);
        self.max_supply.set(max_supply);
        self.owner.set(owner);
        self.initialized.set(true);
        Ok(())
    }

    pub fn name(&self) -> String {
        self.name.get_string()
    }

    pub fn symbol(&self) -> String {
        self.symbol.get_string()
    }

    pub fn balance_of(&self, account: Address) -> U256 {
        self.balances.get(account)
    }

    pub fn owner_of(&self, token_id: U256) -> Result<Address, Vec<u8>> {
        let owner = self.owners.get(token_id);
        if owner == Address::ZERO {
            return Err("Nonexistent token".into());
        }
        Ok(owner)
    }

    pub fn mint(&mut self, to: Address) -> Result<U256, Vec<u8>> {
        if msg::sender() != self.owner.get() {
            return Err("Unauthorized".into());
        }
        if to == Address::ZERO {
            return Err("Invalid receiver".into());
        }
        let token_id = self.next_token_id.get();
        let max = self.max_supply.get();
        if max > U256::ZERO && token_id >= max {
            return Err("Max supply reached".into());
        }
        self.next_token_id.set(token_id + U256::from(1));
        self.owners.insert(token_id, to);
        let balance = self.balances.get(to);
        self.balances.insert(to, balance + U256::from(1));
        evm::log(Transfer { from: Address::ZERO, to, tokenId: token_id });
        Ok(token_id)
    }

    pub fn transfer_from(&mut self, from: Address, to: Address, token_id: U256) -> Result<(), Vec<u8>> {
        let owner = self.owner_of(token_id)?;
        let caller = msg::sender();
        if caller != owner && self.token_approvals.get(token_id) != caller {
            return Err("Not owner or approved".into());
        }
        if owner != from || to == Address::ZERO {
            return Err("Invalid transfer".into());
        }
        self.token_approvals.insert(token_id, Address::ZERO);
        let from_balance = self.balances.get(from);
        self.balances.insert(from, from_balance - U256::from(1));
        let to_balance = self.balances.get(to);
        self.balances.insert(to, to_balance + U256::from(1));
        self.owners.insert(token_id, to);
        evm::log(Transfer { from, to, tokenId: token_id });
        Ok(())
    }

    pub fn approve(&mut self, approved: Address, token_id: U256) -> Result<(), Vec<u8>> {
        let owner = self.owner_of(token_id)?;
        if msg::sender() != owner {
            return Err("Not owner".into());
        }
        self.token_approvals.insert(token_id, approved);
        evm::log(Approval { owner, approved, tokenId: token_id });
        Ok(())
    }

    pub fn token_uri(&self, token_id: U256) -> Result<String, Vec<u8>> {
        self.owner_of(token_id)?;
        let mut uri = self.base_uri.get_string();
        uri.push_str(&token_id.to_string());
        Ok(uri)
    }
}
`, "\n")

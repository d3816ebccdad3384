/*
Package cash is the value-transfer service of the ledger.

Every principal owns a wallet holding a single balance of minor units. Coins
are only created by the genesis initializer or CoinMint and are moved between
wallets with MoveCoins. Pools, the matching fund and distributions never hold
balances themselves: they move coins between wallets owned by condition
addresses.
*/
package cash

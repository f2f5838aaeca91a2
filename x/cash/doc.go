/*
Package cash is the token ledger.

A wallet holds a set of coins under an address. Moving coins out of a
wallet requires its authority: the address named in the wallet, or the
wallet address itself when none is named. Program owned wallets (the escrow
vaults) carry the program derived address as authority, so only the
program presenting the right seeds can spend them.

Besides transfers the controller allocates (Open) and releases (Close)
wallets, which lets other extensions treat a wallet as a resource that
exists exactly as long as the record governing it.
*/
package cash

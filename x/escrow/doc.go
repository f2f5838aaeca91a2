/*
Package escrow implements a two party conditional token swap.

An initializer deposits a fixed amount of one token into a vault and names
the amount of another token expected in return. A taker may exchange both
amounts atomically, or the initializer may cancel and take the deposit back
while the escrow is still open.

Addresses are program derived (see x/pda):

	escrow = pda("escrow", "escrow" | initializer | le64(seed))
	vault  = pda("escrow", "vault" | escrow)

The vault is a cash wallet whose authority is the escrow address. Only this
package can present the seeds of an escrow, so only this package can spend
a vault, and only through Cancel or Exchange.

An escrow is removed from the store when it is cancelled or exchanged, so
"not found" is the terminal state clients observe.
*/
package escrow

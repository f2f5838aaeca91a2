/*
Package pda implements program derived addresses.

A program derived address is computed from a program name, a list of seeds
and a single bump byte. Nobody holds a private key for it. A program proves
that it may act for such an address by presenting the exact seeds and bump
that produced it. The authenticator in this package re-derives the address
and only grants it when the derivation matches.

A derivation is viable only when the digest of the resulting condition is
not a point on the ed25519 curve. Find walks the bump down from 255 and
returns the first viable one, which is called the canonical bump.
*/
package pda
